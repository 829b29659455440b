package domain

// ActionType is a draft action's kind.
type ActionType string

const (
	ActionBan  ActionType = "ban"
	ActionPick ActionType = "pick"
)

// ChampionSkipped is the sentinel stored as a DraftAction's champion key and
// name when it was auto-skipped on timeout.
const ChampionSkipped = "SKIPPED"

// TimeoutPlayer is the synthetic byPlayer recorded for an auto-skipped
// action.
const TimeoutPlayer Identity = "TIMEOUT"

// TotalActions is the number of actions in a draft.
const TotalActions = 20

// DraftAction is one of the 20 pick/ban steps. An action is open while
// ChampionKey is nil, completed once it holds a champion key, and skipped
// once it holds the ChampionSkipped sentinel.
type DraftAction struct {
	Index        int        `json:"index"`
	Type         ActionType `json:"type"`
	Team         Side       `json:"team"`
	PlayerSlot   LaneRole   `json:"playerSlot"`
	ChampionKey  *string    `json:"championKey"`
	ChampionName *string    `json:"championName"`
	ByPlayer     *Identity  `json:"byPlayer"`
}

// IsOpen reports whether the action has not yet been resolved.
func (a DraftAction) IsOpen() bool { return a.ChampionKey == nil }

// IsSkipped reports whether the action was auto-skipped on timeout.
func (a DraftAction) IsSkipped() bool {
	return a.ChampionKey != nil && *a.ChampionKey == ChampionSkipped
}

// IsCompleted reports whether the action holds a real champion selection.
func (a DraftAction) IsCompleted() bool {
	return a.ChampionKey != nil && *a.ChampionKey != ChampionSkipped
}

// EngineState is the draft engine's own state machine, distinct from the
// per-action status above: created -> running -> completed -> confirmed,
// with cancelled reachable from any state.
type EngineState string

const (
	EngineCreated   EngineState = "created"
	EngineRunning   EngineState = "running"
	EngineCompleted EngineState = "completed"
	EngineConfirmed EngineState = "confirmed"
	EngineCancelled EngineState = "cancelled"
)

// DraftState is the ephemeral (and, serialized, persisted) state of one
// match's draft.
type DraftState struct {
	MatchID           int64                  `json:"matchId"`
	Actions           [TotalActions]DraftAction `json:"actions"`
	CurrentIndex      int                    `json:"currentIndex"`
	LastActionStartMs int64                  `json:"lastActionStartMs"`
	ConfirmStartMs    int64                  `json:"confirmStartMs,omitempty"`
	Team1             [5]RosterSlot          `json:"team1"`
	Team2             [5]RosterSlot          `json:"team2"`
	Confirmations     map[string]Identity    `json:"confirmations"`
	State             EngineState            `json:"state"`
}

// NewDraftState builds the initial (all-open) state for a match's two
// rosters, per the fixed phase table.
func NewDraftState(matchID int64, phases [TotalActions]Phase, team1, team2 [5]RosterSlot) *DraftState {
	ds := &DraftState{
		MatchID:       matchID,
		Team1:         team1,
		Team2:         team2,
		Confirmations: make(map[string]Identity),
		State:         EngineCreated,
	}
	for i, p := range phases {
		ds.Actions[i] = DraftAction{
			Index:      p.Index,
			Type:       p.Type,
			Team:       p.Team,
			PlayerSlot: p.PlayerSlot,
		}
	}
	return ds
}

// Phase is one row of the fixed 20-action order.
type Phase struct {
	Index      int
	Type       ActionType
	Team       Side
	PlayerSlot LaneRole
}

// UsedChampionKeys returns the set of normalized champion keys already
// consumed by any completed action (bans and picks share the space).
func (d *DraftState) UsedChampionKeys() map[string]struct{} {
	used := make(map[string]struct{}, TotalActions)
	for _, a := range d.Actions {
		if a.IsCompleted() {
			used[*a.ChampionKey] = struct{}{}
		}
	}
	return used
}

// TeamPickedKeys returns the keys already picked (not banned) by one team,
// used by bot auto-play to avoid doubling up within a team.
func (d *DraftState) TeamPickedKeys(team Side) map[string]struct{} {
	used := make(map[string]struct{})
	for _, a := range d.Actions {
		if a.Type == ActionPick && a.Team == team && a.IsCompleted() {
			used[*a.ChampionKey] = struct{}{}
		}
	}
	return used
}

// RosterOf returns the roster slice for a side.
func (d *DraftState) RosterOf(team Side) [5]RosterSlot {
	if team == SideBlue {
		return d.Team1
	}
	return d.Team2
}
