package draft

import (
	"encoding/json"
	"fmt"

	"github.com/riftforge/draftorch/internal/domain"
)

// playerAction is one roster member's view of their own actions, nested
// under teams.<side>.players[n].
type playerAction struct {
	Index        int    `json:"index"`
	Type         string `json:"type"`
	ChampionID   string `json:"championId,omitempty"`
	ChampionName string `json:"championName,omitempty"`
	Phase        string `json:"phase"`
	Status       string `json:"status"`
}

type playerView struct {
	SummonerName string         `json:"summonerName"`
	AssignedLane string         `json:"assignedLane"`
	TeamIndex    int            `json:"teamIndex"`
	MMR          float64        `json:"mmr"`
	Actions      []playerAction `json:"actions"`
	Bans         []string       `json:"bans"`
	Picks        []string       `json:"picks"`
}

type teamView struct {
	Name       string       `json:"name"`
	TeamNumber int          `json:"teamNumber"`
	AverageMMR float64      `json:"averageMmr"`
	AllBans    []string     `json:"allBans"`
	AllPicks   []string     `json:"allPicks"`
	Players    []playerView `json:"players"`
}

type flatAction struct {
	Index        int     `json:"index"`
	Type         string  `json:"type"`
	Team         int     `json:"team"`
	PlayerSlot   string  `json:"playerSlot"`
	ChampionID   *string `json:"championId"`
	ChampionName *string `json:"championName"`
	ByPlayer     *string `json:"byPlayer"`
}

type flatSlot struct {
	Identity    string  `json:"identity"`
	Lane        string  `json:"lane"`
	SkillRating float64 `json:"skillRating"`
	IsAutofill  bool    `json:"isAutofill"`
}

// serializedState is the contract shape persisted into matches.draftJson
// and broadcast in draft_updated: both a hierarchical blue/red view and a
// flat compat view are present, regenerated from the same flat source of
// truth (Actions) on every persist.
type serializedState struct {
	CurrentIndex      int      `json:"currentIndex"`
	CurrentPhase      string   `json:"currentPhase"`
	CurrentTeam       int      `json:"currentTeam,omitempty"`
	CurrentActionType string   `json:"currentActionType,omitempty"`
	Teams             teamsObj `json:"teams"`
	Team1             []flatSlot `json:"team1"`
	Team2             []flatSlot `json:"team2"`
	Actions           []flatAction `json:"actions"`
	Confirmations     map[string]string `json:"confirmations,omitempty"`
	ConfirmStartMs    int64             `json:"confirmStartMs,omitempty"`
}

type teamsObj struct {
	Blue teamView `json:"blue"`
	Red  teamView `json:"red"`
}

func phaseLabel(p domain.Phase) string {
	switch {
	case p.Type == domain.ActionBan && p.Index < 6:
		return "ban1"
	case p.Type == domain.ActionPick && p.Index < 12:
		return "pick1"
	case p.Type == domain.ActionBan:
		return "ban2"
	default:
		return "pick2"
	}
}

func actionStatus(a domain.DraftAction) string {
	switch {
	case a.IsSkipped():
		return "skipped"
	case a.IsCompleted():
		return "completed"
	default:
		return "open"
	}
}

func buildPlayerView(slot domain.RosterSlot, team domain.Side, teamIndex int, actions [domain.TotalActions]domain.DraftAction) playerView {
	pv := playerView{
		SummonerName: string(slot.Identity),
		AssignedLane: string(slot.Lane),
		TeamIndex:    teamIndex,
		MMR:          slot.SkillRating,
		Bans:         []string{},
		Picks:        []string{},
	}
	for _, a := range actions {
		if a.Team != team || domain.LaneIndex(a.PlayerSlot) != teamIndex {
			continue
		}
		key, name := "", ""
		if a.ChampionKey != nil {
			key = *a.ChampionKey
		}
		if a.ChampionName != nil {
			name = *a.ChampionName
		}
		pv.Actions = append(pv.Actions, playerAction{
			Index:        a.Index,
			Type:         string(a.Type),
			ChampionID:   key,
			ChampionName: name,
			Phase:        phaseLabel(Phases[a.Index]),
			Status:       actionStatus(a),
		})
		if a.IsCompleted() {
			if a.Type == domain.ActionBan {
				pv.Bans = append(pv.Bans, key)
			} else {
				pv.Picks = append(pv.Picks, key)
			}
		}
	}
	return pv
}

func buildTeamView(name string, number int, roster [5]domain.RosterSlot, team domain.Side, actions [domain.TotalActions]domain.DraftAction) teamView {
	tv := teamView{Name: name, TeamNumber: number, AllBans: []string{}, AllPicks: []string{}}
	var sum float64
	for i, slot := range roster {
		sum += slot.SkillRating
		tv.Players = append(tv.Players, buildPlayerView(slot, team, i, actions))
	}
	tv.AverageMMR = sum / float64(len(roster))
	for _, a := range actions {
		if a.Team != team || !a.IsCompleted() {
			continue
		}
		if a.Type == domain.ActionBan {
			tv.AllBans = append(tv.AllBans, *a.ChampionKey)
		} else {
			tv.AllPicks = append(tv.AllPicks, *a.ChampionKey)
		}
	}
	return tv
}

func flatSlots(roster [5]domain.RosterSlot) []flatSlot {
	out := make([]flatSlot, len(roster))
	for i, s := range roster {
		out[i] = flatSlot{
			Identity:    string(s.Identity),
			Lane:        string(s.Lane),
			SkillRating: s.SkillRating,
			IsAutofill:  s.IsAutofill,
		}
	}
	return out
}

// Serialize renders the draft state into the dual hierarchical+flat
// contract shape.
func Serialize(state *domain.DraftState) ([]byte, error) {
	currentPhase := "completed"
	var currentTeam int
	var currentActionType string
	if state.CurrentIndex < domain.TotalActions {
		p := Phases[state.CurrentIndex]
		currentPhase = phaseLabel(p)
		currentTeam = int(p.Team)
		currentActionType = string(p.Type)
	}

	out := serializedState{
		CurrentIndex:      state.CurrentIndex,
		CurrentPhase:      currentPhase,
		CurrentTeam:       currentTeam,
		CurrentActionType: currentActionType,
		Teams: teamsObj{
			Blue: buildTeamView("Blue Team", int(domain.SideBlue), state.Team1, domain.SideBlue, state.Actions),
			Red:  buildTeamView("Red Team", int(domain.SideRed), state.Team2, domain.SideRed, state.Actions),
		},
		Team1:          flatSlots(state.Team1),
		Team2:          flatSlots(state.Team2),
		ConfirmStartMs: state.ConfirmStartMs,
	}
	if len(state.Confirmations) > 0 {
		out.Confirmations = make(map[string]string, len(state.Confirmations))
		for k, v := range state.Confirmations {
			out.Confirmations[k] = string(v)
		}
	}
	for _, a := range state.Actions {
		out.Actions = append(out.Actions, flatAction{
			Index:        a.Index,
			Type:         string(a.Type),
			Team:         int(a.Team),
			PlayerSlot:   string(a.PlayerSlot),
			ChampionID:   a.ChampionKey,
			ChampionName: a.ChampionName,
			ByPlayer:     (*string)(a.ByPlayer),
		})
	}
	return json.Marshal(out)
}

// Deserialize reconstructs a DraftState's flat source of truth (actions,
// currentIndex, rosters, confirmations, confirmStartMs) from a
// previously-serialized blob. The hierarchical team view is not read
// back; it is always regenerated from the flat actions on the next
// Serialize call.
func Deserialize(matchID int64, data []byte) (*domain.DraftState, error) {
	var in serializedState
	if err := json.Unmarshal(data, &in); err != nil {
		return nil, fmt.Errorf("draft: deserialize: %w", err)
	}
	if len(in.Actions) != domain.TotalActions {
		return nil, fmt.Errorf("draft: deserialize: expected %d actions, got %d", domain.TotalActions, len(in.Actions))
	}

	state := &domain.DraftState{
		MatchID:        matchID,
		CurrentIndex:   in.CurrentIndex,
		Confirmations:  make(map[string]domain.Identity, len(in.Confirmations)),
		ConfirmStartMs: in.ConfirmStartMs,
		State:          domain.EngineRunning,
	}
	for k, v := range in.Confirmations {
		state.Confirmations[k] = domain.Identity(v)
	}
	if in.CurrentIndex >= domain.TotalActions {
		state.State = domain.EngineCompleted
	}
	for i, fa := range in.Actions {
		state.Actions[i] = domain.DraftAction{
			Index:        fa.Index,
			Type:         domain.ActionType(fa.Type),
			Team:         domain.Side(fa.Team),
			PlayerSlot:   domain.LaneRole(fa.PlayerSlot),
			ChampionKey:  fa.ChampionID,
			ChampionName: fa.ChampionName,
			ByPlayer:     (*domain.Identity)(fa.ByPlayer),
		}
	}
	state.Team1 = unflattenSlots(in.Team1)
	state.Team2 = unflattenSlots(in.Team2)
	return state, nil
}

func unflattenSlots(in []flatSlot) [5]domain.RosterSlot {
	var out [5]domain.RosterSlot
	for i := 0; i < len(in) && i < 5; i++ {
		out[i] = domain.RosterSlot{
			Identity:    domain.Identity(in[i].Identity),
			Lane:        domain.LaneRole(in[i].Lane),
			SkillRating: in[i].SkillRating,
			IsAutofill:  in[i].IsAutofill,
		}
	}
	return out
}
