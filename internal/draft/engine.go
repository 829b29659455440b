// Package draft implements the Draft Flow Engine (C7) and the
// Confirmation Protocol (C8): the 20-action pick/ban state machine, its
// per-action and per-confirmation timeouts, bot auto-play, edit-in-place,
// and 10-of-10 confirmation.
package draft

import (
	"math/rand"
	"sync"
	"time"

	"github.com/riftforge/draftorch/internal/champion"
	"github.com/riftforge/draftorch/internal/domain"
)

const (
	DefaultActionTimeout  = 30 * time.Second
	DefaultConfirmTimeout = 60 * time.Second
	totalRoster           = 10
	botJitterMaxMs        = 3000
)

// MatchDraft is one match's in-memory Draft State plus the lock that
// serializes every operation against it, per the one-lock-per-match-id
// concurrency model.
type MatchDraft struct {
	mu             sync.Mutex
	matchID        int64
	state          *domain.DraftState
	actionTimeout  time.Duration
	confirmTimeout time.Duration
}

// Lock and Unlock expose the per-match lock to the Manager, which holds it
// for the duration of one mutating operation plus its persistence write.
func (d *MatchDraft) Lock()   { d.mu.Lock() }
func (d *MatchDraft) Unlock() { d.mu.Unlock() }

// NewMatchDraft builds the created-state draft for a freshly balanced
// match.
func NewMatchDraft(matchID int64, team1, team2 [5]domain.RosterSlot, actionTimeout, confirmTimeout time.Duration) *MatchDraft {
	return &MatchDraft{
		matchID:        matchID,
		state:          domain.NewDraftState(matchID, Phases, team1, team2),
		actionTimeout:  actionTimeout,
		confirmTimeout: confirmTimeout,
	}
}

// Restore rebuilds a MatchDraft directly from a previously-serialized
// state, for C11's crash recovery. Callers are expected to reset
// LastActionStartMs themselves (grace period on resume).
func Restore(state *domain.DraftState, actionTimeout, confirmTimeout time.Duration) *MatchDraft {
	return &MatchDraft{
		matchID:        state.MatchID,
		state:          state,
		actionTimeout:  actionTimeout,
		confirmTimeout: confirmTimeout,
	}
}

// State returns the live DraftState. Callers must hold d's lock.
func (d *MatchDraft) State() *domain.DraftState { return d.state }

// TimeRemaining is the ceiling of (actionTimeout - elapsed)/1s, floor 0,
// the sole countdown mechanism clients observe.
func (d *MatchDraft) TimeRemaining(now time.Time) int {
	if d.state.CurrentIndex >= domain.TotalActions {
		return 0
	}
	elapsed := now.UnixMilli() - d.state.LastActionStartMs
	remainingMs := d.actionTimeout.Milliseconds() - elapsed
	if remainingMs <= 0 {
		return 0
	}
	secs := remainingMs / 1000
	if remainingMs%1000 != 0 {
		secs++
	}
	return int(secs)
}

func currentTeamOwner(roster [5]domain.RosterSlot, lane domain.LaneRole) domain.RosterSlot {
	idx := domain.LaneIndex(lane)
	if idx < 0 {
		return domain.RosterSlot{}
	}
	return roster[idx]
}

// teamContains reports whether identity is a member of a side's roster,
// case-insensitively — the "team-membership-sufficient" rule used by
// ProcessAction.
func (d *MatchDraft) teamContains(team domain.Side, id domain.Identity) bool {
	roster := d.state.RosterOf(team)
	for _, r := range roster {
		if r.Identity.Equal(id) {
			return true
		}
	}
	return false
}

// ProcessAction records a pick or ban at the given action index, advancing
// the draft to the next action (or into the confirmation phase on the
// last one). The caller is responsible for holding d's lock for the
// duration of the call.
func (d *MatchDraft) ProcessAction(actionIndex int, championRef string, byPlayer domain.Identity, catalog *champion.Catalog, now time.Time) (*domain.DraftAction, error) {
	if d.state.State == domain.EngineCancelled || d.state.State == domain.EngineConfirmed {
		return nil, domain.ErrDraftNotActive
	}
	if d.state.CurrentIndex < 0 || d.state.CurrentIndex >= domain.TotalActions {
		return nil, domain.ErrActionOutOfOrder
	}
	if actionIndex != d.state.CurrentIndex {
		return nil, domain.ErrActionOutOfOrder
	}

	key, ok := catalog.NormalizeToKey(championRef)
	if !ok {
		return nil, domain.ErrUnknownChampion
	}

	action := &d.state.Actions[actionIndex]

	if !d.teamContains(action.Team, byPlayer) {
		return nil, domain.ErrUnauthorized
	}

	if _, used := d.state.UsedChampionKeys()[key]; used {
		return nil, domain.ErrChampionUsed
	}

	name, _ := catalog.NameFor(key)

	action.ChampionKey = &key
	if name != "" {
		action.ChampionName = &name
	}
	player := byPlayer
	action.ByPlayer = &player

	if d.state.State == domain.EngineCreated {
		d.state.State = domain.EngineRunning
	}

	d.state.CurrentIndex++
	if d.state.CurrentIndex < domain.TotalActions {
		d.state.LastActionStartMs = now.UnixMilli()
	} else {
		d.enterConfirmationPhase(now)
	}

	return action, nil
}

// enterConfirmationPhase is called exactly once, on write of action index
// 19: the engine state flips to completed and bots are auto-confirmed.
func (d *MatchDraft) enterConfirmationPhase(now time.Time) {
	d.state.State = domain.EngineCompleted
	d.state.ConfirmStartMs = now.UnixMilli()
	for _, slot := range append(append([]domain.RosterSlot{}, d.state.Team1[:]...), d.state.Team2[:]...) {
		if slot.IsBot() {
			d.state.Confirmations[domain.NormalizeIdentity(slot.Identity)] = slot.Identity
		}
	}
}

// ChangePick implements changePick(matchId, actionIndex, newChampionRef,
// byPlayer): strict slot-owner edit of an already-resolved pick action,
// legal any time before the engine reaches EngineConfirmed.
func (d *MatchDraft) ChangePick(actionIndex int, newChampionRef string, byPlayer domain.Identity, catalog *champion.Catalog) (*domain.DraftAction, error) {
	if d.state.State == domain.EngineConfirmed || d.state.State == domain.EngineCancelled {
		return nil, domain.ErrInvalidStatus
	}
	if actionIndex < 0 || actionIndex >= domain.TotalActions {
		return nil, domain.ErrActionOutOfOrder
	}

	action := &d.state.Actions[actionIndex]
	if action.Type != domain.ActionPick {
		return nil, domain.ErrEditNotPick
	}
	if action.IsOpen() {
		return nil, domain.ErrDraftNotActive
	}

	owner := currentTeamOwner(d.state.RosterOf(action.Team), action.PlayerSlot)
	if !owner.Identity.Equal(byPlayer) {
		return nil, domain.ErrUnauthorized
	}

	key, ok := catalog.NormalizeToKey(newChampionRef)
	if !ok {
		return nil, domain.ErrUnknownChampion
	}

	for i, a := range d.state.Actions {
		if i == actionIndex {
			continue
		}
		if a.IsCompleted() && *a.ChampionKey == key {
			return nil, domain.ErrChampionUsed
		}
	}

	name, _ := catalog.NameFor(key)
	action.ChampionKey = &key
	if name != "" {
		action.ChampionName = &name
	} else {
		action.ChampionName = nil
	}
	player := byPlayer
	action.ByPlayer = &player

	// Mandatory: an edit invalidates every existing confirmation.
	d.state.Confirmations = make(map[string]domain.Identity)

	return action, nil
}

// ConfirmPlayer implements confirmPlayer(matchId, byPlayer): idempotent,
// case-insensitively deduplicated. Returns the confirmed count and whether
// all 10 roster members have now confirmed.
func (d *MatchDraft) ConfirmPlayer(byPlayer domain.Identity) (confirmedCount int, allConfirmed bool, err error) {
	if d.state.State != domain.EngineCompleted {
		return 0, false, domain.ErrInvalidStatus
	}

	roster := append(append([]domain.RosterSlot{}, d.state.Team1[:]...), d.state.Team2[:]...)
	member := false
	for _, r := range roster {
		if r.Identity.Equal(byPlayer) {
			member = true
			break
		}
	}
	if !member {
		return 0, false, domain.ErrUnauthorized
	}

	d.state.Confirmations[domain.NormalizeIdentity(byPlayer)] = byPlayer

	count := len(d.state.Confirmations)
	all := count >= totalRoster
	if all {
		d.state.State = domain.EngineConfirmed
		d.state.Confirmations = make(map[string]domain.Identity)
	}
	return count, all, nil
}

// Cancel discards the in-memory draft regardless of current state.
func (d *MatchDraft) Cancel() {
	d.state.State = domain.EngineCancelled
}

// botAutoPlayKey selects a random champion excluding every key already
// used anywhere in the match and every key already picked by the acting
// team.
func botAutoPlayKey(state *domain.DraftState, team domain.Side, catalog *champion.Catalog) (string, bool) {
	excluded := state.UsedChampionKeys()
	for k := range state.TeamPickedKeys(team) {
		excluded[k] = struct{}{}
	}
	return catalog.RandomExcluding(excluded)
}

func jitter() time.Duration {
	return time.Duration(rand.Intn(botJitterMaxMs)) * time.Millisecond
}
