package draft

import (
	"context"
	"encoding/json"
	"log"
	"sync"
	"time"

	"github.com/riftforge/draftorch/internal/champion"
	"github.com/riftforge/draftorch/internal/domain"
	"github.com/riftforge/draftorch/internal/matchstore"
	"github.com/riftforge/draftorch/internal/session"
)

// Broadcaster fans a draft-engine event out to every connected session.
// Satisfied by *session.Registry.
type Broadcaster interface {
	Broadcast(env *session.Envelope)
}

// GameStarter is invoked exactly once, when a draft reaches 10-of-10
// confirmation, handing the match off to the Game-In-Progress Monitor
// (C9). Called outside the match lock.
type GameStarter interface {
	StartGame(ctx context.Context, matchID int64) error
}

// Manager owns every in-flight match's MatchDraft and writes its draftJson
// (and, on confirmation timeout, its cancelled status) back to the match row.
type Manager struct {
	mu     sync.RWMutex
	drafts map[int64]*MatchDraft

	store          matchstore.Store
	catalog        *champion.Catalog
	broadcaster    Broadcaster
	gameStarter    GameStarter
	actionTimeout  time.Duration
	confirmTimeout time.Duration
}

func NewManager(store matchstore.Store, catalog *champion.Catalog, broadcaster Broadcaster, gameStarter GameStarter, actionTimeout, confirmTimeout time.Duration) *Manager {
	return &Manager{
		drafts:         make(map[int64]*MatchDraft),
		store:          store,
		catalog:        catalog,
		broadcaster:    broadcaster,
		gameStarter:    gameStarter,
		actionTimeout:  actionTimeout,
		confirmTimeout: confirmTimeout,
	}
}

// Start registers and persists a freshly balanced match's draft, called by
// the Queue & Balancer (C6) once ten players are partitioned into teams.
func (m *Manager) Start(ctx context.Context, match *domain.Match) error {
	d := NewMatchDraft(match.ID, match.Team1Players, match.Team2Players, m.actionTimeout, m.confirmTimeout)
	d.state.LastActionStartMs = time.Now().UnixMilli()
	d.state.State = domain.EngineRunning

	raw, err := Serialize(d.state)
	if err != nil {
		return err
	}
	match.DraftJSON = string(raw)
	if err := m.store.Update(ctx, match); err != nil {
		return domain.ErrPersistence.Wrap(err)
	}

	m.mu.Lock()
	m.drafts[match.ID] = d
	m.mu.Unlock()

	m.publishDraftUpdated(d, "")
	return nil
}

// Restore re-registers a MatchDraft rebuilt from a persisted draftJson
// blob, for the Persistence/Restore Orchestrator (C11). lastActionStartMs
// is reset to now, giving the resumed draft a fresh grace period instead
// of treating downtime as elapsed action time. confirmStartMs is left at
// its persisted value, since Deserialize now round-trips it along with
// the confirmation set; it is only seeded to now if the draft restores
// into the confirmation phase with no persisted confirmStartMs at all
// (older data, or a row written before confirmation tracking existed),
// where treating it as unset would otherwise look like the window
// expired the instant the process restarted.
func (m *Manager) Restore(matchID int64, state *domain.DraftState) {
	now := time.Now()
	state.LastActionStartMs = now.UnixMilli()
	if state.State == domain.EngineCompleted && state.ConfirmStartMs == 0 {
		state.ConfirmStartMs = now.UnixMilli()
	}
	d := Restore(state, m.actionTimeout, m.confirmTimeout)
	m.mu.Lock()
	m.drafts[matchID] = d
	m.mu.Unlock()
}

func (m *Manager) get(matchID int64) (*MatchDraft, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	d, ok := m.drafts[matchID]
	return d, ok
}

func (m *Manager) drop(matchID int64) {
	m.mu.Lock()
	delete(m.drafts, matchID)
	m.mu.Unlock()
}

// Active returns a snapshot of every match id currently owned by the
// manager, for the Scheduler to sweep.
func (m *Manager) Active() []int64 {
	m.mu.RLock()
	defer m.mu.RUnlock()
	ids := make([]int64, 0, len(m.drafts))
	for id := range m.drafts {
		ids = append(ids, id)
	}
	return ids
}

// persist rewrites the match row's draftJson from the live state. Must be
// called while holding d's lock.
func (m *Manager) persist(ctx context.Context, d *MatchDraft) error {
	match, err := m.store.Get(ctx, d.matchID)
	if err != nil {
		return err
	}
	raw, err := Serialize(d.state)
	if err != nil {
		return domain.ErrPersistence.Wrap(err)
	}
	match.DraftJSON = string(raw)
	if err := m.store.Update(ctx, match); err != nil {
		return domain.ErrPersistence.Wrap(err)
	}
	return nil
}

// ProcessAction implements the C7 contract end to end: lock, mutate,
// persist, broadcast, unlock.
func (m *Manager) ProcessAction(ctx context.Context, matchID int64, actionIndex int, championRef string, byPlayer domain.Identity) error {
	d, ok := m.get(matchID)
	if !ok {
		return domain.ErrMatchNotFound
	}
	d.Lock()
	defer d.Unlock()

	_, err := d.ProcessAction(actionIndex, championRef, byPlayer, m.catalog, time.Now())
	if err != nil {
		return err
	}
	if err := m.persist(ctx, d); err != nil {
		return err
	}
	m.publishDraftUpdated(d, "")

	if d.state.State == domain.EngineCompleted {
		m.publishConfirmationUpdate(d)
	}
	return nil
}

// ChangePick implements the C7 edit-in-place contract.
func (m *Manager) ChangePick(ctx context.Context, matchID int64, actionIndex int, newChampionRef string, byPlayer domain.Identity) error {
	d, ok := m.get(matchID)
	if !ok {
		return domain.ErrMatchNotFound
	}
	d.Lock()
	defer d.Unlock()

	_, err := d.ChangePick(actionIndex, newChampionRef, byPlayer, m.catalog)
	if err != nil {
		return err
	}
	if err := m.persist(ctx, d); err != nil {
		return err
	}
	m.publishDraftUpdated(d, "")
	m.publishConfirmationUpdate(d)
	return nil
}

// ConfirmPlayer implements the C8 contract, including the 10-of-10
// hand-off to the Game-In-Progress Monitor.
func (m *Manager) ConfirmPlayer(ctx context.Context, matchID int64, byPlayer domain.Identity) (int, bool, error) {
	d, ok := m.get(matchID)
	if !ok {
		return 0, false, domain.ErrMatchNotFound
	}

	d.Lock()
	count, all, err := d.ConfirmPlayer(byPlayer)
	if err != nil {
		d.Unlock()
		return 0, false, err
	}
	if persistErr := m.persist(ctx, d); persistErr != nil {
		d.Unlock()
		return 0, false, persistErr
	}
	m.publishConfirmationUpdate(d)
	d.Unlock()

	if all {
		// No network I/O, and no match lock, while the hand-off to C9
		// runs: linkMatch-style transactions acquire their own lock.
		if err := m.gameStarter.StartGame(ctx, matchID); err != nil {
			log.Printf("draft: match %d confirmed but game start failed: %v", matchID, err)
			return count, all, err
		}
		m.drop(matchID)
	}
	return count, all, nil
}

// Cancel discards a match's in-memory draft.
func (m *Manager) Cancel(matchID int64) {
	d, ok := m.get(matchID)
	if !ok {
		return
	}
	d.Lock()
	d.Cancel()
	d.Unlock()
	m.drop(matchID)
}

// Tick sweeps every active match for timeouts and bot auto-play, called by
// the Scheduler (C12) at most once a second.
func (m *Manager) Tick(ctx context.Context) {
	for _, id := range m.Active() {
		d, ok := m.get(id)
		if !ok {
			continue
		}
		m.tickOne(ctx, id, d)
	}
}

func (m *Manager) tickOne(ctx context.Context, matchID int64, d *MatchDraft) {
	d.Lock()
	result := d.Tick(time.Now(), m.catalog)
	var persistErr error
	switch result.Kind {
	case TickActionAutoSkip, TickBotPlayed, TickDraftCompleted:
		persistErr = m.persist(ctx, d)
	case TickConfirmCancelled:
		persistErr = m.cancelRow(ctx, matchID)
	}
	d.Unlock()

	if persistErr != nil {
		log.Printf("draft: tick persist failed for match %d: %v", matchID, persistErr)
		return
	}

	switch result.Kind {
	case TickActionAutoSkip, TickBotPlayed:
		m.publishDraftUpdated(d, "")
	case TickDraftCompleted:
		m.publishDraftUpdated(d, "")
		m.publishConfirmationUpdate(d)
	case TickConfirmCancelled:
		m.publishDraftUpdated(d, "confirmation_timeout")
		m.drop(matchID)
	}
}

func (m *Manager) cancelRow(ctx context.Context, matchID int64) error {
	match, err := m.store.Get(ctx, matchID)
	if err != nil {
		return err
	}
	match.Status = domain.StatusCancelled
	return m.store.Update(ctx, match)
}

type draftUpdatedPayload struct {
	MatchID       int64           `json:"matchId"`
	TimeRemaining int             `json:"timeRemaining"`
	Draft         json.RawMessage `json:"draft"`
	Reason        string          `json:"reason,omitempty"`
}

// publishDraftUpdated broadcasts draft_updated; reason is set only when the
// update reports a cancellation.
func (m *Manager) publishDraftUpdated(d *MatchDraft, reason string) {
	raw, err := Serialize(d.state)
	if err != nil {
		log.Printf("draft: serialize failed for match %d: %v", d.matchID, err)
		return
	}
	env, err := session.NewEnvelope(session.EventDraftUpdated, draftUpdatedPayload{
		MatchID:       d.matchID,
		TimeRemaining: d.TimeRemaining(time.Now()),
		Draft:         raw,
		Reason:        reason,
	})
	if err != nil {
		log.Printf("draft: envelope build failed for match %d: %v", d.matchID, err)
		return
	}
	m.broadcaster.Broadcast(env)
}

type confirmationUpdatePayload struct {
	MatchID        int64    `json:"matchId"`
	Confirmations  []string `json:"confirmations"`
	ConfirmedCount int      `json:"confirmedCount"`
	TotalPlayers   int      `json:"totalPlayers"`
	AllConfirmed   bool     `json:"allConfirmed"`
}

func (m *Manager) publishConfirmationUpdate(d *MatchDraft) {
	names := make([]string, 0, len(d.state.Confirmations))
	for _, id := range d.state.Confirmations {
		names = append(names, string(id))
	}
	env, err := session.NewEnvelope(session.EventDraftConfirmationUpdate, confirmationUpdatePayload{
		MatchID:        d.matchID,
		Confirmations:  names,
		ConfirmedCount: len(names),
		TotalPlayers:   totalRoster,
		AllConfirmed:   len(names) >= totalRoster,
	})
	if err != nil {
		log.Printf("draft: confirmation envelope build failed for match %d: %v", d.matchID, err)
		return
	}
	m.broadcaster.Broadcast(env)
}
