package draft

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/riftforge/draftorch/internal/champion"
	"github.com/riftforge/draftorch/internal/domain"
	"github.com/riftforge/draftorch/internal/session"
)

type fakeManagerStore struct {
	matches map[int64]*domain.Match
}

func newFakeManagerStore(m *domain.Match) *fakeManagerStore {
	return &fakeManagerStore{matches: map[int64]*domain.Match{m.ID: m}}
}

func (f *fakeManagerStore) Create(ctx context.Context, m *domain.Match) error { return nil }
func (f *fakeManagerStore) Get(ctx context.Context, id int64) (*domain.Match, error) {
	m, ok := f.matches[id]
	if !ok {
		return nil, domain.ErrMatchNotFound
	}
	return m, nil
}
func (f *fakeManagerStore) Update(ctx context.Context, m *domain.Match) error {
	f.matches[m.ID] = m
	return nil
}
func (f *fakeManagerStore) ListByStatus(ctx context.Context, statuses ...domain.MatchStatus) ([]*domain.Match, error) {
	return nil, nil
}
func (f *fakeManagerStore) FindActiveForIdentity(ctx context.Context, identity domain.Identity) (*domain.Match, error) {
	return nil, domain.ErrMatchNotFound
}

type noopManagerBroadcaster struct{}

func (noopManagerBroadcaster) Broadcast(env *session.Envelope) {}

type noopManagerGameStarter struct{}

func (noopManagerGameStarter) StartGame(ctx context.Context, matchID int64) error { return nil }

// TestRestore_PartiallyConfirmedMatchSurvivesAnImmediateTick guards against
// a restart mid-confirmation-window wiping out already-collected
// confirmations: a fully-drafted match with some (but not all ten)
// confirmations, serialized and restored, must not be cancelled by the
// very next tick just because the process restarted.
func TestRestore_PartiallyConfirmedMatchSurvivesAnImmediateTick(t *testing.T) {
	team1, team2 := testRosters()
	d := NewMatchDraft(7, team1, team2, DefaultActionTimeout, DefaultConfirmTimeout)
	catalog := champion.New("15.19.1", "https://ddragon.leagueoflegends.com", nil)
	require.NoError(t, playAll(t, d, catalog))

	_, _, err := d.ConfirmPlayer(d.state.Team1[0].Identity)
	require.NoError(t, err)
	_, _, err = d.ConfirmPlayer(d.state.Team1[1].Identity)
	require.NoError(t, err)
	require.Len(t, d.state.Confirmations, 2)

	raw, err := Serialize(d.state)
	require.NoError(t, err)

	restoredState, err := Deserialize(7, raw)
	require.NoError(t, err)
	require.Len(t, restoredState.Confirmations, 2, "confirmations must round-trip through draftJson")
	require.NotZero(t, restoredState.ConfirmStartMs, "confirmStartMs must round-trip through draftJson")

	match := &domain.Match{ID: 7, Status: domain.StatusDraft, Team1Players: team1, Team2Players: team2}
	store := newFakeManagerStore(match)
	mgr := NewManager(store, catalog, noopManagerBroadcaster{}, noopManagerGameStarter{}, DefaultActionTimeout, DefaultConfirmTimeout)
	mgr.Restore(7, restoredState)

	mgr.Tick(context.Background())

	assert.Contains(t, mgr.Active(), int64(7), "an immediate tick after restore must not cancel a match still within its confirmation window")

	restored, ok := mgr.get(7)
	require.True(t, ok)
	assert.Len(t, restored.state.Confirmations, 2, "confirmations collected before restart must survive restore")
}

// TestRestore_SeedsConfirmStartMsWhenMissing covers restoring data written
// before confirmStartMs was tracked: it must not default to zero, which
// would make every confirmation window look already expired.
func TestRestore_SeedsConfirmStartMsWhenMissing(t *testing.T) {
	team1, team2 := testRosters()
	d := NewMatchDraft(8, team1, team2, DefaultActionTimeout, DefaultConfirmTimeout)
	catalog := champion.New("15.19.1", "https://ddragon.leagueoflegends.com", nil)
	require.NoError(t, playAll(t, d, catalog))

	state := d.State()
	state.ConfirmStartMs = 0 // simulate a pre-fix persisted row

	match := &domain.Match{ID: 8, Status: domain.StatusDraft, Team1Players: team1, Team2Players: team2}
	store := newFakeManagerStore(match)
	mgr := NewManager(store, catalog, noopManagerBroadcaster{}, noopManagerGameStarter{}, DefaultActionTimeout, DefaultConfirmTimeout)
	mgr.Restore(8, state)

	restored, ok := mgr.get(8)
	require.True(t, ok)
	assert.NotZero(t, restored.state.ConfirmStartMs)
	assert.WithinDuration(t, time.Now(), time.UnixMilli(restored.state.ConfirmStartMs), 5*time.Second)
}
