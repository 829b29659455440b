package restore

import (
	"context"
	"strconv"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/riftforge/draftorch/internal/champion"
	"github.com/riftforge/draftorch/internal/domain"
	"github.com/riftforge/draftorch/internal/draft"
	"github.com/riftforge/draftorch/internal/session"
)

type fakeStore struct {
	rows         []*domain.Match
	byID         map[int64]*domain.Match
	updated      map[int64]*domain.Match
	activeByUser map[string]*domain.Match
}

func newFakeStore(rows ...*domain.Match) *fakeStore {
	byID := make(map[int64]*domain.Match)
	for _, m := range rows {
		byID[m.ID] = m
	}
	return &fakeStore{rows: rows, byID: byID, updated: make(map[int64]*domain.Match)}
}

func (f *fakeStore) Create(ctx context.Context, m *domain.Match) error { return nil }
func (f *fakeStore) Get(ctx context.Context, id int64) (*domain.Match, error) {
	m, ok := f.byID[id]
	if !ok {
		return nil, domain.ErrMatchNotFound
	}
	return m, nil
}
func (f *fakeStore) Update(ctx context.Context, m *domain.Match) error {
	f.updated[m.ID] = m
	return nil
}
func (f *fakeStore) ListByStatus(ctx context.Context, statuses ...domain.MatchStatus) ([]*domain.Match, error) {
	want := make(map[domain.MatchStatus]bool, len(statuses))
	for _, s := range statuses {
		want[s] = true
	}
	var out []*domain.Match
	for _, m := range f.rows {
		if want[m.Status] {
			out = append(out, m)
		}
	}
	return out, nil
}
func (f *fakeStore) FindActiveForIdentity(ctx context.Context, identity domain.Identity) (*domain.Match, error) {
	if m, ok := f.activeByUser[domain.NormalizeIdentity(identity)]; ok {
		return m, nil
	}
	return nil, domain.ErrMatchNotFound
}

type noopBroadcaster struct{}

func (noopBroadcaster) Broadcast(env *session.Envelope) {}

type noopGameStarter struct{}

func (noopGameStarter) StartGame(ctx context.Context, matchID int64) error { return nil }

func testRosters() (team1, team2 [5]domain.RosterSlot) {
	for i, lane := range domain.LaneOrder {
		team1[i] = domain.RosterSlot{Identity: domain.Identity("blue" + string(lane)), Lane: lane}
		team2[i] = domain.RosterSlot{Identity: domain.Identity("red" + string(lane)), Lane: lane}
	}
	return
}

func draftRow(id int64, playedActions int) *domain.Match {
	team1, team2 := testRosters()
	md := draft.NewMatchDraft(id, team1, team2, draft.DefaultActionTimeout, draft.DefaultConfirmTimeout)
	catalog := champion.New("15.19.1", "https://ddragon.leagueoflegends.com", nil)
	now := time.Now()
	for i := 0; i < playedActions; i++ {
		phase := draft.Phases[i]
		roster := md.State().RosterOf(phase.Team)
		actor := roster[domain.LaneIndex(phase.PlayerSlot)].Identity
		_, err := md.ProcessAction(i, strconv.Itoa(i+1), actor, catalog, now)
		if err != nil {
			panic(err)
		}
	}
	raw, err := draft.Serialize(md.State())
	if err != nil {
		panic(err)
	}
	return &domain.Match{
		ID:           id,
		Status:       domain.StatusDraft,
		Team1Players: team1,
		Team2Players: team2,
		DraftJSON:    string(raw),
		CreatedAt:    time.Now(),
	}
}

func TestRun_RehydratesInProgressDrafts(t *testing.T) {
	row := draftRow(1, 3)
	store := newFakeStore(row)
	catalog := champion.New("15.19.1", "https://ddragon.leagueoflegends.com", nil)
	mgr := draft.NewManager(store, catalog, noopBroadcaster{}, noopGameStarter{}, draft.DefaultActionTimeout, draft.DefaultConfirmTimeout)
	orch := NewOrchestrator(store, mgr)

	require.NoError(t, orch.Run(context.Background()))

	assert.Contains(t, mgr.Active(), int64(1))
}

func TestRun_SkipsGameReadyAndInProgressRows(t *testing.T) {
	gameReady := &domain.Match{ID: 2, Status: domain.StatusGameReady}
	inProgress := &domain.Match{ID: 3, Status: domain.StatusInProgress}
	store := newFakeStore(gameReady, inProgress)
	catalog := champion.New("15.19.1", "https://ddragon.leagueoflegends.com", nil)
	mgr := draft.NewManager(store, catalog, noopBroadcaster{}, noopGameStarter{}, draft.DefaultActionTimeout, draft.DefaultConfirmTimeout)
	orch := NewOrchestrator(store, mgr)

	require.NoError(t, orch.Run(context.Background()))

	assert.Empty(t, mgr.Active())
}

func TestRun_IgnoresTerminalRows(t *testing.T) {
	completed := &domain.Match{ID: 4, Status: domain.StatusCompleted}
	store := newFakeStore(completed)
	catalog := champion.New("15.19.1", "https://ddragon.leagueoflegends.com", nil)
	mgr := draft.NewManager(store, catalog, noopBroadcaster{}, noopGameStarter{}, draft.DefaultActionTimeout, draft.DefaultConfirmTimeout)
	orch := NewOrchestrator(store, mgr)

	require.NoError(t, orch.Run(context.Background()))
	assert.Empty(t, mgr.Active())
}

func TestGetMyActiveMatch_DelegatesToStore(t *testing.T) {
	active := &domain.Match{ID: 5, Status: domain.StatusInProgress}
	store := newFakeStore(active)
	store.activeByUser = map[string]*domain.Match{"player#na1": active}
	catalog := champion.New("15.19.1", "https://ddragon.leagueoflegends.com", nil)
	mgr := draft.NewManager(store, catalog, noopBroadcaster{}, noopGameStarter{}, draft.DefaultActionTimeout, draft.DefaultConfirmTimeout)
	orch := NewOrchestrator(store, mgr)

	m, err := orch.GetMyActiveMatch(context.Background(), "Player#NA1")
	require.NoError(t, err)
	assert.Equal(t, int64(5), m.ID)

	_, err = orch.GetMyActiveMatch(context.Background(), "nobody#NA1")
	assert.ErrorIs(t, err, domain.ErrMatchNotFound)
}
