package voting

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/riftforge/draftorch/internal/domain"
	"github.com/riftforge/draftorch/internal/session"
)

type fakeStore struct {
	matches map[int64]*domain.Match
}

func newFakeStore(m *domain.Match) *fakeStore {
	return &fakeStore{matches: map[int64]*domain.Match{m.ID: m}}
}

func (f *fakeStore) Create(ctx context.Context, m *domain.Match) error { return nil }
func (f *fakeStore) Get(ctx context.Context, id int64) (*domain.Match, error) {
	m, ok := f.matches[id]
	if !ok {
		return nil, domain.ErrMatchNotFound
	}
	cp := *m
	return &cp, nil
}
func (f *fakeStore) Update(ctx context.Context, m *domain.Match) error {
	f.matches[m.ID] = m
	return nil
}
func (f *fakeStore) ListByStatus(ctx context.Context, statuses ...domain.MatchStatus) ([]*domain.Match, error) {
	return nil, nil
}
func (f *fakeStore) FindActiveForIdentity(ctx context.Context, identity domain.Identity) (*domain.Match, error) {
	return nil, domain.ErrMatchNotFound
}

type fakeVoteStore struct {
	votes map[int64]map[string]domain.Vote // matchID -> normalized voter -> vote
}

func newFakeVoteStore() *fakeVoteStore {
	return &fakeVoteStore{votes: make(map[int64]map[string]domain.Vote)}
}

func (f *fakeVoteStore) Upsert(ctx context.Context, v *domain.Vote) error {
	if f.votes[v.MatchID] == nil {
		f.votes[v.MatchID] = make(map[string]domain.Vote)
	}
	f.votes[v.MatchID][domain.NormalizeIdentity(v.Voter)] = *v
	return nil
}
func (f *fakeVoteStore) Tally(ctx context.Context, matchID int64) (map[string]int, error) {
	out := make(map[string]int)
	for _, v := range f.votes[matchID] {
		out[v.ChosenRealGameID]++
	}
	return out, nil
}
func (f *fakeVoteStore) All(ctx context.Context, matchID int64) ([]domain.Vote, error) {
	var out []domain.Vote
	for _, v := range f.votes[matchID] {
		out = append(out, v)
	}
	return out, nil
}
func (f *fakeVoteStore) Clear(ctx context.Context, matchID int64) error {
	delete(f.votes, matchID)
	return nil
}
func (f *fakeVoteStore) Remove(ctx context.Context, matchID int64, voter domain.Identity) error {
	delete(f.votes[matchID], domain.NormalizeIdentity(voter))
	return nil
}

type fakeSpecialUsers struct {
	special map[string]bool
}

func (f *fakeSpecialUsers) IsSpecial(id domain.Identity) bool {
	return f.special[domain.NormalizeIdentity(id)]
}

type fakeFetcher struct {
	payload json.RawMessage
	err     error
}

func (f *fakeFetcher) FetchGameDetails(ctx context.Context, id domain.Identity, gameID string) (json.RawMessage, error) {
	return f.payload, f.err
}

type fakeBroadcaster struct {
	envelopes []*session.Envelope
}

func (f *fakeBroadcaster) Broadcast(env *session.Envelope) {
	f.envelopes = append(f.envelopes, env)
}

func testMatch() *domain.Match {
	var team1, team2 [5]domain.RosterSlot
	for i, lane := range domain.LaneOrder {
		team1[i] = domain.RosterSlot{Identity: domain.Identity("blue" + string(lane) + "#NA1"), Lane: lane}
		team2[i] = domain.RosterSlot{Identity: domain.Identity("red" + string(lane) + "#NA1"), Lane: lane}
	}
	return &domain.Match{
		ID:           1,
		Status:       domain.StatusInProgress,
		Team1Players: team1,
		Team2Players: team2,
		CreatedAt:    time.Now(),
	}
}

func newTestService(m *domain.Match) (*Service, *fakeStore, *fakeVoteStore, *fakeSpecialUsers, *fakeFetcher, *fakeBroadcaster) {
	store := newFakeStore(m)
	votes := newFakeVoteStore()
	special := &fakeSpecialUsers{special: map[string]bool{}}
	fetcher := &fakeFetcher{payload: json.RawMessage(`{"teams":[{"teamId":100,"win":true},{"teamId":200,"win":false}],"gameLength":1800}`)}
	broadcaster := &fakeBroadcaster{}
	svc := NewService(store, votes, special, fetcher, broadcaster, domain.Quorum)
	return svc, store, votes, special, fetcher, broadcaster
}

func TestVote_RejectsNonRosterVoter(t *testing.T) {
	m := testMatch()
	svc, _, _, _, _, _ := newTestService(m)

	_, err := svc.Vote(context.Background(), m.ID, "stranger#NA1", "NA1_1")
	assert.ErrorIs(t, err, domain.ErrUnauthorized)
}

func TestVote_RejectsWhenMatchNotInProgress(t *testing.T) {
	m := testMatch()
	m.Status = domain.StatusDraft
	svc, _, _, _, _, _ := newTestService(m)

	voter := m.Team1Players[0].Identity
	_, err := svc.Vote(context.Background(), m.ID, voter, "NA1_1")
	assert.ErrorIs(t, err, domain.ErrInvalidStatus)
}

func TestVote_BelowQuorumDoesNotLink(t *testing.T) {
	m := testMatch()
	svc, _, _, _, _, _ := newTestService(m)

	for i := 0; i < domain.Quorum-1; i++ {
		voter := m.Team1Players[i%5].Identity
		if i >= 5 {
			voter = m.Team2Players[i%5].Identity
		}
		res, err := svc.Vote(context.Background(), m.ID, voter, "NA1_1")
		require.NoError(t, err)
		assert.False(t, res.ShouldLink)
	}
}

func TestVote_AtQuorumLinksAndCompletesMatch(t *testing.T) {
	m := testMatch()
	svc, store, _, _, _, broadcaster := newTestService(m)

	roster := append(append([]domain.RosterSlot{}, m.Team1Players[:]...), m.Team2Players[:]...)
	var last *VoteResult
	for i := 0; i < domain.Quorum; i++ {
		res, err := svc.Vote(context.Background(), m.ID, roster[i].Identity, "NA1_1")
		require.NoError(t, err)
		last = res
	}
	require.True(t, last.ShouldLink)
	assert.Equal(t, domain.Quorum, last.VoteCount)

	updated, err := store.Get(context.Background(), m.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.StatusCompleted, updated.Status)
	require.NotNil(t, updated.LinkedRealGameID)
	assert.Equal(t, "NA1_1", *updated.LinkedRealGameID)
	require.NotNil(t, updated.ActualWinner)
	assert.Equal(t, 1, *updated.ActualWinner)

	var sawLinked bool
	for _, env := range broadcaster.envelopes {
		if env.Type == session.EventMatchLinked {
			sawLinked = true
		}
	}
	assert.True(t, sawLinked)
}

func TestVote_SpecialUserLinksAlone(t *testing.T) {
	m := testMatch()
	svc, store, _, special, _, _ := newTestService(m)

	voter := m.Team1Players[0].Identity
	special.special[domain.NormalizeIdentity(voter)] = true

	res, err := svc.Vote(context.Background(), m.ID, voter, "NA1_9")
	require.NoError(t, err)
	assert.True(t, res.ShouldLink)
	assert.True(t, res.SpecialUser)
	assert.Equal(t, 1, res.VoteCount)

	updated, err := store.Get(context.Background(), m.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.StatusCompleted, updated.Status)
}

func TestVote_RevoteReplacesPriorChoice(t *testing.T) {
	m := testMatch()
	svc, _, votes, _, _, _ := newTestService(m)

	voter := m.Team1Players[0].Identity
	_, err := svc.Vote(context.Background(), m.ID, voter, "NA1_1")
	require.NoError(t, err)
	_, err = svc.Vote(context.Background(), m.ID, voter, "NA1_2")
	require.NoError(t, err)

	tally, err := votes.Tally(context.Background(), m.ID)
	require.NoError(t, err)
	assert.Equal(t, 0, tally["NA1_1"])
	assert.Equal(t, 1, tally["NA1_2"])
}

func TestUnvote_RemovesVoterFromTally(t *testing.T) {
	m := testMatch()
	svc, _, votes, _, _, _ := newTestService(m)

	voter := m.Team1Players[0].Identity
	_, err := svc.Vote(context.Background(), m.ID, voter, "NA1_1")
	require.NoError(t, err)

	require.NoError(t, svc.Unvote(context.Background(), m.ID, voter))

	tally, err := votes.Tally(context.Background(), m.ID)
	require.NoError(t, err)
	assert.Equal(t, 0, tally["NA1_1"])
}

func TestUnvote_RejectsOnCompletedMatch(t *testing.T) {
	m := testMatch()
	m.Status = domain.StatusCompleted
	svc, _, _, _, _, _ := newTestService(m)

	voter := m.Team1Players[0].Identity
	err := svc.Unvote(context.Background(), m.ID, voter)
	assert.ErrorIs(t, err, domain.ErrMatchCompleted)
}

func TestLinkMatch_RejectsAlreadyCompletedMatch(t *testing.T) {
	m := testMatch()
	m.Status = domain.StatusCompleted
	svc, _, _, _, _, _ := newTestService(m)

	err := svc.LinkMatch(context.Background(), m.ID, "NA1_1", m.Team1Players[0].Identity)
	assert.ErrorIs(t, err, domain.ErrMatchCompleted)
}
