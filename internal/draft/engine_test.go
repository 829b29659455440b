package draft

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/riftforge/draftorch/internal/champion"
	"github.com/riftforge/draftorch/internal/domain"
)

func testRosters() (team1, team2 [5]domain.RosterSlot) {
	lanes := domain.LaneOrder
	for i, lane := range lanes {
		team1[i] = domain.RosterSlot{Identity: domain.Identity("blue" + string(lane) + "#NA1"), Lane: lane}
		team2[i] = domain.RosterSlot{Identity: domain.Identity("red" + string(lane) + "#NA1"), Lane: lane}
	}
	return
}

func newTestDraft() *MatchDraft {
	team1, team2 := testRosters()
	return NewMatchDraft(1, team1, team2, DefaultActionTimeout, DefaultConfirmTimeout)
}

// playAll drives every one of the 20 actions to completion with a distinct
// numeric champion id per action, returning any error encountered.
func playAll(t *testing.T, d *MatchDraft, catalog *champion.Catalog) error {
	t.Helper()
	now := time.Now()
	for i := 0; i < domain.TotalActions; i++ {
		phase := Phases[i]
		roster := d.state.RosterOf(phase.Team)
		actor := roster[domain.LaneIndex(phase.PlayerSlot)].Identity
		if _, err := d.ProcessAction(i, itoa(i+1), actor, catalog, now); err != nil {
			return err
		}
	}
	return nil
}

func itoa(n int) string {
	digits := "0123456789"
	if n == 0 {
		return "0"
	}
	var out []byte
	for n > 0 {
		out = append([]byte{digits[n%10]}, out...)
		n /= 10
	}
	return string(out)
}

func TestProcessAction_FollowsFixedPhaseOrder(t *testing.T) {
	d := newTestDraft()
	catalog := champion.New("15.19.1", "https://ddragon.leagueoflegends.com", nil)

	require.NoError(t, playAll(t, d, catalog))

	for i, a := range d.state.Actions {
		assert.Equal(t, Phases[i].Type, a.Type, "action %d type", i)
		assert.Equal(t, Phases[i].Team, a.Team, "action %d team", i)
		assert.Equal(t, Phases[i].PlayerSlot, a.PlayerSlot, "action %d lane", i)
		require.NotNil(t, a.ChampionKey, "action %d should be resolved", i)
	}
	assert.Equal(t, domain.TotalActions, d.state.CurrentIndex)
	assert.Equal(t, domain.EngineCompleted, d.state.State)
}

func TestProcessAction_RejectsOutOfOrderIndex(t *testing.T) {
	d := newTestDraft()
	catalog := champion.New("15.19.1", "https://ddragon.leagueoflegends.com", nil)

	actor := d.state.Team1[domain.LaneIndex(domain.LaneTop)].Identity
	_, err := d.ProcessAction(1, "99", actor, catalog, time.Now())
	assert.ErrorIs(t, err, domain.ErrActionOutOfOrder)
}

func TestProcessAction_RejectsNonTeamMember(t *testing.T) {
	d := newTestDraft()
	catalog := champion.New("15.19.1", "https://ddragon.leagueoflegends.com", nil)

	// Action 0 is blue top's ban; a red player may not act for it.
	intruder := d.state.Team2[domain.LaneIndex(domain.LaneTop)].Identity
	_, err := d.ProcessAction(0, "1", intruder, catalog, time.Now())
	assert.ErrorIs(t, err, domain.ErrUnauthorized)
}

func TestProcessAction_RejectsDuplicateChampion(t *testing.T) {
	d := newTestDraft()
	catalog := champion.New("15.19.1", "https://ddragon.leagueoflegends.com", nil)

	actor0 := d.state.Team1[domain.LaneIndex(domain.LaneTop)].Identity
	_, err := d.ProcessAction(0, "42", actor0, catalog, time.Now())
	require.NoError(t, err)

	actor1 := d.state.Team2[domain.LaneIndex(domain.LaneTop)].Identity
	_, err = d.ProcessAction(1, "42", actor1, catalog, time.Now())
	assert.ErrorIs(t, err, domain.ErrChampionUsed)
}

func TestConfirmPlayer_IsIdempotentAndRequiresAllTen(t *testing.T) {
	d := newTestDraft()
	catalog := champion.New("15.19.1", "https://ddragon.leagueoflegends.com", nil)
	require.NoError(t, playAll(t, d, catalog))

	roster := append(append([]domain.RosterSlot{}, d.state.Team1[:]...), d.state.Team2[:]...)

	for i, slot := range roster[:9] {
		count, all, err := d.ConfirmPlayer(slot.Identity)
		require.NoError(t, err)
		assert.False(t, all)
		assert.Equal(t, i+1, count)
	}

	// Re-confirming an already-confirmed player must not double-count.
	count, all, err := d.ConfirmPlayer(roster[0].Identity)
	require.NoError(t, err)
	assert.False(t, all)
	assert.Equal(t, 9, count)

	count, all, err = d.ConfirmPlayer(roster[9].Identity)
	require.NoError(t, err)
	assert.True(t, all)
	assert.Equal(t, 10, count)
	assert.Equal(t, domain.EngineConfirmed, d.state.State)
}

func TestConfirmPlayer_RejectsNonRosterMember(t *testing.T) {
	d := newTestDraft()
	catalog := champion.New("15.19.1", "https://ddragon.leagueoflegends.com", nil)
	require.NoError(t, playAll(t, d, catalog))

	_, _, err := d.ConfirmPlayer(domain.Identity("stranger#NA1"))
	assert.ErrorIs(t, err, domain.ErrUnauthorized)
}

func TestChangePick_ClearsExistingConfirmations(t *testing.T) {
	d := newTestDraft()
	catalog := champion.New("15.19.1", "https://ddragon.leagueoflegends.com", nil)
	require.NoError(t, playAll(t, d, catalog))

	roster := append(append([]domain.RosterSlot{}, d.state.Team1[:]...), d.state.Team2[:]...)
	for _, slot := range roster {
		_, _, err := d.ConfirmPlayer(slot.Identity)
		require.NoError(t, err)
		if d.state.State == domain.EngineConfirmed {
			break
		}
	}
	// All ten confirming flips to EngineConfirmed, which ChangePick then
	// rejects outright; exercise the clear-on-edit path before that point.
	d2 := newTestDraft()
	require.NoError(t, playAll(t, d2, catalog))
	owner := d2.state.Team1[domain.LaneIndex(domain.LaneTop)].Identity // action 6 pick
	_, _, err := d2.ConfirmPlayer(owner)
	require.NoError(t, err)
	require.Len(t, d2.state.Confirmations, 1)

	_, err = d2.ChangePick(6, "500", owner, catalog)
	require.NoError(t, err)
	assert.Empty(t, d2.state.Confirmations)
}

func TestChangePick_RejectsNonPickAction(t *testing.T) {
	d := newTestDraft()
	catalog := champion.New("15.19.1", "https://ddragon.leagueoflegends.com", nil)
	require.NoError(t, playAll(t, d, catalog))

	owner := d.state.Team1[domain.LaneIndex(domain.LaneTop)].Identity
	_, err := d.ChangePick(0, "500", owner, catalog) // action 0 is a ban
	assert.ErrorIs(t, err, domain.ErrEditNotPick)
}

func TestChangePick_RejectsNonSlotOwner(t *testing.T) {
	d := newTestDraft()
	catalog := champion.New("15.19.1", "https://ddragon.leagueoflegends.com", nil)
	require.NoError(t, playAll(t, d, catalog))

	impostor := d.state.Team1[domain.LaneIndex(domain.LaneJungle)].Identity
	_, err := d.ChangePick(6, "500", impostor, catalog) // action 6 belongs to blue top
	assert.ErrorIs(t, err, domain.ErrUnauthorized)
}

func TestTimeRemaining_FloorsAtZero(t *testing.T) {
	d := newTestDraft()
	past := time.Now().Add(-2 * DefaultActionTimeout)
	d.state.LastActionStartMs = past.UnixMilli()
	assert.Equal(t, 0, d.TimeRemaining(time.Now()))
}

func TestTimeRemaining_CeilsPartialSeconds(t *testing.T) {
	d := newTestDraft()
	d.state.LastActionStartMs = time.Now().UnixMilli()
	remaining := d.TimeRemaining(time.Now().Add(500 * time.Millisecond))
	assert.Equal(t, 30, remaining) // 29.5s remaining ceils to 30
}
