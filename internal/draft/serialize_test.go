package draft

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/riftforge/draftorch/internal/champion"
	"github.com/riftforge/draftorch/internal/domain"
)

func TestSerializeDeserialize_RoundTripsActionsAndRosters(t *testing.T) {
	d := newTestDraft()
	catalog := champion.New("15.19.1", "https://ddragon.leagueoflegends.com", nil)

	// Play the draft partway through so some actions are open and some
	// resolved, the mix Deserialize must reconstruct faithfully.
	for i := 0; i < 8; i++ {
		phase := Phases[i]
		roster := d.state.RosterOf(phase.Team)
		actor := roster[domain.LaneIndex(phase.PlayerSlot)].Identity
		_, err := d.ProcessAction(i, itoa(i+1), actor, catalog, time.Now())
		require.NoError(t, err)
	}

	raw, err := Serialize(d.state)
	require.NoError(t, err)

	restored, err := Deserialize(d.state.MatchID, raw)
	require.NoError(t, err)

	assert.Equal(t, d.state.MatchID, restored.MatchID)
	assert.Equal(t, d.state.CurrentIndex, restored.CurrentIndex)
	assert.Equal(t, d.state.Team1, restored.Team1)
	assert.Equal(t, d.state.Team2, restored.Team2)
	for i := range d.state.Actions {
		assert.Equal(t, d.state.Actions[i].Index, restored.Actions[i].Index, "action %d", i)
		assert.Equal(t, d.state.Actions[i].Type, restored.Actions[i].Type, "action %d", i)
		assert.Equal(t, d.state.Actions[i].Team, restored.Actions[i].Team, "action %d", i)
		assert.Equal(t, d.state.Actions[i].PlayerSlot, restored.Actions[i].PlayerSlot, "action %d", i)
		if d.state.Actions[i].ChampionKey == nil {
			assert.Nil(t, restored.Actions[i].ChampionKey, "action %d", i)
		} else {
			require.NotNil(t, restored.Actions[i].ChampionKey, "action %d", i)
			assert.Equal(t, *d.state.Actions[i].ChampionKey, *restored.Actions[i].ChampionKey, "action %d", i)
		}
	}
}

func TestDeserialize_CompletedDraftRestoresCompletedState(t *testing.T) {
	d := newTestDraft()
	catalog := champion.New("15.19.1", "https://ddragon.leagueoflegends.com", nil)
	require.NoError(t, playAll(t, d, catalog))

	raw, err := Serialize(d.state)
	require.NoError(t, err)

	restored, err := Deserialize(d.state.MatchID, raw)
	require.NoError(t, err)
	assert.Equal(t, domain.EngineCompleted, restored.State)
	assert.Equal(t, domain.TotalActions, restored.CurrentIndex)
}

func TestDeserialize_RejectsWrongActionCount(t *testing.T) {
	_, err := Deserialize(1, []byte(`{"actions":[]}`))
	assert.Error(t, err)
}
