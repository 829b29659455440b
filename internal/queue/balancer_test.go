package queue

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/riftforge/draftorch/internal/domain"
)

func uniformEntries(ratings [10]float64) []Entry {
	lanes := domain.LaneOrder
	entries := make([]Entry, 10)
	for i := range entries {
		entries[i] = Entry{
			Identity:      domain.Identity("player" + string(rune('a'+i)) + "#NA1"),
			PrimaryLane:   lanes[i%5],
			SecondaryLane: lanes[(i+1)%5],
			SkillRating:   ratings[i],
		}
	}
	return entries
}

func TestBalance_CoversAllFiveLanesOnBothTeams(t *testing.T) {
	entries := uniformEntries([10]float64{1000, 1000, 1000, 1000, 1000, 1000, 1000, 1000, 1000, 1000})
	result := Balance(entries)

	seen1 := make(map[domain.LaneRole]bool)
	seen2 := make(map[domain.LaneRole]bool)
	for i, lane := range domain.LaneOrder {
		assert.Equal(t, lane, result.Team1[i].Lane)
		assert.Equal(t, lane, result.Team2[i].Lane)
		seen1[result.Team1[i].Lane] = true
		seen2[result.Team2[i].Lane] = true
	}
	assert.Len(t, seen1, 5)
	assert.Len(t, seen2, 5)
}

func TestBalance_MinimizesSkillDelta(t *testing.T) {
	// Five complementary pairs summing to 3000 each: splitting one member
	// of each pair onto each team yields exactly equal 7500 team sums, so
	// the optimum must be a zero delta.
	entries := uniformEntries([10]float64{500, 2500, 800, 2200, 1000, 2000, 1200, 1800, 1400, 1600})
	result := Balance(entries)
	assert.InDelta(t, 0, result.SkillDelta, 0.001)
}

func TestBalance_AutofillSumMatchesAutofilledSlots(t *testing.T) {
	// All ten players want top as primary; the lane assignment must still
	// cover all five lanes, so most will be autofilled regardless of
	// preference. This just asserts the autofill accounting is internally
	// consistent with the chosen assignment.
	entries := make([]Entry, 10)
	for i := range entries {
		entries[i] = Entry{
			Identity:      domain.Identity("player" + string(rune('a'+i)) + "#NA1"),
			PrimaryLane:   domain.LaneTop,
			SecondaryLane: domain.LaneJungle,
			SkillRating:   1000,
		}
	}
	result := Balance(entries)

	actualAutofills := 0
	for _, slot := range append(append([]domain.RosterSlot{}, result.Team1[:]...), result.Team2[:]...) {
		if slot.IsAutofill {
			actualAutofills++
		}
	}
	assert.Equal(t, actualAutofills, result.AutofillSum)
}

func TestBalance_IsDeterministic(t *testing.T) {
	entries := uniformEntries([10]float64{1200, 1100, 1300, 1050, 1400, 1000, 1250, 1150, 1350, 1500})
	a := Balance(entries)
	b := Balance(entries)
	assert.Equal(t, a, b)
}

func TestBestLaneAssignment_MinimizesPreferenceCost(t *testing.T) {
	var team [5]Entry
	for i, lane := range domain.LaneOrder {
		team[i] = Entry{
			Identity:    domain.Identity("p" + string(rune('a'+i))),
			PrimaryLane: lane,
			SkillRating: 1000,
		}
	}
	assignment := bestLaneAssignment(team)
	assert.Equal(t, 0, assignment.autofillCount)
	for i, lane := range domain.LaneOrder {
		assert.Equal(t, team[i].Identity, assignment.slots[domain.LaneIndex(lane)].Identity)
	}
}

func TestGenerateTeamSplits_CountsAllCombinations(t *testing.T) {
	splits := generateTeamSplits(10)
	// C(10,5) = 252
	require.Len(t, splits, 252)
	for _, s := range splits {
		count := 0
		for _, v := range s {
			if v {
				count++
			}
		}
		assert.Equal(t, 5, count)
	}
}

func TestGeneratePermutations_CountsAllOrderings(t *testing.T) {
	perms := generatePermutations(5)
	require.Len(t, perms, 120)
	seen := make(map[string]bool)
	for _, p := range perms {
		require.Len(t, p, 5)
		key := ""
		for _, v := range p {
			key += string(rune('0' + v))
		}
		seen[key] = true
	}
	assert.Len(t, seen, 120)
}
