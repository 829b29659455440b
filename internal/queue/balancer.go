package queue

import (
	"strings"

	"github.com/riftforge/draftorch/internal/domain"
)

// autofillCost ranks how well a lane assignment matches a player's stated
// preference: 0 for primary, 1 for secondary, 2 for neither (autofill).
func autofillCost(e Entry, lane domain.LaneRole) int {
	switch lane {
	case e.PrimaryLane:
		return 0
	case e.SecondaryLane:
		return 1
	default:
		return 2
	}
}

// laneAssignment is the result of assigning one team's five players to the
// five lanes.
type laneAssignment struct {
	slots         [5]domain.RosterSlot
	autofillCount int
	skillSum      float64
}

// bestLaneAssignment finds the lane permutation for five players that
// minimizes total preference cost (ties broken by the first-encountered
// permutation in generatePermutations' deterministic order).
func bestLaneAssignment(team [5]Entry) laneAssignment {
	bestCost := -1
	var best laneAssignment

	for _, perm := range lanePermutations {
		totalCost := 0
		autofills := 0
		var slots [5]domain.RosterSlot
		var sum float64
		for i, laneIdx := range perm {
			lane := domain.LaneOrder[laneIdx]
			c := autofillCost(team[i], lane)
			totalCost += c
			sum += team[i].SkillRating
			isAutofill := c == 2
			if isAutofill {
				autofills++
			}
			slots[laneIdx] = domain.RosterSlot{
				Identity:    team[i].Identity,
				Lane:        lane,
				SkillRating: team[i].SkillRating,
				IsAutofill:  isAutofill,
			}
		}
		if bestCost == -1 || totalCost < bestCost {
			bestCost = totalCost
			best = laneAssignment{slots: slots, autofillCount: autofills, skillSum: sum}
		}
	}
	return best
}

// lanePermutations are the 5! = 120 permutations of lane-order indices,
// generated once at package init.
var lanePermutations = generatePermutations(5)

// generatePermutations generates all permutations of [0,n) via Heap's
// algorithm.
func generatePermutations(n int) [][]int {
	var results [][]int
	perm := make([]int, n)
	for i := range perm {
		perm[i] = i
	}

	var generate func(k int)
	generate = func(k int) {
		if k == 1 {
			result := make([]int, n)
			copy(result, perm)
			results = append(results, result)
			return
		}
		generate(k - 1)
		for i := 0; i < k-1; i++ {
			if k%2 == 0 {
				perm[i], perm[k-1] = perm[k-1], perm[i]
			} else {
				perm[0], perm[k-1] = perm[k-1], perm[0]
			}
			generate(k - 1)
		}
	}
	generate(n)
	return results
}

// generateTeamSplits generates all C(10,5) = 252 ways to mark five of n
// entries as team1.
func generateTeamSplits(n int) [][]bool {
	var results [][]bool
	var generate func(pos, trueCount int, current []bool)

	generate = func(pos, trueCount int, current []bool) {
		remaining := n - pos
		neededTrue := 5 - trueCount
		neededFalse := 5 - (pos - trueCount)
		if neededTrue > remaining || neededFalse > remaining {
			return
		}
		if pos == n {
			if trueCount == 5 {
				result := make([]bool, n)
				copy(result, current)
				results = append(results, result)
			}
			return
		}
		if trueCount < 5 {
			current[pos] = true
			generate(pos+1, trueCount+1, current)
		}
		if pos-trueCount < 5 {
			current[pos] = false
			generate(pos+1, trueCount, current)
		}
	}

	generate(0, 0, make([]bool, n))
	return results
}

// BalanceResult is a complete, lane-assigned 5v5 partition.
type BalanceResult struct {
	Team1       [5]domain.RosterSlot
	Team2       [5]domain.RosterSlot
	AvgSkill1   float64
	AvgSkill2   float64
	SkillDelta  float64
	AutofillSum int
}

func rosterKey(slots [5]domain.RosterSlot) string {
	parts := make([]string, len(slots))
	for i, s := range slots {
		parts[i] = string(s.Identity)
	}
	return strings.Join(parts, ",")
}

// Balance partitions exactly ten entries into two balanced teams.
// Candidates are compared by skill-rating delta first, total autofill
// count second, and a deterministic lexicographic key over the
// concatenated identities last, so ties resolve the same way every time.
func Balance(entries []Entry) BalanceResult {
	splits := generateTeamSplits(len(entries))

	var best BalanceResult
	var bestKey string
	haveBest := false

	for _, split := range splits {
		var team1, team2 [5]Entry
		i1, i2 := 0, 0
		for i, inTeam1 := range split {
			if inTeam1 {
				team1[i1] = entries[i]
				i1++
			} else {
				team2[i2] = entries[i]
				i2++
			}
		}

		a1 := bestLaneAssignment(team1)
		a2 := bestLaneAssignment(team2)

		avg1 := a1.skillSum / 5
		avg2 := a2.skillSum / 5
		delta := avg1 - avg2
		if delta < 0 {
			delta = -delta
		}
		autofillSum := a1.autofillCount + a2.autofillCount

		candidate := BalanceResult{
			Team1:       a1.slots,
			Team2:       a2.slots,
			AvgSkill1:   avg1,
			AvgSkill2:   avg2,
			SkillDelta:  delta,
			AutofillSum: autofillSum,
		}
		key := rosterKey(a1.slots) + "|" + rosterKey(a2.slots)

		if !haveBest {
			best, bestKey, haveBest = candidate, key, true
			continue
		}

		switch {
		case candidate.SkillDelta < best.SkillDelta:
			best, bestKey = candidate, key
		case candidate.SkillDelta > best.SkillDelta:
			// worse
		case candidate.AutofillSum < best.AutofillSum:
			best, bestKey = candidate, key
		case candidate.AutofillSum > best.AutofillSum:
			// worse
		case key < bestKey:
			best, bestKey = candidate, key
		}
	}

	return best
}
