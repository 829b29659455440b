package domain

import "time"

// Vote is one player's current choice of which real game corresponds to a
// completed custom match. A later vote by the same voter supersedes the
// earlier one; uniqueness is on (MatchID, Voter).
type Vote struct {
	MatchID          int64     `json:"matchId"`
	Voter            Identity  `json:"voter"`
	ChosenRealGameID string    `json:"chosenRealGameId"`
	VotedAt          time.Time `json:"votedAt"`
}

// Quorum is the number of identical votes sufficient to finalize a match
// absent a special-user override.
const Quorum = 5
