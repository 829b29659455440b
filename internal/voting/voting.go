// Package voting implements the Match-Voting Service (C10): crowd-sourced
// identification of which externally-recorded real game corresponds to a
// completed custom match, and the atomic transaction that finalizes it.
package voting

import (
	"context"
	"encoding/json"
	"log"
	"time"

	"github.com/riftforge/draftorch/internal/domain"
	"github.com/riftforge/draftorch/internal/matchstore"
	"github.com/riftforge/draftorch/internal/session"
)

// RealGameFetcher fetches a real-game's full payload through the LCU
// Gateway Router (C4), using any session eligible to proxy for the given
// identity.
type RealGameFetcher interface {
	FetchGameDetails(ctx context.Context, id domain.Identity, gameID string) (json.RawMessage, error)
}

// SpecialUsers answers whether a voter's single vote finalizes a match
// alone.
type SpecialUsers interface {
	IsSpecial(id domain.Identity) bool
}

// Broadcaster fans an event out to every connected session.
type Broadcaster interface {
	Broadcast(env *session.Envelope)
}

// Service is the Match-Voting Service.
type Service struct {
	store       matchstore.Store
	votes       matchstore.VoteStore
	special     SpecialUsers
	lcu         RealGameFetcher
	broadcaster Broadcaster
	quorum      int
}

// NewService builds the Match-Voting Service. quorum is normally
// domain.Quorum; it is a parameter rather than a hardcoded constant so an
// operator can tune it per environment without touching the engine.
func NewService(store matchstore.Store, votes matchstore.VoteStore, special SpecialUsers, lcu RealGameFetcher, broadcaster Broadcaster, quorum int) *Service {
	return &Service{store: store, votes: votes, special: special, lcu: lcu, broadcaster: broadcaster, quorum: quorum}
}

// VoteResult is vote()'s return shape, mirroring the vote REST response
// body.
type VoteResult struct {
	Success        bool
	VoteCount      int
	LCUGameID      string
	ShouldLink     bool
	SpecialUser    bool
	VoterName      string
}

// realGamePayloadTeam is the subset of an LCU real-game payload's team
// entries voting needs to detect a winner.
type realGamePayloadTeam struct {
	TeamID int  `json:"teamId"`
	Win    bool `json:"win"`
}

type realGamePayload struct {
	Teams       []realGamePayloadTeam `json:"teams"`
	GameLength  int                   `json:"gameLength"`
}

// Vote implements vote(matchId, voter, chosenRealGameId). It is not
// itself lock-protected beyond the store's own transactional upsert;
// linkMatch, which it may trigger, acquires no match lock either since
// the draft engine has already handed this match off to C9 by the time
// voting is possible.
func (s *Service) Vote(ctx context.Context, matchID int64, voter domain.Identity, chosenRealGameID string) (*VoteResult, error) {
	m, err := s.store.Get(ctx, matchID)
	if err != nil {
		return nil, err
	}
	if m.Status != domain.StatusInProgress {
		return nil, domain.ErrInvalidStatus
	}
	if !m.HasPlayer(voter) {
		return nil, domain.ErrUnauthorized
	}

	if err := s.votes.Upsert(ctx, &domain.Vote{
		MatchID:          matchID,
		Voter:            voter,
		ChosenRealGameID: chosenRealGameID,
		VotedAt:          time.Now(),
	}); err != nil {
		return nil, err
	}

	tally, err := s.votes.Tally(ctx, matchID)
	if err != nil {
		return nil, err
	}

	result := &VoteResult{
		Success:   true,
		VoteCount: tally[chosenRealGameID],
		LCUGameID: chosenRealGameID,
		VoterName: string(voter),
	}

	s.publishTally(matchID, tally)

	isSpecial := s.special.IsSpecial(voter)
	result.SpecialUser = isSpecial

	switch {
	case isSpecial:
		result.ShouldLink = true
		s.publishSpecialUserVote(matchID, voter, chosenRealGameID)
	default:
		for gameID, count := range tally {
			if count >= s.quorum {
				result.ShouldLink = true
				result.LCUGameID = gameID
				break
			}
		}
	}

	if result.ShouldLink {
		if err := s.LinkMatch(ctx, matchID, result.LCUGameID, voter); err != nil {
			log.Printf("voting: link failed for match %d: %v", matchID, err)
			return result, err
		}
	}

	return result, nil
}

// Unvote implements the DELETE /match/{id}/vote endpoint: a roster member
// retracts their own vote. Allowed any time the match has not yet been
// finalized by a link.
func (s *Service) Unvote(ctx context.Context, matchID int64, voter domain.Identity) error {
	m, err := s.store.Get(ctx, matchID)
	if err != nil {
		return err
	}
	if m.Status == domain.StatusCompleted {
		return domain.ErrMatchCompleted
	}
	if !m.HasPlayer(voter) {
		return domain.ErrUnauthorized
	}
	if err := s.votes.Remove(ctx, matchID, voter); err != nil {
		return err
	}
	tally, err := s.votes.Tally(ctx, matchID)
	if err != nil {
		return err
	}
	s.publishTally(matchID, tally)
	return nil
}

// Tally returns the current vote counts per candidate real-game id.
func (s *Service) Tally(ctx context.Context, matchID int64) (map[string]int, error) {
	return s.votes.Tally(ctx, matchID)
}

// LinkMatch implements linkMatch(matchId, realGameId): fetches the full
// payload, detects the winner, and atomically finalizes the match record.
func (s *Service) LinkMatch(ctx context.Context, matchID int64, realGameID string, caller domain.Identity) error {
	m, err := s.store.Get(ctx, matchID)
	if err != nil {
		return err
	}
	if m.Status == domain.StatusCompleted {
		return domain.ErrMatchCompleted
	}

	raw, err := s.lcu.FetchGameDetails(ctx, caller, realGameID)
	if err != nil {
		return err
	}

	var payload realGamePayload
	if err := json.Unmarshal(raw, &payload); err != nil {
		return domain.ErrLCUBadPayload
	}

	var winner *int
	for _, t := range payload.Teams {
		if !t.Win {
			continue
		}
		switch t.TeamID {
		case 100:
			w := 1
			winner = &w
		case 200:
			w := 2
			winner = &w
		}
	}

	var duration *int
	if payload.GameLength > 0 {
		d := payload.GameLength
		duration = &d
	}

	m, err = s.store.Get(ctx, matchID)
	if err != nil {
		return err
	}
	now := time.Now()
	m.LinkedRealGameID = &realGameID
	m.RealGameJSON = string(raw)
	m.ActualWinner = winner
	m.ActualDuration = duration
	m.Status = domain.StatusCompleted
	m.CompletedAt = &now

	if err := s.store.Update(ctx, m); err != nil {
		return err
	}

	s.publishLinked(matchID, realGameID, winner)
	return nil
}

func (s *Service) publishTally(matchID int64, tally map[string]int) {
	type payload struct {
		MatchID int64          `json:"matchId"`
		Tally   map[string]int `json:"tally"`
	}
	env, err := session.NewEnvelope(session.EventMatchVoteUpdate, payload{MatchID: matchID, Tally: tally})
	if err != nil {
		log.Printf("voting: tally envelope build failed for match %d: %v", matchID, err)
		return
	}
	s.broadcaster.Broadcast(env)
}

func (s *Service) publishSpecialUserVote(matchID int64, voter domain.Identity, gameID string) {
	type payload struct {
		MatchID   int64  `json:"matchId"`
		Voter     string `json:"voter"`
		LCUGameID string `json:"lcuGameId"`
	}
	env, err := session.NewEnvelope(session.EventSpecialUserVote, payload{MatchID: matchID, Voter: string(voter), LCUGameID: gameID})
	if err != nil {
		log.Printf("voting: special_user_vote envelope build failed for match %d: %v", matchID, err)
		return
	}
	s.broadcaster.Broadcast(env)
}

func (s *Service) publishLinked(matchID int64, realGameID string, winner *int) {
	type payload struct {
		MatchID    int64  `json:"matchId"`
		RealGameID string `json:"realGameId"`
		Winner     *int   `json:"winner"`
	}
	env, err := session.NewEnvelope(session.EventMatchLinked, payload{MatchID: matchID, RealGameID: realGameID, Winner: winner})
	if err != nil {
		log.Printf("voting: match_linked envelope build failed for match %d: %v", matchID, err)
		return
	}
	s.broadcaster.Broadcast(env)
}
