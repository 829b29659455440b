package handlers

import (
	"net/http"

	"github.com/riftforge/draftorch/internal/domain"
	"github.com/riftforge/draftorch/internal/voting"
)

// VotingHandler exposes the Match-Voting Service (C10).
type VotingHandler struct {
	votes *voting.Service
}

func NewVotingHandler(votes *voting.Service) *VotingHandler {
	return &VotingHandler{votes: votes}
}

type voteRequest struct {
	PlayerID  string `json:"playerId"`
	LCUGameID string `json:"lcuGameId"`
}

type voteResponse struct {
	Success        bool   `json:"success"`
	VoteCount      int    `json:"voteCount"`
	LCUGameID      string `json:"lcuGameId"`
	ShouldLink     bool   `json:"shouldLink"`
	SpecialUser    bool   `json:"specialUserVote"`
	VoterName      string `json:"voterName"`
}

// Vote handles POST /match/{id}/vote.
func (h *VotingHandler) Vote(w http.ResponseWriter, r *http.Request) {
	matchID, err := parseMatchID(r)
	if err != nil {
		writeBadRequest(w, err)
		return
	}

	var req voteRequest
	if err := decodeBody(r, &req); err != nil {
		writeBadRequest(w, err)
		return
	}

	result, err := h.votes.Vote(r.Context(), matchID, domain.Identity(req.PlayerID), req.LCUGameID)
	if err != nil && result == nil {
		writeError(w, err)
		return
	}
	// A link failure after a successful vote still reports the vote itself;
	// the REST contract has no separate "link failed" shape.
	writeOK(w, voteResponse{
		Success:     result.Success,
		VoteCount:   result.VoteCount,
		LCUGameID:   result.LCUGameID,
		ShouldLink:  result.ShouldLink,
		SpecialUser: result.SpecialUser,
		VoterName:   result.VoterName,
	})
}

// GetVotes handles GET /match/{id}/votes.
func (h *VotingHandler) GetVotes(w http.ResponseWriter, r *http.Request) {
	matchID, err := parseMatchID(r)
	if err != nil {
		writeBadRequest(w, err)
		return
	}

	tally, err := h.votes.Tally(r.Context(), matchID)
	if err != nil {
		writeError(w, err)
		return
	}
	writeOK(w, tally)
}

type unvoteRequest struct {
	PlayerID string `json:"playerId"`
}

// Unvote handles DELETE /match/{id}/vote.
func (h *VotingHandler) Unvote(w http.ResponseWriter, r *http.Request) {
	matchID, err := parseMatchID(r)
	if err != nil {
		writeBadRequest(w, err)
		return
	}

	var req unvoteRequest
	if err := decodeBody(r, &req); err != nil {
		writeBadRequest(w, err)
		return
	}

	if err := h.votes.Unvote(r.Context(), matchID, domain.Identity(req.PlayerID)); err != nil {
		writeError(w, err)
		return
	}
	writeOK(w, successResponse{Success: true})
}
