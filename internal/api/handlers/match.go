package handlers

import (
	"net/http"

	"github.com/riftforge/draftorch/internal/domain"
	"github.com/riftforge/draftorch/internal/match"
)

// MatchHandler exposes the Game-In-Progress Monitor's (C9) cancellation
// operation; match start/finalization are driven by C7/C8/C10, not
// called directly over REST.
type MatchHandler struct {
	monitor *match.Monitor
}

func NewMatchHandler(monitor *match.Monitor) *MatchHandler {
	return &MatchHandler{monitor: monitor}
}

type cancelMatchRequest struct {
	PlayerID string `json:"playerId"`
}

// Cancel handles POST /match/{id}/cancel.
func (h *MatchHandler) Cancel(w http.ResponseWriter, r *http.Request) {
	matchID, err := parseMatchID(r)
	if err != nil {
		writeBadRequest(w, err)
		return
	}

	var req cancelMatchRequest
	if err := decodeBody(r, &req); err != nil {
		writeBadRequest(w, err)
		return
	}

	if err := h.monitor.Cancel(r.Context(), matchID, domain.Identity(req.PlayerID)); err != nil {
		writeError(w, err)
		return
	}
	writeOK(w, successResponse{Success: true})
}
