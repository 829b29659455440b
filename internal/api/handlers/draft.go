// Package handlers implements the REST surface on top of the core
// components: thin request/response translation, no business logic.
package handlers

import (
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/riftforge/draftorch/internal/domain"
	"github.com/riftforge/draftorch/internal/draft"
)

// DraftHandler exposes the Draft Flow Engine (C7) and Confirmation
// Protocol (C8) mutation endpoints.
type DraftHandler struct {
	drafts *draft.Manager
}

func NewDraftHandler(drafts *draft.Manager) *DraftHandler {
	return &DraftHandler{drafts: drafts}
}

type draftActionRequest struct {
	MatchID     int64  `json:"matchId"`
	ActionIndex int    `json:"actionIndex"`
	ChampionID  string `json:"championId"`
	PlayerID    string `json:"playerId"`
}

type successResponse struct {
	Success bool `json:"success"`
}

// ProcessAction handles POST /match/draft-action.
func (h *DraftHandler) ProcessAction(w http.ResponseWriter, r *http.Request) {
	var req draftActionRequest
	if err := decodeBody(r, &req); err != nil {
		writeBadRequest(w, err)
		return
	}

	if err := h.drafts.ProcessAction(r.Context(), req.MatchID, req.ActionIndex, req.ChampionID, domain.Identity(req.PlayerID)); err != nil {
		writeError(w, err)
		return
	}
	writeOK(w, successResponse{Success: true})
}

type changePickRequest struct {
	ActionIndex int    `json:"actionIndex"`
	ChampionID  string `json:"championId"`
	PlayerID    string `json:"playerId"`
}

// ChangePick handles POST /match/{id}/change-pick.
func (h *DraftHandler) ChangePick(w http.ResponseWriter, r *http.Request) {
	matchID, err := parseMatchID(r)
	if err != nil {
		writeBadRequest(w, err)
		return
	}

	var req changePickRequest
	if err := decodeBody(r, &req); err != nil {
		writeBadRequest(w, err)
		return
	}

	if err := h.drafts.ChangePick(r.Context(), matchID, req.ActionIndex, req.ChampionID, domain.Identity(req.PlayerID)); err != nil {
		writeError(w, err)
		return
	}
	writeOK(w, successResponse{Success: true})
}

type confirmDraftRequest struct {
	PlayerID string `json:"playerId"`
}

type confirmDraftResponse struct {
	Success        bool `json:"success"`
	AllConfirmed   bool `json:"allConfirmed"`
	ConfirmedCount int  `json:"confirmedCount"`
	TotalPlayers   int  `json:"totalPlayers"`
}

// ConfirmFinalDraft handles POST /match/{id}/confirm-final-draft.
func (h *DraftHandler) ConfirmFinalDraft(w http.ResponseWriter, r *http.Request) {
	matchID, err := parseMatchID(r)
	if err != nil {
		writeBadRequest(w, err)
		return
	}

	var req confirmDraftRequest
	if err := decodeBody(r, &req); err != nil {
		writeBadRequest(w, err)
		return
	}

	count, all, err := h.drafts.ConfirmPlayer(r.Context(), matchID, domain.Identity(req.PlayerID))
	if err != nil {
		writeError(w, err)
		return
	}
	writeOK(w, confirmDraftResponse{
		Success:        true,
		AllConfirmed:   all,
		ConfirmedCount: count,
		TotalPlayers:   10,
	})
}

func parseMatchID(r *http.Request) (int64, error) {
	return strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
}
