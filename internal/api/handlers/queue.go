package handlers

import (
	"net/http"

	"github.com/riftforge/draftorch/internal/domain"
	"github.com/riftforge/draftorch/internal/queue"
	"github.com/riftforge/draftorch/internal/restore"
)

// QueueHandler exposes the Queue & Balancer (C6) and the restore
// orchestrator's active-match lookup (C11).
type QueueHandler struct {
	queue    *queue.Manager
	restorer *restore.Orchestrator
}

func NewQueueHandler(queue *queue.Manager, restorer *restore.Orchestrator) *QueueHandler {
	return &QueueHandler{queue: queue, restorer: restorer}
}

type joinQueueRequest struct {
	PlayerID      string  `json:"playerId"`
	PrimaryLane   string  `json:"primaryLane"`
	SecondaryLane string  `json:"secondaryLane"`
	SkillRating   float64 `json:"skillRating"`
}

// Join handles POST /queue/join.
func (h *QueueHandler) Join(w http.ResponseWriter, r *http.Request) {
	var req joinQueueRequest
	if err := decodeBody(r, &req); err != nil {
		writeBadRequest(w, err)
		return
	}

	entry := queue.Entry{
		Identity:      domain.Identity(req.PlayerID),
		PrimaryLane:   domain.LaneRole(req.PrimaryLane),
		SecondaryLane: domain.LaneRole(req.SecondaryLane),
		SkillRating:   req.SkillRating,
	}
	if err := h.queue.Join(r.Context(), entry); err != nil {
		writeError(w, err)
		return
	}
	writeOK(w, successResponse{Success: true})
}

type leaveQueueRequest struct {
	PlayerID string `json:"playerId"`
}

// Leave handles POST /queue/leave.
func (h *QueueHandler) Leave(w http.ResponseWriter, r *http.Request) {
	var req leaveQueueRequest
	if err := decodeBody(r, &req); err != nil {
		writeBadRequest(w, err)
		return
	}
	h.queue.Leave(domain.Identity(req.PlayerID))
	writeOK(w, successResponse{Success: true})
}

// MyActiveMatch handles GET /queue/my-active-match?summonerName=….
func (h *QueueHandler) MyActiveMatch(w http.ResponseWriter, r *http.Request) {
	summoner := r.URL.Query().Get("summonerName")
	if summoner == "" {
		writeBadRequest(w, nil)
		return
	}

	m, err := h.restorer.GetMyActiveMatch(r.Context(), domain.Identity(summoner))
	if err != nil {
		writeError(w, err)
		return
	}
	writeOK(w, m)
}
