package handlers

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/riftforge/draftorch/internal/config"
	"github.com/riftforge/draftorch/internal/domain"
	"github.com/riftforge/draftorch/internal/matchstore"
)

// DebugHandler exposes test hooks that bypass the normal queue/draft flow.
// Disabled when the environment is production.
type DebugHandler struct {
	store matchstore.Store
	cfg   *config.Config
}

func NewDebugHandler(store matchstore.Store, cfg *config.Config) *DebugHandler {
	return &DebugHandler{store: store, cfg: cfg}
}

type simulateParticipant struct {
	SummonerName string `json:"summonerName"`
	ChampionID   string `json:"championId"`
	ChampionName string `json:"championName"`
	TeamID       int    `json:"teamId"`
	Lane         string `json:"lane"`
}

type simulateTeam struct {
	TeamID int  `json:"teamId"`
	Win    bool `json:"win"`
}

type simulateLastMatchRequest struct {
	GameID       string                `json:"gameId"`
	GameDuration int                   `json:"gameDuration"`
	Teams        []simulateTeam        `json:"teams"`
	Participants []simulateParticipant `json:"participants"`
}

var laneFromRiot = map[string]domain.LaneRole{
	"TOP":     domain.LaneTop,
	"JUNGLE":  domain.LaneJungle,
	"MIDDLE":  domain.LaneMid,
	"MID":     domain.LaneMid,
	"BOTTOM":  domain.LaneBot,
	"BOT":     domain.LaneBot,
	"ADC":     domain.LaneBot,
	"UTILITY": domain.LaneSupport,
	"SUPPORT": domain.LaneSupport,
}

// SimulateLastMatch handles POST /debug/simulate-last-match: it builds an
// in_progress match directly from a supplied external-game payload, for
// exercising the Match-Voting Service without a live draft.
func (h *DebugHandler) SimulateLastMatch(w http.ResponseWriter, r *http.Request) {
	if h.cfg.Environment == "production" {
		writeJSON(w, http.StatusForbidden, errorResponse{Success: false, Error: "NOT_AVAILABLE"})
		return
	}

	var req simulateLastMatchRequest
	if err := decodeBody(r, &req); err != nil {
		writeBadRequest(w, err)
		return
	}

	var team1, team2 [5]domain.RosterSlot
	var t1i, t2i int
	for _, p := range req.Participants {
		lane, ok := laneFromRiot[p.Lane]
		if !ok {
			lane = domain.LaneOrder[0]
		}
		slot := domain.RosterSlot{
			Identity: domain.Identity(p.SummonerName),
			Lane:     lane,
		}
		if p.TeamID == 100 && t1i < 5 {
			team1[t1i] = slot
			t1i++
		} else if p.TeamID == 200 && t2i < 5 {
			team2[t2i] = slot
			t2i++
		}
	}

	raw, err := json.Marshal(req)
	if err != nil {
		writeError(w, domain.ErrPersistence.Wrap(err))
		return
	}

	match := &domain.Match{
		Status:       domain.StatusInProgress,
		Team1Players: team1,
		Team2Players: team2,
		GameJSON:     string(raw),
		CreatedAt:    time.Now(),
	}
	if err := h.store.Create(r.Context(), match); err != nil {
		writeError(w, err)
		return
	}
	writeOK(w, map[string]interface{}{"success": true, "matchId": match.ID})
}
