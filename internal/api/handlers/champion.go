package handlers

import (
	"net/http"

	"github.com/riftforge/draftorch/internal/champion"
)

// ChampionHandler exposes a read-only view of the Champion Catalog (C3).
type ChampionHandler struct {
	catalog *champion.Catalog
}

func NewChampionHandler(catalog *champion.Catalog) *ChampionHandler {
	return &ChampionHandler{catalog: catalog}
}

type syncResponse struct {
	Success bool `json:"success"`
}

// Sync handles POST /champions/sync, re-fetching the catalog from Data
// Dragon. Should be admin-gated in production; left open here for now.
func (h *ChampionHandler) Sync(w http.ResponseWriter, r *http.Request) {
	if err := h.catalog.Sync(r.Context()); err != nil {
		writeError(w, err)
		return
	}
	writeOK(w, syncResponse{Success: true})
}
