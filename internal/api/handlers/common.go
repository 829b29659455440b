package handlers

import (
	"encoding/json"
	"log"
	"net/http"

	"github.com/riftforge/draftorch/internal/domain"
)

func decodeBody(r *http.Request, dst interface{}) error {
	defer r.Body.Close()
	return json.NewDecoder(r.Body).Decode(dst)
}

func writeOK(w http.ResponseWriter, body interface{}) {
	writeJSON(w, http.StatusOK, body)
}

func writeJSON(w http.ResponseWriter, status int, body interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(body); err != nil {
		log.Printf("api: failed to encode response: %v", err)
	}
}

type errorResponse struct {
	Success bool   `json:"success"`
	Error   string `json:"error"`
}

func writeBadRequest(w http.ResponseWriter, err error) {
	writeJSON(w, http.StatusBadRequest, errorResponse{Success: false, Error: "BAD_REQUEST"})
}

// writeError maps a typed *domain.Error's Kind to the REST status the
// error handling design assigns it, and echoes its Tag as the short
// reason string.
func writeError(w http.ResponseWriter, err error) {
	status := http.StatusInternalServerError
	if kind, ok := domain.KindOf(err); ok {
		switch kind {
		case domain.KindNotFound:
			status = http.StatusNotFound
		case domain.KindOutOfOrder:
			status = http.StatusConflict
		case domain.KindConflict:
			status = http.StatusConflict
		case domain.KindUnauthorized:
			status = http.StatusForbidden
		case domain.KindUpstream:
			status = http.StatusBadGateway
		case domain.KindPersistence:
			status = http.StatusInternalServerError
		}
	}
	writeJSON(w, status, errorResponse{Success: false, Error: domain.TagOf(err)})
}
