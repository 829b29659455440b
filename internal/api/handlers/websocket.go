package handlers

import (
	"log"
	"net/http"

	ws "github.com/gorilla/websocket"

	"github.com/riftforge/draftorch/internal/identity"
	"github.com/riftforge/draftorch/internal/session"
)

var upgrader = ws.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin: func(r *http.Request) bool {
		return true
	},
}

// WebSocketHandler upgrades the push channel and registers the
// resulting session, unidentified, with the Session Registry. Identity
// binding happens on the session's own "identify" message, not here; the
// query-param token only proves the connection belongs to a signed-in
// client.
type WebSocketHandler struct {
	registry *session.Registry
	verifier identity.Verifier
}

func NewWebSocketHandler(registry *session.Registry, verifier identity.Verifier) *WebSocketHandler {
	return &WebSocketHandler{registry: registry, verifier: verifier}
}

func (h *WebSocketHandler) Handle(w http.ResponseWriter, r *http.Request) {
	token := r.URL.Query().Get("token")
	if token == "" {
		http.Error(w, "Token required", http.StatusUnauthorized)
		return
	}
	if _, err := h.verifier.Verify(token); err != nil {
		http.Error(w, "Invalid token", http.StatusUnauthorized)
		return
	}

	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Printf("websocket: upgrade error: %v", err)
		return
	}

	s := session.New(conn)
	h.registry.Add(s)

	go s.WritePump()
	go s.ReadPump(h.registry)
}
