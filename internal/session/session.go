package session

import (
	"encoding/json"
	"log"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"

	"github.com/riftforge/draftorch/internal/domain"
)

const (
	writeWait      = 10 * time.Second
	pongWait       = 60 * time.Second
	pingPeriod     = (pongWait * 9) / 10
	maxMessageSize = 512 * 1024
	sendQueueSize  = 256
)

// Session is one connected client: anonymous until it sends an identify
// message, optionally proxying LCU RPCs for its identified player.
type Session struct {
	ID   string
	conn *websocket.Conn
	send chan []byte

	mu           sync.RWMutex
	identity     *domain.Identity
	lcuReachable bool
	alive        bool
	lastPingAt   time.Time
	closed       bool

	pendingMu sync.Mutex
	pending   map[string]chan json.RawMessage
}

// New wraps a live websocket connection in a Session, unidentified.
func New(conn *websocket.Conn) *Session {
	return &Session{
		ID:         uuid.NewString(),
		conn:       conn,
		send:       make(chan []byte, sendQueueSize),
		alive:      true,
		lastPingAt: time.Now(),
		pending:    make(map[string]chan json.RawMessage),
	}
}

// Identity returns the bound player identity, if the session has
// identified itself.
func (s *Session) Identity() (domain.Identity, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.identity == nil {
		return "", false
	}
	return *s.identity, true
}

func (s *Session) SetIdentity(id domain.Identity) {
	s.mu.Lock()
	s.identity = &id
	s.mu.Unlock()
}

func (s *Session) SetLCUReachable(reachable bool) {
	s.mu.Lock()
	s.lcuReachable = reachable
	s.mu.Unlock()
}

func (s *Session) LCUReachable() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.lcuReachable
}

func (s *Session) Touch() {
	s.mu.Lock()
	s.lastPingAt = time.Now()
	s.alive = true
	s.mu.Unlock()
}

func (s *Session) IsAlive() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.alive && !s.closed
}

// Send marshals and enqueues an envelope, returning false if the session's
// queue is full or the session is already closed. Per the delivery
// contract, a full queue closes the session rather than blocking.
func (s *Session) Send(env *Envelope) bool {
	data, err := json.Marshal(env)
	if err != nil {
		log.Printf("session: failed to marshal envelope: %v", err)
		return false
	}
	return s.trySend(data)
}

func (s *Session) trySend(data []byte) bool {
	s.mu.RLock()
	closed := s.closed
	s.mu.RUnlock()
	if closed {
		return false
	}

	select {
	case s.send <- data:
		return true
	default:
		// Queue overflow: close the session per the delivery contract.
		s.Close()
		return false
	}
}

// Close marks the session dead and closes its send channel. Safe to call
// more than once.
func (s *Session) Close() {
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return
	}
	s.closed = true
	s.alive = false
	s.mu.Unlock()
	close(s.send)
}

// registerPending records a channel awaiting a correlated reply, used by
// the LCU Gateway Router.
func (s *Session) registerPending(correlationID string) chan json.RawMessage {
	ch := make(chan json.RawMessage, 1)
	s.pendingMu.Lock()
	s.pending[correlationID] = ch
	s.pendingMu.Unlock()
	return ch
}

func (s *Session) clearPending(correlationID string) {
	s.pendingMu.Lock()
	delete(s.pending, correlationID)
	s.pendingMu.Unlock()
}

// resolvePending delivers an inbound lcu_response to its awaiting caller,
// if any.
func (s *Session) resolvePending(correlationID string, payload json.RawMessage) {
	s.pendingMu.Lock()
	ch, ok := s.pending[correlationID]
	s.pendingMu.Unlock()
	if !ok {
		return
	}
	select {
	case ch <- payload:
	default:
	}
}

// ReadPump reads inbound push-channel messages until the connection
// closes, dispatching identify/ping/lcu_response to the registry.
func (s *Session) ReadPump(r *Registry) {
	defer func() {
		r.Remove(s)
		s.conn.Close()
	}()

	s.conn.SetReadLimit(maxMessageSize)
	s.conn.SetReadDeadline(time.Now().Add(pongWait))
	s.conn.SetPongHandler(func(string) error {
		s.conn.SetReadDeadline(time.Now().Add(pongWait))
		s.Touch()
		return nil
	})

	for {
		_, data, err := s.conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure) {
				log.Printf("session: read error: %v", err)
			}
			return
		}

		var msg Inbound
		if err := json.Unmarshal(data, &msg); err != nil {
			log.Printf("session: bad inbound message: %v", err)
			continue
		}

		switch msg.Type {
		case InboundIdentify:
			var payload IdentifyPayload
			if err := json.Unmarshal(msg.Payload, &payload); err != nil {
				continue
			}
			id := domain.Identity(payload.PlayerID)
			if id == "" {
				id = domain.Identity(payload.SummonerName)
			}
			s.SetIdentity(id)
			s.SetLCUReachable(payload.LCUReachable)
			r.onIdentify(s)
		case InboundPing:
			s.Touch()
		case InboundLCUResponse:
			s.resolvePending(msg.CorrelationID, msg.Payload)
		default:
			log.Printf("session: unknown inbound type %q", msg.Type)
		}
	}
}

// WritePump drains the send queue to the socket and pings on an interval,
// mirroring the keepalive contract of the delivery fabric.
func (s *Session) WritePump() {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		s.conn.Close()
	}()

	for {
		select {
		case message, ok := <-s.send:
			s.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				s.conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}
			w, err := s.conn.NextWriter(websocket.TextMessage)
			if err != nil {
				return
			}
			w.Write(message)
			if err := w.Close(); err != nil {
				return
			}
		case <-ticker.C:
			s.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := s.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}
