package session

import (
	"context"
	"log"
	"sort"
	"sync"
	"time"

	"github.com/riftforge/draftorch/internal/domain"
)

// Registry is the Session Registry (C1): the single owned container
// mapping live sessions and identities to deliverable connections.
type Registry struct {
	mu         sync.RWMutex
	sessions   map[string]*Session
	byIdentity map[string]map[string]*Session // normalized identity -> sessionID -> session
}

func NewRegistry() *Registry {
	return &Registry{
		sessions:   make(map[string]*Session),
		byIdentity: make(map[string]map[string]*Session),
	}
}

// Add registers a new, not-yet-identified session.
func (r *Registry) Add(s *Session) {
	r.mu.Lock()
	r.sessions[s.ID] = s
	r.mu.Unlock()
}

// Remove drops a session from the registry and its identity index.
func (r *Registry) Remove(s *Session) {
	id, hadIdentity := s.Identity()
	r.mu.Lock()
	delete(r.sessions, s.ID)
	if hadIdentity {
		key := domain.NormalizeIdentity(id)
		if set, ok := r.byIdentity[key]; ok {
			delete(set, s.ID)
			if len(set) == 0 {
				delete(r.byIdentity, key)
			}
		}
	}
	r.mu.Unlock()
	s.Close()
	r.broadcastUsersOnline()
	if hadIdentity {
		r.broadcastDiscordStatus(id, false)
	}
}

func (r *Registry) onIdentify(s *Session) {
	id, ok := s.Identity()
	if !ok {
		return
	}
	key := domain.NormalizeIdentity(id)
	r.mu.Lock()
	set, ok := r.byIdentity[key]
	if !ok {
		set = make(map[string]*Session)
		r.byIdentity[key] = set
	}
	set[s.ID] = s
	r.mu.Unlock()
	r.broadcastUsersOnline()
	r.broadcastDiscordStatus(id, s.LCUReachable())
}

// All returns a snapshot of every live session.
func (r *Registry) All() []*Session {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]*Session, 0, len(r.sessions))
	for _, s := range r.sessions {
		if s.IsAlive() {
			out = append(out, s)
		}
	}
	return out
}

// ByIdentity returns every live session identified as id.
func (r *Registry) ByIdentity(id domain.Identity) []*Session {
	r.mu.RLock()
	defer r.mu.RUnlock()
	set, ok := r.byIdentity[domain.NormalizeIdentity(id)]
	if !ok {
		return nil
	}
	out := make([]*Session, 0, len(set))
	for _, s := range set {
		if s.IsAlive() {
			out = append(out, s)
		}
	}
	return out
}

// Send delivers a message to a specific session, best-effort. A failed
// send (overflow, already closed) removes the session from the registry.
func (r *Registry) Send(s *Session, env *Envelope) bool {
	if s.Send(env) {
		return true
	}
	r.Remove(s)
	return false
}

// Broadcast fans an event out to every live session. Ordering is
// preserved per-session, not globally; per-session failures are swallowed
// and the session is reaped.
func (r *Registry) Broadcast(env *Envelope) {
	for _, s := range r.All() {
		r.Send(s, env)
	}
}

func (r *Registry) broadcastUsersOnline() {
	r.mu.RLock()
	users := make([]string, 0, len(r.byIdentity))
	for key := range r.byIdentity {
		users = append(users, key)
	}
	r.mu.RUnlock()
	sort.Strings(users)

	env, err := NewEnvelope(EventDiscordUsers, DiscordUsersPayload{Users: users})
	if err != nil {
		log.Printf("session: failed to build discord_users envelope: %v", err)
		return
	}
	r.Broadcast(env)
}

// broadcastDiscordStatus announces an identity's LCU-reachability change,
// fired on identify (reachable as reported by the client) and on
// disconnect (always unreachable).
func (r *Registry) broadcastDiscordStatus(id domain.Identity, reachable bool) {
	env, err := NewEnvelope(EventDiscordStatus, DiscordStatusPayload{
		Identity:     string(id),
		LCUReachable: reachable,
	})
	if err != nil {
		log.Printf("session: failed to build discord_status envelope: %v", err)
		return
	}
	r.Broadcast(env)
}

// RPC sends a correlated request to a specific session and blocks for its
// lcu_response, or until timeout elapses. Used exclusively by the LCU
// Gateway Router (C4).
func (r *Registry) RPC(ctx context.Context, s *Session, payload interface{}, timeout time.Duration) ([]byte, error) {
	correlationID := newCorrelationID()
	respCh := s.registerPending(correlationID)
	defer s.clearPending(correlationID)

	env, err := NewCorrelatedEnvelope(EventLCURequest, payload, correlationID)
	if err != nil {
		return nil, err
	}
	if !r.Send(s, env) {
		return nil, domain.ErrLCUUnreachable
	}

	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	select {
	case resp := <-respCh:
		return resp, nil
	case <-ctx.Done():
		return nil, domain.ErrLCUTimeout
	}
}
