// Package identity implements the Identity & Special-User Service (C2): a
// process-wide, read-mostly set of privileged voter identities sourced
// from the settings store.
package identity

import (
	"context"
	"encoding/json"
	"sync"

	"github.com/riftforge/draftorch/internal/domain"
)

const specialUsersSettingKey = "special_users"

// SettingsStore is the subset of matchstore.SettingsStore this service
// needs; declared locally to avoid importing the persistence layer into
// the domain-facing identity package.
type SettingsStore interface {
	Get(ctx context.Context, key string) (string, bool, error)
	Set(ctx context.Context, key, value string) error
}

// SpecialUsers answers isSpecial(id) from an in-memory, copy-on-write set
// refreshed from the settings store.
type SpecialUsers struct {
	mu    sync.RWMutex
	set   map[string]struct{}
	store SettingsStore
}

func NewSpecialUsers(store SettingsStore) *SpecialUsers {
	return &SpecialUsers{set: make(map[string]struct{}), store: store}
}

// Load reads the special_users JSON array from the settings store into
// the in-memory set. Called at startup and whenever the set is written.
func (s *SpecialUsers) Load(ctx context.Context) error {
	raw, ok, err := s.store.Get(ctx, specialUsersSettingKey)
	if err != nil {
		return err
	}
	if !ok || raw == "" {
		s.mu.Lock()
		s.set = make(map[string]struct{})
		s.mu.Unlock()
		return nil
	}

	var identities []string
	if err := json.Unmarshal([]byte(raw), &identities); err != nil {
		return err
	}

	next := make(map[string]struct{}, len(identities))
	for _, id := range identities {
		next[domain.NormalizeIdentity(domain.Identity(id))] = struct{}{}
	}

	s.mu.Lock()
	s.set = next
	s.mu.Unlock()
	return nil
}

// IsSpecial answers whether identity is a privileged voter, compared
// case-insensitively with surrounding whitespace trimmed.
func (s *SpecialUsers) IsSpecial(id domain.Identity) bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	_, ok := s.set[domain.NormalizeIdentity(id)]
	return ok
}

// Set persists a new special-user list and refreshes the cached copy.
func (s *SpecialUsers) Set(ctx context.Context, identities []domain.Identity) error {
	raw := make([]string, len(identities))
	for i, id := range identities {
		raw[i] = string(id)
	}
	encoded, err := json.Marshal(raw)
	if err != nil {
		return err
	}
	if err := s.store.Set(ctx, specialUsersSettingKey, string(encoded)); err != nil {
		return err
	}
	return s.Load(ctx)
}
