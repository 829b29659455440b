// Package matchstore defines the Match Record Store (C5) contract: the
// authoritative, transactional persistence of match rows, votes, and
// process-wide settings. The interfaces here are storage-engine agnostic;
// internal/matchstore/postgres provides the gorm-backed implementation.
package matchstore

import (
	"context"

	"github.com/riftforge/draftorch/internal/domain"
)

// Store is the authoritative match record persistence contract.
type Store interface {
	Create(ctx context.Context, m *domain.Match) error
	Get(ctx context.Context, id int64) (*domain.Match, error)
	Update(ctx context.Context, m *domain.Match) error
	ListByStatus(ctx context.Context, statuses ...domain.MatchStatus) ([]*domain.Match, error)
	// FindActiveForIdentity returns the most recent non-terminal match whose
	// roster contains identity, or ErrMatchNotFound.
	FindActiveForIdentity(ctx context.Context, identity domain.Identity) (*domain.Match, error)
}

// VoteStore is the match_votes persistence contract, keyed by
// (matchId, voter).
type VoteStore interface {
	Upsert(ctx context.Context, v *domain.Vote) error
	Tally(ctx context.Context, matchID int64) (map[string]int, error)
	All(ctx context.Context, matchID int64) ([]domain.Vote, error)
	Clear(ctx context.Context, matchID int64) error
	Remove(ctx context.Context, matchID int64, voter domain.Identity) error
}

// SettingsStore is the process-wide key/value settings table, used to hold
// (among others) the special_users JSON array.
type SettingsStore interface {
	Get(ctx context.Context, key string) (string, bool, error)
	Set(ctx context.Context, key, value string) error
}
