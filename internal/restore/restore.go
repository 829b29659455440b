// Package restore implements the Persistence/Restore Orchestrator (C11):
// on startup it rehydrates every in-flight draft's in-memory state from its
// persisted row (game_ready/in_progress rows are only logged), and on
// client identify it resolves which match (if any) a reconnecting player
// should resume.
package restore

import (
	"context"
	"log"

	"github.com/riftforge/draftorch/internal/domain"
	"github.com/riftforge/draftorch/internal/draft"
	"github.com/riftforge/draftorch/internal/matchstore"
)

// Orchestrator rehydrates in-memory state from the Match Record Store.
type Orchestrator struct {
	store        matchstore.Store
	draftManager *draft.Manager
}

func NewOrchestrator(store matchstore.Store, draftManager *draft.Manager) *Orchestrator {
	return &Orchestrator{store: store, draftManager: draftManager}
}

// Run sweeps every draft/game_ready/in_progress row at startup. Draft rows
// are fully rehydrated into the Draft Flow Engine; game_ready/in_progress
// rows need no engine rehydration since their draft is already resolved
// and their gameJson is self-contained, but they are logged so an
// operator can see what is mid-flight.
func (o *Orchestrator) Run(ctx context.Context) error {
	rows, err := o.store.ListByStatus(ctx, domain.StatusDraft, domain.StatusGameReady, domain.StatusInProgress)
	if err != nil {
		return err
	}

	for _, m := range rows {
		switch m.Status {
		case domain.StatusDraft:
			if err := o.rehydrateDraft(m); err != nil {
				log.Printf("restore: match %d: failed to rehydrate draft: %v", m.ID, err)
			}
		default:
			log.Printf("restore: match %d is %s, no engine rehydration needed", m.ID, m.Status)
		}
	}
	return nil
}

func (o *Orchestrator) rehydrateDraft(m *domain.Match) error {
	if m.DraftJSON == "" {
		return domain.ErrDraftNotActive
	}
	state, err := draft.Deserialize(m.ID, []byte(m.DraftJSON))
	if err != nil {
		return err
	}
	// Rosters are authoritative on the match row, not the serialized
	// draft blob, in case a rebalance ever touched them after the draft
	// was first persisted.
	state.Team1 = m.Team1Players
	state.Team2 = m.Team2Players
	o.draftManager.Restore(m.ID, state)
	return nil
}

// GetMyActiveMatch implements getMyActiveMatch(identity): returns the most
// recent non-terminal match whose roster contains identity, so a
// reconnecting client can resync without replay.
func (o *Orchestrator) GetMyActiveMatch(ctx context.Context, identity domain.Identity) (*domain.Match, error) {
	return o.store.FindActiveForIdentity(ctx, identity)
}
