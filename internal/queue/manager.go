package queue

import (
	"context"
	"log"
	"time"

	"github.com/riftforge/draftorch/internal/domain"
	"github.com/riftforge/draftorch/internal/matchstore"
	"github.com/riftforge/draftorch/internal/session"
)

// DraftStarter hands a freshly balanced match over to the Draft Flow
// Engine (C7). Satisfied by *draft.Manager.
type DraftStarter interface {
	Start(ctx context.Context, match *domain.Match) error
}

// Broadcaster fans an event out to every connected session.
type Broadcaster interface {
	Broadcast(env *session.Envelope)
}

// Manager owns the waiting queue and, once it fills, creates the match
// row and starts its draft.
type Manager struct {
	queue       *Queue
	store       matchstore.Store
	draftStart  DraftStarter
	broadcaster Broadcaster
}

func NewManager(store matchstore.Store, draftStart DraftStarter, broadcaster Broadcaster) *Manager {
	return &Manager{
		queue:       NewQueue(),
		store:       store,
		draftStart:  draftStart,
		broadcaster: broadcaster,
	}
}

// Join adds a player's ticket and, if it completes a group of ten, builds
// and starts the resulting match.
func (m *Manager) Join(ctx context.Context, e Entry) error {
	m.queue.Join(e)
	entries, full := m.queue.DrainIfFull()
	if !full {
		return nil
	}
	if err := m.startMatch(ctx, entries); err != nil {
		// Roll the ten players back into the queue so a transient store
		// failure doesn't strand them.
		for _, e := range entries {
			m.queue.Join(e)
		}
		return err
	}
	return nil
}

// Leave removes a player's ticket.
func (m *Manager) Leave(id domain.Identity) {
	m.queue.Leave(id)
}

// QueueLen reports how many players are currently waiting.
func (m *Manager) QueueLen() int {
	return m.queue.Len()
}

func (m *Manager) startMatch(ctx context.Context, entries []Entry) error {
	result := Balance(entries)

	match := &domain.Match{
		Status:            domain.StatusDraft,
		Team1Players:      result.Team1,
		Team2Players:      result.Team2,
		AverageSkillTeam1: result.AvgSkill1,
		AverageSkillTeam2: result.AvgSkill2,
		CreatedAt:         time.Now(),
	}
	if err := m.store.Create(ctx, match); err != nil {
		return err
	}

	if err := m.draftStart.Start(ctx, match); err != nil {
		return err
	}

	m.publishMatchFound(match)
	return nil
}

type matchFoundPayload struct {
	MatchID int64                 `json:"matchId"`
	Team1   [5]domain.RosterSlot `json:"team1"`
	Team2   [5]domain.RosterSlot `json:"team2"`
}

func (m *Manager) publishMatchFound(match *domain.Match) {
	env, err := session.NewEnvelope(session.EventMatchFound, matchFoundPayload{
		MatchID: match.ID,
		Team1:   match.Team1Players,
		Team2:   match.Team2Players,
	})
	if err != nil {
		log.Printf("queue: match_found envelope build failed for match %d: %v", match.ID, err)
		return
	}
	m.broadcaster.Broadcast(env)
}
