package postgres

import (
	"context"
	"errors"
	"strings"

	"github.com/riftforge/draftorch/internal/domain"
	"gorm.io/gorm"
)

// MatchStore is the gorm-backed implementation of matchstore.Store.
type MatchStore struct {
	db *gorm.DB
}

func NewMatchStore(db *gorm.DB) *MatchStore {
	return &MatchStore{db: db}
}

func (s *MatchStore) Create(ctx context.Context, m *domain.Match) error {
	rec, err := fromDomain(m)
	if err != nil {
		return domain.ErrPersistence.Wrap(err)
	}
	if err := s.db.WithContext(ctx).Create(rec).Error; err != nil {
		return domain.ErrPersistence.Wrap(err)
	}
	m.ID = rec.ID
	return nil
}

func (s *MatchStore) Get(ctx context.Context, id int64) (*domain.Match, error) {
	var rec matchRecord
	if err := s.db.WithContext(ctx).First(&rec, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrMatchNotFound
		}
		return nil, domain.ErrPersistence.Wrap(err)
	}
	return toDomain(&rec)
}

func (s *MatchStore) Update(ctx context.Context, m *domain.Match) error {
	rec, err := fromDomain(m)
	if err != nil {
		return domain.ErrPersistence.Wrap(err)
	}
	if err := s.db.WithContext(ctx).Save(rec).Error; err != nil {
		return domain.ErrPersistence.Wrap(err)
	}
	return nil
}

func (s *MatchStore) ListByStatus(ctx context.Context, statuses ...domain.MatchStatus) ([]*domain.Match, error) {
	strs := make([]string, len(statuses))
	for i, st := range statuses {
		strs[i] = string(st)
	}
	var recs []matchRecord
	if err := s.db.WithContext(ctx).Where("status IN ?", strs).Order("created_at ASC").Find(&recs).Error; err != nil {
		return nil, domain.ErrPersistence.Wrap(err)
	}
	out := make([]*domain.Match, 0, len(recs))
	for i := range recs {
		m, err := toDomain(&recs[i])
		if err != nil {
			continue
		}
		out = append(out, m)
	}
	return out, nil
}

// FindActiveForIdentity implements C11's getMyActiveMatch lookup: exact
// roster membership is preferred; a case-insensitive substring match
// against the serialized draft JSON is the fallback.
func (s *MatchStore) FindActiveForIdentity(ctx context.Context, identity domain.Identity) (*domain.Match, error) {
	var recs []matchRecord
	terminal := []string{string(domain.StatusCompleted), string(domain.StatusCancelled)}
	if err := s.db.WithContext(ctx).
		Where("status NOT IN ?", terminal).
		Order("created_at DESC").
		Find(&recs).Error; err != nil {
		return nil, domain.ErrPersistence.Wrap(err)
	}

	type candidate struct {
		match     *domain.Match
		draftJSON string
	}
	candidates := make([]candidate, 0, len(recs))
	for i := range recs {
		m, err := toDomain(&recs[i])
		if err != nil {
			continue
		}
		candidates = append(candidates, candidate{match: m, draftJSON: recs[i].DraftJSON})
	}

	for _, c := range candidates {
		if c.match.HasPlayer(identity) {
			return c.match, nil
		}
	}

	norm := domain.NormalizeIdentity(identity)
	for _, c := range candidates {
		if strings.Contains(strings.ToLower(c.draftJSON), norm) {
			return c.match, nil
		}
	}

	return nil, domain.ErrMatchNotFound
}
