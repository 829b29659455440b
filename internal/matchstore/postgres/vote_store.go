package postgres

import (
	"context"

	"github.com/riftforge/draftorch/internal/domain"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// VoteStore is the gorm-backed implementation of matchstore.VoteStore.
type VoteStore struct {
	db *gorm.DB
}

func NewVoteStore(db *gorm.DB) *VoteStore {
	return &VoteStore{db: db}
}

// Upsert writes v, superseding any prior vote by the same voter on the
// same match (I5).
func (s *VoteStore) Upsert(ctx context.Context, v *domain.Vote) error {
	rec := voteRecord{
		MatchID:          v.MatchID,
		Voter:            domain.NormalizeIdentity(v.Voter),
		ChosenRealGameID: v.ChosenRealGameID,
		VotedAt:          v.VotedAt,
	}
	err := s.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "match_id"}, {Name: "voter"}},
		DoUpdates: clause.AssignmentColumns([]string{"chosen_real_game_id", "voted_at"}),
	}).Create(&rec).Error
	if err != nil {
		return domain.ErrPersistence.Wrap(err)
	}
	return nil
}

func (s *VoteStore) Tally(ctx context.Context, matchID int64) (map[string]int, error) {
	recs, err := s.load(ctx, matchID)
	if err != nil {
		return nil, err
	}
	tally := make(map[string]int)
	for _, r := range recs {
		tally[r.ChosenRealGameID]++
	}
	return tally, nil
}

func (s *VoteStore) All(ctx context.Context, matchID int64) ([]domain.Vote, error) {
	recs, err := s.load(ctx, matchID)
	if err != nil {
		return nil, err
	}
	out := make([]domain.Vote, 0, len(recs))
	for _, r := range recs {
		out = append(out, domain.Vote{
			MatchID:          r.MatchID,
			Voter:            domain.Identity(r.Voter),
			ChosenRealGameID: r.ChosenRealGameID,
			VotedAt:          r.VotedAt,
		})
	}
	return out, nil
}

func (s *VoteStore) Clear(ctx context.Context, matchID int64) error {
	if err := s.db.WithContext(ctx).Where("match_id = ?", matchID).Delete(&voteRecord{}).Error; err != nil {
		return domain.ErrPersistence.Wrap(err)
	}
	return nil
}

// Remove deletes a single voter's vote on a match, for the unvote
// endpoint.
func (s *VoteStore) Remove(ctx context.Context, matchID int64, voter domain.Identity) error {
	err := s.db.WithContext(ctx).
		Where("match_id = ? AND voter = ?", matchID, domain.NormalizeIdentity(voter)).
		Delete(&voteRecord{}).Error
	if err != nil {
		return domain.ErrPersistence.Wrap(err)
	}
	return nil
}

func (s *VoteStore) load(ctx context.Context, matchID int64) ([]voteRecord, error) {
	var recs []voteRecord
	if err := s.db.WithContext(ctx).Where("match_id = ?", matchID).Find(&recs).Error; err != nil {
		return nil, domain.ErrPersistence.Wrap(err)
	}
	return recs, nil
}
