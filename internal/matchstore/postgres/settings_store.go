package postgres

import (
	"context"
	"errors"

	"github.com/riftforge/draftorch/internal/domain"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// SettingsStore is the gorm-backed implementation of matchstore.SettingsStore.
type SettingsStore struct {
	db *gorm.DB
}

func NewSettingsStore(db *gorm.DB) *SettingsStore {
	return &SettingsStore{db: db}
}

func (s *SettingsStore) Get(ctx context.Context, key string) (string, bool, error) {
	var rec settingRecord
	if err := s.db.WithContext(ctx).First(&rec, "key = ?", key).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return "", false, nil
		}
		return "", false, domain.ErrPersistence.Wrap(err)
	}
	return rec.Value, true, nil
}

func (s *SettingsStore) Set(ctx context.Context, key, value string) error {
	rec := settingRecord{Key: key, Value: value}
	err := s.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "key"}},
		DoUpdates: clause.AssignmentColumns([]string{"value"}),
	}).Create(&rec).Error
	if err != nil {
		return domain.ErrPersistence.Wrap(err)
	}
	return nil
}
