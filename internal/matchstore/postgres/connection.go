package postgres

import (
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// NewConnection opens the database and applies the declarative (gorm
// AutoMigrate) schema. This is the single migration path for this module
// (see DESIGN.md's "dual migration history" resolution).
func NewConnection(databaseURL string) (*gorm.DB, error) {
	db, err := gorm.Open(postgres.Open(databaseURL), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Warn),
	})
	if err != nil {
		return nil, err
	}

	if err := db.AutoMigrate(&matchRecord{}, &voteRecord{}, &settingRecord{}); err != nil {
		return nil, err
	}

	return db, nil
}
