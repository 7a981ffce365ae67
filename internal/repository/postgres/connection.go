// Package postgres implements the persistence contract on PostgreSQL via GORM.
package postgres

import (
	"github.com/colerae/matchbox/internal/domain"
	"github.com/colerae/matchbox/internal/repository"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func NewConnection(databaseURL string) (*gorm.DB, error) {
	db, err := gorm.Open(postgres.Open(databaseURL), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Warn),
	})
	if err != nil {
		return nil, err
	}

	// Auto-migrate tables
	err = db.AutoMigrate(
		&playerRatingRow{},
		&domain.QueueEntry{},
		&domain.Party{},
		&domain.Lobby{},
		&matchRecord{},
	)
	if err != nil {
		return nil, err
	}

	return db, nil
}

func NewRepositories(db *gorm.DB) *repository.Repositories {
	return &repository.Repositories{
		PlayerRating: NewPlayerRatingRepository(db),
		QueueEntry:   NewQueueEntryRepository(db),
		Party:        NewPartyRepository(db),
		Lobby:        NewLobbyRepository(db),
		MatchHistory: NewMatchHistoryRepository(db),
	}
}
