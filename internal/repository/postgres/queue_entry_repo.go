package postgres

import (
	"context"

	"github.com/colerae/matchbox/internal/domain"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

type queueEntryRepository struct {
	db *gorm.DB
}

func NewQueueEntryRepository(db *gorm.DB) *queueEntryRepository {
	return &queueEntryRepository{db: db}
}

func (r *queueEntryRepository) Save(ctx context.Context, entry domain.QueueEntry) error {
	return r.db.WithContext(ctx).Create(&entry).Error
}

func (r *queueEntryRepository) LoadByQueue(ctx context.Context, queueName string) ([]domain.QueueEntry, error) {
	var entries []domain.QueueEntry
	err := r.db.WithContext(ctx).
		Where("queue_name = ?", queueName).
		Order("joined_at ASC").
		Find(&entries).Error
	if err != nil {
		return nil, err
	}
	return entries, nil
}

func (r *queueEntryRepository) DeleteByPlayer(ctx context.Context, playerID uuid.UUID) error {
	// PlayerIDs is a jsonb array; containment matches both solo and party
	// entries that include the player.
	return r.db.WithContext(ctx).
		Where("player_ids @> ?", `["`+playerID.String()+`"]`).
		Delete(&domain.QueueEntry{}).Error
}
