package postgres

import (
	"context"
	"errors"
	"time"

	"github.com/colerae/matchbox/internal/domain"
	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type lobbyRepository struct {
	db *gorm.DB
}

func NewLobbyRepository(db *gorm.DB) *lobbyRepository {
	return &lobbyRepository{db: db}
}

func (r *lobbyRepository) Save(ctx context.Context, lobby domain.Lobby) error {
	return r.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "id"}},
			UpdateAll: true,
		}).
		Create(&lobby).Error
}

func (r *lobbyRepository) Load(ctx context.Context, lobbyID uuid.UUID) (*domain.Lobby, error) {
	var lobby domain.Lobby
	err := r.db.WithContext(ctx).First(&lobby, "id = ?", lobbyID).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &lobby, nil
}

func (r *lobbyRepository) Delete(ctx context.Context, lobbyID uuid.UUID) error {
	return r.db.WithContext(ctx).Delete(&domain.Lobby{}, "id = ?", lobbyID).Error
}

// matchRecord archives a closed lobby. Rows are append-only.
type matchRecord struct {
	ID         uuid.UUID    `gorm:"type:uuid;primary_key"`
	LobbyID    uuid.UUID    `gorm:"type:uuid;not null;index"`
	MatchID    uuid.UUID    `gorm:"type:uuid;not null"`
	QueueName  string       `gorm:"size:64"`
	Lobby      domain.Lobby `gorm:"serializer:json;type:jsonb"`
	ArchivedAt time.Time
}

func (matchRecord) TableName() string {
	return "match_history"
}

type matchHistoryRepository struct {
	db *gorm.DB
}

func NewMatchHistoryRepository(db *gorm.DB) *matchHistoryRepository {
	return &matchHistoryRepository{db: db}
}

func (r *matchHistoryRepository) SaveMatchResult(ctx context.Context, lobby domain.Lobby) error {
	record := matchRecord{
		ID:         uuid.New(),
		LobbyID:    lobby.ID,
		MatchID:    lobby.MatchID,
		QueueName:  lobby.Metadata.QueueName,
		Lobby:      lobby,
		ArchivedAt: time.Now().UTC(),
	}
	return r.db.WithContext(ctx).Create(&record).Error
}
