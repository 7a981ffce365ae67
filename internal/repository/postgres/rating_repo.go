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

// playerRatingRow keys a rating by player.
type playerRatingRow struct {
	PlayerID  uuid.UUID     `gorm:"type:uuid;primary_key"`
	Rating    domain.Rating `gorm:"embedded"`
	UpdatedAt time.Time
}

func (playerRatingRow) TableName() string {
	return "player_ratings"
}

type playerRatingRepository struct {
	db *gorm.DB
}

func NewPlayerRatingRepository(db *gorm.DB) *playerRatingRepository {
	return &playerRatingRepository{db: db}
}

func (r *playerRatingRepository) Save(ctx context.Context, playerID uuid.UUID, rating domain.Rating) error {
	row := playerRatingRow{PlayerID: playerID, Rating: rating, UpdatedAt: time.Now().UTC()}
	return r.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "player_id"}},
			UpdateAll: true,
		}).
		Create(&row).Error
}

func (r *playerRatingRepository) Load(ctx context.Context, playerID uuid.UUID) (*domain.Rating, error) {
	var row playerRatingRow
	err := r.db.WithContext(ctx).First(&row, "player_id = ?", playerID).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &row.Rating, nil
}
