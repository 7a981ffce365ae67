package postgres

import (
	"context"
	"errors"

	"github.com/colerae/matchbox/internal/domain"
	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type partyRepository struct {
	db *gorm.DB
}

func NewPartyRepository(db *gorm.DB) *partyRepository {
	return &partyRepository{db: db}
}

func (r *partyRepository) Save(ctx context.Context, party domain.Party) error {
	return r.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "id"}},
			UpdateAll: true,
		}).
		Create(&party).Error
}

func (r *partyRepository) Load(ctx context.Context, partyID uuid.UUID) (*domain.Party, error) {
	var party domain.Party
	err := r.db.WithContext(ctx).First(&party, "id = ?", partyID).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &party, nil
}

func (r *partyRepository) Delete(ctx context.Context, partyID uuid.UUID) error {
	return r.db.WithContext(ctx).Delete(&domain.Party{}, "id = ?", partyID).Error
}
