package domain

import (
	"time"

	"github.com/google/uuid"
)

// Party is a persistent cross-queue group of players that queues as a unit.
// Membership is mutated only through the party service, which maintains the
// player-to-party reverse index.
type Party struct {
	ID        uuid.UUID   `json:"id" gorm:"type:uuid;primary_key"`
	LeaderID  uuid.UUID   `json:"leaderId" gorm:"type:uuid;not null"`
	MemberIDs []uuid.UUID `json:"memberIds" gorm:"serializer:json;type:jsonb;not null"`
	MaxSize   int         `json:"maxSize" gorm:"not null"`
	CreatedAt time.Time   `json:"createdAt"`
}

// TableName returns the table name for GORM.
func (Party) TableName() string {
	return "parties"
}

// NewParty creates a party containing only its leader.
func NewParty(leaderID uuid.UUID, maxSize int) Party {
	return Party{
		ID:        uuid.New(),
		LeaderID:  leaderID,
		MemberIDs: []uuid.UUID{leaderID},
		MaxSize:   maxSize,
		CreatedAt: time.Now().UTC(),
	}
}

// Size returns the current member count.
func (p Party) Size() int {
	return len(p.MemberIDs)
}

// IsFull reports whether the party has reached its cap.
func (p Party) IsFull() bool {
	return p.Size() >= p.MaxSize
}

// HasMember reports whether the player belongs to the party.
func (p Party) HasMember(playerID uuid.UUID) bool {
	for _, id := range p.MemberIDs {
		if id == playerID {
			return true
		}
	}
	return false
}

// IsLeader reports whether the player leads the party.
func (p Party) IsLeader(playerID uuid.UUID) bool {
	return p.LeaderID == playerID
}
