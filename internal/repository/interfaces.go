// Package repository defines the persistence contract the engine core
// depends on. Adapters (memory, postgres, redis) implement these interfaces;
// the core never assumes transactional support across methods, so operations
// needing atomicity are guarded in memory first.
package repository

import (
	"context"

	"github.com/colerae/matchbox/internal/domain"
	"github.com/google/uuid"
)

type PlayerRatingRepository interface {
	Save(ctx context.Context, playerID uuid.UUID, rating domain.Rating) error
	// Load returns nil (and no error) when the player has no stored rating.
	Load(ctx context.Context, playerID uuid.UUID) (*domain.Rating, error)
}

type QueueEntryRepository interface {
	Save(ctx context.Context, entry domain.QueueEntry) error
	LoadByQueue(ctx context.Context, queueName string) ([]domain.QueueEntry, error)
	// DeleteByPlayer removes any entry containing the player; deleting an
	// absent player is a no-op.
	DeleteByPlayer(ctx context.Context, playerID uuid.UUID) error
}

type PartyRepository interface {
	Save(ctx context.Context, party domain.Party) error
	// Load returns nil (and no error) when the party does not exist.
	Load(ctx context.Context, partyID uuid.UUID) (*domain.Party, error)
	Delete(ctx context.Context, partyID uuid.UUID) error
}

type LobbyRepository interface {
	Save(ctx context.Context, lobby domain.Lobby) error
	// Load returns nil (and no error) when the lobby does not exist.
	Load(ctx context.Context, lobbyID uuid.UUID) (*domain.Lobby, error)
	Delete(ctx context.Context, lobbyID uuid.UUID) error
}

// MatchHistoryRepository is an archival write-only store of closed lobbies.
type MatchHistoryRepository interface {
	SaveMatchResult(ctx context.Context, lobby domain.Lobby) error
}

type Repositories struct {
	PlayerRating PlayerRatingRepository
	QueueEntry   QueueEntryRepository
	Party        PartyRepository
	Lobby        LobbyRepository
	MatchHistory MatchHistoryRepository
}
