// Package memory provides an in-memory persistence adapter used in tests and
// single-process deployments.
package memory

import (
	"context"
	"sync"

	"github.com/colerae/matchbox/internal/domain"
	"github.com/colerae/matchbox/internal/repository"
	"github.com/google/uuid"
)

// NewRepositories bundles fresh in-memory stores behind the repository
// interfaces.
func NewRepositories() *repository.Repositories {
	return &repository.Repositories{
		PlayerRating: NewPlayerRatingRepository(),
		QueueEntry:   NewQueueEntryRepository(),
		Party:        NewPartyRepository(),
		Lobby:        NewLobbyRepository(),
		MatchHistory: NewMatchHistoryRepository(),
	}
}

type playerRatingRepository struct {
	mu      sync.RWMutex
	ratings map[uuid.UUID]domain.Rating
}

func NewPlayerRatingRepository() *playerRatingRepository {
	return &playerRatingRepository{ratings: make(map[uuid.UUID]domain.Rating)}
}

func (r *playerRatingRepository) Save(_ context.Context, playerID uuid.UUID, rating domain.Rating) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.ratings[playerID] = rating
	return nil
}

func (r *playerRatingRepository) Load(_ context.Context, playerID uuid.UUID) (*domain.Rating, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	rating, ok := r.ratings[playerID]
	if !ok {
		return nil, nil
	}
	return &rating, nil
}

type queueEntryRepository struct {
	mu      sync.RWMutex
	entries map[string][]domain.QueueEntry
}

func NewQueueEntryRepository() *queueEntryRepository {
	return &queueEntryRepository{entries: make(map[string][]domain.QueueEntry)}
}

func (r *queueEntryRepository) Save(_ context.Context, entry domain.QueueEntry) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.entries[entry.QueueName] = append(r.entries[entry.QueueName], entry)
	return nil
}

func (r *queueEntryRepository) LoadByQueue(_ context.Context, queueName string) ([]domain.QueueEntry, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	stored := r.entries[queueName]
	out := make([]domain.QueueEntry, len(stored))
	copy(out, stored)
	return out, nil
}

func (r *queueEntryRepository) DeleteByPlayer(_ context.Context, playerID uuid.UUID) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for name, entries := range r.entries {
		kept := entries[:0]
		for _, e := range entries {
			if !e.HasPlayer(playerID) {
				kept = append(kept, e)
			}
		}
		r.entries[name] = kept
	}
	return nil
}

type partyRepository struct {
	mu      sync.RWMutex
	parties map[uuid.UUID]domain.Party
}

func NewPartyRepository() *partyRepository {
	return &partyRepository{parties: make(map[uuid.UUID]domain.Party)}
}

func (r *partyRepository) Save(_ context.Context, party domain.Party) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.parties[party.ID] = party
	return nil
}

func (r *partyRepository) Load(_ context.Context, partyID uuid.UUID) (*domain.Party, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	party, ok := r.parties[partyID]
	if !ok {
		return nil, nil
	}
	return &party, nil
}

func (r *partyRepository) Delete(_ context.Context, partyID uuid.UUID) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.parties, partyID)
	return nil
}

type lobbyRepository struct {
	mu      sync.RWMutex
	lobbies map[uuid.UUID]domain.Lobby
}

func NewLobbyRepository() *lobbyRepository {
	return &lobbyRepository{lobbies: make(map[uuid.UUID]domain.Lobby)}
}

func (r *lobbyRepository) Save(_ context.Context, lobby domain.Lobby) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.lobbies[lobby.ID] = lobby
	return nil
}

func (r *lobbyRepository) Load(_ context.Context, lobbyID uuid.UUID) (*domain.Lobby, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	lobby, ok := r.lobbies[lobbyID]
	if !ok {
		return nil, nil
	}
	return &lobby, nil
}

func (r *lobbyRepository) Delete(_ context.Context, lobbyID uuid.UUID) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.lobbies, lobbyID)
	return nil
}

// Lobbies returns a copy of every stored lobby, in no particular order.
func (r *lobbyRepository) Lobbies() []domain.Lobby {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]domain.Lobby, 0, len(r.lobbies))
	for _, lobby := range r.lobbies {
		out = append(out, lobby)
	}
	return out
}

type matchHistoryRepository struct {
	mu      sync.RWMutex
	history []domain.Lobby
}

func NewMatchHistoryRepository() *matchHistoryRepository {
	return &matchHistoryRepository{}
}

func (r *matchHistoryRepository) SaveMatchResult(_ context.Context, lobby domain.Lobby) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.history = append(r.history, lobby)
	return nil
}

// Archived returns a copy of the stored history, oldest first.
func (r *matchHistoryRepository) Archived() []domain.Lobby {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]domain.Lobby, len(r.history))
	copy(out, r.history)
	return out
}
