package service

import (
	"context"
	"log"
	"sync"
	"time"

	"github.com/colerae/matchbox/internal/domain"
	"github.com/colerae/matchbox/internal/repository"
	"github.com/google/uuid"
)

// queueState is one named queue: its config plus the live entry list. The
// in-memory list is the authoritative projection; persistence writes happen
// outside the lock.
type queueState struct {
	mu      sync.RWMutex
	config  domain.QueueConfig
	entries []domain.QueueEntry
}

// QueueService owns the named queues. Queues are independent, each behind its
// own lock, except for the process-wide player index that enforces
// at-most-once queue membership across all queues.
type QueueService struct {
	mu     sync.RWMutex
	queues map[string]*queueState

	// indexMu guards playerQueue, the only cross-queue synchronization.
	indexMu     sync.Mutex
	playerQueue map[uuid.UUID]string

	entryRepo repository.QueueEntryRepository
}

// NewQueueService builds a queue service over the given entry store.
func NewQueueService(entryRepo repository.QueueEntryRepository) *QueueService {
	return &QueueService{
		queues:      make(map[string]*queueState),
		playerQueue: make(map[uuid.UUID]string),
		entryRepo:   entryRepo,
	}
}

// RegisterQueue creates a named queue, rehydrating its projection from any
// entries persisted under that name so waiting players survive a restart.
func (s *QueueService) RegisterQueue(ctx context.Context, config domain.QueueConfig) error {
	if err := config.Validate(); err != nil {
		return err
	}

	s.mu.Lock()
	if _, exists := s.queues[config.Name]; exists {
		s.mu.Unlock()
		return domain.ErrDuplicateQueue
	}
	q := &queueState{config: config}
	s.queues[config.Name] = q
	s.mu.Unlock()

	persisted, err := s.entryRepo.LoadByQueue(ctx, config.Name)
	if err != nil {
		return err
	}

	s.indexMu.Lock()
	q.mu.Lock()
	for _, entry := range persisted {
		q.entries = append(q.entries, entry)
		for _, playerID := range entry.PlayerIDs {
			s.playerQueue[playerID] = config.Name
		}
	}
	q.mu.Unlock()
	s.indexMu.Unlock()
	return nil
}

// QueueNames returns the registered queue names in no particular order.
func (s *QueueService) QueueNames() []string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	names := make([]string, 0, len(s.queues))
	for name := range s.queues {
		names = append(names, name)
	}
	return names
}

// QueueConfig returns the config a queue was registered with.
func (s *QueueService) QueueConfig(queueName string) (domain.QueueConfig, error) {
	q, err := s.queue(queueName)
	if err != nil {
		return domain.QueueConfig{}, err
	}
	return q.config, nil
}

// QueueSize returns the number of entries currently waiting in a queue.
func (s *QueueService) QueueSize(queueName string) (int, error) {
	q, err := s.queue(queueName)
	if err != nil {
		return 0, err
	}
	q.mu.RLock()
	defer q.mu.RUnlock()
	return len(q.entries), nil
}

func (s *QueueService) queue(queueName string) (*queueState, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	q, ok := s.queues[queueName]
	if !ok {
		return nil, domain.ErrQueueNotFound
	}
	return q, nil
}

// JoinSolo places a single player into a queue. A player may occupy at most
// one entry across all queues.
func (s *QueueService) JoinSolo(ctx context.Context, queueName string, playerID uuid.UUID, rating domain.Rating, metadata domain.EntryMetadata) (domain.QueueEntry, error) {
	entry := domain.NewSoloEntry(queueName, playerID, rating, metadata)
	if err := s.admit(ctx, entry); err != nil {
		return domain.QueueEntry{}, err
	}
	return entry, nil
}

// JoinParty places a party snapshot into a queue. If any member is already
// queued anywhere the whole join fails and nothing is mutated.
func (s *QueueService) JoinParty(ctx context.Context, queueName string, partyID uuid.UUID, memberIDs []uuid.UUID, partyRating domain.Rating, metadata domain.EntryMetadata) (domain.QueueEntry, error) {
	entry := domain.NewPartyEntry(queueName, partyID, memberIDs, partyRating, metadata)
	if err := s.admit(ctx, entry); err != nil {
		return domain.QueueEntry{}, err
	}
	return entry, nil
}

func (s *QueueService) admit(ctx context.Context, entry domain.QueueEntry) error {
	q, err := s.queue(entry.QueueName)
	if err != nil {
		return err
	}

	// Reserve every player in the global index first, all or nothing.
	s.indexMu.Lock()
	for _, playerID := range entry.PlayerIDs {
		if _, taken := s.playerQueue[playerID]; taken {
			s.indexMu.Unlock()
			return domain.ErrAlreadyInQueue
		}
	}
	for _, playerID := range entry.PlayerIDs {
		s.playerQueue[playerID] = entry.QueueName
	}
	s.indexMu.Unlock()

	q.mu.Lock()
	q.entries = append(q.entries, entry)
	q.mu.Unlock()

	if err := s.entryRepo.Save(ctx, entry); err != nil {
		// The projection is authoritative only once the entry is durable;
		// undo the admission.
		s.evict(q, entry.ID)
		return err
	}
	return nil
}

// evict removes an entry from the projection and frees its players.
func (s *QueueService) evict(q *queueState, entryID uuid.UUID) {
	q.mu.Lock()
	var removed *domain.QueueEntry
	kept := q.entries[:0]
	for i := range q.entries {
		if q.entries[i].ID == entryID {
			e := q.entries[i]
			removed = &e
			continue
		}
		kept = append(kept, q.entries[i])
	}
	q.entries = kept
	q.mu.Unlock()

	if removed != nil {
		s.indexMu.Lock()
		for _, playerID := range removed.PlayerIDs {
			delete(s.playerQueue, playerID)
		}
		s.indexMu.Unlock()
	}
}

// Leave removes the entry containing the player. A party entry leaves whole:
// partial departures are not supported.
func (s *QueueService) Leave(ctx context.Context, queueName string, playerID uuid.UUID) error {
	q, err := s.queue(queueName)
	if err != nil {
		return err
	}

	q.mu.Lock()
	var removed *domain.QueueEntry
	kept := q.entries[:0]
	for i := range q.entries {
		if removed == nil && q.entries[i].HasPlayer(playerID) {
			e := q.entries[i]
			removed = &e
			continue
		}
		kept = append(kept, q.entries[i])
	}
	q.entries = kept
	q.mu.Unlock()

	if removed == nil {
		return domain.ErrNotInQueue
	}

	s.indexMu.Lock()
	for _, id := range removed.PlayerIDs {
		delete(s.playerQueue, id)
	}
	s.indexMu.Unlock()

	for _, id := range removed.PlayerIDs {
		if err := s.entryRepo.DeleteByPlayer(ctx, id); err != nil {
			return err
		}
	}
	return nil
}

// FindMatches runs the queue's matcher over a snapshot of its entries. Queue
// state is not mutated; pair with Consume to commit.
func (s *QueueService) FindMatches(queueName string) ([]domain.MatchResult, error) {
	q, err := s.queue(queueName)
	if err != nil {
		return nil, err
	}

	q.mu.RLock()
	snapshot := make([]domain.QueueEntry, len(q.entries))
	copy(snapshot, q.entries)
	q.mu.RUnlock()

	matcher := NewGreedyMatcher(q.config.Format, q.config.Constraints)
	return matcher.FindMatches(snapshot, time.Now().UTC()), nil
}

// Consume atomically removes the entries referenced by the given matches.
// Entries already absent are skipped, making Consume idempotent. Persistence
// deletions are best effort.
func (s *QueueService) Consume(ctx context.Context, queueName string, matches []domain.MatchResult) error {
	q, err := s.queue(queueName)
	if err != nil {
		return err
	}

	consume := make(map[uuid.UUID]bool)
	for _, m := range matches {
		for _, e := range m.Entries {
			consume[e.ID] = true
		}
	}

	q.mu.Lock()
	var removed []domain.QueueEntry
	kept := q.entries[:0]
	for i := range q.entries {
		if consume[q.entries[i].ID] {
			removed = append(removed, q.entries[i])
			continue
		}
		kept = append(kept, q.entries[i])
	}
	q.entries = kept
	q.mu.Unlock()

	s.indexMu.Lock()
	for _, e := range removed {
		for _, playerID := range e.PlayerIDs {
			delete(s.playerQueue, playerID)
		}
	}
	s.indexMu.Unlock()

	for _, e := range removed {
		for _, playerID := range e.PlayerIDs {
			if err := s.entryRepo.DeleteByPlayer(ctx, playerID); err != nil {
				log.Printf("ERROR [queue.Consume] failed to delete entry for player %s: %v", playerID, err)
			}
		}
	}
	return nil
}
