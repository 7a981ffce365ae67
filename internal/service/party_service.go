package service

import (
	"context"
	"sync"

	"github.com/colerae/matchbox/internal/domain"
	"github.com/colerae/matchbox/internal/mmr"
	"github.com/colerae/matchbox/internal/repository"
	"github.com/google/uuid"
)

// PartyService owns party lifecycle and membership. The reverse index
// enforces that a player belongs to at most one party at a time.
type PartyService struct {
	mu            sync.RWMutex
	parties       map[uuid.UUID]domain.Party
	playerToParty map[uuid.UUID]uuid.UUID

	partyRepo    repository.PartyRepository
	ratingRepo   repository.PlayerRatingRepository
	ratingPolicy mmr.PartyRatingPolicy
}

// NewPartyService builds a party service with the given aggregation policy.
func NewPartyService(partyRepo repository.PartyRepository, ratingRepo repository.PlayerRatingRepository, ratingPolicy mmr.PartyRatingPolicy) *PartyService {
	return &PartyService{
		parties:       make(map[uuid.UUID]domain.Party),
		playerToParty: make(map[uuid.UUID]uuid.UUID),
		partyRepo:     partyRepo,
		ratingRepo:    ratingRepo,
		ratingPolicy:  ratingPolicy,
	}
}

// Create starts a party led (and initially solely populated) by leaderID.
func (s *PartyService) Create(ctx context.Context, leaderID uuid.UUID, maxSize int) (domain.Party, error) {
	if maxSize < 1 {
		return domain.Party{}, domain.ErrInvalidConfiguration
	}

	s.mu.Lock()
	if _, inParty := s.playerToParty[leaderID]; inParty {
		s.mu.Unlock()
		return domain.Party{}, domain.ErrAlreadyInParty
	}
	party := domain.NewParty(leaderID, maxSize)
	s.parties[party.ID] = party
	s.playerToParty[leaderID] = party.ID
	s.mu.Unlock()

	if err := s.partyRepo.Save(ctx, party); err != nil {
		s.mu.Lock()
		delete(s.parties, party.ID)
		delete(s.playerToParty, leaderID)
		s.mu.Unlock()
		return domain.Party{}, err
	}
	return party, nil
}

// AddMember admits a player, failing if they are already a member.
func (s *PartyService) AddMember(ctx context.Context, partyID, playerID uuid.UUID) error {
	return s.addMember(ctx, partyID, playerID, false)
}

// AddMemberIdempotent admits a player, silently succeeding if they are
// already a member of this party.
func (s *PartyService) AddMemberIdempotent(ctx context.Context, partyID, playerID uuid.UUID) error {
	return s.addMember(ctx, partyID, playerID, true)
}

func (s *PartyService) addMember(ctx context.Context, partyID, playerID uuid.UUID, idempotent bool) error {
	s.mu.Lock()
	party, ok := s.parties[partyID]
	if !ok {
		s.mu.Unlock()
		return domain.ErrPartyNotFound
	}
	if party.HasMember(playerID) {
		s.mu.Unlock()
		if idempotent {
			return nil
		}
		return domain.ErrAlreadyPartyMember
	}
	if existing, inParty := s.playerToParty[playerID]; inParty && existing != partyID {
		s.mu.Unlock()
		return domain.ErrAlreadyInParty
	}
	if party.IsFull() {
		s.mu.Unlock()
		return domain.ErrPartyFull
	}

	party.MemberIDs = append(party.MemberIDs, playerID)
	s.parties[partyID] = party
	s.playerToParty[playerID] = partyID
	s.mu.Unlock()

	return s.partyRepo.Save(ctx, party)
}

// RemoveMember drops a player from the party. If the leader leaves or the
// party empties, the party disbands and every member is freed.
func (s *PartyService) RemoveMember(ctx context.Context, partyID, playerID uuid.UUID) error {
	s.mu.Lock()
	party, ok := s.parties[partyID]
	if !ok {
		s.mu.Unlock()
		return domain.ErrPartyNotFound
	}
	if !party.HasMember(playerID) {
		s.mu.Unlock()
		return domain.ErrNotPartyMember
	}

	kept := make([]uuid.UUID, 0, len(party.MemberIDs)-1)
	for _, id := range party.MemberIDs {
		if id != playerID {
			kept = append(kept, id)
		}
	}
	party.MemberIDs = kept
	delete(s.playerToParty, playerID)

	disband := len(party.MemberIDs) == 0 || playerID == party.LeaderID
	if disband {
		for _, id := range party.MemberIDs {
			delete(s.playerToParty, id)
		}
		delete(s.parties, partyID)
	} else {
		s.parties[partyID] = party
	}
	s.mu.Unlock()

	if disband {
		return s.partyRepo.Delete(ctx, partyID)
	}
	return s.partyRepo.Save(ctx, party)
}

// Party returns a party by id.
func (s *PartyService) Party(partyID uuid.UUID) (domain.Party, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	party, ok := s.parties[partyID]
	if !ok {
		return domain.Party{}, domain.ErrPartyNotFound
	}
	return party, nil
}

// PlayerParty returns the party a player belongs to, if any.
func (s *PartyService) PlayerParty(playerID uuid.UUID) (domain.Party, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	partyID, ok := s.playerToParty[playerID]
	if !ok {
		return domain.Party{}, false
	}
	party, ok := s.parties[partyID]
	return party, ok
}

// PartyRating aggregates the members' stored ratings with the configured
// policy. Members with no stored rating count as default beginners.
func (s *PartyService) PartyRating(ctx context.Context, partyID uuid.UUID) (domain.Rating, error) {
	party, err := s.Party(partyID)
	if err != nil {
		return domain.Rating{}, err
	}

	ratings := make([]mmr.PlayerRating, 0, len(party.MemberIDs))
	for _, memberID := range party.MemberIDs {
		rating, err := s.ratingRepo.Load(ctx, memberID)
		if err != nil {
			return domain.Rating{}, err
		}
		if rating == nil {
			beginner := domain.DefaultBeginnerRating()
			rating = &beginner
		}
		ratings = append(ratings, mmr.PlayerRating{PlayerID: memberID, Rating: *rating})
	}

	return s.ratingPolicy.CalculatePartyRating(ratings), nil
}
