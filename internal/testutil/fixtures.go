// Package testutil provides fixture builders shared by the engine's tests.
// Tests run against the in-memory adapter so they need no external services.
package testutil

import (
	"testing"
	"time"

	"github.com/colerae/matchbox/internal/domain"
	"github.com/colerae/matchbox/internal/repository"
	"github.com/colerae/matchbox/internal/repository/memory"
	"github.com/google/uuid"
)

// NewRepositories returns fresh in-memory repositories for one test.
func NewRepositories(t *testing.T) *repository.Repositories {
	t.Helper()
	return memory.NewRepositories()
}

// EntryBuilder assembles queue entries with sensible defaults.
type EntryBuilder struct {
	queueName string
	playerID  uuid.UUID
	memberIDs []uuid.UUID
	partyID   *uuid.UUID
	rating    domain.Rating
	joinedAt  time.Time
	metadata  domain.EntryMetadata
}

// NewEntryBuilder starts a solo entry for a fresh player at the default
// rating, joined now.
func NewEntryBuilder(queueName string) *EntryBuilder {
	return &EntryBuilder{
		queueName: queueName,
		playerID:  uuid.New(),
		rating:    domain.DefaultBeginnerRating(),
		joinedAt:  time.Now().UTC(),
	}
}

func (b *EntryBuilder) WithPlayerID(id uuid.UUID) *EntryBuilder {
	b.playerID = id
	return b
}

func (b *EntryBuilder) WithParty(partyID uuid.UUID, memberIDs ...uuid.UUID) *EntryBuilder {
	b.partyID = &partyID
	b.memberIDs = memberIDs
	return b
}

func (b *EntryBuilder) WithRating(rating float64) *EntryBuilder {
	b.rating.Rating = rating
	return b
}

func (b *EntryBuilder) WithJoinedAt(joinedAt time.Time) *EntryBuilder {
	b.joinedAt = joinedAt
	return b
}

func (b *EntryBuilder) WithRoles(roles ...string) *EntryBuilder {
	b.metadata.Roles = roles
	return b
}

func (b *EntryBuilder) WithRegion(region string) *EntryBuilder {
	b.metadata.Region = &region
	return b
}

// Build produces the entry. JoinedAt overrides the constructor's "now".
func (b *EntryBuilder) Build(t *testing.T) domain.QueueEntry {
	t.Helper()

	var entry domain.QueueEntry
	if b.partyID != nil {
		entry = domain.NewPartyEntry(b.queueName, *b.partyID, b.memberIDs, b.rating, b.metadata)
	} else {
		entry = domain.NewSoloEntry(b.queueName, b.playerID, b.rating, b.metadata)
	}
	entry.JoinedAt = b.joinedAt
	return entry
}

// QueueConfig1v1 is a permissive duel queue for tests.
func QueueConfig1v1(name string) domain.QueueConfig {
	return domain.QueueConfig{
		Name:        name,
		Format:      domain.OneVOne(),
		Constraints: domain.PermissiveConstraints(),
	}
}

// QueueConfig2v2 is a permissive four-player queue for tests.
func QueueConfig2v2(name string) domain.QueueConfig {
	return domain.QueueConfig{
		Name:        name,
		Format:      domain.TwoVTwo(),
		Constraints: domain.PermissiveConstraints(),
	}
}
