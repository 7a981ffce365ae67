package domain

import (
	"fmt"
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
)

// EntryMetadata carries matching hints attached to a queue entry.
type EntryMetadata struct {
	// Role preferences the entry can fill (e.g. "tank", "healer", "dps").
	Roles []string `json:"roles" gorm:"serializer:json;type:jsonb"`
	// Region/latency bucket. nil means "any region".
	Region *string `json:"region"`
	// Game-specific data the engine stores but never interprets.
	Custom datatypes.JSONMap `json:"custom" gorm:"type:jsonb"`
}

// QueueEntry is an immutable row describing a solo player or party waiting in
// a queue. For party entries PlayerIDs is a snapshot of the party's members
// at join time.
type QueueEntry struct {
	ID        uuid.UUID     `json:"id" gorm:"type:uuid;primary_key"`
	QueueName string        `json:"queueName" gorm:"size:64;not null;index"`
	PlayerIDs []uuid.UUID   `json:"playerIds" gorm:"serializer:json;type:jsonb;not null"`
	PartyID   *uuid.UUID    `json:"partyId" gorm:"type:uuid"`
	Rating    Rating        `json:"rating" gorm:"embedded;embeddedPrefix:rating_"`
	JoinedAt  time.Time     `json:"joinedAt" gorm:"not null;index"`
	Metadata  EntryMetadata `json:"metadata" gorm:"embedded"`
}

// TableName returns the table name for GORM.
func (QueueEntry) TableName() string {
	return "queue_entries"
}

// NewSoloEntry builds an entry for a single player.
func NewSoloEntry(queueName string, playerID uuid.UUID, rating Rating, metadata EntryMetadata) QueueEntry {
	return QueueEntry{
		ID:        uuid.New(),
		QueueName: queueName,
		PlayerIDs: []uuid.UUID{playerID},
		Rating:    rating,
		JoinedAt:  time.Now().UTC(),
		Metadata:  metadata,
	}
}

// NewPartyEntry builds an entry snapshotting a party's members.
func NewPartyEntry(queueName string, partyID uuid.UUID, playerIDs []uuid.UUID, rating Rating, metadata EntryMetadata) QueueEntry {
	ids := make([]uuid.UUID, len(playerIDs))
	copy(ids, playerIDs)
	return QueueEntry{
		ID:        uuid.New(),
		QueueName: queueName,
		PlayerIDs: ids,
		PartyID:   &partyID,
		Rating:    rating,
		JoinedAt:  time.Now().UTC(),
		Metadata:  metadata,
	}
}

// IsSolo reports whether the entry represents a single unpartied player.
func (e QueueEntry) IsSolo() bool {
	return e.PartyID == nil && len(e.PlayerIDs) == 1
}

// PlayerCount returns the number of players the entry contributes to a match.
func (e QueueEntry) PlayerCount() int {
	return len(e.PlayerIDs)
}

// HasPlayer reports whether the given player is part of this entry.
func (e QueueEntry) HasPlayer(playerID uuid.UUID) bool {
	for _, id := range e.PlayerIDs {
		if id == playerID {
			return true
		}
	}
	return false
}

// WaitTime is the time the entry has spent in queue as of now.
func (e QueueEntry) WaitTime(now time.Time) time.Duration {
	return now.Sub(e.JoinedAt)
}

// MatchFormat describes the shape of a match: ordered team sizes.
type MatchFormat struct {
	Name         string `json:"name"`
	TeamSizes    []int  `json:"teamSizes"`
	TotalPlayers int    `json:"totalPlayers"`
}

// NewMatchFormat derives TotalPlayers from the team sizes.
func NewMatchFormat(name string, teamSizes []int) MatchFormat {
	total := 0
	for _, s := range teamSizes {
		total += s
	}
	return MatchFormat{Name: name, TeamSizes: teamSizes, TotalPlayers: total}
}

// OneVOne is a two-player duel format.
func OneVOne() MatchFormat { return TeamVTeam(1) }

// TwoVTwo is a four-player, two-team format.
func TwoVTwo() MatchFormat { return TeamVTeam(2) }

// FiveVFive is the classic ten-player format.
func FiveVFive() MatchFormat { return TeamVTeam(5) }

// TeamVTeam builds a symmetric two-team format of the given size.
func TeamVTeam(teamSize int) MatchFormat {
	return NewMatchFormat(fmt.Sprintf("%dv%d", teamSize, teamSize), []int{teamSize, teamSize})
}

// FreeForAll builds an n-player format where every player is their own team.
func FreeForAll(playerCount int) MatchFormat {
	sizes := make([]int, playerCount)
	for i := range sizes {
		sizes[i] = 1
	}
	return NewMatchFormat(fmt.Sprintf("%d-player-ffa", playerCount), sizes)
}

// TeamCount returns the number of teams in the format.
func (f MatchFormat) TeamCount() int {
	return len(f.TeamSizes)
}

// Validate rejects formats that cannot describe a playable match.
func (f MatchFormat) Validate() error {
	if len(f.TeamSizes) == 0 {
		return ErrInvalidConfiguration
	}
	total := 0
	for _, s := range f.TeamSizes {
		if s <= 0 {
			return ErrInvalidConfiguration
		}
		total += s
	}
	if f.TotalPlayers != total {
		return ErrInvalidConfiguration
	}
	return nil
}

// MatchResult is the ephemeral output of the matcher: a disjoint set of
// entries and the team index each entry was placed on.
type MatchResult struct {
	MatchID uuid.UUID
	Entries []QueueEntry
	// TeamAssignments[i] is the team index for Entries[i].
	TeamAssignments []int
}

// PlayerIDs flattens the matched entries in admission order.
func (m MatchResult) PlayerIDs() []uuid.UUID {
	var ids []uuid.UUID
	for _, e := range m.Entries {
		ids = append(ids, e.PlayerIDs...)
	}
	return ids
}

// QueueConfig names a queue and fixes its format and constraints.
type QueueConfig struct {
	Name        string
	Format      MatchFormat
	Constraints MatchConstraints
}

// Validate checks the config is usable before registration.
func (c QueueConfig) Validate() error {
	if c.Name == "" {
		return ErrInvalidConfiguration
	}
	return c.Format.Validate()
}
