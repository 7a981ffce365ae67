package domain_test

import (
	"testing"
	"time"

	"github.com/colerae/matchbox/internal/domain"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
)

func soloEntry(rating float64, joinedAt time.Time, metadata domain.EntryMetadata) domain.QueueEntry {
	entry := domain.NewSoloEntry("ranked", uuid.New(), domain.NewRating(rating, 200, 0.06), metadata)
	entry.JoinedAt = joinedAt
	return entry
}

func TestMatchConstraints_CanMatch(t *testing.T) {
	now := time.Now().UTC()
	constraints := domain.MatchConstraints{MaxRatingDelta: 100, ExpansionRate: 10}

	t.Run("within window", func(t *testing.T) {
		a := soloEntry(1500, now, domain.EntryMetadata{})
		b := soloEntry(1580, now, domain.EntryMetadata{})
		assert.True(t, constraints.CanMatch(a, b, now))
	})

	t.Run("outside window", func(t *testing.T) {
		a := soloEntry(1500, now, domain.EntryMetadata{})
		b := soloEntry(1700, now, domain.EntryMetadata{})
		assert.False(t, constraints.CanMatch(a, b, now))
	})

	t.Run("waiting widens the window", func(t *testing.T) {
		// 15s wait at rate 10 gives a 250 window, wide enough for a 200 gap.
		a := soloEntry(1500, now.Add(-15*time.Second), domain.EntryMetadata{})
		b := soloEntry(1700, now, domain.EntryMetadata{})
		assert.True(t, constraints.CanMatch(a, b, now))
		// Symmetric: the fresher entry benefits from the older one's window.
		assert.True(t, constraints.CanMatch(b, a, now))
	})

	t.Run("future join time does not shrink the window", func(t *testing.T) {
		a := soloEntry(1500, now.Add(time.Minute), domain.EntryMetadata{})
		b := soloEntry(1580, now, domain.EntryMetadata{})
		assert.True(t, constraints.CanMatch(a, b, now))
	})
}

func TestMatchConstraints_Regions(t *testing.T) {
	now := time.Now().UTC()
	constraints := domain.MatchConstraints{MaxRatingDelta: 500, SameRegionRequired: true}

	euw := "euw"
	na := "na"

	tests := []struct {
		name string
		a, b *string
		want bool
	}{
		{"same region", &euw, &euw, true},
		{"different regions", &euw, &na, false},
		{"both unset", nil, nil, true},
		{"one unset", &euw, nil, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			a := soloEntry(1500, now, domain.EntryMetadata{Region: tt.a})
			b := soloEntry(1500, now, domain.EntryMetadata{Region: tt.b})
			assert.Equal(t, tt.want, constraints.CanMatch(a, b, now))
		})
	}
}

func TestMatchConstraints_RolesSatisfied(t *testing.T) {
	now := time.Now().UTC()
	constraints := domain.MatchConstraints{
		RoleRequirements: []domain.RoleRequirement{
			{Role: "tank", Count: 1},
			{Role: "healer", Count: 1},
		},
	}

	t.Run("collectively covered", func(t *testing.T) {
		entries := []domain.QueueEntry{
			soloEntry(1500, now, domain.EntryMetadata{Roles: []string{"tank"}}),
			soloEntry(1500, now, domain.EntryMetadata{Roles: []string{"healer", "dps"}}),
		}
		assert.True(t, constraints.RolesSatisfied(entries))
	})

	t.Run("missing role", func(t *testing.T) {
		entries := []domain.QueueEntry{
			soloEntry(1500, now, domain.EntryMetadata{Roles: []string{"tank"}}),
			soloEntry(1500, now, domain.EntryMetadata{Roles: []string{"dps"}}),
		}
		assert.False(t, constraints.RolesSatisfied(entries))
	})

	t.Run("no requirements always passes", func(t *testing.T) {
		none := domain.MatchConstraints{}
		entries := []domain.QueueEntry{soloEntry(1500, now, domain.EntryMetadata{})}
		assert.True(t, none.RolesSatisfied(entries))
	})
}

func TestMatchFormat_Validate(t *testing.T) {
	assert.NoError(t, domain.FiveVFive().Validate())
	assert.NoError(t, domain.FreeForAll(8).Validate())

	assert.Error(t, domain.MatchFormat{Name: "empty"}.Validate())
	assert.Error(t, domain.MatchFormat{Name: "zero team", TeamSizes: []int{0, 5}, TotalPlayers: 5}.Validate())
	assert.Error(t, domain.MatchFormat{Name: "bad total", TeamSizes: []int{2, 2}, TotalPlayers: 5}.Validate())
}
