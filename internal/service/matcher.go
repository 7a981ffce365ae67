package service

import (
	"sort"
	"time"

	"github.com/colerae/matchbox/internal/domain"
	"github.com/google/uuid"
)

// GreedyMatcher forms matches from queue entries: oldest entry seeds a
// candidate set, compatible entries are admitted in age order until the
// format is full, otherwise the seed is skipped this pass. The matcher is a
// pure function over its inputs and always returns a (possibly empty) list.
type GreedyMatcher struct {
	Format      domain.MatchFormat
	Constraints domain.MatchConstraints
}

// NewGreedyMatcher builds a matcher for one queue's format and constraints.
func NewGreedyMatcher(format domain.MatchFormat, constraints domain.MatchConstraints) *GreedyMatcher {
	return &GreedyMatcher{Format: format, Constraints: constraints}
}

// FindMatches returns every disjoint match that can be formed from entries at
// the given time. Unused entries stay eligible for future ticks.
func (m *GreedyMatcher) FindMatches(entries []domain.QueueEntry, now time.Time) []domain.MatchResult {
	if len(entries) == 0 {
		return nil
	}

	pool := make([]domain.QueueEntry, len(entries))
	copy(pool, entries)

	// Oldest first; identical join times fall back to the entry id so the
	// ordering is stable across ticks.
	sort.Slice(pool, func(i, j int) bool {
		if !pool[i].JoinedAt.Equal(pool[j].JoinedAt) {
			return pool[i].JoinedAt.Before(pool[j].JoinedAt)
		}
		return pool[i].ID.String() < pool[j].ID.String()
	})

	var results []domain.MatchResult
	used := make(map[uuid.UUID]bool)

	// Remaining counts players, not entries; a party occupies one entry but
	// fills several slots.
	remaining := 0
	for _, e := range pool {
		remaining += e.PlayerCount()
	}

	for seed := 0; seed < len(pool); seed++ {
		if used[pool[seed].ID] {
			continue
		}
		if remaining < m.Format.TotalPlayers {
			break
		}

		selected, assignments, ok := m.assemble(pool, seed, used, now)
		if !ok {
			continue
		}

		for _, e := range selected {
			used[e.ID] = true
			remaining -= e.PlayerCount()
		}

		results = append(results, domain.MatchResult{
			MatchID:         uuid.New(),
			Entries:         selected,
			TeamAssignments: assignments,
		})
	}

	return results
}

// assemble grows a candidate set from the seed, then validates roles and team
// placement. A failure at any stage rejects the seed for this pass only.
func (m *GreedyMatcher) assemble(pool []domain.QueueEntry, seed int, used map[uuid.UUID]bool, now time.Time) ([]domain.QueueEntry, []int, bool) {
	total := m.Format.TotalPlayers

	selected := []domain.QueueEntry{pool[seed]}
	playerCount := pool[seed].PlayerCount()
	if playerCount > total {
		return nil, nil, false
	}

	for i := seed + 1; i < len(pool) && playerCount < total; i++ {
		candidate := pool[i]
		if used[candidate.ID] {
			continue
		}
		if playerCount+candidate.PlayerCount() > total {
			continue
		}

		compatible := true
		for _, s := range selected {
			if !m.Constraints.CanMatch(s, candidate, now) {
				compatible = false
				break
			}
		}
		if !compatible {
			continue
		}

		selected = append(selected, candidate)
		playerCount += candidate.PlayerCount()
	}

	if playerCount != total {
		return nil, nil, false
	}
	if !m.Constraints.RolesSatisfied(selected) {
		return nil, nil, false
	}

	assignments, ok := m.assignTeams(selected)
	if !ok {
		return nil, nil, false
	}
	return selected, assignments, true
}

// assignTeams places each entry whole into the lowest-indexed team with room.
// Parties never split across teams; if any entry cannot fit, the candidate
// set is rejected.
func (m *GreedyMatcher) assignTeams(selected []domain.QueueEntry) ([]int, bool) {
	capacity := make([]int, len(m.Format.TeamSizes))
	copy(capacity, m.Format.TeamSizes)

	assignments := make([]int, len(selected))
	for i, entry := range selected {
		placed := false
		for team := range capacity {
			if capacity[team] >= entry.PlayerCount() {
				assignments[i] = team
				capacity[team] -= entry.PlayerCount()
				placed = true
				break
			}
		}
		if !placed {
			return nil, false
		}
	}
	return assignments, true
}
