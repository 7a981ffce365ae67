package service

import (
	"math"
	"sort"
	"time"

	"github.com/colerae/matchbox/internal/domain"
	"github.com/google/uuid"
)

// SwissMatcher pairs entries with similar standings scores for one-versus-one
// rounds, as in chess-style events. Scores are external to the queue (wins so
// far, round points); entries without a score count as zero. Pairings are
// disjoint and optionally avoid repeat matchups.
type SwissMatcher struct {
	MaxScoreDifference float64
	AvoidRematches     bool
}

// NewSwissMatcher builds a swiss pairing strategy.
func NewSwissMatcher(maxScoreDifference float64, avoidRematches bool) *SwissMatcher {
	return &SwissMatcher{MaxScoreDifference: maxScoreDifference, AvoidRematches: avoidRematches}
}

// FindPairings returns 1v1 pairings ordered from the top of the standings.
// previousOpponents maps a player to everyone they already faced; it is only
// consulted when AvoidRematches is set.
func (m *SwissMatcher) FindPairings(entries []domain.QueueEntry, scores map[uuid.UUID]float64, previousOpponents map[uuid.UUID][]uuid.UUID) []domain.MatchResult {
	if len(entries) < 2 {
		return nil
	}

	pool := make([]domain.QueueEntry, len(entries))
	copy(pool, entries)

	// Highest score first; ties fall back to the entry id for stability.
	sort.Slice(pool, func(i, j int) bool {
		si, sj := m.entryScore(pool[i], scores), m.entryScore(pool[j], scores)
		if si != sj {
			return si > sj
		}
		return pool[i].ID.String() < pool[j].ID.String()
	})

	var results []domain.MatchResult
	used := make(map[uuid.UUID]bool)

	for i := range pool {
		if used[pool[i].ID] {
			continue
		}
		opponent, ok := m.bestOpponent(pool[i], pool[i+1:], used, scores, previousOpponents)
		if !ok {
			continue
		}

		used[pool[i].ID] = true
		used[opponent.ID] = true
		results = append(results, domain.MatchResult{
			MatchID:         uuid.New(),
			Entries:         []domain.QueueEntry{pool[i], opponent},
			TeamAssignments: []int{0, 1},
		})
	}
	return results
}

// bestOpponent picks the unused candidate with the closest standing, using the
// rating gap as a tie-break weight.
func (m *SwissMatcher) bestOpponent(entry domain.QueueEntry, candidates []domain.QueueEntry, used map[uuid.UUID]bool, scores map[uuid.UUID]float64, previousOpponents map[uuid.UUID][]uuid.UUID) (domain.QueueEntry, bool) {
	entryScore := m.entryScore(entry, scores)

	var best domain.QueueEntry
	bestQuality := math.Inf(1)
	found := false

	for _, candidate := range candidates {
		if used[candidate.ID] {
			continue
		}

		scoreDiff := math.Abs(entryScore - m.entryScore(candidate, scores))
		if scoreDiff > m.MaxScoreDifference {
			continue
		}
		if m.AvoidRematches && m.havePlayed(entry, candidate, previousOpponents) {
			continue
		}

		quality := scoreDiff + math.Abs(entry.Rating.Rating-candidate.Rating.Rating)*0.01
		if quality < bestQuality {
			bestQuality = quality
			best = candidate
			found = true
		}
	}
	return best, found
}

// entryScore is the mean standings score of the entry's players.
func (m *SwissMatcher) entryScore(entry domain.QueueEntry, scores map[uuid.UUID]float64) float64 {
	total := 0.0
	for _, id := range entry.PlayerIDs {
		total += scores[id]
	}
	return total / float64(len(entry.PlayerIDs))
}

func (m *SwissMatcher) havePlayed(a, b domain.QueueEntry, previousOpponents map[uuid.UUID][]uuid.UUID) bool {
	for _, id := range a.PlayerIDs {
		for _, opponent := range previousOpponents[id] {
			if b.HasPlayer(opponent) {
				return true
			}
		}
	}
	return false
}

// AdaptiveMatcher forms 1v1 matches under a rating window that widens with an
// entry's share of the maximum wait. Unlike the per-second relaxation built
// into MatchConstraints, the widening here is proportional: an entry at the
// full wait gets the base window scaled by 1+ExpansionFactor.
type AdaptiveMatcher struct {
	Base            domain.MatchConstraints
	MaxWaitTime     time.Duration
	ExpansionFactor float64
}

// NewAdaptiveMatcher builds an adaptive matcher over the base constraints.
func NewAdaptiveMatcher(base domain.MatchConstraints, maxWaitTime time.Duration, expansionFactor float64) *AdaptiveMatcher {
	return &AdaptiveMatcher{Base: base, MaxWaitTime: maxWaitTime, ExpansionFactor: expansionFactor}
}

// FindMatches pairs each unmatched entry with the closest-rated compatible
// candidate behind it, under the entry's widened window.
func (m *AdaptiveMatcher) FindMatches(entries []domain.QueueEntry, now time.Time) []domain.MatchResult {
	var results []domain.MatchResult
	used := make(map[uuid.UUID]bool)

	for i := range entries {
		entry := entries[i]
		if used[entry.ID] {
			continue
		}

		maxDelta := m.widenedDelta(entry, now)

		var best domain.QueueEntry
		bestQuality := math.Inf(1)
		found := false
		for _, candidate := range entries[i+1:] {
			if used[candidate.ID] {
				continue
			}
			if !m.compatible(entry, candidate, maxDelta) {
				continue
			}
			ratingDiff := math.Abs(entry.Rating.Rating - candidate.Rating.Rating)
			waitDiff := math.Abs(entry.JoinedAt.Sub(candidate.JoinedAt).Seconds())
			quality := ratingDiff + waitDiff*0.001
			if quality < bestQuality {
				bestQuality = quality
				best = candidate
				found = true
			}
		}
		if !found {
			continue
		}

		used[entry.ID] = true
		used[best.ID] = true
		results = append(results, domain.MatchResult{
			MatchID:         uuid.New(),
			Entries:         []domain.QueueEntry{entry, best},
			TeamAssignments: []int{0, 1},
		})
	}
	return results
}

func (m *AdaptiveMatcher) widenedDelta(entry domain.QueueEntry, now time.Time) float64 {
	waitRatio := 0.0
	if m.MaxWaitTime > 0 {
		waitRatio = float64(entry.WaitTime(now)) / float64(m.MaxWaitTime)
		if waitRatio < 0 {
			waitRatio = 0
		}
	}
	return m.Base.MaxRatingDelta * (1 + waitRatio*m.ExpansionFactor)
}

func (m *AdaptiveMatcher) compatible(a, b domain.QueueEntry, maxDelta float64) bool {
	if math.Abs(a.Rating.Rating-b.Rating.Rating) > maxDelta {
		return false
	}
	if m.Base.SameRegionRequired {
		ra, rb := a.Metadata.Region, b.Metadata.Region
		switch {
		case ra == nil && rb == nil:
		case ra != nil && rb != nil && *ra == *rb:
		default:
			return false
		}
	}
	return true
}

// BalanceStrategy selects how FairTeamBalancer distributes entries.
type BalanceStrategy string

const (
	// BalanceByRating snake-drafts entries by rating so team strength evens out.
	BalanceByRating BalanceStrategy = "rating"
	// BalanceByPartySize places the largest parties first, best fit per team.
	BalanceByPartySize BalanceStrategy = "party_size"
	// BalanceHybrid places by party size, then swaps entries to close rating gaps.
	BalanceHybrid BalanceStrategy = "hybrid"
)

// FairTeamBalancer distributes already-matched entries across teams so that
// mixed party sizes still produce even sides. Entries are never split.
type FairTeamBalancer struct {
	Strategy BalanceStrategy
}

// NewFairTeamBalancer builds a balancer for the given strategy.
func NewFairTeamBalancer(strategy BalanceStrategy) *FairTeamBalancer {
	return &FairTeamBalancer{Strategy: strategy}
}

// BalanceTeams splits entries into len(teamSizes) teams.
func (b *FairTeamBalancer) BalanceTeams(entries []domain.QueueEntry, teamSizes []int) [][]domain.QueueEntry {
	switch b.Strategy {
	case BalanceByRating:
		return b.balanceByRating(entries, teamSizes)
	case BalanceHybrid:
		teams := b.balanceByPartySize(entries, teamSizes)
		b.rebalanceRatings(teams)
		return teams
	default:
		return b.balanceByPartySize(entries, teamSizes)
	}
}

// balanceByRating snake-drafts entries in descending rating order.
func (b *FairTeamBalancer) balanceByRating(entries []domain.QueueEntry, teamSizes []int) [][]domain.QueueEntry {
	teams := make([][]domain.QueueEntry, len(teamSizes))

	sorted := make([]domain.QueueEntry, len(entries))
	copy(sorted, entries)
	sort.Slice(sorted, func(i, j int) bool {
		if sorted[i].Rating.Rating != sorted[j].Rating.Rating {
			return sorted[i].Rating.Rating > sorted[j].Rating.Rating
		}
		return sorted[i].ID.String() < sorted[j].ID.String()
	})

	// Snake draft: the edge team picks twice before the direction reverses.
	team, direction := 0, 1
	for _, entry := range sorted {
		teams[team] = append(teams[team], entry)
		next := team + direction
		if next < 0 || next >= len(teams) {
			direction = -direction
			next = team
		}
		team = next
	}
	return teams
}

// balanceByPartySize places the largest entries first into the tightest team
// that can still hold them, so parties claim contiguous capacity before solos
// fragment it.
func (b *FairTeamBalancer) balanceByPartySize(entries []domain.QueueEntry, teamSizes []int) [][]domain.QueueEntry {
	teams := make([][]domain.QueueEntry, len(teamSizes))
	capacity := make([]int, len(teamSizes))
	copy(capacity, teamSizes)

	sorted := make([]domain.QueueEntry, len(entries))
	copy(sorted, entries)
	sort.Slice(sorted, func(i, j int) bool {
		if sorted[i].PlayerCount() != sorted[j].PlayerCount() {
			return sorted[i].PlayerCount() > sorted[j].PlayerCount()
		}
		if sorted[i].Rating.Rating != sorted[j].Rating.Rating {
			return sorted[i].Rating.Rating > sorted[j].Rating.Rating
		}
		return sorted[i].ID.String() < sorted[j].ID.String()
	})

	for _, entry := range sorted {
		target := -1
		for team := range capacity {
			if capacity[team] < entry.PlayerCount() {
				continue
			}
			if target == -1 || capacity[team] < capacity[target] {
				target = team
			}
		}
		if target == -1 {
			target = 0
		}
		teams[target] = append(teams[target], entry)
		capacity[target] -= entry.PlayerCount()
	}
	return teams
}

// rebalanceRatings performs one swap pass between the strongest and weakest
// team: the equal-size entry swap that most narrows the average-rating gap is
// applied in place.
func (b *FairTeamBalancer) rebalanceRatings(teams [][]domain.QueueEntry) {
	if len(teams) < 2 {
		return
	}

	high, low := 0, 0
	for i := range teams {
		if teamAverageRating(teams[i]) > teamAverageRating(teams[high]) {
			high = i
		}
		if teamAverageRating(teams[i]) < teamAverageRating(teams[low]) {
			low = i
		}
	}
	if high == low {
		return
	}

	bestGap := math.Abs(teamAverageRating(teams[high]) - teamAverageRating(teams[low]))
	bestHigh, bestLow := -1, -1
	for i, a := range teams[high] {
		for j, c := range teams[low] {
			if a.PlayerCount() != c.PlayerCount() {
				continue
			}
			teams[high][i], teams[low][j] = teams[low][j], teams[high][i]
			gap := math.Abs(teamAverageRating(teams[high]) - teamAverageRating(teams[low]))
			teams[high][i], teams[low][j] = teams[low][j], teams[high][i]
			if gap < bestGap {
				bestGap = gap
				bestHigh, bestLow = i, j
			}
		}
	}
	if bestHigh >= 0 {
		teams[high][bestHigh], teams[low][bestLow] = teams[low][bestLow], teams[high][bestHigh]
	}
}

func teamAverageRating(team []domain.QueueEntry) float64 {
	if len(team) == 0 {
		return 0
	}
	total := 0.0
	for _, e := range team {
		total += e.Rating.Rating
	}
	return total / float64(len(team))
}
