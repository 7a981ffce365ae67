package mmr

import (
	"github.com/colerae/matchbox/internal/domain"
	"github.com/google/uuid"
)

// PartyRatingPolicy aggregates member ratings into one rating a party queues
// with.
type PartyRatingPolicy interface {
	CalculatePartyRating(ratings []PlayerRating) domain.Rating
}

// PlayerRating pairs a player with their current rating.
type PlayerRating struct {
	PlayerID uuid.UUID
	Rating   domain.Rating
}

// AveragePolicy uses the mean rating and mean deviation of the members.
type AveragePolicy struct{}

// CalculatePartyRating averages members; an empty party rates as a beginner.
func (AveragePolicy) CalculatePartyRating(ratings []PlayerRating) domain.Rating {
	if len(ratings) == 0 {
		return domain.DefaultBeginnerRating()
	}

	var ratingSum, deviationSum float64
	for _, r := range ratings {
		ratingSum += r.Rating.Rating
		deviationSum += r.Rating.Deviation
	}
	n := float64(len(ratings))

	return domain.Rating{
		Rating:     ratingSum / n,
		Deviation:  deviationSum / n,
		Volatility: domain.DefaultVolatility,
	}.Clamped()
}

// MaxPolicy rates the party at its strongest member's full rating. This is
// the conservative choice for the party's opponents.
type MaxPolicy struct{}

// CalculatePartyRating picks the highest-rated member's triple.
func (MaxPolicy) CalculatePartyRating(ratings []PlayerRating) domain.Rating {
	if len(ratings) == 0 {
		return domain.DefaultBeginnerRating()
	}

	best := ratings[0].Rating
	for _, r := range ratings[1:] {
		if r.Rating.Rating > best.Rating {
			best = r.Rating
		}
	}
	return best
}

// WeightedWithPenaltyPolicy averages members and adds a penalty proportional
// to the skill gap, so lopsided parties queue above their mean.
type WeightedWithPenaltyPolicy struct {
	GapPenalty float64
}

// DefaultWeightedWithPenaltyPolicy adds 10% of the member skill gap.
func DefaultWeightedWithPenaltyPolicy() WeightedWithPenaltyPolicy {
	return WeightedWithPenaltyPolicy{GapPenalty: 0.1}
}

// CalculatePartyRating applies avg + gap*penalty with a fixed 200 deviation.
func (p WeightedWithPenaltyPolicy) CalculatePartyRating(ratings []PlayerRating) domain.Rating {
	if len(ratings) == 0 {
		return domain.DefaultBeginnerRating()
	}

	minRating, maxRating := ratings[0].Rating.Rating, ratings[0].Rating.Rating
	var sum float64
	for _, r := range ratings {
		v := r.Rating.Rating
		sum += v
		if v < minRating {
			minRating = v
		}
		if v > maxRating {
			maxRating = v
		}
	}

	avg := sum / float64(len(ratings))
	gap := maxRating - minRating

	return domain.Rating{
		Rating:     avg + gap*p.GapPenalty,
		Deviation:  200,
		Volatility: domain.DefaultVolatility,
	}.Clamped()
}
