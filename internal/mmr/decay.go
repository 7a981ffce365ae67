package mmr

import (
	"time"

	"github.com/colerae/matchbox/internal/domain"
)

// DecayPolicy applies an inactivity transform to a rating. The engine
// defines the math; a periodic job in the embedding application drives it.
type DecayPolicy interface {
	ApplyDecay(rating domain.Rating, lastMatchAt time.Time, now time.Time) domain.Rating
}

// LinearDecay removes a fixed number of points per idle day, capped at
// MaxDecay, while the deviation drifts back up to reflect lost confidence.
type LinearDecay struct {
	DecayPerDay float64
	MaxDecay    float64
}

// NewLinearDecay builds a linear decay policy.
func NewLinearDecay(decayPerDay, maxDecay float64) *LinearDecay {
	return &LinearDecay{DecayPerDay: decayPerDay, MaxDecay: maxDecay}
}

// DefaultLinearDecay loses one point per day up to 100.
func DefaultLinearDecay() *LinearDecay {
	return NewLinearDecay(1, 100)
}

// ApplyDecay is a no-op for players active today or in the future.
func (d *LinearDecay) ApplyDecay(rating domain.Rating, lastMatchAt time.Time, now time.Time) domain.Rating {
	daysInactive := now.Sub(lastMatchAt).Hours() / 24
	if daysInactive <= 0 {
		return rating
	}

	decay := d.DecayPerDay * daysInactive
	if decay > d.MaxDecay {
		decay = d.MaxDecay
	}

	updated := domain.Rating{
		Rating:     rating.Rating - decay,
		Deviation:  rating.Deviation + 0.5*daysInactive,
		Volatility: rating.Volatility,
	}
	return updated.Clamped()
}

// NoDecay leaves ratings untouched.
type NoDecay struct{}

// ApplyDecay returns the rating unchanged.
func (NoDecay) ApplyDecay(rating domain.Rating, _ time.Time, _ time.Time) domain.Rating {
	return rating
}
