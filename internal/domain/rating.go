package domain

// Default rating parameters for a player with no match history.
const (
	DefaultRating     = 1500.0
	DefaultDeviation  = 350.0
	DefaultVolatility = 0.06

	// Deviation is kept inside [MinDeviation, MaxDeviation] by every transform.
	MinDeviation = 50.0
	MaxDeviation = 350.0
)

// Rating represents a player's skill estimate. Values are never mutated in
// place; algorithms and policies return a replacement.
type Rating struct {
	Rating     float64 `json:"rating" gorm:"not null;default:1500"`
	Deviation  float64 `json:"deviation" gorm:"not null;default:350"`
	Volatility float64 `json:"volatility" gorm:"not null;default:0.06"`
}

// NewRating builds a rating from explicit components.
func NewRating(rating, deviation, volatility float64) Rating {
	return Rating{Rating: rating, Deviation: deviation, Volatility: volatility}
}

// DefaultBeginnerRating is the rating assigned to players the engine has
// never seen before.
func DefaultBeginnerRating() Rating {
	return Rating{Rating: DefaultRating, Deviation: DefaultDeviation, Volatility: DefaultVolatility}
}

// ConservativeEstimate lower-bounds true skill as rating - 2*deviation.
func (r Rating) ConservativeEstimate() float64 {
	return r.Rating - 2*r.Deviation
}

// Clamped returns a copy with the rating floored at zero and the deviation
// pulled into its legal range.
func (r Rating) Clamped() Rating {
	if r.Rating < 0 {
		r.Rating = 0
	}
	if r.Deviation < MinDeviation {
		r.Deviation = MinDeviation
	}
	if r.Deviation > MaxDeviation {
		r.Deviation = MaxDeviation
	}
	if r.Volatility < 0 {
		r.Volatility = 0
	}
	return r
}

// Outcome is a match result from one player's perspective.
type Outcome string

const (
	OutcomeWin  Outcome = "win"
	OutcomeLoss Outcome = "loss"
	OutcomeDraw Outcome = "draw"
)

// Score maps an outcome to its numeric value: win 1, loss 0, draw 0.5.
func (o Outcome) Score() float64 {
	switch o {
	case OutcomeWin:
		return 1.0
	case OutcomeLoss:
		return 0.0
	default:
		return 0.5
	}
}

// IsValid reports whether the outcome is one of the known values.
func (o Outcome) IsValid() bool {
	switch o {
	case OutcomeWin, OutcomeLoss, OutcomeDraw:
		return true
	}
	return false
}
