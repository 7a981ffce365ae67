package mmr

import "github.com/colerae/matchbox/internal/domain"

// SeasonResetPolicy transforms a rating at a season boundary.
type SeasonResetPolicy interface {
	ResetRating(current domain.Rating) domain.Rating
}

// SoftReset compresses ratings toward a target by a percentage and sets a
// moderate deviation so placement converges quickly in the new season.
type SoftReset struct {
	TargetRating    float64
	ResetPercentage float64 // 0.0 to 1.0
}

// NewSoftReset builds a soft reset policy.
func NewSoftReset(targetRating, resetPercentage float64) *SoftReset {
	return &SoftReset{TargetRating: targetRating, ResetPercentage: resetPercentage}
}

// DefaultSoftReset pulls ratings halfway back to 1500.
func DefaultSoftReset() *SoftReset {
	return NewSoftReset(1500, 0.5)
}

// ResetRating moves the rating toward the target, preserving volatility.
func (s *SoftReset) ResetRating(current domain.Rating) domain.Rating {
	updated := domain.Rating{
		Rating:     current.Rating + (s.TargetRating-current.Rating)*s.ResetPercentage,
		Deviation:  200,
		Volatility: current.Volatility,
	}
	return updated.Clamped()
}

// HardReset puts every player back on the same fresh rating.
type HardReset struct {
	Value float64
}

// NewHardReset builds a hard reset policy.
func NewHardReset(value float64) *HardReset {
	return &HardReset{Value: value}
}

// ResetRating discards history entirely.
func (h *HardReset) ResetRating(_ domain.Rating) domain.Rating {
	updated := domain.Rating{
		Rating:     h.Value,
		Deviation:  domain.MaxDeviation,
		Volatility: domain.DefaultVolatility,
	}
	return updated.Clamped()
}
