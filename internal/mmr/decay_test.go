package mmr_test

import (
	"testing"
	"time"

	"github.com/colerae/matchbox/internal/domain"
	"github.com/colerae/matchbox/internal/mmr"
	"github.com/stretchr/testify/assert"
)

func TestLinearDecay(t *testing.T) {
	policy := mmr.NewLinearDecay(2, 100)
	now := time.Now().UTC()
	rating := domain.NewRating(1500, 200, 0.06)

	t.Run("active today is untouched", func(t *testing.T) {
		updated := policy.ApplyDecay(rating, now, now)
		assert.Equal(t, rating, updated)
	})

	t.Run("future activity is untouched", func(t *testing.T) {
		updated := policy.ApplyDecay(rating, now.Add(time.Hour), now)
		assert.Equal(t, rating, updated)
	})

	t.Run("ten days idle", func(t *testing.T) {
		updated := policy.ApplyDecay(rating, now.Add(-10*24*time.Hour), now)
		assert.InDelta(t, 1480, updated.Rating, 1e-6)
		assert.InDelta(t, 205, updated.Deviation, 1e-6)
		assert.Equal(t, rating.Volatility, updated.Volatility)
	})

	t.Run("half days count fractionally", func(t *testing.T) {
		updated := policy.ApplyDecay(rating, now.Add(-36*time.Hour), now)
		assert.InDelta(t, 1497, updated.Rating, 1e-6)
	})

	t.Run("decay is capped", func(t *testing.T) {
		updated := policy.ApplyDecay(rating, now.Add(-365*24*time.Hour), now)
		assert.InDelta(t, 1400, updated.Rating, 1e-6)
		// Deviation keeps growing but stays clamped.
		assert.Equal(t, domain.MaxDeviation, updated.Deviation)
	})

	t.Run("rating floors at zero", func(t *testing.T) {
		low := domain.NewRating(50, 200, 0.06)
		updated := policy.ApplyDecay(low, now.Add(-60*24*time.Hour), now)
		assert.GreaterOrEqual(t, updated.Rating, 0.0)
	})
}

func TestNoDecay(t *testing.T) {
	rating := domain.NewRating(1500, 200, 0.06)
	updated := mmr.NoDecay{}.ApplyDecay(rating, time.Time{}, time.Now())
	assert.Equal(t, rating, updated)
}

func TestSoftReset(t *testing.T) {
	policy := mmr.DefaultSoftReset()

	high := policy.ResetRating(domain.NewRating(2100, 60, 0.08))
	assert.InDelta(t, 1800, high.Rating, 1e-9)
	assert.Equal(t, 200.0, high.Deviation)
	assert.Equal(t, 0.08, high.Volatility)

	low := policy.ResetRating(domain.NewRating(900, 60, 0.06))
	assert.InDelta(t, 1200, low.Rating, 1e-9)
}

func TestHardReset(t *testing.T) {
	policy := mmr.NewHardReset(1500)

	reset := policy.ResetRating(domain.NewRating(2400, 50, 0.09))
	assert.Equal(t, 1500.0, reset.Rating)
	assert.Equal(t, domain.MaxDeviation, reset.Deviation)
	assert.Equal(t, domain.DefaultVolatility, reset.Volatility)
}
