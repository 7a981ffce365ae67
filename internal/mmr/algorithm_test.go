package mmr_test

import (
	"testing"

	"github.com/colerae/matchbox/internal/domain"
	"github.com/colerae/matchbox/internal/mmr"
	"github.com/stretchr/testify/assert"
)

func TestElo_EqualRatings(t *testing.T) {
	elo := mmr.DefaultElo()
	a := domain.NewRating(1500, 200, 0.06)
	b := domain.NewRating(1500, 200, 0.06)

	// At equal ratings the expected score is 0.5, so a win is worth K/2.
	win := elo.CalculateNewRating(a, b, domain.OutcomeWin)
	assert.InDelta(t, 1516, win.Rating, 1e-9)

	loss := elo.CalculateNewRating(a, b, domain.OutcomeLoss)
	assert.InDelta(t, 1484, loss.Rating, 1e-9)

	draw := elo.CalculateNewRating(a, b, domain.OutcomeDraw)
	assert.InDelta(t, 1500, draw.Rating, 1e-9)
}

func TestElo_ZeroSum(t *testing.T) {
	elo := mmr.DefaultElo()
	a := domain.NewRating(1600, 200, 0.06)
	b := domain.NewRating(1400, 200, 0.06)

	aWin := elo.CalculateNewRating(a, b, domain.OutcomeWin)
	bLoss := elo.CalculateNewRating(b, a, domain.OutcomeLoss)

	gained := aWin.Rating - a.Rating
	lost := b.Rating - bLoss.Rating
	assert.InDelta(t, gained, lost, 1e-9)

	// The favorite gains less than half the K factor.
	assert.Less(t, gained, 16.0)
	assert.Greater(t, gained, 0.0)
}

func TestElo_DeviationContracts(t *testing.T) {
	elo := mmr.DefaultElo()
	a := domain.NewRating(1500, 200, 0.06)
	b := domain.NewRating(1500, 200, 0.06)

	updated := elo.CalculateNewRating(a, b, domain.OutcomeWin)
	assert.InDelta(t, 198, updated.Deviation, 1e-9)

	// The floor holds under repeated contraction.
	low := domain.NewRating(1500, domain.MinDeviation, 0.06)
	updated = elo.CalculateNewRating(low, b, domain.OutcomeWin)
	assert.Equal(t, domain.MinDeviation, updated.Deviation)
}

func TestElo_RatingNeverNegative(t *testing.T) {
	elo := mmr.NewElo(3000)
	a := domain.NewRating(10, 200, 0.06)
	b := domain.NewRating(2500, 200, 0.06)

	updated := elo.CalculateNewRating(a, b, domain.OutcomeLoss)
	assert.GreaterOrEqual(t, updated.Rating, 0.0)
}

func TestGlicko2_WinRaisesLossLowers(t *testing.T) {
	g := mmr.DefaultGlicko2()
	a := domain.NewRating(1500, 200, 0.06)
	b := domain.NewRating(1500, 200, 0.06)

	win := g.CalculateNewRating(a, b, domain.OutcomeWin)
	assert.Greater(t, win.Rating, a.Rating)

	loss := g.CalculateNewRating(a, b, domain.OutcomeLoss)
	assert.Less(t, loss.Rating, a.Rating)

	// Symmetric opponents and a draw leave the rating where it was.
	draw := g.CalculateNewRating(a, b, domain.OutcomeDraw)
	assert.InDelta(t, a.Rating, draw.Rating, 1e-9)
}

func TestGlicko2_OpponentDeviationScalesDelta(t *testing.T) {
	g := mmr.DefaultGlicko2()
	player := domain.NewRating(1500, 100, 0.06)
	confident := domain.NewRating(1500, 50, 0.06)
	uncertain := domain.NewRating(1500, 350, 0.06)

	vsConfident := g.CalculateNewRating(player, confident, domain.OutcomeWin)
	vsUncertain := g.CalculateNewRating(player, uncertain, domain.OutcomeWin)

	// The update's variance term grows with the opponent's deviation, so a
	// noisier opponent produces the bigger step.
	gainConfident := vsConfident.Rating - player.Rating
	gainUncertain := vsUncertain.Rating - player.Rating
	assert.Greater(t, gainConfident, 0.0)
	assert.Greater(t, gainUncertain, gainConfident)
}

func TestGlicko2_DeviationCappedAndVolatilityKept(t *testing.T) {
	g := mmr.DefaultGlicko2()
	a := domain.NewRating(1500, 340, 0.07)
	b := domain.NewRating(1500, 200, 0.06)

	updated := g.CalculateNewRating(a, b, domain.OutcomeWin)
	assert.LessOrEqual(t, updated.Deviation, domain.MaxDeviation)
	assert.Equal(t, 0.07, updated.Volatility)
}

func TestAlgorithmNames(t *testing.T) {
	assert.Equal(t, "elo", mmr.DefaultElo().Name())
	assert.Equal(t, "glicko2", mmr.DefaultGlicko2().Name())
}
