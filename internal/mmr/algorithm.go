// Package mmr implements the pluggable rating transforms: match-outcome
// algorithms (Elo, simplified Glicko-2), inactivity decay, season resets and
// party rating aggregation. Everything here is pure; callers own persistence.
package mmr

import (
	"math"

	"github.com/colerae/matchbox/internal/domain"
)

// Algorithm recomputes a player's rating from a single opponent and outcome.
// Implementations are pure and cannot fail.
type Algorithm interface {
	CalculateNewRating(player, opponent domain.Rating, outcome domain.Outcome) domain.Rating
	Name() string
}

// Elo is the classic Elo system. Deviation contracts slightly per update as
// a minor confidence gain; volatility is untouched.
type Elo struct {
	KFactor float64
}

// NewElo builds an Elo algorithm with the given K factor.
func NewElo(kFactor float64) *Elo {
	return &Elo{KFactor: kFactor}
}

// DefaultElo uses K=32.
func DefaultElo() *Elo {
	return NewElo(32)
}

func (e *Elo) expectedScore(a, b float64) float64 {
	return 1.0 / (1.0 + math.Pow(10, (b-a)/400.0))
}

// CalculateNewRating applies a single Elo update.
func (e *Elo) CalculateNewRating(player, opponent domain.Rating, outcome domain.Outcome) domain.Rating {
	expected := e.expectedScore(player.Rating, opponent.Rating)
	updated := domain.Rating{
		Rating:     player.Rating + e.KFactor*(outcome.Score()-expected),
		Deviation:  player.Deviation * 0.99,
		Volatility: player.Volatility,
	}
	return updated.Clamped()
}

// Name identifies the algorithm.
func (e *Elo) Name() string { return "elo" }

// Glicko2 is a simplified Glicko-2: the opponent's deviation weights the
// expected score, and the player's deviation grows with per-update variance.
// The tau-based volatility update is omitted; volatility passes through.
type Glicko2 struct {
	// Tau is the system constant of full Glicko-2. The simplified update
	// never reads it; it is kept so configurations carry over unchanged if
	// the iterative volatility solver is added later.
	Tau float64
}

// NewGlicko2 builds a Glicko-2 algorithm with the given system constant.
func NewGlicko2(tau float64) *Glicko2 {
	return &Glicko2{Tau: tau}
}

// DefaultGlicko2 uses tau=0.5.
func DefaultGlicko2() *Glicko2 {
	return NewGlicko2(0.5)
}

func (g *Glicko2) g(deviation float64) float64 {
	return 1.0 / math.Sqrt(1.0+3.0*deviation*deviation/(math.Pi*math.Pi))
}

func (g *Glicko2) expectedScore(rating, opponentRating, opponentDeviation float64) float64 {
	return 1.0 / (1.0 + math.Exp(-g.g(opponentDeviation)*(rating-opponentRating)/400.0))
}

// CalculateNewRating applies a single simplified Glicko-2 update.
func (g *Glicko2) CalculateNewRating(player, opponent domain.Rating, outcome domain.Outcome) domain.Rating {
	gv := g.g(opponent.Deviation)
	expected := g.expectedScore(player.Rating, opponent.Rating, opponent.Deviation)

	variance := 1.0 / (gv * gv * expected * (1.0 - expected))
	delta := variance * gv * (outcome.Score() - expected)

	updated := domain.Rating{
		Rating:     player.Rating + delta,
		Deviation:  math.Sqrt(player.Deviation*player.Deviation + variance),
		Volatility: player.Volatility,
	}
	return updated.Clamped()
}

// Name identifies the algorithm.
func (g *Glicko2) Name() string { return "glicko2" }
