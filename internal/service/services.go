package service

import (
	"github.com/colerae/matchbox/internal/config"
	"github.com/colerae/matchbox/internal/mmr"
	"github.com/colerae/matchbox/internal/repository"
)

type Services struct {
	Queue  *QueueService
	Party  *PartyService
	Lobby  *LobbyService
	Runner *Runner
}

func NewServices(repos *repository.Repositories, cfg *config.Config) *Services {
	var algorithm mmr.Algorithm
	switch cfg.MMRAlgorithm {
	case "elo":
		algorithm = mmr.DefaultElo()
	default:
		algorithm = mmr.DefaultGlicko2()
	}

	var partyPolicy mmr.PartyRatingPolicy
	switch cfg.PartyRatingPolicy {
	case "max":
		partyPolicy = mmr.MaxPolicy{}
	case "weighted":
		partyPolicy = mmr.DefaultWeightedWithPenaltyPolicy()
	default:
		partyPolicy = mmr.AveragePolicy{}
	}

	queueSvc := NewQueueService(repos.QueueEntry)
	lobbySvc := NewLobbyService(repos, algorithm)
	runnerCfg := RunnerConfig{
		TickIntervalMs:    cfg.TickIntervalMs,
		MaxMatchesPerTick: cfg.MaxMatchesPerTick,
		AutoDispatch:      cfg.AutoDispatch,
	}

	return &Services{
		Queue:  queueSvc,
		Party:  NewPartyService(repos.Party, repos.PlayerRating, partyPolicy),
		Lobby:  lobbySvc,
		Runner: NewRunner(runnerCfg, queueSvc, lobbySvc),
	}
}
