package service

import (
	"context"
	"log"

	"github.com/colerae/matchbox/internal/domain"
	"github.com/colerae/matchbox/internal/mmr"
	"github.com/colerae/matchbox/internal/repository"
	"github.com/google/uuid"
)

// LobbyService drives a lobby from match formation through ready checks,
// dispatch, rating settlement and archival. It holds no in-memory state of
// its own; every operation loads, mutates and saves through the repositories.
type LobbyService struct {
	repos     *repository.Repositories
	algorithm mmr.Algorithm
}

// NewLobbyService builds a lobby service settling ratings with the given
// algorithm.
func NewLobbyService(repos *repository.Repositories, algorithm mmr.Algorithm) *LobbyService {
	return &LobbyService{repos: repos, algorithm: algorithm}
}

// CreateFromMatch turns a matcher result into a Forming lobby. Each entry's
// players land on the team the matcher assigned the entry to, so parties stay
// together.
func (s *LobbyService) CreateFromMatch(ctx context.Context, result domain.MatchResult, format domain.MatchFormat, metadata domain.LobbyMetadata) (domain.Lobby, error) {
	if len(result.TeamAssignments) != len(result.Entries) {
		return domain.Lobby{}, domain.ErrInvalidConfiguration
	}

	teams := make([]domain.Team, format.TeamCount())
	for i := range teams {
		teams[i] = domain.Team{TeamID: i}
	}
	for i, entry := range result.Entries {
		team := result.TeamAssignments[i]
		if team < 0 || team >= len(teams) {
			return domain.Lobby{}, domain.ErrInvalidConfiguration
		}
		teams[team].PlayerIDs = append(teams[team].PlayerIDs, entry.PlayerIDs...)
	}

	lobby := domain.NewLobby(result.MatchID, teams, metadata)
	if err := s.repos.Lobby.Save(ctx, lobby); err != nil {
		return domain.Lobby{}, err
	}
	return lobby, nil
}

// Lobby loads a lobby by id.
func (s *LobbyService) Lobby(ctx context.Context, lobbyID uuid.UUID) (domain.Lobby, error) {
	lobby, err := s.repos.Lobby.Load(ctx, lobbyID)
	if err != nil {
		return domain.Lobby{}, err
	}
	if lobby == nil {
		return domain.Lobby{}, domain.ErrLobbyNotFound
	}
	return *lobby, nil
}

// BeginReadyCheck moves a Forming lobby into WaitingForReady.
func (s *LobbyService) BeginReadyCheck(ctx context.Context, lobbyID uuid.UUID) (domain.Lobby, error) {
	lobby, err := s.Lobby(ctx, lobbyID)
	if err != nil {
		return domain.Lobby{}, err
	}
	if err := lobby.TransitionTo(domain.LobbyStateWaitingForReady); err != nil {
		return domain.Lobby{}, err
	}
	if err := s.repos.Lobby.Save(ctx, lobby); err != nil {
		return domain.Lobby{}, err
	}
	return lobby, nil
}

// MarkReady records a player's ready signal. When the last player readies up
// during a ready check the lobby advances to Ready automatically.
func (s *LobbyService) MarkReady(ctx context.Context, lobbyID, playerID uuid.UUID) (domain.Lobby, error) {
	lobby, err := s.Lobby(ctx, lobbyID)
	if err != nil {
		return domain.Lobby{}, err
	}
	if err := lobby.MarkReady(playerID); err != nil {
		return domain.Lobby{}, err
	}
	if err := s.repos.Lobby.Save(ctx, lobby); err != nil {
		return domain.Lobby{}, err
	}
	return lobby, nil
}

// Dispatch hands a Ready lobby to a game server.
func (s *LobbyService) Dispatch(ctx context.Context, lobbyID uuid.UUID, serverID string) (domain.Lobby, error) {
	lobby, err := s.Lobby(ctx, lobbyID)
	if err != nil {
		return domain.Lobby{}, err
	}
	if err := lobby.TransitionTo(domain.LobbyStateDispatched); err != nil {
		return domain.Lobby{}, err
	}
	lobby.Metadata.ServerID = &serverID
	if err := s.repos.Lobby.Save(ctx, lobby); err != nil {
		return domain.Lobby{}, err
	}
	return lobby, nil
}

// AutoDispatch walks a fresh lobby straight through the ready check to
// Dispatched, readying every player on their behalf. Used by the runner for
// queues that skip the manual ready flow.
func (s *LobbyService) AutoDispatch(ctx context.Context, lobbyID uuid.UUID) (domain.Lobby, error) {
	lobby, err := s.Lobby(ctx, lobbyID)
	if err != nil {
		return domain.Lobby{}, err
	}
	if err := lobby.TransitionTo(domain.LobbyStateWaitingForReady); err != nil {
		return domain.Lobby{}, err
	}
	for _, playerID := range lobby.PlayerIDs {
		if err := lobby.MarkReady(playerID); err != nil {
			return domain.Lobby{}, err
		}
	}
	if err := lobby.TransitionTo(domain.LobbyStateDispatched); err != nil {
		return domain.Lobby{}, err
	}
	if err := s.repos.Lobby.Save(ctx, lobby); err != nil {
		return domain.Lobby{}, err
	}
	return lobby, nil
}

// Close ends a lobby from any live state, archives it to match history and
// removes it from the active store.
func (s *LobbyService) Close(ctx context.Context, lobbyID uuid.UUID) error {
	lobby, err := s.Lobby(ctx, lobbyID)
	if err != nil {
		return err
	}
	if err := lobby.TransitionTo(domain.LobbyStateClosed); err != nil {
		return err
	}
	if err := s.repos.MatchHistory.SaveMatchResult(ctx, lobby); err != nil {
		return err
	}
	return s.repos.Lobby.Delete(ctx, lobbyID)
}

// UpdateRatings settles a dispatched lobby from per-player outcomes, then
// closes it. Each team's result is the majority of its members' reported
// outcomes (ties count as a draw); teams with no reported outcomes are
// skipped. A player's rating moves by the summed per-opponent deltas off
// their pre-match rating, so facing many opponents never compounds updates.
// Individual save failures are logged and do not block the rest.
func (s *LobbyService) UpdateRatings(ctx context.Context, lobbyID uuid.UUID, outcomes map[uuid.UUID]domain.Outcome) error {
	lobby, err := s.Lobby(ctx, lobbyID)
	if err != nil {
		return err
	}
	if lobby.State != domain.LobbyStateDispatched {
		return domain.ErrIllegalStateTransition
	}

	pre := make(map[uuid.UUID]domain.Rating, len(lobby.PlayerIDs))
	for _, playerID := range lobby.PlayerIDs {
		rating, err := s.repos.PlayerRating.Load(ctx, playerID)
		if err != nil {
			return err
		}
		if rating == nil {
			beginner := domain.DefaultBeginnerRating()
			rating = &beginner
		}
		pre[playerID] = *rating
	}

	teamOutcomes := make(map[int]domain.Outcome, len(lobby.Teams))
	for _, team := range lobby.Teams {
		outcome, ok := majorityOutcome(team, outcomes)
		if ok {
			teamOutcomes[team.TeamID] = outcome
		}
	}

	for _, team := range lobby.Teams {
		outcome, ok := teamOutcomes[team.TeamID]
		if !ok {
			continue
		}
		for _, playerID := range team.PlayerIDs {
			base := pre[playerID]
			deltaRating := 0.0
			deltaDeviation := 0.0
			for _, opposing := range lobby.Teams {
				if opposing.TeamID == team.TeamID {
					continue
				}
				for _, opponentID := range opposing.PlayerIDs {
					updated := s.algorithm.CalculateNewRating(base, pre[opponentID], outcome)
					deltaRating += updated.Rating - base.Rating
					deltaDeviation += updated.Deviation - base.Deviation
				}
			}

			final := domain.Rating{
				Rating:     base.Rating + deltaRating,
				Deviation:  base.Deviation + deltaDeviation,
				Volatility: base.Volatility,
			}.Clamped()

			if err := s.repos.PlayerRating.Save(ctx, playerID, final); err != nil {
				log.Printf("ERROR [lobby.UpdateRatings] failed to save rating for player %s: %v", playerID, err)
			}
		}
	}

	return s.Close(ctx, lobbyID)
}

// majorityOutcome reduces a team's member outcomes to one team result. The
// second return is false when no member reported.
func majorityOutcome(team domain.Team, outcomes map[uuid.UUID]domain.Outcome) (domain.Outcome, bool) {
	counts := make(map[domain.Outcome]int, 3)
	reported := 0
	for _, playerID := range team.PlayerIDs {
		outcome, ok := outcomes[playerID]
		if !ok || !outcome.IsValid() {
			continue
		}
		counts[outcome]++
		reported++
	}
	if reported == 0 {
		return "", false
	}

	wins, losses, draws := counts[domain.OutcomeWin], counts[domain.OutcomeLoss], counts[domain.OutcomeDraw]
	switch {
	case wins > losses && wins > draws:
		return domain.OutcomeWin, true
	case losses > wins && losses > draws:
		return domain.OutcomeLoss, true
	case draws > wins && draws > losses:
		return domain.OutcomeDraw, true
	}
	// Conflicting reports resolve to a draw.
	return domain.OutcomeDraw, true
}
