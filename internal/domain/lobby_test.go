package domain_test

import (
	"testing"

	"github.com/colerae/matchbox/internal/domain"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func twoTeamLobby(t *testing.T) domain.Lobby {
	t.Helper()
	teams := []domain.Team{
		{TeamID: 0, PlayerIDs: []uuid.UUID{uuid.New(), uuid.New()}},
		{TeamID: 1, PlayerIDs: []uuid.UUID{uuid.New(), uuid.New()}},
	}
	return domain.NewLobby(uuid.New(), teams, domain.LobbyMetadata{QueueName: "ranked"})
}

func TestNewLobby(t *testing.T) {
	lobby := twoTeamLobby(t)

	assert.Equal(t, domain.LobbyStateForming, lobby.State)
	assert.Len(t, lobby.PlayerIDs, 4)
	assert.Empty(t, lobby.ReadyPlayers)

	for _, team := range lobby.Teams {
		for _, id := range team.PlayerIDs {
			assert.Equal(t, team.TeamID, lobby.PlayerTeam(id))
		}
	}
	assert.Equal(t, -1, lobby.PlayerTeam(uuid.New()))
}

func TestLobbyStateTransitions(t *testing.T) {
	tests := []struct {
		name    string
		from    domain.LobbyState
		to      domain.LobbyState
		allowed bool
	}{
		{"forming to waiting", domain.LobbyStateForming, domain.LobbyStateWaitingForReady, true},
		{"waiting to ready", domain.LobbyStateWaitingForReady, domain.LobbyStateReady, true},
		{"ready to dispatched", domain.LobbyStateReady, domain.LobbyStateDispatched, true},
		{"forming to ready skips waiting", domain.LobbyStateForming, domain.LobbyStateReady, false},
		{"waiting to dispatched skips ready", domain.LobbyStateWaitingForReady, domain.LobbyStateDispatched, false},
		{"ready back to forming", domain.LobbyStateReady, domain.LobbyStateForming, false},
		{"forming to closed", domain.LobbyStateForming, domain.LobbyStateClosed, true},
		{"waiting to closed", domain.LobbyStateWaitingForReady, domain.LobbyStateClosed, true},
		{"dispatched to closed", domain.LobbyStateDispatched, domain.LobbyStateClosed, true},
		{"closed is terminal", domain.LobbyStateClosed, domain.LobbyStateForming, false},
		{"closed to closed", domain.LobbyStateClosed, domain.LobbyStateClosed, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			lobby := twoTeamLobby(t)
			lobby.State = tt.from

			err := lobby.TransitionTo(tt.to)
			if tt.allowed {
				require.NoError(t, err)
				assert.Equal(t, tt.to, lobby.State)
			} else {
				assert.ErrorIs(t, err, domain.ErrIllegalStateTransition)
				assert.Equal(t, tt.from, lobby.State)
			}
		})
	}
}

func TestLobby_MarkReady(t *testing.T) {
	lobby := twoTeamLobby(t)
	require.NoError(t, lobby.TransitionTo(domain.LobbyStateWaitingForReady))

	// Unknown players are rejected
	err := lobby.MarkReady(uuid.New())
	assert.ErrorIs(t, err, domain.ErrPlayerNotInLobby)

	// Duplicate signals are idempotent
	require.NoError(t, lobby.MarkReady(lobby.PlayerIDs[0]))
	require.NoError(t, lobby.MarkReady(lobby.PlayerIDs[0]))
	assert.Len(t, lobby.ReadyPlayers, 1)
	assert.Equal(t, domain.LobbyStateWaitingForReady, lobby.State)

	// The last ready signal advances the lobby
	for _, id := range lobby.PlayerIDs[1:] {
		require.NoError(t, lobby.MarkReady(id))
	}
	assert.True(t, lobby.AllPlayersReady())
	assert.Equal(t, domain.LobbyStateReady, lobby.State)
}

func TestLobby_MarkReadyWhileForming(t *testing.T) {
	lobby := twoTeamLobby(t)

	// Pre-ready signals accumulate without a transition
	for _, id := range lobby.PlayerIDs {
		require.NoError(t, lobby.MarkReady(id))
	}
	assert.True(t, lobby.AllPlayersReady())
	assert.Equal(t, domain.LobbyStateForming, lobby.State)
}
