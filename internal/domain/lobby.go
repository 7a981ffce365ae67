package domain

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
)

// LobbyState is the lifecycle state of a lobby.
type LobbyState string

const (
	LobbyStateForming         LobbyState = "forming"
	LobbyStateWaitingForReady LobbyState = "waiting_for_ready"
	LobbyStateReady           LobbyState = "ready"
	LobbyStateDispatched      LobbyState = "dispatched"
	LobbyStateClosed          LobbyState = "closed"
)

// CanTransitionTo encodes the lobby state DAG. Closing is permitted from any
// state (cancellation); Closed is terminal.
func (s LobbyState) CanTransitionTo(next LobbyState) bool {
	if s == LobbyStateClosed {
		return false
	}
	if next == LobbyStateClosed {
		return true
	}
	switch {
	case s == LobbyStateForming && next == LobbyStateWaitingForReady:
		return true
	case s == LobbyStateWaitingForReady && next == LobbyStateReady:
		return true
	case s == LobbyStateReady && next == LobbyStateDispatched:
		return true
	}
	return false
}

// Team is one side of a lobby.
type Team struct {
	TeamID    int         `json:"teamId"`
	PlayerIDs []uuid.UUID `json:"playerIds"`
}

// Size returns the team's player count.
func (t Team) Size() int {
	return len(t.PlayerIDs)
}

// LobbyMetadata carries dispatch details and game-specific data.
type LobbyMetadata struct {
	QueueName string            `json:"queueName" gorm:"size:64"`
	GameMode  *string           `json:"gameMode"`
	Map       *string           `json:"map"`
	ServerID  *string           `json:"serverId"`
	Custom    datatypes.JSONMap `json:"custom" gorm:"type:jsonb"`
}

// Lobby groups matched players while they ready up and get dispatched to a
// game server.
type Lobby struct {
	ID           uuid.UUID     `json:"id" gorm:"type:uuid;primary_key"`
	MatchID      uuid.UUID     `json:"matchId" gorm:"type:uuid;not null;index"`
	State        LobbyState    `json:"state" gorm:"type:varchar(30);not null;default:'forming'"`
	Teams        []Team        `json:"teams" gorm:"serializer:json;type:jsonb;not null"`
	PlayerIDs    []uuid.UUID   `json:"playerIds" gorm:"serializer:json;type:jsonb;not null"`
	ReadyPlayers []uuid.UUID   `json:"readyPlayers" gorm:"serializer:json;type:jsonb"`
	CreatedAt    time.Time     `json:"createdAt"`
	Metadata     LobbyMetadata `json:"metadata" gorm:"embedded"`
}

// TableName returns the table name for GORM.
func (Lobby) TableName() string {
	return "lobbies"
}

// NewLobby builds a Forming lobby from pre-assembled teams.
func NewLobby(matchID uuid.UUID, teams []Team, metadata LobbyMetadata) Lobby {
	var players []uuid.UUID
	for _, t := range teams {
		players = append(players, t.PlayerIDs...)
	}
	return Lobby{
		ID:        uuid.New(),
		MatchID:   matchID,
		State:     LobbyStateForming,
		Teams:     teams,
		PlayerIDs: players,
		CreatedAt: time.Now().UTC(),
		Metadata:  metadata,
	}
}

// TransitionTo advances the state machine, rejecting edges outside the DAG.
func (l *Lobby) TransitionTo(next LobbyState) error {
	if !l.State.CanTransitionTo(next) {
		return ErrIllegalStateTransition
	}
	l.State = next
	return nil
}

// IsReady reports whether a player has already readied up.
func (l *Lobby) IsReady(playerID uuid.UUID) bool {
	for _, id := range l.ReadyPlayers {
		if id == playerID {
			return true
		}
	}
	return false
}

// HasPlayer reports whether a player belongs to the lobby.
func (l *Lobby) HasPlayer(playerID uuid.UUID) bool {
	for _, id := range l.PlayerIDs {
		if id == playerID {
			return true
		}
	}
	return false
}

// MarkReady records a ready signal. It is idempotent, and auto-advances to
// Ready once every player has readied up while the lobby is waiting. Ready
// signals in other states are accepted into the set without a transition so
// players can pre-ready.
func (l *Lobby) MarkReady(playerID uuid.UUID) error {
	if !l.HasPlayer(playerID) {
		return ErrPlayerNotInLobby
	}
	if !l.IsReady(playerID) {
		l.ReadyPlayers = append(l.ReadyPlayers, playerID)
	}
	if l.AllPlayersReady() && l.State == LobbyStateWaitingForReady {
		return l.TransitionTo(LobbyStateReady)
	}
	return nil
}

// AllPlayersReady reports whether every lobby member has readied up.
func (l *Lobby) AllPlayersReady() bool {
	return len(l.ReadyPlayers) == len(l.PlayerIDs)
}

// PlayerTeam returns the team index a player was assigned to, or -1.
func (l *Lobby) PlayerTeam(playerID uuid.UUID) int {
	for _, t := range l.Teams {
		for _, id := range t.PlayerIDs {
			if id == playerID {
				return t.TeamID
			}
		}
	}
	return -1
}
