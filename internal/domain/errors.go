package domain

import "errors"

// Queue errors
var (
	ErrQueueNotFound  = errors.New("queue not found")
	ErrDuplicateQueue = errors.New("queue already registered")
	ErrAlreadyInQueue = errors.New("player is already in a queue")
	ErrNotInQueue     = errors.New("player is not in queue")
)

// Party errors
var (
	ErrPartyNotFound      = errors.New("party not found")
	ErrPartyFull          = errors.New("party is full")
	ErrAlreadyInParty     = errors.New("player is already in a party")
	ErrAlreadyPartyMember = errors.New("player is already a member of this party")
	ErrNotPartyMember     = errors.New("player is not a member of this party")
)

// Lobby errors
var (
	ErrLobbyNotFound          = errors.New("lobby not found")
	ErrPlayerNotInLobby       = errors.New("player is not in lobby")
	ErrIllegalStateTransition = errors.New("illegal lobby state transition")
)

// Engine errors
var (
	ErrRunnerAlreadyRunning = errors.New("runner is already running")
	ErrInvalidConfiguration = errors.New("invalid configuration")
)
