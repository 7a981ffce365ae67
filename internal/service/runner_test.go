package service_test

import (
	"context"
	"testing"

	"github.com/colerae/matchbox/internal/domain"
	"github.com/colerae/matchbox/internal/mmr"
	"github.com/colerae/matchbox/internal/repository"
	"github.com/colerae/matchbox/internal/service"
	"github.com/colerae/matchbox/internal/testutil"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type runnerFixture struct {
	repos    *repository.Repositories
	queueSvc *service.QueueService
	lobbySvc *service.LobbyService
}

func newRunnerFixture(t *testing.T, configs ...domain.QueueConfig) runnerFixture {
	t.Helper()
	repos := testutil.NewRepositories(t)
	queueSvc := service.NewQueueService(repos.QueueEntry)
	for _, config := range configs {
		require.NoError(t, queueSvc.RegisterQueue(context.Background(), config))
	}
	return runnerFixture{
		repos:    repos,
		queueSvc: queueSvc,
		lobbySvc: service.NewLobbyService(repos, mmr.DefaultElo()),
	}
}

func (f runnerFixture) fillQueue(t *testing.T, queueName string, players int) {
	t.Helper()
	ctx := context.Background()
	for i := 0; i < players; i++ {
		_, err := f.queueSvc.JoinSolo(ctx, queueName, uuid.New(), domain.DefaultBeginnerRating(), domain.EntryMetadata{})
		require.NoError(t, err)
	}
}

func (f runnerFixture) lobbies(t *testing.T) []domain.Lobby {
	t.Helper()
	store, ok := f.repos.Lobby.(interface{ Lobbies() []domain.Lobby })
	require.True(t, ok)
	return store.Lobbies()
}

func TestRunner_TickFormsLobbies(t *testing.T) {
	f := newRunnerFixture(t, testutil.QueueConfig1v1("duel"))
	f.fillQueue(t, "duel", 4)

	runner := service.NewRunner(service.DefaultRunnerConfig(), f.queueSvc, f.lobbySvc)
	runner.Tick(context.Background())

	size, err := f.queueSvc.QueueSize("duel")
	require.NoError(t, err)
	assert.Equal(t, 0, size)

	lobbies := f.lobbies(t)
	require.Len(t, lobbies, 2)
	for _, lobby := range lobbies {
		assert.Equal(t, domain.LobbyStateWaitingForReady, lobby.State)
		assert.Equal(t, "duel", lobby.Metadata.QueueName)
		assert.Len(t, lobby.PlayerIDs, 2)
	}
}

func TestRunner_TickWithAutoDispatch(t *testing.T) {
	f := newRunnerFixture(t, testutil.QueueConfig1v1("duel"))
	f.fillQueue(t, "duel", 2)

	config := service.DefaultRunnerConfig()
	config.AutoDispatch = true
	runner := service.NewRunner(config, f.queueSvc, f.lobbySvc)
	runner.Tick(context.Background())

	lobbies := f.lobbies(t)
	require.Len(t, lobbies, 1)
	assert.Equal(t, domain.LobbyStateDispatched, lobbies[0].State)
	assert.True(t, lobbies[0].AllPlayersReady())
}

func TestRunner_TickLeavesPartialQueues(t *testing.T) {
	f := newRunnerFixture(t, testutil.QueueConfig2v2("ranked"))
	f.fillQueue(t, "ranked", 3)

	runner := service.NewRunner(service.DefaultRunnerConfig(), f.queueSvc, f.lobbySvc)
	runner.Tick(context.Background())

	// Three players cannot fill a 2v2; everyone keeps waiting.
	size, err := f.queueSvc.QueueSize("ranked")
	require.NoError(t, err)
	assert.Equal(t, 3, size)
	assert.Empty(t, f.lobbies(t))
}

func TestRunner_MaxMatchesPerTick(t *testing.T) {
	f := newRunnerFixture(t, testutil.QueueConfig1v1("duel"))
	f.fillQueue(t, "duel", 6)

	config := service.DefaultRunnerConfig()
	config.MaxMatchesPerTick = 2
	runner := service.NewRunner(config, f.queueSvc, f.lobbySvc)
	runner.Tick(context.Background())

	assert.Len(t, f.lobbies(t), 2)
	size, err := f.queueSvc.QueueSize("duel")
	require.NoError(t, err)
	assert.Equal(t, 2, size)

	// The leftovers match on the next tick.
	runner.Tick(context.Background())
	assert.Len(t, f.lobbies(t), 3)
}

func TestRunner_PerQueueCapAndDisable(t *testing.T) {
	f := newRunnerFixture(t, testutil.QueueConfig1v1("duel"), testutil.QueueConfig1v1("casual"))
	f.fillQueue(t, "duel", 6)
	f.fillQueue(t, "casual", 2)

	config := service.DefaultRunnerConfig()
	config.Queues = map[string]service.QueueRunnerConfig{
		"duel":   {Enabled: true, MaxConcurrentMatches: 1},
		"casual": {Enabled: false},
	}
	runner := service.NewRunner(config, f.queueSvc, f.lobbySvc)
	runner.Tick(context.Background())

	lobbies := f.lobbies(t)
	require.Len(t, lobbies, 1)
	assert.Equal(t, "duel", lobbies[0].Metadata.QueueName)

	// The disabled queue is untouched.
	size, err := f.queueSvc.QueueSize("casual")
	require.NoError(t, err)
	assert.Equal(t, 2, size)
}

func TestRunner_StartStop(t *testing.T) {
	f := newRunnerFixture(t, testutil.QueueConfig1v1("duel"))

	runner := service.NewRunner(service.FastRunnerConfig(), f.queueSvc, f.lobbySvc)
	assert.False(t, runner.IsRunning())

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	require.NoError(t, runner.Start(ctx))
	assert.True(t, runner.IsRunning())

	err := runner.Start(ctx)
	assert.ErrorIs(t, err, domain.ErrRunnerAlreadyRunning)

	runner.Stop()
	assert.False(t, runner.IsRunning())

	// A stopped runner can be restarted.
	require.NoError(t, runner.Start(ctx))
	runner.Stop()
}
