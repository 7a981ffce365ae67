package service_test

import (
	"context"
	"testing"

	"github.com/colerae/matchbox/internal/domain"
	"github.com/colerae/matchbox/internal/mmr"
	"github.com/colerae/matchbox/internal/service"
	"github.com/colerae/matchbox/internal/testutil"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newPartyService(t *testing.T) *service.PartyService {
	t.Helper()
	repos := testutil.NewRepositories(t)
	return service.NewPartyService(repos.Party, repos.PlayerRating, mmr.AveragePolicy{})
}

func TestPartyService_Create(t *testing.T) {
	svc := newPartyService(t)
	ctx := context.Background()
	leaderID := uuid.New()

	party, err := svc.Create(ctx, leaderID, 5)
	require.NoError(t, err)
	assert.Equal(t, leaderID, party.LeaderID)
	assert.Equal(t, []uuid.UUID{leaderID}, party.MemberIDs)

	// A player already leading a party cannot start another.
	_, err = svc.Create(ctx, leaderID, 5)
	assert.ErrorIs(t, err, domain.ErrAlreadyInParty)

	_, err = svc.Create(ctx, uuid.New(), 0)
	assert.ErrorIs(t, err, domain.ErrInvalidConfiguration)
}

func TestPartyService_AddMember(t *testing.T) {
	svc := newPartyService(t)
	ctx := context.Background()

	party, err := svc.Create(ctx, uuid.New(), 2)
	require.NoError(t, err)

	memberID := uuid.New()
	require.NoError(t, svc.AddMember(ctx, party.ID, memberID))

	err = svc.AddMember(ctx, party.ID, memberID)
	assert.ErrorIs(t, err, domain.ErrAlreadyPartyMember)

	// The idempotent variant accepts the duplicate.
	assert.NoError(t, svc.AddMemberIdempotent(ctx, party.ID, memberID))

	err = svc.AddMember(ctx, party.ID, uuid.New())
	assert.ErrorIs(t, err, domain.ErrPartyFull)

	err = svc.AddMember(ctx, uuid.New(), uuid.New())
	assert.ErrorIs(t, err, domain.ErrPartyNotFound)

	// A member of one party cannot join another.
	other, err := svc.Create(ctx, uuid.New(), 5)
	require.NoError(t, err)
	err = svc.AddMember(ctx, other.ID, memberID)
	assert.ErrorIs(t, err, domain.ErrAlreadyInParty)
}

func TestPartyService_RemoveMember(t *testing.T) {
	svc := newPartyService(t)
	ctx := context.Background()
	leaderID := uuid.New()

	party, err := svc.Create(ctx, leaderID, 5)
	require.NoError(t, err)
	memberID := uuid.New()
	require.NoError(t, svc.AddMember(ctx, party.ID, memberID))

	err = svc.RemoveMember(ctx, party.ID, uuid.New())
	assert.ErrorIs(t, err, domain.ErrNotPartyMember)

	require.NoError(t, svc.RemoveMember(ctx, party.ID, memberID))
	got, err := svc.Party(party.ID)
	require.NoError(t, err)
	assert.Equal(t, []uuid.UUID{leaderID}, got.MemberIDs)

	// Removed members are free to start their own party.
	_, err = svc.Create(ctx, memberID, 2)
	assert.NoError(t, err)
}

func TestPartyService_LeaderLeavingDisbands(t *testing.T) {
	svc := newPartyService(t)
	ctx := context.Background()
	leaderID := uuid.New()
	memberID := uuid.New()

	party, err := svc.Create(ctx, leaderID, 5)
	require.NoError(t, err)
	require.NoError(t, svc.AddMember(ctx, party.ID, memberID))

	require.NoError(t, svc.RemoveMember(ctx, party.ID, leaderID))

	_, err = svc.Party(party.ID)
	assert.ErrorIs(t, err, domain.ErrPartyNotFound)

	// Disbanding frees every member, not just the leaver.
	_, found := svc.PlayerParty(memberID)
	assert.False(t, found)
	_, err = svc.Create(ctx, memberID, 2)
	assert.NoError(t, err)
}

func TestPartyService_PartyRating(t *testing.T) {
	repos := testutil.NewRepositories(t)
	svc := service.NewPartyService(repos.Party, repos.PlayerRating, mmr.AveragePolicy{})
	ctx := context.Background()

	leaderID := uuid.New()
	memberID := uuid.New()
	require.NoError(t, repos.PlayerRating.Save(ctx, leaderID, domain.NewRating(1800, 100, 0.06)))
	// memberID has no stored rating and counts as a default beginner.

	party, err := svc.Create(ctx, leaderID, 5)
	require.NoError(t, err)
	require.NoError(t, svc.AddMember(ctx, party.ID, memberID))

	rating, err := svc.PartyRating(ctx, party.ID)
	require.NoError(t, err)
	assert.InDelta(t, 1650, rating.Rating, 1e-9)

	_, err = svc.PartyRating(ctx, uuid.New())
	assert.ErrorIs(t, err, domain.ErrPartyNotFound)
}
