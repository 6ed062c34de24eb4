package services

import (
	"context"
	"errors"
	"testing"

	"github.com/korfside/club-system/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type registrationFixture struct {
	store            *fakeStore
	playerRepo       *fakePlayerRepo
	registrationRepo *fakeRegistrationRepo
	service          RegistrationService
}

func newRegistrationFixture() *registrationFixture {
	store := newFakeStore()
	playerRepo := &fakePlayerRepo{store: store}
	registrationRepo := &fakeRegistrationRepo{store: store}
	service := NewRegistrationService(registrationRepo, playerRepo, &fakeTxManager{store: store}, nil)
	return &registrationFixture{
		store:            store,
		playerRepo:       playerRepo,
		registrationRepo: registrationRepo,
		service:          service,
	}
}

func TestLinkPlayerFlipsRegistered(t *testing.T) {
	f := newRegistrationFixture()
	player := f.store.addPlayer(1, false)

	registration, err := f.service.LinkPlayer(context.Background(), LinkPlayerInput{
		PlayerID:  player.ID,
		TwizzitID: "TW-100",
	})
	require.NoError(t, err)
	assert.Equal(t, models.SyncStatusPending, registration.SyncStatus)

	stored := f.store.players[player.ID]
	assert.True(t, stored.Registered)
	require.NotNil(t, stored.VerifiedAt)
}

func TestLinkPlayerSecondMappingKeepsVerifiedAt(t *testing.T) {
	f := newRegistrationFixture()
	player := f.store.addPlayer(1, false)

	_, err := f.service.LinkPlayer(context.Background(), LinkPlayerInput{PlayerID: player.ID, TwizzitID: "TW-1"})
	require.NoError(t, err)
	firstVerifiedAt := *f.store.players[player.ID].VerifiedAt

	_, err = f.service.LinkPlayer(context.Background(), LinkPlayerInput{PlayerID: player.ID, TwizzitID: "TW-2"})
	require.NoError(t, err)

	stored := f.store.players[player.ID]
	assert.True(t, stored.Registered)
	assert.Equal(t, firstVerifiedAt, *stored.VerifiedAt)
}

func TestLinkPlayerDuplicateTwizzitID(t *testing.T) {
	f := newRegistrationFixture()
	player := f.store.addPlayer(1, false)
	other := f.store.addPlayer(1, false)

	_, err := f.service.LinkPlayer(context.Background(), LinkPlayerInput{PlayerID: player.ID, TwizzitID: "TW-1"})
	require.NoError(t, err)

	_, err = f.service.LinkPlayer(context.Background(), LinkPlayerInput{PlayerID: other.ID, TwizzitID: "TW-1"})
	assert.ErrorIs(t, err, ErrRegistrationConflict)
	assert.False(t, f.store.players[other.ID].Registered)
}

func TestLinkPlayerUnknownPlayer(t *testing.T) {
	f := newRegistrationFixture()

	_, err := f.service.LinkPlayer(context.Background(), LinkPlayerInput{PlayerID: 999, TwizzitID: "TW-1"})
	assert.ErrorIs(t, err, ErrPlayerNotFound)
}

func TestLinkPlayerMissingTwizzitID(t *testing.T) {
	f := newRegistrationFixture()
	player := f.store.addPlayer(1, false)

	_, err := f.service.LinkPlayer(context.Background(), LinkPlayerInput{PlayerID: player.ID})
	assert.ErrorIs(t, err, ErrValidationFailed)
}

func TestUnlinkLastMappingClearsFlag(t *testing.T) {
	f := newRegistrationFixture()
	player := f.store.addPlayer(1, false)

	registration, err := f.service.LinkPlayer(context.Background(), LinkPlayerInput{PlayerID: player.ID, TwizzitID: "TW-1"})
	require.NoError(t, err)

	require.NoError(t, f.service.UnlinkPlayer(context.Background(), registration.ID))

	stored := f.store.players[player.ID]
	assert.False(t, stored.Registered)
	assert.Nil(t, stored.VerifiedAt)
}

func TestUnlinkKeepsFlagWhileMappingsRemain(t *testing.T) {
	f := newRegistrationFixture()
	player := f.store.addPlayer(1, false)

	first, err := f.service.LinkPlayer(context.Background(), LinkPlayerInput{PlayerID: player.ID, TwizzitID: "TW-1"})
	require.NoError(t, err)
	_, err = f.service.LinkPlayer(context.Background(), LinkPlayerInput{PlayerID: player.ID, TwizzitID: "TW-2"})
	require.NoError(t, err)

	require.NoError(t, f.service.UnlinkPlayer(context.Background(), first.ID))
	assert.True(t, f.store.players[player.ID].Registered)

	remaining, err := f.service.ListPlayerRegistrations(context.Background(), player.ID)
	require.NoError(t, err)
	assert.Len(t, remaining, 1)
}

func TestUnlinkUnknownRegistration(t *testing.T) {
	f := newRegistrationFixture()

	err := f.service.UnlinkPlayer(context.Background(), 999)
	assert.ErrorIs(t, err, ErrRegistrationNotFound)
}

// The mapping write and the flag update commit together or not at all.
func TestLinkPlayerMappingFailureLeavesFlagUntouched(t *testing.T) {
	f := newRegistrationFixture()
	player := f.store.addPlayer(1, false)

	f.registrationRepo.createErr = errors.New("connection reset")
	_, err := f.service.LinkPlayer(context.Background(), LinkPlayerInput{PlayerID: player.ID, TwizzitID: "TW-1"})
	require.Error(t, err)

	stored := f.store.players[player.ID]
	assert.False(t, stored.Registered)
	assert.Nil(t, stored.VerifiedAt)
}

func TestLinkPlayerFlagFailureDropsMapping(t *testing.T) {
	f := newRegistrationFixture()
	player := f.store.addPlayer(1, false)

	f.playerRepo.updateStatusErr = errors.New("connection reset")
	_, err := f.service.LinkPlayer(context.Background(), LinkPlayerInput{PlayerID: player.ID, TwizzitID: "TW-1"})
	require.Error(t, err)

	assert.Empty(t, f.store.registrations)
	assert.False(t, f.store.players[player.ID].Registered)
}

func TestMarkSyncStatus(t *testing.T) {
	f := newRegistrationFixture()
	player := f.store.addPlayer(1, false)
	registration := f.store.addRegistration(player.ID, "TW-1", models.SyncStatusPending)

	require.NoError(t, f.service.MarkSyncStatus(context.Background(), registration.ID, models.SyncStatusSuccess))
	assert.Equal(t, models.SyncStatusSuccess, f.store.registrations[registration.ID].SyncStatus)

	err := f.service.MarkSyncStatus(context.Background(), registration.ID, "bogus")
	assert.ErrorIs(t, err, ErrValidationFailed)
}
