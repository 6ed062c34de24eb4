package services

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDashboardStats(t *testing.T) {
	store := newFakeStore()
	store.addPlayer(1, true)
	store.addPlayer(1, true)
	store.addPlayer(2, false)
	official := store.addCompetition(true)
	store.addCompetition(false)
	store.addGame(1, 2, &official.ID)
	store.addGame(1, 2, nil)

	teamRepo := &fakeTeamRepo{store: store, teams: 4}
	service := NewDashboardService(
		&fakePlayerRepo{store: store},
		teamRepo,
		&fakeCompetitionRepo{store: store},
		&fakeGameRepo{store: store},
	)

	stats, err := service.GetStats(context.Background())
	require.NoError(t, err)

	assert.Equal(t, 3, stats.PlayersTotal)
	assert.Equal(t, 2, stats.PlayersRegistered)
	assert.Equal(t, 4, stats.TeamsTotal)
	assert.Equal(t, 2, stats.CompetitionsTotal)
	assert.Equal(t, 2, stats.GamesTotal)
	assert.Equal(t, 2, stats.GamesUpcoming)
	assert.Equal(t, 1, stats.OfficialGames)
}
