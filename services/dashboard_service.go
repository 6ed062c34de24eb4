package services

import (
	"context"
	"fmt"

	"github.com/korfside/club-system/models"
	"github.com/korfside/club-system/repositories"
	"golang.org/x/sync/errgroup"
)

type DashboardService interface {
	GetStats(ctx context.Context) (*models.DashboardStats, error)
}

type dashboardService struct {
	playerRepo      repositories.PlayerRepository
	teamRepo        repositories.TeamRepository
	competitionRepo repositories.CompetitionRepository
	gameRepo        repositories.GameRepository
}

func NewDashboardService(
	playerRepo repositories.PlayerRepository,
	teamRepo repositories.TeamRepository,
	competitionRepo repositories.CompetitionRepository,
	gameRepo repositories.GameRepository,
) DashboardService {
	return &dashboardService{
		playerRepo:      playerRepo,
		teamRepo:        teamRepo,
		competitionRepo: competitionRepo,
		gameRepo:        gameRepo,
	}
}

// GetStats runs the counts concurrently. Any failing count fails the whole
// request; a dashboard with silently zeroed panels is worse than an error.
func (s *dashboardService) GetStats(ctx context.Context) (*models.DashboardStats, error) {
	stats := &models.DashboardStats{}
	registered := true

	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		count, err := s.playerRepo.Count(ctx, nil)
		if err != nil {
			return fmt.Errorf("count players: %w", err)
		}
		stats.PlayersTotal = count
		return nil
	})
	g.Go(func() error {
		count, err := s.playerRepo.Count(ctx, &registered)
		if err != nil {
			return fmt.Errorf("count registered players: %w", err)
		}
		stats.PlayersRegistered = count
		return nil
	})
	g.Go(func() error {
		count, err := s.teamRepo.Count(ctx)
		if err != nil {
			return fmt.Errorf("count teams: %w", err)
		}
		stats.TeamsTotal = count
		return nil
	})
	g.Go(func() error {
		count, err := s.competitionRepo.Count(ctx)
		if err != nil {
			return fmt.Errorf("count competitions: %w", err)
		}
		stats.CompetitionsTotal = count
		return nil
	})
	g.Go(func() error {
		count, err := s.gameRepo.Count(ctx)
		if err != nil {
			return fmt.Errorf("count games: %w", err)
		}
		stats.GamesTotal = count
		return nil
	})
	g.Go(func() error {
		count, err := s.gameRepo.CountUpcoming(ctx)
		if err != nil {
			return fmt.Errorf("count upcoming games: %w", err)
		}
		stats.GamesUpcoming = count
		return nil
	})
	g.Go(func() error {
		count, err := s.gameRepo.CountOfficial(ctx)
		if err != nil {
			return fmt.Errorf("count official games: %w", err)
		}
		stats.OfficialGames = count
		return nil
	})

	if err := g.Wait(); err != nil {
		return nil, err
	}
	return stats, nil
}
