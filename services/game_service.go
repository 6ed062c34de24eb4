package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/korfside/club-system/models"
	"github.com/korfside/club-system/repositories"
)

type GameService interface {
	CreateGame(ctx context.Context, input GameInput) (*models.Game, error)
	GetGameByID(ctx context.Context, id int) (*models.Game, error)
	ListGames(ctx context.Context, filter repositories.GameFilter) ([]*models.Game, error)
	UpdateGame(ctx context.Context, id int, input GameInput) (*models.Game, error)
	UpdateGameStatus(ctx context.Context, id int, status models.GameStatus) error
	DeleteGame(ctx context.Context, id int) error
}

type GameInput struct {
	HomeClubID    int       `json:"home_club_id"`
	AwayClubID    int       `json:"away_club_id"`
	CompetitionID *int      `json:"competition_id"`
	GameTime      time.Time `json:"game_time"`
	Location      *string   `json:"location"`
}

type gameService struct {
	gameRepo        repositories.GameRepository
	clubRepo        repositories.ClubRepository
	competitionRepo repositories.CompetitionRepository
}

func NewGameService(
	gameRepo repositories.GameRepository,
	clubRepo repositories.ClubRepository,
	competitionRepo repositories.CompetitionRepository,
) GameService {
	return &gameService{
		gameRepo:        gameRepo,
		clubRepo:        clubRepo,
		competitionRepo: competitionRepo,
	}
}

func (s *gameService) CreateGame(ctx context.Context, input GameInput) (*models.Game, error) {
	if err := s.validateReferences(ctx, input); err != nil {
		return nil, err
	}

	game := &models.Game{
		HomeClubID:    input.HomeClubID,
		AwayClubID:    input.AwayClubID,
		CompetitionID: input.CompetitionID,
		GameTime:      input.GameTime,
		Location:      input.Location,
		Status:        models.GameStatusScheduled,
	}
	if err := s.gameRepo.Create(ctx, game); err != nil {
		switch {
		case errors.Is(err, repositories.ErrGameClubInvalid):
			return nil, ErrClubNotFound
		case errors.Is(err, repositories.ErrGameCompetitionInvalid):
			return nil, ErrCompetitionNotFound
		}
		return nil, fmt.Errorf("failed to create game: %w", err)
	}
	return game, nil
}

func (s *gameService) GetGameByID(ctx context.Context, id int) (*models.Game, error) {
	game, err := s.gameRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repositories.ErrGameNotFound) {
			return nil, ErrGameNotFound
		}
		return nil, err
	}
	if game.CompetitionID != nil {
		competition, err := s.competitionRepo.GetByID(ctx, *game.CompetitionID)
		if err != nil && !errors.Is(err, repositories.ErrCompetitionNotFound) {
			return nil, fmt.Errorf("failed to load competition %d: %w", *game.CompetitionID, err)
		}
		game.Competition = competition
	}
	return game, nil
}

func (s *gameService) ListGames(ctx context.Context, filter repositories.GameFilter) ([]*models.Game, error) {
	return s.gameRepo.List(ctx, filter)
}

func (s *gameService) UpdateGame(ctx context.Context, id int, input GameInput) (*models.Game, error) {
	game, err := s.gameRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repositories.ErrGameNotFound) {
			return nil, ErrGameNotFound
		}
		return nil, err
	}

	if err := s.validateReferences(ctx, input); err != nil {
		return nil, err
	}

	game.HomeClubID = input.HomeClubID
	game.AwayClubID = input.AwayClubID
	game.CompetitionID = input.CompetitionID
	game.GameTime = input.GameTime
	game.Location = input.Location
	if err := s.gameRepo.Update(ctx, game); err != nil {
		switch {
		case errors.Is(err, repositories.ErrGameNotFound):
			return nil, ErrGameNotFound
		case errors.Is(err, repositories.ErrGameClubInvalid):
			return nil, ErrClubNotFound
		case errors.Is(err, repositories.ErrGameCompetitionInvalid):
			return nil, ErrCompetitionNotFound
		}
		return nil, fmt.Errorf("failed to update game %d: %w", id, err)
	}
	return game, nil
}

func (s *gameService) UpdateGameStatus(ctx context.Context, id int, status models.GameStatus) error {
	switch status {
	case models.GameStatusScheduled, models.GameStatusPlayed, models.GameStatusCanceled:
	default:
		return fmt.Errorf("%w: unknown game status %q", ErrValidationFailed, status)
	}

	err := s.gameRepo.UpdateStatus(ctx, id, status)
	if errors.Is(err, repositories.ErrGameNotFound) {
		return ErrGameNotFound
	}
	return err
}

func (s *gameService) DeleteGame(ctx context.Context, id int) error {
	err := s.gameRepo.Delete(ctx, id)
	if errors.Is(err, repositories.ErrGameNotFound) {
		return ErrGameNotFound
	}
	return err
}

func (s *gameService) validateReferences(ctx context.Context, input GameInput) error {
	if input.HomeClubID == input.AwayClubID {
		return ErrSameClubGame
	}
	for _, clubID := range []int{input.HomeClubID, input.AwayClubID} {
		if _, err := s.clubRepo.GetByID(ctx, clubID); err != nil {
			if errors.Is(err, repositories.ErrClubNotFound) {
				return fmt.Errorf("%w: club %d", ErrClubNotFound, clubID)
			}
			return err
		}
	}
	if input.CompetitionID != nil {
		if _, err := s.competitionRepo.GetByID(ctx, *input.CompetitionID); err != nil {
			if errors.Is(err, repositories.ErrCompetitionNotFound) {
				return ErrCompetitionNotFound
			}
			return err
		}
	}
	return nil
}
