package services

import (
	"context"
	"errors"
	"fmt"

	"github.com/korfside/club-system/models"
	"github.com/korfside/club-system/repositories"
)

type CompetitionService interface {
	CreateCompetition(ctx context.Context, input CompetitionInput) (*models.Competition, error)
	GetCompetitionByID(ctx context.Context, id int) (*models.Competition, error)
	ListCompetitions(ctx context.Context) ([]*models.Competition, error)
	UpdateCompetition(ctx context.Context, id int, input CompetitionInput) (*models.Competition, error)
	DeleteCompetition(ctx context.Context, id int) error
}

type CompetitionInput struct {
	Name       string `json:"name"`
	Season     string `json:"season"`
	IsOfficial bool   `json:"is_official"`
}

type competitionService struct {
	competitionRepo repositories.CompetitionRepository
}

func NewCompetitionService(competitionRepo repositories.CompetitionRepository) CompetitionService {
	return &competitionService{competitionRepo: competitionRepo}
}

func (s *competitionService) CreateCompetition(ctx context.Context, input CompetitionInput) (*models.Competition, error) {
	if input.Name == "" {
		return nil, fmt.Errorf("%w: competition name is required", ErrValidationFailed)
	}

	competition := &models.Competition{
		Name:       input.Name,
		Season:     input.Season,
		IsOfficial: input.IsOfficial,
	}
	if err := s.competitionRepo.Create(ctx, competition); err != nil {
		if errors.Is(err, repositories.ErrCompetitionNameConflict) {
			return nil, ErrCompetitionNameConflict
		}
		return nil, fmt.Errorf("failed to create competition: %w", err)
	}
	return competition, nil
}

func (s *competitionService) GetCompetitionByID(ctx context.Context, id int) (*models.Competition, error) {
	competition, err := s.competitionRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repositories.ErrCompetitionNotFound) {
			return nil, ErrCompetitionNotFound
		}
		return nil, err
	}
	return competition, nil
}

func (s *competitionService) ListCompetitions(ctx context.Context) ([]*models.Competition, error) {
	return s.competitionRepo.List(ctx)
}

// UpdateCompetition may flip is_official. Rosters already submitted are not
// re-evaluated; the rule applies at submission time only.
func (s *competitionService) UpdateCompetition(ctx context.Context, id int, input CompetitionInput) (*models.Competition, error) {
	if input.Name == "" {
		return nil, fmt.Errorf("%w: competition name is required", ErrValidationFailed)
	}

	competition, err := s.competitionRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repositories.ErrCompetitionNotFound) {
			return nil, ErrCompetitionNotFound
		}
		return nil, err
	}

	competition.Name = input.Name
	competition.Season = input.Season
	competition.IsOfficial = input.IsOfficial
	if err := s.competitionRepo.Update(ctx, competition); err != nil {
		switch {
		case errors.Is(err, repositories.ErrCompetitionNotFound):
			return nil, ErrCompetitionNotFound
		case errors.Is(err, repositories.ErrCompetitionNameConflict):
			return nil, ErrCompetitionNameConflict
		}
		return nil, fmt.Errorf("failed to update competition %d: %w", id, err)
	}
	return competition, nil
}

func (s *competitionService) DeleteCompetition(ctx context.Context, id int) error {
	err := s.competitionRepo.Delete(ctx, id)
	if errors.Is(err, repositories.ErrCompetitionNotFound) {
		return ErrCompetitionNotFound
	}
	return err
}
