package services

import (
	"context"
	"errors"
	"fmt"

	"github.com/korfside/club-system/models"
	"github.com/korfside/club-system/repositories"
)

// TwizzitAdvisory is returned alongside a newly created player: creation
// never registers anyone, the Twizzit link has to happen separately before
// the player can appear on official match rosters.
const TwizzitAdvisory = "player is not registered in Twizzit yet; link a Twizzit registration before adding them to official match rosters"

type PlayerService interface {
	CreatePlayer(ctx context.Context, input PlayerInput) (*models.Player, error)
	GetPlayerByID(ctx context.Context, id int) (*models.Player, error)
	ListPlayersByClub(ctx context.Context, clubID int) ([]*models.Player, error)
	UpdatePlayer(ctx context.Context, id int, input PlayerInput) (*models.Player, error)
	DeletePlayer(ctx context.Context, id int) error
}

type PlayerInput struct {
	ClubID    int    `json:"club_id"`
	TeamID    *int   `json:"team_id"`
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
	Number    int    `json:"number"`
}

type playerService struct {
	playerRepo       repositories.PlayerRepository
	clubRepo         repositories.ClubRepository
	teamRepo         repositories.TeamRepository
	registrationRepo repositories.TwizzitRegistrationRepository
}

func NewPlayerService(
	playerRepo repositories.PlayerRepository,
	clubRepo repositories.ClubRepository,
	teamRepo repositories.TeamRepository,
	registrationRepo repositories.TwizzitRegistrationRepository,
) PlayerService {
	return &playerService{
		playerRepo:       playerRepo,
		clubRepo:         clubRepo,
		teamRepo:         teamRepo,
		registrationRepo: registrationRepo,
	}
}

func (s *playerService) CreatePlayer(ctx context.Context, input PlayerInput) (*models.Player, error) {
	if input.FirstName == "" || input.LastName == "" {
		return nil, ErrPlayerNameRequired
	}
	if _, err := s.clubRepo.GetByID(ctx, input.ClubID); err != nil {
		if errors.Is(err, repositories.ErrClubNotFound) {
			return nil, ErrClubNotFound
		}
		return nil, err
	}
	if input.TeamID != nil {
		team, err := s.teamRepo.GetByID(ctx, *input.TeamID)
		if err != nil {
			if errors.Is(err, repositories.ErrTeamNotFound) {
				return nil, ErrTeamNotFound
			}
			return nil, err
		}
		if team.ClubID != input.ClubID {
			return nil, fmt.Errorf("%w: team %d belongs to another club", ErrValidationFailed, *input.TeamID)
		}
	}

	player := &models.Player{
		ClubID:    input.ClubID,
		TeamID:    input.TeamID,
		FirstName: input.FirstName,
		LastName:  input.LastName,
		Number:    input.Number,
	}
	if err := s.playerRepo.Create(ctx, player); err != nil {
		switch {
		case errors.Is(err, repositories.ErrPlayerClubInvalid):
			return nil, ErrClubNotFound
		case errors.Is(err, repositories.ErrPlayerTeamInvalid):
			return nil, ErrTeamNotFound
		}
		return nil, fmt.Errorf("failed to create player: %w", err)
	}
	return player, nil
}

func (s *playerService) GetPlayerByID(ctx context.Context, id int) (*models.Player, error) {
	player, err := s.playerRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repositories.ErrPlayerNotFound) {
			return nil, ErrPlayerNotFound
		}
		return nil, err
	}

	registrations, err := s.registrationRepo.ListByPlayer(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("failed to load twizzit registrations for player %d: %w", id, err)
	}
	player.Registrations = make([]models.TwizzitRegistration, 0, len(registrations))
	for _, registration := range registrations {
		player.Registrations = append(player.Registrations, *registration)
	}
	return player, nil
}

func (s *playerService) ListPlayersByClub(ctx context.Context, clubID int) ([]*models.Player, error) {
	if _, err := s.clubRepo.GetByID(ctx, clubID); err != nil {
		if errors.Is(err, repositories.ErrClubNotFound) {
			return nil, ErrClubNotFound
		}
		return nil, err
	}
	return s.playerRepo.ListByClub(ctx, clubID)
}

// UpdatePlayer edits identity fields only. The registered flag and
// verified_at are owned by the registration service and are not touched
// here regardless of input.
func (s *playerService) UpdatePlayer(ctx context.Context, id int, input PlayerInput) (*models.Player, error) {
	if input.FirstName == "" || input.LastName == "" {
		return nil, ErrPlayerNameRequired
	}

	player, err := s.playerRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repositories.ErrPlayerNotFound) {
			return nil, ErrPlayerNotFound
		}
		return nil, err
	}

	if input.TeamID != nil {
		team, err := s.teamRepo.GetByID(ctx, *input.TeamID)
		if err != nil {
			if errors.Is(err, repositories.ErrTeamNotFound) {
				return nil, ErrTeamNotFound
			}
			return nil, err
		}
		if team.ClubID != player.ClubID {
			return nil, fmt.Errorf("%w: team %d belongs to another club", ErrValidationFailed, *input.TeamID)
		}
	}

	player.TeamID = input.TeamID
	player.FirstName = input.FirstName
	player.LastName = input.LastName
	player.Number = input.Number
	if err := s.playerRepo.Update(ctx, player); err != nil {
		switch {
		case errors.Is(err, repositories.ErrPlayerNotFound):
			return nil, ErrPlayerNotFound
		case errors.Is(err, repositories.ErrPlayerTeamInvalid):
			return nil, ErrTeamNotFound
		}
		return nil, fmt.Errorf("failed to update player %d: %w", id, err)
	}
	return player, nil
}

func (s *playerService) DeletePlayer(ctx context.Context, id int) error {
	err := s.playerRepo.Delete(ctx, id)
	if err != nil {
		switch {
		case errors.Is(err, repositories.ErrPlayerNotFound):
			return ErrPlayerNotFound
		case errors.Is(err, repositories.ErrPlayerInUse):
			return ErrPlayerHasRosterEntries
		}
		return err
	}
	return nil
}
