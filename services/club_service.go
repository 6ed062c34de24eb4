package services

import (
	"context"
	"errors"
	"fmt"
	"io"

	"github.com/google/uuid"
	"github.com/korfside/club-system/models"
	"github.com/korfside/club-system/repositories"
	"github.com/korfside/club-system/storage"
)

type ClubService interface {
	CreateClub(ctx context.Context, input ClubInput) (*models.Club, error)
	GetClubByID(ctx context.Context, id int) (*models.Club, error)
	ListClubs(ctx context.Context) ([]*models.Club, error)
	UpdateClub(ctx context.Context, id int, input ClubInput) (*models.Club, error)
	DeleteClub(ctx context.Context, id int) error
	UploadLogo(ctx context.Context, clubID int, contentType string, reader io.Reader) (*models.Club, error)
}

type ClubInput struct {
	Name           string  `json:"name"`
	TwizzitGroupID *string `json:"twizzit_group_id"`
}

type clubService struct {
	clubRepo repositories.ClubRepository
	teamRepo repositories.TeamRepository
	uploader storage.FileUploader
}

func NewClubService(clubRepo repositories.ClubRepository, teamRepo repositories.TeamRepository, uploader storage.FileUploader) ClubService {
	return &clubService{
		clubRepo: clubRepo,
		teamRepo: teamRepo,
		uploader: uploader,
	}
}

func (s *clubService) CreateClub(ctx context.Context, input ClubInput) (*models.Club, error) {
	if input.Name == "" {
		return nil, ErrClubNameRequired
	}

	club := &models.Club{Name: input.Name, TwizzitGroupID: input.TwizzitGroupID}
	if err := s.clubRepo.Create(ctx, club); err != nil {
		if errors.Is(err, repositories.ErrClubNameConflict) {
			return nil, ErrClubNameConflict
		}
		return nil, fmt.Errorf("failed to create club: %w", err)
	}
	return club, nil
}

func (s *clubService) GetClubByID(ctx context.Context, id int) (*models.Club, error) {
	club, err := s.clubRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repositories.ErrClubNotFound) {
			return nil, ErrClubNotFound
		}
		return nil, err
	}

	teams, err := s.teamRepo.ListByClub(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("failed to load teams for club %d: %w", id, err)
	}
	club.Teams = make([]models.Team, 0, len(teams))
	for _, team := range teams {
		club.Teams = append(club.Teams, *team)
	}

	s.populateLogoURL(club)
	return club, nil
}

func (s *clubService) ListClubs(ctx context.Context) ([]*models.Club, error) {
	clubs, err := s.clubRepo.List(ctx)
	if err != nil {
		return nil, err
	}
	for _, club := range clubs {
		s.populateLogoURL(club)
	}
	return clubs, nil
}

func (s *clubService) UpdateClub(ctx context.Context, id int, input ClubInput) (*models.Club, error) {
	if input.Name == "" {
		return nil, ErrClubNameRequired
	}

	club, err := s.clubRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repositories.ErrClubNotFound) {
			return nil, ErrClubNotFound
		}
		return nil, err
	}

	club.Name = input.Name
	club.TwizzitGroupID = input.TwizzitGroupID
	if err := s.clubRepo.Update(ctx, club); err != nil {
		switch {
		case errors.Is(err, repositories.ErrClubNotFound):
			return nil, ErrClubNotFound
		case errors.Is(err, repositories.ErrClubNameConflict):
			return nil, ErrClubNameConflict
		}
		return nil, fmt.Errorf("failed to update club %d: %w", id, err)
	}

	s.populateLogoURL(club)
	return club, nil
}

func (s *clubService) DeleteClub(ctx context.Context, id int) error {
	club, err := s.clubRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repositories.ErrClubNotFound) {
			return ErrClubNotFound
		}
		return err
	}

	if err := s.clubRepo.Delete(ctx, id); err != nil {
		if errors.Is(err, repositories.ErrClubNotFound) {
			return ErrClubNotFound
		}
		return err
	}

	// Best effort: the club row is already gone, a stale object in the
	// bucket is not worth failing the request over.
	if club.LogoKey != nil && s.uploader != nil {
		_ = s.uploader.Delete(ctx, *club.LogoKey)
	}
	return nil
}

func (s *clubService) UploadLogo(ctx context.Context, clubID int, contentType string, reader io.Reader) (*models.Club, error) {
	if s.uploader == nil {
		return nil, fmt.Errorf("%w: logo storage is not configured", ErrValidationFailed)
	}

	club, err := s.clubRepo.GetByID(ctx, clubID)
	if err != nil {
		if errors.Is(err, repositories.ErrClubNotFound) {
			return nil, ErrClubNotFound
		}
		return nil, err
	}

	key := fmt.Sprintf("clubs/%d/logo-%s", clubID, uuid.NewString())
	result, err := s.uploader.Upload(ctx, key, contentType, reader)
	if err != nil {
		return nil, fmt.Errorf("failed to upload logo for club %d: %w", clubID, err)
	}

	oldKey := club.LogoKey
	if err := s.clubRepo.UpdateLogoKey(ctx, clubID, &result.Key); err != nil {
		_ = s.uploader.Delete(ctx, result.Key)
		return nil, fmt.Errorf("failed to store logo key for club %d: %w", clubID, err)
	}
	if oldKey != nil {
		_ = s.uploader.Delete(ctx, *oldKey)
	}

	club.LogoKey = &result.Key
	s.populateLogoURL(club)
	return club, nil
}

func (s *clubService) populateLogoURL(club *models.Club) {
	if club.LogoKey == nil || s.uploader == nil {
		return
	}
	url := s.uploader.GetPublicURL(*club.LogoKey)
	if url != "" {
		club.LogoURL = &url
	}
}
