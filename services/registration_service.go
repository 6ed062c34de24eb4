package services

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/korfside/club-system/db"
	"github.com/korfside/club-system/live"
	"github.com/korfside/club-system/models"
	"github.com/korfside/club-system/repositories"
)

// RegistrationService owns the player ↔ Twizzit mapping rows and the
// registered/verified_at projection on players. The projection is never
// written anywhere else: Player.Registered is true iff at least one
// mapping row exists, and the flag update always commits in the same
// transaction as the mapping write.
type RegistrationService interface {
	LinkPlayer(ctx context.Context, input LinkPlayerInput) (*models.TwizzitRegistration, error)
	UnlinkPlayer(ctx context.Context, registrationID int) error
	ListPlayerRegistrations(ctx context.Context, playerID int) ([]*models.TwizzitRegistration, error)
	MarkSyncStatus(ctx context.Context, registrationID int, status models.RegistrationSyncStatus) error
}

type LinkPlayerInput struct {
	PlayerID    int                           `json:"player_id"`
	TwizzitID   string                        `json:"twizzit_id"`
	TwizzitName string                        `json:"twizzit_name"`
	SyncStatus  models.RegistrationSyncStatus `json:"-"`
}

type registrationService struct {
	registrationRepo repositories.TwizzitRegistrationRepository
	playerRepo       repositories.PlayerRepository
	txManager        db.TxManager
	hub              *live.Hub

	// Mapping mutations for the same player must not interleave, or the
	// remaining-mappings count could be computed from a stale view.
	playerLocks playerLockSet
}

func NewRegistrationService(
	registrationRepo repositories.TwizzitRegistrationRepository,
	playerRepo repositories.PlayerRepository,
	txManager db.TxManager,
	hub *live.Hub,
) RegistrationService {
	return &registrationService{
		registrationRepo: registrationRepo,
		playerRepo:       playerRepo,
		txManager:        txManager,
		hub:              hub,
	}
}

func (s *registrationService) LinkPlayer(ctx context.Context, input LinkPlayerInput) (*models.TwizzitRegistration, error) {
	if input.TwizzitID == "" {
		return nil, fmt.Errorf("%w: twizzit_id is required", ErrValidationFailed)
	}

	unlock := s.playerLocks.lock(input.PlayerID)
	defer unlock()

	player, err := s.playerRepo.GetByID(ctx, input.PlayerID)
	if err != nil {
		if errors.Is(err, repositories.ErrPlayerNotFound) {
			return nil, ErrPlayerNotFound
		}
		return nil, fmt.Errorf("failed to load player %d: %w", input.PlayerID, err)
	}

	syncStatus := input.SyncStatus
	if syncStatus == "" {
		syncStatus = models.SyncStatusPending
	}
	registration := &models.TwizzitRegistration{
		PlayerID:    player.ID,
		TwizzitID:   input.TwizzitID,
		TwizzitName: input.TwizzitName,
		SyncStatus:  syncStatus,
	}

	flipped := false
	err = s.txManager.WithinTx(ctx, func(exec repositories.SQLExecutor) error {
		if err := s.registrationRepo.Create(ctx, exec, registration); err != nil {
			return err
		}
		if player.Registered {
			// Already registered via another mapping: the flag stays true
			// and verified_at keeps the moment of the original flip.
			return nil
		}
		now := time.Now().UTC()
		if err := s.playerRepo.UpdateRegistrationStatus(ctx, exec, player.ID, true, &now); err != nil {
			return err
		}
		player.Registered = true
		player.VerifiedAt = &now
		flipped = true
		return nil
	})
	if err != nil {
		switch {
		case errors.Is(err, repositories.ErrRegistrationIDConflict):
			return nil, ErrRegistrationConflict
		case errors.Is(err, repositories.ErrRegistrationPlayerInvalid):
			return nil, ErrPlayerNotFound
		}
		return nil, fmt.Errorf("failed to link player %d to twizzit registration: %w", player.ID, err)
	}

	if flipped {
		s.broadcastStatus(player)
	}
	return registration, nil
}

func (s *registrationService) UnlinkPlayer(ctx context.Context, registrationID int) error {
	registration, err := s.registrationRepo.GetByID(ctx, registrationID)
	if err != nil {
		if errors.Is(err, repositories.ErrRegistrationNotFound) {
			return ErrRegistrationNotFound
		}
		return fmt.Errorf("failed to load twizzit registration %d: %w", registrationID, err)
	}

	unlock := s.playerLocks.lock(registration.PlayerID)
	defer unlock()

	player, err := s.playerRepo.GetByID(ctx, registration.PlayerID)
	if err != nil {
		if errors.Is(err, repositories.ErrPlayerNotFound) {
			return ErrPlayerNotFound
		}
		return fmt.Errorf("failed to load player %d: %w", registration.PlayerID, err)
	}

	flipped := false
	err = s.txManager.WithinTx(ctx, func(exec repositories.SQLExecutor) error {
		if err := s.registrationRepo.Delete(ctx, exec, registration.ID); err != nil {
			return err
		}
		remaining, err := s.registrationRepo.CountByPlayer(ctx, exec, registration.PlayerID)
		if err != nil {
			return err
		}
		if remaining > 0 {
			// Another mapping still covers the player; the flag stays true.
			return nil
		}
		if err := s.playerRepo.UpdateRegistrationStatus(ctx, exec, registration.PlayerID, false, nil); err != nil {
			return err
		}
		player.Registered = false
		player.VerifiedAt = nil
		flipped = true
		return nil
	})
	if err != nil {
		if errors.Is(err, repositories.ErrRegistrationNotFound) {
			return ErrRegistrationNotFound
		}
		return fmt.Errorf("failed to unlink twizzit registration %d: %w", registrationID, err)
	}

	if flipped {
		s.broadcastStatus(player)
	}
	return nil
}

func (s *registrationService) ListPlayerRegistrations(ctx context.Context, playerID int) ([]*models.TwizzitRegistration, error) {
	if _, err := s.playerRepo.GetByID(ctx, playerID); err != nil {
		if errors.Is(err, repositories.ErrPlayerNotFound) {
			return nil, ErrPlayerNotFound
		}
		return nil, fmt.Errorf("failed to load player %d: %w", playerID, err)
	}
	return s.registrationRepo.ListByPlayer(ctx, playerID)
}

func (s *registrationService) MarkSyncStatus(ctx context.Context, registrationID int, status models.RegistrationSyncStatus) error {
	switch status {
	case models.SyncStatusPending, models.SyncStatusSuccess, models.SyncStatusFailed:
	default:
		return fmt.Errorf("%w: unknown sync status %q", ErrValidationFailed, status)
	}

	err := s.registrationRepo.UpdateSyncStatus(ctx, registrationID, status)
	if err != nil {
		if errors.Is(err, repositories.ErrRegistrationNotFound) {
			return ErrRegistrationNotFound
		}
		return fmt.Errorf("failed to mark sync status for twizzit registration %d: %w", registrationID, err)
	}
	return nil
}

func (s *registrationService) broadcastStatus(player *models.Player) {
	if s.hub == nil {
		return
	}
	s.hub.BroadcastToClub(player.ClubID, live.MessageRegistrationUpdated, map[string]interface{}{
		"player_id":   player.ID,
		"registered":  player.Registered,
		"verified_at": player.VerifiedAt,
	})
}

// playerLockSet hands out one mutex per player id. The zero value is ready
// to use.
type playerLockSet struct {
	mu    sync.Mutex
	locks map[int]*sync.Mutex
}

func (l *playerLockSet) lock(playerID int) (unlock func()) {
	l.mu.Lock()
	if l.locks == nil {
		l.locks = make(map[int]*sync.Mutex)
	}
	m, ok := l.locks[playerID]
	if !ok {
		m = &sync.Mutex{}
		l.locks[playerID] = m
	}
	l.mu.Unlock()

	m.Lock()
	return m.Unlock
}
