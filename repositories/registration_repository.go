package repositories

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/korfside/club-system/models"
	"github.com/lib/pq"
)

var (
	ErrRegistrationNotFound      = errors.New("twizzit registration not found")
	ErrRegistrationPlayerInvalid = errors.New("twizzit registration player conflict or invalid")
	ErrRegistrationIDConflict    = errors.New("twizzit registration id already linked")
)

// TwizzitRegistrationRepository stores the player ↔ Twizzit mapping rows.
// Create and Delete take an SQLExecutor because the registration service
// pairs them with the player flag update in one transaction.
type TwizzitRegistrationRepository interface {
	Create(ctx context.Context, exec SQLExecutor, registration *models.TwizzitRegistration) error
	GetByID(ctx context.Context, id int) (*models.TwizzitRegistration, error)
	GetByTwizzitID(ctx context.Context, twizzitID string) (*models.TwizzitRegistration, error)
	ListByPlayer(ctx context.Context, playerID int) ([]*models.TwizzitRegistration, error)
	ListByClub(ctx context.Context, clubID int) ([]*models.TwizzitRegistration, error)
	CountByPlayer(ctx context.Context, exec SQLExecutor, playerID int) (int, error)
	UpdateSyncStatus(ctx context.Context, id int, status models.RegistrationSyncStatus) error
	Delete(ctx context.Context, exec SQLExecutor, id int) error
}

type postgresTwizzitRegistrationRepository struct {
	db *sql.DB
}

func NewPostgresTwizzitRegistrationRepository(db *sql.DB) TwizzitRegistrationRepository {
	return &postgresTwizzitRegistrationRepository{db: db}
}

func (r *postgresTwizzitRegistrationRepository) getExecutor(exec SQLExecutor) SQLExecutor {
	if exec != nil {
		return exec
	}
	return r.db
}

func (r *postgresTwizzitRegistrationRepository) Create(ctx context.Context, exec SQLExecutor, registration *models.TwizzitRegistration) error {
	executor := r.getExecutor(exec)
	query := `
		INSERT INTO twizzit_registrations (player_id, twizzit_id, twizzit_name, sync_status)
		VALUES ($1, $2, $3, $4)
		RETURNING id, created_at`

	err := executor.QueryRowContext(ctx, query,
		registration.PlayerID,
		registration.TwizzitID,
		registration.TwizzitName,
		registration.SyncStatus,
	).Scan(&registration.ID, &registration.CreatedAt)
	if err != nil {
		if pqErr, ok := err.(*pq.Error); ok {
			switch pqErr.Code {
			case "23505": // unique_violation
				return ErrRegistrationIDConflict
			case "23503": // foreign_key_violation
				return ErrRegistrationPlayerInvalid
			}
		}
		return fmt.Errorf("failed to create twizzit registration: %w", err)
	}
	return nil
}

func (r *postgresTwizzitRegistrationRepository) GetByID(ctx context.Context, id int) (*models.TwizzitRegistration, error) {
	query := `
		SELECT id, player_id, twizzit_id, twizzit_name, sync_status, created_at
		FROM twizzit_registrations
		WHERE id = $1`

	var registration models.TwizzitRegistration
	err := r.db.QueryRowContext(ctx, query, id).Scan(
		&registration.ID,
		&registration.PlayerID,
		&registration.TwizzitID,
		&registration.TwizzitName,
		&registration.SyncStatus,
		&registration.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrRegistrationNotFound
		}
		return nil, fmt.Errorf("failed to get twizzit registration by id %d: %w", id, err)
	}
	return &registration, nil
}

func (r *postgresTwizzitRegistrationRepository) GetByTwizzitID(ctx context.Context, twizzitID string) (*models.TwizzitRegistration, error) {
	query := `
		SELECT id, player_id, twizzit_id, twizzit_name, sync_status, created_at
		FROM twizzit_registrations
		WHERE twizzit_id = $1`

	var registration models.TwizzitRegistration
	err := r.db.QueryRowContext(ctx, query, twizzitID).Scan(
		&registration.ID,
		&registration.PlayerID,
		&registration.TwizzitID,
		&registration.TwizzitName,
		&registration.SyncStatus,
		&registration.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrRegistrationNotFound
		}
		return nil, fmt.Errorf("failed to get twizzit registration by twizzit id %q: %w", twizzitID, err)
	}
	return &registration, nil
}

func (r *postgresTwizzitRegistrationRepository) ListByPlayer(ctx context.Context, playerID int) ([]*models.TwizzitRegistration, error) {
	query := `
		SELECT id, player_id, twizzit_id, twizzit_name, sync_status, created_at
		FROM twizzit_registrations
		WHERE player_id = $1
		ORDER BY created_at`

	rows, err := r.db.QueryContext(ctx, query, playerID)
	if err != nil {
		return nil, fmt.Errorf("failed to list twizzit registrations for player %d: %w", playerID, err)
	}
	defer rows.Close()

	return scanRegistrations(rows)
}

func (r *postgresTwizzitRegistrationRepository) ListByClub(ctx context.Context, clubID int) ([]*models.TwizzitRegistration, error) {
	query := `
		SELECT tr.id, tr.player_id, tr.twizzit_id, tr.twizzit_name, tr.sync_status, tr.created_at
		FROM twizzit_registrations tr
		JOIN players p ON tr.player_id = p.id
		WHERE p.club_id = $1
		ORDER BY tr.created_at`

	rows, err := r.db.QueryContext(ctx, query, clubID)
	if err != nil {
		return nil, fmt.Errorf("failed to list twizzit registrations for club %d: %w", clubID, err)
	}
	defer rows.Close()

	return scanRegistrations(rows)
}

func scanRegistrations(rows *sql.Rows) ([]*models.TwizzitRegistration, error) {
	registrations := make([]*models.TwizzitRegistration, 0)
	for rows.Next() {
		var registration models.TwizzitRegistration
		if err := rows.Scan(
			&registration.ID,
			&registration.PlayerID,
			&registration.TwizzitID,
			&registration.TwizzitName,
			&registration.SyncStatus,
			&registration.CreatedAt,
		); err != nil {
			return nil, fmt.Errorf("failed to scan twizzit registration: %w", err)
		}
		registrations = append(registrations, &registration)
	}
	return registrations, rows.Err()
}

func (r *postgresTwizzitRegistrationRepository) CountByPlayer(ctx context.Context, exec SQLExecutor, playerID int) (int, error) {
	executor := r.getExecutor(exec)

	var count int
	err := executor.QueryRowContext(ctx, `SELECT COUNT(*) FROM twizzit_registrations WHERE player_id = $1`, playerID).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("failed to count twizzit registrations for player %d: %w", playerID, err)
	}
	return count, nil
}

func (r *postgresTwizzitRegistrationRepository) UpdateSyncStatus(ctx context.Context, id int, status models.RegistrationSyncStatus) error {
	query := `UPDATE twizzit_registrations SET sync_status = $1 WHERE id = $2`

	result, err := r.db.ExecContext(ctx, query, status, id)
	if err != nil {
		return fmt.Errorf("failed to update sync status for twizzit registration %d: %w", id, err)
	}
	return checkAffectedRows(result, ErrRegistrationNotFound)
}

func (r *postgresTwizzitRegistrationRepository) Delete(ctx context.Context, exec SQLExecutor, id int) error {
	executor := r.getExecutor(exec)
	query := `DELETE FROM twizzit_registrations WHERE id = $1`

	result, err := executor.ExecContext(ctx, query, id)
	if err != nil {
		return fmt.Errorf("failed to delete twizzit registration %d: %w", id, err)
	}
	return checkAffectedRows(result, ErrRegistrationNotFound)
}
