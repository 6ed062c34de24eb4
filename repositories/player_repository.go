package repositories

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/korfside/club-system/models"
	"github.com/lib/pq"
)

var (
	ErrPlayerNotFound    = errors.New("player not found")
	ErrPlayerClubInvalid = errors.New("player club conflict or invalid")
	ErrPlayerTeamInvalid = errors.New("player team conflict or invalid")
	// Raised when a delete is blocked by roster rows referencing the player.
	ErrPlayerInUse = errors.New("player is referenced by game rosters")
)

type PlayerRepository interface {
	Create(ctx context.Context, player *models.Player) error
	GetByID(ctx context.Context, id int) (*models.Player, error)
	ListByIDs(ctx context.Context, ids []int) ([]*models.Player, error)
	ListByClub(ctx context.Context, clubID int) ([]*models.Player, error)
	ListByTeam(ctx context.Context, teamID int) ([]*models.Player, error)
	Update(ctx context.Context, player *models.Player) error
	Delete(ctx context.Context, id int) error
	Count(ctx context.Context, registered *bool) (int, error)

	// UpdateRegistrationStatus writes the registered/verified_at projection.
	// Only the registration service may call it, inside the same transaction
	// as the mapping write that triggered the change.
	UpdateRegistrationStatus(ctx context.Context, exec SQLExecutor, playerID int, registered bool, verifiedAt *time.Time) error
}

type postgresPlayerRepository struct {
	db *sql.DB
}

func NewPostgresPlayerRepository(db *sql.DB) PlayerRepository {
	return &postgresPlayerRepository{db: db}
}

func (r *postgresPlayerRepository) getExecutor(exec SQLExecutor) SQLExecutor {
	if exec != nil {
		return exec
	}
	return r.db
}

func (r *postgresPlayerRepository) Create(ctx context.Context, player *models.Player) error {
	// registered and verified_at keep their column defaults (false / NULL);
	// a new player is never registered.
	query := `
		INSERT INTO players (club_id, team_id, first_name, last_name, number)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id, registered, verified_at, created_at`

	err := r.db.QueryRowContext(ctx, query,
		player.ClubID,
		player.TeamID,
		player.FirstName,
		player.LastName,
		player.Number,
	).Scan(&player.ID, &player.Registered, &player.VerifiedAt, &player.CreatedAt)
	if err != nil {
		if pqErr, ok := err.(*pq.Error); ok && pqErr.Code == "23503" {
			if pqErr.Constraint == "players_team_id_fkey" {
				return ErrPlayerTeamInvalid
			}
			return ErrPlayerClubInvalid
		}
		return fmt.Errorf("failed to create player: %w", err)
	}
	return nil
}

func (r *postgresPlayerRepository) GetByID(ctx context.Context, id int) (*models.Player, error) {
	query := `
		SELECT id, club_id, team_id, first_name, last_name, number, registered, verified_at, created_at
		FROM players
		WHERE id = $1`

	var player models.Player
	err := r.db.QueryRowContext(ctx, query, id).Scan(
		&player.ID,
		&player.ClubID,
		&player.TeamID,
		&player.FirstName,
		&player.LastName,
		&player.Number,
		&player.Registered,
		&player.VerifiedAt,
		&player.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrPlayerNotFound
		}
		return nil, fmt.Errorf("failed to get player by id %d: %w", id, err)
	}
	return &player, nil
}

func (r *postgresPlayerRepository) ListByIDs(ctx context.Context, ids []int) ([]*models.Player, error) {
	if len(ids) == 0 {
		return []*models.Player{}, nil
	}

	query := `
		SELECT id, club_id, team_id, first_name, last_name, number, registered, verified_at, created_at
		FROM players
		WHERE id = ANY($1)`

	rows, err := r.db.QueryContext(ctx, query, pq.Array(ids))
	if err != nil {
		return nil, fmt.Errorf("failed to list players by ids: %w", err)
	}
	defer rows.Close()

	return scanPlayers(rows)
}

func (r *postgresPlayerRepository) ListByClub(ctx context.Context, clubID int) ([]*models.Player, error) {
	query := `
		SELECT id, club_id, team_id, first_name, last_name, number, registered, verified_at, created_at
		FROM players
		WHERE club_id = $1
		ORDER BY last_name, first_name`

	rows, err := r.db.QueryContext(ctx, query, clubID)
	if err != nil {
		return nil, fmt.Errorf("failed to list players for club %d: %w", clubID, err)
	}
	defer rows.Close()

	return scanPlayers(rows)
}

func (r *postgresPlayerRepository) ListByTeam(ctx context.Context, teamID int) ([]*models.Player, error) {
	query := `
		SELECT id, club_id, team_id, first_name, last_name, number, registered, verified_at, created_at
		FROM players
		WHERE team_id = $1
		ORDER BY number`

	rows, err := r.db.QueryContext(ctx, query, teamID)
	if err != nil {
		return nil, fmt.Errorf("failed to list players for team %d: %w", teamID, err)
	}
	defer rows.Close()

	return scanPlayers(rows)
}

func scanPlayers(rows *sql.Rows) ([]*models.Player, error) {
	players := make([]*models.Player, 0)
	for rows.Next() {
		var player models.Player
		if err := rows.Scan(
			&player.ID,
			&player.ClubID,
			&player.TeamID,
			&player.FirstName,
			&player.LastName,
			&player.Number,
			&player.Registered,
			&player.VerifiedAt,
			&player.CreatedAt,
		); err != nil {
			return nil, fmt.Errorf("failed to scan player: %w", err)
		}
		players = append(players, &player)
	}
	return players, rows.Err()
}

// Update never touches registered/verified_at; those columns belong to the
// registration projection.
func (r *postgresPlayerRepository) Update(ctx context.Context, player *models.Player) error {
	query := `
		UPDATE players
		SET team_id = $1, first_name = $2, last_name = $3, number = $4
		WHERE id = $5`

	result, err := r.db.ExecContext(ctx, query,
		player.TeamID,
		player.FirstName,
		player.LastName,
		player.Number,
		player.ID,
	)
	if err != nil {
		if pqErr, ok := err.(*pq.Error); ok && pqErr.Code == "23503" {
			return ErrPlayerTeamInvalid
		}
		return fmt.Errorf("failed to update player %d: %w", player.ID, err)
	}
	return checkAffectedRows(result, ErrPlayerNotFound)
}

func (r *postgresPlayerRepository) Delete(ctx context.Context, id int) error {
	query := `DELETE FROM players WHERE id = $1`

	result, err := r.db.ExecContext(ctx, query, id)
	if err != nil {
		if pqErr, ok := err.(*pq.Error); ok && pqErr.Code == "23503" {
			return ErrPlayerInUse
		}
		return fmt.Errorf("failed to delete player %d: %w", id, err)
	}
	return checkAffectedRows(result, ErrPlayerNotFound)
}

func (r *postgresPlayerRepository) Count(ctx context.Context, registered *bool) (int, error) {
	query := `SELECT COUNT(*) FROM players`
	args := []interface{}{}
	if registered != nil {
		query += ` WHERE registered = $1`
		args = append(args, *registered)
	}

	var count int
	if err := r.db.QueryRowContext(ctx, query, args...).Scan(&count); err != nil {
		return 0, fmt.Errorf("failed to count players: %w", err)
	}
	return count, nil
}

func (r *postgresPlayerRepository) UpdateRegistrationStatus(ctx context.Context, exec SQLExecutor, playerID int, registered bool, verifiedAt *time.Time) error {
	executor := r.getExecutor(exec)
	query := `UPDATE players SET registered = $1, verified_at = $2 WHERE id = $3`

	result, err := executor.ExecContext(ctx, query, registered, verifiedAt, playerID)
	if err != nil {
		return fmt.Errorf("failed to update registration status for player %d: %w", playerID, err)
	}
	return checkAffectedRows(result, ErrPlayerNotFound)
}
