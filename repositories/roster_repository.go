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
	ErrRosterEntryConflict      = errors.New("player already on this game roster")
	ErrRosterEntryPlayerInvalid = errors.New("roster entry player conflict or invalid")
	ErrRosterEntryGameInvalid   = errors.New("roster entry game conflict or invalid")
)

type RosterRepository interface {
	CreateBatch(ctx context.Context, exec SQLExecutor, entries []*models.RosterEntry) error
	ListByGame(ctx context.Context, gameID int) ([]*models.RosterEntry, error)
	ListByPlayer(ctx context.Context, playerID int) ([]*models.RosterEntry, error)
	DeleteByGameAndClub(ctx context.Context, exec SQLExecutor, gameID, clubID int) error
}

type postgresRosterRepository struct {
	db *sql.DB
}

func NewPostgresRosterRepository(db *sql.DB) RosterRepository {
	return &postgresRosterRepository{db: db}
}

func (r *postgresRosterRepository) getExecutor(exec SQLExecutor) SQLExecutor {
	if exec != nil {
		return exec
	}
	return r.db
}

func (r *postgresRosterRepository) CreateBatch(ctx context.Context, exec SQLExecutor, entries []*models.RosterEntry) error {
	if len(entries) == 0 {
		return nil
	}
	executor := r.getExecutor(exec)

	query := `
		INSERT INTO game_rosters (game_id, club_id, player_id, is_captain)
		VALUES ($1, $2, $3, $4)
		RETURNING id, created_at`

	for _, entry := range entries {
		err := executor.QueryRowContext(ctx, query,
			entry.GameID,
			entry.ClubID,
			entry.PlayerID,
			entry.IsCaptain,
		).Scan(&entry.ID, &entry.CreatedAt)
		if err != nil {
			if pqErr, ok := err.(*pq.Error); ok {
				switch pqErr.Code {
				case "23505": // unique_violation
					return ErrRosterEntryConflict
				case "23503": // foreign_key_violation
					if pqErr.Constraint == "game_rosters_game_id_fkey" {
						return ErrRosterEntryGameInvalid
					}
					return ErrRosterEntryPlayerInvalid
				}
			}
			return fmt.Errorf("failed to create roster entry for player %d in game %d: %w", entry.PlayerID, entry.GameID, err)
		}
	}
	return nil
}

func (r *postgresRosterRepository) ListByGame(ctx context.Context, gameID int) ([]*models.RosterEntry, error) {
	query := `
		SELECT gr.id, gr.game_id, gr.club_id, gr.player_id, gr.is_captain, gr.created_at,
		       p.club_id, p.team_id, p.first_name, p.last_name, p.number, p.registered, p.verified_at, p.created_at
		FROM game_rosters gr
		JOIN players p ON gr.player_id = p.id
		WHERE gr.game_id = $1
		ORDER BY gr.club_id, p.number`

	rows, err := r.db.QueryContext(ctx, query, gameID)
	if err != nil {
		return nil, fmt.Errorf("failed to list roster for game %d: %w", gameID, err)
	}
	defer rows.Close()

	entries := make([]*models.RosterEntry, 0)
	for rows.Next() {
		var entry models.RosterEntry
		var player models.Player
		if err := rows.Scan(
			&entry.ID, &entry.GameID, &entry.ClubID, &entry.PlayerID, &entry.IsCaptain, &entry.CreatedAt,
			&player.ClubID, &player.TeamID, &player.FirstName, &player.LastName,
			&player.Number, &player.Registered, &player.VerifiedAt, &player.CreatedAt,
		); err != nil {
			return nil, fmt.Errorf("failed to scan roster entry: %w", err)
		}
		player.ID = entry.PlayerID
		entry.Player = &player
		entries = append(entries, &entry)
	}
	return entries, rows.Err()
}

func (r *postgresRosterRepository) ListByPlayer(ctx context.Context, playerID int) ([]*models.RosterEntry, error) {
	query := `
		SELECT id, game_id, club_id, player_id, is_captain, created_at
		FROM game_rosters
		WHERE player_id = $1
		ORDER BY created_at DESC`

	rows, err := r.db.QueryContext(ctx, query, playerID)
	if err != nil {
		return nil, fmt.Errorf("failed to list roster entries for player %d: %w", playerID, err)
	}
	defer rows.Close()

	entries := make([]*models.RosterEntry, 0)
	for rows.Next() {
		var entry models.RosterEntry
		if err := rows.Scan(&entry.ID, &entry.GameID, &entry.ClubID, &entry.PlayerID, &entry.IsCaptain, &entry.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan roster entry: %w", err)
		}
		entries = append(entries, &entry)
	}
	return entries, rows.Err()
}

func (r *postgresRosterRepository) DeleteByGameAndClub(ctx context.Context, exec SQLExecutor, gameID, clubID int) error {
	executor := r.getExecutor(exec)
	query := `DELETE FROM game_rosters WHERE game_id = $1 AND club_id = $2`

	// No affected-rows check: a first submission has nothing to replace.
	if _, err := executor.ExecContext(ctx, query, gameID, clubID); err != nil {
		return fmt.Errorf("failed to delete roster entries for game %d club %d: %w", gameID, clubID, err)
	}
	return nil
}
