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
	ErrGameNotFound           = errors.New("game not found")
	ErrGameClubInvalid        = errors.New("game club conflict or invalid")
	ErrGameCompetitionInvalid = errors.New("game competition conflict or invalid")
)

type GameFilter struct {
	ClubID        *int
	CompetitionID *int
	Status        *models.GameStatus
}

type GameRepository interface {
	Create(ctx context.Context, game *models.Game) error
	GetByID(ctx context.Context, id int) (*models.Game, error)
	List(ctx context.Context, filter GameFilter) ([]*models.Game, error)
	Update(ctx context.Context, game *models.Game) error
	UpdateStatus(ctx context.Context, id int, status models.GameStatus) error
	Delete(ctx context.Context, id int) error
	Count(ctx context.Context) (int, error)
	CountUpcoming(ctx context.Context) (int, error)
	CountOfficial(ctx context.Context) (int, error)
}

type postgresGameRepository struct {
	db *sql.DB
}

func NewPostgresGameRepository(db *sql.DB) GameRepository {
	return &postgresGameRepository{db: db}
}

func (r *postgresGameRepository) Create(ctx context.Context, game *models.Game) error {
	query := `
		INSERT INTO games (home_club_id, away_club_id, competition_id, game_time, location, status)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING id, created_at`

	err := r.db.QueryRowContext(ctx, query,
		game.HomeClubID,
		game.AwayClubID,
		game.CompetitionID,
		game.GameTime,
		game.Location,
		game.Status,
	).Scan(&game.ID, &game.CreatedAt)
	if err != nil {
		if pqErr, ok := err.(*pq.Error); ok && pqErr.Code == "23503" {
			if pqErr.Constraint == "games_competition_id_fkey" {
				return ErrGameCompetitionInvalid
			}
			return ErrGameClubInvalid
		}
		return fmt.Errorf("failed to create game: %w", err)
	}
	return nil
}

func (r *postgresGameRepository) GetByID(ctx context.Context, id int) (*models.Game, error) {
	query := `
		SELECT id, home_club_id, away_club_id, competition_id, game_time, location, status, created_at
		FROM games
		WHERE id = $1`

	var game models.Game
	err := r.db.QueryRowContext(ctx, query, id).Scan(
		&game.ID,
		&game.HomeClubID,
		&game.AwayClubID,
		&game.CompetitionID,
		&game.GameTime,
		&game.Location,
		&game.Status,
		&game.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrGameNotFound
		}
		return nil, fmt.Errorf("failed to get game by id %d: %w", id, err)
	}
	return &game, nil
}

func (r *postgresGameRepository) List(ctx context.Context, filter GameFilter) ([]*models.Game, error) {
	query := `
		SELECT id, home_club_id, away_club_id, competition_id, game_time, location, status, created_at
		FROM games`

	conditions := []string{}
	args := []interface{}{}
	if filter.ClubID != nil {
		args = append(args, *filter.ClubID)
		conditions = append(conditions, fmt.Sprintf("(home_club_id = $%d OR away_club_id = $%d)", len(args), len(args)))
	}
	if filter.CompetitionID != nil {
		args = append(args, *filter.CompetitionID)
		conditions = append(conditions, fmt.Sprintf("competition_id = $%d", len(args)))
	}
	if filter.Status != nil {
		args = append(args, *filter.Status)
		conditions = append(conditions, fmt.Sprintf("status = $%d", len(args)))
	}
	for i, condition := range conditions {
		if i == 0 {
			query += " WHERE " + condition
		} else {
			query += " AND " + condition
		}
	}
	query += " ORDER BY game_time"

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list games: %w", err)
	}
	defer rows.Close()

	games := make([]*models.Game, 0)
	for rows.Next() {
		var game models.Game
		if err := rows.Scan(
			&game.ID,
			&game.HomeClubID,
			&game.AwayClubID,
			&game.CompetitionID,
			&game.GameTime,
			&game.Location,
			&game.Status,
			&game.CreatedAt,
		); err != nil {
			return nil, fmt.Errorf("failed to scan game: %w", err)
		}
		games = append(games, &game)
	}
	return games, rows.Err()
}

func (r *postgresGameRepository) Update(ctx context.Context, game *models.Game) error {
	query := `
		UPDATE games
		SET home_club_id = $1, away_club_id = $2, competition_id = $3, game_time = $4, location = $5, status = $6
		WHERE id = $7`

	result, err := r.db.ExecContext(ctx, query,
		game.HomeClubID,
		game.AwayClubID,
		game.CompetitionID,
		game.GameTime,
		game.Location,
		game.Status,
		game.ID,
	)
	if err != nil {
		if pqErr, ok := err.(*pq.Error); ok && pqErr.Code == "23503" {
			if pqErr.Constraint == "games_competition_id_fkey" {
				return ErrGameCompetitionInvalid
			}
			return ErrGameClubInvalid
		}
		return fmt.Errorf("failed to update game %d: %w", game.ID, err)
	}
	return checkAffectedRows(result, ErrGameNotFound)
}

func (r *postgresGameRepository) UpdateStatus(ctx context.Context, id int, status models.GameStatus) error {
	query := `UPDATE games SET status = $1 WHERE id = $2`

	result, err := r.db.ExecContext(ctx, query, status, id)
	if err != nil {
		return fmt.Errorf("failed to update status for game %d: %w", id, err)
	}
	return checkAffectedRows(result, ErrGameNotFound)
}

func (r *postgresGameRepository) Delete(ctx context.Context, id int) error {
	query := `DELETE FROM games WHERE id = $1`

	result, err := r.db.ExecContext(ctx, query, id)
	if err != nil {
		return fmt.Errorf("failed to delete game %d: %w", id, err)
	}
	return checkAffectedRows(result, ErrGameNotFound)
}

func (r *postgresGameRepository) Count(ctx context.Context) (int, error) {
	var count int
	err := r.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM games`).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("failed to count games: %w", err)
	}
	return count, nil
}

func (r *postgresGameRepository) CountUpcoming(ctx context.Context) (int, error) {
	query := `SELECT COUNT(*) FROM games WHERE status = $1 AND game_time > NOW()`

	var count int
	err := r.db.QueryRowContext(ctx, query, models.GameStatusScheduled).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("failed to count upcoming games: %w", err)
	}
	return count, nil
}

func (r *postgresGameRepository) CountOfficial(ctx context.Context) (int, error) {
	query := `
		SELECT COUNT(*)
		FROM games g
		JOIN competitions c ON g.competition_id = c.id
		WHERE c.is_official`

	var count int
	err := r.db.QueryRowContext(ctx, query).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("failed to count official games: %w", err)
	}
	return count, nil
}
