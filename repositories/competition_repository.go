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
	ErrCompetitionNotFound     = errors.New("competition not found")
	ErrCompetitionNameConflict = errors.New("competition name conflict")
)

type CompetitionRepository interface {
	Create(ctx context.Context, competition *models.Competition) error
	GetByID(ctx context.Context, id int) (*models.Competition, error)
	List(ctx context.Context) ([]*models.Competition, error)
	Update(ctx context.Context, competition *models.Competition) error
	Delete(ctx context.Context, id int) error
	Count(ctx context.Context) (int, error)
}

type postgresCompetitionRepository struct {
	db *sql.DB
}

func NewPostgresCompetitionRepository(db *sql.DB) CompetitionRepository {
	return &postgresCompetitionRepository{db: db}
}

func (r *postgresCompetitionRepository) Create(ctx context.Context, competition *models.Competition) error {
	query := `
		INSERT INTO competitions (name, season, is_official)
		VALUES ($1, $2, $3)
		RETURNING id, created_at`

	err := r.db.QueryRowContext(ctx, query, competition.Name, competition.Season, competition.IsOfficial).
		Scan(&competition.ID, &competition.CreatedAt)
	if err != nil {
		if pqErr, ok := err.(*pq.Error); ok && pqErr.Code == "23505" {
			return ErrCompetitionNameConflict
		}
		return fmt.Errorf("failed to create competition: %w", err)
	}
	return nil
}

func (r *postgresCompetitionRepository) GetByID(ctx context.Context, id int) (*models.Competition, error) {
	query := `
		SELECT id, name, season, is_official, created_at
		FROM competitions
		WHERE id = $1`

	var competition models.Competition
	err := r.db.QueryRowContext(ctx, query, id).Scan(
		&competition.ID,
		&competition.Name,
		&competition.Season,
		&competition.IsOfficial,
		&competition.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrCompetitionNotFound
		}
		return nil, fmt.Errorf("failed to get competition by id %d: %w", id, err)
	}
	return &competition, nil
}

func (r *postgresCompetitionRepository) List(ctx context.Context) ([]*models.Competition, error) {
	query := `
		SELECT id, name, season, is_official, created_at
		FROM competitions
		ORDER BY season DESC, name`

	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to list competitions: %w", err)
	}
	defer rows.Close()

	competitions := make([]*models.Competition, 0)
	for rows.Next() {
		var competition models.Competition
		if err := rows.Scan(
			&competition.ID,
			&competition.Name,
			&competition.Season,
			&competition.IsOfficial,
			&competition.CreatedAt,
		); err != nil {
			return nil, fmt.Errorf("failed to scan competition: %w", err)
		}
		competitions = append(competitions, &competition)
	}
	return competitions, rows.Err()
}

func (r *postgresCompetitionRepository) Update(ctx context.Context, competition *models.Competition) error {
	query := `
		UPDATE competitions
		SET name = $1, season = $2, is_official = $3
		WHERE id = $4`

	result, err := r.db.ExecContext(ctx, query,
		competition.Name,
		competition.Season,
		competition.IsOfficial,
		competition.ID,
	)
	if err != nil {
		if pqErr, ok := err.(*pq.Error); ok && pqErr.Code == "23505" {
			return ErrCompetitionNameConflict
		}
		return fmt.Errorf("failed to update competition %d: %w", competition.ID, err)
	}
	return checkAffectedRows(result, ErrCompetitionNotFound)
}

func (r *postgresCompetitionRepository) Delete(ctx context.Context, id int) error {
	query := `DELETE FROM competitions WHERE id = $1`

	result, err := r.db.ExecContext(ctx, query, id)
	if err != nil {
		return fmt.Errorf("failed to delete competition %d: %w", id, err)
	}
	return checkAffectedRows(result, ErrCompetitionNotFound)
}

func (r *postgresCompetitionRepository) Count(ctx context.Context) (int, error) {
	var count int
	err := r.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM competitions`).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("failed to count competitions: %w", err)
	}
	return count, nil
}
