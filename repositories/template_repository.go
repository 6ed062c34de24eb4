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
	ErrTemplateNotFound     = errors.New("export template not found")
	ErrTemplateNameConflict = errors.New("export template name conflict")
)

type ExportTemplateRepository interface {
	Create(ctx context.Context, template *models.ExportTemplate) error
	GetByID(ctx context.Context, id int) (*models.ExportTemplate, error)
	List(ctx context.Context) ([]*models.ExportTemplate, error)
	Update(ctx context.Context, template *models.ExportTemplate) error
	Delete(ctx context.Context, id int) error
}

type postgresExportTemplateRepository struct {
	db *sql.DB
}

func NewPostgresExportTemplateRepository(db *sql.DB) ExportTemplateRepository {
	return &postgresExportTemplateRepository{db: db}
}

func (r *postgresExportTemplateRepository) Create(ctx context.Context, template *models.ExportTemplate) error {
	query := `
		INSERT INTO export_templates (name, kind, columns, created_by)
		VALUES ($1, $2, $3, $4)
		RETURNING id, created_at`

	err := r.db.QueryRowContext(ctx, query,
		template.Name,
		template.Kind,
		pq.Array(template.Columns),
		template.CreatedBy,
	).Scan(&template.ID, &template.CreatedAt)
	if err != nil {
		if pqErr, ok := err.(*pq.Error); ok && pqErr.Code == "23505" {
			return ErrTemplateNameConflict
		}
		return fmt.Errorf("failed to create export template: %w", err)
	}
	return nil
}

func (r *postgresExportTemplateRepository) GetByID(ctx context.Context, id int) (*models.ExportTemplate, error) {
	query := `
		SELECT id, name, kind, columns, created_by, created_at
		FROM export_templates
		WHERE id = $1`

	var template models.ExportTemplate
	err := r.db.QueryRowContext(ctx, query, id).Scan(
		&template.ID,
		&template.Name,
		&template.Kind,
		pq.Array(&template.Columns),
		&template.CreatedBy,
		&template.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrTemplateNotFound
		}
		return nil, fmt.Errorf("failed to get export template by id %d: %w", id, err)
	}
	return &template, nil
}

func (r *postgresExportTemplateRepository) List(ctx context.Context) ([]*models.ExportTemplate, error) {
	query := `
		SELECT id, name, kind, columns, created_by, created_at
		FROM export_templates
		ORDER BY name`

	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to list export templates: %w", err)
	}
	defer rows.Close()

	templates := make([]*models.ExportTemplate, 0)
	for rows.Next() {
		var template models.ExportTemplate
		if err := rows.Scan(
			&template.ID,
			&template.Name,
			&template.Kind,
			pq.Array(&template.Columns),
			&template.CreatedBy,
			&template.CreatedAt,
		); err != nil {
			return nil, fmt.Errorf("failed to scan export template: %w", err)
		}
		templates = append(templates, &template)
	}
	return templates, rows.Err()
}

func (r *postgresExportTemplateRepository) Update(ctx context.Context, template *models.ExportTemplate) error {
	query := `
		UPDATE export_templates
		SET name = $1, kind = $2, columns = $3
		WHERE id = $4`

	result, err := r.db.ExecContext(ctx, query,
		template.Name,
		template.Kind,
		pq.Array(template.Columns),
		template.ID,
	)
	if err != nil {
		if pqErr, ok := err.(*pq.Error); ok && pqErr.Code == "23505" {
			return ErrTemplateNameConflict
		}
		return fmt.Errorf("failed to update export template %d: %w", template.ID, err)
	}
	return checkAffectedRows(result, ErrTemplateNotFound)
}

func (r *postgresExportTemplateRepository) Delete(ctx context.Context, id int) error {
	query := `DELETE FROM export_templates WHERE id = $1`

	result, err := r.db.ExecContext(ctx, query, id)
	if err != nil {
		return fmt.Errorf("failed to delete export template %d: %w", id, err)
	}
	return checkAffectedRows(result, ErrTemplateNotFound)
}
