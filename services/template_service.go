package services

import (
	"context"
	"errors"
	"fmt"

	"github.com/korfside/club-system/models"
	"github.com/korfside/club-system/repositories"
)

type TemplateService interface {
	CreateTemplate(ctx context.Context, createdBy int, input TemplateInput) (*models.ExportTemplate, error)
	GetTemplateByID(ctx context.Context, id int) (*models.ExportTemplate, error)
	ListTemplates(ctx context.Context) ([]*models.ExportTemplate, error)
	UpdateTemplate(ctx context.Context, id int, input TemplateInput) (*models.ExportTemplate, error)
	DeleteTemplate(ctx context.Context, id int) error
}

type TemplateInput struct {
	Name    string              `json:"name"`
	Kind    models.TemplateKind `json:"kind"`
	Columns []string            `json:"columns"`
}

type templateService struct {
	templateRepo repositories.ExportTemplateRepository
}

func NewTemplateService(templateRepo repositories.ExportTemplateRepository) TemplateService {
	return &templateService{templateRepo: templateRepo}
}

func validateTemplateInput(input TemplateInput) error {
	if input.Name == "" {
		return fmt.Errorf("%w: template name is required", ErrValidationFailed)
	}
	switch input.Kind {
	case models.TemplateKindCSV, models.TemplateKindXLSX:
	default:
		return fmt.Errorf("%w: unknown template kind %q", ErrValidationFailed, input.Kind)
	}
	if len(input.Columns) == 0 {
		return fmt.Errorf("%w: template needs at least one column", ErrValidationFailed)
	}
	return nil
}

func (s *templateService) CreateTemplate(ctx context.Context, createdBy int, input TemplateInput) (*models.ExportTemplate, error) {
	if err := validateTemplateInput(input); err != nil {
		return nil, err
	}

	template := &models.ExportTemplate{
		Name:      input.Name,
		Kind:      input.Kind,
		Columns:   input.Columns,
		CreatedBy: createdBy,
	}
	if err := s.templateRepo.Create(ctx, template); err != nil {
		if errors.Is(err, repositories.ErrTemplateNameConflict) {
			return nil, ErrTemplateNameConflict
		}
		return nil, fmt.Errorf("failed to create export template: %w", err)
	}
	return template, nil
}

func (s *templateService) GetTemplateByID(ctx context.Context, id int) (*models.ExportTemplate, error) {
	template, err := s.templateRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repositories.ErrTemplateNotFound) {
			return nil, ErrTemplateNotFound
		}
		return nil, err
	}
	return template, nil
}

func (s *templateService) ListTemplates(ctx context.Context) ([]*models.ExportTemplate, error) {
	return s.templateRepo.List(ctx)
}

func (s *templateService) UpdateTemplate(ctx context.Context, id int, input TemplateInput) (*models.ExportTemplate, error) {
	if err := validateTemplateInput(input); err != nil {
		return nil, err
	}

	template, err := s.templateRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repositories.ErrTemplateNotFound) {
			return nil, ErrTemplateNotFound
		}
		return nil, err
	}

	template.Name = input.Name
	template.Kind = input.Kind
	template.Columns = input.Columns
	if err := s.templateRepo.Update(ctx, template); err != nil {
		switch {
		case errors.Is(err, repositories.ErrTemplateNotFound):
			return nil, ErrTemplateNotFound
		case errors.Is(err, repositories.ErrTemplateNameConflict):
			return nil, ErrTemplateNameConflict
		}
		return nil, fmt.Errorf("failed to update export template %d: %w", id, err)
	}
	return template, nil
}

func (s *templateService) DeleteTemplate(ctx context.Context, id int) error {
	err := s.templateRepo.Delete(ctx, id)
	if errors.Is(err, repositories.ErrTemplateNotFound) {
		return ErrTemplateNotFound
	}
	return err
}
