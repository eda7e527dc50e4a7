package service

import (
	"context"
	"errors"
	"strings"

	"slingshot_backend/internal/projects/repository"
	"slingshot_backend/platform/apperr"
	"slingshot_backend/platform/sanitize"

	"github.com/google/uuid"
)

const projectNotFound = "project not found"

var validStatuses = map[string]bool{
	"planning":  true,
	"active":    true,
	"on_hold":   true,
	"completed": true,
	"cancelled": true,
}

type Service struct {
	repo *repository.Repository
}

func New(repo *repository.Repository) *Service {
	return &Service{repo: repo}
}

func (s *Service) List(ctx context.Context, businessID uuid.UUID, filter repository.ListFilter) ([]repository.Project, error) {
	if filter.Status != "" && !validStatuses[filter.Status] {
		return nil, apperr.Validation("invalid status filter")
	}
	return s.repo.List(ctx, businessID, filter)
}

func (s *Service) Get(ctx context.Context, businessID, projectID uuid.UUID) (repository.Project, error) {
	project, err := s.repo.Get(ctx, businessID, projectID)
	if errors.Is(err, repository.ErrNotFound) {
		return repository.Project{}, apperr.NotFound(projectNotFound)
	}
	return project, err
}

func (s *Service) Create(ctx context.Context, businessID uuid.UUID, project repository.Project) (repository.Project, error) {
	project.Name = strings.TrimSpace(project.Name)
	if project.Name == "" {
		return repository.Project{}, apperr.Validation("project name is required")
	}
	if project.Status == "" {
		project.Status = "planning"
	}
	if !validStatuses[project.Status] {
		return repository.Project{}, apperr.Validation("invalid status")
	}
	project.Description = sanitize.TextPtr(project.Description)
	if err := s.checkClient(ctx, businessID, project.ClientID); err != nil {
		return repository.Project{}, err
	}

	return s.repo.Create(ctx, businessID, project)
}

func (s *Service) Update(ctx context.Context, businessID, projectID uuid.UUID, update repository.ProjectUpdate) (repository.Project, error) {
	if update.Status != nil && !validStatuses[*update.Status] {
		return repository.Project{}, apperr.Validation("invalid status")
	}
	update.Description = sanitize.TextPtr(update.Description)
	if err := s.checkClient(ctx, businessID, update.ClientID); err != nil {
		return repository.Project{}, err
	}

	project, err := s.repo.Update(ctx, businessID, projectID, update)
	if errors.Is(err, repository.ErrNotFound) {
		return repository.Project{}, apperr.NotFound(projectNotFound)
	}
	return project, err
}

func (s *Service) Delete(ctx context.Context, businessID, projectID uuid.UUID) error {
	err := s.repo.Delete(ctx, businessID, projectID)
	if errors.Is(err, repository.ErrNotFound) {
		return apperr.NotFound(projectNotFound)
	}
	return err
}

// checkClient rejects cross-tenant client references.
func (s *Service) checkClient(ctx context.Context, businessID uuid.UUID, clientID *uuid.UUID) error {
	if clientID == nil {
		return nil
	}
	exists, err := s.repo.ClientExists(ctx, businessID, *clientID)
	if err != nil {
		return err
	}
	if !exists {
		return apperr.Validation("client does not belong to this business")
	}
	return nil
}
