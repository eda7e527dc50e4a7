package service

import (
	"context"
	"errors"
	"strings"

	"slingshot_backend/internal/tasks/repository"
	"slingshot_backend/platform/apperr"
	"slingshot_backend/platform/sanitize"

	"github.com/google/uuid"
)

const taskNotFound = "task not found"

var validStatuses = map[string]bool{
	"todo":        true,
	"in_progress": true,
	"done":        true,
}

var validPriorities = map[string]bool{
	"low":    true,
	"medium": true,
	"high":   true,
	"urgent": true,
}

type Service struct {
	repo *repository.Repository
}

func New(repo *repository.Repository) *Service {
	return &Service{repo: repo}
}

func (s *Service) List(ctx context.Context, businessID uuid.UUID, filter repository.ListFilter) ([]repository.Task, error) {
	if filter.Status != "" && !validStatuses[filter.Status] {
		return nil, apperr.Validation("invalid status filter")
	}
	if filter.Priority != "" && !validPriorities[filter.Priority] {
		return nil, apperr.Validation("invalid priority filter")
	}
	return s.repo.List(ctx, businessID, filter)
}

func (s *Service) Get(ctx context.Context, businessID, taskID uuid.UUID) (repository.Task, error) {
	task, err := s.repo.Get(ctx, businessID, taskID)
	if errors.Is(err, repository.ErrNotFound) {
		return repository.Task{}, apperr.NotFound(taskNotFound)
	}
	return task, err
}

func (s *Service) Create(ctx context.Context, businessID uuid.UUID, task repository.Task) (repository.Task, error) {
	task.Title = strings.TrimSpace(task.Title)
	if task.Title == "" {
		return repository.Task{}, apperr.Validation("task title is required")
	}
	if task.Status == "" {
		task.Status = "todo"
	}
	if task.Priority == "" {
		task.Priority = "medium"
	}
	if !validStatuses[task.Status] {
		return repository.Task{}, apperr.Validation("invalid status")
	}
	if !validPriorities[task.Priority] {
		return repository.Task{}, apperr.Validation("invalid priority")
	}
	task.Description = sanitize.TextPtr(task.Description)
	if err := s.checkProject(ctx, businessID, task.ProjectID); err != nil {
		return repository.Task{}, err
	}

	return s.repo.Create(ctx, businessID, task)
}

func (s *Service) Update(ctx context.Context, businessID, taskID uuid.UUID, update repository.TaskUpdate) (repository.Task, error) {
	if update.Status != nil && !validStatuses[*update.Status] {
		return repository.Task{}, apperr.Validation("invalid status")
	}
	if update.Priority != nil && !validPriorities[*update.Priority] {
		return repository.Task{}, apperr.Validation("invalid priority")
	}
	update.Description = sanitize.TextPtr(update.Description)
	if err := s.checkProject(ctx, businessID, update.ProjectID); err != nil {
		return repository.Task{}, err
	}

	task, err := s.repo.Update(ctx, businessID, taskID, update)
	if errors.Is(err, repository.ErrNotFound) {
		return repository.Task{}, apperr.NotFound(taskNotFound)
	}
	return task, err
}

func (s *Service) Delete(ctx context.Context, businessID, taskID uuid.UUID) error {
	err := s.repo.Delete(ctx, businessID, taskID)
	if errors.Is(err, repository.ErrNotFound) {
		return apperr.NotFound(taskNotFound)
	}
	return err
}

// checkProject rejects cross-tenant project references.
func (s *Service) checkProject(ctx context.Context, businessID uuid.UUID, projectID *uuid.UUID) error {
	if projectID == nil {
		return nil
	}
	exists, err := s.repo.ProjectExists(ctx, businessID, *projectID)
	if err != nil {
		return err
	}
	if !exists {
		return apperr.Validation("project does not belong to this business")
	}
	return nil
}
