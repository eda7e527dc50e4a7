package service

import (
	"context"
	"errors"
	"strings"

	"slingshot_backend/internal/leads/repository"
	"slingshot_backend/platform/apperr"
	"slingshot_backend/platform/phone"

	"github.com/google/uuid"
)

const leadNotFound = "lead not found"

var validStatuses = map[string]bool{
	"new":       true,
	"contacted": true,
	"talking":   true,
	"proposal":  true,
	"won":       true,
	"lost":      true,
}

type Service struct {
	repo *repository.Repository
}

func New(repo *repository.Repository) *Service {
	return &Service{repo: repo}
}

func (s *Service) List(ctx context.Context, businessID uuid.UUID, filter repository.ListFilter) ([]repository.Lead, error) {
	if filter.Status != "" && !validStatuses[filter.Status] {
		return nil, apperr.Validation("invalid status filter")
	}
	return s.repo.List(ctx, businessID, filter)
}

func (s *Service) Get(ctx context.Context, businessID, leadID uuid.UUID) (repository.Lead, error) {
	lead, err := s.repo.Get(ctx, businessID, leadID)
	if errors.Is(err, repository.ErrNotFound) {
		return repository.Lead{}, apperr.NotFound(leadNotFound)
	}
	return lead, err
}

func (s *Service) Create(ctx context.Context, businessID uuid.UUID, lead repository.Lead) (repository.Lead, error) {
	lead.Name = strings.TrimSpace(lead.Name)
	if lead.Name == "" {
		return repository.Lead{}, apperr.Validation("lead name is required")
	}
	if lead.Status == "" {
		lead.Status = "new"
	}
	if !validStatuses[lead.Status] {
		return repository.Lead{}, apperr.Validation("invalid status")
	}
	normalizePhone(&lead.Phone)

	return s.repo.Create(ctx, businessID, lead)
}

func (s *Service) Update(ctx context.Context, businessID, leadID uuid.UUID, update repository.LeadUpdate) (repository.Lead, error) {
	if update.Status != nil && !validStatuses[*update.Status] {
		return repository.Lead{}, apperr.Validation("invalid status")
	}
	normalizePhone(&update.Phone)

	lead, err := s.repo.Update(ctx, businessID, leadID, update)
	if errors.Is(err, repository.ErrNotFound) {
		return repository.Lead{}, apperr.NotFound(leadNotFound)
	}
	return lead, err
}

func (s *Service) Delete(ctx context.Context, businessID, leadID uuid.UUID) error {
	err := s.repo.Delete(ctx, businessID, leadID)
	if errors.Is(err, repository.ErrNotFound) {
		return apperr.NotFound(leadNotFound)
	}
	return err
}

func normalizePhone(value **string) {
	if *value == nil {
		return
	}
	normalized := phone.NormalizeE164(**value)
	*value = &normalized
}
