package service

import (
	"context"
	"errors"
	"strings"

	"slingshot_backend/internal/clients/repository"
	"slingshot_backend/platform/apperr"
	"slingshot_backend/platform/phone"

	"github.com/google/uuid"
)

const clientNotFound = "client not found"

var validStatuses = map[string]bool{
	"active":   true,
	"inactive": true,
	"prospect": true,
}

type Service struct {
	repo *repository.Repository
}

func New(repo *repository.Repository) *Service {
	return &Service{repo: repo}
}

func (s *Service) List(ctx context.Context, businessID uuid.UUID, filter repository.ListFilter) ([]repository.Client, error) {
	if filter.Status != "" && !validStatuses[filter.Status] {
		return nil, apperr.Validation("invalid status filter")
	}
	return s.repo.List(ctx, businessID, filter)
}

func (s *Service) Get(ctx context.Context, businessID, clientID uuid.UUID) (repository.Client, error) {
	client, err := s.repo.Get(ctx, businessID, clientID)
	if errors.Is(err, repository.ErrNotFound) {
		return repository.Client{}, apperr.NotFound(clientNotFound)
	}
	return client, err
}

func (s *Service) Create(ctx context.Context, businessID uuid.UUID, client repository.Client) (repository.Client, error) {
	client.Name = strings.TrimSpace(client.Name)
	if client.Name == "" {
		return repository.Client{}, apperr.Validation("client name is required")
	}
	if client.Status == "" {
		client.Status = "active"
	}
	if !validStatuses[client.Status] {
		return repository.Client{}, apperr.Validation("invalid status")
	}
	normalizePhone(&client.Phone)

	return s.repo.Create(ctx, businessID, client)
}

func (s *Service) Update(ctx context.Context, businessID, clientID uuid.UUID, update repository.ClientUpdate) (repository.Client, error) {
	if update.Status != nil && !validStatuses[*update.Status] {
		return repository.Client{}, apperr.Validation("invalid status")
	}
	normalizePhone(&update.Phone)

	client, err := s.repo.Update(ctx, businessID, clientID, update)
	if errors.Is(err, repository.ErrNotFound) {
		return repository.Client{}, apperr.NotFound(clientNotFound)
	}
	return client, err
}

func (s *Service) Delete(ctx context.Context, businessID, clientID uuid.UUID) error {
	err := s.repo.Delete(ctx, businessID, clientID)
	if errors.Is(err, repository.ErrNotFound) {
		return apperr.NotFound(clientNotFound)
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
