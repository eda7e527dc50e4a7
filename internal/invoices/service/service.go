package service

import (
	"context"
	"errors"
	"strings"
	"time"

	"slingshot_backend/internal/events"
	"slingshot_backend/internal/invoices/repository"
	"slingshot_backend/platform/apperr"
	"slingshot_backend/platform/logger"

	"github.com/google/uuid"
)

const (
	invoiceNotFound      = "invoice not found"
	duplicateNumberError = "invoice number already exists for this business"
)

var validStatuses = map[string]bool{
	"draft":   true,
	"sent":    true,
	"paid":    true,
	"overdue": true,
}

type Service struct {
	repo *repository.Repository
	bus  events.Bus
	log  *logger.Logger
}

func New(repo *repository.Repository, bus events.Bus, log *logger.Logger) *Service {
	return &Service{repo: repo, bus: bus, log: log}
}

func (s *Service) List(ctx context.Context, businessID uuid.UUID, filter repository.ListFilter) ([]repository.Invoice, error) {
	if filter.Status != "" && !validStatuses[filter.Status] {
		return nil, apperr.Validation("invalid status filter")
	}
	return s.repo.List(ctx, businessID, filter)
}

func (s *Service) Get(ctx context.Context, businessID, invoiceID uuid.UUID) (repository.Invoice, error) {
	inv, err := s.repo.Get(ctx, businessID, invoiceID)
	if errors.Is(err, repository.ErrNotFound) {
		return repository.Invoice{}, apperr.NotFound(invoiceNotFound)
	}
	return inv, err
}

func (s *Service) Create(ctx context.Context, businessID uuid.UUID, invoice repository.Invoice) (repository.Invoice, error) {
	invoice.InvoiceNumber = strings.TrimSpace(invoice.InvoiceNumber)
	if invoice.InvoiceNumber == "" {
		return repository.Invoice{}, apperr.Validation("invoice number is required")
	}
	if invoice.Amount < 0 {
		return repository.Invoice{}, apperr.Validation("amount cannot be negative")
	}
	if invoice.Status == "" {
		invoice.Status = "draft"
	}
	if !validStatuses[invoice.Status] {
		return repository.Invoice{}, apperr.Validation("invalid status")
	}
	if invoice.IssueDate.IsZero() {
		invoice.IssueDate = time.Now().UTC()
	}
	if err := s.checkClient(ctx, businessID, invoice.ClientID); err != nil {
		return repository.Invoice{}, err
	}

	created, err := s.repo.Create(ctx, businessID, invoice)
	if errors.Is(err, repository.ErrDuplicateNumber) {
		return repository.Invoice{}, apperr.Conflict(duplicateNumberError)
	}
	return created, err
}

func (s *Service) Update(ctx context.Context, businessID, invoiceID uuid.UUID, update repository.InvoiceUpdate) (repository.Invoice, error) {
	if update.InvoiceNumber != nil {
		trimmed := strings.TrimSpace(*update.InvoiceNumber)
		if trimmed == "" {
			return repository.Invoice{}, apperr.Validation("invoice number cannot be empty")
		}
		update.InvoiceNumber = &trimmed
	}
	if update.Amount != nil && *update.Amount < 0 {
		return repository.Invoice{}, apperr.Validation("amount cannot be negative")
	}
	if update.Status != nil && !validStatuses[*update.Status] {
		return repository.Invoice{}, apperr.Validation("invalid status")
	}
	if err := s.checkClient(ctx, businessID, update.ClientID); err != nil {
		return repository.Invoice{}, err
	}

	var oldStatus string
	if update.Status != nil {
		current, err := s.Get(ctx, businessID, invoiceID)
		if err != nil {
			return repository.Invoice{}, err
		}
		oldStatus = current.Status
	}

	inv, err := s.repo.Update(ctx, businessID, invoiceID, update)
	if errors.Is(err, repository.ErrNotFound) {
		return repository.Invoice{}, apperr.NotFound(invoiceNotFound)
	}
	if errors.Is(err, repository.ErrDuplicateNumber) {
		return repository.Invoice{}, apperr.Conflict(duplicateNumberError)
	}
	if err != nil {
		return repository.Invoice{}, err
	}

	if update.Status != nil && oldStatus != inv.Status {
		s.bus.Publish(ctx, events.InvoiceStatusChanged{
			BaseEvent:  events.NewBaseEvent(),
			InvoiceID:  inv.ID,
			BusinessID: businessID,
			OldStatus:  oldStatus,
			NewStatus:  inv.Status,
		})
	}

	return inv, nil
}

func (s *Service) Delete(ctx context.Context, businessID, invoiceID uuid.UUID) error {
	err := s.repo.Delete(ctx, businessID, invoiceID)
	if errors.Is(err, repository.ErrNotFound) {
		return apperr.NotFound(invoiceNotFound)
	}
	return err
}

// SweepOverdue flips sent invoices past their due date to overdue and
// publishes a status-change event per affected invoice. Run by the scheduler.
func (s *Service) SweepOverdue(ctx context.Context, now time.Time) (int, error) {
	refs, err := s.repo.MarkOverdue(ctx, now)
	if err != nil {
		return 0, err
	}

	for _, ref := range refs {
		s.bus.Publish(ctx, events.InvoiceStatusChanged{
			BaseEvent:  events.NewBaseEvent(),
			InvoiceID:  ref.ID,
			BusinessID: ref.BusinessID,
			OldStatus:  "sent",
			NewStatus:  "overdue",
		})
	}

	if len(refs) > 0 {
		s.log.Info("marked invoices overdue", "count", len(refs))
	}
	return len(refs), nil
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
