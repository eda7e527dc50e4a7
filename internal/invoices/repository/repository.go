package repository

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

var (
	ErrNotFound        = errors.New("not found")
	ErrDuplicateNumber = errors.New("duplicate invoice number")
)

type Repository struct {
	pool *pgxpool.Pool
}

func New(pool *pgxpool.Pool) *Repository {
	return &Repository{pool: pool}
}

type Invoice struct {
	ID            uuid.UUID
	BusinessID    uuid.UUID
	ClientID      *uuid.UUID
	ClientName    *string
	InvoiceNumber string
	Amount        float64
	Status        string
	IssueDate     time.Time
	DueDate       *time.Time
	CreatedAt     time.Time
	UpdatedAt     time.Time
}

type InvoiceUpdate struct {
	ClientID      *uuid.UUID
	InvoiceNumber *string
	Amount        *float64
	Status        *string
	IssueDate     *time.Time
	DueDate       *time.Time
}

type ListFilter struct {
	Search   string
	Status   string
	ClientID *uuid.UUID
}

const listInvoicesQuery = `
	SELECT i.id, i.business_id, i.client_id, c.name, i.invoice_number, i.amount, i.status, i.issue_date, i.due_date, i.created_at, i.updated_at
	FROM invoices i
	LEFT JOIN clients c ON c.id = i.client_id
	WHERE i.business_id = $1
	  AND ($2 = '' OR i.invoice_number ILIKE '%' || $2 || '%')
	  AND ($3 = '' OR i.status = $3)
	  AND ($4::uuid IS NULL OR i.client_id = $4)
	ORDER BY i.issue_date DESC, i.created_at DESC
`

func scanInvoice(row pgx.Row) (Invoice, error) {
	var inv Invoice
	err := row.Scan(
		&inv.ID,
		&inv.BusinessID,
		&inv.ClientID,
		&inv.ClientName,
		&inv.InvoiceNumber,
		&inv.Amount,
		&inv.Status,
		&inv.IssueDate,
		&inv.DueDate,
		&inv.CreatedAt,
		&inv.UpdatedAt,
	)
	return inv, err
}

func (r *Repository) List(ctx context.Context, businessID uuid.UUID, filter ListFilter) ([]Invoice, error) {
	rows, err := r.pool.Query(ctx, listInvoicesQuery, businessID, filter.Search, filter.Status, filter.ClientID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	invoices := make([]Invoice, 0)
	for rows.Next() {
		inv, err := scanInvoice(rows)
		if err != nil {
			return nil, err
		}
		invoices = append(invoices, inv)
	}
	return invoices, rows.Err()
}

func (r *Repository) Get(ctx context.Context, businessID, invoiceID uuid.UUID) (Invoice, error) {
	inv, err := scanInvoice(r.pool.QueryRow(ctx, `
		SELECT i.id, i.business_id, i.client_id, c.name, i.invoice_number, i.amount, i.status, i.issue_date, i.due_date, i.created_at, i.updated_at
		FROM invoices i
		LEFT JOIN clients c ON c.id = i.client_id
		WHERE i.business_id = $1 AND i.id = $2
	`, businessID, invoiceID))
	if errors.Is(err, pgx.ErrNoRows) {
		return Invoice{}, ErrNotFound
	}
	return inv, err
}

func (r *Repository) Create(ctx context.Context, businessID uuid.UUID, invoice Invoice) (Invoice, error) {
	var id uuid.UUID
	err := r.pool.QueryRow(ctx, `
		INSERT INTO invoices (business_id, client_id, invoice_number, amount, status, issue_date, due_date)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING id
	`, businessID, invoice.ClientID, invoice.InvoiceNumber, invoice.Amount, invoice.Status, invoice.IssueDate, invoice.DueDate).Scan(&id)
	if err != nil {
		return Invoice{}, mapUniqueViolation(err)
	}
	return r.Get(ctx, businessID, id)
}

func (r *Repository) Update(ctx context.Context, businessID, invoiceID uuid.UUID, update InvoiceUpdate) (Invoice, error) {
	tag, err := r.pool.Exec(ctx, `
		UPDATE invoices
		SET client_id = COALESCE($3, client_id),
		    invoice_number = COALESCE($4, invoice_number),
		    amount = COALESCE($5, amount),
		    status = COALESCE($6, status),
		    issue_date = COALESCE($7, issue_date),
		    due_date = COALESCE($8, due_date),
		    updated_at = now()
		WHERE business_id = $1 AND id = $2
	`, businessID, invoiceID, update.ClientID, update.InvoiceNumber, update.Amount, update.Status, update.IssueDate, update.DueDate)
	if err != nil {
		return Invoice{}, mapUniqueViolation(err)
	}
	if tag.RowsAffected() == 0 {
		return Invoice{}, ErrNotFound
	}
	return r.Get(ctx, businessID, invoiceID)
}

func (r *Repository) Delete(ctx context.Context, businessID, invoiceID uuid.UUID) error {
	tag, err := r.pool.Exec(ctx, `
		DELETE FROM invoices
		WHERE business_id = $1 AND id = $2
	`, businessID, invoiceID)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

// ClientExists verifies a client id belongs to the same business before an
// invoice references it.
func (r *Repository) ClientExists(ctx context.Context, businessID, clientID uuid.UUID) (bool, error) {
	var exists bool
	err := r.pool.QueryRow(ctx, `
		SELECT EXISTS (SELECT 1 FROM clients WHERE business_id = $1 AND id = $2)
	`, businessID, clientID).Scan(&exists)
	return exists, err
}

// OverdueRef identifies an invoice flipped to overdue by the sweep.
type OverdueRef struct {
	ID         uuid.UUID
	BusinessID uuid.UUID
}

// MarkOverdue flips sent invoices past their due date to overdue and returns
// the affected invoices so callers can publish status-change events.
func (r *Repository) MarkOverdue(ctx context.Context, now time.Time) ([]OverdueRef, error) {
	rows, err := r.pool.Query(ctx, `
		UPDATE invoices
		SET status = 'overdue', updated_at = now()
		WHERE status = 'sent' AND due_date IS NOT NULL AND due_date < $1
		RETURNING id, business_id
	`, now)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	refs := make([]OverdueRef, 0)
	for rows.Next() {
		var ref OverdueRef
		if err := rows.Scan(&ref.ID, &ref.BusinessID); err != nil {
			return nil, err
		}
		refs = append(refs, ref)
	}
	return refs, rows.Err()
}

func mapUniqueViolation(err error) error {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == "23505" {
		return ErrDuplicateNumber
	}
	return err
}
