package repository

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

var ErrNotFound = errors.New("not found")

type Repository struct {
	pool *pgxpool.Pool
}

func New(pool *pgxpool.Pool) *Repository {
	return &Repository{pool: pool}
}

type Lead struct {
	ID             uuid.UUID
	BusinessID     uuid.UUID
	Name           string
	Company        *string
	Email          *string
	Phone          *string
	Source         *string
	Status         string
	EstimatedValue *float64
	CreatedAt      time.Time
	UpdatedAt      time.Time
}

type LeadUpdate struct {
	Name           *string
	Company        *string
	Email          *string
	Phone          *string
	Source         *string
	Status         *string
	EstimatedValue *float64
}

type ListFilter struct {
	Search string
	Status string
}

const leadColumns = `id, business_id, name, company, email, phone, source, status, estimated_value, created_at, updated_at`

const listLeadsQuery = `
	SELECT ` + leadColumns + `
	FROM leads
	WHERE business_id = $1
	  AND ($2 = '' OR name ILIKE '%' || $2 || '%' OR company ILIKE '%' || $2 || '%')
	  AND ($3 = '' OR status = $3)
	ORDER BY created_at DESC
`

func scanLead(row pgx.Row) (Lead, error) {
	var l Lead
	err := row.Scan(
		&l.ID,
		&l.BusinessID,
		&l.Name,
		&l.Company,
		&l.Email,
		&l.Phone,
		&l.Source,
		&l.Status,
		&l.EstimatedValue,
		&l.CreatedAt,
		&l.UpdatedAt,
	)
	return l, err
}

func (r *Repository) List(ctx context.Context, businessID uuid.UUID, filter ListFilter) ([]Lead, error) {
	rows, err := r.pool.Query(ctx, listLeadsQuery, businessID, filter.Search, filter.Status)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	leads := make([]Lead, 0)
	for rows.Next() {
		l, err := scanLead(rows)
		if err != nil {
			return nil, err
		}
		leads = append(leads, l)
	}
	return leads, rows.Err()
}

func (r *Repository) Get(ctx context.Context, businessID, leadID uuid.UUID) (Lead, error) {
	l, err := scanLead(r.pool.QueryRow(ctx, `
		SELECT `+leadColumns+`
		FROM leads
		WHERE business_id = $1 AND id = $2
	`, businessID, leadID))
	if errors.Is(err, pgx.ErrNoRows) {
		return Lead{}, ErrNotFound
	}
	return l, err
}

func (r *Repository) Create(ctx context.Context, businessID uuid.UUID, lead Lead) (Lead, error) {
	return scanLead(r.pool.QueryRow(ctx, `
		INSERT INTO leads (business_id, name, company, email, phone, source, status, estimated_value)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		RETURNING `+leadColumns+`
	`, businessID, lead.Name, lead.Company, lead.Email, lead.Phone, lead.Source, lead.Status, lead.EstimatedValue))
}

func (r *Repository) Update(ctx context.Context, businessID, leadID uuid.UUID, update LeadUpdate) (Lead, error) {
	l, err := scanLead(r.pool.QueryRow(ctx, `
		UPDATE leads
		SET name = COALESCE($3, name),
		    company = COALESCE($4, company),
		    email = COALESCE($5, email),
		    phone = COALESCE($6, phone),
		    source = COALESCE($7, source),
		    status = COALESCE($8, status),
		    estimated_value = COALESCE($9, estimated_value),
		    updated_at = now()
		WHERE business_id = $1 AND id = $2
		RETURNING `+leadColumns+`
	`, businessID, leadID, update.Name, update.Company, update.Email, update.Phone, update.Source, update.Status, update.EstimatedValue))
	if errors.Is(err, pgx.ErrNoRows) {
		return Lead{}, ErrNotFound
	}
	return l, err
}

func (r *Repository) Delete(ctx context.Context, businessID, leadID uuid.UUID) error {
	tag, err := r.pool.Exec(ctx, `
		DELETE FROM leads
		WHERE business_id = $1 AND id = $2
	`, businessID, leadID)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}
