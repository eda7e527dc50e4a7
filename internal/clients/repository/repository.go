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

type Client struct {
	ID         uuid.UUID
	BusinessID uuid.UUID
	Name       string
	Industry   *string
	Status     string
	Email      *string
	Phone      *string
	CreatedAt  time.Time
	UpdatedAt  time.Time
}

type ClientUpdate struct {
	Name     *string
	Industry *string
	Status   *string
	Email    *string
	Phone    *string
}

type ListFilter struct {
	Search string
	Status string
}

const clientColumns = `id, business_id, name, industry, status, email, phone, created_at, updated_at`

const listClientsQuery = `
	SELECT ` + clientColumns + `
	FROM clients
	WHERE business_id = $1
	  AND ($2 = '' OR name ILIKE '%' || $2 || '%')
	  AND ($3 = '' OR status = $3)
	ORDER BY name ASC
`

func scanClient(row pgx.Row) (Client, error) {
	var c Client
	err := row.Scan(
		&c.ID,
		&c.BusinessID,
		&c.Name,
		&c.Industry,
		&c.Status,
		&c.Email,
		&c.Phone,
		&c.CreatedAt,
		&c.UpdatedAt,
	)
	return c, err
}

func (r *Repository) List(ctx context.Context, businessID uuid.UUID, filter ListFilter) ([]Client, error) {
	rows, err := r.pool.Query(ctx, listClientsQuery, businessID, filter.Search, filter.Status)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	clients := make([]Client, 0)
	for rows.Next() {
		c, err := scanClient(rows)
		if err != nil {
			return nil, err
		}
		clients = append(clients, c)
	}
	return clients, rows.Err()
}

func (r *Repository) Get(ctx context.Context, businessID, clientID uuid.UUID) (Client, error) {
	c, err := scanClient(r.pool.QueryRow(ctx, `
		SELECT `+clientColumns+`
		FROM clients
		WHERE business_id = $1 AND id = $2
	`, businessID, clientID))
	if errors.Is(err, pgx.ErrNoRows) {
		return Client{}, ErrNotFound
	}
	return c, err
}

func (r *Repository) Create(ctx context.Context, businessID uuid.UUID, client Client) (Client, error) {
	return scanClient(r.pool.QueryRow(ctx, `
		INSERT INTO clients (business_id, name, industry, status, email, phone)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING `+clientColumns+`
	`, businessID, client.Name, client.Industry, client.Status, client.Email, client.Phone))
}

func (r *Repository) Update(ctx context.Context, businessID, clientID uuid.UUID, update ClientUpdate) (Client, error) {
	c, err := scanClient(r.pool.QueryRow(ctx, `
		UPDATE clients
		SET name = COALESCE($3, name),
		    industry = COALESCE($4, industry),
		    status = COALESCE($5, status),
		    email = COALESCE($6, email),
		    phone = COALESCE($7, phone),
		    updated_at = now()
		WHERE business_id = $1 AND id = $2
		RETURNING `+clientColumns+`
	`, businessID, clientID, update.Name, update.Industry, update.Status, update.Email, update.Phone))
	if errors.Is(err, pgx.ErrNoRows) {
		return Client{}, ErrNotFound
	}
	return c, err
}

func (r *Repository) Delete(ctx context.Context, businessID, clientID uuid.UUID) error {
	tag, err := r.pool.Exec(ctx, `
		DELETE FROM clients
		WHERE business_id = $1 AND id = $2
	`, businessID, clientID)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}
