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

type Project struct {
	ID          uuid.UUID
	BusinessID  uuid.UUID
	ClientID    *uuid.UUID
	ClientName  *string
	Name        string
	Description *string
	Status      string
	StartDate   *time.Time
	Deadline    *time.Time
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

type ProjectUpdate struct {
	ClientID    *uuid.UUID
	Name        *string
	Description *string
	Status      *string
	StartDate   *time.Time
	Deadline    *time.Time
}

type ListFilter struct {
	Search   string
	Status   string
	ClientID *uuid.UUID
}

const listProjectsQuery = `
	SELECT p.id, p.business_id, p.client_id, c.name, p.name, p.description, p.status, p.start_date, p.deadline, p.created_at, p.updated_at
	FROM projects p
	LEFT JOIN clients c ON c.id = p.client_id
	WHERE p.business_id = $1
	  AND ($2 = '' OR p.name ILIKE '%' || $2 || '%')
	  AND ($3 = '' OR p.status = $3)
	  AND ($4::uuid IS NULL OR p.client_id = $4)
	ORDER BY p.created_at DESC
`

func scanProject(row pgx.Row) (Project, error) {
	var p Project
	err := row.Scan(
		&p.ID,
		&p.BusinessID,
		&p.ClientID,
		&p.ClientName,
		&p.Name,
		&p.Description,
		&p.Status,
		&p.StartDate,
		&p.Deadline,
		&p.CreatedAt,
		&p.UpdatedAt,
	)
	return p, err
}

func (r *Repository) List(ctx context.Context, businessID uuid.UUID, filter ListFilter) ([]Project, error) {
	rows, err := r.pool.Query(ctx, listProjectsQuery, businessID, filter.Search, filter.Status, filter.ClientID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	projects := make([]Project, 0)
	for rows.Next() {
		p, err := scanProject(rows)
		if err != nil {
			return nil, err
		}
		projects = append(projects, p)
	}
	return projects, rows.Err()
}

func (r *Repository) Get(ctx context.Context, businessID, projectID uuid.UUID) (Project, error) {
	p, err := scanProject(r.pool.QueryRow(ctx, `
		SELECT p.id, p.business_id, p.client_id, c.name, p.name, p.description, p.status, p.start_date, p.deadline, p.created_at, p.updated_at
		FROM projects p
		LEFT JOIN clients c ON c.id = p.client_id
		WHERE p.business_id = $1 AND p.id = $2
	`, businessID, projectID))
	if errors.Is(err, pgx.ErrNoRows) {
		return Project{}, ErrNotFound
	}
	return p, err
}

func (r *Repository) Create(ctx context.Context, businessID uuid.UUID, project Project) (Project, error) {
	var id uuid.UUID
	err := r.pool.QueryRow(ctx, `
		INSERT INTO projects (business_id, client_id, name, description, status, start_date, deadline)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING id
	`, businessID, project.ClientID, project.Name, project.Description, project.Status, project.StartDate, project.Deadline).Scan(&id)
	if err != nil {
		return Project{}, err
	}
	return r.Get(ctx, businessID, id)
}

func (r *Repository) Update(ctx context.Context, businessID, projectID uuid.UUID, update ProjectUpdate) (Project, error) {
	tag, err := r.pool.Exec(ctx, `
		UPDATE projects
		SET client_id = COALESCE($3, client_id),
		    name = COALESCE($4, name),
		    description = COALESCE($5, description),
		    status = COALESCE($6, status),
		    start_date = COALESCE($7, start_date),
		    deadline = COALESCE($8, deadline),
		    updated_at = now()
		WHERE business_id = $1 AND id = $2
	`, businessID, projectID, update.ClientID, update.Name, update.Description, update.Status, update.StartDate, update.Deadline)
	if err != nil {
		return Project{}, err
	}
	if tag.RowsAffected() == 0 {
		return Project{}, ErrNotFound
	}
	return r.Get(ctx, businessID, projectID)
}

func (r *Repository) Delete(ctx context.Context, businessID, projectID uuid.UUID) error {
	tag, err := r.pool.Exec(ctx, `
		DELETE FROM projects
		WHERE business_id = $1 AND id = $2
	`, businessID, projectID)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

// ClientExists verifies a client id belongs to the same business before a
// project references it.
func (r *Repository) ClientExists(ctx context.Context, businessID, clientID uuid.UUID) (bool, error) {
	var exists bool
	err := r.pool.QueryRow(ctx, `
		SELECT EXISTS (SELECT 1 FROM clients WHERE business_id = $1 AND id = $2)
	`, businessID, clientID).Scan(&exists)
	return exists, err
}
