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

type Task struct {
	ID          uuid.UUID
	BusinessID  uuid.UUID
	ProjectID   *uuid.UUID
	ProjectName *string
	Title       string
	Description *string
	Status      string
	Priority    string
	DueDate     *time.Time
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

type TaskUpdate struct {
	ProjectID   *uuid.UUID
	Title       *string
	Description *string
	Status      *string
	Priority    *string
	DueDate     *time.Time
}

type ListFilter struct {
	Search    string
	Status    string
	Priority  string
	ProjectID *uuid.UUID
}

const listTasksQuery = `
	SELECT t.id, t.business_id, t.project_id, p.name, t.title, t.description, t.status, t.priority, t.due_date, t.created_at, t.updated_at
	FROM tasks t
	LEFT JOIN projects p ON p.id = t.project_id
	WHERE t.business_id = $1
	  AND ($2 = '' OR t.title ILIKE '%' || $2 || '%')
	  AND ($3 = '' OR t.status = $3)
	  AND ($4 = '' OR t.priority = $4)
	  AND ($5::uuid IS NULL OR t.project_id = $5)
	ORDER BY t.created_at DESC
`

func scanTask(row pgx.Row) (Task, error) {
	var t Task
	err := row.Scan(
		&t.ID,
		&t.BusinessID,
		&t.ProjectID,
		&t.ProjectName,
		&t.Title,
		&t.Description,
		&t.Status,
		&t.Priority,
		&t.DueDate,
		&t.CreatedAt,
		&t.UpdatedAt,
	)
	return t, err
}

func (r *Repository) List(ctx context.Context, businessID uuid.UUID, filter ListFilter) ([]Task, error) {
	rows, err := r.pool.Query(ctx, listTasksQuery, businessID, filter.Search, filter.Status, filter.Priority, filter.ProjectID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	tasks := make([]Task, 0)
	for rows.Next() {
		t, err := scanTask(rows)
		if err != nil {
			return nil, err
		}
		tasks = append(tasks, t)
	}
	return tasks, rows.Err()
}

func (r *Repository) Get(ctx context.Context, businessID, taskID uuid.UUID) (Task, error) {
	t, err := scanTask(r.pool.QueryRow(ctx, `
		SELECT t.id, t.business_id, t.project_id, p.name, t.title, t.description, t.status, t.priority, t.due_date, t.created_at, t.updated_at
		FROM tasks t
		LEFT JOIN projects p ON p.id = t.project_id
		WHERE t.business_id = $1 AND t.id = $2
	`, businessID, taskID))
	if errors.Is(err, pgx.ErrNoRows) {
		return Task{}, ErrNotFound
	}
	return t, err
}

func (r *Repository) Create(ctx context.Context, businessID uuid.UUID, task Task) (Task, error) {
	var id uuid.UUID
	err := r.pool.QueryRow(ctx, `
		INSERT INTO tasks (business_id, project_id, title, description, status, priority, due_date)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING id
	`, businessID, task.ProjectID, task.Title, task.Description, task.Status, task.Priority, task.DueDate).Scan(&id)
	if err != nil {
		return Task{}, err
	}
	return r.Get(ctx, businessID, id)
}

func (r *Repository) Update(ctx context.Context, businessID, taskID uuid.UUID, update TaskUpdate) (Task, error) {
	tag, err := r.pool.Exec(ctx, `
		UPDATE tasks
		SET project_id = COALESCE($3, project_id),
		    title = COALESCE($4, title),
		    description = COALESCE($5, description),
		    status = COALESCE($6, status),
		    priority = COALESCE($7, priority),
		    due_date = COALESCE($8, due_date),
		    updated_at = now()
		WHERE business_id = $1 AND id = $2
	`, businessID, taskID, update.ProjectID, update.Title, update.Description, update.Status, update.Priority, update.DueDate)
	if err != nil {
		return Task{}, err
	}
	if tag.RowsAffected() == 0 {
		return Task{}, ErrNotFound
	}
	return r.Get(ctx, businessID, taskID)
}

func (r *Repository) Delete(ctx context.Context, businessID, taskID uuid.UUID) error {
	tag, err := r.pool.Exec(ctx, `
		DELETE FROM tasks
		WHERE business_id = $1 AND id = $2
	`, businessID, taskID)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

// ProjectExists verifies a project id belongs to the same business before a
// task references it.
func (r *Repository) ProjectExists(ctx context.Context, businessID, projectID uuid.UUID) (bool, error) {
	var exists bool
	err := r.pool.QueryRow(ctx, `
		SELECT EXISTS (SELECT 1 FROM projects WHERE business_id = $1 AND id = $2)
	`, businessID, projectID).Scan(&exists)
	return exists, err
}
