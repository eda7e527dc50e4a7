package transport

import (
	"time"

	"slingshot_backend/internal/tasks/repository"

	"github.com/google/uuid"
)

type CreateTaskRequest struct {
	ProjectID   *uuid.UUID `json:"projectId"`
	Title       string     `json:"title" validate:"required,max=200"`
	Description *string    `json:"description" validate:"omitempty,max=2000"`
	Status      string     `json:"status" validate:"omitempty,oneof=todo in_progress done"`
	Priority    string     `json:"priority" validate:"omitempty,oneof=low medium high urgent"`
	DueDate     *time.Time `json:"dueDate"`
}

type UpdateTaskRequest struct {
	ProjectID   *uuid.UUID `json:"projectId"`
	Title       *string    `json:"title" validate:"omitempty,max=200"`
	Description *string    `json:"description" validate:"omitempty,max=2000"`
	Status      *string    `json:"status" validate:"omitempty,oneof=todo in_progress done"`
	Priority    *string    `json:"priority" validate:"omitempty,oneof=low medium high urgent"`
	DueDate     *time.Time `json:"dueDate"`
}

type TaskResponse struct {
	ID          string     `json:"id"`
	ProjectID   *string    `json:"projectId"`
	ProjectName *string    `json:"projectName"`
	Title       string     `json:"title"`
	Description *string    `json:"description"`
	Status      string     `json:"status"`
	Priority    string     `json:"priority"`
	DueDate     *time.Time `json:"dueDate"`
	CreatedAt   time.Time  `json:"createdAt"`
	UpdatedAt   time.Time  `json:"updatedAt"`
}

func ToTaskResponse(t repository.Task) TaskResponse {
	var projectID *string
	if t.ProjectID != nil {
		id := t.ProjectID.String()
		projectID = &id
	}

	return TaskResponse{
		ID:          t.ID.String(),
		ProjectID:   projectID,
		ProjectName: t.ProjectName,
		Title:       t.Title,
		Description: t.Description,
		Status:      t.Status,
		Priority:    t.Priority,
		DueDate:     t.DueDate,
		CreatedAt:   t.CreatedAt,
		UpdatedAt:   t.UpdatedAt,
	}
}

func ToTaskResponses(tasks []repository.Task) []TaskResponse {
	responses := make([]TaskResponse, 0, len(tasks))
	for _, t := range tasks {
		responses = append(responses, ToTaskResponse(t))
	}
	return responses
}
