package transport

import (
	"time"

	"slingshot_backend/internal/projects/repository"

	"github.com/google/uuid"
)

type CreateProjectRequest struct {
	ClientID    *uuid.UUID `json:"clientId"`
	Name        string     `json:"name" validate:"required,max=200"`
	Description *string    `json:"description" validate:"omitempty,max=2000"`
	Status      string     `json:"status" validate:"omitempty,oneof=planning active on_hold completed cancelled"`
	StartDate   *time.Time `json:"startDate"`
	Deadline    *time.Time `json:"deadline"`
}

type UpdateProjectRequest struct {
	ClientID    *uuid.UUID `json:"clientId"`
	Name        *string    `json:"name" validate:"omitempty,max=200"`
	Description *string    `json:"description" validate:"omitempty,max=2000"`
	Status      *string    `json:"status" validate:"omitempty,oneof=planning active on_hold completed cancelled"`
	StartDate   *time.Time `json:"startDate"`
	Deadline    *time.Time `json:"deadline"`
}

type ProjectResponse struct {
	ID          string     `json:"id"`
	ClientID    *string    `json:"clientId"`
	ClientName  *string    `json:"clientName"`
	Name        string     `json:"name"`
	Description *string    `json:"description"`
	Status      string     `json:"status"`
	StartDate   *time.Time `json:"startDate"`
	Deadline    *time.Time `json:"deadline"`
	CreatedAt   time.Time  `json:"createdAt"`
	UpdatedAt   time.Time  `json:"updatedAt"`
}

func ToProjectResponse(p repository.Project) ProjectResponse {
	var clientID *string
	if p.ClientID != nil {
		id := p.ClientID.String()
		clientID = &id
	}

	return ProjectResponse{
		ID:          p.ID.String(),
		ClientID:    clientID,
		ClientName:  p.ClientName,
		Name:        p.Name,
		Description: p.Description,
		Status:      p.Status,
		StartDate:   p.StartDate,
		Deadline:    p.Deadline,
		CreatedAt:   p.CreatedAt,
		UpdatedAt:   p.UpdatedAt,
	}
}

func ToProjectResponses(projects []repository.Project) []ProjectResponse {
	responses := make([]ProjectResponse, 0, len(projects))
	for _, p := range projects {
		responses = append(responses, ToProjectResponse(p))
	}
	return responses
}
