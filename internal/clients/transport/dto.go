package transport

import (
	"time"

	"slingshot_backend/internal/clients/repository"
)

type CreateClientRequest struct {
	Name     string  `json:"name" validate:"required,max=200"`
	Industry *string `json:"industry" validate:"omitempty,max=100"`
	Status   string  `json:"status" validate:"omitempty,oneof=active inactive prospect"`
	Email    *string `json:"email" validate:"omitempty,email"`
	Phone    *string `json:"phone" validate:"omitempty,max=32"`
}

type UpdateClientRequest struct {
	Name     *string `json:"name" validate:"omitempty,max=200"`
	Industry *string `json:"industry" validate:"omitempty,max=100"`
	Status   *string `json:"status" validate:"omitempty,oneof=active inactive prospect"`
	Email    *string `json:"email" validate:"omitempty,email"`
	Phone    *string `json:"phone" validate:"omitempty,max=32"`
}

type ClientResponse struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Industry  *string   `json:"industry"`
	Status    string    `json:"status"`
	Email     *string   `json:"email"`
	Phone     *string   `json:"phone"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

func ToClientResponse(c repository.Client) ClientResponse {
	return ClientResponse{
		ID:        c.ID.String(),
		Name:      c.Name,
		Industry:  c.Industry,
		Status:    c.Status,
		Email:     c.Email,
		Phone:     c.Phone,
		CreatedAt: c.CreatedAt,
		UpdatedAt: c.UpdatedAt,
	}
}

func ToClientResponses(clients []repository.Client) []ClientResponse {
	responses := make([]ClientResponse, 0, len(clients))
	for _, c := range clients {
		responses = append(responses, ToClientResponse(c))
	}
	return responses
}
