package transport

import (
	"time"

	"slingshot_backend/internal/leads/repository"
)

type CreateLeadRequest struct {
	Name           string   `json:"name" validate:"required,max=200"`
	Company        *string  `json:"company" validate:"omitempty,max=200"`
	Email          *string  `json:"email" validate:"omitempty,email"`
	Phone          *string  `json:"phone" validate:"omitempty,max=32"`
	Source         *string  `json:"source" validate:"omitempty,max=100"`
	Status         string   `json:"status" validate:"omitempty,oneof=new contacted talking proposal won lost"`
	EstimatedValue *float64 `json:"estimatedValue" validate:"omitempty,gte=0"`
}

type UpdateLeadRequest struct {
	Name           *string  `json:"name" validate:"omitempty,max=200"`
	Company        *string  `json:"company" validate:"omitempty,max=200"`
	Email          *string  `json:"email" validate:"omitempty,email"`
	Phone          *string  `json:"phone" validate:"omitempty,max=32"`
	Source         *string  `json:"source" validate:"omitempty,max=100"`
	Status         *string  `json:"status" validate:"omitempty,oneof=new contacted talking proposal won lost"`
	EstimatedValue *float64 `json:"estimatedValue" validate:"omitempty,gte=0"`
}

type LeadResponse struct {
	ID             string    `json:"id"`
	Name           string    `json:"name"`
	Company        *string   `json:"company"`
	Email          *string   `json:"email"`
	Phone          *string   `json:"phone"`
	Source         *string   `json:"source"`
	Status         string    `json:"status"`
	EstimatedValue *float64  `json:"estimatedValue"`
	CreatedAt      time.Time `json:"createdAt"`
	UpdatedAt      time.Time `json:"updatedAt"`
}

func ToLeadResponse(l repository.Lead) LeadResponse {
	return LeadResponse{
		ID:             l.ID.String(),
		Name:           l.Name,
		Company:        l.Company,
		Email:          l.Email,
		Phone:          l.Phone,
		Source:         l.Source,
		Status:         l.Status,
		EstimatedValue: l.EstimatedValue,
		CreatedAt:      l.CreatedAt,
		UpdatedAt:      l.UpdatedAt,
	}
}

func ToLeadResponses(leads []repository.Lead) []LeadResponse {
	responses := make([]LeadResponse, 0, len(leads))
	for _, l := range leads {
		responses = append(responses, ToLeadResponse(l))
	}
	return responses
}
