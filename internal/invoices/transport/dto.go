package transport

import (
	"time"

	"slingshot_backend/internal/invoices/repository"

	"github.com/google/uuid"
)

type CreateInvoiceRequest struct {
	ClientID      *uuid.UUID `json:"clientId"`
	InvoiceNumber string     `json:"invoiceNumber" validate:"required,max=100"`
	Amount        float64    `json:"amount" validate:"gte=0"`
	Status        string     `json:"status" validate:"omitempty,oneof=draft sent paid overdue"`
	IssueDate     *time.Time `json:"issueDate"`
	DueDate       *time.Time `json:"dueDate"`
}

type UpdateInvoiceRequest struct {
	ClientID      *uuid.UUID `json:"clientId"`
	InvoiceNumber *string    `json:"invoiceNumber" validate:"omitempty,max=100"`
	Amount        *float64   `json:"amount" validate:"omitempty,gte=0"`
	Status        *string    `json:"status" validate:"omitempty,oneof=draft sent paid overdue"`
	IssueDate     *time.Time `json:"issueDate"`
	DueDate       *time.Time `json:"dueDate"`
}

type InvoiceResponse struct {
	ID            string     `json:"id"`
	ClientID      *string    `json:"clientId"`
	ClientName    *string    `json:"clientName"`
	InvoiceNumber string     `json:"invoiceNumber"`
	Amount        float64    `json:"amount"`
	Status        string     `json:"status"`
	IssueDate     time.Time  `json:"issueDate"`
	DueDate       *time.Time `json:"dueDate"`
	CreatedAt     time.Time  `json:"createdAt"`
	UpdatedAt     time.Time  `json:"updatedAt"`
}

func ToInvoiceResponse(inv repository.Invoice) InvoiceResponse {
	var clientID *string
	if inv.ClientID != nil {
		id := inv.ClientID.String()
		clientID = &id
	}

	return InvoiceResponse{
		ID:            inv.ID.String(),
		ClientID:      clientID,
		ClientName:    inv.ClientName,
		InvoiceNumber: inv.InvoiceNumber,
		Amount:        inv.Amount,
		Status:        inv.Status,
		IssueDate:     inv.IssueDate,
		DueDate:       inv.DueDate,
		CreatedAt:     inv.CreatedAt,
		UpdatedAt:     inv.UpdatedAt,
	}
}

func ToInvoiceResponses(invoices []repository.Invoice) []InvoiceResponse {
	responses := make([]InvoiceResponse, 0, len(invoices))
	for _, inv := range invoices {
		responses = append(responses, ToInvoiceResponse(inv))
	}
	return responses
}
