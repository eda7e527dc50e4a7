// Package events provides domain event definitions for decoupled,
// event-driven communication between modules.
// Infrastructure (Bus, Handler) is in platform/events.
package events

import (
	"slingshot_backend/platform/events"

	"github.com/google/uuid"
)

// Re-export platform types for convenience
type (
	Event       = events.Event
	Bus         = events.Bus
	Handler     = events.Handler
	HandlerFunc = events.HandlerFunc
	BaseEvent   = events.BaseEvent
)

// Re-export platform functions
var NewBaseEvent = events.NewBaseEvent

// UserSignedUp is published when a new user successfully registers.
type UserSignedUp struct {
	BaseEvent
	UserID      uuid.UUID `json:"userId"`
	Email       string    `json:"email"`
	VerifyToken string    `json:"verifyToken"`
}

func (e UserSignedUp) EventName() string { return "auth.user.signed_up" }

// PasswordResetRequested is published when a user requests a password reset.
type PasswordResetRequested struct {
	BaseEvent
	UserID     uuid.UUID `json:"userId"`
	Email      string    `json:"email"`
	ResetToken string    `json:"resetToken"`
}

func (e PasswordResetRequested) EventName() string { return "auth.password.reset_requested" }

// BusinessCreated is published when a new business (tenant) is created.
type BusinessCreated struct {
	BaseEvent
	BusinessID uuid.UUID `json:"businessId"`
	Name       string    `json:"name"`
	Slug       string    `json:"slug"`
	CreatedBy  uuid.UUID `json:"createdBy"`
}

func (e BusinessCreated) EventName() string { return "tenancy.business.created" }

// MemberInvited is published when a user is invited to a business.
type MemberInvited struct {
	BaseEvent
	BusinessID   uuid.UUID `json:"businessId"`
	BusinessName string    `json:"businessName"`
	Email        string    `json:"email"`
	Role         string    `json:"role"`
	InviteToken  string    `json:"inviteToken"`
	InvitedBy    uuid.UUID `json:"invitedBy"`
}

func (e MemberInvited) EventName() string { return "tenancy.member.invited" }

// InvoiceStatusChanged is published when an invoice moves between statuses,
// including the overdue sweep performed by the scheduler.
type InvoiceStatusChanged struct {
	BaseEvent
	InvoiceID  uuid.UUID `json:"invoiceId"`
	BusinessID uuid.UUID `json:"businessId"`
	OldStatus  string    `json:"oldStatus"`
	NewStatus  string    `json:"newStatus"`
}

func (e InvoiceStatusChanged) EventName() string { return "invoices.status.changed" }
