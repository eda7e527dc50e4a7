package transport

import (
	"encoding/json"
	"time"

	"slingshot_backend/internal/tenancy/repository"
	"slingshot_backend/internal/tenancy/resolver"
)

type BusinessResponse struct {
	ID           string    `json:"id"`
	Name         string    `json:"name"`
	Slug         string    `json:"slug"`
	Domain       *string   `json:"domain"`
	EmailDomain  *string   `json:"emailDomain"`
	Currency     string    `json:"currency"`
	PrimaryColor string    `json:"primaryColor"`
	LogoURL      *string   `json:"logoUrl"`
	CreatedAt    time.Time `json:"createdAt"`
	UpdatedAt    time.Time `json:"updatedAt"`
}

func ToBusinessResponse(b repository.Business) BusinessResponse {
	return BusinessResponse{
		ID:           b.ID.String(),
		Name:         b.Name,
		Slug:         b.Slug,
		Domain:       b.Domain,
		EmailDomain:  b.EmailDomain,
		Currency:     b.Currency,
		PrimaryColor: b.PrimaryColor,
		LogoURL:      b.LogoURL,
		CreatedAt:    b.CreatedAt,
		UpdatedAt:    b.UpdatedAt,
	}
}

// ContextResponse is the resolved tenant context snapshot. Degraded is true
// when resolution failed and the empty snapshot is a fallback, letting the
// shell distinguish "no tenants" from "resolution failed".
type ContextResponse struct {
	Businesses      []BusinessResponse `json:"businesses"`
	CurrentBusiness *BusinessResponse  `json:"currentBusiness"`
	Loading         bool               `json:"loading"`
	IsSuperAdmin    bool               `json:"isSuperAdmin"`
	Degraded        bool               `json:"degraded"`
}

func ToContextResponse(snap resolver.Snapshot, degraded bool) ContextResponse {
	businesses := make([]BusinessResponse, 0, len(snap.Businesses))
	for _, b := range snap.Businesses {
		businesses = append(businesses, ToBusinessResponse(b))
	}

	var current *BusinessResponse
	if snap.CurrentBusiness != nil {
		resp := ToBusinessResponse(*snap.CurrentBusiness)
		current = &resp
	}

	return ContextResponse{
		Businesses:      businesses,
		CurrentBusiness: current,
		Loading:         snap.Loading,
		IsSuperAdmin:    snap.IsSuperAdmin,
		Degraded:        degraded,
	}
}

type SwitchBusinessRequest struct {
	BusinessID string `json:"businessId" validate:"required,uuid"`
}

type CreateBusinessRequest struct {
	Name         string  `json:"name" validate:"required,max=200"`
	Slug         string  `json:"slug" validate:"omitempty,max=200"`
	Currency     string  `json:"currency" validate:"omitempty,len=3"`
	PrimaryColor string  `json:"primaryColor" validate:"omitempty,hexcolor"`
	Domain       *string `json:"domain" validate:"omitempty,fqdn"`
	EmailDomain  *string `json:"emailDomain" validate:"omitempty,fqdn"`
}

type UpdateBusinessRequest struct {
	Name         *string `json:"name" validate:"omitempty,max=200"`
	Currency     *string `json:"currency" validate:"omitempty,len=3"`
	PrimaryColor *string `json:"primaryColor" validate:"omitempty,hexcolor"`
	Domain       *string `json:"domain" validate:"omitempty,fqdn"`
	EmailDomain  *string `json:"emailDomain" validate:"omitempty,fqdn"`
}

type MemberResponse struct {
	UserID      string          `json:"userId"`
	Email       string          `json:"email"`
	Role        string          `json:"role"`
	Status      string          `json:"status"`
	Permissions json.RawMessage `json:"permissions"`
	CreatedAt   time.Time       `json:"createdAt"`
}

func ToMemberResponse(m repository.Member) MemberResponse {
	return MemberResponse{
		UserID:      m.UserID.String(),
		Email:       m.Email,
		Role:        m.Role,
		Status:      m.Status,
		Permissions: m.Permissions,
		CreatedAt:   m.CreatedAt,
	}
}

type AddMemberRequest struct {
	Email       string          `json:"email" validate:"required,email"`
	Role        string          `json:"role" validate:"required,oneof=owner admin manager user"`
	Permissions json.RawMessage `json:"permissions"`
}

type UpdateMemberRequest struct {
	Role        *string         `json:"role" validate:"omitempty,oneof=owner admin manager user"`
	Status      *string         `json:"status" validate:"omitempty,oneof=active inactive"`
	Permissions json.RawMessage `json:"permissions"`
}

type CreateInviteRequest struct {
	Email string `json:"email" validate:"required,email"`
	Role  string `json:"role" validate:"required,oneof=admin manager user"`
}

type InviteResponse struct {
	ID        string    `json:"id"`
	Email     string    `json:"email"`
	Role      string    `json:"role"`
	ExpiresAt time.Time `json:"expiresAt"`
}

func ToInviteResponse(i repository.Invite) InviteResponse {
	return InviteResponse{
		ID:        i.ID.String(),
		Email:     i.Email,
		Role:      i.Role,
		ExpiresAt: i.ExpiresAt,
	}
}

type AcceptInviteRequest struct {
	Token string `json:"token" validate:"required"`
}

type LogoResponse struct {
	LogoURL string `json:"logoUrl"`
}
