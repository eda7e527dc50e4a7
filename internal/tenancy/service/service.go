package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"strings"
	"time"

	"slingshot_backend/internal/adapters/storage"
	"slingshot_backend/internal/auth"
	"slingshot_backend/internal/auth/token"
	"slingshot_backend/internal/events"
	"slingshot_backend/internal/tenancy/repository"
	"slingshot_backend/internal/tenancy/resolver"
	"slingshot_backend/platform/apperr"
	"slingshot_backend/platform/config"
	"slingshot_backend/platform/logger"

	"github.com/google/uuid"
	"github.com/gosimple/slug"
)

const (
	inviteTokenBytes = 32

	businessNotFound = "business not found"
	memberNotFound   = "member not found"
	inviteNotFound   = "invite not found"

	RoleOwner   = "owner"
	RoleAdmin   = "admin"
	RoleManager = "manager"
	RoleUser    = "user"
)

// rolePermissions are the per-role permission templates applied when a
// membership is created without explicit permissions.
var rolePermissions = map[string]map[string]bool{
	RoleOwner:   {"leads": true, "clients": true, "projects": true, "tasks": true, "invoices": true, "users": true, "settings": true},
	RoleAdmin:   {"leads": true, "clients": true, "projects": true, "tasks": true, "invoices": true, "users": true, "settings": true},
	RoleManager: {"leads": true, "clients": true, "projects": true, "tasks": true, "invoices": true, "users": false, "settings": false},
	RoleUser:    {"leads": true, "clients": true, "projects": true, "tasks": true, "invoices": false, "users": false, "settings": false},
}

func ValidRole(role string) bool {
	_, ok := rolePermissions[role]
	return ok
}

// DefaultPermissions returns the JSON permission template for a role.
func DefaultPermissions(role string) json.RawMessage {
	perms, ok := rolePermissions[role]
	if !ok {
		perms = rolePermissions[RoleUser]
	}
	raw, _ := json.Marshal(perms)
	return raw
}

type CreateBusinessInput struct {
	Name         string
	Slug         string
	Currency     string
	PrimaryColor string
	Domain       *string
	EmailDomain  *string
}

// Store is the data access the service needs, consumer-driven so tests can
// substitute fakes. *repository.Repository satisfies it.
type Store interface {
	CreateBusiness(ctx context.Context, name, slug, currency, primaryColor string, domain, emailDomain *string) (repository.Business, error)
	GetBusiness(ctx context.Context, businessID uuid.UUID) (repository.Business, error)
	UpdateBusiness(ctx context.Context, businessID uuid.UUID, update repository.BusinessUpdate) (repository.Business, error)
	SetBusinessLogoURL(ctx context.Context, businessID uuid.UUID, logoURL string) error
	SlugExists(ctx context.Context, slug string) (bool, error)
	AddMember(ctx context.Context, businessID, userID uuid.UUID, role, status string, permissions json.RawMessage) error
	ListMembers(ctx context.Context, businessID uuid.UUID) ([]repository.Member, error)
	GetMember(ctx context.Context, businessID, userID uuid.UUID) (repository.Member, error)
	UpdateMember(ctx context.Context, businessID, userID uuid.UUID, role, status *string, permissions json.RawMessage) error
	RemoveMember(ctx context.Context, businessID, userID uuid.UUID) error
	ActivateMember(ctx context.Context, businessID, userID uuid.UUID) error
	CreateInvite(ctx context.Context, businessID uuid.UUID, email, role, tokenHash string, expiresAt time.Time, createdBy uuid.UUID) (repository.Invite, error)
	GetInviteByToken(ctx context.Context, tokenHash string) (repository.Invite, error)
	UseInvite(ctx context.Context, inviteID, usedBy uuid.UUID) error
}

type Service struct {
	repo     Store
	sessions *resolver.Manager
	users    auth.UserProvider
	bus      events.Bus
	storage  storage.StorageService
	cfg      config.TenancyConfig
	log      *logger.Logger

	logoBucket string
}

func New(
	repo Store,
	sessions *resolver.Manager,
	users auth.UserProvider,
	bus events.Bus,
	storageSvc storage.StorageService,
	logoBucket string,
	cfg config.TenancyConfig,
	log *logger.Logger,
) *Service {
	return &Service{
		repo:       repo,
		sessions:   sessions,
		users:      users,
		bus:        bus,
		storage:    storageSvc,
		logoBucket: logoBucket,
		cfg:        cfg,
		log:        log,
	}
}

// Context resolves (or returns the cached) tenant context for the user.
// A failed resolution yields a degraded empty snapshot instead of an error so
// the shell can distinguish "resolution failed" from "zero tenants".
func (s *Service) Context(ctx context.Context, userID uuid.UUID) (resolver.Snapshot, bool) {
	sess, outcome := s.sessions.Session(ctx, userID)
	_, degraded := outcome.(resolver.Failed)
	return sess.Snapshot(), degraded
}

// SwitchBusiness changes the user's current tenant. The in-memory switch is
// synchronous; persistence happens in the background inside the session.
func (s *Service) SwitchBusiness(ctx context.Context, userID, businessID uuid.UUID) (repository.Business, error) {
	sess, outcome := s.sessions.Session(ctx, userID)
	if failed, ok := outcome.(resolver.Failed); ok {
		return repository.Business{}, apperr.Wrap(apperr.KindInternal, "tenant context unavailable", failed.Reason)
	}

	return sess.SetCurrentBusiness(ctx, businessID)
}

// ListBusinesses returns the caller's visible tenant set.
func (s *Service) ListBusinesses(ctx context.Context, userID uuid.UUID) ([]repository.Business, error) {
	sess, outcome := s.sessions.Session(ctx, userID)
	if failed, ok := outcome.(resolver.Failed); ok {
		return nil, apperr.Wrap(apperr.KindInternal, "tenant context unavailable", failed.Reason)
	}
	return sess.Snapshot().Businesses, nil
}

func (s *Service) CreateBusiness(ctx context.Context, userID uuid.UUID, input CreateBusinessInput) (repository.Business, error) {
	name := strings.TrimSpace(input.Name)
	if name == "" {
		return repository.Business{}, apperr.Validation("business name is required")
	}

	currency := input.Currency
	if currency == "" {
		currency = "USD"
	}
	primaryColor := input.PrimaryColor
	if primaryColor == "" {
		primaryColor = "#3b82f6"
	}

	businessSlug, err := s.uniqueSlug(ctx, input.Slug, name)
	if err != nil {
		return repository.Business{}, err
	}

	business, err := s.repo.CreateBusiness(ctx, name, businessSlug, currency, primaryColor, input.Domain, input.EmailDomain)
	if err != nil {
		return repository.Business{}, err
	}

	if err := s.repo.AddMember(ctx, business.ID, userID, RoleOwner, "active", DefaultPermissions(RoleOwner)); err != nil {
		return repository.Business{}, err
	}

	// A new business widens the visible set of every super-admin, not just
	// the creator, so every cached session has to re-resolve.
	s.sessions.InvalidateAll()

	s.bus.Publish(ctx, events.BusinessCreated{
		BaseEvent:  events.NewBaseEvent(),
		BusinessID: business.ID,
		Name:       business.Name,
		Slug:       business.Slug,
		CreatedBy:  userID,
	})

	return business, nil
}

// uniqueSlug derives a URL-safe slug from the requested slug or the business
// name, suffixing on collision.
func (s *Service) uniqueSlug(ctx context.Context, requested, name string) (string, error) {
	base := slug.Make(requested)
	if base == "" {
		base = slug.Make(name)
	}
	if base == "" {
		return "", apperr.Validation("business name does not produce a valid slug")
	}

	candidate := base
	for i := 2; ; i++ {
		exists, err := s.repo.SlugExists(ctx, candidate)
		if err != nil {
			return "", err
		}
		if !exists {
			return candidate, nil
		}
		candidate = fmt.Sprintf("%s-%d", base, i)
	}
}

func (s *Service) GetBusiness(ctx context.Context, userID, businessID uuid.UUID) (repository.Business, error) {
	if err := s.requireVisible(ctx, userID, businessID); err != nil {
		return repository.Business{}, err
	}

	business, err := s.repo.GetBusiness(ctx, businessID)
	if errors.Is(err, repository.ErrNotFound) {
		return repository.Business{}, apperr.NotFound(businessNotFound)
	}
	return business, err
}

func (s *Service) UpdateBusiness(ctx context.Context, userID, businessID uuid.UUID, update repository.BusinessUpdate) (repository.Business, error) {
	if err := s.requireRole(ctx, userID, businessID, RoleOwner, RoleAdmin); err != nil {
		return repository.Business{}, err
	}

	business, err := s.repo.UpdateBusiness(ctx, businessID, update)
	if errors.Is(err, repository.ErrNotFound) {
		return repository.Business{}, apperr.NotFound(businessNotFound)
	}
	if err != nil {
		return repository.Business{}, err
	}

	s.sessions.InvalidateAll()
	return business, nil
}

// UploadLogo stores the business logo in object storage and records its key.
func (s *Service) UploadLogo(ctx context.Context, userID, businessID uuid.UUID, fileName, contentType string, reader io.Reader, size int64) (string, error) {
	if err := s.requireRole(ctx, userID, businessID, RoleOwner, RoleAdmin); err != nil {
		return "", err
	}
	if s.storage == nil {
		return "", apperr.Internal("object storage not configured")
	}
	if err := s.storage.ValidateContentType(contentType); err != nil {
		return "", apperr.Validation(err.Error())
	}
	if err := s.storage.ValidateFileSize(size); err != nil {
		return "", apperr.Validation(err.Error())
	}

	fileKey, err := s.storage.UploadFile(ctx, s.logoBucket, businessID.String(), fileName, contentType, reader, size)
	if err != nil {
		return "", err
	}

	if err := s.repo.SetBusinessLogoURL(ctx, businessID, fileKey); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return "", apperr.NotFound(businessNotFound)
		}
		return "", err
	}

	s.sessions.InvalidateAll()
	return fileKey, nil
}

func (s *Service) ListMembers(ctx context.Context, userID, businessID uuid.UUID) ([]repository.Member, error) {
	if err := s.requireVisible(ctx, userID, businessID); err != nil {
		return nil, err
	}
	return s.repo.ListMembers(ctx, businessID)
}

// AddMember attaches an existing user (looked up by email) to the business.
func (s *Service) AddMember(ctx context.Context, actorID, businessID uuid.UUID, email, role string, permissions json.RawMessage) (repository.Member, error) {
	if err := s.requireRole(ctx, actorID, businessID, RoleOwner, RoleAdmin); err != nil {
		return repository.Member{}, err
	}
	if !ValidRole(role) {
		return repository.Member{}, apperr.Validation("invalid role")
	}

	user, err := s.users.GetUserByEmail(ctx, email)
	if err != nil {
		return repository.Member{}, apperr.NotFound("no account exists for that email; send an invite instead")
	}

	if permissions == nil {
		permissions = DefaultPermissions(role)
	}

	if err := s.repo.AddMember(ctx, businessID, user.ID, role, "active", permissions); err != nil {
		if errors.Is(err, repository.ErrDuplicateMember) {
			return repository.Member{}, apperr.Conflict("user is already a member of this business")
		}
		return repository.Member{}, err
	}

	s.sessions.Invalidate(user.ID)
	return s.repo.GetMember(ctx, businessID, user.ID)
}

func (s *Service) UpdateMember(ctx context.Context, actorID, businessID, memberUserID uuid.UUID, role, status *string, permissions json.RawMessage) (repository.Member, error) {
	if err := s.requireRole(ctx, actorID, businessID, RoleOwner, RoleAdmin); err != nil {
		return repository.Member{}, err
	}
	if role != nil && !ValidRole(*role) {
		return repository.Member{}, apperr.Validation("invalid role")
	}

	existing, err := s.repo.GetMember(ctx, businessID, memberUserID)
	if errors.Is(err, repository.ErrNotFound) {
		return repository.Member{}, apperr.NotFound(memberNotFound)
	}
	if err != nil {
		return repository.Member{}, err
	}
	if existing.Role == RoleOwner && role != nil && *role != RoleOwner {
		return repository.Member{}, apperr.Forbidden("owners cannot be demoted")
	}

	if err := s.repo.UpdateMember(ctx, businessID, memberUserID, role, status, permissions); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return repository.Member{}, apperr.NotFound(memberNotFound)
		}
		return repository.Member{}, err
	}

	s.sessions.Invalidate(memberUserID)
	return s.repo.GetMember(ctx, businessID, memberUserID)
}

func (s *Service) RemoveMember(ctx context.Context, actorID, businessID, memberUserID uuid.UUID) error {
	if err := s.requireRole(ctx, actorID, businessID, RoleOwner, RoleAdmin); err != nil {
		return err
	}

	member, err := s.repo.GetMember(ctx, businessID, memberUserID)
	if errors.Is(err, repository.ErrNotFound) {
		return apperr.NotFound(memberNotFound)
	}
	if err != nil {
		return err
	}
	if member.Role == RoleOwner {
		return apperr.Forbidden("owners cannot be removed")
	}

	if err := s.repo.RemoveMember(ctx, businessID, memberUserID); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return apperr.NotFound(memberNotFound)
		}
		return err
	}

	s.sessions.Invalidate(memberUserID)
	return nil
}

// CreateInvite issues a hashed invite token and publishes MemberInvited so
// the notification module can send the email.
func (s *Service) CreateInvite(ctx context.Context, actorID, businessID uuid.UUID, email, role string) (repository.Invite, error) {
	if err := s.requireRole(ctx, actorID, businessID, RoleOwner, RoleAdmin); err != nil {
		return repository.Invite{}, err
	}
	if !ValidRole(role) {
		return repository.Invite{}, apperr.Validation("invalid role")
	}

	rawToken, err := token.GenerateRandomToken(inviteTokenBytes)
	if err != nil {
		return repository.Invite{}, err
	}

	tokenHash := token.HashSHA256(rawToken)
	expiresAt := time.Now().Add(s.cfg.GetInviteTokenTTL())

	invite, err := s.repo.CreateInvite(ctx, businessID, email, role, tokenHash, expiresAt, actorID)
	if err != nil {
		return repository.Invite{}, err
	}

	business, err := s.repo.GetBusiness(ctx, businessID)
	if err != nil {
		return repository.Invite{}, err
	}

	s.bus.Publish(ctx, events.MemberInvited{
		BaseEvent:    events.NewBaseEvent(),
		BusinessID:   businessID,
		BusinessName: business.Name,
		Email:        email,
		Role:         role,
		InviteToken:  rawToken,
		InvitedBy:    actorID,
	})

	return invite, nil
}

// AcceptInvite redeems an invite token for the authenticated user. The invite
// email must match the user's account email.
func (s *Service) AcceptInvite(ctx context.Context, userID uuid.UUID, rawToken string) (repository.Business, error) {
	invite, err := s.repo.GetInviteByToken(ctx, token.HashSHA256(rawToken))
	if errors.Is(err, repository.ErrNotFound) {
		return repository.Business{}, apperr.NotFound(inviteNotFound)
	}
	if err != nil {
		return repository.Business{}, err
	}

	if invite.UsedAt != nil {
		return repository.Business{}, apperr.Gone("invite already used")
	}
	if time.Now().After(invite.ExpiresAt) {
		return repository.Business{}, apperr.Gone("invite expired")
	}

	user, err := s.users.GetUserByID(ctx, userID)
	if err != nil {
		return repository.Business{}, err
	}
	if !strings.EqualFold(user.Email, invite.Email) {
		return repository.Business{}, apperr.Forbidden("invite was issued for a different email")
	}

	if _, err := s.repo.GetMember(ctx, invite.BusinessID, userID); err == nil {
		if err := s.repo.ActivateMember(ctx, invite.BusinessID, userID); err != nil {
			return repository.Business{}, err
		}
	} else if errors.Is(err, repository.ErrNotFound) {
		if err := s.repo.AddMember(ctx, invite.BusinessID, userID, invite.Role, "active", DefaultPermissions(invite.Role)); err != nil {
			if errors.Is(err, repository.ErrDuplicateMember) {
				return repository.Business{}, apperr.Conflict("already a member of this business")
			}
			return repository.Business{}, err
		}
	} else {
		return repository.Business{}, err
	}

	if err := s.repo.UseInvite(ctx, invite.ID, userID); err != nil {
		return repository.Business{}, err
	}

	s.sessions.Invalidate(userID)
	return s.repo.GetBusiness(ctx, invite.BusinessID)
}

// requireVisible checks the business is in the caller's resolved visible set.
func (s *Service) requireVisible(ctx context.Context, userID, businessID uuid.UUID) error {
	sess, outcome := s.sessions.Session(ctx, userID)
	if failed, ok := outcome.(resolver.Failed); ok {
		return apperr.Wrap(apperr.KindInternal, "tenant context unavailable", failed.Reason)
	}
	for _, b := range sess.Snapshot().Businesses {
		if b.ID == businessID {
			return nil
		}
	}
	return apperr.NotFound(businessNotFound)
}

// requireRole allows super-admins through, otherwise checks the caller's
// membership role on the business.
func (s *Service) requireRole(ctx context.Context, userID, businessID uuid.UUID, roles ...string) error {
	if err := s.requireVisible(ctx, userID, businessID); err != nil {
		return err
	}

	sess, _ := s.sessions.Session(ctx, userID)
	if sess.Snapshot().IsSuperAdmin {
		return nil
	}

	member, err := s.repo.GetMember(ctx, businessID, userID)
	if errors.Is(err, repository.ErrNotFound) {
		return apperr.Forbidden("not a member of this business")
	}
	if err != nil {
		return err
	}

	for _, role := range roles {
		if member.Role == role {
			return nil
		}
	}
	return apperr.Forbidden("insufficient role")
}
