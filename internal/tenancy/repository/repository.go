package repository

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

var (
	ErrNotFound        = errors.New("not found")
	ErrDuplicateMember = errors.New("duplicate member")
)

type Repository struct {
	pool *pgxpool.Pool
}

func New(pool *pgxpool.Pool) *Repository {
	return &Repository{pool: pool}
}

type Business struct {
	ID           uuid.UUID
	Name         string
	Slug         string
	Domain       *string
	EmailDomain  *string
	Currency     string
	PrimaryColor string
	LogoURL      *string
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

type Member struct {
	ID          uuid.UUID
	BusinessID  uuid.UUID
	UserID      uuid.UUID
	Email       string
	Role        string
	Status      string
	Permissions json.RawMessage
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

type Invite struct {
	ID         uuid.UUID
	BusinessID uuid.UUID
	Email      string
	Role       string
	TokenHash  string
	ExpiresAt  time.Time
	CreatedBy  uuid.UUID
	CreatedAt  time.Time
	UsedAt     *time.Time
	UsedBy     *uuid.UUID
}

type BusinessUpdate struct {
	Name         *string
	Domain       *string
	EmailDomain  *string
	Currency     *string
	PrimaryColor *string
}

const businessColumns = `id, name, slug, domain, email_domain, currency, primary_color, logo_url, created_at, updated_at`

func scanBusiness(row pgx.Row) (Business, error) {
	var b Business
	err := row.Scan(
		&b.ID,
		&b.Name,
		&b.Slug,
		&b.Domain,
		&b.EmailDomain,
		&b.Currency,
		&b.PrimaryColor,
		&b.LogoURL,
		&b.CreatedAt,
		&b.UpdatedAt,
	)
	return b, err
}

// IsSuperAdmin performs an existence check against the super_admins table.
func (r *Repository) IsSuperAdmin(ctx context.Context, userID uuid.UUID) (bool, error) {
	var exists bool
	err := r.pool.QueryRow(ctx, `
		SELECT EXISTS (SELECT 1 FROM super_admins WHERE user_id = $1)
	`, userID).Scan(&exists)
	return exists, err
}

// ListAllBusinesses returns every business ordered by name ascending.
// Only meaningful for super-admin callers.
func (r *Repository) ListAllBusinesses(ctx context.Context) ([]Business, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT `+businessColumns+`
		FROM businesses
		ORDER BY name ASC
	`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	return collectBusinesses(rows)
}

const listActiveBusinessesForUserQuery = `
	SELECT b.id, b.name, b.slug, b.domain, b.email_domain, b.currency, b.primary_color, b.logo_url, b.created_at, b.updated_at
	FROM business_users bu
	JOIN businesses b ON b.id = bu.business_id
	WHERE bu.user_id = $1 AND bu.status = 'active'
	ORDER BY bu.created_at ASC
`

// ListActiveBusinessesForUser returns the businesses joined through the
// user's active memberships, in membership insertion order.
func (r *Repository) ListActiveBusinessesForUser(ctx context.Context, userID uuid.UUID) ([]Business, error) {
	rows, err := r.pool.Query(ctx, listActiveBusinessesForUserQuery, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	return collectBusinesses(rows)
}

func collectBusinesses(rows pgx.Rows) ([]Business, error) {
	businesses := make([]Business, 0)
	for rows.Next() {
		b, err := scanBusiness(rows)
		if err != nil {
			return nil, err
		}
		businesses = append(businesses, b)
	}
	return businesses, rows.Err()
}

// GetCurrentBusinessID reads the user's persisted tenant selection.
// Returns nil (not ErrNotFound) when no profile row exists yet.
func (r *Repository) GetCurrentBusinessID(ctx context.Context, userID uuid.UUID) (*uuid.UUID, error) {
	var current *uuid.UUID
	err := r.pool.QueryRow(ctx, `
		SELECT current_business_id FROM user_profiles WHERE user_id = $1
	`, userID).Scan(&current)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	return current, err
}

// UpsertCurrentBusiness lazily creates the profile row on first selection.
func (r *Repository) UpsertCurrentBusiness(ctx context.Context, userID, businessID uuid.UUID) error {
	_, err := r.pool.Exec(ctx, `
		INSERT INTO user_profiles (user_id, current_business_id)
		VALUES ($1, $2)
		ON CONFLICT (user_id) DO UPDATE
		SET current_business_id = EXCLUDED.current_business_id, updated_at = now()
	`, userID, businessID)
	return err
}

func (r *Repository) CreateBusiness(ctx context.Context, name, slug, currency, primaryColor string, domain, emailDomain *string) (Business, error) {
	return scanBusiness(r.pool.QueryRow(ctx, `
		INSERT INTO businesses (name, slug, currency, primary_color, domain, email_domain)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING `+businessColumns+`
	`, name, slug, currency, primaryColor, domain, emailDomain))
}

func (r *Repository) GetBusiness(ctx context.Context, businessID uuid.UUID) (Business, error) {
	b, err := scanBusiness(r.pool.QueryRow(ctx, `
		SELECT `+businessColumns+`
		FROM businesses
		WHERE id = $1
	`, businessID))
	if errors.Is(err, pgx.ErrNoRows) {
		return Business{}, ErrNotFound
	}
	return b, err
}

func (r *Repository) UpdateBusiness(ctx context.Context, businessID uuid.UUID, update BusinessUpdate) (Business, error) {
	b, err := scanBusiness(r.pool.QueryRow(ctx, `
		UPDATE businesses
		SET name = COALESCE($2, name),
		    domain = COALESCE($3, domain),
		    email_domain = COALESCE($4, email_domain),
		    currency = COALESCE($5, currency),
		    primary_color = COALESCE($6, primary_color),
		    updated_at = now()
		WHERE id = $1
		RETURNING `+businessColumns+`
	`, businessID, update.Name, update.Domain, update.EmailDomain, update.Currency, update.PrimaryColor))
	if errors.Is(err, pgx.ErrNoRows) {
		return Business{}, ErrNotFound
	}
	return b, err
}

func (r *Repository) SetBusinessLogoURL(ctx context.Context, businessID uuid.UUID, logoURL string) error {
	tag, err := r.pool.Exec(ctx, `
		UPDATE businesses SET logo_url = $2, updated_at = now()
		WHERE id = $1
	`, businessID, logoURL)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *Repository) SlugExists(ctx context.Context, slug string) (bool, error) {
	var exists bool
	err := r.pool.QueryRow(ctx, `
		SELECT EXISTS (SELECT 1 FROM businesses WHERE slug = $1)
	`, slug).Scan(&exists)
	return exists, err
}

func (r *Repository) AddMember(ctx context.Context, businessID, userID uuid.UUID, role, status string, permissions json.RawMessage) error {
	_, err := r.pool.Exec(ctx, `
		INSERT INTO business_users (business_id, user_id, role, status, permissions)
		VALUES ($1, $2, $3, $4, $5)
	`, businessID, userID, role, status, permissions)
	return mapUniqueViolation(err)
}

// mapUniqueViolation translates the unique (business_id, user_id) constraint
// into ErrDuplicateMember so the service can return a conflict.
func mapUniqueViolation(err error) error {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == "23505" {
		return ErrDuplicateMember
	}
	return err
}

const listMembersQuery = `
	SELECT bu.id, bu.business_id, bu.user_id, u.email, bu.role, bu.status, bu.permissions, bu.created_at, bu.updated_at
	FROM business_users bu
	JOIN users u ON u.id = bu.user_id
	WHERE bu.business_id = $1
	ORDER BY bu.created_at ASC
`

func (r *Repository) ListMembers(ctx context.Context, businessID uuid.UUID) ([]Member, error) {
	rows, err := r.pool.Query(ctx, listMembersQuery, businessID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	members := make([]Member, 0)
	for rows.Next() {
		var m Member
		if err := rows.Scan(
			&m.ID,
			&m.BusinessID,
			&m.UserID,
			&m.Email,
			&m.Role,
			&m.Status,
			&m.Permissions,
			&m.CreatedAt,
			&m.UpdatedAt,
		); err != nil {
			return nil, err
		}
		members = append(members, m)
	}
	return members, rows.Err()
}

func (r *Repository) GetMember(ctx context.Context, businessID, userID uuid.UUID) (Member, error) {
	var m Member
	err := r.pool.QueryRow(ctx, `
		SELECT bu.id, bu.business_id, bu.user_id, u.email, bu.role, bu.status, bu.permissions, bu.created_at, bu.updated_at
		FROM business_users bu
		JOIN users u ON u.id = bu.user_id
		WHERE bu.business_id = $1 AND bu.user_id = $2
	`, businessID, userID).Scan(
		&m.ID,
		&m.BusinessID,
		&m.UserID,
		&m.Email,
		&m.Role,
		&m.Status,
		&m.Permissions,
		&m.CreatedAt,
		&m.UpdatedAt,
	)
	if errors.Is(err, pgx.ErrNoRows) {
		return Member{}, ErrNotFound
	}
	return m, err
}

func (r *Repository) UpdateMember(ctx context.Context, businessID, userID uuid.UUID, role, status *string, permissions json.RawMessage) error {
	tag, err := r.pool.Exec(ctx, `
		UPDATE business_users
		SET role = COALESCE($3, role),
		    status = COALESCE($4, status),
		    permissions = COALESCE($5, permissions),
		    updated_at = now()
		WHERE business_id = $1 AND user_id = $2
	`, businessID, userID, role, status, permissions)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *Repository) RemoveMember(ctx context.Context, businessID, userID uuid.UUID) error {
	tag, err := r.pool.Exec(ctx, `
		DELETE FROM business_users
		WHERE business_id = $1 AND user_id = $2
	`, businessID, userID)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

// ActivateMember flips an invited membership to active, used on invite acceptance.
func (r *Repository) ActivateMember(ctx context.Context, businessID, userID uuid.UUID) error {
	_, err := r.pool.Exec(ctx, `
		UPDATE business_users SET status = 'active', updated_at = now()
		WHERE business_id = $1 AND user_id = $2
	`, businessID, userID)
	return err
}

func (r *Repository) CreateInvite(ctx context.Context, businessID uuid.UUID, email, role, tokenHash string, expiresAt time.Time, createdBy uuid.UUID) (Invite, error) {
	var invite Invite
	err := r.pool.QueryRow(ctx, `
		INSERT INTO business_invites (business_id, email, role, token_hash, expires_at, created_by)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING id, business_id, email, role, token_hash, expires_at, created_by, created_at, used_at, used_by
	`, businessID, email, role, tokenHash, expiresAt, createdBy).Scan(
		&invite.ID,
		&invite.BusinessID,
		&invite.Email,
		&invite.Role,
		&invite.TokenHash,
		&invite.ExpiresAt,
		&invite.CreatedBy,
		&invite.CreatedAt,
		&invite.UsedAt,
		&invite.UsedBy,
	)
	return invite, err
}

func (r *Repository) GetInviteByToken(ctx context.Context, tokenHash string) (Invite, error) {
	var invite Invite
	err := r.pool.QueryRow(ctx, `
		SELECT id, business_id, email, role, token_hash, expires_at, created_by, created_at, used_at, used_by
		FROM business_invites
		WHERE token_hash = $1
	`, tokenHash).Scan(
		&invite.ID,
		&invite.BusinessID,
		&invite.Email,
		&invite.Role,
		&invite.TokenHash,
		&invite.ExpiresAt,
		&invite.CreatedBy,
		&invite.CreatedAt,
		&invite.UsedAt,
		&invite.UsedBy,
	)
	if errors.Is(err, pgx.ErrNoRows) {
		return Invite{}, ErrNotFound
	}
	return invite, err
}

func (r *Repository) UseInvite(ctx context.Context, inviteID, usedBy uuid.UUID) error {
	tag, err := r.pool.Exec(ctx, `
		UPDATE business_invites
		SET used_at = now(), used_by = $2
		WHERE id = $1 AND used_at IS NULL
	`, inviteID, usedBy)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

// DeleteExpiredInvites removes unused invites past their expiry.
// Called by the scheduler's periodic sweep. Returns rows removed.
func (r *Repository) DeleteExpiredInvites(ctx context.Context, now time.Time) (int64, error) {
	tag, err := r.pool.Exec(ctx, `
		DELETE FROM business_invites
		WHERE used_at IS NULL AND expires_at < $1
	`, now)
	if err != nil {
		return 0, err
	}
	return tag.RowsAffected(), nil
}
