// Package tenancy is the multi-tenant core: businesses, memberships,
// invites, and the per-session tenant context resolver.
package tenancy

import (
	"slingshot_backend/internal/adapters/storage"
	"slingshot_backend/internal/auth"
	"slingshot_backend/internal/events"
	internalhttp "slingshot_backend/internal/http"
	"slingshot_backend/internal/tenancy/handler"
	"slingshot_backend/internal/tenancy/repository"
	"slingshot_backend/internal/tenancy/resolver"
	"slingshot_backend/internal/tenancy/service"
	"slingshot_backend/platform/config"
	"slingshot_backend/platform/logger"
	"slingshot_backend/platform/validator"

	"github.com/jackc/pgx/v5/pgxpool"
)

// The pgx repository backs the resolver's store contract.
var _ resolver.Store = (*repository.Repository)(nil)

type Module struct {
	handler  *handler.Handler
	service  *service.Service
	repo     *repository.Repository
	sessions *resolver.Manager
}

type ModuleConfig interface {
	config.TenancyConfig
	config.MinIOConfig
}

func NewModule(
	pool *pgxpool.Pool,
	cfg ModuleConfig,
	bus events.Bus,
	users auth.UserProvider,
	storageSvc storage.StorageService,
	val *validator.Validator,
	log *logger.Logger,
) *Module {
	repo := repository.New(pool)
	sessions := resolver.NewManager(repo, log)
	svc := service.New(repo, sessions, users, bus, storageSvc, cfg.GetMinioBucketBusinessLogos(), cfg, log)
	h := handler.New(svc, val)

	return &Module{handler: h, service: svc, repo: repo, sessions: sessions}
}

func (m *Module) Name() string { return "tenancy" }

// Sessions exposes the resolver manager so the router can build the tenant
// scoping middleware for business-scoped modules.
func (m *Module) Sessions() *resolver.Manager { return m.sessions }

// Repository exposes the tenancy repository for the scheduler's invite
// expiry sweep.
func (m *Module) Repository() *repository.Repository { return m.repo }

func (m *Module) RegisterRoutes(ctx *internalhttp.RouterContext) {
	protected := ctx.Protected

	protected.GET("/context", m.handler.GetContext)
	protected.PUT("/context/current", m.handler.SwitchBusiness)

	businesses := protected.Group("/businesses")
	businesses.GET("", m.handler.ListBusinesses)
	businesses.POST("", m.handler.CreateBusiness)
	businesses.GET("/:id", m.handler.GetBusiness)
	businesses.PATCH("/:id", m.handler.UpdateBusiness)
	businesses.POST("/:id/logo", m.handler.UploadLogo)
	businesses.GET("/:id/members", m.handler.ListMembers)
	businesses.POST("/:id/members", m.handler.AddMember)
	businesses.PATCH("/:id/members/:userId", m.handler.UpdateMember)
	businesses.DELETE("/:id/members/:userId", m.handler.RemoveMember)
	businesses.POST("/:id/invites", m.handler.CreateInvite)

	protected.POST("/invites/accept", m.handler.AcceptInvite)
}
