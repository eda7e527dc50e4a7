package auth

import (
	"slingshot_backend/internal/auth/handler"
	"slingshot_backend/internal/auth/repository"
	"slingshot_backend/internal/auth/service"
	"slingshot_backend/internal/events"
	internalhttp "slingshot_backend/internal/http"
	"slingshot_backend/platform/config"
	"slingshot_backend/platform/validator"

	"github.com/jackc/pgx/v5/pgxpool"
)

// Module wires the auth bounded context: repository, service, and HTTP handler.
type Module struct {
	handler *handler.Handler
	service *service.Service
	repo    *repository.Repository
}

func NewModule(pool *pgxpool.Pool, cfg *config.Config, bus events.Bus, val *validator.Validator) *Module {
	repo := repository.New(pool)
	svc := service.New(repo, cfg, bus)
	h := handler.New(svc, cfg, val)
	return &Module{handler: h, service: svc, repo: repo}
}

func (m *Module) Name() string { return "auth" }

// Users exposes user lookups to other modules (invite acceptance flows).
func (m *Module) Users() UserProvider { return NewUserProvider(m.repo) }

func (m *Module) RegisterRoutes(ctx *internalhttp.RouterContext) {
	authGroup := ctx.V1.Group("/auth")
	authGroup.Use(ctx.AuthRateLimiter.RateLimit())
	m.handler.RegisterRoutes(authGroup)

	users := ctx.Protected.Group("/users")
	users.GET("/me", m.handler.GetMe)
	users.PUT("/me/password", m.handler.ChangePassword)
}
