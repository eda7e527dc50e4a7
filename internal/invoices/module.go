// Package invoices manages tenant-scoped invoices. Invoice numbers are
// caller-supplied and only checked for per-business uniqueness.
package invoices

import (
	"slingshot_backend/internal/events"
	internalhttp "slingshot_backend/internal/http"
	"slingshot_backend/internal/invoices/handler"
	"slingshot_backend/internal/invoices/repository"
	"slingshot_backend/internal/invoices/service"
	"slingshot_backend/platform/logger"
	"slingshot_backend/platform/validator"

	"github.com/gin-gonic/gin"
	"github.com/jackc/pgx/v5/pgxpool"
)

type Module struct {
	svc     *service.Service
	handler *handler.Handler
	scoped  gin.HandlerFunc
}

func NewModule(pool *pgxpool.Pool, bus events.Bus, val *validator.Validator, log *logger.Logger, scoped gin.HandlerFunc) *Module {
	repo := repository.New(pool)
	svc := service.New(repo, bus, log)
	return &Module{svc: svc, handler: handler.New(svc, val), scoped: scoped}
}

func (m *Module) Name() string { return "invoices" }

// Service exposes the invoice service for the scheduler's overdue sweep.
func (m *Module) Service() *service.Service { return m.svc }

func (m *Module) RegisterRoutes(ctx *internalhttp.RouterContext) {
	grp := ctx.Protected.Group("/invoices")
	grp.Use(m.scoped)
	m.handler.RegisterRoutes(grp)
}
