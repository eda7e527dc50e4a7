// Package leads manages the tenant-scoped sales pipeline.
package leads

import (
	internalhttp "slingshot_backend/internal/http"
	"slingshot_backend/internal/leads/handler"
	"slingshot_backend/internal/leads/repository"
	"slingshot_backend/internal/leads/service"
	"slingshot_backend/platform/validator"

	"github.com/gin-gonic/gin"
	"github.com/jackc/pgx/v5/pgxpool"
)

type Module struct {
	handler *handler.Handler
	scoped  gin.HandlerFunc
}

func NewModule(pool *pgxpool.Pool, val *validator.Validator, scoped gin.HandlerFunc) *Module {
	repo := repository.New(pool)
	svc := service.New(repo)
	return &Module{handler: handler.New(svc, val), scoped: scoped}
}

func (m *Module) Name() string { return "leads" }

func (m *Module) RegisterRoutes(ctx *internalhttp.RouterContext) {
	grp := ctx.Protected.Group("/leads")
	grp.Use(m.scoped)
	m.handler.RegisterRoutes(grp)
}
