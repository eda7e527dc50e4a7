// Package projects manages tenant-scoped project tracking.
package projects

import (
	internalhttp "slingshot_backend/internal/http"
	"slingshot_backend/internal/projects/handler"
	"slingshot_backend/internal/projects/repository"
	"slingshot_backend/internal/projects/service"
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

func (m *Module) Name() string { return "projects" }

func (m *Module) RegisterRoutes(ctx *internalhttp.RouterContext) {
	grp := ctx.Protected.Group("/projects")
	grp.Use(m.scoped)
	m.handler.RegisterRoutes(grp)
}
