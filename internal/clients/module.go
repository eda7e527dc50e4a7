// Package clients manages the tenant-scoped client directory.
package clients

import (
	"slingshot_backend/internal/clients/handler"
	"slingshot_backend/internal/clients/repository"
	"slingshot_backend/internal/clients/service"
	internalhttp "slingshot_backend/internal/http"
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

func (m *Module) Name() string { return "clients" }

func (m *Module) RegisterRoutes(ctx *internalhttp.RouterContext) {
	grp := ctx.Protected.Group("/clients")
	grp.Use(m.scoped)
	m.handler.RegisterRoutes(grp)
}
