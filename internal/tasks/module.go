// Package tasks manages tenant-scoped task tracking.
package tasks

import (
	internalhttp "slingshot_backend/internal/http"
	"slingshot_backend/internal/tasks/handler"
	"slingshot_backend/internal/tasks/repository"
	"slingshot_backend/internal/tasks/service"
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

func (m *Module) Name() string { return "tasks" }

func (m *Module) RegisterRoutes(ctx *internalhttp.RouterContext) {
	grp := ctx.Protected.Group("/tasks")
	grp.Use(m.scoped)
	m.handler.RegisterRoutes(grp)
}
