package handler

import (
	"net/http"

	"slingshot_backend/internal/projects/repository"
	"slingshot_backend/internal/projects/service"
	"slingshot_backend/internal/projects/transport"
	"slingshot_backend/internal/tenancy/scope"
	"slingshot_backend/platform/httpkit"
	"slingshot_backend/platform/validator"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

const (
	msgInvalidRequest   = "invalid request"
	msgValidationFailed = "validation failed"
)

type Handler struct {
	svc *service.Service
	val *validator.Validator
}

func New(svc *service.Service, val *validator.Validator) *Handler {
	return &Handler{svc: svc, val: val}
}

func (h *Handler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.GET("", h.List)
	rg.POST("", h.Create)
	rg.GET("/:id", h.Get)
	rg.PATCH("/:id", h.Update)
	rg.DELETE("/:id", h.Delete)
}

func (h *Handler) List(c *gin.Context) {
	businessID, ok := scope.MustBusinessID(c)
	if !ok {
		return
	}

	filter := repository.ListFilter{
		Search: c.Query("search"),
		Status: c.Query("status"),
	}
	if raw := c.Query("clientId"); raw != "" {
		clientID, err := uuid.Parse(raw)
		if err != nil {
			httpkit.Error(c, http.StatusBadRequest, "invalid client id", nil)
			return
		}
		filter.ClientID = &clientID
	}

	projects, err := h.svc.List(c.Request.Context(), businessID, filter)
	if httpkit.HandleError(c, err) {
		return
	}

	httpkit.OK(c, transport.ToProjectResponses(projects))
}

func (h *Handler) Get(c *gin.Context) {
	businessID, projectID, ok := h.scopedID(c)
	if !ok {
		return
	}

	project, err := h.svc.Get(c.Request.Context(), businessID, projectID)
	if httpkit.HandleError(c, err) {
		return
	}

	httpkit.OK(c, transport.ToProjectResponse(project))
}

func (h *Handler) Create(c *gin.Context) {
	businessID, ok := scope.MustBusinessID(c)
	if !ok {
		return
	}

	var req transport.CreateProjectRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgInvalidRequest, nil)
		return
	}
	if err := h.val.Struct(req); err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgValidationFailed, err.Error())
		return
	}

	project, err := h.svc.Create(c.Request.Context(), businessID, repository.Project{
		ClientID:    req.ClientID,
		Name:        req.Name,
		Description: req.Description,
		Status:      req.Status,
		StartDate:   req.StartDate,
		Deadline:    req.Deadline,
	})
	if httpkit.HandleError(c, err) {
		return
	}

	httpkit.JSON(c, http.StatusCreated, transport.ToProjectResponse(project))
}

func (h *Handler) Update(c *gin.Context) {
	businessID, projectID, ok := h.scopedID(c)
	if !ok {
		return
	}

	var req transport.UpdateProjectRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgInvalidRequest, nil)
		return
	}
	if err := h.val.Struct(req); err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgValidationFailed, err.Error())
		return
	}

	project, err := h.svc.Update(c.Request.Context(), businessID, projectID, repository.ProjectUpdate{
		ClientID:    req.ClientID,
		Name:        req.Name,
		Description: req.Description,
		Status:      req.Status,
		StartDate:   req.StartDate,
		Deadline:    req.Deadline,
	})
	if httpkit.HandleError(c, err) {
		return
	}

	httpkit.OK(c, transport.ToProjectResponse(project))
}

func (h *Handler) Delete(c *gin.Context) {
	businessID, projectID, ok := h.scopedID(c)
	if !ok {
		return
	}

	if err := h.svc.Delete(c.Request.Context(), businessID, projectID); httpkit.HandleError(c, err) {
		return
	}

	c.Status(http.StatusNoContent)
}

func (h *Handler) scopedID(c *gin.Context) (uuid.UUID, uuid.UUID, bool) {
	businessID, ok := scope.MustBusinessID(c)
	if !ok {
		return uuid.Nil, uuid.Nil, false
	}

	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		httpkit.Error(c, http.StatusBadRequest, "invalid project id", nil)
		return uuid.Nil, uuid.Nil, false
	}

	return businessID, id, true
}
