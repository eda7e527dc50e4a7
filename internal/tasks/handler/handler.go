package handler

import (
	"net/http"

	"slingshot_backend/internal/tasks/repository"
	"slingshot_backend/internal/tasks/service"
	"slingshot_backend/internal/tasks/transport"
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
		Search:   c.Query("search"),
		Status:   c.Query("status"),
		Priority: c.Query("priority"),
	}
	if raw := c.Query("projectId"); raw != "" {
		projectID, err := uuid.Parse(raw)
		if err != nil {
			httpkit.Error(c, http.StatusBadRequest, "invalid project id", nil)
			return
		}
		filter.ProjectID = &projectID
	}

	tasks, err := h.svc.List(c.Request.Context(), businessID, filter)
	if httpkit.HandleError(c, err) {
		return
	}

	httpkit.OK(c, transport.ToTaskResponses(tasks))
}

func (h *Handler) Get(c *gin.Context) {
	businessID, taskID, ok := h.scopedID(c)
	if !ok {
		return
	}

	task, err := h.svc.Get(c.Request.Context(), businessID, taskID)
	if httpkit.HandleError(c, err) {
		return
	}

	httpkit.OK(c, transport.ToTaskResponse(task))
}

func (h *Handler) Create(c *gin.Context) {
	businessID, ok := scope.MustBusinessID(c)
	if !ok {
		return
	}

	var req transport.CreateTaskRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgInvalidRequest, nil)
		return
	}
	if err := h.val.Struct(req); err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgValidationFailed, err.Error())
		return
	}

	task, err := h.svc.Create(c.Request.Context(), businessID, repository.Task{
		ProjectID:   req.ProjectID,
		Title:       req.Title,
		Description: req.Description,
		Status:      req.Status,
		Priority:    req.Priority,
		DueDate:     req.DueDate,
	})
	if httpkit.HandleError(c, err) {
		return
	}

	httpkit.JSON(c, http.StatusCreated, transport.ToTaskResponse(task))
}

func (h *Handler) Update(c *gin.Context) {
	businessID, taskID, ok := h.scopedID(c)
	if !ok {
		return
	}

	var req transport.UpdateTaskRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgInvalidRequest, nil)
		return
	}
	if err := h.val.Struct(req); err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgValidationFailed, err.Error())
		return
	}

	task, err := h.svc.Update(c.Request.Context(), businessID, taskID, repository.TaskUpdate{
		ProjectID:   req.ProjectID,
		Title:       req.Title,
		Description: req.Description,
		Status:      req.Status,
		Priority:    req.Priority,
		DueDate:     req.DueDate,
	})
	if httpkit.HandleError(c, err) {
		return
	}

	httpkit.OK(c, transport.ToTaskResponse(task))
}

func (h *Handler) Delete(c *gin.Context) {
	businessID, taskID, ok := h.scopedID(c)
	if !ok {
		return
	}

	if err := h.svc.Delete(c.Request.Context(), businessID, taskID); httpkit.HandleError(c, err) {
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
		httpkit.Error(c, http.StatusBadRequest, "invalid task id", nil)
		return uuid.Nil, uuid.Nil, false
	}

	return businessID, id, true
}
