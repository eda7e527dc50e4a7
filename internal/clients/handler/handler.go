package handler

import (
	"net/http"

	"slingshot_backend/internal/clients/repository"
	"slingshot_backend/internal/clients/service"
	"slingshot_backend/internal/clients/transport"
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

	clients, err := h.svc.List(c.Request.Context(), businessID, repository.ListFilter{
		Search: c.Query("search"),
		Status: c.Query("status"),
	})
	if httpkit.HandleError(c, err) {
		return
	}

	httpkit.OK(c, transport.ToClientResponses(clients))
}

func (h *Handler) Get(c *gin.Context) {
	businessID, clientID, ok := h.scopedID(c)
	if !ok {
		return
	}

	client, err := h.svc.Get(c.Request.Context(), businessID, clientID)
	if httpkit.HandleError(c, err) {
		return
	}

	httpkit.OK(c, transport.ToClientResponse(client))
}

func (h *Handler) Create(c *gin.Context) {
	businessID, ok := scope.MustBusinessID(c)
	if !ok {
		return
	}

	var req transport.CreateClientRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgInvalidRequest, nil)
		return
	}
	if err := h.val.Struct(req); err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgValidationFailed, err.Error())
		return
	}

	client, err := h.svc.Create(c.Request.Context(), businessID, repository.Client{
		Name:     req.Name,
		Industry: req.Industry,
		Status:   req.Status,
		Email:    req.Email,
		Phone:    req.Phone,
	})
	if httpkit.HandleError(c, err) {
		return
	}

	httpkit.JSON(c, http.StatusCreated, transport.ToClientResponse(client))
}

func (h *Handler) Update(c *gin.Context) {
	businessID, clientID, ok := h.scopedID(c)
	if !ok {
		return
	}

	var req transport.UpdateClientRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgInvalidRequest, nil)
		return
	}
	if err := h.val.Struct(req); err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgValidationFailed, err.Error())
		return
	}

	client, err := h.svc.Update(c.Request.Context(), businessID, clientID, repository.ClientUpdate{
		Name:     req.Name,
		Industry: req.Industry,
		Status:   req.Status,
		Email:    req.Email,
		Phone:    req.Phone,
	})
	if httpkit.HandleError(c, err) {
		return
	}

	httpkit.OK(c, transport.ToClientResponse(client))
}

func (h *Handler) Delete(c *gin.Context) {
	businessID, clientID, ok := h.scopedID(c)
	if !ok {
		return
	}

	if err := h.svc.Delete(c.Request.Context(), businessID, clientID); httpkit.HandleError(c, err) {
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
		httpkit.Error(c, http.StatusBadRequest, "invalid client id", nil)
		return uuid.Nil, uuid.Nil, false
	}

	return businessID, id, true
}
