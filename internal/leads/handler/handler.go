package handler

import (
	"net/http"

	"slingshot_backend/internal/leads/repository"
	"slingshot_backend/internal/leads/service"
	"slingshot_backend/internal/leads/transport"
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

	leads, err := h.svc.List(c.Request.Context(), businessID, repository.ListFilter{
		Search: c.Query("search"),
		Status: c.Query("status"),
	})
	if httpkit.HandleError(c, err) {
		return
	}

	httpkit.OK(c, transport.ToLeadResponses(leads))
}

func (h *Handler) Get(c *gin.Context) {
	businessID, leadID, ok := h.scopedID(c)
	if !ok {
		return
	}

	lead, err := h.svc.Get(c.Request.Context(), businessID, leadID)
	if httpkit.HandleError(c, err) {
		return
	}

	httpkit.OK(c, transport.ToLeadResponse(lead))
}

func (h *Handler) Create(c *gin.Context) {
	businessID, ok := scope.MustBusinessID(c)
	if !ok {
		return
	}

	var req transport.CreateLeadRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgInvalidRequest, nil)
		return
	}
	if err := h.val.Struct(req); err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgValidationFailed, err.Error())
		return
	}

	lead, err := h.svc.Create(c.Request.Context(), businessID, repository.Lead{
		Name:           req.Name,
		Company:        req.Company,
		Email:          req.Email,
		Phone:          req.Phone,
		Source:         req.Source,
		Status:         req.Status,
		EstimatedValue: req.EstimatedValue,
	})
	if httpkit.HandleError(c, err) {
		return
	}

	httpkit.JSON(c, http.StatusCreated, transport.ToLeadResponse(lead))
}

func (h *Handler) Update(c *gin.Context) {
	businessID, leadID, ok := h.scopedID(c)
	if !ok {
		return
	}

	var req transport.UpdateLeadRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgInvalidRequest, nil)
		return
	}
	if err := h.val.Struct(req); err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgValidationFailed, err.Error())
		return
	}

	lead, err := h.svc.Update(c.Request.Context(), businessID, leadID, repository.LeadUpdate{
		Name:           req.Name,
		Company:        req.Company,
		Email:          req.Email,
		Phone:          req.Phone,
		Source:         req.Source,
		Status:         req.Status,
		EstimatedValue: req.EstimatedValue,
	})
	if httpkit.HandleError(c, err) {
		return
	}

	httpkit.OK(c, transport.ToLeadResponse(lead))
}

func (h *Handler) Delete(c *gin.Context) {
	businessID, leadID, ok := h.scopedID(c)
	if !ok {
		return
	}

	if err := h.svc.Delete(c.Request.Context(), businessID, leadID); httpkit.HandleError(c, err) {
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
		httpkit.Error(c, http.StatusBadRequest, "invalid lead id", nil)
		return uuid.Nil, uuid.Nil, false
	}

	return businessID, id, true
}
