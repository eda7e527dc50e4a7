package handler

import (
	"net/http"
	"time"

	"slingshot_backend/internal/invoices/repository"
	"slingshot_backend/internal/invoices/service"
	"slingshot_backend/internal/invoices/transport"
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

	invoices, err := h.svc.List(c.Request.Context(), businessID, filter)
	if httpkit.HandleError(c, err) {
		return
	}

	httpkit.OK(c, transport.ToInvoiceResponses(invoices))
}

func (h *Handler) Get(c *gin.Context) {
	businessID, invoiceID, ok := h.scopedID(c)
	if !ok {
		return
	}

	inv, err := h.svc.Get(c.Request.Context(), businessID, invoiceID)
	if httpkit.HandleError(c, err) {
		return
	}

	httpkit.OK(c, transport.ToInvoiceResponse(inv))
}

func (h *Handler) Create(c *gin.Context) {
	businessID, ok := scope.MustBusinessID(c)
	if !ok {
		return
	}

	var req transport.CreateInvoiceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgInvalidRequest, nil)
		return
	}
	if err := h.val.Struct(req); err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgValidationFailed, err.Error())
		return
	}

	var issueDate time.Time
	if req.IssueDate != nil {
		issueDate = *req.IssueDate
	}

	inv, err := h.svc.Create(c.Request.Context(), businessID, repository.Invoice{
		ClientID:      req.ClientID,
		InvoiceNumber: req.InvoiceNumber,
		Amount:        req.Amount,
		Status:        req.Status,
		IssueDate:     issueDate,
		DueDate:       req.DueDate,
	})
	if httpkit.HandleError(c, err) {
		return
	}

	httpkit.JSON(c, http.StatusCreated, transport.ToInvoiceResponse(inv))
}

func (h *Handler) Update(c *gin.Context) {
	businessID, invoiceID, ok := h.scopedID(c)
	if !ok {
		return
	}

	var req transport.UpdateInvoiceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgInvalidRequest, nil)
		return
	}
	if err := h.val.Struct(req); err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgValidationFailed, err.Error())
		return
	}

	inv, err := h.svc.Update(c.Request.Context(), businessID, invoiceID, repository.InvoiceUpdate{
		ClientID:      req.ClientID,
		InvoiceNumber: req.InvoiceNumber,
		Amount:        req.Amount,
		Status:        req.Status,
		IssueDate:     req.IssueDate,
		DueDate:       req.DueDate,
	})
	if httpkit.HandleError(c, err) {
		return
	}

	httpkit.OK(c, transport.ToInvoiceResponse(inv))
}

func (h *Handler) Delete(c *gin.Context) {
	businessID, invoiceID, ok := h.scopedID(c)
	if !ok {
		return
	}

	if err := h.svc.Delete(c.Request.Context(), businessID, invoiceID); httpkit.HandleError(c, err) {
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
		httpkit.Error(c, http.StatusBadRequest, "invalid invoice id", nil)
		return uuid.Nil, uuid.Nil, false
	}

	return businessID, id, true
}
