package handler

import (
	"net/http"

	"slingshot_backend/internal/tenancy/repository"
	"slingshot_backend/internal/tenancy/service"
	"slingshot_backend/internal/tenancy/transport"
	"slingshot_backend/platform/httpkit"
	"slingshot_backend/platform/validator"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

const (
	msgInvalidRequest   = "invalid request"
	msgValidationFailed = "validation failed"
	msgInvalidID        = "invalid business id"
)

type Handler struct {
	svc *service.Service
	val *validator.Validator
}

func New(svc *service.Service, val *validator.Validator) *Handler {
	return &Handler{svc: svc, val: val}
}

// GetContext runs (or reuses) tenant resolution and returns the snapshot.
// Always 200: a failed resolution comes back as a degraded empty snapshot.
func (h *Handler) GetContext(c *gin.Context) {
	id := httpkit.MustGetIdentity(c)
	if id == nil {
		return
	}

	snap, degraded := h.svc.Context(c.Request.Context(), id.UserID())
	httpkit.OK(c, transport.ToContextResponse(snap, degraded))
}

// SwitchBusiness changes the caller's current tenant.
func (h *Handler) SwitchBusiness(c *gin.Context) {
	id := httpkit.MustGetIdentity(c)
	if id == nil {
		return
	}

	var req transport.SwitchBusinessRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgInvalidRequest, nil)
		return
	}
	if err := h.val.Struct(req); err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgValidationFailed, err.Error())
		return
	}

	businessID, err := uuid.Parse(req.BusinessID)
	if err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgInvalidID, nil)
		return
	}

	business, err := h.svc.SwitchBusiness(c.Request.Context(), id.UserID(), businessID)
	if httpkit.HandleError(c, err) {
		return
	}

	httpkit.OK(c, transport.ToBusinessResponse(business))
}

func (h *Handler) ListBusinesses(c *gin.Context) {
	id := httpkit.MustGetIdentity(c)
	if id == nil {
		return
	}

	businesses, err := h.svc.ListBusinesses(c.Request.Context(), id.UserID())
	if httpkit.HandleError(c, err) {
		return
	}

	responses := make([]transport.BusinessResponse, 0, len(businesses))
	for _, b := range businesses {
		responses = append(responses, transport.ToBusinessResponse(b))
	}
	httpkit.OK(c, responses)
}

func (h *Handler) CreateBusiness(c *gin.Context) {
	id := httpkit.MustGetIdentity(c)
	if id == nil {
		return
	}

	var req transport.CreateBusinessRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgInvalidRequest, nil)
		return
	}
	if err := h.val.Struct(req); err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgValidationFailed, err.Error())
		return
	}

	business, err := h.svc.CreateBusiness(c.Request.Context(), id.UserID(), service.CreateBusinessInput{
		Name:         req.Name,
		Slug:         req.Slug,
		Currency:     req.Currency,
		PrimaryColor: req.PrimaryColor,
		Domain:       req.Domain,
		EmailDomain:  req.EmailDomain,
	})
	if httpkit.HandleError(c, err) {
		return
	}

	httpkit.JSON(c, http.StatusCreated, transport.ToBusinessResponse(business))
}

func (h *Handler) GetBusiness(c *gin.Context) {
	id, businessID, ok := h.identityAndBusinessID(c)
	if !ok {
		return
	}

	business, err := h.svc.GetBusiness(c.Request.Context(), id.UserID(), businessID)
	if httpkit.HandleError(c, err) {
		return
	}

	httpkit.OK(c, transport.ToBusinessResponse(business))
}

func (h *Handler) UpdateBusiness(c *gin.Context) {
	id, businessID, ok := h.identityAndBusinessID(c)
	if !ok {
		return
	}

	var req transport.UpdateBusinessRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgInvalidRequest, nil)
		return
	}
	if err := h.val.Struct(req); err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgValidationFailed, err.Error())
		return
	}

	business, err := h.svc.UpdateBusiness(c.Request.Context(), id.UserID(), businessID, repository.BusinessUpdate{
		Name:         req.Name,
		Domain:       req.Domain,
		EmailDomain:  req.EmailDomain,
		Currency:     req.Currency,
		PrimaryColor: req.PrimaryColor,
	})
	if httpkit.HandleError(c, err) {
		return
	}

	httpkit.OK(c, transport.ToBusinessResponse(business))
}

// UploadLogo accepts a multipart file and stores it in object storage.
func (h *Handler) UploadLogo(c *gin.Context) {
	id, businessID, ok := h.identityAndBusinessID(c)
	if !ok {
		return
	}

	fileHeader, err := c.FormFile("file")
	if err != nil {
		httpkit.Error(c, http.StatusBadRequest, "file is required", nil)
		return
	}

	file, err := fileHeader.Open()
	if err != nil {
		httpkit.Error(c, http.StatusBadRequest, "could not read file", nil)
		return
	}
	defer file.Close()

	contentType := fileHeader.Header.Get("Content-Type")
	logoURL, err := h.svc.UploadLogo(c.Request.Context(), id.UserID(), businessID, fileHeader.Filename, contentType, file, fileHeader.Size)
	if httpkit.HandleError(c, err) {
		return
	}

	httpkit.OK(c, transport.LogoResponse{LogoURL: logoURL})
}

func (h *Handler) ListMembers(c *gin.Context) {
	id, businessID, ok := h.identityAndBusinessID(c)
	if !ok {
		return
	}

	members, err := h.svc.ListMembers(c.Request.Context(), id.UserID(), businessID)
	if httpkit.HandleError(c, err) {
		return
	}

	responses := make([]transport.MemberResponse, 0, len(members))
	for _, m := range members {
		responses = append(responses, transport.ToMemberResponse(m))
	}
	httpkit.OK(c, responses)
}

func (h *Handler) AddMember(c *gin.Context) {
	id, businessID, ok := h.identityAndBusinessID(c)
	if !ok {
		return
	}

	var req transport.AddMemberRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgInvalidRequest, nil)
		return
	}
	if err := h.val.Struct(req); err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgValidationFailed, err.Error())
		return
	}

	member, err := h.svc.AddMember(c.Request.Context(), id.UserID(), businessID, req.Email, req.Role, req.Permissions)
	if httpkit.HandleError(c, err) {
		return
	}

	httpkit.JSON(c, http.StatusCreated, transport.ToMemberResponse(member))
}

func (h *Handler) UpdateMember(c *gin.Context) {
	id, businessID, ok := h.identityAndBusinessID(c)
	if !ok {
		return
	}

	memberID, err := uuid.Parse(c.Param("userId"))
	if err != nil {
		httpkit.Error(c, http.StatusBadRequest, "invalid user id", nil)
		return
	}

	var req transport.UpdateMemberRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgInvalidRequest, nil)
		return
	}
	if err := h.val.Struct(req); err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgValidationFailed, err.Error())
		return
	}

	member, err := h.svc.UpdateMember(c.Request.Context(), id.UserID(), businessID, memberID, req.Role, req.Status, req.Permissions)
	if httpkit.HandleError(c, err) {
		return
	}

	httpkit.OK(c, transport.ToMemberResponse(member))
}

func (h *Handler) RemoveMember(c *gin.Context) {
	id, businessID, ok := h.identityAndBusinessID(c)
	if !ok {
		return
	}

	memberID, err := uuid.Parse(c.Param("userId"))
	if err != nil {
		httpkit.Error(c, http.StatusBadRequest, "invalid user id", nil)
		return
	}

	if err := h.svc.RemoveMember(c.Request.Context(), id.UserID(), businessID, memberID); httpkit.HandleError(c, err) {
		return
	}

	c.Status(http.StatusNoContent)
}

func (h *Handler) CreateInvite(c *gin.Context) {
	id, businessID, ok := h.identityAndBusinessID(c)
	if !ok {
		return
	}

	var req transport.CreateInviteRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgInvalidRequest, nil)
		return
	}
	if err := h.val.Struct(req); err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgValidationFailed, err.Error())
		return
	}

	invite, err := h.svc.CreateInvite(c.Request.Context(), id.UserID(), businessID, req.Email, req.Role)
	if httpkit.HandleError(c, err) {
		return
	}

	httpkit.JSON(c, http.StatusCreated, transport.ToInviteResponse(invite))
}

func (h *Handler) AcceptInvite(c *gin.Context) {
	id := httpkit.MustGetIdentity(c)
	if id == nil {
		return
	}

	var req transport.AcceptInviteRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgInvalidRequest, nil)
		return
	}
	if err := h.val.Struct(req); err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgValidationFailed, err.Error())
		return
	}

	business, err := h.svc.AcceptInvite(c.Request.Context(), id.UserID(), req.Token)
	if httpkit.HandleError(c, err) {
		return
	}

	httpkit.OK(c, transport.ToBusinessResponse(business))
}

func (h *Handler) identityAndBusinessID(c *gin.Context) (httpkit.Identity, uuid.UUID, bool) {
	id := httpkit.MustGetIdentity(c)
	if id == nil {
		return nil, uuid.Nil, false
	}

	businessID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgInvalidID, nil)
		return nil, uuid.Nil, false
	}

	return id, businessID, true
}
