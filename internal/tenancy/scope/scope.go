// Package scope enforces tenant scoping on business-scoped routes. Instead of
// every handler filtering by the caller's business id by convention, the
// middleware validates the requested tenant against the caller's resolved
// visible set and injects the validated id into the request context. Handlers
// downstream only ever see a tenant id that passed validation.
package scope

import (
	"context"
	"net/http"

	"slingshot_backend/internal/tenancy/resolver"
	"slingshot_backend/platform/apperr"
	"slingshot_backend/platform/httpkit"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// HeaderBusinessID selects the tenant for a single request. When absent, the
// session's current business (persisted selection) is used.
const HeaderBusinessID = "X-Business-ID"

// TenantSource yields the caller's resolved tenant session.
type TenantSource interface {
	Session(ctx context.Context, userID uuid.UUID) (*resolver.Session, resolver.Outcome)
}

// Middleware validates the request's tenant selection and stores the
// validated business id under httpkit.ContextTenantIDKey.
func Middleware(tenants TenantSource) gin.HandlerFunc {
	return func(c *gin.Context) {
		id := httpkit.MustGetIdentity(c)
		if id == nil {
			return
		}

		sess, outcome := tenants.Session(c.Request.Context(), id.UserID())
		if failed, ok := outcome.(resolver.Failed); ok {
			c.AbortWithStatusJSON(http.StatusServiceUnavailable, gin.H{
				"error":   "tenant context unavailable",
				"details": failed.Reason.Error(),
			})
			return
		}

		snap := sess.Snapshot()

		businessID, err := requestedBusinessID(c, snap)
		if err != nil {
			httpkit.HandleError(c, err)
			c.Abort()
			return
		}

		c.Set(httpkit.ContextTenantIDKey, businessID)
		c.Next()
	}
}

func requestedBusinessID(c *gin.Context, snap resolver.Snapshot) (uuid.UUID, error) {
	if header := c.GetHeader(HeaderBusinessID); header != "" {
		requested, err := uuid.Parse(header)
		if err != nil {
			return uuid.Nil, invalidSelection("invalid business id")
		}
		for _, b := range snap.Businesses {
			if b.ID == requested {
				return requested, nil
			}
		}
		return uuid.Nil, invalidSelection("business is not in your visible set")
	}

	if snap.CurrentBusiness == nil {
		return uuid.Nil, invalidSelection("no business selected")
	}
	return snap.CurrentBusiness.ID, nil
}

func invalidSelection(message string) error {
	return apperr.InvalidTenantSelection(message)
}

// BusinessID extracts the validated tenant id injected by Middleware.
func BusinessID(c *gin.Context) (uuid.UUID, bool) {
	value, ok := c.Get(httpkit.ContextTenantIDKey)
	if !ok {
		return uuid.Nil, false
	}
	id, ok := value.(uuid.UUID)
	return id, ok
}

// MustBusinessID extracts the validated tenant id, aborting with 422 if the
// middleware did not run. Routes registered under the scoped group always
// have it set.
func MustBusinessID(c *gin.Context) (uuid.UUID, bool) {
	id, ok := BusinessID(c)
	if !ok {
		c.AbortWithStatusJSON(http.StatusUnprocessableEntity, gin.H{"error": "no business selected"})
		return uuid.Nil, false
	}
	return id, true
}
