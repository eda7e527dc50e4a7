package scope

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"slingshot_backend/internal/tenancy/repository"
	"slingshot_backend/internal/tenancy/resolver"
	"slingshot_backend/platform/httpkit"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

type fakeResolverStore struct {
	memberships map[uuid.UUID][]repository.Business
	profiles    map[uuid.UUID]uuid.UUID
}

func (f *fakeResolverStore) IsSuperAdmin(context.Context, uuid.UUID) (bool, error) { return false, nil }

func (f *fakeResolverStore) ListAllBusinesses(context.Context) ([]repository.Business, error) {
	return nil, nil
}

func (f *fakeResolverStore) ListActiveBusinessesForUser(_ context.Context, userID uuid.UUID) ([]repository.Business, error) {
	return f.memberships[userID], nil
}

func (f *fakeResolverStore) GetCurrentBusinessID(_ context.Context, userID uuid.UUID) (*uuid.UUID, error) {
	if id, ok := f.profiles[userID]; ok {
		return &id, nil
	}
	return nil, nil
}

func (f *fakeResolverStore) UpsertCurrentBusiness(context.Context, uuid.UUID, uuid.UUID) error {
	return nil
}

func TestMiddlewareInjectsCurrentBusiness(t *testing.T) {
	gin.SetMode(gin.TestMode)
	userID := uuid.New()
	a := repository.Business{ID: uuid.New(), Name: "A"}
	b := repository.Business{ID: uuid.New(), Name: "B"}
	store := &fakeResolverStore{
		memberships: map[uuid.UUID][]repository.Business{userID: {a, b}},
		profiles:    map[uuid.UUID]uuid.UUID{userID: b.ID},
	}

	manager := resolver.NewManager(store, nil)
	var seen uuid.UUID

	engine := gin.New()
	engine.Use(func(c *gin.Context) { c.Set(httpkit.ContextUserIDKey, userID) })
	engine.Use(Middleware(manager))
	engine.GET("/probe", func(c *gin.Context) {
		id, ok := MustBusinessID(c)
		if !ok {
			return
		}
		seen = id
		c.Status(http.StatusOK)
	})

	rec := httptest.NewRecorder()
	engine.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/probe", nil))

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}
	if seen != b.ID {
		t.Fatalf("expected persisted business B, got %s", seen)
	}
}

func TestMiddlewareHonorsHeaderWithinVisibleSet(t *testing.T) {
	gin.SetMode(gin.TestMode)
	userID := uuid.New()
	a := repository.Business{ID: uuid.New(), Name: "A"}
	b := repository.Business{ID: uuid.New(), Name: "B"}
	store := &fakeResolverStore{
		memberships: map[uuid.UUID][]repository.Business{userID: {a, b}},
		profiles:    map[uuid.UUID]uuid.UUID{},
	}

	manager := resolver.NewManager(store, nil)
	var seen uuid.UUID

	engine := gin.New()
	engine.Use(func(c *gin.Context) { c.Set(httpkit.ContextUserIDKey, userID) })
	engine.Use(Middleware(manager))
	engine.GET("/probe", func(c *gin.Context) {
		id, _ := MustBusinessID(c)
		seen = id
		c.Status(http.StatusOK)
	})

	req := httptest.NewRequest(http.MethodGet, "/probe", nil)
	req.Header.Set(HeaderBusinessID, b.ID.String())
	rec := httptest.NewRecorder()
	engine.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	if seen != b.ID {
		t.Fatalf("expected header-selected business B, got %s", seen)
	}
}

func TestMiddlewareRejectsBusinessOutsideVisibleSet(t *testing.T) {
	gin.SetMode(gin.TestMode)
	userID := uuid.New()
	a := repository.Business{ID: uuid.New(), Name: "A"}
	store := &fakeResolverStore{
		memberships: map[uuid.UUID][]repository.Business{userID: {a}},
		profiles:    map[uuid.UUID]uuid.UUID{},
	}

	manager := resolver.NewManager(store, nil)

	engine := gin.New()
	engine.Use(func(c *gin.Context) { c.Set(httpkit.ContextUserIDKey, userID) })
	engine.Use(Middleware(manager))
	engine.GET("/probe", func(c *gin.Context) { c.Status(http.StatusOK) })

	req := httptest.NewRequest(http.MethodGet, "/probe", nil)
	req.Header.Set(HeaderBusinessID, uuid.New().String())
	rec := httptest.NewRecorder()
	engine.ServeHTTP(rec, req)

	if rec.Code != http.StatusUnprocessableEntity {
		t.Fatalf("expected 422 for business outside visible set, got %d", rec.Code)
	}
}

func TestMiddlewareRejectsWhenNoBusinessSelected(t *testing.T) {
	gin.SetMode(gin.TestMode)
	userID := uuid.New()
	store := &fakeResolverStore{
		memberships: map[uuid.UUID][]repository.Business{},
		profiles:    map[uuid.UUID]uuid.UUID{},
	}

	manager := resolver.NewManager(store, nil)

	engine := gin.New()
	engine.Use(func(c *gin.Context) { c.Set(httpkit.ContextUserIDKey, userID) })
	engine.Use(Middleware(manager))
	engine.GET("/probe", func(c *gin.Context) { c.Status(http.StatusOK) })

	rec := httptest.NewRecorder()
	engine.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/probe", nil))

	if rec.Code != http.StatusUnprocessableEntity {
		t.Fatalf("expected 422 when no business is selected, got %d", rec.Code)
	}
}
