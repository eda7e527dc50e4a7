package resolver

import (
	"context"
	"errors"
	"sort"
	"sync"
	"testing"
	"time"

	"slingshot_backend/internal/tenancy/repository"
	"slingshot_backend/platform/apperr"

	"github.com/google/uuid"
)

type upsertCall struct {
	userID     uuid.UUID
	businessID uuid.UUID
}

type fakeStore struct {
	mu          sync.Mutex
	superAdmins map[uuid.UUID]bool
	all         []repository.Business
	memberships map[uuid.UUID][]repository.Business
	profiles    map[uuid.UUID]uuid.UUID
	upserts     []upsertCall
	upserted    chan upsertCall
	failWith    error
}

func newFakeStore() *fakeStore {
	return &fakeStore{
		superAdmins: make(map[uuid.UUID]bool),
		memberships: make(map[uuid.UUID][]repository.Business),
		profiles:    make(map[uuid.UUID]uuid.UUID),
		upserted:    make(chan upsertCall, 8),
	}
}

func (f *fakeStore) IsSuperAdmin(_ context.Context, userID uuid.UUID) (bool, error) {
	if f.failWith != nil {
		return false, f.failWith
	}
	return f.superAdmins[userID], nil
}

func (f *fakeStore) ListAllBusinesses(_ context.Context) ([]repository.Business, error) {
	if f.failWith != nil {
		return nil, f.failWith
	}
	sorted := make([]repository.Business, len(f.all))
	copy(sorted, f.all)
	sort.Slice(sorted, func(i, j int) bool { return sorted[i].Name < sorted[j].Name })
	return sorted, nil
}

func (f *fakeStore) ListActiveBusinessesForUser(_ context.Context, userID uuid.UUID) ([]repository.Business, error) {
	if f.failWith != nil {
		return nil, f.failWith
	}
	return f.memberships[userID], nil
}

func (f *fakeStore) GetCurrentBusinessID(_ context.Context, userID uuid.UUID) (*uuid.UUID, error) {
	if f.failWith != nil {
		return nil, f.failWith
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	if id, ok := f.profiles[userID]; ok {
		return &id, nil
	}
	return nil, nil
}

func (f *fakeStore) UpsertCurrentBusiness(_ context.Context, userID, businessID uuid.UUID) error {
	f.mu.Lock()
	call := upsertCall{userID: userID, businessID: businessID}
	f.upserts = append(f.upserts, call)
	f.profiles[userID] = businessID
	f.mu.Unlock()
	f.upserted <- call
	return nil
}

func (f *fakeStore) upsertCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.upserts)
}

func business(name string) repository.Business {
	return repository.Business{ID: uuid.New(), Name: name, Slug: name}
}

func resolveReady(t *testing.T, store Store, userID uuid.UUID) *Session {
	t.Helper()
	sess := NewSession(store, nil, userID)
	if _, ok := sess.Resolve(context.Background()).(Resolved); !ok {
		t.Fatalf("expected Resolved outcome")
	}
	return sess
}

func TestResolveNoMembershipsYieldsEmpty(t *testing.T) {
	store := newFakeStore()
	store.all = []repository.Business{business("Acme")}
	userID := uuid.New()

	sess := resolveReady(t, store, userID)
	snap := sess.Snapshot()

	if snap.Loading {
		t.Fatalf("expected loading=false after resolution")
	}
	if len(snap.Businesses) != 0 {
		t.Fatalf("expected empty business set, got %d", len(snap.Businesses))
	}
	if snap.CurrentBusiness != nil {
		t.Fatalf("expected nil current business, got %s", snap.CurrentBusiness.Name)
	}
	if snap.IsSuperAdmin {
		t.Fatalf("expected isSuperAdmin=false")
	}
}

func TestResolveSuperAdminSeesAllBusinessesSorted(t *testing.T) {
	store := newFakeStore()
	zeta := business("Zeta")
	alpha := business("Alpha")
	store.all = []repository.Business{zeta, alpha}
	userID := uuid.New()
	store.superAdmins[userID] = true
	// Membership rows are ignored for super-admins.
	store.memberships[userID] = []repository.Business{zeta}

	sess := resolveReady(t, store, userID)
	snap := sess.Snapshot()

	if !snap.IsSuperAdmin {
		t.Fatalf("expected isSuperAdmin=true")
	}
	if len(snap.Businesses) != 2 {
		t.Fatalf("expected 2 businesses, got %d", len(snap.Businesses))
	}
	if snap.Businesses[0].Name != "Alpha" || snap.Businesses[1].Name != "Zeta" {
		t.Fatalf("expected name-ascending order, got [%s, %s]", snap.Businesses[0].Name, snap.Businesses[1].Name)
	}
	if snap.CurrentBusiness == nil || snap.CurrentBusiness.ID != alpha.ID {
		t.Fatalf("expected first sorted business (Alpha) as current")
	}
}

func TestResolveExcludesInactiveMemberships(t *testing.T) {
	store := newFakeStore()
	active := business("Active Co")
	inactive := business("Inactive Co")
	store.all = []repository.Business{active, inactive}
	userID := uuid.New()
	// The store contract only surfaces active memberships.
	store.memberships[userID] = []repository.Business{active}

	sess := resolveReady(t, store, userID)
	snap := sess.Snapshot()

	if len(snap.Businesses) != 1 || snap.Businesses[0].ID != active.ID {
		t.Fatalf("expected only the active membership's business")
	}
}

func TestProfilePrecedenceSelectsPersistedBusiness(t *testing.T) {
	store := newFakeStore()
	a := business("A")
	b := business("B")
	userID := uuid.New()
	store.memberships[userID] = []repository.Business{a, b}
	store.profiles[userID] = b.ID

	sess := resolveReady(t, store, userID)
	snap := sess.Snapshot()

	if len(snap.Businesses) != 2 || snap.Businesses[0].ID != a.ID {
		t.Fatalf("expected membership-order business set [A, B]")
	}
	if snap.CurrentBusiness == nil || snap.CurrentBusiness.ID != b.ID {
		t.Fatalf("expected persisted selection B as current")
	}

	// Idempotence: re-running resolution with unchanged inputs yields the
	// same current tenant.
	again := resolveReady(t, store, userID).Snapshot()
	if again.CurrentBusiness == nil || again.CurrentBusiness.ID != b.ID {
		t.Fatalf("expected idempotent resolution")
	}
}

func TestStaleProfileFallsBackToFirstBusiness(t *testing.T) {
	store := newFakeStore()
	a := business("A")
	userID := uuid.New()
	store.memberships[userID] = []repository.Business{a}
	store.profiles[userID] = uuid.New() // no longer in the visible set

	snap := resolveReady(t, store, userID).Snapshot()
	if snap.CurrentBusiness == nil || snap.CurrentBusiness.ID != a.ID {
		t.Fatalf("expected fallback to first visible business")
	}
}

func TestSwitchIsSynchronousAndPersistsOnce(t *testing.T) {
	store := newFakeStore()
	a := business("A")
	b := business("B")
	userID := uuid.New()
	store.memberships[userID] = []repository.Business{a, b}

	sess := resolveReady(t, store, userID)
	if snap := sess.Snapshot(); snap.CurrentBusiness.ID != a.ID {
		t.Fatalf("expected A as initial current business")
	}

	selected, err := sess.SetCurrentBusiness(context.Background(), b.ID)
	if err != nil {
		t.Fatalf("switch failed: %v", err)
	}
	if selected.ID != b.ID {
		t.Fatalf("expected switch to return B")
	}

	// In-memory state updates synchronously, before persistence settles.
	if snap := sess.Snapshot(); snap.CurrentBusiness.ID != b.ID {
		t.Fatalf("expected current business B immediately after switch")
	}

	select {
	case call := <-store.upserted:
		if call.userID != userID || call.businessID != b.ID {
			t.Fatalf("unexpected upsert %+v", call)
		}
	case <-time.After(time.Second):
		t.Fatalf("timed out waiting for profile upsert")
	}

	if n := store.upsertCount(); n != 1 {
		t.Fatalf("expected exactly one upsert, got %d", n)
	}
}

func TestSwitchRoundTripsThroughFreshSession(t *testing.T) {
	store := newFakeStore()
	a := business("A")
	b := business("B")
	userID := uuid.New()
	store.memberships[userID] = []repository.Business{a, b}

	sess := resolveReady(t, store, userID)
	if _, err := sess.SetCurrentBusiness(context.Background(), b.ID); err != nil {
		t.Fatalf("switch failed: %v", err)
	}
	select {
	case <-store.upserted:
	case <-time.After(time.Second):
		t.Fatalf("timed out waiting for profile upsert")
	}

	fresh := resolveReady(t, store, userID).Snapshot()
	if fresh.CurrentBusiness == nil || fresh.CurrentBusiness.ID != b.ID {
		t.Fatalf("expected fresh session to resolve back to B")
	}
}

func TestSwitchOutsideVisibleSetRejected(t *testing.T) {
	store := newFakeStore()
	a := business("A")
	userID := uuid.New()
	store.memberships[userID] = []repository.Business{a}

	sess := resolveReady(t, store, userID)
	_, err := sess.SetCurrentBusiness(context.Background(), uuid.New())
	if !apperr.Is(err, apperr.KindInvalidTenant) {
		t.Fatalf("expected invalid tenant selection error, got %v", err)
	}

	if snap := sess.Snapshot(); snap.CurrentBusiness.ID != a.ID {
		t.Fatalf("rejected switch must not change current business")
	}
	if n := store.upsertCount(); n != 0 {
		t.Fatalf("rejected switch must not persist, got %d upserts", n)
	}
}

func TestResolveFailureDegradesToEmptyReadyState(t *testing.T) {
	store := newFakeStore()
	store.failWith = errors.New("store unavailable")
	userID := uuid.New()

	sess := NewSession(store, nil, userID)
	outcome := sess.Resolve(context.Background())

	failed, ok := outcome.(Failed)
	if !ok {
		t.Fatalf("expected Failed outcome, got %T", outcome)
	}
	if failed.Reason == nil {
		t.Fatalf("expected failure reason")
	}

	snap := sess.Snapshot()
	if snap.Loading {
		t.Fatalf("failure must not leave the session stuck loading")
	}
	if len(snap.Businesses) != 0 || snap.CurrentBusiness != nil || snap.IsSuperAdmin {
		t.Fatalf("expected degraded empty snapshot, got %+v", snap)
	}
}

func TestUnauthenticatedResolvesEmpty(t *testing.T) {
	store := newFakeStore()
	store.all = []repository.Business{business("Acme")}

	snap := resolveReady(t, store, uuid.Nil).Snapshot()
	if len(snap.Businesses) != 0 || snap.CurrentBusiness != nil || snap.IsSuperAdmin {
		t.Fatalf("expected empty snapshot for unauthenticated session")
	}
}

func TestSwitchBeforeResolveRejected(t *testing.T) {
	store := newFakeStore()
	sess := NewSession(store, nil, uuid.New())

	_, err := sess.SetCurrentBusiness(context.Background(), uuid.New())
	if !apperr.Is(err, apperr.KindValidation) {
		t.Fatalf("expected validation error before resolution, got %v", err)
	}
}
