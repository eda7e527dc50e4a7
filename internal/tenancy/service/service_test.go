package service

import (
	"context"
	"encoding/json"
	"errors"
	"sort"
	"sync"
	"testing"
	"time"

	"slingshot_backend/internal/auth"
	"slingshot_backend/internal/events"
	"slingshot_backend/internal/tenancy/repository"
	"slingshot_backend/internal/tenancy/resolver"
	"slingshot_backend/platform/apperr"

	"github.com/google/uuid"
)

// fakeStore backs both the service and the resolver, so session invalidation
// behavior can be exercised end to end without a database.
type fakeStore struct {
	mu           sync.Mutex
	superAdmins  map[uuid.UUID]bool
	businesses   []repository.Business
	memberships  map[uuid.UUID][]repository.Business
	members      map[uuid.UUID]map[uuid.UUID]repository.Member
	addMemberErr error
}

func newFakeStore() *fakeStore {
	return &fakeStore{
		superAdmins: make(map[uuid.UUID]bool),
		memberships: make(map[uuid.UUID][]repository.Business),
		members:     make(map[uuid.UUID]map[uuid.UUID]repository.Member),
	}
}

func (f *fakeStore) IsSuperAdmin(_ context.Context, userID uuid.UUID) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.superAdmins[userID], nil
}

func (f *fakeStore) ListAllBusinesses(_ context.Context) ([]repository.Business, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	sorted := make([]repository.Business, len(f.businesses))
	copy(sorted, f.businesses)
	sort.Slice(sorted, func(i, j int) bool { return sorted[i].Name < sorted[j].Name })
	return sorted, nil
}

func (f *fakeStore) ListActiveBusinessesForUser(_ context.Context, userID uuid.UUID) ([]repository.Business, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.memberships[userID], nil
}

func (f *fakeStore) GetCurrentBusinessID(_ context.Context, _ uuid.UUID) (*uuid.UUID, error) {
	return nil, nil
}

func (f *fakeStore) UpsertCurrentBusiness(_ context.Context, _, _ uuid.UUID) error {
	return nil
}

func (f *fakeStore) CreateBusiness(_ context.Context, name, slug, currency, primaryColor string, domain, emailDomain *string) (repository.Business, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	b := repository.Business{
		ID:           uuid.New(),
		Name:         name,
		Slug:         slug,
		Currency:     currency,
		PrimaryColor: primaryColor,
		Domain:       domain,
		EmailDomain:  emailDomain,
	}
	f.businesses = append(f.businesses, b)
	return b, nil
}

func (f *fakeStore) GetBusiness(_ context.Context, businessID uuid.UUID) (repository.Business, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, b := range f.businesses {
		if b.ID == businessID {
			return b, nil
		}
	}
	return repository.Business{}, repository.ErrNotFound
}

func (f *fakeStore) UpdateBusiness(_ context.Context, _ uuid.UUID, _ repository.BusinessUpdate) (repository.Business, error) {
	return repository.Business{}, repository.ErrNotFound
}

func (f *fakeStore) SetBusinessLogoURL(_ context.Context, _ uuid.UUID, _ string) error {
	return nil
}

func (f *fakeStore) SlugExists(_ context.Context, slug string) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, b := range f.businesses {
		if b.Slug == slug {
			return true, nil
		}
	}
	return false, nil
}

func (f *fakeStore) AddMember(_ context.Context, businessID, userID uuid.UUID, role, status string, permissions json.RawMessage) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.addMemberErr != nil {
		return f.addMemberErr
	}
	if f.members[businessID] == nil {
		f.members[businessID] = make(map[uuid.UUID]repository.Member)
	}
	f.members[businessID][userID] = repository.Member{
		ID:          uuid.New(),
		BusinessID:  businessID,
		UserID:      userID,
		Role:        role,
		Status:      status,
		Permissions: permissions,
	}
	for _, b := range f.businesses {
		if b.ID == businessID {
			f.memberships[userID] = append(f.memberships[userID], b)
		}
	}
	return nil
}

func (f *fakeStore) ListMembers(_ context.Context, businessID uuid.UUID) ([]repository.Member, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	members := make([]repository.Member, 0, len(f.members[businessID]))
	for _, m := range f.members[businessID] {
		members = append(members, m)
	}
	return members, nil
}

func (f *fakeStore) GetMember(_ context.Context, businessID, userID uuid.UUID) (repository.Member, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if m, ok := f.members[businessID][userID]; ok {
		return m, nil
	}
	return repository.Member{}, repository.ErrNotFound
}

func (f *fakeStore) UpdateMember(_ context.Context, _, _ uuid.UUID, _, _ *string, _ json.RawMessage) error {
	return repository.ErrNotFound
}

func (f *fakeStore) RemoveMember(_ context.Context, _, _ uuid.UUID) error {
	return repository.ErrNotFound
}

func (f *fakeStore) ActivateMember(_ context.Context, _, _ uuid.UUID) error {
	return nil
}

func (f *fakeStore) CreateInvite(_ context.Context, _ uuid.UUID, _, _, _ string, _ time.Time, _ uuid.UUID) (repository.Invite, error) {
	return repository.Invite{}, nil
}

func (f *fakeStore) GetInviteByToken(_ context.Context, _ string) (repository.Invite, error) {
	return repository.Invite{}, repository.ErrNotFound
}

func (f *fakeStore) UseInvite(_ context.Context, _, _ uuid.UUID) error {
	return nil
}

func (f *fakeStore) putMember(businessID, userID uuid.UUID, role string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.members[businessID] == nil {
		f.members[businessID] = make(map[uuid.UUID]repository.Member)
	}
	f.members[businessID][userID] = repository.Member{
		ID:         uuid.New(),
		BusinessID: businessID,
		UserID:     userID,
		Role:       role,
		Status:     "active",
	}
}

type fakeUsers struct {
	byEmail map[string]auth.Profile
}

func (f fakeUsers) GetUserByID(_ context.Context, _ uuid.UUID) (auth.Profile, error) {
	return auth.Profile{}, errors.New("unknown user")
}

func (f fakeUsers) GetUserByEmail(_ context.Context, email string) (auth.Profile, error) {
	p, ok := f.byEmail[email]
	if !ok {
		return auth.Profile{}, errors.New("unknown user")
	}
	return p, nil
}

func newTestService(store *fakeStore, users auth.UserProvider) *Service {
	sessions := resolver.NewManager(store, nil)
	return New(store, sessions, users, events.NewInMemoryBus(nil), nil, "", nil, nil)
}

func TestCreateBusinessRefreshesSuperAdminSessions(t *testing.T) {
	store := newFakeStore()
	adminID := uuid.New()
	store.superAdmins[adminID] = true
	store.businesses = []repository.Business{{ID: uuid.New(), Name: "Acme", Slug: "acme"}}

	svc := newTestService(store, fakeUsers{})

	before, err := svc.ListBusinesses(context.Background(), adminID)
	if err != nil {
		t.Fatalf("list businesses: %v", err)
	}
	if len(before) != 1 {
		t.Fatalf("expected one visible business before creation, got %d", len(before))
	}

	creatorID := uuid.New()
	created, err := svc.CreateBusiness(context.Background(), creatorID, CreateBusinessInput{Name: "Globex"})
	if err != nil {
		t.Fatalf("create business: %v", err)
	}

	after, err := svc.ListBusinesses(context.Background(), adminID)
	if err != nil {
		t.Fatalf("list businesses after creation: %v", err)
	}
	if len(after) != 2 {
		t.Fatalf("expected the admin's re-resolved set to include the new business, got %d", len(after))
	}
	found := false
	for _, b := range after {
		if b.ID == created.ID {
			found = true
		}
	}
	if !found {
		t.Fatalf("expected business %s in the admin's visible set", created.ID)
	}
}

func TestAddMemberDuplicateIsConflict(t *testing.T) {
	store := newFakeStore()
	biz := repository.Business{ID: uuid.New(), Name: "Acme", Slug: "acme"}
	store.businesses = []repository.Business{biz}

	ownerID := uuid.New()
	store.memberships[ownerID] = []repository.Business{biz}
	store.putMember(biz.ID, ownerID, RoleOwner)

	existing := auth.Profile{ID: uuid.New(), Email: "dev@acme.test"}
	users := fakeUsers{byEmail: map[string]auth.Profile{existing.Email: existing}}

	svc := newTestService(store, users)
	store.addMemberErr = repository.ErrDuplicateMember

	_, err := svc.AddMember(context.Background(), ownerID, biz.ID, existing.Email, RoleUser, nil)
	if err == nil {
		t.Fatalf("expected an error when adding an existing member")
	}
	if !apperr.Is(err, apperr.KindConflict) {
		t.Fatalf("expected a conflict, got %v", err)
	}
}
