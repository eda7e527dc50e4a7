package resolver

import (
	"context"
	"errors"
	"testing"

	"slingshot_backend/internal/tenancy/repository"

	"github.com/google/uuid"
)

func TestManagerReusesResolvedSession(t *testing.T) {
	store := newFakeStore()
	a := business("A")
	userID := uuid.New()
	store.memberships[userID] = []repository.Business{a}

	m := NewManager(store, nil)
	first, outcome := m.Session(context.Background(), userID)
	if _, ok := outcome.(Resolved); !ok {
		t.Fatalf("expected Resolved outcome, got %T", outcome)
	}

	second, _ := m.Session(context.Background(), userID)
	if first != second {
		t.Fatalf("expected the cached session to be reused")
	}
}

func TestManagerRetriesAfterFailedResolution(t *testing.T) {
	store := newFakeStore()
	a := business("A")
	userID := uuid.New()
	store.memberships[userID] = []repository.Business{a}
	store.failWith = errors.New("store unavailable")

	m := NewManager(store, nil)
	if _, outcome := m.Session(context.Background(), userID); true {
		if _, ok := outcome.(Failed); !ok {
			t.Fatalf("expected Failed outcome, got %T", outcome)
		}
	}

	store.failWith = nil
	_, outcome := m.Session(context.Background(), userID)
	resolved, ok := outcome.(Resolved)
	if !ok {
		t.Fatalf("expected retry to resolve, got %T", outcome)
	}
	if len(resolved.Businesses) != 1 || resolved.Businesses[0].ID != a.ID {
		t.Fatalf("unexpected resolved set %+v", resolved.Businesses)
	}
}

func TestManagerInvalidateForcesReResolution(t *testing.T) {
	store := newFakeStore()
	a := business("A")
	b := business("B")
	userID := uuid.New()
	store.memberships[userID] = []repository.Business{a}

	m := NewManager(store, nil)
	sess, _ := m.Session(context.Background(), userID)
	if snap := sess.Snapshot(); len(snap.Businesses) != 1 {
		t.Fatalf("expected one visible business")
	}

	store.memberships[userID] = []repository.Business{a, b}
	m.Invalidate(userID)

	fresh, _ := m.Session(context.Background(), userID)
	if fresh == sess {
		t.Fatalf("expected a new session after invalidation")
	}
	if snap := fresh.Snapshot(); len(snap.Businesses) != 2 {
		t.Fatalf("expected re-resolved set to include the new membership")
	}
}
