// Package resolver computes the visible tenant set and current tenant for an
// authenticated session: which businesses the user may act within, which one
// scopes their queries right now, and whether they hold the global
// super-admin override.
package resolver

import (
	"context"
	"sync"

	"slingshot_backend/internal/tenancy/repository"
	"slingshot_backend/platform/apperr"
	"slingshot_backend/platform/logger"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"
)

// Store is the data access the resolver needs, consumer-driven so tests can
// substitute fakes.
type Store interface {
	IsSuperAdmin(ctx context.Context, userID uuid.UUID) (bool, error)
	ListAllBusinesses(ctx context.Context) ([]repository.Business, error)
	ListActiveBusinessesForUser(ctx context.Context, userID uuid.UUID) ([]repository.Business, error)
	GetCurrentBusinessID(ctx context.Context, userID uuid.UUID) (*uuid.UUID, error)
	UpsertCurrentBusiness(ctx context.Context, userID, businessID uuid.UUID) error
}

// State is the session's resolution lifecycle.
type State int

const (
	StateUninitialized State = iota
	StateResolving
	StateReady
)

// Snapshot is the read-only view exposed to handlers. CurrentBusiness is nil
// while resolving and when the visible set is empty.
type Snapshot struct {
	Businesses      []repository.Business
	CurrentBusiness *repository.Business
	Loading         bool
	IsSuperAdmin    bool
}

// Outcome is the result of a resolution run: Resolved or Failed.
type Outcome interface {
	outcome()
}

// Resolved carries the computed tenant set, current tenant, and override flag.
type Resolved struct {
	Businesses   []repository.Business
	Current      *repository.Business
	IsSuperAdmin bool
}

// Failed records why resolution could not complete. The session still settles
// into a degraded empty Ready state so dependents are never stuck loading.
type Failed struct {
	Reason error
}

func (Resolved) outcome() {}
func (Failed) outcome()   {}

// Session holds per-session tenant context. It is created at session start,
// resolved once, and torn down with Close. Handlers may call Snapshot and
// SetCurrentBusiness concurrently.
type Session struct {
	store  Store
	log    *logger.Logger
	userID uuid.UUID

	mu           sync.Mutex
	state        State
	businesses   []repository.Business
	current      *repository.Business
	isSuperAdmin bool
	failure      error

	done      chan struct{}
	closeOnce sync.Once
}

// NewSession creates an unresolved session for the given user. A nil userID
// represents an unauthenticated caller and resolves to the empty state.
func NewSession(store Store, log *logger.Logger, userID uuid.UUID) *Session {
	return &Session{
		store:  store,
		log:    log,
		userID: userID,
		state:  StateUninitialized,
		done:   make(chan struct{}),
	}
}

// Resolve runs the resolution algorithm. The super-admin check and the
// profile read are independent and run in parallel; the current-tenant
// precedence (profile match, then first of the set, then nil) is applied
// after both settle. Any lookup failure degrades the session to an empty
// Ready state and is reported as Failed.
func (s *Session) Resolve(ctx context.Context) Outcome {
	s.mu.Lock()
	s.state = StateResolving
	s.mu.Unlock()

	if s.userID == uuid.Nil {
		return s.settle(nil, nil, false, nil)
	}

	var (
		businesses []repository.Business
		profileID  *uuid.UUID
		superAdmin bool
	)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		isSuper, err := s.store.IsSuperAdmin(gctx, s.userID)
		if err != nil {
			return err
		}
		superAdmin = isSuper

		if isSuper {
			businesses, err = s.store.ListAllBusinesses(gctx)
		} else {
			businesses, err = s.store.ListActiveBusinessesForUser(gctx, s.userID)
		}
		return err
	})
	g.Go(func() error {
		var err error
		profileID, err = s.store.GetCurrentBusinessID(gctx, s.userID)
		return err
	})

	if err := g.Wait(); err != nil {
		return s.settle(nil, nil, false, err)
	}

	current := selectCurrent(businesses, profileID)
	return s.settle(businesses, current, superAdmin, nil)
}

// selectCurrent applies the precedence rule: the persisted selection wins if
// it is still in the visible set, otherwise the first element, otherwise nil.
func selectCurrent(businesses []repository.Business, profileID *uuid.UUID) *repository.Business {
	if profileID != nil {
		for i := range businesses {
			if businesses[i].ID == *profileID {
				b := businesses[i]
				return &b
			}
		}
	}
	if len(businesses) > 0 {
		b := businesses[0]
		return &b
	}
	return nil
}

func (s *Session) settle(businesses []repository.Business, current *repository.Business, superAdmin bool, failure error) Outcome {
	if businesses == nil {
		businesses = []repository.Business{}
	}

	s.mu.Lock()
	s.state = StateReady
	s.businesses = businesses
	s.current = current
	s.isSuperAdmin = superAdmin
	s.failure = failure
	s.mu.Unlock()

	if failure != nil {
		return Failed{Reason: failure}
	}
	return Resolved{Businesses: businesses, Current: current, IsSuperAdmin: superAdmin}
}

// Snapshot returns a copy of the current tenant context.
func (s *Session) Snapshot() Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()

	businesses := make([]repository.Business, len(s.businesses))
	copy(businesses, s.businesses)

	var current *repository.Business
	if s.current != nil {
		b := *s.current
		current = &b
	}

	return Snapshot{
		Businesses:      businesses,
		CurrentBusiness: current,
		Loading:         s.state != StateReady,
		IsSuperAdmin:    s.isSuperAdmin,
	}
}

// Err returns the failure of the last resolution run, if any.
func (s *Session) Err() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.failure
}

// SetCurrentBusiness switches the in-memory current tenant synchronously and
// persists the selection in the background. A tenant outside the resolved
// visible set is rejected. Persistence failures are logged, never surfaced;
// the in-memory selection stands regardless.
func (s *Session) SetCurrentBusiness(ctx context.Context, businessID uuid.UUID) (repository.Business, error) {
	s.mu.Lock()
	if s.state != StateReady {
		s.mu.Unlock()
		return repository.Business{}, apperr.Validation("tenant context not resolved yet")
	}

	var selected *repository.Business
	for i := range s.businesses {
		if s.businesses[i].ID == businessID {
			b := s.businesses[i]
			selected = &b
			break
		}
	}
	if selected == nil {
		s.mu.Unlock()
		return repository.Business{}, apperr.InvalidTenantSelection("business is not in your visible set")
	}

	s.current = selected
	s.mu.Unlock()

	go s.persistSelection(context.WithoutCancel(ctx), businessID)

	return *selected, nil
}

func (s *Session) persistSelection(ctx context.Context, businessID uuid.UUID) {
	select {
	case <-s.done:
		return
	default:
	}

	if err := s.store.UpsertCurrentBusiness(ctx, s.userID, businessID); err != nil {
		select {
		case <-s.done:
			// Session torn down mid-flight; discard the result.
		default:
			if s.log != nil {
				s.log.Warn("persist current business failed",
					"user_id", s.userID.String(),
					"business_id", businessID.String(),
					"error", err.Error(),
				)
			}
		}
	}
}

// Close tears the session down. In-flight persistence results arriving after
// Close are discarded.
func (s *Session) Close() {
	s.closeOnce.Do(func() {
		close(s.done)
	})
}
