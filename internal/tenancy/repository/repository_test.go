package repository

import (
	"errors"
	"testing"

	"github.com/jackc/pgx/v5/pgconn"
)

func TestMapUniqueViolationYieldsDuplicateMember(t *testing.T) {
	pgErr := &pgconn.PgError{Code: "23505", ConstraintName: "business_users_business_id_user_id_key"}
	if err := mapUniqueViolation(pgErr); !errors.Is(err, ErrDuplicateMember) {
		t.Fatalf("expected ErrDuplicateMember, got %v", err)
	}
}

func TestMapUniqueViolationPassesOtherErrorsThrough(t *testing.T) {
	if err := mapUniqueViolation(nil); err != nil {
		t.Fatalf("expected nil to pass through, got %v", err)
	}

	boom := errors.New("connection reset")
	if err := mapUniqueViolation(boom); !errors.Is(err, boom) {
		t.Fatalf("expected error to pass through, got %v", err)
	}

	fkErr := &pgconn.PgError{Code: "23503"}
	if err := mapUniqueViolation(fkErr); !errors.As(err, new(*pgconn.PgError)) {
		t.Fatalf("expected foreign key violation to pass through, got %v", err)
	}
}
