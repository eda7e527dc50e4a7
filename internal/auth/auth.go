// Package auth provides authentication functionality.
// This file defines the public API of the auth bounded context.
// Only types and interfaces defined here should be imported by other domains.
package auth

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// Profile represents user information that can be shared with other domains.
type Profile struct {
	ID            uuid.UUID
	Email         string
	EmailVerified bool
	CreatedAt     time.Time
	UpdatedAt     time.Time
}

// UserProvider is an interface that other domains can use to get user
// information without depending on auth internals.
type UserProvider interface {
	// GetUserByID returns basic user information needed by other domains.
	GetUserByID(ctx context.Context, userID uuid.UUID) (Profile, error)
	// GetUserByEmail looks a user up by email, for invite acceptance flows.
	GetUserByEmail(ctx context.Context, email string) (Profile, error)
}
