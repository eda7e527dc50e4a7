package auth

import (
	"context"

	"slingshot_backend/internal/auth/repository"

	"github.com/google/uuid"
)

// userProvider adapts the auth repository to the cross-domain UserProvider
// interface, exposing Profile instead of the internal user record.
type userProvider struct {
	repo repository.UserReader
}

// NewUserProvider wraps a user reader for consumption by other domains.
func NewUserProvider(repo repository.UserReader) UserProvider {
	return &userProvider{repo: repo}
}

func (p *userProvider) GetUserByID(ctx context.Context, userID uuid.UUID) (Profile, error) {
	user, err := p.repo.GetUserByID(ctx, userID)
	if err != nil {
		return Profile{}, err
	}
	return profileFromUser(user), nil
}

func (p *userProvider) GetUserByEmail(ctx context.Context, email string) (Profile, error) {
	user, err := p.repo.GetUserByEmail(ctx, email)
	if err != nil {
		return Profile{}, err
	}
	return profileFromUser(user), nil
}

func profileFromUser(user repository.User) Profile {
	return Profile{
		ID:            user.ID,
		Email:         user.Email,
		EmailVerified: user.EmailVerified,
		CreatedAt:     user.CreatedAt,
		UpdatedAt:     user.UpdatedAt,
	}
}
