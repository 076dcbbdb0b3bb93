package ports

import (
	"context"
	"time"

	"github.com/danmigwi24/credential-service/internal/core/domain"
)

// RegisterInput carries the public registration fields.
type RegisterInput struct {
	Username string
	Email    string
	Password string
}

// LoginInput carries login credentials.
type LoginInput struct {
	Email    string
	Password string
}

// ChangePasswordInput carries a password change for an authenticated user.
type ChangePasswordInput struct {
	ID          string
	OldPassword string
	NewPassword string
}

// UserProfile is the user view returned by the service. It never carries
// password material.
type UserProfile struct {
	ID        string
	Username  string
	Email     string
	Active    bool
	Role      domain.Role
	CreatedAt time.Time
	UpdatedAt time.Time
}

// LoginResult is returned by a successful login.
type LoginResult struct {
	User      UserProfile
	Token     string
	ExpiresAt time.Time
}

// UserService defines the credential use cases.
type UserService interface {
	Register(ctx context.Context, input RegisterInput) (*UserProfile, error)
	Login(ctx context.Context, input LoginInput) (*LoginResult, error)
	Get(ctx context.Context, id string) (*UserProfile, error)
	ChangePassword(ctx context.Context, input ChangePasswordInput) (*UserProfile, error)
}
