package ports

import (
	"context"

	"github.com/danmigwi24/credential-service/internal/core/domain"
)

// UserRepository is the user store contract the core depends on.
//
// Implementations report domain.ErrNotFound for absent users,
// domain.ErrAlreadyExists when Insert violates the email or username
// uniqueness constraint, and wrap domain.ErrUnavailable on timeouts or
// connectivity failures. Insert must be atomic with respect to uniqueness.
type UserRepository interface {
	FindByEmail(ctx context.Context, email string) (*domain.User, error)
	FindByID(ctx context.Context, id string) (*domain.User, error)
	Insert(ctx context.Context, user domain.NewUser) (*domain.User, error)
	UpdateByID(ctx context.Context, id string, update domain.UserUpdate) (*domain.User, error)
}
