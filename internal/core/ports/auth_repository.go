package ports

import (
	"context"

	"github.com/taskly/taskly-api/internal/core/domain"
)

// UserRepository defines persistence operations for user accounts.
type UserRepository interface {
	// FindByEmail looks the user up by domain.NormalizeEmail(email).
	// Returns domain.ErrUserNotFound when no account matches.
	FindByEmail(ctx context.Context, email string) (*domain.User, error)
	// Create inserts the user. Returns domain.ErrUserExists when the
	// normalized email is already taken.
	Create(ctx context.Context, user *domain.User) (*domain.User, error)
}

// PasswordHasher hashes and verifies passwords.
type PasswordHasher interface {
	Hash(password string) (string, error)
	Compare(hash, password string) error
}

// CredentialStore is the identity capability the auth flows depend on.
type CredentialStore interface {
	FindByEmail(ctx context.Context, email string) (*domain.User, error)
	// VerifyPassword reports whether password matches the user's stored hash.
	// A nil user is compared against a fixed hash and always fails.
	VerifyPassword(user *domain.User, password string) bool
	Create(ctx context.Context, email, password string) (*domain.User, error)
}
