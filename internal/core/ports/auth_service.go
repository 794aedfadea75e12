package ports

import (
	"context"

	"github.com/taskly/taskly-api/internal/core/domain"
)

// RegisterInput carries the fields of a sign-up request. bcrypt refuses
// passwords longer than 72 bytes, so that limit is checked here.
type RegisterInput struct {
	Email           string `json:"email"           validate:"required,email"`
	Password        string `json:"password"        validate:"required,min=6,maxbytes=72"`
	ConfirmPassword string `json:"confirmPassword" validate:"required,eqfield=Password"`
}

type AuthService interface {
	Register(ctx context.Context, input RegisterInput) error
	// Login returns a signed bearer token. Unknown email and wrong password
	// both yield domain.ErrInvalidCredentials.
	Login(ctx context.Context, email, password string) (string, error)
}

// TokenIssuer produces signed bearer tokens for verified users.
type TokenIssuer interface {
	Issue(user *domain.User) (string, error)
}

// TokenValidator checks a bearer token and extracts the caller.
type TokenValidator interface {
	Validate(ctx context.Context, token string) (*domain.Principal, error)
}
