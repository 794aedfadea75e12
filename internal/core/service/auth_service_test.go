package service

import (
	"context"
	"errors"
	"io"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"golang.org/x/crypto/bcrypt"

	"github.com/taskly/taskly-api/internal/core/domain"
	"github.com/taskly/taskly-api/internal/core/ports"
)

const testSecret = "0123456789abcdef0123456789abcdef"

type stubUserRepo struct {
	mu    sync.Mutex
	users map[string]*domain.User
}

func newStubUserRepo() *stubUserRepo {
	return &stubUserRepo{users: make(map[string]*domain.User)}
}

func cloneUser(u *domain.User) *domain.User {
	if u == nil {
		return nil
	}
	clone := *u
	return &clone
}

func (r *stubUserRepo) Create(_ context.Context, user *domain.User) (*domain.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	key := domain.NormalizeEmail(user.Email)
	if _, exists := r.users[key]; exists {
		return nil, domain.ErrUserExists
	}
	r.users[key] = cloneUser(user)
	return cloneUser(user), nil
}

func (r *stubUserRepo) FindByEmail(_ context.Context, email string) (*domain.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if u, ok := r.users[domain.NormalizeEmail(email)]; ok {
		return cloneUser(u), nil
	}
	return nil, domain.ErrUserNotFound
}

// countingHasher is bcrypt at minimum cost that records how often Compare runs.
type countingHasher struct {
	mu       sync.Mutex
	compares int
}

func (h *countingHasher) Hash(password string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.MinCost)
	return string(hash), err
}

func (h *countingHasher) Compare(hash, password string) error {
	h.mu.Lock()
	h.compares++
	h.mu.Unlock()
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(password))
}

func (h *countingHasher) count() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.compares
}

type authFixture struct {
	svc    *AuthService
	repo   *stubUserRepo
	hasher *countingHasher
	tokens *TokenService
}

func newAuthFixture(t *testing.T) *authFixture {
	t.Helper()

	tokens, err := NewTokenService(TokenConfig{
		Secret:   testSecret,
		Issuer:   "taskly-api",
		Audience: "taskly-client",
		TTL:      time.Hour,
	}, zerolog.New(io.Discard))
	if err != nil {
		t.Fatalf("token service: %v", err)
	}

	repo := newStubUserRepo()
	hasher := &countingHasher{}
	svc := NewAuthService(NewCredentialStore(repo, hasher), tokens, zerolog.New(io.Discard))
	return &authFixture{svc: svc, repo: repo, hasher: hasher, tokens: tokens}
}

func (f *authFixture) register(t *testing.T, email, password string) {
	t.Helper()
	err := f.svc.Register(context.Background(), ports.RegisterInput{
		Email:           email,
		Password:        password,
		ConfirmPassword: password,
	})
	if err != nil {
		t.Fatalf("register %s: %v", email, err)
	}
}

func TestAuthService_Register_Success(t *testing.T) {
	f := newAuthFixture(t)
	f.register(t, "alice@example.com", "pass123")

	user, err := f.repo.FindByEmail(context.Background(), "alice@example.com")
	if err != nil {
		t.Fatalf("user not stored: %v", err)
	}
	if user.ID == "" {
		t.Fatalf("expected an id to be assigned")
	}
	if user.PasswordHash == "pass123" {
		t.Fatalf("expected password to be hashed")
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte("pass123")); err != nil {
		t.Fatalf("stored hash does not match password: %v", err)
	}
}

func TestAuthService_Register_Validation(t *testing.T) {
	tests := []struct {
		name  string
		input ports.RegisterInput
		field string
	}{
		{"invalid email", ports.RegisterInput{Email: "not-an-email", Password: "pass123", ConfirmPassword: "pass123"}, "email"},
		{"missing email", ports.RegisterInput{Password: "pass123", ConfirmPassword: "pass123"}, "email"},
		{"short password", ports.RegisterInput{Email: "bob@example.com", Password: "12345", ConfirmPassword: "12345"}, "password"},
		{"mismatched confirmation", ports.RegisterInput{Email: "bob@example.com", Password: "pass123", ConfirmPassword: "pass124"}, "confirmPassword"},
		{"password over bcrypt limit", ports.RegisterInput{Email: "bob@example.com", Password: strings.Repeat("x", 73), ConfirmPassword: strings.Repeat("x", 73)}, "password"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newAuthFixture(t)

			err := f.svc.Register(context.Background(), tt.input)

			var ve *domain.ValidationError
			if !errors.As(err, &ve) {
				t.Fatalf("expected ValidationError, got %v", err)
			}
			if ve.Fields[tt.field] == "" {
				t.Errorf("expected a message for %q, got %v", tt.field, ve.Fields)
			}
			if len(f.repo.users) != 0 {
				t.Errorf("no user may be stored on validation failure")
			}
		})
	}
}

func TestAuthService_Register_Duplicate(t *testing.T) {
	f := newAuthFixture(t)
	f.register(t, "bob@example.com", "pass123")

	err := f.svc.Register(context.Background(), ports.RegisterInput{
		Email:           "BOB@example.com",
		Password:        "other-pass",
		ConfirmPassword: "other-pass",
	})
	if !errors.Is(err, domain.ErrRegistrationFailed) {
		t.Fatalf("expected ErrRegistrationFailed, got %v", err)
	}
	if len(f.repo.users) != 1 {
		t.Fatalf("expected exactly one stored user, got %d", len(f.repo.users))
	}
}

func TestAuthService_Login_Success(t *testing.T) {
	f := newAuthFixture(t)
	f.register(t, "carol@example.com", "s3cret")

	token, err := f.svc.Login(context.Background(), "Carol@Example.com", "s3cret")
	if err != nil {
		t.Fatalf("login failed: %v", err)
	}
	if token == "" {
		t.Fatalf("expected token, got empty")
	}

	principal, err := f.tokens.Validate(context.Background(), token)
	if err != nil {
		t.Fatalf("token invalid: %v", err)
	}
	stored, _ := f.repo.FindByEmail(context.Background(), "carol@example.com")
	if principal.UserID != stored.ID {
		t.Fatalf("expected subject %q, got %q", stored.ID, principal.UserID)
	}
	if principal.Email != "carol@example.com" {
		t.Fatalf("expected email claim, got %q", principal.Email)
	}
}

func TestAuthService_Login_FailuresAreIndistinguishable(t *testing.T) {
	f := newAuthFixture(t)
	f.register(t, "dave@example.com", "goodpass")

	before := f.hasher.count()
	_, wrongPassword := f.svc.Login(context.Background(), "dave@example.com", "badpass")
	afterWrong := f.hasher.count()
	_, unknownUser := f.svc.Login(context.Background(), "ghost@example.com", "badpass")
	afterUnknown := f.hasher.count()

	if !errors.Is(wrongPassword, domain.ErrInvalidCredentials) {
		t.Fatalf("wrong password: expected ErrInvalidCredentials, got %v", wrongPassword)
	}
	if !errors.Is(unknownUser, domain.ErrInvalidCredentials) {
		t.Fatalf("unknown user: expected ErrInvalidCredentials, got %v", unknownUser)
	}
	if wrongPassword.Error() != unknownUser.Error() {
		t.Fatalf("errors differ: %q vs %q", wrongPassword, unknownUser)
	}
	if afterWrong-before != 1 || afterUnknown-afterWrong != 1 {
		t.Fatalf("expected one hash comparison per attempt, got %d and %d", afterWrong-before, afterUnknown-afterWrong)
	}
}

func TestAuthService_Login_EmptyInput(t *testing.T) {
	f := newAuthFixture(t)

	for _, tc := range [][2]string{{"", "pass"}, {"alice@example.com", ""}, {"   ", "pass"}} {
		if _, err := f.svc.Login(context.Background(), tc[0], tc[1]); !errors.Is(err, domain.ErrInvalidCredentials) {
			t.Errorf("Login(%q, %q): expected ErrInvalidCredentials, got %v", tc[0], tc[1], err)
		}
	}
}

type failingUserRepo struct{}

func (failingUserRepo) Create(context.Context, *domain.User) (*domain.User, error) {
	return nil, errors.New("database is locked")
}

func (failingUserRepo) FindByEmail(context.Context, string) (*domain.User, error) {
	return nil, errors.New("database is locked")
}

func TestAuthService_StoreFailuresAreNotCredentialErrors(t *testing.T) {
	f := newAuthFixture(t)
	svc := NewAuthService(NewCredentialStore(failingUserRepo{}, f.hasher), f.tokens, zerolog.New(io.Discard))

	err := svc.Register(context.Background(), ports.RegisterInput{
		Email: "eve@example.com", Password: "pass123", ConfirmPassword: "pass123",
	})
	if err == nil || errors.Is(err, domain.ErrRegistrationFailed) {
		t.Fatalf("expected an infrastructure error, got %v", err)
	}
	if !strings.Contains(err.Error(), "database is locked") {
		t.Errorf("expected cause to be wrapped, got %v", err)
	}

	if _, err := svc.Login(context.Background(), "eve@example.com", "pass123"); err == nil || errors.Is(err, domain.ErrInvalidCredentials) {
		t.Fatalf("expected an infrastructure error, got %v", err)
	}
}
