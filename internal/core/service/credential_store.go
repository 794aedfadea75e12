package service

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/taskly/taskly-api/internal/core/domain"
	"github.com/taskly/taskly-api/internal/core/ports"
)

// dummyPassword is hashed once and compared against when a login names an
// unknown account, so both failure paths cost one hash comparison.
const dummyPassword = "taskly-dummy-password"

// CredentialStore combines user persistence with password hashing.
type CredentialStore struct {
	users  ports.UserRepository
	hasher ports.PasswordHasher

	dummyOnce sync.Once
	dummyHash string
}

func NewCredentialStore(users ports.UserRepository, hasher ports.PasswordHasher) *CredentialStore {
	return &CredentialStore{users: users, hasher: hasher}
}

var _ ports.CredentialStore = (*CredentialStore)(nil)

func (s *CredentialStore) FindByEmail(ctx context.Context, email string) (*domain.User, error) {
	return s.users.FindByEmail(ctx, domain.NormalizeEmail(email))
}

func (s *CredentialStore) VerifyPassword(user *domain.User, password string) bool {
	if user == nil {
		s.dummyOnce.Do(func() {
			s.dummyHash, _ = s.hasher.Hash(dummyPassword)
		})
		_ = s.hasher.Compare(s.dummyHash, password)
		return false
	}
	return s.hasher.Compare(user.PasswordHash, password) == nil
}

func (s *CredentialStore) Create(ctx context.Context, email, password string) (*domain.User, error) {
	hash, err := s.hasher.Hash(password)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}

	user := &domain.User{
		ID:           uuid.NewString(),
		Email:        email,
		PasswordHash: hash,
		CreatedAt:    time.Now().UTC(),
	}

	created, err := s.users.Create(ctx, user)
	if err != nil {
		if errors.Is(err, domain.ErrUserExists) {
			return nil, err
		}
		return nil, fmt.Errorf("create user: %w", err)
	}
	return created, nil
}
