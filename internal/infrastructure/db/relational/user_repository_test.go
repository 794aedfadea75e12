package relational

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/taskly/taskly-api/internal/core/domain"
)

func TestUserRepository_CreateAndFind(t *testing.T) {
	repo := NewUserRepository(setupTestDB(t))
	created := createUser(t, repo, "Alice@Example.com")

	found, err := repo.FindByEmail(context.Background(), "alice@example.com")
	if err != nil {
		t.Fatalf("FindByEmail() error = %v", err)
	}
	if found.ID != created.ID {
		t.Errorf("expected id %q, got %q", created.ID, found.ID)
	}
	if found.Email != "Alice@Example.com" {
		t.Errorf("expected original email casing to be kept, got %q", found.Email)
	}
	if found.PasswordHash != "hash" {
		t.Errorf("unexpected password hash %q", found.PasswordHash)
	}
}

func TestUserRepository_DuplicateEmailIgnoresCase(t *testing.T) {
	repo := NewUserRepository(setupTestDB(t))
	createUser(t, repo, "bob@example.com")

	_, err := repo.Create(context.Background(), &domain.User{
		ID:           uuid.NewString(),
		Email:        "BOB@example.com",
		PasswordHash: "hash",
		CreatedAt:    time.Now().UTC(),
	})
	if !errors.Is(err, domain.ErrUserExists) {
		t.Fatalf("expected ErrUserExists, got %v", err)
	}
}

func TestUserRepository_FindByEmail_NotFound(t *testing.T) {
	repo := NewUserRepository(setupTestDB(t))

	if _, err := repo.FindByEmail(context.Background(), "ghost@example.com"); !errors.Is(err, domain.ErrUserNotFound) {
		t.Fatalf("expected ErrUserNotFound, got %v", err)
	}
}
