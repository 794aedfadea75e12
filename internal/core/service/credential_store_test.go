package service

import (
	"context"
	"errors"
	"testing"

	"github.com/taskly/taskly-api/internal/core/domain"
)

func TestCredentialStore_CreateAndVerify(t *testing.T) {
	repo := newStubUserRepo()
	store := NewCredentialStore(repo, &countingHasher{})

	created, err := store.Create(context.Background(), "Alice@Example.com", "pass123")
	if err != nil {
		t.Fatalf("Create() error = %v", err)
	}
	if created.ID == "" || created.CreatedAt.IsZero() {
		t.Fatalf("expected id and createdAt to be set, got %+v", created)
	}

	found, err := store.FindByEmail(context.Background(), "  alice@example.COM ")
	if err != nil {
		t.Fatalf("FindByEmail() error = %v", err)
	}
	if found.ID != created.ID {
		t.Fatalf("expected %q, got %q", created.ID, found.ID)
	}

	if !store.VerifyPassword(found, "pass123") {
		t.Errorf("expected correct password to verify")
	}
	if store.VerifyPassword(found, "pass124") {
		t.Errorf("expected wrong password to fail")
	}
}

func TestCredentialStore_DuplicateEmail(t *testing.T) {
	store := NewCredentialStore(newStubUserRepo(), &countingHasher{})

	if _, err := store.Create(context.Background(), "bob@example.com", "pass123"); err != nil {
		t.Fatalf("Create() error = %v", err)
	}
	if _, err := store.Create(context.Background(), "bob@example.com", "pass456"); !errors.Is(err, domain.ErrUserExists) {
		t.Fatalf("expected ErrUserExists, got %v", err)
	}
}

func TestCredentialStore_VerifyNilUserStillCompares(t *testing.T) {
	hasher := &countingHasher{}
	store := NewCredentialStore(newStubUserRepo(), hasher)

	if store.VerifyPassword(nil, dummyPassword) {
		t.Fatalf("a nil user must never verify, even with the dummy password")
	}
	if hasher.count() != 1 {
		t.Fatalf("expected one comparison, got %d", hasher.count())
	}
}
