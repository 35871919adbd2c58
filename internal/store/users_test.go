package store

import (
	"context"
	"testing"
	"time"
)

func seedUser(t *testing.T, st *Store, id, email string) *User {
	t.Helper()
	now := time.Now().UTC()
	user := &User{
		ID:           id,
		Email:        email,
		Name:         "Test User",
		PasswordHash: "hash",
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	if err := st.CreateUser(context.Background(), user); err != nil {
		t.Fatalf("create user: %v", err)
	}
	return user
}

func TestCreateAndGetUser(t *testing.T) {
	st := newTestStore(t)
	ctx := context.Background()

	seedUser(t, st, "u-1", "one@example.com")

	byEmail, err := st.GetUserByEmail(ctx, "one@example.com")
	if err != nil {
		t.Fatalf("get by email: %v", err)
	}
	if byEmail == nil || byEmail.ID != "u-1" {
		t.Fatalf("unexpected user: %+v", byEmail)
	}
	if byEmail.Confirmed || byEmail.EmailVerified {
		t.Fatalf("expected unconfirmed user, got %+v", byEmail)
	}

	byID, err := st.GetUserByID(ctx, "u-1")
	if err != nil {
		t.Fatalf("get by id: %v", err)
	}
	if byID == nil || byID.Email != "one@example.com" {
		t.Fatalf("unexpected user: %+v", byID)
	}

	missing, err := st.GetUserByEmail(ctx, "nobody@example.com")
	if err != nil {
		t.Fatalf("get missing: %v", err)
	}
	if missing != nil {
		t.Fatalf("expected nil, got %+v", missing)
	}
}

func TestCreateUserDuplicateEmailFails(t *testing.T) {
	st := newTestStore(t)

	seedUser(t, st, "u-1", "dup@example.com")

	now := time.Now().UTC()
	err := st.CreateUser(context.Background(), &User{
		ID:           "u-2",
		Email:        "dup@example.com",
		PasswordHash: "hash2",
		CreatedAt:    now,
		UpdatedAt:    now,
	})
	if err == nil {
		t.Fatal("expected unique constraint violation")
	}
}

func TestSetUserPassword(t *testing.T) {
	st := newTestStore(t)
	ctx := context.Background()

	seedUser(t, st, "u-1", "pw@example.com")

	found, err := st.SetUserPassword(ctx, "pw@example.com", "new-hash", true, time.Now().UTC())
	if err != nil {
		t.Fatalf("set password: %v", err)
	}
	if !found {
		t.Fatal("expected account match")
	}

	user, err := st.GetUserByEmail(ctx, "pw@example.com")
	if err != nil || user == nil {
		t.Fatalf("get user: %v", err)
	}
	if user.PasswordHash != "new-hash" {
		t.Fatalf("expected new hash, got %q", user.PasswordHash)
	}
	if !user.Confirmed {
		t.Fatal("expected confirmed flag set")
	}

	found, err = st.SetUserPassword(ctx, "nobody@example.com", "x", true, time.Now().UTC())
	if err != nil {
		t.Fatalf("set password for missing account: %v", err)
	}
	if found {
		t.Fatal("expected no match for missing account")
	}
}

func TestResetCodeLifecycle(t *testing.T) {
	st := newTestStore(t)
	ctx := context.Background()
	now := time.Now().UTC()

	if err := st.SaveResetCode(ctx, "rc@example.com", "hash-1", now.Add(10*time.Minute)); err != nil {
		t.Fatalf("save code: %v", err)
	}
	// Re-issuing replaces the outstanding code.
	if err := st.SaveResetCode(ctx, "rc@example.com", "hash-2", now.Add(10*time.Minute)); err != nil {
		t.Fatalf("replace code: %v", err)
	}

	matched, err := st.ConsumeResetCode(ctx, "rc@example.com", "hash-1", now)
	if err != nil {
		t.Fatalf("consume stale hash: %v", err)
	}
	if matched {
		t.Fatal("expected superseded code to miss")
	}

	matched, err = st.ConsumeResetCode(ctx, "rc@example.com", "hash-2", now)
	if err != nil {
		t.Fatalf("consume: %v", err)
	}
	if !matched {
		t.Fatal("expected code to match")
	}

	// Single use.
	matched, err = st.ConsumeResetCode(ctx, "rc@example.com", "hash-2", now)
	if err != nil {
		t.Fatalf("consume again: %v", err)
	}
	if matched {
		t.Fatal("expected consumed code to miss")
	}
}

func TestResetCodeExpiry(t *testing.T) {
	st := newTestStore(t)
	ctx := context.Background()
	now := time.Now().UTC()

	if err := st.SaveResetCode(ctx, "exp@example.com", "hash", now.Add(-time.Minute)); err != nil {
		t.Fatalf("save expired code: %v", err)
	}

	matched, err := st.ConsumeResetCode(ctx, "exp@example.com", "hash", now)
	if err != nil {
		t.Fatalf("consume: %v", err)
	}
	if matched {
		t.Fatal("expected expired code to miss")
	}
}
