package identity

import (
	"context"
	"errors"
	"path/filepath"
	"testing"
	"time"

	"taskdesk/internal/store"
)

func newTestProvider(t *testing.T) (*Local, *store.Store) {
	t.Helper()

	st, err := store.Open(filepath.Join(t.TempDir(), "identity-test.db"))
	if err != nil {
		t.Fatalf("open store: %v", err)
	}
	t.Cleanup(func() {
		if err := st.Close(); err != nil {
			t.Fatalf("close store: %v", err)
		}
	})

	provider, err := NewLocal(st, LocalConfig{
		DirectoryID: "test-dir",
		ClientID:    "test-client",
		SigningKey:  []byte("test-signing-key"),
		TokenTTL:    time.Minute,
	}, nil)
	if err != nil {
		t.Fatalf("new provider: %v", err)
	}
	return provider, st
}

func TestNewLocalValidation(t *testing.T) {
	_, st := newTestProvider(t)

	if _, err := NewLocal(nil, LocalConfig{DirectoryID: "d", ClientID: "c", SigningKey: []byte("k")}, nil); err == nil {
		t.Fatal("expected error for nil store")
	}
	if _, err := NewLocal(st, LocalConfig{ClientID: "c", SigningKey: []byte("k")}, nil); err == nil {
		t.Fatal("expected error for missing directory id")
	}
	if _, err := NewLocal(st, LocalConfig{DirectoryID: "d", SigningKey: []byte("k")}, nil); err == nil {
		t.Fatal("expected error for missing client id")
	}
	if _, err := NewLocal(st, LocalConfig{DirectoryID: "d", ClientID: "c"}, nil); err == nil {
		t.Fatal("expected error for missing signing key")
	}
}

func TestCreateUserAndDuplicate(t *testing.T) {
	provider, _ := newTestProvider(t)
	ctx := context.Background()

	profile, err := provider.CreateUser(ctx, "New@Example.com", "long-enough-pass", "New User")
	if err != nil {
		t.Fatalf("create user: %v", err)
	}
	if profile.Email != "new@example.com" {
		t.Fatalf("expected normalized email, got %q", profile.Email)
	}
	if profile.Sub == "" {
		t.Fatal("expected subject id")
	}

	if _, err := provider.CreateUser(ctx, "new@example.com", "other-long-pass", "Other"); !errors.Is(err, ErrUserExists) {
		t.Fatalf("expected ErrUserExists, got %v", err)
	}
}

func TestCreateUserRejectsWeakPassword(t *testing.T) {
	provider, _ := newTestProvider(t)

	if _, err := provider.CreateUser(context.Background(), "weak@example.com", "short", ""); !errors.Is(err, ErrPasswordPolicy) {
		t.Fatalf("expected ErrPasswordPolicy, got %v", err)
	}
}

func TestAuthenticateLifecycle(t *testing.T) {
	provider, _ := newTestProvider(t)
	ctx := context.Background()

	if _, err := provider.CreateUser(ctx, "auth@example.com", "first-password", "Auth"); err != nil {
		t.Fatalf("create user: %v", err)
	}

	// Unconfirmed accounts cannot log in.
	if _, _, err := provider.Authenticate(ctx, "auth@example.com", "first-password"); !errors.Is(err, ErrUserNotConfirmed) {
		t.Fatalf("expected ErrUserNotConfirmed, got %v", err)
	}

	if err := provider.SetPermanentPassword(ctx, "auth@example.com", "first-password"); err != nil {
		t.Fatalf("set permanent password: %v", err)
	}

	bundle, profile, err := provider.Authenticate(ctx, "auth@example.com", "first-password")
	if err != nil {
		t.Fatalf("authenticate: %v", err)
	}
	if bundle.AccessToken == "" || bundle.IDToken == "" || bundle.RefreshToken == "" {
		t.Fatal("expected full token bundle")
	}
	if bundle.TokenType != "Bearer" {
		t.Fatalf("expected Bearer, got %q", bundle.TokenType)
	}
	if bundle.ExpiresIn != 60 {
		t.Fatalf("expected 60s expiry, got %d", bundle.ExpiresIn)
	}
	if profile.Email != "auth@example.com" {
		t.Fatalf("unexpected profile email %q", profile.Email)
	}

	if _, _, err := provider.Authenticate(ctx, "auth@example.com", "wrong-password"); !errors.Is(err, ErrInvalidCredentials) {
		t.Fatalf("expected ErrInvalidCredentials, got %v", err)
	}
	if _, _, err := provider.Authenticate(ctx, "nobody@example.com", "first-password"); !errors.Is(err, ErrInvalidCredentials) {
		t.Fatalf("expected ErrInvalidCredentials for unknown account, got %v", err)
	}
}

func TestGetUserByToken(t *testing.T) {
	provider, _ := newTestProvider(t)
	ctx := context.Background()

	created, err := provider.CreateUser(ctx, "token@example.com", "token-password", "Token")
	if err != nil {
		t.Fatalf("create user: %v", err)
	}
	if err := provider.SetPermanentPassword(ctx, "token@example.com", "token-password"); err != nil {
		t.Fatalf("confirm: %v", err)
	}
	bundle, _, err := provider.Authenticate(ctx, "token@example.com", "token-password")
	if err != nil {
		t.Fatalf("authenticate: %v", err)
	}

	profile, err := provider.GetUserByToken(ctx, bundle.AccessToken)
	if err != nil {
		t.Fatalf("get user by token: %v", err)
	}
	if profile.Sub != created.Sub {
		t.Fatalf("expected sub %q, got %q", created.Sub, profile.Sub)
	}

	if _, err := provider.GetUserByToken(ctx, "garbage"); !errors.Is(err, ErrInvalidToken) {
		t.Fatalf("expected ErrInvalidToken, got %v", err)
	}
}

func TestGetUserByTokenRejectsForeignIssuer(t *testing.T) {
	provider, st := newTestProvider(t)
	ctx := context.Background()

	if _, err := provider.CreateUser(ctx, "iss@example.com", "issuer-password", ""); err != nil {
		t.Fatalf("create user: %v", err)
	}
	if err := provider.SetPermanentPassword(ctx, "iss@example.com", "issuer-password"); err != nil {
		t.Fatalf("confirm: %v", err)
	}

	foreign, err := NewLocal(st, LocalConfig{
		DirectoryID: "other-dir",
		ClientID:    "test-client",
		SigningKey:  []byte("test-signing-key"),
	}, nil)
	if err != nil {
		t.Fatalf("new foreign provider: %v", err)
	}
	bundle, _, err := foreign.Authenticate(ctx, "iss@example.com", "issuer-password")
	if err != nil {
		t.Fatalf("authenticate against foreign directory: %v", err)
	}

	if _, err := provider.GetUserByToken(ctx, bundle.AccessToken); !errors.Is(err, ErrInvalidToken) {
		t.Fatalf("expected ErrInvalidToken for foreign issuer, got %v", err)
	}
}

func TestPasswordResetFlow(t *testing.T) {
	provider, st := newTestProvider(t)
	ctx := context.Background()

	if _, err := provider.CreateUser(ctx, "flow@example.com", "original-pass", ""); err != nil {
		t.Fatalf("create user: %v", err)
	}
	if err := provider.SetPermanentPassword(ctx, "flow@example.com", "original-pass"); err != nil {
		t.Fatalf("confirm: %v", err)
	}

	if err := provider.ForgotPassword(ctx, "flow@example.com"); err != nil {
		t.Fatalf("forgot password: %v", err)
	}

	// The issued code is only logged, not returned; plant a known code to
	// exercise the confirm path.
	code := "424242"
	if err := st.SaveResetCode(ctx, "flow@example.com", hashResetCode(code), time.Now().UTC().Add(10*time.Minute)); err != nil {
		t.Fatalf("save reset code: %v", err)
	}

	if err := provider.ConfirmForgotPassword(ctx, "flow@example.com", "999999", "replacement-pass"); !errors.Is(err, ErrCodeMismatch) {
		t.Fatalf("expected ErrCodeMismatch for wrong code, got %v", err)
	}
	if err := provider.ConfirmForgotPassword(ctx, "flow@example.com", code, "short"); !errors.Is(err, ErrPasswordPolicy) {
		t.Fatalf("expected ErrPasswordPolicy, got %v", err)
	}
	if err := provider.ConfirmForgotPassword(ctx, "flow@example.com", code, "replacement-pass"); err != nil {
		t.Fatalf("confirm forgot password: %v", err)
	}

	// The code is single use.
	if err := provider.ConfirmForgotPassword(ctx, "flow@example.com", code, "third-password"); !errors.Is(err, ErrCodeMismatch) {
		t.Fatalf("expected ErrCodeMismatch on reuse, got %v", err)
	}

	if _, _, err := provider.Authenticate(ctx, "flow@example.com", "original-pass"); !errors.Is(err, ErrInvalidCredentials) {
		t.Fatalf("expected old password to be rejected, got %v", err)
	}
	if _, _, err := provider.Authenticate(ctx, "flow@example.com", "replacement-pass"); err != nil {
		t.Fatalf("expected new password to work, got %v", err)
	}
}

func TestForgotPasswordUnknownAccountIsSilent(t *testing.T) {
	provider, _ := newTestProvider(t)

	if err := provider.ForgotPassword(context.Background(), "ghost@example.com"); err != nil {
		t.Fatalf("expected nil for unknown account, got %v", err)
	}
	if err := provider.ForgotPassword(context.Background(), "not-an-email"); err != nil {
		t.Fatalf("expected nil for invalid email, got %v", err)
	}
}

func TestRandomDigits(t *testing.T) {
	code, err := randomDigits(6)
	if err != nil {
		t.Fatalf("random digits: %v", err)
	}
	if len(code) != 6 {
		t.Fatalf("expected 6 digits, got %q", code)
	}
	for _, r := range code {
		if r < '0' || r > '9' {
			t.Fatalf("non-digit in code %q", code)
		}
	}
}
