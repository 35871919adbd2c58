// Package identity models the external identity provider the auth gateway
// delegates to: account storage, credential verification, token issuance and
// validation, and the password-reset workflow. The core only ever sees this
// contract and the named failure conditions below.
package identity

import (
	"context"
	"errors"
)

// Named failure conditions. The auth gateway maps each to an HTTP status.
var (
	ErrUserExists         = errors.New("an account with this email already exists")
	ErrUserNotFound       = errors.New("account not found")
	ErrPasswordPolicy     = errors.New("password does not satisfy the password policy")
	ErrInvalidCredentials = errors.New("invalid email or password")
	ErrUserNotConfirmed   = errors.New("account is not confirmed")
	ErrInvalidToken       = errors.New("token is invalid or expired")
	ErrCodeMismatch       = errors.New("invalid reset code")
)

// Profile is the provider's view of one account.
type Profile struct {
	Sub           string
	Username      string
	Email         string
	Name          string
	EmailVerified bool
}

// TokenBundle is the credential set issued on a successful login.
type TokenBundle struct {
	AccessToken  string
	IDToken      string
	RefreshToken string
	TokenType    string
	ExpiresIn    int
}

// Provider is the black-box identity contract.
type Provider interface {
	// CreateUser registers a new account. ErrUserExists on duplicates,
	// ErrPasswordPolicy on weak passwords.
	CreateUser(ctx context.Context, email, password, name string) (Profile, error)

	// SetPermanentPassword makes the password permanent and marks the
	// account confirmed, suppressing any verification messaging.
	SetPermanentPassword(ctx context.Context, email, password string) error

	// Authenticate verifies credentials and issues a token bundle.
	// ErrInvalidCredentials or ErrUserNotConfirmed on failure.
	Authenticate(ctx context.Context, email, password string) (TokenBundle, Profile, error)

	// GetUserByToken validates an access token and returns the profile.
	// ErrInvalidToken when validation fails.
	GetUserByToken(ctx context.Context, accessToken string) (Profile, error)

	// ForgotPassword starts an out-of-band reset flow. It does not reveal
	// whether the account exists.
	ForgotPassword(ctx context.Context, email string) error

	// ConfirmForgotPassword completes the reset flow. ErrCodeMismatch when
	// the code does not match or has expired.
	ConfirmForgotPassword(ctx context.Context, email, code, newPassword string) error
}
