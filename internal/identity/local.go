package identity

import (
	"context"
	"crypto/rand"
	"crypto/sha256"
	"encoding/base64"
	"encoding/hex"
	"fmt"
	"log/slog"
	"math/big"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	"taskdesk/internal/store"
)

const (
	defaultTokenTTL = time.Hour
	resetCodeTTL    = 15 * time.Minute
	resetCodeDigits = 6
	tokenTypeBearer = "Bearer"

	claimTokenUse  = "token_use"
	tokenUseAccess = "access"
	tokenUseID     = "id"
)

// LocalConfig carries the two directory bindings the core treats as
// process-wide read-only configuration, plus local signing parameters.
type LocalConfig struct {
	// DirectoryID identifies the user directory; used as the JWT issuer.
	DirectoryID string
	// ClientID identifies the calling application; used as the JWT audience.
	ClientID string
	// SigningKey is the HS256 key for issued tokens.
	SigningKey []byte
	// TokenTTL bounds access/id token lifetime. Defaults to one hour.
	TokenTTL time.Duration
}

// Local is an identity provider backed by the local user directory. It
// stands in for a managed identity service: bcrypt credentials, HS256
// tokens, logged reset codes instead of delivered email.
type Local struct {
	store  store.IdentityStore
	cfg    LocalConfig
	logger *slog.Logger
}

// NewLocal constructs a local identity provider.
func NewLocal(identityStore store.IdentityStore, cfg LocalConfig, logger *slog.Logger) (*Local, error) {
	if identityStore == nil {
		return nil, fmt.Errorf("identity store is required")
	}
	if strings.TrimSpace(cfg.DirectoryID) == "" {
		return nil, fmt.Errorf("directory id is required")
	}
	if strings.TrimSpace(cfg.ClientID) == "" {
		return nil, fmt.Errorf("client id is required")
	}
	if len(cfg.SigningKey) == 0 {
		return nil, fmt.Errorf("signing key is required")
	}
	if cfg.TokenTTL <= 0 {
		cfg.TokenTTL = defaultTokenTTL
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Local{store: identityStore, cfg: cfg, logger: logger}, nil
}

// CreateUser registers a new account.
func (l *Local) CreateUser(ctx context.Context, email, password, name string) (Profile, error) {
	var zero Profile

	email, err := NormalizeEmail(email)
	if err != nil {
		return zero, err
	}
	hash, err := HashPassword(password)
	if err != nil {
		return zero, err
	}

	existing, err := l.store.GetUserByEmail(ctx, email)
	if err != nil {
		return zero, err
	}
	if existing != nil {
		return zero, ErrUserExists
	}

	now := time.Now().UTC()
	user := &store.User{
		ID:           uuid.NewString(),
		Email:        email,
		Name:         strings.TrimSpace(name),
		PasswordHash: hash,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	if err := l.store.CreateUser(ctx, user); err != nil {
		if isUniqueConstraint(err) {
			return zero, ErrUserExists
		}
		return zero, err
	}

	return profileFromUser(user), nil
}

// SetPermanentPassword replaces the password and marks the account confirmed.
func (l *Local) SetPermanentPassword(ctx context.Context, email, password string) error {
	email, err := NormalizeEmail(email)
	if err != nil {
		return err
	}
	hash, err := HashPassword(password)
	if err != nil {
		return err
	}
	found, err := l.store.SetUserPassword(ctx, email, hash, true, time.Now().UTC())
	if err != nil {
		return err
	}
	if !found {
		return ErrUserNotFound
	}
	return nil
}

// Authenticate verifies credentials and issues a token bundle.
func (l *Local) Authenticate(ctx context.Context, email, password string) (TokenBundle, Profile, error) {
	var zeroBundle TokenBundle
	var zeroProfile Profile

	normalized, err := NormalizeEmail(email)
	if err != nil {
		return zeroBundle, zeroProfile, ErrInvalidCredentials
	}
	user, err := l.store.GetUserByEmail(ctx, normalized)
	if err != nil {
		return zeroBundle, zeroProfile, err
	}
	if user == nil || !VerifyPassword(user.PasswordHash, password) {
		return zeroBundle, zeroProfile, ErrInvalidCredentials
	}
	if !user.Confirmed {
		return zeroBundle, zeroProfile, ErrUserNotConfirmed
	}

	now := time.Now().UTC()
	accessToken, err := l.signToken(user, now, tokenUseAccess)
	if err != nil {
		return zeroBundle, zeroProfile, err
	}
	idToken, err := l.signToken(user, now, tokenUseID)
	if err != nil {
		return zeroBundle, zeroProfile, err
	}
	refreshToken, err := randomToken()
	if err != nil {
		return zeroBundle, zeroProfile, err
	}

	bundle := TokenBundle{
		AccessToken:  accessToken,
		IDToken:      idToken,
		RefreshToken: refreshToken,
		TokenType:    tokenTypeBearer,
		ExpiresIn:    int(l.cfg.TokenTTL / time.Second),
	}
	return bundle, profileFromUser(user), nil
}

// GetUserByToken validates an access token and returns the account profile.
func (l *Local) GetUserByToken(ctx context.Context, accessToken string) (Profile, error) {
	var zero Profile

	parsed, err := jwt.Parse(accessToken,
		func(t *jwt.Token) (any, error) { return l.cfg.SigningKey, nil },
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithIssuer(l.cfg.DirectoryID),
		jwt.WithAudience(l.cfg.ClientID),
		jwt.WithExpirationRequired(),
	)
	if err != nil || !parsed.Valid {
		return zero, ErrInvalidToken
	}

	sub, err := parsed.Claims.GetSubject()
	if err != nil || sub == "" {
		return zero, ErrInvalidToken
	}
	user, err := l.store.GetUserByID(ctx, sub)
	if err != nil {
		return zero, err
	}
	if user == nil {
		return zero, ErrInvalidToken
	}
	return profileFromUser(user), nil
}

// ForgotPassword issues a reset code. Unknown accounts are not revealed to
// the caller; the miss is only logged.
func (l *Local) ForgotPassword(ctx context.Context, email string) error {
	normalized, err := NormalizeEmail(email)
	if err != nil {
		return nil
	}
	user, err := l.store.GetUserByEmail(ctx, normalized)
	if err != nil {
		return err
	}
	if user == nil {
		l.logger.Debug("password reset requested for unknown account", "email", normalized)
		return nil
	}

	code, err := randomDigits(resetCodeDigits)
	if err != nil {
		return err
	}
	expiresAt := time.Now().UTC().Add(resetCodeTTL)
	if err := l.store.SaveResetCode(ctx, normalized, hashResetCode(code), expiresAt); err != nil {
		return err
	}

	// Demo stand-in for email delivery.
	l.logger.Info("password reset code issued", "email", normalized, "code", code, "expires_at", expiresAt)
	return nil
}

// ConfirmForgotPassword finishes the reset flow.
func (l *Local) ConfirmForgotPassword(ctx context.Context, email, code, newPassword string) error {
	normalized, err := NormalizeEmail(email)
	if err != nil {
		return ErrCodeMismatch
	}
	if err := ValidatePassword(newPassword); err != nil {
		return err
	}

	now := time.Now().UTC()
	matched, err := l.store.ConsumeResetCode(ctx, normalized, hashResetCode(code), now)
	if err != nil {
		return err
	}
	if !matched {
		return ErrCodeMismatch
	}
	return l.SetPermanentPassword(ctx, normalized, newPassword)
}

func (l *Local) signToken(user *store.User, now time.Time, tokenUse string) (string, error) {
	claims := jwt.MapClaims{
		"sub":         user.ID,
		"email":       user.Email,
		"iss":         l.cfg.DirectoryID,
		"aud":         l.cfg.ClientID,
		"iat":         now.Unix(),
		"exp":         now.Add(l.cfg.TokenTTL).Unix(),
		claimTokenUse: tokenUse,
	}
	if tokenUse == tokenUseID {
		claims["name"] = user.Name
		claims["email_verified"] = user.EmailVerified
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(l.cfg.SigningKey)
}

func profileFromUser(user *store.User) Profile {
	return Profile{
		Sub:           user.ID,
		Username:      user.Email,
		Email:         user.Email,
		Name:          user.Name,
		EmailVerified: user.EmailVerified,
	}
}

func hashResetCode(code string) string {
	sum := sha256.Sum256([]byte(strings.TrimSpace(code)))
	return hex.EncodeToString(sum[:])
}

func randomToken() (string, error) {
	buf := make([]byte, 32)
	if _, err := rand.Read(buf); err != nil {
		return "", err
	}
	return base64.RawURLEncoding.EncodeToString(buf), nil
}

func randomDigits(n int) (string, error) {
	var b strings.Builder
	for i := 0; i < n; i++ {
		d, err := rand.Int(rand.Reader, big.NewInt(10))
		if err != nil {
			return "", err
		}
		b.WriteByte(byte('0' + d.Int64()))
	}
	return b.String(), nil
}

func isUniqueConstraint(err error) bool {
	if err == nil {
		return false
	}
	return strings.Contains(err.Error(), "UNIQUE constraint failed")
}
