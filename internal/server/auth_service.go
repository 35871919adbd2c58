package server

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"taskdesk/internal/api"
	"taskdesk/internal/identity"
)

// AuthGateway fronts the identity provider: it validates inbound payloads,
// delegates account and token operations, and maps the provider's failure
// conditions onto the HTTP error taxonomy.
type AuthGateway struct {
	provider identity.Provider
	logger   *slog.Logger
}

func NewAuthGateway(provider identity.Provider, logger *slog.Logger) *AuthGateway {
	if logger == nil {
		logger = slog.Default()
	}
	return &AuthGateway{provider: provider, logger: logger}
}

func (g *AuthGateway) Register(ctx context.Context, req api.RegisterRequest) (identity.Profile, error) {
	email, err := identity.NormalizeEmail(req.Email)
	if err != nil {
		return identity.Profile{}, badRequestCode(err, ErrCodeInvalidArgument)
	}
	if req.Password == "" {
		return identity.Profile{}, badRequestCode(errors.New("password is required"), ErrCodeMissingRequired)
	}

	name := strings.TrimSpace(req.Name)
	if name == "" {
		name = email[:strings.Index(email, "@")]
	}

	profile, err := g.provider.CreateUser(ctx, email, req.Password, name)
	if err != nil {
		return identity.Profile{}, g.mapProviderError(err)
	}

	// Confirm the account immediately so the demo flow needs no email
	// round-trip.
	if err := g.provider.SetPermanentPassword(ctx, email, req.Password); err != nil {
		return identity.Profile{}, g.mapProviderError(err)
	}

	g.logger.Info("user registered", "email", email, "sub", profile.Sub)
	return profile, nil
}

func (g *AuthGateway) Login(ctx context.Context, req api.LoginRequest) (identity.TokenBundle, identity.Profile, error) {
	email, err := identity.NormalizeEmail(req.Email)
	if err != nil {
		return identity.TokenBundle{}, identity.Profile{}, badRequestCode(err, ErrCodeInvalidArgument)
	}
	if req.Password == "" {
		return identity.TokenBundle{}, identity.Profile{}, badRequestCode(errors.New("password is required"), ErrCodeMissingRequired)
	}

	tokens, profile, err := g.provider.Authenticate(ctx, email, req.Password)
	if err != nil {
		return identity.TokenBundle{}, identity.Profile{}, g.mapProviderError(err)
	}

	g.logger.Info("user logged in", "email", email, "sub", profile.Sub)
	return tokens, profile, nil
}

func (g *AuthGateway) ProfileByToken(ctx context.Context, accessToken string) (identity.Profile, error) {
	profile, err := g.provider.GetUserByToken(ctx, accessToken)
	if err != nil {
		return identity.Profile{}, g.mapProviderError(err)
	}
	return profile, nil
}

func (g *AuthGateway) ForgotPassword(ctx context.Context, req api.ForgotPasswordRequest) error {
	email, err := identity.NormalizeEmail(req.Email)
	if err != nil {
		return badRequestCode(err, ErrCodeInvalidArgument)
	}

	if err := g.provider.ForgotPassword(ctx, email); err != nil {
		return g.mapProviderError(err)
	}
	return nil
}

func (g *AuthGateway) ResetPassword(ctx context.Context, req api.ResetPasswordRequest) error {
	email, err := identity.NormalizeEmail(req.Email)
	if err != nil {
		return badRequestCode(err, ErrCodeInvalidArgument)
	}
	if strings.TrimSpace(req.Code) == "" {
		return badRequestCode(errors.New("code is required"), ErrCodeMissingRequired)
	}
	if req.NewPassword == "" {
		return badRequestCode(errors.New("new_password is required"), ErrCodeMissingRequired)
	}

	if err := g.provider.ConfirmForgotPassword(ctx, email, req.Code, req.NewPassword); err != nil {
		return g.mapProviderError(err)
	}

	g.logger.Info("password reset", "email", email)
	return nil
}

func (g *AuthGateway) mapProviderError(err error) error {
	switch {
	case errors.Is(err, identity.ErrUserExists):
		return conflictCode(err, ErrCodeUserExists)
	case errors.Is(err, identity.ErrPasswordPolicy):
		return badRequestCode(err, ErrCodePasswordPolicy)
	case errors.Is(err, identity.ErrInvalidCredentials):
		return unauthorizedCode(err, ErrCodeUnauthorized)
	case errors.Is(err, identity.ErrUserNotConfirmed):
		return unauthorizedCode(err, ErrCodeAccountUnconfirmed)
	case errors.Is(err, identity.ErrInvalidToken):
		return unauthorizedCode(err, ErrCodeUnauthorized)
	case errors.Is(err, identity.ErrCodeMismatch):
		return badRequestCode(err, ErrCodeResetCodeMismatch)
	case errors.Is(err, identity.ErrUserNotFound):
		return unauthorizedCode(err, ErrCodeUnauthorized)
	default:
		return upstreamFailure(fmt.Errorf("identity provider: %w", err))
	}
}
