package server

import (
	"errors"
	"net/http"
	"strings"

	"taskdesk/internal/api"
)

func (s *Server) handleAuthRegister(w http.ResponseWriter, r *http.Request) {
	var req api.RegisterRequest
	if !s.decodeJSONReq(w, r, &req) {
		return
	}

	profile, err := s.authGateway.Register(r.Context(), req)
	if err != nil {
		s.writeServiceError(w, r, err)
		return
	}

	s.writeJSON(w, http.StatusCreated, api.RegisterResponse{
		Message: "User registered successfully",
		Email:   profile.Email,
		Name:    profile.Name,
	})
}

func (s *Server) handleAuthLogin(w http.ResponseWriter, r *http.Request) {
	var req api.LoginRequest
	if !s.decodeJSONReq(w, r, &req) {
		return
	}

	tokens, profile, err := s.authGateway.Login(r.Context(), req)
	if err != nil {
		s.writeServiceError(w, r, err)
		return
	}

	s.writeJSON(w, http.StatusOK, api.LoginResponse{
		Message:      "Login successful",
		AccessToken:  tokens.AccessToken,
		IDToken:      tokens.IDToken,
		RefreshToken: tokens.RefreshToken,
		TokenType:    tokens.TokenType,
		ExpiresIn:    tokens.ExpiresIn,
		Email:        profile.Email,
		Name:         profile.Name,
	})
}

func (s *Server) handleAuthProfile(w http.ResponseWriter, r *http.Request) {
	token, err := bearerToken(r)
	if err != nil {
		s.writeServiceError(w, r, err)
		return
	}

	profile, err := s.authGateway.ProfileByToken(r.Context(), token)
	if err != nil {
		s.writeServiceError(w, r, err)
		return
	}

	s.writeJSON(w, http.StatusOK, api.ProfileResponse{
		Message:       "Profile retrieved successfully",
		Sub:           profile.Sub,
		Username:      profile.Username,
		Email:         profile.Email,
		Name:          profile.Name,
		EmailVerified: profile.EmailVerified,
	})
}

func (s *Server) handleAuthForgotPassword(w http.ResponseWriter, r *http.Request) {
	var req api.ForgotPasswordRequest
	if !s.decodeJSONReq(w, r, &req) {
		return
	}

	if err := s.authGateway.ForgotPassword(r.Context(), req); err != nil {
		s.writeServiceError(w, r, err)
		return
	}

	s.writeJSON(w, http.StatusOK, api.MessageResponse{
		Message: "If the account exists, a reset code has been sent",
	})
}

func (s *Server) handleAuthResetPassword(w http.ResponseWriter, r *http.Request) {
	var req api.ResetPasswordRequest
	if !s.decodeJSONReq(w, r, &req) {
		return
	}

	if err := s.authGateway.ResetPassword(r.Context(), req); err != nil {
		s.writeServiceError(w, r, err)
		return
	}

	s.writeJSON(w, http.StatusOK, api.MessageResponse{
		Message: "Password reset successfully",
	})
}

// bearerToken extracts the access token from the Authorization header.
func bearerToken(r *http.Request) (string, error) {
	header := r.Header.Get("Authorization")
	if header == "" {
		return "", withHint(
			unauthorizedCode(errors.New("missing Authorization header"), ErrCodeUnauthorized),
			"expected format: Authorization: Bearer <token>",
		)
	}

	scheme, token, found := strings.Cut(header, " ")
	if !found || !strings.EqualFold(scheme, "Bearer") || strings.TrimSpace(token) == "" {
		return "", withHint(
			unauthorizedCode(errors.New("malformed Authorization header"), ErrCodeUnauthorized),
			"expected format: Authorization: Bearer <token>",
		)
	}
	return strings.TrimSpace(token), nil
}
