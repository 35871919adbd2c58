package api

// RegisterRequest defines the payload for POST /auth/register.
type RegisterRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
	Name     string `json:"name,omitempty"`
}

// RegisterResponse is the response from a successful registration.
type RegisterResponse struct {
	Message string `json:"message"`
	Email   string `json:"email"`
	Name    string `json:"name"`
}

// LoginRequest defines the payload for POST /auth/login.
type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// LoginResponse carries the token bundle plus basic profile attributes.
type LoginResponse struct {
	Message      string `json:"message"`
	AccessToken  string `json:"access_token"`
	IDToken      string `json:"id_token"`
	RefreshToken string `json:"refresh_token"`
	TokenType    string `json:"token_type"`
	ExpiresIn    int    `json:"expires_in"`
	Email        string `json:"email"`
	Name         string `json:"name,omitempty"`
}

// ProfileResponse is the response from GET /auth/user.
type ProfileResponse struct {
	Message       string `json:"message"`
	Sub           string `json:"sub"`
	Username      string `json:"username"`
	Email         string `json:"email"`
	Name          string `json:"name,omitempty"`
	EmailVerified bool   `json:"email_verified"`
}

// ForgotPasswordRequest defines the payload for POST /auth/forgot-password.
type ForgotPasswordRequest struct {
	Email string `json:"email"`
}

// ResetPasswordRequest defines the payload for POST /auth/reset-password.
type ResetPasswordRequest struct {
	Email       string `json:"email"`
	Code        string `json:"code"`
	NewPassword string `json:"new_password"`
}

// MessageResponse is a bare message envelope used by the password-reset flow.
type MessageResponse struct {
	Message string `json:"message"`
}
