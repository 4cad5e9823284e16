package auth

import "strings"

// SignupRequest represents the request body for account creation.
type SignupRequest struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Password string `json:"password"`

	// City is the registry city the user subscribes to for alerts.
	City string `json:"city"`
}

// Validate validates the signup request.
func (r *SignupRequest) Validate() []FieldError {
	var errs []FieldError

	if strings.TrimSpace(r.Name) == "" {
		errs = append(errs, FieldError{Field: "name", Message: "name is required", Code: "REQUIRED"})
	}
	if strings.TrimSpace(r.Email) == "" {
		errs = append(errs, FieldError{Field: "email", Message: "email is required", Code: "REQUIRED"})
	} else if !strings.Contains(r.Email, "@") {
		errs = append(errs, FieldError{Field: "email", Message: "email is not valid", Code: "INVALID"})
	}
	if len(r.Password) < MinPasswordLength {
		errs = append(errs, FieldError{Field: "password", Message: "password must be at least 8 characters", Code: "TOO_SHORT"})
	}

	return errs
}

// LoginRequest represents the request body for authentication.
type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// Validate validates the login request.
func (r *LoginRequest) Validate() []FieldError {
	var errs []FieldError

	if r.Email == "" {
		errs = append(errs, FieldError{Field: "email", Message: "email is required", Code: "REQUIRED"})
	}
	if r.Password == "" {
		errs = append(errs, FieldError{Field: "password", Message: "password is required", Code: "REQUIRED"})
	}

	return errs
}

// FieldError represents a validation error on a specific field.
type FieldError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
	Code    string `json:"code,omitempty"`
}

// UserPayload is the user's public representation in auth responses.
type UserPayload struct {
	ID        string `json:"userId"`
	Name      string `json:"name"`
	Email     string `json:"email"`
	City      string `json:"city,omitempty"`
	CreatedAt string `json:"createdAt"`
}

// TokenResponse represents the response after successful authentication.
type TokenResponse struct {
	// AccessToken is the JWT access token for API authentication.
	AccessToken string `json:"accessToken"`

	// TokenType is always "Bearer".
	TokenType string `json:"tokenType"`

	// ExpiresIn is the number of seconds until the access token expires.
	ExpiresIn int64 `json:"expiresIn"`

	// User contains the authenticated user's information.
	User *UserPayload `json:"user"`
}
