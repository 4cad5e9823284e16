package auth

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"github.com/airsentry/airsentry/internal/city"
	"github.com/airsentry/airsentry/internal/user"
)

// MinPasswordLength is the minimum accepted password length.
const MinPasswordLength = 8

// bcryptCost is the work factor for password hashing.
const bcryptCost = 10

// Predefined service errors.
var (
	// ErrEmailExists is returned when a signup collides with an existing
	// account.
	ErrEmailExists = errors.New("email already registered")

	// ErrInvalidCredentials is returned for a bad email/password pair. One
	// error for both cases so login failures do not reveal which part was
	// wrong.
	ErrInvalidCredentials = errors.New("invalid email or password")

	// ErrValidation is returned when a request fails field validation.
	ErrValidation = errors.New("validation failed")
)

// ValidationError carries the failed fields alongside ErrValidation.
type ValidationError struct {
	Fields []FieldError
}

func (e *ValidationError) Error() string {
	if len(e.Fields) == 0 {
		return ErrValidation.Error()
	}
	return fmt.Sprintf("%s: %s", ErrValidation.Error(), e.Fields[0].Message)
}

// Unwrap lets callers match with errors.Is(err, ErrValidation).
func (e *ValidationError) Unwrap() error { return ErrValidation }

// Service provides signup and login operations.
type Service struct {
	users  user.Repository
	cities *city.Registry
	jwt    *JWTService
}

// ServiceConfig holds configuration for the auth service.
type ServiceConfig struct {
	Users  user.Repository
	Cities *city.Registry
	JWT    *JWTService
}

// NewService creates a new auth service.
func NewService(cfg ServiceConfig) *Service {
	return &Service{
		users:  cfg.Users,
		cities: cfg.Cities,
		jwt:    cfg.JWT,
	}
}

// Signup creates a new account and returns the user with a signed access
// token. The subscribed city must resolve through the registry so alert
// passes never carry an unknown city name.
func (s *Service) Signup(ctx context.Context, req *SignupRequest) (*TokenResponse, error) {
	if errs := req.Validate(); len(errs) > 0 {
		return nil, &ValidationError{Fields: errs}
	}

	cityName := ""
	if req.City != "" {
		c, err := s.cities.Lookup(req.City)
		if err != nil {
			return nil, &ValidationError{Fields: []FieldError{
				{Field: "city", Message: "city is not in the monitored list", Code: "UNKNOWN_CITY"},
			}}
		}
		cityName = c.Name
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcryptCost)
	if err != nil {
		return nil, fmt.Errorf("hashing password: %w", err)
	}

	u := &user.User{
		ID:           uuid.NewString(),
		Name:         req.Name,
		Email:        req.Email,
		PasswordHash: string(hash),
		City:         cityName,
		CreatedAt:    time.Now().UTC(),
	}

	if err := s.users.Create(ctx, u); err != nil {
		if errors.Is(err, user.ErrEmailExists) {
			return nil, ErrEmailExists
		}
		return nil, fmt.Errorf("creating user: %w", err)
	}

	return s.tokenResponse(u)
}

// Login authenticates an email/password pair and returns the user with a
// signed access token.
func (s *Service) Login(ctx context.Context, req *LoginRequest) (*TokenResponse, error) {
	if errs := req.Validate(); len(errs) > 0 {
		return nil, &ValidationError{Fields: errs}
	}

	u, err := s.users.GetByEmail(ctx, req.Email)
	if err != nil {
		if errors.Is(err, user.ErrUserNotFound) {
			return nil, ErrInvalidCredentials
		}
		return nil, fmt.Errorf("loading user: %w", err)
	}

	if err := bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte(req.Password)); err != nil {
		return nil, ErrInvalidCredentials
	}

	return s.tokenResponse(u)
}

func (s *Service) tokenResponse(u *user.User) (*TokenResponse, error) {
	token, expiresAt, err := s.jwt.GenerateAccessToken(u)
	if err != nil {
		return nil, fmt.Errorf("generating access token: %w", err)
	}

	return &TokenResponse{
		AccessToken: token,
		TokenType:   "Bearer",
		ExpiresIn:   int64(time.Until(expiresAt).Seconds()),
		User: &UserPayload{
			ID:        u.ID,
			Name:      u.Name,
			Email:     u.Email,
			City:      u.City,
			CreatedAt: u.CreatedAt.UTC().Format(time.RFC3339),
		},
	}, nil
}
