package handler

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/airsentry/airsentry/internal/api/models"
	"github.com/airsentry/airsentry/internal/api/response"
	"github.com/airsentry/airsentry/internal/auth"
)

// AuthHandler handles signup and login.
type AuthHandler struct {
	service *auth.Service
}

// NewAuthHandler creates a new AuthHandler.
func NewAuthHandler(service *auth.Service) *AuthHandler {
	return &AuthHandler{service: service}
}

// Signup handles POST /v1/auth/signup.
func (h *AuthHandler) Signup(w http.ResponseWriter, r *http.Request) {
	var req auth.SignupRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.BadRequest(w, r, "invalid request body", nil)
		return
	}

	resp, err := h.service.Signup(r.Context(), &req)
	if err != nil {
		var vErr *auth.ValidationError
		switch {
		case errors.As(err, &vErr):
			response.BadRequest(w, r, "validation failed", fieldErrors(vErr.Fields))
		case errors.Is(err, auth.ErrEmailExists):
			response.BadRequest(w, r, "user with this email already exists", nil)
		default:
			response.InternalError(w, r, "signup failed")
		}
		return
	}

	response.Created(w, r, "", resp)
}

// Login handles POST /v1/auth/login.
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req auth.LoginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.BadRequest(w, r, "invalid request body", nil)
		return
	}

	resp, err := h.service.Login(r.Context(), &req)
	if err != nil {
		var vErr *auth.ValidationError
		switch {
		case errors.As(err, &vErr):
			response.BadRequest(w, r, "validation failed", fieldErrors(vErr.Fields))
		case errors.Is(err, auth.ErrInvalidCredentials):
			response.Unauthorized(w, r, "invalid email or password")
		default:
			response.InternalError(w, r, "login failed")
		}
		return
	}

	response.JSON(w, r, http.StatusOK, resp)
}

func fieldErrors(fields []auth.FieldError) []models.FieldError {
	out := make([]models.FieldError, 0, len(fields))
	for _, f := range fields {
		out = append(out, models.FieldError{Field: f.Field, Message: f.Message, Code: f.Code})
	}
	return out
}
