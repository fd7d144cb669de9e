// Package main provides the interval timer HTTP service with role-based access control.
package main

import (
	"encoding/json"
	"errors"
	"log"
	"net/http"
	"strings"

	"intervalTimerService/internal/auth"
)

// AuthHandler handles authentication-related HTTP requests
type AuthHandler struct {
	authRepo auth.AuthRepository
}

// NewAuthHandler creates a new auth handler
func NewAuthHandler(authRepo auth.AuthRepository) *AuthHandler {
	return &AuthHandler{
		authRepo: authRepo,
	}
}

// RegisterUser handles user registration
func (h *AuthHandler) RegisterUser(w http.ResponseWriter, r *http.Request) {
	h.register(w, r, auth.NewUserFromRequest)
}

// RegisterAdminUser handles admin user registration. It is only routed when
// ALLOW_ADMIN_REGISTRATION is set.
func (h *AuthHandler) RegisterAdminUser(w http.ResponseWriter, r *http.Request) {
	h.register(w, r, auth.NewAdminUserFromRequest)
}

func (h *AuthHandler) register(w http.ResponseWriter, r *http.Request, newUser func(*auth.NewUserRequest) *auth.User) {
	var req auth.NewUserRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid JSON", "Failed to parse request body")
		return
	}

	// Validate request
	if strings.TrimSpace(req.Username) == "" {
		writeError(w, http.StatusBadRequest, "Validation error", "Username is required")
		return
	}
	if strings.TrimSpace(req.Password) == "" {
		writeError(w, http.StatusBadRequest, "Validation error", "Password is required")
		return
	}
	if strings.TrimSpace(req.Email) == "" {
		writeError(w, http.StatusBadRequest, "Validation error", "Email is required")
		return
	}

	user := newUser(&req)

	// Create user in repository
	if err := h.authRepo.CreateUser(user); err != nil {
		log.Printf("Failed to create user: %v", err)

		switch {
		case errors.Is(err, auth.ErrUserExists):
			writeError(w, http.StatusConflict, "User already exists", err.Error())
		case errors.Is(err, auth.ErrInvalidUser):
			writeError(w, http.StatusBadRequest, "Validation error", err.Error())
		default:
			writeError(w, http.StatusInternalServerError, "Failed to create user", "Internal server error")
		}
		return
	}

	// Generate JWT token for the newly created user
	token, err := auth.IssueToken(user)
	if err != nil {
		log.Printf("Failed to issue token: %v", err)
		writeError(w, http.StatusInternalServerError, "Failed to generate token", "Internal server error")
		return
	}

	// Return both user info and token
	writeJSON(w, http.StatusCreated, map[string]interface{}{
		"user": auth.UserRegistrationResponse{
			ID:       *user.ID,
			Username: *user.Username,
			Email:    *user.Email,
			Role:     *user.Role,
		},
		"token": token,
	})
}

// LoginUser handles user authentication
func (h *AuthHandler) LoginUser(w http.ResponseWriter, r *http.Request) {
	var creds auth.UserLoginCredentials
	if err := json.NewDecoder(r.Body).Decode(&creds); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid JSON", "Failed to parse request body")
		return
	}

	// Validate credentials
	if strings.TrimSpace(creds.Username) == "" {
		writeError(w, http.StatusBadRequest, "Validation error", "Username is required")
		return
	}
	if strings.TrimSpace(creds.Password) == "" {
		writeError(w, http.StatusBadRequest, "Validation error", "Password is required")
		return
	}

	// Authenticate user
	isAuthenticated, err := h.authRepo.AuthenticateUser(&creds)
	if errors.Is(err, auth.ErrInvalidCredentials) || (err == nil && !isAuthenticated) {
		writeError(w, http.StatusUnauthorized, "Invalid credentials", "Username or password is incorrect")
		return
	}
	if err != nil {
		log.Printf("Authentication error: %v", err)
		writeError(w, http.StatusInternalServerError, "Authentication failed", "Internal server error")
		return
	}

	// Get user info for JWT generation
	user, err := h.authRepo.GetUserInfo(creds.Username)
	if err != nil {
		log.Printf("Failed to get user info: %v", err)
		writeError(w, http.StatusInternalServerError, "Failed to get user info", "Internal server error")
		return
	}

	token, err := auth.IssueToken(user)
	if err != nil {
		log.Printf("Failed to issue token: %v", err)
		writeError(w, http.StatusInternalServerError, "Failed to generate token", "Internal server error")
		return
	}

	writeJSON(w, http.StatusOK, auth.UserLoginResponse{Token: token})
}

// GetProfile returns the authenticated user's profile
func (h *AuthHandler) GetProfile(w http.ResponseWriter, r *http.Request) {
	principal, ok := auth.PrincipalFrom(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "Unauthorized", "User information not found in context")
		return
	}

	user, err := h.authRepo.GetUserInfo(principal.Username)
	if err != nil {
		log.Printf("Failed to get user info: %v", err)
		writeError(w, http.StatusInternalServerError, "Failed to get user info", "Internal server error")
		return
	}

	profile := map[string]interface{}{
		"id":       *user.ID,
		"username": *user.Username,
		"role":     *user.Role,
	}
	if user.Email != nil {
		profile["email"] = *user.Email
	}
	if user.CreatedAt != nil {
		profile["created_at"] = *user.CreatedAt
	}

	writeJSON(w, http.StatusOK, profile)
}
