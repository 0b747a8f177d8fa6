// ABOUTME: Login endpoint issuing session tokens
// ABOUTME: Email/password verification against the user store

package api

import (
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/voxtable/voxtable/internal/auth"
)

// LoginRequest is the JSON request body for POST /api/login.
type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// LoginResponse is the JSON response for POST /api/login.
type LoginResponse struct {
	Token     string `json:"token"`
	ExpiresAt string `json:"expires_at"`
	UserID    string `json:"user_id"`
	Email     string `json:"email"`
}

// handleLogin handles POST /api/login.
func (s *Server) handleLogin(w http.ResponseWriter, r *http.Request) {
	var req LoginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		sendJSONError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}
	if req.Email == "" || req.Password == "" {
		sendJSONError(w, http.StatusBadRequest, "email and password are required")
		return
	}

	user, err := auth.Login(r.Context(), s.users, req.Email, req.Password)
	if err != nil {
		if errors.Is(err, auth.ErrInvalidCredentials) {
			sendJSONError(w, http.StatusUnauthorized, "invalid credentials")
			return
		}
		s.logger.Error("login failed", "error", err)
		sendJSONError(w, http.StatusInternalServerError, "internal server error")
		return
	}

	token, err := s.verifier.Generate(user.ID, s.sessionTTL)
	if err != nil {
		s.logger.Error("token generation failed", "error", err)
		sendJSONError(w, http.StatusInternalServerError, "internal server error")
		return
	}

	writeJSON(w, http.StatusOK, LoginResponse{
		Token:     token,
		ExpiresAt: time.Now().Add(s.sessionTTL).UTC().Format(time.RFC3339),
		UserID:    user.ID,
		Email:     user.Email,
	})
}
