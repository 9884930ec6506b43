// Package http serves the artefact register REST API: signup/login, the
// artefact CRUD and search endpoints, and local image delivery.
package http

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"

	"github.com/avolkovs/artefactreg/internal/common"
	"github.com/avolkovs/artefactreg/internal/server/models"
)

// UserService is the authentication surface the handlers need.
type UserService interface {
	SignUp(ctx context.Context, username, password string) (*models.User, string, error)
	Login(ctx context.Context, username, password string) (*models.User, string, error)
}

// AuthHandler handles the signup and login endpoints.
type AuthHandler struct {
	Users UserService
}

type credentialsRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

// SignUp creates an account and, like Login, responds with a session token so
// the client is signed in immediately.
func (h *AuthHandler) SignUp(w http.ResponseWriter, r *http.Request) {
	var req credentialsRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]any{
			"message": "invalid request body",
			"isValid": false,
		})
		return
	}

	user, token, err := h.Users.SignUp(r.Context(), req.Username, req.Password)
	switch {
	case errors.Is(err, common.ErrorAlreadyExists):
		writeJSON(w, http.StatusConflict, map[string]any{
			"message": "Username already exists",
			"isValid": false,
		})
		return
	case errors.Is(err, common.ErrorValidation):
		writeJSON(w, http.StatusBadRequest, map[string]any{
			"message": err.Error(),
			"isValid": false,
		})
		return
	case err != nil:
		writeJSON(w, http.StatusInternalServerError, map[string]any{
			"message": "Internal Server Error",
			"isValid": false,
			"error":   err.Error(),
		})
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"message":  "Login Successful",
		"username": user.Username,
		"isValid":  true,
		"token":    token,
	})
}

// Login checks the credentials and responds with a fresh session token. A
// missing account and a wrong password get distinct messages.
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req credentialsRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]any{
			"message": "invalid request body",
			"isValid": false,
		})
		return
	}

	user, token, err := h.Users.Login(r.Context(), req.Username, req.Password)
	switch {
	case errors.Is(err, common.ErrorNotFound):
		writeJSON(w, http.StatusUnauthorized, map[string]any{
			"message": "Invalid Username",
			"isValid": false,
			"error":   err.Error(),
		})
		return
	case errors.Is(err, common.ErrorUnauthorized):
		writeJSON(w, http.StatusUnauthorized, map[string]any{
			"message": "Invalid Password",
			"isValid": false,
			"error":   err.Error(),
		})
		return
	case err != nil:
		writeJSON(w, http.StatusInternalServerError, map[string]any{
			"message": "Internal Server Error",
			"isValid": false,
			"error":   err.Error(),
		})
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"message":  "Login Successful",
		"username": user.Username,
		"isValid":  true,
		"token":    token,
	})
}
