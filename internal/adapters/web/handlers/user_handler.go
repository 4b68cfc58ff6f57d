package handlers

import (
	"errors"
	"net/http"

	"github.com/lcalzada-xor/authgate/internal/adapters/web/middleware"
	"github.com/lcalzada-xor/authgate/internal/core/domain"
	"github.com/lcalzada-xor/authgate/internal/core/ports"
)

// UserHandler lists dashboard accounts for administrators.
type UserHandler struct {
	Users ports.UserRepository
}

func NewUserHandler(users ports.UserRepository) *UserHandler {
	return &UserHandler{Users: users}
}

func (h *UserHandler) HandleList(w http.ResponseWriter, r *http.Request) {
	users, err := h.Users.ListUsers(r.Context())
	if err != nil {
		respondError(w, http.StatusInternalServerError, "Failed to load users")
		return
	}
	respondJSON(w, http.StatusOK, users)
}

// HandleProfile returns the authenticated user's record straight from the
// store, unlike /api/me which echoes the session copy.
func (h *UserHandler) HandleProfile(w http.ResponseWriter, r *http.Request) {
	current, ok := middleware.UserFromContext(r.Context())
	if !ok {
		respondError(w, http.StatusUnauthorized, "Authentication required")
		return
	}
	user, err := h.Users.GetUserByID(r.Context(), current.ID)
	if err != nil {
		if errors.Is(err, domain.ErrUserNotFound) {
			respondError(w, http.StatusNotFound, "User not found")
			return
		}
		respondError(w, http.StatusInternalServerError, "Failed to load profile")
		return
	}
	respondJSON(w, http.StatusOK, user)
}
