package handlers

import (
	"net/http"

	"github.com/pasinduisuranga/traveler-app/internal/middleware"
	"github.com/pasinduisuranga/traveler-app/internal/respond"
	"github.com/pasinduisuranga/traveler-app/internal/store"
)

// UserHandler serves the account profile endpoints.
type UserHandler struct {
	store store.Store
}

func NewUserHandler(s store.Store) *UserHandler {
	return &UserHandler{store: s}
}

// Profile handles GET /api/users/profile.
func (h *UserHandler) Profile(w http.ResponseWriter, r *http.Request) {
	user, _ := middleware.UserFrom(r)
	respond.OK(w, user, "")
}

// UpdateProfile handles PUT /api/users/profile. Only the mutable profile
// fields can change; email, role and credentials are fixed here.
func (h *UserHandler) UpdateProfile(w http.ResponseWriter, r *http.Request) {
	user, _ := middleware.UserFrom(r)
	req := middleware.Body[UpdateProfileRequest](r)

	updated, err := h.store.Users().UpdateProfile(r.Context(), user.ID, store.ProfileUpdate{
		Name:    req.Name,
		Phone:   req.Phone,
		Country: req.Country,
		Avatar:  req.Avatar,
	})
	if err != nil {
		respond.Internal(w, err)
		return
	}

	respond.OK(w, updated, "Profile updated successfully")
}
