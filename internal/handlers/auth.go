package handlers

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/pasinduisuranga/traveler-app/internal/middleware"
	"github.com/pasinduisuranga/traveler-app/internal/models"
	"github.com/pasinduisuranga/traveler-app/internal/respond"
	"github.com/pasinduisuranga/traveler-app/internal/store"
	"github.com/pasinduisuranga/traveler-app/internal/token"
	"github.com/pasinduisuranga/traveler-app/pkg/utils"
)

// TokenRevoker records a token ID as revoked until the token would have
// expired anyway. Logout uses it; a nil revoker makes logout advisory only.
type TokenRevoker interface {
	Revoke(ctx context.Context, jti string, until time.Time) error
}

// AuthHandler serves registration, login, session introspection and logout.
type AuthHandler struct {
	store   store.Store
	tokens  *token.Service
	revoker TokenRevoker
}

func NewAuthHandler(s store.Store, tokens *token.Service, revoker TokenRevoker) *AuthHandler {
	return &AuthHandler{store: s, tokens: tokens, revoker: revoker}
}

type authPayload struct {
	Token string      `json:"token"`
	User  models.User `json:"user"`
}

// Register handles POST /api/auth/register. A provider registration also
// creates a pending business profile so the console works immediately;
// POST /api/providers/register later fills in the real business details.
func (h *AuthHandler) Register(w http.ResponseWriter, r *http.Request) {
	req := middleware.Body[RegisterRequest](r)

	user, err := h.store.Users().Create(r.Context(), store.NewUser{
		Name:     req.Name,
		Email:    req.Email,
		Password: req.Password,
		UserType: req.UserType,
		Phone:    req.Phone,
		Country:  req.Country,
	})
	if err != nil {
		if errors.Is(err, store.ErrDuplicateEmail) {
			respond.Conflict(w, "An account with this email already exists")
			return
		}
		respond.Internal(w, err)
		return
	}

	if user.UserType == models.UserTypeProvider {
		_, err := h.store.Providers().CreateProfile(r.Context(), &models.Provider{
			UserID:       user.ID,
			BusinessName: user.Name,
			BusinessType: models.PendingBusinessType,
			Description:  "New provider",
		})
		if err != nil {
			respond.Internal(w, err)
			return
		}
	}

	tok, err := h.tokens.Issue(user.ID)
	if err != nil {
		respond.Internal(w, err)
		return
	}

	respond.Created(w, authPayload{Token: tok, User: *user}, "Account created successfully")
}

// Login handles POST /api/auth/login. The requested userType must match the
// account's type; a mismatch is rejected exactly like a bad password would
// be, with a hint at which side of the marketplace the account belongs to.
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	req := middleware.Body[LoginRequest](r)

	user, err := h.store.Users().FindByEmail(r.Context(), req.Email)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			respond.Unauthorized(w, "Invalid email or password")
			return
		}
		respond.Internal(w, err)
		return
	}

	if !utils.VerifyPassword(req.Password, user.Password) {
		respond.Unauthorized(w, "Invalid email or password")
		return
	}

	if user.UserType != req.UserType {
		respond.Unauthorized(w, "This account is registered as a "+user.UserType)
		return
	}

	tok, err := h.tokens.Issue(user.ID)
	if err != nil {
		respond.Internal(w, err)
		return
	}

	respond.OK(w, authPayload{Token: tok, User: user.Sanitized()}, "Login successful")
}

// Me handles GET /api/auth/me, returning the user resolved from the token.
func (h *AuthHandler) Me(w http.ResponseWriter, r *http.Request) {
	user, ok := middleware.UserFrom(r)
	if !ok {
		respond.Unauthorized(w, "Not authorized, no token")
		return
	}
	respond.OK(w, user, "")
}

// Logout handles POST /api/auth/logout, revoking the presented token so it
// stops working before its natural expiry.
func (h *AuthHandler) Logout(w http.ResponseWriter, r *http.Request) {
	claims, ok := middleware.ClaimsFrom(r)
	if ok && h.revoker != nil && claims.ExpiresAt != nil {
		if err := h.revoker.Revoke(r.Context(), claims.ID, claims.ExpiresAt.Time); err != nil {
			respond.Internal(w, err)
			return
		}
	}
	respond.OK(w, nil, "Logged out successfully")
}
