package middleware

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"github.com/pasinduisuranga/traveler-app/internal/models"
	"github.com/pasinduisuranga/traveler-app/internal/respond"
	"github.com/pasinduisuranga/traveler-app/internal/store"
	"github.com/pasinduisuranga/traveler-app/internal/token"
)

type ctxKey int

const (
	userCtxKey ctxKey = iota
	claimsCtxKey
)

// RevocationList answers whether a token (by jti) has been revoked via
// logout. A nil list disables the check and tokens stay valid until expiry.
type RevocationList interface {
	IsRevoked(ctx context.Context, jti string) (bool, error)
}

// Authenticate verifies the Bearer token and resolves the embedded user.
// Missing, expired, malformed and revoked tokens, and tokens whose user no
// longer exists, all reject with 401; the messages differ but the status
// does not, so callers cannot probe which case applies across accounts.
// On success the sanitized user and the claims are attached to the context.
func Authenticate(tokens *token.Service, users store.UserStore, revoked RevocationList) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			raw := bearerToken(r)
			if raw == "" {
				respond.Unauthorized(w, "Not authorized, no token")
				return
			}

			claims, err := tokens.Verify(raw)
			if err != nil {
				if errors.Is(err, token.ErrExpired) {
					respond.Unauthorized(w, "Token expired, please log in again")
					return
				}
				respond.Unauthorized(w, "Not authorized, token failed")
				return
			}

			if revoked != nil {
				// The check fails open: an unreachable revocation list
				// degrades to pre-logout behavior, it does not lock everyone out.
				if isRevoked, err := revoked.IsRevoked(r.Context(), claims.ID); err == nil && isRevoked {
					respond.Unauthorized(w, "Token has been revoked")
					return
				}
			}

			user, err := users.FindByID(r.Context(), claims.UserID)
			if err != nil {
				if errors.Is(err, store.ErrNotFound) {
					respond.Unauthorized(w, "User not found")
					return
				}
				respond.Internal(w, err)
				return
			}

			ctx := context.WithValue(r.Context(), userCtxKey, user)
			ctx = context.WithValue(ctx, claimsCtxKey, claims)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// RequireProvider rejects authenticated users whose role is not provider.
func RequireProvider(next http.Handler) http.Handler {
	return requireRole(models.UserTypeProvider, "Access denied. Provider account required.", next)
}

// RequireTraveler rejects authenticated users whose role is not traveler.
func RequireTraveler(next http.Handler) http.Handler {
	return requireRole(models.UserTypeTraveler, "Access denied. Traveler account required.", next)
}

func requireRole(role, message string, next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		user, ok := UserFrom(r)
		if !ok || user.UserType != role {
			respond.Forbidden(w, message)
			return
		}
		next.ServeHTTP(w, r)
	})
}

// UserFrom returns the authenticated user attached by Authenticate.
func UserFrom(r *http.Request) (*models.User, bool) {
	u, ok := r.Context().Value(userCtxKey).(*models.User)
	return u, ok
}

// ClaimsFrom returns the verified token claims attached by Authenticate.
func ClaimsFrom(r *http.Request) (*token.Claims, bool) {
	c, ok := r.Context().Value(claimsCtxKey).(*token.Claims)
	return c, ok
}

func bearerToken(r *http.Request) string {
	header := r.Header.Get("Authorization")
	if header == "" {
		return ""
	}
	tok, found := strings.CutPrefix(header, "Bearer ")
	if !found {
		return ""
	}
	return strings.TrimSpace(tok)
}
