package handlers_test

import (
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pasinduisuranga/traveler-app/internal/models"
)

func TestRegisterAndLoginFlow(t *testing.T) {
	ts, _ := newTestServer(t)

	resp, env := doJSON(t, ts, http.MethodPost, "/api/auth/register", "", map[string]string{
		"name":     "Ana Silva",
		"email":    "Ana@Example.com",
		"password": "Sunny$Day1",
		"userType": "traveler",
	})
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	require.True(t, env.Success)

	var created struct {
		Token string      `json:"token"`
		User  models.User `json:"user"`
	}
	decodeData(t, env, &created)
	require.NotEmpty(t, created.Token)
	assert.Equal(t, "ana@example.com", created.User.Email, "email is stored lowercased")
	assert.Equal(t, models.UserTypeTraveler, created.User.UserType)

	// The registration token is immediately usable.
	resp, env = doJSON(t, ts, http.MethodGet, "/api/auth/me", created.Token, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var me models.User
	decodeData(t, env, &me)
	assert.Equal(t, "ana@example.com", me.Email)

	// Logging in on the wrong side of the marketplace is rejected.
	resp, env = doJSON(t, ts, http.MethodPost, "/api/auth/login", "", map[string]string{
		"email":    "ana@example.com",
		"password": "Sunny$Day1",
		"userType": "provider",
	})
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
	assert.Equal(t, "This account is registered as a traveler", env.Message)

	// The right side works.
	login(t, ts, "ana@example.com", "Sunny$Day1", "traveler")
}

func TestLoginInvalidCredentials(t *testing.T) {
	ts, _ := newTestServer(t)

	// Wrong password and unknown account read identically.
	resp, env := doJSON(t, ts, http.MethodPost, "/api/auth/login", "", map[string]string{
		"email":    "traveler@demo.com",
		"password": "not-the-password",
		"userType": "traveler",
	})
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
	assert.Equal(t, "Invalid email or password", env.Message)

	resp, env = doJSON(t, ts, http.MethodPost, "/api/auth/login", "", map[string]string{
		"email":    "nobody@demo.com",
		"password": "not-the-password",
		"userType": "traveler",
	})
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
	assert.Equal(t, "Invalid email or password", env.Message)
}

func TestRegisterDuplicateEmail(t *testing.T) {
	ts, _ := newTestServer(t)

	body := map[string]string{
		"name":     "First In",
		"email":    "taken@example.com",
		"password": "Sunny$Day1",
		"userType": "traveler",
	}
	resp, _ := doJSON(t, ts, http.MethodPost, "/api/auth/register", "", body)
	require.Equal(t, http.StatusCreated, resp.StatusCode)

	resp, env := doJSON(t, ts, http.MethodPost, "/api/auth/register", "", body)
	assert.Equal(t, http.StatusConflict, resp.StatusCode)
	assert.False(t, env.Success)
	assert.Equal(t, "An account with this email already exists", env.Message)
}

func TestRegisterValidationCollectsAllViolations(t *testing.T) {
	ts, _ := newTestServer(t)

	resp, env := doJSON(t, ts, http.MethodPost, "/api/auth/register", "", map[string]string{
		"name":     "A",
		"email":    "not-an-email",
		"password": "short",
	})
	require.Equal(t, http.StatusBadRequest, resp.StatusCode)
	require.False(t, env.Success)
	assert.Equal(t, "Validation error", env.Message)

	fields := make(map[string]bool)
	for _, fe := range env.Errors {
		fields[fe.Field] = true
	}
	assert.True(t, fields["name"])
	assert.True(t, fields["email"])
	assert.True(t, fields["password"])
}

func TestProtectedRouteRejections(t *testing.T) {
	ts, _ := newTestServer(t)

	resp, env := doJSON(t, ts, http.MethodGet, "/api/auth/me", "", nil)
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
	assert.Equal(t, "Not authorized, no token", env.Message)

	resp, env = doJSON(t, ts, http.MethodGet, "/api/auth/me", "garbage.token.here", nil)
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
	assert.Equal(t, "Not authorized, token failed", env.Message)
}

func TestLogoutRevokesToken(t *testing.T) {
	ts, _ := newTestServer(t)

	tok := login(t, ts, "traveler@demo.com", "demo123", "traveler")

	resp, _ := doJSON(t, ts, http.MethodPost, "/api/auth/logout", tok, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	resp, env := doJSON(t, ts, http.MethodGet, "/api/auth/me", tok, nil)
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
	assert.Equal(t, "Token has been revoked", env.Message)
}
