package handlers_test

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/require"

	"github.com/pasinduisuranga/traveler-app/internal/config"
	"github.com/pasinduisuranga/traveler-app/internal/middleware"
	"github.com/pasinduisuranga/traveler-app/internal/routes"
	"github.com/pasinduisuranga/traveler-app/internal/services"
	"github.com/pasinduisuranga/traveler-app/internal/store"
	"github.com/pasinduisuranga/traveler-app/internal/token"
)

// testBcryptCost keeps hashing fast in tests.
const testBcryptCost = 4

// envelope mirrors the wire format for assertions.
type envelope struct {
	Success bool            `json:"success"`
	Data    json.RawMessage `json:"data"`
	Message string          `json:"message"`
	Count   int             `json:"count"`
	Errors  []struct {
		Field   string `json:"field"`
		Message string `json:"message"`
	} `json:"errors"`
}

// newTestServer wires the full route table against an in-memory store with
// demo data and generous rate limits, so tests exercise the same gate order
// as production.
func newTestServer(t *testing.T) (*httptest.Server, *store.Memory) {
	t.Helper()

	mem := store.NewMemory(testBcryptCost)
	require.NoError(t, store.SeedDemo(context.Background(), mem))

	tokens, err := token.New("test-secret", time.Hour)
	require.NoError(t, err)

	cfg := &config.Config{
		RateLimitWindow:  time.Minute,
		RateLimitMax:     10000,
		AuthRateLimitMax: 10000,
		APIRateLimitMax:  10000,
	}

	r := chi.NewRouter()
	routes.Setup(r, routes.Deps{
		Config:      cfg,
		Store:       mem,
		Tokens:      tokens,
		Counter:     middleware.NewMemoryCounter(),
		Revocations: services.NewMemoryRevocationList(),
		Hub:         services.NewHub(),
		Insights:    services.NewStoreInsights(mem),
	})

	ts := httptest.NewServer(r)
	t.Cleanup(ts.Close)
	return ts, mem
}

// doJSON performs a request with an optional bearer token and JSON body and
// decodes the response envelope.
func doJSON(t *testing.T, ts *httptest.Server, method, path, bearer string, body any) (*http.Response, envelope) {
	t.Helper()

	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}

	req, err := http.NewRequest(method, ts.URL+path, &buf)
	require.NoError(t, err)
	req.Header.Set("Content-Type", "application/json")
	if bearer != "" {
		req.Header.Set("Authorization", "Bearer "+bearer)
	}

	resp, err := ts.Client().Do(req)
	require.NoError(t, err)
	defer resp.Body.Close()

	var env envelope
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&env))
	return resp, env
}

func decodeData(t *testing.T, env envelope, dest any) {
	t.Helper()
	require.NoError(t, json.Unmarshal(env.Data, dest))
}

// login authenticates through the real endpoint and returns the token.
func login(t *testing.T, ts *httptest.Server, email, password, userType string) string {
	t.Helper()

	resp, env := doJSON(t, ts, http.MethodPost, "/api/auth/login", "", map[string]string{
		"email":    email,
		"password": password,
		"userType": userType,
	})
	require.Equal(t, http.StatusOK, resp.StatusCode, "login failed: %s", env.Message)

	var payload struct {
		Token string `json:"token"`
	}
	decodeData(t, env, &payload)
	require.NotEmpty(t, payload.Token)
	return payload.Token
}
