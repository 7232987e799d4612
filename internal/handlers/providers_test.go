package handlers_test

import (
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pasinduisuranga/traveler-app/internal/models"
	"github.com/pasinduisuranga/traveler-app/internal/services"
)

func TestProviderDirectoryIsPublic(t *testing.T) {
	ts, _ := newTestServer(t)

	resp, env := doJSON(t, ts, http.MethodGet, "/api/providers", "", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var providers []models.Provider
	decodeData(t, env, &providers)
	require.NotEmpty(t, providers)
	assert.Equal(t, "Eco Adventure Tours", providers[0].BusinessName)
}

func TestProviderConsoleRequiresProviderRole(t *testing.T) {
	ts, _ := newTestServer(t)
	travelerTok := login(t, ts, "traveler@demo.com", "demo123", "traveler")

	for _, path := range []string{
		"/api/providers/dashboard",
		"/api/providers/analytics",
		"/api/providers/payments",
		"/api/providers/reviews",
		"/api/providers/conversations",
		"/api/providers/experiences",
	} {
		resp, env := doJSON(t, ts, http.MethodGet, path, travelerTok, nil)
		assert.Equal(t, http.StatusForbidden, resp.StatusCode, path)
		assert.Equal(t, "Access denied. Provider account required.", env.Message, path)
	}
}

func TestProviderDashboard(t *testing.T) {
	ts, _ := newTestServer(t)
	tok := login(t, ts, "provider@demo.com", "demo123", "provider")

	resp, env := doJSON(t, ts, http.MethodGet, "/api/providers/dashboard", tok, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode, "dashboard failed: %s", env.Message)

	var data services.DashboardData
	decodeData(t, env, &data)
	assert.Equal(t, "Eco Adventure Tours", data.Provider.Name)
	assert.True(t, data.Provider.Verified)
	assert.Equal(t, 3, data.Analytics.ActiveExperiences)
}

func TestProviderAnalyticsRange(t *testing.T) {
	ts, _ := newTestServer(t)
	tok := login(t, ts, "provider@demo.com", "demo123", "provider")

	resp, env := doJSON(t, ts, http.MethodGet, "/api/providers/analytics?range=3m", tok, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var data services.AnalyticsData
	decodeData(t, env, &data)
	assert.Equal(t, "3m", data.Range)
	assert.Len(t, data.MonthlyBookings, 3)
}

func TestProviderExperienceCRUD(t *testing.T) {
	ts, _ := newTestServer(t)
	tok := login(t, ts, "provider@demo.com", "demo123", "provider")

	body := map[string]any{
		"title":                  "Night Canopy Walk",
		"description":            "Guided nocturnal wildlife walk through the rainforest canopy.",
		"location":               "Monteverde, Costa Rica",
		"type":                   "wildlife-watching",
		"price":                  55,
		"maxParticipants":        8,
		"duration":               3,
		"difficulty":             "moderate",
		"sustainabilityFeatures": []string{"Small groups", "No artificial lighting"},
	}
	resp, env := doJSON(t, ts, http.MethodPost, "/api/providers/experiences", tok, body)
	require.Equal(t, http.StatusCreated, resp.StatusCode, "create failed: %s", env.Message)

	var created models.Experience
	decodeData(t, env, &created)
	assert.True(t, created.IsActive)
	assert.Equal(t, "Night Canopy Walk", created.Title)

	// It shows up in the public catalog.
	resp, env = doJSON(t, ts, http.MethodGet, "/api/experiences", "", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, 4, env.Count)

	// And can be edited by its owner.
	body["price"] = 60
	resp, env = doJSON(t, ts, http.MethodPut, "/api/providers/experiences/"+created.ID, tok, body)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var updated models.Experience
	decodeData(t, env, &updated)
	assert.Equal(t, 60.0, updated.Price)
}

func TestProviderCannotEditForeignExperience(t *testing.T) {
	ts, _ := newTestServer(t)
	exp := firstExperience(t, ts)

	// A second provider registers and tries to edit the demo provider's
	// listing.
	resp, _ := doJSON(t, ts, http.MethodPost, "/api/auth/register", "", map[string]string{
		"name":     "Rival Tours",
		"email":    "rival@example.com",
		"password": "Sunny$Day1",
		"userType": "provider",
	})
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	tok := login(t, ts, "rival@example.com", "Sunny$Day1", "provider")

	resp, env := doJSON(t, ts, http.MethodPost, "/api/providers/register", tok, map[string]string{
		"businessName": "Rival Tours",
		"businessType": "tour-operator",
	})
	require.Equal(t, http.StatusCreated, resp.StatusCode, "provider register failed: %s", env.Message)

	resp, env = doJSON(t, ts, http.MethodPut, "/api/providers/experiences/"+exp.ID, tok, map[string]any{
		"title":                  "Hijacked Listing Title",
		"description":            "This description is long enough to pass validation checks.",
		"location":               "Somewhere else entirely",
		"type":                   "hiking",
		"price":                  1,
		"maxParticipants":        5,
		"duration":               2,
		"difficulty":             "easy",
		"sustainabilityFeatures": []string{"None"},
	})
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
	assert.Equal(t, "Experience not found", env.Message)
}

func TestRegisterProviderCreatesPendingProfile(t *testing.T) {
	ts, _ := newTestServer(t)

	resp, _ := doJSON(t, ts, http.MethodPost, "/api/auth/register", "", map[string]string{
		"name":     "Fresh Provider",
		"email":    "fresh@example.com",
		"password": "Sunny$Day1",
		"userType": "provider",
	})
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	tok := login(t, ts, "fresh@example.com", "Sunny$Day1", "provider")

	// The console works immediately on the pending profile.
	resp, env := doJSON(t, ts, http.MethodGet, "/api/providers/dashboard", tok, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode, "dashboard failed: %s", env.Message)
	var data services.DashboardData
	decodeData(t, env, &data)
	assert.Equal(t, "Fresh Provider", data.Provider.Name)
	assert.False(t, data.Provider.Verified)

	// Filling in the business details completes the registration.
	resp, env = doJSON(t, ts, http.MethodPost, "/api/providers/register", tok, map[string]string{
		"businessName": "Canopy Stays",
		"businessType": "eco-lodge",
		"description":  "Treetop lodge with zero-waste operations",
	})
	require.Equal(t, http.StatusCreated, resp.StatusCode, "register failed: %s", env.Message)
	var profile models.Provider
	decodeData(t, env, &profile)
	assert.Equal(t, "eco-lodge", profile.BusinessType)

	resp, env = doJSON(t, ts, http.MethodGet, "/api/providers/dashboard", tok, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	decodeData(t, env, &data)
	assert.Equal(t, "Canopy Stays", data.Provider.Name)

	// A completed profile cannot be registered again.
	resp, env = doJSON(t, ts, http.MethodPost, "/api/providers/register", tok, map[string]string{
		"businessName": "Canopy Stays II",
		"businessType": "eco-lodge",
	})
	assert.Equal(t, http.StatusConflict, resp.StatusCode)
	assert.Equal(t, "Provider profile already registered", env.Message)
}

func TestProviderRegisterConflict(t *testing.T) {
	ts, _ := newTestServer(t)
	tok := login(t, ts, "provider@demo.com", "demo123", "provider")

	resp, env := doJSON(t, ts, http.MethodPost, "/api/providers/register", tok, map[string]string{
		"businessName": "Eco Adventure Tours Again",
		"businessType": "tour-operator",
	})
	assert.Equal(t, http.StatusConflict, resp.StatusCode)
	assert.Equal(t, "Provider profile already registered", env.Message)
}
