package handlers_test

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pasinduisuranga/traveler-app/internal/models"
)

func firstExperience(t *testing.T, ts *httptest.Server) models.Experience {
	t.Helper()

	resp, env := doJSON(t, ts, http.MethodGet, "/api/experiences", "", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var experiences []models.Experience
	decodeData(t, env, &experiences)
	require.NotEmpty(t, experiences)
	return experiences[0]
}

func TestCreateBooking(t *testing.T) {
	ts, _ := newTestServer(t)
	tok := login(t, ts, "traveler@demo.com", "demo123", "traveler")
	exp := firstExperience(t, ts)

	date := time.Now().AddDate(0, 1, 0).Format("2006-01-02")
	resp, env := doJSON(t, ts, http.MethodPost, "/api/bookings", tok, map[string]any{
		"experienceId": exp.ID,
		"date":         date,
		"participants": 3,
	})
	require.Equal(t, http.StatusCreated, resp.StatusCode, "booking failed: %s", env.Message)

	var booking models.Booking
	decodeData(t, env, &booking)
	assert.Equal(t, "pending", booking.Status)
	assert.Equal(t, exp.Price*3, booking.TotalAmount, "total is computed server-side")
	assert.True(t, strings.HasPrefix(booking.ConfirmationCode, "ETCP-"))
	assert.Equal(t, exp.Title, booking.ExperienceTitle)

	resp, env = doJSON(t, ts, http.MethodGet, "/api/bookings", tok, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var mine []models.Booking
	decodeData(t, env, &mine)
	require.Len(t, mine, 1)
	assert.Equal(t, booking.ID, mine[0].ID)
}

func TestCreateBookingRejections(t *testing.T) {
	ts, _ := newTestServer(t)
	tok := login(t, ts, "traveler@demo.com", "demo123", "traveler")
	exp := firstExperience(t, ts)

	date := time.Now().AddDate(0, 1, 0).Format("2006-01-02")

	// Past date and zero participants are validation failures.
	resp, env := doJSON(t, ts, http.MethodPost, "/api/bookings", tok, map[string]any{
		"experienceId": exp.ID,
		"date":         "2020-01-01",
	})
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	assert.Equal(t, "Validation error", env.Message)

	// Unknown experience.
	resp, env = doJSON(t, ts, http.MethodPost, "/api/bookings", tok, map[string]any{
		"experienceId": "no-such-experience",
		"date":         date,
		"participants": 2,
	})
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
	assert.Equal(t, "Experience not found", env.Message)

	// Over the experience capacity.
	resp, _ = doJSON(t, ts, http.MethodPost, "/api/bookings", tok, map[string]any{
		"experienceId": exp.ID,
		"date":         date,
		"participants": exp.MaxParticipants + 1,
	})
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)

	// Providers do not book.
	providerTok := login(t, ts, "provider@demo.com", "demo123", "provider")
	resp, env = doJSON(t, ts, http.MethodPost, "/api/bookings", providerTok, map[string]any{
		"experienceId": exp.ID,
		"date":         date,
		"participants": 2,
	})
	assert.Equal(t, http.StatusForbidden, resp.StatusCode)
	assert.Equal(t, "Access denied. Traveler account required.", env.Message)
}

func TestBookingStatusLifecycle(t *testing.T) {
	ts, _ := newTestServer(t)
	travelerTok := login(t, ts, "traveler@demo.com", "demo123", "traveler")
	providerTok := login(t, ts, "provider@demo.com", "demo123", "provider")
	exp := firstExperience(t, ts)

	date := time.Now().AddDate(0, 1, 0).Format("2006-01-02")
	resp, env := doJSON(t, ts, http.MethodPost, "/api/bookings", travelerTok, map[string]any{
		"experienceId": exp.ID,
		"date":         date,
		"participants": 2,
	})
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	var booking models.Booking
	decodeData(t, env, &booking)

	// The provider confirms.
	resp, env = doJSON(t, ts, http.MethodPatch, "/api/bookings/"+booking.ID+"/status", providerTok,
		map[string]string{"status": "confirmed"})
	require.Equal(t, http.StatusOK, resp.StatusCode, "confirm failed: %s", env.Message)
	var updated models.Booking
	decodeData(t, env, &updated)
	assert.Equal(t, "confirmed", updated.Status)

	// The traveler cancels.
	resp, env = doJSON(t, ts, http.MethodPatch, "/api/bookings/"+booking.ID+"/status", travelerTok,
		map[string]string{"status": "cancelled"})
	require.Equal(t, http.StatusOK, resp.StatusCode)
	decodeData(t, env, &updated)
	assert.Equal(t, "cancelled", updated.Status)

	// A third party sees the booking as absent.
	resp, _ = doJSON(t, ts, http.MethodPost, "/api/auth/register", "", map[string]string{
		"name":     "Other Person",
		"email":    "other@example.com",
		"password": "Sunny$Day1",
		"userType": "traveler",
	})
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	otherTok := login(t, ts, "other@example.com", "Sunny$Day1", "traveler")

	resp, env = doJSON(t, ts, http.MethodPatch, "/api/bookings/"+booking.ID+"/status", otherTok,
		map[string]string{"status": "confirmed"})
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
	assert.Equal(t, "Booking not found", env.Message)
}
