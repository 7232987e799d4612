package handlers_test

import (
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pasinduisuranga/traveler-app/internal/models"
)

func TestConversationFlow(t *testing.T) {
	ts, _ := newTestServer(t)
	travelerTok := login(t, ts, "traveler@demo.com", "demo123", "traveler")
	providerTok := login(t, ts, "provider@demo.com", "demo123", "provider")

	resp, env := doJSON(t, ts, http.MethodGet, "/api/providers", "", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var providers []models.Provider
	decodeData(t, env, &providers)
	require.NotEmpty(t, providers)
	providerID := providers[0].ID

	// Opening the thread twice returns the same conversation.
	resp, env = doJSON(t, ts, http.MethodGet, "/api/providers/"+providerID+"/conversations", travelerTok, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var conv models.Conversation
	decodeData(t, env, &conv)
	require.NotEmpty(t, conv.ID)

	resp, env = doJSON(t, ts, http.MethodGet, "/api/providers/"+providerID+"/conversations", travelerTok, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var again models.Conversation
	decodeData(t, env, &again)
	assert.Equal(t, conv.ID, again.ID)

	// The traveler sends; both sides can read.
	resp, env = doJSON(t, ts, http.MethodPost, "/api/messages/"+conv.ID, travelerTok,
		map[string]string{"text": "Is the whale watching trip running this weekend?"})
	require.Equal(t, http.StatusCreated, resp.StatusCode, "send failed: %s", env.Message)
	var sent models.Message
	decodeData(t, env, &sent)
	assert.Equal(t, "delivered", sent.Status)

	for _, tok := range []string{travelerTok, providerTok} {
		resp, env = doJSON(t, ts, http.MethodGet, "/api/messages/"+conv.ID, tok, nil)
		require.Equal(t, http.StatusOK, resp.StatusCode)
		var msgs []models.Message
		decodeData(t, env, &msgs)
		require.NotEmpty(t, msgs)
		assert.Equal(t, sent.Text, msgs[len(msgs)-1].Text, "messages are chronological")
	}

	// The provider's console lists the thread.
	resp, env = doJSON(t, ts, http.MethodGet, "/api/providers/conversations", providerTok, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var threads []models.Conversation
	decodeData(t, env, &threads)
	require.NotEmpty(t, threads)
}

func TestConversationHiddenFromNonParticipants(t *testing.T) {
	ts, _ := newTestServer(t)
	travelerTok := login(t, ts, "traveler@demo.com", "demo123", "traveler")

	resp, env := doJSON(t, ts, http.MethodGet, "/api/providers", "", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var providers []models.Provider
	decodeData(t, env, &providers)
	providerID := providers[0].ID

	resp, env = doJSON(t, ts, http.MethodGet, "/api/providers/"+providerID+"/conversations", travelerTok, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var conv models.Conversation
	decodeData(t, env, &conv)

	resp, _ = doJSON(t, ts, http.MethodPost, "/api/auth/register", "", map[string]string{
		"name":     "Nosy Neighbor",
		"email":    "nosy@example.com",
		"password": "Sunny$Day1",
		"userType": "traveler",
	})
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	nosyTok := login(t, ts, "nosy@example.com", "Sunny$Day1", "traveler")

	resp, env = doJSON(t, ts, http.MethodGet, "/api/messages/"+conv.ID, nosyTok, nil)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
	assert.Equal(t, "Conversation not found", env.Message)

	resp, env = doJSON(t, ts, http.MethodPost, "/api/messages/"+conv.ID, nosyTok,
		map[string]string{"text": "Hello?"})
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
	assert.Equal(t, "Conversation not found", env.Message)
}
