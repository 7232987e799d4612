package handlers

import (
	"errors"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/pasinduisuranga/traveler-app/internal/middleware"
	"github.com/pasinduisuranga/traveler-app/internal/models"
	"github.com/pasinduisuranga/traveler-app/internal/respond"
	"github.com/pasinduisuranga/traveler-app/internal/services"
	"github.com/pasinduisuranga/traveler-app/internal/store"
)

const messagePageSize = 50

// MessageHandler serves the REST side of traveler/provider messaging. The
// live side is the WebSocket gateway; both publish through the same hub.
type MessageHandler struct {
	store store.Store
	hub   *services.Hub
}

func NewMessageHandler(s store.Store, hub *services.Hub) *MessageHandler {
	return &MessageHandler{store: s, hub: hub}
}

// Open handles GET /api/providers/{id}/conversations: it returns the
// caller's conversation with that provider, creating the thread on first
// contact.
func (h *MessageHandler) Open(w http.ResponseWriter, r *http.Request) {
	user, _ := middleware.UserFrom(r)
	providerID := chi.URLParam(r, "id")

	if _, err := h.store.Providers().FindByID(r.Context(), providerID); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			respond.NotFound(w, "Provider not found")
			return
		}
		respond.Internal(w, err)
		return
	}

	conv, err := h.store.Conversations().EnsureConversation(r.Context(), providerID, user.ID, user.Name)
	if err != nil {
		respond.Internal(w, err)
		return
	}
	respond.OK(w, conv, "")
}

// ListMessages handles GET /api/messages/{conversationID}. Only the two
// participants can read the thread; anyone else sees it as absent.
func (h *MessageHandler) ListMessages(w http.ResponseWriter, r *http.Request) {
	conv, ok := h.participantConversation(w, r)
	if !ok {
		return
	}

	messages, err := h.store.Conversations().ListMessages(r.Context(), conv.ID, messagePageSize)
	if err != nil {
		respond.Internal(w, err)
		return
	}
	respond.List(w, messages, len(messages))
}

// Send handles POST /api/messages/{conversationID}: it persists the message
// and fans it out to live WebSocket subscribers of the thread.
func (h *MessageHandler) Send(w http.ResponseWriter, r *http.Request) {
	user, _ := middleware.UserFrom(r)
	req := middleware.Body[MessageRequest](r)

	conv, ok := h.participantConversation(w, r)
	if !ok {
		return
	}

	msg, err := h.store.Conversations().AppendMessage(r.Context(), &models.Message{
		ConversationID: conv.ID,
		SenderID:       user.ID,
		SenderName:     user.Name,
		Text:           req.Text,
		Status:         "delivered",
		SentAt:         time.Now().UTC(),
	})
	if err != nil {
		respond.Internal(w, err)
		return
	}

	h.hub.Publish(services.MessageEvent{
		Type:           "message",
		ConversationID: conv.ID,
		MessageID:      msg.ID,
		SenderID:       msg.SenderID,
		SenderName:     msg.SenderName,
		Text:           msg.Text,
		SentAt:         msg.SentAt,
	})

	respond.Created(w, msg, "Message sent")
}

// participantConversation loads the conversation in the URL and verifies the
// caller is one of its two participants, responding on failure.
func (h *MessageHandler) participantConversation(w http.ResponseWriter, r *http.Request) (*models.Conversation, bool) {
	user, _ := middleware.UserFrom(r)
	id := chi.URLParam(r, "conversationID")

	conv, err := h.store.Conversations().FindConversation(r.Context(), id)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			respond.NotFound(w, "Conversation not found")
			return nil, false
		}
		respond.Internal(w, err)
		return nil, false
	}

	if !h.isParticipant(r, user, conv) {
		respond.NotFound(w, "Conversation not found")
		return nil, false
	}
	return conv, true
}

func (h *MessageHandler) isParticipant(r *http.Request, user *models.User, conv *models.Conversation) bool {
	if conv.TravelerID == user.ID {
		return true
	}
	if user.UserType != models.UserTypeProvider {
		return false
	}
	profile, err := h.store.Providers().FindByUserID(r.Context(), user.ID)
	return err == nil && profile.ID == conv.ProviderID
}
