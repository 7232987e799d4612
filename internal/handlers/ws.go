package handlers

import (
	"log"
	"net/http"
	"strings"
	"time"

	"github.com/gorilla/websocket"
	"golang.org/x/time/rate"

	"github.com/pasinduisuranga/traveler-app/internal/middleware"
	"github.com/pasinduisuranga/traveler-app/internal/models"
	"github.com/pasinduisuranga/traveler-app/internal/services"
	"github.com/pasinduisuranga/traveler-app/internal/store"
	"github.com/pasinduisuranga/traveler-app/internal/token"
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin: func(r *http.Request) bool {
		return true // origin policy is enforced by the CORS layer in front
	},
}

const (
	wsWriteWait  = 10 * time.Second
	wsPongWait   = 60 * time.Second
	wsPingPeriod = 50 * time.Second
	wsMaxMessage = 4096
)

// WSHandler is the live messaging gateway at /ws/messages. One connection
// serves one conversation; inbound frames become persisted messages, and
// messages from either side (REST or WS) are fanned back out through the hub.
type WSHandler struct {
	store   store.Store
	tokens  *token.Service
	revoked middleware.RevocationList
	hub     *services.Hub
}

type wsInbound struct {
	Type string `json:"type"`
	Text string `json:"text"`
}

func NewWSHandler(s store.Store, tokens *token.Service, revoked middleware.RevocationList, hub *services.Hub) *WSHandler {
	return &WSHandler{store: s, tokens: tokens, revoked: revoked, hub: hub}
}

// Serve upgrades the connection after authenticating the caller. Browsers
// cannot set headers on WebSocket dials, so the token is accepted from
// either the Authorization header or a token query parameter.
func (h *WSHandler) Serve(w http.ResponseWriter, r *http.Request) {
	user, ok := h.authenticate(w, r)
	if !ok {
		return
	}

	conversationID := r.URL.Query().Get("conversation")
	if conversationID == "" {
		http.Error(w, "conversation query parameter required", http.StatusBadRequest)
		return
	}

	conv, err := h.store.Conversations().FindConversation(r.Context(), conversationID)
	if err != nil {
		http.Error(w, "Conversation not found", http.StatusNotFound)
		return
	}
	if !h.isParticipant(r, user, conv) {
		http.Error(w, "Conversation not found", http.StatusNotFound)
		return
	}

	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Printf("ws: upgrade failed: %v", err)
		return
	}

	events, cancel := h.hub.Subscribe(conv.ID)
	defer cancel()

	go h.writePump(conn, events)
	h.readPump(r, conn, user, conv)
}

// readPump consumes inbound frames until the connection drops. Sends are
// rate limited per connection; a client racing past the limit has its frames
// dropped, not the connection.
func (h *WSHandler) readPump(r *http.Request, conn *websocket.Conn, user *models.User, conv *models.Conversation) {
	defer conn.Close()

	conn.SetReadLimit(wsMaxMessage)
	conn.SetReadDeadline(time.Now().Add(wsPongWait))
	conn.SetPongHandler(func(string) error {
		return conn.SetReadDeadline(time.Now().Add(wsPongWait))
	})

	limiter := rate.NewLimiter(rate.Every(time.Second), 5)

	for {
		var in wsInbound
		if err := conn.ReadJSON(&in); err != nil {
			return
		}

		switch in.Type {
		case "typing", "read":
			h.hub.Publish(services.MessageEvent{
				Type:           in.Type,
				ConversationID: conv.ID,
				SenderID:       user.ID,
				SenderName:     user.Name,
			})
			continue
		}

		text := strings.TrimSpace(in.Text)
		if text == "" || len(text) > 2000 {
			continue
		}
		if !limiter.Allow() {
			continue
		}

		msg, err := h.store.Conversations().AppendMessage(r.Context(), &models.Message{
			ConversationID: conv.ID,
			SenderID:       user.ID,
			SenderName:     user.Name,
			Text:           text,
			Status:         "delivered",
			SentAt:         time.Now().UTC(),
		})
		if err != nil {
			log.Printf("ws: append message failed: %v", err)
			continue
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
	}
}

// writePump forwards hub events to the peer and keeps the connection alive
// with pings. It exits when the subscription channel closes.
func (h *WSHandler) writePump(conn *websocket.Conn, events <-chan services.MessageEvent) {
	ticker := time.NewTicker(wsPingPeriod)
	defer func() {
		ticker.Stop()
		conn.Close()
	}()

	for {
		select {
		case evt, ok := <-events:
			if !ok {
				conn.WriteControl(websocket.CloseMessage,
					websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""), time.Now().Add(wsWriteWait))
				return
			}
			conn.SetWriteDeadline(time.Now().Add(wsWriteWait))
			if err := conn.WriteJSON(evt); err != nil {
				return
			}
		case <-ticker.C:
			conn.SetWriteDeadline(time.Now().Add(wsWriteWait))
			if err := conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}

func (h *WSHandler) authenticate(w http.ResponseWriter, r *http.Request) (*models.User, bool) {
	raw := r.URL.Query().Get("token")
	if raw == "" {
		if header := r.Header.Get("Authorization"); header != "" {
			raw, _ = strings.CutPrefix(header, "Bearer ")
			raw = strings.TrimSpace(raw)
		}
	}
	if raw == "" {
		http.Error(w, "Not authorized, no token", http.StatusUnauthorized)
		return nil, false
	}

	claims, err := h.tokens.Verify(raw)
	if err != nil {
		http.Error(w, "Not authorized, token failed", http.StatusUnauthorized)
		return nil, false
	}

	if h.revoked != nil {
		// Same fail-open semantics as the REST gate.
		if isRevoked, err := h.revoked.IsRevoked(r.Context(), claims.ID); err == nil && isRevoked {
			http.Error(w, "Token has been revoked", http.StatusUnauthorized)
			return nil, false
		}
	}

	user, err := h.store.Users().FindByID(r.Context(), claims.UserID)
	if err != nil {
		http.Error(w, "Not authorized, token failed", http.StatusUnauthorized)
		return nil, false
	}
	return user, true
}

func (h *WSHandler) isParticipant(r *http.Request, user *models.User, conv *models.Conversation) bool {
	if conv.TravelerID == user.ID {
		return true
	}
	if user.UserType != models.UserTypeProvider {
		return false
	}
	profile, err := h.store.Providers().FindByUserID(r.Context(), user.ID)
	return err == nil && profile.ID == conv.ProviderID
}
