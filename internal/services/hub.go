package services

import (
	"sync"
	"time"
)

// MessageEvent is the payload fanned out to WebSocket subscribers of a
// conversation.
type MessageEvent struct {
	Type           string    `json:"type"` // "message", "typing", "read"
	ConversationID string    `json:"conversationId"`
	MessageID      string    `json:"messageId,omitempty"`
	SenderID       string    `json:"senderId,omitempty"`
	SenderName     string    `json:"senderName,omitempty"`
	Text           string    `json:"text,omitempty"`
	SentAt         time.Time `json:"sentAt,omitempty"`
}

// Hub is an in-process registry of conversation subscribers. Each WebSocket
// connection subscribes to one conversation and receives events published by
// either side of the thread.
type Hub struct {
	mu     sync.RWMutex
	nextID int
	subs   map[string]map[int]chan MessageEvent // conversation -> subscriber id -> channel
}

func NewHub() *Hub {
	return &Hub{subs: make(map[string]map[int]chan MessageEvent)}
}

// Subscribe registers a subscriber for a conversation. The returned cancel
// function must be called when the connection closes; it also closes the
// channel.
func (h *Hub) Subscribe(conversationID string) (<-chan MessageEvent, func()) {
	h.mu.Lock()
	defer h.mu.Unlock()

	h.nextID++
	id := h.nextID
	ch := make(chan MessageEvent, 16)

	if h.subs[conversationID] == nil {
		h.subs[conversationID] = make(map[int]chan MessageEvent)
	}
	h.subs[conversationID][id] = ch

	cancel := func() {
		h.mu.Lock()
		defer h.mu.Unlock()
		if peers, ok := h.subs[conversationID]; ok {
			if c, ok := peers[id]; ok {
				delete(peers, id)
				close(c)
			}
			if len(peers) == 0 {
				delete(h.subs, conversationID)
			}
		}
	}
	return ch, cancel
}

// Publish delivers an event to every subscriber of the conversation. Slow
// subscribers are skipped rather than blocking the sender.
func (h *Hub) Publish(evt MessageEvent) {
	h.mu.RLock()
	defer h.mu.RUnlock()

	for _, ch := range h.subs[evt.ConversationID] {
		select {
		case ch <- evt:
		default:
		}
	}
}
