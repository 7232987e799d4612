package models

import "time"

// Conversation is a thread between one traveler and one provider.
type Conversation struct {
	ID           string    `bson:"_id,omitempty" json:"id"`
	ProviderID   string    `bson:"provider_id" json:"providerId"`
	TravelerID   string    `bson:"traveler_id" json:"travelerId"`
	TravelerName string    `bson:"traveler_name,omitempty" json:"travelerName,omitempty"`
	LastMessage  string    `bson:"last_message,omitempty" json:"lastMessage,omitempty"`
	UpdatedAt    time.Time `bson:"updated_at" json:"updatedAt"`
	CreatedAt    time.Time `bson:"created_at" json:"createdAt"`
}

type Message struct {
	ID             string    `bson:"_id,omitempty" json:"id"`
	ConversationID string    `bson:"conversation_id" json:"conversationId"`
	SenderID       string    `bson:"sender_id" json:"senderId"`
	SenderName     string    `bson:"sender_name,omitempty" json:"senderName,omitempty"`
	Text           string    `bson:"text" json:"text"`
	Status         string    `bson:"status" json:"status"` // "delivered" or "read"
	SentAt         time.Time `bson:"sent_at" json:"sentAt"`
}
