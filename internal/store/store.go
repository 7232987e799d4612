// Package store defines the persistence contract consumed by the request
// gate and the domain handlers, with two interchangeable implementations: a
// MongoDB document store and an in-memory substitute for environments
// without one. The choice is made once at startup and injected; handlers
// depend only on these interfaces.
package store

import (
	"context"
	"errors"

	"github.com/pasinduisuranga/traveler-app/internal/models"
)

var (
	ErrNotFound       = errors.New("record not found")
	ErrDuplicateEmail = errors.New("email already registered")
)

// NewUser carries registration data into UserStore.Create. Password is
// plaintext here; the store hashes it before anything is written.
type NewUser struct {
	Name     string
	Email    string
	Password string
	UserType string
	Phone    string
	Country  string
	Avatar   string
}

// ProfileUpdate carries the mutable profile fields. Empty fields are left
// unchanged.
type ProfileUpdate struct {
	Name    string
	Phone   string
	Country string
	Avatar  string
}

// UserStore is the credential store contract. FindByEmail returns the full
// record including the credential hash (the login path needs it); FindByID
// and Create return sanitized records with the credential excluded.
type UserStore interface {
	FindByEmail(ctx context.Context, email string) (*models.User, error)
	FindByID(ctx context.Context, id string) (*models.User, error)
	Create(ctx context.Context, nu NewUser) (*models.User, error)
	UpdateProfile(ctx context.Context, id string, up ProfileUpdate) (*models.User, error)
}

type ProviderStore interface {
	CreateProfile(ctx context.Context, p *models.Provider) (*models.Provider, error)
	UpdateProfile(ctx context.Context, p *models.Provider) (*models.Provider, error)
	FindByUserID(ctx context.Context, userID string) (*models.Provider, error)
	FindByID(ctx context.Context, id string) (*models.Provider, error)
	List(ctx context.Context) ([]models.Provider, error)
}

type ExperienceStore interface {
	List(ctx context.Context, f models.ExperienceFilter) ([]models.Experience, error)
	ListByProvider(ctx context.Context, providerID string) ([]models.Experience, error)
	FindByID(ctx context.Context, id string) (*models.Experience, error)
	Create(ctx context.Context, e *models.Experience) (*models.Experience, error)
	Update(ctx context.Context, e *models.Experience) (*models.Experience, error)
}

type BookingStore interface {
	ListByUser(ctx context.Context, userID string) ([]models.Booking, error)
	ListByProvider(ctx context.Context, providerID string) ([]models.Booking, error)
	FindByID(ctx context.Context, id string) (*models.Booking, error)
	Create(ctx context.Context, b *models.Booking) (*models.Booking, error)
	UpdateStatus(ctx context.Context, id, status string) (*models.Booking, error)
}

type ConversationStore interface {
	ListByProvider(ctx context.Context, providerID string) ([]models.Conversation, error)
	FindConversation(ctx context.Context, id string) (*models.Conversation, error)
	// EnsureConversation returns the thread between the provider and
	// traveler, creating it when absent.
	EnsureConversation(ctx context.Context, providerID, travelerID, travelerName string) (*models.Conversation, error)
	ListMessages(ctx context.Context, conversationID string, limit int) ([]models.Message, error)
	AppendMessage(ctx context.Context, m *models.Message) (*models.Message, error)
}

type ReviewStore interface {
	ListByExperience(ctx context.Context, experienceID string) ([]models.Review, error)
	ListByProvider(ctx context.Context, providerID string) ([]models.Review, error)
	Create(ctx context.Context, rv *models.Review) (*models.Review, error)
}

// Store aggregates the per-collection contracts.
type Store interface {
	Users() UserStore
	Providers() ProviderStore
	Experiences() ExperienceStore
	Bookings() BookingStore
	Conversations() ConversationStore
	Reviews() ReviewStore
}
