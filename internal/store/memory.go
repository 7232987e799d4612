package store

import (
	"context"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/pasinduisuranga/traveler-app/internal/models"
	"github.com/pasinduisuranga/traveler-app/pkg/utils"
)

// Memory is the in-memory substitute store. All maps are guarded by one
// RWMutex; in particular the email-uniqueness check and the insert happen
// under the same lock so two concurrent registrations with the same email
// cannot both succeed.
type Memory struct {
	mu sync.RWMutex

	bcryptCost int

	usersByEmail  map[string]models.User // key: lowercased email
	usersByID     map[string]models.User
	providers     map[string]models.Provider // key: provider ID
	experiences   map[string]models.Experience
	bookings      map[string]models.Booking
	conversations map[string]models.Conversation
	messages      map[string][]models.Message // key: conversation ID
	reviews       map[string]models.Review
}

func NewMemory(bcryptCost int) *Memory {
	return &Memory{
		bcryptCost:    bcryptCost,
		usersByEmail:  make(map[string]models.User),
		usersByID:     make(map[string]models.User),
		providers:     make(map[string]models.Provider),
		experiences:   make(map[string]models.Experience),
		bookings:      make(map[string]models.Booking),
		conversations: make(map[string]models.Conversation),
		messages:      make(map[string][]models.Message),
		reviews:       make(map[string]models.Review),
	}
}

func (m *Memory) Users() UserStore                 { return (*memoryUsers)(m) }
func (m *Memory) Providers() ProviderStore         { return (*memoryProviders)(m) }
func (m *Memory) Experiences() ExperienceStore     { return (*memoryExperiences)(m) }
func (m *Memory) Bookings() BookingStore           { return (*memoryBookings)(m) }
func (m *Memory) Conversations() ConversationStore { return (*memoryConversations)(m) }
func (m *Memory) Reviews() ReviewStore             { return (*memoryReviews)(m) }

// --- users ---

type memoryUsers Memory

func (m *memoryUsers) FindByEmail(_ context.Context, email string) (*models.User, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	u, ok := m.usersByEmail[strings.ToLower(email)]
	if !ok {
		return nil, ErrNotFound
	}
	return &u, nil
}

func (m *memoryUsers) FindByID(_ context.Context, id string) (*models.User, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	u, ok := m.usersByID[id]
	if !ok {
		return nil, ErrNotFound
	}
	sanitized := u.Sanitized()
	return &sanitized, nil
}

func (m *memoryUsers) Create(_ context.Context, nu NewUser) (*models.User, error) {
	// Hash outside the lock; it is the expensive part.
	hash, err := utils.HashPassword(nu.Password, m.bcryptCost)
	if err != nil {
		return nil, err
	}

	email := strings.ToLower(nu.Email)
	avatar := nu.Avatar
	if avatar == "" {
		avatar = models.DefaultAvatar
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	if _, exists := m.usersByEmail[email]; exists {
		return nil, ErrDuplicateEmail
	}

	user := models.User{
		ID:        uuid.NewString(),
		Name:      nu.Name,
		Email:     email,
		Password:  hash,
		UserType:  nu.UserType,
		Phone:     nu.Phone,
		Country:   nu.Country,
		Avatar:    avatar,
		CreatedAt: time.Now().UTC(),
	}
	m.usersByEmail[email] = user
	m.usersByID[user.ID] = user

	sanitized := user.Sanitized()
	return &sanitized, nil
}

func (m *memoryUsers) UpdateProfile(_ context.Context, id string, up ProfileUpdate) (*models.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	u, ok := m.usersByID[id]
	if !ok {
		return nil, ErrNotFound
	}
	if up.Name != "" {
		u.Name = up.Name
	}
	if up.Phone != "" {
		u.Phone = up.Phone
	}
	if up.Country != "" {
		u.Country = up.Country
	}
	if up.Avatar != "" {
		u.Avatar = up.Avatar
	}
	m.usersByID[id] = u
	m.usersByEmail[u.Email] = u

	sanitized := u.Sanitized()
	return &sanitized, nil
}

// --- providers ---

type memoryProviders Memory

func (m *memoryProviders) CreateProfile(_ context.Context, p *models.Provider) (*models.Provider, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	created := *p
	if created.ID == "" {
		created.ID = uuid.NewString()
	}
	if created.CreatedAt.IsZero() {
		created.CreatedAt = time.Now().UTC()
	}
	m.providers[created.ID] = created
	return &created, nil
}

func (m *memoryProviders) UpdateProfile(_ context.Context, p *models.Provider) (*models.Provider, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, ok := m.providers[p.ID]; !ok {
		return nil, ErrNotFound
	}
	updated := *p
	m.providers[updated.ID] = updated
	return &updated, nil
}

func (m *memoryProviders) FindByUserID(_ context.Context, userID string) (*models.Provider, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	for _, p := range m.providers {
		if p.UserID == userID {
			p := p
			return &p, nil
		}
	}
	return nil, ErrNotFound
}

func (m *memoryProviders) FindByID(_ context.Context, id string) (*models.Provider, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	p, ok := m.providers[id]
	if !ok {
		return nil, ErrNotFound
	}
	return &p, nil
}

func (m *memoryProviders) List(_ context.Context) ([]models.Provider, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	out := make([]models.Provider, 0, len(m.providers))
	for _, p := range m.providers {
		out = append(out, p)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.Before(out[j].CreatedAt) })
	return out, nil
}

// --- experiences ---

type memoryExperiences Memory

func (m *memoryExperiences) List(_ context.Context, f models.ExperienceFilter) ([]models.Experience, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	var out []models.Experience
	for _, e := range m.experiences {
		if !e.IsActive || !matchExperience(e, f) {
			continue
		}
		out = append(out, e)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.Before(out[j].CreatedAt) })
	return out, nil
}

func (m *memoryExperiences) ListByProvider(_ context.Context, providerID string) ([]models.Experience, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	var out []models.Experience
	for _, e := range m.experiences {
		if e.ProviderID == providerID {
			out = append(out, e)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.Before(out[j].CreatedAt) })
	return out, nil
}

func (m *memoryExperiences) FindByID(_ context.Context, id string) (*models.Experience, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	e, ok := m.experiences[id]
	if !ok {
		return nil, ErrNotFound
	}
	return &e, nil
}

func (m *memoryExperiences) Create(_ context.Context, e *models.Experience) (*models.Experience, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	created := *e
	if created.ID == "" {
		created.ID = uuid.NewString()
	}
	if created.CreatedAt.IsZero() {
		created.CreatedAt = time.Now().UTC()
	}
	m.experiences[created.ID] = created
	return &created, nil
}

func (m *memoryExperiences) Update(_ context.Context, e *models.Experience) (*models.Experience, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, ok := m.experiences[e.ID]; !ok {
		return nil, ErrNotFound
	}
	m.experiences[e.ID] = *e
	updated := *e
	return &updated, nil
}

func matchExperience(e models.Experience, f models.ExperienceFilter) bool {
	if f.Location != "" && !strings.Contains(strings.ToLower(e.Location), strings.ToLower(f.Location)) {
		return false
	}
	if f.Type != "" && e.Type != f.Type {
		return false
	}
	if f.MaxPrice > 0 && e.Price > f.MaxPrice {
		return false
	}
	if f.MinRating > 0 && e.SustainabilityRating < f.MinRating {
		return false
	}
	return true
}

// --- bookings ---

type memoryBookings Memory

func (m *memoryBookings) ListByUser(_ context.Context, userID string) ([]models.Booking, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	var out []models.Booking
	for _, b := range m.bookings {
		if b.UserID == userID {
			out = append(out, b)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].BookingDate.After(out[j].BookingDate) })
	return out, nil
}

func (m *memoryBookings) ListByProvider(_ context.Context, providerID string) ([]models.Booking, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	var out []models.Booking
	for _, b := range m.bookings {
		if b.ProviderID == providerID {
			out = append(out, b)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].BookingDate.After(out[j].BookingDate) })
	return out, nil
}

func (m *memoryBookings) FindByID(_ context.Context, id string) (*models.Booking, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	b, ok := m.bookings[id]
	if !ok {
		return nil, ErrNotFound
	}
	return &b, nil
}

func (m *memoryBookings) Create(_ context.Context, b *models.Booking) (*models.Booking, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	created := *b
	if created.ID == "" {
		created.ID = uuid.NewString()
	}
	if created.BookingDate.IsZero() {
		created.BookingDate = time.Now().UTC()
	}
	created.UpdatedAt = created.BookingDate
	m.bookings[created.ID] = created
	return &created, nil
}

func (m *memoryBookings) UpdateStatus(_ context.Context, id, status string) (*models.Booking, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	b, ok := m.bookings[id]
	if !ok {
		return nil, ErrNotFound
	}
	b.Status = status
	b.UpdatedAt = time.Now().UTC()
	m.bookings[id] = b
	return &b, nil
}

// --- conversations ---

type memoryConversations Memory

func (m *memoryConversations) ListByProvider(_ context.Context, providerID string) ([]models.Conversation, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	var out []models.Conversation
	for _, c := range m.conversations {
		if c.ProviderID == providerID {
			out = append(out, c)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].UpdatedAt.After(out[j].UpdatedAt) })
	return out, nil
}

func (m *memoryConversations) FindConversation(_ context.Context, id string) (*models.Conversation, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	c, ok := m.conversations[id]
	if !ok {
		return nil, ErrNotFound
	}
	return &c, nil
}

func (m *memoryConversations) EnsureConversation(_ context.Context, providerID, travelerID, travelerName string) (*models.Conversation, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	for _, c := range m.conversations {
		if c.ProviderID == providerID && c.TravelerID == travelerID {
			c := c
			return &c, nil
		}
	}

	now := time.Now().UTC()
	c := models.Conversation{
		ID:           uuid.NewString(),
		ProviderID:   providerID,
		TravelerID:   travelerID,
		TravelerName: travelerName,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	m.conversations[c.ID] = c
	return &c, nil
}

func (m *memoryConversations) ListMessages(_ context.Context, conversationID string, limit int) ([]models.Message, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	msgs := m.messages[conversationID]
	if limit > 0 && len(msgs) > limit {
		msgs = msgs[len(msgs)-limit:]
	}
	out := make([]models.Message, len(msgs))
	copy(out, msgs)
	return out, nil
}

func (m *memoryConversations) AppendMessage(_ context.Context, msg *models.Message) (*models.Message, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	c, ok := m.conversations[msg.ConversationID]
	if !ok {
		return nil, ErrNotFound
	}

	created := *msg
	if created.ID == "" {
		created.ID = uuid.NewString()
	}
	if created.SentAt.IsZero() {
		created.SentAt = time.Now().UTC()
	}
	if created.Status == "" {
		created.Status = "delivered"
	}
	m.messages[msg.ConversationID] = append(m.messages[msg.ConversationID], created)

	c.LastMessage = created.Text
	c.UpdatedAt = created.SentAt
	m.conversations[c.ID] = c

	return &created, nil
}

// --- reviews ---

type memoryReviews Memory

func (m *memoryReviews) ListByExperience(_ context.Context, experienceID string) ([]models.Review, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	var out []models.Review
	for _, rv := range m.reviews {
		if rv.ExperienceID == experienceID {
			out = append(out, rv)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Date.After(out[j].Date) })
	return out, nil
}

func (m *memoryReviews) ListByProvider(_ context.Context, providerID string) ([]models.Review, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	var out []models.Review
	for _, rv := range m.reviews {
		if rv.ProviderID == providerID {
			out = append(out, rv)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Date.After(out[j].Date) })
	return out, nil
}

func (m *memoryReviews) Create(_ context.Context, rv *models.Review) (*models.Review, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	created := *rv
	if created.ID == "" {
		created.ID = uuid.NewString()
	}
	if created.Date.IsZero() {
		created.Date = time.Now().UTC()
	}
	m.reviews[created.ID] = created
	return &created, nil
}
