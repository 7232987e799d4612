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

// ProviderHandler serves the public provider directory and the provider
// console: profile registration, dashboard, analytics, payments, reviews,
// conversations and experience management.
type ProviderHandler struct {
	store    store.Store
	insights services.InsightsProvider
	cache    *services.Cache
}

func NewProviderHandler(s store.Store, insights services.InsightsProvider, cache *services.Cache) *ProviderHandler {
	return &ProviderHandler{store: s, insights: insights, cache: cache}
}

// List handles GET /api/providers, the public directory.
func (h *ProviderHandler) List(w http.ResponseWriter, r *http.Request) {
	providers, err := h.store.Providers().List(r.Context())
	if err != nil {
		respond.Internal(w, err)
		return
	}
	respond.List(w, providers, len(providers))
}

// Get handles GET /api/providers/{id}.
func (h *ProviderHandler) Get(w http.ResponseWriter, r *http.Request) {
	p, err := h.store.Providers().FindByID(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			respond.NotFound(w, "Provider not found")
			return
		}
		respond.Internal(w, err)
		return
	}
	respond.OK(w, p, "")
}

// Register handles POST /api/providers/register, filling in the pending
// profile created at account registration with the real business details.
// A profile that has already been filled in reports a conflict.
func (h *ProviderHandler) Register(w http.ResponseWriter, r *http.Request) {
	user, _ := middleware.UserFrom(r)
	req := middleware.Body[ProviderRegisterRequest](r)

	existing, err := h.store.Providers().FindByUserID(r.Context(), user.ID)
	if err != nil && !errors.Is(err, store.ErrNotFound) {
		respond.Internal(w, err)
		return
	}
	if existing != nil && existing.BusinessType != models.PendingBusinessType {
		respond.Conflict(w, "Provider profile already registered")
		return
	}

	profile := &models.Provider{
		UserID:       user.ID,
		BusinessName: req.BusinessName,
		BusinessType: req.BusinessType,
		Description:  req.Description,
		Location:     req.Location,
	}

	var registered *models.Provider
	if existing != nil {
		profile.ID = existing.ID
		profile.CreatedAt = existing.CreatedAt
		registered, err = h.store.Providers().UpdateProfile(r.Context(), profile)
	} else {
		registered, err = h.store.Providers().CreateProfile(r.Context(), profile)
	}
	if err != nil {
		respond.Internal(w, err)
		return
	}

	respond.Created(w, registered, "Provider profile registered")
}

// Dashboard handles GET /api/providers/dashboard.
func (h *ProviderHandler) Dashboard(w http.ResponseWriter, r *http.Request) {
	provider, ok := h.profile(w, r)
	if !ok {
		return
	}

	data, err := h.insights.Dashboard(r.Context(), provider)
	if err != nil {
		respond.Internal(w, err)
		return
	}
	respond.OK(w, data, "")
}

// Analytics handles GET /api/providers/analytics?range=3m|6m|12m.
func (h *ProviderHandler) Analytics(w http.ResponseWriter, r *http.Request) {
	provider, ok := h.profile(w, r)
	if !ok {
		return
	}

	data, err := h.insights.Analytics(r.Context(), provider, r.URL.Query().Get("range"))
	if err != nil {
		respond.Internal(w, err)
		return
	}
	respond.OK(w, data, "")
}

// Payments handles GET /api/providers/payments.
func (h *ProviderHandler) Payments(w http.ResponseWriter, r *http.Request) {
	provider, ok := h.profile(w, r)
	if !ok {
		return
	}

	records, err := h.insights.Payments(r.Context(), provider)
	if err != nil {
		respond.Internal(w, err)
		return
	}
	respond.List(w, records, len(records))
}

// Reviews handles GET /api/providers/reviews.
func (h *ProviderHandler) Reviews(w http.ResponseWriter, r *http.Request) {
	provider, ok := h.profile(w, r)
	if !ok {
		return
	}

	reviews, err := h.store.Reviews().ListByProvider(r.Context(), provider.ID)
	if err != nil {
		respond.Internal(w, err)
		return
	}
	respond.List(w, reviews, len(reviews))
}

// Conversations handles GET /api/providers/conversations.
func (h *ProviderHandler) Conversations(w http.ResponseWriter, r *http.Request) {
	provider, ok := h.profile(w, r)
	if !ok {
		return
	}

	conversations, err := h.store.Conversations().ListByProvider(r.Context(), provider.ID)
	if err != nil {
		respond.Internal(w, err)
		return
	}
	respond.List(w, conversations, len(conversations))
}

// Bookings handles GET /api/providers/bookings, listing bookings made
// against the provider's experiences.
func (h *ProviderHandler) Bookings(w http.ResponseWriter, r *http.Request) {
	provider, ok := h.profile(w, r)
	if !ok {
		return
	}

	bookings, err := h.store.Bookings().ListByProvider(r.Context(), provider.ID)
	if err != nil {
		respond.Internal(w, err)
		return
	}
	respond.List(w, bookings, len(bookings))
}

// ListExperiences handles GET /api/providers/experiences.
func (h *ProviderHandler) ListExperiences(w http.ResponseWriter, r *http.Request) {
	provider, ok := h.profile(w, r)
	if !ok {
		return
	}

	experiences, err := h.store.Experiences().ListByProvider(r.Context(), provider.ID)
	if err != nil {
		respond.Internal(w, err)
		return
	}
	respond.List(w, experiences, len(experiences))
}

// CreateExperience handles POST /api/providers/experiences.
func (h *ProviderHandler) CreateExperience(w http.ResponseWriter, r *http.Request) {
	provider, ok := h.profile(w, r)
	if !ok {
		return
	}
	req := middleware.Body[ExperienceRequest](r)

	exp, err := h.store.Experiences().Create(r.Context(), &models.Experience{
		ProviderID:             provider.ID,
		ProviderName:           provider.BusinessName,
		Title:                  req.Title,
		Description:            req.Description,
		Location:               req.Location,
		Type:                   req.Type,
		Price:                  req.Price,
		SustainabilityFeatures: req.SustainabilityFeatures,
		MaxParticipants:        req.MaxParticipants,
		Duration:               req.Duration,
		Difficulty:             req.Difficulty,
		Image:                  req.Image,
		Gallery:                req.Gallery,
		Included:               req.Included,
		NotIncluded:            req.NotIncluded,
		AvailableDates:         req.AvailableDates,
		IsActive:               true,
		CreatedAt:              time.Now().UTC(),
	})
	if err != nil {
		respond.Internal(w, err)
		return
	}

	h.cache.Invalidate(r.Context(), experiencesCacheKey)
	respond.Created(w, exp, "Experience created successfully")
}

// UpdateExperience handles PUT /api/providers/experiences/{id}. Providers
// can only touch their own listings; a foreign ID reads as absent.
func (h *ProviderHandler) UpdateExperience(w http.ResponseWriter, r *http.Request) {
	provider, ok := h.profile(w, r)
	if !ok {
		return
	}
	req := middleware.Body[ExperienceRequest](r)
	id := chi.URLParam(r, "id")

	existing, err := h.store.Experiences().FindByID(r.Context(), id)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			respond.NotFound(w, "Experience not found")
			return
		}
		respond.Internal(w, err)
		return
	}
	if existing.ProviderID != provider.ID {
		respond.NotFound(w, "Experience not found")
		return
	}

	existing.Title = req.Title
	existing.Description = req.Description
	existing.Location = req.Location
	existing.Type = req.Type
	existing.Price = req.Price
	existing.SustainabilityFeatures = req.SustainabilityFeatures
	existing.MaxParticipants = req.MaxParticipants
	existing.Duration = req.Duration
	existing.Difficulty = req.Difficulty
	existing.Image = req.Image
	existing.Gallery = req.Gallery
	existing.Included = req.Included
	existing.NotIncluded = req.NotIncluded
	existing.AvailableDates = req.AvailableDates

	updated, err := h.store.Experiences().Update(r.Context(), existing)
	if err != nil {
		respond.Internal(w, err)
		return
	}

	h.cache.Invalidate(r.Context(), experiencesCacheKey)
	respond.OK(w, updated, "Experience updated successfully")
}

// profile resolves the caller's provider profile, writing the error response
// itself when there is none.
func (h *ProviderHandler) profile(w http.ResponseWriter, r *http.Request) (*models.Provider, bool) {
	user, _ := middleware.UserFrom(r)

	provider, err := h.store.Providers().FindByUserID(r.Context(), user.ID)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			respond.NotFound(w, "Provider profile not found")
			return nil, false
		}
		respond.Internal(w, err)
		return nil, false
	}
	return provider, true
}
