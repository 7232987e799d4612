package handlers

import (
	"errors"
	"net/http"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/pasinduisuranga/traveler-app/internal/models"
	"github.com/pasinduisuranga/traveler-app/internal/respond"
	"github.com/pasinduisuranga/traveler-app/internal/services"
	"github.com/pasinduisuranga/traveler-app/internal/store"
)

// ExperienceHandler serves the public experience catalog.
type ExperienceHandler struct {
	store store.Store
	cache *services.Cache
}

func NewExperienceHandler(s store.Store, cache *services.Cache) *ExperienceHandler {
	return &ExperienceHandler{store: s, cache: cache}
}

const experiencesCacheKey = "experiences:all"

// List handles GET /api/experiences with optional location, type, maxPrice
// and minRating query filters. The unfiltered listing is cached; filtered
// queries go straight to the store.
func (h *ExperienceHandler) List(w http.ResponseWriter, r *http.Request) {
	f := filterFromQuery(r)

	if f == (models.ExperienceFilter{}) {
		var cached []models.Experience
		if h.cache.Get(r.Context(), experiencesCacheKey, &cached) {
			respond.List(w, cached, len(cached))
			return
		}
	}

	experiences, err := h.store.Experiences().List(r.Context(), f)
	if err != nil {
		respond.Internal(w, err)
		return
	}

	if f == (models.ExperienceFilter{}) {
		h.cache.Set(r.Context(), experiencesCacheKey, experiences, services.DefaultCacheTTL)
	}

	respond.List(w, experiences, len(experiences))
}

// Get handles GET /api/experiences/{id}, returning the experience together
// with its reviews.
func (h *ExperienceHandler) Get(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	exp, err := h.store.Experiences().FindByID(r.Context(), id)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			respond.NotFound(w, "Experience not found")
			return
		}
		respond.Internal(w, err)
		return
	}

	reviews, err := h.store.Reviews().ListByExperience(r.Context(), exp.ID)
	if err != nil {
		respond.Internal(w, err)
		return
	}

	respond.OK(w, struct {
		models.Experience
		Reviews []models.Review `json:"reviews"`
	}{Experience: *exp, Reviews: reviews}, "")
}

func filterFromQuery(r *http.Request) models.ExperienceFilter {
	q := r.URL.Query()
	f := models.ExperienceFilter{
		Location: strings.TrimSpace(q.Get("location")),
		Type:     strings.ToLower(strings.TrimSpace(q.Get("type"))),
	}
	if v, err := strconv.ParseFloat(q.Get("maxPrice"), 64); err == nil && v > 0 {
		f.MaxPrice = v
	}
	if v, err := strconv.ParseFloat(q.Get("minRating"), 64); err == nil && v > 0 {
		f.MinRating = v
	}
	return f
}
