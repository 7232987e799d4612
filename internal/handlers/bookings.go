package handlers

import (
	"errors"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/pasinduisuranga/traveler-app/internal/middleware"
	"github.com/pasinduisuranga/traveler-app/internal/models"
	"github.com/pasinduisuranga/traveler-app/internal/respond"
	"github.com/pasinduisuranga/traveler-app/internal/services"
	"github.com/pasinduisuranga/traveler-app/internal/store"
)

// BookingHandler serves the traveler booking lifecycle.
type BookingHandler struct {
	store store.Store
	cache *services.Cache
}

func NewBookingHandler(s store.Store, cache *services.Cache) *BookingHandler {
	return &BookingHandler{store: s, cache: cache}
}

// List handles GET /api/bookings, returning the caller's own bookings.
func (h *BookingHandler) List(w http.ResponseWriter, r *http.Request) {
	user, _ := middleware.UserFrom(r)

	bookings, err := h.store.Bookings().ListByUser(r.Context(), user.ID)
	if err != nil {
		respond.Internal(w, err)
		return
	}
	respond.List(w, bookings, len(bookings))
}

// Create handles POST /api/bookings. The total is computed server-side from
// the experience price, never trusted from the client.
func (h *BookingHandler) Create(w http.ResponseWriter, r *http.Request) {
	user, _ := middleware.UserFrom(r)
	req := middleware.Body[BookingRequest](r)

	exp, err := h.store.Experiences().FindByID(r.Context(), req.ExperienceID)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			respond.NotFound(w, "Experience not found")
			return
		}
		respond.Internal(w, err)
		return
	}

	if req.Participants > exp.MaxParticipants {
		respond.Error(w, http.StatusBadRequest, "This experience allows at most "+strconv.Itoa(exp.MaxParticipants)+" participants")
		return
	}

	booking, err := h.store.Bookings().Create(r.Context(), &models.Booking{
		ExperienceID:     exp.ID,
		ExperienceTitle:  exp.Title,
		UserID:           user.ID,
		ProviderID:       exp.ProviderID,
		ProviderName:     exp.ProviderName,
		Date:             req.Date,
		Participants:     req.Participants,
		SpecialRequests:  req.SpecialRequests,
		Status:           "pending",
		TotalAmount:      exp.Price * float64(req.Participants),
		ConfirmationCode: confirmationCode(),
		BookingDate:      time.Now().UTC(),
	})
	if err != nil {
		respond.Internal(w, err)
		return
	}

	respond.Created(w, booking, "Booking created successfully")
}

// UpdateStatus handles PATCH /api/bookings/{id}/status. The traveler who
// made the booking and the provider it belongs to may change it; anyone else
// gets a 404 so booking IDs cannot be probed.
func (h *BookingHandler) UpdateStatus(w http.ResponseWriter, r *http.Request) {
	user, _ := middleware.UserFrom(r)
	req := middleware.Body[BookingStatusRequest](r)
	id := chi.URLParam(r, "id")

	booking, err := h.store.Bookings().FindByID(r.Context(), id)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			respond.NotFound(w, "Booking not found")
			return
		}
		respond.Internal(w, err)
		return
	}

	if !h.mayManage(r, user, booking) {
		respond.NotFound(w, "Booking not found")
		return
	}

	updated, err := h.store.Bookings().UpdateStatus(r.Context(), id, req.Status)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			respond.NotFound(w, "Booking not found")
			return
		}
		respond.Internal(w, err)
		return
	}

	respond.OK(w, updated, "Booking status updated")
}

func (h *BookingHandler) mayManage(r *http.Request, user *models.User, b *models.Booking) bool {
	if b.UserID == user.ID {
		return true
	}
	if user.UserType != models.UserTypeProvider {
		return false
	}
	profile, err := h.store.Providers().FindByUserID(r.Context(), user.ID)
	return err == nil && profile.ID == b.ProviderID
}

// confirmationCode returns a short human-quotable reference, e.g. ETCP-9F2C71A0.
func confirmationCode() string {
	return "ETCP-" + strings.ToUpper(uuid.NewString()[:8])
}
