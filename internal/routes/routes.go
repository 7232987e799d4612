package routes

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/pasinduisuranga/traveler-app/internal/config"
	"github.com/pasinduisuranga/traveler-app/internal/handlers"
	"github.com/pasinduisuranga/traveler-app/internal/middleware"
	"github.com/pasinduisuranga/traveler-app/internal/respond"
	"github.com/pasinduisuranga/traveler-app/internal/services"
	"github.com/pasinduisuranga/traveler-app/internal/store"
	"github.com/pasinduisuranga/traveler-app/internal/token"
)

// RevocationStore is the logout backing store: the middleware reads it, the
// logout handler writes it.
type RevocationStore interface {
	middleware.RevocationList
	handlers.TokenRevoker
}

// Deps carries everything the route table needs. All collaborators are
// injected here once at startup; nothing below this point reads globals.
type Deps struct {
	Config      *config.Config
	Store       store.Store
	Tokens      *token.Service
	Counter     middleware.Counter
	Revocations RevocationStore
	Cache       *services.Cache
	Hub         *services.Hub
	Insights    services.InsightsProvider
	Cloudinary  *services.CloudinaryService
}

// Setup mounts every route on the router. Rate limiting always runs first;
// on the unauthenticated auth routes body validation follows it directly,
// while protected routes authenticate and check the role before validating
// the body.
func Setup(r chi.Router, d Deps) {
	auth := handlers.NewAuthHandler(d.Store, d.Tokens, d.Revocations)
	experiences := handlers.NewExperienceHandler(d.Store, d.Cache)
	bookings := handlers.NewBookingHandler(d.Store, d.Cache)
	users := handlers.NewUserHandler(d.Store)
	providers := handlers.NewProviderHandler(d.Store, d.Insights, d.Cache)
	messages := handlers.NewMessageHandler(d.Store, d.Hub)
	ws := handlers.NewWSHandler(d.Store, d.Tokens, d.Revocations, d.Hub)
	upload := handlers.NewUploadHandler(d.Cloudinary)

	authLimit := middleware.RateLimit(d.Counter, middleware.Policy{
		Window:         d.Config.RateLimitWindow,
		Max:            d.Config.AuthRateLimitMax,
		SkipSuccessful: true,
		Message:        "Too many authentication attempts, please try again later",
	}, "auth")
	apiLimit := middleware.RateLimit(d.Counter, middleware.Policy{
		Window:  d.Config.RateLimitWindow,
		Max:     d.Config.APIRateLimitMax,
		Message: "Too many requests, please try again later",
	}, "api")

	authenticate := middleware.Authenticate(d.Tokens, d.Store.Users(), d.Revocations)

	r.Get("/", handlers.Root)
	r.Get("/health", handlers.Health)

	r.Route("/api", func(r chi.Router) {
		r.Use(apiLimit)

		// Auth
		r.With(authLimit, middleware.ValidateBody[handlers.RegisterRequest]()).
			Post("/auth/register", auth.Register)
		r.With(authLimit, middleware.ValidateBody[handlers.LoginRequest]()).
			Post("/auth/login", auth.Login)
		r.With(authenticate).Get("/auth/me", auth.Me)
		r.With(authenticate).Post("/auth/logout", auth.Logout)

		// Public catalog
		r.Get("/experiences", experiences.List)
		r.Get("/experiences/{id}", experiences.Get)
		r.Get("/providers", providers.List)

		// Traveler bookings
		r.Group(func(r chi.Router) {
			r.Use(authenticate)
			r.Get("/bookings", bookings.List)
			r.With(middleware.RequireTraveler, middleware.ValidateBody[handlers.BookingRequest]()).
				Post("/bookings", bookings.Create)
			r.With(middleware.ValidateBody[handlers.BookingStatusRequest]()).
				Patch("/bookings/{id}/status", bookings.UpdateStatus)
		})

		// Account profile
		r.Group(func(r chi.Router) {
			r.Use(authenticate)
			r.Get("/users/profile", users.Profile)
			r.With(middleware.ValidateBody[handlers.UpdateProfileRequest]()).
				Put("/users/profile", users.UpdateProfile)
		})

		// Provider console
		r.Group(func(r chi.Router) {
			r.Use(authenticate, middleware.RequireProvider)
			r.With(middleware.ValidateBody[handlers.ProviderRegisterRequest]()).
				Post("/providers/register", providers.Register)
			r.Get("/providers/dashboard", providers.Dashboard)
			r.Get("/providers/analytics", providers.Analytics)
			r.Get("/providers/payments", providers.Payments)
			r.Get("/providers/reviews", providers.Reviews)
			r.Get("/providers/conversations", providers.Conversations)
			r.Get("/providers/bookings", providers.Bookings)
			r.Get("/providers/experiences", providers.ListExperiences)
			r.With(middleware.ValidateBody[handlers.ExperienceRequest]()).
				Post("/providers/experiences", providers.CreateExperience)
			r.With(middleware.ValidateBody[handlers.ExperienceRequest]()).
				Put("/providers/experiences/{id}", providers.UpdateExperience)
		})

		// These sit after the console group so /providers/dashboard and
		// friends match the literal routes above, not {id}.
		r.Get("/providers/{id}", providers.Get)
		r.With(authenticate).Get("/providers/{id}/conversations", messages.Open)

		// Messaging
		r.Group(func(r chi.Router) {
			r.Use(authenticate)
			r.Get("/messages/{conversationID}", messages.ListMessages)
			r.With(middleware.ValidateBody[handlers.MessageRequest]()).
				Post("/messages/{conversationID}", messages.Send)
		})

		// File upload
		r.With(authenticate).Post("/upload", upload.Upload)
	})

	// WebSocket endpoint for realtime conversation messages
	r.Get("/ws/messages", ws.Serve)

	r.NotFound(func(w http.ResponseWriter, r *http.Request) {
		respond.NotFound(w, "Route not found")
	})
}
