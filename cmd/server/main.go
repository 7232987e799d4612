package main

import (
	"context"
	"log"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/cors"
	"github.com/joho/godotenv"

	"github.com/pasinduisuranga/traveler-app/internal/config"
	"github.com/pasinduisuranga/traveler-app/internal/database"
	"github.com/pasinduisuranga/traveler-app/internal/middleware"
	"github.com/pasinduisuranga/traveler-app/internal/routes"
	"github.com/pasinduisuranga/traveler-app/internal/services"
	"github.com/pasinduisuranga/traveler-app/internal/store"
	"github.com/pasinduisuranga/traveler-app/internal/token"
)

func main() {
	// Load env
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found")
	}

	cfg, err := config.Load()
	if err != nil {
		log.Fatal("Configuration error: ", err)
	}

	tokens, err := token.New(cfg.JWTSecret, cfg.TokenTTL)
	if err != nil {
		log.Fatal("Token service error: ", err)
	}

	// Storage backend: MongoDB by default, in-memory when configured. The
	// memory store is seeded with demo data so the API is usable immediately.
	var dataStore store.Store
	switch cfg.Storage {
	case config.StorageMemory:
		mem := store.NewMemory(cfg.BcryptCost)
		if err := store.SeedDemo(context.Background(), mem); err != nil {
			log.Fatal("Failed to seed demo data: ", err)
		}
		dataStore = mem
		log.Println("✅ Using in-memory store (demo data seeded)")
	default:
		log.Printf("Connecting to MongoDB...")
		client, db, err := database.ConnectMongo(cfg.MongoURI)
		if err != nil {
			log.Fatal("Failed to connect to MongoDB: ", err)
		}
		defer database.DisconnectMongo(client)

		mongoStore := store.NewMongo(db, cfg.BcryptCost)
		if err := mongoStore.EnsureIndexes(context.Background()); err != nil {
			log.Printf("⚠️  WARNING: failed to ensure MongoDB indexes: %v", err)
		}
		dataStore = mongoStore
		log.Println("✅ MongoDB connected")
	}

	// Redis backs rate limiting, the token revocation list and the listing
	// cache. Without it everything degrades to in-process equivalents.
	var (
		counter     middleware.Counter = middleware.NewMemoryCounter()
		revocations routes.RevocationStore = services.NewMemoryRevocationList()
		cache       *services.Cache
	)
	if cfg.RedisURI != "" {
		log.Printf("Connecting to Redis...")
		redisClient, err := database.ConnectRedis(cfg.RedisURI)
		if err != nil {
			log.Printf("⚠️  WARNING: Redis unavailable, using in-process fallbacks: %v", err)
		} else {
			defer redisClient.Close()
			counter = middleware.NewRedisCounter(redisClient)
			revocations = services.NewRedisRevocationList(redisClient)
			cache = services.NewCache(redisClient)
			log.Println("✅ Redis connected")
		}
	} else {
		log.Println("Redis not configured, using in-process rate limiting and revocation")
	}

	// Cloudinary is optional; without credentials uploads report unavailable.
	var cloudinaryService *services.CloudinaryService
	if cfg.CloudinaryName != "" && cfg.CloudinaryAPIKey != "" && cfg.CloudinaryAPISecret != "" {
		cloudinaryService, err = services.NewCloudinaryService(cfg.CloudinaryName, cfg.CloudinaryAPIKey, cfg.CloudinaryAPISecret)
		if err != nil {
			log.Printf("Warning: Failed to initialize Cloudinary: %v", err)
			log.Println("File uploads will not be available")
		} else {
			log.Println("✅ Cloudinary service initialized")
		}
	} else {
		log.Println("Warning: Cloudinary credentials not found. File uploads will not be available")
	}

	r := chi.NewRouter()

	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   cfg.AllowedOrigins,
		AllowedMethods:   []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type"},
		AllowCredentials: true,
		MaxAge:           300,
	}))
	r.Use(middleware.SecurityHeaders)
	r.Use(middleware.RateLimit(counter, middleware.Policy{
		Window:  cfg.RateLimitWindow,
		Max:     cfg.RateLimitMax,
		Message: "Too many requests from this IP, please try again later",
	}, "general"))

	routes.Setup(r, routes.Deps{
		Config:      cfg,
		Store:       dataStore,
		Tokens:      tokens,
		Counter:     counter,
		Revocations: revocations,
		Cache:       cache,
		Hub:         services.NewHub(),
		Insights:    services.NewStoreInsights(dataStore),
		Cloudinary:  cloudinaryService,
	})

	log.Println("📋 Registered routes:")
	log.Println("  GET   /health")
	log.Println("  POST  /api/auth/register")
	log.Println("  POST  /api/auth/login")
	log.Println("  GET   /api/auth/me")
	log.Println("  POST  /api/auth/logout")
	log.Println("  GET   /api/experiences")
	log.Println("  GET   /api/experiences/{id}")
	log.Println("  GET   /api/bookings")
	log.Println("  POST  /api/bookings")
	log.Println("  PATCH /api/bookings/{id}/status")
	log.Println("  GET   /api/users/profile")
	log.Println("  PUT   /api/users/profile")
	log.Println("  GET   /api/providers")
	log.Println("  POST  /api/providers/register")
	log.Println("  GET   /api/providers/dashboard")
	log.Println("  GET   /api/providers/analytics")
	log.Println("  GET   /api/providers/payments")
	log.Println("  GET   /api/messages/{conversationID}")
	log.Println("  POST  /api/messages/{conversationID}")
	log.Println("  POST  /api/upload")
	log.Println("  GET   /ws/messages")

	log.Printf("🚀 ETCP backend running on :%s", cfg.Port)
	if err := http.ListenAndServe(":"+cfg.Port, r); err != nil {
		log.Fatal("Failed to start server: ", err)
	}
}
