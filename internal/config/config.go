package config

import (
	"errors"
	"os"
	"strconv"
	"strings"
	"time"
)

// Storage backends selectable at startup. The choice is injected into the
// handlers at construction time and fixed for the process lifetime.
const (
	StorageMongo  = "mongo"
	StorageMemory = "memory"
)

type Config struct {
	Environment string
	Port        string

	MongoURI string
	RedisURI string
	Storage  string // "mongo" or "memory"

	JWTSecret  string
	TokenTTL   time.Duration
	BcryptCost int

	// Rate limits per route class. Window is shared; ceilings differ.
	RateLimitWindow  time.Duration
	RateLimitMax     int // general traffic
	AuthRateLimitMax int // register/login
	APIRateLimitMax  int // authenticated API traffic

	AllowedOrigins []string

	CloudinaryName      string
	CloudinaryAPIKey    string
	CloudinaryAPISecret string
}

// ErrMissingJWTSecret is returned when JWT_SECRET is absent. A missing secret
// is a hard startup failure, never a silent weak default.
var ErrMissingJWTSecret = errors.New("JWT_SECRET environment variable is required")

func Load() (*Config, error) {
	secret := strings.TrimSpace(os.Getenv("JWT_SECRET"))
	if secret == "" {
		return nil, ErrMissingJWTSecret
	}

	storage := strings.ToLower(getEnv("STORAGE", StorageMongo))
	if getEnv("USE_MOCK_DB", "") == "true" {
		storage = StorageMemory
	}
	if storage != StorageMongo && storage != StorageMemory {
		storage = StorageMongo
	}

	cfg := &Config{
		Environment: strings.ToLower(strings.TrimSpace(getEnv("ENV", "development"))),
		Port:        getEnv("PORT", "5000"),

		MongoURI: getEnv("MONGODB_URI", "mongodb://localhost:27017/etcp"),
		RedisURI: getEnv("REDIS_URI", ""),
		Storage:  storage,

		JWTSecret:  secret,
		TokenTTL:   getDuration("JWT_EXPIRES_IN", 7*24*time.Hour),
		BcryptCost: getInt("BCRYPT_ROUNDS", 12),

		RateLimitWindow:  getDuration("RATE_LIMIT_WINDOW", 15*time.Minute),
		RateLimitMax:     getInt("RATE_LIMIT_MAX_REQUESTS", 100),
		AuthRateLimitMax: getInt("AUTH_RATE_LIMIT_MAX", 5),
		APIRateLimitMax:  getInt("API_RATE_LIMIT_MAX", 200),

		AllowedOrigins: parseOrigins(getEnv("CORS_ORIGIN", "http://localhost:3000")),

		CloudinaryName:      getEnv("CLOUDINARY_CLOUD_NAME", ""),
		CloudinaryAPIKey:    getEnv("CLOUDINARY_API_KEY", ""),
		CloudinaryAPISecret: getEnv("CLOUDINARY_API_SECRET", ""),
	}

	// bcrypt rejects costs outside [4, 31]; keep seeding and registration on
	// the same constant so comparisons behave identically.
	if cfg.BcryptCost < 4 || cfg.BcryptCost > 31 {
		cfg.BcryptCost = 12
	}

	return cfg, nil
}

// IsProduction returns true when ENV is set to "production".
func (c *Config) IsProduction() bool {
	return c.Environment == "production"
}

func parseOrigins(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		part = strings.TrimSpace(part)
		if part != "" {
			out = append(out, part)
		}
	}
	return out
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if n, err := strconv.Atoi(value); err == nil {
			return n
		}
	}
	return defaultValue
}

func getDuration(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if d, err := time.ParseDuration(value); err == nil && d > 0 {
			return d
		}
	}
	return defaultValue
}
