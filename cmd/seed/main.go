package main

import (
	"context"
	"log"

	"github.com/joho/godotenv"

	"github.com/pasinduisuranga/traveler-app/internal/config"
	"github.com/pasinduisuranga/traveler-app/internal/database"
	"github.com/pasinduisuranga/traveler-app/internal/store"
)

// Seeds the MongoDB deployment with the demo accounts and sample
// experiences. Safe to run repeatedly; existing demo data is left alone.
func main() {
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found")
	}

	cfg, err := config.Load()
	if err != nil {
		log.Fatal("Configuration error: ", err)
	}

	log.Printf("Connecting to MongoDB...")
	client, db, err := database.ConnectMongo(cfg.MongoURI)
	if err != nil {
		log.Fatal("Failed to connect to MongoDB: ", err)
	}
	defer database.DisconnectMongo(client)

	mongoStore := store.NewMongo(db, cfg.BcryptCost)

	if err := mongoStore.EnsureIndexes(context.Background()); err != nil {
		log.Fatal("Failed to ensure indexes: ", err)
	}
	log.Println("✅ Indexes ensured")

	if err := store.SeedDemo(context.Background(), mongoStore); err != nil {
		log.Fatal("Failed to seed demo data: ", err)
	}
	log.Println("✅ Demo data seeded")
	log.Println("   traveler@demo.com / " + store.DemoPassword)
	log.Println("   provider@demo.com / " + store.DemoPassword)
}
