package main

import (
	"context"
	"log"
	"os"
	"time"

	"wmx/internal/database"
	"wmx/internal/repository"

	"github.com/joho/godotenv"
)

// Deletes expired and used one-time tokens. Run from a scheduler; the same
// job is also reachable over HTTP at /api/v1/cron/token-cleanup.
func main() {
	_ = godotenv.Load()

	dsn := os.Getenv("DATABASE_URL")
	if dsn == "" {
		log.Fatal("DATABASE_URL is empty")
	}

	db, err := database.Connect(dsn)
	if err != nil {
		log.Fatal(err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	tokens := repository.NewTokenRepository(db)
	if err := tokens.DeleteExpired(ctx); err != nil {
		log.Fatal(err)
	}

	log.Println("expired tokens removed")
}
