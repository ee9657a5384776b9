package main

import (
	"context"
	"flag"
	"log"
	"time"

	"project-attendance-backend/config"
	"project-attendance-backend/internal/database"
)

func main() {
	year := flag.Int("year", time.Now().Year(), "calendar year to flag weekends for")
	flag.Parse()

	log.Println("Seeding database...")
	cfg, err := config.LoadTool()
	if err != nil {
		log.Fatalf("config: %v", err)
	}

	db, err := config.ConnectDB(cfg.Database)
	if err != nil {
		log.Fatalf("database: %v", err)
	}
	if err := config.Migrate(db); err != nil {
		log.Fatalf("migrate: %v", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
	defer cancel()
	if err := database.SeedAll(ctx, db, *year); err != nil {
		log.Fatalf("seed: %v", err)
	}
	log.Println("Seeding done")
}
