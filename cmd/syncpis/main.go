package main

import (
	"context"
	"log"
	"time"

	"project-attendance-backend/config"
	"project-attendance-backend/internal/repository"
	"project-attendance-backend/internal/roster"
)

// syncpis mirrors the PI list of the identity service into the local roster.
func main() {
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

	ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
	defer cancel()

	result, err := roster.Sync(ctx, roster.NewClient(cfg.Roster), repository.NewRosterRepository(db))
	if err != nil {
		log.Fatalf("[ROSTER] sync aborted, local data unchanged: %v", err)
	}
	log.Printf("[ROSTER] %d PI(s) in sync, %d stale removed", result.UpsertedPIs, result.DeletedPIs)
}
