package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"project-attendance-backend/config"
	"project-attendance-backend/internal/middleware"
	"project-attendance-backend/internal/notify"
	"project-attendance-backend/internal/repository"
	"project-attendance-backend/internal/routes"
	"project-attendance-backend/internal/scheduler"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
)

func main() {
	log.Println("1. Loading configuration...")
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("config: %v", err)
	}

	log.Printf("2. Connecting to %s database...", cfg.Database.Driver)
	db, err := config.ConnectDB(cfg.Database)
	if err != nil {
		log.Fatalf("database: %v", err)
	}
	if err := config.Migrate(db); err != nil {
		log.Fatalf("migrate: %v", err)
	}

	// 3. Submission store and notifier
	var store repository.SubmissionStore
	if cfg.SubmissionStore == "database" {
		store = repository.NewSubmissionRepository(db)
	} else {
		store = repository.NewMemorySubmissionStore()
		log.Println("Warning: submission state is kept in memory and lost on restart")
	}
	mailer := notify.NewMailer(cfg.SMTP)
	if !mailer.Enabled() {
		log.Println("Warning: SMTP_HOST not set, PI notifications are only logged")
	}

	deps := routes.NewDependencies(db, cfg, store, mailer)

	app := fiber.New(fiber.Config{
		AppName:      "project-attendance-backend",
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  60 * time.Second,
	})

	// Global middleware
	app.Use(recover.New())
	app.Use(cors.New())
	app.Use(logger.New())
	app.Use(middleware.RequestContext(cfg.RequestTimeout))

	routes.Setup(app, deps)

	// 4. Scheduled jobs
	var jobs *scheduler.Scheduler
	if cfg.Cron.Enabled {
		jobs, err = scheduler.New(cfg.Cron, deps.Location, deps.FieldTrips, deps.Jobs)
		if err != nil {
			log.Fatalf("scheduler: %v", err)
		}
		jobs.Start()
	}

	go func() {
		log.Printf("5. Server ready on %s", cfg.Addr)
		if err := app.Listen(cfg.Addr); err != nil {
			log.Fatalf("listen: %v", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)
	<-quit
	log.Println("Shutting down...")

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()
	if jobs != nil {
		jobs.Stop(ctx)
	}
	if err := app.ShutdownWithContext(ctx); err != nil {
		log.Printf("shutdown: %v", err)
	}
	if sqlDB, err := db.DB(); err == nil {
		_ = sqlDB.Close()
	}
}
