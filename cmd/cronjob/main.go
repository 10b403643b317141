package main

import (
	"database/sql"
	"flag"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	_ "github.com/lib/pq"

	"rentonomic-backend/internal/config"
	"rentonomic-backend/internal/jobs"
	"rentonomic-backend/internal/logger"
	"rentonomic-backend/internal/payment"
	"rentonomic-backend/internal/repository/postgres"
	"rentonomic-backend/internal/scheduler"
	"rentonomic-backend/internal/service"
)

func main() {
	// Parse command-line flags
	configPath := flag.String("config", "config/config.dev.yaml", "Path to configuration file")
	runOnce := flag.Bool("run-once", false, "Run the reconciliation job once and exit")
	flag.Parse()

	// Load configuration
	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	// Initialize logger
	logger.Initialize(cfg.Log.Level, cfg.Log.Format)
	logger.Info("Starting Rentonomic Cronjob Runner...", "log_level", cfg.Log.Level)

	// Initialize Database
	logger.Info("Connecting to database...", "host", cfg.Database.Host, "port", cfg.Database.Port)
	db, err := sql.Open("postgres", cfg.GetDatabaseConnectionString())
	if err != nil {
		logger.Error("Failed to connect to database", "error", err)
		log.Fatalf("Failed to connect to database: %v", err)
	}
	defer db.Close()

	// Test database connection
	if err := db.Ping(); err != nil {
		logger.Error("Failed to ping database", "error", err)
		log.Fatalf("Failed to ping database: %v", err)
	}
	logger.Info("Database connection established")

	// Initialize Repositories
	store := postgres.NewStore(db)

	// Initialize Payment Processor Client
	processor := payment.NewStripeClient(
		cfg.Stripe.SecretKey,
		cfg.Stripe.WebhookSecret,
		time.Duration(cfg.Stripe.TimeoutSeconds)*time.Second,
	)

	// Initialize Services
	emailSvc := service.NewEmailService(cfg.Email.APIKey, cfg.Email.From)
	webhookSvc := service.NewWebhookService(store, processor, emailSvc)

	jobRunner := jobs.NewJobRunner(store, processor, webhookSvc, cfg)

	if *runOnce {
		jobRunner.ReconcilePayments()
		return
	}

	sched := scheduler.NewScheduler(jobRunner)
	sched.Start()

	// Wait for shutdown signal
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	sig := <-sigCh
	logger.Info("Shutting down...", "signal", sig.String())

	sched.Stop()
}
