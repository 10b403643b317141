package main

import (
	"context"
	"database/sql"
	"flag"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	_ "github.com/lib/pq"

	httpapi "rentonomic-backend/internal/api/http"
	"rentonomic-backend/internal/config"
	"rentonomic-backend/internal/logger"
	"rentonomic-backend/internal/payment"
	"rentonomic-backend/internal/repository/postgres"
	"rentonomic-backend/internal/security"
	"rentonomic-backend/internal/service"
)

func main() {
	// Parse command-line flags
	configPath := flag.String("config", "config/config.dev.yaml", "Path to configuration file")
	flag.Parse()

	// Load configuration
	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	// Initialize logger
	logger.Initialize(cfg.Log.Level, cfg.Log.Format)
	logger.Info("Starting Rentonomic Backend...", "log_level", cfg.Log.Level, "log_format", cfg.Log.Format)
	logger.Info("Server configuration", "address", cfg.GetServerAddress())
	logger.Info("Database configuration", "host", cfg.Database.Host, "port", cfg.Database.Port, "database", cfg.Database.Database, "user", cfg.Database.User)

	// Initialize Database
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

	// Initialize Security
	tokenManager := security.NewTokenManager(cfg.JWT.Secret)

	// Initialize Payment Processor Client
	processor := payment.NewStripeClient(
		cfg.Stripe.SecretKey,
		cfg.Stripe.WebhookSecret,
		time.Duration(cfg.Stripe.TimeoutSeconds)*time.Second,
	)

	// Initialize Services
	emailSvc := service.NewEmailService(cfg.Email.APIKey, cfg.Email.From)
	accountSvc := service.NewAccountService(store, processor, cfg.Stripe.FrontendBase)
	listingSvc := service.NewListingService(store)
	rentalSvc := service.NewRentalService(store, accountSvc, emailSvc, cfg.Stripe.PlatformFeeBps)
	checkoutSvc := service.NewCheckoutService(store, processor, accountSvc, cfg.Stripe.PlatformFeeBps, cfg.Stripe.Currency, cfg.Stripe.FrontendBase)
	webhookSvc := service.NewWebhookService(store, processor, emailSvc)
	messageSvc := service.NewMessageService(store)
	adminSvc := service.NewAdminService(store, emailSvc)

	// Initialize HTTP router
	router := httpapi.NewRouter(httpapi.Services{
		Listings: listingSvc,
		Rentals:  rentalSvc,
		Checkout: checkoutSvc,
		Accounts: accountSvc,
		Webhooks: webhookSvc,
		Messages: messageSvc,
		Admin:    adminSvc,
	}, tokenManager)

	server := &http.Server{
		Addr:         cfg.GetServerAddress(),
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		logger.Info("HTTP server listening", "address", cfg.GetServerAddress())
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Error("HTTP server failed", "error", err)
			log.Fatalf("HTTP server failed: %v", err)
		}
	}()

	// Wait for shutdown signal
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	sig := <-sigCh
	logger.Info("Shutting down...", "signal", sig.String())

	ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	if err := server.Shutdown(ctx); err != nil {
		logger.Error("Graceful shutdown failed", "error", err)
	}
	logger.Info("Server stopped")
}
