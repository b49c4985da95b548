package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/ezseobasics/ezseo/internal/api/handlers"
	"github.com/ezseobasics/ezseo/internal/api/router"
	"github.com/ezseobasics/ezseo/internal/config"
	"github.com/ezseobasics/ezseo/internal/handoff"
	"github.com/ezseobasics/ezseo/internal/identity"
	"github.com/ezseobasics/ezseo/internal/payment"
	"github.com/ezseobasics/ezseo/internal/pkg/logger"
	"github.com/ezseobasics/ezseo/internal/pkg/validator"
	"github.com/ezseobasics/ezseo/internal/repository/postgres"
	"github.com/ezseobasics/ezseo/internal/services"
	"github.com/ezseobasics/ezseo/internal/session"
	"github.com/ezseobasics/ezseo/internal/signup"
	"github.com/ezseobasics/ezseo/internal/worker"
)

var version = "dev"

// @title ezseo API
// @version 1.0
// @description Sign-up and payment hand-off backend for the ezseo marketing site.
// @BasePath /api/v1
func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load config: %v\n", err)
		os.Exit(1)
	}

	log := logger.Init(logger.Config{
		Level:  cfg.Logging.Level,
		Format: cfg.Logging.Format,
	})

	log.WithFields(map[string]interface{}{
		"version":     version,
		"environment": cfg.Server.Environment,
	}).Info("Starting ezseo API server")

	db, err := postgres.New(cfg.Database)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	defer db.Close()

	if err := postgres.EnsureSchema(db, cfg.Database.Driver); err != nil {
		log.Fatalf("Failed to apply schema: %v", err)
	}

	var directory identity.Directory
	if cfg.Identity.BaseURL != "" {
		directory = identity.NewHTTPDirectory(cfg.Identity)
		log.With("base_url", cfg.Identity.BaseURL).Info("Using hosted identity directory")
	} else {
		directory = identity.NewMemoryDirectory()
		log.Warn("IDENTITY_BASE_URL not set, using in-memory directory")
	}

	secure := cfg.Server.Environment == "production"

	sessions := session.NewManager(secure)
	store := signup.NewStore(cfg.Signup.PendingTTL, secure)
	pay := payment.New(cfg.Payment, cfg.Server.PublicURL, store)

	accounts := services.NewAccountService(directory, log)
	usageRepo := postgres.NewUsageRepository(db, cfg.Database.Driver)
	usageSvc := services.NewUsageService(usageRepo, log)

	orchestrator := handoff.New(store, accounts, log)

	janitor := worker.NewJanitor(usageSvc, sessions, log)
	if err := janitor.Start(); err != nil {
		log.Fatalf("Failed to start janitor: %v", err)
	}
	defer janitor.Stop()

	v := validator.New()

	handler := router.New(cfg, log, router.Handlers{
		Auth:     handlers.NewAuthHandler(accounts, sessions, cfg.Auth, secure, v, log),
		Signup:   handlers.NewSignupHandler(store, pay, orchestrator, sessions, v, log),
		Plans:    handlers.NewPlanHandler(),
		Usage:    handlers.NewUsageHandler(accounts, usageSvc, sessions, v, log),
		Health:   handlers.NewHealthHandler(db, version),
		Sessions: sessions,
		Accounts: accounts,
	})

	addr := fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port)
	srv := &http.Server{
		Addr:         addr,
		Handler:      handler,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
	}

	go func() {
		log.With("addr", addr).Info("HTTP server listening")
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("HTTP server failed: %v", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info("Shutting down")

	ctx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		log.ErrorWithErr(err, "Forced shutdown")
	}

	log.Info("Server stopped")
}
