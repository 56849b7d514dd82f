package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-playground/validator/v10"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"golang.org/x/sync/errgroup"

	"github.com/hiperzap/waba-platform/internal/platform/config"
	"github.com/hiperzap/waba-platform/internal/platform/database"
	"github.com/hiperzap/waba-platform/internal/platform/logger"
	"github.com/hiperzap/waba-platform/internal/platform/messagebroker"
	"github.com/hiperzap/waba-platform/internal/platform/scheduler"
	"github.com/hiperzap/waba-platform/internal/waba_service/adapters/metagraph"
	"github.com/hiperzap/waba-platform/internal/waba_service/app"
	"github.com/hiperzap/waba-platform/internal/waba_service/repository/postgres"
	transporthttp "github.com/hiperzap/waba-platform/internal/waba_service/transport/http"
)

const (
	serviceName     = "waba-service"
	shutdownTimeout = 10 * time.Second
)

func main() {
	mainCtx, mainCancel := context.WithCancel(context.Background())
	defer mainCancel()

	cfg, err := config.Load(serviceName)
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load configuration: %v\n", err)
		os.Exit(1)
	}

	log := logger.New(serviceName, cfg.LogLevel)
	log.Info("Starting service...")

	dbPool, err := database.NewDBPool(mainCtx, cfg.PostgresDSN)
	if err != nil {
		log.Error("Failed to initialize database connection pool", "error", err)
		os.Exit(1)
	}
	defer dbPool.Close()
	log.Info("Database connection pool initialized")

	// NATS is optional: without a broker the service still syncs, it just
	// stops announcing outcomes.
	var publisher app.EventPublisher
	if cfg.NATSUrl != "" {
		natsClient, err := messagebroker.NewNATSClient(cfg.NATSUrl, log, serviceName)
		if err != nil {
			log.Warn("Failed to connect to NATS, event publishing disabled", "error", err)
		} else {
			defer natsClient.Close()
			publisher = natsClient
			log.Info("NATS connection initialized")
		}
	}

	// Repositories
	businessManagerRepo := postgres.NewPgBusinessManagerRepository(dbPool, log)
	wabaRepo := postgres.NewPgWABARepository(dbPool, log)
	phoneNumberRepo := postgres.NewPgPhoneNumberRepository(dbPool, log)

	// Graph API client factory: one client per access token, sharing a
	// single HTTP transport.
	httpClient := &http.Client{Timeout: 30 * time.Second}
	clientFactory := func(accessToken string) app.DirectoryClient {
		return metagraph.NewClient(cfg.MetaAPIBaseURL, cfg.MetaAPIVersion, accessToken, httpClient, log)
	}

	syncService := app.NewSyncService(businessManagerRepo, wabaRepo, phoneNumberRepo, clientFactory, log)
	syncJob := app.NewSyncAllJob(businessManagerRepo, syncService, publisher, log)

	jobScheduler := scheduler.New(log)
	jobScheduler.Register(syncJob.SchedulerJob(cfg.SyncJobEnabled, cfg.SyncJobInterval))

	// HTTP server
	validate := validator.New()
	handler := transporthttp.NewBusinessManagerHandler(
		businessManagerRepo, wabaRepo, phoneNumberRepo, syncService, log, validate)

	router := chi.NewRouter()
	router.Use(chimiddleware.RequestID)
	router.Use(chimiddleware.RealIP)
	router.Use(chimiddleware.Recoverer)
	router.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("OK"))
	})
	router.Handle("/metrics", promhttp.Handler())
	router.Route("/api/v1", func(r chi.Router) {
		handler.RegisterRoutes(r)
	})

	httpServer := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.HTTPPort),
		Handler:      router,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	g, groupCtx := errgroup.WithContext(mainCtx)

	g.Go(func() error {
		log.Info("Starting job scheduler", "sync_enabled", cfg.SyncJobEnabled, "sync_interval", cfg.SyncJobInterval)
		jobScheduler.Start(groupCtx)
		<-groupCtx.Done()
		jobScheduler.Stop()
		jobScheduler.Wait()
		log.Info("Job scheduler stopped")
		return nil
	})

	g.Go(func() error {
		log.Info("Starting HTTP server", "address", httpServer.Addr)
		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Error("HTTP server failed", "error", err)
			return err
		}
		return nil
	})

	g.Go(func() error {
		<-groupCtx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		log.Info("Shutting down HTTP server...")
		return httpServer.Shutdown(shutdownCtx)
	})

	log.Info("Service components initialized. Service is ready.")

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	select {
	case sig := <-sigCh:
		log.Info("Received termination signal", "signal", sig)
	case <-groupCtx.Done():
		log.Error("A critical component failed, initiating shutdown")
	}

	mainCancel()
	if err := g.Wait(); err != nil && !errors.Is(err, context.Canceled) {
		log.Error("Error during graceful shutdown", "error", err)
	}

	log.Info("Service shutdown complete.")
}
