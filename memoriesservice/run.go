// Package memoriesservice wires configuration, storage, provider clients and
// the HTTP surface into a runnable service.
package memoriesservice

import (
	"context"
	"net"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/gorilla/mux"
	"github.com/rs/zerolog"

	"github.com/mailmemories/mail-memories/internal/api"
	"github.com/mailmemories/mail-memories/internal/api/recovery"
	"github.com/mailmemories/mail-memories/internal/config"
	"github.com/mailmemories/mail-memories/internal/factory"
	"github.com/mailmemories/mail-memories/internal/gmail"
	"github.com/mailmemories/mail-memories/internal/googleoauth"
	"github.com/mailmemories/mail-memories/internal/health"
	"github.com/mailmemories/mail-memories/internal/logger"
	"github.com/mailmemories/mail-memories/internal/services"
	"github.com/mailmemories/mail-memories/internal/store"
)

// Run starts the memories service HTTP server and blocks until shutdown or
// error.
func Run(buildTargetOverride string) error {
	log := logger.New("memories-service")

	cfg, err := config.New()
	if err != nil {
		log.Error().Err(err).Msg("Failed to load configuration")
		return err
	}
	if buildTargetOverride != "" {
		cfg.BuildTarget = buildTargetOverride
		cfg.DBDriver = "auto"
		if err := cfg.ResolveDefaults(); err != nil {
			log.Error().Err(err).Msg("Invalid build-target override")
			return err
		}
	}

	log.Info().
		Str("build_target", cfg.BuildTarget).
		Str("db_driver", cfg.DBDriver).
		Int("http_port", cfg.HTTPPort).
		Bool("oauth_client_configured", cfg.GoogleClientID != "" && cfg.GoogleClientSecret != "").
		Msg("Memories service starting")

	// Cancellable root context bound to SIGINT/SIGTERM
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	st, err := factory.NewStore(ctx, cfg, log)
	if err != nil {
		log.Error().Stack().Err(err).Msg("Credential store unavailable")
		return err
	}

	router := buildRouter(st, cfg, log, startHealthCheckers(ctx, cfg, log, st))

	server := &http.Server{
		Addr:              cfg.GetHTTPAddr(),
		Handler:           router,
		ReadTimeout:       15 * time.Second,
		ReadHeaderTimeout: 10 * time.Second,
		WriteTimeout:      15 * time.Second,
		IdleTimeout:       60 * time.Second,
		BaseContext:       func(net.Listener) context.Context { return ctx },
	}

	errCh := make(chan error, 1)
	go func() {
		log.Info().Int("port", cfg.HTTPPort).Msg("HTTP server starting")
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			errCh <- err
		}
	}()

	select {
	case <-ctx.Done():
		log.Info().Msg("Shutting down server")
		ctxShutdown, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := server.Shutdown(ctxShutdown); err != nil {
			log.Error().Stack().Err(err).Msg("Server forced to shutdown")
			return err
		}
		log.Info().Msg("Server exited")
		return nil
	case err := <-errCh:
		log.Error().Stack().Err(err).Msg("HTTP server failed")
		return err
	}
}

// buildRouter wires HTTP routes to handlers.
func buildRouter(st store.Store, cfg *config.Config, log zerolog.Logger, isHealthy func() bool) *mux.Router {
	root := mux.NewRouter()
	root.Use(recovery.New(log))

	providerTimeout := time.Duration(cfg.ProviderTimeoutSeconds) * time.Second
	gmailClient := gmail.NewRestClient(cfg.GmailBaseURL, providerTimeout)
	oauthClient := googleoauth.NewClient(cfg.GoogleTokenURL, cfg.GoogleClientID, cfg.GoogleClientSecret, providerTimeout)

	tokenSvc := services.NewTokenService(st, oauthClient, log)
	memorySvc := services.NewMemoryService(st, gmailClient, tokenSvc, log)

	memories := api.NewMemoriesHandler(memorySvc)
	root.HandleFunc("/api/users/{userId}/memories/today", memories.GetToday).Methods("GET")

	healthHandler := api.NewHealthHandler(isHealthy)
	root.HandleFunc("/api/health", healthHandler.CheckHealth).Methods("GET")

	return root
}

// startHealthCheckers starts the store checker plus the service-level
// aggregator and returns the aggregate health function.
func startHealthCheckers(ctx context.Context, cfg *config.Config, log zerolog.Logger, st store.Store) func() bool {
	probeTimeout := time.Duration(cfg.HealthProbeTimeoutSeconds) * time.Second
	interval := time.Duration(cfg.HealthIntervalSeconds) * time.Second

	storeChecker := store.NewStoreHealthChecker(st, log, probeTimeout)
	go storeChecker.Start(ctx, interval)

	svcHealth := health.NewServiceHealthChecker(log, storeChecker)
	go svcHealth.Start(ctx, interval)
	return svcHealth.IsHealthy
}
