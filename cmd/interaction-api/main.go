package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gorilla/mux"

	"github.com/synaptica-ai/twosides-bridge/pkg/bridge"
	"github.com/synaptica-ai/twosides-bridge/pkg/bus"
	"github.com/synaptica-ai/twosides-bridge/pkg/common/config"
	"github.com/synaptica-ai/twosides-bridge/pkg/common/database"
	"github.com/synaptica-ai/twosides-bridge/pkg/common/logger"
	"github.com/synaptica-ai/twosides-bridge/pkg/conditions"
	"github.com/synaptica-ai/twosides-bridge/pkg/gateway/middleware"
	"github.com/synaptica-ai/twosides-bridge/pkg/gateway/routes"
	"github.com/synaptica-ai/twosides-bridge/pkg/query"
)

func main() {
	logger.Init()
	cfg := config.Load()

	ctx, stop := context.WithCancel(context.Background())
	defer stop()
	defer database.ClosePostgres()

	// The provider is chosen once; handlers never learn which one it is.
	checks := map[string]routes.ReadyCheck{}
	var provider query.Provider
	switch cfg.ProviderMode {
	case bridge.ModeRemote:
		transport, transportReady, err := bridge.Transport(cfg)
		if err != nil {
			logger.Log.WithError(err).Fatal("Failed to initialize transport")
		}
		defer transport.Close()
		checks["transport"] = routes.ReadyCheck(transportReady)

		if cfg.EmbedResponder {
			embedResponder(ctx, cfg, transport, checks)
		}

		requester, err := bridge.StartRequester(ctx, cfg, transport)
		if err != nil {
			logger.Log.WithError(err).Fatal("Failed to start requester")
		}
		provider = requester

	case bridge.ModeDirect, bridge.ModeFixture:
		local, ready, err := bridge.LocalProvider(cfg, cfg.ProviderMode)
		if err != nil {
			logger.Log.WithError(err).Fatal("Failed to initialize provider")
		}
		checks["provider"] = routes.ReadyCheck(ready)
		provider = local

	default:
		logger.Log.WithField("mode", cfg.ProviderMode).Fatal("Unknown provider mode")
	}

	wiki := conditions.NewWikiClient(cfg.WikiBaseURL, cfg.WikiRequestTimeout)
	handler := routes.NewInteractionHandler(provider, routes.Options{
		Describer:         conditions.NewCache(wiki),
		ArticleURL:        wiki.URL,
		ReportConcurrency: cfg.ReportConcurrency,
	})

	router := mux.NewRouter()
	router.Use(middleware.Logging)
	router.Use(middleware.Recovery)
	router.Use(middleware.BodyLimit(1 << 20))
	routes.RegisterOps(router, checks)

	apiRouter := router.PathPrefix("/api/v1").Subrouter()
	handler.Register(apiRouter)

	// Remote lookups may wait up to the RPC timeout, so writes get headroom.
	writeTimeout := cfg.WriteTimeout
	if cfg.ProviderMode == bridge.ModeRemote && writeTimeout <= cfg.RPCTimeout {
		writeTimeout = cfg.RPCTimeout + 30*time.Second
	}
	server := &http.Server{
		Addr:         fmt.Sprintf("%s:%s", cfg.ServerHost, cfg.ServerPort),
		Handler:      router,
		ReadTimeout:  cfg.ReadTimeout,
		WriteTimeout: writeTimeout,
		IdleTimeout:  120 * time.Second,
	}

	go func() {
		logger.Log.WithFields(map[string]interface{}{
			"host":      cfg.ServerHost,
			"port":      cfg.ServerPort,
			"mode":      cfg.ProviderMode,
			"transport": cfg.Transport,
		}).Info("Interaction API started")

		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Log.WithError(err).Fatal("Failed to start server")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Log.Info("Shutting down Interaction API...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Log.WithError(err).Error("Server forced to shutdown")
	}
	stop()

	logger.Log.Info("Interaction API stopped")
}

// embedResponder serves requests in-process, for single-binary deployments.
func embedResponder(ctx context.Context, cfg *config.Config, transport bus.Transport, checks map[string]routes.ReadyCheck) {
	local, ready, err := bridge.LocalProvider(cfg, cfg.ResponderBackend)
	if err != nil {
		logger.Log.WithError(err).Fatal("Failed to initialize embedded responder backend")
	}
	checks["provider"] = routes.ReadyCheck(ready)

	if _, err := bridge.StartResponder(ctx, cfg, transport, local); err != nil {
		logger.Log.WithError(err).Fatal("Failed to start embedded responder")
	}
	logger.Log.WithField("backend", cfg.ResponderBackend).Info("Embedded responder started")
}
