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
	"github.com/synaptica-ai/twosides-bridge/pkg/common/config"
	"github.com/synaptica-ai/twosides-bridge/pkg/common/database"
	"github.com/synaptica-ai/twosides-bridge/pkg/common/logger"
	"github.com/synaptica-ai/twosides-bridge/pkg/gateway/middleware"
	"github.com/synaptica-ai/twosides-bridge/pkg/gateway/routes"
)

func main() {
	logger.Init()
	cfg := config.Load()

	ctx, stop := context.WithCancel(context.Background())
	defer stop()

	provider, providerReady, err := bridge.LocalProvider(cfg, cfg.ResponderBackend)
	if err != nil {
		logger.Log.WithError(err).Fatal("Failed to initialize provider")
	}
	defer database.ClosePostgres()

	transport, transportReady, err := bridge.Transport(cfg)
	if err != nil {
		logger.Log.WithError(err).Fatal("Failed to initialize transport")
	}
	defer transport.Close()

	if _, err := bridge.StartResponder(ctx, cfg, transport, provider); err != nil {
		logger.Log.WithError(err).Fatal("Failed to start responder")
	}

	router := mux.NewRouter()
	router.Use(middleware.Recovery)
	routes.RegisterOps(router, map[string]routes.ReadyCheck{
		"provider":  routes.ReadyCheck(providerReady),
		"transport": routes.ReadyCheck(transportReady),
	})

	server := &http.Server{
		Addr:         fmt.Sprintf("%s:%s", cfg.ServerHost, cfg.ServerPort),
		Handler:      router,
		ReadTimeout:  cfg.ReadTimeout,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  120 * time.Second,
	}

	go func() {
		logger.Log.WithFields(map[string]interface{}{
			"port":      cfg.ServerPort,
			"backend":   cfg.ResponderBackend,
			"transport": cfg.Transport,
			"topic":     cfg.RequestTopic,
			"group":     bridge.ResponderGroup(cfg),
		}).Info("Interaction responder started")

		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Log.WithError(err).Fatal("Failed to start server")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Log.Info("Shutting down interaction responder...")
	stop()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Log.WithError(err).Error("Server forced to shutdown")
	}

	logger.Log.Info("Interaction responder stopped")
}
