package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"intentguard/internal/backend"
	"intentguard/internal/bus"
	"intentguard/internal/config"
	"intentguard/internal/handlers"
	"intentguard/internal/logger"
	"intentguard/internal/repository"
	"intentguard/internal/repository/db"
	"intentguard/internal/server"
	"intentguard/internal/service"
)

const shutdownTimeout = 10 * time.Second

// @title                       IntentGuard API
// @version                     1.0
// @description                 Railway trackside monitoring: live views, intent analysis, train halt and drone dispatch.
// @BasePath                    /
// @securityDefinitions.apikey  BearerAuth
// @in                          header
// @name                        Authorization
func main() {
	cfg, err := config.Load("configs")
	if err != nil {
		logger.Get(logger.InfoLevel).Fatalw("error reading config", "err", err)
	}
	log := logger.Get(cfg.Log.Level)

	sqlDB, err := db.InitDB(cfg.DB.Path)
	if err != nil {
		log.Fatalw("failed to init sqlite", "path", cfg.DB.Path, "err", err)
	}
	defer func() {
		if cerr := sqlDB.Close(); cerr != nil {
			log.Errorw("failed to close sqlite", "err", cerr)
		}
	}()

	// wire dependencies
	repos := repository.NewRepository(sqlDB)
	client := backend.NewClient(cfg.Backend)

	var publisher service.Publisher
	if cfg.NATS.URL != "" {
		p, err := bus.NewPublisher(cfg.NATS.URL)
		if err != nil {
			log.Fatalw("failed to connect to nats", "url", cfg.NATS.URL, "err", err)
		}
		defer p.Close()
		publisher = p
		log.Infow("notification fan-out enabled", "subject", cfg.NATS.Subject)
	}

	services := service.NewService(cfg, repos, client, publisher, log)
	apiHandler := handlers.NewHandler(services, log)

	// context for background polling
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	if err := services.Monitor.Start(ctx); err != nil {
		log.Fatalw("failed to start views", "err", err)
	}
	log.Infow("views mounted", "backend", client.BaseURL())

	srv := &server.Server{}
	runHTTPServer(srv, cfg.HTTP, apiHandler, log)

	waitForShutdown(cancel, srv, services, log)
}

// runHTTPServer runs the HTTP server in a separate goroutine.
func runHTTPServer(srv *server.Server, cfg config.HTTPConfig, handler *handlers.Handler, log *logger.Logger) {
	go func() {
		if err := srv.Run(cfg, handler.InitRoutes()); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatalw("error starting server", "err", err)
		}
	}()
	log.Infow("http server started", "port", cfg.Port)
}

// waitForShutdown listens for termination signals and performs graceful shutdown.
func waitForShutdown(cancel context.CancelFunc, srv *server.Server, services *service.Service, log *logger.Logger) {
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Infow("shutting down server...")

	// unmount views first so no poll lands after shutdown
	services.Monitor.Stop()
	cancel()

	ctx, shutdownCancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer shutdownCancel()

	if err := srv.Shutdown(ctx); err != nil {
		log.Errorw("server forced to shutdown", "err", err)
	}
}
