package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/astrasoul/records-api/internal/config"
	"github.com/astrasoul/records-api/internal/gateway"
	authHandler "github.com/astrasoul/records-api/internal/handler/auth"
	consultationHandler "github.com/astrasoul/records-api/internal/handler/consultation"
	recordsHandler "github.com/astrasoul/records-api/internal/handler/records"
	"github.com/astrasoul/records-api/internal/middleware"
	"github.com/astrasoul/records-api/internal/router"
	authService "github.com/astrasoul/records-api/internal/service/auth"
	consultationService "github.com/astrasoul/records-api/internal/service/consultation"
	recordsService "github.com/astrasoul/records-api/internal/service/records"
	"github.com/astrasoul/records-api/pkg/logger"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatal().Err(err).Msg("failed to load configuration")
	}

	appLog := logger.New(&logger.Config{
		Level:  cfg.Logging.Level,
		Pretty: cfg.Logging.Pretty,
	})

	// Order backend client and services
	orderClient := gateway.NewClient(cfg.Backend)
	recordsSvc := recordsService.NewService(orderClient, cfg.Backend, cfg.Records, appLog)
	authSvc := authService.NewService(cfg.Auth)
	consultationSvc := consultationService.NewService(cfg.Consultation, appLog, nil)

	// Handlers
	authH := authHandler.NewHandler(authSvc)
	recordsH := recordsHandler.NewHandler(recordsSvc, cfg.Backend)
	consultationH := consultationHandler.NewHandler(consultationSvc)

	authMiddleware := middleware.NewAuthMiddleware(authSvc)

	r := router.NewRouter(authMiddleware, authH, recordsH, consultationH, cfg.RateLimit)
	r.Setup()

	srv := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.Server.Port),
		Handler:      r.Engine(),
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
	}

	go func() {
		appLog.WithFields(map[string]interface{}{"port": cfg.Server.Port}).Info("starting server")
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal().Err(err).Msg("server failed")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	appLog.Info("shutting down server")
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		log.Fatal().Err(err).Msg("forced shutdown")
	}
	appLog.Info("server stopped")
}
