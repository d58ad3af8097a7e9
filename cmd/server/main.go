package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"

	"github.com/Grzafnan/nest-server/internal/config"
	"github.com/Grzafnan/nest-server/internal/es"
	"github.com/Grzafnan/nest-server/internal/handlers"
	"github.com/Grzafnan/nest-server/internal/logging"
	authmw "github.com/Grzafnan/nest-server/internal/middleware/auth"
	loggingmw "github.com/Grzafnan/nest-server/internal/middleware/logging"
	"github.com/Grzafnan/nest-server/internal/mykafka"
	"github.com/Grzafnan/nest-server/internal/repo"
	"github.com/Grzafnan/nest-server/internal/service"
	httpserver "github.com/Grzafnan/nest-server/internal/transport/http"
)

func main() {
	cfg := config.Load()
	logger := logging.New(cfg.LogLevel)

	db, err := config.InitDB(context.Background(), cfg.DatabaseURL)
	if err != nil {
		log.Fatalf("db init error: %v", err)
	}

	var producer *mykafka.Producer
	if cfg.KafkaAddress != "" {
		producer = mykafka.NewProducer([]string{cfg.KafkaAddress})
	}

	users := &repo.UserRepo{DB: db}

	authSvc := &service.AuthService{
		Users:            users,
		JWTSecret:        cfg.JWTSecret,
		JWTRefreshSecret: cfg.JWTRefreshSecret,
		AccessTTL:        cfg.AccessTTL,
		RefreshTTL:       cfg.RefreshTTL,
		Producer:         producer,
	}
	userSvc := &service.UserService{
		Repo:     users,
		Producer: producer,
		ESIndex:  "users",
	}

	deps := &httpserver.Deps{
		Auth:  &handlers.AuthHTTP{Svc: authSvc, SecureCookies: cfg.IsProduction()},
		Users: &handlers.UserHTTP{Svc: userSvc},
		Guard: &authmw.Guard{JWTSecret: cfg.JWTSecret},
	}

	if cfg.ESURL != "" {
		esClient, err := es.NewClient(cfg)
		if err != nil {
			log.Fatalf("elasticsearch init error: %v", err)
		}
		userSvc.ES = esClient
		deps.Search = &handlers.SearchHTTP{ES: esClient, Index: "users"}
	}

	e := echo.New()
	e.HideBanner = true
	e.HTTPErrorHandler = httpserver.ErrorHandler(logger)
	e.Pre(middleware.RemoveTrailingSlash())
	e.Use(middleware.Recover(), middleware.RequestID(), loggingmw.RequestLogger(logger))

	httpserver.Register(e, deps)

	srv := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.Port),
		Handler:      e,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		logger.Info("server starting", "port", cfg.Port, "env", cfg.Env)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("http server error", "error", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("shutting down...")

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		logger.Error("server shutdown error", "error", err)
	}

	if sqlDB, err := db.DB(); err == nil {
		if err := sqlDB.Close(); err != nil {
			logger.Error("db close error", "error", err)
		}
	} else {
		logger.Error("db() error", "error", err)
	}

	if producer != nil {
		if err := producer.Close(); err != nil {
			logger.Error("kafka close error", "error", err)
		}
	}

	logger.Info("shutdown complete")
}
