package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"

	"github.com/harentsoaR/rental-store-api/internal/config"
	"github.com/harentsoaR/rental-store-api/internal/database"
	"github.com/harentsoaR/rental-store-api/internal/handlers"
	"github.com/harentsoaR/rental-store-api/internal/logging"
	"github.com/harentsoaR/rental-store-api/internal/repository"
	"github.com/harentsoaR/rental-store-api/internal/router"
	"github.com/harentsoaR/rental-store-api/internal/utils"
)

const shutdownTimeout = 10 * time.Second

func main() {
	cfg, err := config.Load()
	if err != nil {
		logging.Setup(logging.New(os.Stderr, false))
		log.Fatal().Err(err).Msg("invalid configuration")
	}

	logger := logging.New(os.Stdout, cfg.IsProduction())
	logging.Setup(logger)

	if !cfg.EnvFileLoaded && !cfg.IsProduction() {
		logger.Info().Msg("No .env file found, relying on environment variables.")
	}
	logger.Info().
		Str("env", cfg.Env).
		Str("port", cfg.Port).
		Str("database", cfg.MongoDatabase).
		Dur("jwt_expire", cfg.JWTExpire).
		Strs("cors_origins", cfg.CORSOrigins).
		Msg("configuration loaded")

	// --- Database Connection ---
	ctx := context.Background()
	client, err := database.Connect(ctx, cfg.MongoURI, cfg.MongoConnectTimeout)
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to connect to MongoDB")
	}
	db := client.Database(cfg.MongoDatabase)
	logger.Info().Msg("connected to MongoDB")

	if err := database.EnsureIndexes(ctx, db); err != nil {
		logger.Fatal().Err(err).Msg("failed to create indexes")
	}

	// --- Handlers ---
	tokens := utils.NewTokenService(cfg.JWTSecret, cfg.JWTExpire)
	h := handlers.NewHandler(
		repository.NewMongoUserRepository(db),
		repository.NewMongoListingRepository(db),
		tokens,
		cfg.BcryptCost,
	)

	// --- Gin Router ---
	if cfg.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}
	r := router.New(h, tokens, router.Options{
		Logger:       logger,
		CORSOrigins:  cfg.CORSOrigins,
		ExposeErrors: cfg.IsDevelopment(),
	})

	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		logger.Info().Str("addr", srv.Addr).Msg("starting server")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatal().Err(err).Msg("server failed")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	logger.Info().Msg("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error().Err(err).Msg("server shutdown")
	}
	if err := client.Disconnect(shutdownCtx); err != nil {
		logger.Error().Err(err).Msg("mongo disconnect")
	}
}
