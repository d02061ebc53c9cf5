package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog"

	"github.com/backoffice/admin-gateway/internal/api"
	"github.com/backoffice/admin-gateway/internal/console"
	"github.com/backoffice/admin-gateway/internal/core/service"
	"github.com/backoffice/admin-gateway/internal/infrastructure/config"
	mongodb "github.com/backoffice/admin-gateway/internal/infrastructure/db/mongo"
	redisdb "github.com/backoffice/admin-gateway/internal/infrastructure/db/redis"
	"github.com/backoffice/admin-gateway/internal/infrastructure/upstream"
	"github.com/backoffice/admin-gateway/internal/table"
	"github.com/backoffice/admin-gateway/pkg/logger"
)

const (
	sessionTokenTTL = 12 * time.Hour
	tableTTL        = 30 * time.Minute
	shutdownTimeout = 10 * time.Second
)

func main() {
	// Local development convenience; the file is absent in deployed envs.
	_ = godotenv.Load()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	cfg, err := config.Load(ctx)
	if err != nil {
		fallback := zerolog.New(os.Stderr).With().Timestamp().Logger()
		fallback.Fatal().Err(err).Msg("invalid configuration")
	}

	log := logger.Init(logger.Options{
		Level:  cfg.LogLevel,
		Pretty: cfg.Env == "development",
	})

	db, disconnect, err := mongodb.Connect(ctx, cfg.Mongo.URI, cfg.Mongo.Database)
	if err != nil {
		log.Fatal().Err(err).Msg("mongodb connection failed")
	}
	defer func() {
		if err := disconnect(context.Background()); err != nil {
			log.Error().Err(err).Msg("mongodb disconnect failed")
		}
	}()

	rdb, err := redisdb.Connect(ctx, cfg.Redis.Addr, cfg.Redis.DB)
	if err != nil {
		log.Fatal().Err(err).Msg("redis connection failed")
	}
	defer rdb.Close()

	auditRepo := mongodb.NewAuditRepository(db)
	if err := auditRepo.EnsureIndexes(ctx); err != nil {
		log.Fatal().Err(err).Msg("audit index creation failed")
	}

	client := upstream.NewClient(log)
	identity := upstream.NewIdentityClient(cfg.IdentityBaseURL, log)
	prefs := redisdb.NewPreferenceStore(rdb)

	sessions := service.NewSessionService(identity, cfg.SessionSecret, sessionTokenTTL, log)
	audit := service.NewAuditService(auditRepo, log)

	usersEndpoint := cfg.UserBaseURL + "/api/v1/users"
	catalogEndpoint := cfg.CatalogBaseURL + "/api/v1/catalog"

	factory := console.NewFactory(ctx, client, prefs, usersEndpoint, catalogEndpoint, log)
	registry := table.NewRegistry(tableTTL, log)
	go registry.Start(ctx)

	router := api.NewRouter(api.Deps{
		Sessions:        sessions,
		Audit:           audit,
		Registry:        registry,
		Factory:         factory,
		Upstream:        client,
		UsersEndpoint:   usersEndpoint,
		CatalogEndpoint: catalogEndpoint,
		LoginURL:        cfg.LoginURL,
		Mongo:           db,
		Redis:           rdb,
		Log:             log,
	})

	go func() {
		log.Info().Str("port", cfg.Port).Str("env", cfg.Env).Msg("admin gateway listening")
		if err := router.Start(":" + cfg.Port); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Error().Err(err).Msg("server stopped")
			stop()
		}
	}()

	<-ctx.Done()
	log.Info().Msg("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := router.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("graceful shutdown failed")
		os.Exit(1)
	}
}
