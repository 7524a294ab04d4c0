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

	"github.com/openshelf/digital-library/internal/api"
	"github.com/openshelf/digital-library/internal/api/metrics"
	apimiddleware "github.com/openshelf/digital-library/internal/api/middleware"
	"github.com/openshelf/digital-library/internal/core/ports"
	"github.com/openshelf/digital-library/internal/core/service"
	"github.com/openshelf/digital-library/internal/infrastructure/config"
	mongodb "github.com/openshelf/digital-library/internal/infrastructure/db/mongo"
	redisdb "github.com/openshelf/digital-library/internal/infrastructure/db/redis"
	"github.com/openshelf/digital-library/internal/infrastructure/mail"
	"github.com/openshelf/digital-library/internal/infrastructure/render"
	"github.com/openshelf/digital-library/internal/infrastructure/storage"
	"github.com/openshelf/digital-library/pkg/logger"
)

func main() {
	_ = godotenv.Load()

	cfg := config.Load()
	log := logger.Init(logger.Options{
		Level:  cfg.LogLevel,
		Pretty: cfg.Env == "development",
	})

	ctx := context.Background()

	// --- MongoDB ---
	client, db, err := mongodb.Connect(ctx, mongodb.Config{
		URI:      cfg.Mongo.URI,
		Database: cfg.Mongo.Database,
	})
	if err != nil {
		log.Fatal().Err(err).Msg("failed to connect to MongoDB")
	}
	defer func() {
		disconnectCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = client.Disconnect(disconnectCtx)
	}()

	bookRepo := mongodb.NewBookRepository(db)
	userRepo := mongodb.NewUserRepository(db)
	membershipRepo := mongodb.NewMembershipRepository(db)
	resetCodeRepo := mongodb.NewResetCodeRepository(db)

	for _, idx := range []interface {
		EnsureIndexes(context.Context) error
	}{bookRepo, userRepo, membershipRepo, resetCodeRepo} {
		if err := idx.EnsureIndexes(ctx); err != nil {
			log.Fatal().Err(err).Msg("failed to ensure indexes")
		}
	}

	// --- Redis (optional: rate limiting and readiness only) ---
	rdb, err := redisdb.Connect(ctx, redisdb.Config{Addr: cfg.Redis.Addr, DB: cfg.Redis.DB})
	if err != nil {
		log.Warn().Err(err).Msg("Redis unavailable, rate limiting disabled")
		rdb = nil
	} else {
		defer rdb.Close()
	}

	var rateCounter apimiddleware.Counter
	if rdb != nil && cfg.RateLimit.Enabled {
		rateCounter = redisdb.NewWindowCounter(rdb)
	}

	// --- Blob store ---
	var blob ports.BlobStore
	switch cfg.Storage.Backend {
	case "minio":
		blob, err = storage.NewMinioStore(ctx, storage.MinioConfig{
			Endpoint:  cfg.Storage.Minio.Endpoint,
			AccessKey: cfg.Storage.Minio.AccessKey,
			SecretKey: cfg.Storage.Minio.SecretKey,
			Bucket:    cfg.Storage.Minio.Bucket,
			UseSSL:    cfg.Storage.Minio.UseSSL,
		})
		if err != nil {
			log.Fatal().Err(err).Msg("failed to connect to MinIO")
		}
	default:
		blob = storage.NewDiskStore(cfg.Storage.Dir)
	}

	// --- Mail (optional: forgot-password refuses service without it) ---
	var mailer ports.Mailer
	mailCfg := mail.Config{
		Host:      cfg.SMTP.Host,
		Port:      cfg.SMTP.Port,
		Username:  cfg.SMTP.User,
		Password:  cfg.SMTP.Pass,
		FromEmail: cfg.SMTP.FromEmail,
		FromName:  cfg.SMTP.FromName,
	}
	if mailCfg.Enabled() {
		mailer, err = mail.NewSMTPMailer(mailCfg)
		if err != nil {
			log.Fatal().Err(err).Msg("failed to configure SMTP mailer")
		}
	} else {
		log.Warn().Msg("SMTP credentials not set, password reset emails disabled")
	}

	renderer := render.NewExecRenderer(log)

	// --- Services ---
	catalog := service.NewCatalogService(bookRepo, blob, log)
	library := service.NewMembershipService(membershipRepo, bookRepo, log)
	admin := service.NewAdminService(bookRepo, membershipRepo, blob, renderer, metrics.CatalogRecorder{}, log)
	identity := service.NewIdentityService(userRepo, resetCodeRepo, blob, mailer, cfg.JWTSecret, 7*24*time.Hour, metrics.IdentityRecorder{}, log)

	e := api.NewRouter(api.Deps{
		Catalog:  catalog,
		Library:  library,
		Admin:    admin,
		Identity: identity,
		Users:    userRepo,
		Blob:     blob,

		DB:    db,
		Redis: rdb,

		JWTSecret:  cfg.JWTSecret,
		CORSOrigin: cfg.CORSOrigin,

		RateCounter:     rateCounter,
		RateLimitMax:    cfg.RateLimit.Requests,
		RateLimitWindow: cfg.RateLimit.Window,

		Logger: log,
	})

	// --- Serve with graceful shutdown ---
	go func() {
		addr := ":" + cfg.Port
		log.Info().Str("addr", addr).Str("env", cfg.Env).Msg("starting server")
		if err := e.Start(addr); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal().Err(err).Msg("server stopped")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)
	<-quit

	log.Info().Msg("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := e.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("graceful shutdown failed")
	}
}
