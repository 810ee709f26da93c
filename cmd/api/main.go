package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"diezagency/internal/config"
	"diezagency/internal/database"
	"diezagency/internal/domain/upload"
	"diezagency/internal/logger"
	"diezagency/internal/pkg/mailer"
	"diezagency/internal/pkg/ratelimit"
	redispkg "diezagency/internal/pkg/redis"
	"diezagency/internal/server"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatal(err)
	}

	zl, err := logger.New(cfg.App.Env)
	if err != nil {
		log.Fatal(err)
	}
	defer func() { _ = zl.Sync() }()

	if cfg.IsProd() {
		gin.SetMode(gin.ReleaseMode)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	db, err := database.Connect(cfg.Database.DSN, zl, cfg.IsProd())
	if err != nil {
		zl.Fatal("database connect", zap.Error(err))
	}
	if err := database.Migrate(db, server.Models()...); err != nil {
		zl.Fatal("database migrate", zap.Error(err))
	}

	storage, err := newStorage(ctx, cfg)
	if err != nil {
		zl.Fatal("storage", zap.Error(err))
	}

	var sender mailer.Sender = mailer.Noop{}
	if cfg.SMTP.Enabled() {
		sender = mailer.NewSMTPSender(cfg.SMTP.Host, cfg.SMTP.Port, cfg.SMTP.User, cfg.SMTP.Password, cfg.SMTP.From)
	} else {
		zl.Warn("SMTP not configured, lead notifications are not mailed")
	}

	var rateStore ratelimit.Store = ratelimit.NewMemoryStore()
	if cfg.Redis.URL != "" {
		client, err := redispkg.Connect(ctx, redispkg.Config{
			URL:            cfg.Redis.URL,
			RetryAttempts:  cfg.Redis.RetryAttempts,
			RetryInterval:  cfg.Redis.RetryInterval,
			ConnectTimeout: cfg.Redis.ConnectTimeout,
		})
		if err != nil {
			zl.Warn("redis unavailable, using in-memory rate limiting", zap.Error(err))
		} else {
			defer func() { _ = client.Close() }()
			rateStore = ratelimit.NewRedisStore(client, "diez:ratelimit:")
		}
	}

	app, err := server.New(cfg, server.Deps{
		DB:        db,
		Storage:   storage,
		Mailer:    sender,
		RateStore: rateStore,
		Log:       zl,
	})
	if err != nil {
		zl.Fatal("build app", zap.Error(err))
	}

	go app.Sessions.Run(ctx, cfg.Funnel.SweepEvery)

	srv := &http.Server{
		Addr:    cfg.App.Addr,
		Handler: app.Engine,
	}
	go func() {
		zl.Info("listening", zap.String("addr", cfg.App.Addr), zap.String("env", cfg.App.Env))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			zl.Error("http server", zap.Error(err))
			stop()
		}
	}()

	<-ctx.Done()
	zl.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.App.ShutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		zl.Error("http shutdown", zap.Error(err))
	}
	app.Close()
}

func newStorage(ctx context.Context, cfg *config.Config) (upload.Storage, error) {
	if cfg.Storage.Driver != config.StorageS3 {
		return upload.NewLocalStorage(cfg.Storage.LocalDir, cfg.Storage.PublicBase), nil
	}
	return upload.NewS3Storage(ctx, upload.S3Config{
		Bucket:         cfg.Storage.S3Bucket,
		Region:         cfg.Storage.S3Region,
		Endpoint:       cfg.Storage.S3Endpoint,
		AccessKeyID:    cfg.Storage.S3AccessKey,
		SecretKey:      cfg.Storage.S3SecretKey,
		ForcePathStyle: cfg.Storage.S3PathStyle,
		PublicBase:     cfg.Storage.S3PublicBase,
	}, nil)
}
