package main

import (
	"context"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/minio/minio-go/v7"
	"go.uber.org/zap"

	"github.com/inshare/goshare/internal/config"
	"github.com/inshare/goshare/internal/logger"
	"github.com/inshare/goshare/internal/metrics"
	"github.com/inshare/goshare/internal/notify"
	"github.com/inshare/goshare/internal/server"
	"github.com/inshare/goshare/internal/share"
	"github.com/inshare/goshare/internal/storage"
)

func main() {
	_ = godotenv.Load()

	logg, err := logger.Init()
	if err != nil {
		panic("init logger: " + err.Error())
	}
	defer logg.Sync()

	cfg, err := config.Load()
	if err != nil {
		logg.Fatal("load config", zap.Error(err))
	}

	metrics.InitMetrics()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	dbPool, err := storage.NewPostgresPool(ctx, cfg.Postgres)
	if err != nil {
		logg.Fatal("connect postgres", zap.Error(err))
	}
	defer dbPool.Close()

	if err := storage.Migrate(cfg.Postgres); err != nil {
		logg.Fatal("apply migrations", zap.Error(err))
	}

	repo := share.NewRepository(dbPool)

	var minioClient *minio.Client
	var shareService *share.Service
	switch cfg.Share.Backend {
	case config.BackendMinIO:
		minioClient, err = storage.NewMinIOClient(cfg.MinIO)
		if err != nil {
			logg.Fatal("connect minio", zap.Error(err))
		}
		if err := storage.EnsureBucket(ctx, minioClient, cfg.MinIO); err != nil {
			logg.Fatal("ensure bucket", zap.Error(err))
		}
		store := share.NewMinIOBlobStore(minioClient, cfg.MinIO.Bucket, cfg.MinIO.PublicRead, cfg.Share.LinkTTL)
		shareService = share.NewService(repo, store, cfg.Share.SpoolDir, cfg.Share.MaxUploadSize, logg)
	case config.BackendLocal:
		store, err := share.NewLocalBlobStore(cfg.Share.UploadsDir)
		if err != nil {
			logg.Fatal("init local storage", zap.Error(err))
		}
		shareService = share.NewService(repo, store, cfg.Share.SpoolDir, cfg.Share.MaxUploadSize, logg)
	}

	mailer := notify.NewSMTPMailer(cfg.SMTP)
	notifyService := notify.NewService(repo, mailer, cfg.Share.BaseURL, cfg.Share.LinkTTL, logg)

	router := server.NewRouter(server.Dependencies{
		Config:        cfg,
		DB:            dbPool,
		ObjectStore:   minioClient,
		ShareService:  shareService,
		NotifyService: notifyService,
	})

	httpServer := &http.Server{
		Addr:         cfg.Server.Address(),
		Handler:      router,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  cfg.Server.IdleTimeout,
	}

	go func() {
		logg.Info("GoShare API listening",
			zap.String("address", cfg.Server.Address()),
			zap.String("backend", cfg.Share.Backend),
			zap.String("mode", cfg.Share.Mode),
		)
		if err := httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logg.Fatal("http server", zap.Error(err))
		}
	}()

	<-ctx.Done()
	stop()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	logg.Info("shutting down gracefully")
	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		logg.Error("shutdown error", zap.Error(err))
	}
}
