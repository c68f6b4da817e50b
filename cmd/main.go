package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"

	restctx "github.com/dtroode/furniture-server/internal/api/rest/context"
	"github.com/dtroode/furniture-server/internal/api/rest/router"
	"github.com/dtroode/furniture-server/internal/config"
	"github.com/dtroode/furniture-server/internal/logger"
	"github.com/dtroode/furniture-server/internal/metrics"
	"github.com/dtroode/furniture-server/internal/model"
	"github.com/dtroode/furniture-server/internal/password"
	"github.com/dtroode/furniture-server/internal/repository"
	"github.com/dtroode/furniture-server/internal/server"
	"github.com/dtroode/furniture-server/internal/service"
	storage "github.com/dtroode/furniture-server/internal/storage/minio"
	"github.com/dtroode/furniture-server/internal/token"
)

var (
	buildVersion = "N/A" // set by ldflags
	buildDate    = "N/A" // set by ldflags
	buildCommit  = "N/A" // set by ldflags
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM, syscall.SIGQUIT, os.Interrupt)
	defer stop()

	cfg, err := config.NewConfig()
	if err != nil {
		log.Fatalf("failed to parse config: %v", err)
	}
	logger, err := logger.New(cfg.LogLevel, cfg.Environment)
	if err != nil {
		log.Fatalf("failed to initialize logger: %v", err)
	}
	defer func() { _ = logger.Sync() }()

	db, err := repository.Open(ctx, cfg.Database, cfg.Mongo)
	if err != nil {
		logger.Fatal("failed to initialize storage", "driver", cfg.Database.Driver, "error", err)
	}
	defer db.Close()

	minioClient, err := minio.New(cfg.Storage.Endpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(cfg.Storage.AccessKey, cfg.Storage.SecretKey, ""),
		Secure: cfg.Storage.UseSSL,
	})
	if err != nil {
		logger.Fatal("failed to create minio client", "error", err)
	}
	storageClient, err := storage.NewClient(ctx, minioClient, cfg.Storage.Bucket, cfg.Storage.PublicURL)
	if err != nil {
		logger.Fatal("failed to initialize storage client", "error", err)
	}

	m := metrics.New(cfg.Metrics.Namespace)
	janitor := service.NewJanitor(storageClient, logger, m)

	authService := service.NewAuth(
		db.Admins,
		token.NewJWT(cfg.JWT.Secret, cfg.JWT.TTL),
		password.NewBcrypt(cfg.Auth.BcryptCost),
		m,
		logger,
		cfg.Auth.AllowOpenRegistration,
	)
	productService := service.NewProduct(db.Products, storageClient, janitor, m, logger)
	settingsService := service.NewSettings(db.Settings, storageClient, janitor, m, logger)

	r := router.New(authService, productService, settingsService, db, m, restctx.NewManager(), logger, router.Options{
		AllowedOrigins: cfg.HTTP.AllowedOrigins,
		BodyLimit:      cfg.HTTP.BodyLimit,
	})
	httpServer := server.NewHTTPServer(r.Register(), fmt.Sprintf(":%s", cfg.HTTP.Port))

	var listener model.Listener
	if cfg.HTTP.EnableHTTPS {
		listener = server.NewTLSListener(cfg.HTTP.CertFileName, cfg.HTTP.PrivateKeyFileName)
	} else {
		listener = server.NewPlainListener()
	}

	var wg sync.WaitGroup
	wg.Add(1)
	go func(s model.Server) {
		defer wg.Done()
		logger.Info("Starting server on", "address", s.Address(), "https", cfg.HTTP.EnableHTTPS)
		if err := s.Start(listener); err != nil {
			logger.Error("failed to start server", "error", err)
			stop()
		}
	}(httpServer)

	logAppVersion()

	<-ctx.Done()
	logger.Info("received interruption signal, shutting down")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()

	if err := httpServer.Stop(shutdownCtx); err != nil {
		logger.Error("error during server shutdown", "error", err, "address", httpServer.Address())
	}
	wg.Wait()

	if err := janitor.Shutdown(shutdownCtx); err != nil {
		logger.Warn("image cleanup did not finish before shutdown", "error", err)
	}

	logger.Info("shutdown complete")
}

func logAppVersion() {
	tmpl := `
Build version: %s
Build date: %s
Build commit: %s
`

	fmt.Printf(tmpl, buildVersion, buildDate, buildCommit)
}
