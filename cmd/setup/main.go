// Command setup seeds the first admin account and the default site settings.
//
// Credentials come from SETUP_ADMIN_EMAIL and SETUP_ADMIN_PASSWORD.
// With -reset-password the password of the existing account is replaced instead.
package main

import (
	"context"
	"flag"
	"log"
	"time"

	"github.com/dtroode/furniture-server/internal/config"
	"github.com/dtroode/furniture-server/internal/logger"
	"github.com/dtroode/furniture-server/internal/password"
	"github.com/dtroode/furniture-server/internal/repository"
	"github.com/dtroode/furniture-server/internal/service"
	"github.com/dtroode/furniture-server/internal/token"
)

func main() {
	resetPassword := flag.Bool("reset-password", false, "replace the password of the existing admin account")
	flag.Parse()

	ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
	defer cancel()

	cfg, err := config.NewConfig()
	if err != nil {
		log.Fatalf("failed to parse config: %v", err)
	}
	logger, err := logger.New(cfg.LogLevel, cfg.Environment)
	if err != nil {
		log.Fatalf("failed to initialize logger: %v", err)
	}
	defer func() { _ = logger.Sync() }()

	if cfg.Setup.AdminEmail == "" || cfg.Setup.AdminPassword == "" {
		logger.Fatal("SETUP_ADMIN_EMAIL and SETUP_ADMIN_PASSWORD must be set")
	}

	db, err := repository.Open(ctx, cfg.Database, cfg.Mongo)
	if err != nil {
		logger.Fatal("failed to initialize storage", "driver", cfg.Database.Driver, "error", err)
	}
	defer db.Close()

	authService := service.NewAuth(
		db.Admins,
		token.NewJWT(cfg.JWT.Secret, cfg.JWT.TTL),
		password.NewBcrypt(cfg.Auth.BcryptCost),
		nil,
		logger,
		false,
	)

	if *resetPassword {
		if err := authService.ResetPassword(ctx, cfg.Setup.AdminEmail, cfg.Setup.AdminPassword); err != nil {
			logger.Fatal("failed to reset admin password", "email", cfg.Setup.AdminEmail, "error", err)
		}
		logger.Info("admin password reset", "email", cfg.Setup.AdminEmail)
		return
	}

	created, err := authService.Bootstrap(ctx, cfg.Setup.AdminEmail, cfg.Setup.AdminPassword)
	if err != nil {
		logger.Fatal("failed to create admin account", "email", cfg.Setup.AdminEmail, "error", err)
	}
	if created {
		logger.Info("admin account created", "email", cfg.Setup.AdminEmail)
	} else {
		logger.Info("admin account already exists", "email", cfg.Setup.AdminEmail)
	}

	// Reading settings creates the defaults; no images are touched, so no object storage is needed.
	settingsService := service.NewSettings(db.Settings, nil, service.NewJanitor(nil, logger, nil), nil, logger)
	if _, err := settingsService.Get(ctx); err != nil {
		logger.Fatal("failed to initialize site settings", "error", err)
	}
	logger.Info("site settings ready")
}
