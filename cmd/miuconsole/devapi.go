package main

import (
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/cobra"
	"github.com/terraincognita07/miuconsole/internal/config"
	"github.com/terraincognita07/miuconsole/internal/db"
	"github.com/terraincognita07/miuconsole/internal/devapi"
	"github.com/terraincognita07/miuconsole/internal/logging"
	"github.com/terraincognita07/miuconsole/internal/security"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

const (
	insecureSecretPlaceholder = "change_me_in_production"
	minSecretKeyLength        = 32
	secretKeyAlphabet         = "ABCDEFGHIJKLMNOPQRSTUVWXYZabcdefghijklmnopqrstuvwxyz0123456789"
)

func newDevAPICommand(options *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "devapi",
		Short: "Run a local stand-in for the upstream API backed by SQLite",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, logger, err := options.load()
			if err != nil {
				return err
			}
			defer func() { _ = logger.Sync() }()

			secretKey, generated, err := resolveSecretKey(cfg.DevAPI.SecretKey)
			if err != nil {
				return err
			}
			if generated {
				logger.Warn("devapi secret_key not set, using a random key; sessions end on restart")
			}

			database, err := db.OpenSQLiteWithLogger(cfg.DevAPI.DBPath, logging.StdLogger(logger.Named("gorm"), zapcore.WarnLevel))
			if err != nil {
				return fmt.Errorf("database init failed: %w", err)
			}
			if sqlDB, err := database.DB(); err == nil {
				defer sqlDB.Close()
			}

			server, err := devapi.New(devapi.Options{
				Repositories: db.NewRepositories(database),
				SecretKey:    secretKey,
				CookieSecure: cfg.Console.CookieSecure,
				Location:     cfg.Location(),
				Logger:       logger.Named("devapi"),
			})
			if err != nil {
				return err
			}
			if err := seedAdmin(server, cfg.DevAPI, logger); err != nil {
				return err
			}

			logger.Info("devapi listening", zap.String("addr", cfg.DevAPI.Listen), zap.String("db", cfg.DevAPI.DBPath))
			return listenUntilSignal(cmd.Context(), server.App(), cfg.DevAPI.Listen, logger)
		},
	}
}

// resolveSecretKey rejects short keys. An empty or placeholder key is
// replaced with a random one and reported as generated.
func resolveSecretKey(raw string) (string, bool, error) {
	secret := strings.TrimSpace(raw)
	if secret == "" || secret == insecureSecretPlaceholder {
		generated, err := security.RandomString(minSecretKeyLength*2, secretKeyAlphabet)
		if err != nil {
			return "", false, fmt.Errorf("generate secret key: %w", err)
		}
		return generated, true, nil
	}
	if len(secret) < minSecretKeyLength {
		return "", false, fmt.Errorf("devapi secret_key must be at least %d characters", minSecretKeyLength)
	}
	return secret, false, nil
}

func seedAdmin(server *devapi.Server, cfg config.DevAPIConfig, logger *zap.Logger) error {
	email := strings.TrimSpace(cfg.SeedAdminEmail)
	if email == "" {
		return nil
	}
	if cfg.SeedAdminPassword == "" {
		return errors.New("devapi seed_admin_password is required with seed_admin_email")
	}
	created, err := server.Admins().EnsureSeedAdmin(email, cfg.SeedAdminPassword)
	if err != nil {
		return fmt.Errorf("seed admin: %w", err)
	}
	if created {
		logger.Info("seed admin created", zap.String("email", email))
	}
	return nil
}
