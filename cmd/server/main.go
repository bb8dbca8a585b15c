package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/orgtrack/orgtrack/pkg/apiserver"
	"github.com/orgtrack/orgtrack/pkg/auth"
	"github.com/orgtrack/orgtrack/pkg/config"
	"github.com/orgtrack/orgtrack/pkg/model"
	"github.com/orgtrack/orgtrack/pkg/store/postgres"
	redisclient "github.com/orgtrack/orgtrack/pkg/store/redis"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic(err)
	}

	logger := newLogger(&cfg.Logging)
	defer logger.Sync()

	db, err := postgres.NewStore(&cfg.Database)
	if err != nil {
		logger.Fatal("Failed to connect to database", zap.Error(err))
	}
	defer db.Close()

	if err := db.AutoMigrate(); err != nil {
		logger.Fatal("Failed to migrate database", zap.Error(err))
	}

	var redis *redisclient.Client
	if cfg.Redis.Enabled {
		redis, err = redisclient.NewClient(&cfg.Redis)
		if err != nil {
			logger.Fatal("Failed to connect to Redis", zap.Error(err))
		}
		defer redis.Close()
	}

	if err := bootstrapAdmin(db, &cfg.Auth, logger); err != nil {
		logger.Fatal("Failed to bootstrap admin user", zap.Error(err))
	}

	server := apiserver.NewServer(db, redis, cfg, logger)

	httpServer := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.Server.HTTPPort),
		Handler:      server.Router(),
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.ReadTimeout * 2,
	}

	go func() {
		logger.Info("Starting API server", zap.Int("port", cfg.Server.HTTPPort))
		if err := httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatal("Server error", zap.Error(err))
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := httpServer.Shutdown(ctx); err != nil {
		logger.Error("Server forced to shutdown", zap.Error(err))
	}
}

func newLogger(cfg *config.LoggingConfig) *zap.Logger {
	var zapCfg zap.Config
	if cfg.Format == "console" {
		zapCfg = zap.NewDevelopmentConfig()
	} else {
		zapCfg = zap.NewProductionConfig()
	}
	if level, err := zap.ParseAtomicLevel(cfg.Level); err == nil {
		zapCfg.Level = level
	}
	logger, err := zapCfg.Build()
	if err != nil {
		panic(err)
	}
	return logger
}

// bootstrapAdmin seeds the first staff user when the users table is empty,
// since only staff can create users.
func bootstrapAdmin(db *postgres.Store, cfg *config.AuthConfig, logger *zap.Logger) error {
	ctx := context.Background()
	repo := postgres.NewUserRepository(db.DB())

	total, err := repo.Count(ctx)
	if err != nil {
		return err
	}
	if total > 0 {
		return nil
	}
	if cfg.AdminPassword == "" {
		logger.Warn("users table is empty and no admin_password configured; skipping bootstrap")
		return nil
	}

	hash, err := auth.HashPassword(cfg.AdminPassword)
	if err != nil {
		return err
	}

	admin := &model.User{
		ID:           uuid.New(),
		Username:     cfg.AdminUsername,
		Email:        cfg.AdminEmail,
		PasswordHash: hash,
		IsStaff:      true,
	}

	if err := repo.Create(ctx, admin); err != nil {
		return err
	}

	logger.Info("Bootstrapped initial staff user", zap.String("username", admin.Username))
	return nil
}
