package cli

import (
	"context"
	stderrors "errors"
	"fmt"
	"log/slog"

	"taskflow/internal/api"
	"taskflow/internal/auth"
	"taskflow/internal/config"
	"taskflow/internal/repository/sqlite"
	"taskflow/internal/services"
)

// App owns the long-lived resources of a running server
type App struct {
	config      *config.Config
	logger      *slog.Logger
	repo        sqlite.Repository
	revocations auth.RevocationStore
	server      *api.Server
}

// NewApp opens the store and the revocation store and wires the services
// into the HTTP server. Anything opened is closed again on failure.
func NewApp(ctx context.Context, cfg *config.Config, logger *slog.Logger) (*App, error) {
	repo, err := config.CreateRepository(cfg)
	if err != nil {
		return nil, err
	}
	logger.Info("Opened database", slog.String("path", cfg.GetDatabasePath()))

	revocations, err := newRevocationStore(ctx, cfg, logger)
	if err != nil {
		repo.Close()
		return nil, err
	}

	tokens := auth.NewTokenManager(auth.TokenConfig{
		Secret: cfg.Auth.JWTSecret,
		TTL:    cfg.Auth.TokenTTL,
		Issuer: cfg.Auth.Issuer,
	})
	hasher := auth.NewPasswordHasher(cfg.Auth.BcryptCost)

	container := &services.ServiceContainer{
		TaskService:    services.NewTaskService(repo, cfg),
		AuthService:    services.NewAuthService(repo, tokens, hasher, revocations, cfg),
		ProfileService: services.NewProfileService(repo, cfg),
	}

	return &App{
		config:      cfg,
		logger:      logger,
		repo:        repo,
		revocations: revocations,
		server:      api.NewServer(cfg, container, logger),
	}, nil
}

func newRevocationStore(ctx context.Context, cfg *config.Config, logger *slog.Logger) (auth.RevocationStore, error) {
	if cfg.Redis.Addr == "" {
		logger.Debug("Keeping token revocations in memory")
		return auth.NewMemoryRevocationStore(), nil
	}

	store, err := auth.NewRedisRevocationStore(ctx, auth.RedisConfig{
		Addr:      cfg.Redis.Addr,
		Password:  cfg.Redis.Password,
		DB:        cfg.Redis.DB,
		KeyPrefix: cfg.Redis.KeyPrefix,
	})
	if err != nil {
		return nil, err
	}
	logger.Info("Using redis for token revocations", slog.String("addr", cfg.Redis.Addr))
	return store, nil
}

// Server returns the HTTP server
func (a *App) Server() *api.Server {
	return a.server
}

// Serve blocks until the listener fails or Shutdown is called
func (a *App) Serve() error {
	return a.server.Listen()
}

// Shutdown stops the HTTP server, then closes the revocation store and the
// database in that order. All steps run even if an earlier one fails.
func (a *App) Shutdown(ctx context.Context) error {
	var errs []error

	if err := a.server.Shutdown(ctx); err != nil {
		errs = append(errs, fmt.Errorf("stop http server: %w", err))
	}
	if err := a.revocations.Close(); err != nil {
		errs = append(errs, fmt.Errorf("close revocation store: %w", err))
	}
	if err := a.repo.Close(); err != nil {
		errs = append(errs, fmt.Errorf("close database: %w", err))
	}

	return stderrors.Join(errs...)
}
