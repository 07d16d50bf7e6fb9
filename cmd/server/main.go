package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"authjwt/backend/internal/config"
	domain "authjwt/backend/internal/domain/auth"
	"authjwt/backend/internal/httpserver"
	"authjwt/backend/internal/infrastructure/memory"
	"authjwt/backend/internal/infrastructure/mongodb"
	"authjwt/backend/internal/infrastructure/password"
	"authjwt/backend/internal/infrastructure/postgres"
	"authjwt/backend/internal/infrastructure/sqlite"
	"authjwt/backend/internal/infrastructure/token"
	"authjwt/backend/internal/logging"
	authusecase "authjwt/backend/internal/usecase/auth"
)

const shutdownTimeout = 10 * time.Second

type store struct {
	users  domain.UserRepository
	pinger httpserver.Pinger
	closer io.Closer
}

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "fatal: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	logger := logging.New(os.Stdout, cfg.LogFormat, cfg.LogLevel)

	rootCtx := context.Background()
	st, err := openStore(rootCtx, cfg)
	if err != nil {
		return err
	}
	if st.closer != nil {
		defer st.closer.Close()
	}
	logger.Info(rootCtx, "storage ready", "driver", cfg.StorageDriver)

	hasher, err := password.NewBcryptHasher(cfg.BcryptCost)
	if err != nil {
		return err
	}
	tokenManager := token.NewJWTManager(cfg.JWTSecret)
	authService := authusecase.NewService(st.users, hasher, tokenManager, logger)

	server := httpserver.NewServer(cfg, authService, st.pinger, logger)
	logger.Info(rootCtx, "HTTP server listening", "addr", server.Addr())

	serverErr := make(chan error, 1)
	go func() {
		if err := server.Start(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serverErr <- err
			return
		}
		logger.Info(rootCtx, "HTTP server stopped accepting new connections")
	}()

	shutdownCtx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	select {
	case err := <-serverErr:
		return fmt.Errorf("server error: %w", err)
	case <-shutdownCtx.Done():
	}

	ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := server.Shutdown(ctx); err != nil {
		logger.Error(ctx, "graceful shutdown failed", "error", err)
		return err
	}
	logger.Info(ctx, "graceful shutdown completed")
	return nil
}

func openStore(ctx context.Context, cfg config.Config) (*store, error) {
	switch cfg.StorageDriver {
	case config.DriverPostgres:
		db, err := postgres.New(ctx, cfg.DatabaseURL)
		if err != nil {
			return nil, fmt.Errorf("connect to database: %w", err)
		}
		if err := db.Migrate(ctx); err != nil {
			db.Close()
			return nil, fmt.Errorf("run database migrations: %w", err)
		}
		return &store{users: postgres.NewUserRepository(db.Pool), pinger: db, closer: db}, nil
	case config.DriverSQLite:
		s, err := sqlite.Open(ctx, cfg.SQLitePath)
		if err != nil {
			return nil, fmt.Errorf("open sqlite: %w", err)
		}
		return &store{users: sqlite.NewUserRepository(s), pinger: s, closer: s}, nil
	case config.DriverMongo:
		client, err := mongodb.Connect(ctx, cfg.MongoURI, cfg.MongoDatabase)
		if err != nil {
			return nil, fmt.Errorf("connect to mongo: %w", err)
		}
		users, err := mongodb.NewUserRepository(ctx, client)
		if err != nil {
			client.Close()
			return nil, fmt.Errorf("prepare mongo collection: %w", err)
		}
		return &store{users: users, pinger: client, closer: client}, nil
	case config.DriverMemory:
		return &store{users: memory.NewUserRepository()}, nil
	default:
		return nil, fmt.Errorf("unsupported storage driver %q", cfg.StorageDriver)
	}
}
