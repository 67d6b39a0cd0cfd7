package app

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/Mareeswari30/Smart-Banking/config"
	"github.com/Mareeswari30/Smart-Banking/db"
	"github.com/Mareeswari30/Smart-Banking/events"
	"github.com/Mareeswari30/Smart-Banking/handler"
	"github.com/Mareeswari30/Smart-Banking/logger"
	"github.com/Mareeswari30/Smart-Banking/repository"
	"github.com/Mareeswari30/Smart-Banking/router"
	"github.com/Mareeswari30/Smart-Banking/service"
	"github.com/Mareeswari30/Smart-Banking/storage"
	"github.com/redis/go-redis/v9"
)

// Deps are the externally constructed collaborators the HTTP stack is built from.
type Deps struct {
	Repos     repository.Manager
	Redis     *redis.Client
	Store     storage.DocumentStore
	Publisher events.Publisher
}

// Components exposes the wired services next to the router.
type Components struct {
	Router   http.Handler
	Tokens   *service.TokenService
	Users    *service.UserService
	Accounts *service.AccountService
}

// Build wires repositories, services, handlers and routes.
func Build(cfg *config.Config, deps Deps) *Components {
	hasher := service.NewPasswordHasher(cfg.Auth.BcryptCost)
	tokens := service.NewTokenService(cfg.JWT.SecretKey)

	var cache service.ICacheClient
	var limiter handler.RateLimitStore
	if deps.Redis != nil {
		cache = deps.Redis
		limiter = deps.Redis
	}

	userService := service.NewUserService(deps.Repos, hasher, deps.Publisher)
	authService := service.NewAuthService(deps.Repos, hasher, tokens, cfg.JWT.AccessTokenTTL)
	accountService := service.NewAccountService(deps.Repos, cache, cfg.Redis.CacheTTL, deps.Publisher)

	userHandler := handler.NewUserHandler(userService, authService, deps.Store)
	accountHandler := handler.NewAccountHandler(accountService)
	kycHandler := handler.NewKYCHandler(userService)

	if cfg.Admin.APIKey == "" {
		logger.Log.Warn("admin.api_key is not set; POST /verify-kyc is open to any caller")
	}

	r := router.NewRouter(userHandler, accountHandler, kycHandler, router.Middlewares{
		Auth:       handler.AuthMiddleware(tokens),
		Admin:      handler.AdminKeyMiddleware(cfg.Admin.APIKey),
		LoginLimit: handler.LoginRateLimit(limiter, cfg.Auth.LoginRateLimit),
	})

	return &Components{Router: r, Tokens: tokens, Users: userService, Accounts: accountService}
}

// openDeps connects to every configured backend. The returned cleanup closes
// whatever was opened, in reverse order.
func openDeps(ctx context.Context, cfg *config.Config) (Deps, func(), error) {
	var (
		deps    Deps
		closers []func()
	)
	cleanup := func() {
		for i := len(closers) - 1; i >= 0; i-- {
			closers[i]()
		}
	}

	if cfg.Database.InMemory {
		logger.Log.Warn("Using the in-memory store; data is lost on restart")
		deps.Repos = repository.NewMemoryManager()
	} else {
		database, err := db.Connect(ctx, cfg)
		if err != nil {
			return deps, cleanup, err
		}
		closers = append(closers, func() { closeSQL(database) })
		if err := db.Migrate(database); err != nil {
			return deps, cleanup, err
		}
		deps.Repos = repository.NewPostgresManager(database)
	}

	rdb, err := db.ConnectRedis(ctx, cfg)
	if err != nil {
		return deps, cleanup, err
	}
	if rdb != nil {
		closers = append(closers, func() { rdb.Close() })
		deps.Redis = rdb
	}

	switch cfg.Storage.Backend {
	case "s3":
		store, err := storage.NewS3Store(ctx, storage.S3Config{
			Bucket:    cfg.Storage.S3.Bucket,
			Region:    cfg.Storage.S3.Region,
			Endpoint:  cfg.Storage.S3.Endpoint,
			AccessKey: cfg.Storage.S3.AccessKey,
			SecretKey: cfg.Storage.S3.SecretKey,
		})
		if err != nil {
			return deps, cleanup, err
		}
		deps.Store = store
	default:
		store, err := storage.NewLocalStore(cfg.Storage.UploadDir)
		if err != nil {
			return deps, cleanup, err
		}
		deps.Store = store
	}

	deps.Publisher = events.Connect(cfg.RabbitMQ.URL, cfg.RabbitMQ.Exchange)
	closers = append(closers, func() { deps.Publisher.Close() })

	return deps, cleanup, nil
}

func closeSQL(database *sql.DB) {
	if err := database.Close(); err != nil {
		logger.Log.WithError(err).Warn("Error closing database")
	}
}

// Run serves until SIGINT or SIGTERM. It returns an error when the server
// cannot start or stop cleanly; dependencies are closed before it returns.
func Run() error {
	cfg, err := config.LoadConfig(".")
	if err != nil {
		return fmt.Errorf("error loading configuration: %w", err)
	}
	logger.Init(cfg.Log.Level, cfg.Log.Format)
	logger.Log.Info("Configuration loaded successfully")

	ctx := context.Background()
	deps, cleanup, err := openDeps(ctx, cfg)
	defer cleanup()
	if err != nil {
		return fmt.Errorf("error initialising dependencies: %w", err)
	}

	components := Build(cfg, deps)

	srv := &http.Server{
		Addr:              ":" + cfg.Server.Port,
		Handler:           components.Router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	serverErr := make(chan error, 1)
	go func() {
		logger.Log.Infof("Server starting on port :%s", cfg.Server.Port)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serverErr <- fmt.Errorf("failed to start server: %w", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	select {
	case <-quit:
		logger.Log.Warn("Shutdown signal received. Starting graceful shutdown...")
	case err := <-serverErr:
		return err
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("server forced to shutdown: %w", err)
	}

	logger.Log.Info("Server exited properly")
	return nil
}
