// Package apptest wires the full HTTP stack over the in-memory store for
// end-to-end tests. Nothing in the server binary imports it.
package apptest

import (
	"time"

	"github.com/Mareeswari30/Smart-Banking/app"
	"github.com/Mareeswari30/Smart-Banking/config"
	"github.com/Mareeswari30/Smart-Banking/events"
	"github.com/Mareeswari30/Smart-Banking/repository"
	"github.com/Mareeswari30/Smart-Banking/storage"
	"github.com/redis/go-redis/v9"
)

type App struct {
	Config *config.Config
	Repos  *repository.MemoryManager
	*app.Components
}

// Config returns a valid configuration with cheap bcrypt and local uploads in dir.
func Config(uploadDir string) *config.Config {
	cfg := &config.Config{}
	cfg.JWT.SecretKey = "apptest-secret"
	cfg.JWT.AccessTokenTTL = 30 * time.Minute
	cfg.Auth.BcryptCost = 4
	cfg.Auth.LoginRateLimit = 5
	cfg.Database.InMemory = true
	cfg.Redis.CacheTTL = time.Minute
	cfg.Storage.Backend = "local"
	cfg.Storage.UploadDir = uploadDir
	return cfg
}

// New wires cfg over a fresh in-memory store. rdb may be nil.
func New(cfg *config.Config, rdb *redis.Client) (*App, error) {
	store, err := storage.NewLocalStore(cfg.Storage.UploadDir)
	if err != nil {
		return nil, err
	}
	repos := repository.NewMemoryManager()
	components := app.Build(cfg, app.Deps{
		Repos:     repos,
		Redis:     rdb,
		Store:     store,
		Publisher: events.LogPublisher{},
	})
	return &App{Config: cfg, Repos: repos, Components: components}, nil
}
