package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

type Config struct {
	Server struct {
		Port string `mapstructure:"port"`
	} `mapstructure:"server"`
	Database struct {
		Host     string `mapstructure:"host"`
		Port     string `mapstructure:"port"`
		User     string `mapstructure:"user"`
		Password string `mapstructure:"password"`
		Name     string `mapstructure:"name"`
		SSLMode  string `mapstructure:"sslmode"`
		// InMemory swaps Postgres for the process-local store. Data is lost on exit.
		InMemory bool `mapstructure:"in_memory"`
	} `mapstructure:"database"`
	JWT struct {
		SecretKey      string        `mapstructure:"secret_key"`
		AccessTokenTTL time.Duration `mapstructure:"access_token_ttl"`
	} `mapstructure:"jwt"`
	Auth struct {
		BcryptCost     int `mapstructure:"bcrypt_cost"`
		LoginRateLimit int `mapstructure:"login_rate_limit"`
	} `mapstructure:"auth"`
	Admin struct {
		APIKey string `mapstructure:"api_key"`
	} `mapstructure:"admin"`
	Redis struct {
		Host     string        `mapstructure:"host"`
		Port     string        `mapstructure:"port"`
		Password string        `mapstructure:"password"`
		DB       int           `mapstructure:"db"`
		CacheTTL time.Duration `mapstructure:"cache_ttl"`
	} `mapstructure:"redis"`
	Storage struct {
		Backend   string `mapstructure:"backend"`
		UploadDir string `mapstructure:"upload_dir"`
		S3        struct {
			Bucket    string `mapstructure:"bucket"`
			Region    string `mapstructure:"region"`
			Endpoint  string `mapstructure:"endpoint"`
			AccessKey string `mapstructure:"access_key"`
			SecretKey string `mapstructure:"secret_key"`
		} `mapstructure:"s3"`
	} `mapstructure:"storage"`
	RabbitMQ struct {
		URL      string `mapstructure:"url"`
		Exchange string `mapstructure:"exchange"`
	} `mapstructure:"rabbitmq"`
	Log struct {
		Level  string `mapstructure:"level"`
		Format string `mapstructure:"format"`
	} `mapstructure:"log"`
}

var ErrMissingJWTSecret = errors.New("jwt.secret_key (JWT_SECRET_KEY) must be set")

// bindings lists every key that may come from the environment only, so
// viper.Unmarshal sees it even when config.yml does not mention it.
var bindings = []string{
	"server.port",
	"database.host", "database.port", "database.user", "database.password", "database.name",
	"database.sslmode", "database.in_memory",
	"jwt.secret_key", "jwt.access_token_ttl",
	"auth.bcrypt_cost", "auth.login_rate_limit",
	"admin.api_key",
	"redis.host", "redis.port", "redis.password", "redis.db", "redis.cache_ttl",
	"storage.backend", "storage.upload_dir",
	"storage.s3.bucket", "storage.s3.region", "storage.s3.endpoint",
	"storage.s3.access_key", "storage.s3.secret_key",
	"rabbitmq.url", "rabbitmq.exchange",
	"log.level", "log.format",
}

// LoadConfig reads config.yml from path (optional), a .env file next to it
// (optional) and the environment. Environment variables win; dots in keys map
// to underscores, so jwt.secret_key is read from JWT_SECRET_KEY.
func LoadConfig(path string) (*Config, error) {
	if err := godotenv.Load(filepath.Join(path, ".env")); err != nil && !errors.Is(err, os.ErrNotExist) {
		return nil, fmt.Errorf("failed to load .env: %w", err)
	}

	v := viper.New()
	v.AddConfigPath(path)
	v.SetConfigName("config")
	v.SetConfigType("yml")
	setDefaults(v)

	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	for _, key := range bindings {
		if err := v.BindEnv(key); err != nil {
			return nil, fmt.Errorf("failed to bind env for %s: %w", key, err)
		}
	}

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("error reading config file: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("unable to decode config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("server.port", "8080")
	v.SetDefault("database.host", "localhost")
	v.SetDefault("database.port", "5432")
	v.SetDefault("database.sslmode", "disable")
	v.SetDefault("jwt.access_token_ttl", 30*time.Minute)
	v.SetDefault("auth.bcrypt_cost", 10)
	v.SetDefault("auth.login_rate_limit", 5)
	v.SetDefault("redis.port", "6379")
	v.SetDefault("redis.cache_ttl", 5*time.Minute)
	v.SetDefault("storage.backend", "local")
	v.SetDefault("storage.upload_dir", "uploads")
	v.SetDefault("storage.s3.region", "us-east-1")
	v.SetDefault("rabbitmq.exchange", "bank.events")
	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "json")
}

// Validate rejects configurations the server cannot safely start with.
func (c *Config) Validate() error {
	if strings.TrimSpace(c.JWT.SecretKey) == "" {
		return ErrMissingJWTSecret
	}
	if c.JWT.AccessTokenTTL <= 0 {
		return fmt.Errorf("jwt.access_token_ttl must be positive, got %s", c.JWT.AccessTokenTTL)
	}
	if !c.Database.InMemory && (c.Database.Host == "" || c.Database.User == "" || c.Database.Name == "") {
		return errors.New("database.host, database.user and database.name are required unless database.in_memory is set")
	}
	switch c.Storage.Backend {
	case "local":
		if c.Storage.UploadDir == "" {
			return errors.New("storage.upload_dir is required for the local backend")
		}
	case "s3":
		if c.Storage.S3.Bucket == "" {
			return errors.New("storage.s3.bucket is required for the s3 backend")
		}
	default:
		return fmt.Errorf("unknown storage.backend %q", c.Storage.Backend)
	}
	return nil
}

// DSN returns the lib/pq connection string. When redact is true the password is omitted.
func (c *Config) DSN(redact bool) string {
	d := c.Database
	if redact {
		return fmt.Sprintf("host=%s port=%s user=%s dbname=%s sslmode=%s", d.Host, d.Port, d.User, d.Name, d.SSLMode)
	}
	return fmt.Sprintf("host=%s port=%s user=%s password=%s dbname=%s sslmode=%s",
		d.Host, d.Port, d.User, d.Password, d.Name, d.SSLMode)
}

// RedisAddr returns host:port, or "" when Redis is disabled.
func (c *Config) RedisAddr() string {
	if c.Redis.Host == "" {
		return ""
	}
	return c.Redis.Host + ":" + c.Redis.Port
}
