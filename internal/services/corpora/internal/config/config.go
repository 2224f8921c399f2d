package config

import (
	"time"

	"github.com/gamma-omg/lexi-annotate/internal/pkg/env"
)

type Config struct {
	HTTP         httpConfig
	DB           dbConfig
	Auth         authConfig
	Redis        redisConfig
	AllowedCache cacheConfig
	CORS         corsConfig
	Corpora      corporaConfig
}

type httpConfig struct {
	ListenAddr      string
	ReadTimeout     time.Duration
	WriteTimeout    time.Duration
	IdleTimeout     time.Duration
	ShutdownTimeout time.Duration
}

type dbConfig struct {
	Host     string
	Port     string
	User     string
	Password string
	Name     string
}

type authConfig struct {
	Secret   string
	TokenTTL time.Duration
	Issuer   string
}

type redisConfig struct {
	Host     string
	Port     string
	Password string
	DB       int
	ResetTTL time.Duration
}

type cacheConfig struct {
	MaxKeys int64
	MaxCost int64
	TTL     time.Duration
}

type corsConfig struct {
	AllowedOrigins []string
}

type corporaConfig struct {
	PageSize           int
	AutocompleteLimit  int
	DefaultContextSize int
}

// FromEnv reads the configuration of the serve command. AUTH_SECRET is
// required.
func FromEnv() Config {
	cfg := DBFromEnv()
	cfg.HTTP = httpConfig{
		ListenAddr:      env.String("HTTP_LISTEN_ADDR", ":8080"),
		ReadTimeout:     env.Duration("HTTP_READ_TIMEOUT", 30*time.Second),
		WriteTimeout:    env.Duration("HTTP_WRITE_TIMEOUT", 30*time.Second),
		IdleTimeout:     env.Duration("HTTP_IDLE_TIMEOUT", 60*time.Second),
		ShutdownTimeout: env.Duration("HTTP_SHUTDOWN_TIMEOUT", 10*time.Second),
	}
	cfg.Auth = authConfig{
		Secret:   env.RequireString("AUTH_SECRET"),
		TokenTTL: env.Duration("AUTH_TOKEN_TTL", 12*time.Hour),
		Issuer:   env.String("AUTH_ISSUER", "lexi-annotate"),
	}
	cfg.Redis = redisConfig{
		Host:     env.String("REDIS_HOST", "localhost"),
		Port:     env.String("REDIS_PORT", "6379"),
		Password: env.String("REDIS_PASSWORD", ""),
		DB:       env.Int("REDIS_DB", 0),
		ResetTTL: env.Duration("REDIS_RESET_TTL", 30*time.Minute),
	}
	cfg.CORS = corsConfig{
		AllowedOrigins: env.StringList("CORS_ALLOWED_ORIGINS", []string{"*"}),
	}
	return cfg
}

// DBFromEnv reads the part of the configuration needed by the
// administrative commands, which never start the HTTP server.
func DBFromEnv() Config {
	return Config{
		DB: dbConfig{
			Host:     env.String("DB_HOST", "localhost"),
			Port:     env.String("DB_PORT", "5432"),
			User:     env.String("DB_USER", "postgres"),
			Password: env.String("DB_PASSWORD", "postgres"),
			Name:     env.String("DB_NAME", "corpora"),
		},
		AllowedCache: cacheConfig{
			MaxKeys: env.Int64("ALLOWED_CACHE_KEYS", 10_000),
			MaxCost: env.Int64("ALLOWED_CACHE_COST", 1<<20),
			TTL:     env.Duration("ALLOWED_CACHE_TTL", time.Minute),
		},
		Corpora: corporaConfig{
			PageSize:           env.Int("PAGE_SIZE", 100),
			AutocompleteLimit:  env.Int("AUTOCOMPLETE_LIMIT", 20),
			DefaultContextSize: env.Int("DEFAULT_CONTEXT_SIZE", 3),
		},
	}
}
