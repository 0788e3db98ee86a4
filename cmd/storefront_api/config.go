package main

import (
	"log/slog"
	"os"
	"strings"
	"time"

	"github.com/DjordjeVuckovic/storefront/internal/rotation"
	"github.com/DjordjeVuckovic/storefront/internal/sampler"
	"github.com/DjordjeVuckovic/storefront/internal/storage/factory"
	"github.com/DjordjeVuckovic/storefront/pkg/config/env"
)

func NewAppConfig() *AppConfig {
	return &AppConfig{
		ENV: os.Getenv("ENV"),
	}
}

type AppConfig struct {
	ENV string
}

type SamplerConfig struct {
	PoolSize           int
	GuaranteedFraction float64
}

type RotationConfig struct {
	// Cron is the featured rotation schedule, empty disables rotation
	Cron     string
	MinCount int
	MaxCount int
}

type SearchCacheConfig struct {
	Size int
	TTL  time.Duration
}

type ApiConfig struct {
	LogLevel    slog.Level
	Sampler     SamplerConfig
	Rotation    RotationConfig
	SearchCache SearchCacheConfig
	factory.StorageConfig
}

func (as *AppConfig) Load() (*ApiConfig, error) {
	err := env.LoadDotEnv(as.ENV, "cmd/storefront_api/.env")
	if err != nil {
		slog.Info("Skipping .env environment variables...", "error", err)
	}

	storageCfg, err := factory.LoadEnv()
	if err != nil {
		slog.Error("Failed to load storage configuration from environment", "error", err)
		return nil, err
	}

	cfg := &ApiConfig{
		LogLevel:      parseLevel(env.String("LOG_LEVEL", "info")),
		StorageConfig: *storageCfg,
	}

	if cfg.Sampler.PoolSize, err = env.Int("SAMPLER_POOL_SIZE", sampler.DefaultPoolSize); err != nil {
		return nil, err
	}
	if cfg.Sampler.GuaranteedFraction, err = env.Float("SAMPLER_GUARANTEED_FRACTION", sampler.DefaultGuaranteedFraction); err != nil {
		return nil, err
	}

	cfg.Rotation.Cron = env.String("FEATURED_ROTATION_CRON", rotation.DefaultCron)
	if strings.EqualFold(cfg.Rotation.Cron, "off") {
		cfg.Rotation.Cron = ""
	}
	if cfg.Rotation.MinCount, err = env.Int("FEATURED_MIN", 4); err != nil {
		return nil, err
	}
	if cfg.Rotation.MaxCount, err = env.Int("FEATURED_MAX", 8); err != nil {
		return nil, err
	}
	if err := (sampler.Request{MinCount: cfg.Rotation.MinCount, MaxCount: cfg.Rotation.MaxCount}).Validate(); err != nil {
		return nil, err
	}

	if cfg.SearchCache.Size, err = env.Int("SEARCH_CACHE_SIZE", 256); err != nil {
		return nil, err
	}
	if cfg.SearchCache.TTL, err = env.Duration("SEARCH_CACHE_TTL", time.Minute); err != nil {
		return nil, err
	}

	return cfg, nil
}

func parseLevel(s string) slog.Level {
	var level slog.Level
	if err := level.UnmarshalText([]byte(s)); err != nil {
		return slog.LevelInfo
	}
	return level
}
