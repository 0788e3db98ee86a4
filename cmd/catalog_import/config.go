package main

import (
	"fmt"
	"log/slog"
	"os"

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

type ImportConfig struct {
	SeedPath    string
	BulkOptions *struct {
		Enabled bool
		Size    int
	}
	factory.StorageConfig
}

func (as *AppConfig) Load() (*ImportConfig, error) {
	err := env.LoadDotEnv(as.ENV, "cmd/catalog_import/.env")
	if err != nil {
		slog.Info("Skipping .env environment variables...", "error", err)
	}

	storageCfg, err := factory.LoadEnv()
	if err != nil {
		slog.Error("Failed to load storage configuration from environment", "error", err)
		return nil, err
	}

	seedPath := os.Getenv("SEED_PATH")
	if seedPath == "" {
		slog.Error("SEED_PATH environment variable is not set")
		return nil, fmt.Errorf("SEED_PATH environment variable is not set")
	}

	bulkEnabled, err := env.Bool("BULK_ENABLED", true)
	if err != nil {
		return nil, err
	}
	bulkSize, err := env.Int("BULK_SIZE", 500)
	if err != nil {
		return nil, err
	}

	return &ImportConfig{
		SeedPath: seedPath,
		BulkOptions: &struct {
			Enabled bool
			Size    int
		}{
			Enabled: bulkEnabled,
			Size:    bulkSize,
		},
		StorageConfig: *storageCfg,
	}, nil
}
