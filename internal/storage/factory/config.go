package factory

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/DjordjeVuckovic/storefront/internal/storage"
	"github.com/DjordjeVuckovic/storefront/internal/storage/es"
	"github.com/DjordjeVuckovic/storefront/internal/storage/pg"
	"github.com/DjordjeVuckovic/storefront/internal/storage/sqlite"
	"github.com/DjordjeVuckovic/storefront/pkg/config/env"
)

const DefaultIndexName = "products"

type StorageConfig struct {
	storage.Type
	// SearchType is the backend serving free-text search, the storage type when unset
	SearchType storage.Type
	Pg         *pg.PoolConfig
	Es         *es.ClientConfig
	Sqlite     *sqlite.Config
}

// Uses reports whether t backs either storage or search.
func (c StorageConfig) Uses(t storage.Type) bool {
	return c.Type == t || c.SearchType == t
}

func LoadEnv() (*StorageConfig, error) {
	storageType := (storage.Type)(os.Getenv("STORAGE_TYPE"))
	if storageType == "" {
		slog.Error("STORAGE_TYPE environment variable is not set")
		return nil, fmt.Errorf("STORAGE_TYPE environment variable is not set")
	}
	if !storageType.Valid() {
		slog.Error("Invalid STORAGE_TYPE environment variable value", "value", storageType)
		return nil, fmt.Errorf(
			"invalid STORAGE_TYPE environment variable value: %s, expected one of %v",
			storageType,
			storage.Types)
	}

	searchType := storage.Type(env.String("SEARCH_TYPE", string(storageType)))
	if !searchType.Valid() {
		slog.Error("Invalid SEARCH_TYPE environment variable value", "value", searchType)
		return nil, fmt.Errorf("invalid SEARCH_TYPE environment variable value: %s, expected one of %v", searchType, storage.Types)
	}

	cfg := &StorageConfig{Type: storageType, SearchType: searchType}

	if cfg.Uses(storage.ES) {
		refresh, err := env.Bool("ES_REFRESH", false)
		if err != nil {
			return nil, err
		}
		cfg.Es = &es.ClientConfig{
			Addresses: env.List("ES_ADDRESSES"),
			IndexName: env.String("ES_INDEX_NAME", DefaultIndexName),
			Username:  os.Getenv("ES_USERNAME"),
			Password:  os.Getenv("ES_PASSWORD"),
			Refresh:   refresh,
		}
		if len(cfg.Es.Addresses) == 0 {
			slog.Error("Elasticsearch configuration is incomplete", "addresses", cfg.Es.Addresses)
			return nil, fmt.Errorf("elasticsearch configuration is incomplete: ES_ADDRESSES is missing")
		}
	}

	if cfg.Uses(storage.PG) {
		maxConns, err := env.Int("PG_MAX_CONNS", 0)
		if err != nil {
			return nil, err
		}
		cfg.Pg = &pg.PoolConfig{
			ConnStr:  os.Getenv("PG_CONNECTION_STRING"),
			MaxConns: int32(maxConns),
		}
		if cfg.Pg.ConnStr == "" {
			slog.Error("PostgreSQL connection string is not set")
			return nil, fmt.Errorf("PostgreSQL connection string is not set")
		}
	}

	if cfg.Uses(storage.SQLite) {
		cfg.Sqlite = &sqlite.Config{Path: env.String("SQLITE_PATH", "storefront.db")}
	}

	return cfg, nil
}
