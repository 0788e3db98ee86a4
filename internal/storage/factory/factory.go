package factory

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/DjordjeVuckovic/storefront/internal/storage"
	"github.com/DjordjeVuckovic/storefront/internal/storage/es"
	"github.com/DjordjeVuckovic/storefront/internal/storage/in_mem"
	"github.com/DjordjeVuckovic/storefront/internal/storage/pg"
	"github.com/DjordjeVuckovic/storefront/internal/storage/sqlite"
	pkgserver "github.com/DjordjeVuckovic/storefront/pkg/server"
)

// Backend is the storage wired from a StorageConfig. Storer mirrors writes
// into the search backend when it differs from the storage backend.
type Backend struct {
	Reader   storage.Reader
	Storer   storage.Storer
	Searcher storage.Searcher
	Health   *pkgserver.CompositeHealthChecker

	closers []func()
}

type store interface {
	storage.Reader
	storage.Storer
	storage.Searcher
}

func Open(ctx context.Context, cfg StorageConfig) (*Backend, error) {
	b := &Backend{Health: pkgserver.NewCompositeHealthChecker()}

	primary, err := b.open(ctx, cfg.Type, cfg)
	if err != nil {
		b.Close()
		return nil, err
	}
	b.Reader, b.Storer, b.Searcher = primary, primary, primary

	if cfg.SearchType != "" && cfg.SearchType != cfg.Type {
		search, err := b.open(ctx, cfg.SearchType, cfg)
		if err != nil {
			b.Close()
			return nil, err
		}
		b.Searcher = search
		b.Storer = storage.NewFanoutStorer(primary, search)
	}

	slog.Info("Storage backend ready", "storageType", cfg.Type, "searchType", cfg.SearchType)
	return b, nil
}

func (b *Backend) open(ctx context.Context, t storage.Type, cfg StorageConfig) (store, error) {
	switch t {
	case storage.PG:
		if cfg.Pg == nil {
			return nil, errors.New("missing PostgreSQL configuration")
		}
		pool, err := pg.NewConnectionPool(ctx, *cfg.Pg)
		if err != nil {
			return nil, fmt.Errorf("failed to create PostgreSQL connection pool: %w", err)
		}
		b.closers = append(b.closers, pool.Close)
		hc := pg.NewHealthChecker(pool)
		b.Health.Add(hc.Name(), hc)
		return pg.NewStore(pool), nil

	case storage.ES:
		if cfg.Es == nil {
			return nil, errors.New("missing Elasticsearch configuration")
		}
		s, err := es.NewStore(ctx, *cfg.Es)
		if err != nil {
			return nil, err
		}
		hc := es.NewHealthChecker(s)
		b.Health.Add(hc.Name(), hc)
		return s, nil

	case storage.SQLite:
		sqliteCfg := sqlite.Config{}
		if cfg.Sqlite != nil {
			sqliteCfg = *cfg.Sqlite
		}
		s, err := sqlite.Open(ctx, sqliteCfg)
		if err != nil {
			return nil, err
		}
		b.closers = append(b.closers, func() { _ = s.Close() })
		b.Health.Add("sqlite", s)
		return s, nil

	case storage.InMem:
		b.Health.Add("in_mem", pkgserver.NewOkHealthChecker())
		return in_mem.NewStore(), nil

	default:
		return nil, fmt.Errorf(string(storage.ErrUnsupportedStorer), t)
	}
}

// Close releases connections in reverse order of opening.
func (b *Backend) Close() {
	for i := len(b.closers) - 1; i >= 0; i-- {
		b.closers[i]()
	}
	b.closers = nil
}
