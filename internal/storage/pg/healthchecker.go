package pg

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/jackc/pgx/v5"
)

const defaultHealthTimeout = 2 * time.Second

// HealthChecker reports whether the catalog database answers and the
// products table can be read.
type HealthChecker struct {
	pool    *ConnectionPool
	timeout time.Duration
}

func NewHealthChecker(pool *ConnectionPool) *HealthChecker {
	return &HealthChecker{pool: pool, timeout: defaultHealthTimeout}
}

// WithTimeout bounds a single check, zero or less keeps the default.
func (hc *HealthChecker) WithTimeout(d time.Duration) *HealthChecker {
	if d > 0 {
		hc.timeout = d
	}
	return hc
}

func (hc *HealthChecker) Name() string {
	return "catalog_postgres"
}

func (hc *HealthChecker) Healthy(ctx context.Context) bool {
	if hc.pool == nil {
		return false
	}

	ctx, cancel := context.WithTimeout(ctx, hc.timeout)
	defer cancel()

	if err := hc.pool.Ping(ctx); err != nil {
		slog.Warn("Catalog database unreachable", "storage", "postgres", "error", err)
		return false
	}

	var one int
	err := hc.pool.GetConn().QueryRow(ctx, "SELECT 1 FROM products LIMIT 1").Scan(&one)
	if err != nil && !errors.Is(err, pgx.ErrNoRows) {
		slog.Warn("Catalog products table unreadable", "storage", "postgres", "error", err)
		return false
	}
	return true
}
