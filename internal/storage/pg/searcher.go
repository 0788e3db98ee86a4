package pg

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/DjordjeVuckovic/storefront/internal/domain"
	"github.com/DjordjeVuckovic/storefront/internal/storage"
	"github.com/DjordjeVuckovic/storefront/internal/storage/sqlq"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// Searcher ranks products with the weighted search_vector column
// (name A, description B, category C).
type Searcher struct {
	db *pgxpool.Pool
}

func NewSearcher(pool *ConnectionPool) *Searcher {
	return &Searcher{db: pool.conn}
}

func (s *Searcher) Search(ctx context.Context, text string, page, limit int) ([]domain.Product, int64, error) {
	text = strings.TrimSpace(text)
	offset := domain.ProductQuery{Page: page, Limit: limit}.Offset()
	slog.Info("Executing pg full-text search", "query", text, "page", page, "limit", limit)

	var total int64
	countSQL := `SELECT COUNT(*) FROM products WHERE search_vector @@ plainto_tsquery('english', $1)`
	if err := s.db.QueryRow(ctx, countSQL, text).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("failed to count search hits: %w", err)
	}
	if total == 0 {
		return []domain.Product{}, 0, nil
	}

	searchSQL := `
		SELECT ` + sqlq.Columns + `
		FROM products
		WHERE search_vector @@ plainto_tsquery('english', $1)
		ORDER BY ts_rank(search_vector, plainto_tsquery('english', $1)) DESC, sales DESC, id ASC
		LIMIT $2 OFFSET $3
	`
	rows, err := s.db.Query(ctx, searchSQL, text, limit, offset)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to execute search query: %w", err)
	}
	items, err := pgx.CollectRows(rows, scanProduct)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to scan search hits: %w", err)
	}
	if items == nil {
		items = []domain.Product{}
	}
	return items, total, nil
}

var _ storage.Searcher = (*Searcher)(nil)
