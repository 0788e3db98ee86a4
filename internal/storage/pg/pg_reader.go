package pg

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/DjordjeVuckovic/storefront/internal/domain"
	"github.com/DjordjeVuckovic/storefront/internal/storage"
	"github.com/DjordjeVuckovic/storefront/internal/storage/sqlq"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type Reader struct {
	db *pgxpool.Pool
}

func NewReader(pool *ConnectionPool) (*Reader, error) {
	return &Reader{db: pool.conn}, nil
}

func (r *Reader) Get(ctx context.Context, id string) (*domain.Product, error) {
	rows, err := r.db.Query(ctx, "SELECT "+sqlq.Columns+" FROM products WHERE id = $1", id)
	if err != nil {
		return nil, fmt.Errorf("failed to query product: %w", err)
	}
	p, err := pgx.CollectExactlyOneRow(rows, scanProduct)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, storage.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read product: %w", err)
	}
	return &p, nil
}

func (r *Reader) List(ctx context.Context, q domain.ProductQuery) ([]domain.Product, int64, error) {
	slog.Debug("Listing products from postgres", "page", q.Page, "limit", q.Limit, "sort", q.Filter.Sort)

	b := sqlq.New(sqlq.Postgres)
	where := b.Where(q.Filter)

	var total int64
	if err := r.db.QueryRow(ctx, "SELECT COUNT(*) FROM products "+where, b.Args()...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("failed to count products: %w", err)
	}
	if total == 0 {
		return []domain.Product{}, 0, nil
	}

	page := b.Page(q.Limit, q.Offset())
	query := fmt.Sprintf("SELECT %s FROM products %s %s %s", sqlq.Columns, where, sqlq.OrderBy(q.Filter.Sort), page)
	items, err := r.collect(ctx, query, b.Args()...)
	if err != nil {
		return nil, 0, err
	}
	return items, total, nil
}

func (r *Reader) Candidates(ctx context.Context, ordering domain.Ordering, limit int) ([]domain.Product, error) {
	query := fmt.Sprintf("SELECT %s FROM products %s LIMIT $1", sqlq.Columns, sqlq.OrderBy(ordering))
	return r.collect(ctx, query, limit)
}

func (r *Reader) collect(ctx context.Context, query string, args ...any) ([]domain.Product, error) {
	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query products: %w", err)
	}
	items, err := pgx.CollectRows(rows, scanProduct)
	if err != nil {
		return nil, fmt.Errorf("failed to scan products: %w", err)
	}
	if items == nil {
		items = []domain.Product{}
	}
	return items, nil
}

func scanProduct(row pgx.CollectableRow) (domain.Product, error) {
	var p domain.Product
	err := row.Scan(
		&p.ID,
		&p.Name,
		&p.Description,
		&p.Category,
		&p.Price,
		&p.Stock,
		&p.ImageURL,
		&p.Sales,
		&p.CreatedAt,
		&p.UpdatedAt,
	)
	return p, err
}

var _ storage.Reader = (*Reader)(nil)
