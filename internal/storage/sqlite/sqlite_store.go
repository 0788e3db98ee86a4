// Package sqlite is a single-file catalog backend on modernc.org/sqlite,
// meant for local development and tests.
package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/DjordjeVuckovic/storefront/internal/domain"
	"github.com/DjordjeVuckovic/storefront/internal/storage"
	"github.com/DjordjeVuckovic/storefront/internal/storage/sqlq"
	_ "modernc.org/sqlite"
)

const Schema = `
CREATE TABLE IF NOT EXISTS products (
	id TEXT PRIMARY KEY,
	name TEXT NOT NULL,
	description TEXT NOT NULL DEFAULT '',
	category TEXT NOT NULL,
	price REAL NOT NULL DEFAULT 0,
	stock INTEGER NOT NULL DEFAULT 0,
	image_url TEXT NOT NULL DEFAULT '',
	sales INTEGER NOT NULL DEFAULT 0,
	created_at INTEGER NOT NULL,
	updated_at INTEGER NOT NULL
);
CREATE INDEX IF NOT EXISTS idx_products_created_at ON products(created_at DESC);
CREATE INDEX IF NOT EXISTS idx_products_sales ON products(sales DESC);
CREATE INDEX IF NOT EXISTS idx_products_category ON products(category);
`

type Config struct {
	// Path is the database file, ":memory:" for a private in-memory database.
	Path string
}

type Store struct {
	db  *sql.DB
	now func() time.Time
}

func Open(ctx context.Context, cfg Config) (*Store, error) {
	path := cfg.Path
	if path == "" {
		path = ":memory:"
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("failed to open sqlite database: %w", err)
	}
	// a :memory: database lives and dies with its connection
	db.SetMaxOpenConns(1)

	if path != ":memory:" {
		if _, err := db.ExecContext(ctx, "PRAGMA journal_mode=WAL"); err != nil {
			db.Close()
			return nil, fmt.Errorf("failed to enable WAL: %w", err)
		}
	}
	if _, err := db.ExecContext(ctx, Schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to apply schema: %w", err)
	}

	slog.Info("SQLite catalog ready", "path", path)
	return &Store{db: db, now: time.Now}, nil
}

func (s *Store) Close() error {
	return s.db.Close()
}

func (s *Store) Healthy(ctx context.Context) bool {
	return s.db.PingContext(ctx) == nil
}

const upsertSQL = `
	INSERT INTO products (` + sqlq.Columns + `)
	VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	ON CONFLICT(id) DO UPDATE SET
		name = excluded.name,
		description = excluded.description,
		category = excluded.category,
		price = excluded.price,
		stock = excluded.stock,
		image_url = excluded.image_url,
		sales = excluded.sales,
		created_at = excluded.created_at,
		updated_at = excluded.updated_at
`

func (s *Store) Save(ctx context.Context, product domain.Product) (string, error) {
	p := storage.Prepare(product, s.now())
	if _, err := s.db.ExecContext(ctx, upsertSQL, values(p)...); err != nil {
		return "", fmt.Errorf("failed to upsert product: %w", err)
	}
	return p.ID, nil
}

func (s *Store) SaveBulk(ctx context.Context, products []domain.Product) error {
	if len(products) == 0 {
		return nil
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin tx: %w", err)
	}
	defer tx.Rollback()

	stmt, err := tx.PrepareContext(ctx, upsertSQL)
	if err != nil {
		return fmt.Errorf("failed to prepare upsert: %w", err)
	}
	defer stmt.Close()

	now := s.now()
	for i, product := range products {
		p := storage.Prepare(product, now)
		if _, err := stmt.ExecContext(ctx, values(p)...); err != nil {
			return fmt.Errorf("failed to upsert product %d: %w", i, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit bulk upsert: %w", err)
	}
	slog.Info("Bulk upsert completed", "count", len(products))
	return nil
}

func (s *Store) Delete(ctx context.Context, id string) error {
	res, err := s.db.ExecContext(ctx, "DELETE FROM products WHERE id = ?", id)
	if err != nil {
		return fmt.Errorf("failed to delete product: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to read affected rows: %w", err)
	}
	if n == 0 {
		return storage.ErrNotFound
	}
	return nil
}

func (s *Store) Get(ctx context.Context, id string) (*domain.Product, error) {
	row := s.db.QueryRowContext(ctx, "SELECT "+sqlq.Columns+" FROM products WHERE id = ?", id)
	p, err := scan(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, storage.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return p, nil
}

func (s *Store) List(ctx context.Context, q domain.ProductQuery) ([]domain.Product, int64, error) {
	b := sqlq.New(sqlq.SQLite)
	where := b.Where(q.Filter)

	var total int64
	if err := s.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM products "+where, b.Args()...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("failed to count products: %w", err)
	}

	page := b.Page(q.Limit, q.Offset())
	query := fmt.Sprintf("SELECT %s FROM products %s %s %s", sqlq.Columns, where, sqlq.OrderBy(q.Filter.Sort), page)
	items, err := s.query(ctx, query, b.Args()...)
	if err != nil {
		return nil, 0, err
	}
	return items, total, nil
}

func (s *Store) Candidates(ctx context.Context, ordering domain.Ordering, limit int) ([]domain.Product, error) {
	query := fmt.Sprintf("SELECT %s FROM products %s LIMIT ?", sqlq.Columns, sqlq.OrderBy(ordering))
	return s.query(ctx, query, limit)
}

func (s *Store) Search(ctx context.Context, text string, page, limit int) ([]domain.Product, int64, error) {
	return s.List(ctx, domain.ProductQuery{
		Filter: domain.ProductFilter{Search: text, Sort: domain.OrderPopular},
		Page:   page,
		Limit:  limit,
	})
}

func (s *Store) query(ctx context.Context, query string, args ...any) ([]domain.Product, error) {
	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query products: %w", err)
	}
	defer rows.Close()

	items := make([]domain.Product, 0)
	for rows.Next() {
		p, err := scan(rows)
		if err != nil {
			return nil, err
		}
		items = append(items, *p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating rows: %w", err)
	}
	return items, nil
}

type scanner interface {
	Scan(dest ...any) error
}

func scan(row scanner) (*domain.Product, error) {
	var p domain.Product
	var createdAt, updatedAt int64
	if err := row.Scan(
		&p.ID,
		&p.Name,
		&p.Description,
		&p.Category,
		&p.Price,
		&p.Stock,
		&p.ImageURL,
		&p.Sales,
		&createdAt,
		&updatedAt,
	); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, err
		}
		return nil, fmt.Errorf("failed to scan product: %w", err)
	}
	p.CreatedAt = time.Unix(0, createdAt).UTC()
	p.UpdatedAt = time.Unix(0, updatedAt).UTC()
	return &p, nil
}

func values(p domain.Product) []any {
	return []any{
		p.ID,
		p.Name,
		p.Description,
		p.Category,
		p.Price,
		p.Stock,
		p.ImageURL,
		p.Sales,
		p.CreatedAt.UnixNano(),
		p.UpdatedAt.UnixNano(),
	}
}
