package pg

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/DjordjeVuckovic/storefront/internal/domain"
	"github.com/DjordjeVuckovic/storefront/internal/storage"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

var productColumns = []string{"id", "name", "description", "category", "price", "stock", "image_url", "sales", "created_at", "updated_at"}

const upsertSet = `
	name = EXCLUDED.name,
	description = EXCLUDED.description,
	category = EXCLUDED.category,
	price = EXCLUDED.price,
	stock = EXCLUDED.stock,
	image_url = EXCLUDED.image_url,
	sales = EXCLUDED.sales,
	created_at = EXCLUDED.created_at,
	updated_at = EXCLUDED.updated_at
`

type Storer struct {
	db  *pgxpool.Pool
	now func() time.Time
}

func NewStorer(pool *ConnectionPool) (*Storer, error) {
	return &Storer{db: pool.conn, now: time.Now}, nil
}

func (s *Storer) Save(ctx context.Context, product domain.Product) (string, error) {
	p := storage.Prepare(product, s.now())

	cmd := `
		INSERT INTO products (id, name, description, category, price, stock, image_url, sales, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
		ON CONFLICT (id) DO UPDATE SET ` + upsertSet + `
		RETURNING id;
	`
	var id string
	if err := s.db.QueryRow(ctx, cmd, row(p)...).Scan(&id); err != nil {
		return "", fmt.Errorf("failed to upsert product: %w", err)
	}
	return id, nil
}

// SaveBulk copies the batch into a transaction-scoped staging table and
// merges it, so re-importing a catalog updates rows instead of failing on
// duplicate keys.
func (s *Storer) SaveBulk(ctx context.Context, products []domain.Product) error {
	if len(products) == 0 {
		return nil
	}

	now := s.now()
	rows := make([][]any, 0, len(products))
	seen := make(map[string]struct{}, len(products))
	for _, product := range products {
		p := storage.Prepare(product, now)
		// ON CONFLICT cannot touch the same row twice in one statement
		if _, dup := seen[p.ID]; dup {
			continue
		}
		seen[p.ID] = struct{}{}
		rows = append(rows, row(p))
	}

	tx, err := s.db.Begin(ctx)
	if err != nil {
		return fmt.Errorf("failed to begin tx: %w", err)
	}
	defer tx.Rollback(ctx)

	if _, err := tx.Exec(ctx, `CREATE TEMP TABLE products_staging (LIKE products INCLUDING DEFAULTS) ON COMMIT DROP`); err != nil {
		return fmt.Errorf("failed to create staging table: %w", err)
	}
	if _, err := tx.CopyFrom(ctx, pgx.Identifier{"products_staging"}, productColumns, pgx.CopyFromRows(rows)); err != nil {
		return fmt.Errorf("failed to bulk copy products: %w", err)
	}

	merge := `
		INSERT INTO products (id, name, description, category, price, stock, image_url, sales, created_at, updated_at)
		SELECT id, name, description, category, price, stock, image_url, sales, created_at, updated_at FROM products_staging
		ON CONFLICT (id) DO UPDATE SET ` + upsertSet
	if _, err := tx.Exec(ctx, merge); err != nil {
		return fmt.Errorf("failed to merge staged products: %w", err)
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("failed to commit bulk save: %w", err)
	}
	slog.Info("Bulk saved products to postgres", "count", len(rows))
	return nil
}

func (s *Storer) Delete(ctx context.Context, id string) error {
	tag, err := s.db.Exec(ctx, "DELETE FROM products WHERE id = $1", id)
	if err != nil {
		return fmt.Errorf("failed to delete product: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return storage.ErrNotFound
	}
	return nil
}

func row(p domain.Product) []any {
	return []any{
		p.ID,
		p.Name,
		p.Description,
		p.Category,
		p.Price,
		p.Stock,
		p.ImageURL,
		p.Sales,
		p.CreatedAt,
		p.UpdatedAt,
	}
}

var _ storage.Storer = (*Storer)(nil)
