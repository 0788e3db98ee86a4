package storage

import (
	"context"
	"errors"

	"github.com/DjordjeVuckovic/storefront/internal/domain"
)

// ErrNotFound is returned by Reader.Get when no product has the id.
var ErrNotFound = errors.New("product not found")

type Reader interface {
	Get(ctx context.Context, id string) (*domain.Product, error)
	// List returns one page of products matching q and the total number of matches.
	List(ctx context.Context, q domain.ProductQuery) ([]domain.Product, int64, error)
	// Candidates returns the top limit products ranked by ordering, ties broken by id.
	Candidates(ctx context.Context, ordering domain.Ordering, limit int) ([]domain.Product, error)
}
