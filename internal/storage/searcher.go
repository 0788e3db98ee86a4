package storage

import (
	"context"

	"github.com/DjordjeVuckovic/storefront/internal/domain"
)

// Searcher provides free-text product search.
// Results are ranked by relevance; storage decides fields and weights.
type Searcher interface {
	Search(ctx context.Context, text string, page, limit int) ([]domain.Product, int64, error)
}
