package collector

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/DjordjeVuckovic/storefront/internal/domain"
	"github.com/DjordjeVuckovic/storefront/internal/seed"
)

// CatalogCollector emits the products of a seed catalog. Products without a
// name are reported as errors instead of being emitted.
type CatalogCollector struct {
	catalog *seed.Catalog
}

func NewCatalogCollector(c *seed.Catalog) *CatalogCollector {
	return &CatalogCollector{catalog: c}
}

func (cc *CatalogCollector) Collect(ctx context.Context) (<-chan Result[domain.Product], error) {
	if cc.catalog == nil {
		return nil, fmt.Errorf("no catalog to collect")
	}

	out := make(chan Result[domain.Product])
	go func() {
		defer close(out)

		source := cc.catalog.Metadata.Name
		for i, p := range cc.catalog.Products {
			res := Result[domain.Product]{Result: p, Source: source, Offset: i}
			if p.Name == "" {
				res = Result[domain.Product]{Err: fmt.Errorf("product %q has no name", p.ID), Source: source, Offset: i}
			}

			select {
			case <-ctx.Done():
				return
			case out <- res:
			}
		}
		slog.Debug("Catalog collected", "catalog", cc.catalog.Metadata.Name, "products", len(cc.catalog.Products))
	}()

	return out, nil
}
