package es

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/DjordjeVuckovic/storefront/internal/domain"
	"github.com/DjordjeVuckovic/storefront/internal/storage"
	"github.com/elastic/go-elasticsearch/v8/typedapi/types"
	"github.com/elastic/go-elasticsearch/v8/typedapi/types/enums/sortorder"
)

// Search runs a BM25 multi_match over name, description and category,
// ranking by score with sales as the tie breaker.
func (s *Store) Search(ctx context.Context, text string, page, limit int) ([]domain.Product, int64, error) {
	text = strings.TrimSpace(text)
	offset := domain.ProductQuery{Page: page, Limit: limit}.Offset()
	slog.Info("Executing es search", "query", text, "page", page, "limit", limit)

	desc := sortorder.Desc
	res, err := s.client.Search().
		Index(s.indexName).
		Query(&types.Query{
			MultiMatch: &types.MultiMatchQuery{
				Query:  text,
				Fields: searchFields,
			},
		}).
		From(offset).
		Size(limit).
		Sort(
			&types.SortOptions{SortOptions: map[string]types.FieldSort{"_score": {Order: &desc}}},
			&types.SortOptions{SortOptions: map[string]types.FieldSort{"sales": {Order: &desc}}},
		).
		Do(ctx)
	if err != nil {
		slog.Error("Elasticsearch query failed", "error", err, "query", text)
		return nil, 0, fmt.Errorf("failed to execute search: %w", err)
	}

	items, err := mapHits(res.Hits.Hits)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to map search results to domain: %w", err)
	}

	total := totalOf(res.Hits.Total)
	slog.Info("Es search results fetched", "total_matches", total, "returned_count", len(items))
	return items, total, nil
}

var _ storage.Searcher = (*Store)(nil)
