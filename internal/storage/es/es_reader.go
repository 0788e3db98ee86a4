package es

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"strings"

	"github.com/DjordjeVuckovic/storefront/internal/domain"
	"github.com/DjordjeVuckovic/storefront/internal/storage"
	"github.com/elastic/go-elasticsearch/v8/typedapi/types"
	"github.com/elastic/go-elasticsearch/v8/typedapi/types/enums/sortorder"
)

var searchFields = []string{"name^3", "description", "category"}

func (s *Store) Get(ctx context.Context, id string) (*domain.Product, error) {
	res, err := s.client.Get(s.indexName, id).Do(ctx)
	if isNotFound(err) {
		return nil, storage.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get document: %w", err)
	}
	if !res.Found {
		return nil, storage.ErrNotFound
	}

	var doc ProductDocument
	if err := json.Unmarshal(res.Source_, &doc); err != nil {
		return nil, fmt.Errorf("failed to unmarshal document: %w", err)
	}
	p := doc.toDomain()
	return &p, nil
}

func (s *Store) List(ctx context.Context, q domain.ProductQuery) ([]domain.Product, int64, error) {
	slog.Debug("Listing products from es", "page", q.Page, "limit", q.Limit, "sort", q.Filter.Sort)

	primary, tie := sortOptions(q.Filter.Sort)
	res, err := s.client.Search().
		Index(s.indexName).
		Query(filterQuery(q.Filter)).
		From(q.Offset()).
		Size(q.Limit).
		Sort(primary, tie).
		Do(ctx)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to execute list query: %w", err)
	}

	items, err := mapHits(res.Hits.Hits)
	if err != nil {
		return nil, 0, err
	}
	return items, totalOf(res.Hits.Total), nil
}

func (s *Store) Candidates(ctx context.Context, ordering domain.Ordering, limit int) ([]domain.Product, error) {
	primary, tie := sortOptions(ordering)
	res, err := s.client.Search().
		Index(s.indexName).
		Query(&types.Query{MatchAll: types.NewMatchAllQuery()}).
		Size(limit).
		Sort(primary, tie).
		Do(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch candidates: %w", err)
	}
	return mapHits(res.Hits.Hits)
}

func filterQuery(f domain.ProductFilter) *types.Query {
	var filters []types.Query
	var must []types.Query

	if f.Category != "" {
		caseInsensitive := true
		filters = append(filters, types.Query{
			Term: map[string]types.TermQuery{
				"category": {Value: f.Category, CaseInsensitive: &caseInsensitive},
			},
		})
	}
	if f.MinPrice != nil || f.MaxPrice != nil {
		r := types.NumberRangeQuery{}
		if f.MinPrice != nil {
			gte := types.Float64(*f.MinPrice)
			r.Gte = &gte
		}
		if f.MaxPrice != nil {
			lte := types.Float64(*f.MaxPrice)
			r.Lte = &lte
		}
		filters = append(filters, types.Query{Range: map[string]types.RangeQuery{"price": r}})
	}
	if f.InStock {
		zero := types.Float64(0)
		filters = append(filters, types.Query{
			Range: map[string]types.RangeQuery{"stock": types.NumberRangeQuery{Gt: &zero}},
		})
	}
	if text := strings.TrimSpace(f.Search); text != "" {
		must = append(must, types.Query{
			MultiMatch: &types.MultiMatchQuery{
				Query:  text,
				Fields: searchFields,
			},
		})
	}

	if len(filters) == 0 && len(must) == 0 {
		return &types.Query{MatchAll: types.NewMatchAllQuery()}
	}
	return &types.Query{Bool: &types.BoolQuery{Filter: filters, Must: must}}
}

// sortOptions returns the ordering's sort and the id tie breaker that keeps
// pages from overlapping.
func sortOptions(o domain.Ordering) (primary, tie *types.SortOptions) {
	asc, desc := sortorder.Asc, sortorder.Desc
	field := func(name string, order *sortorder.SortOrder) *types.SortOptions {
		return &types.SortOptions{SortOptions: map[string]types.FieldSort{name: {Order: order}}}
	}

	switch o {
	case domain.OrderPopular:
		primary = field("sales", &desc)
	case domain.OrderPriceAsc:
		primary = field("price", &asc)
	case domain.OrderPriceDesc:
		primary = field("price", &desc)
	case domain.OrderName:
		primary = field("name.keyword", &asc)
	default:
		primary = field("created_at", &desc)
	}
	return primary, field("id", &asc)
}

func mapHits(hits []types.Hit) ([]domain.Product, error) {
	items := make([]domain.Product, 0, len(hits))
	for _, hit := range hits {
		var doc ProductDocument
		if err := json.Unmarshal(hit.Source_, &doc); err != nil {
			return nil, fmt.Errorf("failed to unmarshal document: %w", err)
		}
		items = append(items, doc.toDomain())
	}
	return items, nil
}

func totalOf(total *types.TotalHits) int64 {
	if total == nil {
		return 0
	}
	return total.Value
}

var _ storage.Reader = (*Store)(nil)
