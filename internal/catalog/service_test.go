package catalog

import (
	"context"
	"errors"
	"fmt"
	"math/rand/v2"
	"testing"
	"time"

	"github.com/DjordjeVuckovic/storefront/internal/apperr"
	"github.com/DjordjeVuckovic/storefront/internal/domain"
	"github.com/DjordjeVuckovic/storefront/internal/metrics"
	"github.com/DjordjeVuckovic/storefront/internal/sampler"
	"github.com/DjordjeVuckovic/storefront/internal/storage/in_mem"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var base = time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC)

type countingSearcher struct {
	*in_mem.Store
	calls int
}

func (c *countingSearcher) Search(ctx context.Context, text string, page, limit int) ([]domain.Product, int64, error) {
	c.calls++
	return c.Store.Search(ctx, text, page, limit)
}

type brokenReader struct{ *in_mem.Store }

func (brokenReader) Candidates(context.Context, domain.Ordering, int) ([]domain.Product, error) {
	return nil, errors.New("connection reset")
}

func newCatalog(t *testing.T, n int) (*in_mem.Store, []domain.Product) {
	t.Helper()
	store := in_mem.NewStore()
	products := make([]domain.Product, n)
	for i := range products {
		products[i] = domain.Product{
			ID:        fmt.Sprintf("p%02d", i),
			Name:      fmt.Sprintf("Lamp %02d", i),
			Category:  "lighting",
			Price:     float64(10 + i),
			Stock:     i % 3,
			Sales:     int64(i * 10),
			CreatedAt: base.Add(time.Duration(n-i) * time.Hour),
		}
	}
	require.NoError(t, store.SaveBulk(context.Background(), products))
	return store, products
}

func seededSampler(seed uint64) *sampler.Sampler {
	return sampler.New(sampler.WithRand(rand.New(rand.NewPCG(seed, seed))))
}

func TestService_List(t *testing.T) {
	store, _ := newCatalog(t, 30)
	svc := NewService(store, store, store)

	page, err := svc.List(context.Background(), domain.ProductQuery{Page: 3, Limit: 12})
	require.NoError(t, err)
	assert.Len(t, page.Data, 6)
	assert.Equal(t, int64(30), page.Pagination.Total)
	assert.Equal(t, 3, page.Pagination.Pages)
	assert.False(t, page.Pagination.HasNextPage)
	assert.True(t, page.Pagination.HasPrevPage)

	page, err = svc.List(context.Background(), domain.ProductQuery{Page: 9, Limit: 12})
	require.NoError(t, err)
	assert.Equal(t, 3, page.Pagination.Page, "past the end clamps to the last page")
	assert.Len(t, page.Data, 6)

	page, err = svc.List(context.Background(), domain.ProductQuery{Page: 0, Limit: 500})
	require.NoError(t, err)
	assert.Equal(t, 1, page.Pagination.Page)
	assert.Equal(t, 100, page.Pagination.Limit)
}

func TestService_GetSaveDelete(t *testing.T) {
	store, _ := newCatalog(t, 3)
	svc := NewService(store, store, store)
	ctx := context.Background()

	_, err := svc.Get(ctx, "missing")
	var nf *apperr.NotFoundError
	require.ErrorAs(t, err, &nf)
	assert.Equal(t, "missing", nf.ID)

	_, err = svc.Save(ctx, domain.Product{Name: "  "})
	var ve *apperr.ValidationError
	assert.ErrorAs(t, err, &ve)

	saved, err := svc.Save(ctx, domain.Product{Name: "Floor Lamp", Price: 99})
	require.NoError(t, err)
	assert.NotEmpty(t, saved.ID)
	assert.Equal(t, domain.ProductDefaultCategory, saved.Category)

	require.NoError(t, svc.Delete(ctx, saved.ID))
	assert.ErrorAs(t, svc.Delete(ctx, saved.ID), &nf)
}

func TestService_SearchIsCached(t *testing.T) {
	store, _ := newCatalog(t, 5)
	searcher := &countingSearcher{Store: store}
	m := metrics.New()
	svc := NewService(store, store, searcher, WithMetrics(m))
	ctx := context.Background()

	first, err := svc.Search(ctx, "lamp", 1, 2)
	require.NoError(t, err)
	second, err := svc.Search(ctx, "lamp", 1, 2)
	require.NoError(t, err)

	assert.Equal(t, 1, searcher.calls)
	assert.Same(t, first, second)
	assert.Equal(t, int64(5), first.Pagination.Total)
	assert.Equal(t, 1.0, testutil.ToFloat64(m.SearchCache.WithLabelValues("hit")))

	_, err = svc.Search(ctx, "lamp", 2, 2)
	require.NoError(t, err)
	assert.Equal(t, 2, searcher.calls, "different page is a different key")

	_, err = svc.Save(ctx, domain.Product{Name: "Lamp shade"})
	require.NoError(t, err)
	refreshed, err := svc.Search(ctx, "lamp", 1, 2)
	require.NoError(t, err)
	assert.Equal(t, 3, searcher.calls, "writes purge the cache")
	assert.Equal(t, int64(6), refreshed.Pagination.Total)
}

func TestService_SearchWithoutCache(t *testing.T) {
	store, _ := newCatalog(t, 2)
	searcher := &countingSearcher{Store: store}
	svc := NewService(store, store, searcher, WithSearchCache(0, 0))

	for range 3 {
		_, err := svc.Search(context.Background(), "lamp", 1, 10)
		require.NoError(t, err)
	}
	assert.Equal(t, 3, searcher.calls)

	_, err := svc.Search(context.Background(), " ", 1, 10)
	var ve *apperr.ValidationError
	assert.ErrorAs(t, err, &ve)
}

func TestService_Featured(t *testing.T) {
	store, products := newCatalog(t, 30)
	m := metrics.New()
	svc := NewService(store, store, store, WithSampler(seededSampler(7)), WithMetrics(m))

	selection, err := svc.Featured(context.Background(), 4, 8)
	require.NoError(t, err)
	require.GreaterOrEqual(t, len(selection), 4)
	require.LessOrEqual(t, len(selection), 8)

	// the best seller always leads
	assert.Equal(t, products[29].ID, selection[0].ID)

	seen := map[string]bool{}
	for _, p := range selection {
		assert.False(t, seen[p.ID], "duplicate %s", p.ID)
		seen[p.ID] = true
		// pool is the top 20 by sales, p10..p29
		assert.GreaterOrEqual(t, p.Sales, int64(100))
	}
	assert.Equal(t, 1.0, testutil.ToFloat64(m.SelectionsServed.WithLabelValues(KindFeatured, "live")))
}

func TestService_LatestOnSmallCatalog(t *testing.T) {
	store, products := newCatalog(t, 3)
	svc := NewService(store, store, store)

	selection, err := svc.Latest(context.Background(), 5, 10)
	require.NoError(t, err)
	// fewer items than requested returns the whole catalog newest first
	assert.Equal(t, []string{products[0].ID, products[1].ID, products[2].ID}, ids(selection))
}

func TestService_Highlights(t *testing.T) {
	store, products := newCatalog(t, 30)
	svc := NewService(store, store, store, WithSampler(seededSampler(11)))

	h, err := svc.Highlights(context.Background(), 3, 3)
	require.NoError(t, err)
	assert.Len(t, h.Featured, 3)
	assert.Len(t, h.Latest, 3)
	assert.Equal(t, products[29].ID, h.Featured[0].ID)
	assert.Equal(t, products[0].ID, h.Latest[0].ID)
}

func TestService_HighlightsFailure(t *testing.T) {
	store, _ := newCatalog(t, 3)
	m := metrics.New()
	svc := NewService(brokenReader{store}, store, store, WithMetrics(m))

	_, err := svc.Highlights(context.Background(), 1, 2)
	assert.ErrorContains(t, err, "connection reset")
	assert.GreaterOrEqual(t, testutil.ToFloat64(m.StorageErrors.WithLabelValues("candidates")), 1.0)
}

func TestService_EmptyCatalog(t *testing.T) {
	store := in_mem.NewStore()
	svc := NewService(store, store, store)

	selection, err := svc.Featured(context.Background(), 1, 5)
	require.NoError(t, err)
	assert.Empty(t, selection)
	assert.NotNil(t, selection)
}

func ids(ps []domain.Product) []string {
	out := make([]string, len(ps))
	for i, p := range ps {
		out[i] = p.ID
	}
	return out
}
