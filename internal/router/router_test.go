package router

import (
	"context"
	"encoding/json"
	"fmt"
	"math/rand/v2"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/DjordjeVuckovic/storefront/internal/apperr"
	"github.com/DjordjeVuckovic/storefront/internal/catalog"
	"github.com/DjordjeVuckovic/storefront/internal/domain"
	"github.com/DjordjeVuckovic/storefront/internal/rotation"
	"github.com/DjordjeVuckovic/storefront/internal/sampler"
	"github.com/DjordjeVuckovic/storefront/internal/storage/in_mem"
	"github.com/DjordjeVuckovic/storefront/pkg/pagination"
	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var base = time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)

func newTestService(t *testing.T, n int) *catalog.Service {
	t.Helper()
	store := in_mem.NewStore()
	products := make([]domain.Product, n)
	for i := range products {
		products[i] = domain.Product{
			ID:          fmt.Sprintf("p%02d", i),
			Name:        fmt.Sprintf("Chair %02d", i),
			Description: "solid oak",
			Category:    "furniture",
			Price:       float64(20 + i),
			Stock:       i % 2,
			Sales:       int64(i),
			CreatedAt:   base.Add(-time.Duration(i) * time.Hour),
		}
	}
	require.NoError(t, store.SaveBulk(context.Background(), products))

	rng := sampler.WithRand(rand.New(rand.NewPCG(7, 7)))
	return catalog.NewService(store, store, store, catalog.WithSampler(sampler.New(rng)))
}

func newTestEcho(svc *catalog.Service, opts ...SelectionRouterOption) *echo.Echo {
	e := echo.New()
	e.HTTPErrorHandler = apperr.GlobalErrorHandler()
	NewProductRouter(e, svc).Bind()
	NewSelectionRouter(e, svc, opts...).Bind()
	return e
}

func do(t *testing.T, e *echo.Echo, method, target, body string) *httptest.ResponseRecorder {
	t.Helper()
	var req *http.Request
	if body != "" {
		req = httptest.NewRequest(method, target, strings.NewReader(body))
		req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	} else {
		req = httptest.NewRequest(method, target, nil)
	}
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)
	return rec
}

func decode[T any](t *testing.T, rec *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &v), rec.Body.String())
	return v
}

func TestProductRouter_List(t *testing.T) {
	e := newTestEcho(newTestService(t, 30))

	rec := do(t, e, http.MethodGet, "/api/v1/products?page=2&limit=10", "")
	require.Equal(t, http.StatusOK, rec.Code)

	page := decode[pagination.Page[domain.Product]](t, rec)
	assert.Len(t, page.Data, 10)
	assert.Equal(t, pagination.Envelope{Page: 2, Limit: 10, Total: 30, Pages: 3, HasNextPage: true, HasPrevPage: true}, page.Pagination)
	assert.Equal(t, "p10", page.Data[0].ID, "newest first")
}

func TestProductRouter_ListClampsPastTheEnd(t *testing.T) {
	e := newTestEcho(newTestService(t, 25))

	rec := do(t, e, http.MethodGet, "/api/v1/products?page=40&limit=10", "")
	require.Equal(t, http.StatusOK, rec.Code)

	page := decode[pagination.Page[domain.Product]](t, rec)
	assert.Equal(t, 3, page.Pagination.Page)
	assert.Len(t, page.Data, 5)
}

func TestProductRouter_ListFilters(t *testing.T) {
	e := newTestEcho(newTestService(t, 30))

	rec := do(t, e, http.MethodGet, "/api/v1/products?inStock=true&minPrice=30&maxPrice=40&sort=price_desc", "")
	require.Equal(t, http.StatusOK, rec.Code)

	page := decode[pagination.Page[domain.Product]](t, rec)
	require.NotEmpty(t, page.Data)
	prev := page.Data[0].Price
	for _, p := range page.Data {
		assert.Positive(t, p.Stock)
		assert.GreaterOrEqual(t, p.Price, 30.0)
		assert.LessOrEqual(t, p.Price, 40.0)
		assert.LessOrEqual(t, p.Price, prev)
		prev = p.Price
	}
}

func TestProductRouter_ListValidation(t *testing.T) {
	e := newTestEcho(newTestService(t, 3))

	tests := []struct {
		name  string
		query string
	}{
		{name: "limit too large", query: "limit=101"},
		{name: "limit zero", query: "limit=0"},
		{name: "page not a number", query: "page=two"},
		{name: "inverted price range", query: "minPrice=10&maxPrice=5"},
		{name: "unknown sort", query: "sort=random"},
		{name: "bad bool", query: "inStock=maybe"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := do(t, e, http.MethodGet, "/api/v1/products?"+tt.query, "")
			assert.Equal(t, http.StatusBadRequest, rec.Code)
			assert.NotEmpty(t, decode[apperr.ErrorResponse](t, rec).Error)
		})
	}
}

func TestProductRouter_CRUD(t *testing.T) {
	e := newTestEcho(newTestService(t, 0))

	rec := do(t, e, http.MethodPost, "/api/v1/products", `{"name":"Desk","price":120,"stock":3,"category":"furniture"}`)
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	created := decode[domain.Product](t, rec)
	require.NotEmpty(t, created.ID)
	assert.False(t, created.CreatedAt.IsZero())

	rec = do(t, e, http.MethodGet, "/api/v1/products/"+created.ID, "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "Desk", decode[domain.Product](t, rec).Name)

	rec = do(t, e, http.MethodPut, "/api/v1/products/"+created.ID, `{"name":"Standing desk","price":240,"stock":1}`)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	updated := decode[domain.Product](t, rec)
	assert.Equal(t, "Standing desk", updated.Name)
	assert.True(t, created.CreatedAt.Equal(updated.CreatedAt), "update keeps createdAt")

	rec = do(t, e, http.MethodPut, "/api/v1/products/"+created.ID, `{"id":"other","name":"x","price":1}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = do(t, e, http.MethodDelete, "/api/v1/products/"+created.ID, "")
	assert.Equal(t, http.StatusNoContent, rec.Code)

	rec = do(t, e, http.MethodGet, "/api/v1/products/"+created.ID, "")
	assert.Equal(t, http.StatusNotFound, rec.Code)

	rec = do(t, e, http.MethodDelete, "/api/v1/products/"+created.ID, "")
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestProductRouter_CreateValidation(t *testing.T) {
	e := newTestEcho(newTestService(t, 0))

	rec := do(t, e, http.MethodPost, "/api/v1/products", `{"price":10}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = do(t, e, http.MethodPost, "/api/v1/products", `{"name":`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestProductRouter_Search(t *testing.T) {
	e := newTestEcho(newTestService(t, 15))

	rec := do(t, e, http.MethodGet, "/api/v1/search?q=chair%2001&limit=5", "")
	require.Equal(t, http.StatusOK, rec.Code)
	page := decode[pagination.Page[domain.Product]](t, rec)
	require.NotEmpty(t, page.Data)
	assert.Equal(t, "p01", page.Data[0].ID)

	rec = do(t, e, http.MethodGet, "/api/v1/search", "")
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestSelectionRouter_LatestAndFeatured(t *testing.T) {
	e := newTestEcho(newTestService(t, 40))

	rec := do(t, e, http.MethodGet, "/api/v1/selections/latest?min=4&max=8", "")
	require.Equal(t, http.StatusOK, rec.Code)
	latest := decode[SelectionResponse](t, rec)
	assert.Equal(t, sampler.Recency, latest.OrderBy)
	assert.GreaterOrEqual(t, len(latest.Data), 4)
	assert.LessOrEqual(t, len(latest.Data), 8)
	assert.Equal(t, "p00", latest.Data[0].ID, "newest item is guaranteed")
	assert.Nil(t, latest.ComputedAt)

	rec = do(t, e, http.MethodGet, "/api/v1/selections/featured?min=3&max=3", "")
	require.Equal(t, http.StatusOK, rec.Code)
	featured := decode[SelectionResponse](t, rec)
	assert.Equal(t, sampler.Popularity, featured.OrderBy)
	require.Len(t, featured.Data, 3)
	assert.Equal(t, "p39", featured.Data[0].ID, "best seller is guaranteed")
}

func TestSelectionRouter_Sample(t *testing.T) {
	e := newTestEcho(newTestService(t, 10))

	rec := do(t, e, http.MethodGet, "/api/v1/selections?orderBy=popularity&min=2&max=2", "")
	require.Equal(t, http.StatusOK, rec.Code)
	got := decode[SelectionResponse](t, rec)
	assert.Equal(t, sampler.Popularity, got.OrderBy)
	assert.Len(t, got.Data, 2)

	rec = do(t, e, http.MethodGet, "/api/v1/selections?min=2&max=2", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, sampler.Recency, decode[SelectionResponse](t, rec).OrderBy)
}

func TestSelectionRouter_SmallCatalogReturnsEverything(t *testing.T) {
	e := newTestEcho(newTestService(t, 2))

	rec := do(t, e, http.MethodGet, "/api/v1/selections/latest?min=4&max=8", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Len(t, decode[SelectionResponse](t, rec).Data, 2)
}

func TestSelectionRouter_Validation(t *testing.T) {
	e := newTestEcho(newTestService(t, 5))

	for _, target := range []string{
		"/api/v1/selections/latest?min=0",
		"/api/v1/selections/latest?min=5&max=2",
		"/api/v1/selections/featured?max=51",
		"/api/v1/selections/featured?refresh=sometimes",
		"/api/v1/selections?orderBy=price",
		"/api/v1/highlights?min=x",
	} {
		t.Run(target, func(t *testing.T) {
			rec := do(t, e, http.MethodGet, target, "")
			assert.Equal(t, http.StatusBadRequest, rec.Code)
		})
	}
}

func TestSelectionRouter_FeaturedServesRotationSnapshot(t *testing.T) {
	svc := newTestService(t, 40)
	computed := base.Add(5 * time.Minute)
	rot, err := rotation.New("*/5 * * * *", func(ctx context.Context) ([]domain.Product, error) {
		return svc.Featured(ctx, 6, 6)
	}, rotation.WithClock(func() time.Time { return computed }))
	require.NoError(t, err)
	snap, err := rot.Refresh(context.Background())
	require.NoError(t, err)

	e := newTestEcho(svc, WithRotation(rot))

	rec := do(t, e, http.MethodGet, "/api/v1/selections/featured?min=4&max=8", "")
	require.Equal(t, http.StatusOK, rec.Code)
	got := decode[SelectionResponse](t, rec)
	require.NotNil(t, got.ComputedAt)
	assert.True(t, computed.Equal(*got.ComputedAt))
	assert.Equal(t, ids(snap.Items), ids(got.Data))

	rec = do(t, e, http.MethodGet, "/api/v1/selections/featured?min=4&max=8&refresh=true", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Nil(t, decode[SelectionResponse](t, rec).ComputedAt, "refresh draws a live selection")

	rec = do(t, e, http.MethodGet, "/api/v1/selections/featured?min=2&max=3", "")
	require.Equal(t, http.StatusOK, rec.Code)
	live := decode[SelectionResponse](t, rec)
	assert.Nil(t, live.ComputedAt, "snapshot larger than max is not served")
	assert.LessOrEqual(t, len(live.Data), 3)
}

func TestSelectionRouter_Highlights(t *testing.T) {
	e := newTestEcho(newTestService(t, 20))

	rec := do(t, e, http.MethodGet, "/api/v1/highlights?min=3&max=5", "")
	require.Equal(t, http.StatusOK, rec.Code)

	h := decode[catalog.Highlights](t, rec)
	assert.NotEmpty(t, h.Featured)
	assert.NotEmpty(t, h.Latest)
	assert.Equal(t, "p19", h.Featured[0].ID)
	assert.Equal(t, "p00", h.Latest[0].ID)
}

func ids(ps []domain.Product) []string {
	out := make([]string, len(ps))
	for i, p := range ps {
		out[i] = p.ID
	}
	return out
}
