package main

import (
	"bytes"
	"context"
	"fmt"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/DjordjeVuckovic/storefront/internal/apperr"
	"github.com/DjordjeVuckovic/storefront/internal/catalog"
	"github.com/DjordjeVuckovic/storefront/internal/domain"
	"github.com/DjordjeVuckovic/storefront/internal/router"
	"github.com/DjordjeVuckovic/storefront/internal/storage/in_mem"
	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newAPI(t *testing.T, n int) *httptest.Server {
	t.Helper()
	store := in_mem.NewStore()
	base := time.Date(2024, 2, 1, 0, 0, 0, 0, time.UTC)
	for i := range n {
		_, err := store.Save(context.Background(), domain.Product{
			ID:        fmt.Sprintf("sku-%02d", i),
			Name:      fmt.Sprintf("Vase %02d", i),
			Price:     10,
			Stock:     1,
			Sales:     int64(i),
			CreatedAt: base.Add(time.Duration(i) * time.Hour),
		})
		require.NoError(t, err)
	}

	svc := catalog.NewService(store, store, store)
	e := echo.New()
	e.HTTPErrorHandler = apperr.GlobalErrorHandler()
	router.NewProductRouter(e, svc).Bind()
	router.NewSelectionRouter(e, svc).Bind()

	srv := httptest.NewServer(e)
	t.Cleanup(srv.Close)
	return srv
}

func run(t *testing.T, stdin string, args ...string) (string, error) {
	t.Helper()
	var out bytes.Buffer
	cmd := newRootCmd()
	cmd.SetArgs(args)
	cmd.SetIn(strings.NewReader(stdin))
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	err := cmd.Execute()
	return out.String(), err
}

func TestBrowse_NavigatesPages(t *testing.T) {
	srv := newAPI(t, 25)

	out, err := run(t, "next\nnext\nnext\np\n1\nq\n", "browse", "--api", srv.URL, "--rps", "0", "--limit", "10")
	require.NoError(t, err)

	assert.Contains(t, out, "page 1/3, 25 products [next]")
	assert.Contains(t, out, "page 2/3, 25 products [prev|next]")
	assert.Contains(t, out, "page 3/3, 25 products [prev]")
	assert.Equal(t, 2, strings.Count(out, "page 3/3"), "next on the last page is a no-op")
	assert.Contains(t, out, "sku-24", "newest first")
}

func TestBrowse_JumpPastTheEndIsClampedByServer(t *testing.T) {
	srv := newAPI(t, 25)

	out, err := run(t, "9\n", "browse", "--api", srv.URL, "--rps", "0", "--limit", "10")
	require.NoError(t, err)
	assert.Contains(t, out, "page 3/3")
}

func TestBrowse_StartPageAndFilters(t *testing.T) {
	srv := newAPI(t, 25)

	out, err := run(t, "", "browse", "--api", srv.URL, "--rps", "0", "--limit", "5", "--page", "2", "--sort", "popular")
	require.NoError(t, err)
	assert.Contains(t, out, "page 2/5")
	assert.Contains(t, out, "sku-19")
}

func TestBrowse_ServerErrorIsReported(t *testing.T) {
	srv := newAPI(t, 3)

	_, err := run(t, "", "browse", "--api", srv.URL, "--rps", "0", "--limit", "500")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "limit")
}

func TestSearch_SingleQuery(t *testing.T) {
	srv := newAPI(t, 12)

	out, err := run(t, "", "search", "vase 03", "--api", srv.URL, "--rps", "0")
	require.NoError(t, err)
	assert.Contains(t, out, `"vase 03": 1 hits`)
	assert.Contains(t, out, "sku-03")
}

func TestSearch_OnlyLastKeystrokeIsSearched(t *testing.T) {
	srv := newAPI(t, 12)

	out, err := run(t, "v\nva\nvas\nvase 1\n", "search", "--api", srv.URL, "--rps", "0", "--debounce", "1h")
	require.NoError(t, err)
	assert.Equal(t, 1, strings.Count(out, "hits"), out)
	assert.Contains(t, out, `"vase 1": 2 hits`)
}

func TestFeaturedAndLatest(t *testing.T) {
	srv := newAPI(t, 30)

	out, err := run(t, "", "featured", "--api", srv.URL, "--rps", "0", "--min", "3", "--max", "3", "--refresh")
	require.NoError(t, err)
	assert.Contains(t, out, "popularity selection, 3 products")
	assert.Contains(t, out, "sku-29")

	out, err = run(t, "", "latest", "--api", srv.URL, "--rps", "0", "--min", "2", "--max", "2")
	require.NoError(t, err)
	assert.Contains(t, out, "recency selection, 2 products")
	assert.Contains(t, out, "sku-29")

	_, err = run(t, "", "latest", "--api", srv.URL, "--rps", "0", "--min", "5", "--max", "1")
	assert.Error(t, err)
}

func TestSample_Offline(t *testing.T) {
	path := filepath.Join(t.TempDir(), "catalog.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`kind: Catalog
metadata:
  name: test
products:
  - id: a
    name: Alpha
    price: 1
    sales: 50
    createdAt: 2024-01-01T00:00:00Z
  - id: b
    name: Beta
    price: 1
    sales: 10
    createdAt: 2024-01-03T00:00:00Z
  - id: c
    name: Gamma
    price: 1
    sales: 30
    createdAt: 2024-01-02T00:00:00Z
`), 0o644))

	out, err := run(t, "", "sample", "-f", path, "--order-by", "popularity", "--min", "4", "--max", "8")
	require.NoError(t, err)
	assert.Contains(t, out, "round 1: popularity selection, 3 products")
	assert.Less(t, strings.Index(out, "Alpha"), strings.Index(out, "Gamma"))
	assert.Less(t, strings.Index(out, "Gamma"), strings.Index(out, "Beta"))

	out, err = run(t, "", "sample", "-f", path, "--order-by", "recency", "--min", "1", "--max", "1", "--rounds", "3", "--seed", "42")
	require.NoError(t, err)
	assert.Equal(t, 3, strings.Count(out, "recency selection, 1 products"))
	assert.Equal(t, 3, strings.Count(out, "Beta"), "the newest item is always guaranteed")

	_, err = run(t, "", "sample", "-f", path, "--order-by", "price")
	assert.Error(t, err)
}
