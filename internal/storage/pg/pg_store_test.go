//go:build integration

package pg

import (
	"context"
	"os"
	"testing"
	"time"

	"github.com/DjordjeVuckovic/storefront/internal/domain"
	"github.com/DjordjeVuckovic/storefront/internal/storage"
	pkgtesting "github.com/DjordjeVuckovic/storefront/pkg/testing"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
)

var (
	testCtx  context.Context
	testPool *ConnectionPool
)

func TestMain(m *testing.M) {
	testCtx = context.Background()

	pg, err := pkgtesting.NewPGContainer(testCtx, pkgtesting.PGConfig{})
	if err != nil {
		panic(err)
	}

	testPool, err = NewConnectionPool(testCtx, PoolConfig{ConnStr: pg.ConnString})
	if err != nil {
		_ = testcontainers.TerminateContainer(pg.Container)
		panic(err)
	}

	code := m.Run()
	testPool.Close()
	_ = testcontainers.TerminateContainer(pg.Container)
	os.Exit(code)
}

func truncateTable(t *testing.T) {
	t.Helper()
	_, err := testPool.GetConn().Exec(testCtx, "TRUNCATE TABLE products")
	require.NoError(t, err)
}

var base = time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC)

func fixtures() []domain.Product {
	return []domain.Product{
		{ID: "kettle", Name: "Steel Kettle", Category: "kitchen", Price: 30, Stock: 3, Sales: 40, CreatedAt: base.Add(1 * time.Hour)},
		{ID: "mug", Name: "Mug", Description: "fits a kettle worth of tea", Category: "kitchen", Price: 8, Stock: 0, Sales: 90, CreatedAt: base.Add(2 * time.Hour)},
		{ID: "lamp", Name: "Desk Lamp", Category: "office", Price: 45, Stock: 10, Sales: 15, CreatedAt: base.Add(3 * time.Hour)},
		{ID: "chair", Name: "Chair", Category: "office", Price: 120, Stock: 1, Sales: 40, CreatedAt: base},
	}
}

func ids(ps []domain.Product) []string {
	out := make([]string, len(ps))
	for i, p := range ps {
		out[i] = p.ID
	}
	return out
}

func TestStorer_SaveBulkUpserts(t *testing.T) {
	truncateTable(t)
	storer, err := NewStorer(testPool)
	require.NoError(t, err)
	reader, err := NewReader(testPool)
	require.NoError(t, err)

	require.NoError(t, storer.SaveBulk(testCtx, fixtures()))
	require.NoError(t, storer.SaveBulk(testCtx, []domain.Product{{ID: "mug", Name: "Big Mug", Category: "kitchen", CreatedAt: base}}))

	got, err := reader.Get(testCtx, "mug")
	require.NoError(t, err)
	assert.Equal(t, "Big Mug", got.Name)

	_, total, err := reader.List(testCtx, domain.ProductQuery{Page: 1, Limit: 10})
	require.NoError(t, err)
	assert.Equal(t, int64(4), total)
}

func TestReader_List(t *testing.T) {
	truncateTable(t)
	storer, _ := NewStorer(testPool)
	reader, _ := NewReader(testPool)
	require.NoError(t, storer.SaveBulk(testCtx, fixtures()))

	items, total, err := reader.List(testCtx, domain.ProductQuery{
		Filter: domain.ProductFilter{Category: "Office", Sort: domain.OrderPriceDesc},
		Page:   1,
		Limit:  1,
	})
	require.NoError(t, err)
	assert.Equal(t, int64(2), total)
	assert.Equal(t, []string{"chair"}, ids(items))

	items, _, err = reader.List(testCtx, domain.ProductQuery{Filter: domain.ProductFilter{Search: "KETTLE"}, Page: 1, Limit: 10})
	require.NoError(t, err)
	assert.Equal(t, []string{"mug", "kettle"}, ids(items))
}

func TestReader_CandidatesAndDelete(t *testing.T) {
	truncateTable(t)
	storer, _ := NewStorer(testPool)
	reader, _ := NewReader(testPool)
	require.NoError(t, storer.SaveBulk(testCtx, fixtures()))

	items, err := reader.Candidates(testCtx, domain.OrderPopular, 3)
	require.NoError(t, err)
	assert.Equal(t, []string{"mug", "chair", "kettle"}, ids(items))

	require.NoError(t, storer.Delete(testCtx, "mug"))
	_, err = reader.Get(testCtx, "mug")
	assert.ErrorIs(t, err, storage.ErrNotFound)
	assert.ErrorIs(t, storer.Delete(testCtx, "mug"), storage.ErrNotFound)
}

func TestSearcher_Search(t *testing.T) {
	truncateTable(t)
	storer, _ := NewStorer(testPool)
	require.NoError(t, storer.SaveBulk(testCtx, fixtures()))

	items, total, err := NewSearcher(testPool).Search(testCtx, "kettles", 1, 10)
	require.NoError(t, err)
	assert.Equal(t, int64(2), total)
	// a name hit outranks a description hit
	assert.Equal(t, []string{"kettle", "mug"}, ids(items))
}

func TestHealthChecker(t *testing.T) {
	hc := NewHealthChecker(testPool)
	assert.Equal(t, "catalog_postgres", hc.Name())
	assert.False(t, NewHealthChecker(nil).Healthy(testCtx))

	// an empty catalog is still healthy
	truncateTable(t)
	assert.True(t, hc.Healthy(testCtx))

	storer, _ := NewStorer(testPool)
	require.NoError(t, storer.SaveBulk(testCtx, fixtures()))
	assert.True(t, hc.Healthy(testCtx))
}

func TestHealthChecker_CancelledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(testCtx)
	cancel()
	assert.False(t, NewHealthChecker(testPool).WithTimeout(time.Second).Healthy(ctx))
}
