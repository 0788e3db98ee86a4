package domain

import (
	"slices"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func ids(ps []Product) []string {
	out := make([]string, len(ps))
	for i, p := range ps {
		out[i] = p.ID
	}
	return out
}

func TestCompare(t *testing.T) {
	base := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	products := []Product{
		{ID: "a", Name: "Kettle", Price: 30, Sales: 5, CreatedAt: base.Add(48 * time.Hour)},
		{ID: "b", Name: "anvil", Price: 10, Sales: 9, CreatedAt: base},
		{ID: "c", Name: "Blender", Price: 20, Sales: 5, CreatedAt: base.Add(24 * time.Hour)},
	}

	tests := []struct {
		ordering Ordering
		want     []string
	}{
		{OrderNewest, []string{"a", "c", "b"}},
		{OrderPopular, []string{"b", "a", "c"}},
		{OrderPriceAsc, []string{"b", "c", "a"}},
		{OrderPriceDesc, []string{"a", "c", "b"}},
		{OrderName, []string{"b", "c", "a"}},
	}

	for _, tt := range tests {
		t.Run(string(tt.ordering), func(t *testing.T) {
			sorted := slices.Clone(products)
			slices.SortStableFunc(sorted, Compare(tt.ordering))
			assert.Equal(t, tt.want, ids(sorted))
		})
	}
}

func TestCompare_PopularityClampsNegativeSales(t *testing.T) {
	products := []Product{{ID: "neg", Sales: -4}, {ID: "zero", Sales: 0}}
	slices.SortStableFunc(products, Compare(OrderPopular))
	assert.Equal(t, []string{"neg", "zero"}, ids(products), "negative sales tie with zero and keep input order")
}

func TestParseOrdering(t *testing.T) {
	o, err := ParseOrdering("")
	require.NoError(t, err)
	assert.Equal(t, OrderNewest, o)

	o, err = ParseOrdering(" Price_Desc ")
	require.NoError(t, err)
	assert.Equal(t, OrderPriceDesc, o)

	_, err = ParseOrdering("random")
	assert.Error(t, err)
}

func TestProductFilter_Matches(t *testing.T) {
	minP, maxP := 10.0, 50.0
	p := Product{ID: "x", Name: "Steel Kettle", Description: "boils water", Category: "Kitchen", Price: 25, Stock: 2}

	assert.True(t, ProductFilter{}.Matches(p))
	assert.True(t, ProductFilter{Category: "kitchen", Search: "WATER", MinPrice: &minP, MaxPrice: &maxP, InStock: true}.Matches(p))
	assert.False(t, ProductFilter{Category: "garden"}.Matches(p))
	assert.False(t, ProductFilter{Search: "toaster"}.Matches(p))
	assert.False(t, ProductFilter{InStock: true}.Matches(Product{Stock: 0}))

	tooHigh := 30.0
	assert.False(t, ProductFilter{MinPrice: &tooHigh}.Matches(p))
}

func TestProductQuery_Offset(t *testing.T) {
	assert.Equal(t, 0, ProductQuery{Page: 0, Limit: 10}.Offset())
	assert.Equal(t, 0, ProductQuery{Page: 1, Limit: 10}.Offset())
	assert.Equal(t, 20, ProductQuery{Page: 3, Limit: 10}.Offset())
}
