package domain

import (
	"fmt"
	"strings"
)

// Ordering is the direction a product listing is ranked by.
type Ordering string

const (
	OrderNewest    Ordering = "newest"
	OrderPopular   Ordering = "popular"
	OrderPriceAsc  Ordering = "price_asc"
	OrderPriceDesc Ordering = "price_desc"
	OrderName      Ordering = "name"
)

var orderings = []Ordering{OrderNewest, OrderPopular, OrderPriceAsc, OrderPriceDesc, OrderName}

func ParseOrdering(s string) (Ordering, error) {
	if s == "" {
		return OrderNewest, nil
	}
	o := Ordering(strings.ToLower(strings.TrimSpace(s)))
	for _, known := range orderings {
		if o == known {
			return o, nil
		}
	}
	return "", fmt.Errorf("unknown sort %q, expected one of %v", s, orderings)
}

type ProductFilter struct {
	Category string   `json:"category,omitempty" query:"category"`
	Search   string   `json:"search,omitempty" query:"search"`
	MinPrice *float64 `json:"minPrice,omitempty" query:"minPrice"`
	MaxPrice *float64 `json:"maxPrice,omitempty" query:"maxPrice"`
	InStock  bool     `json:"inStock,omitempty" query:"inStock"`
	Sort     Ordering `json:"sort,omitempty" query:"sort"`
}

// Matches reports whether p passes every set criterion of the filter.
// Backends without a query language (in_mem) rely on it.
func (f ProductFilter) Matches(p Product) bool {
	if f.Category != "" && !strings.EqualFold(f.Category, p.Category) {
		return false
	}
	if f.MinPrice != nil && p.Price < *f.MinPrice {
		return false
	}
	if f.MaxPrice != nil && p.Price > *f.MaxPrice {
		return false
	}
	if f.InStock && !p.InStock() {
		return false
	}
	if s := strings.ToLower(strings.TrimSpace(f.Search)); s != "" {
		if !strings.Contains(strings.ToLower(p.Name), s) && !strings.Contains(strings.ToLower(p.Description), s) {
			return false
		}
	}
	return true
}

type ProductQuery struct {
	Filter ProductFilter
	Page   int
	Limit  int
}

func (q ProductQuery) Offset() int {
	if q.Page <= 1 {
		return 0
	}
	return (q.Page - 1) * q.Limit
}
