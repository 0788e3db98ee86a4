package domain

import (
	"cmp"
	"strings"
)

// Compare returns a comparator for slices.SortStableFunc ranking products by o.
// Equal keys compare as 0 so a stable sort keeps their input order.
func Compare(o Ordering) func(a, b Product) int {
	switch o {
	case OrderPopular:
		return func(a, b Product) int {
			return cmp.Compare(b.Popularity(), a.Popularity())
		}
	case OrderPriceAsc:
		return func(a, b Product) int {
			return cmp.Compare(a.Price, b.Price)
		}
	case OrderPriceDesc:
		return func(a, b Product) int {
			return cmp.Compare(b.Price, a.Price)
		}
	case OrderName:
		return func(a, b Product) int {
			return strings.Compare(strings.ToLower(a.Name), strings.ToLower(b.Name))
		}
	default:
		return func(a, b Product) int {
			return b.CreatedAt.Compare(a.CreatedAt)
		}
	}
}
