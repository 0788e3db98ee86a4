// Package sqlq builds the WHERE and ORDER BY fragments of product queries
// shared by the SQL backends.
package sqlq

import (
	"fmt"
	"strings"

	"github.com/DjordjeVuckovic/storefront/internal/domain"
)

type Dialect struct {
	// Placeholder renders the n-th (1-based) bind parameter
	Placeholder func(n int) string
	// Like is the case-insensitive pattern operator
	Like string
}

var (
	Postgres = Dialect{
		Placeholder: func(n int) string { return fmt.Sprintf("$%d", n) },
		Like:        "ILIKE",
	}
	SQLite = Dialect{
		Placeholder: func(int) string { return "?" },
		Like:        "LIKE",
	}
)

const Columns = "id, name, description, category, price, stock, image_url, sales, created_at, updated_at"

// Builder accumulates bind arguments so fragments can be appended in order.
type Builder struct {
	d    Dialect
	args []any
}

func New(d Dialect) *Builder {
	return &Builder{d: d}
}

func (b *Builder) Bind(v any) string {
	b.args = append(b.args, v)
	return b.d.Placeholder(len(b.args))
}

func (b *Builder) Args() []any {
	return b.args
}

// Where renders the filter as a WHERE clause, or "" when nothing is filtered.
func (b *Builder) Where(f domain.ProductFilter) string {
	var conds []string

	if f.Category != "" {
		conds = append(conds, fmt.Sprintf("LOWER(category) = LOWER(%s)", b.Bind(f.Category)))
	}
	if f.MinPrice != nil {
		conds = append(conds, fmt.Sprintf("price >= %s", b.Bind(*f.MinPrice)))
	}
	if f.MaxPrice != nil {
		conds = append(conds, fmt.Sprintf("price <= %s", b.Bind(*f.MaxPrice)))
	}
	if f.InStock {
		conds = append(conds, "stock > 0")
	}
	if s := strings.TrimSpace(f.Search); s != "" {
		conds = append(conds, b.Match(s))
	}

	if len(conds) == 0 {
		return ""
	}
	return "WHERE " + strings.Join(conds, " AND ")
}

// Match renders a substring match on name or description.
func (b *Builder) Match(text string) string {
	pattern := "%" + EscapeLike(strings.TrimSpace(text)) + "%"
	return fmt.Sprintf(`(name %[1]s %[2]s ESCAPE '\' OR description %[1]s %[3]s ESCAPE '\')`,
		b.d.Like, b.Bind(pattern), b.Bind(pattern))
}

func (b *Builder) Page(limit, offset int) string {
	return fmt.Sprintf("LIMIT %s OFFSET %s", b.Bind(limit), b.Bind(offset))
}

// OrderBy ranks by ordering, ties broken by id so pages do not overlap.
func OrderBy(o domain.Ordering) string {
	switch o {
	case domain.OrderPopular:
		return "ORDER BY sales DESC, id ASC"
	case domain.OrderPriceAsc:
		return "ORDER BY price ASC, id ASC"
	case domain.OrderPriceDesc:
		return "ORDER BY price DESC, id ASC"
	case domain.OrderName:
		return "ORDER BY LOWER(name) ASC, id ASC"
	default:
		return "ORDER BY created_at DESC, id ASC"
	}
}

func EscapeLike(s string) string {
	r := strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)
	return r.Replace(s)
}
