package sampler

import (
	"fmt"

	"github.com/DjordjeVuckovic/storefront/internal/apperr"
)

// MaxSelection bounds what a caller may ask for in one selection.
const MaxSelection = 50

type Request struct {
	OrderBy  OrderBy `json:"orderBy" query:"orderBy"`
	MinCount int     `json:"min" query:"min"`
	MaxCount int     `json:"max" query:"max"`
}

func (r Request) Validate() error {
	if r.OrderBy != "" && !r.OrderBy.Valid() {
		return apperr.NewValidation(fmt.Sprintf("orderBy must be %q or %q", Recency, Popularity))
	}
	if r.MinCount < 1 {
		return apperr.NewValidation("min must be a positive integer")
	}
	if r.MaxCount < r.MinCount {
		return apperr.NewValidation("max must be greater than or equal to min")
	}
	if r.MaxCount > MaxSelection {
		return apperr.NewValidation(fmt.Sprintf("max must not exceed %d", MaxSelection))
	}
	return nil
}
