package router

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/DjordjeVuckovic/storefront/internal/apperr"
	"github.com/DjordjeVuckovic/storefront/internal/domain"
	"github.com/DjordjeVuckovic/storefront/pkg/pagination"
	"github.com/labstack/echo/v4"
)

func queryInt(c echo.Context, name string, def int) (int, error) {
	raw := strings.TrimSpace(c.QueryParam(name))
	if raw == "" {
		return def, nil
	}
	n, err := strconv.Atoi(raw)
	if err != nil {
		return 0, apperr.NewValidation(fmt.Sprintf("%s must be an integer", name))
	}
	return n, nil
}

func queryFloat(c echo.Context, name string) (*float64, error) {
	raw := strings.TrimSpace(c.QueryParam(name))
	if raw == "" {
		return nil, nil
	}
	f, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return nil, apperr.NewValidation(fmt.Sprintf("%s must be a number", name))
	}
	return &f, nil
}

func queryBool(c echo.Context, name string) (bool, error) {
	raw := strings.TrimSpace(c.QueryParam(name))
	if raw == "" {
		return false, nil
	}
	b, err := strconv.ParseBool(raw)
	if err != nil {
		return false, apperr.NewValidation(fmt.Sprintf("%s must be true or false", name))
	}
	return b, nil
}

// pageParams reads page and limit. Page is clamped, a limit outside
// 1..PageMaxLimit is rejected.
func pageParams(c echo.Context) (pagination.Request, error) {
	page, err := queryInt(c, "page", 1)
	if err != nil {
		return pagination.Request{}, err
	}
	limit, err := queryInt(c, "limit", pagination.PageDefaultLimit)
	if err != nil {
		return pagination.Request{}, err
	}
	if limit < 1 || limit > pagination.PageMaxLimit {
		return pagination.Request{}, apperr.NewValidation(fmt.Sprintf("limit must be between 1 and %d", pagination.PageMaxLimit))
	}
	req := pagination.Request{Page: page, Limit: limit}
	req.Normalize()
	return req, nil
}

func filterParams(c echo.Context) (domain.ProductFilter, error) {
	var f domain.ProductFilter
	var err error

	f.Category = strings.TrimSpace(c.QueryParam("category"))
	f.Search = strings.TrimSpace(c.QueryParam("search"))
	if f.MinPrice, err = queryFloat(c, "minPrice"); err != nil {
		return f, err
	}
	if f.MaxPrice, err = queryFloat(c, "maxPrice"); err != nil {
		return f, err
	}
	if f.MinPrice != nil && f.MaxPrice != nil && *f.MinPrice > *f.MaxPrice {
		return f, apperr.NewValidation("minPrice must not exceed maxPrice")
	}
	if f.InStock, err = queryBool(c, "inStock"); err != nil {
		return f, err
	}
	if f.Sort, err = domain.ParseOrdering(c.QueryParam("sort")); err != nil {
		return f, apperr.NewValidationWrap("invalid sort", err)
	}
	return f, nil
}
