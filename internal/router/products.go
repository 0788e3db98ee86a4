package router

import (
	"context"
	"net/http"

	"github.com/DjordjeVuckovic/storefront/internal/apperr"
	"github.com/DjordjeVuckovic/storefront/internal/domain"
	"github.com/DjordjeVuckovic/storefront/pkg/pagination"
	"github.com/labstack/echo/v4"
)

type ProductCatalog interface {
	List(ctx context.Context, q domain.ProductQuery) (*pagination.Page[domain.Product], error)
	Get(ctx context.Context, id string) (*domain.Product, error)
	Save(ctx context.Context, p domain.Product) (*domain.Product, error)
	Delete(ctx context.Context, id string) error
	Search(ctx context.Context, text string, page, limit int) (*pagination.Page[domain.Product], error)
}

type ProductRouter struct {
	e       *echo.Echo
	catalog ProductCatalog
}

func NewProductRouter(e *echo.Echo, catalog ProductCatalog) *ProductRouter {
	return &ProductRouter{
		e:       e,
		catalog: catalog,
	}
}

func (r *ProductRouter) Bind() {
	g := r.e.Group("/api/v1")
	g.GET("/products", r.listHandler)
	g.GET("/products/:id", r.getHandler)
	g.POST("/products", r.createHandler)
	g.PUT("/products/:id", r.updateHandler)
	g.DELETE("/products/:id", r.deleteHandler)
	g.GET("/search", r.searchHandler)
}

// listHandler godoc
// @Summary List products
// @Description Paginated product listing with filters. A page past the end is clamped to the last page.
// @Tags products
// @Produce json
// @Param page query int false "1-based page" default(1)
// @Param limit query int false "page size" default(12) maximum(100)
// @Param category query string false "category, case insensitive"
// @Param search query string false "substring of name or description"
// @Param minPrice query number false "minimum price"
// @Param maxPrice query number false "maximum price"
// @Param inStock query bool false "only products in stock"
// @Param sort query string false "ordering" Enums(newest, popular, price_asc, price_desc, name)
// @Success 200 {object} pagination.Page[domain.Product]
// @Failure 400 {object} apperr.ErrorResponse
// @Router /api/v1/products [get]
func (r *ProductRouter) listHandler(c echo.Context) error {
	req, err := pageParams(c)
	if err != nil {
		return err
	}
	filter, err := filterParams(c)
	if err != nil {
		return err
	}

	page, err := r.catalog.List(c.Request().Context(), domain.ProductQuery{Filter: filter, Page: req.Page, Limit: req.Limit})
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, page)
}

// getHandler godoc
// @Summary Get a product
// @Tags products
// @Produce json
// @Param id path string true "product id"
// @Success 200 {object} domain.Product
// @Failure 404 {object} apperr.ErrorResponse
// @Router /api/v1/products/{id} [get]
func (r *ProductRouter) getHandler(c echo.Context) error {
	p, err := r.catalog.Get(c.Request().Context(), c.Param("id"))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, p)
}

// createHandler godoc
// @Summary Create or replace a product
// @Description The id is generated when omitted.
// @Tags products
// @Accept json
// @Produce json
// @Param product body domain.Product true "product"
// @Success 201 {object} domain.Product
// @Failure 400 {object} apperr.ErrorResponse
// @Router /api/v1/products [post]
func (r *ProductRouter) createHandler(c echo.Context) error {
	var p domain.Product
	if err := c.Bind(&p); err != nil {
		return apperr.NewValidationWrap("invalid product body", err)
	}

	saved, err := r.catalog.Save(c.Request().Context(), p)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusCreated, saved)
}

// updateHandler godoc
// @Summary Replace a product
// @Tags products
// @Accept json
// @Produce json
// @Param id path string true "product id"
// @Param product body domain.Product true "product"
// @Success 200 {object} domain.Product
// @Failure 400 {object} apperr.ErrorResponse
// @Failure 404 {object} apperr.ErrorResponse
// @Router /api/v1/products/{id} [put]
func (r *ProductRouter) updateHandler(c echo.Context) error {
	ctx := c.Request().Context()
	id := c.Param("id")

	var p domain.Product
	if err := (&echo.DefaultBinder{}).BindBody(c, &p); err != nil {
		return apperr.NewValidationWrap("invalid product body", err)
	}
	if p.ID != "" && p.ID != id {
		return apperr.NewValidation("body id does not match path id")
	}

	existing, err := r.catalog.Get(ctx, id)
	if err != nil {
		return err
	}
	p.ID = id
	if p.CreatedAt.IsZero() {
		p.CreatedAt = existing.CreatedAt
	}

	saved, err := r.catalog.Save(ctx, p)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, saved)
}

// deleteHandler godoc
// @Summary Delete a product
// @Tags products
// @Param id path string true "product id"
// @Success 204
// @Failure 404 {object} apperr.ErrorResponse
// @Router /api/v1/products/{id} [delete]
func (r *ProductRouter) deleteHandler(c echo.Context) error {
	if err := r.catalog.Delete(c.Request().Context(), c.Param("id")); err != nil {
		return err
	}
	return c.NoContent(http.StatusNoContent)
}

// searchHandler godoc
// @Summary Free-text product search
// @Tags search
// @Produce json
// @Param q query string true "search text"
// @Param page query int false "1-based page" default(1)
// @Param limit query int false "page size" default(12) maximum(100)
// @Success 200 {object} pagination.Page[domain.Product]
// @Failure 400 {object} apperr.ErrorResponse
// @Router /api/v1/search [get]
func (r *ProductRouter) searchHandler(c echo.Context) error {
	query := c.QueryParam("q")
	if query == "" {
		query = c.QueryParam("query")
	}
	req, err := pageParams(c)
	if err != nil {
		return err
	}

	results, err := r.catalog.Search(c.Request().Context(), query, req.Page, req.Limit)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, results)
}
