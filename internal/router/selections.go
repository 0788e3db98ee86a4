package router

import (
	"context"
	"net/http"
	"time"

	"github.com/DjordjeVuckovic/storefront/internal/catalog"
	"github.com/DjordjeVuckovic/storefront/internal/domain"
	"github.com/DjordjeVuckovic/storefront/internal/metrics"
	"github.com/DjordjeVuckovic/storefront/internal/rotation"
	"github.com/DjordjeVuckovic/storefront/internal/sampler"
	"github.com/labstack/echo/v4"
)

const (
	defaultMinSelection = 4
	defaultMaxSelection = 8
)

type Selector interface {
	Featured(ctx context.Context, minCount, maxCount int) ([]domain.Product, error)
	Latest(ctx context.Context, minCount, maxCount int) ([]domain.Product, error)
	Sample(ctx context.Context, orderBy sampler.OrderBy, minCount, maxCount int) ([]domain.Product, error)
	Highlights(ctx context.Context, minCount, maxCount int) (*catalog.Highlights, error)
}

type SelectionResponse struct {
	Data       []domain.Product `json:"data"`
	OrderBy    sampler.OrderBy  `json:"orderBy"`
	ComputedAt *time.Time       `json:"computedAt,omitempty"`
}

type SelectionRouter struct {
	e        *echo.Echo
	selector Selector
	rotator  *rotation.Rotator
	metrics  *metrics.Metrics
}

type SelectionRouterOption func(*SelectionRouter)

// WithRotation serves featured selections from the rotation snapshot when
// the request does not ask for a refresh and its counts fit the snapshot.
func WithRotation(r *rotation.Rotator) SelectionRouterOption {
	return func(sr *SelectionRouter) {
		sr.rotator = r
	}
}

func WithMetrics(m *metrics.Metrics) SelectionRouterOption {
	return func(sr *SelectionRouter) {
		sr.metrics = m
	}
}

func NewSelectionRouter(e *echo.Echo, selector Selector, opts ...SelectionRouterOption) *SelectionRouter {
	r := &SelectionRouter{
		e:        e,
		selector: selector,
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

func (r *SelectionRouter) Bind() {
	g := r.e.Group("/api/v1")
	g.GET("/selections", r.sampleHandler)
	g.GET("/selections/featured", r.featuredHandler)
	g.GET("/selections/latest", r.latestHandler)
	g.GET("/highlights", r.highlightsHandler)
}

func selectionRequest(c echo.Context, orderBy sampler.OrderBy) (sampler.Request, error) {
	minCount, err := queryInt(c, "min", defaultMinSelection)
	if err != nil {
		return sampler.Request{}, err
	}
	maxCount, err := queryInt(c, "max", max(minCount, defaultMaxSelection))
	if err != nil {
		return sampler.Request{}, err
	}
	if orderBy == "" {
		orderBy = sampler.OrderBy(c.QueryParam("orderBy"))
	}

	req := sampler.Request{OrderBy: orderBy, MinCount: minCount, MaxCount: maxCount}
	if err := req.Validate(); err != nil {
		return sampler.Request{}, err
	}
	if req.OrderBy == "" {
		req.OrderBy = sampler.Recency
	}
	return req, nil
}

// sampleHandler godoc
// @Summary Sample a selection
// @Description Guaranteed top items of the ranked pool followed by a random pick of the rest.
// @Tags selections
// @Produce json
// @Param orderBy query string false "ranking" Enums(recency, popularity) default(recency)
// @Param min query int false "minimum count" default(4)
// @Param max query int false "maximum count" default(8) maximum(50)
// @Success 200 {object} SelectionResponse
// @Failure 400 {object} apperr.ErrorResponse
// @Router /api/v1/selections [get]
func (r *SelectionRouter) sampleHandler(c echo.Context) error {
	req, err := selectionRequest(c, "")
	if err != nil {
		return err
	}
	items, err := r.selector.Sample(c.Request().Context(), req.OrderBy, req.MinCount, req.MaxCount)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, SelectionResponse{Data: items, OrderBy: req.OrderBy})
}

// featuredHandler godoc
// @Summary Featured products
// @Description Popularity selection. Served from the scheduled rotation unless refresh is set.
// @Tags selections
// @Produce json
// @Param min query int false "minimum count" default(4)
// @Param max query int false "maximum count" default(8) maximum(50)
// @Param refresh query bool false "draw a fresh selection"
// @Success 200 {object} SelectionResponse
// @Failure 400 {object} apperr.ErrorResponse
// @Router /api/v1/selections/featured [get]
func (r *SelectionRouter) featuredHandler(c echo.Context) error {
	req, err := selectionRequest(c, sampler.Popularity)
	if err != nil {
		return err
	}
	refresh, err := queryBool(c, "refresh")
	if err != nil {
		return err
	}

	if !refresh && r.rotator != nil {
		if snap := r.rotator.Snapshot(); snap != nil && fits(len(snap.Items), req) {
			r.metrics.ObserveSelection(catalog.KindFeatured, "snapshot", len(snap.Items))
			computedAt := snap.ComputedAt
			return c.JSON(http.StatusOK, SelectionResponse{Data: snap.Items, OrderBy: sampler.Popularity, ComputedAt: &computedAt})
		}
	}

	items, err := r.selector.Featured(c.Request().Context(), req.MinCount, req.MaxCount)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, SelectionResponse{Data: items, OrderBy: sampler.Popularity})
}

// latestHandler godoc
// @Summary Latest products
// @Tags selections
// @Produce json
// @Param min query int false "minimum count" default(4)
// @Param max query int false "maximum count" default(8) maximum(50)
// @Success 200 {object} SelectionResponse
// @Failure 400 {object} apperr.ErrorResponse
// @Router /api/v1/selections/latest [get]
func (r *SelectionRouter) latestHandler(c echo.Context) error {
	req, err := selectionRequest(c, sampler.Recency)
	if err != nil {
		return err
	}
	items, err := r.selector.Latest(c.Request().Context(), req.MinCount, req.MaxCount)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, SelectionResponse{Data: items, OrderBy: sampler.Recency})
}

// highlightsHandler godoc
// @Summary Featured and latest selections in one response
// @Tags selections
// @Produce json
// @Param min query int false "minimum count" default(4)
// @Param max query int false "maximum count" default(8) maximum(50)
// @Success 200 {object} catalog.Highlights
// @Failure 400 {object} apperr.ErrorResponse
// @Router /api/v1/highlights [get]
func (r *SelectionRouter) highlightsHandler(c echo.Context) error {
	req, err := selectionRequest(c, sampler.Recency)
	if err != nil {
		return err
	}
	h, err := r.selector.Highlights(c.Request().Context(), req.MinCount, req.MaxCount)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, h)
}

// fits reports whether a snapshot of n items can answer req. A snapshot
// smaller than min only fits when the catalog itself is that small, which
// the snapshot cannot tell, so it is redrawn.
func fits(n int, req sampler.Request) bool {
	return n >= req.MinCount && n <= req.MaxCount
}
