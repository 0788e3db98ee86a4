// Package catalog is the application layer of the storefront API: listing,
// product management, cached search and the sampled featured/latest selections.
package catalog

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/DjordjeVuckovic/storefront/internal/apperr"
	"github.com/DjordjeVuckovic/storefront/internal/cache"
	"github.com/DjordjeVuckovic/storefront/internal/domain"
	"github.com/DjordjeVuckovic/storefront/internal/metrics"
	"github.com/DjordjeVuckovic/storefront/internal/sampler"
	"github.com/DjordjeVuckovic/storefront/internal/storage"
	"github.com/DjordjeVuckovic/storefront/pkg/pagination"
	"golang.org/x/sync/errgroup"
)

const (
	KindFeatured = "featured"
	KindLatest   = "latest"
)

type Highlights struct {
	Featured []domain.Product `json:"featured"`
	Latest   []domain.Product `json:"latest"`
}

type Service struct {
	reader   storage.Reader
	storer   storage.Storer
	searcher storage.Searcher

	sampler *sampler.Sampler
	search  *cache.LRU[*pagination.Page[domain.Product]]
	metrics *metrics.Metrics
}

type Option func(*Service)

func WithSampler(s *sampler.Sampler) Option {
	return func(svc *Service) {
		svc.sampler = s
	}
}

// WithSearchCache bounds the search result cache. A zero capacity disables it.
func WithSearchCache(capacity int, ttl time.Duration) Option {
	return func(svc *Service) {
		if capacity <= 0 {
			svc.search = nil
			return
		}
		svc.search = cache.New[*pagination.Page[domain.Product]](capacity, ttl)
	}
}

func WithMetrics(m *metrics.Metrics) Option {
	return func(svc *Service) {
		svc.metrics = m
	}
}

func NewService(reader storage.Reader, storer storage.Storer, searcher storage.Searcher, opts ...Option) *Service {
	svc := &Service{
		reader:   reader,
		storer:   storer,
		searcher: searcher,
		sampler:  sampler.New(),
		search:   cache.New[*pagination.Page[domain.Product]](cache.DefaultCapacity, cache.DefaultTTL),
	}
	for _, opt := range opts {
		opt(svc)
	}
	return svc
}

func (s *Service) List(ctx context.Context, q domain.ProductQuery) (*pagination.Page[domain.Product], error) {
	req := pagination.Request{Page: q.Page, Limit: q.Limit}
	req.Normalize()
	q.Page, q.Limit = req.Page, req.Limit

	items, total, err := s.reader.List(ctx, q)
	if err != nil {
		s.metrics.StorageError("list")
		return nil, fmt.Errorf("failed to list products: %w", err)
	}

	// a page past the end is clamped to the last page
	if last := pagination.NewEnvelope(1, q.Limit, total).Pages; last > 0 && q.Page > last {
		q.Page = last
		if items, total, err = s.reader.List(ctx, q); err != nil {
			s.metrics.StorageError("list")
			return nil, fmt.Errorf("failed to list products: %w", err)
		}
	}
	return pagination.NewPage(items, q.Page, q.Limit, total), nil
}

func (s *Service) Get(ctx context.Context, id string) (*domain.Product, error) {
	p, err := s.reader.Get(ctx, id)
	if errors.Is(err, storage.ErrNotFound) {
		return nil, apperr.NewNotFound("product", id)
	}
	if err != nil {
		s.metrics.StorageError("get")
		return nil, fmt.Errorf("failed to get product: %w", err)
	}
	return p, nil
}

// Save upserts a product and returns the stored version.
func (s *Service) Save(ctx context.Context, p domain.Product) (*domain.Product, error) {
	if strings.TrimSpace(p.Name) == "" {
		return nil, apperr.NewValidation("name is required")
	}
	if p.Price < 0 {
		return nil, apperr.NewValidation("price must not be negative")
	}

	id, err := s.storer.Save(ctx, p)
	if err != nil {
		s.metrics.StorageError("save")
		return nil, fmt.Errorf("failed to save product: %w", err)
	}
	s.invalidate()

	slog.Info("Product saved", "id", id)
	return s.Get(ctx, id)
}

func (s *Service) SaveBulk(ctx context.Context, products []domain.Product) error {
	if err := s.storer.SaveBulk(ctx, products); err != nil {
		s.metrics.StorageError("save_bulk")
		return fmt.Errorf("failed to save products: %w", err)
	}
	s.invalidate()
	return nil
}

func (s *Service) Delete(ctx context.Context, id string) error {
	err := s.storer.Delete(ctx, id)
	if errors.Is(err, storage.ErrNotFound) {
		return apperr.NewNotFound("product", id)
	}
	if err != nil {
		s.metrics.StorageError("delete")
		return fmt.Errorf("failed to delete product: %w", err)
	}
	s.invalidate()
	return nil
}

// Search results are cached per exact (text, page, limit) until the TTL
// expires or a write invalidates the cache.
func (s *Service) Search(ctx context.Context, text string, page, limit int) (*pagination.Page[domain.Product], error) {
	text = strings.TrimSpace(text)
	if text == "" {
		return nil, apperr.NewValidation("query parameter is required")
	}
	req := pagination.Request{Page: page, Limit: limit}
	req.Normalize()

	key := fmt.Sprintf("%s|%d|%d", text, req.Page, req.Limit)
	if s.search != nil {
		if cached, ok := s.search.Get(key); ok {
			s.metrics.CacheLookup(true)
			return cached, nil
		}
		s.metrics.CacheLookup(false)
	}

	items, total, err := s.searcher.Search(ctx, text, req.Page, req.Limit)
	if err != nil {
		s.metrics.StorageError("search")
		return nil, fmt.Errorf("failed to search products: %w", err)
	}

	result := pagination.NewPage(items, req.Page, req.Limit, total)
	if s.search != nil {
		s.search.Add(key, result)
	}
	return result, nil
}

func (s *Service) Featured(ctx context.Context, minCount, maxCount int) ([]domain.Product, error) {
	return s.sample(ctx, KindFeatured, sampler.Popularity, minCount, maxCount)
}

func (s *Service) Latest(ctx context.Context, minCount, maxCount int) ([]domain.Product, error) {
	return s.sample(ctx, KindLatest, sampler.Recency, minCount, maxCount)
}

// Sample draws a selection for an explicit ordering.
func (s *Service) Sample(ctx context.Context, orderBy sampler.OrderBy, minCount, maxCount int) ([]domain.Product, error) {
	kind := KindLatest
	if orderBy == sampler.Popularity {
		kind = KindFeatured
	}
	return s.sample(ctx, kind, orderBy, minCount, maxCount)
}

// Highlights loads the featured and latest selections concurrently.
func (s *Service) Highlights(ctx context.Context, minCount, maxCount int) (*Highlights, error) {
	var h Highlights
	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		items, err := s.Featured(gctx, minCount, maxCount)
		h.Featured = items
		return err
	})
	g.Go(func() error {
		items, err := s.Latest(gctx, minCount, maxCount)
		h.Latest = items
		return err
	})

	if err := g.Wait(); err != nil {
		return nil, err
	}
	return &h, nil
}

func (s *Service) sample(ctx context.Context, kind string, orderBy sampler.OrderBy, minCount, maxCount int) ([]domain.Product, error) {
	ordering := domain.OrderNewest
	if orderBy == sampler.Popularity {
		ordering = domain.OrderPopular
	}

	// overfetch so dropped and duplicate ids do not shrink the pool
	candidates, err := s.reader.Candidates(ctx, ordering, s.sampler.PoolSize()*2)
	if err != nil {
		s.metrics.StorageError("candidates")
		return nil, fmt.Errorf("failed to load %s candidates: %w", kind, err)
	}

	selection := s.sampler.Select(candidates, orderBy, minCount, maxCount)
	s.metrics.ObserveSelection(kind, "live", len(selection))
	return selection, nil
}

func (s *Service) invalidate() {
	if s.search != nil {
		s.search.Purge()
	}
}
