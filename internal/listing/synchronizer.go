// Package listing keeps a client-side page cursor in step with the
// server-reported pagination envelope of a product listing.
package listing

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"slices"
	"sync"

	"github.com/DjordjeVuckovic/storefront/internal/apperr"
	"github.com/DjordjeVuckovic/storefront/internal/domain"
	"github.com/DjordjeVuckovic/storefront/pkg/pagination"
)

// ErrStaleResponse is returned when a response arrives after a newer request
// was issued. The response is discarded and state is left untouched.
var ErrStaleResponse = errors.New("stale listing response discarded")

type Fetcher interface {
	FetchItems(ctx context.Context, q domain.ProductQuery) (*pagination.Page[domain.Product], error)
}

// Cursor is the local, 0-based view of the current page.
type Cursor struct {
	PageIndex int
	PageSize  int
}

// View is a consistent copy of the synchronizer state.
type View struct {
	Cursor   Cursor
	Envelope pagination.Envelope
	Filters  domain.ProductFilter
	Items    []domain.Product
}

type Synchronizer struct {
	fetcher Fetcher

	mu       sync.Mutex
	cursor   Cursor
	envelope pagination.Envelope
	filters  domain.ProductFilter
	items    []domain.Product
	// seq is the id of the latest issued request
	seq uint64
}

func NewSynchronizer(fetcher Fetcher, pageSize int) *Synchronizer {
	if pageSize <= 0 {
		pageSize = pagination.PageDefaultLimit
	}
	return &Synchronizer{
		fetcher:  fetcher,
		cursor:   Cursor{PageIndex: 0, PageSize: pageSize},
		envelope: pagination.EmptyEnvelope(pageSize),
	}
}

// OnServerResponse is the only writer of the cursor from the server direction.
func (s *Synchronizer) OnServerResponse(env pagination.Envelope) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.applyEnvelope(env)
}

func (s *Synchronizer) applyEnvelope(env pagination.Envelope) {
	s.envelope = env
	s.cursor = Cursor{PageIndex: env.Page - 1, PageSize: env.Limit}
}

// Load fetches the page the cursor currently points at.
func (s *Synchronizer) Load(ctx context.Context) error {
	s.mu.Lock()
	page := s.cursor.PageIndex + 1
	filters := s.filters
	s.mu.Unlock()

	return s.fetch(ctx, page, filters)
}

// SetPage moves to the 0-based page index. The cursor is updated optimistically
// and then overwritten by whatever page the server reports back.
// It is a no-op while the listing has at most one page.
func (s *Synchronizer) SetPage(ctx context.Context, pageIndex int) error {
	s.mu.Lock()
	if !s.envelope.Navigable() {
		s.mu.Unlock()
		slog.Debug("listing has a single page, ignoring navigation", "pageIndex", pageIndex)
		return nil
	}
	s.cursor.PageIndex = pageIndex
	filters := s.filters
	s.mu.Unlock()

	return s.fetch(ctx, pageIndex+1, filters)
}

func (s *Synchronizer) NextPage(ctx context.Context) error {
	s.mu.Lock()
	env := s.envelope
	s.mu.Unlock()
	if !env.HasNextPage {
		return nil
	}
	return s.SetPage(ctx, env.Page)
}

func (s *Synchronizer) PrevPage(ctx context.Context) error {
	s.mu.Lock()
	env := s.envelope
	s.mu.Unlock()
	if !env.HasPrevPage {
		return nil
	}
	return s.SetPage(ctx, env.Page-2)
}

// SetFilters restarts the listing from page 1 with filters. The filters are
// committed together with the first page, a failed fetch keeps the old ones.
func (s *Synchronizer) SetFilters(ctx context.Context, filters domain.ProductFilter) error {
	s.mu.Lock()
	s.cursor.PageIndex = 0
	s.mu.Unlock()

	return s.fetch(ctx, 1, filters)
}

func (s *Synchronizer) View() View {
	s.mu.Lock()
	defer s.mu.Unlock()
	return View{
		Cursor:   s.cursor,
		Envelope: s.envelope,
		Filters:  s.filters,
		Items:    slices.Clone(s.items),
	}
}

func (s *Synchronizer) fetch(ctx context.Context, page int, filters domain.ProductFilter) error {
	s.mu.Lock()
	s.seq++
	id := s.seq
	q := domain.ProductQuery{
		Filter: filters,
		Page:   page,
		Limit:  s.cursor.PageSize,
	}
	s.mu.Unlock()

	res, err := s.fetcher.FetchItems(ctx, q)

	s.mu.Lock()
	defer s.mu.Unlock()

	if id != s.seq {
		slog.Debug("discarding stale listing response", "request", id, "latest", s.seq, "page", page)
		return ErrStaleResponse
	}

	if err != nil {
		// roll the optimistic cursor back to the last server-confirmed page
		s.cursor = Cursor{PageIndex: s.envelope.Page - 1, PageSize: s.envelope.Limit}
		var fe *apperr.FetchError
		if errors.As(err, &fe) {
			return fe
		}
		return apperr.NewFetch("fetch listing", fmt.Sprintf("failed to load page %d", page), err)
	}

	if res == nil {
		s.cursor = Cursor{PageIndex: s.envelope.Page - 1, PageSize: s.envelope.Limit}
		return apperr.NewFetch("fetch listing", "empty response from catalog", nil)
	}

	s.applyEnvelope(res.Pagination)
	s.filters = filters
	s.items = slices.Clone(res.Data)
	return nil
}
