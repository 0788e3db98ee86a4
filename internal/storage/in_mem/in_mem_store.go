package in_mem

import (
	"context"
	"log/slog"
	"slices"
	"strings"
	"sync"
	"time"

	"github.com/DjordjeVuckovic/storefront/internal/domain"
	"github.com/DjordjeVuckovic/storefront/internal/storage"
)

type Store struct {
	storageLock sync.RWMutex
	storage     map[string]domain.Product
	now         func() time.Time
}

func NewStore() *Store {
	return &Store{
		storage: make(map[string]domain.Product),
		now:     time.Now,
	}
}

func (s *Store) Save(ctx context.Context, product domain.Product) (string, error) {
	p := storage.Prepare(product, s.now())

	s.storageLock.Lock()
	defer s.storageLock.Unlock()
	s.storage[p.ID] = p

	slog.Debug("Saved product to in-memory storage", "id", p.ID, "name", p.Name)
	return p.ID, nil
}

func (s *Store) SaveBulk(ctx context.Context, products []domain.Product) error {
	now := s.now()

	s.storageLock.Lock()
	defer s.storageLock.Unlock()

	for _, product := range products {
		p := storage.Prepare(product, now)
		s.storage[p.ID] = p
	}

	slog.Info("Saved products to in-memory storage", "count", len(products))
	return nil
}

func (s *Store) Delete(ctx context.Context, id string) error {
	s.storageLock.Lock()
	defer s.storageLock.Unlock()

	if _, ok := s.storage[id]; !ok {
		return storage.ErrNotFound
	}
	delete(s.storage, id)
	return nil
}

func (s *Store) Get(ctx context.Context, id string) (*domain.Product, error) {
	s.storageLock.RLock()
	defer s.storageLock.RUnlock()

	p, ok := s.storage[id]
	if !ok {
		return nil, storage.ErrNotFound
	}
	return &p, nil
}

func (s *Store) List(ctx context.Context, q domain.ProductQuery) ([]domain.Product, int64, error) {
	matches := s.sorted(q.Filter.Sort, q.Filter.Matches)
	return paginate(matches, q.Offset(), q.Limit), int64(len(matches)), nil
}

func (s *Store) Candidates(ctx context.Context, ordering domain.Ordering, limit int) ([]domain.Product, error) {
	all := s.sorted(ordering, nil)
	if limit > 0 && len(all) > limit {
		all = all[:limit]
	}
	return all, nil
}

// Search ranks name matches above description-only matches, newest first within a rank.
func (s *Store) Search(ctx context.Context, text string, page, limit int) ([]domain.Product, int64, error) {
	needle := strings.ToLower(strings.TrimSpace(text))
	if needle == "" {
		return []domain.Product{}, 0, nil
	}

	rank := func(p domain.Product) int {
		switch {
		case strings.Contains(strings.ToLower(p.Name), needle):
			return 2
		case strings.Contains(strings.ToLower(p.Description), needle),
			strings.Contains(strings.ToLower(p.Category), needle):
			return 1
		default:
			return 0
		}
	}

	matches := s.sorted(domain.OrderNewest, func(p domain.Product) bool { return rank(p) > 0 })
	slices.SortStableFunc(matches, func(a, b domain.Product) int { return rank(b) - rank(a) })

	q := domain.ProductQuery{Page: page, Limit: limit}
	return paginate(matches, q.Offset(), limit), int64(len(matches)), nil
}

// sorted snapshots the products that pass keep, ordered by id first so equal
// ranking keys stay deterministic across calls.
func (s *Store) sorted(ordering domain.Ordering, keep func(domain.Product) bool) []domain.Product {
	s.storageLock.RLock()
	out := make([]domain.Product, 0, len(s.storage))
	for _, p := range s.storage {
		if keep == nil || keep(p) {
			out = append(out, p)
		}
	}
	s.storageLock.RUnlock()

	slices.SortFunc(out, func(a, b domain.Product) int { return strings.Compare(a.ID, b.ID) })
	slices.SortStableFunc(out, domain.Compare(ordering))
	return out
}

func paginate(items []domain.Product, offset, limit int) []domain.Product {
	if offset >= len(items) {
		return []domain.Product{}
	}
	end := len(items)
	if limit > 0 && offset+limit < end {
		end = offset + limit
	}
	return items[offset:end]
}
