// Package sampler picks bounded "featured" and "latest" selections from a catalog.
//
// A selection always starts with the best ranked items of the candidate pool
// (the guaranteed slice) and is completed with a uniformly shuffled pick from the
// rest of the pool, so refreshing rotates the tail while top items stay visible.
package sampler

import (
	"math"
	"math/rand/v2"
	"slices"
	"sync"

	"github.com/DjordjeVuckovic/storefront/internal/domain"
)

const (
	DefaultPoolSize           = 20
	DefaultGuaranteedFraction = 0.3
)

// OrderBy is the ranking used to build the candidate pool.
type OrderBy string

const (
	Recency    OrderBy = "recency"
	Popularity OrderBy = "popularity"
)

func (o OrderBy) ordering() domain.Ordering {
	if o == Popularity {
		return domain.OrderPopular
	}
	return domain.OrderNewest
}

func (o OrderBy) Valid() bool {
	return o == Recency || o == Popularity
}

type Sampler struct {
	poolSize int
	fraction float64

	mu  sync.Mutex
	rng *rand.Rand
}

type Option func(*Sampler)

func New(opts ...Option) *Sampler {
	s := &Sampler{
		poolSize: DefaultPoolSize,
		fraction: DefaultGuaranteedFraction,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func WithPoolSize(n int) Option {
	return func(s *Sampler) {
		if n > 0 {
			s.poolSize = n
		}
	}
}

// WithGuaranteedFraction sets the share of the requested count taken unshuffled
// from the top of the pool. Values are clamped to [0, 1].
func WithGuaranteedFraction(f float64) Option {
	return func(s *Sampler) {
		s.fraction = math.Min(1, math.Max(0, f))
	}
}

// WithRand pins the random source, used for reproducible selections.
func WithRand(r *rand.Rand) Option {
	return func(s *Sampler) {
		s.rng = r
	}
}

func (s *Sampler) PoolSize() int {
	return s.poolSize
}

// Select returns between minCount and maxCount items of items ranked by orderBy.
// It never fails: empty or short input yields a shorter selection.
func (s *Sampler) Select(items []domain.Product, orderBy OrderBy, minCount, maxCount int) []domain.Product {
	if len(items) == 0 {
		return []domain.Product{}
	}
	minCount, maxCount = normalizeCounts(minCount, maxCount)

	pool := s.pool(items, orderBy)
	requested := minCount + s.intN(maxCount-minCount+1)

	if len(pool) <= requested {
		return pool
	}

	guaranteed := max(1, int(math.Floor(float64(requested)*s.fraction)))
	rest := slices.Clone(pool[guaranteed:])
	s.shuffle(rest)

	selection := make([]domain.Product, 0, requested)
	selection = append(selection, pool[:guaranteed]...)
	selection = append(selection, rest[:requested-guaranteed]...)
	return selection
}

// pool ranks a copy of items and keeps the top poolSize entries.
func (s *Sampler) pool(items []domain.Product, orderBy OrderBy) []domain.Product {
	seen := make(map[string]struct{}, len(items))
	candidates := make([]domain.Product, 0, len(items))
	for _, it := range items {
		if it.ID == "" {
			continue
		}
		if _, dup := seen[it.ID]; dup {
			continue
		}
		seen[it.ID] = struct{}{}
		candidates = append(candidates, it)
	}

	slices.SortStableFunc(candidates, domain.Compare(orderBy.ordering()))

	if len(candidates) > s.poolSize {
		candidates = candidates[:s.poolSize]
	}
	return candidates
}

func (s *Sampler) intN(n int) int {
	if s.rng == nil {
		return rand.IntN(n)
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.rng.IntN(n)
}

// shuffle is a Fisher-Yates permutation.
func (s *Sampler) shuffle(items []domain.Product) {
	swap := func(i, j int) { items[i], items[j] = items[j], items[i] }
	if s.rng == nil {
		rand.Shuffle(len(items), swap)
		return
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.rng.Shuffle(len(items), swap)
}

func normalizeCounts(minCount, maxCount int) (int, int) {
	if minCount < 1 {
		minCount = 1
	}
	if maxCount < minCount {
		maxCount = minCount
	}
	return minCount, maxCount
}
