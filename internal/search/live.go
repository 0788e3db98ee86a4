// Package search implements search-as-you-type on top of a catalog provider:
// keystrokes are debounced, results are cached per exact query and responses
// for superseded queries are dropped.
package search

import (
	"context"
	"log/slog"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"github.com/DjordjeVuckovic/storefront/internal/cache"
	"github.com/DjordjeVuckovic/storefront/internal/domain"
	"golang.org/x/sync/singleflight"
)

type Provider interface {
	Search(ctx context.Context, query string) ([]domain.Product, error)
}

type Result struct {
	Query  string
	Items  []domain.Product
	Err    error
	Cached bool
}

type Config struct {
	Debounce       time.Duration
	CacheSize      int
	CacheTTL       time.Duration
	RequestTimeout time.Duration
}

func DefaultConfig() Config {
	return Config{
		Debounce:       DefaultDebounce,
		CacheSize:      cache.DefaultCapacity,
		CacheTTL:       cache.DefaultTTL,
		RequestTimeout: 10 * time.Second,
	}
}

type LiveSearch struct {
	provider Provider
	onResult func(Result)
	cfg      Config

	debouncer *Debouncer
	cache     *cache.LRU[[]domain.Product]
	group     singleflight.Group

	// seq is bumped on every keystroke; a result is delivered only if its
	// sequence is still the latest when it completes.
	seq atomic.Uint64

	ctx    context.Context
	cancel context.CancelFunc

	mu     sync.Mutex
	closed bool
	wg     sync.WaitGroup
}

func NewLiveSearch(ctx context.Context, provider Provider, onResult func(Result), cfg Config) *LiveSearch {
	def := DefaultConfig()
	if cfg.Debounce <= 0 {
		cfg.Debounce = def.Debounce
	}
	if cfg.CacheSize <= 0 {
		cfg.CacheSize = def.CacheSize
	}
	if cfg.CacheTTL <= 0 {
		cfg.CacheTTL = def.CacheTTL
	}
	if cfg.RequestTimeout <= 0 {
		cfg.RequestTimeout = def.RequestTimeout
	}

	ctx, cancel := context.WithCancel(ctx)
	return &LiveSearch{
		provider:  provider,
		onResult:  onResult,
		cfg:       cfg,
		debouncer: NewDebouncer(cfg.Debounce),
		cache:     cache.New[[]domain.Product](cfg.CacheSize, cfg.CacheTTL),
		ctx:       ctx,
		cancel:    cancel,
	}
}

// Type registers the current content of the search box.
func (ls *LiveSearch) Type(query string) {
	id := ls.seq.Add(1)
	query = strings.TrimSpace(query)

	if query == "" {
		ls.debouncer.Stop()
		ls.deliver(id, Result{Query: query, Items: []domain.Product{}})
		return
	}

	ls.debouncer.Trigger(func() {
		if !ls.begin() {
			return
		}
		defer ls.wg.Done()
		ls.run(id, query)
	})
}

func (ls *LiveSearch) begin() bool {
	ls.mu.Lock()
	defer ls.mu.Unlock()
	if ls.closed {
		return false
	}
	ls.wg.Add(1)
	return true
}

// Flush runs the pending query immediately instead of waiting for the debounce.
func (ls *LiveSearch) Flush(query string) {
	ls.debouncer.Stop()
	id := ls.seq.Add(1)
	query = strings.TrimSpace(query)
	if query == "" {
		ls.deliver(id, Result{Query: query, Items: []domain.Product{}})
		return
	}
	if !ls.begin() {
		return
	}
	defer ls.wg.Done()
	ls.run(id, query)
}

func (ls *LiveSearch) run(id uint64, query string) {
	if ls.ctx.Err() != nil {
		return
	}

	if items, ok := ls.cache.Get(query); ok {
		ls.deliver(id, Result{Query: query, Items: items, Cached: true})
		return
	}

	v, err, _ := ls.group.Do(query, func() (any, error) {
		ctx, cancel := context.WithTimeout(ls.ctx, ls.cfg.RequestTimeout)
		defer cancel()

		items, err := ls.provider.Search(ctx, query)
		if err != nil {
			return nil, err
		}
		ls.cache.Add(query, items)
		return items, nil
	})
	if err != nil {
		slog.Warn("live search failed", "query", query, "error", err)
		ls.deliver(id, Result{Query: query, Err: err})
		return
	}

	ls.deliver(id, Result{Query: query, Items: v.([]domain.Product)})
}

func (ls *LiveSearch) deliver(id uint64, r Result) {
	if latest := ls.seq.Load(); id != latest {
		slog.Debug("dropping superseded search result", "query", r.Query, "seq", id, "latest", latest)
		return
	}
	if ls.ctx.Err() != nil {
		return
	}
	ls.onResult(r)
}

func (ls *LiveSearch) CacheStats() cache.Stats {
	return ls.cache.Stats()
}

// Close cancels the pending keystroke and in-flight requests and waits for
// running searches to return.
func (ls *LiveSearch) Close() {
	ls.mu.Lock()
	ls.closed = true
	ls.mu.Unlock()

	ls.debouncer.Stop()
	ls.cancel()
	ls.wg.Wait()
}
