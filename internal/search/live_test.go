package search

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/DjordjeVuckovic/storefront/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type recordingProvider struct {
	mu    sync.Mutex
	calls []string
	err   error
	gate  chan struct{}
}

func (p *recordingProvider) Search(ctx context.Context, query string) ([]domain.Product, error) {
	p.mu.Lock()
	p.calls = append(p.calls, query)
	gate := p.gate
	p.mu.Unlock()

	if gate != nil {
		select {
		case <-gate:
		case <-ctx.Done():
			return nil, ctx.Err()
		}
	}
	if p.err != nil {
		return nil, p.err
	}
	return []domain.Product{{ID: "hit-" + query, Name: query}}, nil
}

func (p *recordingProvider) callCount() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return len(p.calls)
}

type results struct {
	ch chan Result
}

func newResults() *results { return &results{ch: make(chan Result, 16)} }

func (r *results) collect(res Result) { r.ch <- res }

func (r *results) next(t *testing.T) Result {
	t.Helper()
	select {
	case res := <-r.ch:
		return res
	case <-time.After(2 * time.Second):
		t.Fatal("no search result delivered")
		return Result{}
	}
}

func (r *results) none(t *testing.T, wait time.Duration) {
	t.Helper()
	select {
	case res := <-r.ch:
		t.Fatalf("unexpected result %+v", res)
	case <-time.After(wait):
	}
}

func testConfig() Config {
	return Config{Debounce: 20 * time.Millisecond, CacheSize: 8, CacheTTL: time.Minute}
}

func TestLiveSearch_DebouncesKeystrokes(t *testing.T) {
	p := &recordingProvider{}
	r := newResults()
	ls := NewLiveSearch(context.Background(), p, r.collect, testConfig())
	defer ls.Close()

	for _, q := range []string{"k", "ke", "ket", "kett", "kettle"} {
		ls.Type(q)
	}

	res := r.next(t)
	require.NoError(t, res.Err)
	assert.Equal(t, "kettle", res.Query)
	assert.Equal(t, "hit-kettle", res.Items[0].ID)
	assert.False(t, res.Cached)
	r.none(t, 50*time.Millisecond)
	assert.Equal(t, 1, p.callCount())
}

func TestLiveSearch_CachesByExactQuery(t *testing.T) {
	p := &recordingProvider{}
	r := newResults()
	ls := NewLiveSearch(context.Background(), p, r.collect, testConfig())
	defer ls.Close()

	ls.Flush("lamp")
	first := r.next(t)
	assert.False(t, first.Cached)

	ls.Flush("lamp")
	second := r.next(t)
	assert.True(t, second.Cached)
	assert.Equal(t, first.Items, second.Items)

	ls.Flush("Lamp")
	assert.False(t, r.next(t).Cached)
	assert.Equal(t, 2, p.callCount())

	stats := ls.CacheStats()
	assert.Equal(t, uint64(1), stats.Hits)
	assert.Equal(t, 2, stats.Size)
}

func TestLiveSearch_EmptyQueryClearsWithoutRequest(t *testing.T) {
	p := &recordingProvider{}
	r := newResults()
	ls := NewLiveSearch(context.Background(), p, r.collect, testConfig())
	defer ls.Close()

	ls.Type("so")
	ls.Type("   ")

	res := r.next(t)
	assert.Equal(t, "", res.Query)
	assert.Empty(t, res.Items)
	r.none(t, 50*time.Millisecond)
	assert.Zero(t, p.callCount(), "pending keystroke was cancelled")
}

func TestLiveSearch_DropsSupersededResults(t *testing.T) {
	p := &recordingProvider{gate: make(chan struct{})}
	r := newResults()
	ls := NewLiveSearch(context.Background(), p, r.collect, testConfig())
	defer ls.Close()

	done := make(chan struct{})
	go func() {
		defer close(done)
		ls.Flush("chair")
	}()
	require.Eventually(t, func() bool { return p.callCount() == 1 }, time.Second, time.Millisecond)

	// a newer keystroke supersedes the in-flight query
	ls.Type("")
	assert.Equal(t, "", r.next(t).Query)

	close(p.gate)
	<-done
	r.none(t, 50*time.Millisecond)
}

func TestLiveSearch_ConcurrentMissesShareOneRequest(t *testing.T) {
	p := &recordingProvider{gate: make(chan struct{})}
	r := newResults()
	ls := NewLiveSearch(context.Background(), p, r.collect, testConfig())
	defer ls.Close()

	var wg sync.WaitGroup
	wg.Add(2)
	go func() { defer wg.Done(); ls.Flush("desk") }()
	require.Eventually(t, func() bool { return p.callCount() == 1 }, time.Second, time.Millisecond)
	go func() { defer wg.Done(); ls.Flush("desk") }()

	time.Sleep(20 * time.Millisecond)
	close(p.gate)
	wg.Wait()

	assert.Equal(t, 1, p.callCount())
	res := r.next(t)
	assert.Equal(t, "desk", res.Query)
}

func TestLiveSearch_DeliversErrors(t *testing.T) {
	p := &recordingProvider{err: errors.New("catalog unavailable")}
	r := newResults()
	ls := NewLiveSearch(context.Background(), p, r.collect, testConfig())
	defer ls.Close()

	ls.Flush("rug")
	res := r.next(t)
	assert.EqualError(t, res.Err, "catalog unavailable")

	_, cached := ls.cache.Get("rug")
	assert.False(t, cached, "failures are not cached")
}

func TestLiveSearch_CloseCancelsPending(t *testing.T) {
	p := &recordingProvider{}
	r := newResults()
	ls := NewLiveSearch(context.Background(), p, r.collect, testConfig())

	ls.Type("sofa")
	ls.Close()

	r.none(t, 60*time.Millisecond)
	assert.Zero(t, p.callCount())
}
