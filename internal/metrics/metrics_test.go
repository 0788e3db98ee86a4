package metrics

import (
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMetrics_Recorders(t *testing.T) {
	m := New()

	m.ObserveSelection("featured", "live", 6)
	m.ObserveSelection("featured", "snapshot", 6)
	m.CacheLookup(true)
	m.CacheLookup(false)
	m.CacheLookup(false)
	m.StorageError("list")
	m.Rotation(nil)
	m.Rotation(errors.New("boom"))

	assert.Equal(t, 1.0, testutil.ToFloat64(m.SelectionsServed.WithLabelValues("featured", "live")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.SearchCache.WithLabelValues("hit")))
	assert.Equal(t, 2.0, testutil.ToFloat64(m.SearchCache.WithLabelValues("miss")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.StorageErrors.WithLabelValues("list")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.Rotations.WithLabelValues("error")))
}

func TestMetrics_NilIsNoop(t *testing.T) {
	var m *Metrics
	assert.NotPanics(t, func() {
		m.ObserveSelection("latest", "live", 3)
		m.CacheLookup(true)
		m.StorageError("get")
		m.Rotation(nil)
	})
}

func TestMetrics_Handler(t *testing.T) {
	m := New()
	m.ObserveSelection("latest", "live", 4)

	rec := httptest.NewRecorder()
	m.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	require.Equal(t, http.StatusOK, rec.Code)

	body, err := io.ReadAll(rec.Body)
	require.NoError(t, err)
	assert.Contains(t, string(body), `storefront_selections_served_total{kind="latest",source="live"} 1`)
	assert.Contains(t, string(body), "go_goroutines")
}
