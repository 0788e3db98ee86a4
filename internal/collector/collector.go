// Package collector streams products out of an import source.
package collector

import (
	"context"
	"fmt"
)

// Result is one product read from a source, or the reason it could not be.
// Offset is the position of the entry in its source.
type Result[T any] struct {
	Result T
	Err    error
	Source string
	Offset int
}

// Where locates the entry for log lines, e.g. "seed-catalog#4".
func (r Result[T]) Where() string {
	return fmt.Sprintf("%s#%d", r.Source, r.Offset)
}

// Collector streams items until the source is exhausted or ctx is done.
// The returned channel is closed by the collector.
type Collector[T any] interface {
	Collect(ctx context.Context) (<-chan Result[T], error)
}
