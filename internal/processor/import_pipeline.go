package processor

import (
	"context"
	"log/slog"
	"time"

	"github.com/DjordjeVuckovic/storefront/internal/collector"
	"github.com/DjordjeVuckovic/storefront/internal/domain"
	"github.com/DjordjeVuckovic/storefront/internal/storage"
)

const defaultBatchSize = 500

// Pipeline moves collected items into storage.
type Pipeline interface {
	Run(ctx context.Context) (Stats, error)
}

type Stats struct {
	Processed int
	Errors    int
	Batches   int
	Duration  time.Duration
}

type BulkOptions struct {
	Enabled bool
	Size    int
}

type PipelineConfig struct {
	Name string
	Bulk *BulkOptions
}

// ImportPipeline saves collected products one by one, or in batches
// through SaveBulk when bulk is enabled.
type ImportPipeline struct {
	collector collector.Collector[domain.Product]
	storer    storage.Storer
	config    *PipelineConfig
}

type PipelineOption func(pipeline *ImportPipeline)

// WithBulk enables bulk saving. Sizes below 1 fall back to the default batch size.
func WithBulk(size int) PipelineOption {
	return func(pipeline *ImportPipeline) {
		if size < 1 {
			size = defaultBatchSize
		}
		pipeline.config.Bulk = &BulkOptions{Enabled: true, Size: size}
	}
}

func WithName(name string) PipelineOption {
	return func(pipeline *ImportPipeline) {
		pipeline.config.Name = name
	}
}

func NewPipeline(c collector.Collector[domain.Product], storer storage.Storer, opts ...PipelineOption) *ImportPipeline {
	p := &ImportPipeline{
		collector: c,
		storer:    storer,
		config: &PipelineConfig{
			Name: "catalog-import",
			Bulk: &BulkOptions{Size: defaultBatchSize},
		},
	}

	for _, opt := range opts {
		opt(p)
	}

	return p
}

func (p *ImportPipeline) Run(ctx context.Context) (Stats, error) {
	if err := ctx.Err(); err != nil {
		return Stats{}, err
	}

	start := time.Now()
	slog.Info("Starting pipeline run",
		"pipeline", p.config.Name,
		"bulk_enabled", p.config.Bulk.Enabled,
		"batch_size", p.config.Bulk.Size,
	)

	results, err := p.collector.Collect(ctx)
	if err != nil {
		slog.Error("Error collecting products", "error", err, "pipeline", p.config.Name)
		return Stats{}, err
	}

	var stats Stats
	if p.config.Bulk.Enabled {
		err = p.processBatch(ctx, results, &stats)
	} else {
		err = p.processBasic(ctx, results, &stats)
	}
	stats.Duration = time.Since(start)

	slog.Info("Pipeline run completed",
		"pipeline", p.config.Name,
		"duration", stats.Duration,
		"processed", stats.Processed,
		"errors", stats.Errors,
		"batches", stats.Batches,
		"error", err,
	)
	return stats, err
}

func (p *ImportPipeline) processBasic(ctx context.Context, results <-chan collector.Result[domain.Product], stats *Stats) error {
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case res, ok := <-results:
			if !ok {
				return nil
			}
			if res.Err != nil {
				slog.Error("Error collecting product", "error", res.Err, "pipeline", p.config.Name, "at", res.Where())
				stats.Errors++
				continue
			}

			id, err := p.storer.Save(ctx, res.Result)
			if err != nil {
				slog.Error("Error saving product", "error", err, "pipeline", p.config.Name, "name", res.Result.Name)
				stats.Errors++
				continue
			}
			slog.Debug("Product saved", "id", id, "pipeline", p.config.Name)
			stats.Processed++
		}
	}
}

func (p *ImportPipeline) processBatch(ctx context.Context, results <-chan collector.Result[domain.Product], stats *Stats) error {
	batch := make([]domain.Product, 0, p.config.Bulk.Size)

	flush := func() {
		if len(batch) == 0 {
			return
		}
		if err := p.storer.SaveBulk(ctx, batch); err != nil {
			slog.Error("Error saving bulk products", "error", err, "count", len(batch), "pipeline", p.config.Name)
			stats.Errors += len(batch)
		} else {
			stats.Processed += len(batch)
			stats.Batches++
			slog.Info("Bulk products saved", "count", len(batch), "batch", stats.Batches, "pipeline", p.config.Name)
		}
		batch = batch[:0]
	}

	for {
		select {
		case <-ctx.Done():
			slog.Info("Pipeline context cancelled", "pipeline", p.config.Name, "pending_batch", len(batch))
			return ctx.Err()
		case res, ok := <-results:
			if !ok {
				flush()
				return nil
			}
			if res.Err != nil {
				slog.Error("Error collecting product", "error", res.Err, "pipeline", p.config.Name, "at", res.Where())
				stats.Errors++
				continue
			}

			batch = append(batch, res.Result)
			if len(batch) >= p.config.Bulk.Size {
				flush()
			}
		}
	}
}
