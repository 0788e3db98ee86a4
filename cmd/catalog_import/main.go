package main

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/DjordjeVuckovic/storefront/internal/collector"
	"github.com/DjordjeVuckovic/storefront/internal/processor"
	"github.com/DjordjeVuckovic/storefront/internal/seed"
	"github.com/DjordjeVuckovic/storefront/internal/storage/factory"
)

func main() {
	appSettings := NewAppConfig()

	cfg, err := appSettings.Load()
	if err != nil {
		slog.Error("failed to load configuration", "error", err)
		os.Exit(1)
	}

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	catalog, err := seed.LoadFile(cfg.SeedPath)
	if err != nil {
		slog.Error("failed to load seed catalog", "path", cfg.SeedPath, "error", err)
		os.Exit(1)
	}
	slog.Info("Seed catalog loaded", "name", catalog.Metadata.Name, "products", len(catalog.Products))

	backend, err := factory.Open(ctx, cfg.StorageConfig)
	if err != nil {
		slog.Error("failed to open storage", "error", err)
		os.Exit(1)
	}
	defer backend.Close()

	var opts []processor.PipelineOption
	if cfg.BulkOptions.Enabled {
		opts = append(opts, processor.WithBulk(cfg.BulkOptions.Size))
	}
	pipeline := processor.NewPipeline(collector.NewCatalogCollector(catalog), backend.Storer, opts...)

	stats, err := pipeline.Run(ctx)
	if err != nil {
		slog.Error("failed to run pipeline", "error", err)
		backend.Close()
		os.Exit(1)
	}
	if stats.Errors > 0 {
		slog.Warn("Import finished with errors", "errors", stats.Errors, "processed", stats.Processed)
	}
}
