// Package main Storefront API
// @title Storefront API
// @version 1.0
// @description Catalog listing, search and sampled featured/latest selections for the storefront
// @termsOfService http://swagger.io/terms/
// @contact.name API Support
// @contact.email support@storefront.dev
// @license.name Apache 2.0
// @license.url https://opensource.org/licenses/Apache-2.0
// @BasePath /
package main

import (
	"context"
	"log/slog"
	"os"

	_ "github.com/DjordjeVuckovic/storefront/docs"
	"github.com/DjordjeVuckovic/storefront/internal/catalog"
	"github.com/DjordjeVuckovic/storefront/internal/domain"
	"github.com/DjordjeVuckovic/storefront/internal/metrics"
	"github.com/DjordjeVuckovic/storefront/internal/rotation"
	"github.com/DjordjeVuckovic/storefront/internal/router"
	"github.com/DjordjeVuckovic/storefront/internal/sampler"
	"github.com/DjordjeVuckovic/storefront/internal/server"
	"github.com/DjordjeVuckovic/storefront/internal/storage/factory"
	"github.com/labstack/echo/v4"
)

func main() {
	appSettings := NewAppConfig()
	cfg, err := appSettings.Load()
	if err != nil {
		slog.Error("Failed to load app configuration", "error", err)
		os.Exit(1)
	}
	slog.SetLogLoggerLevel(cfg.LogLevel)

	sCfg, err := server.LoadConfig()
	if err != nil {
		slog.Error("Failed to load config", "error", err)
		os.Exit(1)
	}

	m := metrics.New()

	backend, err := factory.Open(context.Background(), cfg.StorageConfig)
	if err != nil {
		slog.Error("Failed to open storage", "error", err)
		os.Exit(1)
	}

	s := server.New(sCfg, backend.Health).
		SetupMiddlewares().
		SetupErrorHandler().
		SetupHealthChecks("/health").
		SetupMetrics("/metrics", m.Handler()).
		SetupOpenApi("/swagger/*").
		OnShutdown(backend.Close)

	s.Echo.GET("/", func(c echo.Context) error {
		return c.String(200, "Storefront API is running")
	})

	smp := sampler.New(
		sampler.WithPoolSize(cfg.Sampler.PoolSize),
		sampler.WithGuaranteedFraction(cfg.Sampler.GuaranteedFraction),
	)
	svc := catalog.NewService(backend.Reader, backend.Storer, backend.Searcher,
		catalog.WithSampler(smp),
		catalog.WithSearchCache(cfg.SearchCache.Size, cfg.SearchCache.TTL),
		catalog.WithMetrics(m),
	)

	router.NewProductRouter(s.Echo, svc).Bind()

	selectionOpts := []router.SelectionRouterOption{router.WithMetrics(m)}
	rot, err := rotation.New(cfg.Rotation.Cron, func(ctx context.Context) ([]domain.Product, error) {
		return svc.Featured(ctx, cfg.Rotation.MinCount, cfg.Rotation.MaxCount)
	}, rotation.WithRunHook(m.Rotation))
	if err != nil {
		slog.Error("Invalid featured rotation schedule", "cron", cfg.Rotation.Cron, "error", err)
		os.Exit(1)
	}
	if rot.Enabled() {
		if err := rot.Start(s.Context()); err != nil {
			slog.Error("Failed to start featured rotation", "error", err)
			os.Exit(1)
		}
		s.OnShutdown(rot.Stop)
		selectionOpts = append(selectionOpts, router.WithRotation(rot))
	}

	router.NewSelectionRouter(s.Echo, svc, selectionOpts...).Bind()

	go func() {
		<-s.ShutdownSignal()
		slog.Info("Shutdown started, cleaning up resources...")
	}()

	err = s.Start()
	if err != nil {
		s.Echo.Logger.Error("Failed to start server: ", err)
		os.Exit(1)
	}
}
