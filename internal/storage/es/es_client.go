package es

import (
	"context"
	"log/slog"

	"github.com/elastic/go-elasticsearch/v8"
)

type ClientConfig struct {
	Addresses []string
	IndexName string
	Username  string
	Password  string
	// Refresh makes writes visible to search before returning, meant for tests and imports
	Refresh bool
}

func newClient(config ClientConfig) (*elasticsearch.TypedClient, error) {
	cfg := elasticsearch.Config{
		Addresses: config.Addresses,
	}

	if config.Username != "" && config.Password != "" {
		cfg.Username = config.Username
		cfg.Password = config.Password
	}

	return elasticsearch.NewTypedClient(cfg)
}

type HealthChecker struct {
	client *elasticsearch.TypedClient
}

func NewHealthChecker(s *Store) *HealthChecker {
	return &HealthChecker{client: s.client}
}

func (hc *HealthChecker) Name() string {
	return "elasticsearch"
}

func (hc *HealthChecker) Healthy(ctx context.Context) bool {
	if hc.client == nil {
		return false
	}
	ok, err := hc.client.Ping().IsSuccess(ctx)
	if err != nil {
		slog.Warn("Elasticsearch health check failed", "error", err)
		return false
	}
	return ok
}
