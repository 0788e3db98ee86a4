package testing

import (
	"context"
	"fmt"
	"os"
	"testing"
	"time"

	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/modules/elasticsearch"
	"github.com/testcontainers/testcontainers-go/wait"
)

const DefaultESImage = "docker.elastic.co/elasticsearch/elasticsearch:8.19.0"

type ESContainer struct {
	Container testcontainers.Container
	Address   string
}

type ESConfig struct {
	// Image defaults to ES_TEST_IMAGE, then DefaultESImage
	Image          string
	StartupTimeout time.Duration
}

func (c ESConfig) withDefaults() ESConfig {
	if c.Image == "" {
		c.Image = os.Getenv("ES_TEST_IMAGE")
	}
	if c.Image == "" {
		c.Image = DefaultESImage
	}
	if c.StartupTimeout <= 0 {
		c.StartupTimeout = 90 * time.Second
	}
	return c
}

// NewESContainer starts a single node Elasticsearch reachable over plain http.
func NewESContainer(ctx context.Context, cfg ESConfig) (*ESContainer, error) {
	cfg = cfg.withDefaults()

	c, err := elasticsearch.Run(ctx,
		cfg.Image,
		elasticsearch.WithPassword(""),
		testcontainers.WithWaitStrategy(
			wait.ForHTTP("/_cluster/health").
				WithPort("9200").
				WithStartupTimeout(cfg.StartupTimeout),
		),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to start elasticsearch container: %w", err)
	}

	host, err := c.Host(ctx)
	if err != nil {
		_ = testcontainers.TerminateContainer(c)
		return nil, fmt.Errorf("failed to get elasticsearch host: %w", err)
	}
	port, err := c.MappedPort(ctx, "9200")
	if err != nil {
		_ = testcontainers.TerminateContainer(c)
		return nil, fmt.Errorf("failed to get elasticsearch port: %w", err)
	}

	return &ESContainer{
		Container: c,
		Address:   fmt.Sprintf("http://%s:%s", host, port.Port()),
	}, nil
}

func NewESContainerWithCleanup(ctx context.Context, tb testing.TB) *ESContainer {
	tb.Helper()

	container, err := NewESContainer(ctx, ESConfig{})
	if err != nil {
		tb.Fatalf("failed to create elasticsearch container: %v", err)
	}

	tb.Cleanup(func() {
		if err := testcontainers.TerminateContainer(container.Container); err != nil {
			tb.Logf("failed to terminate elasticsearch container: %v", err)
		}
	})
	return container
}
