package es

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"sync/atomic"
	"time"

	"github.com/DjordjeVuckovic/storefront/internal/domain"
	"github.com/DjordjeVuckovic/storefront/internal/storage"
	"github.com/elastic/go-elasticsearch/v8"
	"github.com/elastic/go-elasticsearch/v8/esutil"
	"github.com/elastic/go-elasticsearch/v8/typedapi/types"
	"github.com/elastic/go-elasticsearch/v8/typedapi/types/enums/refresh"
)

// Store keeps the catalog in a single index and serves reads, writes and
// search from it.
type Store struct {
	client       *elasticsearch.TypedClient
	indexName    string
	config       ClientConfig
	indexBuilder *IndexBuilder
	now          func() time.Time
}

func NewStore(ctx context.Context, config ClientConfig) (*Store, error) {
	client, err := newClient(config)
	if err != nil {
		return nil, fmt.Errorf("failed to create Elasticsearch client: %w", err)
	}

	s := &Store{
		client:       client,
		indexName:    config.IndexName,
		config:       config,
		indexBuilder: NewIndexBuilder(),
		now:          time.Now,
	}

	if err := s.EnsureIndex(ctx); err != nil {
		return nil, fmt.Errorf("failed to ensure index exists: %w", err)
	}
	return s, nil
}

func (s *Store) Save(ctx context.Context, product domain.Product) (string, error) {
	doc := toDocument(storage.Prepare(product, s.now()))

	req := s.client.Index(s.indexName).Id(doc.ID).Document(doc)
	if s.config.Refresh {
		req = req.Refresh(refresh.True)
	}
	res, err := req.Do(ctx)
	if err != nil {
		return "", fmt.Errorf("failed to index document: %w", err)
	}

	slog.Debug("Document indexed", "id", doc.ID, "index", s.indexName, "result", res.Result)
	return doc.ID, nil
}

func (s *Store) SaveBulk(ctx context.Context, products []domain.Product) error {
	if len(products) == 0 {
		return nil
	}

	cfg := esutil.BulkIndexerConfig{
		Index:         s.indexName,
		Client:        s.client,
		NumWorkers:    4,
		FlushBytes:    5e+6, // 5MB
		FlushInterval: 30 * time.Second,
	}
	if s.config.Refresh {
		cfg.Refresh = "wait_for"
	}
	bi, err := esutil.NewBulkIndexer(cfg)
	if err != nil {
		return fmt.Errorf("failed to create bulk indexer: %w", err)
	}

	var successful, failed atomic.Int64
	now := s.now()

	for _, product := range products {
		doc := toDocument(storage.Prepare(product, now))

		docBytes, err := json.Marshal(doc)
		if err != nil {
			slog.Error("failed to marshal document", "error", err, "id", doc.ID)
			failed.Add(1)
			continue
		}

		err = bi.Add(ctx, esutil.BulkIndexerItem{
			Action:     "index",
			DocumentID: doc.ID,
			Body:       bytes.NewReader(docBytes),
			OnSuccess: func(ctx context.Context, item esutil.BulkIndexerItem, res esutil.BulkIndexerResponseItem) {
				successful.Add(1)
			},
			OnFailure: func(ctx context.Context, item esutil.BulkIndexerItem, res esutil.BulkIndexerResponseItem, err error) {
				failed.Add(1)
				if err != nil {
					slog.Error("bulk index error", "error", err, "id", item.DocumentID)
				} else {
					slog.Error("bulk index error", "status", res.Status, "error", res.Error.Type, "reason", res.Error.Reason, "id", item.DocumentID)
				}
			},
		})
		if err != nil {
			failed.Add(1)
			slog.Error("failed to add document to bulk indexer", "error", err, "id", doc.ID)
		}
	}

	if err := bi.Close(ctx); err != nil {
		return fmt.Errorf("failed to close bulk indexer: %w", err)
	}

	slog.Info("Bulk indexing completed",
		"successful", successful.Load(),
		"failed", failed.Load(),
		"total", len(products),
		"index", s.indexName)

	if n := failed.Load(); n > 0 {
		return fmt.Errorf("failed to index %d out of %d products", n, len(products))
	}
	return nil
}

func (s *Store) Delete(ctx context.Context, id string) error {
	req := s.client.Delete(s.indexName, id)
	if s.config.Refresh {
		req = req.Refresh(refresh.True)
	}
	res, err := req.Do(ctx)
	if isNotFound(err) {
		return storage.ErrNotFound
	}
	if err != nil {
		return fmt.Errorf("failed to delete document: %w", err)
	}
	if res.Result.Name == "not_found" {
		return storage.ErrNotFound
	}
	return nil
}

func (s *Store) EnsureIndex(ctx context.Context) error {
	exists, err := s.client.Indices.Exists(s.indexName).Do(ctx)
	if err != nil {
		return fmt.Errorf("failed to check if index exists: %w", err)
	}
	if exists {
		slog.Info("Index already exists", "index", s.indexName)
		return nil
	}

	settings := s.indexBuilder.buildSettings()
	mappings := s.indexBuilder.buildMapping()

	createRes, err := s.client.Indices.Create(s.indexName).
		Settings(&settings).
		Mappings(&mappings).
		Do(ctx)
	if err != nil {
		return fmt.Errorf("failed to create index: %w", err)
	}
	if !createRes.Acknowledged {
		return fmt.Errorf("index creation was not acknowledged")
	}

	slog.Info("Index created successfully", "index", s.indexName)
	return nil
}

// Refresh makes every write so far visible to search.
func (s *Store) Refresh(ctx context.Context) error {
	if _, err := s.client.Indices.Refresh().Index(s.indexName).Do(ctx); err != nil {
		return fmt.Errorf("failed to refresh index: %w", err)
	}
	return nil
}

func isNotFound(err error) bool {
	var esErr *types.ElasticsearchError
	return errors.As(err, &esErr) && esErr.Status == http.StatusNotFound
}

var _ storage.Storer = (*Store)(nil)
