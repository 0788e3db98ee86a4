package storage

import (
	"context"
	"time"

	"github.com/DjordjeVuckovic/storefront/internal/domain"
	"github.com/google/uuid"
)

type Storer interface {
	// Save inserts or replaces a product and returns its id.
	Save(ctx context.Context, product domain.Product) (string, error)
	SaveBulk(ctx context.Context, products []domain.Product) error
	Delete(ctx context.Context, id string) error
}

type Type string

const (
	ES     Type = "es"
	PG     Type = "pg"
	SQLite Type = "sqlite"
	InMem  Type = "in_mem"
)

var Types = []Type{ES, PG, SQLite, InMem}

func (t Type) Valid() bool {
	for _, known := range Types {
		if t == known {
			return true
		}
	}
	return false
}

type StorerError string

const (
	ErrUnsupportedStorer StorerError = "unsupported storer type: %s"
)

func (e StorerError) Error() string {
	return string(e)
}

// Prepare fills the defaults every backend applies before writing.
func Prepare(p domain.Product, now time.Time) domain.Product {
	if p.ID == "" {
		p.ID = uuid.NewString()
	}
	if p.Category == "" {
		p.Category = domain.ProductDefaultCategory
	}
	if p.CreatedAt.IsZero() {
		p.CreatedAt = now
	}
	if p.Sales < 0 {
		p.Sales = 0
	}
	p.UpdatedAt = now
	return p
}
