package storage

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/DjordjeVuckovic/storefront/internal/domain"
)

// FanoutStorer writes to a primary store and mirrors every write to
// secondary stores, typically a search index kept beside the system of record.
// A secondary failure fails the write; the primary is not rolled back.
type FanoutStorer struct {
	primary     Storer
	secondaries []Storer
	now         func() time.Time
}

func NewFanoutStorer(primary Storer, secondaries ...Storer) *FanoutStorer {
	return &FanoutStorer{primary: primary, secondaries: secondaries, now: time.Now}
}

func (f *FanoutStorer) Save(ctx context.Context, product domain.Product) (string, error) {
	p := Prepare(product, f.now())

	id, err := f.primary.Save(ctx, p)
	if err != nil {
		return "", err
	}
	p.ID = id

	for i, s := range f.secondaries {
		if _, err := s.Save(ctx, p); err != nil {
			return "", fmt.Errorf("failed to mirror product to secondary store %d: %w", i, err)
		}
	}
	return id, nil
}

func (f *FanoutStorer) SaveBulk(ctx context.Context, products []domain.Product) error {
	now := f.now()
	prepared := make([]domain.Product, len(products))
	for i, p := range products {
		prepared[i] = Prepare(p, now)
	}

	if err := f.primary.SaveBulk(ctx, prepared); err != nil {
		return err
	}
	for i, s := range f.secondaries {
		if err := s.SaveBulk(ctx, prepared); err != nil {
			return fmt.Errorf("failed to mirror bulk save to secondary store %d: %w", i, err)
		}
	}
	return nil
}

func (f *FanoutStorer) Delete(ctx context.Context, id string) error {
	if err := f.primary.Delete(ctx, id); err != nil {
		return err
	}
	for i, s := range f.secondaries {
		err := s.Delete(ctx, id)
		if errors.Is(err, ErrNotFound) {
			slog.Warn("Product missing from secondary store", "id", id, "store", i)
			continue
		}
		if err != nil {
			return fmt.Errorf("failed to mirror delete to secondary store %d: %w", i, err)
		}
	}
	return nil
}

var _ Storer = (*FanoutStorer)(nil)
