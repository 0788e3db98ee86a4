package domain

import (
	"time"
)

const ProductDefaultCategory = "uncategorized"

type Product struct {
	ID          string    `json:"id" yaml:"id"`
	Name        string    `json:"name" yaml:"name"`
	Description string    `json:"description,omitempty" yaml:"description"`
	Category    string    `json:"category,omitempty" yaml:"category"`
	Price       float64   `json:"price" yaml:"price"`
	Stock       int       `json:"stock" yaml:"stock"`
	ImageURL    string    `json:"imageUrl,omitempty" yaml:"imageUrl" format:"uri"`
	Sales       int64     `json:"sales" yaml:"sales"` // popularity score, negative values count as 0
	CreatedAt   time.Time `json:"createdAt" yaml:"createdAt"`
	UpdatedAt   time.Time `json:"updatedAt,omitempty" yaml:"updatedAt"`
}

// Popularity returns the sales count clamped to zero.
func (p Product) Popularity() int64 {
	if p.Sales < 0 {
		return 0
	}
	return p.Sales
}

func (p Product) InStock() bool {
	return p.Stock > 0
}
