package es

import (
	"time"

	"github.com/DjordjeVuckovic/storefront/internal/domain"
	"github.com/elastic/go-elasticsearch/v8/typedapi/types"
)

// ProductDocument is the indexed shape of a product.
type ProductDocument struct {
	ID          string    `json:"id"`
	Name        string    `json:"name"`
	Description string    `json:"description"`
	Category    string    `json:"category"`
	Price       float64   `json:"price"`
	Stock       int       `json:"stock"`
	ImageURL    string    `json:"image_url"`
	Sales       int64     `json:"sales"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

func toDocument(p domain.Product) ProductDocument {
	return ProductDocument{
		ID:          p.ID,
		Name:        p.Name,
		Description: p.Description,
		Category:    p.Category,
		Price:       p.Price,
		Stock:       p.Stock,
		ImageURL:    p.ImageURL,
		Sales:       p.Sales,
		CreatedAt:   p.CreatedAt,
		UpdatedAt:   p.UpdatedAt,
	}
}

func (d ProductDocument) toDomain() domain.Product {
	return domain.Product{
		ID:          d.ID,
		Name:        d.Name,
		Description: d.Description,
		Category:    d.Category,
		Price:       d.Price,
		Stock:       d.Stock,
		ImageURL:    d.ImageURL,
		Sales:       d.Sales,
		CreatedAt:   d.CreatedAt,
		UpdatedAt:   d.UpdatedAt,
	}
}

const productAnalyzer = "product_analyzer"

type IndexBuilder struct{}

func NewIndexBuilder() *IndexBuilder {
	return &IndexBuilder{}
}

func (b *IndexBuilder) buildSettings() types.IndexSettings {
	return types.IndexSettings{
		Analysis: &types.IndexSettingsAnalysis{
			Analyzer: map[string]types.Analyzer{
				productAnalyzer: types.StandardAnalyzer{
					Stopwords: []string{"_english_"},
				},
			},
		},
	}
}

func (b *IndexBuilder) buildMapping() types.TypeMapping {
	return types.TypeMapping{
		Properties: map[string]types.Property{
			"id":          types.NewKeywordProperty(),
			"name":        b.createTextPropertyWithKeyword(productAnalyzer),
			"description": b.createTextProperty(productAnalyzer),
			"category":    types.NewKeywordProperty(),
			"price":       types.NewDoubleNumberProperty(),
			"stock":       types.NewIntegerNumberProperty(),
			"image_url":   types.NewKeywordProperty(),
			"sales":       types.NewLongNumberProperty(),
			"created_at":  types.NewDateProperty(),
			"updated_at":  types.NewDateProperty(),
		},
	}
}

func (b *IndexBuilder) createTextProperty(analyzer string) types.Property {
	textProp := types.NewTextProperty()
	if analyzer != "" {
		textProp.Analyzer = &analyzer
	}
	return textProp
}

func (b *IndexBuilder) createTextPropertyWithKeyword(analyzer string) types.Property {
	textProp := types.NewTextProperty()
	if analyzer != "" {
		textProp.Analyzer = &analyzer
	}
	textProp.Fields = map[string]types.Property{
		"keyword": types.NewKeywordProperty(),
	}
	return textProp
}
