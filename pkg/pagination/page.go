package pagination

// Page is a listing response: one page of items and its envelope.
// Generic type T allows reuse across different entity types
type Page[T any] struct {
	Data       []T      `json:"data"`
	Pagination Envelope `json:"pagination"`
}

func NewPage[T any](items []T, page, limit int, total int64) *Page[T] {
	if items == nil {
		items = []T{}
	}
	return &Page[T]{
		Data:       items,
		Pagination: NewEnvelope(page, limit, total),
	}
}
