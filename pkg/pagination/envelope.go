package pagination

// Envelope is the server-authoritative pagination metadata of a listing response.
// Clients replace their copy wholesale on every successful fetch.
type Envelope struct {
	Page        int   `json:"page"`
	Limit       int   `json:"limit"`
	Total       int64 `json:"total"`
	Pages       int   `json:"pages"`
	HasNextPage bool  `json:"hasNextPage"`
	HasPrevPage bool  `json:"hasPrevPage"`
}

// EmptyEnvelope is the state before the first fetch: page 1, no totals.
func EmptyEnvelope(limit int) Envelope {
	return Envelope{Page: 1, Limit: limit}
}

// NewEnvelope derives page count and navigation flags from page, limit and total.
// page is reported as requested, even when it lies past the last page.
func NewEnvelope(page, limit int, total int64) Envelope {
	if page < 1 {
		page = 1
	}
	if limit < 1 {
		limit = PageDefaultLimit
	}
	if total < 0 {
		total = 0
	}

	pages := int((total + int64(limit) - 1) / int64(limit))

	return Envelope{
		Page:        page,
		Limit:       limit,
		Total:       total,
		Pages:       pages,
		HasNextPage: page < pages,
		HasPrevPage: page > 1,
	}
}

// Navigable reports whether page controls make sense at all.
func (e Envelope) Navigable() bool {
	return e.Pages > 1
}
