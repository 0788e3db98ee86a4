package pagination

// Request represents an offset-based pagination request
type Request struct {
	Page  int `json:"page" query:"page" validate:"min=1"`
	Limit int `json:"limit" query:"limit" validate:"min=1,max=100"`
}

// Normalize clamps page and limit into their allowed ranges
func (r *Request) Normalize() {
	if r.Page <= 0 {
		r.Page = 1
	}
	if r.Limit <= 0 {
		r.Limit = PageDefaultLimit
	}
	if r.Limit > PageMaxLimit {
		r.Limit = PageMaxLimit
	}
}
