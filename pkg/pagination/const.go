package pagination

const (
	// PageDefaultLimit is one storefront grid of products
	PageDefaultLimit = 12
	// PageMaxLimit bounds what a client may request in one call
	PageMaxLimit = 100
)
