package entity

// Product is a catalog search hit. Results are ephemeral: re-fetched per
// search cycle, never cached beyond the session.
type Product struct {
	Barcode string `json:"barcode"`
	Name    string `json:"name"`
}
