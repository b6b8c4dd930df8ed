package entity

// StockTransactionOfficeReturn marks stock transactions recorded when an
// outlet sends inventory back to head office.
const StockTransactionOfficeReturn = "office return"

// StockTransaction is an immutable ledger entry created exactly once per
// successful per-product office return update.
type StockTransaction struct {
	Barcode  string `json:"barcode"`
	Outlet   string `json:"outlet"`
	Type     string `json:"type"`
	Quantity int    `json:"quantity"`
	Date     string `json:"date"`
	User     string `json:"user"`
}
