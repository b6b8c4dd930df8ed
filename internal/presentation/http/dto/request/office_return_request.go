package request

// CreateReturnSessionRequest opens an office-return session.
type CreateReturnSessionRequest struct {
	Outlet string `json:"outlet" binding:"required"`
	User   string `json:"user" binding:"required"`
}

// SearchReturnRequest carries the search box contents. Queries of trimmed
// length below three clear the results without hitting the catalog.
type SearchReturnRequest struct {
	Query string `form:"query"`
}

// SetReturnQuantityRequest sets the pending return quantity for one row.
type SetReturnQuantityRequest struct {
	Quantity int `json:"quantity" binding:"min=0"`
}
