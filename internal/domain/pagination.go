package domain

// PaginationParams holds offset-based pagination parameters for list queries.
type PaginationParams struct {
	Page     int
	PageSize int
}

// Offset returns the item offset for the current page (0-based).
// Formula: (Page - 1) * PageSize.
func (p PaginationParams) Offset() int {
	if p.Page < 1 {
		return 0
	}
	return (p.Page - 1) * p.PageSize
}

// Bounds returns the half-open range [start, end) of the current page within
// total items. A PageSize below 1 selects everything.
func (p PaginationParams) Bounds(total int) (start, end int) {
	if p.PageSize < 1 {
		return 0, total
	}
	start = min(p.Offset(), total)
	end = min(start+p.PageSize, total)
	return start, end
}
