package domain

// All is the filter sentinel meaning no constraint
const All = "all"

// PagedResult is one page of items plus paging metadata
type PagedResult[T any] struct {
	Items  []T `json:"items"`
	Total  int `json:"total"`
	Limit  int `json:"limit"`
	Offset int `json:"offset"`
	// Unpaged marks a complete list returned without paging; it is a single page
	Unpaged bool `json:"-"`
}

// TotalPages returns ceil(total/limit), 0 when limit is not positive
func TotalPages(total, limit int) int {
	if limit <= 0 || total <= 0 {
		return 0
	}
	return (total + limit - 1) / limit
}

// Pagination carries limit and offset
type Pagination struct {
	Limit  int
	Offset int
}

// PageOf returns the pagination for a 1-based page number
func PageOf(page, size int) Pagination {
	if page < 1 {
		page = 1
	}
	return Pagination{Limit: size, Offset: (page - 1) * size}
}

// Filter holds list filters as entered. Blank or All values mean no constraint.
type Filter struct {
	Name       string
	CategoryID string
	BrandID    string
	IsActive   string // all | true | false
	MinPrice   string
	MaxPrice   string
}
