package listing

import (
	"github.com/talkincode/shopdesk/internal/domain"
)

// Status of a list
type Status int

const (
	Idle Status = iota
	Loading
	Populated
	Empty
	Errored
)

func (s Status) String() string {
	switch s {
	case Idle:
		return "idle"
	case Loading:
		return "loading"
	case Populated:
		return "populated"
	case Empty:
		return "empty"
	case Errored:
		return "errored"
	}
	return "unknown"
}

// State is a snapshot of a list controller
type State[T any] struct {
	Status     Status
	SearchTerm string // as typed
	Debounced  string // search text actually applied
	Category   string
	Brand      string
	Active     string
	Page       int
	PageSize   int
	Result     *domain.PagedResult[T] // nil until the first successful fetch
	Err        error
	Seq        uint64 // sequence of the latest issued fetch
}

// Items returns the loaded rows, nil before any result
func (s State[T]) Items() []T {
	if s.Result == nil {
		return nil
	}
	return s.Result.Items
}

// Total returns the backend total, 0 before any result
func (s State[T]) Total() int {
	if s.Result == nil {
		return 0
	}
	return s.Result.Total
}

// TotalPages is 0 before any result, 1 for a non-empty unpaged list, else ceil(total/pageSize)
func (s State[T]) TotalPages() int {
	if s.Result == nil {
		return 0
	}
	if s.Result.Unpaged {
		return min(s.Result.Total, 1)
	}
	return domain.TotalPages(s.Result.Total, s.PageSize)
}

// Filter returns the effective filter of the state
func (s State[T]) Filter() domain.Filter {
	return domain.Filter{
		Name:       s.Debounced,
		CategoryID: s.Category,
		BrandID:    s.Brand,
		IsActive:   s.Active,
	}
}

// Pagination returns limit/offset of the current page
func (s State[T]) Pagination() domain.Pagination {
	return domain.PageOf(s.Page, s.PageSize)
}
