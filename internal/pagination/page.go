// Package pagination implements offset paging with exact totals.
package pagination

import "math"

const DefaultPage = 1

// PageSizes are the selectable page sizes.
var PageSizes = []int{10, 25, 50, 100}

// Request holds the parameters for a paginated query.
type Request struct {
	Page     int
	PageSize int
}

// NewRequest normalizes page and pageSize. A page size outside PageSizes
// falls back to defaultSize.
func NewRequest(page, pageSize, defaultSize int) Request {
	if page <= 0 {
		page = DefaultPage
	}
	if !ValidPageSize(pageSize) {
		pageSize = defaultSize
	}
	return Request{Page: page, PageSize: pageSize}
}

func ValidPageSize(n int) bool {
	for _, s := range PageSizes {
		if s == n {
			return true
		}
	}
	return false
}

// Offset calculates the row offset for the database query.
func (r Request) Offset() int {
	return (r.Page - 1) * r.PageSize
}

func (r Request) Limit() int {
	return r.PageSize
}

// Page is one slice of a listing plus the exact total of the listing.
type Page[T any] struct {
	Items     []T
	Total     int64
	Page      int
	PageSize  int
	PageCount int
}

func NewPage[T any](items []T, total int64, req Request) Page[T] {
	return Page[T]{
		Items:     items,
		Total:     total,
		Page:      req.Page,
		PageSize:  req.PageSize,
		PageCount: PageCount(total, req.PageSize),
	}
}

// PageCount returns ceil(total / pageSize).
func PageCount(total int64, pageSize int) int {
	if total <= 0 || pageSize <= 0 {
		return 0
	}
	return int(math.Ceil(float64(total) / float64(pageSize)))
}

func (p Page[T]) HasPrev() bool {
	return p.Page > 1
}

func (p Page[T]) HasNext() bool {
	return p.Page < p.PageCount
}

func (p Page[T]) PrevPage() int {
	return p.Page - 1
}

func (p Page[T]) NextPage() int {
	return p.Page + 1
}

// From and To are the 1-based positions of the first and last item shown.
func (p Page[T]) From() int {
	if len(p.Items) == 0 {
		return 0
	}
	return (p.Page-1)*p.PageSize + 1
}

func (p Page[T]) To() int {
	if len(p.Items) == 0 {
		return 0
	}
	return (p.Page-1)*p.PageSize + len(p.Items)
}
