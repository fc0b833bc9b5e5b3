package v1

import (
	"net/http"
	"strconv"

	"github.com/somabay/handbook/infrastructure/api/jsonapi"
)

// Page sizes for flattened page listings.
const (
	DefaultPageSize = 50
	MaxPageSize     = 500
)

// PaginationParams selects one window of a flattened listing.
type PaginationParams struct {
	page     int
	pageSize int
}

// ParsePagination reads page and page_size from the query string. Missing or
// non-positive values fall back to the first page of DefaultPageSize entries;
// page_size is capped at MaxPageSize.
func ParsePagination(r *http.Request) PaginationParams {
	q := r.URL.Query()
	return PaginationParams{
		page:     positiveInt(q.Get("page"), 1),
		pageSize: min(positiveInt(q.Get("page_size"), DefaultPageSize), MaxPageSize),
	}
}

func positiveInt(raw string, fallback int) int {
	n, err := strconv.Atoi(raw)
	if err != nil || n < 1 {
		return fallback
	}
	return n
}

// Page returns the 1-indexed page number.
func (p PaginationParams) Page() int { return p.page }

// PageSize returns the number of entries per page.
func (p PaginationParams) PageSize() int { return p.pageSize }

// Offset returns the index of the first entry on the page.
func (p PaginationParams) Offset() int { return (p.page - 1) * p.pageSize }

func (p PaginationParams) pages(total int64) int {
	if p.pageSize < 1 {
		return 0
	}
	return int((total + int64(p.pageSize) - 1) / int64(p.pageSize))
}

// Paginate returns the window of items selected by params. Pre-order is kept,
// so a chapter may land on an earlier page than its children.
func Paginate[T any](items []T, params PaginationParams) []T {
	start := min(params.Offset(), len(items))
	end := min(start+params.pageSize, len(items))
	return items[start:end]
}

// PaginationMeta describes the window for the meta member of a list document.
func PaginationMeta(params PaginationParams, total int64) *jsonapi.Meta {
	return &jsonapi.Meta{
		"page":        params.page,
		"page_size":   params.pageSize,
		"total_count": total,
		"total_pages": params.pages(total),
	}
}

// PaginationLinks builds self, first, last, prev, and next links that keep the
// request's filter parameters.
func PaginationLinks(r *http.Request, params PaginationParams, total int64) *jsonapi.Links {
	last := params.pages(total)
	at := func(page int) string {
		u := *r.URL
		q := u.Query()
		q.Set("page", strconv.Itoa(page))
		q.Set("page_size", strconv.Itoa(params.pageSize))
		u.RawQuery = q.Encode()
		return u.RequestURI()
	}

	links := &jsonapi.Links{Self: at(params.page), First: at(1)}
	if last > 0 {
		links.Last = at(last)
	}
	if params.page > 1 {
		links.Prev = at(params.page - 1)
	}
	if params.page < last {
		links.Next = at(params.page + 1)
	}
	return links
}
