package shared

import (
	"math"
	"net/url"
	"strconv"
)

// Pagination contains metadata for paginated listings.
type Pagination struct {
	Page       int
	PerPage    int
	Total      int
	TotalPages int
}

// NewPagination computes pagination metadata.
func NewPagination(page, perPage, total int) Pagination {
	if perPage <= 0 {
		perPage = 20
	}
	if page <= 0 {
		page = 1
	}
	totalPages := int(math.Ceil(float64(total) / float64(perPage)))
	return Pagination{Page: page, PerPage: perPage, Total: total, TotalPages: totalPages}
}

// PageFromQuery reads page/per_page query parameters with sane bounds.
func PageFromQuery(values url.Values) (page, perPage int) {
	page, _ = strconv.Atoi(values.Get("page"))
	perPage, _ = strconv.Atoi(values.Get("per_page"))
	if page <= 0 {
		page = 1
	}
	if perPage <= 0 || perPage > 200 {
		perPage = 20
	}
	return page, perPage
}

// Offset converts page/perPage into a SQL offset.
func (p Pagination) Offset() int {
	return (p.Page - 1) * p.PerPage
}
