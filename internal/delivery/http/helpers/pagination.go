package helpers

import (
	"errors"
	"net/http"
	"strconv"

	"devevent/internal/domain"
)

// ParsePagination reads page and page_size from the query string. Missing or
// malformed values use the defaults; out-of-range values are clamped.
func ParsePagination(r *http.Request) domain.PaginationParams {
	q := r.URL.Query()
	return domain.NewPaginationParams(queryInt(q.Get("page")), queryInt(q.Get("page_size")))
}

// queryInt parses s, returning 0 (the "use default" value) when it is not an integer.
// Values beyond the int range saturate rather than fail.
func queryInt(s string) int {
	v, err := strconv.Atoi(s)
	if err != nil {
		var numErr *strconv.NumError
		if errors.As(err, &numErr) && errors.Is(numErr.Err, strconv.ErrRange) {
			return v
		}
		return 0
	}
	return v
}

// PaginationMeta is returned alongside every paginated list.
// swagger:model PaginationMeta
type PaginationMeta struct {
	Page       int `json:"page"`
	PageSize   int `json:"page_size"`
	Total      int `json:"total"`
	TotalPages int `json:"total_pages"`
}

// NewPaginationMeta describes the page p of a list holding total rows.
func NewPaginationMeta(p domain.PaginationParams, total int) PaginationMeta {
	size := p.Limit()
	return PaginationMeta{
		Page:       p.Page,
		PageSize:   size,
		Total:      total,
		TotalPages: (total + size - 1) / size,
	}
}
