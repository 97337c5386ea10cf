package domain

// Page size and page bounds for list queries.
const (
	DefaultPageSize = 20
	MaxPageSize     = 100
	// MaxPage keeps (MaxPage-1)*MaxPageSize far from int overflow and
	// well inside Postgres' bigint OFFSET.
	MaxPage = 1_000_000
)

// PaginationParams holds offset-based pagination parameters for list queries.
type PaginationParams struct {
	Page     int
	PageSize int
}

// NewPaginationParams clamps page to [1, MaxPage] and pageSize to
// [1, MaxPageSize]. A non-positive pageSize falls back to DefaultPageSize.
func NewPaginationParams(page, pageSize int) PaginationParams {
	return PaginationParams{Page: clampPage(page), PageSize: clampPageSize(pageSize)}
}

// Offset returns the row offset for the current page (0-based). It is never
// negative, whatever Page and PageSize hold.
func (p PaginationParams) Offset() int {
	return (clampPage(p.Page) - 1) * p.Limit()
}

// Limit returns the page size, clamped the same way NewPaginationParams does.
func (p PaginationParams) Limit() int {
	return clampPageSize(p.PageSize)
}

func clampPage(page int) int {
	return min(max(page, 1), MaxPage)
}

func clampPageSize(size int) int {
	if size < 1 {
		return DefaultPageSize
	}
	return min(size, MaxPageSize)
}
