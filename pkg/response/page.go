package response

// Pagination bounds shared by every list endpoint.
const (
	MinPage         = 1
	DefaultPageSize = 20
	MaxPageSize     = 100
)

// Page is the paginated list payload.
type Page[T any] struct {
	Items      []T `json:"items"`
	Total      int `json:"total"`
	Page       int `json:"page"`
	PageSize   int `json:"page_size"`
	TotalPages int `json:"total_pages"`
}

// TotalPages returns ceil(total/pageSize), and 0 when total is 0.
func TotalPages(total, pageSize int) int {
	if total <= 0 || pageSize <= 0 {
		return 0
	}
	return (total + pageSize - 1) / pageSize
}

// NewPage builds a Page, normalizing a nil slice to empty.
func NewPage[T any](items []T, total, page, pageSize int) Page[T] {
	if items == nil {
		items = []T{}
	}
	return Page[T]{
		Items:      items,
		Total:      total,
		Page:       page,
		PageSize:   pageSize,
		TotalPages: TotalPages(total, pageSize),
	}
}

// Offset returns the row offset of a 1-based page.
func Offset(page, pageSize int) int {
	if page < MinPage {
		page = MinPage
	}
	return (page - 1) * pageSize
}
