package kernel

// PaginationOptions is a 1-based page request
type PaginationOptions struct {
	Page     int `json:"page" query:"page"`
	PageSize int `json:"page_size" query:"page_size"`
}

// IsValid reports whether both page and size are positive
func (p PaginationOptions) IsValid() bool {
	return p.Page >= 1 && p.PageSize > 0
}

// Offset returns the number of rows to skip
func (p PaginationOptions) Offset() int {
	return (p.Page - 1) * p.PageSize
}

// Page describes the page a result belongs to
type Page struct {
	Number int   `json:"number"`
	Size   int   `json:"size"`
	Total  int64 `json:"total"`
	Pages  int   `json:"pages"`
}

// Paginated is a page of items plus paging metadata
type Paginated[T any] struct {
	Items   []T  `json:"items"`
	Page    Page `json:"page"`
	Empty   bool `json:"empty"`
	HasMore bool `json:"has_more"`
}

// NewPaginated builds a Paginated from a page of items and the total row count
func NewPaginated[T any](items []T, opts PaginationOptions, total int64) Paginated[T] {
	if items == nil {
		items = []T{}
	}
	pages := 0
	if opts.PageSize > 0 {
		pages = int((total + int64(opts.PageSize) - 1) / int64(opts.PageSize))
	}
	return Paginated[T]{
		Items: items,
		Page: Page{
			Number: opts.Page,
			Size:   opts.PageSize,
			Total:  total,
			Pages:  pages,
		},
		Empty:   len(items) == 0,
		HasMore: int64(opts.Offset()+len(items)) < total,
	}
}
