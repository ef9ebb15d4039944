package domain

// SortKey is a single (field, direction) ordering instruction.
type SortKey struct {
	Field      string
	Descending bool
}

// PageRequest describes one page of a paginated query. Page is zero-based.
type PageRequest struct {
	Page int
	Size int
	Sort []SortKey
}

// Offset returns the row offset for this page.
func (p PageRequest) Offset() int {
	return p.Page * p.Size
}

// Page is one materialized page of results plus the derived pagination
// metadata computed from number/size/total.
type Page[T any] struct {
	Content       []T   `json:"content"`
	Number        int   `json:"number"`
	Size          int   `json:"size"`
	TotalElements int64 `json:"totalElements"`
	TotalPages    int   `json:"totalPages"`
	First         bool  `json:"first"`
	Last          bool  `json:"last"`
}

// NewPage builds a page from its content and the total element count,
// deriving TotalPages and the first/last flags.
func NewPage[T any](content []T, req PageRequest, total int64) Page[T] {
	if content == nil {
		content = []T{}
	}

	totalPages := 0
	if req.Size > 0 {
		totalPages = int((total + int64(req.Size) - 1) / int64(req.Size))
	}

	return Page[T]{
		Content:       content,
		Number:        req.Page,
		Size:          req.Size,
		TotalElements: total,
		TotalPages:    totalPages,
		First:         req.Page == 0,
		Last:          req.Page >= totalPages-1,
	}
}

// MapPage converts a page of one element type into another, preserving the
// pagination metadata.
func MapPage[T, U any](page Page[T], fn func(T) U) Page[U] {
	content := make([]U, 0, len(page.Content))
	for _, item := range page.Content {
		content = append(content, fn(item))
	}

	return Page[U]{
		Content:       content,
		Number:        page.Number,
		Size:          page.Size,
		TotalElements: page.TotalElements,
		TotalPages:    page.TotalPages,
		First:         page.First,
		Last:          page.Last,
	}
}
