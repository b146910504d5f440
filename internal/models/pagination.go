package models

// PaginatedResponse is a single page of items together with paging metadata
type PaginatedResponse[T any] struct {
	Items       []T `json:"items"`
	CurrentPage int `json:"current_page"`
	TotalPages  int `json:"total_pages"`
	TotalItems  int `json:"total_items"`
}

// TotalPages returns ceil(totalItems/pageSize), which is 0 when there are no items
func TotalPages(totalItems, pageSize int) int {
	if totalItems <= 0 || pageSize <= 0 {
		return 0
	}
	pages := totalItems / pageSize
	if totalItems%pageSize != 0 {
		pages++
	}
	return pages
}
