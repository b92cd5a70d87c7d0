package models

// Pagination carries list paging metadata mirrored from the upstream API.
type Pagination struct {
	Page       int `json:"page"`
	Limit      int `json:"limit"`
	Total      int `json:"total"`
	TotalPages int `json:"totalPages"`
}

// ListFilter holds the query parameters shared by entity list endpoints.
type ListFilter struct {
	Search string
	Page   int
	Limit  int
	Active *bool
}
