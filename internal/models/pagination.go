package models

import "math"

// PaginationMetadata describes one page of a list response.
type PaginationMetadata struct {
	TotalItemCount int64 `json:"totalItemCount"`
	PageSize       int   `json:"pageSize"`
	PageNumber     int   `json:"pageNumber"`
	TotalPageCount int   `json:"totalPageCount"`
}

// NewPaginationMetadata computes the total page count from the item count and page size.
func NewPaginationMetadata(totalItemCount int64, pageSize, pageNumber int) PaginationMetadata {
	totalPages := 0
	if pageSize > 0 {
		totalPages = int(math.Ceil(float64(totalItemCount) / float64(pageSize)))
	}
	return PaginationMetadata{
		TotalItemCount: totalItemCount,
		PageSize:       pageSize,
		PageNumber:     pageNumber,
		TotalPageCount: totalPages,
	}
}
