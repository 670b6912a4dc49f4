package types

import (
	"fmt"
	"strconv"

	"github.com/gin-gonic/gin"
)

// AllowedPageSizes defines allowed page sizes
var AllowedPageSizes = []int{10, 20, 50, 100}

// PaginatedResponse contains data with pagination metadata
type PaginatedResponse struct {
	Data       interface{} `json:"data"`
	Pagination struct {
		Page       int `json:"page"`
		PageSize   int `json:"pageSize"`
		Total      int `json:"total"`
		TotalPages int `json:"totalPages"`
	} `json:"pagination"`
}

// PaginationHelper provides utilities for working with pagination
type PaginationHelper struct {
	Page     int
	PageSize int
	Offset   int
}

// NewPaginationHelper clamps page and pageSize to allowed values.
func NewPaginationHelper(page, pageSize int) *PaginationHelper {
	if page < 1 {
		page = 1
	}
	if pageSize == 0 {
		pageSize = 20
	}
	validSize := false
	for _, size := range AllowedPageSizes {
		if pageSize == size {
			validSize = true
			break
		}
	}
	if !validSize {
		// Use the nearest smaller allowed size, or the minimum.
		for i := len(AllowedPageSizes) - 1; i >= 0; i-- {
			if AllowedPageSizes[i] <= pageSize {
				pageSize = AllowedPageSizes[i]
				break
			}
		}
		if pageSize < AllowedPageSizes[0] {
			pageSize = AllowedPageSizes[0]
		}
	}

	return &PaginationHelper{
		Page:     page,
		PageSize: pageSize,
		Offset:   (page - 1) * pageSize,
	}
}

// BuildResponse creates a standardized response with pagination
func (p *PaginationHelper) BuildResponse(data interface{}, total int) PaginatedResponse {
	totalPages := (total + p.PageSize - 1) / p.PageSize

	resp := PaginatedResponse{Data: data}
	resp.Pagination.Page = p.Page
	resp.Pagination.PageSize = p.PageSize
	resp.Pagination.Total = total
	resp.Pagination.TotalPages = totalPages
	return resp
}

// Slice applies the page window to an already-materialized list, which is how
// the in-memory collection view is paginated after filtering and sorting.
func (p *PaginationHelper) Slice(length int) (start, end int) {
	start = p.Offset
	if start > length {
		start = length
	}
	end = start + p.PageSize
	if end > length {
		end = length
	}
	return start, end
}

// ParsePaginationParams extracts pagination parameters from gin.Context
func ParsePaginationParams(c *gin.Context) *PaginationHelper {
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	pageSize, _ := strconv.Atoi(c.DefaultQuery("pageSize", "20"))

	return NewPaginationHelper(page, pageSize)
}

// ValidatePageSize checks if page size is allowed
func ValidatePageSize(pageSize int) error {
	for _, size := range AllowedPageSizes {
		if pageSize == size {
			return nil
		}
	}
	return fmt.Errorf("pageSize must be one of: %v", AllowedPageSizes)
}
