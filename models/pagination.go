package models

import "math"

const (
	DefaultPageLimit = 50
	MaxPageLimit     = 500
)

// PageRequest is a normalized 1-based page request
type PageRequest struct {
	Page  int
	Limit int
}

// NewPageRequest clamps page and limit to valid values
func NewPageRequest(page, limit int) PageRequest {
	if page < 1 {
		page = 1
	}
	if limit < 1 {
		limit = DefaultPageLimit
	}
	if limit > MaxPageLimit {
		limit = MaxPageLimit
	}
	return PageRequest{Page: page, Limit: limit}
}

// Offset returns the number of rows to skip
func (p PageRequest) Offset() int {
	return (p.Page - 1) * p.Limit
}

// Pagination describes a page of a filtered result set
type Pagination struct {
	Page  int `json:"page"`
	Limit int `json:"limit"`
	Total int `json:"total"`
	Pages int `json:"pages"`
}

// NewPagination builds the pagination block for a request and the filtered total
func NewPagination(req PageRequest, total int) Pagination {
	pages := 0
	if req.Limit > 0 {
		pages = int(math.Ceil(float64(total) / float64(req.Limit)))
	}
	return Pagination{Page: req.Page, Limit: req.Limit, Total: total, Pages: pages}
}
