package entity

import (
	"io"
	"strings"
)

const (
	defaultFAQPerPage = 5
	maxFAQPerPage     = 100
)

type FAQRequest struct {
	Question string  `json:"question"`
	Answer   string  `json:"answer"`
	Category *string `json:"category,omitempty"`
}

// Normalize trims the request and drops a blank category.
func (r *FAQRequest) Normalize() {
	r.Question = strings.TrimSpace(r.Question)
	r.Answer = strings.TrimSpace(r.Answer)
	if r.Category != nil {
		category := strings.TrimSpace(*r.Category)
		if category == "" {
			r.Category = nil
		} else {
			r.Category = &category
		}
	}
}

type ListFAQsRequest struct {
	Category *string
	Page     int
	PerPage  int
}

func (r *ListFAQsRequest) Normalize() {
	if r.Page <= 0 {
		r.Page = 1
	}
	if r.PerPage <= 0 {
		r.PerPage = defaultFAQPerPage
	}
	r.PerPage = min(r.PerPage, maxFAQPerPage)
	if r.Category != nil && *r.Category == "" {
		r.Category = nil
	}
}

func (r *ListFAQsRequest) Offset() int {
	return (r.Page - 1) * r.PerPage
}

type FAQPage struct {
	FAQs       []*FAQ   `json:"faqs"`
	Page       int      `json:"page"`
	TotalPages int      `json:"total_pages"`
	Total      int      `json:"total"`
	Category   *string  `json:"selected_category,omitempty"`
	Categories []string `json:"categories"`
}

type BulkDeleteRequest struct {
	IDs []int64 `json:"ids"`
}

type BulkDeleteResponse struct {
	Deleted int64 `json:"deleted"`
}

type ImportRequest struct {
	Filename string
	Size     int64
	Content  io.Reader
}

type ImportResult struct {
	Added   int `json:"added"`
	Skipped int `json:"skipped"`
}

type ExportResult struct {
	Filename    string
	ContentType string
	Content     []byte
}
