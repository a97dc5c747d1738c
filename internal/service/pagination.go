// Package service holds the feed's business logic between the HTTP handlers
// and the repositories.
package service

import (
	"errors"

	"collabfeed/internal/models"
	"collabfeed/internal/ranking"

	"gorm.io/gorm"
)

const (
	DefaultPageLimit = 20
	MaxPageLimit     = 100
)

// PageRequest is a normalized 1-based page request.
type PageRequest struct {
	Page  int
	Limit int
}

// NewPageRequest clamps page to >= 1 and limit to 1..MaxPageLimit, using
// DefaultPageLimit for non-positive limits.
func NewPageRequest(page, limit int) PageRequest {
	if page < 1 {
		page = 1
	}
	if limit <= 0 {
		limit = DefaultPageLimit
	}
	if limit > MaxPageLimit {
		limit = MaxPageLimit
	}
	return PageRequest{Page: page, Limit: limit}
}

// Offset is the number of rows skipped before this page.
func (p PageRequest) Offset() int {
	return (p.Page - 1) * p.Limit
}

// PageMeta describes a page of a paginated response.
type PageMeta struct {
	Total      int64 `json:"total"`
	Page       int   `json:"page"`
	Limit      int   `json:"limit"`
	TotalPages int   `json:"totalPages"`
}

// Meta builds the response metadata for this request.
func (p PageRequest) Meta(total int64) PageMeta {
	return PageMeta{
		Total:      total,
		Page:       p.Page,
		Limit:      p.Limit,
		TotalPages: ranking.TotalPages(total, p.Limit),
	}
}

// notFound maps gorm.ErrRecordNotFound onto an AppError for resource and
// passes other errors through.
func notFound(err error, resource string, id interface{}) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return models.NewNotFoundError(resource, id)
	}
	return err
}

// clampLimit applies def to non-positive limits and caps at MaxPageLimit.
func clampLimit(limit, def int) int {
	if limit <= 0 {
		return def
	}
	if limit > MaxPageLimit {
		return MaxPageLimit
	}
	return limit
}
