// Package pagination implements the page/limit contract shared by every
// collection endpoint: input normalization, total-page math, and navigation
// links. It performs no I/O and never fails on malformed input.
package pagination

import (
	"fmt"
	"strconv"
	"strings"
)

// DefaultLimit is the standard page size when a limit is not provided.
const DefaultLimit = 10

// Normalize parses raw page/limit query values. Any missing, non-numeric,
// zero, or negative value falls back to page 1 and defaultLimit respectively.
func Normalize(pageRaw, limitRaw string, defaultLimit int) (page, limit int) {
	if defaultLimit <= 0 {
		defaultLimit = DefaultLimit
	}

	page = 1
	if v, err := strconv.Atoi(strings.TrimSpace(pageRaw)); err == nil && v >= 1 {
		page = v
	}

	limit = defaultLimit
	if v, err := strconv.Atoi(strings.TrimSpace(limitRaw)); err == nil && v >= 1 {
		limit = v
	}

	return page, limit
}

// Offset converts a normalized page/limit pair into a row offset.
func Offset(page, limit int) int {
	if page < 1 {
		page = 1
	}
	return (page - 1) * limit
}

// TotalPages computes ceil(totalCount / limit), 0 when the collection is empty.
func TotalPages(totalCount int64, limit int) int {
	if totalCount <= 0 || limit <= 0 {
		return 0
	}
	pages := totalCount / int64(limit)
	if totalCount%int64(limit) != 0 {
		pages++
	}
	return int(pages)
}

// Links holds the navigation URLs for a page envelope. Absent links are
// encoded as JSON null.
type Links struct {
	First *string `json:"first"`
	Last  *string `json:"last"`
	Prev  *string `json:"prev"`
	Next  *string `json:"next"`
}

// BuildLinks derives first/last/prev/next URLs for the given position. All
// four are nil when the collection has no pages.
func BuildLinks(baseURL string, page, limit, totalPages int) Links {
	if totalPages == 0 {
		return Links{}
	}

	link := func(p int) *string {
		s := fmt.Sprintf("%s?page=%d&limit=%d", baseURL, p, limit)
		return &s
	}

	links := Links{
		First: link(1),
		Last:  link(totalPages),
	}
	if page > 1 {
		links.Prev = link(page - 1)
	}
	if page < totalPages {
		links.Next = link(page + 1)
	}
	return links
}

// Page is the uniform envelope returned by every collection endpoint.
type Page struct {
	Page       int   `json:"page"`
	Limit      int   `json:"limit"`
	TotalCount int64 `json:"totalCount"`
	TotalPages int   `json:"totalPages"`
	Links      Links `json:"links"`
	Data       any   `json:"data"`
}

// NewPage assembles the envelope for an already-fetched page of rows.
func NewPage(baseURL string, page, limit int, totalCount int64, data any) Page {
	totalPages := TotalPages(totalCount, limit)
	return Page{
		Page:       page,
		Limit:      limit,
		TotalCount: totalCount,
		TotalPages: totalPages,
		Links:      BuildLinks(baseURL, page, limit, totalPages),
		Data:       data,
	}
}
