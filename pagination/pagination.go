// Package pagination holds the page arithmetic shared by every feed:
// the global index, group pages, profiles and the follow feed. It knows
// nothing about gorm or gin so it can be exercised in isolation.
package pagination

import "strconv"

// PageSize is fixed across all feeds.
const PageSize = 10

// Page describes one page of an ordered candidate set.
type Page struct {
	Number     int   `json:"number"`
	TotalPages int   `json:"total_pages"`
	TotalItems int64 `json:"total_items"`
	HasNext    bool  `json:"has_next"`
	HasPrev    bool  `json:"has_prev"`
}

// FromQuery parses the 1-based "page" query parameter. Anything that is
// not a positive integer falls back to the first page.
func FromQuery(raw string) int {
	page, err := strconv.Atoi(raw)
	if err != nil || page < 1 {
		return 1
	}
	return page
}

// TotalPages reports how many pages a candidate set occupies. An empty
// set still has one (empty) page so there is always a valid page to
// clamp to.
func TotalPages(total int64) int {
	if total <= 0 {
		return 1
	}
	pages := int((total + PageSize - 1) / PageSize)
	return pages
}

// Clamp snaps an out-of-range page number to the nearest valid page:
// below range to the first page, above range to the last.
func Clamp(page int, total int64) int {
	if page < 1 {
		return 1
	}
	if last := TotalPages(total); page > last {
		return last
	}
	return page
}

// Offset converts a (clamped) 1-based page number to a row offset.
func Offset(page int) int {
	if page < 1 {
		page = 1
	}
	return (page - 1) * PageSize
}

// Describe builds the page descriptor returned alongside feed items.
func Describe(page int, total int64) Page {
	page = Clamp(page, total)
	last := TotalPages(total)
	return Page{
		Number:     page,
		TotalPages: last,
		TotalItems: total,
		HasNext:    page < last,
		HasPrev:    page > 1,
	}
}
