// Package query parses and validates untrusted list-request parameters for
// the catalog. Sort keys and order are allowlisted, pagination is clamped,
// and search/filter strings are sanitized, so the output never carries values
// that could be interpreted as query operators.
package query

import (
	"strconv"
	"strings"
)

const (
	DefaultLimit    = 12
	MaxLimit        = 100
	MaxPage         = 10000
	MaxSearchLength = 200
	MaxFilterLength = 100

	DefaultSortKey = "title"
	OrderAsc       = "asc"
	OrderDesc      = "desc"
)

// sortKeys maps accepted sort inputs to the stored field name. created_at is
// an accepted alias for createdAt.
var sortKeys = map[string]string{
	"title":          "title",
	"author":         "author",
	"published_year": "published_year",
	"createdAt":      "createdAt",
	"created_at":     "createdAt",
}

// Params is the raw, untyped parameter bag as received on the wire.
type Params struct {
	Page     string
	Limit    string
	Sort     string
	Order    string
	Category string
	BookType string
	Search   string
}

// Pagination holds clamped pagination values.
type Pagination struct {
	Page  int
	Limit int
	Skip  int
}

// Sort holds an allowlisted sort key and order.
type Sort struct {
	Key   string
	Order string
}

// ListQuery is the validated query descriptor consumed by the repository.
type ListQuery struct {
	Pagination
	Sort
	Category      string
	BookType      string
	SearchTerm    string
	UseTextSearch bool
}

// Parse builds a ListQuery from raw parameters. Malformed or missing inputs
// fall back to defaults; Parse never fails.
func Parse(p Params) ListQuery {
	q := ListQuery{
		Pagination: ParsePagination(p.Page, p.Limit),
		Sort:       ParseSort(p.Sort, p.Order),
		Category:   SanitizeFilter(p.Category),
		BookType:   SanitizeFilter(p.BookType),
		SearchTerm: SanitizeSearch(p.Search),
	}
	q.UseTextSearch = q.SearchTerm != ""
	return q
}

// ParsePagination clamps page to [1, MaxPage] and limit to [1, MaxLimit]
// (default DefaultLimit). Non-numeric input falls back to the defaults.
func ParsePagination(rawPage, rawLimit string) Pagination {
	page := clamp(atoiOr(rawPage, 1), 1, MaxPage)
	limit := clamp(atoiOr(rawLimit, DefaultLimit), 1, MaxLimit)
	return Pagination{Page: page, Limit: limit, Skip: (page - 1) * limit}
}

// ParseSort returns allowlisted sort values only.
func ParseSort(rawSort, rawOrder string) Sort {
	key, ok := sortKeys[strings.TrimSpace(rawSort)]
	if !ok {
		key = DefaultSortKey
	}
	order := strings.ToLower(strings.TrimSpace(rawOrder))
	if order != OrderAsc && order != OrderDesc {
		order = OrderAsc
	}
	return Sort{Key: key, Order: order}
}

// SanitizeSearch trims, collapses internal whitespace, and caps the term at
// MaxSearchLength runes. Returns "" when nothing usable remains.
func SanitizeSearch(raw string) string {
	collapsed := strings.Join(strings.Fields(raw), " ")
	return truncate(collapsed, MaxSearchLength)
}

// SanitizeFilter trims and caps a single-value filter such as category or
// book_type at MaxFilterLength runes. Returns "" when empty after trimming.
func SanitizeFilter(raw string) string {
	return truncate(strings.TrimSpace(raw), MaxFilterLength)
}

// truncate caps s at max runes. The byte-length check is a fast path: a
// string of at most max bytes cannot exceed max runes.
func truncate(s string, max int) string {
	if len(s) <= max {
		return s
	}
	runes := []rune(s)
	if len(runes) <= max {
		return s
	}
	return string(runes[:max])
}

func atoiOr(s string, fallback int) int {
	n, err := strconv.Atoi(strings.TrimSpace(s))
	if err != nil || n == 0 {
		return fallback
	}
	return n
}

func clamp(n, lo, hi int) int {
	if n < lo {
		return lo
	}
	if n > hi {
		return hi
	}
	return n
}
