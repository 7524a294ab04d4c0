package query

import (
	"strings"
	"testing"
	"unicode/utf8"
)

func TestParsePagination(t *testing.T) {
	tests := []struct {
		name      string
		page      string
		limit     string
		wantPage  int
		wantLimit int
		wantSkip  int
	}{
		{"defaults", "", "", 1, 12, 0},
		{"explicit", "3", "20", 3, 20, 40},
		{"non-numeric", "abc", "xyz", 1, 12, 0},
		{"zero falls back", "0", "0", 1, 12, 0},
		{"negative clamps", "-5", "-2", 1, 1, 0},
		{"page ceiling", "99999", "10", 10000, 10, 99990},
		{"limit ceiling", "1", "500", 1, 100, 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ParsePagination(tt.page, tt.limit)
			if got.Page != tt.wantPage || got.Limit != tt.wantLimit || got.Skip != tt.wantSkip {
				t.Fatalf("ParsePagination(%q, %q) = %+v, want page=%d limit=%d skip=%d",
					tt.page, tt.limit, got, tt.wantPage, tt.wantLimit, tt.wantSkip)
			}
		})
	}
}

func TestParseSort(t *testing.T) {
	tests := []struct {
		name      string
		sort      string
		order     string
		wantKey   string
		wantOrder string
	}{
		{"defaults", "", "", "title", "asc"},
		{"allowlisted", "author", "desc", "author", "desc"},
		{"alias", "created_at", "desc", "createdAt", "desc"},
		{"canonical", "createdAt", "asc", "createdAt", "asc"},
		{"unknown key", "password", "asc", "title", "asc"},
		{"unknown order", "title", "sideways", "title", "asc"},
		{"injection attempt", "$where", "desc", "title", "desc"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ParseSort(tt.sort, tt.order)
			if got.Key != tt.wantKey || got.Order != tt.wantOrder {
				t.Fatalf("ParseSort(%q, %q) = %+v, want key=%q order=%q",
					tt.sort, tt.order, got, tt.wantKey, tt.wantOrder)
			}
		})
	}
}

func TestSanitizeSearch(t *testing.T) {
	if got := SanitizeSearch("  hello   big\t\nworld  "); got != "hello big world" {
		t.Fatalf("whitespace not collapsed: %q", got)
	}
	if got := SanitizeSearch("   "); got != "" {
		t.Fatalf("blank input should yield empty, got %q", got)
	}
	long := strings.Repeat("a", MaxSearchLength+50)
	if got := SanitizeSearch(long); utf8.RuneCountInString(got) != MaxSearchLength {
		t.Fatalf("expected cap at %d runes, got %d", MaxSearchLength, utf8.RuneCountInString(got))
	}
	multibyte := strings.Repeat("日", MaxSearchLength+50)
	if got := SanitizeSearch(multibyte); utf8.RuneCountInString(got) != MaxSearchLength {
		t.Fatalf("expected multibyte cap at %d runes, got %d", MaxSearchLength, utf8.RuneCountInString(got))
	}
	if got := SanitizeSearch(multibyte); !utf8.ValidString(got) {
		t.Fatalf("cap must not split a rune")
	}
}

func TestSanitizeFilter(t *testing.T) {
	if got := SanitizeFilter("  Fiction  "); got != "Fiction" {
		t.Fatalf("expected trimmed filter, got %q", got)
	}
	long := strings.Repeat("x", MaxFilterLength+10)
	if got := SanitizeFilter(long); utf8.RuneCountInString(got) != MaxFilterLength {
		t.Fatalf("expected cap at %d runes, got %d", MaxFilterLength, utf8.RuneCountInString(got))
	}
}

func TestParse(t *testing.T) {
	q := Parse(Params{
		Page:     "2",
		Limit:    "24",
		Sort:     "created_at",
		Order:    "desc",
		Category: " Fiction ",
		BookType: "Novel",
		Search:   "  deep   work ",
	})

	if q.Page != 2 || q.Limit != 24 || q.Skip != 24 {
		t.Fatalf("unexpected pagination: %+v", q.Pagination)
	}
	if q.Key != "createdAt" || q.Order != "desc" {
		t.Fatalf("unexpected sort: %+v", q.Sort)
	}
	if q.Category != "Fiction" || q.BookType != "Novel" {
		t.Fatalf("unexpected filters: %q %q", q.Category, q.BookType)
	}
	if q.SearchTerm != "deep work" || !q.UseTextSearch {
		t.Fatalf("unexpected search: %q useText=%v", q.SearchTerm, q.UseTextSearch)
	}

	plain := Parse(Params{})
	if plain.UseTextSearch {
		t.Fatalf("empty search must not enable text search")
	}
}
