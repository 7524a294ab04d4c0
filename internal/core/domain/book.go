package domain

import (
	"errors"
	"time"
)

var ErrBookNotFound = errors.New("book not found")
var ErrBookFileMissing = errors.New("file not found")

// Book is a catalog entry with metadata and an optional stored PDF and cover.
// FilePath is set only after the PDF binary has been written to the blob store.
type Book struct {
	ID            string    `json:"id"`
	Title         string    `json:"title"`
	Author        string    `json:"author"`
	Description   string    `json:"description,omitempty"`
	Category      string    `json:"category"`
	BookType      string    `json:"book_type"`
	CoverURL      string    `json:"cover_url,omitempty"`
	ISBN          string    `json:"isbn,omitempty"`
	PublishedYear int       `json:"published_year,omitempty"`
	FilePath      string    `json:"filePath,omitempty"`
	CreatedAt     time.Time `json:"createdAt"`
	UpdatedAt     time.Time `json:"updatedAt"`
}

// IsValidID reports whether s looks like a document identifier (24 hex chars).
// Used to reject malformed ids before hitting the store.
func IsValidID(s string) bool {
	if len(s) != 24 {
		return false
	}
	for _, c := range s {
		switch {
		case c >= '0' && c <= '9':
		case c >= 'a' && c <= 'f':
		case c >= 'A' && c <= 'F':
		default:
			return false
		}
	}
	return true
}
