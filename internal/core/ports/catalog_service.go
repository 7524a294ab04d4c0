package ports

import (
	"context"
	"io"

	"github.com/openshelf/digital-library/internal/core/domain"
)

// ListBooksInput carries the raw, untrusted list parameters as received on
// the wire. Validation and clamping happen in the query package.
type ListBooksInput struct {
	Page     string
	Limit    string
	Sort     string
	Order    string
	Category string
	BookType string
	Search   string
}

// ListBooksResult is returned by ListBooks. TotalPages is never below 1.
type ListBooksResult struct {
	Books      []*domain.Book
	Total      int64
	Page       int
	Limit      int
	TotalPages int
}

// CatalogService defines the read path over the catalog.
type CatalogService interface {
	ListBooks(ctx context.Context, input ListBooksInput) (*ListBooksResult, error)
	GetBook(ctx context.Context, id string) (*domain.Book, error)
	// Categories and Types return the distinct values currently present
	// across all books, alphabetically sorted.
	Categories(ctx context.Context) ([]string, error)
	Types(ctx context.Context) ([]string, error)
	// OpenBookFile streams the stored PDF for a book. Returns
	// domain.ErrBookFileMissing when the book has no stored file.
	OpenBookFile(ctx context.Context, id string) (io.ReadCloser, error)
}
