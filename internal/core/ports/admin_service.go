package ports

import (
	"context"

	"github.com/openshelf/digital-library/internal/core/domain"
)

// CreateBookInput carries validated metadata plus the raw upload payloads.
// Size ceilings and MIME allowlists are enforced at the HTTP boundary before
// this input is built.
type CreateBookInput struct {
	Title         string
	Author        string
	Category      string
	BookType      string
	Description   string
	ISBN          string
	PublishedYear int

	PDF []byte
	// Cover is optional; when empty a cover is synthesized from the PDF on a
	// best-effort basis.
	Cover            []byte
	CoverContentType string
}

// UpdateBookInput is a partial patch; nil fields are left untouched. The
// stored PDF is never replaced through an update.
type UpdateBookInput struct {
	Title         *string
	Author        *string
	Category      *string
	BookType      *string
	Description   *string
	CoverURL      *string
	ISBN          *string
	PublishedYear *int
}

// AdminService defines the catalog write path.
type AdminService interface {
	CreateBook(ctx context.Context, input CreateBookInput) (*domain.Book, error)
	UpdateBook(ctx context.Context, id string, patch UpdateBookInput) (*domain.Book, error)
	// DeleteBook removes stored files best-effort, cascades to membership
	// links, then removes the record. Record removal is authoritative
	// regardless of file-cleanup outcome.
	DeleteBook(ctx context.Context, id string) error
}
