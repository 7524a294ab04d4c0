package ports

import (
	"context"

	"github.com/openshelf/digital-library/internal/core/domain"
	"github.com/openshelf/digital-library/internal/core/query"
)

// BookRepository defines persistence operations for the catalog.
type BookRepository interface {
	// Create inserts a new book and returns it with its assigned ID.
	Create(ctx context.Context, b *domain.Book) (*domain.Book, error)
	FindByID(ctx context.Context, id string) (*domain.Book, error)
	// FindByIDs returns the subset of the given books that still exist,
	// keyed by ID. Missing ids are simply absent from the map.
	FindByIDs(ctx context.Context, ids []string) (map[string]*domain.Book, error)
	// List returns a page of books matching the query and the total count.
	// When the query carries a search term, an index-accelerated text search
	// is attempted first; if the text index is unavailable the repository
	// falls back to an escaped-regex substring match.
	List(ctx context.Context, q query.ListQuery) ([]*domain.Book, int64, error)
	Update(ctx context.Context, b *domain.Book) error
	Delete(ctx context.Context, id string) error
	DistinctCategories(ctx context.Context) ([]string, error)
	DistinctTypes(ctx context.Context) ([]string, error)
}
