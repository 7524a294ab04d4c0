package ports

import (
	"context"

	"github.com/openshelf/digital-library/internal/core/domain"
)

// MembershipService manages a user's personal library.
type MembershipService interface {
	// ListLibrary returns the user's books, most recently added first, each
	// annotated with the link's creation time. Links whose book no longer
	// exists are silently dropped.
	ListLibrary(ctx context.Context, userID string) ([]*domain.LibraryBook, error)
	AddToLibrary(ctx context.Context, userID, bookID string) error
	RemoveFromLibrary(ctx context.Context, userID, bookID string) error
}
