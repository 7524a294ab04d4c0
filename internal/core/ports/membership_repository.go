package ports

import (
	"context"

	"github.com/openshelf/digital-library/internal/core/domain"
)

// MembershipRepository manages the many-to-many relation between accounts and
// books. Uniqueness of the (user, book) pair is enforced by the store.
type MembershipRepository interface {
	// Insert creates a link. Returns domain.ErrAlreadyInLibrary when the
	// unique index rejects a duplicate pair.
	Insert(ctx context.Context, userID, bookID string) error
	// Delete removes a link. Returns domain.ErrNotInLibrary when no link
	// matched.
	Delete(ctx context.Context, userID, bookID string) error
	// ListByUser returns the user's links, most recently added first.
	ListByUser(ctx context.Context, userID string) ([]*domain.Membership, error)
	// DeleteByBook removes every link referencing the book (cascade on book
	// deletion). Deleting zero links is not an error.
	DeleteByBook(ctx context.Context, bookID string) error
}
