package service

import (
	"context"

	"github.com/rs/zerolog"

	"github.com/openshelf/digital-library/internal/core/domain"
	"github.com/openshelf/digital-library/internal/core/ports"
)

// MembershipService manages the user/book membership relation.
type MembershipService struct {
	memberships ports.MembershipRepository
	books       ports.BookRepository
	logger      zerolog.Logger
}

func NewMembershipService(memberships ports.MembershipRepository, books ports.BookRepository, logger zerolog.Logger) *MembershipService {
	return &MembershipService{memberships: memberships, books: books, logger: logger}
}

// ListLibrary returns the user's books newest-first, each annotated with the
// link's creation time. Links pointing at deleted books are dropped.
func (s *MembershipService) ListLibrary(ctx context.Context, userID string) ([]*domain.LibraryBook, error) {
	links, err := s.memberships.ListByUser(ctx, userID)
	if err != nil {
		return nil, err
	}

	ids := make([]string, 0, len(links))
	for _, link := range links {
		ids = append(ids, link.BookID)
	}
	booksByID, err := s.books.FindByIDs(ctx, ids)
	if err != nil {
		return nil, err
	}

	out := make([]*domain.LibraryBook, 0, len(links))
	for _, link := range links {
		book, ok := booksByID[link.BookID]
		if !ok {
			continue
		}
		out = append(out, &domain.LibraryBook{Book: *book, AddedAt: link.CreatedAt})
	}
	return out, nil
}

// AddToLibrary links a book to the user's library. The store's unique index
// serializes concurrent adds: the second writer gets ErrAlreadyInLibrary.
func (s *MembershipService) AddToLibrary(ctx context.Context, userID, bookID string) error {
	if !domain.IsValidID(bookID) {
		return domain.NewValidationError("invalid book id")
	}
	if _, err := s.books.FindByID(ctx, bookID); err != nil {
		return err
	}
	return s.memberships.Insert(ctx, userID, bookID)
}

func (s *MembershipService) RemoveFromLibrary(ctx context.Context, userID, bookID string) error {
	return s.memberships.Delete(ctx, userID, bookID)
}
