package domain

import (
	"errors"
	"time"
)

var ErrAlreadyInLibrary = errors.New("book already in your library")
var ErrNotInLibrary = errors.New("book not in your library")

// Membership links one account to one book. The (user, book) pair is unique;
// a duplicate add is rejected, never silently merged.
type Membership struct {
	ID        string
	UserID    string
	BookID    string
	CreatedAt time.Time
}

// LibraryBook is a book annotated with the time it was added to a library.
type LibraryBook struct {
	Book
	AddedAt time.Time `json:"added_at"`
}
