package ports

import (
	"context"
	"errors"
	"io"
)

// ErrBlobNotFound is returned by BlobStore.Get for unknown keys.
var ErrBlobNotFound = errors.New("blob not found")

// BlobStore abstracts binary storage for uploaded PDFs, covers, and avatars.
// Keys are slash-separated relative paths such as "books/<id>.pdf".
type BlobStore interface {
	Put(ctx context.Context, key string, data []byte) error
	Get(ctx context.Context, key string) (io.ReadCloser, error)
	// Delete is idempotent: removing an absent key is not an error.
	Delete(ctx context.Context, key string) error
}
