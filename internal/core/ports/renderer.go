package ports

import (
	"context"
	"errors"
)

// ErrNoRenderer is returned when every rendering candidate failed.
var ErrNoRenderer = errors.New("no usable PDF renderer")

// RenderResult carries a synthesized cover image and the tool that produced it.
type RenderResult struct {
	PNG  []byte
	Tool string
}

// CoverRenderer synthesizes a cover image from the first page of a PDF.
// Implementations try a prioritized list of external tools; failure is
// expected and callers treat it as "no cover".
type CoverRenderer interface {
	RenderCover(ctx context.Context, pdf []byte) (*RenderResult, error)
}
