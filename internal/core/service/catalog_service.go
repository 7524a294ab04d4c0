package service

import (
	"context"
	"errors"
	"io"
	"sort"

	"github.com/rs/zerolog"

	"github.com/openshelf/digital-library/internal/core/domain"
	"github.com/openshelf/digital-library/internal/core/ports"
	"github.com/openshelf/digital-library/internal/core/query"
)

// CatalogService implements the catalog read path.
type CatalogService struct {
	books  ports.BookRepository
	blob   ports.BlobStore
	logger zerolog.Logger
}

func NewCatalogService(books ports.BookRepository, blob ports.BlobStore, logger zerolog.Logger) *CatalogService {
	return &CatalogService{books: books, blob: blob, logger: logger}
}

// ListBooks validates the raw parameters, runs the list query, and computes
// pagination metadata. TotalPages is never below 1, even for empty results.
func (s *CatalogService) ListBooks(ctx context.Context, input ports.ListBooksInput) (*ports.ListBooksResult, error) {
	q := query.Parse(query.Params{
		Page:     input.Page,
		Limit:    input.Limit,
		Sort:     input.Sort,
		Order:    input.Order,
		Category: input.Category,
		BookType: input.BookType,
		Search:   input.Search,
	})

	books, total, err := s.books.List(ctx, q)
	if err != nil {
		s.logger.Error().Err(err).Msg("failed to list books")
		return nil, err
	}
	if books == nil {
		books = []*domain.Book{}
	}

	totalPages := int((total + int64(q.Limit) - 1) / int64(q.Limit))
	if totalPages < 1 {
		totalPages = 1
	}

	return &ports.ListBooksResult{
		Books:      books,
		Total:      total,
		Page:       q.Page,
		Limit:      q.Limit,
		TotalPages: totalPages,
	}, nil
}

func (s *CatalogService) GetBook(ctx context.Context, id string) (*domain.Book, error) {
	if !domain.IsValidID(id) {
		return nil, domain.ErrBookNotFound
	}
	return s.books.FindByID(ctx, id)
}

func (s *CatalogService) Categories(ctx context.Context) ([]string, error) {
	values, err := s.books.DistinctCategories(ctx)
	if err != nil {
		return nil, err
	}
	sort.Strings(values)
	return values, nil
}

func (s *CatalogService) Types(ctx context.Context) ([]string, error) {
	values, err := s.books.DistinctTypes(ctx)
	if err != nil {
		return nil, err
	}
	sort.Strings(values)
	return values, nil
}

// OpenBookFile returns a reader over the stored PDF. The caller must close it.
func (s *CatalogService) OpenBookFile(ctx context.Context, id string) (io.ReadCloser, error) {
	book, err := s.GetBook(ctx, id)
	if err != nil {
		return nil, err
	}
	if book.FilePath == "" {
		return nil, domain.ErrBookFileMissing
	}
	rc, err := s.blob.Get(ctx, book.FilePath)
	if err != nil {
		if errors.Is(err, ports.ErrBlobNotFound) {
			return nil, domain.ErrBookFileMissing
		}
		return nil, err
	}
	return rc, nil
}
