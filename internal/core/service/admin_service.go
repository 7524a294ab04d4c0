package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/openshelf/digital-library/internal/core/domain"
	"github.com/openshelf/digital-library/internal/core/ports"
)

const coverURLPrefix = "/api/covers/"

// imageExt maps accepted image content types to the stored file extension.
var imageExt = map[string]string{
	"image/jpeg": "jpg",
	"image/png":  "png",
	"image/gif":  "gif",
	"image/webp": "webp",
}

// AdminService implements catalog ingestion: create, edit, and delete books
// together with their stored binaries.
type AdminService struct {
	books       ports.BookRepository
	memberships ports.MembershipRepository
	blob        ports.BlobStore
	renderer    ports.CoverRenderer
	metrics     ports.CatalogMetrics
	logger      zerolog.Logger
}

// NewAdminService wires the ingestion pipeline. renderer may be nil, in which
// case no cover is synthesized for books uploaded without one; a nil metrics
// recorder disables instrumentation.
func NewAdminService(books ports.BookRepository, memberships ports.MembershipRepository, blob ports.BlobStore, renderer ports.CoverRenderer, metrics ports.CatalogMetrics, logger zerolog.Logger) *AdminService {
	if metrics == nil {
		metrics = nopCatalogMetrics{}
	}
	return &AdminService{books: books, memberships: memberships, blob: blob, renderer: renderer, metrics: metrics, logger: logger}
}

// CreateBook persists metadata first to obtain an identifier, writes the PDF
// under a path derived from it, then resolves a cover. A failed PDF write
// compensates by deleting the just-created record so no incomplete book is
// left behind.
func (s *AdminService) CreateBook(ctx context.Context, input ports.CreateBookInput) (*domain.Book, error) {
	title := strings.TrimSpace(input.Title)
	author := strings.TrimSpace(input.Author)
	category := strings.TrimSpace(input.Category)
	bookType := strings.TrimSpace(input.BookType)
	if title == "" || author == "" || category == "" || bookType == "" {
		return nil, domain.NewValidationError("title, author, category, and book type are required")
	}
	if len(input.PDF) == 0 {
		return nil, domain.NewValidationError("PDF file is required")
	}
	if len(input.Cover) > 0 {
		if _, ok := imageExt[input.CoverContentType]; !ok {
			return nil, domain.NewValidationError("cover must be JPEG, PNG, GIF, or WebP")
		}
	}

	now := time.Now().UTC()
	created, err := s.books.Create(ctx, &domain.Book{
		Title:         title,
		Author:        author,
		Category:      category,
		BookType:      bookType,
		Description:   strings.TrimSpace(input.Description),
		ISBN:          strings.TrimSpace(input.ISBN),
		PublishedYear: input.PublishedYear,
		CreatedAt:     now,
		UpdatedAt:     now,
	})
	if err != nil {
		return nil, err
	}

	pdfKey := "books/" + created.ID + ".pdf"
	if err := s.blob.Put(ctx, pdfKey, input.PDF); err != nil {
		if delErr := s.books.Delete(ctx, created.ID); delErr != nil {
			s.logger.Error().Err(delErr).Str("book_id", created.ID).Msg("failed to roll back book record after pdf write failure")
		}
		return nil, fmt.Errorf("store pdf: %w", err)
	}
	created.FilePath = pdfKey

	s.resolveCover(ctx, created, input)

	created.UpdatedAt = time.Now().UTC()
	if err := s.books.Update(ctx, created); err != nil {
		return nil, err
	}

	s.metrics.BookCreated(created.Category)
	s.logger.Info().Str("book_id", created.ID).Str("title", created.Title).Msg("book created")
	return created, nil
}

// resolveCover attaches a cover in order of preference: the supplied image,
// then best-effort synthesis from the PDF. Failure leaves the cover unset and
// is never surfaced to the caller.
func (s *AdminService) resolveCover(ctx context.Context, book *domain.Book, input ports.CreateBookInput) {
	if len(input.Cover) > 0 {
		// content type was allowlisted in CreateBook before any side effect
		name := book.ID + "." + imageExt[input.CoverContentType]
		if err := s.blob.Put(ctx, "covers/"+name, input.Cover); err != nil {
			s.logger.Warn().Err(err).Str("book_id", book.ID).Msg("failed to store supplied cover")
			s.metrics.CoverFailed()
			return
		}
		book.CoverURL = coverURLPrefix + name
		s.metrics.CoverStored("upload")
		return
	}

	if s.renderer == nil {
		s.metrics.CoverFailed()
		return
	}
	res, err := s.renderer.RenderCover(ctx, input.PDF)
	if err != nil {
		s.logger.Warn().Err(err).Str("book_id", book.ID).Msg("cover generation from PDF failed")
		s.metrics.CoverFailed()
		return
	}
	name := book.ID + ".png"
	if err := s.blob.Put(ctx, "covers/"+name, res.PNG); err != nil {
		s.logger.Warn().Err(err).Str("book_id", book.ID).Msg("failed to store generated cover")
		s.metrics.CoverFailed()
		return
	}
	book.CoverURL = coverURLPrefix + name
	s.metrics.CoverStored(res.Tool)
	s.logger.Info().Str("book_id", book.ID).Str("tool", res.Tool).Msg("cover generated from PDF")
}

// UpdateBook applies a partial patch to editable fields. Required fields keep
// their previous value when patched to empty; optional fields are cleared.
// The stored PDF cannot be replaced through an update.
func (s *AdminService) UpdateBook(ctx context.Context, id string, patch ports.UpdateBookInput) (*domain.Book, error) {
	if !domain.IsValidID(id) {
		return nil, domain.NewValidationError("invalid book id")
	}
	book, err := s.books.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	setRequired(&book.Title, patch.Title)
	setRequired(&book.Author, patch.Author)
	setRequired(&book.Category, patch.Category)
	setRequired(&book.BookType, patch.BookType)
	setOptional(&book.Description, patch.Description)
	setOptional(&book.CoverURL, patch.CoverURL)
	setOptional(&book.ISBN, patch.ISBN)
	if patch.PublishedYear != nil {
		year := *patch.PublishedYear
		if year < 0 {
			year = 0
		}
		book.PublishedYear = year
	}

	book.UpdatedAt = time.Now().UTC()
	if err := s.books.Update(ctx, book); err != nil {
		return nil, err
	}
	return book, nil
}

// DeleteBook runs the cascading delete as an ordered compensating sequence:
// stored PDF and cover first (best-effort, idempotent), then membership
// links, then the record. The record removal is authoritative regardless of
// file-cleanup outcome.
func (s *AdminService) DeleteBook(ctx context.Context, id string) error {
	if !domain.IsValidID(id) {
		return domain.NewValidationError("invalid book id")
	}
	book, err := s.books.FindByID(ctx, id)
	if err != nil {
		return err
	}

	if book.FilePath != "" {
		if err := s.blob.Delete(ctx, book.FilePath); err != nil {
			s.logger.Warn().Err(err).Str("book_id", id).Msg("failed to delete stored pdf")
		}
	}
	if name, ok := strings.CutPrefix(book.CoverURL, coverURLPrefix); ok && name != "" {
		if err := s.blob.Delete(ctx, "covers/"+name); err != nil {
			s.logger.Warn().Err(err).Str("book_id", id).Msg("failed to delete stored cover")
		}
	}

	if err := s.memberships.DeleteByBook(ctx, id); err != nil {
		return fmt.Errorf("delete memberships: %w", err)
	}
	if err := s.books.Delete(ctx, id); err != nil {
		return err
	}

	s.metrics.BookDeleted()
	s.logger.Info().Str("book_id", id).Msg("book deleted")
	return nil
}

// setRequired overwrites dst only when the patch value is non-empty after
// trimming; a blank patch keeps the previous value.
func setRequired(dst *string, patch *string) {
	if patch == nil {
		return
	}
	if v := strings.TrimSpace(*patch); v != "" {
		*dst = v
	}
}

// setOptional overwrites dst with the trimmed patch value; blank clears it.
func setOptional(dst *string, patch *string) {
	if patch == nil {
		return
	}
	*dst = strings.TrimSpace(*patch)
}
