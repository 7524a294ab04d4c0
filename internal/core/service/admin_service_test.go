package service

import (
	"context"
	"errors"
	"testing"

	"github.com/rs/zerolog"

	"github.com/openshelf/digital-library/internal/core/domain"
	"github.com/openshelf/digital-library/internal/core/ports"
)

func TestAdminService_CreateBook_RequiresMetadata(t *testing.T) {
	svc := NewAdminService(newStubBookRepo(), newStubMembershipRepo(), newMemBlobStore(), nil, nil, zerolog.Nop())

	_, err := svc.CreateBook(context.Background(), ports.CreateBookInput{Title: "Only Title", PDF: []byte("%PDF")})
	var ve *domain.ValidationError
	if !errors.As(err, &ve) {
		t.Fatalf("expected ValidationError, got %v", err)
	}
}

func TestAdminService_CreateBook_RequiresPDF(t *testing.T) {
	svc := NewAdminService(newStubBookRepo(), newStubMembershipRepo(), newMemBlobStore(), nil, nil, zerolog.Nop())

	_, err := svc.CreateBook(context.Background(), ports.CreateBookInput{
		Title: "T", Author: "A", Category: "C", BookType: "B",
	})
	var ve *domain.ValidationError
	if !errors.As(err, &ve) {
		t.Fatalf("expected ValidationError, got %v", err)
	}
}

func TestAdminService_CreateBook_StoresPDFAndRenderedCover(t *testing.T) {
	books := newStubBookRepo()
	blob := newMemBlobStore()
	renderer := &stubRenderer{result: &ports.RenderResult{PNG: []byte("png-bytes"), Tool: "pdftoppm"}}
	svc := NewAdminService(books, newStubMembershipRepo(), blob, renderer, nil, zerolog.Nop())

	book, err := svc.CreateBook(context.Background(), ports.CreateBookInput{
		Title: "T", Author: "A", Category: "C", BookType: "B",
		PDF: []byte("%PDF-1.4"),
	})
	if err != nil {
		t.Fatalf("CreateBook returned error: %v", err)
	}

	pdfKey := "books/" + book.ID + ".pdf"
	if book.FilePath != pdfKey {
		t.Fatalf("expected filePath %q, got %q", pdfKey, book.FilePath)
	}
	if _, ok := blob.blobs[pdfKey]; !ok {
		t.Fatalf("pdf not stored under %q", pdfKey)
	}
	wantCover := "/api/covers/" + book.ID + ".png"
	if book.CoverURL != wantCover {
		t.Fatalf("expected cover url %q, got %q", wantCover, book.CoverURL)
	}
	if string(blob.blobs["covers/"+book.ID+".png"]) != "png-bytes" {
		t.Fatalf("rendered cover not stored")
	}
}

func TestAdminService_CreateBook_SuppliedCoverWins(t *testing.T) {
	books := newStubBookRepo()
	blob := newMemBlobStore()
	renderer := &stubRenderer{result: &ports.RenderResult{PNG: []byte("unused"), Tool: "pdftoppm"}}
	svc := NewAdminService(books, newStubMembershipRepo(), blob, renderer, nil, zerolog.Nop())

	book, err := svc.CreateBook(context.Background(), ports.CreateBookInput{
		Title: "T", Author: "A", Category: "C", BookType: "B",
		PDF:              []byte("%PDF-1.4"),
		Cover:            []byte("jpeg-bytes"),
		CoverContentType: "image/jpeg",
	})
	if err != nil {
		t.Fatalf("CreateBook returned error: %v", err)
	}
	if book.CoverURL != "/api/covers/"+book.ID+".jpg" {
		t.Fatalf("expected uploaded cover url, got %q", book.CoverURL)
	}
	if string(blob.blobs["covers/"+book.ID+".jpg"]) != "jpeg-bytes" {
		t.Fatalf("uploaded cover not stored")
	}
}

func TestAdminService_CreateBook_RejectsNonImageCover(t *testing.T) {
	books := newStubBookRepo()
	blob := newMemBlobStore()
	svc := NewAdminService(books, newStubMembershipRepo(), blob, nil, nil, zerolog.Nop())

	for _, contentType := range []string{"text/html", "application/pdf", "image/svg+xml", ""} {
		_, err := svc.CreateBook(context.Background(), ports.CreateBookInput{
			Title: "T", Author: "A", Category: "C", BookType: "B",
			PDF:              []byte("%PDF-1.4"),
			Cover:            []byte("<html>not an image</html>"),
			CoverContentType: contentType,
		})
		var ve *domain.ValidationError
		if !errors.As(err, &ve) {
			t.Fatalf("%q: expected ValidationError, got %v", contentType, err)
		}
	}
	if len(books.books) != 0 {
		t.Fatalf("rejected upload must not create a record, %d records exist", len(books.books))
	}
	if len(blob.blobs) != 0 {
		t.Fatalf("rejected upload must not store blobs, %d blobs exist", len(blob.blobs))
	}
}

func TestAdminService_CreateBook_ReportsMetrics(t *testing.T) {
	recorder := &stubCatalogMetrics{}
	svc := NewAdminService(newStubBookRepo(), newStubMembershipRepo(), newMemBlobStore(), nil, recorder, zerolog.Nop())

	book, err := svc.CreateBook(context.Background(), ports.CreateBookInput{
		Title: "T", Author: "A", Category: "devops", BookType: "B",
		PDF:              []byte("%PDF-1.4"),
		Cover:            []byte("jpeg-bytes"),
		CoverContentType: "image/jpeg",
	})
	if err != nil {
		t.Fatalf("CreateBook returned error: %v", err)
	}
	if len(recorder.created) != 1 || recorder.created[0] != "devops" {
		t.Fatalf("expected one created record for devops, got %v", recorder.created)
	}
	if len(recorder.coverSources) != 1 || recorder.coverSources[0] != "upload" {
		t.Fatalf("expected one upload cover, got %v", recorder.coverSources)
	}

	if err := svc.DeleteBook(context.Background(), book.ID); err != nil {
		t.Fatalf("DeleteBook returned error: %v", err)
	}
	if recorder.deleted != 1 {
		t.Fatalf("expected one delete, got %d", recorder.deleted)
	}
}

func TestAdminService_CreateBook_RendererFailureIsNonFatal(t *testing.T) {
	books := newStubBookRepo()
	renderer := &stubRenderer{err: ports.ErrNoRenderer}
	svc := NewAdminService(books, newStubMembershipRepo(), newMemBlobStore(), renderer, nil, zerolog.Nop())

	book, err := svc.CreateBook(context.Background(), ports.CreateBookInput{
		Title: "T", Author: "A", Category: "C", BookType: "B",
		PDF: []byte("%PDF-1.4"),
	})
	if err != nil {
		t.Fatalf("CreateBook returned error: %v", err)
	}
	if book.CoverURL != "" {
		t.Fatalf("expected no cover, got %q", book.CoverURL)
	}
}

func TestAdminService_CreateBook_PDFWriteFailureRollsBack(t *testing.T) {
	books := newStubBookRepo()
	blob := newMemBlobStore()
	blob.putErr = errors.New("disk full")
	svc := NewAdminService(books, newStubMembershipRepo(), blob, nil, nil, zerolog.Nop())

	_, err := svc.CreateBook(context.Background(), ports.CreateBookInput{
		Title: "T", Author: "A", Category: "C", BookType: "B",
		PDF: []byte("%PDF-1.4"),
	})
	if err == nil {
		t.Fatalf("expected error when pdf write fails")
	}
	if len(books.books) != 0 {
		t.Fatalf("expected record rolled back, %d records remain", len(books.books))
	}
}

func TestAdminService_UpdateBook_PatchSemantics(t *testing.T) {
	books := newStubBookRepo()
	svc := NewAdminService(books, newStubMembershipRepo(), newMemBlobStore(), nil, nil, zerolog.Nop())

	book := seedBook(t, books, domain.Book{
		Title: "Old Title", Author: "Old Author", Category: "C", BookType: "B",
		Description: "old description", PublishedYear: 1990,
	})

	empty := ""
	newTitle := "New Title"
	negYear := -5
	updated, err := svc.UpdateBook(context.Background(), book.ID, ports.UpdateBookInput{
		Title:         &newTitle,
		Author:        &empty,
		Description:   &empty,
		PublishedYear: &negYear,
	})
	if err != nil {
		t.Fatalf("UpdateBook returned error: %v", err)
	}
	if updated.Title != "New Title" {
		t.Fatalf("title not updated: %q", updated.Title)
	}
	if updated.Author != "Old Author" {
		t.Fatalf("blank patch must not clear a required field, got %q", updated.Author)
	}
	if updated.Description != "" {
		t.Fatalf("blank patch should clear an optional field, got %q", updated.Description)
	}
	if updated.PublishedYear != 0 {
		t.Fatalf("negative year should normalize to 0, got %d", updated.PublishedYear)
	}
}

func TestAdminService_UpdateBook_NotFound(t *testing.T) {
	svc := NewAdminService(newStubBookRepo(), newStubMembershipRepo(), newMemBlobStore(), nil, nil, zerolog.Nop())

	if _, err := svc.UpdateBook(context.Background(), "bbbbbbbbbbbbbbbbbbbbbbbb", ports.UpdateBookInput{}); !errors.Is(err, domain.ErrBookNotFound) {
		t.Fatalf("expected ErrBookNotFound, got %v", err)
	}
}

func TestAdminService_DeleteBook_Cascades(t *testing.T) {
	books := newStubBookRepo()
	links := newStubMembershipRepo()
	blob := newMemBlobStore()
	renderer := &stubRenderer{result: &ports.RenderResult{PNG: []byte("png"), Tool: "convert"}}
	svc := NewAdminService(books, links, blob, renderer, nil, zerolog.Nop())

	book, err := svc.CreateBook(context.Background(), ports.CreateBookInput{
		Title: "T", Author: "A", Category: "C", BookType: "B",
		PDF: []byte("%PDF-1.4"),
	})
	if err != nil {
		t.Fatalf("CreateBook returned error: %v", err)
	}
	if err := links.Insert(context.Background(), testUserID, book.ID); err != nil {
		t.Fatalf("insert link: %v", err)
	}

	if err := svc.DeleteBook(context.Background(), book.ID); err != nil {
		t.Fatalf("DeleteBook returned error: %v", err)
	}

	if _, err := books.FindByID(context.Background(), book.ID); !errors.Is(err, domain.ErrBookNotFound) {
		t.Fatalf("record should be gone, got %v", err)
	}
	if len(links.links) != 0 {
		t.Fatalf("membership links should cascade, %d remain", len(links.links))
	}
	if _, ok := blob.blobs["books/"+book.ID+".pdf"]; ok {
		t.Fatalf("pdf blob should be deleted")
	}
	if _, ok := blob.blobs["covers/"+book.ID+".png"]; ok {
		t.Fatalf("cover blob should be deleted")
	}
}

func TestAdminService_DeleteBook_InvalidID(t *testing.T) {
	svc := NewAdminService(newStubBookRepo(), newStubMembershipRepo(), newMemBlobStore(), nil, nil, zerolog.Nop())

	err := svc.DeleteBook(context.Background(), "nope")
	var ve *domain.ValidationError
	if !errors.As(err, &ve) {
		t.Fatalf("expected ValidationError, got %v", err)
	}
}
