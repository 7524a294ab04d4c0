package handler

import (
	"errors"
	"io"
	"mime/multipart"
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"

	"github.com/openshelf/digital-library/internal/core/domain"
	"github.com/openshelf/digital-library/internal/core/ports"
)

// maxUploadSize caps multipart file fields on the admin ingestion route.
const maxUploadSize = 50 << 20

// AdminHandler handles the admin catalog write path.
type AdminHandler struct {
	admin ports.AdminService
}

func NewAdminHandler(admin ports.AdminService) *AdminHandler {
	return &AdminHandler{admin: admin}
}

type updateBookRequest struct {
	Title         *string `json:"title"`
	Author        *string `json:"author"`
	Category      *string `json:"category"`
	BookType      *string `json:"book_type"`
	Description   *string `json:"description"`
	CoverURL      *string `json:"cover_url"`
	ISBN          *string `json:"isbn"`
	PublishedYear *int    `json:"published_year"`
}

// Create handles POST /api/admin/books: multipart metadata plus a required
// "file" PDF and an optional "cover" image.
func (h *AdminHandler) Create(c echo.Context) error {
	fh, err := c.FormFile("file")
	if err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "PDF file is required"})
	}
	if fh.Size > maxUploadSize {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "file too large (max 50 MB)"})
	}
	if fh.Header.Get("Content-Type") != "application/pdf" {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "only PDF files are allowed"})
	}
	pdf, err := readFormFile(fh)
	if err != nil {
		return err
	}

	var cover []byte
	var coverType string
	if ch, err := c.FormFile("cover"); err == nil {
		if ch.Size > maxUploadSize {
			return c.JSON(http.StatusBadRequest, map[string]string{"error": "file too large (max 50 MB)"})
		}
		cover, err = readFormFile(ch)
		if err != nil {
			return err
		}
		coverType = ch.Header.Get("Content-Type")
	}

	// A malformed year is treated as unset rather than rejected.
	year, _ := strconv.Atoi(c.FormValue("published_year"))

	book, err := h.admin.CreateBook(c.Request().Context(), ports.CreateBookInput{
		Title:            c.FormValue("title"),
		Author:           c.FormValue("author"),
		Category:         c.FormValue("category"),
		BookType:         c.FormValue("book_type"),
		Description:      c.FormValue("description"),
		ISBN:             c.FormValue("isbn"),
		PublishedYear:    year,
		PDF:              pdf,
		Cover:            cover,
		CoverContentType: coverType,
	})
	if err != nil {
		var ve *domain.ValidationError
		if errors.As(err, &ve) {
			return c.JSON(http.StatusBadRequest, map[string]string{"error": err.Error()})
		}
		return err
	}

	return c.JSON(http.StatusCreated, book)
}

// Update handles PUT /api/admin/books/:id with a partial JSON patch.
func (h *AdminHandler) Update(c echo.Context) error {
	var req updateBookRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "invalid payload"})
	}

	book, err := h.admin.UpdateBook(c.Request().Context(), c.Param("id"), ports.UpdateBookInput{
		Title:         req.Title,
		Author:        req.Author,
		Category:      req.Category,
		BookType:      req.BookType,
		Description:   req.Description,
		CoverURL:      req.CoverURL,
		ISBN:          req.ISBN,
		PublishedYear: req.PublishedYear,
	})
	if err != nil {
		var ve *domain.ValidationError
		switch {
		case errors.As(err, &ve):
			return c.JSON(http.StatusBadRequest, map[string]string{"error": err.Error()})
		case errors.Is(err, domain.ErrBookNotFound):
			return c.JSON(http.StatusNotFound, map[string]string{"error": "book not found"})
		}
		return err
	}
	return c.JSON(http.StatusOK, book)
}

// Delete handles DELETE /api/admin/books/:id.
func (h *AdminHandler) Delete(c echo.Context) error {
	if err := h.admin.DeleteBook(c.Request().Context(), c.Param("id")); err != nil {
		var ve *domain.ValidationError
		switch {
		case errors.As(err, &ve):
			return c.JSON(http.StatusBadRequest, map[string]string{"error": err.Error()})
		case errors.Is(err, domain.ErrBookNotFound):
			return c.JSON(http.StatusNotFound, map[string]string{"error": "book not found"})
		}
		return err
	}
	return c.JSON(http.StatusOK, map[string]bool{"deleted": true})
}

func readFormFile(fh *multipart.FileHeader) ([]byte, error) {
	src, err := fh.Open()
	if err != nil {
		return nil, err
	}
	defer src.Close()
	return io.ReadAll(src)
}
