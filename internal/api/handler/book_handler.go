package handler

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/openshelf/digital-library/internal/core/domain"
	"github.com/openshelf/digital-library/internal/core/ports"
)

// BookHandler handles the public catalog read path.
type BookHandler struct {
	catalog ports.CatalogService
}

func NewBookHandler(catalog ports.CatalogService) *BookHandler {
	return &BookHandler{catalog: catalog}
}

type listBooksResponse struct {
	Books      []*domain.Book `json:"books"`
	Total      int64          `json:"total"`
	Page       int            `json:"page"`
	Limit      int            `json:"limit"`
	TotalPages int            `json:"totalPages"`
}

// List handles GET /api/books with pagination, sorting, filters, and search.
func (h *BookHandler) List(c echo.Context) error {
	result, err := h.catalog.ListBooks(c.Request().Context(), ports.ListBooksInput{
		Page:     c.QueryParam("page"),
		Limit:    c.QueryParam("limit"),
		Sort:     c.QueryParam("sort"),
		Order:    c.QueryParam("order"),
		Category: c.QueryParam("category"),
		BookType: c.QueryParam("book_type"),
		Search:   c.QueryParam("q"),
	})
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, listBooksResponse{
		Books:      result.Books,
		Total:      result.Total,
		Page:       result.Page,
		Limit:      result.Limit,
		TotalPages: result.TotalPages,
	})
}

// Categories handles GET /api/books/categories.
func (h *BookHandler) Categories(c echo.Context) error {
	categories, err := h.catalog.Categories(c.Request().Context())
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, categories)
}

// Types handles GET /api/books/types.
func (h *BookHandler) Types(c echo.Context) error {
	types, err := h.catalog.Types(c.Request().Context())
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, types)
}

// Get handles GET /api/books/:id.
func (h *BookHandler) Get(c echo.Context) error {
	book, err := h.catalog.GetBook(c.Request().Context(), c.Param("id"))
	if err != nil {
		if errors.Is(err, domain.ErrBookNotFound) {
			return c.JSON(http.StatusNotFound, map[string]string{"error": "book not found"})
		}
		return err
	}
	return c.JSON(http.StatusOK, book)
}

// File handles GET /api/books/:id/file, streaming the stored PDF.
func (h *BookHandler) File(c echo.Context) error {
	rc, err := h.catalog.OpenBookFile(c.Request().Context(), c.Param("id"))
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrBookNotFound):
			return c.JSON(http.StatusNotFound, map[string]string{"error": "book not found"})
		case errors.Is(err, domain.ErrBookFileMissing):
			return c.JSON(http.StatusNotFound, map[string]string{"error": "file not found"})
		}
		return err
	}
	defer rc.Close()

	return c.Stream(http.StatusOK, "application/pdf", rc)
}
