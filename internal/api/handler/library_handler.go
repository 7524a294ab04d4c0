package handler

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/openshelf/digital-library/internal/core/domain"
	"github.com/openshelf/digital-library/internal/core/ports"
)

// LibraryHandler handles the authenticated "my library" routes.
type LibraryHandler struct {
	library ports.MembershipService
}

func NewLibraryHandler(library ports.MembershipService) *LibraryHandler {
	return &LibraryHandler{library: library}
}

// List handles GET /api/user-books.
func (h *LibraryHandler) List(c echo.Context) error {
	userID, err := ctxUserID(c)
	if err != nil {
		return err
	}

	books, err := h.library.ListLibrary(c.Request().Context(), userID)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, books)
}

// Add handles POST /api/user-books/:bookId.
func (h *LibraryHandler) Add(c echo.Context) error {
	userID, err := ctxUserID(c)
	if err != nil {
		return err
	}

	if err := h.library.AddToLibrary(c.Request().Context(), userID, c.Param("bookId")); err != nil {
		var ve *domain.ValidationError
		switch {
		case errors.As(err, &ve):
			return c.JSON(http.StatusBadRequest, map[string]string{"error": err.Error()})
		case errors.Is(err, domain.ErrBookNotFound):
			return c.JSON(http.StatusNotFound, map[string]string{"error": "book not found"})
		case errors.Is(err, domain.ErrAlreadyInLibrary):
			return c.JSON(http.StatusConflict, map[string]string{"error": err.Error()})
		}
		return err
	}
	return c.JSON(http.StatusCreated, map[string]bool{"added": true})
}

// Remove handles DELETE /api/user-books/:bookId.
func (h *LibraryHandler) Remove(c echo.Context) error {
	userID, err := ctxUserID(c)
	if err != nil {
		return err
	}

	if err := h.library.RemoveFromLibrary(c.Request().Context(), userID, c.Param("bookId")); err != nil {
		var ve *domain.ValidationError
		switch {
		case errors.As(err, &ve):
			return c.JSON(http.StatusBadRequest, map[string]string{"error": err.Error()})
		case errors.Is(err, domain.ErrNotInLibrary):
			return c.JSON(http.StatusNotFound, map[string]string{"error": err.Error()})
		}
		return err
	}
	return c.JSON(http.StatusOK, map[string]bool{"removed": true})
}
