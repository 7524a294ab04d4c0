package handler

import (
	"errors"
	"mime"
	"net/http"
	"path"
	"regexp"

	"github.com/labstack/echo/v4"

	"github.com/openshelf/digital-library/internal/core/ports"
)

// safeFilename restricts served filenames to a character allowlist so no
// traversal sequence can reach the blob store.
var safeFilename = regexp.MustCompile(`^[a-zA-Z0-9._-]+$`)

// FileHandler serves cover and avatar images from the blob store.
type FileHandler struct {
	blob ports.BlobStore
}

func NewFileHandler(blob ports.BlobStore) *FileHandler {
	return &FileHandler{blob: blob}
}

// Cover handles GET /api/covers/:filename.
func (h *FileHandler) Cover(c echo.Context) error {
	return h.serve(c, "covers/")
}

// Avatar handles GET /api/avatars/:filename.
func (h *FileHandler) Avatar(c echo.Context) error {
	return h.serve(c, "avatars/")
}

func (h *FileHandler) serve(c echo.Context, prefix string) error {
	name := c.Param("filename")
	if !safeFilename.MatchString(name) {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "invalid filename"})
	}

	rc, err := h.blob.Get(c.Request().Context(), prefix+name)
	if err != nil {
		if errors.Is(err, ports.ErrBlobNotFound) {
			return c.JSON(http.StatusNotFound, map[string]string{"error": "file not found"})
		}
		return err
	}
	defer rc.Close()

	contentType := mime.TypeByExtension(path.Ext(name))
	if contentType == "" {
		contentType = "application/octet-stream"
	}
	c.Response().Header().Set("Cache-Control", "public, max-age=86400")
	return c.Stream(http.StatusOK, contentType, rc)
}
