package images

import (
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/marqueehq/marquee/pkg/storage"
	"github.com/uptrace/bun"
)

// uploadBodyLimit leaves room for multipart framing around a MaxImageSize
// file. Larger bodies are refused with a 413 before they are read.
const uploadBodyLimit = "12M"

// RegisterRoutesWithGroup registers the upload route on the movies group.
func RegisterRoutesWithGroup(g *echo.Group, db *bun.DB, store storage.Backend) {
	h := &handler{
		imageService: NewService(db, store),
	}

	g.POST("/:id/upload-image", h.upload, middleware.BodyLimit(uploadBodyLimit))
}
