package images

import (
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"
	"github.com/marqueehq/marquee/pkg/errcodes"
	"github.com/marqueehq/marquee/pkg/models"
	"github.com/pkg/errors"
)

type handler struct {
	imageService *Service
}

type uploadResponse struct {
	*models.Movie
	ImageURL string `json:"image_url"`
}

func (h *handler) upload(c echo.Context) error {
	ctx := c.Request().Context()
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		return errcodes.NotFound("Movie")
	}

	params := UploadImagePayload{}
	if err := c.Bind(&params); err != nil {
		return errors.WithStack(err)
	}

	fh, ok := params.FormFiles["file"]
	if !ok {
		return errcodes.ValidationError(`"file" is required`)
	}

	movie, err := h.imageService.UploadMovieImage(ctx, id, fh)
	if err != nil {
		return errors.WithStack(err)
	}

	return errors.WithStack(c.JSON(http.StatusOK, uploadResponse{
		Movie:    movie,
		ImageURL: h.imageService.ImageURL(*movie.ImagePath),
	}))
}
