package genres

import (
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"
	"github.com/marqueehq/marquee/pkg/errcodes"
	"github.com/marqueehq/marquee/pkg/models"
	"github.com/pkg/errors"
)

type handler struct {
	genreService *Service
}

func (h *handler) list(c echo.Context) error {
	ctx := c.Request().Context()

	genres, err := h.genreService.ListGenres(ctx)
	if err != nil {
		return errors.WithStack(err)
	}

	return errors.WithStack(c.JSON(http.StatusOK, genres))
}

func (h *handler) retrieve(c echo.Context) error {
	ctx := c.Request().Context()

	// Accept either the code or the name.
	param := c.Param("code")
	code, err := strconv.Atoi(param)
	if err != nil {
		g, ok := models.ParseGenre(param)
		if !ok {
			return errcodes.NotFound("Genre")
		}
		code = int(g)
	}

	genre, err := h.genreService.RetrieveGenre(ctx, models.Genre(code))
	if err != nil {
		return errors.WithStack(err)
	}

	return errors.WithStack(c.JSON(http.StatusOK, genre))
}
