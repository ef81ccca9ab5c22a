package movies

import (
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"
	"github.com/marqueehq/marquee/pkg/errcodes"
	"github.com/pkg/errors"
)

func (h *handler) listPersons(c echo.Context) error {
	ctx := c.Request().Context()
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		return errcodes.NotFound("Movie")
	}

	credits, err := h.movieService.ListPersonsForMovie(ctx, id)
	if err != nil {
		return errors.WithStack(err)
	}

	return errors.WithStack(c.JSON(http.StatusOK, credits))
}

func (h *handler) addPersons(c echo.Context) error {
	ctx := c.Request().Context()
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		return errcodes.NotFound("Movie")
	}

	params := AddPersonsPayload{}
	if err := c.Bind(&params); err != nil {
		return errors.WithStack(err)
	}

	entries := make([]PersonRole, 0, len(params.Persons))
	for _, p := range params.Persons {
		entries = append(entries, PersonRole{PersonID: p.PersonID, Role: p.Role})
	}

	credits, err := h.movieService.AddPersonsToMovie(ctx, id, entries)
	if err != nil {
		return errors.WithStack(err)
	}

	return errors.WithStack(c.JSON(http.StatusCreated, credits))
}

func (h *handler) removePerson(c echo.Context) error {
	ctx := c.Request().Context()
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		return errcodes.NotFound("Movie")
	}
	personID, err := strconv.Atoi(c.Param("person_id"))
	if err != nil {
		return errcodes.NotFound("Person")
	}

	params := RemovePersonQuery{}
	if err := c.Bind(&params); err != nil {
		return errors.WithStack(err)
	}

	if err := h.movieService.RemovePersonFromMovie(ctx, id, personID, params.Role); err != nil {
		return errors.WithStack(err)
	}

	return errors.WithStack(c.NoContent(http.StatusNoContent))
}
