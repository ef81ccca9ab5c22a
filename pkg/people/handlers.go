package people

import (
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"
	"github.com/marqueehq/marquee/pkg/errcodes"
	"github.com/marqueehq/marquee/pkg/models"
	"github.com/marqueehq/marquee/pkg/search"
	"github.com/pkg/errors"
)

type handler struct {
	personService *Service
}

func (h *handler) retrieve(c echo.Context) error {
	ctx := c.Request().Context()
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		return errcodes.NotFound("Person")
	}

	person, err := h.personService.RetrievePerson(ctx, RetrievePersonOptions{
		ID: &id,
	})
	if err != nil {
		return errors.WithStack(err)
	}

	return errors.WithStack(c.JSON(http.StatusOK, person))
}

func (h *handler) list(c echo.Context) error {
	ctx := c.Request().Context()

	params := ListPeopleQuery{}
	if err := c.Bind(&params); err != nil {
		return errors.WithStack(err)
	}

	people, total, err := h.personService.ListPeopleWithTotal(ctx, ListPeopleOptions{
		Skip:  &params.Skip,
		Limit: &params.Limit,
	})
	if err != nil {
		return errors.WithStack(err)
	}

	skip, limit := search.NormalizePage(&params.Skip, &params.Limit)
	return errors.WithStack(c.JSON(http.StatusOK, search.NewResults(people, total, skip, limit)))
}

func (h *handler) search(c echo.Context) error {
	ctx := c.Request().Context()

	c.Set("disallow_empty_body", false)
	params := SearchPeoplePayload{}
	if err := c.Bind(&params); err != nil {
		return errors.WithStack(err)
	}

	people, total, err := h.personService.ListPeopleWithTotal(ctx, ListPeopleOptions{
		Skip:     &params.Skip,
		Limit:    &params.Limit,
		Search:   params.Search,
		MovieIDs: params.MovieIDs,
		Genres:   params.Genres,
		Roles:    params.Roles,
	})
	if err != nil {
		return errors.WithStack(err)
	}

	skip, limit := search.NormalizePage(&params.Skip, &params.Limit)
	return errors.WithStack(c.JSON(http.StatusOK, search.NewResults(people, total, skip, limit)))
}

func (h *handler) create(c echo.Context) error {
	ctx := c.Request().Context()

	params := CreatePersonPayload{}
	if err := c.Bind(&params); err != nil {
		return errors.WithStack(err)
	}

	person := &models.Person{
		Name:  params.Name,
		Email: params.Email,
	}
	if err := h.personService.CreatePerson(ctx, person); err != nil {
		return errors.WithStack(err)
	}

	return errors.WithStack(c.JSON(http.StatusCreated, person))
}

func (h *handler) update(c echo.Context) error {
	ctx := c.Request().Context()
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		return errcodes.NotFound("Person")
	}

	params := UpdatePersonPayload{}
	if err := c.Bind(&params); err != nil {
		return errors.WithStack(err)
	}

	person, err := h.personService.RetrievePerson(ctx, RetrievePersonOptions{
		ID: &id,
	})
	if err != nil {
		return errors.WithStack(err)
	}

	// Keep track of what's been changed
	opts := UpdatePersonOptions{Columns: []string{}}

	if params.Name != nil && *params.Name != person.Name {
		person.Name = *params.Name
		opts.Columns = append(opts.Columns, "name")
	}
	if params.Email != nil && *params.Email != person.Email {
		person.Email = *params.Email
		opts.Columns = append(opts.Columns, "email")
	}

	if err := h.personService.UpdatePerson(ctx, person, opts); err != nil {
		return errors.WithStack(err)
	}

	return errors.WithStack(c.JSON(http.StatusOK, person))
}

func (h *handler) deletePerson(c echo.Context) error {
	ctx := c.Request().Context()
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		return errcodes.NotFound("Person")
	}

	if err := h.personService.DeletePerson(ctx, id); err != nil {
		return errors.WithStack(err)
	}

	return errors.WithStack(c.NoContent(http.StatusNoContent))
}

func (h *handler) movies(c echo.Context) error {
	ctx := c.Request().Context()
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		return errcodes.NotFound("Person")
	}

	credits, err := h.personService.ListMoviesForPerson(ctx, id)
	if err != nil {
		return errors.WithStack(err)
	}

	return errors.WithStack(c.JSON(http.StatusOK, credits))
}
