package movies

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/labstack/echo/v4"
	"github.com/marqueehq/marquee/pkg/errcodes"
	"github.com/marqueehq/marquee/pkg/models"
	"github.com/marqueehq/marquee/pkg/search"
	"github.com/marqueehq/marquee/pkg/storage"
	"github.com/pkg/errors"
	"github.com/robinjoseph08/golib/logger"
)

// UploadedImagePrefix is the storage prefix of images uploaded through the
// API. Only these are ever deleted.
const UploadedImagePrefix = "movies/"

type handler struct {
	movieService *Service
	storage      storage.Backend
}

func (h *handler) list(c echo.Context) error {
	ctx := c.Request().Context()

	params := ListMoviesQuery{}
	if err := c.Bind(&params); err != nil {
		return errors.WithStack(err)
	}

	movies, total, err := h.movieService.ListMoviesWithTotal(ctx, ListMoviesOptions{
		Skip:  &params.Skip,
		Limit: &params.Limit,
		Sort:  params.Sort,
		Order: params.Order,
	})
	if err != nil {
		return errors.WithStack(err)
	}

	skip, limit := search.NormalizePage(&params.Skip, &params.Limit)
	return errors.WithStack(c.JSON(http.StatusOK, search.NewResults(movies, total, skip, limit)))
}

func (h *handler) search(c echo.Context) error {
	ctx := c.Request().Context()

	c.Set("disallow_empty_body", false)
	params := SearchMoviesPayload{}
	if err := c.Bind(&params); err != nil {
		return errors.WithStack(err)
	}

	movies, total, err := h.movieService.ListMoviesWithTotal(ctx, ListMoviesOptions{
		Skip:        &params.Skip,
		Limit:       &params.Limit,
		Search:      params.Title,
		Genres:      params.Genres,
		ReleaseYear: params.ReleaseYear,
		DirectorID:  params.DirectorID,
		ActorIDs:    params.ActorIDs,
		Sort:        params.Sort,
		Order:       params.Order,
	})
	if err != nil {
		return errors.WithStack(err)
	}

	skip, limit := search.NormalizePage(&params.Skip, &params.Limit)
	return errors.WithStack(c.JSON(http.StatusOK, search.NewResults(movies, total, skip, limit)))
}

func (h *handler) retrieve(c echo.Context) error {
	ctx := c.Request().Context()
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		return errcodes.NotFound("Movie")
	}

	movie, err := h.movieService.RetrieveMovie(ctx, RetrieveMovieOptions{
		ID: &id,
	})
	if err != nil {
		return errors.WithStack(err)
	}

	return errors.WithStack(c.JSON(http.StatusOK, movie))
}

func (h *handler) create(c echo.Context) error {
	ctx := c.Request().Context()

	params := CreateMoviePayload{}
	if err := c.Bind(&params); err != nil {
		return errors.WithStack(err)
	}

	movie := &models.Movie{
		Title:       params.Title,
		Description: nilIfEmpty(params.Description),
		ReleaseDate: nilIfEmpty(params.ReleaseDate),
		Genres:      params.Genres,
		Rating:      params.Rating,
	}
	if err := h.movieService.CreateMovie(ctx, movie); err != nil {
		return errors.WithStack(err)
	}

	return errors.WithStack(c.JSON(http.StatusCreated, movie))
}

func (h *handler) update(c echo.Context) error {
	ctx := c.Request().Context()
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		return errcodes.NotFound("Movie")
	}

	params := UpdateMoviePayload{}
	if err := c.Bind(&params); err != nil {
		return errors.WithStack(err)
	}

	movie, err := h.movieService.RetrieveMovie(ctx, RetrieveMovieOptions{
		ID: &id,
	})
	if err != nil {
		return errors.WithStack(err)
	}

	// Keep track of what's been changed
	opts := UpdateMovieOptions{Columns: []string{}}

	if params.Title != nil && *params.Title != movie.Title {
		movie.Title = *params.Title
		opts.Columns = append(opts.Columns, "title")
	}
	if params.Description != nil {
		movie.Description = nilIfEmpty(params.Description)
		opts.Columns = append(opts.Columns, "description")
	}
	if params.ReleaseDate != nil {
		movie.ReleaseDate = nilIfEmpty(params.ReleaseDate)
		opts.Columns = append(opts.Columns, "release_date")
	}
	if params.Rating.Set {
		movie.Rating = params.Rating.Value
		opts.Columns = append(opts.Columns, "rating")
	}
	if params.Genres != nil {
		movie.Genres = models.NormalizeGenres(params.Genres)
		opts.UpdateGenres = true
	}

	if err := h.movieService.UpdateMovie(ctx, movie, opts); err != nil {
		return errors.WithStack(err)
	}

	return errors.WithStack(c.JSON(http.StatusOK, movie))
}

func (h *handler) deleteMovie(c echo.Context) error {
	ctx := c.Request().Context()
	log := logger.FromContext(ctx)
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		return errcodes.NotFound("Movie")
	}

	movie, err := h.movieService.RetrieveMovie(ctx, RetrieveMovieOptions{
		ID: &id,
	})
	if err != nil {
		return errors.WithStack(err)
	}

	if err := h.movieService.DeleteMovie(ctx, id); err != nil {
		return errors.WithStack(err)
	}

	if movie.ImagePath != nil && strings.HasPrefix(*movie.ImagePath, UploadedImagePrefix) {
		if err := h.storage.Delete(ctx, *movie.ImagePath); err != nil {
			log.Err(err).Warn("failed to delete image of deleted movie", logger.Data{"movie_id": id, "image_path": *movie.ImagePath})
		}
	}

	return errors.WithStack(c.NoContent(http.StatusNoContent))
}

func nilIfEmpty(s *string) *string {
	if s == nil || *s == "" {
		return nil
	}
	return s
}
