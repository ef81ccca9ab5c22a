package reviews

import (
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"
	"github.com/marqueehq/marquee/pkg/errcodes"
	"github.com/marqueehq/marquee/pkg/models"
	"github.com/pkg/errors"
)

type handler struct {
	reviewService *Service
}

func (h *handler) list(c echo.Context) error {
	ctx := c.Request().Context()
	movieID, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		return errcodes.NotFound("Movie")
	}

	params := ListReviewsQuery{}
	if err := c.Bind(&params); err != nil {
		return errors.WithStack(err)
	}

	page, err := h.reviewService.ListReviews(ctx, ListReviewsOptions{
		MovieID: movieID,
		Skip:    &params.Skip,
		Limit:   &params.Limit,
	})
	if err != nil {
		return errors.WithStack(err)
	}

	return errors.WithStack(c.JSON(http.StatusOK, page))
}

func (h *handler) create(c echo.Context) error {
	ctx := c.Request().Context()
	movieID, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		return errcodes.NotFound("Movie")
	}

	params := CreateReviewPayload{}
	if err := c.Bind(&params); err != nil {
		return errors.WithStack(err)
	}

	review := &models.Review{
		MovieID:    movieID,
		AuthorName: params.AuthorName,
		Rating:     *params.Rating,
		Content:    params.Content,
	}
	if err := h.reviewService.CreateReview(ctx, review); err != nil {
		return errors.WithStack(err)
	}

	return errors.WithStack(c.JSON(http.StatusCreated, review))
}

func (h *handler) deleteReview(c echo.Context) error {
	ctx := c.Request().Context()
	movieID, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		return errcodes.NotFound("Movie")
	}
	reviewID, err := strconv.Atoi(c.Param("review_id"))
	if err != nil {
		return errcodes.NotFound("Review")
	}

	if err := h.reviewService.DeleteReview(ctx, movieID, reviewID); err != nil {
		return errors.WithStack(err)
	}

	return errors.WithStack(c.NoContent(http.StatusNoContent))
}
