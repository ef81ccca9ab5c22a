package admin

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/marqueehq/marquee/pkg/seed"
	"github.com/pkg/errors"
	"github.com/robinjoseph08/golib/logger"
)

const (
	statusOK      = "ok"
	statusSkipped = "skipped"
)

type statusResponse struct {
	Status  string `json:"status"`
	Message string `json:"message"`
}

type handler struct {
	seedService *seed.Service
}

func (h *handler) seed(c echo.Context) error {
	ctx := c.Request().Context()

	seeded, err := h.seedService.Seed(ctx)
	if err != nil {
		return errors.WithStack(err)
	}

	if !seeded {
		return errors.WithStack(c.JSON(http.StatusOK, statusResponse{
			Status:  statusSkipped,
			Message: "Database already contains movies. Nothing was seeded.",
		}))
	}
	return errors.WithStack(c.JSON(http.StatusOK, statusResponse{
		Status:  statusOK,
		Message: "Database seeded.",
	}))
}

func (h *handler) clean(c echo.Context) error {
	ctx := c.Request().Context()

	if err := h.seedService.Clean(ctx); err != nil {
		return errors.WithStack(err)
	}

	logger.FromContext(ctx).Info("cleaned database")

	return errors.WithStack(c.JSON(http.StatusOK, statusResponse{
		Status:  statusOK,
		Message: "Database cleaned.",
	}))
}

func (h *handler) reset(c echo.Context) error {
	ctx := c.Request().Context()

	seeded, err := h.seedService.Reset(ctx)
	if err != nil {
		return errors.WithStack(err)
	}

	logger.FromContext(ctx).Info("reset database", logger.Data{"seeded": seeded})

	msg := "Database reset and seeded."
	if !seeded {
		msg = "Database reset. The fixture is empty."
	}
	return errors.WithStack(c.JSON(http.StatusOK, statusResponse{
		Status:  statusOK,
		Message: msg,
	}))
}

func (h *handler) stats(c echo.Context) error {
	ctx := c.Request().Context()

	counts, err := h.seedService.Stats(ctx)
	if err != nil {
		return errors.WithStack(err)
	}

	return errors.WithStack(c.JSON(http.StatusOK, counts))
}
