package server

import (
	"fmt"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/marqueehq/marquee/pkg/admin"
	"github.com/marqueehq/marquee/pkg/binder"
	"github.com/marqueehq/marquee/pkg/config"
	"github.com/marqueehq/marquee/pkg/errcodes"
	"github.com/marqueehq/marquee/pkg/genres"
	"github.com/marqueehq/marquee/pkg/images"
	"github.com/marqueehq/marquee/pkg/movies"
	"github.com/marqueehq/marquee/pkg/people"
	"github.com/marqueehq/marquee/pkg/reviews"
	"github.com/marqueehq/marquee/pkg/search"
	"github.com/marqueehq/marquee/pkg/storage"
	"github.com/pkg/errors"
	"github.com/robinjoseph08/golib/echo/v4/health"
	"github.com/robinjoseph08/golib/echo/v4/middleware/logger"
	"github.com/robinjoseph08/golib/echo/v4/middleware/recovery"
	"github.com/uptrace/bun"
)

func New(cfg *config.Config, db *bun.DB) (*http.Server, error) {
	e, err := newEcho(cfg, db)
	if err != nil {
		return nil, err
	}

	srv := &http.Server{
		Addr:              fmt.Sprintf("%s:%d", cfg.ServerHost, cfg.ServerPort),
		Handler:           e,
		ReadHeaderTimeout: 3 * time.Second,
	}

	return srv, nil
}

func newEcho(cfg *config.Config, db *bun.DB) (*echo.Echo, error) {
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true

	b, err := binder.New()
	if err != nil {
		return nil, errors.WithStack(err)
	}
	e.Binder = b
	e.JSONSerializer = &jsonSerializer{}

	store, err := storage.New(cfg)
	if err != nil {
		return nil, errors.WithStack(err)
	}

	e.Use(logger.Middleware())
	e.Use(recovery.Middleware())
	e.Use(middleware.CORSWithConfig(middleware.CORSConfig{
		AllowOrigins: cfg.CORSAllowOrigins,
	}))
	if cfg.RequestTimeout > 0 {
		e.Use(middleware.ContextTimeoutWithConfig(middleware.ContextTimeoutConfig{
			Timeout: cfg.RequestTimeout,
		}))
	}

	health.RegisterRoutes(e)

	e.Static(cfg.StorageLocalURL, cfg.StorageLocalPath)

	moviesGroup := e.Group("/movies")
	movies.RegisterRoutesWithGroup(moviesGroup, db, store)
	reviews.RegisterRoutesWithGroup(moviesGroup, db)
	images.RegisterRoutesWithGroup(moviesGroup, db, store)

	people.RegisterRoutesWithGroup(e.Group("/persons"), db)
	genres.RegisterRoutesWithGroup(e.Group("/genres"), db)
	search.RegisterRoutesWithGroup(e.Group("/search"), db)

	adminGroup := e.Group("/admin")
	admin.RegisterRoutesWithGroup(adminGroup, db, cfg.SeedFixturePath)
	config.RegisterRoutesWithGroup(adminGroup, cfg)

	echo.NotFoundHandler = notFoundHandler
	e.HTTPErrorHandler = errcodes.NewHandler().Handle

	return e, nil
}

func notFoundHandler(c echo.Context) error {
	c.SetPath("/:path")
	return errcodes.NotFound("Page")
}
