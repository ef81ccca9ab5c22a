package admin

import (
	"github.com/labstack/echo/v4"
	"github.com/marqueehq/marquee/pkg/seed"
	"github.com/uptrace/bun"
)

// RegisterRoutesWithGroup registers the database maintenance routes.
func RegisterRoutesWithGroup(g *echo.Group, db *bun.DB, fixturePath string) {
	h := &handler{
		seedService: seed.NewService(db, fixturePath),
	}

	g.POST("/db/seed", h.seed)
	g.POST("/db/clean", h.clean)
	g.POST("/db/reset", h.reset)
	g.GET("/stats", h.stats)
}
