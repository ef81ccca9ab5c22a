package people

import (
	"github.com/labstack/echo/v4"
	"github.com/uptrace/bun"
)

// RegisterRoutesWithGroup registers person routes on a pre-configured group.
func RegisterRoutesWithGroup(g *echo.Group, db *bun.DB) {
	h := &handler{
		personService: NewService(db),
	}

	g.GET("", h.list)
	g.POST("", h.create)
	g.POST("/search", h.search)
	g.GET("/:id", h.retrieve)
	g.PATCH("/:id", h.update)
	g.DELETE("/:id", h.deletePerson)
	g.GET("/:id/movies", h.movies)
}
