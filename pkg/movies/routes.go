package movies

import (
	"github.com/labstack/echo/v4"
	"github.com/marqueehq/marquee/pkg/storage"
	"github.com/uptrace/bun"
)

// RegisterRoutesWithGroup registers movie and credit routes on a
// pre-configured group.
func RegisterRoutesWithGroup(g *echo.Group, db *bun.DB, store storage.Backend) {
	h := &handler{
		movieService: NewService(db),
		storage:      store,
	}

	g.GET("", h.list)
	g.POST("", h.create)
	g.POST("/search", h.search)
	g.GET("/:id", h.retrieve)
	g.PATCH("/:id", h.update)
	g.DELETE("/:id", h.deleteMovie)

	g.GET("/:id/persons", h.listPersons)
	g.POST("/:id/persons", h.addPersons)
	g.DELETE("/:id/persons/:person_id", h.removePerson)
}
