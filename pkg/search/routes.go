package search

import (
	"github.com/labstack/echo/v4"
	"github.com/uptrace/bun"
)

// RegisterRoutesWithGroup registers the typeahead search route.
func RegisterRoutesWithGroup(g *echo.Group, db *bun.DB) {
	h := &handler{
		searchService: NewService(db),
	}

	g.GET("", h.globalSearch)
}
