package reviews

import (
	"github.com/labstack/echo/v4"
	"github.com/uptrace/bun"
)

// RegisterRoutesWithGroup registers review routes on the movies group.
func RegisterRoutesWithGroup(g *echo.Group, db *bun.DB) {
	h := &handler{
		reviewService: NewService(db),
	}

	g.GET("/:id/reviews", h.list)
	g.POST("/:id/reviews", h.create)
	g.DELETE("/:id/reviews/:review_id", h.deleteReview)
}
