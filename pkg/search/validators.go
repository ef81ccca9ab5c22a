package search

import "github.com/marqueehq/marquee/pkg/models"

type GlobalSearchQuery struct {
	Query string `query:"q" json:"q" mod:"trim" validate:"required,max=100"`
}

// GlobalSearchResponse holds up to five matches per resource type for
// typeahead display.
type GlobalSearchResponse struct {
	Movies  []MovieSearchResult  `json:"movies"`
	Persons []PersonSearchResult `json:"persons"`
}

type MovieSearchResult struct {
	ID          int            `json:"id"`
	Title       string         `json:"title"`
	ReleaseDate *string        `json:"release_date"`
	Genres      []models.Genre `json:"genres" bun:"-"`
}

type PersonSearchResult struct {
	ID         int    `json:"id"`
	Name       string `json:"name"`
	MovieCount int    `json:"movie_count"`
}
