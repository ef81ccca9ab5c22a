package movies

import (
	"encoding/json"

	"github.com/marqueehq/marquee/pkg/models"
)

type ListMoviesQuery struct {
	Skip  int    `query:"skip" json:"skip" validate:"min=0"`
	Limit int    `query:"limit" json:"limit" default:"20" validate:"min=1,max=100"`
	Sort  string `query:"sort" json:"sort" validate:"omitempty,oneof=id title rating release_date created_at"`
	Order string `query:"order" json:"order" validate:"omitempty,oneof=asc desc"`
}

type SearchMoviesPayload struct {
	Title       *string        `json:"title,omitempty" mod:"trim" validate:"omitempty,max=255"`
	Genres      []models.Genre `json:"genres,omitempty" validate:"omitempty,dive,genre"`
	ReleaseYear *int           `json:"release_year,omitempty" validate:"omitempty,min=1800,max=9999"`
	DirectorID  *int           `json:"director_id,omitempty" validate:"omitempty,min=1"`
	ActorIDs    []int          `json:"actor_ids,omitempty" validate:"omitempty,dive,min=1"`
	Sort        string         `json:"sort,omitempty" validate:"omitempty,oneof=id title rating release_date created_at"`
	Order       string         `json:"order,omitempty" validate:"omitempty,oneof=asc desc"`
	Skip        int            `json:"skip" validate:"min=0"`
	Limit       int            `json:"limit" default:"20" validate:"min=1,max=100"`
}

type CreateMoviePayload struct {
	Title       string         `json:"title" mod:"trim" validate:"required,max=255"`
	Description *string        `json:"description,omitempty" mod:"sanitize" validate:"omitempty,max=5000"`
	ReleaseDate *string        `json:"release_date,omitempty" mod:"trim" validate:"omitempty,date"`
	Genres      []models.Genre `json:"genres" validate:"required,min=1,dive,genre"`
	Rating      *float64       `json:"rating,omitempty" validate:"omitempty,min=0,max=10"`
}

// UpdateMoviePayload only touches the fields that are present. An empty
// description or release_date clears it, and so does a null rating.
type UpdateMoviePayload struct {
	Title       *string        `json:"title,omitempty" mod:"trim" validate:"omitempty,max=255"`
	Description *string        `json:"description,omitempty" mod:"sanitize" validate:"omitempty,max=5000"`
	ReleaseDate *string        `json:"release_date,omitempty" mod:"trim" validate:"omitempty,date"`
	Genres      []models.Genre `json:"genres,omitempty" validate:"omitempty,dive,genre"`
	Rating      OptionalRating `json:"rating"`
}

// OptionalRating tells an explicit null apart from an absent field. The range
// is checked when the movie is saved.
type OptionalRating struct {
	Set   bool
	Value *float64
}

func (r *OptionalRating) UnmarshalJSON(data []byte) error {
	r.Set = true
	if string(data) == "null" {
		r.Value = nil
		return nil
	}
	var v float64
	if err := json.Unmarshal(data, &v); err != nil {
		return err
	}
	r.Value = &v
	return nil
}

type PersonRolePayload struct {
	PersonID int         `json:"person_id" validate:"required,min=1"`
	Role     models.Role `json:"role" validate:"required,role"`
}

type AddPersonsPayload struct {
	Persons []PersonRolePayload `json:"persons" validate:"required,min=1,max=100,dive"`
}

type RemovePersonQuery struct {
	Role *models.Role `query:"role" json:"role,omitempty" validate:"omitempty,role"`
}
