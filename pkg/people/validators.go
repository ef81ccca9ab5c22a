package people

import "github.com/marqueehq/marquee/pkg/models"

type ListPeopleQuery struct {
	Skip  int `query:"skip" json:"skip" validate:"min=0"`
	Limit int `query:"limit" json:"limit" default:"20" validate:"min=1,max=100"`
}

type SearchPeoplePayload struct {
	Search   *string        `json:"search,omitempty" mod:"trim" validate:"omitempty,max=100"`
	MovieIDs []int          `json:"movie_ids,omitempty" validate:"omitempty,dive,min=1"`
	Genres   []models.Genre `json:"genres,omitempty" validate:"omitempty,dive,genre"`
	Roles    []models.Role  `json:"roles,omitempty" validate:"omitempty,dive,role"`
	Skip     int            `json:"skip" validate:"min=0"`
	Limit    int            `json:"limit" default:"20" validate:"min=1,max=100"`
}

type CreatePersonPayload struct {
	Name  string `json:"name" mod:"trim" validate:"required,max=255"`
	Email string `json:"email" mod:"trim,lcase" validate:"required,email,max=320"`
}

type UpdatePersonPayload struct {
	Name  *string `json:"name,omitempty" mod:"trim" validate:"omitempty,min=1,max=255"`
	Email *string `json:"email,omitempty" mod:"trim,lcase" validate:"omitempty,email,max=320"`
}
