package reviews

type ListReviewsQuery struct {
	Skip  int `query:"skip" json:"skip" validate:"min=0"`
	Limit int `query:"limit" json:"limit" default:"20" validate:"min=1,max=100"`
}

type CreateReviewPayload struct {
	AuthorName string   `json:"author_name" mod:"trim" validate:"required,max=255"`
	Rating     *float64 `json:"rating" validate:"required,min=0,max=10"`
	Content    string   `json:"content" mod:"sanitize" validate:"required,max=10000"`
}
