package models

import (
	"time"

	"github.com/uptrace/bun"
)

type Review struct {
	bun.BaseModel `bun:"table:reviews,alias:r"`

	ID         int       `bun:",pk,nullzero" json:"id"`
	CreatedAt  time.Time `json:"created_at"`
	MovieID    int       `bun:",nullzero" json:"movie_id"`
	AuthorName string    `bun:",nullzero" json:"author_name"`
	Rating     float64   `json:"rating"`
	Content    string    `bun:",nullzero" json:"content"`
}
