package models

import (
	"time"

	"github.com/uptrace/bun"
)

type Person struct {
	bun.BaseModel `bun:"table:persons,alias:p"`

	ID         int       `bun:",pk,nullzero" json:"id"`
	CreatedAt  time.Time `json:"created_at"`
	UpdatedAt  time.Time `json:"updated_at"`
	Name       string    `bun:",nullzero" json:"name"`
	Email      string    `bun:",nullzero" json:"email"`
	MovieCount int       `bun:",scanonly" json:"movie_count"`

	NameFolded  string `json:"-"`
	EmailFolded string `json:"-"`
}
