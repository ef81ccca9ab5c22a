package models

import (
	"time"

	"github.com/uptrace/bun"
)

// MoviePerson links a person to a movie in one role. The same person can
// hold several roles on one movie but each (movie, person, role) is unique.
type MoviePerson struct {
	bun.BaseModel `bun:"table:movie_persons,alias:mp"`

	ID        int       `bun:",pk,nullzero" json:"id"`
	CreatedAt time.Time `json:"created_at"`
	MovieID   int       `bun:",nullzero" json:"movie_id"`
	Movie     *Movie    `bun:"rel:belongs-to,join:movie_id=id" json:"movie,omitempty"`
	PersonID  int       `bun:",nullzero" json:"person_id"`
	Person    *Person   `bun:"rel:belongs-to,join:person_id=id" json:"person,omitempty"`
	Role      Role      `bun:",nullzero" json:"role"`
}
