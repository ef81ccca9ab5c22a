package models

import (
	"time"

	"github.com/uptrace/bun"
)

// ReleaseDateLayout is the storage and wire format of Movie.ReleaseDate.
const ReleaseDateLayout = "2006-01-02"

type Movie struct {
	bun.BaseModel `bun:"table:movies,alias:m"`

	ID           int           `bun:",pk,nullzero" json:"id"`
	CreatedAt    time.Time     `json:"created_at"`
	UpdatedAt    time.Time     `json:"updated_at"`
	Title        string        `bun:",nullzero" json:"title"`
	Description  *string       `json:"description"`
	ReleaseDate  *string       `json:"release_date"`
	Rating       *float64      `json:"rating"`
	ImagePath    *string       `json:"image_path"`

	TitleFolded       string `json:"-"`
	DescriptionFolded string `json:"-"`

	GenreEntries []*MovieGenre `bun:"rel:has-many,join:id=movie_id" json:"-"`
	Genres       []Genre       `bun:"-" json:"genres"`
}

// SetGenres replaces the genre set, keeping GenreEntries in step.
func (m *Movie) SetGenres(genres []Genre) {
	m.Genres = NormalizeGenres(genres)
	m.GenreEntries = make([]*MovieGenre, 0, len(m.Genres))
	for _, g := range m.Genres {
		m.GenreEntries = append(m.GenreEntries, &MovieGenre{MovieID: m.ID, Genre: g})
	}
}

// SyncGenres fills Genres from the loaded GenreEntries relation.
func (m *Movie) SyncGenres() {
	genres := make([]Genre, 0, len(m.GenreEntries))
	for _, e := range m.GenreEntries {
		genres = append(genres, e.Genre)
	}
	m.Genres = NormalizeGenres(genres)
}

