package models

import (
	"sort"
	"strings"

	"github.com/uptrace/bun"
)

// Genre is a fixed catalog category. The integer code is what gets stored
// and what clients send.
type Genre int

const (
	GenreAction Genre = iota + 1
	GenreComedy
	GenreDrama
	GenreHorror
	GenreSciFi
	GenreThriller
	GenreFantasy
	GenreRomance
	GenreAnimation
	GenreAdventure
	GenreFamily
	GenreMystery
	GenreWar
	GenreWestern
	GenreCrime
	GenreDocumentary
	GenreBiography
	GenreHistory
)

const (
	MinGenre = GenreAction
	MaxGenre = GenreHistory
)

var genreNames = map[Genre]string{
	GenreAction:      "Action",
	GenreComedy:      "Comedy",
	GenreDrama:       "Drama",
	GenreHorror:      "Horror",
	GenreSciFi:       "SciFi",
	GenreThriller:    "Thriller",
	GenreFantasy:     "Fantasy",
	GenreRomance:     "Romance",
	GenreAnimation:   "Animation",
	GenreAdventure:   "Adventure",
	GenreFamily:      "Family",
	GenreMystery:     "Mystery",
	GenreWar:         "War",
	GenreWestern:     "Western",
	GenreCrime:       "Crime",
	GenreDocumentary: "Documentary",
	GenreBiography:   "Biography",
	GenreHistory:     "History",
}

// AllGenres returns every genre ordered by code.
func AllGenres() []Genre {
	genres := make([]Genre, 0, len(genreNames))
	for g := MinGenre; g <= MaxGenre; g++ {
		genres = append(genres, g)
	}
	return genres
}

func (g Genre) Valid() bool {
	return g >= MinGenre && g <= MaxGenre
}

func (g Genre) String() string {
	if name, ok := genreNames[g]; ok {
		return name
	}
	return "Unknown"
}

// ParseGenre looks up a genre by its canonical name, ignoring case.
func ParseGenre(name string) (Genre, bool) {
	name = strings.TrimSpace(name)
	for g, n := range genreNames {
		if strings.EqualFold(n, name) {
			return g, true
		}
	}
	return 0, false
}

// NormalizeGenres returns the distinct genres of the input sorted by code.
func NormalizeGenres(genres []Genre) []Genre {
	seen := make(map[Genre]struct{}, len(genres))
	out := make([]Genre, 0, len(genres))
	for _, g := range genres {
		if _, ok := seen[g]; ok {
			continue
		}
		seen[g] = struct{}{}
		out = append(out, g)
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}

type MovieGenre struct {
	bun.BaseModel `bun:"table:movie_genres,alias:mg"`

	MovieID int   `bun:",pk" json:"movie_id"`
	Genre   Genre `bun:",pk" json:"genre"`
}
