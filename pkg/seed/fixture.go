package seed

import (
	"embed"
	"os"

	"github.com/pkg/errors"
	"github.com/segmentio/encoding/json"
)

//go:embed fixtures/movies.json
var fixtures embed.FS

const embeddedFixture = "fixtures/movies.json"

// Fixture is the catalog the database is seeded with.
type Fixture []FixtureMovie

type FixtureMovie struct {
	Title       string          `json:"title"`
	Description string          `json:"description"`
	ReleaseDate string          `json:"release_date"`
	Genres      []string        `json:"genres"`
	Rating      *float64        `json:"rating"`
	Actors      []string        `json:"actors"`
	Directors   []string        `json:"directors"`
	Producers   []string        `json:"producers"`
	Reviews     []FixtureReview `json:"reviews"`
}

type FixtureReview struct {
	AuthorName string  `json:"author_name"`
	Rating     float64 `json:"rating"`
	Content    string  `json:"content"`
}

// LoadFixture reads the fixture at path, or the embedded one when path is
// empty.
func LoadFixture(path string) (Fixture, error) {
	var data []byte
	var err error
	if path == "" {
		data, err = fixtures.ReadFile(embeddedFixture)
	} else {
		data, err = os.ReadFile(path)
	}
	if err != nil {
		return nil, errors.Wrapf(err, "failed to read seed fixture %q", path)
	}
	return ParseFixture(data)
}

func ParseFixture(data []byte) (Fixture, error) {
	var f Fixture
	if err := json.Unmarshal(data, &f); err != nil {
		return nil, errors.Wrap(err, "failed to parse seed fixture")
	}
	return f, nil
}
