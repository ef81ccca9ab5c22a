package seed

import (
	"regexp"
	"strings"
	"time"

	"github.com/gosimple/slug"
	"github.com/marqueehq/marquee/pkg/models"
)

// genreAliases maps free-form genre labels onto the catalog. Labels that are
// neither here nor a canonical genre name fall back to their first word, and
// then to Drama.
var genreAliases = map[string]models.Genre{
	"sci-fi":                 models.GenreSciFi,
	"science fiction":        models.GenreSciFi,
	"cyberpunk":              models.GenreSciFi,
	"sci-fi thriller":        models.GenreSciFi,
	"sci-fi drama":           models.GenreSciFi,
	"sci-fi horror":          models.GenreHorror,
	"crime thriller":         models.GenreThriller,
	"crime drama":            models.GenreCrime,
	"psychological thriller": models.GenreThriller,
	"psychological drama":    models.GenreDrama,
	"spy thriller":           models.GenreThriller,
	"political thriller":     models.GenreThriller,
	"political drama":        models.GenreDrama,
	"tech thriller":          models.GenreThriller,
	"mystery thriller":       models.GenreThriller,
	"mystery drama":          models.GenreMystery,
	"survival thriller":      models.GenreThriller,
	"disaster thriller":      models.GenreThriller,
	"action thriller":        models.GenreAction,
	"action drama":           models.GenreAction,
	"war drama":              models.GenreDrama,
	"music drama":            models.GenreDrama,
	"legal drama":            models.GenreDrama,
	"historical drama":       models.GenreHistory,
	"disaster":               models.GenreDrama,
	"survival":               models.GenreAdventure,
}

var whitespaceRE = regexp.MustCompile(`\s+`)

// ParseGenreLabel maps a fixture genre label to a catalog genre.
func ParseGenreLabel(label string) models.Genre {
	key := whitespaceRE.ReplaceAllString(strings.ToLower(strings.TrimSpace(label)), " ")
	if g, ok := genreAliases[key]; ok {
		return g
	}
	if g, ok := models.ParseGenre(key); ok {
		return g
	}
	if first, _, found := strings.Cut(key, " "); found {
		if g, ok := genreAliases[first]; ok {
			return g
		}
		if g, ok := models.ParseGenre(first); ok {
			return g
		}
	}
	return models.GenreDrama
}

// PersonEmail derives the address seeded persons get, e.g.
// "jane.doe@seed.example.com".
func PersonEmail(name string) string {
	return strings.ReplaceAll(slug.Make(name), "-", ".") + "@seed.example.com"
}

type plannedMovie struct {
	movie   *models.Movie
	credits []plannedCredit
	reviews []*models.Review
}

type plannedCredit struct {
	person int // index into plan.persons
	role   models.Role
}

// plan is a fixture resolved into rows, with persons deduplicated.
type plan struct {
	persons []*models.Person
	movies  []plannedMovie
}

func buildPlan(f Fixture, now time.Time) *plan {
	p := &plan{}
	byName := map[string]int{}
	byEmail := map[string]int{}

	personIndex := func(name string) (int, bool) {
		name = strings.TrimSpace(name)
		if name == "" {
			return 0, false
		}
		if i, ok := byName[name]; ok {
			return i, true
		}
		email := PersonEmail(name)
		if i, ok := byEmail[email]; ok {
			byName[name] = i
			return i, true
		}
		p.persons = append(p.persons, &models.Person{
			CreatedAt: now,
			UpdatedAt: now,
			Name:      name,
			Email:     email,
		})
		i := len(p.persons) - 1
		byName[name] = i
		byEmail[email] = i
		return i, true
	}

	for _, fm := range f {
		title := strings.TrimSpace(fm.Title)
		if title == "" {
			continue
		}

		movie := &models.Movie{
			CreatedAt: now,
			UpdatedAt: now,
			Title:     title,
			Rating:    fm.Rating,
		}
		if d := strings.TrimSpace(fm.Description); d != "" {
			movie.Description = &d
		}
		if len(fm.ReleaseDate) >= 10 {
			if _, err := time.Parse(models.ReleaseDateLayout, fm.ReleaseDate[:10]); err == nil {
				date := fm.ReleaseDate[:10]
				movie.ReleaseDate = &date
			}
		}
		genres := make([]models.Genre, 0, len(fm.Genres))
		for _, label := range fm.Genres {
			genres = append(genres, ParseGenreLabel(label))
		}
		if len(genres) == 0 {
			genres = append(genres, models.GenreDrama)
		}
		movie.SetGenres(genres)

		pm := plannedMovie{movie: movie}
		seen := map[plannedCredit]struct{}{}
		for _, group := range []struct {
			role  models.Role
			names []string
		}{
			{models.RoleActor, fm.Actors},
			{models.RoleDirector, fm.Directors},
			{models.RoleProducer, fm.Producers},
		} {
			role := group.role
			for _, name := range group.names {
				i, ok := personIndex(name)
				if !ok {
					continue
				}
				c := plannedCredit{person: i, role: role}
				if _, dup := seen[c]; dup {
					continue
				}
				seen[c] = struct{}{}
				pm.credits = append(pm.credits, c)
			}
		}

		for _, fr := range fm.Reviews {
			author := strings.TrimSpace(fr.AuthorName)
			content := strings.TrimSpace(fr.Content)
			if author == "" || content == "" || fr.Rating < 0 || fr.Rating > 10 {
				continue
			}
			pm.reviews = append(pm.reviews, &models.Review{
				CreatedAt:  now,
				AuthorName: author,
				Rating:     fr.Rating,
				Content:    content,
			})
		}

		p.movies = append(p.movies, pm)
	}

	return p
}

// Summarize returns the rows seeding f into an empty database would create.
func Summarize(f Fixture) Counts {
	p := buildPlan(f, time.Time{})
	counts := Counts{Movies: len(p.movies), Persons: len(p.persons)}
	for _, pm := range p.movies {
		counts.Credits += len(pm.credits)
		counts.Reviews += len(pm.reviews)
	}
	return counts
}
