package movies

import (
	"context"
	"database/sql"
	"strings"
	"testing"

	"github.com/marqueehq/marquee/pkg/errcodes"
	"github.com/marqueehq/marquee/pkg/migrations"
	"github.com/marqueehq/marquee/pkg/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/uptrace/bun"
	"github.com/uptrace/bun/dialect/sqlitedialect"
	"github.com/uptrace/bun/driver/sqliteshim"
)

func setupTestDB(t *testing.T) *bun.DB {
	t.Helper()

	sqldb, err := sql.Open(sqliteshim.ShimName, ":memory:")
	require.NoError(t, err)
	sqldb.SetMaxOpenConns(1)

	db := bun.NewDB(sqldb, sqlitedialect.New())

	_, err = migrations.BringUpToDate(context.Background(), db)
	require.NoError(t, err)

	t.Cleanup(func() {
		db.Close()
	})

	return db
}

func strPtr(s string) *string     { return &s }
func intPtr(i int) *int           { return &i }
func floatPtr(f float64) *float64 { return &f }

func createMovie(t *testing.T, svc *Service, title, releaseDate string, genres ...models.Genre) *models.Movie {
	t.Helper()
	movie := &models.Movie{Title: title, Genres: genres}
	if releaseDate != "" {
		movie.ReleaseDate = strPtr(releaseDate)
	}
	require.NoError(t, svc.CreateMovie(context.Background(), movie))
	return movie
}

func createPerson(t *testing.T, db *bun.DB, name, email string) *models.Person {
	t.Helper()
	person := &models.Person{Name: name, Email: email}
	_, err := db.NewInsert().Model(person).Exec(context.Background())
	require.NoError(t, err)
	return person
}

func titles(movies []*models.Movie) []string {
	out := make([]string, 0, len(movies))
	for _, m := range movies {
		out = append(out, m.Title)
	}
	return out
}

func TestCreateMovie(t *testing.T) {
	t.Parallel()
	db := setupTestDB(t)
	svc := NewService(db)
	ctx := context.Background()

	movie := &models.Movie{
		Title:       "  Inception ",
		Description: strPtr("Dreams within dreams."),
		ReleaseDate: strPtr("2010-07-16"),
		Genres:      []models.Genre{models.GenreThriller, models.GenreSciFi, models.GenreSciFi},
		Rating:      floatPtr(8.8),
	}
	require.NoError(t, svc.CreateMovie(ctx, movie))
	assert.NotZero(t, movie.ID)
	assert.False(t, movie.CreatedAt.IsZero())
	assert.Equal(t, "Inception", movie.Title)
	assert.Equal(t, []models.Genre{models.GenreSciFi, models.GenreThriller}, movie.Genres)

	retrieved, err := svc.RetrieveMovie(ctx, RetrieveMovieOptions{ID: &movie.ID})
	require.NoError(t, err)
	assert.Equal(t, movie.Title, retrieved.Title)
	assert.Equal(t, movie.Description, retrieved.Description)
	assert.Equal(t, movie.ReleaseDate, retrieved.ReleaseDate)
	assert.Equal(t, movie.Rating, retrieved.Rating)
	assert.Equal(t, movie.Genres, retrieved.Genres)
	assert.Nil(t, retrieved.ImagePath)
}

func TestCreateMovie_Validation(t *testing.T) {
	t.Parallel()
	db := setupTestDB(t)
	svc := NewService(db)
	ctx := context.Background()

	tests := []struct {
		name  string
		movie *models.Movie
		msg   string
	}{
		{"empty genres", &models.Movie{Title: "No Genre"}, `"genres" must contain at least one genre`},
		{"unknown genre", &models.Movie{Title: "Bad Genre", Genres: []models.Genre{19}}, `"genres" contains unknown genre 19`},
		{"blank title", &models.Movie{Title: "  ", Genres: []models.Genre{models.GenreDrama}}, `"title" is required`},
		{"rating too high", &models.Movie{Title: "Loud", Genres: []models.Genre{models.GenreDrama}, Rating: floatPtr(10.5)}, `"rating" must be between 0 and 10`},
		{"bad date", &models.Movie{Title: "When", Genres: []models.Genre{models.GenreDrama}, ReleaseDate: strPtr("2023-02-30")}, `"release_date" should be a valid date in the format of YYYY-MM-DD`},
	}

	for _, tt := range tests {
		err := svc.CreateMovie(ctx, tt.movie)
		require.Error(t, err, tt.name)
		var e *errcodes.Error
		require.ErrorAs(t, err, &e, tt.name)
		assert.Equal(t, "validation_error", e.Code, tt.name)
		assert.Contains(t, e.Details, tt.msg, tt.name)
	}

	count, err := db.NewSelect().Model((*models.Movie)(nil)).Count(ctx)
	require.NoError(t, err)
	assert.Equal(t, 0, count)
}

func TestRetrieveMovie_NotFound(t *testing.T) {
	t.Parallel()
	db := setupTestDB(t)
	svc := NewService(db)

	_, err := svc.RetrieveMovie(context.Background(), RetrieveMovieOptions{ID: intPtr(999)})
	assert.ErrorIs(t, err, errcodes.NotFound("Movie"))
}

func TestUpdateMovie(t *testing.T) {
	t.Parallel()
	db := setupTestDB(t)
	svc := NewService(db)
	ctx := context.Background()

	movie := createMovie(t, svc, "Alien", "1979-05-25", models.GenreHorror)
	movie.Rating = floatPtr(8.5)

	t.Run("partial update leaves other fields alone", func(t *testing.T) {
		movie.Title = "Alien (Director's Cut)"
		err := svc.UpdateMovie(ctx, movie, UpdateMovieOptions{Columns: []string{"title"}})
		require.NoError(t, err)

		retrieved, err := svc.RetrieveMovie(ctx, RetrieveMovieOptions{ID: &movie.ID})
		require.NoError(t, err)
		assert.Equal(t, "Alien (Director's Cut)", retrieved.Title)
		assert.Equal(t, "1979-05-25", *retrieved.ReleaseDate)
		assert.Nil(t, retrieved.Rating, "rating was not in the column list")
		assert.Equal(t, []models.Genre{models.GenreHorror}, retrieved.Genres)
		assert.True(t, retrieved.UpdatedAt.After(retrieved.CreatedAt) || retrieved.UpdatedAt.Equal(retrieved.CreatedAt))
	})

	t.Run("replaces genres", func(t *testing.T) {
		movie.Genres = []models.Genre{models.GenreSciFi, models.GenreHorror}
		err := svc.UpdateMovie(ctx, movie, UpdateMovieOptions{UpdateGenres: true})
		require.NoError(t, err)

		retrieved, err := svc.RetrieveMovie(ctx, RetrieveMovieOptions{ID: &movie.ID})
		require.NoError(t, err)
		assert.Equal(t, []models.Genre{models.GenreHorror, models.GenreSciFi}, retrieved.Genres)
	})

	t.Run("rejects empty genres", func(t *testing.T) {
		movie.Genres = []models.Genre{}
		err := svc.UpdateMovie(ctx, movie, UpdateMovieOptions{UpdateGenres: true})
		require.Error(t, err)
		assert.Contains(t, err.Error(), "genres")

		retrieved, err := svc.RetrieveMovie(ctx, RetrieveMovieOptions{ID: &movie.ID})
		require.NoError(t, err)
		assert.Len(t, retrieved.Genres, 2)
	})
}

func TestDeleteMovie_RemovesDependents(t *testing.T) {
	t.Parallel()
	db := setupTestDB(t)
	svc := NewService(db)
	ctx := context.Background()

	movie := createMovie(t, svc, "Heat", "1995-12-15", models.GenreCrime)
	other := createMovie(t, svc, "Ronin", "1998-09-25", models.GenreAction)
	person := createPerson(t, db, "Robert De Niro", "deniro@example.com")

	_, err := svc.AddPersonsToMovie(ctx, movie.ID, []PersonRole{{person.ID, models.RoleActor}})
	require.NoError(t, err)
	_, err = svc.AddPersonsToMovie(ctx, other.ID, []PersonRole{{person.ID, models.RoleActor}})
	require.NoError(t, err)
	_, err = db.NewInsert().Model(&models.Review{MovieID: movie.ID, AuthorName: "Ann", Rating: 9, Content: "Great"}).Exec(ctx)
	require.NoError(t, err)

	require.NoError(t, svc.DeleteMovie(ctx, movie.ID))

	_, err = svc.RetrieveMovie(ctx, RetrieveMovieOptions{ID: &movie.ID})
	assert.ErrorIs(t, err, errcodes.NotFound("Movie"))

	for model, expected := range map[interface{}]int{
		(*models.Review)(nil):      0,
		(*models.MoviePerson)(nil): 1,
		(*models.MovieGenre)(nil):  1,
		(*models.Person)(nil):      1,
	} {
		count, err := db.NewSelect().Model(model).Count(ctx)
		require.NoError(t, err)
		assert.Equal(t, expected, count, "%T", model)
	}

	err = svc.DeleteMovie(ctx, movie.ID)
	assert.ErrorIs(t, err, errcodes.NotFound("Movie"))
}

func TestListMovies_Pagination(t *testing.T) {
	t.Parallel()
	db := setupTestDB(t)
	svc := NewService(db)
	ctx := context.Background()

	for _, title := range []string{"A", "B", "C", "D", "E"} {
		createMovie(t, svc, title, "", models.GenreDrama)
	}

	seen := []string{}
	for skip := 0; skip < 5; skip += 2 {
		page, total, err := svc.ListMoviesWithTotal(ctx, ListMoviesOptions{Skip: intPtr(skip), Limit: intPtr(2)})
		require.NoError(t, err)
		assert.Equal(t, 5, total)
		assert.LessOrEqual(t, len(page), 2)
		seen = append(seen, titles(page)...)
	}
	assert.Equal(t, []string{"A", "B", "C", "D", "E"}, seen)

	page, total, err := svc.ListMoviesWithTotal(ctx, ListMoviesOptions{Skip: intPtr(10)})
	require.NoError(t, err)
	assert.Equal(t, 5, total)
	assert.Empty(t, page)

	page, _, err = svc.ListMoviesWithTotal(ctx, ListMoviesOptions{Limit: intPtr(1000)})
	require.NoError(t, err)
	assert.Len(t, page, 5)
}

func TestListMovies_Filters(t *testing.T) {
	t.Parallel()
	db := setupTestDB(t)
	svc := NewService(db)
	ctx := context.Background()

	a := createMovie(t, svc, "Movie A", "2010-01-01", models.GenreAction)
	b := createMovie(t, svc, "Movie B", "2010-06-01", models.GenreComedy)
	c := createMovie(t, svc, "Movie C", "2020-01-01", models.GenreAction)

	t.Run("genres match any", func(t *testing.T) {
		movies, total, err := svc.ListMoviesWithTotal(ctx, ListMoviesOptions{Genres: []models.Genre{models.GenreAction}})
		require.NoError(t, err)
		assert.Equal(t, 2, total)
		assert.Equal(t, []string{"Movie A", "Movie C"}, titles(movies))
	})

	t.Run("genres and year combine", func(t *testing.T) {
		movies, total, err := svc.ListMoviesWithTotal(ctx, ListMoviesOptions{
			Genres:      []models.Genre{models.GenreAction},
			ReleaseYear: intPtr(2010),
		})
		require.NoError(t, err)
		assert.Equal(t, 1, total)
		assert.Equal(t, []string{"Movie A"}, titles(movies))
	})

	t.Run("title substring is case insensitive", func(t *testing.T) {
		movies, _, err := svc.ListMoviesWithTotal(ctx, ListMoviesOptions{Search: strPtr("movie b")})
		require.NoError(t, err)
		assert.Equal(t, []string{"Movie B"}, titles(movies))
	})

	t.Run("wildcards are escaped", func(t *testing.T) {
		movies, _, err := svc.ListMoviesWithTotal(ctx, ListMoviesOptions{Search: strPtr("_")})
		require.NoError(t, err)
		assert.Empty(t, movies)
	})

	director := createPerson(t, db, "Dee Rector", "dee@example.com")
	actor1 := createPerson(t, db, "Al Actor", "al@example.com")
	actor2 := createPerson(t, db, "Bo Actor", "bo@example.com")
	_, err := svc.AddPersonsToMovie(ctx, a.ID, []PersonRole{{director.ID, models.RoleDirector}, {actor1.ID, models.RoleActor}})
	require.NoError(t, err)
	_, err = svc.AddPersonsToMovie(ctx, b.ID, []PersonRole{{director.ID, models.RoleActor}, {actor2.ID, models.RoleActor}})
	require.NoError(t, err)
	_, err = svc.AddPersonsToMovie(ctx, c.ID, []PersonRole{{director.ID, models.RoleDirector}})
	require.NoError(t, err)

	t.Run("director", func(t *testing.T) {
		movies, _, err := svc.ListMoviesWithTotal(ctx, ListMoviesOptions{DirectorID: &director.ID})
		require.NoError(t, err)
		assert.Equal(t, []string{"Movie A", "Movie C"}, titles(movies))
	})

	t.Run("actors match any", func(t *testing.T) {
		movies, _, err := svc.ListMoviesWithTotal(ctx, ListMoviesOptions{ActorIDs: []int{actor1.ID, actor2.ID}})
		require.NoError(t, err)
		assert.Equal(t, []string{"Movie A", "Movie B"}, titles(movies))
	})

	t.Run("no filters", func(t *testing.T) {
		_, total, err := svc.ListMoviesWithTotal(ctx, ListMoviesOptions{})
		require.NoError(t, err)
		assert.Equal(t, 3, total)
	})
}

func TestListMovies_Search(t *testing.T) {
	t.Parallel()
	db := setupTestDB(t)
	svc := NewService(db)
	ctx := context.Background()

	ecole := createMovie(t, svc, "L'école des femmes", "", models.GenreComedy)
	longTitle := strings.Repeat("Epic ", 20) + "Saga"
	createMovie(t, svc, longTitle, "", models.GenreAdventure)
	desc := &models.Movie{Title: "Jules et Jim", Description: strPtr("Un triangle amoureux à PARIS."), Genres: []models.Genre{models.GenreRomance}}
	require.NoError(t, svc.CreateMovie(ctx, desc))

	t.Run("case folding covers accented letters", func(t *testing.T) {
		movies, total, err := svc.ListMoviesWithTotal(ctx, ListMoviesOptions{Search: strPtr("ÉCOLE")})
		require.NoError(t, err)
		assert.Equal(t, 1, total)
		assert.Equal(t, []string{"L'école des femmes"}, titles(movies))
	})

	t.Run("matches description", func(t *testing.T) {
		movies, _, err := svc.ListMoviesWithTotal(ctx, ListMoviesOptions{Search: strPtr("À paris")})
		require.NoError(t, err)
		assert.Equal(t, []string{"Jules et Jim"}, titles(movies))
	})

	t.Run("long queries are matched in full", func(t *testing.T) {
		require.Greater(t, len(longTitle), 100)

		_, total, err := svc.ListMoviesWithTotal(ctx, ListMoviesOptions{Search: strPtr(longTitle)})
		require.NoError(t, err)
		assert.Equal(t, 1, total)

		_, total, err = svc.ListMoviesWithTotal(ctx, ListMoviesOptions{Search: strPtr(longTitle + "s")})
		require.NoError(t, err)
		assert.Zero(t, total)
	})

	t.Run("renamed titles are searchable", func(t *testing.T) {
		ecole.Title = "L'ÉCOLE DES MARIS"
		require.NoError(t, svc.UpdateMovie(ctx, ecole, UpdateMovieOptions{Columns: []string{"title"}}))

		movies, _, err := svc.ListMoviesWithTotal(ctx, ListMoviesOptions{Search: strPtr("école des maris")})
		require.NoError(t, err)
		assert.Equal(t, []string{"L'ÉCOLE DES MARIS"}, titles(movies))

		_, total, err := svc.ListMoviesWithTotal(ctx, ListMoviesOptions{Search: strPtr("femmes")})
		require.NoError(t, err)
		assert.Zero(t, total)
	})
}

func TestListMovies_Sort(t *testing.T) {
	t.Parallel()
	db := setupTestDB(t)
	svc := NewService(db)
	ctx := context.Background()

	rated := func(title string, rating *float64) {
		m := &models.Movie{Title: title, Genres: []models.Genre{models.GenreDrama}, Rating: rating}
		require.NoError(t, svc.CreateMovie(ctx, m))
	}
	rated("beta", floatPtr(7))
	rated("Alpha", nil)
	rated("gamma", floatPtr(9))
	rated("Delta", floatPtr(7))

	movies, err := svc.ListMovies(ctx, ListMoviesOptions{Sort: "title"})
	require.NoError(t, err)
	assert.Equal(t, []string{"Alpha", "beta", "Delta", "gamma"}, titles(movies))

	movies, err = svc.ListMovies(ctx, ListMoviesOptions{Sort: "rating", Order: "desc"})
	require.NoError(t, err)
	assert.Equal(t, []string{"gamma", "beta", "Delta", "Alpha"}, titles(movies))

	movies, err = svc.ListMovies(ctx, ListMoviesOptions{Sort: "rating", Order: "asc"})
	require.NoError(t, err)
	assert.Equal(t, []string{"beta", "Delta", "gamma", "Alpha"}, titles(movies))

	movies, err = svc.ListMovies(ctx, ListMoviesOptions{Order: "desc"})
	require.NoError(t, err)
	assert.Equal(t, []string{"Delta", "gamma", "Alpha", "beta"}, titles(movies))
}
