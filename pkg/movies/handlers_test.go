package movies

import (
	"context"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/marqueehq/marquee/pkg/binder"
	"github.com/marqueehq/marquee/pkg/errcodes"
	"github.com/marqueehq/marquee/pkg/models"
	"github.com/marqueehq/marquee/pkg/search"
	"github.com/marqueehq/marquee/pkg/storage"
	"github.com/segmentio/encoding/json"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/uptrace/bun"
)

type errorBody struct {
	Error struct {
		Code       string   `json:"code"`
		Message    string   `json:"message"`
		StatusCode int      `json:"status_code"`
		Details    []string `json:"details"`
	} `json:"error"`
}

var itoa = strconv.Itoa

func newTestServer(t *testing.T) (*echo.Echo, *bun.DB, *storage.LocalBackend) {
	t.Helper()

	db := setupTestDB(t)
	store, err := storage.NewLocalBackend(t.TempDir(), "/uploads")
	require.NoError(t, err)

	b, err := binder.New()
	require.NoError(t, err)

	e := echo.New()
	e.Binder = b
	e.HTTPErrorHandler = errcodes.NewHandler().Handle
	RegisterRoutesWithGroup(e.Group("/movies"), db, store)

	return e, db, store
}

func doRequest(e *echo.Echo, method, path, body string) *httptest.ResponseRecorder {
	var req *http.Request
	if body == "" {
		req = httptest.NewRequest(method, path, nil)
	} else {
		req = httptest.NewRequest(method, path, strings.NewReader(body))
		req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	}
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)
	return rec
}

func TestHandlers_CreateAndRetrieve(t *testing.T) {
	t.Parallel()
	e, _, _ := newTestServer(t)

	rec := doRequest(e, http.MethodPost, "/movies", `{"title":"Test Movie 1","description":"<p>Hello</p>","release_date":"2023-01-01","genres":[1,2],"rating":7.5}`)
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())

	var created models.Movie
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &created))
	assert.NotZero(t, created.ID)
	assert.Equal(t, "Test Movie 1", created.Title)
	assert.Equal(t, "Hello", *created.Description)
	assert.Equal(t, []models.Genre{models.GenreAction, models.GenreComedy}, created.Genres)

	rec = doRequest(e, http.MethodGet, "/movies/"+itoa(created.ID), "")
	require.Equal(t, http.StatusOK, rec.Code)
	var retrieved models.Movie
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &retrieved))
	assert.Equal(t, created.ID, retrieved.ID)
	assert.Equal(t, "2023-01-01", *retrieved.ReleaseDate)

	rec = doRequest(e, http.MethodGet, "/movies/abc", "")
	assert.Equal(t, http.StatusNotFound, rec.Code)
	rec = doRequest(e, http.MethodGet, "/movies/999", "")
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestHandlers_CreateValidation(t *testing.T) {
	t.Parallel()
	e, db, _ := newTestServer(t)

	tests := []struct {
		name   string
		body   string
		status int
		code   string
	}{
		{"empty genres", `{"title":"X","genres":[]}`, http.StatusUnprocessableEntity, "validation_error"},
		{"genre out of range", `{"title":"X","genres":[19]}`, http.StatusUnprocessableEntity, "validation_error"},
		{"missing title", `{"genres":[1]}`, http.StatusUnprocessableEntity, "validation_error"},
		{"bad date", `{"title":"X","genres":[1],"release_date":"2023-02-30"}`, http.StatusUnprocessableEntity, "validation_error"},
		{"rating too high", `{"title":"X","genres":[1],"rating":11}`, http.StatusUnprocessableEntity, "validation_error"},
		{"unknown field", `{"title":"X","genres":[1],"director":"Me"}`, http.StatusUnprocessableEntity, "unknown_parameter"},
		{"empty body", ``, http.StatusBadRequest, "empty_request_body"},
	}

	for _, tt := range tests {
		rec := doRequest(e, http.MethodPost, "/movies", tt.body)
		assert.Equal(t, tt.status, rec.Code, tt.name)

		var body errorBody
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body), tt.name)
		assert.Equal(t, tt.code, body.Error.Code, tt.name)
	}

	count, err := db.NewSelect().Model((*models.Movie)(nil)).Count(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 0, count)
}

func TestHandlers_ListAndSearch(t *testing.T) {
	t.Parallel()
	e, db, _ := newTestServer(t)
	svc := NewService(db)

	createMovie(t, svc, "Movie A", "2010-01-01", models.GenreAction)
	createMovie(t, svc, "Movie B", "2010-06-01", models.GenreComedy)
	createMovie(t, svc, "Movie C", "2020-01-01", models.GenreAction)

	rec := doRequest(e, http.MethodGet, "/movies?skip=1&limit=1", "")
	require.Equal(t, http.StatusOK, rec.Code)
	var page search.Results[models.Movie]
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &page))
	assert.Equal(t, 3, page.Total)
	assert.Equal(t, 1, page.Skip)
	assert.Equal(t, 1, page.Limit)
	require.Len(t, page.Items, 1)
	assert.Equal(t, "Movie B", page.Items[0].Title)

	rec = doRequest(e, http.MethodGet, "/movies?limit=500", "")
	assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)

	rec = doRequest(e, http.MethodPost, "/movies/search", `{"genres":[1],"release_year":2010}`)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &page))
	assert.Equal(t, 1, page.Total)
	assert.Equal(t, "Movie A", page.Items[0].Title)

	rec = doRequest(e, http.MethodPost, "/movies/search", `{"title":"zzz"}`)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"items":[]`)

	req := httptest.NewRequest(http.MethodPost, "/movies/search", nil)
	rec = httptest.NewRecorder()
	e.ServeHTTP(rec, req)
	require.Equal(t, http.StatusOK, rec.Code)
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &page))
	assert.Equal(t, 3, page.Total)
}

func TestHandlers_Update(t *testing.T) {
	t.Parallel()
	e, db, _ := newTestServer(t)
	svc := NewService(db)

	movie := &models.Movie{
		Title:       "Original",
		Description: strPtr("Keep me"),
		ReleaseDate: strPtr("2001-01-01"),
		Genres:      []models.Genre{models.GenreDrama},
		Rating:      floatPtr(6),
	}
	require.NoError(t, svc.CreateMovie(context.Background(), movie))
	path := "/movies/" + itoa(movie.ID)

	rec := doRequest(e, http.MethodPatch, path, `{"title":"Renamed"}`)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	var updated models.Movie
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &updated))
	assert.Equal(t, "Renamed", updated.Title)
	assert.Equal(t, "Keep me", *updated.Description)
	assert.Equal(t, 6.0, *updated.Rating)

	rec = doRequest(e, http.MethodPatch, path, `{"release_date":"","genres":[3,5]}`)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	updated = models.Movie{}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &updated))
	assert.Nil(t, updated.ReleaseDate)
	assert.Equal(t, []models.Genre{models.GenreDrama, models.GenreSciFi}, updated.Genres)
	assert.Equal(t, 6.0, *updated.Rating, "omitted rating is left alone")

	rec = doRequest(e, http.MethodPatch, path, `{"rating":11}`)
	assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)

	rec = doRequest(e, http.MethodPatch, path, `{"rating":8.25}`)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	assert.Contains(t, rec.Body.String(), `"rating":8.25`)

	rec = doRequest(e, http.MethodPatch, path, `{"rating":null}`)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	assert.Contains(t, rec.Body.String(), `"rating":null`)
	retrieved, err := svc.RetrieveMovie(context.Background(), RetrieveMovieOptions{ID: &movie.ID})
	require.NoError(t, err)
	assert.Nil(t, retrieved.Rating)
	assert.Equal(t, "Keep me", *retrieved.Description)

	rec = doRequest(e, http.MethodPatch, path, `{"genres":[]}`)
	assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)

	rec = doRequest(e, http.MethodPatch, "/movies/999", `{"title":"Ghost"}`)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestHandlers_DeleteRemovesUploadedImage(t *testing.T) {
	t.Parallel()
	e, db, store := newTestServer(t)
	svc := NewService(db)
	ctx := context.Background()

	movie := createMovie(t, svc, "Poster Child", "", models.GenreFamily)
	key := UploadedImagePrefix + itoa(movie.ID) + "-poster.png"
	require.NoError(t, store.Save(ctx, key, strings.NewReader("png")))
	movie.ImagePath = &key
	require.NoError(t, svc.UpdateMovie(ctx, movie, UpdateMovieOptions{Columns: []string{"image_path"}}))

	rec := doRequest(e, http.MethodDelete, "/movies/"+itoa(movie.ID), "")
	require.Equal(t, http.StatusNoContent, rec.Code, rec.Body.String())

	_, err := os.Stat(filepath.Join(store.Root(), filepath.FromSlash(key)))
	assert.True(t, os.IsNotExist(err))

	rec = doRequest(e, http.MethodDelete, "/movies/"+itoa(movie.ID), "")
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestHandlers_Persons(t *testing.T) {
	t.Parallel()
	e, db, _ := newTestServer(t)
	svc := NewService(db)

	movie := createMovie(t, svc, "Fargo", "1996-03-08", models.GenreCrime)
	joel := createPerson(t, db, "Joel Coen", "joel@example.com")
	path := "/movies/" + itoa(movie.ID) + "/persons"

	body := `{"persons":[{"person_id":` + itoa(joel.ID) + `,"role":"Director"},{"person_id":` + itoa(joel.ID) + `,"role":"Producer"}]}`
	rec := doRequest(e, http.MethodPost, path, body)
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())

	rec = doRequest(e, http.MethodPost, path, `{"persons":[{"person_id":`+itoa(joel.ID)+`,"role":"Director"}]}`)
	assert.Equal(t, http.StatusConflict, rec.Code)

	rec = doRequest(e, http.MethodPost, path, `{"persons":[{"person_id":`+itoa(joel.ID)+`,"role":"Writer"}]}`)
	assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)

	rec = doRequest(e, http.MethodPost, path, `{"persons":[]}`)
	assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)

	rec = doRequest(e, http.MethodGet, path, "")
	require.Equal(t, http.StatusOK, rec.Code)
	var credits []PersonCredit
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &credits))
	require.Len(t, credits, 2)
	assert.Equal(t, "Joel Coen", credits[0].PersonName)

	rec = doRequest(e, http.MethodDelete, path+"/"+itoa(joel.ID)+"?role=Producer", "")
	assert.Equal(t, http.StatusNoContent, rec.Code)
	rec = doRequest(e, http.MethodDelete, path+"/"+itoa(joel.ID)+"?role=Producer", "")
	assert.Equal(t, http.StatusNotFound, rec.Code)
	rec = doRequest(e, http.MethodDelete, path+"/"+itoa(joel.ID), "")
	assert.Equal(t, http.StatusNoContent, rec.Code)
}
