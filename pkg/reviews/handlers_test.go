package reviews

import (
	"net/http"
	"net/http/httptest"
	"strconv"
	"strings"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/marqueehq/marquee/pkg/binder"
	"github.com/marqueehq/marquee/pkg/errcodes"
	"github.com/segmentio/encoding/json"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHandlers(t *testing.T) {
	t.Parallel()
	db := setupTestDB(t)
	movie := insertMovie(t, db, "Whiplash")

	b, err := binder.New()
	require.NoError(t, err)
	e := echo.New()
	e.Binder = b
	e.HTTPErrorHandler = errcodes.NewHandler().Handle
	RegisterRoutesWithGroup(e.Group("/movies"), db)

	path := "/movies/" + strconv.Itoa(movie.ID) + "/reviews"
	post := func(body string) *httptest.ResponseRecorder {
		req := httptest.NewRequest(http.MethodPost, path, strings.NewReader(body))
		req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
		rec := httptest.NewRecorder()
		e.ServeHTTP(rec, req)
		return rec
	}

	rec := post(`{"author_name":"Terence","rating":0,"content":"Not quite my tempo."}`)
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())

	rec = post(`{"author_name":"Andrew","content":"No rating"}`)
	assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)

	rec = post(`{"author_name":"Andrew","rating":11,"content":"Too high"}`)
	assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)

	rec = httptest.NewRecorder()
	e.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, path+"?limit=5", nil))
	require.Equal(t, http.StatusOK, rec.Code)

	var body struct {
		Items         []map[string]interface{} `json:"items"`
		Total         int                      `json:"total"`
		Skip          int                      `json:"skip"`
		Limit         int                      `json:"limit"`
		AverageRating *float64                 `json:"average_rating"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, 1, body.Total)
	assert.Equal(t, 5, body.Limit)
	require.NotNil(t, body.AverageRating)
	assert.Equal(t, 0.0, *body.AverageRating)

	id := int(body.Items[0]["id"].(float64))
	rec = httptest.NewRecorder()
	e.ServeHTTP(rec, httptest.NewRequest(http.MethodDelete, path+"/"+strconv.Itoa(id), nil))
	assert.Equal(t, http.StatusNoContent, rec.Code)

	rec = httptest.NewRecorder()
	e.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/movies/999/reviews", nil))
	assert.Equal(t, http.StatusNotFound, rec.Code)
}
