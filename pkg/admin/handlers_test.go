package admin

import (
	"context"
	"database/sql"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/marqueehq/marquee/pkg/binder"
	"github.com/marqueehq/marquee/pkg/errcodes"
	"github.com/marqueehq/marquee/pkg/migrations"
	"github.com/marqueehq/marquee/pkg/seed"
	"github.com/segmentio/encoding/json"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/uptrace/bun"
	"github.com/uptrace/bun/dialect/sqlitedialect"
	"github.com/uptrace/bun/driver/sqliteshim"
)

func newTestServer(t *testing.T) *echo.Echo {
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

	b, err := binder.New()
	require.NoError(t, err)

	e := echo.New()
	e.Binder = b
	e.HTTPErrorHandler = errcodes.NewHandler().Handle
	RegisterRoutesWithGroup(e.Group("/admin"), db, "")

	return e
}

func do(t *testing.T, e *echo.Echo, method, path string, dest interface{}) int {
	t.Helper()

	req := httptest.NewRequest(method, path, nil)
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)

	if dest != nil {
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), dest), rec.Body.String())
	}
	return rec.Code
}

func TestAdminRoutes(t *testing.T) {
	t.Parallel()
	e := newTestServer(t)

	var resp statusResponse
	require.Equal(t, http.StatusOK, do(t, e, http.MethodPost, "/admin/db/seed", &resp))
	assert.Equal(t, statusOK, resp.Status)

	resp = statusResponse{}
	require.Equal(t, http.StatusOK, do(t, e, http.MethodPost, "/admin/db/seed", &resp))
	assert.Equal(t, statusSkipped, resp.Status)
	assert.NotEmpty(t, resp.Message)

	var counts seed.Counts
	require.Equal(t, http.StatusOK, do(t, e, http.MethodGet, "/admin/stats", &counts))
	assert.Equal(t, seed.Counts{Movies: 12, Persons: 42, Credits: 53, Reviews: 17}, counts)

	var raw map[string]int
	require.Equal(t, http.StatusOK, do(t, e, http.MethodGet, "/admin/stats", &raw))
	assert.Equal(t, 12, raw["total_movies"])
	assert.Equal(t, 42, raw["total_professionals"])

	resp = statusResponse{}
	require.Equal(t, http.StatusOK, do(t, e, http.MethodPost, "/admin/db/clean", &resp))
	assert.Equal(t, statusOK, resp.Status)

	counts = seed.Counts{}
	require.Equal(t, http.StatusOK, do(t, e, http.MethodGet, "/admin/stats", &counts))
	assert.Equal(t, seed.Counts{}, counts)

	resp = statusResponse{}
	require.Equal(t, http.StatusOK, do(t, e, http.MethodPost, "/admin/db/reset", &resp))
	assert.Equal(t, statusOK, resp.Status)

	counts = seed.Counts{}
	require.Equal(t, http.StatusOK, do(t, e, http.MethodGet, "/admin/stats", &counts))
	assert.Equal(t, 12, counts.Movies)

	assert.Equal(t, http.StatusMethodNotAllowed, do(t, e, http.MethodGet, "/admin/db/seed", nil))
}
