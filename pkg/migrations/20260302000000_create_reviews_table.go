package migrations

import (
	"context"

	"github.com/pkg/errors"
	"github.com/uptrace/bun"
)

func init() {
	up := func(_ context.Context, db *bun.DB) error {
		_, err := db.Exec(`
			CREATE TABLE reviews (
				id INTEGER PRIMARY KEY AUTOINCREMENT,
				created_at TIMESTAMPTZ NOT NULL DEFAULT CURRENT_TIMESTAMP,
				movie_id INTEGER REFERENCES movies (id) ON DELETE CASCADE NOT NULL,
				author_name TEXT NOT NULL,
				rating REAL NOT NULL CHECK (rating >= 0 AND rating <= 10),
				content TEXT NOT NULL
			)
		`)
		if err != nil {
			return errors.WithStack(err)
		}
		_, err = db.Exec(`CREATE INDEX ix_reviews_movie_id_created_at ON reviews (movie_id, created_at)`)
		return errors.WithStack(err)
	}

	down := func(_ context.Context, db *bun.DB) error {
		_, err := db.Exec(`DROP TABLE IF EXISTS reviews`)
		return errors.WithStack(err)
	}

	Migrations.MustRegister(up, down)
}
