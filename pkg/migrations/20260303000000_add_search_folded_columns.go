package migrations

import (
	"context"
	"database/sql"

	"github.com/marqueehq/marquee/pkg/models"
	"github.com/pkg/errors"
	"github.com/uptrace/bun"
)

func init() {
	up := func(ctx context.Context, db *bun.DB) error {
		for _, stmt := range []string{
			`ALTER TABLE movies ADD COLUMN title_folded TEXT NOT NULL DEFAULT ''`,
			`ALTER TABLE movies ADD COLUMN description_folded TEXT NOT NULL DEFAULT ''`,
			`ALTER TABLE persons ADD COLUMN name_folded TEXT NOT NULL DEFAULT ''`,
			`ALTER TABLE persons ADD COLUMN email_folded TEXT NOT NULL DEFAULT ''`,
		} {
			if _, err := db.ExecContext(ctx, stmt); err != nil {
				return errors.WithStack(err)
			}
		}

		var movies []struct {
			ID          int
			Title       string
			Description sql.NullString
		}
		if err := db.NewRaw(`SELECT id, title, description FROM movies`).Scan(ctx, &movies); err != nil {
			return errors.WithStack(err)
		}
		for _, m := range movies {
			_, err := db.ExecContext(ctx,
				`UPDATE movies SET title_folded = ?, description_folded = ? WHERE id = ?`,
				models.FoldForSearch(m.Title), models.FoldForSearch(m.Description.String), m.ID)
			if err != nil {
				return errors.WithStack(err)
			}
		}

		var persons []struct {
			ID    int
			Name  string
			Email string
		}
		if err := db.NewRaw(`SELECT id, name, email FROM persons`).Scan(ctx, &persons); err != nil {
			return errors.WithStack(err)
		}
		for _, p := range persons {
			_, err := db.ExecContext(ctx,
				`UPDATE persons SET name_folded = ?, email_folded = ? WHERE id = ?`,
				models.FoldForSearch(p.Name), models.FoldForSearch(p.Email), p.ID)
			if err != nil {
				return errors.WithStack(err)
			}
		}
		return nil
	}

	down := func(ctx context.Context, db *bun.DB) error {
		for _, stmt := range []string{
			`ALTER TABLE persons DROP COLUMN email_folded`,
			`ALTER TABLE persons DROP COLUMN name_folded`,
			`ALTER TABLE movies DROP COLUMN description_folded`,
			`ALTER TABLE movies DROP COLUMN title_folded`,
		} {
			if _, err := db.ExecContext(ctx, stmt); err != nil {
				return errors.WithStack(err)
			}
		}
		return nil
	}

	Migrations.MustRegister(up, down)
}
