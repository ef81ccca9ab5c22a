package migrations

import (
	"context"

	"github.com/pkg/errors"
	"github.com/uptrace/bun"
	"github.com/uptrace/bun/migrate"
)

// Migrations holds the catalog schema. Each file registers itself in init.
var Migrations = migrate.NewMigrations()

// BringUpToDate creates the bookkeeping tables if needed and applies every
// pending migration as one group.
func BringUpToDate(ctx context.Context, db *bun.DB) (*migrate.MigrationGroup, error) {
	migrator := migrate.NewMigrator(db, Migrations)
	err := migrator.Init(ctx)
	if err != nil {
		return nil, errors.WithStack(err)
	}
	group, err := migrator.Migrate(ctx)
	if err != nil {
		return nil, errors.WithStack(err)
	}
	return group, nil
}

// RollbackAll rolls back groups until none are left and returns how many it
// rolled back.
func RollbackAll(ctx context.Context, db *bun.DB) (int, error) {
	migrator := migrate.NewMigrator(db, Migrations)
	if err := migrator.Init(ctx); err != nil {
		return 0, errors.WithStack(err)
	}

	n := 0
	for {
		group, err := migrator.Rollback(ctx)
		if err != nil {
			return n, errors.WithStack(err)
		}
		if group.ID == 0 {
			return n, nil
		}
		n++
	}
}
