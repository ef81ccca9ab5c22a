package main

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/marqueehq/marquee/pkg/config"
	"github.com/marqueehq/marquee/pkg/database"
	"github.com/marqueehq/marquee/pkg/migrations"
	"github.com/marqueehq/marquee/pkg/seed"
	"github.com/robinjoseph08/golib/logger"
	"github.com/uptrace/bun/migrate"
	"github.com/urfave/cli/v2"
)

func main() {
	log := logger.New()

	cfg, err := config.New()
	if err != nil {
		log.Err(err).Fatal("config error")
	}

	db, err := database.New(cfg)
	if err != nil {
		log.Err(err).Fatal("database error")
	}

	seedService := seed.NewService(db, cfg.SeedFixturePath)

	app := &cli.App{
		Name:        "migrations",
		Usage:       "CLI to interact with migrations and seed data",
		Description: "CLI to interact with migrations and seed data",
		Flags: []cli.Flag{
			&cli.BoolFlag{Name: "log-queries", Usage: "log every SQL statement the seed commands run"},
		},
		Commands: []*cli.Command{
			{
				Name:  "init",
				Usage: "create migration tables",
				Action: func(c *cli.Context) error {
					migrator := migrate.NewMigrator(db, migrations.Migrations)
					return migrator.Init(c.Context)
				},
			},
			{
				Name:  "migrate",
				Usage: "migrate database",
				Action: func(c *cli.Context) error {
					migrator := migrate.NewMigrator(db, migrations.Migrations)

					group, err := migrator.Migrate(c.Context)
					if err != nil {
						return err
					}

					if group.ID == 0 {
						fmt.Printf("There are no new migrations to run\n")
						return nil
					}

					fmt.Printf("Migrated to %s\n", group)
					return nil
				},
			},
			{
				Name:  "rollback",
				Usage: "rollback the last migration group",
				Flags: []cli.Flag{
					&cli.BoolFlag{Name: "all", Usage: "rollback every migration group"},
				},
				Action: func(c *cli.Context) error {
					if c.Bool("all") {
						n, err := migrations.RollbackAll(c.Context, db)
						if err != nil {
							return err
						}
						fmt.Printf("Rolled back %d group(s)\n", n)
						return nil
					}

					migrator := migrate.NewMigrator(db, migrations.Migrations)

					group, err := migrator.Rollback(c.Context)
					if err != nil {
						return err
					}

					if group.ID == 0 {
						fmt.Printf("There are no groups to roll back\n")
						return nil
					}

					fmt.Printf("Rolled back %s\n", group)
					return nil
				},
			},
			{
				Name:  "create",
				Usage: "create Go migration",
				Action: func(c *cli.Context) error {
					migrator := migrate.NewMigrator(db, migrations.Migrations)

					name := strings.Join(c.Args().Slice(), "_")
					mf, err := migrator.CreateGoMigration(
						c.Context,
						name,
						migrate.WithGoTemplate(migrationTemplate),
					)
					if err != nil {
						return err
					}
					fmt.Printf("Created migration %s (%s)\n", mf.Name, mf.Path)

					return nil
				},
			},
			{
				Name:  "status",
				Usage: "print migrations status",
				Action: func(c *cli.Context) error {
					migrator := migrate.NewMigrator(db, migrations.Migrations)

					ms, err := migrator.MigrationsWithStatus(c.Context)
					if err != nil {
						return err
					}
					fmt.Printf("Migrations: %s\n", ms)
					fmt.Printf("Unapplied migrations: %s\n", ms.Unapplied())
					fmt.Printf("Last migration group: %s\n", ms.LastGroup())

					return nil
				},
			},
			{
				Name:  "seed",
				Usage: "load the fixture catalog if there are no movies yet",
				Action: func(c *cli.Context) error {
					seeded, err := seedService.Seed(seedContext(c, log))
					if err != nil {
						return err
					}
					if !seeded {
						fmt.Printf("Database already contains movies, nothing was seeded\n")
						return nil
					}
					return printCounts(c, seedService, "Seeded")
				},
			},
			{
				Name:  "clean",
				Usage: "delete every movie, person, credit and review",
				Action: func(c *cli.Context) error {
					if err := seedService.Clean(seedContext(c, log)); err != nil {
						return err
					}
					fmt.Printf("Database cleaned\n")
					return nil
				},
			},
			{
				Name:  "reset",
				Usage: "clean the database and load the fixture catalog",
				Action: func(c *cli.Context) error {
					if _, err := seedService.Reset(seedContext(c, log)); err != nil {
						return err
					}
					return printCounts(c, seedService, "Reset")
				},
			},
		},
	}
	if err := app.Run(os.Args); err != nil {
		log.Err(err).Fatal("app run error")
	}
}

func seedContext(c *cli.Context, log logger.Logger) context.Context {
	ctx := log.WithContext(c.Context)
	if c.Bool("log-queries") {
		ctx = database.WithLogging(ctx)
	}
	return ctx
}

func printCounts(c *cli.Context, svc *seed.Service, verb string) error {
	counts, err := svc.Stats(c.Context)
	if err != nil {
		return err
	}
	fmt.Printf("%s: %d movies, %d persons, %d credits, %d reviews\n", verb, counts.Movies, counts.Persons, counts.Credits, counts.Reviews)
	return nil
}

const migrationTemplate = `package %s

import (
	"context"

	"github.com/pkg/errors"
	"github.com/uptrace/bun"
)

func init() {
	up := func(_ context.Context, db *bun.DB) error {
		_, err := db.Exec("")
		return errors.WithStack(err)
	}

	down := func(_ context.Context, db *bun.DB) error {
		_, err := db.Exec("")
		return errors.WithStack(err)
	}

	Migrations.MustRegister(up, down)
}
`
