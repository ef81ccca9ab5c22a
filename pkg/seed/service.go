package seed

import (
	"context"
	"database/sql"
	"time"

	"github.com/marqueehq/marquee/pkg/models"
	"github.com/pkg/errors"
	"github.com/robinjoseph08/golib/logger"
	"github.com/uptrace/bun"
)

// Counts is the number of rows per catalog table. Persons are reported as
// total_professionals, the name the admin front end reads.
type Counts struct {
	Movies  int `json:"total_movies"`
	Persons int `json:"total_professionals"`
	Credits int `json:"total_credits"`
	Reviews int `json:"total_reviews"`
}

type Service struct {
	db          *bun.DB
	fixturePath string
}

// NewService returns a seeder for the fixture at fixturePath, or the embedded
// fixture when it is empty.
func NewService(db *bun.DB, fixturePath string) *Service {
	return &Service{db, fixturePath}
}

// Seed loads the fixture when there are no movies yet. The emptiness check and
// the inserts share one transaction. It reports whether anything was loaded.
func (svc *Service) Seed(ctx context.Context) (bool, error) {
	f, err := LoadFixture(svc.fixturePath)
	if err != nil {
		return false, err
	}
	p := buildPlan(f, time.Now())

	seeded := false
	err = svc.db.RunInTx(ctx, &sql.TxOptions{}, func(ctx context.Context, tx bun.Tx) error {
		exists, err := tx.NewSelect().
			Model((*models.Movie)(nil)).
			Limit(1).
			Exists(ctx)
		if err != nil {
			return errors.WithStack(err)
		}
		if exists || len(p.movies) == 0 {
			return nil
		}

		if err := insertPlan(ctx, tx, p); err != nil {
			return err
		}
		seeded = true
		return nil
	})
	if err != nil {
		return false, err
	}

	if seeded {
		logger.FromContext(ctx).Info("seeded database", logger.Data{"movies": len(p.movies), "persons": len(p.persons)})
	}
	return seeded, nil
}

// Clean deletes every review, credit, genre, movie and person.
func (svc *Service) Clean(ctx context.Context) error {
	return svc.db.RunInTx(ctx, &sql.TxOptions{}, func(ctx context.Context, tx bun.Tx) error {
		return clean(ctx, tx)
	})
}

// Reset cleans the database and loads the fixture regardless of what was
// there, in one transaction.
func (svc *Service) Reset(ctx context.Context) (bool, error) {
	f, err := LoadFixture(svc.fixturePath)
	if err != nil {
		return false, err
	}
	p := buildPlan(f, time.Now())

	err = svc.db.RunInTx(ctx, &sql.TxOptions{}, func(ctx context.Context, tx bun.Tx) error {
		if err := clean(ctx, tx); err != nil {
			return err
		}
		return insertPlan(ctx, tx, p)
	})
	if err != nil {
		return false, err
	}
	return len(p.movies) > 0, nil
}

func (svc *Service) Stats(ctx context.Context) (*Counts, error) {
	counts := &Counts{}
	for _, c := range []struct {
		model interface{}
		dest  *int
	}{
		{(*models.Movie)(nil), &counts.Movies},
		{(*models.Person)(nil), &counts.Persons},
		{(*models.MoviePerson)(nil), &counts.Credits},
		{(*models.Review)(nil), &counts.Reviews},
	} {
		n, err := svc.db.NewSelect().Model(c.model).Count(ctx)
		if err != nil {
			return nil, errors.WithStack(err)
		}
		*c.dest = n
	}
	return counts, nil
}

func clean(ctx context.Context, tx bun.Tx) error {
	for _, model := range []interface{}{
		(*models.Review)(nil),
		(*models.MoviePerson)(nil),
		(*models.MovieGenre)(nil),
		(*models.Movie)(nil),
		(*models.Person)(nil),
	} {
		_, err := tx.NewDelete().
			Model(model).
			Where("1=1").
			Exec(ctx)
		if err != nil {
			return errors.WithStack(err)
		}
	}
	return nil
}

func insertPlan(ctx context.Context, tx bun.Tx, p *plan) error {
	// Persons that already exist with a seed address are reused.
	for _, person := range p.persons {
		existing := &models.Person{}
		err := tx.NewSelect().
			Model(existing).
			Where("p.email = ? COLLATE NOCASE", person.Email).
			Scan(ctx)
		if err == nil {
			person.ID = existing.ID
			continue
		}
		if !errors.Is(err, sql.ErrNoRows) {
			return errors.WithStack(err)
		}

		_, err = tx.NewInsert().
			Model(person).
			Exec(ctx)
		if err != nil {
			return errors.WithStack(err)
		}
	}

	for _, pm := range p.movies {
		_, err := tx.NewInsert().
			Model(pm.movie).
			Exec(ctx)
		if err != nil {
			return errors.WithStack(err)
		}

		pm.movie.SetGenres(pm.movie.Genres)
		_, err = tx.NewInsert().
			Model(&pm.movie.GenreEntries).
			Exec(ctx)
		if err != nil {
			return errors.WithStack(err)
		}

		for _, c := range pm.credits {
			_, err := tx.NewInsert().
				Model(&models.MoviePerson{
					CreatedAt: pm.movie.CreatedAt,
					MovieID:   pm.movie.ID,
					PersonID:  p.persons[c.person].ID,
					Role:      c.role,
				}).
				Exec(ctx)
			if err != nil {
				return errors.WithStack(err)
			}
		}

		for _, r := range pm.reviews {
			r.MovieID = pm.movie.ID
			_, err := tx.NewInsert().
				Model(r).
				Exec(ctx)
			if err != nil {
				return errors.WithStack(err)
			}
		}
	}
	return nil
}
