package movies

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/marqueehq/marquee/pkg/database"
	"github.com/marqueehq/marquee/pkg/errcodes"
	"github.com/marqueehq/marquee/pkg/models"
	"github.com/pkg/errors"
	"github.com/uptrace/bun"
)

// PersonRole is one requested credit on a movie.
type PersonRole struct {
	PersonID int
	Role     models.Role
}

// PersonCredit is a credit on a movie, with the person's details joined in.
type PersonCredit struct {
	ID          int         `json:"id"`
	MovieID     int         `json:"movie_id"`
	PersonID    int         `json:"person_id"`
	Role        models.Role `json:"role"`
	PersonName  string      `json:"person_name"`
	PersonEmail string      `json:"person_email"`
}

// AddPersonsToMovie links every requested person to the movie. Either all
// credits are created or none are.
func (svc *Service) AddPersonsToMovie(ctx context.Context, movieID int, entries []PersonRole) ([]*models.MoviePerson, error) {
	if len(entries) == 0 {
		return nil, errcodes.ValidationError(`"persons" must contain at least one entry`)
	}

	seen := make(map[PersonRole]struct{}, len(entries))
	personIDs := []int{}
	seenPerson := map[int]struct{}{}
	for _, e := range entries {
		if !e.Role.Valid() {
			return nil, errcodes.ValidationError(fmt.Sprintf("%q is not a valid role", e.Role))
		}
		if _, ok := seen[e]; ok {
			return nil, errcodes.Conflict(fmt.Sprintf("Person %d is listed more than once as %s.", e.PersonID, e.Role))
		}
		seen[e] = struct{}{}
		if _, ok := seenPerson[e.PersonID]; !ok {
			seenPerson[e.PersonID] = struct{}{}
			personIDs = append(personIDs, e.PersonID)
		}
	}

	credits := make([]*models.MoviePerson, 0, len(entries))

	err := svc.db.RunInTx(ctx, &sql.TxOptions{}, func(ctx context.Context, tx bun.Tx) error {
		exists, err := tx.NewSelect().
			Model((*models.Movie)(nil)).
			Where("m.id = ?", movieID).
			Exists(ctx)
		if err != nil {
			return errors.WithStack(err)
		}
		if !exists {
			return errcodes.NotFound("Movie")
		}

		found, err := tx.NewSelect().
			Model((*models.Person)(nil)).
			Where("p.id IN (?)", bun.In(personIDs)).
			Count(ctx)
		if err != nil {
			return errors.WithStack(err)
		}
		if found != len(personIDs) {
			return errcodes.NotFound("Person")
		}

		now := time.Now()
		for _, e := range entries {
			credit := &models.MoviePerson{
				CreatedAt: now,
				MovieID:   movieID,
				PersonID:  e.PersonID,
				Role:      e.Role,
			}
			_, err := tx.NewInsert().
				Model(credit).
				Returning("*").
				Exec(ctx)
			if err != nil {
				if database.IsUniqueViolation(err) {
					return errcodes.Conflict(fmt.Sprintf("Person %d is already credited as %s on this movie.", e.PersonID, e.Role))
				}
				return errors.WithStack(err)
			}
			credits = append(credits, credit)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	return credits, nil
}

// RemovePersonFromMovie deletes one credit, or every credit of the person on
// the movie when role is nil.
func (svc *Service) RemovePersonFromMovie(ctx context.Context, movieID, personID int, role *models.Role) error {
	q := svc.db.NewDelete().
		Model((*models.MoviePerson)(nil)).
		Where("movie_id = ?", movieID).
		Where("person_id = ?", personID)
	if role != nil {
		q = q.Where("role = ?", *role)
	}

	res, err := q.Exec(ctx)
	if err != nil {
		return errors.WithStack(err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return errcodes.NotFound("Credit")
	}
	return nil
}

// ListPersonsForMovie returns the movie's credits ordered by role, then by
// when they were added.
func (svc *Service) ListPersonsForMovie(ctx context.Context, movieID int) ([]*PersonCredit, error) {
	exists, err := svc.db.NewSelect().
		Model((*models.Movie)(nil)).
		Where("m.id = ?", movieID).
		Exists(ctx)
	if err != nil {
		return nil, errors.WithStack(err)
	}
	if !exists {
		return nil, errcodes.NotFound("Movie")
	}

	var credits []*models.MoviePerson
	err = svc.db.NewSelect().
		Model(&credits).
		Relation("Person").
		Where("mp.movie_id = ?", movieID).
		OrderExpr("mp.role ASC, mp.id ASC").
		Scan(ctx)
	if err != nil {
		return nil, errors.WithStack(err)
	}

	result := make([]*PersonCredit, 0, len(credits))
	for _, c := range credits {
		pc := &PersonCredit{
			ID:       c.ID,
			MovieID:  c.MovieID,
			PersonID: c.PersonID,
			Role:     c.Role,
		}
		if c.Person != nil {
			pc.PersonName = c.Person.Name
			pc.PersonEmail = c.Person.Email
		}
		result = append(result, pc)
	}
	return result, nil
}
