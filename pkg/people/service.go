package people

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	"github.com/marqueehq/marquee/pkg/database"
	"github.com/marqueehq/marquee/pkg/errcodes"
	"github.com/marqueehq/marquee/pkg/models"
	"github.com/marqueehq/marquee/pkg/search"
	"github.com/pkg/errors"
	"github.com/uptrace/bun"
)

const (
	maxNameLength  = 255
	maxEmailLength = 320
)

const movieCountExpr = "(SELECT COUNT(*) FROM movie_persons AS mpc WHERE mpc.person_id = p.id) AS movie_count"

type RetrievePersonOptions struct {
	ID *int
}

type ListPeopleOptions struct {
	Skip  *int
	Limit *int

	// Search matches name or email, case-insensitively.
	Search *string

	// MovieIDs, Roles and Genres are matched against the same credit: a person
	// qualifies when one of their credits satisfies every given filter.
	MovieIDs []int
	Roles    []models.Role
	Genres   []models.Genre

	includeTotal bool
}

type UpdatePersonOptions struct {
	Columns []string
}

// MovieCredit is one of a person's credits, with the movie's details joined
// in.
type MovieCredit struct {
	ID          int            `json:"id"`
	MovieID     int            `json:"movie_id"`
	PersonID    int            `json:"person_id"`
	Role        models.Role    `json:"role"`
	MovieTitle  string         `json:"movie_title"`
	ImagePath   *string        `json:"image_path"`
	Rating      *float64       `json:"rating"`
	ReleaseDate *string        `json:"release_date"`
	Genres      []models.Genre `json:"genres"`
}

type Service struct {
	db *bun.DB
}

func NewService(db *bun.DB) *Service {
	return &Service{db}
}

func (svc *Service) CreatePerson(ctx context.Context, person *models.Person) error {
	if err := validatePerson(person); err != nil {
		return err
	}

	now := time.Now()
	if person.CreatedAt.IsZero() {
		person.CreatedAt = now
	}
	person.UpdatedAt = person.CreatedAt

	_, err := svc.db.
		NewInsert().
		Model(person).
		Returning("*").
		Exec(ctx)
	if err != nil {
		if database.IsUniqueViolation(err) {
			return emailConflict(person.Email)
		}
		return errors.WithStack(err)
	}
	return nil
}

func (svc *Service) RetrievePerson(ctx context.Context, opts RetrievePersonOptions) (*models.Person, error) {
	person := &models.Person{}

	q := svc.db.
		NewSelect().
		Model(person).
		ColumnExpr("p.*").
		ColumnExpr(movieCountExpr)

	if opts.ID != nil {
		q = q.Where("p.id = ?", *opts.ID)
	}

	err := q.Scan(ctx)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, errcodes.NotFound("Person")
		}
		return nil, errors.WithStack(err)
	}

	return person, nil
}

func (svc *Service) ListPeople(ctx context.Context, opts ListPeopleOptions) ([]*models.Person, error) {
	p, _, err := svc.listPeopleWithTotal(ctx, opts)
	return p, errors.WithStack(err)
}

func (svc *Service) ListPeopleWithTotal(ctx context.Context, opts ListPeopleOptions) ([]*models.Person, int, error) {
	opts.includeTotal = true
	return svc.listPeopleWithTotal(ctx, opts)
}

func (svc *Service) listPeopleWithTotal(ctx context.Context, opts ListPeopleOptions) ([]*models.Person, int, error) {
	people := []*models.Person{}
	var total int
	var err error

	skip, limit := search.NormalizePage(opts.Skip, opts.Limit)

	q := svc.db.
		NewSelect().
		Model(&people).
		ColumnExpr("p.*").
		ColumnExpr(movieCountExpr).
		Order("p.id ASC").
		Offset(skip).
		Limit(limit)

	if opts.Search != nil {
		if pattern := search.ContainsPattern(*opts.Search); pattern != "" {
			q = q.WhereGroup(" AND ", func(q *bun.SelectQuery) *bun.SelectQuery {
				return q.
					Where(`p.name_folded LIKE ? ESCAPE '\'`, pattern).
					WhereOr(`p.email_folded LIKE ? ESCAPE '\'`, pattern)
			})
		}
	}

	if len(opts.MovieIDs) > 0 || len(opts.Roles) > 0 || len(opts.Genres) > 0 {
		credits := svc.db.NewSelect().
			TableExpr("movie_persons AS mp").
			Column("mp.person_id")
		if len(opts.MovieIDs) > 0 {
			credits = credits.Where("mp.movie_id IN (?)", bun.In(opts.MovieIDs))
		}
		if len(opts.Roles) > 0 {
			credits = credits.Where("mp.role IN (?)", bun.In(opts.Roles))
		}
		if len(opts.Genres) > 0 {
			credits = credits.Where("mp.movie_id IN (SELECT mg.movie_id FROM movie_genres AS mg WHERE mg.genre IN (?))", bun.In(opts.Genres))
		}
		q = q.Where("p.id IN (?)", credits)
	}

	if opts.includeTotal {
		total, err = q.ScanAndCount(ctx)
	} else {
		err = q.Scan(ctx)
	}
	if err != nil {
		return nil, 0, errors.WithStack(err)
	}

	return people, total, nil
}

func (svc *Service) UpdatePerson(ctx context.Context, person *models.Person, opts UpdatePersonOptions) error {
	if len(opts.Columns) == 0 {
		return nil
	}
	if err := validatePerson(person); err != nil {
		return err
	}

	now := time.Now()
	person.UpdatedAt = now
	columns := append(models.WithFoldedColumns(opts.Columns), "updated_at")

	res, err := svc.db.
		NewUpdate().
		Model(person).
		Column(columns...).
		WherePK().
		Exec(ctx)
	if err != nil {
		if database.IsUniqueViolation(err) {
			return emailConflict(person.Email)
		}
		return errors.WithStack(err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return errcodes.NotFound("Person")
	}
	return nil
}

// DeletePerson deletes a person and all their credits. Movies are left alone.
func (svc *Service) DeletePerson(ctx context.Context, personID int) error {
	return svc.db.RunInTx(ctx, &sql.TxOptions{}, func(ctx context.Context, tx bun.Tx) error {
		_, err := tx.NewDelete().
			Model((*models.MoviePerson)(nil)).
			Where("person_id = ?", personID).
			Exec(ctx)
		if err != nil {
			return errors.WithStack(err)
		}

		res, err := tx.NewDelete().
			Model((*models.Person)(nil)).
			Where("id = ?", personID).
			Exec(ctx)
		if err != nil {
			return errors.WithStack(err)
		}
		if n, _ := res.RowsAffected(); n == 0 {
			return errcodes.NotFound("Person")
		}
		return nil
	})
}

// ListMoviesForPerson returns every credit of the person, ordered by role,
// then movie title.
func (svc *Service) ListMoviesForPerson(ctx context.Context, personID int) ([]*MovieCredit, error) {
	exists, err := svc.db.NewSelect().
		Model((*models.Person)(nil)).
		Where("p.id = ?", personID).
		Exists(ctx)
	if err != nil {
		return nil, errors.WithStack(err)
	}
	if !exists {
		return nil, errcodes.NotFound("Person")
	}

	var credits []*models.MoviePerson
	err = svc.db.NewSelect().
		Model(&credits).
		Relation("Movie").
		Where("mp.person_id = ?", personID).
		OrderExpr(`mp.role ASC, "movie"."title" COLLATE NOCASE ASC, mp.id ASC`).
		Scan(ctx)
	if err != nil {
		return nil, errors.WithStack(err)
	}

	genres, err := svc.genresByMovie(ctx, credits)
	if err != nil {
		return nil, err
	}

	result := make([]*MovieCredit, 0, len(credits))
	for _, c := range credits {
		mc := &MovieCredit{
			ID:       c.ID,
			MovieID:  c.MovieID,
			PersonID: c.PersonID,
			Role:     c.Role,
			Genres:   genres[c.MovieID],
		}
		if mc.Genres == nil {
			mc.Genres = []models.Genre{}
		}
		if c.Movie != nil {
			mc.MovieTitle = c.Movie.Title
			mc.ImagePath = c.Movie.ImagePath
			mc.Rating = c.Movie.Rating
			mc.ReleaseDate = c.Movie.ReleaseDate
		}
		result = append(result, mc)
	}
	return result, nil
}

func (svc *Service) genresByMovie(ctx context.Context, credits []*models.MoviePerson) (map[int][]models.Genre, error) {
	genres := map[int][]models.Genre{}
	if len(credits) == 0 {
		return genres, nil
	}

	movieIDs := make([]int, 0, len(credits))
	for _, c := range credits {
		movieIDs = append(movieIDs, c.MovieID)
	}

	var entries []*models.MovieGenre
	err := svc.db.NewSelect().
		Model(&entries).
		Where("mg.movie_id IN (?)", bun.In(movieIDs)).
		Order("mg.genre ASC").
		Scan(ctx)
	if err != nil {
		return nil, errors.WithStack(err)
	}

	for _, e := range entries {
		genres[e.MovieID] = append(genres[e.MovieID], e.Genre)
	}
	return genres, nil
}

func validatePerson(person *models.Person) error {
	msgs := []string{}

	person.Name = strings.TrimSpace(person.Name)
	person.Email = strings.TrimSpace(person.Email)

	if person.Name == "" {
		msgs = append(msgs, `"name" is required`)
	} else if len([]rune(person.Name)) > maxNameLength {
		msgs = append(msgs, fmt.Sprintf(`"name" length must be less than or equal to %d characters`, maxNameLength))
	}

	if person.Email == "" {
		msgs = append(msgs, `"email" is required`)
	} else if len(person.Email) > maxEmailLength || !strings.Contains(person.Email, "@") {
		msgs = append(msgs, `"email" must be a valid email address`)
	}

	if len(msgs) > 0 {
		return errcodes.ValidationErrors(msgs)
	}
	return nil
}

func emailConflict(email string) error {
	return errcodes.Conflict(fmt.Sprintf("A person with email %q already exists.", email))
}
