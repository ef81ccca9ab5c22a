package movies

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	"github.com/marqueehq/marquee/pkg/errcodes"
	"github.com/marqueehq/marquee/pkg/models"
	"github.com/marqueehq/marquee/pkg/search"
	"github.com/pkg/errors"
	"github.com/uptrace/bun"
)

const maxTitleLength = 255

type RetrieveMovieOptions struct {
	ID *int
}

type ListMoviesOptions struct {
	Skip  *int
	Limit *int

	// Search matches title or description, case-insensitively.
	Search      *string
	Genres      []models.Genre
	ReleaseYear *int
	DirectorID  *int
	ActorIDs    []int

	Sort  string
	Order string

	includeTotal bool
}

type UpdateMovieOptions struct {
	Columns      []string
	UpdateGenres bool
}

type sortColumn struct {
	expr     string
	nullable bool
}

var sortColumns = map[string]sortColumn{
	"id":           {expr: "m.id"},
	"title":        {expr: "m.title COLLATE NOCASE"},
	"rating":       {expr: "m.rating", nullable: true},
	"release_date": {expr: "m.release_date", nullable: true},
	"created_at":   {expr: "m.created_at"},
}

type Service struct {
	db *bun.DB
}

func NewService(db *bun.DB) *Service {
	return &Service{db}
}

func (svc *Service) CreateMovie(ctx context.Context, movie *models.Movie) error {
	movie.SetGenres(movie.Genres)
	if err := validateMovie(movie); err != nil {
		return err
	}

	now := time.Now()
	if movie.CreatedAt.IsZero() {
		movie.CreatedAt = now
	}
	movie.UpdatedAt = movie.CreatedAt

	return svc.db.RunInTx(ctx, &sql.TxOptions{}, func(ctx context.Context, tx bun.Tx) error {
		_, err := tx.
			NewInsert().
			Model(movie).
			Returning("*").
			Exec(ctx)
		if err != nil {
			return errors.WithStack(err)
		}

		movie.SetGenres(movie.Genres)
		_, err = tx.
			NewInsert().
			Model(&movie.GenreEntries).
			Exec(ctx)
		return errors.WithStack(err)
	})
}

func (svc *Service) RetrieveMovie(ctx context.Context, opts RetrieveMovieOptions) (*models.Movie, error) {
	movie := &models.Movie{}

	q := svc.db.
		NewSelect().
		Model(movie).
		Relation("GenreEntries")

	if opts.ID != nil {
		q = q.Where("m.id = ?", *opts.ID)
	}

	err := q.Scan(ctx)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, errcodes.NotFound("Movie")
		}
		return nil, errors.WithStack(err)
	}

	movie.SyncGenres()
	return movie, nil
}

func (svc *Service) ListMovies(ctx context.Context, opts ListMoviesOptions) ([]*models.Movie, error) {
	m, _, err := svc.listMoviesWithTotal(ctx, opts)
	return m, errors.WithStack(err)
}

func (svc *Service) ListMoviesWithTotal(ctx context.Context, opts ListMoviesOptions) ([]*models.Movie, int, error) {
	opts.includeTotal = true
	return svc.listMoviesWithTotal(ctx, opts)
}

func (svc *Service) listMoviesWithTotal(ctx context.Context, opts ListMoviesOptions) ([]*models.Movie, int, error) {
	movies := []*models.Movie{}
	var total int
	var err error

	skip, limit := search.NormalizePage(opts.Skip, opts.Limit)

	q := svc.db.
		NewSelect().
		Model(&movies).
		Relation("GenreEntries").
		Offset(skip).
		Limit(limit)

	if opts.Search != nil {
		if pattern := search.ContainsPattern(*opts.Search); pattern != "" {
			q = q.WhereGroup(" AND ", func(q *bun.SelectQuery) *bun.SelectQuery {
				return q.
					Where(`m.title_folded LIKE ? ESCAPE '\'`, pattern).
					WhereOr(`m.description_folded LIKE ? ESCAPE '\'`, pattern)
			})
		}
	}
	if len(opts.Genres) > 0 {
		q = q.Where("m.id IN (SELECT mg.movie_id FROM movie_genres AS mg WHERE mg.genre IN (?))", bun.In(opts.Genres))
	}
	if opts.ReleaseYear != nil {
		q = q.Where("substr(m.release_date, 1, 4) = ?", fmt.Sprintf("%04d", *opts.ReleaseYear))
	}
	if opts.DirectorID != nil {
		q = q.Where("m.id IN (SELECT mp.movie_id FROM movie_persons AS mp WHERE mp.role = ? AND mp.person_id = ?)", models.RoleDirector, *opts.DirectorID)
	}
	if len(opts.ActorIDs) > 0 {
		q = q.Where("m.id IN (SELECT mp.movie_id FROM movie_persons AS mp WHERE mp.role = ? AND mp.person_id IN (?))", models.RoleActor, bun.In(opts.ActorIDs))
	}

	q = applySort(q, opts.Sort, opts.Order)

	if opts.includeTotal {
		total, err = q.ScanAndCount(ctx)
	} else {
		err = q.Scan(ctx)
	}
	if err != nil {
		return nil, 0, errors.WithStack(err)
	}

	for _, m := range movies {
		m.SyncGenres()
	}

	return movies, total, nil
}

// applySort orders by the requested column with NULLs last and always breaks
// ties on id so pages are stable.
func applySort(q *bun.SelectQuery, sort, order string) *bun.SelectQuery {
	dir := "ASC"
	if strings.EqualFold(order, "desc") {
		dir = "DESC"
	}

	col, ok := sortColumns[sort]
	if !ok || sort == "id" {
		return q.OrderExpr("m.id " + dir)
	}

	if col.nullable {
		q = q.OrderExpr(col.expr + " IS NULL ASC")
	}
	return q.OrderExpr(col.expr + " " + dir).OrderExpr("m.id ASC")
}

func (svc *Service) UpdateMovie(ctx context.Context, movie *models.Movie, opts UpdateMovieOptions) error {
	if len(opts.Columns) == 0 && !opts.UpdateGenres {
		return nil
	}
	if err := validateMovie(movie); err != nil {
		return err
	}

	movie.UpdatedAt = time.Now()
	columns := append(models.WithFoldedColumns(opts.Columns), "updated_at")

	return svc.db.RunInTx(ctx, &sql.TxOptions{}, func(ctx context.Context, tx bun.Tx) error {
		res, err := tx.
			NewUpdate().
			Model(movie).
			Column(columns...).
			WherePK().
			Exec(ctx)
		if err != nil {
			return errors.WithStack(err)
		}
		if n, _ := res.RowsAffected(); n == 0 {
			return errcodes.NotFound("Movie")
		}

		if !opts.UpdateGenres {
			return nil
		}

		_, err = tx.
			NewDelete().
			Model((*models.MovieGenre)(nil)).
			Where("movie_id = ?", movie.ID).
			Exec(ctx)
		if err != nil {
			return errors.WithStack(err)
		}

		movie.SetGenres(movie.Genres)
		_, err = tx.
			NewInsert().
			Model(&movie.GenreEntries).
			Exec(ctx)
		return errors.WithStack(err)
	})
}

// DeleteMovie removes the movie with its genres, credits and reviews.
func (svc *Service) DeleteMovie(ctx context.Context, movieID int) error {
	return svc.db.RunInTx(ctx, &sql.TxOptions{}, func(ctx context.Context, tx bun.Tx) error {
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

		for _, model := range []interface{}{
			(*models.Review)(nil),
			(*models.MoviePerson)(nil),
			(*models.MovieGenre)(nil),
		} {
			_, err = tx.NewDelete().
				Model(model).
				Where("movie_id = ?", movieID).
				Exec(ctx)
			if err != nil {
				return errors.WithStack(err)
			}
		}

		_, err = tx.NewDelete().
			Model((*models.Movie)(nil)).
			Where("id = ?", movieID).
			Exec(ctx)
		return errors.WithStack(err)
	})
}

func validateMovie(movie *models.Movie) error {
	msgs := []string{}

	movie.Title = strings.TrimSpace(movie.Title)
	if movie.Title == "" {
		msgs = append(msgs, `"title" is required`)
	} else if len([]rune(movie.Title)) > maxTitleLength {
		msgs = append(msgs, fmt.Sprintf(`"title" length must be less than or equal to %d characters`, maxTitleLength))
	}

	if len(movie.Genres) == 0 {
		msgs = append(msgs, `"genres" must contain at least one genre`)
	}
	for _, g := range movie.Genres {
		if !g.Valid() {
			msgs = append(msgs, fmt.Sprintf(`"genres" contains unknown genre %d`, g))
		}
	}

	if movie.Rating != nil && (*movie.Rating < 0 || *movie.Rating > 10) {
		msgs = append(msgs, `"rating" must be between 0 and 10`)
	}

	if movie.ReleaseDate != nil {
		if _, err := time.Parse(models.ReleaseDateLayout, *movie.ReleaseDate); err != nil {
			msgs = append(msgs, `"release_date" should be a valid date in the format of YYYY-MM-DD`)
		}
	}

	if len(msgs) > 0 {
		return errcodes.ValidationErrors(msgs)
	}
	return nil
}
