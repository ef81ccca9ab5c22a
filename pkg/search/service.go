package search

import (
	"context"

	"github.com/marqueehq/marquee/pkg/models"
	"github.com/pkg/errors"
	"github.com/uptrace/bun"
)

const (
	globalSearchLimit = 5
)

type Service struct {
	db *bun.DB
}

func NewService(db *bun.DB) *Service {
	return &Service{db}
}

// GlobalSearch matches the query against movie titles and person names.
func (svc *Service) GlobalSearch(ctx context.Context, query string) (*GlobalSearchResponse, error) {
	resp := &GlobalSearchResponse{
		Movies:  []MovieSearchResult{},
		Persons: []PersonSearchResult{},
	}

	pattern := ContainsPattern(query)
	if pattern == "" {
		return resp, nil
	}

	err := svc.db.NewSelect().
		TableExpr("movies AS m").
		Column("m.id", "m.title", "m.release_date").
		Where(`m.title_folded LIKE ? ESCAPE '\'`, pattern).
		OrderExpr("m.title COLLATE NOCASE ASC, m.id ASC").
		Limit(globalSearchLimit).
		Scan(ctx, &resp.Movies)
	if err != nil {
		return nil, errors.WithStack(err)
	}

	if err := svc.populateMovieGenres(ctx, resp.Movies); err != nil {
		return nil, errors.WithStack(err)
	}

	err = svc.db.NewSelect().
		TableExpr("persons AS p").
		Column("p.id", "p.name").
		ColumnExpr("(SELECT COUNT(*) FROM movie_persons AS mp WHERE mp.person_id = p.id) AS movie_count").
		Where(`p.name_folded LIKE ? ESCAPE '\'`, pattern).
		OrderExpr("p.name COLLATE NOCASE ASC, p.id ASC").
		Limit(globalSearchLimit).
		Scan(ctx, &resp.Persons)
	if err != nil {
		return nil, errors.WithStack(err)
	}

	return resp, nil
}

// populateMovieGenres loads the genres of every result in one query.
func (svc *Service) populateMovieGenres(ctx context.Context, results []MovieSearchResult) error {
	if len(results) == 0 {
		return nil
	}

	movieIDs := make([]int, len(results))
	for i, r := range results {
		movieIDs[i] = r.ID
	}

	var entries []*models.MovieGenre
	err := svc.db.NewSelect().
		Model(&entries).
		Where("mg.movie_id IN (?)", bun.In(movieIDs)).
		Order("mg.genre ASC").
		Scan(ctx)
	if err != nil {
		return errors.WithStack(err)
	}

	genreMap := make(map[int][]models.Genre)
	for _, e := range entries {
		genreMap[e.MovieID] = append(genreMap[e.MovieID], e.Genre)
	}

	for i := range results {
		results[i].Genres = genreMap[results[i].ID]
		if results[i].Genres == nil {
			results[i].Genres = []models.Genre{}
		}
	}

	return nil
}
