package genres

import (
	"context"

	"github.com/marqueehq/marquee/pkg/errcodes"
	"github.com/marqueehq/marquee/pkg/models"
	"github.com/pkg/errors"
	"github.com/uptrace/bun"
)

// GenreSummary is a catalog genre with the number of movies carrying it.
type GenreSummary struct {
	Code       models.Genre `json:"code"`
	Name       string       `json:"name"`
	MovieCount int          `json:"movie_count"`
}

type Service struct {
	db *bun.DB
}

func NewService(db *bun.DB) *Service {
	return &Service{db}
}

// ListGenres returns every genre of the catalog ordered by code, including
// those no movie uses.
func (svc *Service) ListGenres(ctx context.Context) ([]*GenreSummary, error) {
	counts, err := svc.movieCounts(ctx)
	if err != nil {
		return nil, err
	}

	all := models.AllGenres()
	result := make([]*GenreSummary, 0, len(all))
	for _, g := range all {
		result = append(result, &GenreSummary{
			Code:       g,
			Name:       g.String(),
			MovieCount: counts[g],
		})
	}
	return result, nil
}

func (svc *Service) RetrieveGenre(ctx context.Context, code models.Genre) (*GenreSummary, error) {
	if !code.Valid() {
		return nil, errcodes.NotFound("Genre")
	}

	count, err := svc.db.NewSelect().
		Model((*models.MovieGenre)(nil)).
		Where("mg.genre = ?", code).
		Count(ctx)
	if err != nil {
		return nil, errors.WithStack(err)
	}

	return &GenreSummary{Code: code, Name: code.String(), MovieCount: count}, nil
}

func (svc *Service) movieCounts(ctx context.Context) (map[models.Genre]int, error) {
	var rows []struct {
		Genre models.Genre `bun:"genre"`
		Count int          `bun:"count"`
	}
	err := svc.db.NewSelect().
		TableExpr("movie_genres AS mg").
		ColumnExpr("mg.genre AS genre").
		ColumnExpr("COUNT(*) AS count").
		GroupExpr("mg.genre").
		Scan(ctx, &rows)
	if err != nil {
		return nil, errors.WithStack(err)
	}

	counts := make(map[models.Genre]int, len(rows))
	for _, r := range rows {
		counts[r.Genre] = r.Count
	}
	return counts, nil
}
