package reviews

import (
	"context"
	"database/sql"
	"fmt"
	"math"
	"strings"
	"time"

	"github.com/marqueehq/marquee/pkg/errcodes"
	"github.com/marqueehq/marquee/pkg/models"
	"github.com/marqueehq/marquee/pkg/search"
	"github.com/pkg/errors"
	"github.com/uptrace/bun"
)

const maxAuthorNameLength = 255

type ListReviewsOptions struct {
	MovieID int
	Skip    *int
	Limit   *int
}

// ReviewPage is a page of a movie's reviews along with the average rating
// over all of them.
type ReviewPage struct {
	*search.Results[*models.Review]
	AverageRating *float64 `json:"average_rating"`
}

type Service struct {
	db *bun.DB
}

func NewService(db *bun.DB) *Service {
	return &Service{db}
}

func (svc *Service) CreateReview(ctx context.Context, review *models.Review) error {
	if err := validateReview(review); err != nil {
		return err
	}
	if err := svc.ensureMovie(ctx, review.MovieID); err != nil {
		return err
	}

	if review.CreatedAt.IsZero() {
		review.CreatedAt = time.Now()
	}

	_, err := svc.db.
		NewInsert().
		Model(review).
		Returning("*").
		Exec(ctx)
	return errors.WithStack(err)
}

// ListReviews returns the newest reviews of a movie first.
func (svc *Service) ListReviews(ctx context.Context, opts ListReviewsOptions) (*ReviewPage, error) {
	if err := svc.ensureMovie(ctx, opts.MovieID); err != nil {
		return nil, err
	}

	skip, limit := search.NormalizePage(opts.Skip, opts.Limit)

	reviews := []*models.Review{}
	total, err := svc.db.
		NewSelect().
		Model(&reviews).
		Where("r.movie_id = ?", opts.MovieID).
		Order("r.created_at DESC", "r.id DESC").
		Offset(skip).
		Limit(limit).
		ScanAndCount(ctx)
	if err != nil {
		return nil, errors.WithStack(err)
	}

	avg, err := svc.AverageRating(ctx, opts.MovieID)
	if err != nil {
		return nil, err
	}

	return &ReviewPage{
		Results:       search.NewResults(reviews, total, skip, limit),
		AverageRating: avg,
	}, nil
}

// AverageRating is the mean rating over every review of the movie. It is nil
// when the movie has no reviews.
func (svc *Service) AverageRating(ctx context.Context, movieID int) (*float64, error) {
	var avg sql.NullFloat64
	err := svc.db.
		NewSelect().
		Model((*models.Review)(nil)).
		ColumnExpr("AVG(r.rating)").
		Where("r.movie_id = ?", movieID).
		Scan(ctx, &avg)
	if err != nil {
		return nil, errors.WithStack(err)
	}
	if !avg.Valid {
		return nil, nil
	}
	return &avg.Float64, nil
}

// DeleteReview removes a review of the given movie. Reviews of other movies
// are reported as missing.
func (svc *Service) DeleteReview(ctx context.Context, movieID, reviewID int) error {
	res, err := svc.db.
		NewDelete().
		Model((*models.Review)(nil)).
		Where("id = ?", reviewID).
		Where("movie_id = ?", movieID).
		Exec(ctx)
	if err != nil {
		return errors.WithStack(err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return errcodes.NotFound("Review")
	}
	return nil
}

func (svc *Service) ensureMovie(ctx context.Context, movieID int) error {
	exists, err := svc.db.NewSelect().
		Model((*models.Movie)(nil)).
		Where("m.id = ?", movieID).
		Exists(ctx)
	if err != nil {
		return errors.WithStack(err)
	}
	if !exists {
		return errcodes.NotFound("Movie")
	}
	return nil
}

func validateReview(review *models.Review) error {
	msgs := []string{}

	review.AuthorName = strings.TrimSpace(review.AuthorName)
	review.Content = strings.TrimSpace(review.Content)

	if review.AuthorName == "" {
		msgs = append(msgs, `"author_name" is required`)
	} else if len([]rune(review.AuthorName)) > maxAuthorNameLength {
		msgs = append(msgs, fmt.Sprintf(`"author_name" length must be less than or equal to %d characters`, maxAuthorNameLength))
	}
	if review.Rating < 0 || review.Rating > 10 || math.IsNaN(review.Rating) {
		msgs = append(msgs, `"rating" must be between 0 and 10`)
	}
	if review.Content == "" {
		msgs = append(msgs, `"content" is required`)
	}

	if len(msgs) > 0 {
		return errcodes.ValidationErrors(msgs)
	}
	return nil
}
