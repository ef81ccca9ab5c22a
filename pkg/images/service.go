package images

import (
	"context"
	"fmt"
	"mime/multipart"
	"strings"

	"github.com/google/uuid"
	"github.com/marqueehq/marquee/pkg/errcodes"
	"github.com/marqueehq/marquee/pkg/models"
	"github.com/marqueehq/marquee/pkg/movies"
	"github.com/marqueehq/marquee/pkg/storage"
	"github.com/pkg/errors"
	"github.com/robinjoseph08/golib/logger"
	"github.com/uptrace/bun"
)

type Service struct {
	movieService *movies.Service
	storage      storage.Backend
}

func NewService(db *bun.DB, store storage.Backend) *Service {
	return &Service{
		movieService: movies.NewService(db),
		storage:      store,
	}
}

// UploadMovieImage validates the file, stores it, and points the movie at
// it. Nothing is written before validation passes. A previously uploaded
// image is removed once the movie references the new one.
func (svc *Service) UploadMovieImage(ctx context.Context, movieID int, fh *multipart.FileHeader) (*models.Movie, error) {
	log := logger.FromContext(ctx)

	movie, err := svc.movieService.RetrieveMovie(ctx, movies.RetrieveMovieOptions{
		ID: &movieID,
	})
	if err != nil {
		return nil, errors.WithStack(err)
	}

	file, err := fh.Open()
	if err != nil {
		return nil, errors.WithStack(err)
	}
	defer file.Close()

	ext, err := Validate(fh.Header.Get("Content-Type"), fh.Size, file)
	if err != nil {
		return nil, err
	}

	key := fmt.Sprintf("%s%d-%s%s", movies.UploadedImagePrefix, movie.ID, uuid.NewString(), ext)
	if err := svc.storage.Save(ctx, key, file); err != nil {
		log.Err(err).Error("failed to store movie image", logger.Data{"movie_id": movie.ID, "key": key})
		return nil, errcodes.StorageError()
	}

	previous := movie.ImagePath
	movie.ImagePath = &key
	err = svc.movieService.UpdateMovie(ctx, movie, movies.UpdateMovieOptions{
		Columns: []string{"image_path"},
	})
	if err != nil {
		log.Err(err).Error("stored movie image is orphaned", logger.Data{"movie_id": movie.ID, "key": key})
		return nil, errors.WithStack(err)
	}

	if previous != nil && *previous != key && strings.HasPrefix(*previous, movies.UploadedImagePrefix) {
		if err := svc.storage.Delete(ctx, *previous); err != nil {
			log.Err(err).Warn("failed to delete replaced movie image", logger.Data{"movie_id": movie.ID, "key": *previous})
		}
	}

	return movie, nil
}

// ImageURL returns the public URL of a stored image path.
func (svc *Service) ImageURL(path string) string {
	return svc.storage.URL(path)
}
