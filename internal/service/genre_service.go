package service

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"path"
	"time"

	"github.com/google/uuid"

	"github.com/streamnest/streamnest-backend/internal/domain"
	"github.com/streamnest/streamnest-backend/internal/repository/ports"
)

var ErrGenreNotFound = errors.New("genre not found")

type GenreUpdateInput struct {
	Name *string
	// ThumbnailURL replaces the thumbnail with an external URL. Updates never
	// accept file uploads for this slot; only create does.
	ThumbnailURL *string
}

type GenreService struct {
	genres ports.GenreRepository
	files  ports.FileStore

	now func() time.Time
}

func NewGenreService(genres ports.GenreRepository, files ports.FileStore) *GenreService {
	return &GenreService{genres: genres, files: files, now: time.Now}
}

func (s *GenreService) List(ctx context.Context, limit, offset int) ([]domain.Genre, int64, error) {
	genres, err := s.genres.ListWithCounts(ctx, limit, offset)
	if err != nil {
		return nil, 0, fmt.Errorf("list genres: %w", err)
	}
	total, err := s.genres.Count(ctx)
	if err != nil {
		return nil, 0, fmt.Errorf("count genres: %w", err)
	}
	return genres, total, nil
}

func (s *GenreService) Get(ctx context.Context, id uuid.UUID) (*domain.Genre, error) {
	genre, err := s.genres.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrGenreNotFound
		}
		return nil, fmt.Errorf("find genre: %w", err)
	}
	return genre, nil
}

// Create stores the thumbnail upload, if any, and records its
// storage-relative path on the new genre.
func (s *GenreService) Create(ctx context.Context, name string, thumbnail *AssetUpload) (*domain.Genre, error) {
	var thumbPath *string
	if thumbnail != nil {
		fileName := assetName(s.now(), thumbnailNameSuffix, thumbnail.FileName)
		stored, err := saveImageUpload(ctx, s.files, domain.AssetClassGenres, fileName, thumbnail)
		if err != nil {
			return nil, err
		}
		thumbPath = &stored
	}

	genre, err := s.genres.Create(ctx, name, thumbPath)
	if err != nil {
		if thumbPath != nil {
			_ = s.files.RemoveIfPresent(ctx, domain.AssetClassGenres, path.Base(*thumbPath))
		}
		return nil, fmt.Errorf("create genre: %w", err)
	}
	return genre, nil
}

func (s *GenreService) Update(ctx context.Context, id uuid.UUID, input GenreUpdateInput) (*domain.Genre, error) {
	current, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	// Swapping a stored thumbnail for an external URL releases the old file.
	if input.ThumbnailURL != nil && current.HasStoredThumbnail() {
		_ = s.files.RemoveIfPresent(ctx, domain.AssetClassGenres, path.Base(*current.Thumbnail))
	}

	genre, err := s.genres.Update(ctx, id, domain.GenreUpdate{
		Name:      input.Name,
		Thumbnail: input.ThumbnailURL,
	})
	if err != nil {
		return nil, fmt.Errorf("update genre: %w", err)
	}
	return genre, nil
}

// Delete releases a stored thumbnail file (best-effort) before removing the
// row. External thumbnail URLs have nothing to release.
func (s *GenreService) Delete(ctx context.Context, id uuid.UUID) error {
	genre, err := s.Get(ctx, id)
	if err != nil {
		return err
	}

	if genre.HasStoredThumbnail() {
		_ = s.files.RemoveIfPresent(ctx, domain.AssetClassGenres, path.Base(*genre.Thumbnail))
	}

	if err := s.genres.Delete(ctx, id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return ErrGenreNotFound
		}
		return fmt.Errorf("delete genre: %w", err)
	}
	return nil
}
