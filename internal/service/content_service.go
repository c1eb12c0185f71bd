package service

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/streamnest/streamnest-backend/internal/domain"
	"github.com/streamnest/streamnest-backend/internal/repository/ports"
)

var (
	ErrContentNotFound  = errors.New("content not found")
	ErrScheduleRequired = errors.New("schedule timestamp required for scheduled publish")
	ErrInvalidImage     = errors.New("uploaded file is not a valid image")
)

const (
	videoNameSuffix     = "_content_video"
	imageNameSuffix     = "_content_image"
	thumbnailNameSuffix = "_genre_thumbnail"
)

type ContentCreateInput struct {
	Title       string
	Description string
	Publish     domain.PublishState
	Schedule    *time.Time
	GenreID     uuid.UUID
	Video       *AssetUpload
	Image       *AssetUpload
}

type ContentUpdateInput struct {
	Title       *string
	Description *string
	Publish     *domain.PublishState
	Schedule    *time.Time
	GenreID     *uuid.UUID
	Video       *AssetUpload
	Image       *AssetUpload
}

type ContentService struct {
	contents ports.ContentRepository
	genres   ports.GenreRepository
	files    ports.FileStore

	now func() time.Time
}

func NewContentService(contents ports.ContentRepository, genres ports.GenreRepository, files ports.FileStore) *ContentService {
	return &ContentService{
		contents: contents,
		genres:   genres,
		files:    files,
		now:      time.Now,
	}
}

func (s *ContentService) List(ctx context.Context, limit, offset int) ([]domain.Content, int64, error) {
	items, err := s.contents.List(ctx, limit, offset)
	if err != nil {
		return nil, 0, fmt.Errorf("list contents: %w", err)
	}
	total, err := s.contents.Count(ctx)
	if err != nil {
		return nil, 0, fmt.Errorf("count contents: %w", err)
	}
	return items, total, nil
}

func (s *ContentService) Get(ctx context.Context, id uuid.UUID) (*domain.Content, error) {
	content, err := s.contents.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrContentNotFound
		}
		return nil, fmt.Errorf("find content: %w", err)
	}
	return content, nil
}

// Create stores any provided uploads and inserts the record. When publish is
// not "schedule" the schedule column is forced to the current time, whatever
// the caller sent.
func (s *ContentService) Create(ctx context.Context, input ContentCreateInput) (*domain.Content, error) {
	ok, err := s.genres.Exists(ctx, input.GenreID)
	if err != nil {
		return nil, fmt.Errorf("check genre: %w", err)
	}
	if !ok {
		return nil, ErrGenreNotFound
	}

	schedule := s.now()
	if input.Publish == domain.PublishSchedule {
		if input.Schedule == nil {
			return nil, ErrScheduleRequired
		}
		schedule = *input.Schedule
	}

	fields := domain.NewContent{
		Title:       input.Title,
		Description: input.Description,
		Publish:     input.Publish,
		Schedule:    schedule,
		GenreID:     input.GenreID,
	}

	var stored []storedAsset
	cleanup := func() {
		for _, a := range stored {
			_ = s.files.RemoveIfPresent(ctx, a.class, a.name)
		}
	}

	if input.Video != nil {
		name := assetName(s.now(), videoNameSuffix, input.Video.FileName)
		if _, err := s.files.Save(ctx, domain.AssetClassVideos, name, input.Video.ContentType, input.Video.Reader, input.Video.Size); err != nil {
			return nil, fmt.Errorf("store video: %w", err)
		}
		stored = append(stored, storedAsset{domain.AssetClassVideos, name})
		fields.Video = &name
	}
	if input.Image != nil {
		name := assetName(s.now(), imageNameSuffix, input.Image.FileName)
		if _, err := saveImageUpload(ctx, s.files, domain.AssetClassContents, name, input.Image); err != nil {
			cleanup()
			return nil, err
		}
		stored = append(stored, storedAsset{domain.AssetClassContents, name})
		fields.Image = &name
	}

	content, err := s.contents.Create(ctx, fields)
	if err != nil {
		cleanup()
		return nil, fmt.Errorf("create content: %w", err)
	}
	return content, nil
}

// Update applies a partial update. A provided upload replaces its slot,
// deleting the previous file first; an absent upload leaves the slot alone.
// The schedule column only changes when publish is set to "schedule" with an
// explicit timestamp; any other publish change preserves the stored value.
func (s *ContentService) Update(ctx context.Context, id uuid.UUID, input ContentUpdateInput) (*domain.Content, error) {
	content, err := s.contents.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrContentNotFound
		}
		return nil, fmt.Errorf("find content: %w", err)
	}

	if input.GenreID != nil {
		ok, err := s.genres.Exists(ctx, *input.GenreID)
		if err != nil {
			return nil, fmt.Errorf("check genre: %w", err)
		}
		if !ok {
			return nil, ErrGenreNotFound
		}
	}

	fields := domain.ContentUpdate{
		Title:       input.Title,
		Description: input.Description,
		GenreID:     input.GenreID,
	}

	if input.Publish != nil {
		fields.Publish = input.Publish
		if *input.Publish == domain.PublishSchedule {
			if input.Schedule == nil {
				return nil, ErrScheduleRequired
			}
			fields.Schedule = input.Schedule
		}
	}

	if input.Video != nil {
		if content.Video != nil {
			_ = s.files.RemoveIfPresent(ctx, domain.AssetClassVideos, *content.Video)
		}
		name := assetName(s.now(), videoNameSuffix, input.Video.FileName)
		if _, err := s.files.Save(ctx, domain.AssetClassVideos, name, input.Video.ContentType, input.Video.Reader, input.Video.Size); err != nil {
			return nil, fmt.Errorf("store video: %w", err)
		}
		fields.Video = &name
	}
	if input.Image != nil {
		if content.Image != nil {
			_ = s.files.RemoveIfPresent(ctx, domain.AssetClassContents, *content.Image)
		}
		name := assetName(s.now(), imageNameSuffix, input.Image.FileName)
		if _, err := saveImageUpload(ctx, s.files, domain.AssetClassContents, name, input.Image); err != nil {
			return nil, err
		}
		fields.Image = &name
	}

	// Nothing to change: skip the write and hand back the current row.
	if fields.IsEmpty() {
		return content, nil
	}

	updated, err := s.contents.Update(ctx, id, fields)
	if err != nil {
		return nil, fmt.Errorf("update content: %w", err)
	}
	return updated, nil
}

// Delete removes both asset files (best-effort) and then the record, in that
// order.
func (s *ContentService) Delete(ctx context.Context, id uuid.UUID) error {
	content, err := s.contents.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return ErrContentNotFound
		}
		return fmt.Errorf("find content: %w", err)
	}

	if content.Video != nil {
		_ = s.files.RemoveIfPresent(ctx, domain.AssetClassVideos, *content.Video)
	}
	if content.Image != nil {
		_ = s.files.RemoveIfPresent(ctx, domain.AssetClassContents, *content.Image)
	}

	if err := s.contents.Delete(ctx, id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return ErrContentNotFound
		}
		return fmt.Errorf("delete content: %w", err)
	}
	return nil
}
