package service

import (
	"bytes"
	"context"
	"database/sql"
	"errors"
	"image"
	"image/png"
	"io"
	"strconv"
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/streamnest/streamnest-backend/internal/domain"
)

type fakeContentRepo struct {
	createInput  domain.NewContent
	createResult *domain.Content
	createErr    error

	findByIDInput  uuid.UUID
	findByIDResult *domain.Content
	findByIDErr    error

	listResult  []domain.Content
	listErr     error
	countResult int64
	countErr    error

	updateCalls  int
	updateInput  domain.ContentUpdate
	updateResult *domain.Content
	updateErr    error

	deleteInput uuid.UUID
	deleteErr   error
}

func (f *fakeContentRepo) Create(ctx context.Context, fields domain.NewContent) (*domain.Content, error) {
	f.createInput = fields
	return f.createResult, f.createErr
}

func (f *fakeContentRepo) FindByID(ctx context.Context, id uuid.UUID) (*domain.Content, error) {
	f.findByIDInput = id
	return f.findByIDResult, f.findByIDErr
}

func (f *fakeContentRepo) List(ctx context.Context, limit, offset int) ([]domain.Content, error) {
	return f.listResult, f.listErr
}

func (f *fakeContentRepo) Count(ctx context.Context) (int64, error) {
	return f.countResult, f.countErr
}

func (f *fakeContentRepo) Update(ctx context.Context, id uuid.UUID, fields domain.ContentUpdate) (*domain.Content, error) {
	f.updateCalls++
	f.updateInput = fields
	return f.updateResult, f.updateErr
}

func (f *fakeContentRepo) Delete(ctx context.Context, id uuid.UUID) error {
	f.deleteInput = id
	return f.deleteErr
}

type fakeGenreRepo struct {
	createInput struct {
		name      string
		thumbnail *string
	}
	createResult *domain.Genre
	createErr    error

	findByIDResult *domain.Genre
	findByIDErr    error

	listResult  []domain.Genre
	listErr     error
	countResult int64
	countErr    error

	existsInput  uuid.UUID
	existsResult bool
	existsErr    error

	updateInput  domain.GenreUpdate
	updateResult *domain.Genre
	updateErr    error

	deleteInput uuid.UUID
	deleteErr   error
}

func (f *fakeGenreRepo) Create(ctx context.Context, name string, thumbnail *string) (*domain.Genre, error) {
	f.createInput.name = name
	f.createInput.thumbnail = thumbnail
	return f.createResult, f.createErr
}

func (f *fakeGenreRepo) FindByID(ctx context.Context, id uuid.UUID) (*domain.Genre, error) {
	return f.findByIDResult, f.findByIDErr
}

func (f *fakeGenreRepo) ListWithCounts(ctx context.Context, limit, offset int) ([]domain.Genre, error) {
	return f.listResult, f.listErr
}

func (f *fakeGenreRepo) Count(ctx context.Context) (int64, error) {
	return f.countResult, f.countErr
}

func (f *fakeGenreRepo) Exists(ctx context.Context, id uuid.UUID) (bool, error) {
	f.existsInput = id
	return f.existsResult, f.existsErr
}

func (f *fakeGenreRepo) Update(ctx context.Context, id uuid.UUID, fields domain.GenreUpdate) (*domain.Genre, error) {
	f.updateInput = fields
	return f.updateResult, f.updateErr
}

func (f *fakeGenreRepo) Delete(ctx context.Context, id uuid.UUID) error {
	f.deleteInput = id
	return f.deleteErr
}

type storedFile struct {
	class domain.AssetClass
	name  string
}

type fakeFileStore struct {
	saves   []storedFile
	removes []storedFile
	saveErr error
}

func (f *fakeFileStore) Save(ctx context.Context, class domain.AssetClass, name, contentType string, reader io.Reader, size int64) (string, error) {
	if f.saveErr != nil {
		return "", f.saveErr
	}
	if _, err := io.Copy(io.Discard, reader); err != nil {
		return "", err
	}
	f.saves = append(f.saves, storedFile{class, name})
	return "uploads/" + string(class) + "/" + name, nil
}

func (f *fakeFileStore) RemoveIfPresent(ctx context.Context, class domain.AssetClass, name string) error {
	f.removes = append(f.removes, storedFile{class, name})
	return nil
}

func pngUpload(t *testing.T, fileName string) *AssetUpload {
	t.Helper()
	var buf bytes.Buffer
	if err := png.Encode(&buf, image.NewRGBA(image.Rect(0, 0, 2, 2))); err != nil {
		t.Fatalf("encode png: %v", err)
	}
	return &AssetUpload{
		Reader:      bytes.NewReader(buf.Bytes()),
		Size:        int64(buf.Len()),
		FileName:    fileName,
		ContentType: "image/png",
	}
}

func videoUpload(fileName string) *AssetUpload {
	data := []byte("not really a video, the store does not care")
	return &AssetUpload{
		Reader:      bytes.NewReader(data),
		Size:        int64(len(data)),
		FileName:    fileName,
		ContentType: "video/mp4",
	}
}

func newTestContentService(contents *fakeContentRepo, genres *fakeGenreRepo, files *fakeFileStore, now time.Time) *ContentService {
	svc := NewContentService(contents, genres, files)
	svc.now = func() time.Time { return now }
	return svc
}

func TestContentCreateForcesScheduleToNowForImmediatePublish(t *testing.T) {
	now := time.Date(2026, 3, 14, 9, 0, 0, 0, time.UTC)
	later := now.Add(48 * time.Hour)
	contents := &fakeContentRepo{createResult: &domain.Content{ID: uuid.New()}}
	genres := &fakeGenreRepo{existsResult: true}
	files := &fakeFileStore{}
	svc := newTestContentService(contents, genres, files, now)

	_, err := svc.Create(context.Background(), ContentCreateInput{
		Title:    "Deep Blue",
		Publish:  domain.PublishPublic,
		Schedule: &later,
		GenreID:  uuid.New(),
		Video:    videoUpload("clip.mp4"),
		Image:    pngUpload(t, "cover.png"),
	})
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if !contents.createInput.Schedule.Equal(now) {
		t.Fatalf("immediate publish must pin schedule to now, got %v", contents.createInput.Schedule)
	}
}

func TestContentCreateScheduledPublish(t *testing.T) {
	now := time.Date(2026, 3, 14, 9, 0, 0, 0, time.UTC)
	later := now.Add(48 * time.Hour)
	contents := &fakeContentRepo{createResult: &domain.Content{ID: uuid.New()}}
	genres := &fakeGenreRepo{existsResult: true}
	svc := newTestContentService(contents, genres, &fakeFileStore{}, now)

	_, err := svc.Create(context.Background(), ContentCreateInput{
		Title:    "Deep Blue",
		Publish:  domain.PublishSchedule,
		Schedule: &later,
		GenreID:  uuid.New(),
		Video:    videoUpload("clip.mp4"),
		Image:    pngUpload(t, "cover.png"),
	})
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if !contents.createInput.Schedule.Equal(later) {
		t.Fatalf("scheduled publish must keep the given timestamp, got %v", contents.createInput.Schedule)
	}
}

func TestContentCreateScheduledPublishRequiresTimestamp(t *testing.T) {
	genres := &fakeGenreRepo{existsResult: true}
	svc := newTestContentService(&fakeContentRepo{}, genres, &fakeFileStore{}, time.Now())

	_, err := svc.Create(context.Background(), ContentCreateInput{
		Title:   "Deep Blue",
		Publish: domain.PublishSchedule,
		GenreID: uuid.New(),
	})
	if !errors.Is(err, ErrScheduleRequired) {
		t.Fatalf("expected ErrScheduleRequired, got %v", err)
	}
}

func TestContentCreateUnknownGenre(t *testing.T) {
	files := &fakeFileStore{}
	svc := newTestContentService(&fakeContentRepo{}, &fakeGenreRepo{existsResult: false}, files, time.Now())

	_, err := svc.Create(context.Background(), ContentCreateInput{
		Title:   "Deep Blue",
		Publish: domain.PublishPublic,
		GenreID: uuid.New(),
		Video:   videoUpload("clip.mp4"),
	})
	if !errors.Is(err, ErrGenreNotFound) {
		t.Fatalf("expected ErrGenreNotFound, got %v", err)
	}
	if len(files.saves) != 0 {
		t.Fatal("nothing may be stored for an unknown genre")
	}
}

func TestContentCreateNamesFilesByTimestampAndSlot(t *testing.T) {
	now := time.Date(2026, 3, 14, 9, 0, 0, 0, time.UTC)
	contents := &fakeContentRepo{createResult: &domain.Content{ID: uuid.New()}}
	files := &fakeFileStore{}
	svc := newTestContentService(contents, &fakeGenreRepo{existsResult: true}, files, now)

	_, err := svc.Create(context.Background(), ContentCreateInput{
		Title:   "Deep Blue",
		Publish: domain.PublishPublic,
		GenreID: uuid.New(),
		Video:   videoUpload("clip.MP4"),
		Image:   pngUpload(t, "cover.PNG"),
	})
	if err != nil {
		t.Fatalf("create: %v", err)
	}

	ts := strconv.FormatInt(now.Unix(), 10)
	wantVideo := ts + "_content_video.mp4"
	wantImage := ts + "_content_image.png"
	if len(files.saves) != 2 {
		t.Fatalf("expected two stored files, got %d", len(files.saves))
	}
	if files.saves[0] != (storedFile{domain.AssetClassVideos, wantVideo}) {
		t.Fatalf("video stored as %+v, want %s in videos", files.saves[0], wantVideo)
	}
	if files.saves[1] != (storedFile{domain.AssetClassContents, wantImage}) {
		t.Fatalf("image stored as %+v, want %s in contents", files.saves[1], wantImage)
	}
	if contents.createInput.Video == nil || *contents.createInput.Video != wantVideo {
		t.Fatalf("record must reference the stored video name")
	}
}

func TestContentCreateCleansUpFilesWhenInsertFails(t *testing.T) {
	contents := &fakeContentRepo{createErr: errors.New("insert failed")}
	files := &fakeFileStore{}
	svc := newTestContentService(contents, &fakeGenreRepo{existsResult: true}, files, time.Now())

	_, err := svc.Create(context.Background(), ContentCreateInput{
		Title:   "Deep Blue",
		Publish: domain.PublishPublic,
		GenreID: uuid.New(),
		Video:   videoUpload("clip.mp4"),
		Image:   pngUpload(t, "cover.png"),
	})
	if err == nil {
		t.Fatal("expected insert failure to surface")
	}
	if len(files.removes) != 2 {
		t.Fatalf("expected both stored files removed, got %v", files.removes)
	}
}

func TestContentCreateRejectsNonImageUpload(t *testing.T) {
	files := &fakeFileStore{}
	svc := newTestContentService(&fakeContentRepo{}, &fakeGenreRepo{existsResult: true}, files, time.Now())

	garbage := []byte("definitely not an image")
	_, err := svc.Create(context.Background(), ContentCreateInput{
		Title:   "Deep Blue",
		Publish: domain.PublishPublic,
		GenreID: uuid.New(),
		Video:   videoUpload("clip.mp4"),
		Image: &AssetUpload{
			Reader:      bytes.NewReader(garbage),
			Size:        int64(len(garbage)),
			FileName:    "cover.png",
			ContentType: "image/png",
		},
	})
	if !errors.Is(err, ErrInvalidImage) {
		t.Fatalf("expected ErrInvalidImage, got %v", err)
	}
	if len(files.removes) != 1 {
		t.Fatal("the already-stored video must be cleaned up")
	}
}

func TestContentUpdateReplacingVideoDeletesOldFile(t *testing.T) {
	now := time.Date(2026, 3, 14, 9, 0, 0, 0, time.UTC)
	id := uuid.New()
	oldVideo := "1700000000_content_video.mp4"
	oldImage := "1700000000_content_image.png"
	contents := &fakeContentRepo{
		findByIDResult: &domain.Content{ID: id, Video: &oldVideo, Image: &oldImage},
		updateResult:   &domain.Content{ID: id},
	}
	files := &fakeFileStore{}
	svc := newTestContentService(contents, &fakeGenreRepo{existsResult: true}, files, now)

	_, err := svc.Update(context.Background(), id, ContentUpdateInput{Video: videoUpload("new.mp4")})
	if err != nil {
		t.Fatalf("update: %v", err)
	}
	if len(files.removes) != 1 || files.removes[0] != (storedFile{domain.AssetClassVideos, oldVideo}) {
		t.Fatalf("exactly the old video must be removed, got %v", files.removes)
	}
	if contents.updateInput.Image != nil {
		t.Fatal("an untouched slot must stay nil in the update")
	}
	if contents.updateInput.Video == nil {
		t.Fatal("the new video name must be part of the update")
	}
}

func TestContentUpdatePublishChangePreservesSchedule(t *testing.T) {
	id := uuid.New()
	contents := &fakeContentRepo{
		findByIDResult: &domain.Content{ID: id},
		updateResult:   &domain.Content{ID: id},
	}
	svc := newTestContentService(contents, &fakeGenreRepo{existsResult: true}, &fakeFileStore{}, time.Now())

	publish := domain.PublishPublic
	if _, err := svc.Update(context.Background(), id, ContentUpdateInput{Publish: &publish}); err != nil {
		t.Fatalf("update: %v", err)
	}
	if contents.updateInput.Schedule != nil {
		t.Fatal("switching to immediate publish must not touch the stored schedule")
	}
}

func TestContentUpdateToScheduleRequiresTimestamp(t *testing.T) {
	id := uuid.New()
	contents := &fakeContentRepo{findByIDResult: &domain.Content{ID: id}}
	svc := newTestContentService(contents, &fakeGenreRepo{existsResult: true}, &fakeFileStore{}, time.Now())

	publish := domain.PublishSchedule
	_, err := svc.Update(context.Background(), id, ContentUpdateInput{Publish: &publish})
	if !errors.Is(err, ErrScheduleRequired) {
		t.Fatalf("expected ErrScheduleRequired, got %v", err)
	}
}

func TestContentUpdateWithNoChangesSkipsWrite(t *testing.T) {
	id := uuid.New()
	current := &domain.Content{ID: id, Title: "Deep Blue"}
	contents := &fakeContentRepo{findByIDResult: current}
	svc := newTestContentService(contents, &fakeGenreRepo{existsResult: true}, &fakeFileStore{}, time.Now())

	got, err := svc.Update(context.Background(), id, ContentUpdateInput{})
	if err != nil {
		t.Fatalf("update: %v", err)
	}
	if contents.updateCalls != 0 {
		t.Fatal("an empty update must not touch the database")
	}
	if got != current {
		t.Fatal("an empty update must return the current row")
	}
}

func TestContentUpdateNotFound(t *testing.T) {
	contents := &fakeContentRepo{findByIDErr: sql.ErrNoRows}
	svc := newTestContentService(contents, &fakeGenreRepo{}, &fakeFileStore{}, time.Now())

	title := "New Title"
	_, err := svc.Update(context.Background(), uuid.New(), ContentUpdateInput{Title: &title})
	if !errors.Is(err, ErrContentNotFound) {
		t.Fatalf("expected ErrContentNotFound, got %v", err)
	}
}

func TestContentDeleteRemovesFilesThenRecord(t *testing.T) {
	id := uuid.New()
	video := "1700000000_content_video.mp4"
	image := "1700000000_content_image.png"
	contents := &fakeContentRepo{findByIDResult: &domain.Content{ID: id, Video: &video, Image: &image}}
	files := &fakeFileStore{}
	svc := newTestContentService(contents, &fakeGenreRepo{}, files, time.Now())

	if err := svc.Delete(context.Background(), id); err != nil {
		t.Fatalf("delete: %v", err)
	}
	want := []storedFile{
		{domain.AssetClassVideos, video},
		{domain.AssetClassContents, image},
	}
	if len(files.removes) != 2 || files.removes[0] != want[0] || files.removes[1] != want[1] {
		t.Fatalf("expected both files removed, got %v", files.removes)
	}
	if contents.deleteInput != id {
		t.Fatal("the record must be deleted as well")
	}
}

func TestContentDeleteWithNullFileReferences(t *testing.T) {
	id := uuid.New()
	contents := &fakeContentRepo{findByIDResult: &domain.Content{ID: id}}
	files := &fakeFileStore{}
	svc := newTestContentService(contents, &fakeGenreRepo{}, files, time.Now())

	if err := svc.Delete(context.Background(), id); err != nil {
		t.Fatalf("delete: %v", err)
	}
	if len(files.removes) != 0 {
		t.Fatalf("null references have nothing to remove, got %v", files.removes)
	}
	if contents.deleteInput != id {
		t.Fatal("the record must still be deleted")
	}
}

func TestContentDeleteNotFound(t *testing.T) {
	contents := &fakeContentRepo{findByIDErr: sql.ErrNoRows}
	svc := newTestContentService(contents, &fakeGenreRepo{}, &fakeFileStore{}, time.Now())

	if err := svc.Delete(context.Background(), uuid.New()); !errors.Is(err, ErrContentNotFound) {
		t.Fatalf("expected ErrContentNotFound, got %v", err)
	}
}

func TestContentListReturnsTotal(t *testing.T) {
	contents := &fakeContentRepo{
		listResult:  []domain.Content{{ID: uuid.New()}, {ID: uuid.New()}},
		countResult: 42,
	}
	svc := newTestContentService(contents, &fakeGenreRepo{}, &fakeFileStore{}, time.Now())

	items, total, err := svc.List(context.Background(), 10, 0)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(items) != 2 || total != 42 {
		t.Fatalf("got %d items, total %d", len(items), total)
	}
}
