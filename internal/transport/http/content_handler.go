package http

import (
	"errors"
	"fmt"
	"mime/multipart"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"

	"github.com/streamnest/streamnest-backend/internal/domain"
	"github.com/streamnest/streamnest-backend/internal/service"
	"github.com/streamnest/streamnest-backend/internal/util"
)

// UploadLimits caps multipart file sizes per slot. Zero means unlimited.
type UploadLimits struct {
	VideoMaxBytes int64
	ImageMaxBytes int64
}

type ContentHandler struct {
	contents *service.ContentService
	limits   UploadLimits

	defaultPageSize int
}

func NewContentHandler(contents *service.ContentService, limits UploadLimits, defaultPageSize int) *ContentHandler {
	if defaultPageSize <= 0 {
		defaultPageSize = 10
	}
	return &ContentHandler{contents: contents, limits: limits, defaultPageSize: defaultPageSize}
}

// RegisterContents mounts the content routes under /api/v1/contents. Reads
// require a session; writes require the admin role.
func RegisterContents(e *echo.Echo, h *ContentHandler, auth *service.AuthService) {
	verifier := authVerifier{auth: auth}

	g := e.Group("/api/v1/contents", RequireAuth(verifier))
	g.GET("", h.List)
	g.GET("/:id", h.Get)

	admin := g.Group("", RequireAdmin())
	admin.POST("", h.Create)
	admin.PUT("/:id", h.Update)
	admin.DELETE("/:id", h.Delete)
}

// List godoc
// @Summary List content items
// @Tags contents
// @Produce json
// @Security BearerAuth
// @Param page query int false "page number, 1-based"
// @Param paginate_count query int false "items per page"
// @Success 200 {object} util.Envelope
// @Router /api/v1/contents [get]
func (h *ContentHandler) List(c echo.Context) error {
	page, perPage := pageParams(c, h.defaultPageSize)

	items, total, err := h.contents.List(c.Request().Context(), perPage, (page-1)*perPage)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, util.Failure("Something went wrong."))
	}
	return c.JSON(http.StatusOK, util.Success("OK", map[string]any{
		"items": items,
		"meta":  newListMeta(page, perPage, total),
	}))
}

// Get godoc
// @Summary Fetch a single content item
// @Tags contents
// @Produce json
// @Security BearerAuth
// @Param id path string true "content id"
// @Success 200 {object} util.Envelope
// @Router /api/v1/contents/{id} [get]
func (h *ContentHandler) Get(c echo.Context) error {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return c.JSON(http.StatusBadRequest, util.Failure("Invalid content id."))
	}

	item, err := h.contents.Get(c.Request().Context(), id)
	if err != nil {
		if errors.Is(err, service.ErrContentNotFound) {
			return c.JSON(http.StatusNotFound, util.Failure("Content not found."))
		}
		return c.JSON(http.StatusInternalServerError, util.Failure("Something went wrong."))
	}
	return c.JSON(http.StatusOK, util.Success("OK", item))
}

// Create godoc
// @Summary Create a content item
// @Tags contents
// @Accept multipart/form-data
// @Produce json
// @Security BearerAuth
// @Param title formData string true "title"
// @Param description formData string true "description"
// @Param publish formData string true "public, private or schedule"
// @Param schedule formData string false "RFC 3339 timestamp, required when publish=schedule"
// @Param genre_id formData string true "genre id"
// @Param video formData file false "video file"
// @Param image formData file false "cover image"
// @Success 201 {object} util.Envelope
// @Router /api/v1/contents [post]
func (h *ContentHandler) Create(c echo.Context) error {
	publish, err := domain.ParsePublishState(c.FormValue("publish"))
	if err != nil {
		return c.JSON(http.StatusBadRequest, util.Failure("Publish must be public, private or schedule."))
	}
	genreID, err := uuid.Parse(c.FormValue("genre_id"))
	if err != nil {
		return c.JSON(http.StatusBadRequest, util.Failure("Invalid genre id."))
	}
	title := strings.TrimSpace(c.FormValue("title"))
	if title == "" {
		return c.JSON(http.StatusBadRequest, util.Failure("Title is required."))
	}

	input := service.ContentCreateInput{
		Title:       title,
		Description: strings.TrimSpace(c.FormValue("description")),
		Publish:     publish,
		GenreID:     genreID,
	}
	if raw := strings.TrimSpace(c.FormValue("schedule")); raw != "" {
		t, err := time.Parse(time.RFC3339, raw)
		if err != nil {
			return c.JSON(http.StatusBadRequest, util.Failure("Schedule must be an RFC 3339 timestamp."))
		}
		input.Schedule = &t
	}

	video, err := formUpload(c, "video", h.limits.VideoMaxBytes)
	if err != nil {
		return c.JSON(http.StatusBadRequest, util.Failure(err.Error()))
	}
	if video != nil {
		defer video.close()
		input.Video = &video.upload
	}

	image, err := formUpload(c, "image", h.limits.ImageMaxBytes)
	if err != nil {
		return c.JSON(http.StatusBadRequest, util.Failure(err.Error()))
	}
	if image != nil {
		defer image.close()
		input.Image = &image.upload
	}

	item, err := h.contents.Create(c.Request().Context(), input)
	if err != nil {
		return h.writeError(c, err)
	}
	return c.JSON(http.StatusCreated, util.Success("Content created.", item))
}

// Update godoc
// @Summary Update a content item
// @Tags contents
// @Accept multipart/form-data
// @Produce json
// @Security BearerAuth
// @Param id path string true "content id"
// @Success 200 {object} util.Envelope
// @Router /api/v1/contents/{id} [put]
func (h *ContentHandler) Update(c echo.Context) error {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return c.JSON(http.StatusBadRequest, util.Failure("Invalid content id."))
	}

	var input service.ContentUpdateInput
	if v, ok := formValue(c, "title"); ok {
		if v = strings.TrimSpace(v); v == "" {
			return c.JSON(http.StatusBadRequest, util.Failure("Title cannot be empty."))
		}
		input.Title = &v
	}
	if v, ok := formValue(c, "description"); ok {
		v = strings.TrimSpace(v)
		input.Description = &v
	}
	if v, ok := formValue(c, "publish"); ok {
		publish, err := domain.ParsePublishState(v)
		if err != nil {
			return c.JSON(http.StatusBadRequest, util.Failure("Publish must be public, private or schedule."))
		}
		input.Publish = &publish
	}
	if v, ok := formValue(c, "schedule"); ok && strings.TrimSpace(v) != "" {
		t, err := time.Parse(time.RFC3339, strings.TrimSpace(v))
		if err != nil {
			return c.JSON(http.StatusBadRequest, util.Failure("Schedule must be an RFC 3339 timestamp."))
		}
		input.Schedule = &t
	}
	if v, ok := formValue(c, "genre_id"); ok {
		genreID, err := uuid.Parse(v)
		if err != nil {
			return c.JSON(http.StatusBadRequest, util.Failure("Invalid genre id."))
		}
		input.GenreID = &genreID
	}

	video, err := formUpload(c, "video", h.limits.VideoMaxBytes)
	if err != nil {
		return c.JSON(http.StatusBadRequest, util.Failure(err.Error()))
	}
	if video != nil {
		defer video.close()
		input.Video = &video.upload
	}
	image, err := formUpload(c, "image", h.limits.ImageMaxBytes)
	if err != nil {
		return c.JSON(http.StatusBadRequest, util.Failure(err.Error()))
	}
	if image != nil {
		defer image.close()
		input.Image = &image.upload
	}

	item, err := h.contents.Update(c.Request().Context(), id, input)
	if err != nil {
		return h.writeError(c, err)
	}
	return c.JSON(http.StatusOK, util.Success("Content updated.", item))
}

// Delete godoc
// @Summary Delete a content item and its stored files
// @Tags contents
// @Produce json
// @Security BearerAuth
// @Param id path string true "content id"
// @Success 200 {object} util.Envelope
// @Router /api/v1/contents/{id} [delete]
func (h *ContentHandler) Delete(c echo.Context) error {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return c.JSON(http.StatusBadRequest, util.Failure("Invalid content id."))
	}

	if err := h.contents.Delete(c.Request().Context(), id); err != nil {
		if errors.Is(err, service.ErrContentNotFound) {
			return c.JSON(http.StatusNotFound, util.Failure("Content not found."))
		}
		return c.JSON(http.StatusInternalServerError, util.Failure("Something went wrong."))
	}
	return c.JSON(http.StatusOK, util.Success("Content deleted.", nil))
}

func (h *ContentHandler) writeError(c echo.Context, err error) error {
	switch {
	case errors.Is(err, service.ErrContentNotFound):
		return c.JSON(http.StatusNotFound, util.Failure("Content not found."))
	case errors.Is(err, service.ErrGenreNotFound):
		return c.JSON(http.StatusNotFound, util.Failure("Genre not found."))
	case errors.Is(err, service.ErrScheduleRequired):
		return c.JSON(http.StatusBadRequest, util.Failure("A schedule timestamp is required for scheduled publish."))
	case errors.Is(err, service.ErrInvalidImage):
		return c.JSON(http.StatusBadRequest, util.Failure("The uploaded image is not a valid image file."))
	default:
		return c.JSON(http.StatusInternalServerError, util.Failure("Something went wrong."))
	}
}

// pageParams reads 1-based pagination from the query string, falling back to
// sane defaults on anything unparsable. Per-page is capped at 100.
func pageParams(c echo.Context, defaultPerPage int) (page, perPage int) {
	page = 1
	if raw := c.QueryParam("page"); raw != "" {
		if n, err := strconv.Atoi(raw); err == nil && n > 0 {
			page = n
		}
	}
	perPage = defaultPerPage
	if raw := c.QueryParam("paginate_count"); raw != "" {
		if n, err := strconv.Atoi(raw); err == nil && n > 0 && n <= 100 {
			perPage = n
		}
	}
	return page, perPage
}

type openedUpload struct {
	upload service.AssetUpload
	file   multipart.File
}

func (u *openedUpload) close() {
	if u.file != nil {
		u.file.Close()
	}
}

// formUpload opens the named multipart file if present. A missing file is not
// an error; the caller decides whether the slot is required.
func formUpload(c echo.Context, field string, maxBytes int64) (*openedUpload, error) {
	header, err := c.FormFile(field)
	if err != nil {
		if errors.Is(err, http.ErrMissingFile) || errors.Is(err, http.ErrNotMultipart) {
			return nil, nil
		}
		return nil, fmt.Errorf("invalid %s upload", field)
	}
	if maxBytes > 0 && header.Size > maxBytes {
		return nil, fmt.Errorf("%s exceeds the maximum size of %d bytes", field, maxBytes)
	}
	file, err := header.Open()
	if err != nil {
		return nil, fmt.Errorf("invalid %s upload", field)
	}
	return &openedUpload{
		upload: service.AssetUpload{
			Reader:      file,
			Size:        header.Size,
			FileName:    header.Filename,
			ContentType: header.Header.Get("Content-Type"),
		},
		file: file,
	}, nil
}

// formValue reports whether the field was present in the form at all, so
// partial updates can distinguish "unset" from "set to empty".
func formValue(c echo.Context, field string) (string, bool) {
	form, err := c.MultipartForm()
	if err == nil && form != nil {
		if vals, ok := form.Value[field]; ok && len(vals) > 0 {
			return vals[0], true
		}
		return "", false
	}
	if params, err := c.FormParams(); err == nil {
		if vals, ok := params[field]; ok && len(vals) > 0 {
			return vals[0], true
		}
	}
	return "", false
}
