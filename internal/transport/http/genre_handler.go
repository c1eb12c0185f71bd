package http

import (
	"errors"
	"net/http"
	"net/url"
	"strings"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"

	"github.com/streamnest/streamnest-backend/internal/service"
	"github.com/streamnest/streamnest-backend/internal/util"
)

type GenreHandler struct {
	genres *service.GenreService
	limits UploadLimits

	defaultPageSize int
}

func NewGenreHandler(genres *service.GenreService, limits UploadLimits, defaultPageSize int) *GenreHandler {
	if defaultPageSize <= 0 {
		defaultPageSize = 10
	}
	return &GenreHandler{genres: genres, limits: limits, defaultPageSize: defaultPageSize}
}

// RegisterGenres mounts the genre routes under /api/v1/genres. Reads require
// a session; writes require the admin role.
func RegisterGenres(e *echo.Echo, h *GenreHandler, auth *service.AuthService) {
	verifier := authVerifier{auth: auth}

	g := e.Group("/api/v1/genres", RequireAuth(verifier))
	g.GET("", h.List)
	g.GET("/:id", h.Get)

	admin := g.Group("", RequireAdmin())
	admin.POST("", h.Create)
	admin.PUT("/:id", h.Update)
	admin.DELETE("/:id", h.Delete)
}

// List godoc
// @Summary List genres with their content counts
// @Tags genres
// @Produce json
// @Security BearerAuth
// @Param page query int false "page number, 1-based"
// @Param paginate_count query int false "items per page"
// @Success 200 {object} util.Envelope
// @Router /api/v1/genres [get]
func (h *GenreHandler) List(c echo.Context) error {
	page, perPage := pageParams(c, h.defaultPageSize)

	genres, total, err := h.genres.List(c.Request().Context(), perPage, (page-1)*perPage)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, util.Failure("Something went wrong."))
	}
	return c.JSON(http.StatusOK, util.Success("OK", map[string]any{
		"items": genres,
		"meta":  newListMeta(page, perPage, total),
	}))
}

// Get godoc
// @Summary Fetch a single genre
// @Tags genres
// @Produce json
// @Security BearerAuth
// @Param id path string true "genre id"
// @Success 200 {object} util.Envelope
// @Router /api/v1/genres/{id} [get]
func (h *GenreHandler) Get(c echo.Context) error {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return c.JSON(http.StatusBadRequest, util.Failure("Invalid genre id."))
	}

	genre, err := h.genres.Get(c.Request().Context(), id)
	if err != nil {
		if errors.Is(err, service.ErrGenreNotFound) {
			return c.JSON(http.StatusNotFound, util.Failure("Genre not found."))
		}
		return c.JSON(http.StatusInternalServerError, util.Failure("Something went wrong."))
	}
	return c.JSON(http.StatusOK, util.Success("OK", genre))
}

// Create godoc
// @Summary Create a genre
// @Tags genres
// @Accept multipart/form-data
// @Produce json
// @Security BearerAuth
// @Param name formData string true "genre name"
// @Param thumbnail formData file false "thumbnail image"
// @Success 201 {object} util.Envelope
// @Router /api/v1/genres [post]
func (h *GenreHandler) Create(c echo.Context) error {
	name := strings.TrimSpace(c.FormValue("name"))
	if name == "" {
		return c.JSON(http.StatusBadRequest, util.Failure("Name is required."))
	}

	thumbnail, err := formUpload(c, "thumbnail", h.limits.ImageMaxBytes)
	if err != nil {
		return c.JSON(http.StatusBadRequest, util.Failure(err.Error()))
	}
	var upload *service.AssetUpload
	if thumbnail != nil {
		defer thumbnail.close()
		upload = &thumbnail.upload
	}

	genre, err := h.genres.Create(c.Request().Context(), name, upload)
	if err != nil {
		if errors.Is(err, service.ErrInvalidImage) {
			return c.JSON(http.StatusBadRequest, util.Failure("The uploaded thumbnail is not a valid image file."))
		}
		return c.JSON(http.StatusInternalServerError, util.Failure("Something went wrong."))
	}
	return c.JSON(http.StatusCreated, util.Success("Genre created.", genre))
}

// Update godoc
// @Summary Update a genre
// @Description Updates accept a thumbnail URL only, never a file upload.
// @Tags genres
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path string true "genre id"
// @Param request body genreUpdateRequest true "fields to change"
// @Success 200 {object} util.Envelope
// @Router /api/v1/genres/{id} [put]
func (h *GenreHandler) Update(c echo.Context) error {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return c.JSON(http.StatusBadRequest, util.Failure("Invalid genre id."))
	}

	var req genreUpdateRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, util.Failure("Invalid request body."))
	}

	var input service.GenreUpdateInput
	if req.Name != nil {
		name := strings.TrimSpace(*req.Name)
		if name == "" {
			return c.JSON(http.StatusBadRequest, util.Failure("Name cannot be empty."))
		}
		input.Name = &name
	}
	if req.Thumbnail != nil {
		if !isHTTPURL(*req.Thumbnail) {
			return c.JSON(http.StatusBadRequest, util.Failure("Thumbnail must be an http or https URL."))
		}
		input.ThumbnailURL = req.Thumbnail
	}

	genre, err := h.genres.Update(c.Request().Context(), id, input)
	if err != nil {
		if errors.Is(err, service.ErrGenreNotFound) {
			return c.JSON(http.StatusNotFound, util.Failure("Genre not found."))
		}
		return c.JSON(http.StatusInternalServerError, util.Failure("Something went wrong."))
	}
	return c.JSON(http.StatusOK, util.Success("Genre updated.", genre))
}

// Delete godoc
// @Summary Delete a genre and its stored thumbnail
// @Tags genres
// @Produce json
// @Security BearerAuth
// @Param id path string true "genre id"
// @Success 200 {object} util.Envelope
// @Router /api/v1/genres/{id} [delete]
func (h *GenreHandler) Delete(c echo.Context) error {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return c.JSON(http.StatusBadRequest, util.Failure("Invalid genre id."))
	}

	if err := h.genres.Delete(c.Request().Context(), id); err != nil {
		if errors.Is(err, service.ErrGenreNotFound) {
			return c.JSON(http.StatusNotFound, util.Failure("Genre not found."))
		}
		return c.JSON(http.StatusInternalServerError, util.Failure("Something went wrong."))
	}
	return c.JSON(http.StatusOK, util.Success("Genre deleted.", nil))
}

func isHTTPURL(raw string) bool {
	u, err := url.ParseRequestURI(raw)
	if err != nil {
		return false
	}
	return (u.Scheme == "http" || u.Scheme == "https") && u.Host != ""
}
