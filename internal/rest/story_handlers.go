package rest

import (
	"io"
	"log/slog"
	"mime/multipart"
	"net/http"
	"net/url"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/daniilsolovey/newsfeed/internal/auth"
	"github.com/daniilsolovey/newsfeed/internal/errors"
	"github.com/daniilsolovey/newsfeed/internal/feed"
	"github.com/daniilsolovey/newsfeed/internal/newsportal"
)

const imageField = "image"

type NewsHandler struct {
	uc   *newsportal.Manager
	gate *auth.Gate
	log  *slog.Logger
}

func NewNewsHandler(uc *newsportal.Manager, gate *auth.Gate, log *slog.Logger) *NewsHandler {
	return &NewsHandler{
		uc:   uc,
		gate: gate,
		log:  log,
	}
}

// Stories handles GET /api/v1/stories
// @Summary List stories
// @Description Returns stories newest first. search matches title or content case-insensitively; tags keeps stories carrying any of the comma separated tag ids.
// @Tags stories
// @Produce json
// @Param search query string false "Substring of title or content"
// @Param tags query string false "Comma separated tag ids"
// @Success 200 {array} rest.Story
// @Failure 400,500 {object} rest.ErrorResponse
// @Router /api/v1/stories [get]
func (h *NewsHandler) Stories(c echo.Context) error {
	var req StoriesRequest
	if err := c.Bind(&req); err != nil {
		return errors.Validation("invalid request parameters")
	}

	list, err := h.uc.Stories(c.Request().Context(), feed.Query{
		Search: req.Search,
		TagIDs: feed.ParseTagList(req.Tags),
	})
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, NewStories(list))
}

// StoryByID handles GET /api/v1/stories/:id
// @Summary Get story
// @Tags stories
// @Produce json
// @Param id path string true "Story id"
// @Success 200 {object} rest.Story
// @Failure 404,500 {object} rest.ErrorResponse
// @Router /api/v1/stories/{id} [get]
func (h *NewsHandler) StoryByID(c echo.Context) error {
	s, err := h.uc.StoryByID(c.Request().Context(), c.Param("id"))
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, NewStory(*s))
}

// CreateStory handles POST /api/v1/stories
// @Summary Create story
// @Description An uploaded image takes precedence over imageUrl.
// @Tags stories
// @Accept multipart/form-data
// @Produce json
// @Security BearerAuth
// @Param title formData string true "Title"
// @Param content formData string true "Content, paragraphs separated by line breaks"
// @Param image formData file false "Image file"
// @Param imageUrl formData string false "Absolute image URL"
// @Param website formData string false "Outbound link"
// @Param websiteButtonText formData string false "Outbound link label"
// @Param tags formData string false "Comma separated tag ids"
// @Success 201 {object} rest.Story
// @Failure 400,401,403,500 {object} rest.ErrorResponse
// @Router /api/v1/stories [post]
func (h *NewsHandler) CreateStory(c echo.Context) error {
	principal, ok := auth.PrincipalFrom(c)
	if !ok {
		return errors.Unauthorized("access token required")
	}

	img, err := imageUpload(c)
	if err != nil {
		return err
	}

	s, err := h.uc.CreateStory(c.Request().Context(), principal, newsportal.StoryInput{
		Title:             c.FormValue("title"),
		Content:           c.FormValue("content"),
		Image:             img,
		ImageURL:          c.FormValue("imageUrl"),
		Website:           c.FormValue("website"),
		WebsiteButtonText: c.FormValue("websiteButtonText"),
		Tags:              feed.ParseTagList(c.FormValue("tags")),
	})
	if err != nil {
		return err
	}

	return c.JSON(http.StatusCreated, NewStory(*s))
}

// UpdateStory handles PUT /api/v1/stories/:id
// @Summary Update story
// @Description Only the fields present in the form are changed. An empty imageUrl removes the image, an empty tags clears the tag set.
// @Tags stories
// @Accept multipart/form-data
// @Produce json
// @Security BearerAuth
// @Param id path string true "Story id"
// @Param title formData string false "Title"
// @Param content formData string false "Content"
// @Param image formData file false "Image file"
// @Param imageUrl formData string false "Absolute image URL"
// @Param website formData string false "Outbound link"
// @Param websiteButtonText formData string false "Outbound link label"
// @Param tags formData string false "Comma separated tag ids"
// @Success 200 {object} rest.Story
// @Failure 400,401,403,404,500 {object} rest.ErrorResponse
// @Router /api/v1/stories/{id} [put]
func (h *NewsHandler) UpdateStory(c echo.Context) error {
	form, err := c.FormParams()
	if err != nil {
		return errors.Validation("invalid form")
	}

	img, err := imageUpload(c)
	if err != nil {
		return err
	}

	patch := newsportal.StoryPatch{
		Title:             formField(form, "title"),
		Content:           formField(form, "content"),
		Image:             img,
		ImageURL:          formField(form, "imageUrl"),
		Website:           formField(form, "website"),
		WebsiteButtonText: formField(form, "websiteButtonText"),
	}
	if tags := formField(form, "tags"); tags != nil {
		patch.Tags = feed.ParseTagList(*tags)
	}

	s, err := h.uc.UpdateStory(c.Request().Context(), c.Param("id"), patch)
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, NewStory(*s))
}

// DeleteStory handles DELETE /api/v1/stories/:id
// @Summary Delete story
// @Tags stories
// @Produce json
// @Security BearerAuth
// @Param id path string true "Story id"
// @Success 200 {object} rest.DeletedResponse
// @Failure 401,403,404,500 {object} rest.ErrorResponse
// @Router /api/v1/stories/{id} [delete]
func (h *NewsHandler) DeleteStory(c echo.Context) error {
	id, err := h.uc.DeleteStory(c.Request().Context(), c.Param("id"))
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, DeletedResponse{ID: id})
}

// formField returns nil when key is absent from the form.
func formField(form url.Values, key string) *string {
	values, ok := form[key]
	if !ok {
		return nil
	}

	var v string
	if len(values) > 0 {
		v = values[0]
	}
	return &v
}

func imageUpload(c echo.Context) (*newsportal.ImageUpload, error) {
	fh, err := c.FormFile(imageField)
	if errors.Is(err, http.ErrMissingFile) || errors.Is(err, http.ErrNotMultipart) {
		return nil, nil
	} else if err != nil {
		return nil, errors.Validation("invalid image upload")
	}

	data, err := readFile(fh)
	if err != nil {
		return nil, errors.Validation("invalid image upload")
	}

	return &newsportal.ImageUpload{
		Filename: strings.TrimSpace(fh.Filename),
		Data:     data,
	}, nil
}

func readFile(fh *multipart.FileHeader) ([]byte, error) {
	f, err := fh.Open()
	if err != nil {
		return nil, err
	}
	defer f.Close()

	return io.ReadAll(f)
}
