package rest

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/daniilsolovey/newsfeed/internal/errors"
)

// Tags handles GET /api/v1/tags
// @Summary List tags
// @Description Returns all tags ordered by name.
// @Tags tags
// @Produce json
// @Success 200 {array} rest.Tag
// @Failure 500 {object} rest.ErrorResponse
// @Router /api/v1/tags [get]
func (h *NewsHandler) Tags(c echo.Context) error {
	list, err := h.uc.Tags(c.Request().Context())
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, NewTags(list))
}

// CreateTag handles POST /api/v1/tags
// @Summary Create tag
// @Tags tags
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param tag body rest.TagRequest true "Tag"
// @Success 201 {object} rest.Tag
// @Failure 400,401,403,409,500 {object} rest.ErrorResponse
// @Router /api/v1/tags [post]
func (h *NewsHandler) CreateTag(c echo.Context) error {
	var req TagRequest
	if err := c.Bind(&req); err != nil {
		return errors.Validation("invalid request body")
	}
	if err := c.Validate(&req); err != nil {
		return err
	}

	tag, err := h.uc.CreateTag(c.Request().Context(), req.Name, req.Color)
	if err != nil {
		return err
	}

	return c.JSON(http.StatusCreated, NewTag(*tag))
}

// DeleteTag handles DELETE /api/v1/tags/:id
// @Summary Delete tag
// @Description Removes the tag and strips it from every story.
// @Tags tags
// @Produce json
// @Security BearerAuth
// @Param id path string true "Tag id"
// @Success 200 {object} rest.DeletedResponse
// @Failure 401,403,404,500 {object} rest.ErrorResponse
// @Router /api/v1/tags/{id} [delete]
func (h *NewsHandler) DeleteTag(c echo.Context) error {
	id, err := h.uc.DeleteTag(c.Request().Context(), c.Param("id"))
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, DeletedResponse{ID: id})
}
