package rest

import (
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/daniilsolovey/newsfeed/internal/errors"
)

// Login handles POST /api/v1/login
// @Summary Log in
// @Description Exchanges credentials for a bearer token.
// @Tags auth
// @Accept json
// @Produce json
// @Param credentials body rest.LoginRequest true "Credentials"
// @Success 200 {object} rest.LoginResponse
// @Failure 400,401,429 {object} rest.ErrorResponse
// @Router /api/v1/login [post]
func (h *NewsHandler) Login(c echo.Context) error {
	var req LoginRequest
	if err := c.Bind(&req); err != nil {
		return errors.Validation("invalid request body")
	}
	if err := c.Validate(&req); err != nil {
		return err
	}

	session, err := h.gate.Login(req.Username, req.Password)
	if err != nil {
		h.log.Info("login rejected", "username", req.Username, "remote_addr", c.RealIP())
		return err
	}

	return c.JSON(http.StatusOK, NewLoginResponse(session))
}

// Health handles GET /health
// @Summary Health check
// @Tags health
// @Produce json
// @Success 200 {object} rest.HealthResponse
// @Router /health [get]
func (h *NewsHandler) Health(c echo.Context) error {
	return c.JSON(http.StatusOK, HealthResponse{
		Status:    "ok",
		Timestamp: time.Now().UTC(),
	})
}
