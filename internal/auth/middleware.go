package auth

import (
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/daniilsolovey/newsfeed/internal/domain"
	"github.com/daniilsolovey/newsfeed/internal/errors"
)

const principalKey = "newsfeed.principal"

// RequireAuth rejects requests without a valid bearer token and stores the principal
// on the echo context.
func (g *Gate) RequireAuth() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			p, err := g.Verify(bearerToken(c.Request().Header.Get(echo.HeaderAuthorization)))
			if err != nil {
				return err
			}

			c.Set(principalKey, p)
			return next(c)
		}
	}
}

// RequireAdmin must run after RequireAuth.
func RequireAdmin() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			p, ok := PrincipalFrom(c)
			if !ok {
				return errors.Unauthorized("access token required")
			}
			if !p.IsAdmin() {
				return errors.Forbidden("admin access required")
			}
			return next(c)
		}
	}
}

func PrincipalFrom(c echo.Context) (domain.Principal, bool) {
	p, ok := c.Get(principalKey).(domain.Principal)
	return p, ok
}

func bearerToken(header string) string {
	scheme, token, ok := strings.Cut(strings.TrimSpace(header), " ")
	if !ok || !strings.EqualFold(scheme, "Bearer") {
		return ""
	}
	return strings.TrimSpace(token)
}
