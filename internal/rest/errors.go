package rest

import (
	"fmt"
	"log/slog"
	"net/http"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"

	"github.com/daniilsolovey/newsfeed/internal/errors"
)

// requestValidator plugs validator/v10 into echo.Context.Validate and reports failures
// as validation errors naming the offending fields.
type requestValidator struct {
	v *validator.Validate
}

func newRequestValidator() *requestValidator {
	return &requestValidator{v: validator.New(validator.WithRequiredStructEnabled())}
}

func (rv *requestValidator) Validate(i any) error {
	err := rv.v.Struct(i)
	if err == nil {
		return nil
	}

	var fieldErrs validator.ValidationErrors
	if !errors.As(err, &fieldErrs) {
		return errors.Validation("invalid request")
	}

	fields := make([]string, 0, len(fieldErrs))
	for _, fe := range fieldErrs {
		fields = append(fields, fmt.Sprintf("%s is %s", strings.ToLower(fe.Field()), describeTag(fe.Tag())))
	}

	return errors.Validation(strings.Join(fields, ", "))
}

func describeTag(tag string) string {
	switch tag {
	case "required":
		return "required"
	case "max":
		return "too long"
	default:
		return "invalid"
	}
}

// errorHandler renders every error as {"error": message}. Domain errors keep their
// message; anything else becomes "internal error" and is logged.
func errorHandler(log *slog.Logger) echo.HTTPErrorHandler {
	return func(err error, c echo.Context) {
		if c.Response().Committed {
			return
		}

		status, message := http.StatusInternalServerError, "internal error"

		var domainErr *errors.Error
		var httpErr *echo.HTTPError
		switch {
		case errors.As(err, &domainErr):
			status, message = domainErr.HTTPStatus(), domainErr.Message
			if status >= http.StatusInternalServerError {
				log.Error("request failed", "path", c.Request().URL.Path, "error", err)
			}
		case errors.As(err, &httpErr):
			status = httpErr.Code
			if m, ok := httpErr.Message.(string); ok {
				message = m
			} else {
				message = http.StatusText(status)
			}
		default:
			log.Error("request failed", "path", c.Request().URL.Path, "error", err)
		}

		if c.Request().Method == http.MethodHead {
			err = c.NoContent(status)
		} else {
			err = c.JSON(status, ErrorResponse{Error: message})
		}
		if err != nil {
			log.Error("failed to write error response", "error", err)
		}
	}
}
