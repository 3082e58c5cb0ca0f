package apperr

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"
)

// envelope is the JSON error payload returned by every endpoint.
type envelope struct {
	Error   string       `json:"error"`
	Details []FieldError `json:"details,omitempty"`
}

// HTTPErrorHandler maps the error taxonomy to HTTP responses:
// ValidationError and ConflictError → 400, NotFoundError → 404, anything
// else → 500 with the raw message. Store failures are logged; client errors
// are not.
func HTTPErrorHandler(logger zerolog.Logger) echo.HTTPErrorHandler {
	return func(err error, c echo.Context) {
		if c.Response().Committed {
			return
		}

		status := http.StatusInternalServerError
		env := envelope{Error: err.Error()}

		var (
			ve *ValidationError
			ce *ConflictError
			ne *NotFoundError
			he *echo.HTTPError
		)
		switch {
		case errors.As(err, &ve):
			status = http.StatusBadRequest
			env = envelope{Error: ve.Msg, Details: ve.Fields}
		case errors.As(err, &ce):
			status = http.StatusBadRequest
			env = envelope{Error: ce.Msg}
		case errors.As(err, &ne):
			status = http.StatusNotFound
			env = envelope{Error: ne.Error()}
		case errors.As(err, &he):
			status = he.Code
			env = envelope{Error: fmt.Sprintf("%v", he.Message)}
		default:
			logger.Error().
				Err(err).
				Str("path", c.Request().URL.Path).
				Msg("unhandled error")
		}

		var respErr error
		if c.Request().Method == http.MethodHead {
			respErr = c.NoContent(status)
		} else {
			respErr = c.JSON(status, env)
		}
		if respErr != nil {
			logger.Error().Err(respErr).Msg("failed to write error response")
		}
	}
}
