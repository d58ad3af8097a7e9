package httpserver

import (
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"sort"
	"time"

	validation "github.com/go-ozzo/ozzo-validation"
	"github.com/labstack/echo/v4"

	"github.com/Grzafnan/nest-server/internal/apperror"
)

type errorMessage struct {
	Path    string `json:"path"`
	Message string `json:"message"`
}

type errorEnvelope struct {
	Success    bool           `json:"success"`
	StatusCode int            `json:"statusCode"`
	Message    string         `json:"message"`
	Error      []errorMessage `json:"error"`
	Path       string         `json:"path"`
	Timestamp  string         `json:"timestamp"`
}

// ErrorHandler is the single boundary translator: every error escaping a
// handler becomes the uniform JSON envelope, never a raw stack trace.
func ErrorHandler(log *slog.Logger) echo.HTTPErrorHandler {
	return func(err error, c echo.Context) {
		if c.Response().Committed {
			return
		}

		statusCode := http.StatusInternalServerError
		message := "Something went wrong!"
		var msgs []errorMessage

		var validationErrs validation.Errors
		var apiErr *apperror.ApiError
		var httpErr *echo.HTTPError

		switch {
		case errors.As(err, &validationErrs):
			statusCode = http.StatusBadRequest
			message = "Validation Error"
			fields := make([]string, 0, len(validationErrs))
			for field := range validationErrs {
				fields = append(fields, field)
			}
			sort.Strings(fields)
			for _, field := range fields {
				msgs = append(msgs, errorMessage{Path: field, Message: validationErrs[field].Error()})
			}
		case errors.As(err, &apiErr):
			statusCode = apiErr.StatusCode
			message = apiErr.Message
			msgs = []errorMessage{{Path: "", Message: message}}
		case errors.As(err, &httpErr):
			statusCode = httpErr.Code
			message = fmt.Sprintf("%v", httpErr.Message)
			msgs = []errorMessage{{Path: "", Message: message}}
		default:
			log.Error("unhandled_error", "error", err, "path", c.Request().URL.Path)
			msgs = []errorMessage{{Path: "", Message: message}}
		}

		envelope := errorEnvelope{
			Success:    false,
			StatusCode: statusCode,
			Message:    message,
			Error:      msgs,
			Path:       c.Request().URL.Path,
			Timestamp:  time.Now().UTC().Format(time.RFC3339),
		}

		if c.Request().Method == http.MethodHead {
			if err := c.NoContent(statusCode); err != nil {
				log.Error("error_response_failed", "error", err)
			}
			return
		}
		if err := c.JSON(statusCode, envelope); err != nil {
			log.Error("error_response_failed", "error", err)
		}
	}
}
