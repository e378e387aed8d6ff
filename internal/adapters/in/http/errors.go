package http

import (
	"errors"
	"log/slog"
	"net/http"

	"dispatch/internal/adapters/in/http/servers"
	"dispatch/internal/core/domain/model/order"
	"dispatch/internal/pkg/errs"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
)

// statusFor maps the error kinds of the dispatch core onto HTTP statuses.
func statusFor(err error) int {
	var (
		httpErr        *echo.HTTPError
		validationErrs validator.ValidationErrors
	)

	switch {
	case errors.As(err, &httpErr):
		return httpErr.Code
	case errors.Is(err, errs.ErrObjectNotFound):
		return http.StatusNotFound
	case errors.Is(err, errs.ErrInvalidStateTransition),
		errors.Is(err, errs.ErrConcurrentModification):
		return http.StatusConflict
	case errors.Is(err, order.ErrInvalidConfirmationCode):
		return http.StatusUnprocessableEntity
	case errors.As(err, &validationErrs),
		errors.Is(err, errs.ErrValueIsRequired),
		errors.Is(err, errs.ErrValueIsInvalid),
		errors.Is(err, errs.ErrValueIsOutOfRange):
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}

// ErrorHandler renders every error as servers.Error. Internal errors are
// logged and hidden from the client.
func ErrorHandler(logger *slog.Logger) echo.HTTPErrorHandler {
	return func(err error, c echo.Context) {
		if c.Response().Committed {
			return
		}

		code := statusFor(err)
		message := err.Error()

		var httpErr *echo.HTTPError
		if errors.As(err, &httpErr) {
			if m, ok := httpErr.Message.(string); ok {
				message = m
			} else {
				message = http.StatusText(code)
			}
		}

		if code >= http.StatusInternalServerError {
			logger.ErrorContext(c.Request().Context(), "request failed",
				"method", c.Request().Method,
				"path", c.Path(),
				"error", err,
			)
			message = http.StatusText(code)
		}

		if respErr := c.JSON(code, servers.Error{Code: code, Message: message}); respErr != nil {
			logger.WarnContext(c.Request().Context(), "failed to write error response", "error", respErr)
		}
	}
}
