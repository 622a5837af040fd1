package api

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"

	"github.com/csemotors/dealership/internal/core/domain"
)

// NewHTTPErrorHandler returns an echo.HTTPErrorHandler that:
//   - Maps known domain errors to their appropriate HTTP status codes.
//   - Logs unexpected errors internally without leaking details to the client.
//   - Renders the site error page so visitors never see a raw stack or
//     JSON envelope.
func NewHTTPErrorHandler(log zerolog.Logger) echo.HTTPErrorHandler {
	return func(err error, c echo.Context) {
		if c.Response().Committed {
			return
		}

		code, msg := resolveError(err, log, c)

		data := map[string]interface{}{
			"Title":    fmt.Sprintf("%d %s", code, http.StatusText(code)),
			"Message":  msg,
			"Nav":      nil,
			"Notice":   "",
			"Identity": nil,
		}
		if renderErr := c.Render(code, "error.html", data); renderErr != nil {
			// Rendering itself failed; fall back to plain text.
			_ = c.String(code, msg)
		}
	}
}

func resolveError(err error, log zerolog.Logger, c echo.Context) (int, string) {
	// Echo's own errors (bind failures, 404 from router, etc.)
	var he *echo.HTTPError
	if errors.As(err, &he) {
		return he.Code, fmt.Sprintf("%v", he.Message)
	}

	// Known domain errors map to deterministic HTTP codes.
	switch {
	case errors.Is(err, domain.ErrVehicleNotFound):
		return http.StatusNotFound, "Sorry, we couldn't find that vehicle."
	case errors.Is(err, domain.ErrClassificationUnknown):
		return http.StatusNotFound, "Sorry, we couldn't find that classification."
	case errors.Is(err, domain.ErrAccountNotFound):
		return http.StatusNotFound, "Sorry, we couldn't find that account."
	case errors.Is(err, domain.ErrForbidden):
		return http.StatusForbidden, "You are not authorized to access that area."
	case errors.Is(err, domain.ErrInvalidCredentials):
		return http.StatusBadRequest, "Please check your credentials and try again."
	case errors.Is(err, domain.ErrEmailTaken):
		return http.StatusConflict, "That email address is already registered."
	case errors.Is(err, domain.ErrClassificationExists):
		return http.StatusConflict, "That classification already exists."
	}

	// Unexpected error: log the real cause, return a generic message.
	log.Error().
		Err(err).
		Str("method", c.Request().Method).
		Str("path", c.Path()).
		Msg("unhandled error")

	return http.StatusInternalServerError, "Oh no! There was a crash. Maybe try a different route?"
}
