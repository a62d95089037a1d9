package api

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"

	"github.com/accesosen/sadi-client/internal/core/domain"
)

// errorResponse is the canonical error envelope for all BFF errors.
type errorResponse struct {
	Error string `json:"error"`
	Kind  string `json:"kind,omitempty"`
}

// NewHTTPErrorHandler returns an echo.HTTPErrorHandler that:
//   - Maps classified backend errors to appropriate HTTP status codes.
//   - Logs unexpected errors internally without leaking details to the client.
//   - Renders a consistent JSON envelope: {"error": "<message>", "kind": "<kind>"}.
func NewHTTPErrorHandler(log zerolog.Logger) echo.HTTPErrorHandler {
	return func(err error, c echo.Context) {
		if c.Response().Committed {
			return
		}

		code, body := resolveError(err, log, c)
		_ = c.JSON(code, body)
	}
}

func resolveError(err error, log zerolog.Logger, c echo.Context) (int, errorResponse) {
	// Echo's own errors (bind failures, 404 from router, etc.)
	var he *echo.HTTPError
	if errors.As(err, &he) {
		return he.Code, errorResponse{Error: fmt.Sprintf("%v", he.Message)}
	}

	// Classified backend errors keep their kind so the browser can branch.
	var ae *domain.APIError
	if errors.As(err, &ae) {
		return kindStatus(ae.Kind), errorResponse{Error: ae.Message, Kind: string(ae.Kind)}
	}

	var denied *domain.ErrNotPermitted
	switch {
	case errors.As(err, &denied):
		return http.StatusForbidden, errorResponse{Error: denied.Error()}
	case errors.Is(err, domain.ErrRoleMismatch):
		return http.StatusForbidden, errorResponse{Error: err.Error()}
	case errors.Is(err, domain.ErrMissingShiftFields):
		return http.StatusBadRequest, errorResponse{Error: err.Error()}
	}

	// Unexpected error: log the real cause, return a generic message.
	log.Error().
		Err(err).
		Str("method", c.Request().Method).
		Str("path", c.Path()).
		Msg("unhandled error")

	return http.StatusInternalServerError, errorResponse{Error: "internal server error"}
}

func kindStatus(kind domain.ErrorKind) int {
	switch kind {
	case domain.KindBadCredentials, domain.KindSessionExpired:
		return http.StatusUnauthorized
	case domain.KindForbidden:
		return http.StatusForbidden
	case domain.KindNotFound:
		return http.StatusNotFound
	case domain.KindValidation:
		return http.StatusBadRequest
	case domain.KindNetwork, domain.KindTimeout:
		return http.StatusBadGateway
	case domain.KindServerError:
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}
