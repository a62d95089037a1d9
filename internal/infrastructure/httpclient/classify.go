package httpclient

import (
	"encoding/json"
	"net/http"
	"strings"

	"github.com/accesosen/sadi-client/internal/core/domain"
)

// classify maps a failed HTTP response to the closed error taxonomy. It runs
// once, here; nothing downstream inspects status codes or response bodies
// except the shift gateway's conflict special case, which reads the retained
// Body.
func classify(status int, path string, body []byte) *domain.APIError {
	switch {
	case status == http.StatusUnauthorized && strings.HasPrefix(path, tokenPath):
		return domain.NewAPIError(domain.KindBadCredentials, status, "usuario o contraseña incorrectos", body)
	case status == http.StatusUnauthorized:
		return domain.NewAPIError(domain.KindSessionExpired, status, "tu sesión expiró, inicia sesión de nuevo", body)
	case status == http.StatusForbidden:
		return domain.NewAPIError(domain.KindForbidden, status, "no tienes permiso para esta operación", body)
	case status == http.StatusNotFound:
		return domain.NewAPIError(domain.KindNotFound, status, "recurso no encontrado", body)
	case status == http.StatusBadRequest || status == http.StatusUnprocessableEntity:
		return domain.NewAPIError(domain.KindValidation, status, serverReason(body), body)
	case status >= 500:
		return domain.NewAPIError(domain.KindServerError, status, "error del servidor, intenta más tarde", body)
	default:
		return domain.NewAPIError(domain.KindGeneric, status, serverReason(body), body)
	}
}

// serverReason digs the user-displayable reason out of the backend's error
// body. The backend answers with {motivo} on domain envelopes and {detail}
// on DRF errors.
func serverReason(body []byte) string {
	var payload struct {
		Motivo string `json:"motivo"`
		Detail string `json:"detail"`
	}
	if err := json.Unmarshal(body, &payload); err == nil {
		if payload.Motivo != "" {
			return payload.Motivo
		}
		if payload.Detail != "" {
			return payload.Detail
		}
	}
	return "ocurrió un error"
}
