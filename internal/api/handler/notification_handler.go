package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/accesosen/sadi-client/internal/api/middleware"
)

// NotificationHandler exposes the guard alert feed.
type NotificationHandler struct {
	factory middleware.ClientFactory
}

func NewNotificationHandler(factory middleware.ClientFactory) *NotificationHandler {
	return &NotificationHandler{factory: factory}
}

// List returns the caller's alerts.
//
// @Summary      List alerts
// @Tags         notificaciones
// @Produce      json
// @Success      200  {object}  listResponse[domain.Notificacion]
// @Router       /guardia/notificaciones [get]
func (h *NotificationHandler) List(c echo.Context) error {
	clients := h.factory.ForRequest(c)
	out, err := clients.Notifications.ListNotificaciones(c.Request().Context())
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, toListResponse(out))
}

// MarcarLeida marks one alert as read.
//
// @Summary      Mark alert read
// @Tags         notificaciones
// @Produce      json
// @Param        id  path      int  true  "Notification ID"
// @Success      200  {object}  domain.Notificacion
// @Router       /guardia/notificaciones/{id}/leer [patch]
func (h *NotificationHandler) MarcarLeida(c echo.Context) error {
	id, err := pathID(c)
	if err != nil {
		return err
	}
	clients := h.factory.ForRequest(c)
	out, err := clients.Notifications.MarcarLeida(c.Request().Context(), id)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, out)
}
