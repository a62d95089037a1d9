package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/accesosen/sadi-client/internal/api/middleware"
	"github.com/accesosen/sadi-client/internal/core/domain"
)

// ShiftHandler exposes the turno endpoints that fall outside the session
// flow: the post-shift summary and the admin force-finish.
type ShiftHandler struct {
	factory middleware.ClientFactory
}

func NewShiftHandler(factory middleware.ClientFactory) *ShiftHandler {
	return &ShiftHandler{factory: factory}
}

// Resumen returns the ingress/egress counters of a finished shift.
//
// @Summary      Shift summary
// @Tags         turnos
// @Produce      json
// @Param        id  path      int  true  "Shift ID"
// @Success      200  {object}  domain.ResumenResponse
// @Router       /guardia/turnos/{id}/resumen [get]
func (h *ShiftHandler) Resumen(c echo.Context) error {
	id, err := pathID(c)
	if err != nil {
		return err
	}
	clients := h.factory.ForRequest(c)
	out, err := clients.Shifts.ResumenTurno(c.Request().Context(), id)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, out)
}

// ListTurnos returns shifts filtered by sede, jornada, and activity. Admin
// only.
//
// @Summary      List shifts
// @Tags         turnos
// @Produce      json
// @Param        sede     query     string  false  "Sede code"
// @Param        jornada  query     string  false  "MANANA, TARDE, or NOCHE"
// @Param        activo   query     string  false  "true or false"
// @Success      200  {object}  listResponse[domain.Turno]
// @Router       /admin/turnos [get]
func (h *ShiftHandler) ListTurnos(c echo.Context) error {
	filter := domain.TurnoFilter{
		Sede:    c.QueryParam("sede"),
		Jornada: c.QueryParam("jornada"),
	}
	switch c.QueryParam("activo") {
	case "true":
		v := true
		filter.Activo = &v
	case "false":
		v := false
		filter.Activo = &v
	}

	clients := h.factory.ForRequest(c)
	out, err := clients.Shifts.ListTurnos(c.Request().Context(), filter)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, toListResponse(out))
}

// FinalizarAdmin force-finishes another guard's shift.
//
// @Summary      Force-finish shift
// @Tags         turnos
// @Produce      json
// @Param        id  path      int  true  "Shift ID"
// @Success      200  {object}  domain.TurnoResponse
// @Router       /admin/turnos/{id}/finalizar [post]
func (h *ShiftHandler) FinalizarAdmin(c echo.Context) error {
	id, err := pathID(c)
	if err != nil {
		return err
	}
	clients := h.factory.ForRequest(c)
	out, err := clients.Shifts.FinalizarAdmin(c.Request().Context(), id)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, out)
}
