package handler

import (
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"

	"github.com/accesosen/sadi-client/internal/api/middleware"
	"github.com/accesosen/sadi-client/internal/core/domain"
)

// AccessHandler exposes the access registration and query endpoints: the
// guard terminal flow, the admin listing, and the learner's own records.
type AccessHandler struct {
	factory middleware.ClientFactory
}

func NewAccessHandler(factory middleware.ClientFactory) *AccessHandler {
	return &AccessHandler{factory: factory}
}

type validateRequest struct {
	Documento string `json:"documento" validate:"required"`
}

type registerRequest struct {
	Documento string `json:"documento" validate:"required"`
	Tipo      string `json:"tipo"      validate:"required,oneof=ingreso salida"`
	Equipos   []int  `json:"equipos"`
}

type listResponse[T any] struct {
	Items []T `json:"items"`
	Total int `json:"total"`
}

func toListResponse[T any](l domain.List[T]) listResponse[T] {
	if l.Items == nil {
		l.Items = []T{}
	}
	return listResponse[T]{Items: l.Items, Total: l.Total}
}

// Validate checks whether the document's owner may pass right now.
//
// @Summary      Validate document
// @Tags         accesos
// @Accept       json
// @Produce      json
// @Param        body  body      validateRequest  true  "Learner document number"
// @Success      200   {object}  domain.ValidacionDocumento
// @Router       /guardia/accesos/validar [post]
func (h *AccessHandler) Validate(c echo.Context) error {
	var req validateRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	clients := h.factory.ForRequest(c)
	out, err := clients.Access.ValidarDocumento(c.Request().Context(), req.Documento)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, out)
}

// Register records an ingress or egress for the document's owner.
//
// @Summary      Register access
// @Tags         accesos
// @Accept       json
// @Produce      json
// @Param        body  body      registerRequest  true  "Document, direction, and device IDs carried through the gate"
// @Success      200   {object}  domain.ValidacionDocumento
// @Router       /guardia/accesos/registrar [post]
func (h *AccessHandler) Register(c echo.Context) error {
	var req registerRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	clients := h.factory.ForRequest(c)
	out, err := clients.Access.RegistrarPorDocumento(c.Request().Context(), req.Documento, req.Tipo, req.Equipos)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, out)
}

// Stats returns the live counters for the guard's active shift.
//
// @Summary      Shift stats
// @Tags         accesos
// @Produce      json
// @Success      200  {object}  domain.StatsTurno
// @Router       /guardia/accesos/stats [get]
func (h *AccessHandler) Stats(c echo.Context) error {
	clients := h.factory.ForRequest(c)
	out, err := clients.Access.Stats(c.Request().Context())
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, out)
}

// List returns access records filtered by the query string. Admin only.
//
// @Summary      List accesses
// @Tags         accesos
// @Produce      json
// @Param        q               query     string  false  "Free-text search"
// @Param        tipo            query     string  false  "ingreso or salida"
// @Param        sede            query     string  false  "Sede code"
// @Param        usuario         query     int     false  "Learner ID"
// @Param        registrado_por  query     int     false  "Guard ID"
// @Param        date_from       query     string  false  "ISO date lower bound"
// @Param        date_to         query     string  false  "ISO date upper bound"
// @Param        page            query     int     false  "Page number"
// @Param        page_size       query     int     false  "Page size"
// @Success      200  {object}  listResponse[domain.Acceso]
// @Router       /admin/accesos [get]
func (h *AccessHandler) List(c echo.Context) error {
	filter := domain.AccesoFilter{
		Q:             c.QueryParam("q"),
		Tipo:          c.QueryParam("tipo"),
		Sede:          c.QueryParam("sede"),
		Usuario:       intParam(c, "usuario"),
		RegistradoPor: intParam(c, "registrado_por"),
		DateFrom:      c.QueryParam("date_from"),
		DateTo:        c.QueryParam("date_to"),
		Page:          intParam(c, "page"),
		PageSize:      intParam(c, "page_size"),
	}

	clients := h.factory.ForRequest(c)
	out, err := clients.Access.List(c.Request().Context(), filter)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, toListResponse(out))
}

// MisAccesos returns the signed-in learner's own records.
//
// @Summary      My accesses
// @Tags         accesos
// @Produce      json
// @Success      200  {object}  listResponse[domain.Acceso]
// @Router       /aprendiz/accesos [get]
func (h *AccessHandler) MisAccesos(c echo.Context) error {
	clients := h.factory.ForRequest(c)
	out, err := clients.Access.MisAccesos(c.Request().Context())
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, toListResponse(out))
}

// Estado returns whether the signed-in learner is currently inside.
//
// @Summary      Access state
// @Tags         accesos
// @Produce      json
// @Success      200  {object}  domain.EstadoAcceso
// @Router       /aprendiz/estado [get]
func (h *AccessHandler) Estado(c echo.Context) error {
	clients := h.factory.ForRequest(c)
	out, err := clients.Access.Estado(c.Request().Context())
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, out)
}

// intParam parses an integer query param, treating absence or garbage as 0.
func intParam(c echo.Context, name string) int {
	n, _ := strconv.Atoi(c.QueryParam(name))
	return n
}
