package handler

import (
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"

	"github.com/accesosen/sadi-client/internal/api/middleware"
	"github.com/accesosen/sadi-client/internal/core/domain"
)

// DirectoryHandler exposes the admin CRUD surface for users and equipment,
// plus the learner's own equipment registration.
type DirectoryHandler struct {
	factory middleware.ClientFactory
}

func NewDirectoryHandler(factory middleware.ClientFactory) *DirectoryHandler {
	return &DirectoryHandler{factory: factory}
}

type usuarioRequest struct {
	Username          *string `json:"username"`
	Email             *string `json:"email" validate:"omitempty,email"`
	Password          *string `json:"password"`
	Rol               *string `json:"rol" validate:"omitempty,oneof=admin guarda aprendiz"`
	FirstName         *string `json:"first_name"`
	LastName          *string `json:"last_name"`
	Documento         *string `json:"documento"`
	SedePrincipal     *string `json:"sede_principal" validate:"omitempty,oneof=CEGAFE SANTA_CLARA ITEDRIS GASTRONOMIA"`
	ProgramaFormacion *string `json:"programa_formacion"`
	Estado            *string `json:"estado"`
}

func (r usuarioRequest) toInput() domain.UsuarioInput {
	return domain.UsuarioInput{
		Username:          r.Username,
		Email:             r.Email,
		Password:          r.Password,
		Rol:               r.Rol,
		FirstName:         r.FirstName,
		LastName:          r.LastName,
		Documento:         r.Documento,
		SedePrincipal:     r.SedePrincipal,
		ProgramaFormacion: r.ProgramaFormacion,
		Estado:            r.Estado,
	}
}

type equipoRequest struct {
	Serial string `json:"serial" validate:"required"`
	Marca  string `json:"marca"  validate:"required"`
	Modelo string `json:"modelo" validate:"required"`
}

type revisionRequest struct {
	Estado string `json:"estado" validate:"required,oneof=aprobado rechazado"`
	Motivo string `json:"motivo"`
}

// ListUsuarios returns a page of users.
//
// @Summary      List users
// @Tags         directorio
// @Produce      json
// @Param        q          query     string  false  "Free-text search"
// @Param        page       query     int     false  "Page number"
// @Param        page_size  query     int     false  "Page size"
// @Success      200  {object}  listResponse[domain.Usuario]
// @Router       /admin/usuarios [get]
func (h *DirectoryHandler) ListUsuarios(c echo.Context) error {
	clients := h.factory.ForRequest(c)
	out, err := clients.Directory.ListUsuarios(c.Request().Context(),
		c.QueryParam("q"), intParam(c, "page"), intParam(c, "page_size"))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, toListResponse(out))
}

// CreateUsuario creates a user.
//
// @Summary      Create user
// @Tags         directorio
// @Accept       json
// @Produce      json
// @Param        body  body      usuarioRequest  true  "User fields"
// @Success      201   {object}  domain.Usuario
// @Router       /admin/usuarios [post]
func (h *DirectoryHandler) CreateUsuario(c echo.Context) error {
	var req usuarioRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	clients := h.factory.ForRequest(c)
	out, err := clients.Directory.CreateUsuario(c.Request().Context(), req.toInput())
	if err != nil {
		return err
	}
	return c.JSON(http.StatusCreated, out)
}

// UpdateUsuario patches a user. Only the fields present in the payload are
// sent upstream.
//
// @Summary      Update user
// @Tags         directorio
// @Accept       json
// @Produce      json
// @Param        id    path      int             true  "User ID"
// @Param        body  body      usuarioRequest  true  "Changed fields"
// @Success      200   {object}  domain.Usuario
// @Router       /admin/usuarios/{id} [patch]
func (h *DirectoryHandler) UpdateUsuario(c echo.Context) error {
	id, err := pathID(c)
	if err != nil {
		return err
	}
	var req usuarioRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	clients := h.factory.ForRequest(c)
	out, err := clients.Directory.UpdateUsuario(c.Request().Context(), id, req.toInput())
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, out)
}

// DeleteUsuario removes a user.
//
// @Summary      Delete user
// @Tags         directorio
// @Param        id  path  int  true  "User ID"
// @Success      204
// @Router       /admin/usuarios/{id} [delete]
func (h *DirectoryHandler) DeleteUsuario(c echo.Context) error {
	id, err := pathID(c)
	if err != nil {
		return err
	}
	clients := h.factory.ForRequest(c)
	if err := clients.Directory.DeleteUsuario(c.Request().Context(), id); err != nil {
		return err
	}
	return c.NoContent(http.StatusNoContent)
}

// ListEquipos returns a page of equipment records.
//
// @Summary      List equipment
// @Tags         directorio
// @Produce      json
// @Param        q          query     string  false  "Free-text search"
// @Param        page       query     int     false  "Page number"
// @Param        page_size  query     int     false  "Page size"
// @Success      200  {object}  listResponse[domain.Equipo]
// @Router       /admin/equipos [get]
func (h *DirectoryHandler) ListEquipos(c echo.Context) error {
	clients := h.factory.ForRequest(c)
	out, err := clients.Directory.ListEquipos(c.Request().Context(),
		c.QueryParam("q"), intParam(c, "page"), intParam(c, "page_size"))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, toListResponse(out))
}

// CreateEquipo registers a device. Learners register their own; the backend
// binds ownership from the caller's identity.
//
// @Summary      Register equipment
// @Tags         directorio
// @Accept       json
// @Produce      json
// @Param        body  body      equipoRequest  true  "Device fields"
// @Success      201   {object}  domain.Equipo
// @Router       /aprendiz/equipos [post]
func (h *DirectoryHandler) CreateEquipo(c echo.Context) error {
	var req equipoRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	clients := h.factory.ForRequest(c)
	out, err := clients.Directory.CreateEquipo(c.Request().Context(), domain.EquipoInput{
		Serial: req.Serial,
		Marca:  req.Marca,
		Modelo: req.Modelo,
	})
	if err != nil {
		return err
	}
	return c.JSON(http.StatusCreated, out)
}

// UpdateEquipo patches a device.
//
// @Summary      Update equipment
// @Tags         directorio
// @Accept       json
// @Produce      json
// @Param        id    path      int            true  "Equipment ID"
// @Param        body  body      equipoRequest  true  "Device fields"
// @Success      200   {object}  domain.Equipo
// @Router       /admin/equipos/{id} [patch]
func (h *DirectoryHandler) UpdateEquipo(c echo.Context) error {
	id, err := pathID(c)
	if err != nil {
		return err
	}
	var req equipoRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	clients := h.factory.ForRequest(c)
	out, err := clients.Directory.UpdateEquipo(c.Request().Context(), id, domain.EquipoInput{
		Serial: req.Serial,
		Marca:  req.Marca,
		Modelo: req.Modelo,
	})
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, out)
}

// DeleteEquipo removes a device.
//
// @Summary      Delete equipment
// @Tags         directorio
// @Param        id  path  int  true  "Equipment ID"
// @Success      204
// @Router       /admin/equipos/{id} [delete]
func (h *DirectoryHandler) DeleteEquipo(c echo.Context) error {
	id, err := pathID(c)
	if err != nil {
		return err
	}
	clients := h.factory.ForRequest(c)
	if err := clients.Directory.DeleteEquipo(c.Request().Context(), id); err != nil {
		return err
	}
	return c.NoContent(http.StatusNoContent)
}

// RevisarEquipo approves or rejects a device.
//
// @Summary      Review equipment
// @Tags         directorio
// @Accept       json
// @Produce      json
// @Param        id    path      int              true  "Equipment ID"
// @Param        body  body      revisionRequest  true  "Verdict"
// @Success      200   {object}  domain.Equipo
// @Router       /admin/equipos/{id}/revisar [post]
func (h *DirectoryHandler) RevisarEquipo(c echo.Context) error {
	id, err := pathID(c)
	if err != nil {
		return err
	}
	var req revisionRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	clients := h.factory.ForRequest(c)
	out, err := clients.Directory.RevisarEquipo(c.Request().Context(), id, domain.RevisionInput{
		Estado: req.Estado,
		Motivo: req.Motivo,
	})
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, out)
}

// pathID parses the :id route param.
func pathID(c echo.Context) (int, error) {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil || id <= 0 {
		return 0, echo.NewHTTPError(http.StatusBadRequest, "invalid id")
	}
	return id, nil
}
