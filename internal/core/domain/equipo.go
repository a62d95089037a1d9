package domain

// Equipment review states.
const (
	EquipoPendiente = "pendiente"
	EquipoAprobado  = "aprobado"
	EquipoRechazado = "rechazado"
)

// Equipo is a learner-owned device tracked by the access system.
type Equipo struct {
	ID          int    `json:"id"`
	Propietario int    `json:"propietario,omitempty"`
	Serial      string `json:"serial"`
	Marca       string `json:"marca"`
	Modelo      string `json:"modelo"`
	Estado      string `json:"estado,omitempty"`
}

// EquipoInput is the create/update payload for /api/equipos/.
type EquipoInput struct {
	Serial string `json:"serial"`
	Marca  string `json:"marca"`
	Modelo string `json:"modelo"`
}

// RevisionInput is the payload of POST /api/equipos/{id}/revisar/.
type RevisionInput struct {
	Estado string `json:"estado"`
	Motivo string `json:"motivo,omitempty"`
}

// UsuarioInput is the create/update payload for /api/usuarios/. Pointer
// fields are omitted when nil so PATCH sends only the changed columns.
type UsuarioInput struct {
	Username          *string `json:"username,omitempty"`
	Email             *string `json:"email,omitempty"`
	Password          *string `json:"password,omitempty"`
	Rol               *string `json:"rol,omitempty"`
	FirstName         *string `json:"first_name,omitempty"`
	LastName          *string `json:"last_name,omitempty"`
	Documento         *string `json:"documento,omitempty"`
	SedePrincipal     *string `json:"sede_principal,omitempty"`
	ProgramaFormacion *string `json:"programa_formacion,omitempty"`
	Estado            *string `json:"estado,omitempty"`
}
