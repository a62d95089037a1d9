package domain

import "time"

// Access types.
const (
	TipoIngreso = "ingreso"
	TipoSalida  = "salida"
)

// Acceso is one ingress/egress record.
type Acceso struct {
	ID            int       `json:"id"`
	Usuario       int       `json:"usuario"`
	Fecha         time.Time `json:"fecha"`
	Tipo          string    `json:"tipo"`
	Sede          string    `json:"sede,omitempty"`
	RegistradoPor *int      `json:"registrado_por,omitempty"`
	Turno         *int      `json:"turno,omitempty"`
	Equipos       []int     `json:"equipos,omitempty"`
}

// AprendizResumen is the learner summary attached to a document validation.
type AprendizResumen struct {
	ID        int    `json:"id"`
	Username  string `json:"username"`
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
	Documento string `json:"documento"`
}

// ValidacionDocumento is the result of POST /api/accesos/validar_documento/.
type ValidacionDocumento struct {
	Permitido        bool             `json:"permitido"`
	Motivo           string           `json:"motivo,omitempty"`
	Aprendiz         *AprendizResumen `json:"aprendiz,omitempty"`
	EquiposAprobados []Equipo         `json:"equipos_aprobados,omitempty"`
	Turno            *Turno           `json:"turno,omitempty"`
}

// StatsTurno is the envelope of GET /api/accesos/stats/.
type StatsTurno struct {
	Permitido bool          `json:"permitido"`
	Motivo    string        `json:"motivo,omitempty"`
	Turno     *Turno        `json:"turno,omitempty"`
	Stats     *ResumenTurno `json:"stats,omitempty"`
}

// EstadoAcceso is the learner's current in/out state from
// GET /api/accesos/estado/.
type EstadoAcceso struct {
	Dentro bool    `json:"dentro"`
	Ultimo *Acceso `json:"ultimo,omitempty"`
}

// AccesoFilter is the query surface of GET /api/accesos/. Zero values are
// omitted from the request.
type AccesoFilter struct {
	Q             string
	Tipo          string
	Sede          string
	Usuario       int
	RegistradoPor int
	DateFrom      string
	DateTo        string
	Page          int
	PageSize      int
}

// List is the canonical list shape every paginated endpoint is normalized
// into at the gateway boundary, whether the backend answered with a bare
// array or a {count,next,previous,results} envelope.
type List[T any] struct {
	Items []T
	Total int
}
