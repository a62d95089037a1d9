package domain

import "time"

// Sede wire values.
const (
	SedeCegafe      = "CEGAFE"
	SedeSantaClara  = "SANTA_CLARA"
	SedeItedris     = "ITEDRIS"
	SedeGastronomia = "GASTRONOMIA"
)

// Jornada wire values.
const (
	JornadaManana = "MANANA"
	JornadaTarde  = "TARDE"
	JornadaNoche  = "NOCHE"
)

// Turno is a guard's bounded work period at a site. Only meaningful for
// guard-role identities; a guard has at most one active shift at a time
// (server-enforced).
type Turno struct {
	ID      int        `json:"id"`
	Guarda  int        `json:"guarda"`
	Sede    string     `json:"sede"`
	Jornada string     `json:"jornada"`
	Inicio  time.Time  `json:"inicio"`
	Fin     *time.Time `json:"fin,omitempty"`
	Activo  bool       `json:"activo"`
}

// TurnoResponse is the envelope of the turno mutation endpoints.
type TurnoResponse struct {
	Permitido bool   `json:"permitido"`
	Motivo    string `json:"motivo,omitempty"`
	Turno     *Turno `json:"turno,omitempty"`
}

// ResumenTurno aggregates ingress/egress counts for the shift-close screen.
type ResumenTurno struct {
	Ingresos int `json:"ingresos"`
	Salidas  int `json:"salidas"`
	Total    int `json:"total"`
}

// ResumenResponse is the envelope of GET /api/turnos/{id}/resumen/.
type ResumenResponse struct {
	Permitido bool          `json:"permitido"`
	Motivo    string        `json:"motivo,omitempty"`
	Turno     *Turno        `json:"turno,omitempty"`
	Resumen   *ResumenTurno `json:"resumen,omitempty"`
}
