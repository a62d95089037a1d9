package domain

// Role wire values. Exact strings matter: the AccesoSEN backend speaks
// Spanish role names.
const (
	RoleAdmin   = "admin"
	RoleGuard   = "guarda"
	RoleLearner = "aprendiz"
)

// KnownRole reports whether the backend role string is one this client can
// operate as. Unknown roles are treated as unauthenticated during bootstrap.
func KnownRole(role string) bool {
	return role == RoleAdmin || role == RoleGuard || role == RoleLearner
}

// Usuario models the identity returned by GET /api/me/. Fetched fresh on
// every bootstrap and sign-in, never persisted; a new fetch supersedes the
// previous value wholesale.
type Usuario struct {
	ID                int    `json:"id"`
	Username          string `json:"username"`
	Email             string `json:"email,omitempty"`
	Rol               string `json:"rol"`
	FirstName         string `json:"first_name,omitempty"`
	LastName          string `json:"last_name,omitempty"`
	Documento         string `json:"documento,omitempty"`
	SedePrincipal     string `json:"sede_principal,omitempty"`
	ProgramaFormacion string `json:"programa_formacion,omitempty"`
	Estado            string `json:"estado,omitempty"`
}

// MeResponse is the domain envelope of GET /api/me/. Permitido=false means
// the session is invalid even though the HTTP call succeeded.
type MeResponse struct {
	Permitido bool     `json:"permitido"`
	Motivo    string   `json:"motivo,omitempty"`
	Usuario   *Usuario `json:"usuario,omitempty"`
}

// Tokens is the credential pair from POST /api/token/. Access and refresh
// always travel together; a partial pair is treated as absent.
type Tokens struct {
	Access  string `json:"access"`
	Refresh string `json:"refresh"`
}
