package ports

import (
	"context"

	"github.com/accesosen/sadi-client/internal/core/domain"
)

// AuthGateway wraps the credential and identity endpoints. Stateless; Login
// persists the returned token pair through the TokenStore as a side effect.
type AuthGateway interface {
	Login(ctx context.Context, username, password string) (*domain.Tokens, error)
	Me(ctx context.Context) (*domain.MeResponse, error)
	PasswordResetRequest(ctx context.Context, email string) (*domain.MeResponse, error)
	PasswordResetVerify(ctx context.Context, email, otp string) (*domain.MeResponse, error)
	PasswordResetConfirm(ctx context.Context, email, otp, newPassword string) (*domain.MeResponse, error)
}

// ShiftGateway wraps the turno endpoints. IniciarTurno treats the backend's
// 400 "shift already active" response as success, adopting the shift from
// the error payload.
type ShiftGateway interface {
	IniciarTurno(ctx context.Context, sede, jornada string) (*domain.TurnoResponse, error)
	FinalizarTurno(ctx context.Context) (*domain.TurnoResponse, error)
	TurnoActual(ctx context.Context) (*domain.Turno, error)
	ResumenTurno(ctx context.Context, id int) (*domain.ResumenResponse, error)
	ListTurnos(ctx context.Context, filter domain.TurnoFilter) (domain.List[domain.Turno], error)
	FinalizarAdmin(ctx context.Context, id int) (*domain.TurnoResponse, error)
}

// AccessGateway wraps the access registration and query endpoints.
type AccessGateway interface {
	ValidarDocumento(ctx context.Context, documento string) (*domain.ValidacionDocumento, error)
	RegistrarPorDocumento(ctx context.Context, documento, tipo string, equipos []int) (*domain.ValidacionDocumento, error)
	Stats(ctx context.Context) (*domain.StatsTurno, error)
	Estado(ctx context.Context) (*domain.EstadoAcceso, error)
	MisAccesos(ctx context.Context) (domain.List[domain.Acceso], error)
	List(ctx context.Context, filter domain.AccesoFilter) (domain.List[domain.Acceso], error)
}

// NotificationGateway wraps the guard alert endpoints.
type NotificationGateway interface {
	ListNotificaciones(ctx context.Context) (domain.List[domain.Notificacion], error)
	MarcarLeida(ctx context.Context, id int) (*domain.Notificacion, error)
}

// DirectoryGateway wraps the admin CRUD endpoints for users and equipment.
type DirectoryGateway interface {
	ListUsuarios(ctx context.Context, q string, page, pageSize int) (domain.List[domain.Usuario], error)
	CreateUsuario(ctx context.Context, in domain.UsuarioInput) (*domain.Usuario, error)
	UpdateUsuario(ctx context.Context, id int, in domain.UsuarioInput) (*domain.Usuario, error)
	DeleteUsuario(ctx context.Context, id int) error

	ListEquipos(ctx context.Context, q string, page, pageSize int) (domain.List[domain.Equipo], error)
	CreateEquipo(ctx context.Context, in domain.EquipoInput) (*domain.Equipo, error)
	UpdateEquipo(ctx context.Context, id int, in domain.EquipoInput) (*domain.Equipo, error)
	DeleteEquipo(ctx context.Context, id int) error
	RevisarEquipo(ctx context.Context, id int, in domain.RevisionInput) (*domain.Equipo, error)
}
