package ports

import (
	"context"

	"github.com/accesosen/sadi-client/internal/core/domain"
)

// SignInInput carries the login form fields. Sede and Jornada are mandatory
// for the guard role and ignored otherwise.
type SignInInput struct {
	Username string
	Password string
	Rol      string
	Sede     string
	Jornada  string
}

// SessionSnapshot is the observable session state. Ready flips to true
// exactly once, when bootstrap settles. Turno is non-nil only for
// authenticated guards; User==nil implies Turno==nil.
type SessionSnapshot struct {
	Ready         bool
	User          *domain.Usuario
	Turno         *domain.Turno
	PendingFinish bool
	TokenExpiry   int64
}

// SessionService is the process-wide authentication/shift state machine.
type SessionService interface {
	Bootstrap(ctx context.Context) error
	SignIn(ctx context.Context, in SignInInput) error
	FinalizarTurno(ctx context.Context) error
	SignOut(ctx context.Context) error
	Snapshot() SessionSnapshot
	Subscribe() <-chan SessionSnapshot
}
