// Package service holds the client-side business logic: the session/shift
// state machine, the login lockout throttle, and the last-request-wins
// sequence guard.
package service

import (
	"context"
	"sync"

	"github.com/golang-jwt/jwt/v5"
	"github.com/rs/zerolog"

	"github.com/accesosen/sadi-client/internal/core/domain"
	"github.com/accesosen/sadi-client/internal/core/ports"
)

// Session is the process-wide authentication/shift state machine. It is
// explicitly constructed and injected (no ambient singleton) so tests can
// build isolated instances.
//
// Lifecycle: Unbootstrapped → Bootstrapping → Ready. Bootstrapping happens
// exactly once per process; after that the state only moves between the
// anonymous and authenticated sub-states.
type Session struct {
	tokens ports.TokenStore
	auth   ports.AuthGateway
	shifts ports.ShiftGateway
	log    zerolog.Logger

	// OnFinishFailed, when set, is invoked after a finish-shift call fails
	// so a background retrier can pick it up.
	OnFinishFailed func()

	mu            sync.Mutex
	ready         bool
	user          *domain.Usuario
	turno         *domain.Turno
	pendingFinish bool
	subs          []chan ports.SessionSnapshot
}

func NewSession(tokens ports.TokenStore, auth ports.AuthGateway, shifts ports.ShiftGateway, log zerolog.Logger) *Session {
	return &Session{tokens: tokens, auth: auth, shifts: shifts, log: log}
}

// Bootstrap hydrates the session from persisted tokens. It always settles
// into Ready: any failure along the way (transport, domain denial, unknown
// role) clears the tokens and lands in Ready/Anonymous. It never calls the
// backend when no access token is stored.
func (s *Session) Bootstrap(ctx context.Context) error {
	s.mu.Lock()
	if s.ready {
		s.mu.Unlock()
		return nil
	}
	s.mu.Unlock()

	access := s.tokens.Access(ctx)
	if access == "" {
		s.settle(nil, nil)
		return nil
	}

	me, err := s.auth.Me(ctx)
	if err != nil || !me.Permitido || me.Usuario == nil || !domain.KnownRole(me.Usuario.Rol) {
		if err != nil {
			s.log.Debug().Err(err).Msg("bootstrap identity check failed")
		}
		_ = s.tokens.Clear(ctx)
		s.settle(nil, nil)
		return nil
	}

	var turno *domain.Turno
	if me.Usuario.Rol == domain.RoleGuard {
		turno, err = s.shifts.TurnoActual(ctx)
		if err != nil {
			_ = s.tokens.Clear(ctx)
			s.settle(nil, nil)
			return nil
		}
	}

	s.settle(me.Usuario, turno)
	return nil
}

// SignIn authenticates, verifies the expected role, and for guards starts
// the shift. Failures propagate to the caller so the UI can display them and
// count lockout attempts; the session state is only mutated on full success.
func (s *Session) SignIn(ctx context.Context, in ports.SignInInput) error {
	// Validate the form before spending round trips or storing tokens.
	if in.Rol == domain.RoleGuard && (in.Sede == "" || in.Jornada == "") {
		return domain.ErrMissingShiftFields
	}

	if _, err := s.auth.Login(ctx, in.Username, in.Password); err != nil {
		return err
	}

	me, err := s.auth.Me(ctx)
	if err != nil {
		return err
	}
	if !me.Permitido || me.Usuario == nil {
		_ = s.tokens.Clear(ctx)
		return &domain.ErrNotPermitted{Motivo: me.Motivo}
	}
	if me.Usuario.Rol != in.Rol {
		// Client-side authorization gate on top of the backend's own
		// authentication: a learner must not land on the guard flow.
		_ = s.tokens.Clear(ctx)
		return domain.ErrRoleMismatch
	}

	if in.Rol != domain.RoleGuard {
		s.setAuthenticated(me.Usuario, nil)
		return nil
	}

	resp, err := s.shifts.IniciarTurno(ctx, in.Sede, in.Jornada)
	if err != nil {
		return err
	}
	if !resp.Permitido || resp.Turno == nil {
		_ = s.tokens.Clear(ctx)
		return &domain.ErrNotPermitted{Motivo: resp.Motivo}
	}
	s.setAuthenticated(me.Usuario, resp.Turno)
	return nil
}

// FinalizarTurno ends the guard's shift. Best-effort: a gateway failure is
// swallowed so the UI can proceed to the shift-ended screen. Only transient
// failures become PendingFinish and go to the retrier; a definitive refusal
// (the backend's 400 "no active shift") means there is nothing left to close
// and settles immediately.
func (s *Session) FinalizarTurno(ctx context.Context) error {
	resp, err := s.shifts.FinalizarTurno(ctx)
	if err != nil {
		if !domain.IsTransient(err) {
			s.log.Warn().Err(err).Msg("finish shift refused, treating as already closed")
			s.mu.Lock()
			s.turno = nil
			s.pendingFinish = false
			s.mu.Unlock()
			s.publish()
			return nil
		}
		s.log.Warn().Err(err).Msg("finish shift failed, queueing retry")
		s.mu.Lock()
		s.pendingFinish = true
		s.turno = nil
		hook := s.OnFinishFailed
		s.mu.Unlock()
		s.publish()
		if hook != nil {
			hook()
		}
		return nil
	}

	s.mu.Lock()
	s.turno = resp.Turno
	s.pendingFinish = false
	s.mu.Unlock()
	s.publish()
	return nil
}

// ResolveFinish marks a previously failed finish as settled. Called by the
// background retrier once the backend accepted the close.
func (s *Session) ResolveFinish(turno *domain.Turno) {
	s.mu.Lock()
	s.turno = turno
	s.pendingFinish = false
	s.mu.Unlock()
	s.publish()
}

// SignOut clears tokens and in-memory state unconditionally. Never fails.
func (s *Session) SignOut(ctx context.Context) error {
	_ = s.tokens.Clear(ctx)
	s.mu.Lock()
	s.user = nil
	s.turno = nil
	s.pendingFinish = false
	s.mu.Unlock()
	s.publish()
	return nil
}

// Snapshot returns the current observable state.
func (s *Session) Snapshot() ports.SessionSnapshot {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.snapshotLocked()
}

// Subscribe returns a channel receiving a snapshot after every transition.
// Slow consumers miss intermediate states, never block the machine.
func (s *Session) Subscribe() <-chan ports.SessionSnapshot {
	s.mu.Lock()
	defer s.mu.Unlock()
	ch := make(chan ports.SessionSnapshot, 8)
	s.subs = append(s.subs, ch)
	return ch
}

func (s *Session) settle(user *domain.Usuario, turno *domain.Turno) {
	s.mu.Lock()
	s.ready = true
	s.user = user
	s.turno = turno
	s.mu.Unlock()
	s.publish()
}

func (s *Session) setAuthenticated(user *domain.Usuario, turno *domain.Turno) {
	s.mu.Lock()
	// A successful sign-in implies the machine is hydrated even when
	// Bootstrap was never called (the BFF builds a session per request).
	s.ready = true
	s.user = user
	s.turno = turno
	s.pendingFinish = false
	s.mu.Unlock()
	s.publish()
}

func (s *Session) snapshotLocked() ports.SessionSnapshot {
	snap := ports.SessionSnapshot{
		Ready:         s.ready,
		User:          s.user,
		Turno:         s.turno,
		PendingFinish: s.pendingFinish,
	}
	if s.user != nil {
		snap.TokenExpiry = s.tokenExpiry()
	}
	return snap
}

func (s *Session) publish() {
	s.mu.Lock()
	snap := s.snapshotLocked()
	subs := s.subs
	s.mu.Unlock()
	for _, ch := range subs {
		select {
		case ch <- snap:
		default:
		}
	}
}

// tokenExpiry reads the unix exp claim out of the stored access token
// without verifying the signature; the backend owns validity, the client
// only uses it for display and refresh logging.
func (s *Session) tokenExpiry() int64 {
	access := s.tokens.Access(context.Background())
	if access == "" {
		return 0
	}
	claims := jwt.MapClaims{}
	if _, _, err := jwt.NewParser().ParseUnverified(access, claims); err != nil {
		return 0
	}
	exp, err := claims.GetExpirationTime()
	if err != nil || exp == nil {
		return 0
	}
	return exp.Unix()
}
