package handler

import (
	"fmt"
	"net/http"
	"sync"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/accesosen/sadi-client/internal/api/metrics"
	"github.com/accesosen/sadi-client/internal/api/middleware"
	"github.com/accesosen/sadi-client/internal/core/domain"
	"github.com/accesosen/sadi-client/internal/core/ports"
	"github.com/accesosen/sadi-client/internal/core/service"
)

// SessionHandler exposes the session state machine to the browser.
type SessionHandler struct {
	factory middleware.ClientFactory

	lockMaxAttempts int
	lockWindow      time.Duration

	mu       sync.Mutex
	lockouts map[string]*service.Lockout
}

func NewSessionHandler(factory middleware.ClientFactory, maxAttempts int, window time.Duration) *SessionHandler {
	return &SessionHandler{
		factory:         factory,
		lockMaxAttempts: maxAttempts,
		lockWindow:      window,
		lockouts:        make(map[string]*service.Lockout),
	}
}

type loginRequest struct {
	Username string `json:"username" validate:"required"`
	Password string `json:"password" validate:"required"`
	Rol      string `json:"rol"      validate:"required,oneof=admin guarda aprendiz"`
	Sede     string `json:"sede"     validate:"omitempty,oneof=CEGAFE SANTA_CLARA ITEDRIS GASTRONOMIA"`
	Jornada  string `json:"jornada"  validate:"omitempty,oneof=MANANA TARDE NOCHE"`
}

type sessionResponse struct {
	Ready         bool            `json:"ready"`
	User          *domain.Usuario `json:"user"`
	Turno         *domain.Turno   `json:"turno"`
	PendingFinish bool            `json:"pending_finish"`
	TokenExpiry   int64           `json:"token_expiry,omitempty"`
}

func toSessionResponse(snap ports.SessionSnapshot) sessionResponse {
	return sessionResponse{
		Ready:         snap.Ready,
		User:          snap.User,
		Turno:         snap.Turno,
		PendingFinish: snap.PendingFinish,
		TokenExpiry:   snap.TokenExpiry,
	}
}

// Login signs the browser in against the backend.
//
// @Summary      Sign in
// @Tags         session
// @Accept       json
// @Produce      json
// @Param        body  body      loginRequest  true  "Credentials, expected role, and shift fields for guards"
// @Success      200   {object}  sessionResponse
// @Failure      400   {object}  map[string]string
// @Failure      401   {object}  map[string]string
// @Failure      429   {object}  map[string]string
// @Router       /session/login [post]
func (h *SessionHandler) Login(c echo.Context) error {
	var req loginRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	lockout := h.lockoutFor(clientKey(c))
	if ok, remaining := lockout.Allowed(); !ok {
		metrics.LockoutRefusalsTotal.Inc()
		return echo.NewHTTPError(http.StatusTooManyRequests,
			fmt.Sprintf("demasiados intentos, espera %ds", int(remaining.Seconds()+0.5)))
	}

	clients := h.factory.ForRequest(c)
	err := clients.Session.SignIn(c.Request().Context(), ports.SignInInput{
		Username: req.Username,
		Password: req.Password,
		Rol:      req.Rol,
		Sede:     req.Sede,
		Jornada:  req.Jornada,
	})
	if err != nil {
		lockout.Fail()
		metrics.SignInsTotal.WithLabelValues(signInOutcome(err)).Inc()
		return err
	}

	lockout.Reset()
	metrics.SignInsTotal.WithLabelValues("success").Inc()
	return c.JSON(http.StatusOK, toSessionResponse(clients.Session.Snapshot()))
}

// Current hydrates and returns the session snapshot for this browser.
//
// @Summary      Current session
// @Tags         session
// @Produce      json
// @Success      200  {object}  sessionResponse
// @Router       /session [get]
func (h *SessionHandler) Current(c echo.Context) error {
	clients := h.factory.ForRequest(c)
	if err := clients.Session.Bootstrap(c.Request().Context()); err != nil {
		return err
	}
	return c.JSON(http.StatusOK, toSessionResponse(clients.Session.Snapshot()))
}

// Logout clears the browser's backend tokens and session state.
//
// @Summary      Sign out
// @Tags         session
// @Produce      json
// @Success      200  {object}  sessionResponse
// @Router       /session/logout [post]
func (h *SessionHandler) Logout(c echo.Context) error {
	clients := h.factory.ForRequest(c)
	_ = clients.Session.SignOut(c.Request().Context())
	return c.JSON(http.StatusOK, toSessionResponse(clients.Session.Snapshot()))
}

// FinishShift ends the guard's active shift. Always answers 200 so the UI
// can move to the shift-ended screen; a failed backend call is visible as
// pending_finish=true in the returned snapshot.
//
// @Summary      Finish shift
// @Tags         session
// @Produce      json
// @Success      200  {object}  sessionResponse
// @Router       /session/turno/finalizar [post]
func (h *SessionHandler) FinishShift(c echo.Context) error {
	clients := h.factory.ForRequest(c)
	if err := clients.Session.FinalizarTurno(c.Request().Context()); err != nil {
		return err
	}
	return c.JSON(http.StatusOK, toSessionResponse(clients.Session.Snapshot()))
}

type resetRequestPayload struct {
	Email string `json:"email" validate:"required,email"`
}

type resetVerifyPayload struct {
	Email string `json:"email" validate:"required,email"`
	OTP   string `json:"otp"   validate:"required"`
}

type resetConfirmPayload struct {
	Email       string `json:"email"        validate:"required,email"`
	OTP         string `json:"otp"          validate:"required"`
	NewPassword string `json:"new_password" validate:"required,min=8"`
}

// ResetRequest starts a password reset by mailing an OTP.
//
// @Summary      Request password reset
// @Tags         session
// @Accept       json
// @Produce      json
// @Param        body  body      resetRequestPayload  true  "Account email"
// @Success      200   {object}  domain.MeResponse
// @Router       /session/password-reset/request [post]
func (h *SessionHandler) ResetRequest(c echo.Context) error {
	var req resetRequestPayload
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	clients := h.factory.ForRequest(c)
	out, err := clients.Auth.PasswordResetRequest(c.Request().Context(), req.Email)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, out)
}

// ResetVerify checks the OTP before the new password is chosen.
//
// @Summary      Verify reset code
// @Tags         session
// @Accept       json
// @Produce      json
// @Param        body  body      resetVerifyPayload  true  "Email and one-time code"
// @Success      200   {object}  domain.MeResponse
// @Router       /session/password-reset/verify [post]
func (h *SessionHandler) ResetVerify(c echo.Context) error {
	var req resetVerifyPayload
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	clients := h.factory.ForRequest(c)
	out, err := clients.Auth.PasswordResetVerify(c.Request().Context(), req.Email, req.OTP)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, out)
}

// ResetConfirm sets the new password.
//
// @Summary      Confirm password reset
// @Tags         session
// @Accept       json
// @Produce      json
// @Param        body  body      resetConfirmPayload  true  "Email, one-time code, and new password"
// @Success      200   {object}  domain.MeResponse
// @Router       /session/password-reset/confirm [post]
func (h *SessionHandler) ResetConfirm(c echo.Context) error {
	var req resetConfirmPayload
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	clients := h.factory.ForRequest(c)
	out, err := clients.Auth.PasswordResetConfirm(c.Request().Context(), req.Email, req.OTP, req.NewPassword)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, out)
}

// lockoutFor returns (or creates) the lockout counter for one browser.
func (h *SessionHandler) lockoutFor(key string) *service.Lockout {
	h.mu.Lock()
	defer h.mu.Unlock()
	l, ok := h.lockouts[key]
	if !ok {
		l = service.NewLockout(h.lockMaxAttempts, h.lockWindow)
		h.lockouts[key] = l
	}
	return l
}

// clientKey scopes the lockout counter: the session cookie when present,
// the remote address otherwise.
func clientKey(c echo.Context) string {
	if cookie, err := c.Cookie("sadi_sid"); err == nil && cookie.Value != "" {
		return cookie.Value
	}
	return c.RealIP()
}

func signInOutcome(err error) string {
	switch {
	case domain.IsKind(err, domain.KindBadCredentials):
		return "bad_credentials"
	case err == domain.ErrRoleMismatch:
		return "role_mismatch"
	default:
		if _, ok := err.(*domain.ErrNotPermitted); ok {
			return "denied"
		}
		return "error"
	}
}
