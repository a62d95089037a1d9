package middleware

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/accesosen/sadi-client/internal/api/metrics"
	"github.com/accesosen/sadi-client/internal/api/scope"
	"github.com/accesosen/sadi-client/internal/core/domain"
)

const loginRoute = "/login"

// homeRoute maps a role to its landing route, mirroring the web client's
// redirect rules.
func homeRoute(role string) string {
	switch role {
	case domain.RoleAdmin:
		return "/admin/usuarios"
	case domain.RoleLearner:
		return "/aprendiz/inicio"
	case domain.RoleGuard:
		return "/guardia/home"
	default:
		return loginRoute
	}
}

// ClientFactory produces the request-scoped client stack. Satisfied by
// *scope.Factory; tests substitute stubs.
type ClientFactory interface {
	ForRequest(c echo.Context) *scope.Clients
}

// RouteGuard re-validates identity against the backend on every navigation
// instead of trusting cached session state. Any me() failure, whatever the
// kind, is treated as unauthenticated: tokens are cleared and the browser
// goes back to the login route. A valid identity with the wrong role is
// redirected to its own home rather than rendered.
func RouteGuard(factory ClientFactory, requiredRole string) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			clients := factory.ForRequest(c)
			ctx := c.Request().Context()

			me, err := clients.Auth.Me(ctx)
			if err != nil || !me.Permitido || me.Usuario == nil {
				_ = clients.Tokens.Clear(ctx)
				metrics.GuardRedirectsTotal.WithLabelValues("unauthenticated").Inc()
				return c.Redirect(http.StatusFound, loginRoute)
			}
			if me.Usuario.Rol != requiredRole {
				metrics.GuardRedirectsTotal.WithLabelValues("role_mismatch").Inc()
				return c.Redirect(http.StatusFound, homeRoute(me.Usuario.Rol))
			}

			c.Set("usuario", me.Usuario)
			return next(c)
		}
	}
}
