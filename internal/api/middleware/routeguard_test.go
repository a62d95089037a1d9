package middleware

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"

	"github.com/accesosen/sadi-client/internal/api/scope"
	"github.com/accesosen/sadi-client/internal/core/domain"
	"github.com/accesosen/sadi-client/internal/core/service"
	"github.com/accesosen/sadi-client/internal/infrastructure/tokenstore"
)

type stubAuth struct {
	me    *domain.MeResponse
	meErr error
}

func (a *stubAuth) Login(context.Context, string, string) (*domain.Tokens, error) {
	return &domain.Tokens{Access: "a", Refresh: "r"}, nil
}

func (a *stubAuth) Me(context.Context) (*domain.MeResponse, error) {
	return a.me, a.meErr
}

func (a *stubAuth) PasswordResetRequest(context.Context, string) (*domain.MeResponse, error) {
	return nil, nil
}

func (a *stubAuth) PasswordResetVerify(context.Context, string, string) (*domain.MeResponse, error) {
	return nil, nil
}

func (a *stubAuth) PasswordResetConfirm(context.Context, string, string, string) (*domain.MeResponse, error) {
	return nil, nil
}

type stubFactory struct {
	auth   *stubAuth
	tokens *tokenstore.Memory
}

func (f *stubFactory) ForRequest(echo.Context) *scope.Clients {
	return &scope.Clients{
		Tokens:  f.tokens,
		Auth:    f.auth,
		Session: service.NewSession(f.tokens, f.auth, nil, zerolog.Nop()),
	}
}

func run(t *testing.T, factory ClientFactory, requiredRole string) (*httptest.ResponseRecorder, bool) {
	t.Helper()
	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/admin/usuarios", nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	called := false
	handler := RouteGuard(factory, requiredRole)(func(c echo.Context) error {
		called = true
		return c.NoContent(http.StatusOK)
	})
	if err := handler(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	return rec, called
}

func TestRouteGuard_AllowsMatchingRole(t *testing.T) {
	factory := &stubFactory{
		auth:   &stubAuth{me: &domain.MeResponse{Permitido: true, Usuario: &domain.Usuario{Rol: domain.RoleAdmin}}},
		tokens: tokenstore.NewMemory(),
	}
	rec, called := run(t, factory, domain.RoleAdmin)
	if !called {
		t.Fatalf("next handler not reached")
	}
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}
}

func TestRouteGuard_MeFailureRedirectsToLogin(t *testing.T) {
	tokens := tokenstore.NewMemory()
	_ = tokens.Save(context.Background(), "acc", "ref")
	factory := &stubFactory{
		auth:   &stubAuth{meErr: domain.NewAPIError(domain.KindSessionExpired, 401, "expirada", nil)},
		tokens: tokens,
	}
	rec, called := run(t, factory, domain.RoleAdmin)
	if called {
		t.Fatalf("handler must not run when me() fails")
	}
	if rec.Code != http.StatusFound || rec.Header().Get("Location") != "/login" {
		t.Fatalf("expected redirect to /login, got %d %s", rec.Code, rec.Header().Get("Location"))
	}
	if tokens.Access(context.Background()) != "" {
		t.Fatalf("tokens should be cleared on failed validation")
	}
}

func TestRouteGuard_DomainDeniedRedirectsToLogin(t *testing.T) {
	factory := &stubFactory{
		auth:   &stubAuth{me: &domain.MeResponse{Permitido: false, Motivo: "bloqueado"}},
		tokens: tokenstore.NewMemory(),
	}
	rec, called := run(t, factory, domain.RoleAdmin)
	if called {
		t.Fatalf("handler must not run when permitido=false")
	}
	if rec.Header().Get("Location") != "/login" {
		t.Fatalf("expected redirect to /login, got %s", rec.Header().Get("Location"))
	}
}

func TestRouteGuard_RoleMismatchRedirectsHome(t *testing.T) {
	factory := &stubFactory{
		auth:   &stubAuth{me: &domain.MeResponse{Permitido: true, Usuario: &domain.Usuario{Rol: domain.RoleLearner}}},
		tokens: tokenstore.NewMemory(),
	}
	rec, called := run(t, factory, domain.RoleAdmin)
	if called {
		t.Fatalf("handler must not run on role mismatch")
	}
	if rec.Header().Get("Location") != "/aprendiz/inicio" {
		t.Fatalf("expected learner home redirect, got %s", rec.Header().Get("Location"))
	}
}
