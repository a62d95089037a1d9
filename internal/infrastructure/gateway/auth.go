// Package gateway contains the thin, stateless adapters over the AccesoSEN
// REST endpoints. Gateways never re-wrap classified errors; the single
// exception is the shift conflict special case documented on IniciarTurno.
package gateway

import (
	"context"

	"github.com/accesosen/sadi-client/internal/core/domain"
	"github.com/accesosen/sadi-client/internal/core/ports"
	"github.com/accesosen/sadi-client/internal/infrastructure/httpclient"
)

// Auth implements ports.AuthGateway.
type Auth struct {
	client *httpclient.Client
	tokens ports.TokenStore
}

func NewAuth(client *httpclient.Client, tokens ports.TokenStore) *Auth {
	return &Auth{client: client, tokens: tokens}
}

// Login exchanges credentials for a token pair and persists it. A 401 here
// surfaces as BAD_CREDENTIALS.
func (a *Auth) Login(ctx context.Context, username, password string) (*domain.Tokens, error) {
	var out domain.Tokens
	body := map[string]string{"username": username, "password": password}
	if err := a.client.Post(ctx, "/api/token/", body, &out); err != nil {
		return nil, err
	}
	if err := a.tokens.Save(ctx, out.Access, out.Refresh); err != nil {
		return nil, err
	}
	return &out, nil
}

// Me fetches the current identity. Callers must check Permitido: the HTTP
// call succeeding does not mean the session is domain-valid.
func (a *Auth) Me(ctx context.Context) (*domain.MeResponse, error) {
	var out domain.MeResponse
	if err := a.client.Get(ctx, "/api/me/", &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (a *Auth) PasswordResetRequest(ctx context.Context, email string) (*domain.MeResponse, error) {
	return a.resetStep(ctx, "/api/auth/password-reset/request/", map[string]string{"email": email})
}

func (a *Auth) PasswordResetVerify(ctx context.Context, email, otp string) (*domain.MeResponse, error) {
	return a.resetStep(ctx, "/api/auth/password-reset/verify/", map[string]string{"email": email, "otp": otp})
}

func (a *Auth) PasswordResetConfirm(ctx context.Context, email, otp, newPassword string) (*domain.MeResponse, error) {
	return a.resetStep(ctx, "/api/auth/password-reset/confirm/", map[string]string{
		"email":        email,
		"otp":          otp,
		"new_password": newPassword,
	})
}

func (a *Auth) resetStep(ctx context.Context, path string, body map[string]string) (*domain.MeResponse, error) {
	var out domain.MeResponse
	if err := a.client.Post(ctx, path, body, &out); err != nil {
		return nil, err
	}
	return &out, nil
}
