package gateway

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/rs/zerolog"

	"github.com/accesosen/sadi-client/internal/core/domain"
	"github.com/accesosen/sadi-client/internal/infrastructure/httpclient"
	"github.com/accesosen/sadi-client/internal/infrastructure/tokenstore"
)

func TestLogin_PersistsTokens(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/api/token/" {
			t.Errorf("unexpected path %s", r.URL.Path)
		}
		var body map[string]string
		_ = json.NewDecoder(r.Body).Decode(&body)
		if body["username"] != "g1" || body["password"] != "x" {
			t.Errorf("unexpected credentials %v", body)
		}
		_ = json.NewEncoder(w).Encode(domain.Tokens{Access: "acc", Refresh: "ref"})
	}))
	t.Cleanup(srv.Close)

	tokens := tokenstore.NewMemory()
	client := httpclient.New(httpclient.Options{BaseURL: srv.URL, Tokens: tokens, Logger: zerolog.Nop()})
	g := NewAuth(client, tokens)

	got, err := g.Login(context.Background(), "g1", "x")
	if err != nil {
		t.Fatalf("login failed: %v", err)
	}
	if got.Access != "acc" || got.Refresh != "ref" {
		t.Fatalf("unexpected tokens: %+v", got)
	}
	ctx := context.Background()
	if tokens.Access(ctx) != "acc" || tokens.Refresh(ctx) != "ref" {
		t.Fatalf("tokens not persisted")
	}
}

func TestLogin_BadCredentials(t *testing.T) {
	tokens := tokenstore.NewMemory()
	g := NewAuth(newClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
		_, _ = w.Write([]byte(`{"detail":"No active account found"}`))
	})), tokens)

	_, err := g.Login(context.Background(), "g1", "wrong")
	if got := domain.KindOf(err); got != domain.KindBadCredentials {
		t.Fatalf("kind = %s, want BAD_CREDENTIALS", got)
	}
	if tokens.Access(context.Background()) != "" {
		t.Fatalf("no tokens should be stored on failed login")
	}
}

func TestMe_DomainDenied(t *testing.T) {
	g := NewAuth(newClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"permitido":false,"motivo":"usuario bloqueado"}`))
	})), tokenstore.NewMemory())

	me, err := g.Me(context.Background())
	if err != nil {
		t.Fatalf("transport-successful me must not error: %v", err)
	}
	if me.Permitido {
		t.Fatalf("expected permitido=false")
	}
	if me.Motivo != "usuario bloqueado" {
		t.Fatalf("motivo = %q", me.Motivo)
	}
}

func TestPasswordResetFlow_Paths(t *testing.T) {
	var paths []string
	g := NewAuth(newClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		paths = append(paths, r.URL.Path)
		_, _ = w.Write([]byte(`{"permitido":true}`))
	})), tokenstore.NewMemory())
	ctx := context.Background()

	if _, err := g.PasswordResetRequest(ctx, "a@b.co"); err != nil {
		t.Fatalf("request failed: %v", err)
	}
	if _, err := g.PasswordResetVerify(ctx, "a@b.co", "123456"); err != nil {
		t.Fatalf("verify failed: %v", err)
	}
	if _, err := g.PasswordResetConfirm(ctx, "a@b.co", "123456", "nuevo-pass"); err != nil {
		t.Fatalf("confirm failed: %v", err)
	}

	want := []string{
		"/api/auth/password-reset/request/",
		"/api/auth/password-reset/verify/",
		"/api/auth/password-reset/confirm/",
	}
	for i, p := range want {
		if paths[i] != p {
			t.Fatalf("step %d hit %s, want %s", i, paths[i], p)
		}
	}
}
