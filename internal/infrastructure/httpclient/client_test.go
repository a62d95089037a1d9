package httpclient

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/rs/zerolog"

	"github.com/accesosen/sadi-client/internal/core/domain"
	"github.com/accesosen/sadi-client/internal/infrastructure/tokenstore"
)

func newTestClient(t *testing.T, handler http.Handler) (*Client, *tokenstore.Memory, *httptest.Server) {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	tokens := tokenstore.NewMemory()
	c := New(Options{
		BaseURL: srv.URL,
		Tokens:  tokens,
		Logger:  zerolog.Nop(),
	})
	return c, tokens, srv
}

func TestDo_AttachesBearer(t *testing.T) {
	var gotAuth string
	c, tokens, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		_ = json.NewEncoder(w).Encode(map[string]bool{"ok": true})
	}))
	_ = tokens.Save(context.Background(), "acc", "ref")

	if err := c.Get(context.Background(), "/api/me/", nil); err != nil {
		t.Fatalf("get failed: %v", err)
	}
	if gotAuth != "Bearer acc" {
		t.Fatalf("authorization header = %q, want Bearer acc", gotAuth)
	}
}

func TestDo_NoTokenNoHeader(t *testing.T) {
	var gotAuth string
	c, _, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		w.WriteHeader(http.StatusOK)
	}))

	if err := c.Get(context.Background(), "/api/turnos/actual/", nil); err != nil {
		t.Fatalf("get failed: %v", err)
	}
	if gotAuth != "" {
		t.Fatalf("unexpected authorization header %q", gotAuth)
	}
}

func TestDo_Classification(t *testing.T) {
	cases := []struct {
		name   string
		path   string
		status int
		body   string
		want   domain.ErrorKind
	}{
		{"bad credentials on token endpoint", "/api/token/", 401, `{"detail":"no"}`, domain.KindBadCredentials},
		{"forbidden", "/api/usuarios/", 403, `{}`, domain.KindForbidden},
		{"not found", "/api/equipos/99/", 404, `{}`, domain.KindNotFound},
		{"validation", "/api/turnos/iniciar/", 400, `{"motivo":"faltan campos"}`, domain.KindValidation},
		{"server error", "/api/me/", 500, ``, domain.KindServerError},
		{"generic", "/api/me/", 418, ``, domain.KindGeneric},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			c, _, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(tc.status)
				_, _ = w.Write([]byte(tc.body))
			}))
			err := c.Post(context.Background(), tc.path, map[string]string{}, nil)
			if err == nil {
				t.Fatalf("expected error")
			}
			if got := domain.KindOf(err); got != tc.want {
				t.Fatalf("kind = %s, want %s", got, tc.want)
			}
		})
	}
}

func TestDo_ValidationCarriesServerReason(t *testing.T) {
	c, _, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
		_, _ = w.Write([]byte(`{"motivo":"ya existe un turno activo"}`))
	}))
	err := c.Post(context.Background(), "/api/turnos/iniciar/", map[string]string{}, nil)
	var ae *domain.APIError
	if !errors.As(err, &ae) {
		t.Fatalf("expected APIError, got %T", err)
	}
	if ae.Message != "ya existe un turno activo" {
		t.Fatalf("message = %q", ae.Message)
	}
	if len(ae.Body) == 0 {
		t.Fatalf("expected raw body retained")
	}
}

func TestDo_Timeout(t *testing.T) {
	c, _, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		time.Sleep(200 * time.Millisecond)
	}))
	c.http.Timeout = 20 * time.Millisecond

	err := c.Get(context.Background(), "/api/me/", nil)
	if got := domain.KindOf(err); got != domain.KindTimeout {
		t.Fatalf("kind = %s, want TIMEOUT", got)
	}
}

func TestDo_Network(t *testing.T) {
	c := New(Options{BaseURL: "http://127.0.0.1:1", Tokens: tokenstore.NewMemory(), Logger: zerolog.Nop()})
	err := c.Get(context.Background(), "/api/me/", nil)
	if got := domain.KindOf(err); got != domain.KindNetwork {
		t.Fatalf("kind = %s, want NETWORK", got)
	}
}

// refreshBackend simulates a backend whose access token expired: protected
// calls 401 until the refresh endpoint mints "acc-new".
type refreshBackend struct {
	refreshCalls int32
	failRefresh  bool
}

func (b *refreshBackend) handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("/api/token/refresh/", func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&b.refreshCalls, 1)
		// Hold the refresh open long enough for concurrent 401s to pile up.
		time.Sleep(50 * time.Millisecond)
		if b.failRefresh {
			w.WriteHeader(http.StatusUnauthorized)
			return
		}
		_ = json.NewEncoder(w).Encode(map[string]string{"access": "acc-new"})
	})
	mux.HandleFunc("/", func(w http.ResponseWriter, r *http.Request) {
		if r.Header.Get("Authorization") != "Bearer acc-new" {
			w.WriteHeader(http.StatusUnauthorized)
			return
		}
		_ = json.NewEncoder(w).Encode(map[string]bool{"ok": true})
	})
	return mux
}

func TestDo_RefreshRetriesOnce(t *testing.T) {
	backend := &refreshBackend{}
	c, tokens, _ := newTestClient(t, backend.handler())
	ctx := context.Background()
	_ = tokens.Save(ctx, "acc-stale", "ref-1")

	var out struct {
		OK bool `json:"ok"`
	}
	if err := c.Get(ctx, "/api/me/", &out); err != nil {
		t.Fatalf("expected retried request to succeed: %v", err)
	}
	if !out.OK {
		t.Fatalf("expected ok payload after retry")
	}
	if got := atomic.LoadInt32(&backend.refreshCalls); got != 1 {
		t.Fatalf("refresh calls = %d, want 1", got)
	}
	if tokens.Access(ctx) != "acc-new" {
		t.Fatalf("access not persisted, got %q", tokens.Access(ctx))
	}
	if tokens.Refresh(ctx) != "ref-1" {
		t.Fatalf("refresh token should be kept, got %q", tokens.Refresh(ctx))
	}
}

func TestDo_ConcurrentRefreshSingleFlight(t *testing.T) {
	backend := &refreshBackend{}
	c, tokens, _ := newTestClient(t, backend.handler())
	ctx := context.Background()
	_ = tokens.Save(ctx, "acc-stale", "ref-1")

	const n = 8
	errs := make(chan error, n)
	var wg sync.WaitGroup
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			errs <- c.Get(ctx, "/api/me/", nil)
		}()
	}
	wg.Wait()
	close(errs)

	for err := range errs {
		if err != nil {
			t.Fatalf("concurrent request failed: %v", err)
		}
	}
	if got := atomic.LoadInt32(&backend.refreshCalls); got != 1 {
		t.Fatalf("refresh calls = %d, want exactly 1", got)
	}
}

func TestDo_RefreshFailureClearsTokens(t *testing.T) {
	backend := &refreshBackend{failRefresh: true}
	c, tokens, _ := newTestClient(t, backend.handler())
	ctx := context.Background()
	_ = tokens.Save(ctx, "acc-stale", "ref-1")

	err := c.Get(ctx, "/api/me/", nil)
	if got := domain.KindOf(err); got != domain.KindSessionExpired {
		t.Fatalf("kind = %s, want SESSION_EXPIRED", got)
	}
	if tokens.Access(ctx) != "" || tokens.Refresh(ctx) != "" {
		t.Fatalf("tokens should be cleared after failed refresh")
	}
}

func TestDo_RefreshWithoutRefreshToken(t *testing.T) {
	var protectedCalls int32
	c, _, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/api/token/refresh/" {
			t.Errorf("refresh endpoint should not be called without a refresh token")
		}
		atomic.AddInt32(&protectedCalls, 1)
		w.WriteHeader(http.StatusUnauthorized)
	}))

	err := c.Get(context.Background(), "/api/me/", nil)
	if got := domain.KindOf(err); got != domain.KindSessionExpired {
		t.Fatalf("kind = %s, want SESSION_EXPIRED", got)
	}
	if got := atomic.LoadInt32(&protectedCalls); got != 1 {
		t.Fatalf("protected endpoint called %d times, want 1 (no retry loop)", got)
	}
}

func TestDo_TokenEndpoint401NeverRefreshes(t *testing.T) {
	var refreshCalled bool
	mux := http.NewServeMux()
	mux.HandleFunc("/api/token/refresh/", func(w http.ResponseWriter, r *http.Request) {
		refreshCalled = true
	})
	mux.HandleFunc("/api/token/", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
	})
	c, tokens, _ := newTestClient(t, mux)
	_ = tokens.Save(context.Background(), "acc", "ref")

	err := c.Post(context.Background(), "/api/token/", map[string]string{"username": "u", "password": "p"}, nil)
	if got := domain.KindOf(err); got != domain.KindBadCredentials {
		t.Fatalf("kind = %s, want BAD_CREDENTIALS", got)
	}
	if refreshCalled {
		t.Fatalf("credential exchange 401 must not trigger refresh")
	}
}
