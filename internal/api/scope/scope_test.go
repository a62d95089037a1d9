package scope

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"
)

func contextWithCookie(sid string) echo.Context {
	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/session", nil)
	if sid != "" {
		req.AddCookie(&http.Cookie{Name: "sadi_sid", Value: sid})
	}
	rec := httptest.NewRecorder()
	return e.NewContext(req, rec)
}

// Requests from the same browser must share one HTTP client, so concurrent
// 401s join a single refresh instead of racing token writes.
func TestFactory_SameSessionSharesClient(t *testing.T) {
	f := NewFactory("http://backend", time.Second, time.Hour, nil, zerolog.Nop())

	first := f.clientFor("sid-1")
	second := f.clientFor("sid-1")
	if first != second {
		t.Fatalf("same session must reuse the same client")
	}

	other := f.clientFor("sid-2")
	if other == first {
		t.Fatalf("different sessions must not share a client")
	}
}

func TestFactory_ForRequestReusesSessionClient(t *testing.T) {
	f := NewFactory("http://backend", time.Second, time.Hour, nil, zerolog.Nop())

	a := f.ForRequest(contextWithCookie("sid-9"))
	b := f.ForRequest(contextWithCookie("sid-9"))
	if a.Tokens != b.Tokens {
		t.Fatalf("same session must be bound to the same token store")
	}
	if len(f.clients) != 1 {
		t.Fatalf("expected one cached client, got %d", len(f.clients))
	}
}

func TestFactory_MintsCookieWhenAbsent(t *testing.T) {
	f := NewFactory("http://backend", time.Second, time.Hour, nil, zerolog.Nop())

	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/session", nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	_ = f.ForRequest(c)

	cookies := rec.Result().Cookies()
	var found *http.Cookie
	for _, ck := range cookies {
		if ck.Name == "sadi_sid" {
			found = ck
		}
	}
	if found == nil || found.Value == "" {
		t.Fatalf("expected a minted session cookie")
	}
	if !found.HttpOnly {
		t.Fatalf("session cookie must be http-only")
	}
}
