// Package scope builds the per-browser client stack for the BFF. Every
// request gets gateways bound to the caller's own backend tokens, which live
// in redis under the opaque session ID carried by the sadi_sid cookie.
package scope

import (
	"crypto/rand"
	"encoding/hex"
	"net/http"
	"sync"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"

	"github.com/accesosen/sadi-client/internal/core/ports"
	"github.com/accesosen/sadi-client/internal/core/service"
	"github.com/accesosen/sadi-client/internal/infrastructure/gateway"
	"github.com/accesosen/sadi-client/internal/infrastructure/httpclient"
	"github.com/accesosen/sadi-client/internal/infrastructure/tokenstore"
)

const cookieName = "sadi_sid"

// Clients bundles the request-scoped client stack.
type Clients struct {
	Tokens        ports.TokenStore
	Auth          ports.AuthGateway
	Shifts        ports.ShiftGateway
	Access        ports.AccessGateway
	Directory     ports.DirectoryGateway
	Notifications ports.NotificationGateway
	Session       ports.SessionService
}

// Factory produces request-scoped client stacks.
type Factory struct {
	baseURL    string
	timeout    time.Duration
	sessionTTL time.Duration
	rdb        *redis.Client
	log        zerolog.Logger

	// One HTTP client per browser session. Concurrent requests from the
	// same browser must share a single refresh single-flight group, or
	// parallel 401s would each run their own refresh and race the token
	// writes in redis.
	mu      sync.Mutex
	clients map[string]*httpclient.Client
}

func NewFactory(baseURL string, timeout, sessionTTL time.Duration, rdb *redis.Client, log zerolog.Logger) *Factory {
	return &Factory{
		baseURL:    baseURL,
		timeout:    timeout,
		sessionTTL: sessionTTL,
		rdb:        rdb,
		log:        log,
		clients:    make(map[string]*httpclient.Client),
	}
}

// ForRequest resolves (or mints) the browser session ID and assembles the
// gateway stack bound to it. The HTTP client is shared across the session's
// requests; the Session view on top of it is cheap and built per request to
// keep the state machine injectable instead of ambient.
func (f *Factory) ForRequest(c echo.Context) *Clients {
	client := f.clientFor(f.sessionID(c))
	tokens := client.Tokens()
	auth := gateway.NewAuth(client, tokens)
	shifts := gateway.NewShift(client)
	return &Clients{
		Tokens:        tokens,
		Auth:          auth,
		Shifts:        shifts,
		Access:        gateway.NewAccess(client),
		Directory:     gateway.NewDirectory(client),
		Notifications: gateway.NewNotification(client),
		Session:       service.NewSession(tokens, auth, shifts, f.log),
	}
}

// clientFor returns the session's HTTP client, creating it on first use.
func (f *Factory) clientFor(sid string) *httpclient.Client {
	f.mu.Lock()
	defer f.mu.Unlock()
	if client, ok := f.clients[sid]; ok {
		return client
	}
	tokens := tokenstore.NewRedis(f.rdb, sid, f.sessionTTL)
	client := httpclient.New(httpclient.Options{
		BaseURL: f.baseURL,
		Timeout: f.timeout,
		Tokens:  tokens,
		Logger:  f.log,
	})
	f.clients[sid] = client
	return client
}

func (f *Factory) sessionID(c echo.Context) string {
	if cookie, err := c.Cookie(cookieName); err == nil && cookie.Value != "" {
		return cookie.Value
	}
	sid := newSessionID()
	c.SetCookie(&http.Cookie{
		Name:     cookieName,
		Value:    sid,
		Path:     "/",
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
		MaxAge:   int(f.sessionTTL / time.Second),
	})
	return sid
}

func newSessionID() string {
	b := make([]byte, 16)
	if _, err := rand.Read(b); err != nil {
		// crypto/rand failing is unrecoverable for session issuance.
		panic(err)
	}
	return hex.EncodeToString(b)
}
