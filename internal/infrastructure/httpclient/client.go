// Package httpclient is the single request pipeline every gateway goes
// through: it attaches the bearer credential, enforces the client-side
// deadline, classifies failures into the domain error taxonomy, and runs the
// refresh-on-401 protocol with single-flight de-duplication.
package httpclient

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"golang.org/x/sync/singleflight"

	"github.com/accesosen/sadi-client/internal/core/domain"
	"github.com/accesosen/sadi-client/internal/core/ports"
)

const defaultTimeout = 15 * time.Second

// tokenPath marks the endpoints whose 401 means bad credentials, not an
// expired session; they never trigger a refresh.
const tokenPath = "/api/token"

// refreshKey is the single-flight key: at most one refresh call is in
// flight per client, and every concurrent 401 handler joins it. Anything
// sharing a token store must share the client too.
const refreshKey = "refresh"

// Client wraps outbound requests to the AccesoSEN backend.
type Client struct {
	base    string
	http    *http.Client
	tokens  ports.TokenStore
	refresh singleflight.Group
	log     zerolog.Logger
}

// Options configures a Client. Timeout defaults to 15s when unset.
type Options struct {
	BaseURL string
	Timeout time.Duration
	Tokens  ports.TokenStore
	Logger  zerolog.Logger
}

func New(opts Options) *Client {
	timeout := opts.Timeout
	if timeout <= 0 {
		timeout = defaultTimeout
	}
	return &Client{
		base:   strings.TrimRight(opts.BaseURL, "/"),
		http:   &http.Client{Timeout: timeout},
		tokens: opts.Tokens,
		log:    opts.Logger,
	}
}

// Tokens exposes the store this client reads its credentials from.
func (c *Client) Tokens() ports.TokenStore {
	return c.tokens
}

// Get issues a GET and decodes the JSON response into out (ignored if nil).
func (c *Client) Get(ctx context.Context, path string, out any) error {
	return c.Do(ctx, http.MethodGet, path, nil, out)
}

// Post issues a POST with a JSON body (nil for empty) and decodes into out.
func (c *Client) Post(ctx context.Context, path string, body, out any) error {
	return c.Do(ctx, http.MethodPost, path, body, out)
}

// Patch issues a PATCH with a JSON body and decodes into out.
func (c *Client) Patch(ctx context.Context, path string, body, out any) error {
	return c.Do(ctx, http.MethodPatch, path, body, out)
}

// Delete issues a DELETE.
func (c *Client) Delete(ctx context.Context, path string) error {
	return c.Do(ctx, http.MethodDelete, path, nil, nil)
}

// Do runs one request through the full pipeline. On a 401 outside the token
// endpoints it performs the refresh protocol and retries the original
// request exactly once with the new access token.
func (c *Client) Do(ctx context.Context, method, path string, body, out any) error {
	var payload []byte
	if body != nil {
		var err error
		payload, err = json.Marshal(body)
		if err != nil {
			return fmt.Errorf("encode request body: %w", err)
		}
	}

	status, respBody, err := c.roundTrip(ctx, method, path, payload, c.tokens.Access(ctx))
	if err != nil {
		return err
	}

	if status == http.StatusUnauthorized && !strings.HasPrefix(path, tokenPath) {
		// One retry per original request; the loop guard lives here, not in
		// the caller.
		access, refreshErr := c.refreshTokens(ctx)
		if refreshErr != nil || access == "" {
			_ = c.tokens.Clear(ctx)
			ObserveError(domain.KindSessionExpired)
			return domain.NewAPIError(domain.KindSessionExpired, status, "tu sesión expiró, inicia sesión de nuevo", respBody)
		}
		status, respBody, err = c.roundTrip(ctx, method, path, payload, access)
		if err != nil {
			return err
		}
	}

	if status >= 400 {
		apiErr := classify(status, path, respBody)
		ObserveError(apiErr.Kind)
		return apiErr
	}

	if out != nil && len(respBody) > 0 {
		if err := json.Unmarshal(respBody, out); err != nil {
			return domain.NewAPIError(domain.KindGeneric, status, "respuesta inesperada del servidor", respBody)
		}
	}
	return nil
}

// roundTrip performs a single HTTP exchange. Transport-level failures are
// classified here (NETWORK vs TIMEOUT); HTTP status handling is the
// caller's job so the 401 protocol can see the status.
func (c *Client) roundTrip(ctx context.Context, method, path string, payload []byte, access string) (int, []byte, error) {
	var reader io.Reader
	if payload != nil {
		reader = bytes.NewReader(payload)
	}
	req, err := http.NewRequestWithContext(ctx, method, c.base+path, reader)
	if err != nil {
		return 0, nil, domain.NewAPIError(domain.KindGeneric, 0, "no se pudo construir la petición", nil)
	}
	req.Header.Set("Accept", "application/json")
	if payload != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if access != "" {
		req.Header.Set("Authorization", "Bearer "+access)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		kind := domain.KindNetwork
		msg := "no hay conexión con el servidor"
		if isTimeout(err) {
			kind = domain.KindTimeout
			msg = "el servidor tardó demasiado en responder"
		}
		ObserveError(kind)
		return 0, nil, domain.NewAPIError(kind, 0, msg, nil)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		ObserveError(domain.KindNetwork)
		return 0, nil, domain.NewAPIError(domain.KindNetwork, resp.StatusCode, "no hay conexión con el servidor", nil)
	}
	ObserveRequest(method, resp.StatusCode)
	return resp.StatusCode, respBody, nil
}

// refreshTokens runs the single-flight refresh. All concurrent 401 handlers
// share one in-flight call and observe its single outcome; the slot is
// cleared once settled so the next expiry can refresh again.
func (c *Client) refreshTokens(ctx context.Context) (string, error) {
	v, err, _ := c.refresh.Do(refreshKey, func() (any, error) {
		refresh := c.tokens.Refresh(ctx)
		if refresh == "" {
			ObserveRefresh("no_token")
			return "", nil
		}

		payload, _ := json.Marshal(map[string]string{"refresh": refresh})
		status, body, rtErr := c.roundTrip(ctx, http.MethodPost, "/api/token/refresh/", payload, "")
		if rtErr != nil || status >= 400 {
			_ = c.tokens.Clear(ctx)
			ObserveRefresh("failure")
			c.log.Warn().Int("status", status).Msg("token refresh failed, clearing credentials")
			return "", nil
		}

		var out struct {
			Access string `json:"access"`
		}
		if jsonErr := json.Unmarshal(body, &out); jsonErr != nil || out.Access == "" {
			_ = c.tokens.Clear(ctx)
			ObserveRefresh("failure")
			return "", nil
		}

		// New access, same refresh: the backend does not rotate refresh
		// tokens on this endpoint.
		if saveErr := c.tokens.Save(ctx, out.Access, refresh); saveErr != nil {
			c.log.Warn().Err(saveErr).Msg("could not persist refreshed token")
		}
		ObserveRefresh("success")
		return out.Access, nil
	})
	if err != nil {
		return "", err
	}
	access, _ := v.(string)
	return access, nil
}

func isTimeout(err error) bool {
	if errors.Is(err, context.DeadlineExceeded) {
		return true
	}
	var ne net.Error
	return errors.As(err, &ne) && ne.Timeout()
}
