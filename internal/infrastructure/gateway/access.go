package gateway

import (
	"context"
	"encoding/json"
	"net/url"
	"strconv"

	"github.com/accesosen/sadi-client/internal/core/domain"
	"github.com/accesosen/sadi-client/internal/infrastructure/httpclient"
)

// Access implements ports.AccessGateway.
type Access struct {
	client *httpclient.Client
}

func NewAccess(client *httpclient.Client) *Access {
	return &Access{client: client}
}

// ValidarDocumento checks whether the holder of the document may enter and
// returns their approved equipment.
func (a *Access) ValidarDocumento(ctx context.Context, documento string) (*domain.ValidacionDocumento, error) {
	var out domain.ValidacionDocumento
	body := map[string]string{"documento": documento}
	if err := a.client.Post(ctx, "/api/accesos/validar_documento/", body, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// RegistrarPorDocumento records an ingress or egress, optionally with the
// equipment the learner carries.
func (a *Access) RegistrarPorDocumento(ctx context.Context, documento, tipo string, equipos []int) (*domain.ValidacionDocumento, error) {
	body := map[string]any{"documento": documento, "tipo": tipo}
	if len(equipos) > 0 {
		body["equipos"] = equipos
	}
	var out domain.ValidacionDocumento
	if err := a.client.Post(ctx, "/api/accesos/registrar_por_documento/", body, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// Stats returns the running ingress/egress counts for the guard's shift.
func (a *Access) Stats(ctx context.Context) (*domain.StatsTurno, error) {
	var out domain.StatsTurno
	if err := a.client.Get(ctx, "/api/accesos/stats/", &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// Estado returns the learner's current in/out state.
func (a *Access) Estado(ctx context.Context) (*domain.EstadoAcceso, error) {
	var out domain.EstadoAcceso
	if err := a.client.Get(ctx, "/api/accesos/estado/", &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// MisAccesos lists the authenticated learner's own access history.
func (a *Access) MisAccesos(ctx context.Context) (domain.List[domain.Acceso], error) {
	return a.fetchList(ctx, "/api/accesos/mis_accesos/")
}

// List queries the admin access log with the full filter surface.
func (a *Access) List(ctx context.Context, filter domain.AccesoFilter) (domain.List[domain.Acceso], error) {
	q := url.Values{}
	setStr := func(key, v string) {
		if v != "" {
			q.Set(key, v)
		}
	}
	setInt := func(key string, v int) {
		if v > 0 {
			q.Set(key, strconv.Itoa(v))
		}
	}
	setStr("q", filter.Q)
	setStr("tipo", filter.Tipo)
	setStr("sede", filter.Sede)
	setInt("usuario", filter.Usuario)
	setInt("registrado_por", filter.RegistradoPor)
	setStr("date_from", filter.DateFrom)
	setStr("date_to", filter.DateTo)
	setInt("page", filter.Page)
	setInt("page_size", filter.PageSize)

	path := "/api/accesos/"
	if encoded := q.Encode(); encoded != "" {
		path += "?" + encoded
	}
	return a.fetchList(ctx, path)
}

func (a *Access) fetchList(ctx context.Context, path string) (domain.List[domain.Acceso], error) {
	var raw json.RawMessage
	if err := a.client.Get(ctx, path, &raw); err != nil {
		return domain.List[domain.Acceso]{}, err
	}
	return normalizeList[domain.Acceso](raw)
}
