package gateway

import (
	"context"
	"encoding/json"
	"fmt"
	"net/url"
	"strconv"

	"github.com/accesosen/sadi-client/internal/core/domain"
	"github.com/accesosen/sadi-client/internal/infrastructure/httpclient"
)

// Directory implements ports.DirectoryGateway: the admin CRUD surface for
// users and equipment.
type Directory struct {
	client *httpclient.Client
}

func NewDirectory(client *httpclient.Client) *Directory {
	return &Directory{client: client}
}

func (d *Directory) ListUsuarios(ctx context.Context, q string, page, pageSize int) (domain.List[domain.Usuario], error) {
	var raw json.RawMessage
	if err := d.client.Get(ctx, listPath("/api/usuarios/", q, page, pageSize), &raw); err != nil {
		return domain.List[domain.Usuario]{}, err
	}
	return normalizeList[domain.Usuario](raw)
}

func (d *Directory) CreateUsuario(ctx context.Context, in domain.UsuarioInput) (*domain.Usuario, error) {
	var out domain.Usuario
	if err := d.client.Post(ctx, "/api/usuarios/", in, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (d *Directory) UpdateUsuario(ctx context.Context, id int, in domain.UsuarioInput) (*domain.Usuario, error) {
	var out domain.Usuario
	if err := d.client.Patch(ctx, fmt.Sprintf("/api/usuarios/%d/", id), in, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (d *Directory) DeleteUsuario(ctx context.Context, id int) error {
	return d.client.Delete(ctx, fmt.Sprintf("/api/usuarios/%d/", id))
}

func (d *Directory) ListEquipos(ctx context.Context, q string, page, pageSize int) (domain.List[domain.Equipo], error) {
	var raw json.RawMessage
	if err := d.client.Get(ctx, listPath("/api/equipos/", q, page, pageSize), &raw); err != nil {
		return domain.List[domain.Equipo]{}, err
	}
	return normalizeList[domain.Equipo](raw)
}

func (d *Directory) CreateEquipo(ctx context.Context, in domain.EquipoInput) (*domain.Equipo, error) {
	var out domain.Equipo
	if err := d.client.Post(ctx, "/api/equipos/", in, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (d *Directory) UpdateEquipo(ctx context.Context, id int, in domain.EquipoInput) (*domain.Equipo, error) {
	var out domain.Equipo
	if err := d.client.Patch(ctx, fmt.Sprintf("/api/equipos/%d/", id), in, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (d *Directory) DeleteEquipo(ctx context.Context, id int) error {
	return d.client.Delete(ctx, fmt.Sprintf("/api/equipos/%d/", id))
}

// RevisarEquipo approves or rejects a learner's equipment.
func (d *Directory) RevisarEquipo(ctx context.Context, id int, in domain.RevisionInput) (*domain.Equipo, error) {
	var out domain.Equipo
	if err := d.client.Post(ctx, fmt.Sprintf("/api/equipos/%d/revisar/", id), in, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func listPath(base, q string, page, pageSize int) string {
	v := url.Values{}
	if q != "" {
		v.Set("q", q)
	}
	if page > 0 {
		v.Set("page", strconv.Itoa(page))
	}
	if pageSize > 0 {
		v.Set("page_size", strconv.Itoa(pageSize))
	}
	if encoded := v.Encode(); encoded != "" {
		return base + "?" + encoded
	}
	return base
}
