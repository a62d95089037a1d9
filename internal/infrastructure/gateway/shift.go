package gateway

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/url"
	"strconv"

	"github.com/accesosen/sadi-client/internal/core/domain"
	"github.com/accesosen/sadi-client/internal/infrastructure/httpclient"
)

// Shift implements ports.ShiftGateway.
type Shift struct {
	client *httpclient.Client
}

func NewShift(client *httpclient.Client) *Shift {
	return &Shift{client: client}
}

// IniciarTurno starts a shift for the authenticated guard. The backend
// answers 400 when the guard already has an active shift, attaching that
// shift to the error body; a guard on duty is not an error, so the existing
// shift is adopted and returned as success.
func (s *Shift) IniciarTurno(ctx context.Context, sede, jornada string) (*domain.TurnoResponse, error) {
	var out domain.TurnoResponse
	body := map[string]string{"sede": sede, "jornada": jornada}
	err := s.client.Post(ctx, "/api/turnos/iniciar/", body, &out)
	if err == nil {
		return &out, nil
	}

	var ae *domain.APIError
	if errors.As(err, &ae) && ae.Kind == domain.KindValidation {
		var conflict domain.TurnoResponse
		if jsonErr := json.Unmarshal(ae.Body, &conflict); jsonErr == nil && conflict.Turno != nil {
			conflict.Permitido = true
			return &conflict, nil
		}
	}
	return nil, err
}

// FinalizarTurno ends the guard's active shift. Idempotent in intent; the
// caller decides how much to care about failure.
func (s *Shift) FinalizarTurno(ctx context.Context) (*domain.TurnoResponse, error) {
	var out domain.TurnoResponse
	if err := s.client.Post(ctx, "/api/turnos/finalizar/", nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// TurnoActual returns the guard's active shift, or nil when the backend
// reports {activo:false}.
func (s *Shift) TurnoActual(ctx context.Context) (*domain.Turno, error) {
	var out domain.Turno
	if err := s.client.Get(ctx, "/api/turnos/actual/", &out); err != nil {
		return nil, err
	}
	if !out.Activo {
		return nil, nil
	}
	return &out, nil
}

// ResumenTurno fetches the ingress/egress aggregate for the close screen.
func (s *Shift) ResumenTurno(ctx context.Context, id int) (*domain.ResumenResponse, error) {
	var out domain.ResumenResponse
	if err := s.client.Get(ctx, fmt.Sprintf("/api/turnos/%d/resumen/", id), &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// ListTurnos queries the shift log. The backend filters on sede, jornada,
// and activo; activo travels as "true"/"false" only when set.
func (s *Shift) ListTurnos(ctx context.Context, filter domain.TurnoFilter) (domain.List[domain.Turno], error) {
	q := url.Values{}
	if filter.Sede != "" {
		q.Set("sede", filter.Sede)
	}
	if filter.Jornada != "" {
		q.Set("jornada", filter.Jornada)
	}
	if filter.Activo != nil {
		q.Set("activo", strconv.FormatBool(*filter.Activo))
	}

	path := "/api/turnos/"
	if encoded := q.Encode(); encoded != "" {
		path += "?" + encoded
	}

	var raw json.RawMessage
	if err := s.client.Get(ctx, path, &raw); err != nil {
		return domain.List[domain.Turno]{}, err
	}
	return normalizeList[domain.Turno](raw)
}

// FinalizarAdmin force-closes another guard's shift (admin override).
func (s *Shift) FinalizarAdmin(ctx context.Context, id int) (*domain.TurnoResponse, error) {
	var out domain.TurnoResponse
	if err := s.client.Post(ctx, fmt.Sprintf("/api/turnos/%d/finalizar_admin/", id), nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}
