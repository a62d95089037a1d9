package gateway

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/accesosen/sadi-client/internal/core/domain"
	"github.com/accesosen/sadi-client/internal/infrastructure/httpclient"
)

// Notification implements ports.NotificationGateway.
type Notification struct {
	client *httpclient.Client
}

func NewNotification(client *httpclient.Client) *Notification {
	return &Notification{client: client}
}

// ListNotificaciones returns the caller's alerts, newest first per the
// backend's ordering.
func (n *Notification) ListNotificaciones(ctx context.Context) (domain.List[domain.Notificacion], error) {
	var raw json.RawMessage
	if err := n.client.Get(ctx, "/api/notificaciones/", &raw); err != nil {
		return domain.List[domain.Notificacion]{}, err
	}
	return normalizeList[domain.Notificacion](raw)
}

// MarcarLeida stamps read_at on one alert.
func (n *Notification) MarcarLeida(ctx context.Context, id int) (*domain.Notificacion, error) {
	var out domain.Notificacion
	if err := n.client.Patch(ctx, fmt.Sprintf("/api/notificaciones/%d/leer/", id), nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}
