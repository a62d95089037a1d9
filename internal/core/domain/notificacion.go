package domain

import (
	"encoding/json"
	"time"
)

// Notification severities.
const (
	NotifInfo    = "INFO"
	NotifWarning = "WARNING"
	NotifUrgent  = "URGENT"
)

// Notificacion is an alert pushed to guards (unreviewed equipment, forced
// shift closes). ReadAt is nil until the guard marks it read.
type Notificacion struct {
	ID        int             `json:"id"`
	Tipo      string          `json:"tipo"`
	Titulo    string          `json:"titulo"`
	Mensaje   string          `json:"mensaje"`
	Data      json.RawMessage `json:"data,omitempty"`
	CreatedAt time.Time       `json:"created_at"`
	ReadAt    *time.Time      `json:"read_at,omitempty"`
}

// TurnoFilter is the query surface of GET /api/turnos/. Zero values are
// omitted from the request; Activo is tri-state.
type TurnoFilter struct {
	Sede    string
	Jornada string
	Activo  *bool
}
