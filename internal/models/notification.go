package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/uptrace/bun"
)

// Notification is an in-app message for a user (notificacion).
type Notification struct {
	bun.BaseModel `bun:"table:notificaciones,alias:nt"`

	ID           uuid.UUID        `bun:"id,pk,type:uuid" json:"id"`
	UsuarioID    uuid.UUID        `bun:"usuario_id,type:uuid,notnull" json:"usuarioId"`
	Tipo         NotificationType `bun:"tipo,notnull" json:"tipo"`
	Titulo       string           `bun:"titulo,notnull" json:"titulo"`
	Mensaje      string           `bun:"mensaje" json:"mensaje"`
	Enlace       string           `bun:"enlace" json:"enlace,omitempty"`
	Leida        bool             `bun:"leida" json:"leida"`
	FechaLectura *time.Time       `bun:"fecha_lectura" json:"fechaLectura,omitempty"`
	Timestamps
}

func (n *Notification) GetID() uuid.UUID   { return n.ID }
func (n *Notification) SetID(id uuid.UUID) { n.ID = id }
