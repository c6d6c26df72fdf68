// Package models holds the bun table models of the coworking domain together
// with their enumerations and state machines.
package models

import (
	"time"

	"github.com/google/uuid"
)

// Timestamps is embedded by every table.
type Timestamps struct {
	CreatedAt time.Time `bun:"fecha_creacion,nullzero" json:"fechaCreacion"`
	UpdatedAt time.Time `bun:"fecha_actualizacion,nullzero" json:"fechaActualizacion"`
}

// Touch stamps the record for a write at now.
func (t *Timestamps) Touch(now time.Time) {
	now = now.UTC()
	if t.CreatedAt.IsZero() {
		t.CreatedAt = now
	}
	t.UpdatedAt = now
}

// All returns one zero value of every table model, in dependency order.
func All() []any {
	return []any{
		(*User)(nil),
		(*Building)(nil),
		(*Space)(nil),
		(*Office)(nil),
		(*AddOnService)(nil),
		(*Membership)(nil),
		(*Reservation)(nil),
		(*ServiceReservation)(nil),
		(*Payment)(nil),
		(*Review)(nil),
		(*Promotion)(nil),
		(*Notification)(nil),
	}
}

// OptionalID renders an optional foreign key; the nil UUID means "absent"
// and renders as "".
func OptionalID(id uuid.UUID) string {
	if id == uuid.Nil {
		return ""
	}
	return id.String()
}
