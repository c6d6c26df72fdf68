package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/uptrace/bun"
)

// Payment records money received (pago), optionally for a reservation.
type Payment struct {
	bun.BaseModel `bun:"table:pagos,alias:pg"`

	ID          uuid.UUID     `bun:"id,pk,type:uuid" json:"id"`
	UsuarioID   uuid.UUID     `bun:"usuario_id,type:uuid,notnull" json:"usuarioId"`
	ReservaID   uuid.UUID     `bun:"reserva_id,type:uuid,nullzero" json:"reservaId,omitempty"`
	Monto       float64       `bun:"monto" json:"monto"`
	Moneda      string        `bun:"moneda" json:"moneda"`
	Metodo      PaymentMethod `bun:"metodo,notnull" json:"metodo"`
	Estado      PaymentStatus `bun:"estado,notnull" json:"estado"`
	Fecha       time.Time     `bun:"fecha,notnull" json:"fecha"`
	Referencia  string        `bun:"referencia" json:"referencia,omitempty"`
	Descripcion string        `bun:"descripcion" json:"descripcion,omitempty"`
	Timestamps
}

func (p *Payment) GetID() uuid.UUID   { return p.ID }
func (p *Payment) SetID(id uuid.UUID) { p.ID = id }
