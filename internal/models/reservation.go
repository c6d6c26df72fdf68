package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/uptrace/bun"
)

// Reservation books a space (reserva) for a time slot.
type Reservation struct {
	bun.BaseModel `bun:"table:reservas,alias:rs"`

	ID                uuid.UUID         `bun:"id,pk,type:uuid" json:"id"`
	UsuarioID         uuid.UUID         `bun:"usuario_id,type:uuid,notnull" json:"usuarioId"`
	EspacioID         uuid.UUID         `bun:"espacio_id,type:uuid,notnull" json:"espacioId"`
	Espacio           *Space            `bun:"rel:belongs-to,join:espacio_id=id" json:"espacio,omitempty"`
	FechaInicio       time.Time         `bun:"fecha_inicio,notnull" json:"fechaInicio"`
	FechaFin          time.Time         `bun:"fecha_fin,notnull" json:"fechaFin"`
	Estado            ReservationStatus `bun:"estado,notnull" json:"estado"`
	PrecioTotal       float64           `bun:"precio_total" json:"precioTotal"`
	Asistentes        int               `bun:"asistentes" json:"asistentes,omitempty"`
	Notas             string            `bun:"notas" json:"notas,omitempty"`
	CodigoPromocion   string            `bun:"codigo_promocion" json:"codigoPromocion,omitempty"`
	MotivoCancelacion string            `bun:"motivo_cancelacion" json:"motivoCancelacion,omitempty"`
	Timestamps
}

func (r *Reservation) GetID() uuid.UUID   { return r.ID }
func (r *Reservation) SetID(id uuid.UUID) { r.ID = id }

// Hours returns the booked duration in hours.
func (r *Reservation) Hours() float64 {
	return r.FechaFin.Sub(r.FechaInicio).Hours()
}

// ServiceReservation books an add-on service (reserva de servicio).
type ServiceReservation struct {
	bun.BaseModel `bun:"table:reservas_servicios,alias:rsv"`

	ID          uuid.UUID                `bun:"id,pk,type:uuid" json:"id"`
	UsuarioID   uuid.UUID                `bun:"usuario_id,type:uuid,notnull" json:"usuarioId"`
	ServicioID  uuid.UUID                `bun:"servicio_id,type:uuid,notnull" json:"servicioId"`
	Servicio    *AddOnService            `bun:"rel:belongs-to,join:servicio_id=id" json:"servicio,omitempty"`
	ReservaID   uuid.UUID                `bun:"reserva_id,type:uuid,nullzero" json:"reservaId,omitempty"`
	Cantidad    int                      `bun:"cantidad" json:"cantidad"`
	Fecha       time.Time                `bun:"fecha,notnull" json:"fecha"`
	Estado      ServiceReservationStatus `bun:"estado,notnull" json:"estado"`
	PrecioTotal float64                  `bun:"precio_total" json:"precioTotal"`
	Notas       string                   `bun:"notas" json:"notas,omitempty"`
	Timestamps
}

func (r *ServiceReservation) GetID() uuid.UUID   { return r.ID }
func (r *ServiceReservation) SetID(id uuid.UUID) { r.ID = id }
