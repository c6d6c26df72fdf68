package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/uptrace/bun"
)

// Membership is a subscription plan (membresia).
type Membership struct {
	bun.BaseModel `bun:"table:membresias,alias:mb"`

	ID               uuid.UUID      `bun:"id,pk,type:uuid" json:"id"`
	Nombre           string         `bun:"nombre,notnull" json:"nombre"`
	Descripcion      string         `bun:"descripcion" json:"descripcion,omitempty"`
	Tipo             MembershipType `bun:"tipo,notnull" json:"tipo"`
	Precio           float64        `bun:"precio" json:"precio"`
	DuracionDias     int            `bun:"duracion_dias" json:"duracionDias"`
	HorasIncluidas   int            `bun:"horas_incluidas" json:"horasIncluidas"`
	DescuentoReserva float64        `bun:"descuento_reserva" json:"descuentoReserva"`
	Beneficios       []string       `bun:"beneficios" json:"beneficios"`
	Activo           bool           `bun:"activo" json:"activo"`
	Timestamps
}

func (m *Membership) GetID() uuid.UUID   { return m.ID }
func (m *Membership) SetID(id uuid.UUID) { m.ID = id }
func (m *Membership) IsActive() bool     { return m.Activo }
func (m *Membership) SetActive(on bool)  { m.Activo = on }

// MembershipSnapshot is the copy of a membership subscription stored on the
// user record, so that "has an active membership" is a single read.
type MembershipSnapshot struct {
	MembresiaID          uuid.UUID       `json:"membresiaId"`
	Nombre               string          `json:"nombre"`
	Tipo                 MembershipType  `json:"tipo"`
	FechaInicio          time.Time       `json:"fechaInicio"`
	FechaVencimiento     time.Time       `json:"fechaVencimiento"`
	RenovacionAutomatica bool            `json:"renovacionAutomatica"`
	Estado               MembershipState `json:"estado"`
	FechaCancelacion     *time.Time      `json:"fechaCancelacion,omitempty"`
	MotivoCancelacion    string          `json:"motivoCancelacion,omitempty"`
}

// ActiveAt reports whether the subscription is active and not expired at now.
func (s *MembershipSnapshot) ActiveAt(now time.Time) bool {
	if s == nil || s.Estado != MembershipActive {
		return false
	}
	return !now.After(s.FechaVencimiento)
}

// NewSnapshot subscribes to m starting at start. The expiry is start plus
// DuracionDias calendar days.
func NewSnapshot(m *Membership, start time.Time, autoRenew bool) *MembershipSnapshot {
	start = start.UTC()
	return &MembershipSnapshot{
		MembresiaID:          m.ID,
		Nombre:               m.Nombre,
		Tipo:                 m.Tipo,
		FechaInicio:          start,
		FechaVencimiento:     start.AddDate(0, 0, m.DuracionDias),
		RenovacionAutomatica: autoRenew,
		Estado:               MembershipActive,
	}
}
