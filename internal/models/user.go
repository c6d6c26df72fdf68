package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/uptrace/bun"
)

// StoredPaymentMethod is a payment method saved on a user profile. Only the
// last four digits of a card are kept.
type StoredPaymentMethod struct {
	Tipo           PaymentMethod `json:"tipo"`
	Titular        string        `json:"titular,omitempty"`
	Ultimos4       string        `json:"ultimos4,omitempty"`
	Vencimiento    string        `json:"vencimiento,omitempty"`
	Predeterminado bool          `json:"predeterminado"`
}

// User is an account (usuario).
type User struct {
	bun.BaseModel `bun:"table:usuarios,alias:us"`

	ID          uuid.UUID             `bun:"id,pk,type:uuid" json:"id"`
	Nombre      string                `bun:"nombre,notnull" json:"nombre"`
	Apellido    string                `bun:"apellido" json:"apellido,omitempty"`
	Email       string                `bun:"email,notnull,unique" json:"email"`
	Telefono    string                `bun:"telefono" json:"telefono,omitempty"`
	Rol         Role                  `bun:"rol,notnull" json:"rol"`
	EmpresaID   uuid.UUID             `bun:"empresa_id,type:uuid,nullzero" json:"empresaId,omitempty"`
	MembresiaID uuid.UUID             `bun:"membresia_id,type:uuid,nullzero" json:"membresiaId,omitempty"`
	Membresia   *MembershipSnapshot   `bun:"membresia" json:"membresia,omitempty"`
	MetodosPago []StoredPaymentMethod `bun:"metodos_pago" json:"metodosPago"`
	Activo      bool                  `bun:"activo" json:"activo"`
	Timestamps
}

func (u *User) GetID() uuid.UUID   { return u.ID }
func (u *User) SetID(id uuid.UUID) { u.ID = id }
func (u *User) IsActive() bool     { return u.Activo }
func (u *User) SetActive(on bool)  { u.Activo = on }

// HasActiveMembership reports whether the stored snapshot is active at now.
func (u *User) HasActiveMembership(now time.Time) bool {
	return u.Membresia.ActiveAt(now)
}
