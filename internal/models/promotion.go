package models

import (
	"math"
	"time"

	"github.com/google/uuid"
	"github.com/uptrace/bun"
)

// Promotion is a discount code (promocion).
type Promotion struct {
	bun.BaseModel `bun:"table:promociones,alias:pr"`

	ID             uuid.UUID      `bun:"id,pk,type:uuid" json:"id"`
	Codigo         string         `bun:"codigo,notnull,unique" json:"codigo"`
	Descripcion    string         `bun:"descripcion" json:"descripcion,omitempty"`
	TipoDescuento  DiscountType   `bun:"tipo_descuento,notnull" json:"tipoDescuento"`
	ValorDescuento float64        `bun:"valor_descuento" json:"valorDescuento"`
	FechaInicio    time.Time      `bun:"fecha_inicio,notnull" json:"fechaInicio"`
	FechaFin       time.Time      `bun:"fecha_fin,notnull" json:"fechaFin"`
	UsosMaximos    int            `bun:"usos_maximos" json:"usosMaximos"`
	UsosActuales   int            `bun:"usos_actuales" json:"usosActuales"`
	MontoMinimo    float64        `bun:"monto_minimo" json:"montoMinimo"`
	AplicaA        PromotionScope `bun:"aplica_a,notnull" json:"aplicaA"`
	Activo         bool           `bun:"activo" json:"activo"`
	Timestamps
}

func (p *Promotion) GetID() uuid.UUID   { return p.ID }
func (p *Promotion) SetID(id uuid.UUID) { p.ID = id }
func (p *Promotion) IsActive() bool     { return p.Activo }
func (p *Promotion) SetActive(on bool)  { p.Activo = on }

// Usable reports whether the promotion can be redeemed at now: it must be
// active, inside its validity window and below its usage cap (0 = no cap).
func (p *Promotion) Usable(now time.Time) bool {
	if !p.Activo {
		return false
	}
	if now.Before(p.FechaInicio) || now.After(p.FechaFin) {
		return false
	}
	return p.UsosMaximos == 0 || p.UsosActuales < p.UsosMaximos
}

// Discount returns the discount applied to amount, never more than amount.
func (p *Promotion) Discount(amount float64) float64 {
	var d float64
	switch p.TipoDescuento {
	case DiscountPercent:
		d = amount * p.ValorDescuento / 100
	case DiscountFixed:
		d = p.ValorDescuento
	}
	d = math.Min(d, amount)
	return math.Round(d*100) / 100
}
