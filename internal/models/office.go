package models

import (
	"github.com/google/uuid"
	"github.com/uptrace/bun"
)

// Office is a private office (oficina) leased monthly to a company.
type Office struct {
	bun.BaseModel `bun:"table:oficinas,alias:of"`

	ID                   uuid.UUID    `bun:"id,pk,type:uuid" json:"id"`
	Nombre               string       `bun:"nombre,notnull" json:"nombre"`
	Numero               string       `bun:"numero" json:"numero,omitempty"`
	EdificioID           uuid.UUID    `bun:"edificio_id,type:uuid,notnull" json:"edificioId"`
	Edificio             *Building    `bun:"rel:belongs-to,join:edificio_id=id" json:"edificio,omitempty"`
	EmpresaID            uuid.UUID    `bun:"empresa_id,type:uuid,nullzero" json:"empresaId,omitempty"`
	Capacidad            int          `bun:"capacidad" json:"capacidad"`
	Area                 float64      `bun:"area" json:"area"`
	PrecioMensual        float64      `bun:"precio_mensual" json:"precioMensual"`
	Estado               OfficeStatus `bun:"estado,notnull" json:"estado"`
	CalificacionPromedio float64      `bun:"calificacion_promedio" json:"calificacionPromedio"`
	Activo               bool         `bun:"activo" json:"activo"`
	Timestamps
}

func (o *Office) GetID() uuid.UUID   { return o.ID }
func (o *Office) SetID(id uuid.UUID) { o.ID = id }
func (o *Office) IsActive() bool     { return o.Activo }
func (o *Office) SetActive(on bool)  { o.Activo = on }

// SetAggregateRating stores a recomputed review average.
func (o *Office) SetAggregateRating(v float64) { o.CalificacionPromedio = v }
