package models

import (
	"github.com/google/uuid"
	"github.com/uptrace/bun"
)

// Building is a coworking building (edificio).
type Building struct {
	bun.BaseModel `bun:"table:edificios,alias:ed"`

	ID                   uuid.UUID `bun:"id,pk,type:uuid" json:"id"`
	Nombre               string    `bun:"nombre,notnull" json:"nombre"`
	Descripcion          string    `bun:"descripcion" json:"descripcion,omitempty"`
	Direccion            string    `bun:"direccion,notnull" json:"direccion"`
	Ciudad               string    `bun:"ciudad,notnull" json:"ciudad"`
	Pais                 string    `bun:"pais,notnull" json:"pais"`
	CodigoPostal         string    `bun:"codigo_postal" json:"codigoPostal,omitempty"`
	PropietarioID        uuid.UUID `bun:"propietario_id,type:uuid,nullzero" json:"propietarioId,omitempty"`
	Amenidades           []string  `bun:"amenidades" json:"amenidades"`
	HorarioApertura      string    `bun:"horario_apertura" json:"horarioApertura,omitempty"`
	HorarioCierre        string    `bun:"horario_cierre" json:"horarioCierre,omitempty"`
	CalificacionPromedio float64   `bun:"calificacion_promedio" json:"calificacionPromedio"`
	Activo               bool      `bun:"activo" json:"activo"`
	Timestamps
}

func (b *Building) GetID() uuid.UUID   { return b.ID }
func (b *Building) SetID(id uuid.UUID) { b.ID = id }
func (b *Building) IsActive() bool     { return b.Activo }
func (b *Building) SetActive(on bool)  { b.Activo = on }

// HasAmenity reports whether the building lists amenity.
func (b *Building) HasAmenity(amenity string) bool {
	for _, a := range b.Amenidades {
		if a == amenity {
			return true
		}
	}
	return false
}

// SetAggregateRating stores a recomputed review average.
func (b *Building) SetAggregateRating(v float64) { b.CalificacionPromedio = v }
