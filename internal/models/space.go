package models

import (
	"github.com/google/uuid"
	"github.com/uptrace/bun"
)

// Space is a bookable space (espacio) inside a building.
type Space struct {
	bun.BaseModel `bun:"table:espacios,alias:es"`

	ID                   uuid.UUID `bun:"id,pk,type:uuid" json:"id"`
	Nombre               string    `bun:"nombre,notnull" json:"nombre"`
	Descripcion          string    `bun:"descripcion" json:"descripcion,omitempty"`
	EdificioID           uuid.UUID `bun:"edificio_id,type:uuid,notnull" json:"edificioId"`
	Edificio             *Building `bun:"rel:belongs-to,join:edificio_id=id" json:"edificio,omitempty"`
	Tipo                 SpaceType `bun:"tipo,notnull" json:"tipo"`
	Capacidad            int       `bun:"capacidad" json:"capacidad"`
	PrecioPorHora        float64   `bun:"precio_por_hora" json:"precioPorHora"`
	Piso                 int       `bun:"piso" json:"piso"`
	Amenidades           []string  `bun:"amenidades" json:"amenidades"`
	CalificacionPromedio float64   `bun:"calificacion_promedio" json:"calificacionPromedio"`
	Activo               bool      `bun:"activo" json:"activo"`
	Timestamps
}

func (s *Space) GetID() uuid.UUID   { return s.ID }
func (s *Space) SetID(id uuid.UUID) { s.ID = id }
func (s *Space) IsActive() bool     { return s.Activo }
func (s *Space) SetActive(on bool)  { s.Activo = on }

// SetAggregateRating stores a recomputed review average.
func (s *Space) SetAggregateRating(v float64) { s.CalificacionPromedio = v }
