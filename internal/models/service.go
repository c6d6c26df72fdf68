package models

import (
	"github.com/google/uuid"
	"github.com/uptrace/bun"
)

// AddOnService is an add-on service (servicio) offered in a building.
type AddOnService struct {
	bun.BaseModel `bun:"table:servicios,alias:sv"`

	ID                   uuid.UUID       `bun:"id,pk,type:uuid" json:"id"`
	Nombre               string          `bun:"nombre,notnull" json:"nombre"`
	Descripcion          string          `bun:"descripcion" json:"descripcion,omitempty"`
	Categoria            ServiceCategory `bun:"categoria,notnull" json:"categoria"`
	Precio               float64         `bun:"precio" json:"precio"`
	Unidad               string          `bun:"unidad" json:"unidad,omitempty"`
	EdificioID           uuid.UUID       `bun:"edificio_id,type:uuid,nullzero" json:"edificioId,omitempty"`
	Edificio             *Building       `bun:"rel:belongs-to,join:edificio_id=id" json:"edificio,omitempty"`
	CalificacionPromedio float64         `bun:"calificacion_promedio" json:"calificacionPromedio"`
	Activo               bool            `bun:"activo" json:"activo"`
	Timestamps
}

func (s *AddOnService) GetID() uuid.UUID   { return s.ID }
func (s *AddOnService) SetID(id uuid.UUID) { s.ID = id }
func (s *AddOnService) IsActive() bool     { return s.Activo }
func (s *AddOnService) SetActive(on bool)  { s.Activo = on }

// SetAggregateRating stores a recomputed review average.
func (s *AddOnService) SetAggregateRating(v float64) { s.CalificacionPromedio = v }
