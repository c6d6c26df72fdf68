package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/uptrace/bun"
)

// Aspects are the optional sub-ratings of a review. Zero means not rated.
type Aspects struct {
	Limpieza              int `bun:"aspecto_limpieza" json:"limpieza,omitempty"`
	Ubicacion             int `bun:"aspecto_ubicacion" json:"ubicacion,omitempty"`
	Servicio              int `bun:"aspecto_servicio" json:"servicio,omitempty"`
	RelacionCalidadPrecio int `bun:"aspecto_relacion_calidad_precio" json:"relacionCalidadPrecio,omitempty"`
}

// Review is a user review (resena) of a building, space, office or service.
type Review struct {
	bun.BaseModel `bun:"table:resenas,alias:rn"`

	ID               uuid.UUID        `bun:"id,pk,type:uuid" json:"id"`
	UsuarioID        uuid.UUID        `bun:"usuario_id,type:uuid,notnull" json:"usuarioId"`
	EntidadTipo      EntityType       `bun:"entidad_tipo,notnull" json:"entidadTipo"`
	EntidadID        uuid.UUID        `bun:"entidad_id,type:uuid,notnull" json:"entidadId"`
	Calificacion     int              `bun:"calificacion,notnull" json:"calificacion"`
	Titulo           string           `bun:"titulo" json:"titulo,omitempty"`
	Comentario       string           `bun:"comentario" json:"comentario,omitempty"`
	Aspectos         Aspects          `bun:"embed:" json:"aspectos"`
	EstadoModeracion ModerationStatus `bun:"estado_moderacion,notnull" json:"estadoModeracion"`
	MotivoRechazo    string           `bun:"motivo_rechazo" json:"motivoRechazo,omitempty"`
	FechaModeracion  *time.Time       `bun:"fecha_moderacion" json:"fechaModeracion,omitempty"`
	Timestamps
}

func (r *Review) GetID() uuid.UUID   { return r.ID }
func (r *Review) SetID(id uuid.UUID) { r.ID = id }

// RatingSummary aggregates the approved reviews of one entity.
type RatingSummary struct {
	EntidadTipo           EntityType `json:"entidadTipo"`
	EntidadID             uuid.UUID  `json:"entidadId"`
	Promedio              float64    `json:"promedio"`
	Total                 int        `json:"total"`
	Limpieza              float64    `json:"limpieza"`
	Ubicacion             float64    `json:"ubicacion"`
	Servicio              float64    `json:"servicio"`
	RelacionCalidadPrecio float64    `json:"relacionCalidadPrecio"`
}
