package repo

import (
	"context"
	"database/sql"
	"math"
	"slices"
	"time"

	"github.com/goliatone/go-coworking/cache"
	"github.com/goliatone/go-coworking/internal/apperr"
	"github.com/goliatone/go-coworking/internal/models"
	"github.com/goliatone/go-coworking/repositorycache"
	repository "github.com/goliatone/go-repository-bun"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// ReviewFilter narrows a review listing.
type ReviewFilter struct {
	UsuarioID        uuid.UUID               `json:"usuarioId,omitempty"`
	EntidadTipo      models.EntityType       `json:"entidadTipo,omitempty"`
	EntidadID        uuid.UUID               `json:"entidadId,omitempty"`
	EstadoModeracion models.ModerationStatus `json:"estadoModeracion,omitempty"`
	CalificacionMin  int                     `json:"calificacionMin,omitempty"`
}

func (f ReviewFilter) criteria() []repository.SelectCriteria {
	var c []repository.SelectCriteria
	if f.UsuarioID != uuid.Nil {
		c = append(c, repositorycache.Where("usuario_id", f.UsuarioID))
	}
	if f.EntidadTipo != "" {
		c = append(c, repositorycache.Where("entidad_tipo", f.EntidadTipo))
	}
	if f.EntidadID != uuid.Nil {
		c = append(c, repositorycache.Where("entidad_id", f.EntidadID))
	}
	if f.EstadoModeracion != "" {
		c = append(c, repositorycache.Where("estado_moderacion", f.EstadoModeracion))
	}
	if f.CalificacionMin > 0 {
		c = append(c, repositorycache.WhereExpr("?TableAlias.calificacion >= ?", f.CalificacionMin))
	}
	return c
}

// Outcome is the result of a review write. Warning is set when the write
// succeeded but the reviewed entity's average could not be updated.
type Outcome struct {
	Review  *models.Review
	Warning string
}

// ReviewRepository stores reviews (resenas) and keeps the average rating of
// the reviewed entity in sync.
type ReviewRepository struct {
	*repositorycache.Repository[*models.Review]
	targets RatingRegistry
	logger  *zap.Logger
	now     func() time.Time
}

// NewReviewRepository builds the review repository.
func NewReviewRepository(d Deps, targets RatingRegistry) *ReviewRepository {
	keys := cache.NewKeys("resenas")
	return &ReviewRepository{
		Repository: newEngine[models.Review](d, repositorycache.Options[*models.Review]{
			Namespace: keys.Entity(),
			Axes: []repositorycache.Axis[*models.Review]{
				func(rv *models.Review) []string {
					return []string{
						parent(keys, "usuarios", rv.UsuarioID),
						parent(keys, rv.EntidadTipo.Namespace(), rv.EntidadID),
						keys.ByField("estado", string(rv.EstadoModeracion)),
						summaryKey(keys, rv.EntidadTipo, rv.EntidadID),
					}
				},
			},
		}),
		targets: targets,
		logger:  d.logger(),
		now:     d.now,
	}
}

func summaryKey(k cache.Keys, tipo models.EntityType, id uuid.UUID) string {
	if tipo == "" || id == uuid.Nil {
		return ""
	}
	return k.ByField("promedio", string(tipo)+":"+id.String())
}

// Create stores a pending review. The reviewed entity must exist and a user
// may review an entity only once.
func (r *ReviewRepository) Create(ctx context.Context, rv *models.Review) (Outcome, error) {
	if !slices.Contains(models.EntityTypes, rv.EntidadTipo) {
		return Outcome{}, apperr.Validation("entidadTipo", "unknown entity type "+string(rv.EntidadTipo))
	}
	if rv.Calificacion < 1 || rv.Calificacion > 5 {
		return Outcome{}, apperr.Validation("calificacion", "calificacion must be between 1 and 5")
	}
	target, err := r.targets.Target(rv.EntidadTipo)
	if err == nil {
		if err := target.Exists(ctx, rv.EntidadID); err != nil {
			if apperr.Is(err, apperr.KindNotFound) {
				return Outcome{}, apperr.Validation("entidadId", "entidadId references a missing record")
			}
			return Outcome{}, err
		}
	}

	existing, err := r.Query(ctx,
		repositorycache.Where("usuario_id", rv.UsuarioID),
		repositorycache.Where("entidad_tipo", rv.EntidadTipo),
		repositorycache.Where("entidad_id", rv.EntidadID),
		repositorycache.Limit(1),
	)
	if err != nil {
		return Outcome{}, err
	}
	if len(existing) > 0 {
		return Outcome{}, apperr.Conflict("entidadId", "the user already reviewed this "+string(rv.EntidadTipo))
	}

	rv.EstadoModeracion = models.ModerationPending
	rv.MotivoRechazo = ""
	rv.FechaModeracion = nil

	created, err := r.Repository.Create(ctx, rv)
	if err != nil {
		return Outcome{}, err
	}
	return Outcome{Review: created, Warning: r.recompute(ctx, created.EntidadTipo, created.EntidadID)}, nil
}

// Update applies a partial change to the review text and ratings. The author,
// the reviewed entity and the moderation state are kept.
func (r *ReviewRepository) Update(ctx context.Context, id uuid.UUID, mutate func(*models.Review) error) (Outcome, error) {
	var rated bool
	updated, err := r.Repository.Update(ctx, id, func(rv *models.Review) error {
		before := *rv
		if err := mutate(rv); err != nil {
			return err
		}
		rv.UsuarioID = before.UsuarioID
		rv.EntidadTipo = before.EntidadTipo
		rv.EntidadID = before.EntidadID
		rv.EstadoModeracion = before.EstadoModeracion
		rv.MotivoRechazo = before.MotivoRechazo
		rv.FechaModeracion = before.FechaModeracion
		if rv.Calificacion < 1 || rv.Calificacion > 5 {
			return apperr.Validation("calificacion", "calificacion must be between 1 and 5")
		}
		rated = rv.Calificacion != before.Calificacion || rv.Aspectos != before.Aspectos
		return nil
	})
	if err != nil {
		return Outcome{}, err
	}

	out := Outcome{Review: updated}
	if rated {
		out.Warning = r.recompute(ctx, updated.EntidadTipo, updated.EntidadID)
	}
	return out, nil
}

// Delete removes a review and recomputes the entity average.
func (r *ReviewRepository) Delete(ctx context.Context, id uuid.UUID) (Outcome, error) {
	deleted, err := r.Repository.Delete(ctx, id)
	if err != nil {
		return Outcome{}, err
	}
	return Outcome{Review: deleted, Warning: r.recompute(ctx, deleted.EntidadTipo, deleted.EntidadID)}, nil
}

// Moderate approves or rejects a pending review. Moderated reviews are final.
func (r *ReviewRepository) Moderate(ctx context.Context, id uuid.UUID, estado models.ModerationStatus, motivo string) (Outcome, error) {
	moderated, err := r.Repository.Update(ctx, id, func(rv *models.Review) error {
		if !rv.EstadoModeracion.CanTransition(estado) {
			return apperr.InvalidState("cannot move review from " + string(rv.EstadoModeracion) + " to " + string(estado))
		}
		at := r.now()
		rv.EstadoModeracion = estado
		rv.FechaModeracion = &at
		rv.MotivoRechazo = ""
		if estado == models.ModerationRejected {
			rv.MotivoRechazo = motivo
		}
		return nil
	})
	if err != nil {
		return Outcome{}, err
	}
	return Outcome{Review: moderated, Warning: r.recompute(ctx, moderated.EntidadTipo, moderated.EntidadID)}, nil
}

// List returns one page of reviews matching f.
func (r *ReviewRepository) List(ctx context.Context, f ReviewFilter, skip, limit int) ([]*models.Review, error) {
	return r.Repository.List(ctx, f, skip, limit, f.criteria()...)
}

// ByEntity lists the approved reviews of an entity, newest first.
func (r *ReviewRepository) ByEntity(ctx context.Context, tipo models.EntityType, id uuid.UUID) ([]*models.Review, error) {
	return r.Find(ctx, r.Keys().ByParent(tipo.Namespace(), id.String()),
		repositorycache.Where("entidad_tipo", tipo),
		repositorycache.Where("entidad_id", id),
		repositorycache.Where("estado_moderacion", models.ModerationApproved),
		repositorycache.OrderBy("fecha_creacion", true),
	)
}

// ByUser lists every review written by a user.
func (r *ReviewRepository) ByUser(ctx context.Context, userID uuid.UUID) ([]*models.Review, error) {
	return r.Find(ctx, r.Keys().ByParent("usuarios", userID.String()),
		repositorycache.Where("usuario_id", userID),
		repositorycache.OrderBy("fecha_creacion", true),
	)
}

// ByStatus lists reviews in a moderation state, oldest first.
func (r *ReviewRepository) ByStatus(ctx context.Context, estado models.ModerationStatus) ([]*models.Review, error) {
	return r.Find(ctx, r.Keys().ByField("estado", string(estado)),
		repositorycache.Where("estado_moderacion", estado),
		repositorycache.OrderBy("fecha_creacion", false),
	)
}

// Pending lists the reviews awaiting moderation.
func (r *ReviewRepository) Pending(ctx context.Context) ([]*models.Review, error) {
	return r.ByStatus(ctx, models.ModerationPending)
}

// Summary aggregates the approved reviews of an entity. Aspects left unrated
// do not count towards their average.
func (r *ReviewRepository) Summary(ctx context.Context, tipo models.EntityType, id uuid.UUID) (models.RatingSummary, error) {
	return repositorycache.Remember(ctx, r.Repository, summaryKey(r.Keys(), tipo, id), func(ctx context.Context) (models.RatingSummary, error) {
		var (
			avg, limpieza, ubicacion, servicio, precio sql.NullFloat64
			total                                      int64
		)
		err := r.DB().NewSelect().
			Model((*models.Review)(nil)).
			ColumnExpr("AVG(?TableAlias.calificacion)").
			ColumnExpr("COUNT(*)").
			ColumnExpr("AVG(NULLIF(?TableAlias.aspecto_limpieza, 0))").
			ColumnExpr("AVG(NULLIF(?TableAlias.aspecto_ubicacion, 0))").
			ColumnExpr("AVG(NULLIF(?TableAlias.aspecto_servicio, 0))").
			ColumnExpr("AVG(NULLIF(?TableAlias.aspecto_relacion_calidad_precio, 0))").
			Where("?TableAlias.entidad_tipo = ?", tipo).
			Where("?TableAlias.entidad_id = ?", id).
			Where("?TableAlias.estado_moderacion = ?", models.ModerationApproved).
			Scan(ctx, &avg, &total, &limpieza, &ubicacion, &servicio, &precio)
		if err != nil {
			return models.RatingSummary{}, apperr.Infrastructure(err, "aggregate ratings")
		}
		return models.RatingSummary{
			EntidadTipo:           tipo,
			EntidadID:             id,
			Promedio:              roundRating(avg),
			Total:                 int(total),
			Limpieza:              roundRating(limpieza),
			Ubicacion:             roundRating(ubicacion),
			Servicio:              roundRating(servicio),
			RelacionCalidadPrecio: roundRating(precio),
		}, nil
	})
}

// recompute pushes the current average to the reviewed entity. Failures are
// logged and returned as a warning; they never fail the review write.
func (r *ReviewRepository) recompute(ctx context.Context, tipo models.EntityType, id uuid.UUID) string {
	summary, err := r.Summary(ctx, tipo, id)
	if err == nil {
		var target RatingTarget
		target, err = r.targets.Target(tipo)
		if err == nil {
			err = target.UpdateAggregateRating(ctx, id, summary.Promedio)
		}
	}
	if err != nil {
		r.logger.Warn("rating update failed",
			zap.String("entidadTipo", string(tipo)),
			zap.Stringer("entidadId", id),
			zap.Error(err),
		)
		return "the review was saved but the " + string(tipo) + " rating could not be updated"
	}
	return ""
}

func roundRating(v sql.NullFloat64) float64 {
	if !v.Valid {
		return 0
	}
	return math.Round(v.Float64*100) / 100
}
