package repo

import (
	"context"
	"math"
	"time"

	"github.com/goliatone/go-coworking/cache"
	"github.com/goliatone/go-coworking/internal/apperr"
	"github.com/goliatone/go-coworking/internal/models"
	"github.com/goliatone/go-coworking/repositorycache"
	repository "github.com/goliatone/go-repository-bun"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// ReservationFilter narrows a reservation listing.
type ReservationFilter struct {
	UsuarioID uuid.UUID                `json:"usuarioId,omitempty"`
	EspacioID uuid.UUID                `json:"espacioId,omitempty"`
	Estado    models.ReservationStatus `json:"estado,omitempty"`
	Desde     time.Time                `json:"desde,omitempty"`
	Hasta     time.Time                `json:"hasta,omitempty"`
}

func (f ReservationFilter) criteria() []repository.SelectCriteria {
	var c []repository.SelectCriteria
	if f.UsuarioID != uuid.Nil {
		c = append(c, repositorycache.Where("usuario_id", f.UsuarioID))
	}
	if f.EspacioID != uuid.Nil {
		c = append(c, repositorycache.Where("espacio_id", f.EspacioID))
	}
	if f.Estado != "" {
		c = append(c, repositorycache.Where("estado", f.Estado))
	}
	if !f.Desde.IsZero() {
		c = append(c, repositorycache.WhereExpr("?TableAlias.fecha_inicio >= ?", f.Desde.UTC()))
	}
	if !f.Hasta.IsZero() {
		c = append(c, repositorycache.WhereExpr("?TableAlias.fecha_inicio <= ?", f.Hasta.UTC()))
	}
	return c
}

// ReservationRepository stores space reservations (reservas).
type ReservationRepository struct {
	*repositorycache.Repository[*models.Reservation]
	spaces     *SpaceRepository
	promotions *PromotionRepository
	logger     *zap.Logger
}

// NewReservationRepository builds the reservation repository.
func NewReservationRepository(d Deps, spaces *SpaceRepository, promotions *PromotionRepository) *ReservationRepository {
	keys := cache.NewKeys("reservas")
	return &ReservationRepository{
		Repository: newEngine[models.Reservation](d, repositorycache.Options[*models.Reservation]{
			Namespace: keys.Entity(),
			Expand: func(ctx context.Context, r *models.Reservation) (err error) {
				r.Espacio, err = related(ctx, spaces.Repository, r.EspacioID)
				return err
			},
			Families:  []string{keys.RangeFamily("fecha")},
			Axes: []repositorycache.Axis[*models.Reservation]{
				func(r *models.Reservation) []string {
					return []string{
						parent(keys, "usuarios", r.UsuarioID),
						parent(keys, "espacios", r.EspacioID),
						keys.ByField("estado", string(r.Estado)),
					}
				},
			},
		}),
		spaces:     spaces,
		promotions: promotions,
		logger:     d.logger(),
	}
}

// Create books a space. The space must be active, the slot must not overlap a
// pending or confirmed reservation of the same space, and the total is the
// booked hours times the hourly price, less any promotion.
func (r *ReservationRepository) Create(ctx context.Context, res *models.Reservation) (*models.Reservation, error) {
	res.FechaInicio = res.FechaInicio.UTC()
	res.FechaFin = res.FechaFin.UTC()
	if !res.FechaFin.After(res.FechaInicio) {
		return nil, apperr.Validation("fechaFin", "fechaFin must be after fechaInicio")
	}

	space, err := r.prepare(ctx, res, uuid.Nil)
	if err != nil {
		return nil, err
	}
	res.PrecioTotal = roundMoney(res.Hours() * space.PrecioPorHora)

	var promo *models.Promotion
	if res.CodigoPromocion != "" {
		check, err := r.promotions.Validate(ctx, res.CodigoPromocion, res.PrecioTotal, models.ScopeReservations)
		if err != nil {
			return nil, err
		}
		if !check.Valida {
			return nil, apperr.Validation("codigoPromocion", check.Motivo)
		}
		promo = check.Promocion
		res.CodigoPromocion = promo.Codigo
		res.PrecioTotal = check.MontoFinal
	}

	res.Estado = models.ReservationPending
	created, err := r.Repository.Create(ctx, res)
	if err != nil {
		return nil, err
	}

	if promo != nil {
		if _, err := r.promotions.Redeem(ctx, promo.ID); err != nil {
			// the booking stands; the usage counter is advisory
			r.logger.Warn("promotion redeem failed",
				zap.String("codigo", promo.Codigo),
				zap.Stringer("reserva", created.ID),
				zap.Error(err),
			)
		}
	}
	return created, nil
}

// Update applies a partial change to a pending or confirmed reservation,
// re-checking availability and price when the slot or space changes.
func (r *ReservationRepository) Update(ctx context.Context, id uuid.UUID, mutate func(*models.Reservation) error) (*models.Reservation, error) {
	return r.Repository.Update(ctx, id, func(res *models.Reservation) error {
		if !res.Estado.Blocking() {
			return apperr.InvalidState("reservation is " + string(res.Estado))
		}
		before := *res
		if err := mutate(res); err != nil {
			return err
		}
		res.Estado = before.Estado
		res.FechaInicio = res.FechaInicio.UTC()
		res.FechaFin = res.FechaFin.UTC()

		if res.EspacioID == before.EspacioID && res.FechaInicio.Equal(before.FechaInicio) && res.FechaFin.Equal(before.FechaFin) {
			return nil
		}
		if !res.FechaFin.After(res.FechaInicio) {
			return apperr.Validation("fechaFin", "fechaFin must be after fechaInicio")
		}
		space, err := r.prepare(ctx, res, id)
		if err != nil {
			return err
		}
		res.PrecioTotal = roundMoney(res.Hours() * space.PrecioPorHora)
		return nil
	})
}

// ChangeStatus moves a reservation along its lifecycle. Transitions not
// allowed from the current status are rejected without writing.
func (r *ReservationRepository) ChangeStatus(ctx context.Context, id uuid.UUID, next models.ReservationStatus, motivo string) (*models.Reservation, error) {
	return r.Repository.Update(ctx, id, func(res *models.Reservation) error {
		if !res.Estado.CanTransition(next) {
			return apperr.InvalidState("cannot move reservation from " + string(res.Estado) + " to " + string(next))
		}
		res.Estado = next
		if next == models.ReservationCancelled {
			res.MotivoCancelacion = motivo
		}
		return nil
	})
}

// Cancel cancels a pending or confirmed reservation.
func (r *ReservationRepository) Cancel(ctx context.Context, id uuid.UUID, motivo string) (*models.Reservation, error) {
	return r.ChangeStatus(ctx, id, models.ReservationCancelled, motivo)
}

// List returns one page of reservations matching f.
func (r *ReservationRepository) List(ctx context.Context, f ReservationFilter, skip, limit int) ([]*models.Reservation, error) {
	return r.Repository.List(ctx, f, skip, limit, f.criteria()...)
}

// ByUser lists a user's reservations, most recent first.
func (r *ReservationRepository) ByUser(ctx context.Context, userID uuid.UUID) ([]*models.Reservation, error) {
	return r.Find(ctx, r.Keys().ByParent("usuarios", userID.String()),
		repositorycache.Where("usuario_id", userID),
		repositorycache.OrderBy("fecha_inicio", true),
	)
}

// BySpace lists a space's reservations in slot order.
func (r *ReservationRepository) BySpace(ctx context.Context, spaceID uuid.UUID) ([]*models.Reservation, error) {
	return r.Find(ctx, r.Keys().ByParent("espacios", spaceID.String()),
		repositorycache.Where("espacio_id", spaceID),
		repositorycache.OrderBy("fecha_inicio", false),
	)
}

// ByStatus lists reservations in a status.
func (r *ReservationRepository) ByStatus(ctx context.Context, estado models.ReservationStatus) ([]*models.Reservation, error) {
	return r.Find(ctx, r.Keys().ByField("estado", string(estado)),
		repositorycache.Where("estado", estado),
		repositorycache.OrderBy("fecha_inicio", false),
	)
}

// ByDateRange lists reservations starting within [start, end].
func (r *ReservationRepository) ByDateRange(ctx context.Context, start, end time.Time) ([]*models.Reservation, error) {
	if end.Before(start) {
		return nil, apperr.Validation("fin", "fin must not be before inicio")
	}
	return r.Find(ctx, r.Keys().ByRange("fecha", rangeKey(start), rangeKey(end)),
		repositorycache.WhereBetween("fecha_inicio", start.UTC(), end.UTC()),
		repositorycache.OrderBy("fecha_inicio", false),
	)
}

// prepare checks that the booked space is active, holds the attendees and is
// free for the slot. self is excluded from the overlap check.
func (r *ReservationRepository) prepare(ctx context.Context, res *models.Reservation, self uuid.UUID) (*models.Space, error) {
	space, err := reference(ctx, r.spaces.Repository, res.EspacioID, "espacioId")
	if err != nil {
		return nil, err
	}
	if err := requireActive(space, "space "+space.Nombre); err != nil {
		return nil, err
	}
	if res.Asistentes > 0 && space.Capacidad > 0 && res.Asistentes > space.Capacidad {
		return nil, apperr.Validation("asistentes", "attendees exceed the space capacity")
	}

	overlapping, err := r.Query(ctx,
		repositorycache.Where("espacio_id", res.EspacioID),
		repositorycache.WhereIn("estado", []models.ReservationStatus{models.ReservationPending, models.ReservationConfirmed}),
		repositorycache.WhereExpr("?TableAlias.fecha_inicio < ? AND ?TableAlias.fecha_fin > ?", res.FechaFin, res.FechaInicio),
		repositorycache.WhereExpr("?TableAlias.id != ?", self),
		repositorycache.Limit(1),
	)
	if err != nil {
		return nil, err
	}
	if len(overlapping) > 0 {
		return nil, apperr.Conflict("fechaInicio", "the space is already booked for that time")
	}
	return space, nil
}

func roundMoney(v float64) float64 {
	return math.Round(v*100) / 100
}
