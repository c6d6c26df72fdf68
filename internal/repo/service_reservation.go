package repo

import (
	"context"
	"time"

	"github.com/goliatone/go-coworking/cache"
	"github.com/goliatone/go-coworking/internal/apperr"
	"github.com/goliatone/go-coworking/internal/models"
	"github.com/goliatone/go-coworking/repositorycache"
	repository "github.com/goliatone/go-repository-bun"
	"github.com/google/uuid"
)

// ServiceReservationFilter narrows a service booking listing.
type ServiceReservationFilter struct {
	UsuarioID  uuid.UUID                       `json:"usuarioId,omitempty"`
	ServicioID uuid.UUID                       `json:"servicioId,omitempty"`
	ReservaID  uuid.UUID                       `json:"reservaId,omitempty"`
	Estado     models.ServiceReservationStatus `json:"estado,omitempty"`
}

func (f ServiceReservationFilter) criteria() []repository.SelectCriteria {
	var c []repository.SelectCriteria
	if f.UsuarioID != uuid.Nil {
		c = append(c, repositorycache.Where("usuario_id", f.UsuarioID))
	}
	if f.ServicioID != uuid.Nil {
		c = append(c, repositorycache.Where("servicio_id", f.ServicioID))
	}
	if f.ReservaID != uuid.Nil {
		c = append(c, repositorycache.Where("reserva_id", f.ReservaID))
	}
	if f.Estado != "" {
		c = append(c, repositorycache.Where("estado", f.Estado))
	}
	return c
}

// ServiceReservationRepository stores add-on service bookings (reservas_servicios).
type ServiceReservationRepository struct {
	*repositorycache.Repository[*models.ServiceReservation]
	services     *ServiceRepository
	reservations *ReservationRepository
}

// NewServiceReservationRepository builds the service booking repository.
func NewServiceReservationRepository(d Deps, services *ServiceRepository, reservations *ReservationRepository) *ServiceReservationRepository {
	keys := cache.NewKeys("reservas_servicios")
	return &ServiceReservationRepository{
		Repository: newEngine[models.ServiceReservation](d, repositorycache.Options[*models.ServiceReservation]{
			Namespace: keys.Entity(),
			Expand: func(ctx context.Context, r *models.ServiceReservation) (err error) {
				r.Servicio, err = related(ctx, services.Repository, r.ServicioID)
				return err
			},
			Families:  []string{keys.RangeFamily("fecha")},
			Axes: []repositorycache.Axis[*models.ServiceReservation]{
				func(r *models.ServiceReservation) []string {
					return []string{
						parent(keys, "usuarios", r.UsuarioID),
						parent(keys, "servicios", r.ServicioID),
						parent(keys, "reservas", r.ReservaID),
						keys.ByField("estado", string(r.Estado)),
					}
				},
			},
		}),
		services:     services,
		reservations: reservations,
	}
}

// Create books an active service. The total is quantity times unit price.
// A linked space reservation must exist.
func (r *ServiceReservationRepository) Create(ctx context.Context, sr *models.ServiceReservation) (*models.ServiceReservation, error) {
	service, err := reference(ctx, r.services.Repository, sr.ServicioID, "servicioId")
	if err != nil {
		return nil, err
	}
	if err := requireActive(service, "service "+service.Nombre); err != nil {
		return nil, err
	}
	if sr.ReservaID != uuid.Nil {
		if _, err := reference(ctx, r.reservations.Repository, sr.ReservaID, "reservaId"); err != nil {
			return nil, err
		}
	}

	if sr.Cantidad <= 0 {
		sr.Cantidad = 1
	}
	sr.Fecha = sr.Fecha.UTC()
	sr.PrecioTotal = roundMoney(float64(sr.Cantidad) * service.Precio)
	sr.Estado = models.ServiceReservationPending
	return r.Repository.Create(ctx, sr)
}

// Update applies a partial change to a pending or confirmed booking,
// recomputing the total when the quantity changes.
func (r *ServiceReservationRepository) Update(ctx context.Context, id uuid.UUID, mutate func(*models.ServiceReservation) error) (*models.ServiceReservation, error) {
	return r.Repository.Update(ctx, id, func(sr *models.ServiceReservation) error {
		if sr.Estado != models.ServiceReservationPending && sr.Estado != models.ServiceReservationConfirmed {
			return apperr.InvalidState("service reservation is " + string(sr.Estado))
		}
		before := *sr
		if err := mutate(sr); err != nil {
			return err
		}
		sr.Estado = before.Estado
		sr.ServicioID = before.ServicioID
		sr.Fecha = sr.Fecha.UTC()
		if sr.Cantidad != before.Cantidad && before.Cantidad > 0 {
			sr.PrecioTotal = roundMoney(before.PrecioTotal / float64(before.Cantidad) * float64(sr.Cantidad))
		}
		return nil
	})
}

// ChangeStatus moves a booking along its lifecycle.
func (r *ServiceReservationRepository) ChangeStatus(ctx context.Context, id uuid.UUID, next models.ServiceReservationStatus) (*models.ServiceReservation, error) {
	return r.Repository.Update(ctx, id, func(sr *models.ServiceReservation) error {
		if !sr.Estado.CanTransition(next) {
			return apperr.InvalidState("cannot move service reservation from " + string(sr.Estado) + " to " + string(next))
		}
		sr.Estado = next
		return nil
	})
}

// List returns one page of bookings matching f.
func (r *ServiceReservationRepository) List(ctx context.Context, f ServiceReservationFilter, skip, limit int) ([]*models.ServiceReservation, error) {
	return r.Repository.List(ctx, f, skip, limit, f.criteria()...)
}

// ByUser lists a user's service bookings.
func (r *ServiceReservationRepository) ByUser(ctx context.Context, userID uuid.UUID) ([]*models.ServiceReservation, error) {
	return r.Find(ctx, r.Keys().ByParent("usuarios", userID.String()),
		repositorycache.Where("usuario_id", userID),
		repositorycache.OrderBy("fecha", true),
	)
}

// ByService lists the bookings of a service.
func (r *ServiceReservationRepository) ByService(ctx context.Context, serviceID uuid.UUID) ([]*models.ServiceReservation, error) {
	return r.Find(ctx, r.Keys().ByParent("servicios", serviceID.String()),
		repositorycache.Where("servicio_id", serviceID),
		repositorycache.OrderBy("fecha", false),
	)
}

// ByReservation lists the services booked alongside a space reservation.
func (r *ServiceReservationRepository) ByReservation(ctx context.Context, reservationID uuid.UUID) ([]*models.ServiceReservation, error) {
	return r.Find(ctx, r.Keys().ByParent("reservas", reservationID.String()),
		repositorycache.Where("reserva_id", reservationID),
	)
}

// ByStatus lists bookings in a status.
func (r *ServiceReservationRepository) ByStatus(ctx context.Context, estado models.ServiceReservationStatus) ([]*models.ServiceReservation, error) {
	return r.Find(ctx, r.Keys().ByField("estado", string(estado)),
		repositorycache.Where("estado", estado),
	)
}

// ByDateRange lists bookings dated within [start, end].
func (r *ServiceReservationRepository) ByDateRange(ctx context.Context, start, end time.Time) ([]*models.ServiceReservation, error) {
	if end.Before(start) {
		return nil, apperr.Validation("fin", "fin must not be before inicio")
	}
	return r.Find(ctx, r.Keys().ByRange("fecha", rangeKey(start), rangeKey(end)),
		repositorycache.WhereBetween("fecha", start.UTC(), end.UTC()),
		repositorycache.OrderBy("fecha", false),
	)
}
