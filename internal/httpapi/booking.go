package httpapi

import (
	"context"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/goliatone/go-coworking/internal/models"
	"github.com/goliatone/go-coworking/internal/repo"
	"github.com/goliatone/go-coworking/internal/schema"
	"github.com/google/uuid"
)

// inRange lists the records of a date range read from inicio and fin.
func inRange[T any](list func(context.Context, time.Time, time.Time) ([]T, error)) func(*http.Request) ([]T, error) {
	return func(r *http.Request) ([]T, error) {
		start, end, err := timeRange(r)
		if err != nil {
			return nil, err
		}
		return list(r.Context(), start, end)
	}
}

// forUser lists the records of the {id} user.
func forUser[T any](list func(context.Context, uuid.UUID) ([]T, error)) func(*http.Request) ([]T, error) {
	return func(r *http.Request) ([]T, error) {
		id, err := userPath(r)
		if err != nil {
			return nil, err
		}
		return list(r.Context(), id)
	}
}

func reservationOwner(res *models.Reservation) uuid.UUID { return res.UsuarioID }

func (s *Server) reservationRoutes(r chi.Router) {
	rs := s.repos.Reservations
	owns := ownedBy(reservationOwner)
	create := checkedCreate(rs.Create, func(ctx context.Context, m *models.Reservation) error {
		return asCaller(ctx, &m.UsuarioID)
	})

	r.Route("/reservas", func(r chi.Router) {
		r.Get("/", read(s, listed(s, rs.List, ownList(func(f *repo.ReservationFilter) *uuid.UUID {
			return &f.UsuarioID
		}))))
		r.Get("/usuario/{id}", read(s, forUser(rs.ByUser)))
		r.Get("/espacio/{id}", read(s, byID(rs.BySpace)))
		r.With(s.adminOnly).Get("/estado/{estado}", read(s, func(r *http.Request) ([]*models.Reservation, error) {
			estado, err := pathEnum(r, "estado", models.ReservationStatuses)
			if err != nil {
				return nil, err
			}
			return rs.ByStatus(r.Context(), estado)
		}))
		r.With(s.adminOnly).Get("/fecha", read(s, inRange(rs.ByDateRange)))
		r.Get("/{id}", read(s, visible(rs.GetByID, owns)))

		r.Post("/", act(s, http.StatusCreated, "reservation created", "reserva", func(r *http.Request) (*models.Reservation, error) {
			return created[schema.CreateReservation](r, create)
		}))
		r.Put("/{id}", act(s, http.StatusOK, "reservation updated", "reserva",
			guarded(rs.GetByID, owns, func(r *http.Request) (*models.Reservation, error) {
				return patched[schema.UpdateReservation](r, rs.Update)
			})))
		r.Put("/{id}/cancelar", act(s, http.StatusOK, "reservation cancelled", "reserva",
			guarded(rs.GetByID, owns, func(r *http.Request) (*models.Reservation, error) {
				id, err := pathID(r, "id")
				if err != nil {
					return nil, err
				}
				in, err := body[schema.CancelReservation](r)
				if err != nil {
					return nil, err
				}
				return rs.Cancel(r.Context(), id, in.Motivo)
			})))
		r.With(s.adminOnly).Put("/{id}/estado", act(s, http.StatusOK, "reservation status updated", "reserva",
			func(r *http.Request) (*models.Reservation, error) {
				id, err := pathID(r, "id")
				if err != nil {
					return nil, err
				}
				in, err := body[schema.ReservationStatus](r)
				if err != nil {
					return nil, err
				}
				return rs.ChangeStatus(r.Context(), id, in.Estado, in.Motivo)
			}))
		r.Delete("/{id}", act(s, http.StatusOK, "reservation deleted", "reserva",
			guarded(rs.GetByID, owns, byID(rs.Delete))))
	})
}

func (s *Server) serviceReservationRoutes(r chi.Router) {
	sr := s.repos.ServiceReservations
	owns := ownedBy(func(m *models.ServiceReservation) uuid.UUID { return m.UsuarioID })
	create := checkedCreate(sr.Create, func(ctx context.Context, m *models.ServiceReservation) error {
		return asCaller(ctx, &m.UsuarioID)
	})

	r.Route("/reservas-servicios", func(r chi.Router) {
		r.Get("/", read(s, listed(s, sr.List, ownList(func(f *repo.ServiceReservationFilter) *uuid.UUID {
			return &f.UsuarioID
		}))))
		r.Get("/usuario/{id}", read(s, forUser(sr.ByUser)))
		r.With(s.adminOnly).Get("/servicio/{id}", read(s, byID(sr.ByService)))
		r.Get("/reserva/{id}", read(s, guarded(s.repos.Reservations.GetByID, ownedBy(reservationOwner), byID(sr.ByReservation))))
		r.With(s.adminOnly).Get("/estado/{estado}", read(s, func(r *http.Request) ([]*models.ServiceReservation, error) {
			estado, err := pathEnum(r, "estado", models.ServiceReservationStatuses)
			if err != nil {
				return nil, err
			}
			return sr.ByStatus(r.Context(), estado)
		}))
		r.With(s.adminOnly).Get("/fecha", read(s, inRange(sr.ByDateRange)))
		r.Get("/{id}", read(s, visible(sr.GetByID, owns)))

		r.Post("/", act(s, http.StatusCreated, "service reservation created", "reservaServicio", func(r *http.Request) (*models.ServiceReservation, error) {
			return created[schema.CreateServiceReservation](r, create)
		}))
		r.Put("/{id}", act(s, http.StatusOK, "service reservation updated", "reservaServicio",
			guarded(sr.GetByID, owns, func(r *http.Request) (*models.ServiceReservation, error) {
				return patched[schema.UpdateServiceReservation](r, sr.Update)
			})))
		r.Put("/{id}/estado", act(s, http.StatusOK, "service reservation status updated", "reservaServicio",
			guarded(sr.GetByID, owns, func(r *http.Request) (*models.ServiceReservation, error) {
				id, err := pathID(r, "id")
				if err != nil {
					return nil, err
				}
				in, err := body[schema.ServiceReservationStatus](r)
				if err != nil {
					return nil, err
				}
				return sr.ChangeStatus(r.Context(), id, in.Estado)
			})))
		r.Delete("/{id}", act(s, http.StatusOK, "service reservation deleted", "reservaServicio",
			guarded(sr.GetByID, owns, byID(sr.Delete))))
	})
}

func (s *Server) paymentRoutes(r chi.Router) {
	p := s.repos.Payments
	owns := ownedBy(func(m *models.Payment) uuid.UUID { return m.UsuarioID })
	create := checkedCreate(p.Create, func(ctx context.Context, m *models.Payment) error {
		return asCaller(ctx, &m.UsuarioID)
	})

	r.Route("/pagos", func(r chi.Router) {
		r.Get("/", read(s, listed(s, p.List, ownList(func(f *repo.PaymentFilter) *uuid.UUID {
			return &f.UsuarioID
		}))))
		r.Get("/usuario/{id}", read(s, forUser(p.ByUser)))
		r.Get("/reserva/{id}", read(s, guarded(s.repos.Reservations.GetByID, ownedBy(reservationOwner), byID(p.ByReservation))))
		r.With(s.adminOnly).Get("/estado/{estado}", read(s, func(r *http.Request) ([]*models.Payment, error) {
			estado, err := pathEnum(r, "estado", models.PaymentStatuses)
			if err != nil {
				return nil, err
			}
			return p.ByStatus(r.Context(), estado)
		}))
		r.With(s.adminOnly).Get("/metodo/{metodo}", read(s, func(r *http.Request) ([]*models.Payment, error) {
			metodo, err := pathEnum(r, "metodo", models.PaymentMethods)
			if err != nil {
				return nil, err
			}
			return p.ByMethod(r.Context(), metodo)
		}))
		r.With(s.adminOnly).Get("/fecha", read(s, inRange(p.ByDateRange)))
		r.Get("/{id}", read(s, visible(p.GetByID, owns)))

		r.Post("/", act(s, http.StatusCreated, "payment created", "pago", func(r *http.Request) (*models.Payment, error) {
			return created[schema.CreatePayment](r, create)
		}))
		r.Put("/{id}", act(s, http.StatusOK, "payment updated", "pago",
			guarded(p.GetByID, owns, func(r *http.Request) (*models.Payment, error) {
				return patched[schema.UpdatePayment](r, p.Update)
			})))

		r.Group(func(r chi.Router) {
			r.Use(s.adminOnly)
			r.Put("/{id}/estado", act(s, http.StatusOK, "payment status updated", "pago", func(r *http.Request) (*models.Payment, error) {
				id, err := pathID(r, "id")
				if err != nil {
					return nil, err
				}
				in, err := body[schema.PaymentStatus](r)
				if err != nil {
					return nil, err
				}
				return p.ChangeStatus(r.Context(), id, in.Estado)
			}))
			r.Delete("/{id}", act(s, http.StatusOK, "payment deleted", "pago", byID(p.Delete)))
		})
	})
}
