package repo

import (
	"context"
	"strings"
	"time"

	"github.com/goliatone/go-coworking/cache"
	"github.com/goliatone/go-coworking/internal/apperr"
	"github.com/goliatone/go-coworking/internal/models"
	"github.com/goliatone/go-coworking/repositorycache"
	repository "github.com/goliatone/go-repository-bun"
	"github.com/google/uuid"
)

// DefaultCurrency is applied to payments created without one.
const DefaultCurrency = "EUR"

// PaymentFilter narrows a payment listing.
type PaymentFilter struct {
	UsuarioID uuid.UUID            `json:"usuarioId,omitempty"`
	ReservaID uuid.UUID            `json:"reservaId,omitempty"`
	Estado    models.PaymentStatus `json:"estado,omitempty"`
	Metodo    models.PaymentMethod `json:"metodo,omitempty"`
}

func (f PaymentFilter) criteria() []repository.SelectCriteria {
	var c []repository.SelectCriteria
	if f.UsuarioID != uuid.Nil {
		c = append(c, repositorycache.Where("usuario_id", f.UsuarioID))
	}
	if f.ReservaID != uuid.Nil {
		c = append(c, repositorycache.Where("reserva_id", f.ReservaID))
	}
	if f.Estado != "" {
		c = append(c, repositorycache.Where("estado", f.Estado))
	}
	if f.Metodo != "" {
		c = append(c, repositorycache.Where("metodo", f.Metodo))
	}
	return c
}

// PaymentRepository stores payments (pagos).
type PaymentRepository struct {
	*repositorycache.Repository[*models.Payment]
	reservations *ReservationRepository
	now          func() time.Time
}

// NewPaymentRepository builds the payment repository.
func NewPaymentRepository(d Deps, reservations *ReservationRepository) *PaymentRepository {
	keys := cache.NewKeys("pagos")
	return &PaymentRepository{
		Repository: newEngine[models.Payment](d, repositorycache.Options[*models.Payment]{
			Namespace: keys.Entity(),
			Families:  []string{keys.RangeFamily("fecha")},
			Axes: []repositorycache.Axis[*models.Payment]{
				func(p *models.Payment) []string {
					return []string{
						parent(keys, "usuarios", p.UsuarioID),
						parent(keys, "reservas", p.ReservaID),
						keys.ByField("estado", string(p.Estado)),
						keys.ByField("metodo", string(p.Metodo)),
					}
				},
			},
		}),
		reservations: reservations,
		now:          d.now,
	}
}

// Create records a pending payment. A linked reservation must exist.
func (r *PaymentRepository) Create(ctx context.Context, p *models.Payment) (*models.Payment, error) {
	if p.ReservaID != uuid.Nil {
		if _, err := reference(ctx, r.reservations.Repository, p.ReservaID, "reservaId"); err != nil {
			return nil, err
		}
	}
	if p.Fecha.IsZero() {
		p.Fecha = r.now()
	}
	p.Fecha = p.Fecha.UTC()
	p.Moneda = strings.ToUpper(strings.TrimSpace(p.Moneda))
	if p.Moneda == "" {
		p.Moneda = DefaultCurrency
	}
	p.Monto = roundMoney(p.Monto)
	p.Estado = models.PaymentPending
	return r.Repository.Create(ctx, p)
}

// Update applies a partial change to a pending payment. The status only moves
// through ChangeStatus.
func (r *PaymentRepository) Update(ctx context.Context, id uuid.UUID, mutate func(*models.Payment) error) (*models.Payment, error) {
	return r.Repository.Update(ctx, id, func(p *models.Payment) error {
		if p.Estado != models.PaymentPending {
			return apperr.InvalidState("payment is " + string(p.Estado))
		}
		estado := p.Estado
		if err := mutate(p); err != nil {
			return err
		}
		p.Estado = estado
		p.Fecha = p.Fecha.UTC()
		p.Monto = roundMoney(p.Monto)
		return nil
	})
}

// ChangeStatus moves a payment along its lifecycle.
func (r *PaymentRepository) ChangeStatus(ctx context.Context, id uuid.UUID, next models.PaymentStatus) (*models.Payment, error) {
	return r.Repository.Update(ctx, id, func(p *models.Payment) error {
		if !p.Estado.CanTransition(next) {
			return apperr.InvalidState("cannot move payment from " + string(p.Estado) + " to " + string(next))
		}
		p.Estado = next
		return nil
	})
}

// List returns one page of payments matching f.
func (r *PaymentRepository) List(ctx context.Context, f PaymentFilter, skip, limit int) ([]*models.Payment, error) {
	return r.Repository.List(ctx, f, skip, limit, f.criteria()...)
}

// ByUser lists a user's payments, most recent first.
func (r *PaymentRepository) ByUser(ctx context.Context, userID uuid.UUID) ([]*models.Payment, error) {
	return r.Find(ctx, r.Keys().ByParent("usuarios", userID.String()),
		repositorycache.Where("usuario_id", userID),
		repositorycache.OrderBy("fecha", true),
	)
}

// ByReservation lists the payments of a reservation.
func (r *PaymentRepository) ByReservation(ctx context.Context, reservationID uuid.UUID) ([]*models.Payment, error) {
	return r.Find(ctx, r.Keys().ByParent("reservas", reservationID.String()),
		repositorycache.Where("reserva_id", reservationID),
		repositorycache.OrderBy("fecha", false),
	)
}

// ByStatus lists payments in a status.
func (r *PaymentRepository) ByStatus(ctx context.Context, estado models.PaymentStatus) ([]*models.Payment, error) {
	return r.Find(ctx, r.Keys().ByField("estado", string(estado)),
		repositorycache.Where("estado", estado),
		repositorycache.OrderBy("fecha", true),
	)
}

// ByMethod lists payments made with a method.
func (r *PaymentRepository) ByMethod(ctx context.Context, metodo models.PaymentMethod) ([]*models.Payment, error) {
	return r.Find(ctx, r.Keys().ByField("metodo", string(metodo)),
		repositorycache.Where("metodo", metodo),
		repositorycache.OrderBy("fecha", true),
	)
}

// ByDateRange lists payments dated within [start, end].
func (r *PaymentRepository) ByDateRange(ctx context.Context, start, end time.Time) ([]*models.Payment, error) {
	if end.Before(start) {
		return nil, apperr.Validation("fin", "fin must not be before inicio")
	}
	return r.Find(ctx, r.Keys().ByRange("fecha", rangeKey(start), rangeKey(end)),
		repositorycache.WhereBetween("fecha", start.UTC(), end.UTC()),
		repositorycache.OrderBy("fecha", false),
	)
}
