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

// MembershipFilter narrows a membership plan listing.
type MembershipFilter struct {
	Tipo      models.MembershipType `json:"tipo,omitempty"`
	PrecioMax float64               `json:"precioMax,omitempty"`
	Activo    *bool                 `json:"activo,omitempty"`
}

func (f MembershipFilter) criteria() []repository.SelectCriteria {
	var c []repository.SelectCriteria
	if f.Tipo != "" {
		c = append(c, repositorycache.Where("tipo", f.Tipo))
	}
	if f.PrecioMax > 0 {
		c = append(c, repositorycache.WhereExpr("?TableAlias.precio <= ?", f.PrecioMax))
	}
	if f.Activo != nil {
		c = append(c, repositorycache.Where("activo", *f.Activo))
	}
	return c
}

// Subscription is a request to subscribe a user to a membership plan.
type Subscription struct {
	UsuarioID            uuid.UUID
	MembresiaID          uuid.UUID
	FechaInicio          time.Time
	RenovacionAutomatica bool
}

// MembershipRepository stores membership plans (membresias) and maintains
// the membership snapshot held on each subscribed user.
type MembershipRepository struct {
	*repositorycache.Repository[*models.Membership]
	users *UserRepository
	now   func() time.Time
}

// NewMembershipRepository builds the membership repository.
func NewMembershipRepository(d Deps, users *UserRepository) *MembershipRepository {
	keys := cache.NewKeys("membresias")
	return &MembershipRepository{
		Repository: newEngine[models.Membership](d, repositorycache.Options[*models.Membership]{
			Namespace: keys.Entity(),
			Axes: []repositorycache.Axis[*models.Membership]{
				func(m *models.Membership) []string {
					return []string{keys.ByField("tipo", string(m.Tipo))}
				},
			},
		}),
		users: users,
		now:   d.now,
	}
}

// Create stores a new, active plan.
func (r *MembershipRepository) Create(ctx context.Context, m *models.Membership) (*models.Membership, error) {
	m.Activo = true
	if m.Beneficios == nil {
		m.Beneficios = []string{}
	}
	return r.Repository.Create(ctx, m)
}

// List returns one page of plans matching f.
func (r *MembershipRepository) List(ctx context.Context, f MembershipFilter, skip, limit int) ([]*models.Membership, error) {
	return r.Repository.List(ctx, f, skip, limit, f.criteria()...)
}

// ByType lists active plans of a type.
func (r *MembershipRepository) ByType(ctx context.Context, tipo models.MembershipType) ([]*models.Membership, error) {
	return r.Find(ctx, r.Keys().ByField("tipo", string(tipo)),
		repositorycache.Where("tipo", tipo),
		repositorycache.Where("activo", true),
	)
}

// Users lists the users subscribed to a plan.
func (r *MembershipRepository) Users(ctx context.Context, id uuid.UUID) ([]*models.User, error) {
	if _, err := r.GetByID(ctx, id); err != nil {
		return nil, err
	}
	return r.users.ByMembership(ctx, id)
}

// Subscribe writes an active snapshot of the plan onto the user. The expiry is
// the start date plus the plan's duration in days. A zero start means today.
func (r *MembershipRepository) Subscribe(ctx context.Context, s Subscription) (*models.User, error) {
	plan, err := reference(ctx, r.Repository, s.MembresiaID, "membresiaId")
	if err != nil {
		return nil, err
	}
	if err := requireActive(plan, "membership "+plan.Nombre); err != nil {
		return nil, err
	}

	start := s.FechaInicio
	if start.IsZero() {
		start = r.now()
	}

	return r.users.SetMembership(ctx, s.UsuarioID, func(*models.MembershipSnapshot) (*models.MembershipSnapshot, error) {
		return models.NewSnapshot(plan, start, s.RenovacionAutomatica), nil
	})
}

// Cancel marks the user's current subscription cancelled and stops renewal.
// The snapshot is kept for history.
func (r *MembershipRepository) Cancel(ctx context.Context, userID uuid.UUID, motivo string) (*models.User, error) {
	return r.users.SetMembership(ctx, userID, func(current *models.MembershipSnapshot) (*models.MembershipSnapshot, error) {
		if current == nil || current.Estado != models.MembershipActive {
			return nil, apperr.InvalidState("user has no active membership")
		}
		cancelled := *current
		at := r.now()
		cancelled.Estado = models.MembershipCancelled
		cancelled.FechaCancelacion = &at
		cancelled.MotivoCancelacion = motivo
		cancelled.RenovacionAutomatica = false
		return &cancelled, nil
	})
}

// SetActive activates or soft-deletes a plan.
func (r *MembershipRepository) SetActive(ctx context.Context, id uuid.UUID, active bool) (*models.Membership, error) {
	return setActive(ctx, r.Repository, id, active)
}
