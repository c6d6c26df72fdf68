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

// UserFilter narrows a user listing.
type UserFilter struct {
	Rol         models.Role `json:"rol,omitempty"`
	EmpresaID   uuid.UUID   `json:"empresaId,omitempty"`
	MembresiaID uuid.UUID   `json:"membresiaId,omitempty"`
	Activo      *bool       `json:"activo,omitempty"`
}

func (f UserFilter) criteria() []repository.SelectCriteria {
	var c []repository.SelectCriteria
	if f.Rol != "" {
		c = append(c, repositorycache.Where("rol", f.Rol))
	}
	if f.EmpresaID != uuid.Nil {
		c = append(c, repositorycache.Where("empresa_id", f.EmpresaID))
	}
	if f.MembresiaID != uuid.Nil {
		c = append(c, repositorycache.Where("membresia_id", f.MembresiaID))
	}
	if f.Activo != nil {
		c = append(c, repositorycache.Where("activo", *f.Activo))
	}
	return c
}

// UserRepository stores accounts (usuarios).
type UserRepository struct {
	*repositorycache.Repository[*models.User]
	now func() time.Time
}

// NewUserRepository builds the user repository.
func NewUserRepository(d Deps) *UserRepository {
	keys := cache.NewKeys("usuarios")
	return &UserRepository{
		Repository: newEngine[models.User](d, repositorycache.Options[*models.User]{
			Namespace: keys.Entity(),
			Axes: []repositorycache.Axis[*models.User]{
				func(u *models.User) []string {
					return []string{
						parent(keys, "empresas", u.EmpresaID),
						parent(keys, "membresias", u.MembresiaID),
						keys.ByField("email", normalize(u.Email)),
						keys.ByField("rol", string(u.Rol)),
					}
				},
			},
		}),
		now: d.now,
	}
}

// Create stores a new, active user. Emails are unique case-insensitively.
func (r *UserRepository) Create(ctx context.Context, u *models.User) (*models.User, error) {
	u.Email = normalize(u.Email)
	if err := r.ensureUniqueEmail(ctx, u.Email, uuid.Nil); err != nil {
		return nil, err
	}
	if u.Rol == "" {
		u.Rol = models.RoleUser
	}
	if u.MetodosPago == nil {
		u.MetodosPago = []models.StoredPaymentMethod{}
	}
	u.Membresia = nil
	u.MembresiaID = uuid.Nil
	u.Activo = true

	created, err := r.Repository.Create(ctx, u)
	if apperr.Is(err, apperr.KindConflict) {
		return nil, duplicateEmail(u.Email)
	}
	return created, err
}

// Update applies a partial profile change, re-checking email uniqueness.
func (r *UserRepository) Update(ctx context.Context, id uuid.UUID, mutate func(*models.User) error) (*models.User, error) {
	updated, err := r.Repository.Update(ctx, id, func(u *models.User) error {
		before := u.Email
		if err := mutate(u); err != nil {
			return err
		}
		u.Email = normalize(u.Email)
		if u.Email != before {
			return r.ensureUniqueEmail(ctx, u.Email, id)
		}
		return nil
	})
	if apperr.Is(err, apperr.KindConflict) && apperr.Field(err) == "" {
		return nil, duplicateEmail("")
	}
	return updated, err
}

// List returns one page of users matching f.
func (r *UserRepository) List(ctx context.Context, f UserFilter, skip, limit int) ([]*models.User, error) {
	return r.Repository.List(ctx, f, skip, limit, f.criteria()...)
}

// ByEmail reads a user by email, case-insensitively.
func (r *UserRepository) ByEmail(ctx context.Context, email string) (*models.User, error) {
	email = normalize(email)
	return r.FindOne(ctx, r.Keys().ByField("email", email), repositorycache.Where("email", email))
}

// ByRole lists active users with a role.
func (r *UserRepository) ByRole(ctx context.Context, rol models.Role) ([]*models.User, error) {
	return r.Find(ctx, r.Keys().ByField("rol", string(rol)),
		repositorycache.Where("rol", rol),
		repositorycache.Where("activo", true),
	)
}

// ByCompany lists the users of a company.
func (r *UserRepository) ByCompany(ctx context.Context, companyID uuid.UUID) ([]*models.User, error) {
	return r.Find(ctx, r.Keys().ByParent("empresas", companyID.String()),
		repositorycache.Where("empresa_id", companyID),
	)
}

// ByMembership lists the users subscribed to a membership plan.
func (r *UserRepository) ByMembership(ctx context.Context, membershipID uuid.UUID) ([]*models.User, error) {
	return r.Find(ctx, r.Keys().ByParent("membresias", membershipID.String()),
		repositorycache.Where("membresia_id", membershipID),
	)
}

// SetMembership replaces the denormalized membership snapshot with the result
// of mutate. The update invalidates both the old and the new plan's user list.
func (r *UserRepository) SetMembership(ctx context.Context, id uuid.UUID, mutate func(current *models.MembershipSnapshot) (*models.MembershipSnapshot, error)) (*models.User, error) {
	return r.Repository.Update(ctx, id, func(u *models.User) error {
		next, err := mutate(u.Membresia)
		if err != nil {
			return err
		}
		u.Membresia = next
		// only active subscriptions are listed under the plan
		u.MembresiaID = uuid.Nil
		if next != nil && next.Estado == models.MembershipActive {
			u.MembresiaID = next.MembresiaID
		}
		return nil
	})
}

// ActiveMembership returns the user's membership snapshot from a single
// by-id read and whether it is active now.
func (r *UserRepository) ActiveMembership(ctx context.Context, id uuid.UUID) (*models.MembershipSnapshot, bool, error) {
	u, err := r.GetByID(ctx, id)
	if err != nil {
		return nil, false, err
	}
	return u.Membresia, u.HasActiveMembership(r.now()), nil
}

// ReplacePaymentMethods overwrites the stored payment methods. At most one
// may be the default; when none is marked the first one becomes default.
func (r *UserRepository) ReplacePaymentMethods(ctx context.Context, id uuid.UUID, methods []models.StoredPaymentMethod) (*models.User, error) {
	defaults := 0
	for _, m := range methods {
		if m.Predeterminado {
			defaults++
		}
	}
	if defaults > 1 {
		return nil, apperr.Validation("metodosPago", "only one payment method can be the default")
	}
	if methods == nil {
		methods = []models.StoredPaymentMethod{}
	}
	if defaults == 0 && len(methods) > 0 {
		methods[0].Predeterminado = true
	}

	return r.Repository.Update(ctx, id, func(u *models.User) error {
		u.MetodosPago = methods
		return nil
	})
}

// SetActive activates or soft-deletes a user.
func (r *UserRepository) SetActive(ctx context.Context, id uuid.UUID, active bool) (*models.User, error) {
	return setActive(ctx, r.Repository, id, active)
}

func (r *UserRepository) ensureUniqueEmail(ctx context.Context, email string, self uuid.UUID) error {
	existing, err := r.Query(ctx, repositorycache.Where("email", email), repositorycache.Limit(1))
	if err != nil {
		return err
	}
	if len(existing) > 0 && existing[0].ID != self {
		return duplicateEmail(email)
	}
	return nil
}

func duplicateEmail(email string) error {
	msg := "email already registered"
	if email != "" {
		msg = "email " + email + " already registered"
	}
	return apperr.Conflict("email", msg)
}
