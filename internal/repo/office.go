package repo

import (
	"context"

	"github.com/goliatone/go-coworking/cache"
	"github.com/goliatone/go-coworking/internal/apperr"
	"github.com/goliatone/go-coworking/internal/models"
	"github.com/goliatone/go-coworking/repositorycache"
	repository "github.com/goliatone/go-repository-bun"
	"github.com/google/uuid"
)

// OfficeFilter narrows an office listing.
type OfficeFilter struct {
	EdificioID uuid.UUID           `json:"edificioId,omitempty"`
	EmpresaID  uuid.UUID           `json:"empresaId,omitempty"`
	Estado     models.OfficeStatus `json:"estado,omitempty"`
	Activo     *bool               `json:"activo,omitempty"`
}

func (f OfficeFilter) criteria() []repository.SelectCriteria {
	var c []repository.SelectCriteria
	if f.EdificioID != uuid.Nil {
		c = append(c, repositorycache.Where("edificio_id", f.EdificioID))
	}
	if f.EmpresaID != uuid.Nil {
		c = append(c, repositorycache.Where("empresa_id", f.EmpresaID))
	}
	if f.Estado != "" {
		c = append(c, repositorycache.Where("estado", f.Estado))
	}
	if f.Activo != nil {
		c = append(c, repositorycache.Where("activo", *f.Activo))
	}
	return c
}

// OfficeRepository stores private offices (oficinas).
type OfficeRepository struct {
	*repositorycache.Repository[*models.Office]
	buildings *BuildingRepository
}

// NewOfficeRepository builds the office repository.
func NewOfficeRepository(d Deps, buildings *BuildingRepository) *OfficeRepository {
	keys := cache.NewKeys("oficinas")
	return &OfficeRepository{
		Repository: newEngine[models.Office](d, repositorycache.Options[*models.Office]{
			Namespace: keys.Entity(),
			Expand: func(ctx context.Context, o *models.Office) (err error) {
				o.Edificio, err = related(ctx, buildings.Repository, o.EdificioID)
				return err
			},
			Axes: []repositorycache.Axis[*models.Office]{
				func(o *models.Office) []string {
					return []string{
						parent(keys, "edificios", o.EdificioID),
						parent(keys, "empresas", o.EmpresaID),
						keys.ByField("estado", string(o.Estado)),
					}
				},
			},
		}),
		buildings: buildings,
	}
}

// Create stores a new, active office. Offices start available unless a
// company is already assigned.
func (r *OfficeRepository) Create(ctx context.Context, o *models.Office) (*models.Office, error) {
	if _, err := reference(ctx, r.buildings.Repository, o.EdificioID, "edificioId"); err != nil {
		return nil, err
	}
	if o.Estado == "" {
		o.Estado = models.OfficeAvailable
		if o.EmpresaID != uuid.Nil {
			o.Estado = models.OfficeOccupied
		}
	}
	o.Activo = true
	return r.Repository.Create(ctx, o)
}

// Update applies a partial change. Moving an office checks the new building.
// An occupied office keeps its lease; occupancy changes go through Assign and
// Release.
func (r *OfficeRepository) Update(ctx context.Context, id uuid.UUID, mutate func(*models.Office) error) (*models.Office, error) {
	return r.Repository.Update(ctx, id, func(o *models.Office) error {
		before := *o
		if err := mutate(o); err != nil {
			return err
		}
		o.EmpresaID = before.EmpresaID
		if before.Estado == models.OfficeOccupied || o.Estado == models.OfficeOccupied {
			o.Estado = before.Estado
		}
		if o.EdificioID != before.EdificioID {
			if _, err := reference(ctx, r.buildings.Repository, o.EdificioID, "edificioId"); err != nil {
				return err
			}
		}
		return nil
	})
}

// List returns one page of offices matching f.
func (r *OfficeRepository) List(ctx context.Context, f OfficeFilter, skip, limit int) ([]*models.Office, error) {
	return r.Repository.List(ctx, f, skip, limit, f.criteria()...)
}

// ByBuilding lists the offices of a building.
func (r *OfficeRepository) ByBuilding(ctx context.Context, buildingID uuid.UUID) ([]*models.Office, error) {
	return r.Find(ctx, r.Keys().ByParent("edificios", buildingID.String()),
		repositorycache.Where("edificio_id", buildingID),
	)
}

// ByCompany lists the offices leased to a company.
func (r *OfficeRepository) ByCompany(ctx context.Context, companyID uuid.UUID) ([]*models.Office, error) {
	return r.Find(ctx, r.Keys().ByParent("empresas", companyID.String()),
		repositorycache.Where("empresa_id", companyID),
	)
}

// ByStatus lists active offices in a status.
func (r *OfficeRepository) ByStatus(ctx context.Context, estado models.OfficeStatus) ([]*models.Office, error) {
	return r.Find(ctx, r.Keys().ByField("estado", string(estado)),
		repositorycache.Where("estado", estado),
		repositorycache.Where("activo", true),
	)
}

// Assign leases an available office to a company.
func (r *OfficeRepository) Assign(ctx context.Context, id, companyID uuid.UUID) (*models.Office, error) {
	return r.Repository.Update(ctx, id, func(o *models.Office) error {
		if err := requireActive(o, "office"); err != nil {
			return err
		}
		if o.Estado != models.OfficeAvailable {
			return apperr.InvalidState("office is " + string(o.Estado) + ", not " + string(models.OfficeAvailable))
		}
		o.EmpresaID = companyID
		o.Estado = models.OfficeOccupied
		return nil
	})
}

// Release ends the lease of an occupied office.
func (r *OfficeRepository) Release(ctx context.Context, id uuid.UUID) (*models.Office, error) {
	return r.Repository.Update(ctx, id, func(o *models.Office) error {
		if o.Estado != models.OfficeOccupied {
			return apperr.InvalidState("office is not occupied")
		}
		o.EmpresaID = uuid.Nil
		o.Estado = models.OfficeAvailable
		return nil
	})
}

// SetActive activates or soft-deletes an office.
func (r *OfficeRepository) SetActive(ctx context.Context, id uuid.UUID, active bool) (*models.Office, error) {
	return setActive(ctx, r.Repository, id, active)
}

// UpdateAggregateRating stores a recomputed review average.
func (r *OfficeRepository) UpdateAggregateRating(ctx context.Context, id uuid.UUID, value float64) error {
	_, err := r.Repository.Update(ctx, id, func(o *models.Office) error {
		o.SetAggregateRating(value)
		return nil
	})
	return err
}
