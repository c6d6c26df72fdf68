package repo

import (
	"context"

	"github.com/goliatone/go-coworking/cache"
	"github.com/goliatone/go-coworking/internal/models"
	"github.com/goliatone/go-coworking/repositorycache"
	repository "github.com/goliatone/go-repository-bun"
	"github.com/google/uuid"
)

// ServiceFilter narrows an add-on service listing.
type ServiceFilter struct {
	EdificioID uuid.UUID              `json:"edificioId,omitempty"`
	Categoria  models.ServiceCategory `json:"categoria,omitempty"`
	Activo     *bool                  `json:"activo,omitempty"`
}

func (f ServiceFilter) criteria() []repository.SelectCriteria {
	var c []repository.SelectCriteria
	if f.EdificioID != uuid.Nil {
		c = append(c, repositorycache.Where("edificio_id", f.EdificioID))
	}
	if f.Categoria != "" {
		c = append(c, repositorycache.Where("categoria", f.Categoria))
	}
	if f.Activo != nil {
		c = append(c, repositorycache.Where("activo", *f.Activo))
	}
	return c
}

// ServiceRepository stores add-on services (servicios).
type ServiceRepository struct {
	*repositorycache.Repository[*models.AddOnService]
	buildings *BuildingRepository
}

// NewServiceRepository builds the add-on service repository.
func NewServiceRepository(d Deps, buildings *BuildingRepository) *ServiceRepository {
	keys := cache.NewKeys("servicios")
	return &ServiceRepository{
		Repository: newEngine[models.AddOnService](d, repositorycache.Options[*models.AddOnService]{
			Namespace: keys.Entity(),
			Expand: func(ctx context.Context, s *models.AddOnService) (err error) {
				s.Edificio, err = related(ctx, buildings.Repository, s.EdificioID)
				return err
			},
			Axes: []repositorycache.Axis[*models.AddOnService]{
				func(s *models.AddOnService) []string {
					return []string{
						parent(keys, "edificios", s.EdificioID),
						keys.ByField("categoria", string(s.Categoria)),
					}
				},
			},
		}),
		buildings: buildings,
	}
}

// Create stores a new, active service. The building is optional; services
// without one are offered network-wide.
func (r *ServiceRepository) Create(ctx context.Context, s *models.AddOnService) (*models.AddOnService, error) {
	if s.EdificioID != uuid.Nil {
		if _, err := reference(ctx, r.buildings.Repository, s.EdificioID, "edificioId"); err != nil {
			return nil, err
		}
	}
	s.Activo = true
	return r.Repository.Create(ctx, s)
}

// Update applies a partial change. Moving a service to another building
// checks that building; clearing it makes the service network-wide.
func (r *ServiceRepository) Update(ctx context.Context, id uuid.UUID, mutate func(*models.AddOnService) error) (*models.AddOnService, error) {
	return r.Repository.Update(ctx, id, func(s *models.AddOnService) error {
		before := s.EdificioID
		if err := mutate(s); err != nil {
			return err
		}
		if s.EdificioID != before && s.EdificioID != uuid.Nil {
			if _, err := reference(ctx, r.buildings.Repository, s.EdificioID, "edificioId"); err != nil {
				return err
			}
		}
		return nil
	})
}

// List returns one page of services matching f.
func (r *ServiceRepository) List(ctx context.Context, f ServiceFilter, skip, limit int) ([]*models.AddOnService, error) {
	return r.Repository.List(ctx, f, skip, limit, f.criteria()...)
}

// ByCategory lists active services of a category.
func (r *ServiceRepository) ByCategory(ctx context.Context, categoria models.ServiceCategory) ([]*models.AddOnService, error) {
	return r.Find(ctx, r.Keys().ByField("categoria", string(categoria)),
		repositorycache.Where("categoria", categoria),
		repositorycache.Where("activo", true),
	)
}

// ByBuilding lists the services offered in a building.
func (r *ServiceRepository) ByBuilding(ctx context.Context, buildingID uuid.UUID) ([]*models.AddOnService, error) {
	return r.Find(ctx, r.Keys().ByParent("edificios", buildingID.String()),
		repositorycache.Where("edificio_id", buildingID),
	)
}

// SetActive activates or soft-deletes a service.
func (r *ServiceRepository) SetActive(ctx context.Context, id uuid.UUID, active bool) (*models.AddOnService, error) {
	return setActive(ctx, r.Repository, id, active)
}

// UpdateAggregateRating stores a recomputed review average.
func (r *ServiceRepository) UpdateAggregateRating(ctx context.Context, id uuid.UUID, value float64) error {
	_, err := r.Repository.Update(ctx, id, func(s *models.AddOnService) error {
		s.SetAggregateRating(value)
		return nil
	})
	return err
}
