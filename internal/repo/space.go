package repo

import (
	"context"
	"strconv"

	"github.com/goliatone/go-coworking/cache"
	"github.com/goliatone/go-coworking/internal/apperr"
	"github.com/goliatone/go-coworking/internal/models"
	"github.com/goliatone/go-coworking/repositorycache"
	repository "github.com/goliatone/go-repository-bun"
	"github.com/google/uuid"
)

// SpaceFilter narrows a space listing.
type SpaceFilter struct {
	EdificioID   uuid.UUID        `json:"edificioId,omitempty"`
	Tipo         models.SpaceType `json:"tipo,omitempty"`
	CapacidadMin int              `json:"capacidadMin,omitempty"`
	PrecioMax    float64          `json:"precioMax,omitempty"`
	Activo       *bool            `json:"activo,omitempty"`
}

func (f SpaceFilter) criteria() []repository.SelectCriteria {
	var c []repository.SelectCriteria
	if f.EdificioID != uuid.Nil {
		c = append(c, repositorycache.Where("edificio_id", f.EdificioID))
	}
	if f.Tipo != "" {
		c = append(c, repositorycache.Where("tipo", f.Tipo))
	}
	if f.CapacidadMin > 0 {
		c = append(c, repositorycache.WhereExpr("?TableAlias.capacidad >= ?", f.CapacidadMin))
	}
	if f.PrecioMax > 0 {
		c = append(c, repositorycache.WhereExpr("?TableAlias.precio_por_hora <= ?", f.PrecioMax))
	}
	if f.Activo != nil {
		c = append(c, repositorycache.Where("activo", *f.Activo))
	}
	return c
}

// SpaceRepository stores bookable spaces (espacios).
type SpaceRepository struct {
	*repositorycache.Repository[*models.Space]
	buildings *BuildingRepository
}

// NewSpaceRepository builds the space repository.
func NewSpaceRepository(d Deps, buildings *BuildingRepository) *SpaceRepository {
	keys := cache.NewKeys("espacios")
	return &SpaceRepository{
		Repository: newEngine[models.Space](d, repositorycache.Options[*models.Space]{
			Namespace: keys.Entity(),
			Expand: func(ctx context.Context, s *models.Space) (err error) {
				s.Edificio, err = related(ctx, buildings.Repository, s.EdificioID)
				return err
			},
			Families:  []string{keys.RangeFamily("precio")},
			Axes: []repositorycache.Axis[*models.Space]{
				func(s *models.Space) []string {
					return []string{
						parent(keys, "edificios", s.EdificioID),
						keys.ByField("tipo", string(s.Tipo)),
					}
				},
			},
		}),
		buildings: buildings,
	}
}

// Create stores a new, active space in an existing building.
func (r *SpaceRepository) Create(ctx context.Context, s *models.Space) (*models.Space, error) {
	if _, err := reference(ctx, r.buildings.Repository, s.EdificioID, "edificioId"); err != nil {
		return nil, err
	}
	s.Activo = true
	if s.Amenidades == nil {
		s.Amenidades = []string{}
	}
	return r.Repository.Create(ctx, s)
}

// Update applies a partial change. Moving a space checks the new building.
func (r *SpaceRepository) Update(ctx context.Context, id uuid.UUID, mutate func(*models.Space) error) (*models.Space, error) {
	return r.Repository.Update(ctx, id, func(s *models.Space) error {
		before := s.EdificioID
		if err := mutate(s); err != nil {
			return err
		}
		if s.EdificioID != before {
			if _, err := reference(ctx, r.buildings.Repository, s.EdificioID, "edificioId"); err != nil {
				return err
			}
		}
		return nil
	})
}

// List returns one page of spaces matching f.
func (r *SpaceRepository) List(ctx context.Context, f SpaceFilter, skip, limit int) ([]*models.Space, error) {
	return r.Repository.List(ctx, f, skip, limit, f.criteria()...)
}

// ByBuilding lists the spaces of a building.
func (r *SpaceRepository) ByBuilding(ctx context.Context, buildingID uuid.UUID) ([]*models.Space, error) {
	return r.Find(ctx, r.Keys().ByParent("edificios", buildingID.String()),
		repositorycache.Where("edificio_id", buildingID),
	)
}

// ByType lists active spaces of a type.
func (r *SpaceRepository) ByType(ctx context.Context, tipo models.SpaceType) ([]*models.Space, error) {
	return r.Find(ctx, r.Keys().ByField("tipo", string(tipo)),
		repositorycache.Where("tipo", tipo),
		repositorycache.Where("activo", true),
	)
}

// ByPriceRange lists active spaces whose hourly price lies in [min, max].
func (r *SpaceRepository) ByPriceRange(ctx context.Context, min, max float64) ([]*models.Space, error) {
	if max < min {
		return nil, apperr.Validation("max", "max must not be lower than min")
	}
	key := r.Keys().ByRange("precio", formatPrice(min), formatPrice(max))
	return r.Find(ctx, key,
		repositorycache.WhereBetween("precio_por_hora", min, max),
		repositorycache.Where("activo", true),
		repositorycache.OrderBy("precio_por_hora", false),
	)
}

// SetActive activates or soft-deletes a space.
func (r *SpaceRepository) SetActive(ctx context.Context, id uuid.UUID, active bool) (*models.Space, error) {
	return setActive(ctx, r.Repository, id, active)
}

// UpdateAggregateRating stores a recomputed review average.
func (r *SpaceRepository) UpdateAggregateRating(ctx context.Context, id uuid.UUID, value float64) error {
	_, err := r.Repository.Update(ctx, id, func(s *models.Space) error {
		s.SetAggregateRating(value)
		return nil
	})
	return err
}

func formatPrice(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}
