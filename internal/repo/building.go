package repo

import (
	"context"
	"slices"

	"github.com/goliatone/go-coworking/cache"
	"github.com/goliatone/go-coworking/internal/apperr"
	"github.com/goliatone/go-coworking/internal/models"
	"github.com/goliatone/go-coworking/repositorycache"
	repository "github.com/goliatone/go-repository-bun"
	"github.com/google/uuid"
)

// BuildingFilter narrows a building listing.
type BuildingFilter struct {
	Ciudad        string    `json:"ciudad,omitempty"`
	Pais          string    `json:"pais,omitempty"`
	PropietarioID uuid.UUID `json:"propietarioId,omitempty"`
	Amenidad      string    `json:"amenidad,omitempty"`
	Activo        *bool     `json:"activo,omitempty"`
}

func (f BuildingFilter) criteria() []repository.SelectCriteria {
	var c []repository.SelectCriteria
	if f.Ciudad != "" {
		c = append(c, repositorycache.WhereExpr("LOWER(?TableAlias.ciudad) = ?", normalize(f.Ciudad)))
	}
	if f.Pais != "" {
		c = append(c, repositorycache.WhereExpr("LOWER(?TableAlias.pais) = ?", normalize(f.Pais)))
	}
	if f.PropietarioID != uuid.Nil {
		c = append(c, repositorycache.Where("propietario_id", f.PropietarioID))
	}
	if f.Amenidad != "" {
		c = append(c, repositorycache.WhereExpr("CAST(?TableAlias.amenidades AS TEXT) LIKE ?", "%\""+f.Amenidad+"\"%"))
	}
	if f.Activo != nil {
		c = append(c, repositorycache.Where("activo", *f.Activo))
	}
	return c
}

// BuildingRepository stores buildings (edificios).
type BuildingRepository struct {
	*repositorycache.Repository[*models.Building]
}

// NewBuildingRepository builds the building repository.
func NewBuildingRepository(d Deps) *BuildingRepository {
	keys := cache.NewKeys("edificios")
	return &BuildingRepository{
		Repository: newEngine[models.Building](d, repositorycache.Options[*models.Building]{
			Namespace: keys.Entity(),
			Axes: []repositorycache.Axis[*models.Building]{
				func(b *models.Building) []string {
					return []string{
						parent(keys, "usuarios", b.PropietarioID),
						keys.ByField("ciudad", normalize(b.Ciudad)),
						keys.ByField("pais", normalize(b.Pais)),
					}
				},
			},
		}),
	}
}

// Create stores a new, active building.
func (r *BuildingRepository) Create(ctx context.Context, b *models.Building) (*models.Building, error) {
	b.Activo = true
	if b.Amenidades == nil {
		b.Amenidades = []string{}
	}
	return r.Repository.Create(ctx, b)
}

// List returns one page of buildings matching f.
func (r *BuildingRepository) List(ctx context.Context, f BuildingFilter, skip, limit int) ([]*models.Building, error) {
	return r.Repository.List(ctx, f, skip, limit, f.criteria()...)
}

// ByCity lists active buildings in a city, case-insensitively.
func (r *BuildingRepository) ByCity(ctx context.Context, ciudad string) ([]*models.Building, error) {
	city := normalize(ciudad)
	return r.Find(ctx, r.Keys().ByField("ciudad", city),
		repositorycache.WhereExpr("LOWER(?TableAlias.ciudad) = ?", city),
		repositorycache.Where("activo", true),
	)
}

// ByOwner lists the buildings of an owner.
func (r *BuildingRepository) ByOwner(ctx context.Context, ownerID uuid.UUID) ([]*models.Building, error) {
	return r.Find(ctx, r.Keys().ByParent("usuarios", ownerID.String()),
		repositorycache.Where("propietario_id", ownerID),
	)
}

// SetActive activates or soft-deletes a building.
func (r *BuildingRepository) SetActive(ctx context.Context, id uuid.UUID, active bool) (*models.Building, error) {
	return setActive(ctx, r.Repository, id, active)
}

// AddAmenity appends an amenity; adding an existing one is a conflict.
func (r *BuildingRepository) AddAmenity(ctx context.Context, id uuid.UUID, amenity string) (*models.Building, error) {
	return r.Repository.Update(ctx, id, func(b *models.Building) error {
		if b.HasAmenity(amenity) {
			return apperr.Conflict("amenidad", "amenity "+amenity+" already listed")
		}
		b.Amenidades = append(b.Amenidades, amenity)
		return nil
	})
}

// RemoveAmenity drops an amenity; removing an unknown one is not found.
func (r *BuildingRepository) RemoveAmenity(ctx context.Context, id uuid.UUID, amenity string) (*models.Building, error) {
	return r.Repository.Update(ctx, id, func(b *models.Building) error {
		if !b.HasAmenity(amenity) {
			return apperr.NotFound("amenidad", amenity)
		}
		b.Amenidades = slices.DeleteFunc(b.Amenidades, func(a string) bool { return a == amenity })
		return nil
	})
}

// UpdateAggregateRating stores a recomputed review average.
func (r *BuildingRepository) UpdateAggregateRating(ctx context.Context, id uuid.UUID, value float64) error {
	_, err := r.Repository.Update(ctx, id, func(b *models.Building) error {
		b.SetAggregateRating(value)
		return nil
	})
	return err
}
