package repo

import (
	"context"
	"fmt"

	"github.com/goliatone/go-coworking/internal/models"
	"github.com/google/uuid"
)

// RatingTarget is a reviewable entity repository that stores the average
// rating of its records.
type RatingTarget interface {
	Exists(ctx context.Context, id uuid.UUID) error
	UpdateAggregateRating(ctx context.Context, id uuid.UUID, value float64) error
}

// RatingRegistry maps a reviewable entity kind to its repository.
type RatingRegistry map[models.EntityType]RatingTarget

// NewRatingRegistry registers the four reviewable entity repositories.
func NewRatingRegistry(buildings *BuildingRepository, spaces *SpaceRepository, offices *OfficeRepository, services *ServiceRepository) RatingRegistry {
	return RatingRegistry{
		models.EntityBuilding: buildings,
		models.EntitySpace:    spaces,
		models.EntityOffice:   offices,
		models.EntityService:  services,
	}
}

// Target returns the repository registered for t.
func (rr RatingRegistry) Target(t models.EntityType) (RatingTarget, error) {
	target, ok := rr[t]
	if !ok || target == nil {
		return nil, fmt.Errorf("no rating target registered for %q", t)
	}
	return target, nil
}
