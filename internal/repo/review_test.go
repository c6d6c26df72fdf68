package repo

import (
	"testing"

	"github.com/goliatone/go-coworking/internal/apperr"
	"github.com/goliatone/go-coworking/internal/models"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func (f *fixture) review(t *testing.T, entity *models.Building, calificacion int) *models.Review {
	t.Helper()
	out, err := f.repos.Reviews.Create(f.ctx, &models.Review{
		UsuarioID:    uuid.New(),
		EntidadTipo:  models.EntityBuilding,
		EntidadID:    entity.ID,
		Calificacion: calificacion,
	})
	require.NoError(t, err)
	require.Empty(t, out.Warning)
	assert.Equal(t, models.ModerationPending, out.Review.EstadoModeracion)
	return out.Review
}

func (f *fixture) approve(t *testing.T, id uuid.UUID) {
	t.Helper()
	out, err := f.repos.Reviews.Moderate(f.ctx, id, models.ModerationApproved, "")
	require.NoError(t, err)
	require.Empty(t, out.Warning)
}

func (f *fixture) rating(t *testing.T, id uuid.UUID) float64 {
	t.Helper()
	b, err := f.repos.Buildings.GetByID(f.ctx, id)
	require.NoError(t, err)
	return b.CalificacionPromedio
}

func TestReviews_AverageFollowsApprovedReviews(t *testing.T) {
	f := newFixture(t)
	b := f.building(t, "Norte", "Madrid")

	four := f.review(t, b, 4)
	two := f.review(t, b, 2)

	// pending reviews do not count
	assert.Zero(t, f.rating(t, b.ID))

	f.approve(t, four.ID)
	f.approve(t, two.ID)
	assert.Equal(t, 3.0, f.rating(t, b.ID))

	summary, err := f.repos.Reviews.Summary(f.ctx, models.EntityBuilding, b.ID)
	require.NoError(t, err)
	assert.Equal(t, 3.0, summary.Promedio)
	assert.Equal(t, 2, summary.Total)

	out, err := f.repos.Reviews.Delete(f.ctx, two.ID)
	require.NoError(t, err)
	assert.Empty(t, out.Warning)
	assert.Equal(t, 4.0, f.rating(t, b.ID))

	summary, err = f.repos.Reviews.Summary(f.ctx, models.EntityBuilding, b.ID)
	require.NoError(t, err)
	assert.Equal(t, 4.0, summary.Promedio)
	assert.Equal(t, 1, summary.Total)
}

func TestReviews_AverageIsRounded(t *testing.T) {
	f := newFixture(t)
	b := f.building(t, "Norte", "Madrid")

	for _, c := range []int{5, 4, 4} {
		f.approve(t, f.review(t, b, c).ID)
	}
	assert.Equal(t, 4.33, f.rating(t, b.ID))
}

func TestReviews_ByEntityListsApprovedOnly(t *testing.T) {
	f := newFixture(t)
	b := f.building(t, "Norte", "Madrid")

	approved := f.review(t, b, 5)
	f.approve(t, approved.ID)
	rejected := f.review(t, b, 1)
	_, err := f.repos.Reviews.Moderate(f.ctx, rejected.ID, models.ModerationRejected, "spam")
	require.NoError(t, err)
	f.review(t, b, 3)

	list, err := f.repos.Reviews.ByEntity(f.ctx, models.EntityBuilding, b.ID)
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, approved.ID, list[0].ID)

	pending, err := f.repos.Reviews.Pending(f.ctx)
	require.NoError(t, err)
	assert.Len(t, pending, 1)

	// moderation is final
	_, err = f.repos.Reviews.Moderate(f.ctx, rejected.ID, models.ModerationApproved, "")
	assert.True(t, apperr.Is(err, apperr.KindInvalidState))
}

func TestReviews_CreateRejects(t *testing.T) {
	f := newFixture(t)
	b := f.building(t, "Norte", "Madrid")
	author := uuid.New()

	_, err := f.repos.Reviews.Create(f.ctx, &models.Review{
		UsuarioID: author, EntidadTipo: models.EntityBuilding, EntidadID: b.ID, Calificacion: 4,
	})
	require.NoError(t, err)

	tests := []struct {
		name   string
		review models.Review
		kind   apperr.Kind
		field  string
	}{
		{
			name:   "duplicate review",
			review: models.Review{UsuarioID: author, EntidadTipo: models.EntityBuilding, EntidadID: b.ID, Calificacion: 2},
			kind:   apperr.KindConflict,
			field:  "entidadId",
		},
		{
			name:   "rating above range",
			review: models.Review{UsuarioID: uuid.New(), EntidadTipo: models.EntityBuilding, EntidadID: b.ID, Calificacion: 6},
			kind:   apperr.KindValidation,
			field:  "calificacion",
		},
		{
			name:   "rating below range",
			review: models.Review{UsuarioID: uuid.New(), EntidadTipo: models.EntityBuilding, EntidadID: b.ID},
			kind:   apperr.KindValidation,
			field:  "calificacion",
		},
		{
			name:   "missing entity",
			review: models.Review{UsuarioID: uuid.New(), EntidadTipo: models.EntityBuilding, EntidadID: uuid.New(), Calificacion: 3},
			kind:   apperr.KindValidation,
			field:  "entidadId",
		},
		{
			name:   "unknown entity type",
			review: models.Review{UsuarioID: uuid.New(), EntidadTipo: "planeta", EntidadID: b.ID, Calificacion: 3},
			kind:   apperr.KindValidation,
			field:  "entidadTipo",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rv := tt.review
			_, err := f.repos.Reviews.Create(f.ctx, &rv)
			require.Error(t, err)
			assert.Equal(t, tt.kind, apperr.KindOf(err))
			assert.Equal(t, tt.field, apperr.Field(err))
		})
	}
}

func TestReviews_UpdateKeepsModeration(t *testing.T) {
	f := newFixture(t)
	b := f.building(t, "Norte", "Madrid")
	rv := f.review(t, b, 2)
	f.approve(t, rv.ID)

	out, err := f.repos.Reviews.Update(f.ctx, rv.ID, func(r *models.Review) error {
		r.Calificacion = 5
		r.EstadoModeracion = models.ModerationPending
		return nil
	})
	require.NoError(t, err)
	assert.Equal(t, models.ModerationApproved, out.Review.EstadoModeracion)
	assert.Equal(t, 5.0, f.rating(t, b.ID))
}
