package repo

import (
	"testing"
	"time"

	"github.com/goliatone/go-coworking/internal/apperr"
	"github.com/goliatone/go-coworking/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func (f *fixture) plan(t *testing.T, dias int) *models.Membership {
	t.Helper()
	m, err := f.repos.Memberships.Create(f.ctx, &models.Membership{
		Nombre:       "Mensual",
		Tipo:         models.MembershipPremium,
		Precio:       120,
		DuracionDias: dias,
	})
	require.NoError(t, err)
	return m
}

func TestMemberships_Subscribe(t *testing.T) {
	f := newFixture(t)
	plan := f.plan(t, 30)
	u := f.user(t, "ana@example.com")

	start := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	u, err := f.repos.Memberships.Subscribe(f.ctx, Subscription{
		UsuarioID:            u.ID,
		MembresiaID:          plan.ID,
		FechaInicio:          start,
		RenovacionAutomatica: true,
	})
	require.NoError(t, err)
	require.NotNil(t, u.Membresia)

	assert.Equal(t, plan.ID, u.MembresiaID)
	assert.Equal(t, models.MembershipActive, u.Membresia.Estado)
	assert.True(t, u.Membresia.FechaVencimiento.Equal(time.Date(2024, 1, 31, 0, 0, 0, 0, time.UTC)),
		"expiry = %v", u.Membresia.FechaVencimiento)

	members, err := f.repos.Memberships.Users(f.ctx, plan.ID)
	require.NoError(t, err)
	require.Len(t, members, 1)
	assert.Equal(t, u.ID, members[0].ID)
}

func TestMemberships_SubscribeDefaultsToToday(t *testing.T) {
	f := newFixture(t)
	plan := f.plan(t, 10)
	u := f.user(t, "ana@example.com")

	u, err := f.repos.Memberships.Subscribe(f.ctx, Subscription{UsuarioID: u.ID, MembresiaID: plan.ID})
	require.NoError(t, err)
	assert.True(t, u.Membresia.FechaInicio.Equal(f.clock.Now()))
	assert.True(t, u.HasActiveMembership(f.clock.Now()))

	f.clock.Advance(11 * 24 * time.Hour)
	assert.False(t, u.HasActiveMembership(f.clock.Now()))
}

func TestMemberships_SubscribeInactivePlan(t *testing.T) {
	f := newFixture(t)
	plan := f.plan(t, 30)
	u := f.user(t, "ana@example.com")

	_, err := f.repos.Memberships.SetActive(f.ctx, plan.ID, false)
	require.NoError(t, err)

	_, err = f.repos.Memberships.Subscribe(f.ctx, Subscription{UsuarioID: u.ID, MembresiaID: plan.ID})
	assert.True(t, apperr.Is(err, apperr.KindInvalidState))
}

func TestMemberships_Cancel(t *testing.T) {
	f := newFixture(t)
	plan := f.plan(t, 30)
	u := f.user(t, "ana@example.com")

	_, err := f.repos.Memberships.Cancel(f.ctx, u.ID, "sin plan")
	assert.True(t, apperr.Is(err, apperr.KindInvalidState), "cancel without a membership")

	_, err = f.repos.Memberships.Subscribe(f.ctx, Subscription{UsuarioID: u.ID, MembresiaID: plan.ID, RenovacionAutomatica: true})
	require.NoError(t, err)

	u, err = f.repos.Memberships.Cancel(f.ctx, u.ID, "me mudo")
	require.NoError(t, err)
	require.NotNil(t, u.Membresia, "the snapshot is kept")
	assert.Equal(t, models.MembershipCancelled, u.Membresia.Estado)
	assert.Equal(t, "me mudo", u.Membresia.MotivoCancelacion)
	assert.False(t, u.Membresia.RenovacionAutomatica)
	assert.False(t, u.HasActiveMembership(f.clock.Now()))

	_, err = f.repos.Memberships.Cancel(f.ctx, u.ID, "otra vez")
	assert.True(t, apperr.Is(err, apperr.KindInvalidState))
}
