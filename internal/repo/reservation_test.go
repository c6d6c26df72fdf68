package repo

import (
	"testing"
	"time"

	"github.com/goliatone/go-coworking/internal/apperr"
	"github.com/goliatone/go-coworking/internal/models"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func (f *fixture) promotion(t *testing.T, codigo string, mutate ...func(*models.Promotion)) *models.Promotion {
	t.Helper()
	p := &models.Promotion{
		Codigo:         codigo,
		TipoDescuento:  models.DiscountPercent,
		ValorDescuento: 10,
		FechaInicio:    time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC),
		FechaFin:       time.Date(2024, 12, 31, 0, 0, 0, 0, time.UTC),
		AplicaA:        models.ScopeAll,
	}
	for _, m := range mutate {
		m(p)
	}
	created, err := f.repos.Promotions.Create(f.ctx, p)
	require.NoError(t, err)
	return created
}

func (f *fixture) book(t *testing.T, spaceID uuid.UUID, from, to int, codigo string) (*models.Reservation, error) {
	t.Helper()
	return f.repos.Reservations.Create(f.ctx, &models.Reservation{
		UsuarioID:       uuid.New(),
		EspacioID:       spaceID,
		FechaInicio:     at(from),
		FechaFin:        at(to),
		CodigoPromocion: codigo,
	})
}

func TestPromotions_DuplicateCode(t *testing.T) {
	f := newFixture(t)
	first := f.promotion(t, " verano24 ")
	assert.Equal(t, "VERANO24", first.Codigo)

	// warm the by-code entry
	cached, err := f.repos.Promotions.ByCode(f.ctx, "verano24")
	require.NoError(t, err)
	require.Equal(t, first.ID, cached.ID)

	_, err = f.repos.Promotions.Create(f.ctx, &models.Promotion{
		Codigo:         "VERANO24",
		TipoDescuento:  models.DiscountFixed,
		ValorDescuento: 50,
		FechaInicio:    time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC),
		FechaFin:       time.Date(2024, 12, 31, 0, 0, 0, 0, time.UTC),
		AplicaA:        models.ScopeAll,
	})
	require.Error(t, err)
	assert.True(t, apperr.Is(err, apperr.KindConflict))
	assert.Equal(t, "codigo", apperr.Field(err))

	after, err := f.repos.Promotions.ByCode(f.ctx, "VERANO24")
	require.NoError(t, err)
	assert.Equal(t, first.ID, after.ID)
	assert.Equal(t, models.DiscountPercent, after.TipoDescuento)
}

func TestPromotions_Validate(t *testing.T) {
	f := newFixture(t)
	f.promotion(t, "DIEZ", func(p *models.Promotion) { p.MontoMinimo = 30 })
	f.promotion(t, "FIJO", func(p *models.Promotion) {
		p.TipoDescuento = models.DiscountFixed
		p.ValorDescuento = 100
	})
	f.promotion(t, "SOCIOS", func(p *models.Promotion) { p.AplicaA = models.ScopeMemberships })
	f.promotion(t, "FUTURO", func(p *models.Promotion) {
		p.FechaInicio = time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)
		p.FechaFin = time.Date(2025, 2, 1, 0, 0, 0, 0, time.UTC)
	})
	f.promotion(t, "AGOTADA", func(p *models.Promotion) { p.UsosMaximos = 1 })
	agotada, err := f.repos.Promotions.ByCode(f.ctx, "AGOTADA")
	require.NoError(t, err)
	_, err = f.repos.Promotions.Redeem(f.ctx, agotada.ID)
	require.NoError(t, err)

	tests := []struct {
		code      string
		amount    float64
		valid     bool
		descuento float64
		final     float64
	}{
		{code: "diez", amount: 40, valid: true, descuento: 4, final: 36},
		{code: "DIEZ", amount: 20, valid: false, final: 20},
		{code: "FIJO", amount: 40, valid: true, descuento: 40, final: 0},
		{code: "SOCIOS", amount: 40, valid: false, final: 40},
		{code: "FUTURO", amount: 40, valid: false, final: 40},
		{code: "AGOTADA", amount: 40, valid: false, final: 40},
	}

	for _, tt := range tests {
		t.Run(tt.code, func(t *testing.T) {
			v, err := f.repos.Promotions.Validate(f.ctx, tt.code, tt.amount, models.ScopeReservations)
			require.NoError(t, err)
			assert.Equal(t, tt.valid, v.Valida)
			assert.Equal(t, tt.descuento, v.Descuento)
			assert.Equal(t, tt.final, v.MontoFinal)
			if !tt.valid {
				assert.NotEmpty(t, v.Motivo)
			}
		})
	}

	_, err = f.repos.Promotions.Validate(f.ctx, "NOEXISTE", 40, models.ScopeReservations)
	assert.True(t, apperr.Is(err, apperr.KindNotFound))
}

func TestReservations_Create(t *testing.T) {
	f := newFixture(t)
	s := f.space(t, f.building(t, "Norte", "Madrid").ID, 20)

	res, err := f.book(t, s.ID, 10, 12, "")
	require.NoError(t, err)
	assert.Equal(t, models.ReservationPending, res.Estado)
	assert.Equal(t, 40.0, res.PrecioTotal)

	bySpace, err := f.repos.Reservations.BySpace(f.ctx, s.ID)
	require.NoError(t, err)
	assert.Len(t, bySpace, 1)
}

func TestReservations_Overlap(t *testing.T) {
	f := newFixture(t)
	s := f.space(t, f.building(t, "Norte", "Madrid").ID, 20)

	first, err := f.book(t, s.ID, 10, 12, "")
	require.NoError(t, err)

	_, err = f.book(t, s.ID, 11, 13, "")
	require.Error(t, err)
	assert.True(t, apperr.Is(err, apperr.KindConflict))
	assert.Equal(t, "fechaInicio", apperr.Field(err))

	// back to back is fine
	_, err = f.book(t, s.ID, 12, 13, "")
	require.NoError(t, err)

	_, err = f.repos.Reservations.Cancel(f.ctx, first.ID, "cambio")
	require.NoError(t, err)
	_, err = f.book(t, s.ID, 10, 12, "")
	assert.NoError(t, err, "a cancelled reservation frees the slot")
}

func TestReservations_Rejects(t *testing.T) {
	f := newFixture(t)
	b := f.building(t, "Norte", "Madrid")
	s := f.space(t, b.ID, 20)

	_, err := f.book(t, s.ID, 12, 10, "")
	assert.Equal(t, apperr.KindValidation, apperr.KindOf(err))
	assert.Equal(t, "fechaFin", apperr.Field(err))

	_, err = f.repos.Reservations.Create(f.ctx, &models.Reservation{
		UsuarioID: uuid.New(), EspacioID: s.ID, FechaInicio: at(9), FechaFin: at(10), Asistentes: 20,
	})
	assert.Equal(t, "asistentes", apperr.Field(err))

	_, err = f.book(t, uuid.New(), 9, 10, "")
	assert.Equal(t, "espacioId", apperr.Field(err))

	_, err = f.repos.Spaces.SetActive(f.ctx, s.ID, false)
	require.NoError(t, err)
	_, err = f.book(t, s.ID, 9, 10, "")
	assert.True(t, apperr.Is(err, apperr.KindInvalidState))
}

func TestReservations_PromotionIsRedeemed(t *testing.T) {
	f := newFixture(t)
	s := f.space(t, f.building(t, "Norte", "Madrid").ID, 20)
	promo := f.promotion(t, "DIEZ")

	res, err := f.book(t, s.ID, 10, 12, "diez")
	require.NoError(t, err)
	assert.Equal(t, 36.0, res.PrecioTotal)
	assert.Equal(t, "DIEZ", res.CodigoPromocion)

	used, err := f.repos.Promotions.GetByID(f.ctx, promo.ID)
	require.NoError(t, err)
	assert.Equal(t, 1, used.UsosActuales)

	_, err = f.book(t, s.ID, 14, 16, "NOEXISTE")
	assert.True(t, apperr.Is(err, apperr.KindNotFound))
}

func TestReservations_StatusMachine(t *testing.T) {
	f := newFixture(t)
	s := f.space(t, f.building(t, "Norte", "Madrid").ID, 20)
	res, err := f.book(t, s.ID, 10, 12, "")
	require.NoError(t, err)

	_, err = f.repos.Reservations.ChangeStatus(f.ctx, res.ID, models.ReservationCompleted, "")
	assert.True(t, apperr.Is(err, apperr.KindInvalidState), "pendiente cannot complete")

	unchanged, err := f.repos.Reservations.GetByID(f.ctx, res.ID)
	require.NoError(t, err)
	assert.Equal(t, models.ReservationPending, unchanged.Estado)

	for _, next := range []models.ReservationStatus{models.ReservationConfirmed, models.ReservationCompleted} {
		res, err = f.repos.Reservations.ChangeStatus(f.ctx, res.ID, next, "")
		require.NoError(t, err)
		assert.Equal(t, next, res.Estado)
	}

	_, err = f.repos.Reservations.Cancel(f.ctx, res.ID, "tarde")
	assert.True(t, apperr.Is(err, apperr.KindInvalidState))

	done, err := f.repos.Reservations.ByStatus(f.ctx, models.ReservationCompleted)
	require.NoError(t, err)
	assert.Len(t, done, 1)
}

func TestPayments_Lifecycle(t *testing.T) {
	f := newFixture(t)
	s := f.space(t, f.building(t, "Norte", "Madrid").ID, 20)
	res, err := f.book(t, s.ID, 10, 12, "")
	require.NoError(t, err)

	p, err := f.repos.Payments.Create(f.ctx, &models.Payment{
		UsuarioID:  res.UsuarioID,
		ReservaID:  res.ID,
		Monto:      40.005,
		Metodo:     models.MethodCard,
		Moneda:     "eur",
	})
	require.NoError(t, err)
	assert.Equal(t, models.PaymentPending, p.Estado)
	assert.Equal(t, "EUR", p.Moneda)
	assert.True(t, p.Fecha.Equal(f.clock.Now()))

	_, err = f.repos.Payments.ChangeStatus(f.ctx, p.ID, models.PaymentRefunded)
	assert.True(t, apperr.Is(err, apperr.KindInvalidState))

	p, err = f.repos.Payments.ChangeStatus(f.ctx, p.ID, models.PaymentCompleted)
	require.NoError(t, err)

	_, err = f.repos.Payments.Update(f.ctx, p.ID, func(p *models.Payment) error {
		p.Monto = 1
		return nil
	})
	assert.True(t, apperr.Is(err, apperr.KindInvalidState), "completed payments are frozen")

	list, err := f.repos.Payments.ByReservation(f.ctx, res.ID)
	require.NoError(t, err)
	assert.Len(t, list, 1)

	_, err = f.repos.Payments.Create(f.ctx, &models.Payment{UsuarioID: uuid.New(), ReservaID: uuid.New(), Monto: 10})
	assert.Equal(t, "reservaId", apperr.Field(err))
}

func TestReservations_EmbeddedSpaceFollowsSpaceWrites(t *testing.T) {
	f := newFixture(t)
	s := f.space(t, f.building(t, "Torre", "Madrid").ID, 20)
	res, err := f.book(t, s.ID, 10, 12, "")
	require.NoError(t, err)

	warm, err := f.repos.Reservations.GetByID(f.ctx, res.ID)
	require.NoError(t, err)
	require.NotNil(t, warm.Espacio)
	assert.Equal(t, 20.0, warm.Espacio.PrecioPorHora)

	_, err = f.repos.Spaces.Update(f.ctx, s.ID, func(sp *models.Space) error {
		sp.PrecioPorHora = 35
		return nil
	})
	require.NoError(t, err)

	got, err := f.repos.Reservations.GetByID(f.ctx, res.ID)
	require.NoError(t, err)
	require.NotNil(t, got.Espacio)
	assert.Equal(t, 35.0, got.Espacio.PrecioPorHora)
	assert.Equal(t, 40.0, got.PrecioTotal, "the booked total does not follow later price changes")
}
