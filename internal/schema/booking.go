package schema

import (
	"time"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/goliatone/go-coworking/internal/models"
	"github.com/google/uuid"
)

// CreateReservation is the body of POST /reservas. UsuarioID defaults to the
// caller.
type CreateReservation struct {
	UsuarioID       uuid.UUID `json:"usuarioId"`
	EspacioID       uuid.UUID `json:"espacioId"`
	FechaInicio     time.Time `json:"fechaInicio"`
	FechaFin        time.Time `json:"fechaFin"`
	Asistentes      int       `json:"asistentes"`
	Notas           string    `json:"notas"`
	CodigoPromocion string    `json:"codigoPromocion"`
}

func (r CreateReservation) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.EspacioID, notNil),
		validation.Field(&r.FechaInicio, validation.Required),
		validation.Field(&r.FechaFin, validation.Required, validation.By(after(r.FechaInicio, "fechaInicio"))),
		validation.Field(&r.Asistentes, validation.Min(0)),
		validation.Field(&r.Notas, validation.Length(0, 1000)),
	)
}

func (r CreateReservation) Model() *models.Reservation {
	return &models.Reservation{
		UsuarioID:       r.UsuarioID,
		EspacioID:       r.EspacioID,
		FechaInicio:     r.FechaInicio,
		FechaFin:        r.FechaFin,
		Asistentes:      r.Asistentes,
		Notas:           r.Notas,
		CodigoPromocion: r.CodigoPromocion,
	}
}

// UpdateReservation is the body of PUT /reservas/{id}.
type UpdateReservation struct {
	EspacioID   *uuid.UUID `json:"espacioId"`
	FechaInicio *time.Time `json:"fechaInicio"`
	FechaFin    *time.Time `json:"fechaFin"`
	Asistentes  *int       `json:"asistentes"`
	Notas       *string    `json:"notas"`
}

func (r UpdateReservation) Validate() error {
	var start time.Time
	if r.FechaInicio != nil {
		start = *r.FechaInicio
	}
	return validation.ValidateStruct(&r,
		validation.Field(&r.EspacioID, notNil),
		validation.Field(&r.FechaFin, validation.By(after(start, "fechaInicio"))),
		validation.Field(&r.Asistentes, validation.Min(0)),
		validation.Field(&r.Notas, validation.Length(0, 1000)),
	)
}

func (r UpdateReservation) Apply(res *models.Reservation) error {
	set(&res.EspacioID, r.EspacioID)
	set(&res.FechaInicio, r.FechaInicio)
	set(&res.FechaFin, r.FechaFin)
	set(&res.Asistentes, r.Asistentes)
	set(&res.Notas, r.Notas)
	return nil
}

// ReservationStatus is the body of PUT /reservas/{id}/estado.
type ReservationStatus struct {
	Estado models.ReservationStatus `json:"estado"`
	Motivo string                   `json:"motivo"`
}

func (r ReservationStatus) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.Estado, validation.Required, oneOf(models.ReservationStatuses)),
		validation.Field(&r.Motivo, validation.Length(0, 500)),
	)
}

// CancelReservation is the body of PUT /reservas/{id}/cancelar.
type CancelReservation struct {
	Motivo string `json:"motivo"`
}

func (r CancelReservation) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.Motivo, validation.Length(0, 500)),
	)
}

// CreateServiceReservation is the body of POST /reservas-servicios.
type CreateServiceReservation struct {
	UsuarioID  uuid.UUID `json:"usuarioId"`
	ServicioID uuid.UUID `json:"servicioId"`
	ReservaID  uuid.UUID `json:"reservaId"`
	Cantidad   int       `json:"cantidad"`
	Fecha      time.Time `json:"fecha"`
	Notas      string    `json:"notas"`
}

func (r CreateServiceReservation) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.ServicioID, notNil),
		validation.Field(&r.Cantidad, validation.Required, validation.Min(1)),
		validation.Field(&r.Fecha, validation.Required),
		validation.Field(&r.Notas, validation.Length(0, 1000)),
	)
}

func (r CreateServiceReservation) Model() *models.ServiceReservation {
	return &models.ServiceReservation{
		UsuarioID:  r.UsuarioID,
		ServicioID: r.ServicioID,
		ReservaID:  r.ReservaID,
		Cantidad:   r.Cantidad,
		Fecha:      r.Fecha,
		Notas:      r.Notas,
	}
}

// UpdateServiceReservation is the body of PUT /reservas-servicios/{id}.
type UpdateServiceReservation struct {
	Cantidad *int       `json:"cantidad"`
	Fecha    *time.Time `json:"fecha"`
	Notas    *string    `json:"notas"`
}

func (r UpdateServiceReservation) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.Cantidad, validation.Min(1)),
		validation.Field(&r.Notas, validation.Length(0, 1000)),
	)
}

func (r UpdateServiceReservation) Apply(sr *models.ServiceReservation) error {
	set(&sr.Cantidad, r.Cantidad)
	set(&sr.Fecha, r.Fecha)
	set(&sr.Notas, r.Notas)
	return nil
}

// ServiceReservationStatus is the body of PUT /reservas-servicios/{id}/estado.
type ServiceReservationStatus struct {
	Estado models.ServiceReservationStatus `json:"estado"`
}

func (r ServiceReservationStatus) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.Estado, validation.Required, oneOf(models.ServiceReservationStatuses)),
	)
}

// CreatePayment is the body of POST /pagos.
type CreatePayment struct {
	UsuarioID   uuid.UUID            `json:"usuarioId"`
	ReservaID   uuid.UUID            `json:"reservaId"`
	Monto       float64              `json:"monto"`
	Moneda      string               `json:"moneda"`
	Metodo      models.PaymentMethod `json:"metodo"`
	Fecha       time.Time            `json:"fecha"`
	Referencia  string               `json:"referencia"`
	Descripcion string               `json:"descripcion"`
}

func (r CreatePayment) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.Monto, validation.Required, validation.Min(0.01)),
		validation.Field(&r.Moneda, validation.Length(3, 3)),
		validation.Field(&r.Metodo, validation.Required, oneOf(models.PaymentMethods)),
		validation.Field(&r.Referencia, validation.Length(0, 120)),
	)
}

func (r CreatePayment) Model() *models.Payment {
	return &models.Payment{
		UsuarioID:   r.UsuarioID,
		ReservaID:   r.ReservaID,
		Monto:       r.Monto,
		Moneda:      r.Moneda,
		Metodo:      r.Metodo,
		Fecha:       r.Fecha,
		Referencia:  r.Referencia,
		Descripcion: r.Descripcion,
	}
}

// UpdatePayment is the body of PUT /pagos/{id}.
type UpdatePayment struct {
	Monto       *float64              `json:"monto"`
	Metodo      *models.PaymentMethod `json:"metodo"`
	Referencia  *string               `json:"referencia"`
	Descripcion *string               `json:"descripcion"`
}

func (r UpdatePayment) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.Monto, validation.Min(0.01)),
		validation.Field(&r.Metodo, oneOf(models.PaymentMethods)),
		validation.Field(&r.Referencia, validation.Length(0, 120)),
	)
}

func (r UpdatePayment) Apply(p *models.Payment) error {
	set(&p.Monto, r.Monto)
	set(&p.Metodo, r.Metodo)
	set(&p.Referencia, r.Referencia)
	set(&p.Descripcion, r.Descripcion)
	return nil
}

// PaymentStatus is the body of PUT /pagos/{id}/estado.
type PaymentStatus struct {
	Estado models.PaymentStatus `json:"estado"`
}

func (r PaymentStatus) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.Estado, validation.Required, oneOf(models.PaymentStatuses)),
	)
}
