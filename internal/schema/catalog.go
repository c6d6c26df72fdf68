package schema

import (
	"time"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/goliatone/go-coworking/internal/apperr"
	"github.com/goliatone/go-coworking/internal/models"
	"github.com/google/uuid"
)

var hourOfDay = validation.Match(hhmm).Error("must be HH:MM")

// CreateBuilding is the body of POST /edificios.
type CreateBuilding struct {
	Nombre          string    `json:"nombre"`
	Descripcion     string    `json:"descripcion"`
	Direccion       string    `json:"direccion"`
	Ciudad          string    `json:"ciudad"`
	Pais            string    `json:"pais"`
	CodigoPostal    string    `json:"codigoPostal"`
	PropietarioID   uuid.UUID `json:"propietarioId"`
	Amenidades      []string  `json:"amenidades"`
	HorarioApertura string    `json:"horarioApertura"`
	HorarioCierre   string    `json:"horarioCierre"`
}

func (r CreateBuilding) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.Nombre, validation.Required, validation.Length(2, 120)),
		validation.Field(&r.Direccion, validation.Required, validation.Length(3, 250)),
		validation.Field(&r.Ciudad, validation.Required, validation.Length(2, 100)),
		validation.Field(&r.Pais, validation.Required, validation.Length(2, 100)),
		validation.Field(&r.CodigoPostal, validation.Length(0, 20)),
		validation.Field(&r.HorarioApertura, hourOfDay),
		validation.Field(&r.HorarioCierre, hourOfDay),
	)
}

func (r CreateBuilding) Model() *models.Building {
	return &models.Building{
		Nombre:          r.Nombre,
		Descripcion:     r.Descripcion,
		Direccion:       r.Direccion,
		Ciudad:          r.Ciudad,
		Pais:            r.Pais,
		CodigoPostal:    r.CodigoPostal,
		PropietarioID:   r.PropietarioID,
		Amenidades:      trimAll(r.Amenidades),
		HorarioApertura: r.HorarioApertura,
		HorarioCierre:   r.HorarioCierre,
	}
}

// UpdateBuilding is the body of PUT /edificios/{id}. Absent fields are kept.
type UpdateBuilding struct {
	Nombre          *string    `json:"nombre"`
	Descripcion     *string    `json:"descripcion"`
	Direccion       *string    `json:"direccion"`
	Ciudad          *string    `json:"ciudad"`
	Pais            *string    `json:"pais"`
	CodigoPostal    *string    `json:"codigoPostal"`
	PropietarioID   *uuid.UUID `json:"propietarioId"`
	Amenidades      []string   `json:"amenidades"`
	HorarioApertura *string    `json:"horarioApertura"`
	HorarioCierre   *string    `json:"horarioCierre"`
}

func (r UpdateBuilding) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.Nombre, validation.NilOrNotEmpty, validation.Length(2, 120)),
		validation.Field(&r.Direccion, validation.NilOrNotEmpty, validation.Length(3, 250)),
		validation.Field(&r.Ciudad, validation.NilOrNotEmpty, validation.Length(2, 100)),
		validation.Field(&r.Pais, validation.NilOrNotEmpty, validation.Length(2, 100)),
		validation.Field(&r.HorarioApertura, hourOfDay),
		validation.Field(&r.HorarioCierre, hourOfDay),
	)
}

func (r UpdateBuilding) Apply(b *models.Building) error {
	set(&b.Nombre, r.Nombre)
	set(&b.Descripcion, r.Descripcion)
	set(&b.Direccion, r.Direccion)
	set(&b.Ciudad, r.Ciudad)
	set(&b.Pais, r.Pais)
	set(&b.CodigoPostal, r.CodigoPostal)
	set(&b.PropietarioID, r.PropietarioID)
	set(&b.HorarioApertura, r.HorarioApertura)
	set(&b.HorarioCierre, r.HorarioCierre)
	if r.Amenidades != nil {
		b.Amenidades = trimAll(r.Amenidades)
	}
	return nil
}

// Amenity is the body of POST /edificios/{id}/amenidades.
type Amenity struct {
	Amenidad string `json:"amenidad"`
}

func (r Amenity) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.Amenidad, validation.Required, validation.Length(1, 80)),
	)
}

// CreateSpace is the body of POST /espacios.
type CreateSpace struct {
	Nombre        string           `json:"nombre"`
	Descripcion   string           `json:"descripcion"`
	EdificioID    uuid.UUID        `json:"edificioId"`
	Tipo          models.SpaceType `json:"tipo"`
	Capacidad     int              `json:"capacidad"`
	PrecioPorHora float64          `json:"precioPorHora"`
	Piso          int              `json:"piso"`
	Amenidades    []string         `json:"amenidades"`
}

func (r CreateSpace) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.Nombre, validation.Required, validation.Length(2, 120)),
		validation.Field(&r.EdificioID, notNil),
		validation.Field(&r.Tipo, validation.Required, oneOf(models.SpaceTypes)),
		validation.Field(&r.Capacidad, validation.Required, validation.Min(1)),
		validation.Field(&r.PrecioPorHora, validation.Min(0.0)),
	)
}

func (r CreateSpace) Model() *models.Space {
	return &models.Space{
		Nombre:        r.Nombre,
		Descripcion:   r.Descripcion,
		EdificioID:    r.EdificioID,
		Tipo:          r.Tipo,
		Capacidad:     r.Capacidad,
		PrecioPorHora: r.PrecioPorHora,
		Piso:          r.Piso,
		Amenidades:    trimAll(r.Amenidades),
	}
}

// UpdateSpace is the body of PUT /espacios/{id}.
type UpdateSpace struct {
	Nombre        *string           `json:"nombre"`
	Descripcion   *string           `json:"descripcion"`
	EdificioID    *uuid.UUID        `json:"edificioId"`
	Tipo          *models.SpaceType `json:"tipo"`
	Capacidad     *int              `json:"capacidad"`
	PrecioPorHora *float64          `json:"precioPorHora"`
	Piso          *int              `json:"piso"`
	Amenidades    []string          `json:"amenidades"`
}

func (r UpdateSpace) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.Nombre, validation.NilOrNotEmpty, validation.Length(2, 120)),
		validation.Field(&r.EdificioID, notNil),
		validation.Field(&r.Tipo, oneOf(models.SpaceTypes)),
		validation.Field(&r.Capacidad, validation.Min(1)),
		validation.Field(&r.PrecioPorHora, validation.Min(0.0)),
	)
}

func (r UpdateSpace) Apply(s *models.Space) error {
	set(&s.Nombre, r.Nombre)
	set(&s.Descripcion, r.Descripcion)
	set(&s.EdificioID, r.EdificioID)
	set(&s.Tipo, r.Tipo)
	set(&s.Capacidad, r.Capacidad)
	set(&s.PrecioPorHora, r.PrecioPorHora)
	set(&s.Piso, r.Piso)
	if r.Amenidades != nil {
		s.Amenidades = trimAll(r.Amenidades)
	}
	return nil
}

// CreateOffice is the body of POST /oficinas.
type CreateOffice struct {
	Nombre        string    `json:"nombre"`
	Numero        string    `json:"numero"`
	EdificioID    uuid.UUID `json:"edificioId"`
	EmpresaID     uuid.UUID `json:"empresaId"`
	Capacidad     int       `json:"capacidad"`
	Area          float64   `json:"area"`
	PrecioMensual float64   `json:"precioMensual"`
}

func (r CreateOffice) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.Nombre, validation.Required, validation.Length(1, 120)),
		validation.Field(&r.EdificioID, notNil),
		validation.Field(&r.Capacidad, validation.Required, validation.Min(1)),
		validation.Field(&r.Area, validation.Min(0.0)),
		validation.Field(&r.PrecioMensual, validation.Min(0.0)),
	)
}

func (r CreateOffice) Model() *models.Office {
	return &models.Office{
		Nombre:        r.Nombre,
		Numero:        r.Numero,
		EdificioID:    r.EdificioID,
		EmpresaID:     r.EmpresaID,
		Capacidad:     r.Capacidad,
		Area:          r.Area,
		PrecioMensual: r.PrecioMensual,
	}
}

// UpdateOffice is the body of PUT /oficinas/{id}. Occupancy changes go
// through the assign and release actions.
type UpdateOffice struct {
	Nombre        *string              `json:"nombre"`
	Numero        *string              `json:"numero"`
	EdificioID    *uuid.UUID           `json:"edificioId"`
	Capacidad     *int                 `json:"capacidad"`
	Area          *float64             `json:"area"`
	PrecioMensual *float64             `json:"precioMensual"`
	Estado        *models.OfficeStatus `json:"estado"`
}

func (r UpdateOffice) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.Nombre, validation.NilOrNotEmpty, validation.Length(1, 120)),
		validation.Field(&r.EdificioID, notNil),
		validation.Field(&r.Capacidad, validation.Min(1)),
		validation.Field(&r.Area, validation.Min(0.0)),
		validation.Field(&r.PrecioMensual, validation.Min(0.0)),
		validation.Field(&r.Estado, oneOf([]models.OfficeStatus{models.OfficeAvailable, models.OfficeMaintenance})),
	)
}

func (r UpdateOffice) Apply(o *models.Office) error {
	set(&o.Nombre, r.Nombre)
	set(&o.Numero, r.Numero)
	set(&o.EdificioID, r.EdificioID)
	set(&o.Capacidad, r.Capacidad)
	set(&o.Area, r.Area)
	set(&o.PrecioMensual, r.PrecioMensual)
	set(&o.Estado, r.Estado)
	return nil
}

// AssignOffice is the body of PUT /oficinas/{id}/asignar.
type AssignOffice struct {
	EmpresaID uuid.UUID `json:"empresaId"`
}

func (r AssignOffice) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.EmpresaID, notNil),
	)
}

// CreateService is the body of POST /servicios.
type CreateService struct {
	Nombre      string                 `json:"nombre"`
	Descripcion string                 `json:"descripcion"`
	Categoria   models.ServiceCategory `json:"categoria"`
	Precio      float64                `json:"precio"`
	Unidad      string                 `json:"unidad"`
	EdificioID  uuid.UUID              `json:"edificioId"`
}

func (r CreateService) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.Nombre, validation.Required, validation.Length(2, 120)),
		validation.Field(&r.Categoria, validation.Required, oneOf(models.ServiceCategories)),
		validation.Field(&r.Precio, validation.Min(0.0)),
		validation.Field(&r.Unidad, validation.Length(0, 40)),
	)
}

func (r CreateService) Model() *models.AddOnService {
	return &models.AddOnService{
		Nombre:      r.Nombre,
		Descripcion: r.Descripcion,
		Categoria:   r.Categoria,
		Precio:      r.Precio,
		Unidad:      r.Unidad,
		EdificioID:  r.EdificioID,
	}
}

// UpdateService is the body of PUT /servicios/{id}.
type UpdateService struct {
	Nombre      *string                 `json:"nombre"`
	Descripcion *string                 `json:"descripcion"`
	Categoria   *models.ServiceCategory `json:"categoria"`
	Precio      *float64                `json:"precio"`
	Unidad      *string                 `json:"unidad"`
	EdificioID  *uuid.UUID              `json:"edificioId"`
}

func (r UpdateService) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.Nombre, validation.NilOrNotEmpty, validation.Length(2, 120)),
		validation.Field(&r.Categoria, oneOf(models.ServiceCategories)),
		validation.Field(&r.Precio, validation.Min(0.0)),
	)
}

func (r UpdateService) Apply(s *models.AddOnService) error {
	set(&s.Nombre, r.Nombre)
	set(&s.Descripcion, r.Descripcion)
	set(&s.Categoria, r.Categoria)
	set(&s.Precio, r.Precio)
	set(&s.Unidad, r.Unidad)
	set(&s.EdificioID, r.EdificioID)
	return nil
}

// CreateMembership is the body of POST /membresias.
type CreateMembership struct {
	Nombre           string                `json:"nombre"`
	Descripcion      string                `json:"descripcion"`
	Tipo             models.MembershipType `json:"tipo"`
	Precio           float64               `json:"precio"`
	DuracionDias     int                   `json:"duracionDias"`
	HorasIncluidas   int                   `json:"horasIncluidas"`
	DescuentoReserva float64               `json:"descuentoReserva"`
	Beneficios       []string              `json:"beneficios"`
}

func (r CreateMembership) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.Nombre, validation.Required, validation.Length(2, 120)),
		validation.Field(&r.Tipo, validation.Required, oneOf(models.MembershipTypes)),
		validation.Field(&r.Precio, validation.Min(0.0)),
		validation.Field(&r.DuracionDias, validation.Required, validation.Min(1)),
		validation.Field(&r.HorasIncluidas, validation.Min(0)),
		validation.Field(&r.DescuentoReserva, validation.Min(0.0), validation.Max(100.0)),
	)
}

func (r CreateMembership) Model() *models.Membership {
	return &models.Membership{
		Nombre:           r.Nombre,
		Descripcion:      r.Descripcion,
		Tipo:             r.Tipo,
		Precio:           r.Precio,
		DuracionDias:     r.DuracionDias,
		HorasIncluidas:   r.HorasIncluidas,
		DescuentoReserva: r.DescuentoReserva,
		Beneficios:       trimAll(r.Beneficios),
	}
}

// UpdateMembership is the body of PUT /membresias/{id}.
type UpdateMembership struct {
	Nombre           *string                `json:"nombre"`
	Descripcion      *string                `json:"descripcion"`
	Tipo             *models.MembershipType `json:"tipo"`
	Precio           *float64               `json:"precio"`
	DuracionDias     *int                   `json:"duracionDias"`
	HorasIncluidas   *int                   `json:"horasIncluidas"`
	DescuentoReserva *float64               `json:"descuentoReserva"`
	Beneficios       []string               `json:"beneficios"`
}

func (r UpdateMembership) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.Nombre, validation.NilOrNotEmpty, validation.Length(2, 120)),
		validation.Field(&r.Tipo, oneOf(models.MembershipTypes)),
		validation.Field(&r.Precio, validation.Min(0.0)),
		validation.Field(&r.DuracionDias, validation.Min(1)),
		validation.Field(&r.HorasIncluidas, validation.Min(0)),
		validation.Field(&r.DescuentoReserva, validation.Min(0.0), validation.Max(100.0)),
	)
}

func (r UpdateMembership) Apply(m *models.Membership) error {
	set(&m.Nombre, r.Nombre)
	set(&m.Descripcion, r.Descripcion)
	set(&m.Tipo, r.Tipo)
	set(&m.Precio, r.Precio)
	set(&m.DuracionDias, r.DuracionDias)
	set(&m.HorasIncluidas, r.HorasIncluidas)
	set(&m.DescuentoReserva, r.DescuentoReserva)
	if r.Beneficios != nil {
		m.Beneficios = trimAll(r.Beneficios)
	}
	return nil
}

// Subscribe is the body of POST /membresias/{id}/suscribir.
type Subscribe struct {
	UsuarioID            uuid.UUID `json:"usuarioId"`
	FechaInicio          time.Time `json:"fechaInicio"`
	RenovacionAutomatica bool      `json:"renovacionAutomatica"`
}

func (r Subscribe) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.UsuarioID, notNil),
	)
}

// CancelMembership is the body of POST /membresias/cancelar.
type CancelMembership struct {
	UsuarioID uuid.UUID `json:"usuarioId"`
	Motivo    string    `json:"motivo"`
}

func (r CancelMembership) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.UsuarioID, notNil),
		validation.Field(&r.Motivo, validation.Length(0, 500)),
	)
}

// CreatePromotion is the body of POST /promociones.
type CreatePromotion struct {
	Codigo         string                `json:"codigo"`
	Descripcion    string                `json:"descripcion"`
	TipoDescuento  models.DiscountType   `json:"tipoDescuento"`
	ValorDescuento float64               `json:"valorDescuento"`
	FechaInicio    time.Time             `json:"fechaInicio"`
	FechaFin       time.Time             `json:"fechaFin"`
	UsosMaximos    int                   `json:"usosMaximos"`
	MontoMinimo    float64               `json:"montoMinimo"`
	AplicaA        models.PromotionScope `json:"aplicaA"`
}

func (r CreatePromotion) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.Codigo, validation.Required, validation.Length(3, 40), validation.Match(promoCode).Error("must be letters, digits, - or _")),
		validation.Field(&r.TipoDescuento, validation.Required, oneOf(models.DiscountTypes)),
		validation.Field(&r.ValorDescuento, validation.Required, validation.Min(0.01),
			validation.When(r.TipoDescuento == models.DiscountPercent, validation.Max(100.0))),
		validation.Field(&r.FechaInicio, validation.Required),
		validation.Field(&r.FechaFin, validation.Required, validation.By(after(r.FechaInicio, "fechaInicio"))),
		validation.Field(&r.UsosMaximos, validation.Min(0)),
		validation.Field(&r.MontoMinimo, validation.Min(0.0)),
		validation.Field(&r.AplicaA, oneOf(models.PromotionScopes)),
	)
}

func (r CreatePromotion) Model() *models.Promotion {
	scope := r.AplicaA
	if scope == "" {
		scope = models.ScopeAll
	}
	return &models.Promotion{
		Codigo:         r.Codigo,
		Descripcion:    r.Descripcion,
		TipoDescuento:  r.TipoDescuento,
		ValorDescuento: r.ValorDescuento,
		FechaInicio:    r.FechaInicio,
		FechaFin:       r.FechaFin,
		UsosMaximos:    r.UsosMaximos,
		MontoMinimo:    r.MontoMinimo,
		AplicaA:        scope,
	}
}

// UpdatePromotion is the body of PUT /promociones/{id}.
type UpdatePromotion struct {
	Codigo         *string                `json:"codigo"`
	Descripcion    *string                `json:"descripcion"`
	TipoDescuento  *models.DiscountType   `json:"tipoDescuento"`
	ValorDescuento *float64               `json:"valorDescuento"`
	FechaInicio    *time.Time             `json:"fechaInicio"`
	FechaFin       *time.Time             `json:"fechaFin"`
	UsosMaximos    *int                   `json:"usosMaximos"`
	MontoMinimo    *float64               `json:"montoMinimo"`
	AplicaA        *models.PromotionScope `json:"aplicaA"`
}

func (r UpdatePromotion) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.Codigo, validation.NilOrNotEmpty, validation.Length(3, 40), validation.Match(promoCode).Error("must be letters, digits, - or _")),
		validation.Field(&r.TipoDescuento, oneOf(models.DiscountTypes)),
		validation.Field(&r.ValorDescuento, validation.Min(0.01)),
		validation.Field(&r.UsosMaximos, validation.Min(0)),
		validation.Field(&r.MontoMinimo, validation.Min(0.0)),
		validation.Field(&r.AplicaA, oneOf(models.PromotionScopes)),
	)
}

func (r UpdatePromotion) Apply(p *models.Promotion) error {
	set(&p.Codigo, r.Codigo)
	set(&p.Descripcion, r.Descripcion)
	set(&p.TipoDescuento, r.TipoDescuento)
	set(&p.ValorDescuento, r.ValorDescuento)
	set(&p.FechaInicio, r.FechaInicio)
	set(&p.FechaFin, r.FechaFin)
	set(&p.UsosMaximos, r.UsosMaximos)
	set(&p.MontoMinimo, r.MontoMinimo)
	set(&p.AplicaA, r.AplicaA)
	if p.TipoDescuento == models.DiscountPercent && p.ValorDescuento > 100 {
		return apperr.Validation("valorDescuento", "valorDescuento: must be no greater than 100")
	}
	return nil
}

// ValidatePromotion is the body of POST /promociones/validar.
type ValidatePromotion struct {
	Codigo  string                `json:"codigo"`
	Monto   float64               `json:"monto"`
	AplicaA models.PromotionScope `json:"aplicaA"`
}

func (r ValidatePromotion) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.Codigo, validation.Required),
		validation.Field(&r.Monto, validation.Min(0.0)),
		validation.Field(&r.AplicaA, oneOf(models.PromotionScopes)),
	)
}
