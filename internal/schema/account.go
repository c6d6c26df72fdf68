package schema

import (
	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/go-ozzo/ozzo-validation/v4/is"
	"github.com/goliatone/go-coworking/internal/models"
	"github.com/google/uuid"
)

// CreateUser is the body of POST /usuarios.
type CreateUser struct {
	Nombre    string      `json:"nombre"`
	Apellido  string      `json:"apellido"`
	Email     string      `json:"email"`
	Telefono  string      `json:"telefono"`
	Rol       models.Role `json:"rol"`
	EmpresaID uuid.UUID   `json:"empresaId"`
}

func (r CreateUser) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.Nombre, validation.Required, validation.Length(2, 80)),
		validation.Field(&r.Apellido, validation.Length(0, 80)),
		validation.Field(&r.Email, validation.Required, is.EmailFormat),
		validation.Field(&r.Telefono, validation.Length(0, 30)),
		validation.Field(&r.Rol, oneOf(models.Roles)),
	)
}

func (r CreateUser) Model() *models.User {
	return &models.User{
		Nombre:    r.Nombre,
		Apellido:  r.Apellido,
		Email:     r.Email,
		Telefono:  r.Telefono,
		Rol:       r.Rol,
		EmpresaID: r.EmpresaID,
	}
}

// UpdateUser is the body of PUT /usuarios/{id}. Role changes are reserved to
// admins by the handler.
type UpdateUser struct {
	Nombre    *string      `json:"nombre"`
	Apellido  *string      `json:"apellido"`
	Email     *string      `json:"email"`
	Telefono  *string      `json:"telefono"`
	Rol       *models.Role `json:"rol"`
	EmpresaID *uuid.UUID   `json:"empresaId"`
}

func (r UpdateUser) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.Nombre, validation.NilOrNotEmpty, validation.Length(2, 80)),
		validation.Field(&r.Apellido, validation.Length(0, 80)),
		validation.Field(&r.Email, validation.NilOrNotEmpty, is.EmailFormat),
		validation.Field(&r.Telefono, validation.Length(0, 30)),
		validation.Field(&r.Rol, oneOf(models.Roles)),
	)
}

func (r UpdateUser) Apply(u *models.User) error {
	set(&u.Nombre, r.Nombre)
	set(&u.Apellido, r.Apellido)
	set(&u.Email, r.Email)
	set(&u.Telefono, r.Telefono)
	set(&u.Rol, r.Rol)
	set(&u.EmpresaID, r.EmpresaID)
	return nil
}

// PaymentMethod is one stored payment method.
type PaymentMethod struct {
	Tipo           models.PaymentMethod `json:"tipo"`
	Titular        string               `json:"titular"`
	Ultimos4       string               `json:"ultimos4"`
	Vencimiento    string               `json:"vencimiento"`
	Predeterminado bool                 `json:"predeterminado"`
}

func (r PaymentMethod) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.Tipo, validation.Required, oneOf(models.PaymentMethods)),
		validation.Field(&r.Titular, validation.Length(0, 120)),
		validation.Field(&r.Ultimos4,
			validation.When(r.Tipo == models.MethodCard, validation.Required),
			validation.Match(last4).Error("must be 4 digits")),
		validation.Field(&r.Vencimiento, validation.Match(expiry).Error("must be MM/YY")),
	)
}

// PaymentMethods is the body of PUT /usuarios/{id}/metodos-pago.
type PaymentMethods struct {
	MetodosPago []PaymentMethod `json:"metodosPago"`
}

func (r PaymentMethods) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.MetodosPago, validation.Length(0, 10)),
	)
}

func (r PaymentMethods) Models() []models.StoredPaymentMethod {
	out := make([]models.StoredPaymentMethod, len(r.MetodosPago))
	for i, m := range r.MetodosPago {
		out[i] = models.StoredPaymentMethod{
			Tipo:           m.Tipo,
			Titular:        m.Titular,
			Ultimos4:       m.Ultimos4,
			Vencimiento:    m.Vencimiento,
			Predeterminado: m.Predeterminado,
		}
	}
	return out
}

var stars = []validation.Rule{validation.Min(1), validation.Max(5)}

// Aspects are the optional sub-ratings of a review.
type Aspects struct {
	Limpieza              int `json:"limpieza"`
	Ubicacion             int `json:"ubicacion"`
	Servicio              int `json:"servicio"`
	RelacionCalidadPrecio int `json:"relacionCalidadPrecio"`
}

func (a Aspects) Validate() error {
	return validation.ValidateStruct(&a,
		validation.Field(&a.Limpieza, stars...),
		validation.Field(&a.Ubicacion, stars...),
		validation.Field(&a.Servicio, stars...),
		validation.Field(&a.RelacionCalidadPrecio, stars...),
	)
}

func (a Aspects) model() models.Aspects {
	return models.Aspects{
		Limpieza:              a.Limpieza,
		Ubicacion:             a.Ubicacion,
		Servicio:              a.Servicio,
		RelacionCalidadPrecio: a.RelacionCalidadPrecio,
	}
}

// CreateReview is the body of POST /resenas.
type CreateReview struct {
	UsuarioID    uuid.UUID         `json:"usuarioId"`
	EntidadTipo  models.EntityType `json:"entidadTipo"`
	EntidadID    uuid.UUID         `json:"entidadId"`
	Calificacion int               `json:"calificacion"`
	Titulo       string            `json:"titulo"`
	Comentario   string            `json:"comentario"`
	Aspectos     Aspects           `json:"aspectos"`
}

func (r CreateReview) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.EntidadTipo, validation.Required, oneOf(models.EntityTypes)),
		validation.Field(&r.EntidadID, notNil),
		validation.Field(&r.Calificacion, validation.Required, validation.Min(1), validation.Max(5)),
		validation.Field(&r.Titulo, validation.Length(0, 120)),
		validation.Field(&r.Comentario, validation.Length(0, 2000)),
		validation.Field(&r.Aspectos),
	)
}

func (r CreateReview) Model() *models.Review {
	return &models.Review{
		UsuarioID:    r.UsuarioID,
		EntidadTipo:  r.EntidadTipo,
		EntidadID:    r.EntidadID,
		Calificacion: r.Calificacion,
		Titulo:       r.Titulo,
		Comentario:   r.Comentario,
		Aspectos:     r.Aspectos.model(),
	}
}

// UpdateReview is the body of PUT /resenas/{id}.
type UpdateReview struct {
	Calificacion *int     `json:"calificacion"`
	Titulo       *string  `json:"titulo"`
	Comentario   *string  `json:"comentario"`
	Aspectos     *Aspects `json:"aspectos"`
}

func (r UpdateReview) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.Calificacion, validation.Min(1), validation.Max(5)),
		validation.Field(&r.Titulo, validation.Length(0, 120)),
		validation.Field(&r.Comentario, validation.Length(0, 2000)),
		validation.Field(&r.Aspectos),
	)
}

func (r UpdateReview) Apply(rv *models.Review) error {
	set(&rv.Calificacion, r.Calificacion)
	set(&rv.Titulo, r.Titulo)
	set(&rv.Comentario, r.Comentario)
	if r.Aspectos != nil {
		rv.Aspectos = r.Aspectos.model()
	}
	return nil
}

// Moderate is the body of PUT /resenas/{id}/moderar.
type Moderate struct {
	Estado models.ModerationStatus `json:"estado"`
	Motivo string                  `json:"motivo"`
}

func (r Moderate) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.Estado, validation.Required,
			oneOf([]models.ModerationStatus{models.ModerationApproved, models.ModerationRejected})),
		validation.Field(&r.Motivo,
			validation.When(r.Estado == models.ModerationRejected, validation.Required),
			validation.Length(0, 500)),
	)
}

// CreateNotification is the body of POST /notificaciones.
type CreateNotification struct {
	UsuarioID uuid.UUID               `json:"usuarioId"`
	Tipo      models.NotificationType `json:"tipo"`
	Titulo    string                  `json:"titulo"`
	Mensaje   string                  `json:"mensaje"`
	Enlace    string                  `json:"enlace"`
}

func (r CreateNotification) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.UsuarioID, notNil),
		validation.Field(&r.Tipo, validation.Required, oneOf(models.NotificationTypes)),
		validation.Field(&r.Titulo, validation.Required, validation.Length(1, 150)),
		validation.Field(&r.Mensaje, validation.Length(0, 2000)),
		validation.Field(&r.Enlace, is.RequestURI),
	)
}

func (r CreateNotification) Model() *models.Notification {
	return &models.Notification{
		UsuarioID: r.UsuarioID,
		Tipo:      r.Tipo,
		Titulo:    r.Titulo,
		Mensaje:   r.Mensaje,
		Enlace:    r.Enlace,
	}
}

// UpdateNotification is the body of PUT /notificaciones/{id}.
type UpdateNotification struct {
	Titulo  *string `json:"titulo"`
	Mensaje *string `json:"mensaje"`
	Enlace  *string `json:"enlace"`
}

func (r UpdateNotification) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.Titulo, validation.NilOrNotEmpty, validation.Length(1, 150)),
		validation.Field(&r.Mensaje, validation.Length(0, 2000)),
		validation.Field(&r.Enlace, is.RequestURI),
	)
}

func (r UpdateNotification) Apply(n *models.Notification) error {
	set(&n.Titulo, r.Titulo)
	set(&n.Mensaje, r.Mensaje)
	set(&n.Enlace, r.Enlace)
	return nil
}
