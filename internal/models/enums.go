package models

// Role is the authorization role carried by users and tokens.
type Role string

const (
	RoleUser  Role = "usuario"
	RoleOwner Role = "propietario"
	RoleAdmin Role = "admin"
)

// Roles lists every role.
var Roles = []Role{RoleUser, RoleOwner, RoleAdmin}

// SpaceType classifies bookable spaces.
type SpaceType string

const (
	SpaceDesk         SpaceType = "escritorio"
	SpaceMeetingRoom  SpaceType = "sala_reuniones"
	SpacePrivateRoom  SpaceType = "oficina_privada"
	SpaceAuditorium   SpaceType = "auditorio"
	SpaceSharedLounge SpaceType = "area_comun"
)

// SpaceTypes lists every space type.
var SpaceTypes = []SpaceType{SpaceDesk, SpaceMeetingRoom, SpacePrivateRoom, SpaceAuditorium, SpaceSharedLounge}

// ServiceCategory classifies add-on services.
type ServiceCategory string

const (
	ServiceCleaning   ServiceCategory = "limpieza"
	ServiceCatering   ServiceCategory = "catering"
	ServiceTechnology ServiceCategory = "tecnologia"
	ServiceSecurity   ServiceCategory = "seguridad"
	ServiceParking    ServiceCategory = "estacionamiento"
	ServiceOther      ServiceCategory = "otro"
)

// ServiceCategories lists every service category.
var ServiceCategories = []ServiceCategory{
	ServiceCleaning, ServiceCatering, ServiceTechnology, ServiceSecurity, ServiceParking, ServiceOther,
}

// MembershipType classifies membership plans.
type MembershipType string

const (
	MembershipBasic      MembershipType = "basica"
	MembershipPremium    MembershipType = "premium"
	MembershipEnterprise MembershipType = "empresarial"
)

// MembershipTypes lists every membership type.
var MembershipTypes = []MembershipType{MembershipBasic, MembershipPremium, MembershipEnterprise}

// PaymentMethod is how a payment was made.
type PaymentMethod string

const (
	MethodCard     PaymentMethod = "tarjeta"
	MethodTransfer PaymentMethod = "transferencia"
	MethodCash     PaymentMethod = "efectivo"
	MethodPaypal   PaymentMethod = "paypal"
)

// PaymentMethods lists every payment method.
var PaymentMethods = []PaymentMethod{MethodCard, MethodTransfer, MethodCash, MethodPaypal}

// EntityType names the reviewable entity kinds.
type EntityType string

const (
	EntityBuilding EntityType = "edificio"
	EntitySpace    EntityType = "espacio"
	EntityOffice   EntityType = "oficina"
	EntityService  EntityType = "servicio"
)

// EntityTypes lists every reviewable entity kind.
var EntityTypes = []EntityType{EntityBuilding, EntitySpace, EntityOffice, EntityService}

// Namespace returns the cache namespace of the reviewed entity kind.
func (t EntityType) Namespace() string {
	switch t {
	case EntityBuilding:
		return "edificios"
	case EntitySpace:
		return "espacios"
	case EntityOffice:
		return "oficinas"
	case EntityService:
		return "servicios"
	default:
		return string(t)
	}
}

// DiscountType is how a promotion discounts an amount.
type DiscountType string

const (
	DiscountPercent DiscountType = "porcentaje"
	DiscountFixed   DiscountType = "monto_fijo"
)

// DiscountTypes lists every discount type.
var DiscountTypes = []DiscountType{DiscountPercent, DiscountFixed}

// PromotionScope is what a promotion applies to.
type PromotionScope string

const (
	ScopeReservations PromotionScope = "reservas"
	ScopeMemberships  PromotionScope = "membresias"
	ScopeServices     PromotionScope = "servicios"
	ScopeAll          PromotionScope = "todos"
)

// PromotionScopes lists every promotion scope.
var PromotionScopes = []PromotionScope{ScopeReservations, ScopeMemberships, ScopeServices, ScopeAll}

// NotificationType classifies notifications.
type NotificationType string

const (
	NotifyReservation NotificationType = "reserva"
	NotifyPayment     NotificationType = "pago"
	NotifyMembership  NotificationType = "membresia"
	NotifyPromotion   NotificationType = "promocion"
	NotifySystem      NotificationType = "sistema"
)

// NotificationTypes lists every notification type.
var NotificationTypes = []NotificationType{
	NotifyReservation, NotifyPayment, NotifyMembership, NotifyPromotion, NotifySystem,
}
