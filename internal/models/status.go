package models

// machine maps a state to the states it may move to. States without an
// entry are terminal.
type machine[S comparable] map[S][]S

func (m machine[S]) allows(from, to S) bool {
	for _, next := range m[from] {
		if next == to {
			return true
		}
	}
	return false
}

// ReservationStatus is the lifecycle of a space reservation.
type ReservationStatus string

const (
	ReservationPending   ReservationStatus = "pendiente"
	ReservationConfirmed ReservationStatus = "confirmada"
	ReservationCancelled ReservationStatus = "cancelada"
	ReservationCompleted ReservationStatus = "completada"
	ReservationNoShow    ReservationStatus = "no_asistio"
)

var reservationMachine = machine[ReservationStatus]{
	ReservationPending:   {ReservationConfirmed, ReservationCancelled},
	ReservationConfirmed: {ReservationCompleted, ReservationCancelled, ReservationNoShow},
}

// ReservationStatuses lists every reservation status.
var ReservationStatuses = []ReservationStatus{
	ReservationPending, ReservationConfirmed, ReservationCancelled, ReservationCompleted, ReservationNoShow,
}

// CanTransition reports whether s may move to next.
func (s ReservationStatus) CanTransition(next ReservationStatus) bool {
	return reservationMachine.allows(s, next)
}

// Blocking reports whether a reservation in this status holds its time slot.
func (s ReservationStatus) Blocking() bool {
	return s == ReservationPending || s == ReservationConfirmed
}

// ServiceReservationStatus is the lifecycle of an add-on service booking.
type ServiceReservationStatus string

const (
	ServiceReservationPending   ServiceReservationStatus = "pendiente"
	ServiceReservationConfirmed ServiceReservationStatus = "confirmado"
	ServiceReservationCancelled ServiceReservationStatus = "cancelado"
	ServiceReservationCompleted ServiceReservationStatus = "completado"
)

var serviceReservationMachine = machine[ServiceReservationStatus]{
	ServiceReservationPending:   {ServiceReservationConfirmed, ServiceReservationCancelled},
	ServiceReservationConfirmed: {ServiceReservationCompleted, ServiceReservationCancelled},
}

// ServiceReservationStatuses lists every service booking status.
var ServiceReservationStatuses = []ServiceReservationStatus{
	ServiceReservationPending, ServiceReservationConfirmed, ServiceReservationCancelled, ServiceReservationCompleted,
}

// CanTransition reports whether s may move to next.
func (s ServiceReservationStatus) CanTransition(next ServiceReservationStatus) bool {
	return serviceReservationMachine.allows(s, next)
}

// ModerationStatus is the moderation state of a review.
type ModerationStatus string

const (
	ModerationPending  ModerationStatus = "pendiente"
	ModerationApproved ModerationStatus = "aprobada"
	ModerationRejected ModerationStatus = "rechazada"
)

var moderationMachine = machine[ModerationStatus]{
	ModerationPending: {ModerationApproved, ModerationRejected},
}

// ModerationStatuses lists every moderation state.
var ModerationStatuses = []ModerationStatus{ModerationPending, ModerationApproved, ModerationRejected}

// CanTransition reports whether s may move to next. Moderated reviews are final.
func (s ModerationStatus) CanTransition(next ModerationStatus) bool {
	return moderationMachine.allows(s, next)
}

// PaymentStatus is the lifecycle of a payment.
type PaymentStatus string

const (
	PaymentPending   PaymentStatus = "pendiente"
	PaymentCompleted PaymentStatus = "completado"
	PaymentFailed    PaymentStatus = "fallido"
	PaymentRefunded  PaymentStatus = "reembolsado"
)

var paymentMachine = machine[PaymentStatus]{
	PaymentPending:   {PaymentCompleted, PaymentFailed},
	PaymentCompleted: {PaymentRefunded},
}

// PaymentStatuses lists every payment status.
var PaymentStatuses = []PaymentStatus{PaymentPending, PaymentCompleted, PaymentFailed, PaymentRefunded}

// CanTransition reports whether s may move to next.
func (s PaymentStatus) CanTransition(next PaymentStatus) bool {
	return paymentMachine.allows(s, next)
}

// OfficeStatus classifies offices. It has no transition rules.
type OfficeStatus string

const (
	OfficeAvailable   OfficeStatus = "disponible"
	OfficeOccupied    OfficeStatus = "ocupada"
	OfficeMaintenance OfficeStatus = "mantenimiento"
)

// OfficeStatuses lists every office status.
var OfficeStatuses = []OfficeStatus{OfficeAvailable, OfficeOccupied, OfficeMaintenance}

// MembershipState is the state of a user's membership snapshot.
type MembershipState string

const (
	MembershipActive    MembershipState = "activa"
	MembershipCancelled MembershipState = "cancelada"
	MembershipExpired   MembershipState = "vencida"
)
