package repo

// Repositories bundles every entity repository over one database and cache.
type Repositories struct {
	Buildings           *BuildingRepository
	Spaces              *SpaceRepository
	Offices             *OfficeRepository
	Services            *ServiceRepository
	Reservations        *ReservationRepository
	ServiceReservations *ServiceReservationRepository
	Memberships         *MembershipRepository
	Payments            *PaymentRepository
	Reviews             *ReviewRepository
	Promotions          *PromotionRepository
	Notifications       *NotificationRepository
	Users               *UserRepository
}

// NewRepositories builds all repositories and wires the cross-entity hooks.
func NewRepositories(d Deps) *Repositories {
	r := &Repositories{}
	r.Users = NewUserRepository(d)
	r.Buildings = NewBuildingRepository(d)
	r.Spaces = NewSpaceRepository(d, r.Buildings)
	r.Offices = NewOfficeRepository(d, r.Buildings)
	r.Services = NewServiceRepository(d, r.Buildings)
	r.Promotions = NewPromotionRepository(d)
	r.Reservations = NewReservationRepository(d, r.Spaces, r.Promotions)
	r.ServiceReservations = NewServiceReservationRepository(d, r.Services, r.Reservations)
	r.Memberships = NewMembershipRepository(d, r.Users)
	r.Payments = NewPaymentRepository(d, r.Reservations)
	r.Reviews = NewReviewRepository(d, NewRatingRegistry(r.Buildings, r.Spaces, r.Offices, r.Services))
	r.Notifications = NewNotificationRepository(d)
	return r
}
