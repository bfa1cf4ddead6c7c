package bookings

// ServiceType define los servicios de la reserva.
// @Enum boarding, grooming, both
type ServiceType string

const (
	ServiceBoarding ServiceType = "boarding"
	ServiceGrooming ServiceType = "grooming"
	ServiceBoth     ServiceType = "both"
)

// Status es una proyección calculada del estado de la reserva.
// Nunca se guarda como campo mutable independiente: siempre se deriva
// de los flags (cancelled, checkedOut, checkedIn, confirmed), así no
// puede divergir de ellos.
// @Enum scheduled, confirmed, in-progress, completed, cancelled
type Status string

const (
	StatusScheduled  Status = "scheduled"
	StatusConfirmed  Status = "confirmed"
	StatusInProgress Status = "in-progress"
	StatusCompleted  Status = "completed"
	StatusCancelled  Status = "cancelled"
)

func validServiceType(t ServiceType) bool {
	switch t {
	case ServiceBoarding, ServiceGrooming, ServiceBoth:
		return true
	default:
		return false
	}
}
