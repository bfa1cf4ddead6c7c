package bookings

import "time"

// Appointment es el agregado central: una estadía o servicio para un
// animal en un rango de fechas.
//
// ClientName/AnimalName son copias cacheadas del registro externo al
// momento de crear la reserva (no un join relacional): si el perfil
// cambia después, la reserva conserva lo que mostraba entonces.
type Appointment struct {
	ID string

	ClientID   string
	AnimalID   string
	ClientName string
	AnimalName string

	ServiceType ServiceType

	// Fechas calendario, normalizadas a medianoche UTC.
	// Invariante: StartDate <= EndDate.
	StartDate time.Time
	EndDate   time.Time

	// Horas "HH:MM" solo informativas; no participan en ninguna regla.
	StartTime string
	EndTime   string

	Confirmed bool
	Cancelled bool

	CheckedIn       bool
	CheckinDateTime *time.Time
	CheckinNotes    string

	CheckedOut       bool
	CheckoutDateTime *time.Time
	CheckoutNotes    string

	Notes string

	CreatedAt time.Time
	UpdatedAt time.Time
}

// Status deriva el estado visible a partir de los flags.
// Precedencia: cancelado > completado > en curso > confirmado > agendado.
func (a Appointment) Status() Status {
	switch {
	case a.Cancelled:
		return StatusCancelled
	case a.CheckedOut:
		return StatusCompleted
	case a.CheckedIn:
		return StatusInProgress
	case a.Confirmed:
		return StatusConfirmed
	default:
		return StatusScheduled
	}
}

// CoversDate indica si la reserva abarca el día d, inclusive en ambos
// extremos: una estadía del 1 al 3 cubre el 1, el 2 y el 3.
func (a Appointment) CoversDate(d time.Time) bool {
	d = DateOf(d)
	return !d.Before(DateOf(a.StartDate)) && !d.After(DateOf(a.EndDate))
}

// DateOf trunca un instante a su día calendario (medianoche UTC).
func DateOf(t time.Time) time.Time {
	y, m, d := t.UTC().Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// SameDay compara dos instantes por día calendario.
func SameDay(a, b time.Time) bool {
	return DateOf(a).Equal(DateOf(b))
}
