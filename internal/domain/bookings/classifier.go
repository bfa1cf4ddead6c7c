package bookings

import (
	"context"
	"errors"
	"fmt"
	"time"

	"kennel-ops/internal/ports/refdata"
)

// Clasificador de operaciones diarias. "Hoy" siempre lo decide el
// caller; el core no lee el reloj para estas vistas.

// DayView son los tres conjuntos operativos de un día.
//
// Llegadas nunca se solapa con los otros dos (exige no estar
// ingresado). Una salida sí es a la vez residente actual: el animal
// sigue en el local hasta que se ejecute el check-out.
type DayView struct {
	Arrivals   []Appointment
	Departures []Appointment
	Current    []Appointment
}

// Classify deriva la vista del día a partir del set completo.
//   - Llegadas: empiezan hoy, sin check-in ni check-out, no canceladas.
//   - Salidas: terminan hoy, con check-in y sin check-out.
//   - Residentes: con check-in y sin check-out, sin importar fechas
//     (una estadía puede extenderse más allá de su fin nominal).
func Classify(list []Appointment, today time.Time) DayView {
	today = DateOf(today)

	v := DayView{
		Arrivals:   make([]Appointment, 0),
		Departures: make([]Appointment, 0),
		Current:    make([]Appointment, 0),
	}

	for _, a := range list {
		if a.CheckedIn && !a.CheckedOut {
			v.Current = append(v.Current, a)
			if SameDay(a.EndDate, today) {
				v.Departures = append(v.Departures, a)
			}
			continue
		}
		if a.Cancelled || a.CheckedIn || a.CheckedOut {
			continue
		}
		if SameDay(a.StartDate, today) {
			v.Arrivals = append(v.Arrivals, a)
		}
	}
	return v
}

// Stats son los contadores del tablero.
type Stats struct {
	CheckedIn int
	Arrivals  int
}

func DayStats(list []Appointment, today time.Time) Stats {
	v := Classify(list, today)
	return Stats{
		CheckedIn: len(v.Current),
		Arrivals:  len(v.Arrivals),
	}
}

func (s *Service) DailyView(ctx context.Context, today time.Time) (DayView, error) {
	list, err := s.repo.List(ctx)
	if err != nil {
		return DayView{}, err
	}
	return Classify(list, today), nil
}

func (s *Service) DailyStats(ctx context.Context, today time.Time) (Stats, error) {
	list, err := s.repo.List(ctx)
	if err != nil {
		return Stats{}, err
	}
	return DayStats(list, today), nil
}

// RabiesStatus clasifica el vencimiento de la antirrábica.
// Solo informativo: nunca bloquea un check-in.
// @Enum expired, expiring-soon, current, no-date
type RabiesStatus string

const (
	RabiesExpired      RabiesStatus = "expired"
	RabiesExpiringSoon RabiesStatus = "expiring-soon"
	RabiesCurrent      RabiesStatus = "current"
	RabiesNoDate       RabiesStatus = "no-date"
)

// ClassifyRabies replica el corte histórico: vencida si la fecha ya
// pasó, por vencer si faltan 30 días o menos.
func ClassifyRabies(expiration *time.Time, today time.Time) (RabiesStatus, int) {
	if expiration == nil || expiration.IsZero() {
		return RabiesNoDate, 0
	}
	days := int(DateOf(*expiration).Sub(DateOf(today)).Hours() / 24)
	switch {
	case days < 0:
		return RabiesExpired, days
	case days <= 30:
		return RabiesExpiringSoon, days
	default:
		return RabiesCurrent, days
	}
}

type VaccinationAlert struct {
	Appointment Appointment
	Animal      refdata.Animal
	Status      RabiesStatus
	DaysUntil   int
}

type VaccinationReport struct {
	Arrivals  []VaccinationAlert
	Residents []VaccinationAlert
}

// VaccinationReport revisa la antirrábica de las llegadas del próximo
// mes y de los residentes actuales. Animales que ya no existen en el
// registro externo se omiten sin error; cualquier otra falla del
// registro aborta el reporte (un reporte parcial sería engañoso).
func (s *Service) VaccinationReport(ctx context.Context, today time.Time) (VaccinationReport, error) {
	list, err := s.repo.List(ctx)
	if err != nil {
		return VaccinationReport{}, err
	}

	today = DateOf(today)
	monthOut := today.AddDate(0, 1, 0)

	rep := VaccinationReport{
		Arrivals:  make([]VaccinationAlert, 0),
		Residents: make([]VaccinationAlert, 0),
	}

	alertFor := func(a Appointment) (VaccinationAlert, bool, error) {
		animal, err := s.refs.AnimalByID(ctx, a.AnimalID)
		if err != nil {
			if errors.Is(err, refdata.ErrNotFound) {
				return VaccinationAlert{}, false, nil
			}
			return VaccinationAlert{}, false, fmt.Errorf("animal %s: %w", a.AnimalID, err)
		}
		st, days := ClassifyRabies(animal.RabiesExpiration, today)
		return VaccinationAlert{Appointment: a, Animal: animal, Status: st, DaysUntil: days}, true, nil
	}

	for _, a := range list {
		if a.CheckedIn && !a.CheckedOut {
			alert, ok, err := alertFor(a)
			if err != nil {
				return VaccinationReport{}, err
			}
			if ok {
				rep.Residents = append(rep.Residents, alert)
			}
			continue
		}
		if a.Cancelled || a.CheckedIn || a.CheckedOut {
			continue
		}
		start := DateOf(a.StartDate)
		if !start.Before(today) && !start.After(monthOut) {
			alert, ok, err := alertFor(a)
			if err != nil {
				return VaccinationReport{}, err
			}
			if ok {
				rep.Arrivals = append(rep.Arrivals, alert)
			}
		}
	}
	return rep, nil
}
