package bookings

import (
	"context"
	"time"
)

// Índice de calendario. Dos predicados distintos a propósito:
//   - OverlapsDate cuenta la reserva en CADA día de su estadía
//     (la grilla mensual pinta todos los días de la estadía).
//   - InRange filtra solo por fecha de inicio (las vistas de
//     "próximas llegadas" no quieren estadías ya empezadas).

// OverlapsDate devuelve las reservas cuya estadía abarca el día d,
// inclusive en ambos extremos.
func OverlapsDate(list []Appointment, d time.Time) []Appointment {
	out := make([]Appointment, 0)
	for _, a := range list {
		if a.CoversDate(d) {
			out = append(out, a)
		}
	}
	return out
}

// InRange devuelve las reservas cuya fecha de inicio cae en
// [start, end], ambos inclusive.
func InRange(list []Appointment, start, end time.Time) []Appointment {
	start = DateOf(start)
	end = DateOf(end)

	out := make([]Appointment, 0)
	for _, a := range list {
		s := DateOf(a.StartDate)
		if !s.Before(start) && !s.After(end) {
			out = append(out, a)
		}
	}
	return out
}

func (s *Service) OverlappingDate(ctx context.Context, d time.Time) ([]Appointment, error) {
	list, err := s.repo.List(ctx)
	if err != nil {
		return nil, err
	}
	return OverlapsDate(list, d), nil
}

func (s *Service) StartingInRange(ctx context.Context, start, end time.Time) ([]Appointment, error) {
	if DateOf(start).After(DateOf(end)) {
		return nil, ErrInvalidInput
	}
	list, err := s.repo.List(ctx)
	if err != nil {
		return nil, err
	}
	return InRange(list, start, end), nil
}

// MonthCounts arma los contadores por día para la grilla del mes:
// clave "YYYY-MM-DD", valor cantidad de reservas que abarcan ese día.
// Los días sin reservas no aparecen en el mapa.
func (s *Service) MonthCounts(ctx context.Context, year int, month time.Month) (map[string]int, error) {
	list, err := s.repo.List(ctx)
	if err != nil {
		return nil, err
	}

	first := time.Date(year, month, 1, 0, 0, 0, 0, time.UTC)
	counts := make(map[string]int)

	for d := first; d.Month() == month; d = d.AddDate(0, 0, 1) {
		n := 0
		for _, a := range list {
			if a.CoversDate(d) {
				n++
			}
		}
		if n > 0 {
			counts[d.Format("2006-01-02")] = n
		}
	}
	return counts, nil
}
