package carelogs

import (
	"context"
	"errors"
	"strings"
	"time"
)

var ErrInvalidInput = errors.New("invalid input")

type Service struct {
	repo Repository
	now  func() time.Time
}

func NewService(repo Repository) *Service {
	return &Service{
		repo: repo,
		now:  time.Now,
	}
}

type UpsertInput struct {
	Breakfast   bool
	Dinner      bool
	Medications string
	Walks       string
	Behavior    string
	Notes       string
}

// Upsert guarda el log del día. No valida que la reserva exista: una
// entrada puede referenciar una reserva ya borrada.
func (s *Service) Upsert(ctx context.Context, appointmentID string, date time.Time, in UpsertInput) (Entry, error) {
	appointmentID = strings.TrimSpace(appointmentID)
	if appointmentID == "" || date.IsZero() {
		return Entry{}, ErrInvalidInput
	}

	e := Entry{
		AppointmentID: appointmentID,
		Date:          dateOf(date),
		Breakfast:     in.Breakfast,
		Dinner:        in.Dinner,
		Medications:   strings.TrimSpace(in.Medications),
		Walks:         strings.TrimSpace(in.Walks),
		Behavior:      strings.TrimSpace(in.Behavior),
		Notes:         strings.TrimSpace(in.Notes),
		Timestamp:     s.now(),
	}

	if err := s.repo.Upsert(ctx, e); err != nil {
		return Entry{}, err
	}
	return e, nil
}

// ListByAppointment devuelve el historial ordenado por fecha ascendente.
func (s *Service) ListByAppointment(ctx context.Context, appointmentID string) ([]Entry, error) {
	appointmentID = strings.TrimSpace(appointmentID)
	if appointmentID == "" {
		return nil, ErrInvalidInput
	}
	return s.repo.ListByAppointment(ctx, appointmentID)
}

func (s *Service) ListByDate(ctx context.Context, date time.Time) ([]Entry, error) {
	if date.IsZero() {
		return nil, ErrInvalidInput
	}
	return s.repo.ListByDate(ctx, dateOf(date))
}

// DeleteByAppointment existe para la cascada opcional al borrar una
// reserva; no se expone por HTTP.
func (s *Service) DeleteByAppointment(ctx context.Context, appointmentID string) error {
	appointmentID = strings.TrimSpace(appointmentID)
	if appointmentID == "" {
		return ErrInvalidInput
	}
	return s.repo.DeleteByAppointment(ctx, appointmentID)
}

func dateOf(t time.Time) time.Time {
	y, m, d := t.UTC().Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}
