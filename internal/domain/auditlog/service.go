package auditlog

import (
	"context"
	"errors"
	"strings"
	"time"
)

var ErrInvalidInput = errors.New("invalid input")

type Service struct {
	repo Repository
}

func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

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
	y, m, d := date.UTC().Date()
	return s.repo.ListByDate(ctx, time.Date(y, m, d, 0, 0, 0, 0, time.UTC))
}
