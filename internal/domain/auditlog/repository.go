package auditlog

import (
	"context"
	"time"
)

// Repository es append-only: no hay Update ni Delete a propósito.
type Repository interface {
	Append(ctx context.Context, e Entry) error
	ListByAppointment(ctx context.Context, appointmentID string) ([]Entry, error)
	ListByDate(ctx context.Context, date time.Time) ([]Entry, error)
}
