package carelogs

import (
	"context"
	"time"
)

type Repository interface {
	// Upsert reemplaza cualquier entrada previa con la misma clave
	// (appointmentId, date).
	Upsert(ctx context.Context, e Entry) error
	ListByAppointment(ctx context.Context, appointmentID string) ([]Entry, error)
	ListByDate(ctx context.Context, date time.Time) ([]Entry, error)
	DeleteByAppointment(ctx context.Context, appointmentID string) error
}
