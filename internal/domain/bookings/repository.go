package bookings

import (
	"context"
	"time"

	"kennel-ops/internal/domain/auditlog"
)

// Repository persiste reservas. Las mutaciones llevan el updatedAt que
// el caller leyó (concurrencia optimista): si no coincide con lo
// guardado, la operación falla con ErrConflict y el caller debe
// re-leer antes de reintentar.
type Repository interface {
	Create(ctx context.Context, a Appointment) error
	Update(ctx context.Context, a Appointment, expectedUpdatedAt time.Time) error
	Delete(ctx context.Context, id string) error
	GetByID(ctx context.Context, id string) (Appointment, error)
	List(ctx context.Context) ([]Appointment, error)

	// ApplyTransition persiste la reserva actualizada y agrega la
	// entrada de auditoría como una sola operación: o quedan las dos
	// o no queda ninguna.
	ApplyTransition(ctx context.Context, a Appointment, expectedUpdatedAt time.Time, entry auditlog.Entry) error
}
