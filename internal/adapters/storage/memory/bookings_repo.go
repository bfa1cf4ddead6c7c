package memory

import (
	"context"
	"errors"
	"sort"
	"sync"
	"time"

	"kennel-ops/internal/domain/auditlog"
	"kennel-ops/internal/domain/bookings"
)

type bookingRepo struct {
	mu    sync.RWMutex
	byID  map[string]bookings.Appointment
	audit auditlog.Repository
}

// NewBookingRepo arma el repo en memoria. Recibe el repo de auditoría
// para poder aplicar transiciones de forma atómica bajo su propio lock.
func NewBookingRepo(audit auditlog.Repository) bookings.Repository {
	return &bookingRepo{
		byID:  make(map[string]bookings.Appointment),
		audit: audit,
	}
}

func (r *bookingRepo) Create(ctx context.Context, a bookings.Appointment) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if a.ID == "" {
		return errors.New("booking id required")
	}
	if _, exists := r.byID[a.ID]; exists {
		return errors.New("booking already exists")
	}

	r.byID[a.ID] = a
	return nil
}

func (r *bookingRepo) Update(ctx context.Context, a bookings.Appointment, expectedUpdatedAt time.Time) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	cur, ok := r.byID[a.ID]
	if !ok {
		return bookings.ErrNotFound
	}
	if !cur.UpdatedAt.Equal(expectedUpdatedAt) {
		return bookings.ErrConflict
	}

	r.byID[a.ID] = a
	return nil
}

func (r *bookingRepo) ApplyTransition(ctx context.Context, a bookings.Appointment, expectedUpdatedAt time.Time, entry auditlog.Entry) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	cur, ok := r.byID[a.ID]
	if !ok {
		return bookings.ErrNotFound
	}
	if !cur.UpdatedAt.Equal(expectedUpdatedAt) {
		return bookings.ErrConflict
	}

	// Primero la auditoría: si falla, la reserva queda intacta.
	if err := r.audit.Append(ctx, entry); err != nil {
		return err
	}

	r.byID[a.ID] = a
	return nil
}

func (r *bookingRepo) Delete(ctx context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.byID[id]; !ok {
		return bookings.ErrNotFound
	}
	delete(r.byID, id)
	return nil
}

func (r *bookingRepo) GetByID(ctx context.Context, id string) (bookings.Appointment, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	a, ok := r.byID[id]
	if !ok {
		return bookings.Appointment{}, bookings.ErrNotFound
	}
	return a, nil
}

func (r *bookingRepo) List(ctx context.Context) ([]bookings.Appointment, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]bookings.Appointment, 0, len(r.byID))
	for _, a := range r.byID {
		out = append(out, a)
	}

	// Orden estable por fecha de inicio y luego por creación.
	sort.Slice(out, func(i, j int) bool {
		if !out[i].StartDate.Equal(out[j].StartDate) {
			return out[i].StartDate.Before(out[j].StartDate)
		}
		return out[i].CreatedAt.Before(out[j].CreatedAt)
	})
	return out, nil
}
