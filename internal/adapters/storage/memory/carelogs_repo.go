package memory

import (
	"context"
	"sort"
	"sync"
	"time"

	"kennel-ops/internal/domain/carelogs"
)

type careLogRepo struct {
	mu    sync.RWMutex
	byKey map[string]carelogs.Entry
}

func NewCareLogRepo() carelogs.Repository {
	return &careLogRepo{
		byKey: make(map[string]carelogs.Entry),
	}
}

func careLogKey(appointmentID string, date time.Time) string {
	return appointmentID + "|" + date.Format("2006-01-02")
}

func (r *careLogRepo) Upsert(ctx context.Context, e carelogs.Entry) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.byKey[careLogKey(e.AppointmentID, e.Date)] = e
	return nil
}

func (r *careLogRepo) ListByAppointment(ctx context.Context, appointmentID string) ([]carelogs.Entry, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]carelogs.Entry, 0)
	for _, e := range r.byKey {
		if e.AppointmentID == appointmentID {
			out = append(out, e)
		}
	}

	sort.Slice(out, func(i, j int) bool {
		return out[i].Date.Before(out[j].Date)
	})
	return out, nil
}

func (r *careLogRepo) ListByDate(ctx context.Context, date time.Time) ([]carelogs.Entry, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]carelogs.Entry, 0)
	for _, e := range r.byKey {
		if e.Date.Equal(date) {
			out = append(out, e)
		}
	}

	sort.Slice(out, func(i, j int) bool {
		return out[i].AppointmentID < out[j].AppointmentID
	})
	return out, nil
}

func (r *careLogRepo) DeleteByAppointment(ctx context.Context, appointmentID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	for k, e := range r.byKey {
		if e.AppointmentID == appointmentID {
			delete(r.byKey, k)
		}
	}
	return nil
}
