package memory

import (
	"context"
	"errors"
	"sort"
	"sync"
	"time"

	"kennel-ops/internal/domain/auditlog"
)

type auditRepo struct {
	mu      sync.RWMutex
	entries []auditlog.Entry
	seen    map[string]struct{}
}

func NewAuditLogRepo() auditlog.Repository {
	return &auditRepo{
		entries: make([]auditlog.Entry, 0),
		seen:    make(map[string]struct{}),
	}
}

func (r *auditRepo) Append(ctx context.Context, e auditlog.Entry) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if e.ID == "" {
		return errors.New("audit entry id required")
	}
	if _, dup := r.seen[e.ID]; dup {
		return errors.New("audit entry already exists")
	}

	r.seen[e.ID] = struct{}{}
	r.entries = append(r.entries, e)
	return nil
}

func (r *auditRepo) ListByAppointment(ctx context.Context, appointmentID string) ([]auditlog.Entry, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]auditlog.Entry, 0)
	for _, e := range r.entries {
		if e.AppointmentID == appointmentID {
			out = append(out, e)
		}
	}
	sortByTimestamp(out)
	return out, nil
}

func (r *auditRepo) ListByDate(ctx context.Context, date time.Time) ([]auditlog.Entry, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]auditlog.Entry, 0)
	for _, e := range r.entries {
		if e.Date.Equal(date) {
			out = append(out, e)
		}
	}
	sortByTimestamp(out)
	return out, nil
}

func sortByTimestamp(list []auditlog.Entry) {
	sort.Slice(list, func(i, j int) bool {
		return list[i].Timestamp.Before(list[j].Timestamp)
	})
}
