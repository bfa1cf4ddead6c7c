package auditlog

import (
	"context"
	"errors"
	"testing"
	"time"
)

type testRepo struct {
	entries []Entry

	lastDate time.Time
}

func (r *testRepo) Append(ctx context.Context, e Entry) error {
	r.entries = append(r.entries, e)
	return nil
}

func (r *testRepo) ListByAppointment(ctx context.Context, appointmentID string) ([]Entry, error) {
	out := make([]Entry, 0)
	for _, e := range r.entries {
		if e.AppointmentID == appointmentID {
			out = append(out, e)
		}
	}
	return out, nil
}

func (r *testRepo) ListByDate(ctx context.Context, date time.Time) ([]Entry, error) {
	r.lastDate = date
	out := make([]Entry, 0)
	for _, e := range r.entries {
		if e.Date.Equal(date) {
			out = append(out, e)
		}
	}
	return out, nil
}

func TestService_ListByAppointment_EmptyID_Invalid(t *testing.T) {
	svc := NewService(&testRepo{})

	_, err := svc.ListByAppointment(context.Background(), "   ")
	if !errors.Is(err, ErrInvalidInput) {
		t.Fatalf("expected ErrInvalidInput, got %v", err)
	}
}

func TestService_ListByDate_NormalizesToMidnightUTC(t *testing.T) {
	repo := &testRepo{
		entries: []Entry{{
			ID:            "log-1",
			AppointmentID: "apt-1",
			Action:        ActionCheckedIn,
			Timestamp:     time.Date(2025, 1, 10, 9, 15, 0, 0, time.UTC),
			Date:          time.Date(2025, 1, 10, 0, 0, 0, 0, time.UTC),
		}},
	}
	svc := NewService(repo)

	// Consulta con hora y zona: se busca por el día calendario UTC.
	loc := time.FixedZone("ART", -3*60*60)
	got, err := svc.ListByDate(context.Background(), time.Date(2025, 1, 10, 20, 30, 0, 0, loc))
	if err != nil {
		t.Fatalf("ListByDate error: %v", err)
	}

	want := time.Date(2025, 1, 10, 0, 0, 0, 0, time.UTC)
	if !repo.lastDate.Equal(want) {
		t.Fatalf("expected repo queried with %v, got %v", want, repo.lastDate)
	}
	if len(got) != 1 {
		t.Fatalf("expected 1 entry, got %d", len(got))
	}
}
