package memory

import (
	"context"
	"errors"
	"testing"
	"time"

	"kennel-ops/internal/domain/auditlog"
	"kennel-ops/internal/domain/bookings"
)

func seedBooking(t *testing.T, repo bookings.Repository, id string, updatedAt time.Time) bookings.Appointment {
	t.Helper()
	a := bookings.Appointment{
		ID:          id,
		ClientID:    "c1",
		AnimalID:    "a1",
		ServiceType: bookings.ServiceBoarding,
		StartDate:   time.Date(2025, 1, 10, 0, 0, 0, 0, time.UTC),
		EndDate:     time.Date(2025, 1, 12, 0, 0, 0, 0, time.UTC),
		CreatedAt:   updatedAt,
		UpdatedAt:   updatedAt,
	}
	if err := repo.Create(context.Background(), a); err != nil {
		t.Fatalf("Create error: %v", err)
	}
	return a
}

func TestBookingRepo_Update_VersionMismatchConflicts(t *testing.T) {
	repo := NewBookingRepo(NewAuditLogRepo())

	t0 := time.Date(2025, 1, 5, 10, 0, 0, 0, time.UTC)
	a := seedBooking(t, repo, "apt-1", t0)

	stale := a
	stale.Notes = "escritura vieja"
	stale.UpdatedAt = t0.Add(time.Minute)

	// Primera escritura gana.
	if err := repo.Update(context.Background(), stale, t0); err != nil {
		t.Fatalf("Update #1 error: %v", err)
	}

	// La segunda con el updatedAt viejo pierde.
	err := repo.Update(context.Background(), stale, t0)
	if !errors.Is(err, bookings.ErrConflict) {
		t.Fatalf("expected ErrConflict, got %v", err)
	}
}

func TestBookingRepo_Update_Unknown_NotFound(t *testing.T) {
	repo := NewBookingRepo(NewAuditLogRepo())

	err := repo.Update(context.Background(), bookings.Appointment{ID: "ghost"}, time.Now())
	if !errors.Is(err, bookings.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestBookingRepo_ApplyTransition_WritesBookingAndAuditTogether(t *testing.T) {
	audit := NewAuditLogRepo()
	repo := NewBookingRepo(audit)

	t0 := time.Date(2025, 1, 10, 8, 0, 0, 0, time.UTC)
	a := seedBooking(t, repo, "apt-1", t0)

	now := t0.Add(time.Hour)
	a.CheckedIn = true
	a.CheckinDateTime = &now
	a.UpdatedAt = now

	entry := auditlog.Entry{
		ID:            "log-1",
		AppointmentID: a.ID,
		Action:        auditlog.ActionCheckedIn,
		Timestamp:     now,
		Date:          time.Date(2025, 1, 10, 0, 0, 0, 0, time.UTC),
	}
	if err := repo.ApplyTransition(context.Background(), a, t0, entry); err != nil {
		t.Fatalf("ApplyTransition error: %v", err)
	}

	got, err := repo.GetByID(context.Background(), a.ID)
	if err != nil {
		t.Fatalf("GetByID error: %v", err)
	}
	if !got.CheckedIn {
		t.Fatalf("expected booking checked in")
	}

	entries, err := audit.ListByAppointment(context.Background(), a.ID)
	if err != nil {
		t.Fatalf("ListByAppointment error: %v", err)
	}
	if len(entries) != 1 || entries[0].ID != "log-1" {
		t.Fatalf("expected exactly the transition audit entry, got %v", entries)
	}
}

func TestBookingRepo_ApplyTransition_AuditFailureLeavesBookingIntact(t *testing.T) {
	audit := NewAuditLogRepo()
	repo := NewBookingRepo(audit)

	t0 := time.Date(2025, 1, 10, 8, 0, 0, 0, time.UTC)
	a := seedBooking(t, repo, "apt-1", t0)

	// Entrada sin ID: el repo de auditoría la rechaza.
	next := a
	next.CheckedIn = true
	next.UpdatedAt = t0.Add(time.Hour)

	err := repo.ApplyTransition(context.Background(), next, t0, auditlog.Entry{})
	if err == nil {
		t.Fatalf("expected append failure")
	}

	got, _ := repo.GetByID(context.Background(), a.ID)
	if got.CheckedIn {
		t.Fatalf("expected booking unchanged after audit failure")
	}
	if !got.UpdatedAt.Equal(t0) {
		t.Fatalf("expected updatedAt unchanged after audit failure")
	}
}

func TestBookingRepo_ApplyTransition_StaleVersionConflicts(t *testing.T) {
	audit := NewAuditLogRepo()
	repo := NewBookingRepo(audit)

	t0 := time.Date(2025, 1, 10, 8, 0, 0, 0, time.UTC)
	a := seedBooking(t, repo, "apt-1", t0)

	first := a
	first.CheckedIn = true
	first.UpdatedAt = t0.Add(time.Hour)
	if err := repo.ApplyTransition(context.Background(), first, t0, auditlog.Entry{ID: "log-1", AppointmentID: a.ID}); err != nil {
		t.Fatalf("ApplyTransition #1 error: %v", err)
	}

	// Transición concurrente con la versión vieja: conflicto, sin
	// entrada de auditoría adicional.
	err := repo.ApplyTransition(context.Background(), first, t0, auditlog.Entry{ID: "log-2", AppointmentID: a.ID})
	if !errors.Is(err, bookings.ErrConflict) {
		t.Fatalf("expected ErrConflict, got %v", err)
	}

	entries, _ := audit.ListByAppointment(context.Background(), a.ID)
	if len(entries) != 1 {
		t.Fatalf("expected 1 audit entry after conflicting transition, got %d", len(entries))
	}
}

func TestBookingRepo_List_OrderedByStartThenCreated(t *testing.T) {
	repo := NewBookingRepo(NewAuditLogRepo())

	base := time.Date(2025, 1, 5, 10, 0, 0, 0, time.UTC)
	later := bookings.Appointment{
		ID: "later", ClientID: "c1", AnimalID: "a1",
		StartDate: time.Date(2025, 2, 1, 0, 0, 0, 0, time.UTC),
		EndDate:   time.Date(2025, 2, 2, 0, 0, 0, 0, time.UTC),
		CreatedAt: base, UpdatedAt: base,
	}
	earlier := bookings.Appointment{
		ID: "earlier", ClientID: "c1", AnimalID: "a1",
		StartDate: time.Date(2025, 1, 10, 0, 0, 0, 0, time.UTC),
		EndDate:   time.Date(2025, 1, 12, 0, 0, 0, 0, time.UTC),
		CreatedAt: base.Add(time.Minute), UpdatedAt: base.Add(time.Minute),
	}
	_ = repo.Create(context.Background(), later)
	_ = repo.Create(context.Background(), earlier)

	list, err := repo.List(context.Background())
	if err != nil {
		t.Fatalf("List error: %v", err)
	}
	if len(list) != 2 || list[0].ID != "earlier" || list[1].ID != "later" {
		t.Fatalf("expected order earlier,later; got %v", list)
	}
}
