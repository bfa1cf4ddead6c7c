package sqlite

import (
	"context"
	"errors"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"kennel-ops/internal/domain/auditlog"
	"kennel-ops/internal/domain/bookings"
	"kennel-ops/internal/domain/carelogs"
)

func openTestStore(t *testing.T, path string) *Store {
	t.Helper()
	s, err := Open(path)
	require.NoError(t, err)
	t.Cleanup(func() { _ = s.Close() })
	return s
}

func testBooking(id string) bookings.Appointment {
	t0 := time.Date(2025, 1, 5, 10, 0, 0, 0, time.UTC)
	return bookings.Appointment{
		ID:          id,
		ClientID:    "c1",
		AnimalID:    "a1",
		ClientName:  "Ana",
		AnimalName:  "Rocky",
		ServiceType: bookings.ServiceBoarding,
		StartDate:   time.Date(2025, 1, 10, 0, 0, 0, 0, time.UTC),
		EndDate:     time.Date(2025, 1, 12, 0, 0, 0, 0, time.UTC),
		CreatedAt:   t0,
		UpdatedAt:   t0,
	}
}

func TestStore_StateSurvivesReopen(t *testing.T) {
	path := filepath.Join(t.TempDir(), "kennel.db")

	s := openTestStore(t, path)
	a := testBooking("apt-1")
	require.NoError(t, s.Bookings().Create(context.Background(), a))

	log := carelogs.Entry{
		AppointmentID: "apt-1",
		Date:          time.Date(2025, 1, 10, 0, 0, 0, 0, time.UTC),
		Breakfast:     true,
		Walks:         "2 vueltas",
		Timestamp:     time.Date(2025, 1, 10, 21, 0, 0, 0, time.UTC),
	}
	require.NoError(t, s.CareLogs().Upsert(context.Background(), log))
	require.NoError(t, s.Close())

	// Reabrir: todo vuelve desde los blobs JSON.
	s2 := openTestStore(t, path)

	got, err := s2.Bookings().GetByID(context.Background(), "apt-1")
	require.NoError(t, err)
	require.Equal(t, a, got)

	logs, err := s2.CareLogs().ListByAppointment(context.Background(), "apt-1")
	require.NoError(t, err)
	require.Len(t, logs, 1)
	require.Equal(t, log, logs[0])
}

func TestStore_ApplyTransitionPersistsBookingAndAudit(t *testing.T) {
	path := filepath.Join(t.TempDir(), "kennel.db")

	s := openTestStore(t, path)
	a := testBooking("apt-1")
	require.NoError(t, s.Bookings().Create(context.Background(), a))

	now := time.Date(2025, 1, 10, 9, 0, 0, 0, time.UTC)
	next := a
	next.CheckedIn = true
	next.CheckinDateTime = &now
	next.UpdatedAt = now

	entry := auditlog.Entry{
		ID:            "log-1",
		AppointmentID: "apt-1",
		ClientID:      "c1",
		AnimalID:      "a1",
		AnimalName:    "Rocky",
		Action:        auditlog.ActionCheckedIn,
		Timestamp:     now,
		Date:          time.Date(2025, 1, 10, 0, 0, 0, 0, time.UTC),
		Note:          "Rocky checked in",
	}
	require.NoError(t, s.Bookings().ApplyTransition(context.Background(), next, a.UpdatedAt, entry))
	require.NoError(t, s.Close())

	s2 := openTestStore(t, path)

	got, err := s2.Bookings().GetByID(context.Background(), "apt-1")
	require.NoError(t, err)
	require.True(t, got.CheckedIn)

	audit, err := s2.AuditLog().ListByAppointment(context.Background(), "apt-1")
	require.NoError(t, err)
	require.Len(t, audit, 1)
	require.Equal(t, entry, audit[0])
}

func TestStore_OptimisticConcurrency(t *testing.T) {
	s := openTestStore(t, filepath.Join(t.TempDir(), "kennel.db"))

	a := testBooking("apt-1")
	require.NoError(t, s.Bookings().Create(context.Background(), a))

	next := a
	next.Notes = "primera escritura"
	next.UpdatedAt = a.UpdatedAt.Add(time.Minute)
	require.NoError(t, s.Bookings().Update(context.Background(), next, a.UpdatedAt))

	// Versión vieja: conflicto.
	err := s.Bookings().Update(context.Background(), next, a.UpdatedAt)
	require.True(t, errors.Is(err, bookings.ErrConflict))

	err = s.Bookings().Update(context.Background(), bookings.Appointment{ID: "ghost"}, a.UpdatedAt)
	require.True(t, errors.Is(err, bookings.ErrNotFound))
}

func TestStore_UpsertReplacesSameKey(t *testing.T) {
	s := openTestStore(t, filepath.Join(t.TempDir(), "kennel.db"))

	d := time.Date(2025, 1, 10, 0, 0, 0, 0, time.UTC)
	first := carelogs.Entry{AppointmentID: "apt-1", Date: d, Walks: "2 vueltas", Timestamp: d.Add(12 * time.Hour)}
	second := carelogs.Entry{AppointmentID: "apt-1", Date: d, Walks: "3 vueltas", Timestamp: d.Add(20 * time.Hour)}

	require.NoError(t, s.CareLogs().Upsert(context.Background(), first))
	require.NoError(t, s.CareLogs().Upsert(context.Background(), second))

	logs, err := s.CareLogs().ListByDate(context.Background(), d)
	require.NoError(t, err)
	require.Len(t, logs, 1)
	require.Equal(t, "3 vueltas", logs[0].Walks)
}

func TestStore_DeleteByAppointment(t *testing.T) {
	s := openTestStore(t, filepath.Join(t.TempDir(), "kennel.db"))

	d := time.Date(2025, 1, 10, 0, 0, 0, 0, time.UTC)
	require.NoError(t, s.CareLogs().Upsert(context.Background(), carelogs.Entry{AppointmentID: "apt-1", Date: d, Timestamp: d}))
	require.NoError(t, s.CareLogs().Upsert(context.Background(), carelogs.Entry{AppointmentID: "apt-2", Date: d, Timestamp: d}))

	require.NoError(t, s.CareLogs().DeleteByAppointment(context.Background(), "apt-1"))

	logs, err := s.CareLogs().ListByDate(context.Background(), d)
	require.NoError(t, err)
	require.Len(t, logs, 1)
	require.Equal(t, "apt-2", logs[0].AppointmentID)
}
