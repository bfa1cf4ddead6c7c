package sqlite

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"sort"
	"sync"
	"time"

	"kennel-ops/internal/domain/auditlog"
	"kennel-ops/internal/domain/bookings"
	"kennel-ops/internal/domain/carelogs"

	_ "modernc.org/sqlite" // driver sqlite puro Go
)

const (
	bucketAppointments = "appointments"
	bucketCareLogs     = "careLogs"
	bucketAuditLog     = "checkInLogs"
)

// Store guarda todo el estado en memoria y lo snapshotea a un único
// archivo SQLite como blobs JSON, una fila por colección, con las
// mismas claves y el mismo formato que el almacenamiento legado.
// Pensado para instalaciones de una sola guardería sin Postgres.
type Store struct {
	mu sync.Mutex
	db *sql.DB

	appointments map[string]bookings.Appointment
	careLogs     map[string]carelogs.Entry
	audit        []auditlog.Entry
}

func Open(path string) (*Store, error) {
	if path == "" {
		path = "kennel-ops.db"
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open sqlite: %w", err)
	}
	if _, err := db.Exec(`CREATE TABLE IF NOT EXISTS state (
		bucket TEXT PRIMARY KEY,
		payload BLOB NOT NULL
	)`); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("create state table: %w", err)
	}

	s := &Store{
		db:           db,
		appointments: make(map[string]bookings.Appointment),
		careLogs:     make(map[string]carelogs.Entry),
		audit:        make([]auditlog.Entry, 0),
	}
	if err := s.load(); err != nil {
		_ = db.Close()
		return nil, err
	}
	return s, nil
}

func (s *Store) Close() error {
	return s.db.Close()
}

func (s *Store) Bookings() bookings.Repository { return &sqliteBookingsRepo{s} }
func (s *Store) CareLogs() carelogs.Repository { return &sqliteCareLogsRepo{s} }
func (s *Store) AuditLog() auditlog.Repository { return &sqliteAuditRepo{s} }

func (s *Store) load() error {
	rows, err := s.db.Query(`SELECT bucket, payload FROM state`)
	if err != nil {
		return fmt.Errorf("select state: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var bucket string
		var payload []byte
		if err := rows.Scan(&bucket, &payload); err != nil {
			return err
		}

		switch bucket {
		case bucketAppointments:
			var recs []appointmentRecord
			if err := json.Unmarshal(payload, &recs); err != nil {
				return fmt.Errorf("decode %s: %w", bucket, err)
			}
			for _, rec := range recs {
				a, err := decodeAppointment(rec)
				if err != nil {
					return fmt.Errorf("decode appointment %s: %w", rec.ID, err)
				}
				s.appointments[a.ID] = a
			}
		case bucketCareLogs:
			var recs []careLogRecord
			if err := json.Unmarshal(payload, &recs); err != nil {
				return fmt.Errorf("decode %s: %w", bucket, err)
			}
			for _, rec := range recs {
				e, err := decodeCareLog(rec)
				if err != nil {
					return fmt.Errorf("decode care log: %w", err)
				}
				s.careLogs[careLogKey(e.AppointmentID, e.Date)] = e
			}
		case bucketAuditLog:
			var recs []auditRecord
			if err := json.Unmarshal(payload, &recs); err != nil {
				return fmt.Errorf("decode %s: %w", bucket, err)
			}
			for _, rec := range recs {
				e, err := decodeAuditEntry(rec)
				if err != nil {
					return fmt.Errorf("decode audit entry: %w", err)
				}
				s.audit = append(s.audit, e)
			}
		}
	}
	return rows.Err()
}

// persist escribe los buckets indicados en una sola transacción.
// El caller debe tener el lock tomado y revertir su mutación en
// memoria si esto falla.
func (s *Store) persist(buckets ...string) error {
	tx, err := s.db.Begin()
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback() }()

	for _, bucket := range buckets {
		var payload any
		switch bucket {
		case bucketAppointments:
			recs := make([]appointmentRecord, 0, len(s.appointments))
			for _, a := range s.appointments {
				recs = append(recs, encodeAppointment(a))
			}
			sort.Slice(recs, func(i, j int) bool { return recs[i].ID < recs[j].ID })
			payload = recs
		case bucketCareLogs:
			recs := make([]careLogRecord, 0, len(s.careLogs))
			for _, e := range s.careLogs {
				recs = append(recs, encodeCareLog(e))
			}
			sort.Slice(recs, func(i, j int) bool {
				if recs[i].AppointmentID != recs[j].AppointmentID {
					return recs[i].AppointmentID < recs[j].AppointmentID
				}
				return recs[i].Date < recs[j].Date
			})
			payload = recs
		case bucketAuditLog:
			recs := make([]auditRecord, 0, len(s.audit))
			for _, e := range s.audit {
				recs = append(recs, encodeAuditEntry(e))
			}
			payload = recs
		default:
			return fmt.Errorf("unknown bucket %q", bucket)
		}

		b, err := json.Marshal(payload)
		if err != nil {
			return err
		}
		if _, err := tx.Exec(`
			INSERT INTO state (bucket, payload) VALUES (?, ?)
			ON CONFLICT (bucket) DO UPDATE SET payload = excluded.payload
		`, bucket, b); err != nil {
			return err
		}
	}
	return tx.Commit()
}

func careLogKey(appointmentID string, date time.Time) string {
	return appointmentID + "|" + date.Format(dateLayout)
}

// ---- bookings ----

type sqliteBookingsRepo struct{ s *Store }

func (r *sqliteBookingsRepo) Create(ctx context.Context, a bookings.Appointment) error {
	s := r.s
	s.mu.Lock()
	defer s.mu.Unlock()

	if a.ID == "" {
		return errors.New("booking id required")
	}
	if _, exists := s.appointments[a.ID]; exists {
		return errors.New("booking already exists")
	}

	s.appointments[a.ID] = a
	if err := s.persist(bucketAppointments); err != nil {
		delete(s.appointments, a.ID)
		return err
	}
	return nil
}

func (r *sqliteBookingsRepo) Update(ctx context.Context, a bookings.Appointment, expectedUpdatedAt time.Time) error {
	s := r.s
	s.mu.Lock()
	defer s.mu.Unlock()

	cur, ok := s.appointments[a.ID]
	if !ok {
		return bookings.ErrNotFound
	}
	if !cur.UpdatedAt.Equal(expectedUpdatedAt) {
		return bookings.ErrConflict
	}

	s.appointments[a.ID] = a
	if err := s.persist(bucketAppointments); err != nil {
		s.appointments[a.ID] = cur
		return err
	}
	return nil
}

func (r *sqliteBookingsRepo) ApplyTransition(ctx context.Context, a bookings.Appointment, expectedUpdatedAt time.Time, entry auditlog.Entry) error {
	s := r.s
	s.mu.Lock()
	defer s.mu.Unlock()

	cur, ok := s.appointments[a.ID]
	if !ok {
		return bookings.ErrNotFound
	}
	if !cur.UpdatedAt.Equal(expectedUpdatedAt) {
		return bookings.ErrConflict
	}

	s.appointments[a.ID] = a
	s.audit = append(s.audit, entry)
	if err := s.persist(bucketAppointments, bucketAuditLog); err != nil {
		s.appointments[a.ID] = cur
		s.audit = s.audit[:len(s.audit)-1]
		return err
	}
	return nil
}

func (r *sqliteBookingsRepo) Delete(ctx context.Context, id string) error {
	s := r.s
	s.mu.Lock()
	defer s.mu.Unlock()

	cur, ok := s.appointments[id]
	if !ok {
		return bookings.ErrNotFound
	}

	delete(s.appointments, id)
	if err := s.persist(bucketAppointments); err != nil {
		s.appointments[id] = cur
		return err
	}
	return nil
}

func (r *sqliteBookingsRepo) GetByID(ctx context.Context, id string) (bookings.Appointment, error) {
	s := r.s
	s.mu.Lock()
	defer s.mu.Unlock()

	a, ok := s.appointments[id]
	if !ok {
		return bookings.Appointment{}, bookings.ErrNotFound
	}
	return a, nil
}

func (r *sqliteBookingsRepo) List(ctx context.Context) ([]bookings.Appointment, error) {
	s := r.s
	s.mu.Lock()
	defer s.mu.Unlock()

	out := make([]bookings.Appointment, 0, len(s.appointments))
	for _, a := range s.appointments {
		out = append(out, a)
	}
	sort.Slice(out, func(i, j int) bool {
		if !out[i].StartDate.Equal(out[j].StartDate) {
			return out[i].StartDate.Before(out[j].StartDate)
		}
		return out[i].CreatedAt.Before(out[j].CreatedAt)
	})
	return out, nil
}

// ---- care logs ----

type sqliteCareLogsRepo struct{ s *Store }

func (r *sqliteCareLogsRepo) Upsert(ctx context.Context, e carelogs.Entry) error {
	s := r.s
	s.mu.Lock()
	defer s.mu.Unlock()

	key := careLogKey(e.AppointmentID, e.Date)
	prev, had := s.careLogs[key]

	s.careLogs[key] = e
	if err := s.persist(bucketCareLogs); err != nil {
		if had {
			s.careLogs[key] = prev
		} else {
			delete(s.careLogs, key)
		}
		return err
	}
	return nil
}

func (r *sqliteCareLogsRepo) ListByAppointment(ctx context.Context, appointmentID string) ([]carelogs.Entry, error) {
	s := r.s
	s.mu.Lock()
	defer s.mu.Unlock()

	out := make([]carelogs.Entry, 0)
	for _, e := range s.careLogs {
		if e.AppointmentID == appointmentID {
			out = append(out, e)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Date.Before(out[j].Date) })
	return out, nil
}

func (r *sqliteCareLogsRepo) ListByDate(ctx context.Context, date time.Time) ([]carelogs.Entry, error) {
	s := r.s
	s.mu.Lock()
	defer s.mu.Unlock()

	out := make([]carelogs.Entry, 0)
	for _, e := range s.careLogs {
		if e.Date.Equal(date) {
			out = append(out, e)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].AppointmentID < out[j].AppointmentID })
	return out, nil
}

func (r *sqliteCareLogsRepo) DeleteByAppointment(ctx context.Context, appointmentID string) error {
	s := r.s
	s.mu.Lock()
	defer s.mu.Unlock()

	removed := make(map[string]carelogs.Entry)
	for k, e := range s.careLogs {
		if e.AppointmentID == appointmentID {
			removed[k] = e
			delete(s.careLogs, k)
		}
	}
	if len(removed) == 0 {
		return nil
	}
	if err := s.persist(bucketCareLogs); err != nil {
		for k, e := range removed {
			s.careLogs[k] = e
		}
		return err
	}
	return nil
}

// ---- audit log ----

type sqliteAuditRepo struct{ s *Store }

func (r *sqliteAuditRepo) Append(ctx context.Context, e auditlog.Entry) error {
	s := r.s
	s.mu.Lock()
	defer s.mu.Unlock()

	if e.ID == "" {
		return errors.New("audit entry id required")
	}

	s.audit = append(s.audit, e)
	if err := s.persist(bucketAuditLog); err != nil {
		s.audit = s.audit[:len(s.audit)-1]
		return err
	}
	return nil
}

func (r *sqliteAuditRepo) ListByAppointment(ctx context.Context, appointmentID string) ([]auditlog.Entry, error) {
	s := r.s
	s.mu.Lock()
	defer s.mu.Unlock()

	out := make([]auditlog.Entry, 0)
	for _, e := range s.audit {
		if e.AppointmentID == appointmentID {
			out = append(out, e)
		}
	}
	sortAuditByTimestamp(out)
	return out, nil
}

func (r *sqliteAuditRepo) ListByDate(ctx context.Context, date time.Time) ([]auditlog.Entry, error) {
	s := r.s
	s.mu.Lock()
	defer s.mu.Unlock()

	out := make([]auditlog.Entry, 0)
	for _, e := range s.audit {
		if e.Date.Equal(date) {
			out = append(out, e)
		}
	}
	sortAuditByTimestamp(out)
	return out, nil
}

func sortAuditByTimestamp(list []auditlog.Entry) {
	sort.Slice(list, func(i, j int) bool {
		return list[i].Timestamp.Before(list[j].Timestamp)
	})
}
