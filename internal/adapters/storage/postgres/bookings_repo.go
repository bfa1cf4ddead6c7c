package postgres

import (
	"context"
	"database/sql"
	"strings"
	"time"

	"kennel-ops/internal/domain/auditlog"
	"kennel-ops/internal/domain/bookings"
)

type BookingsRepo struct {
	db *sql.DB
}

func NewBookingsRepo(db *sql.DB) *BookingsRepo {
	return &BookingsRepo{db: db}
}

const bookingColumns = `
	id, client_id, animal_id, client_name, animal_name,
	service_type,
	start_date, end_date, start_time, end_time,
	confirmed, cancelled,
	checked_in, checkin_at, checkin_notes,
	checked_out, checkout_at, checkout_notes,
	notes,
	created_at, updated_at
`

func (r *BookingsRepo) Create(ctx context.Context, a bookings.Appointment) error {
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO appointments (`+bookingColumns+`)
		VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12,$13,$14,$15,$16,$17,$18,$19,$20,$21)
	`,
		a.ID, a.ClientID, a.AnimalID, a.ClientName, a.AnimalName,
		string(a.ServiceType),
		a.StartDate, a.EndDate, a.StartTime, a.EndTime,
		a.Confirmed, a.Cancelled,
		a.CheckedIn, nullTime(a.CheckinDateTime), a.CheckinNotes,
		a.CheckedOut, nullTime(a.CheckoutDateTime), a.CheckoutNotes,
		a.Notes,
		a.CreatedAt, a.UpdatedAt,
	)
	return err
}

func (r *BookingsRepo) Update(ctx context.Context, a bookings.Appointment, expectedUpdatedAt time.Time) error {
	res, err := r.db.ExecContext(ctx, `
		UPDATE appointments SET
			service_type = $1,
			start_date = $2, end_date = $3, start_time = $4, end_time = $5,
			confirmed = $6, cancelled = $7,
			checked_in = $8, checkin_at = $9, checkin_notes = $10,
			checked_out = $11, checkout_at = $12, checkout_notes = $13,
			notes = $14,
			updated_at = $15
		WHERE id = $16 AND updated_at = $17
	`,
		string(a.ServiceType),
		a.StartDate, a.EndDate, a.StartTime, a.EndTime,
		a.Confirmed, a.Cancelled,
		a.CheckedIn, nullTime(a.CheckinDateTime), a.CheckinNotes,
		a.CheckedOut, nullTime(a.CheckoutDateTime), a.CheckoutNotes,
		a.Notes,
		a.UpdatedAt,
		a.ID, expectedUpdatedAt,
	)
	if err != nil {
		return err
	}
	return r.checkGuardedUpdate(ctx, res, a.ID)
}

// ApplyTransition deja la reserva y la entrada de auditoría en la
// misma transacción: o se commitean juntas o no queda nada.
func (r *BookingsRepo) ApplyTransition(ctx context.Context, a bookings.Appointment, expectedUpdatedAt time.Time, entry auditlog.Entry) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback() }()

	res, err := tx.ExecContext(ctx, `
		UPDATE appointments SET
			checked_in = $1, checkin_at = $2, checkin_notes = $3,
			checked_out = $4, checkout_at = $5, checkout_notes = $6,
			updated_at = $7
		WHERE id = $8 AND updated_at = $9
	`,
		a.CheckedIn, nullTime(a.CheckinDateTime), a.CheckinNotes,
		a.CheckedOut, nullTime(a.CheckoutDateTime), a.CheckoutNotes,
		a.UpdatedAt,
		a.ID, expectedUpdatedAt,
	)
	if err != nil {
		return err
	}
	n, _ := res.RowsAffected()
	if n == 0 {
		// Distinguir 404 de conflicto de versión.
		var exists bool
		if err := tx.QueryRowContext(ctx,
			`SELECT EXISTS (SELECT 1 FROM appointments WHERE id = $1)`, a.ID,
		).Scan(&exists); err != nil {
			return err
		}
		if !exists {
			return bookings.ErrNotFound
		}
		return bookings.ErrConflict
	}

	if _, err := tx.ExecContext(ctx, `
		INSERT INTO check_in_logs (
			id, appointment_id, client_id, animal_id, animal_name,
			action, ts, date, note
		) VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9)
	`,
		entry.ID, entry.AppointmentID, entry.ClientID, entry.AnimalID, entry.AnimalName,
		string(entry.Action), entry.Timestamp, entry.Date, entry.Note,
	); err != nil {
		return err
	}

	return tx.Commit()
}

func (r *BookingsRepo) Delete(ctx context.Context, id string) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM appointments WHERE id = $1`, id)
	if err != nil {
		return err
	}
	n, _ := res.RowsAffected()
	if n == 0 {
		return bookings.ErrNotFound
	}
	return nil
}

func (r *BookingsRepo) GetByID(ctx context.Context, id string) (bookings.Appointment, error) {
	id = strings.TrimSpace(id)
	if id == "" {
		return bookings.Appointment{}, bookings.ErrNotFound
	}

	row := r.db.QueryRowContext(ctx, `
		SELECT `+bookingColumns+`
		FROM appointments
		WHERE id = $1
	`, id)

	a, err := scanBooking(row)
	if err == sql.ErrNoRows {
		return bookings.Appointment{}, bookings.ErrNotFound
	}
	return a, err
}

func (r *BookingsRepo) List(ctx context.Context) ([]bookings.Appointment, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT `+bookingColumns+`
		FROM appointments
		ORDER BY start_date, created_at
	`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]bookings.Appointment, 0)
	for rows.Next() {
		a, err := scanBooking(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, a)
	}
	return out, rows.Err()
}

func (r *BookingsRepo) checkGuardedUpdate(ctx context.Context, res sql.Result, id string) error {
	n, _ := res.RowsAffected()
	if n > 0 {
		return nil
	}
	var exists bool
	if err := r.db.QueryRowContext(ctx,
		`SELECT EXISTS (SELECT 1 FROM appointments WHERE id = $1)`, id,
	).Scan(&exists); err != nil {
		return err
	}
	if !exists {
		return bookings.ErrNotFound
	}
	return bookings.ErrConflict
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanBooking(row rowScanner) (bookings.Appointment, error) {
	var a bookings.Appointment
	var svcType string
	var checkinAt, checkoutAt sql.NullTime

	if err := row.Scan(
		&a.ID, &a.ClientID, &a.AnimalID, &a.ClientName, &a.AnimalName,
		&svcType,
		&a.StartDate, &a.EndDate, &a.StartTime, &a.EndTime,
		&a.Confirmed, &a.Cancelled,
		&a.CheckedIn, &checkinAt, &a.CheckinNotes,
		&a.CheckedOut, &checkoutAt, &a.CheckoutNotes,
		&a.Notes,
		&a.CreatedAt, &a.UpdatedAt,
	); err != nil {
		return bookings.Appointment{}, err
	}

	a.ServiceType = bookings.ServiceType(svcType)
	if checkinAt.Valid {
		t := checkinAt.Time
		a.CheckinDateTime = &t
	}
	if checkoutAt.Valid {
		t := checkoutAt.Time
		a.CheckoutDateTime = &t
	}
	// Las fechas calendario vuelven normalizadas a medianoche UTC.
	a.StartDate = bookings.DateOf(a.StartDate)
	a.EndDate = bookings.DateOf(a.EndDate)

	return a, nil
}

func nullTime(t *time.Time) sql.NullTime {
	if t == nil {
		return sql.NullTime{}
	}
	return sql.NullTime{Time: *t, Valid: true}
}
