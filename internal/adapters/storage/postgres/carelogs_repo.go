package postgres

import (
	"context"
	"database/sql"
	"time"

	"kennel-ops/internal/domain/carelogs"
)

type CareLogsRepo struct {
	db *sql.DB
}

func NewCareLogsRepo(db *sql.DB) *CareLogsRepo {
	return &CareLogsRepo{db: db}
}

func (r *CareLogsRepo) Upsert(ctx context.Context, e carelogs.Entry) error {
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO care_logs (
			appointment_id, date,
			breakfast, dinner,
			medications, walks, behavior, notes,
			ts
		) VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9)
		ON CONFLICT (appointment_id, date) DO UPDATE SET
			breakfast = EXCLUDED.breakfast,
			dinner = EXCLUDED.dinner,
			medications = EXCLUDED.medications,
			walks = EXCLUDED.walks,
			behavior = EXCLUDED.behavior,
			notes = EXCLUDED.notes,
			ts = EXCLUDED.ts
	`,
		e.AppointmentID, e.Date,
		e.Breakfast, e.Dinner,
		e.Medications, e.Walks, e.Behavior, e.Notes,
		e.Timestamp,
	)
	return err
}

func (r *CareLogsRepo) ListByAppointment(ctx context.Context, appointmentID string) ([]carelogs.Entry, error) {
	return r.list(ctx, `
		SELECT appointment_id, date, breakfast, dinner,
			medications, walks, behavior, notes, ts
		FROM care_logs
		WHERE appointment_id = $1
		ORDER BY date
	`, appointmentID)
}

func (r *CareLogsRepo) ListByDate(ctx context.Context, date time.Time) ([]carelogs.Entry, error) {
	return r.list(ctx, `
		SELECT appointment_id, date, breakfast, dinner,
			medications, walks, behavior, notes, ts
		FROM care_logs
		WHERE date = $1
		ORDER BY appointment_id
	`, date)
}

func (r *CareLogsRepo) DeleteByAppointment(ctx context.Context, appointmentID string) error {
	_, err := r.db.ExecContext(ctx,
		`DELETE FROM care_logs WHERE appointment_id = $1`, appointmentID)
	return err
}

func (r *CareLogsRepo) list(ctx context.Context, query string, arg any) ([]carelogs.Entry, error) {
	rows, err := r.db.QueryContext(ctx, query, arg)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]carelogs.Entry, 0)
	for rows.Next() {
		var e carelogs.Entry
		if err := rows.Scan(
			&e.AppointmentID, &e.Date, &e.Breakfast, &e.Dinner,
			&e.Medications, &e.Walks, &e.Behavior, &e.Notes, &e.Timestamp,
		); err != nil {
			return nil, err
		}
		out = append(out, e)
	}
	return out, rows.Err()
}
