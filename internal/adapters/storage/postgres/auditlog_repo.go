package postgres

import (
	"context"
	"database/sql"
	"time"

	"kennel-ops/internal/domain/auditlog"
)

type AuditLogRepo struct {
	db *sql.DB
}

func NewAuditLogRepo(db *sql.DB) *AuditLogRepo {
	return &AuditLogRepo{db: db}
}

func (r *AuditLogRepo) Append(ctx context.Context, e auditlog.Entry) error {
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO check_in_logs (
			id, appointment_id, client_id, animal_id, animal_name,
			action, ts, date, note
		) VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9)
	`,
		e.ID, e.AppointmentID, e.ClientID, e.AnimalID, e.AnimalName,
		string(e.Action), e.Timestamp, e.Date, e.Note,
	)
	return err
}

func (r *AuditLogRepo) ListByAppointment(ctx context.Context, appointmentID string) ([]auditlog.Entry, error) {
	return r.list(ctx, `
		SELECT id, appointment_id, client_id, animal_id, animal_name,
			action, ts, date, note
		FROM check_in_logs
		WHERE appointment_id = $1
		ORDER BY ts
	`, appointmentID)
}

func (r *AuditLogRepo) ListByDate(ctx context.Context, date time.Time) ([]auditlog.Entry, error) {
	return r.list(ctx, `
		SELECT id, appointment_id, client_id, animal_id, animal_name,
			action, ts, date, note
		FROM check_in_logs
		WHERE date = $1
		ORDER BY ts
	`, date)
}

func (r *AuditLogRepo) list(ctx context.Context, query string, arg any) ([]auditlog.Entry, error) {
	rows, err := r.db.QueryContext(ctx, query, arg)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]auditlog.Entry, 0)
	for rows.Next() {
		var e auditlog.Entry
		var action string
		if err := rows.Scan(
			&e.ID, &e.AppointmentID, &e.ClientID, &e.AnimalID, &e.AnimalName,
			&action, &e.Timestamp, &e.Date, &e.Note,
		); err != nil {
			return nil, err
		}
		e.Action = auditlog.Action(action)
		out = append(out, e)
	}
	return out, rows.Err()
}
