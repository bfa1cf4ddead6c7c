package sqlite

import (
	"time"

	"kennel-ops/internal/domain/auditlog"
	"kennel-ops/internal/domain/bookings"
	"kennel-ops/internal/domain/carelogs"
)

// Registros en el formato persistido legado: mismos nombres camelCase
// y misma colección por tipo que el almacenamiento original, para que
// un dump viejo se pueda cargar tal cual.

type appointmentRecord struct {
	ID               string `json:"id"`
	ClientID         string `json:"clientId"`
	AnimalID         string `json:"animalId"`
	ClientName       string `json:"clientName"`
	AnimalName       string `json:"animalName"`
	ServiceType      string `json:"serviceType"`
	Status           string `json:"status"`
	Confirmed        bool   `json:"confirmed"`
	StartDate        string `json:"startDate"`
	EndDate          string `json:"endDate"`
	StartTime        string `json:"startTime,omitempty"`
	EndTime          string `json:"endTime,omitempty"`
	CheckedIn        bool   `json:"checkedIn"`
	CheckinDateTime  string `json:"checkinDateTime,omitempty"`
	CheckinNotes     string `json:"checkinNotes,omitempty"`
	CheckedOut       bool   `json:"checkedOut"`
	CheckoutDateTime string `json:"checkoutDateTime,omitempty"`
	CheckoutNotes    string `json:"checkoutNotes,omitempty"`
	Notes            string `json:"notes"`
	CreatedAt        string `json:"createdAt"`
	UpdatedAt        string `json:"updatedAt"`
}

type careLogRecord struct {
	AppointmentID string `json:"appointmentId"`
	Date          string `json:"date"`
	Breakfast     bool   `json:"breakfast"`
	Dinner        bool   `json:"dinner"`
	Medications   string `json:"medications"`
	Walks         string `json:"walks"`
	Behavior      string `json:"behavior"`
	Notes         string `json:"notes"`
	Timestamp     string `json:"timestamp"`
}

type auditRecord struct {
	ID            string `json:"id"`
	AppointmentID string `json:"appointmentId"`
	ClientID      string `json:"clientId"`
	AnimalID      string `json:"animalId"`
	AnimalName    string `json:"animalName"`
	Action        string `json:"action"`
	Timestamp     string `json:"timestamp"`
	Date          string `json:"date"`
	Note          string `json:"note"`
}

const (
	dateLayout = "2006-01-02"
	tsLayout   = time.RFC3339Nano
)

func encodeAppointment(a bookings.Appointment) appointmentRecord {
	rec := appointmentRecord{
		ID:            a.ID,
		ClientID:      a.ClientID,
		AnimalID:      a.AnimalID,
		ClientName:    a.ClientName,
		AnimalName:    a.AnimalName,
		ServiceType:   string(a.ServiceType),
		Status:        string(a.Status()),
		Confirmed:     a.Confirmed,
		StartDate:     a.StartDate.Format(dateLayout),
		EndDate:       a.EndDate.Format(dateLayout),
		StartTime:     a.StartTime,
		EndTime:       a.EndTime,
		CheckedIn:     a.CheckedIn,
		CheckinNotes:  a.CheckinNotes,
		CheckedOut:    a.CheckedOut,
		CheckoutNotes: a.CheckoutNotes,
		Notes:         a.Notes,
		CreatedAt:     a.CreatedAt.UTC().Format(tsLayout),
		UpdatedAt:     a.UpdatedAt.UTC().Format(tsLayout),
	}
	if a.CheckinDateTime != nil {
		rec.CheckinDateTime = a.CheckinDateTime.UTC().Format(tsLayout)
	}
	if a.CheckoutDateTime != nil {
		rec.CheckoutDateTime = a.CheckoutDateTime.UTC().Format(tsLayout)
	}
	return rec
}

func decodeAppointment(rec appointmentRecord) (bookings.Appointment, error) {
	start, err := time.Parse(dateLayout, rec.StartDate)
	if err != nil {
		return bookings.Appointment{}, err
	}
	end, err := time.Parse(dateLayout, rec.EndDate)
	if err != nil {
		return bookings.Appointment{}, err
	}
	createdAt, err := time.Parse(tsLayout, rec.CreatedAt)
	if err != nil {
		return bookings.Appointment{}, err
	}
	updatedAt, err := time.Parse(tsLayout, rec.UpdatedAt)
	if err != nil {
		return bookings.Appointment{}, err
	}

	a := bookings.Appointment{
		ID:            rec.ID,
		ClientID:      rec.ClientID,
		AnimalID:      rec.AnimalID,
		ClientName:    rec.ClientName,
		AnimalName:    rec.AnimalName,
		ServiceType:   bookings.ServiceType(rec.ServiceType),
		Confirmed:     rec.Confirmed,
		StartDate:     start,
		EndDate:       end,
		StartTime:     rec.StartTime,
		EndTime:       rec.EndTime,
		CheckedIn:     rec.CheckedIn,
		CheckinNotes:  rec.CheckinNotes,
		CheckedOut:    rec.CheckedOut,
		CheckoutNotes: rec.CheckoutNotes,
		Notes:         rec.Notes,
		CreatedAt:     createdAt,
		UpdatedAt:     updatedAt,
	}

	// El formato legado guarda status como texto y no tiene campo
	// confirmed propio; para dumps viejos los flags no derivables de
	// checked_in/checked_out salen del status.
	switch bookings.Status(rec.Status) {
	case bookings.StatusCancelled:
		a.Cancelled = true
	case bookings.StatusConfirmed:
		a.Confirmed = true
	}

	if rec.CheckinDateTime != "" {
		t, err := time.Parse(tsLayout, rec.CheckinDateTime)
		if err != nil {
			return bookings.Appointment{}, err
		}
		a.CheckinDateTime = &t
	}
	if rec.CheckoutDateTime != "" {
		t, err := time.Parse(tsLayout, rec.CheckoutDateTime)
		if err != nil {
			return bookings.Appointment{}, err
		}
		a.CheckoutDateTime = &t
	}

	return a, nil
}

func encodeCareLog(e carelogs.Entry) careLogRecord {
	return careLogRecord{
		AppointmentID: e.AppointmentID,
		Date:          e.Date.Format(dateLayout),
		Breakfast:     e.Breakfast,
		Dinner:        e.Dinner,
		Medications:   e.Medications,
		Walks:         e.Walks,
		Behavior:      e.Behavior,
		Notes:         e.Notes,
		Timestamp:     e.Timestamp.UTC().Format(tsLayout),
	}
}

func decodeCareLog(rec careLogRecord) (carelogs.Entry, error) {
	date, err := time.Parse(dateLayout, rec.Date)
	if err != nil {
		return carelogs.Entry{}, err
	}
	ts, err := time.Parse(tsLayout, rec.Timestamp)
	if err != nil {
		return carelogs.Entry{}, err
	}
	return carelogs.Entry{
		AppointmentID: rec.AppointmentID,
		Date:          date,
		Breakfast:     rec.Breakfast,
		Dinner:        rec.Dinner,
		Medications:   rec.Medications,
		Walks:         rec.Walks,
		Behavior:      rec.Behavior,
		Notes:         rec.Notes,
		Timestamp:     ts,
	}, nil
}

func encodeAuditEntry(e auditlog.Entry) auditRecord {
	return auditRecord{
		ID:            e.ID,
		AppointmentID: e.AppointmentID,
		ClientID:      e.ClientID,
		AnimalID:      e.AnimalID,
		AnimalName:    e.AnimalName,
		Action:        string(e.Action),
		Timestamp:     e.Timestamp.UTC().Format(tsLayout),
		Date:          e.Date.Format(dateLayout),
		Note:          e.Note,
	}
}

func decodeAuditEntry(rec auditRecord) (auditlog.Entry, error) {
	ts, err := time.Parse(tsLayout, rec.Timestamp)
	if err != nil {
		return auditlog.Entry{}, err
	}
	date, err := time.Parse(dateLayout, rec.Date)
	if err != nil {
		return auditlog.Entry{}, err
	}
	return auditlog.Entry{
		ID:            rec.ID,
		AppointmentID: rec.AppointmentID,
		ClientID:      rec.ClientID,
		AnimalID:      rec.AnimalID,
		AnimalName:    rec.AnimalName,
		Action:        auditlog.Action(rec.Action),
		Timestamp:     ts,
		Date:          date,
		Note:          rec.Note,
	}, nil
}
