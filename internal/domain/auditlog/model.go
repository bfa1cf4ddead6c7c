package auditlog

import "time"

// Action define las acciones auditables.
// @Enum checked_in, checked_out
type Action string

const (
	ActionCheckedIn  Action = "checked_in"
	ActionCheckedOut Action = "checked_out"
)

// Entry es un registro inmutable de check-in/check-out.
// Se agrega una entrada por transición; nunca se actualiza ni se borra.
type Entry struct {
	ID string

	AppointmentID string
	ClientID      string
	AnimalID      string
	AnimalName    string // copia denormalizada para lectura sin joins

	Action    Action
	Timestamp time.Time
	Date      time.Time // día derivado del timestamp (medianoche UTC)
	Note      string
}
