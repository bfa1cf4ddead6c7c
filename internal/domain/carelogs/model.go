package carelogs

import "time"

// Entry es el registro de cuidados de un día de estadía.
// Clave natural: (AppointmentID, Date). Como máximo una entrada por
// reserva por día calendario; guardar de nuevo reemplaza la anterior.
//
// Una entrada puede sobrevivir a su reserva: los logs son registro
// histórico, no dependen del ciclo de vida de la reserva.
type Entry struct {
	AppointmentID string
	Date          time.Time // medianoche UTC

	Breakfast bool
	Dinner    bool

	Medications string
	Walks       string
	Behavior    string
	Notes       string

	Timestamp time.Time // momento en que se guardó
}
