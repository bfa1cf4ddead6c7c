package auditlog

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
)

func RegisterRoutes(r chi.Router, svc *Service) {
	r.Get("/bookings/{bookingID}/audit-log", listByAppointmentHandler(svc))
	r.Get("/audit-log", listByDateHandler(svc))
}

type entryResponse struct {
	ID            string    `json:"id"`
	AppointmentID string    `json:"appointmentId"`
	ClientID      string    `json:"clientId"`
	AnimalID      string    `json:"animalId"`
	AnimalName    string    `json:"animalName"`
	Action        string    `json:"action"`
	Timestamp     time.Time `json:"timestamp"`
	Date          string    `json:"date"`
	Note          string    `json:"note"`
}

func listByAppointmentHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		items, err := svc.ListByAppointment(r.Context(), chi.URLParam(r, "bookingID"))
		if err != nil {
			if errors.Is(err, ErrInvalidInput) {
				http.Error(w, err.Error(), http.StatusBadRequest)
				return
			}
			http.Error(w, "internal error", http.StatusInternalServerError)
			return
		}
		writeJSON(w, http.StatusOK, toEntryResponses(items))
	}
}

func listByDateHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		date, err := time.Parse("2006-01-02", strings.TrimSpace(r.URL.Query().Get("date")))
		if err != nil {
			http.Error(w, "date must be YYYY-MM-DD", http.StatusBadRequest)
			return
		}

		items, err := svc.ListByDate(r.Context(), date)
		if err != nil {
			http.Error(w, "internal error", http.StatusInternalServerError)
			return
		}
		writeJSON(w, http.StatusOK, toEntryResponses(items))
	}
}

func toEntryResponses(items []Entry) []entryResponse {
	out := make([]entryResponse, 0, len(items))
	for _, e := range items {
		out = append(out, entryResponse{
			ID:            e.ID,
			AppointmentID: e.AppointmentID,
			ClientID:      e.ClientID,
			AnimalID:      e.AnimalID,
			AnimalName:    e.AnimalName,
			Action:        string(e.Action),
			Timestamp:     e.Timestamp,
			Date:          e.Date.Format("2006-01-02"),
			Note:          e.Note,
		})
	}
	return out
}

// writeJSON duplicado a propósito por módulo (ver nota en bookings).
func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
