package carelogs

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
)

func RegisterRoutes(r chi.Router, svc *Service) {
	r.Route("/bookings/{bookingID}/care-logs", func(cr chi.Router) {
		cr.Get("/", listCareLogsHandler(svc))
		cr.Put("/{date}", upsertCareLogHandler(svc))
	})

	// Vista del día (todas las reservas): alimenta la pantalla de
	// cuidados de hoy.
	r.Get("/care-logs", listCareLogsByDateHandler(svc))
}

type upsertCareLogRequest struct {
	Breakfast   bool   `json:"breakfast"`
	Dinner      bool   `json:"dinner"`
	Medications string `json:"medications"`
	Walks       string `json:"walks"`
	Behavior    string `json:"behavior"`
	Notes       string `json:"notes"`
}

type careLogResponse struct {
	AppointmentID string    `json:"appointmentId"`
	Date          string    `json:"date"`
	Breakfast     bool      `json:"breakfast"`
	Dinner        bool      `json:"dinner"`
	Medications   string    `json:"medications"`
	Walks         string    `json:"walks"`
	Behavior      string    `json:"behavior"`
	Notes         string    `json:"notes"`
	Timestamp     time.Time `json:"timestamp"`
}

func upsertCareLogHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		bookingID := chi.URLParam(r, "bookingID")

		date, err := time.Parse("2006-01-02", chi.URLParam(r, "date"))
		if err != nil {
			http.Error(w, "date must be YYYY-MM-DD", http.StatusBadRequest)
			return
		}

		var req upsertCareLogRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			http.Error(w, "invalid json", http.StatusBadRequest)
			return
		}

		e, err := svc.Upsert(r.Context(), bookingID, date, UpsertInput{
			Breakfast:   req.Breakfast,
			Dinner:      req.Dinner,
			Medications: req.Medications,
			Walks:       req.Walks,
			Behavior:    req.Behavior,
			Notes:       req.Notes,
		})
		if err != nil {
			if errors.Is(err, ErrInvalidInput) {
				http.Error(w, err.Error(), http.StatusBadRequest)
				return
			}
			http.Error(w, "internal error", http.StatusInternalServerError)
			return
		}

		writeJSON(w, http.StatusOK, toCareLogResponse(e))
	}
}

func listCareLogsHandler(svc *Service) http.HandlerFunc {
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

		out := make([]careLogResponse, 0, len(items))
		for _, e := range items {
			out = append(out, toCareLogResponse(e))
		}
		writeJSON(w, http.StatusOK, out)
	}
}

func listCareLogsByDateHandler(svc *Service) http.HandlerFunc {
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

		out := make([]careLogResponse, 0, len(items))
		for _, e := range items {
			out = append(out, toCareLogResponse(e))
		}
		writeJSON(w, http.StatusOK, out)
	}
}

func toCareLogResponse(e Entry) careLogResponse {
	return careLogResponse{
		AppointmentID: e.AppointmentID,
		Date:          e.Date.Format("2006-01-02"),
		Breakfast:     e.Breakfast,
		Dinner:        e.Dinner,
		Medications:   e.Medications,
		Walks:         e.Walks,
		Behavior:      e.Behavior,
		Notes:         e.Notes,
		Timestamp:     e.Timestamp,
	}
}

// writeJSON duplicado a propósito por módulo (ver nota en bookings).
func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
