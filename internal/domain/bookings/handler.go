package bookings

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strings"
	"time"

	"kennel-ops/internal/middleware"
	"kennel-ops/internal/platform/logger"
	"kennel-ops/internal/platform/metrics"

	"github.com/go-chi/chi/v5"
)

func RegisterRoutes(r chi.Router, svc *Service, log logger.Logger) {
	r.Route("/bookings", func(br chi.Router) {
		br.Post("/", createBookingHandler(svc))
		br.Get("/", listBookingsHandler(svc))
		br.Get("/calendar", calendarHandler(svc))
		br.Get("/range", rangeHandler(svc))

		br.Route("/{bookingID}", func(ir chi.Router) {
			ir.Get("/", getBookingHandler(svc))
			ir.Patch("/", updateBookingHandler(svc))
			ir.Delete("/", deleteBookingHandler(svc))

			ir.Post("/checkin", checkinHandler(svc, log))
			ir.Post("/checkout", checkoutHandler(svc, log))
			ir.Post("/cancel", cancelHandler(svc, log))
		})
	})

	r.Get("/reports/vaccinations", vaccinationReportHandler(svc))
}

type createBookingRequest struct {
	ClientID    string `json:"clientId"`
	AnimalID    string `json:"animalId"`
	ServiceType string `json:"serviceType"`
	StartDate   string `json:"startDate"` // YYYY-MM-DD
	EndDate     string `json:"endDate"`   // YYYY-MM-DD
	StartTime   string `json:"startTime"` // HH:MM opcional
	EndTime     string `json:"endTime"`
	Confirmed   bool   `json:"confirmed"`
	Notes       string `json:"notes"`
}

type updateBookingRequest struct {
	// Punteros para PATCH real: nil = no tocar.
	ServiceType *string `json:"serviceType"`
	StartDate   *string `json:"startDate"`
	EndDate     *string `json:"endDate"`
	StartTime   *string `json:"startTime"`
	EndTime     *string `json:"endTime"`
	Confirmed   *bool   `json:"confirmed"`
	Notes       *string `json:"notes"`
}

type transitionRequest struct {
	At    string `json:"at"` // RFC3339 opcional (backdating)
	Notes string `json:"notes"`
}

// bookingResponse conserva los nombres camelCase de las colecciones
// persistidas históricas para no romper consumidores existentes.
type bookingResponse struct {
	ID               string     `json:"id"`
	ClientID         string     `json:"clientId"`
	AnimalID         string     `json:"animalId"`
	ClientName       string     `json:"clientName"`
	AnimalName       string     `json:"animalName"`
	ServiceType      string     `json:"serviceType"`
	Status           string     `json:"status"`
	StartDate        string     `json:"startDate"`
	EndDate          string     `json:"endDate"`
	StartTime        string     `json:"startTime,omitempty"`
	EndTime          string     `json:"endTime,omitempty"`
	CheckedIn        bool       `json:"checkedIn"`
	CheckinDateTime  *time.Time `json:"checkinDateTime,omitempty"`
	CheckinNotes     string     `json:"checkinNotes,omitempty"`
	CheckedOut       bool       `json:"checkedOut"`
	CheckoutDateTime *time.Time `json:"checkoutDateTime,omitempty"`
	CheckoutNotes    string     `json:"checkoutNotes,omitempty"`
	Notes            string     `json:"notes"`
	CreatedAt        time.Time  `json:"createdAt"`
	UpdatedAt        time.Time  `json:"updatedAt"`
}

type dayViewResponse struct {
	Arrivals   []bookingResponse `json:"arrivals"`
	Departures []bookingResponse `json:"departures"`
	Current    []bookingResponse `json:"current"`
	Stats      statsResponse     `json:"stats"`
}

type statsResponse struct {
	CheckedIn int `json:"checkedIn"`
	Arrivals  int `json:"arrivals"`
}

type vaccinationAlertResponse struct {
	Booking          bookingResponse `json:"booking"`
	AnimalName       string          `json:"animalName"`
	Species          string          `json:"species"`
	RabiesExpiration *time.Time      `json:"rabiesExpiration,omitempty"`
	Status           string          `json:"status"`
	DaysUntil        int             `json:"daysUntil"`
}

type vaccinationReportResponse struct {
	Arrivals  []vaccinationAlertResponse `json:"arrivals"`
	Residents []vaccinationAlertResponse `json:"residents"`
}

func createBookingHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req createBookingRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			http.Error(w, "invalid json", http.StatusBadRequest)
			return
		}

		start, err := parseDate(req.StartDate)
		if err != nil {
			http.Error(w, "startDate must be YYYY-MM-DD", http.StatusBadRequest)
			return
		}
		end, err := parseDate(req.EndDate)
		if err != nil {
			http.Error(w, "endDate must be YYYY-MM-DD", http.StatusBadRequest)
			return
		}

		a, err := svc.Create(r.Context(), CreateInput{
			ClientID:    req.ClientID,
			AnimalID:    req.AnimalID,
			ServiceType: req.ServiceType,
			StartDate:   start,
			EndDate:     end,
			StartTime:   req.StartTime,
			EndTime:     req.EndTime,
			Confirmed:   req.Confirmed,
			Notes:       req.Notes,
		})
		if err != nil {
			writeDomainError(w, err)
			return
		}

		writeJSON(w, http.StatusCreated, toBookingResponse(a))
	}
}

func listBookingsHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		dateStr := strings.TrimSpace(r.URL.Query().Get("date"))
		view := strings.TrimSpace(r.URL.Query().Get("view"))

		if dateStr == "" {
			items, err := svc.List(r.Context())
			if err != nil {
				http.Error(w, "internal error", http.StatusInternalServerError)
				return
			}
			writeJSON(w, http.StatusOK, toBookingResponses(items))
			return
		}

		day, err := parseDate(dateStr)
		if err != nil {
			http.Error(w, "date must be YYYY-MM-DD", http.StatusBadRequest)
			return
		}

		switch view {
		case "":
			// Sin vista: todas las reservas que abarcan ese día.
			items, err := svc.OverlappingDate(r.Context(), day)
			if err != nil {
				http.Error(w, "internal error", http.StatusInternalServerError)
				return
			}
			writeJSON(w, http.StatusOK, toBookingResponses(items))

		case "arrivals", "departures", "current":
			v, err := svc.DailyView(r.Context(), day)
			if err != nil {
				http.Error(w, "internal error", http.StatusInternalServerError)
				return
			}
			var items []Appointment
			switch view {
			case "arrivals":
				items = v.Arrivals
			case "departures":
				items = v.Departures
			case "current":
				items = v.Current
			}
			writeJSON(w, http.StatusOK, toBookingResponses(items))

		case "day":
			v, err := svc.DailyView(r.Context(), day)
			if err != nil {
				http.Error(w, "internal error", http.StatusInternalServerError)
				return
			}
			writeJSON(w, http.StatusOK, dayViewResponse{
				Arrivals:   toBookingResponses(v.Arrivals),
				Departures: toBookingResponses(v.Departures),
				Current:    toBookingResponses(v.Current),
				Stats:      statsResponse{CheckedIn: len(v.Current), Arrivals: len(v.Arrivals)},
			})

		default:
			http.Error(w, "view must be arrivals|departures|current|day", http.StatusBadRequest)
		}
	}
}

func calendarHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		monthStr := strings.TrimSpace(r.URL.Query().Get("month"))
		m, err := time.Parse("2006-01", monthStr)
		if err != nil {
			http.Error(w, "month must be YYYY-MM", http.StatusBadRequest)
			return
		}

		counts, err := svc.MonthCounts(r.Context(), m.Year(), m.Month())
		if err != nil {
			http.Error(w, "internal error", http.StatusInternalServerError)
			return
		}
		writeJSON(w, http.StatusOK, counts)
	}
}

func rangeHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		start, err := parseDate(r.URL.Query().Get("start"))
		if err != nil {
			http.Error(w, "start must be YYYY-MM-DD", http.StatusBadRequest)
			return
		}
		end, err := parseDate(r.URL.Query().Get("end"))
		if err != nil {
			http.Error(w, "end must be YYYY-MM-DD", http.StatusBadRequest)
			return
		}

		items, err := svc.StartingInRange(r.Context(), start, end)
		if err != nil {
			writeDomainError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, toBookingResponses(items))
	}
}

func getBookingHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		a, err := svc.GetByID(r.Context(), chi.URLParam(r, "bookingID"))
		if err != nil {
			writeDomainError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, toBookingResponse(a))
	}
}

func updateBookingHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		dec := json.NewDecoder(r.Body)
		dec.DisallowUnknownFields()

		var req updateBookingRequest
		if err := dec.Decode(&req); err != nil {
			// checkedIn/checkedOut/status rechazados acá: esos campos
			// solo cambian por las transiciones dedicadas.
			http.Error(w, "invalid json", http.StatusBadRequest)
			return
		}

		in := UpdateInput{
			ServiceType: req.ServiceType,
			StartTime:   req.StartTime,
			EndTime:     req.EndTime,
			Confirmed:   req.Confirmed,
			Notes:       req.Notes,
		}
		if req.StartDate != nil {
			d, err := parseDate(*req.StartDate)
			if err != nil {
				http.Error(w, "startDate must be YYYY-MM-DD", http.StatusBadRequest)
				return
			}
			in.StartDate = &d
		}
		if req.EndDate != nil {
			d, err := parseDate(*req.EndDate)
			if err != nil {
				http.Error(w, "endDate must be YYYY-MM-DD", http.StatusBadRequest)
				return
			}
			in.EndDate = &d
		}

		a, err := svc.Update(r.Context(), chi.URLParam(r, "bookingID"), in)
		if err != nil {
			writeDomainError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, toBookingResponse(a))
	}
}

func deleteBookingHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if err := svc.Delete(r.Context(), chi.URLParam(r, "bookingID")); err != nil {
			writeDomainError(w, err)
			return
		}
		w.WriteHeader(http.StatusNoContent)
	}
}

func checkinHandler(svc *Service, log logger.Logger) http.HandlerFunc {
	return transitionHandler(svc, log, "checked_in", (*Service).CheckIn)
}

func checkoutHandler(svc *Service, log logger.Logger) http.HandlerFunc {
	return transitionHandler(svc, log, "checked_out", (*Service).CheckOut)
}

func transitionHandler(
	svc *Service,
	log logger.Logger,
	action string,
	apply func(*Service, context.Context, string, TransitionInput) (Appointment, error),
) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id := chi.URLParam(r, "bookingID")

		var req transitionRequest
		if r.Body != nil && r.ContentLength != 0 {
			if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
				http.Error(w, "invalid json", http.StatusBadRequest)
				return
			}
		}

		in := TransitionInput{Notes: req.Notes}
		if strings.TrimSpace(req.At) != "" {
			at, err := time.Parse(time.RFC3339, req.At)
			if err != nil {
				http.Error(w, "at must be RFC3339", http.StatusBadRequest)
				return
			}
			in.At = &at
		}

		a, err := apply(svc, r.Context(), id, in)
		if err != nil {
			writeDomainError(w, err)
			return
		}

		metrics.Transitions.WithLabelValues(action).Inc()
		fields := map[string]any{"booking_id": a.ID, "action": action}
		if actor, ok := middleware.GetActor(r.Context()); ok {
			fields["actor"] = actor.ID
		}
		log.Info("booking transition", fields)

		writeJSON(w, http.StatusOK, toBookingResponse(a))
	}
}

func cancelHandler(svc *Service, log logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		a, err := svc.Cancel(r.Context(), chi.URLParam(r, "bookingID"))
		if err != nil {
			writeDomainError(w, err)
			return
		}

		metrics.Transitions.WithLabelValues("cancelled").Inc()
		fields := map[string]any{"booking_id": a.ID, "action": "cancelled"}
		if actor, ok := middleware.GetActor(r.Context()); ok {
			fields["actor"] = actor.ID
		}
		log.Info("booking cancelled", fields)

		writeJSON(w, http.StatusOK, toBookingResponse(a))
	}
}

func vaccinationReportHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		today := time.Now()
		if q := strings.TrimSpace(r.URL.Query().Get("today")); q != "" {
			d, err := parseDate(q)
			if err != nil {
				http.Error(w, "today must be YYYY-MM-DD", http.StatusBadRequest)
				return
			}
			today = d
		}

		rep, err := svc.VaccinationReport(r.Context(), today)
		if err != nil {
			http.Error(w, "internal error", http.StatusInternalServerError)
			return
		}

		writeJSON(w, http.StatusOK, vaccinationReportResponse{
			Arrivals:  toAlertResponses(rep.Arrivals),
			Residents: toAlertResponses(rep.Residents),
		})
	}
}

func toBookingResponse(a Appointment) bookingResponse {
	return bookingResponse{
		ID:               a.ID,
		ClientID:         a.ClientID,
		AnimalID:         a.AnimalID,
		ClientName:       a.ClientName,
		AnimalName:       a.AnimalName,
		ServiceType:      string(a.ServiceType),
		Status:           string(a.Status()),
		StartDate:        a.StartDate.Format("2006-01-02"),
		EndDate:          a.EndDate.Format("2006-01-02"),
		StartTime:        a.StartTime,
		EndTime:          a.EndTime,
		CheckedIn:        a.CheckedIn,
		CheckinDateTime:  a.CheckinDateTime,
		CheckinNotes:     a.CheckinNotes,
		CheckedOut:       a.CheckedOut,
		CheckoutDateTime: a.CheckoutDateTime,
		CheckoutNotes:    a.CheckoutNotes,
		Notes:            a.Notes,
		CreatedAt:        a.CreatedAt,
		UpdatedAt:        a.UpdatedAt,
	}
}

func toBookingResponses(items []Appointment) []bookingResponse {
	out := make([]bookingResponse, 0, len(items))
	for _, a := range items {
		out = append(out, toBookingResponse(a))
	}
	return out
}

func toAlertResponses(items []VaccinationAlert) []vaccinationAlertResponse {
	out := make([]vaccinationAlertResponse, 0, len(items))
	for _, al := range items {
		out = append(out, vaccinationAlertResponse{
			Booking:          toBookingResponse(al.Appointment),
			AnimalName:       al.Animal.Name,
			Species:          string(al.Animal.Species),
			RabiesExpiration: al.Animal.RabiesExpiration,
			Status:           string(al.Status),
			DaysUntil:        al.DaysUntil,
		})
	}
	return out
}

func parseDate(s string) (time.Time, error) {
	return time.Parse("2006-01-02", strings.TrimSpace(s))
}

func writeDomainError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, ErrInvalidInput):
		http.Error(w, err.Error(), http.StatusBadRequest)
	case errors.Is(err, ErrNotFound):
		http.Error(w, "booking not found", http.StatusNotFound)
	case errors.Is(err, ErrConflict):
		http.Error(w, "conflict", http.StatusConflict)
	default:
		http.Error(w, "internal error", http.StatusInternalServerError)
	}
}

// writeJSON está duplicado intencionalmente en handlers de distintos
// módulos para no extraer helpers compartidos antes de tiempo.
func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
