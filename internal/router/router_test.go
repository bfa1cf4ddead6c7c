package router

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/require"

	"kennel-ops/internal/adapters/refdata/static"
	"kennel-ops/internal/platform/logger"
	"kennel-ops/internal/platform/metrics"
	"kennel-ops/internal/ports/refdata"
)

func newTestRouter(t *testing.T) http.Handler {
	t.Helper()

	refs := static.New()
	refs.Seed(
		[]refdata.Client{{ID: "c1", Name: "Ana"}},
		[]refdata.Animal{{ID: "a1", ClientID: "c1", Name: "Rocky", Species: refdata.SpeciesDog}},
	)

	return NewRouter(Options{
		Refs:   refs,
		Logger: logger.New(logger.Options{Level: logger.Error}),
	})
}

func doJSON(t *testing.T, h http.Handler, method, path string, body any) (*httptest.ResponseRecorder, map[string]any) {
	t.Helper()

	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}

	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("X-Staff-ID", "staff-7")

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	var out map[string]any
	if rec.Body.Len() > 0 {
		_ = json.Unmarshal(rec.Body.Bytes(), &out)
	}
	return rec, out
}

func doList(t *testing.T, h http.Handler, path string) (*httptest.ResponseRecorder, []map[string]any) {
	t.Helper()

	req := httptest.NewRequest(http.MethodGet, path, nil)
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	var out []map[string]any
	if rec.Body.Len() > 0 {
		_ = json.Unmarshal(rec.Body.Bytes(), &out)
	}
	return rec, out
}

func TestRouter_Health(t *testing.T) {
	h := newTestRouter(t)

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/health", nil))

	require.Equal(t, http.StatusOK, rec.Code)
	require.Equal(t, "ok", rec.Body.String())
}

func TestRouter_FullStayFlow(t *testing.T) {
	h := newTestRouter(t)

	// Crear la reserva.
	rec, created := doJSON(t, h, http.MethodPost, "/bookings", map[string]any{
		"clientId":  "c1",
		"animalId":  "a1",
		"startDate": "2025-01-10",
		"endDate":   "2025-01-12",
		"notes":     "alergia al pollo",
	})
	require.Equal(t, http.StatusCreated, rec.Code)
	id, _ := created["id"].(string)
	require.NotEmpty(t, id)
	require.Equal(t, "boarding", created["serviceType"])
	require.Equal(t, "scheduled", created["status"])
	require.Equal(t, "Rocky", created["animalName"])

	// El día de llegada aparece en arrivals.
	rec, arrivals := doList(t, h, "/bookings?date=2025-01-10&view=arrivals")
	require.Equal(t, http.StatusOK, rec.Code)
	require.Len(t, arrivals, 1)
	require.Equal(t, id, arrivals[0]["id"])

	// Check-in.
	rec, checked := doJSON(t, h, http.MethodPost, "/bookings/"+id+"/checkin", map[string]any{
		"notes": "trajo su manta",
	})
	require.Equal(t, http.StatusOK, rec.Code)
	require.Equal(t, true, checked["checkedIn"])
	require.Equal(t, "in-progress", checked["status"])

	rec, current := doList(t, h, "/bookings?date=2025-01-10&view=current")
	require.Equal(t, http.StatusOK, rec.Code)
	require.Len(t, current, 1)

	rec, arrivals = doList(t, h, "/bookings?date=2025-01-10&view=arrivals")
	require.Equal(t, http.StatusOK, rec.Code)
	require.Empty(t, arrivals)

	// Bitácora del día: el segundo upsert reemplaza al primero.
	rec, _ = doJSON(t, h, http.MethodPut, "/bookings/"+id+"/care-logs/2025-01-10", map[string]any{
		"breakfast": true,
		"walks":     "2 vueltas",
	})
	require.Equal(t, http.StatusOK, rec.Code)

	rec, _ = doJSON(t, h, http.MethodPut, "/bookings/"+id+"/care-logs/2025-01-10", map[string]any{
		"breakfast": true,
		"dinner":    true,
		"walks":     "3 vueltas",
	})
	require.Equal(t, http.StatusOK, rec.Code)

	rec, logs := doList(t, h, "/bookings/"+id+"/care-logs")
	require.Equal(t, http.StatusOK, rec.Code)
	require.Len(t, logs, 1)
	require.Equal(t, "3 vueltas", logs[0]["walks"])

	// Check-out.
	rec, out := doJSON(t, h, http.MethodPost, "/bookings/"+id+"/checkout", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	require.Equal(t, "completed", out["status"])

	// Auditoría: exactamente una entrada por transición.
	rec, audit := doList(t, h, "/bookings/"+id+"/audit-log")
	require.Equal(t, http.StatusOK, rec.Code)
	require.Len(t, audit, 2)
	require.Equal(t, "checked_in", audit[0]["action"])
	require.Equal(t, "checked_out", audit[1]["action"])

	// Reingresar una reserva egresada es conflicto.
	rec, _ = doJSON(t, h, http.MethodPost, "/bookings/"+id+"/checkin", nil)
	require.Equal(t, http.StatusConflict, rec.Code)

	// La grilla del mes cuenta cada día de la estadía.
	req := httptest.NewRequest(http.MethodGet, "/bookings/calendar?month=2025-01", nil)
	grid := httptest.NewRecorder()
	h.ServeHTTP(grid, req)
	require.Equal(t, http.StatusOK, grid.Code)

	var counts map[string]int
	require.NoError(t, json.Unmarshal(grid.Body.Bytes(), &counts))
	require.Equal(t, 1, counts["2025-01-10"])
	require.Equal(t, 1, counts["2025-01-11"])
	require.Equal(t, 1, counts["2025-01-12"])
	_, ok := counts["2025-01-13"]
	require.False(t, ok)
}

func TestRouter_CancelBeforeCheckIn(t *testing.T) {
	h := newTestRouter(t)

	rec, created := doJSON(t, h, http.MethodPost, "/bookings", map[string]any{
		"clientId":  "c1",
		"animalId":  "a1",
		"startDate": "2025-02-01",
		"endDate":   "2025-02-03",
	})
	require.Equal(t, http.StatusCreated, rec.Code)
	id := created["id"].(string)

	before := testutil.ToFloat64(metrics.Transitions.WithLabelValues("cancelled"))
	rec, cancelled := doJSON(t, h, http.MethodPost, "/bookings/"+id+"/cancel", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	require.Equal(t, "cancelled", cancelled["status"])
	require.Equal(t, before+1, testutil.ToFloat64(metrics.Transitions.WithLabelValues("cancelled")))

	// Terminal: no se puede ingresar.
	rec, _ = doJSON(t, h, http.MethodPost, "/bookings/"+id+"/checkin", nil)
	require.Equal(t, http.StatusConflict, rec.Code)

	// Cancelar cancela de nuevo sin error.
	rec, _ = doJSON(t, h, http.MethodPost, "/bookings/"+id+"/cancel", nil)
	require.Equal(t, http.StatusOK, rec.Code)
}

func TestRouter_PatchRejectsCheckFlags(t *testing.T) {
	h := newTestRouter(t)

	rec, created := doJSON(t, h, http.MethodPost, "/bookings", map[string]any{
		"clientId":  "c1",
		"animalId":  "a1",
		"startDate": "2025-02-01",
		"endDate":   "2025-02-03",
	})
	require.Equal(t, http.StatusCreated, rec.Code)
	id := created["id"].(string)

	// checkedIn solo cambia por su endpoint dedicado.
	rec, _ = doJSON(t, h, http.MethodPatch, "/bookings/"+id, map[string]any{
		"checkedIn": true,
	})
	require.Equal(t, http.StatusBadRequest, rec.Code)

	// Un patch legítimo sí pasa.
	rec, patched := doJSON(t, h, http.MethodPatch, "/bookings/"+id, map[string]any{
		"notes":     "llega tarde",
		"confirmed": true,
	})
	require.Equal(t, http.StatusOK, rec.Code)
	require.Equal(t, "llega tarde", patched["notes"])
	require.Equal(t, "confirmed", patched["status"])
}

func TestRouter_CreateUnknownAnimal404(t *testing.T) {
	h := newTestRouter(t)

	rec, _ := doJSON(t, h, http.MethodPost, "/bookings", map[string]any{
		"clientId":  "c1",
		"animalId":  "ghost",
		"startDate": "2025-02-01",
		"endDate":   "2025-02-03",
	})
	require.Equal(t, http.StatusNotFound, rec.Code)
}

func TestRouter_DeleteBooking(t *testing.T) {
	h := newTestRouter(t)

	rec, created := doJSON(t, h, http.MethodPost, "/bookings", map[string]any{
		"clientId":  "c1",
		"animalId":  "a1",
		"startDate": "2025-02-01",
		"endDate":   "2025-02-03",
	})
	require.Equal(t, http.StatusCreated, rec.Code)
	id := created["id"].(string)

	req := httptest.NewRequest(http.MethodDelete, "/bookings/"+id, nil)
	rec2 := httptest.NewRecorder()
	h.ServeHTTP(rec2, req)
	require.Equal(t, http.StatusNoContent, rec2.Code)

	rec3 := httptest.NewRecorder()
	h.ServeHTTP(rec3, httptest.NewRequest(http.MethodGet, "/bookings/"+id, nil))
	require.Equal(t, http.StatusNotFound, rec3.Code)
}
