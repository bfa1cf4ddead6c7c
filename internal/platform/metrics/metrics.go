package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	// Transitions cuenta check-ins, check-outs y cancelaciones.
	Transitions = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "kennel_ops",
		Name:      "booking_transitions_total",
		Help:      "Transiciones de estado aplicadas a reservas, por acción.",
	}, []string{"action"})

	httpRequests = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "kennel_ops",
		Name:      "http_requests_total",
		Help:      "Requests HTTP atendidos, por ruta, método y status.",
	}, []string{"route", "method", "status"})

	httpDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: "kennel_ops",
		Name:      "http_request_duration_seconds",
		Help:      "Latencia de requests HTTP.",
		Buckets:   prometheus.DefBuckets,
	}, []string{"route", "method"})
)

// Handler expone /metrics en formato Prometheus.
func Handler() http.Handler {
	return promhttp.Handler()
}

// HTTPMiddleware instrumenta cada request con contador y latencia.
// Usa el patrón de ruta de chi para no explotar la cardinalidad con IDs.
func HTTPMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		ww := chimw.NewWrapResponseWriter(w, r.ProtoMajor)

		next.ServeHTTP(ww, r)

		route := ""
		if rctx := chi.RouteContext(r.Context()); rctx != nil {
			route = rctx.RoutePattern()
		}
		if route == "" {
			route = "unmatched"
		}
		httpRequests.WithLabelValues(route, r.Method, strconv.Itoa(ww.Status())).Inc()
		httpDuration.WithLabelValues(route, r.Method).Observe(time.Since(start).Seconds())
	})
}
