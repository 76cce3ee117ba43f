package middlewares

import (
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/dropDatabas3/hellolist/internal/metrics"
)

// WithMetrics instrumenta requests (contador, latencia, inflight). La ruta
// se etiqueta con el patrón chi, así que debe montarse con Router.Use.
func WithMetrics() Middleware {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			method := strings.ToUpper(r.Method)
			start := time.Now()
			rec := &statusRecorder{ResponseWriter: w}

			metrics.HTTPInflight.WithLabelValues(method).Inc()
			defer func() {
				metrics.HTTPInflight.WithLabelValues(method).Dec()
				path := routePattern(r)
				metrics.HTTPRequestDuration.WithLabelValues(method, path).Observe(time.Since(start).Seconds())
				metrics.HTTPRequestsTotal.WithLabelValues(method, path, strconv.Itoa(rec.statusOrOK())).Inc()
			}()

			next.ServeHTTP(rec, r)
		})
	}
}

func routePattern(r *http.Request) string {
	if rc := chi.RouteContext(r.Context()); rc != nil {
		if p := rc.RoutePattern(); p != "" {
			return p
		}
	}
	return "unmatched"
}
