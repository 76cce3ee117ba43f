package middlewares

import (
	"net/http"
	"time"

	"github.com/dropDatabas3/hellolist/internal/observability/logger"
)

// WithLogging inyecta en el contexto un logger con request_id, method y path
// y registra cada request al terminar. El nivel depende del status.
func WithLogging() Middleware {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()

			reqLog := logger.L().With(
				logger.RequestID(GetRequestID(r.Context())),
				logger.Method(r.Method),
				logger.Path(r.URL.Path),
			)
			ctx := logger.ToContext(r.Context(), reqLog)
			rec := &statusRecorder{ResponseWriter: w}

			next.ServeHTTP(rec, r.WithContext(ctx))

			fields := []logger.Field{
				logger.Status(rec.statusOrOK()),
				logger.Bytes(rec.bytes),
				logger.DurationMs(time.Since(start)),
				logger.ClientIP(clientIP(r)),
			}
			switch status := rec.statusOrOK(); {
			case status >= 500:
				reqLog.Error("request failed", fields...)
			case status >= 400:
				reqLog.Warn("request completed with client error", fields...)
			default:
				reqLog.Info("request completed", fields...)
			}
		})
	}
}
