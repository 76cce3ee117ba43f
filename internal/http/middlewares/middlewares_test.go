package middlewares

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"

	"github.com/dropDatabas3/hellolist/internal/observability/logger"
)

func TestChain_Order(t *testing.T) {
	var order []string
	mark := func(name string) Middleware {
		return func(next http.Handler) http.Handler {
			return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				order = append(order, name)
				next.ServeHTTP(w, r)
			})
		}
	}
	h := Chain(http.HandlerFunc(func(http.ResponseWriter, *http.Request) { order = append(order, "h") }),
		mark("A"), mark("B"), mark("C"))
	h.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/", nil))
	assert.Equal(t, []string{"A", "B", "C", "h"}, order)
}

func TestWithRequestID(t *testing.T) {
	var seen string
	h := WithRequestID()(http.HandlerFunc(func(_ http.ResponseWriter, r *http.Request) {
		seen = GetRequestID(r.Context())
	}))

	rr := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("X-Request-ID", "abc")
	h.ServeHTTP(rr, req)
	assert.Equal(t, "abc", seen)
	assert.Equal(t, "abc", rr.Header().Get("X-Request-ID"))

	rr = httptest.NewRecorder()
	req = httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("X-Request-ID", strings.Repeat("x", 500))
	h.ServeHTTP(rr, req)
	assert.Len(t, seen, 36)
	assert.Equal(t, seen, rr.Header().Get("X-Request-ID"))
}

func TestWithRecover(t *testing.T) {
	h := WithRecover()(http.HandlerFunc(func(http.ResponseWriter, *http.Request) { panic("boom") }))
	rr := httptest.NewRecorder()
	require.NotPanics(t, func() { h.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/", nil)) })
	assert.Equal(t, http.StatusInternalServerError, rr.Code)
	assert.Contains(t, rr.Body.String(), "INTERNAL_ERROR")
}

func TestWithNoStore(t *testing.T) {
	rr := httptest.NewRecorder()
	WithNoStore()(http.NotFoundHandler()).ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/", nil))
	assert.Equal(t, "no-store", rr.Header().Get("Cache-Control"))
}

func TestWithLogging(t *testing.T) {
	core, logs := observer.New(zapcore.DebugLevel)
	defer logger.Replace(zap.New(core))()

	h := Chain(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		logger.From(r.Context()).Info("inside")
		w.WriteHeader(http.StatusTeapot)
	}), WithRequestID(), WithLogging())

	req := httptest.NewRequest(http.MethodPost, "/subscriptions", nil)
	req.Header.Set("X-Request-ID", "rid-1")
	h.ServeHTTP(httptest.NewRecorder(), req)

	entries := logs.All()
	require.Len(t, entries, 2)
	assert.Equal(t, "inside", entries[0].Message)
	assert.Equal(t, "rid-1", entries[0].ContextMap()["request_id"])

	done := entries[1]
	assert.Equal(t, zapcore.WarnLevel, done.Level)
	assert.Equal(t, int64(http.StatusTeapot), done.ContextMap()["status"])
	assert.Equal(t, "/subscriptions", done.ContextMap()["path"])
}
