// Package router arma el árbol de rutas chi del servicio.
package router

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/dropDatabas3/hellolist/internal/http/controllers/health"
	"github.com/dropDatabas3/hellolist/internal/http/controllers/newsletters"
	"github.com/dropDatabas3/hellolist/internal/http/controllers/subscriptions"
	httperrors "github.com/dropDatabas3/hellolist/internal/http/errors"
	mw "github.com/dropDatabas3/hellolist/internal/http/middlewares"
)

// Deps contiene los controllers a montar. Metrics es opcional.
type Deps struct {
	Health        *health.Controller
	Subscriptions *subscriptions.Controller
	Newsletters   *newsletters.Controller
	Metrics       http.Handler
}

// New devuelve el handler raíz.
//
// Orden: request id -> logging -> recover -> metrics -> rutas.
func New(deps Deps) http.Handler {
	r := chi.NewRouter()
	r.Use(mw.WithRequestID(), mw.WithLogging(), mw.WithRecover(), mw.WithMetrics())

	r.NotFound(func(w http.ResponseWriter, req *http.Request) {
		httperrors.WriteError(w, req, httperrors.ErrNotFound)
	})
	r.MethodNotAllowed(func(w http.ResponseWriter, req *http.Request) {
		httperrors.WriteError(w, req, httperrors.ErrMethodNotAllowed)
	})

	if deps.Health != nil {
		deps.Health.Register(r)
	}
	if deps.Metrics != nil {
		r.Method(http.MethodGet, "/metrics", deps.Metrics)
	}

	r.Group(func(r chi.Router) {
		r.Use(mw.WithNoStore())
		if deps.Subscriptions != nil {
			deps.Subscriptions.Register(r)
		}
		if deps.Newsletters != nil {
			deps.Newsletters.Register(r)
		}
	})
	return r
}
