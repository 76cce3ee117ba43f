// Package subscriptions contiene el controller de alta y confirmación.
package subscriptions

import (
	"context"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/dropDatabas3/hellolist/internal/domain/types"
	httperrors "github.com/dropDatabas3/hellolist/internal/http/errors"
	"github.com/dropDatabas3/hellolist/internal/observability/logger"
	svc "github.com/dropDatabas3/hellolist/internal/subscriptions"
)

const maxFormBytes = 64 << 10

type Registrar interface {
	Register(ctx context.Context, in types.NewSubscriber) error
}

type Confirmer interface {
	Confirm(ctx context.Context, token string) error
}

// Controller maneja /subscriptions y /subscriptions/confirm.
type Controller struct {
	registrar Registrar
	confirmer Confirmer
}

func NewController(r Registrar, c Confirmer) *Controller {
	return &Controller{registrar: r, confirmer: c}
}

func (c *Controller) Register(r chi.Router) {
	r.Post("/subscriptions", c.Subscribe)
	r.Get(svc.ConfirmPath, c.Confirm)
}

// Subscribe maneja POST /subscriptions (form: email, name).
func (c *Controller) Subscribe(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	log := logger.From(ctx).With(logger.Layer("controller"), logger.Op("SubscriptionsController.Subscribe"))

	r.Body = http.MaxBytesReader(w, r.Body, maxFormBytes)
	if err := r.ParseForm(); err != nil {
		httperrors.WriteError(w, r, httperrors.ErrBadRequest.WithCause(err))
		return
	}

	in, err := types.ParseNewSubscriber(r.PostForm.Get("email"), r.PostForm.Get("name"))
	if err != nil {
		log.Debug("invalid subscriber", logger.Err(err))
		httperrors.WriteError(w, r, err)
		return
	}

	if err := c.registrar.Register(ctx, in); err != nil {
		httperrors.WriteError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusOK)
}

// Confirm maneja GET /subscriptions/confirm?subscription_token=.
func (c *Controller) Confirm(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	if !q.Has(svc.TokenParam) {
		httperrors.WriteError(w, r, httperrors.ErrMissingToken)
		return
	}
	if err := c.confirmer.Confirm(r.Context(), q.Get(svc.TokenParam)); err != nil {
		httperrors.WriteError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusOK)
}
