package subscriptions

import (
	"context"
	"errors"
	"fmt"

	"github.com/dropDatabas3/hellolist/internal/apperr"
	"github.com/dropDatabas3/hellolist/internal/domain/repository"
	"github.com/dropDatabas3/hellolist/internal/metrics"
	"github.com/dropDatabas3/hellolist/internal/observability/logger"
)

// ErrUnknownToken: el token nunca fue emitido.
var ErrUnknownToken = errors.New("unknown subscription token")

// Confirmer pasa suscriptores a confirmed.
type Confirmer struct {
	subs repository.SubscriberRepository
}

// NewConfirmer recibe el repositorio a usar para lookup y update; puede ser
// un store.CachedSubscribers.
func NewConfirmer(subs repository.SubscriberRepository) *Confirmer {
	return &Confirmer{subs: subs}
}

// Confirm resuelve token y confirma al suscriptor. Confirmar dos veces no es
// error. Un token desconocido devuelve UnknownToken.
func (c *Confirmer) Confirm(ctx context.Context, token string) error {
	const op = "subscriptions.Confirm"
	log := logger.From(ctx).With(logger.Layer("service"), logger.Component("subscriptions.confirmer"))

	id, err := c.subs.SubscriberIDByToken(ctx, token)
	switch {
	case repository.IsNotFound(err):
		metrics.RecordConfirmation("unknown_token")
		return apperr.E(apperr.UnknownToken, op, ErrUnknownToken)
	case err != nil:
		metrics.RecordConfirmation("storage_error")
		return apperr.E(apperr.Storage, op, fmt.Errorf("get subscriber id from token: %w", err))
	}

	if err := c.subs.Confirm(ctx, id); err != nil {
		metrics.RecordConfirmation("storage_error")
		return apperr.E(apperr.Storage, op, fmt.Errorf("mark subscriber as confirmed: %w", err))
	}

	metrics.RecordConfirmation("ok")
	log.Info("subscriber confirmed", logger.SubscriberID(id.String()))
	return nil
}
