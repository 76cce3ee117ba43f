package subscriptions

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/dropDatabas3/hellolist/internal/apperr"
	"github.com/dropDatabas3/hellolist/internal/domain/repository"
	"github.com/dropDatabas3/hellolist/internal/domain/types"
	"github.com/dropDatabas3/hellolist/internal/email"
	"github.com/dropDatabas3/hellolist/internal/metrics"
	"github.com/dropDatabas3/hellolist/internal/observability/logger"
	tokens "github.com/dropDatabas3/hellolist/internal/security/token"
)

// RegistrarDeps contiene las dependencias del Registrar.
type RegistrarDeps struct {
	Tx      repository.Transactor
	Tokens  tokens.Issuer
	Sender  email.Sender
	BaseURL string

	// Opcionales (tests).
	Now   func() time.Time
	NewID func() uuid.UUID
}

// Registrar da de alta suscriptores pendientes.
type Registrar struct {
	deps RegistrarDeps
}

func NewRegistrar(deps RegistrarDeps) *Registrar {
	if deps.Tokens == nil {
		deps.Tokens = tokens.Alphanumeric{}
	}
	if deps.Now == nil {
		deps.Now = time.Now
	}
	if deps.NewID == nil {
		deps.NewID = uuid.New
	}
	return &Registrar{deps: deps}
}

// Register inserta el suscriptor (pending_confirmation) y su token en una
// transacción y luego envía el email de confirmación.
//
// Errores: Validation si in no es válido, Storage si la transacción falla
// (nada queda escrito), Delivery si el envío falla (el suscriptor queda).
func (r *Registrar) Register(ctx context.Context, in types.NewSubscriber) error {
	const op = "subscriptions.Register"

	// in puede venir armado a mano; lo revalidamos.
	in, err := types.ParseNewSubscriber(in.Email.String(), in.Name.String())
	if err != nil {
		metrics.RecordSubscription("invalid")
		return err
	}

	sub := repository.Subscriber{
		ID:           r.deps.NewID(),
		Email:        in.Email.String(),
		Name:         in.Name.String(),
		SubscribedAt: r.deps.Now(),
		Status:       repository.StatusPendingConfirmation,
	}
	log := logger.From(ctx).With(
		logger.Layer("service"),
		logger.Component("subscriptions.registrar"),
		logger.SubscriberID(sub.ID.String()),
	)

	token := r.deps.Tokens.Issue()
	err = r.deps.Tx.WithTx(ctx, func(tx repository.Tx) error {
		if err := tx.Subscribers().Insert(ctx, sub); err != nil {
			return fmt.Errorf("insert new subscriber: %w", err)
		}
		if err := tx.Subscribers().InsertToken(ctx, sub.ID, token); err != nil {
			return fmt.Errorf("store subscription token: %w", err)
		}
		return nil
	})
	if err != nil {
		metrics.RecordSubscription("storage_error")
		return apperr.E(apperr.Storage, op, err)
	}
	log.Debug("subscriber stored")

	htmlBody, textBody := welcomeBodies(ConfirmationLink(r.deps.BaseURL, token))
	if err := r.deps.Sender.Send(ctx, sub.Email, welcomeSubject, htmlBody, textBody); err != nil {
		metrics.RecordSubscription("delivery_error")
		return apperr.E(apperr.Delivery, op,
			fmt.Errorf("send confirmation email: %w", &email.SendError{To: sub.Email, Err: err}))
	}

	metrics.RecordSubscription("ok")
	log.Info("subscriber registered")
	return nil
}
