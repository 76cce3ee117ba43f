// Package newsletter publica un número del newsletter a todos los
// suscriptores confirmados.
package newsletter

import (
	"context"
	"fmt"
	"sync/atomic"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"github.com/dropDatabas3/hellolist/internal/apperr"
	"github.com/dropDatabas3/hellolist/internal/auth"
	"github.com/dropDatabas3/hellolist/internal/domain/repository"
	"github.com/dropDatabas3/hellolist/internal/domain/types"
	"github.com/dropDatabas3/hellolist/internal/email"
	"github.com/dropDatabas3/hellolist/internal/metrics"
	"github.com/dropDatabas3/hellolist/internal/observability/logger"
)

// Issue es el contenido a enviar.
type Issue struct {
	Title string
	HTML  string
	Text  string
}

// Report resume un Publish. Skipped cuenta filas con email inválido.
type Report struct {
	Sent    int
	Skipped int
}

// Authenticator valida credenciales de operador (auth.Validator).
type Authenticator interface {
	Validate(ctx context.Context, c auth.Credentials) (uuid.UUID, error)
}

// Deps contiene las dependencias del Dispatcher.
type Deps struct {
	Auth        Authenticator
	Subscribers repository.SubscriberRepository
	Sender      email.Sender

	// Concurrency > 1 envía en paralelo con ese límite. 0 o 1: secuencial.
	Concurrency int
}

type Dispatcher struct {
	deps Deps
}

func NewDispatcher(deps Deps) *Dispatcher {
	return &Dispatcher{deps: deps}
}

// Publish autentica al operador y envía issue a cada suscriptor confirmado.
//
// Una fila cuyo email ya no es válido se saltea con un warning. La primera
// falla de entrega aborta el resto y devuelve Delivery; el Report refleja lo
// enviado hasta ese momento.
func (d *Dispatcher) Publish(ctx context.Context, creds auth.Credentials, issue Issue) (Report, error) {
	const op = "newsletter.Publish"
	log := logger.From(ctx).With(
		logger.Layer("service"),
		logger.Component("newsletter.dispatcher"),
		logger.Username(creds.Username),
	)

	userID, err := d.deps.Auth.Validate(ctx, creds)
	if err != nil {
		return Report{}, err
	}
	log = log.With(logger.String("user_id", userID.String()))

	subs, err := d.deps.Subscribers.ListConfirmed(ctx)
	if err != nil {
		return Report{}, apperr.E(apperr.Storage, op, fmt.Errorf("get confirmed subscribers: %w", err))
	}

	var rep Report
	targets := make([]types.SubscriberEmail, 0, len(subs))
	for _, s := range subs {
		addr, err := types.ParseEmail(s.Email)
		if err != nil {
			rep.Skipped++
			metrics.RecordDelivery("skipped")
			log.Warn("skipping a confirmed subscriber, their stored contact details are invalid",
				logger.SubscriberID(s.ID.String()),
				logger.CauseChain(err),
			)
			continue
		}
		targets = append(targets, addr)
	}

	if d.deps.Concurrency > 1 {
		rep.Sent, err = d.sendParallel(ctx, targets, issue)
	} else {
		rep.Sent, err = d.sendSequential(ctx, targets, issue)
	}
	if err != nil {
		return rep, apperr.E(apperr.Delivery, op, err)
	}

	log.Info("newsletter issue published", logger.Int("sent", rep.Sent), logger.Int("skipped", rep.Skipped))
	return rep, nil
}

func (d *Dispatcher) send(ctx context.Context, to types.SubscriberEmail, issue Issue) error {
	if err := d.deps.Sender.Send(ctx, to.String(), issue.Title, issue.HTML, issue.Text); err != nil {
		metrics.RecordDelivery("failed")
		return fmt.Errorf("send newsletter issue: %w", &email.SendError{To: to.String(), Err: err})
	}
	metrics.RecordDelivery("sent")
	return nil
}

func (d *Dispatcher) sendSequential(ctx context.Context, targets []types.SubscriberEmail, issue Issue) (int, error) {
	sent := 0
	for _, to := range targets {
		if err := d.send(ctx, to, issue); err != nil {
			return sent, err
		}
		sent++
	}
	return sent, nil
}

// sendParallel cancela los envíos en curso y deja de lanzar nuevos en cuanto
// uno falla. Solo el primer error se devuelve.
func (d *Dispatcher) sendParallel(ctx context.Context, targets []types.SubscriberEmail, issue Issue) (int, error) {
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(d.deps.Concurrency)

	var sent atomic.Int64
	for _, to := range targets {
		if gctx.Err() != nil {
			break
		}
		g.Go(func() error {
			if gctx.Err() != nil {
				return nil
			}
			if err := d.send(gctx, to, issue); err != nil {
				return err
			}
			sent.Add(1)
			return nil
		})
	}
	err := g.Wait()
	n := int(sent.Load())
	if err == nil && n < len(targets) {
		err = ctx.Err()
	}
	return n, err
}
