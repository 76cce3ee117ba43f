package repository

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// SubscriberStatus is the two-state activation lifecycle.
type SubscriberStatus string

const (
	StatusPendingConfirmation SubscriberStatus = "pending_confirmation"
	StatusConfirmed           SubscriberStatus = "confirmed"
)

// Subscriber representa una fila de subscriptions.
type Subscriber struct {
	ID           uuid.UUID
	Email        string
	Name         string
	SubscribedAt time.Time
	Status       SubscriberStatus
}

// ConfirmedSubscriber is the projection read by the newsletter fan-out. Email
// is returned raw: rows written under older validation rules may no longer
// parse, and the caller decides what to do with them.
type ConfirmedSubscriber struct {
	ID    uuid.UUID
	Email string
}

// SubscriberRepository define operaciones sobre subscriptions y subscription_tokens.
type SubscriberRepository interface {
	// Insert crea el suscriptor. No hay unicidad por email.
	Insert(ctx context.Context, s Subscriber) error

	// InsertToken vincula un token a un suscriptor existente.
	// Retorna ErrConflict si el token ya existe.
	InsertToken(ctx context.Context, subscriberID uuid.UUID, token string) error

	// SubscriberIDByToken retorna ErrNotFound si el token nunca fue emitido.
	SubscriberIDByToken(ctx context.Context, token string) (uuid.UUID, error)

	// Confirm pasa el suscriptor a confirmed. Idempotente; ErrNotFound si el id no existe.
	Confirm(ctx context.Context, id uuid.UUID) error

	// ListConfirmed retorna los suscriptores confirmados.
	ListConfirmed(ctx context.Context) ([]ConfirmedSubscriber, error)

	// Get retorna ErrNotFound si no existe.
	Get(ctx context.Context, id uuid.UUID) (*Subscriber, error)
}

// TokenLister is for inspecting stored data (tests, debugging). No request
// path depends on it; the memory and SQL repositories implement it.
type TokenLister interface {
	// TokensFor lists every token issued to a subscriber, in no particular order.
	TokensFor(ctx context.Context, subscriberID uuid.UUID) ([]string, error)
}

// Tx is the unit of work handed to Transactor.WithTx. Everything done through
// it commits or rolls back together.
type Tx interface {
	Subscribers() SubscriberRepository
}

// Transactor runs fn inside one transaction. A non-nil error from fn (or a
// panic) rolls back.
type Transactor interface {
	WithTx(ctx context.Context, fn func(tx Tx) error) error
}
