// Package memory implementa un adapter en memoria. Lo usan los tests y
// `storage.driver: memory` en desarrollo; los datos se pierden al cerrar.
package memory

import (
	"context"
	"maps"
	"sync"

	"github.com/google/uuid"

	"github.com/dropDatabas3/hellolist/internal/domain/repository"
	"github.com/dropDatabas3/hellolist/internal/store"
)

func init() {
	store.RegisterAdapter(memoryAdapter{})
}

type memoryAdapter struct{}

func (memoryAdapter) Name() string { return "memory" }

func (memoryAdapter) Connect(context.Context, store.AdapterConfig) (store.Connection, error) {
	return New(), nil
}

type state struct {
	subs   map[uuid.UUID]repository.Subscriber
	order  []uuid.UUID
	tokens map[string]uuid.UUID
	users  map[string]repository.Credential
}

func (s *state) clone() *state {
	return &state{
		subs:   maps.Clone(s.subs),
		order:  append([]uuid.UUID(nil), s.order...),
		tokens: maps.Clone(s.tokens),
		users:  maps.Clone(s.users),
	}
}

// Conn is the in-memory store.Connection. WithTx holds the write lock for
// the whole callback, so fn must not call back into Conn's own repositories.
type Conn struct {
	mu sync.RWMutex
	st *state
}

func New() *Conn {
	return &Conn{st: &state{
		subs:   make(map[uuid.UUID]repository.Subscriber),
		tokens: make(map[string]uuid.UUID),
		users:  make(map[string]repository.Credential),
	}}
}

var _ store.Connection = (*Conn)(nil)

func (c *Conn) Name() string               { return "memory" }
func (c *Conn) Ping(context.Context) error { return nil }
func (c *Conn) Close() error               { return nil }

func (c *Conn) Subscribers() repository.SubscriberRepository {
	return &subscriberRepo{locker: &c.mu, st: func() *state { return c.st }}
}

func (c *Conn) Credentials() repository.CredentialRepository {
	return &credentialRepo{c: c}
}

type txScope struct{ subs *subscriberRepo }

func (t txScope) Subscribers() repository.SubscriberRepository { return t.subs }

// WithTx runs fn against a private copy of the state and publishes it only
// if fn succeeds. Readers never see a partial write.
func (c *Conn) WithTx(ctx context.Context, fn func(tx repository.Tx) error) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	c.mu.Lock()
	defer c.mu.Unlock()

	draft := c.st.clone()
	if err := fn(txScope{subs: &subscriberRepo{locker: noopLocker{}, st: func() *state { return draft }}}); err != nil {
		return err
	}
	c.st = draft
	return nil
}

type rwLocker interface {
	Lock()
	Unlock()
	RLock()
	RUnlock()
}

type noopLocker struct{}

func (noopLocker) Lock()    {}
func (noopLocker) Unlock()  {}
func (noopLocker) RLock()   {}
func (noopLocker) RUnlock() {}
