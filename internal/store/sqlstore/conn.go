package sqlstore

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/pressly/goose/v3"

	"github.com/dropDatabas3/hellolist/internal/domain/repository"
	"github.com/dropDatabas3/hellolist/internal/store"
)

// Conn is a store.Connection over a *sql.DB.
type Conn struct {
	db      *sql.DB
	dialect Dialect
	onClose func()

	subs  *SubscriberRepo
	creds *CredentialRepo
}

// NewConn envuelve db. onClose (opcional) corre después de db.Close, p.ej.
// para cerrar el pgxpool subyacente.
func NewConn(db *sql.DB, d Dialect, onClose func()) *Conn {
	return &Conn{
		db:      db,
		dialect: d,
		onClose: onClose,
		subs:    NewSubscriberRepo(db, d),
		creds:   NewCredentialRepo(db, d),
	}
}

var (
	_ store.Connection = (*Conn)(nil)
	_ store.Migrator   = (*Conn)(nil)
)

func (c *Conn) Name() string { return c.dialect.Name }

// DB expone el *sql.DB para métricas del pool.
func (c *Conn) DB() *sql.DB { return c.db }

func (c *Conn) Ping(ctx context.Context) error { return c.db.PingContext(ctx) }

func (c *Conn) Close() error {
	err := c.db.Close()
	if c.onClose != nil {
		c.onClose()
	}
	return err
}

func (c *Conn) Subscribers() repository.SubscriberRepository { return c.subs }
func (c *Conn) Credentials() repository.CredentialRepository { return c.creds }

type txScope struct{ subs *SubscriberRepo }

func (t txScope) Subscribers() repository.SubscriberRepository { return t.subs }

// WithTx runs fn inside a transaction using the dialect's TxOptions.
func (c *Conn) WithTx(ctx context.Context, fn func(tx repository.Tx) error) error {
	return WithTx(ctx, c.db, c.dialect.TxOptions, func(ctx context.Context, tx DBTX) error {
		return fn(txScope{subs: NewSubscriberRepo(tx, c.dialect)})
	})
}

func (c *Conn) provider() (*goose.Provider, error) {
	if c.dialect.Migrations == nil {
		return nil, errors.New("sqlstore: dialect has no migrations")
	}
	p, err := goose.NewProvider(c.dialect.Goose, c.db, c.dialect.Migrations)
	if err != nil {
		return nil, fmt.Errorf("goose provider: %w", err)
	}
	return p, nil
}

// MigrateUp aplica las migraciones pendientes y retorna cuántas corrió.
func (c *Conn) MigrateUp(ctx context.Context) (int, error) {
	p, err := c.provider()
	if err != nil {
		return 0, err
	}
	res, err := p.Up(ctx)
	if err != nil {
		return len(res), fmt.Errorf("migrate up: %w", err)
	}
	return len(res), nil
}

// MigrateDown revierte la última migración aplicada.
func (c *Conn) MigrateDown(ctx context.Context) error {
	p, err := c.provider()
	if err != nil {
		return err
	}
	if _, err := p.Down(ctx); err != nil {
		return fmt.Errorf("migrate down: %w", err)
	}
	return nil
}

func (c *Conn) MigrationStatus(ctx context.Context) ([]store.MigrationStatus, error) {
	p, err := c.provider()
	if err != nil {
		return nil, err
	}
	st, err := p.Status(ctx)
	if err != nil {
		return nil, fmt.Errorf("migration status: %w", err)
	}
	out := make([]store.MigrationStatus, 0, len(st))
	for _, s := range st {
		out = append(out, store.MigrationStatus{
			Version:   s.Source.Version,
			Source:    s.Source.Path,
			Applied:   s.State == goose.StateApplied,
			AppliedAt: s.AppliedAt,
		})
	}
	return out, nil
}
