// Package app arma el servicio completo a partir de la config: storage,
// cache, email, pool de hashing, servicios y router.
package app

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"net/http"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/dropDatabas3/hellolist/internal/auth"
	"github.com/dropDatabas3/hellolist/internal/cache"
	"github.com/dropDatabas3/hellolist/internal/config"
	"github.com/dropDatabas3/hellolist/internal/email"
	"github.com/dropDatabas3/hellolist/internal/http/controllers/health"
	"github.com/dropDatabas3/hellolist/internal/http/controllers/newsletters"
	subsctrl "github.com/dropDatabas3/hellolist/internal/http/controllers/subscriptions"
	"github.com/dropDatabas3/hellolist/internal/http/router"
	"github.com/dropDatabas3/hellolist/internal/metrics"
	"github.com/dropDatabas3/hellolist/internal/newsletter"
	"github.com/dropDatabas3/hellolist/internal/observability/logger"
	"github.com/dropDatabas3/hellolist/internal/store"
	"github.com/dropDatabas3/hellolist/internal/subscriptions"
	"github.com/dropDatabas3/hellolist/internal/workerpool"

	_ "github.com/dropDatabas3/hellolist/internal/store/adapters/all"
)

// Deps permite inyectar piezas ya construidas (tests, CLI). Los campos nil
// se construyen desde la config.
type Deps struct {
	Conn     store.Connection
	Cache    cache.Client
	Sender   email.Sender
	Registry *prometheus.Registry
	Version  string
}

// App es el servicio cableado.
type App struct {
	handler http.Handler

	conn  store.Connection
	cache cache.Client
	owned []func() error
}

// sqlDBer lo implementan las conexiones SQL (sqlstore.Conn).
type sqlDBer interface {
	DB() *sql.DB
}

// New conecta todo. Si algo falla, cierra lo que ya abrió.
func New(ctx context.Context, cfg *config.Config, deps Deps) (a *App, err error) {
	log := logger.From(ctx).With(logger.Layer("app"))
	a = &App{}
	defer func() {
		if err != nil {
			_ = a.Close()
			a = nil
		}
	}()

	// ─── Storage ───
	a.conn = deps.Conn
	if a.conn == nil {
		a.conn, err = store.Open(ctx, store.AdapterConfig{
			Name:            cfg.Storage.Driver,
			DSN:             cfg.Storage.DSN,
			MaxOpenConns:    cfg.Storage.MaxOpenConns,
			MaxIdleConns:    cfg.Storage.MaxIdleConns,
			ConnMaxLifetime: cfg.Storage.ConnMaxLifetime,
		})
		if err != nil {
			return a, fmt.Errorf("app: open storage: %w", err)
		}
		a.owned = append(a.owned, a.conn.Close)
	}
	log.Info("storage ready", logger.Driver(a.conn.Name()))

	if cfg.Storage.AutoMigrate {
		if m, ok := a.conn.(store.Migrator); ok {
			n, err := m.MigrateUp(ctx)
			if err != nil {
				return a, fmt.Errorf("app: migrate: %w", err)
			}
			log.Info("migrations applied", logger.Count(n))
		}
	}

	// ─── Cache ───
	subs := a.conn.Subscribers()
	a.cache = deps.Cache
	if a.cache == nil && cfg.Cache.Kind != "none" {
		a.cache, err = cache.New(ctx, cache.Config{
			Driver:     cfg.Cache.Kind,
			Addr:       cfg.Cache.Redis.Addr,
			Password:   cfg.Cache.Redis.Password,
			DB:         cfg.Cache.Redis.DB,
			Prefix:     cfg.Cache.Redis.Prefix,
			DefaultTTL: cfg.Cache.TokenTTL,
		})
		if err != nil {
			return a, fmt.Errorf("app: cache: %w", err)
		}
		a.owned = append(a.owned, a.cache.Close)
	}
	if a.cache != nil {
		subs = store.NewCachedSubscribers(subs, a.cache, cfg.Cache.TokenTTL)
	}

	// ─── Email ───
	sender := deps.Sender
	if sender == nil {
		sender, err = email.New(ctx, emailConfig(cfg))
		if err != nil {
			return a, fmt.Errorf("app: email: %w", err)
		}
	}
	log.Info("email sender ready", logger.Driver(cfg.Email.Driver))

	// ─── Servicios ───
	pool := workerpool.New(cfg.Hash.Workers)
	validator := auth.NewValidator(a.conn.Credentials(), pool)
	registrar := subscriptions.NewRegistrar(subscriptions.RegistrarDeps{
		Tx:      a.conn,
		Sender:  sender,
		BaseURL: cfg.App.BaseURL,
	})
	confirmer := subscriptions.NewConfirmer(subs)
	dispatcher := newsletter.NewDispatcher(newsletter.Deps{
		Auth:        validator,
		Subscribers: subs,
		Sender:      sender,
		Concurrency: cfg.Newsletter.Concurrency,
	})

	// ─── HTTP ───
	rd := router.Deps{
		Health:        health.NewController(a.conn, deps.Version),
		Subscriptions: subsctrl.NewController(registrar, confirmer),
		Newsletters:   newsletters.NewController(dispatcher),
	}
	if cfg.Metrics.Enabled {
		src := metrics.Sources{HashInFlight: pool.InFlight, HashWorkers: pool.Size()}
		if d, ok := a.conn.(sqlDBer); ok {
			src.DBStats = d.DB().Stats
		}
		var reg prometheus.Registerer
		if deps.Registry != nil {
			reg = deps.Registry
		}
		rd.Metrics, err = metrics.Register(reg, src)
		if err != nil {
			return a, fmt.Errorf("app: metrics: %w", err)
		}
	}
	a.handler = router.New(rd)
	return a, nil
}

func (a *App) Handler() http.Handler { return a.handler }

// Close libera lo que New abrió. Lo inyectado vía Deps queda a cargo del caller.
func (a *App) Close() error {
	var errs []error
	for i := len(a.owned) - 1; i >= 0; i-- {
		if err := a.owned[i](); err != nil {
			errs = append(errs, err)
		}
	}
	a.owned = nil
	return errors.Join(errs...)
}

func emailConfig(cfg *config.Config) email.Config {
	c := cfg.Email
	return email.Config{
		Driver:    c.Driver,
		FromEmail: c.FromEmail,
		FromName:  c.FromName,
		SMTP: email.SMTPConfig{
			Host:               c.SMTP.Host,
			Port:               c.SMTP.Port,
			Username:           c.SMTP.Username,
			Password:           c.SMTP.Password,
			TLSMode:            c.SMTP.TLSMode,
			InsecureSkipVerify: c.SMTP.InsecureSkipVerify,
			Timeout:            c.SMTP.Timeout,
		},
		SES: email.SESConfig{
			Region:    c.SES.Region,
			AccessKey: c.SES.AccessKey,
			SecretKey: c.SES.SecretKey,
			Endpoint:  c.SES.Endpoint,
		},
		API: email.APIConfig{
			BaseURL:            c.API.BaseURL,
			AuthorizationToken: c.API.AuthorizationToken,
			Timeout:            c.API.Timeout,
		},
	}
}
