// Package cache provee un cliente key/value con TTL y dos backends:
//
//   - memory: in-process (github.com/patrickmn/go-cache), default
//   - redis: compartido entre réplicas (github.com/redis/go-redis/v9)
//
// Lo usa store.CachedSubscribers para resolver token → subscriber id sin
// pegarle a la base en cada confirmación.
package cache

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"
)

// Client define las operaciones de cache.
type Client interface {
	// Get retorna ErrNotFound si la key no existe o expiró.
	Get(ctx context.Context, key string) (string, error)

	// Set guarda un valor. ttl 0 usa el default del backend.
	Set(ctx context.Context, key, value string, ttl time.Duration) error

	Delete(ctx context.Context, key string) error
	Ping(ctx context.Context) error
	Close() error
}

// Config configuración para crear un cliente de cache.
type Config struct {
	Driver     string // "memory" | "redis"
	Addr       string // host:port, solo redis
	Password   string
	DB         int
	Prefix     string
	DefaultTTL time.Duration
}

var ErrNotFound = errors.New("cache: key not found")

// IsNotFound verifica si el error es porque la key no existe.
func IsNotFound(err error) bool {
	return errors.Is(err, ErrNotFound)
}

// New crea un cliente de cache según la configuración.
func New(ctx context.Context, cfg Config) (Client, error) {
	switch cfg.Driver {
	case "memory", "":
		return NewMemory(cfg.Prefix, cfg.DefaultTTL), nil
	case "redis":
		return NewRedis(ctx, cfg)
	default:
		return nil, fmt.Errorf("cache: unknown driver %q", cfg.Driver)
	}
}

// prefixed une prefix y key con un solo ":" aunque el prefix ya lo traiga.
func prefixed(prefix, k string) string {
	prefix = strings.TrimSuffix(prefix, ":")
	if prefix == "" {
		return k
	}
	return prefix + ":" + k
}
