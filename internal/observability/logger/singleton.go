package logger

import (
	"sync"
	"sync/atomic"

	"go.uber.org/zap"
)

var (
	once     sync.Once
	instance atomic.Pointer[zap.Logger]
)

// Init construye el logger global. Solo la primera llamada tiene efecto.
func Init(cfg Config) {
	once.Do(func() {
		instance.Store(build(cfg))
	})
}

// L retorna el logger global; si Init no fue llamado usa dev/info.
func L() *zap.Logger {
	if l := instance.Load(); l != nil {
		return l
	}
	Init(Config{Env: "dev", Level: "info"})
	return instance.Load()
}

// Replace swaps the global logger and returns a func restoring the previous
// one. Tests use it with zaptest/observer.
func Replace(l *zap.Logger) func() {
	Init(Config{Env: "dev", Level: "info"})
	prev := instance.Swap(l)
	return func() { instance.Store(prev) }
}

// Named retorna un logger con nombre de componente.
func Named(name string) *zap.Logger {
	return L().Named(name)
}

// Sync flushea buffers pendientes.
func Sync() error {
	if l := instance.Load(); l != nil {
		return l.Sync()
	}
	return nil
}
