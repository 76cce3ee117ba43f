package logger

import (
	"time"

	"go.uber.org/zap"

	"github.com/dropDatabas3/hellolist/internal/apperr"
	"github.com/dropDatabas3/hellolist/internal/util"
)

// Field es un alias para que los paquetes no importen zap solo por el tipo.
type Field = zap.Field

// ---- HTTP ----

func RequestID(v string) zap.Field { return zap.String("request_id", v) }
func Method(v string) zap.Field    { return zap.String("method", v) }
func Path(v string) zap.Field      { return zap.String("path", v) }
func Status(v int) zap.Field       { return zap.Int("status", v) }
func Bytes(v int) zap.Field        { return zap.Int("bytes", v) }
func ClientIP(v string) zap.Field  { return zap.String("client_ip", v) }
func UserAgent(v string) zap.Field { return zap.String("user_agent", v) }

// DurationMs registra la duración en milisegundos.
func DurationMs(d time.Duration) zap.Field {
	return zap.Int64("duration_ms", d.Milliseconds())
}

// ---- Dominio ----

func SubscriberID(v string) zap.Field { return zap.String("subscriber_id", v) }
func Username(v string) zap.Field     { return zap.String("username", v) }

// Recipient logs a delivery target, masked with util.MaskEmail.
func Recipient(v string) zap.Field { return zap.String("recipient", util.MaskEmail(v)) }

// ---- Sistema ----

func Component(v string) zap.Field { return zap.String("component", v) }
func Op(v string) zap.Field        { return zap.String("op", v) }
func Layer(v string) zap.Field     { return zap.String("layer", v) }
func Driver(v string) zap.Field    { return zap.String("driver", v) }
func Err(err error) zap.Field      { return zap.Error(err) }
func Count(v int) zap.Field        { return zap.Int("count", v) }

func String(key, v string) zap.Field    { return zap.String(key, v) }
func Int(key string, v int) zap.Field   { return zap.Int(key, v) }
func Bool(key string, v bool) zap.Field { return zap.Bool(key, v) }

// CauseChain renders err and every wrapped cause as one field.
func CauseChain(err error) zap.Field {
	return zap.String("cause_chain", apperr.Chain(err))
}
