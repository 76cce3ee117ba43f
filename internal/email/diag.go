package email

import (
	"context"
	"errors"
	"net"
	"strings"
)

// Diag clasifica un error de entrega para logs y métricas.
type Diag struct {
	Code      string // auth|tls|dial|timeout|rate_limited|invalid_recipient|rejected|network|canceled|unknown
	Temporary bool   // si conviene reintentar
}

// Diagnose inspecciona la cadena de errores y el texto del servidor. Cubre
// respuestas SMTP y StatusError del driver api.
func Diagnose(err error) Diag {
	if err == nil {
		return Diag{Code: "unknown"}
	}
	if errors.Is(err, context.Canceled) {
		return Diag{Code: "canceled"}
	}

	var se *StatusError
	if errors.As(err, &se) {
		switch {
		case se.StatusCode == 401 || se.StatusCode == 403:
			return Diag{Code: "auth"}
		case se.StatusCode == 429:
			return Diag{Code: "rate_limited", Temporary: true}
		case se.StatusCode >= 500:
			return Diag{Code: "rejected", Temporary: true}
		default:
			return Diag{Code: "rejected"}
		}
	}

	var ne net.Error
	isNet := errors.As(err, &ne)
	if isNet && ne.Timeout() || errors.Is(err, context.DeadlineExceeded) {
		return Diag{Code: "timeout", Temporary: true}
	}

	s := strings.ToLower(err.Error())
	switch {
	case strings.Contains(s, "timeout"):
		return Diag{Code: "timeout", Temporary: true}

	case strings.Contains(s, "connection refused"),
		strings.Contains(s, "no such host"),
		strings.Contains(s, "dial tcp"):
		return Diag{Code: "dial", Temporary: true}

	case strings.Contains(s, "x509:"),
		strings.Contains(s, "tls") && (strings.Contains(s, "handshake") || strings.Contains(s, "certificate")):
		return Diag{Code: "tls"}

	case strings.Contains(s, "5.7.8"), strings.Contains(s, "535 "),
		strings.Contains(s, "username and password not accepted"),
		strings.Contains(s, "authentication failed"):
		return Diag{Code: "auth"}

	// 4.x.x: throttling temporal
	case strings.Contains(s, "4.7.0"),
		strings.Contains(s, "rate limit"),
		strings.Contains(s, "try again later"),
		strings.Contains(s, "421 "), strings.Contains(s, "451 "):
		return Diag{Code: "rate_limited", Temporary: true}

	case strings.Contains(s, "5.1.1"),
		strings.Contains(s, "user unknown"),
		strings.Contains(s, "mailbox not found"):
		return Diag{Code: "invalid_recipient"}

	// políticas/DMARC/SPF
	case strings.Contains(s, "5.7.1"),
		strings.Contains(s, "message rejected"),
		strings.Contains(s, "dmarc"), strings.Contains(s, "spf"):
		return Diag{Code: "rejected"}
	}

	if isNet {
		return Diag{Code: "network", Temporary: true}
	}
	return Diag{Code: "unknown"}
}
