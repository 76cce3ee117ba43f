// Package apperr defines the error categories shared by the subscription and
// newsletter services. Each category wraps its cause so the full chain stays
// available for logs while callers only see the Kind.
package apperr

import (
	"errors"
	"strings"
)

// Kind is the coarse category exposed across layers.
type Kind uint8

const (
	KindUnknown Kind = iota
	Validation
	Auth
	UnknownToken
	Storage
	Delivery
)

func (k Kind) String() string {
	switch k {
	case Validation:
		return "validation"
	case Auth:
		return "auth"
	case UnknownToken:
		return "unknown_token"
	case Storage:
		return "storage"
	case Delivery:
		return "delivery"
	default:
		return "unknown"
	}
}

// Error es el error tipado que cruza capas.
type Error struct {
	Kind Kind
	Op   string // operación que falló, ej: "subscriptions.Register"
	Err  error
}

func (e *Error) Error() string {
	var b strings.Builder
	if e.Op != "" {
		b.WriteString(e.Op)
		b.WriteString(": ")
	}
	if e.Err != nil {
		b.WriteString(e.Err.Error())
	} else {
		b.WriteString(e.Kind.String())
	}
	return b.String()
}

func (e *Error) Unwrap() error { return e.Err }

// E wraps err under kind. A nil err still yields a non-nil *Error.
func E(kind Kind, op string, err error) error {
	return &Error{Kind: kind, Op: op, Err: err}
}

// Invalid builds a Validation error whose message is safe to show callers.
func Invalid(op, msg string) error {
	return &Error{Kind: Validation, Op: op, Err: errors.New(msg)}
}

// KindOf returns the Kind of the outermost *Error in err's chain.
func KindOf(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return KindUnknown
}

// Is reports whether err carries kind.
func Is(err error, kind Kind) bool {
	return err != nil && KindOf(err) == kind
}

// PublicMessage returns the message of a Validation error, which is the only
// kind whose text reaches callers.
func PublicMessage(err error) string {
	var e *Error
	if errors.As(err, &e) && e.Kind == Validation && e.Err != nil {
		return e.Err.Error()
	}
	return ""
}

// Chain renders err and each wrapped cause, outermost first:
// "register subscriber: caused by insert token: caused by duplicate key".
func Chain(err error) string {
	if err == nil {
		return ""
	}
	var parts []string
	for e := err; e != nil; e = errors.Unwrap(e) {
		msg := e.Error()
		// %w y *Error repiten el texto interno; nos quedamos con el prefijo nuevo.
		if next := errors.Unwrap(e); next != nil {
			msg = strings.TrimSuffix(strings.TrimSuffix(msg, next.Error()), ": ")
		}
		if msg != "" {
			parts = append(parts, msg)
		}
	}
	return strings.Join(parts, ": caused by ")
}
