// Package types define los value types validados del dominio.
package types

import (
	"fmt"
	"net/mail"
	"strings"

	"github.com/rivo/uniseg"

	"github.com/dropDatabas3/hellolist/internal/apperr"
)

// MaxNameGraphemes is the longest accepted subscriber name, counted in
// user-perceived characters.
const MaxNameGraphemes = 256

const forbiddenNameChars = "/()[]{}\"<>\\|`$;:.,"

// SubscriberEmail is an address that passed ParseEmail.
type SubscriberEmail struct{ v string }

func (e SubscriberEmail) String() string { return e.v }

// SubscriberName is a display name that passed ParseName.
type SubscriberName struct{ v string }

func (n SubscriberName) String() string { return n.v }

// NewSubscriber is validated registration input.
type NewSubscriber struct {
	Email SubscriberEmail
	Name  SubscriberName
}

// ParseEmail accepts a bare RFC 5322 addr-spec ("local@domain"). Display
// names and angle brackets are rejected.
func ParseEmail(raw string) (SubscriberEmail, error) {
	const op = "types.ParseEmail"
	invalid := apperr.Invalid(op, fmt.Sprintf("'%s' is not a valid subscriber email", raw))

	if raw == "" || strings.TrimSpace(raw) != raw {
		return SubscriberEmail{}, invalid
	}
	addr, err := mail.ParseAddress(raw)
	if err != nil || addr.Name != "" || addr.Address != raw {
		return SubscriberEmail{}, invalid
	}
	local, domain, ok := strings.Cut(raw, "@")
	if !ok || local == "" || domain == "" || strings.Contains(domain, "@") {
		return SubscriberEmail{}, invalid
	}
	return SubscriberEmail{v: raw}, nil
}

// ParseName keeps the value as submitted; only the emptiness check trims.
func ParseName(raw string) (SubscriberName, error) {
	const op = "types.ParseName"
	if strings.TrimSpace(raw) == "" {
		return SubscriberName{}, apperr.Invalid(op, "subscriber name cannot be empty")
	}
	if uniseg.GraphemeClusterCount(raw) > MaxNameGraphemes {
		return SubscriberName{}, apperr.Invalid(op, "subscriber name cannot be longer than 256 characters")
	}
	if strings.ContainsAny(raw, forbiddenNameChars) {
		return SubscriberName{}, apperr.Invalid(op, "subscriber name cannot contain forbidden characters")
	}
	return SubscriberName{v: raw}, nil
}

// ParseNewSubscriber valida email y nombre; el primer error gana (nombre primero).
func ParseNewSubscriber(email, name string) (NewSubscriber, error) {
	n, err := ParseName(name)
	if err != nil {
		return NewSubscriber{}, err
	}
	e, err := ParseEmail(email)
	if err != nil {
		return NewSubscriber{}, err
	}
	return NewSubscriber{Email: e, Name: n}, nil
}
