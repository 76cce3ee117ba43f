// Package auth autentica operadores: parseo de HTTP Basic y validación de
// credenciales con esfuerzo constante.
package auth

import (
	"encoding/base64"
	"errors"
	"strings"
	"unicode/utf8"
)

// Credentials es un par usuario/password recibido por Basic auth.
type Credentials struct {
	Username string
	Password string
}

// String omite el password.
func (c Credentials) String() string { return "Credentials{" + c.Username + ", ***}" }

var (
	ErrMissingHeader   = errors.New("the 'Authorization' header was missing")
	ErrNotBasic        = errors.New("the authorization scheme was not 'Basic'")
	ErrBadEncoding     = errors.New("failed to base64-decode 'Basic' credentials")
	ErrNotUTF8         = errors.New("the decoded credential string is not valid UTF8")
	ErrMissingPassword = errors.New("a password must be provided in 'Basic' auth")
)

// ParseBasicAuth extrae credenciales del valor del header Authorization.
// Solo el primer ':' separa usuario de password.
func ParseBasicAuth(header string) (Credentials, error) {
	if header == "" {
		return Credentials{}, ErrMissingHeader
	}
	encoded, ok := strings.CutPrefix(header, "Basic ")
	if !ok {
		return Credentials{}, ErrNotBasic
	}
	raw, err := base64.StdEncoding.DecodeString(encoded)
	if err != nil {
		return Credentials{}, ErrBadEncoding
	}
	if !utf8.Valid(raw) {
		return Credentials{}, ErrNotUTF8
	}
	user, pass, ok := strings.Cut(string(raw), ":")
	if !ok {
		return Credentials{}, ErrMissingPassword
	}
	return Credentials{Username: user, Password: pass}, nil
}
