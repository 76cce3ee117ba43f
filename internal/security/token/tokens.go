package tokens

import (
	"crypto/sha256"
	"encoding/base64"
	"math/rand/v2"
)

// ConfirmationLen is the length of a subscription token.
const ConfirmationLen = 25

const alphanumeric = "ABCDEFGHIJKLMNOPQRSTUVWXYZabcdefghijklmnopqrstuvwxyz0123456789"

// Issuer emite tokens de confirmación.
type Issuer interface {
	Issue() string
}

// Alphanumeric draws ConfirmationLen symbols uniformly from [A-Za-z0-9].
// Tokens are lookup keys; 62^25 keeps them out of enumeration range.
type Alphanumeric struct{}

func (Alphanumeric) Issue() string {
	b := make([]byte, ConfirmationLen)
	for i := range b {
		b[i] = alphanumeric[rand.IntN(len(alphanumeric))]
	}
	return string(b)
}

// SHA256Base64URL devuelve sha256(input) en base64url sin padding. Usado
// como clave de cache para no guardar tokens en claro.
func SHA256Base64URL(s string) string {
	sum := sha256.Sum256([]byte(s))
	return base64.RawURLEncoding.EncodeToString(sum[:])
}
