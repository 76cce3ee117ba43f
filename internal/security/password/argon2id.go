// Package password hashes and verifies operator passwords.
//
// Hashes are self-describing: argon2 hashes use the PHC string format
// ($argon2id$v=19$m=..,t=..,p=..$salt$digest) and Verify reads the cost
// parameters from the string itself. bcrypt ($2a$, $2b$, $2y$) is accepted
// for hashes provisioned before argon2.
package password

import (
	"crypto/rand"
	"crypto/subtle"
	"encoding/base64"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"golang.org/x/crypto/argon2"
	"golang.org/x/crypto/bcrypt"
)

var (
	ErrMalformedHash        = errors.New("password: malformed hash")
	ErrUnsupportedAlgorithm = errors.New("password: unsupported algorithm")
	ErrEmptyPassword        = errors.New("password: empty password")
)

// DummyHash is verified in place of a real hash when the username is
// unknown. Its cost matches Default so both paths do the same work.
const DummyHash = "$argon2id$v=19$m=15000,t=2,p=1$gZiV/M1gPc22ElAH/Jh1Hw$CWOrkoo7oJBQ/iyh7uJ0LO2aLEfrHwTWllSAxT0zRno"

type Params struct {
	Memory      uint32 // KiB
	Time        uint32
	Parallelism uint8
	KeyLen      uint32
	SaltLen     uint32
}

// Default es el costo usado al provisionar operadores.
var Default = Params{Memory: 15000, Time: 2, Parallelism: 1, KeyLen: 32, SaltLen: 16}

// Hash devuelve un PHC string argon2id.
func Hash(p Params, plain string) (string, error) {
	if plain == "" {
		return "", ErrEmptyPassword
	}
	if p.SaltLen == 0 {
		p.SaltLen = 16
	}
	salt := make([]byte, p.SaltLen)
	if _, err := rand.Read(salt); err != nil {
		return "", err
	}
	dk := argon2.IDKey([]byte(plain), salt, p.Time, p.Memory, p.Parallelism, p.KeyLen)
	return fmt.Sprintf("$argon2id$v=%d$m=%d,t=%d,p=%d$%s$%s",
		argon2.Version, p.Memory, p.Time, p.Parallelism,
		base64.RawStdEncoding.EncodeToString(salt),
		base64.RawStdEncoding.EncodeToString(dk),
	), nil
}

// Verify compares plain against encoded. A mismatch is (false, nil); an
// error means the stored hash itself could not be used.
func Verify(plain, encoded string) (bool, error) {
	switch {
	case strings.HasPrefix(encoded, "$argon2id$"), strings.HasPrefix(encoded, "$argon2i$"):
		return verifyArgon2(plain, encoded)
	case strings.HasPrefix(encoded, "$2a$"), strings.HasPrefix(encoded, "$2b$"), strings.HasPrefix(encoded, "$2y$"):
		err := bcrypt.CompareHashAndPassword([]byte(encoded), []byte(plain))
		if err == nil {
			return true, nil
		}
		if errors.Is(err, bcrypt.ErrMismatchedHashAndPassword) {
			return false, nil
		}
		return false, fmt.Errorf("%w: %v", ErrMalformedHash, err)
	case strings.HasPrefix(encoded, "$argon2d$"):
		return false, ErrUnsupportedAlgorithm
	default:
		return false, ErrMalformedHash
	}
}

type argon2Hash struct {
	alg    string
	params Params
	salt   []byte
	digest []byte
}

// parsePHC: "", alg, "v=19", "m=..,t=..,p=..", salt, digest
func parsePHC(encoded string) (*argon2Hash, error) {
	parts := strings.Split(encoded, "$")
	if len(parts) != 6 || parts[0] != "" {
		return nil, ErrMalformedHash
	}
	h := &argon2Hash{alg: parts[1]}

	v, ok := strings.CutPrefix(parts[2], "v=")
	if !ok {
		return nil, ErrMalformedHash
	}
	ver, err := strconv.Atoi(v)
	if err != nil {
		return nil, ErrMalformedHash
	}
	if ver != argon2.Version {
		return nil, fmt.Errorf("%w: argon2 version %d", ErrUnsupportedAlgorithm, ver)
	}

	var seenM, seenT, seenP bool
	for _, kv := range strings.Split(parts[3], ",") {
		k, val, ok := strings.Cut(kv, "=")
		if !ok {
			return nil, ErrMalformedHash
		}
		n, err := strconv.ParseUint(val, 10, 32)
		if err != nil {
			return nil, ErrMalformedHash
		}
		switch k {
		case "m":
			h.params.Memory, seenM = uint32(n), true
		case "t":
			h.params.Time, seenT = uint32(n), true
		case "p":
			if n > 255 {
				return nil, ErrMalformedHash
			}
			h.params.Parallelism, seenP = uint8(n), true
		default:
			// keyid/data are optional PHC fields we do not use.
		}
	}
	if !seenM || !seenT || !seenP || h.params.Time == 0 || h.params.Parallelism == 0 {
		return nil, ErrMalformedHash
	}

	if h.salt, err = base64.RawStdEncoding.DecodeString(parts[4]); err != nil {
		return nil, ErrMalformedHash
	}
	if h.digest, err = base64.RawStdEncoding.DecodeString(parts[5]); err != nil || len(h.digest) == 0 {
		return nil, ErrMalformedHash
	}
	h.params.KeyLen = uint32(len(h.digest))
	h.params.SaltLen = uint32(len(h.salt))
	return h, nil
}

func verifyArgon2(plain, encoded string) (bool, error) {
	h, err := parsePHC(encoded)
	if err != nil {
		return false, err
	}
	p := h.params
	var key []byte
	if h.alg == "argon2id" {
		key = argon2.IDKey([]byte(plain), h.salt, p.Time, p.Memory, p.Parallelism, p.KeyLen)
	} else {
		key = argon2.Key([]byte(plain), h.salt, p.Time, p.Memory, p.Parallelism, p.KeyLen)
	}
	return subtle.ConstantTimeCompare(key, h.digest) == 1, nil
}
