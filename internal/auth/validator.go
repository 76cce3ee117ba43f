package auth

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/dropDatabas3/hellolist/internal/apperr"
	"github.com/dropDatabas3/hellolist/internal/domain/repository"
	"github.com/dropDatabas3/hellolist/internal/metrics"
	"github.com/dropDatabas3/hellolist/internal/observability/logger"
	"github.com/dropDatabas3/hellolist/internal/security/password"
	"github.com/dropDatabas3/hellolist/internal/workerpool"
)

// ErrInvalidCredentials cubre usuario inexistente y password incorrecto por igual.
var ErrInvalidCredentials = errors.New("invalid credentials")

// Validator verifica credenciales de operador. Siempre ejecuta una
// verificación de hash: contra el hash real si el usuario existe, contra
// password.DummyHash si no.
type Validator struct {
	creds repository.CredentialRepository
	pool  *workerpool.Pool
}

// NewValidator usa pool para la verificación (CPU-bound). Un pool nil
// equivale a uno de tamaño GOMAXPROCS.
func NewValidator(creds repository.CredentialRepository, pool *workerpool.Pool) *Validator {
	if pool == nil {
		pool = workerpool.New(0)
	}
	return &Validator{creds: creds, pool: pool}
}

// Validate devuelve el user id si el usuario existe y el password coincide.
// Cualquier otro caso es Auth/ErrInvalidCredentials. Fallas del store o un
// hash almacenado ilegible son Storage.
func (v *Validator) Validate(ctx context.Context, c Credentials) (uuid.UUID, error) {
	const op = "auth.Validate"
	log := logger.From(ctx).With(logger.Layer("service"), logger.Component("auth.validator"))

	userID := uuid.Nil
	expected := password.DummyHash
	found := false

	cred, err := v.creds.GetByUsername(ctx, c.Username)
	switch {
	case err == nil:
		userID, expected, found = cred.UserID, cred.PasswordHash, true
	case repository.IsNotFound(err):
	default:
		return uuid.Nil, apperr.E(apperr.Storage, op, fmt.Errorf("get stored credentials: %w", err))
	}

	ok, err := workerpool.Submit(ctx, v.pool, func() (bool, error) {
		start := time.Now()
		defer func() { metrics.ObservePasswordVerify(time.Since(start)) }()
		return password.Verify(c.Password, expected)
	})
	if err != nil {
		return uuid.Nil, apperr.E(apperr.Storage, op, fmt.Errorf("verify password hash: %w", err))
	}

	if !found || !ok {
		log.Debug("credentials rejected", logger.Bool("known_user", found))
		return uuid.Nil, apperr.E(apperr.Auth, op, ErrInvalidCredentials)
	}
	return userID, nil
}
