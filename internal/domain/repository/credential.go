package repository

import (
	"context"

	"github.com/google/uuid"
)

// Credential is an operator allowed to publish newsletters. PasswordHash is a
// self-describing PHC or bcrypt string.
type Credential struct {
	UserID       uuid.UUID
	Username     string
	PasswordHash string
}

// CredentialRepository define operaciones sobre la tabla users.
type CredentialRepository interface {
	// GetByUsername retorna ErrNotFound si el username no existe.
	GetByUsername(ctx context.Context, username string) (*Credential, error)

	// Create retorna ErrConflict si el username ya existe.
	Create(ctx context.Context, c Credential) error
}
