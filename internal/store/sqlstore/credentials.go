package sqlstore

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/dropDatabas3/hellolist/internal/domain/repository"
)

const (
	qCredentialByUsername = `SELECT user_id, username, password_hash FROM users WHERE username = $1`
	qInsertCredential     = `INSERT INTO users (user_id, username, password_hash) VALUES ($1, $2, $3)`
)

type CredentialRepo struct {
	db DBTX
	d  Dialect
}

func NewCredentialRepo(db DBTX, d Dialect) *CredentialRepo {
	return &CredentialRepo{db: db, d: d}
}

var _ repository.CredentialRepository = (*CredentialRepo)(nil)

func (r *CredentialRepo) GetByUsername(ctx context.Context, username string) (*repository.Credential, error) {
	var c repository.Credential
	err := r.db.QueryRowContext(ctx, r.d.Rebind(qCredentialByUsername), username).
		Scan(&c.UserID, &c.Username, &c.PasswordHash)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, repository.ErrNotFound
		}
		return nil, fmt.Errorf("get credential: %w", err)
	}
	return &c, nil
}

func (r *CredentialRepo) Create(ctx context.Context, c repository.Credential) error {
	_, err := r.db.ExecContext(ctx, r.d.Rebind(qInsertCredential), c.UserID, c.Username, c.PasswordHash)
	if err != nil {
		if r.d.uniqueViolation(err) {
			return fmt.Errorf("create credential: %w", repository.ErrConflict)
		}
		return fmt.Errorf("create credential: %w", err)
	}
	return nil
}
