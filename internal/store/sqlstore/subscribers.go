package sqlstore

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/google/uuid"

	"github.com/dropDatabas3/hellolist/internal/domain/repository"
)

const (
	qInsertSubscriber    = `INSERT INTO subscriptions (id, email, name, subscribed_at, status) VALUES ($1, $2, $3, $4, $5)`
	qInsertToken         = `INSERT INTO subscription_tokens (subscription_token, subscriber_id) VALUES ($1, $2)`
	qSubscriberIDByToken = `SELECT subscriber_id FROM subscription_tokens WHERE subscription_token = $1`
	qConfirm             = `UPDATE subscriptions SET status = $1 WHERE id = $2`
	qListConfirmed       = `SELECT id, email FROM subscriptions WHERE status = $1 ORDER BY subscribed_at, id`
	qGetSubscriber       = `SELECT id, email, name, subscribed_at, status FROM subscriptions WHERE id = $1`
	qTokensFor           = `SELECT subscription_token FROM subscription_tokens WHERE subscriber_id = $1`
)

// SubscriberRepo implements repository.SubscriberRepository over a DBTX.
type SubscriberRepo struct {
	db DBTX
	d  Dialect
}

func NewSubscriberRepo(db DBTX, d Dialect) *SubscriberRepo {
	return &SubscriberRepo{db: db, d: d}
}

var _ repository.SubscriberRepository = (*SubscriberRepo)(nil)

func (r *SubscriberRepo) Insert(ctx context.Context, s repository.Subscriber) error {
	_, err := r.db.ExecContext(ctx, r.d.Rebind(qInsertSubscriber),
		s.ID, s.Email, s.Name, s.SubscribedAt.UTC(), string(s.Status))
	if err != nil {
		if r.d.uniqueViolation(err) {
			return fmt.Errorf("insert subscriber: %w: %v", repository.ErrConflict, err)
		}
		return fmt.Errorf("insert subscriber: %w", err)
	}
	return nil
}

func (r *SubscriberRepo) InsertToken(ctx context.Context, subscriberID uuid.UUID, token string) error {
	_, err := r.db.ExecContext(ctx, r.d.Rebind(qInsertToken), token, subscriberID)
	if err != nil {
		if r.d.uniqueViolation(err) {
			return fmt.Errorf("insert subscription token: %w: %v", repository.ErrConflict, err)
		}
		return fmt.Errorf("insert subscription token: %w", err)
	}
	return nil
}

func (r *SubscriberRepo) SubscriberIDByToken(ctx context.Context, token string) (uuid.UUID, error) {
	var id uuid.UUID
	err := r.db.QueryRowContext(ctx, r.d.Rebind(qSubscriberIDByToken), token).Scan(&id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return uuid.Nil, repository.ErrNotFound
		}
		return uuid.Nil, fmt.Errorf("lookup subscription token: %w", err)
	}
	return id, nil
}

func (r *SubscriberRepo) Confirm(ctx context.Context, id uuid.UUID) error {
	res, err := r.db.ExecContext(ctx, r.d.Rebind(qConfirm), string(repository.StatusConfirmed), id)
	if err != nil {
		return fmt.Errorf("confirm subscriber: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("confirm subscriber: %w", err)
	}
	if n == 0 {
		return repository.ErrNotFound
	}
	return nil
}

func (r *SubscriberRepo) ListConfirmed(ctx context.Context) ([]repository.ConfirmedSubscriber, error) {
	rows, err := r.db.QueryContext(ctx, r.d.Rebind(qListConfirmed), string(repository.StatusConfirmed))
	if err != nil {
		return nil, fmt.Errorf("list confirmed subscribers: %w", err)
	}
	defer rows.Close()

	var out []repository.ConfirmedSubscriber
	for rows.Next() {
		var s repository.ConfirmedSubscriber
		if err := rows.Scan(&s.ID, &s.Email); err != nil {
			return nil, fmt.Errorf("scan confirmed subscriber: %w", err)
		}
		out = append(out, s)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list confirmed subscribers: %w", err)
	}
	return out, nil
}

func (r *SubscriberRepo) Get(ctx context.Context, id uuid.UUID) (*repository.Subscriber, error) {
	var s repository.Subscriber
	var status string
	err := r.db.QueryRowContext(ctx, r.d.Rebind(qGetSubscriber), id).
		Scan(&s.ID, &s.Email, &s.Name, &s.SubscribedAt, &status)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, repository.ErrNotFound
		}
		return nil, fmt.Errorf("get subscriber: %w", err)
	}
	s.Status = repository.SubscriberStatus(status)
	return &s, nil
}

func (r *SubscriberRepo) TokensFor(ctx context.Context, subscriberID uuid.UUID) ([]string, error) {
	rows, err := r.db.QueryContext(ctx, r.d.Rebind(qTokensFor), subscriberID)
	if err != nil {
		return nil, fmt.Errorf("list subscription tokens: %w", err)
	}
	defer rows.Close()

	var out []string
	for rows.Next() {
		var tok string
		if err := rows.Scan(&tok); err != nil {
			return nil, fmt.Errorf("scan subscription token: %w", err)
		}
		out = append(out, tok)
	}
	return out, rows.Err()
}
