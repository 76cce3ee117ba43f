package sqlstore

import (
	"context"
	"database/sql"
	"errors"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dropDatabas3/hellolist/internal/domain/repository"
)

var _ repository.TokenLister = (*SubscriberRepo)(nil)

var errUnique = errors.New("duplicate key value violates unique constraint")

var testDialect = Dialect{
	Name:              "postgres",
	TxOptions:         &sql.TxOptions{Isolation: sql.LevelReadCommitted},
	IsUniqueViolation: func(err error) bool { return errors.Is(err, errUnique) },
}

func newConnWithMock(t *testing.T) (*Conn, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherRegexp))
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })
	return NewConn(db, testDialect, nil), mock
}

func TestRebind(t *testing.T) {
	q := `SELECT a FROM t WHERE x = $1 AND y = $12`
	assert.Equal(t, q, Dialect{}.Rebind(q))
	assert.Equal(t, `SELECT a FROM t WHERE x = ?1 AND y = ?12`, Dialect{NumberedQuestion: true}.Rebind(q))
}

func TestWithTx_CommitsSubscriberAndToken(t *testing.T) {
	conn, mock := newConnWithMock(t)
	id := uuid.New()

	mock.ExpectBegin()
	mock.ExpectExec(`(?s)^INSERT\s+INTO\s+subscriptions\s*\(id,\s*email,\s*name,\s*subscribed_at,\s*status\)`).
		WithArgs(id.String(), "a@x.com", "le guin", sqlmock.AnyArg(), "pending_confirmation").
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec(`(?s)^INSERT\s+INTO\s+subscription_tokens`).
		WithArgs("tok", id.String()).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	err := conn.WithTx(context.Background(), func(tx repository.Tx) error {
		if err := tx.Subscribers().Insert(context.Background(), repository.Subscriber{
			ID: id, Email: "a@x.com", Name: "le guin",
			SubscribedAt: time.Now(), Status: repository.StatusPendingConfirmation,
		}); err != nil {
			return err
		}
		return tx.Subscribers().InsertToken(context.Background(), id, "tok")
	})
	require.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestWithTx_RollsBackOnTokenConflict(t *testing.T) {
	conn, mock := newConnWithMock(t)
	id := uuid.New()

	mock.ExpectBegin()
	mock.ExpectExec(`^INSERT\s+INTO\s+subscriptions`).WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec(`^INSERT\s+INTO\s+subscription_tokens`).WillReturnError(errUnique)
	mock.ExpectRollback()

	err := conn.WithTx(context.Background(), func(tx repository.Tx) error {
		if err := tx.Subscribers().Insert(context.Background(), repository.Subscriber{ID: id, Status: repository.StatusPendingConfirmation}); err != nil {
			return err
		}
		return tx.Subscribers().InsertToken(context.Background(), id, "dup")
	})
	require.Error(t, err)
	assert.True(t, repository.IsConflict(err))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestWithTx_RollsBackOnPanic(t *testing.T) {
	conn, mock := newConnWithMock(t)
	mock.ExpectBegin()
	mock.ExpectRollback()

	assert.Panics(t, func() {
		_ = conn.WithTx(context.Background(), func(repository.Tx) error { panic("boom") })
	})
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestSubscriberIDByToken(t *testing.T) {
	conn, mock := newConnWithMock(t)
	id := uuid.New()

	mock.ExpectQuery(`^SELECT\s+subscriber_id\s+FROM\s+subscription_tokens\s+WHERE\s+subscription_token\s*=\s*\$1$`).
		WithArgs("known").
		WillReturnRows(sqlmock.NewRows([]string{"subscriber_id"}).AddRow(id.String()))
	mock.ExpectQuery(`^SELECT\s+subscriber_id`).
		WithArgs("unknown").
		WillReturnError(sql.ErrNoRows)
	mock.ExpectQuery(`^SELECT\s+subscriber_id`).
		WithArgs("boom").
		WillReturnError(errors.New("conn reset"))

	got, err := conn.Subscribers().SubscriberIDByToken(context.Background(), "known")
	require.NoError(t, err)
	assert.Equal(t, id, got)

	_, err = conn.Subscribers().SubscriberIDByToken(context.Background(), "unknown")
	assert.True(t, repository.IsNotFound(err))

	_, err = conn.Subscribers().SubscriberIDByToken(context.Background(), "boom")
	require.Error(t, err)
	assert.False(t, repository.IsNotFound(err))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestConfirm(t *testing.T) {
	conn, mock := newConnWithMock(t)
	id := uuid.New()

	mock.ExpectExec(`^UPDATE\s+subscriptions\s+SET\s+status\s*=\s*\$1\s+WHERE\s+id\s*=\s*\$2$`).
		WithArgs("confirmed", id.String()).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec(`^UPDATE\s+subscriptions`).
		WithArgs("confirmed", id.String()).
		WillReturnResult(sqlmock.NewResult(0, 0))

	require.NoError(t, conn.Subscribers().Confirm(context.Background(), id))
	assert.ErrorIs(t, conn.Subscribers().Confirm(context.Background(), id), repository.ErrNotFound)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestListConfirmed(t *testing.T) {
	conn, mock := newConnWithMock(t)
	a, b := uuid.New(), uuid.New()

	mock.ExpectQuery(`^SELECT\s+id,\s*email\s+FROM\s+subscriptions\s+WHERE\s+status\s*=\s*\$1`).
		WithArgs("confirmed").
		WillReturnRows(sqlmock.NewRows([]string{"id", "email"}).
			AddRow(a.String(), "a@x.com").
			AddRow(b.String(), "not-an-email"))

	got, err := conn.Subscribers().ListConfirmed(context.Background())
	require.NoError(t, err)
	assert.Equal(t, []repository.ConfirmedSubscriber{{ID: a, Email: "a@x.com"}, {ID: b, Email: "not-an-email"}}, got)
}

func TestCredentials(t *testing.T) {
	conn, mock := newConnWithMock(t)
	uid := uuid.New()

	mock.ExpectQuery(`^SELECT\s+user_id,\s*username,\s*password_hash\s+FROM\s+users`).
		WithArgs("admin").
		WillReturnRows(sqlmock.NewRows([]string{"user_id", "username", "password_hash"}).
			AddRow(uid.String(), "admin", "$argon2id$..."))
	mock.ExpectQuery(`^SELECT\s+user_id`).
		WithArgs("ghost").
		WillReturnError(sql.ErrNoRows)
	mock.ExpectExec(`^INSERT\s+INTO\s+users`).
		WithArgs(uid.String(), "admin", "h").
		WillReturnError(errUnique)

	c, err := conn.Credentials().GetByUsername(context.Background(), "admin")
	require.NoError(t, err)
	assert.Equal(t, uid, c.UserID)

	_, err = conn.Credentials().GetByUsername(context.Background(), "ghost")
	assert.True(t, repository.IsNotFound(err))

	err = conn.Credentials().Create(context.Background(), repository.Credential{UserID: uid, Username: "admin", PasswordHash: "h"})
	assert.True(t, repository.IsConflict(err))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestMigrateWithoutFS(t *testing.T) {
	conn, _ := newConnWithMock(t)
	_, err := conn.MigrateUp(context.Background())
	assert.Error(t, err)
}
