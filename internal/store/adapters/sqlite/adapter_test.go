package sqlite

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dropDatabas3/hellolist/internal/domain/repository"
	"github.com/dropDatabas3/hellolist/internal/store"
)

func openMigrated(t *testing.T) store.Connection {
	t.Helper()
	ctx := context.Background()
	conn, err := store.Open(ctx, store.AdapterConfig{Name: "sqlite", DSN: filepath.Join(t.TempDir(), "hellolist.db")})
	require.NoError(t, err)
	t.Cleanup(func() { _ = conn.Close() })

	m, ok := conn.(store.Migrator)
	require.True(t, ok)
	n, err := m.MigrateUp(ctx)
	require.NoError(t, err)
	require.Equal(t, 3, n)
	return conn
}

func TestMigrationsStatusAndDown(t *testing.T) {
	conn := openMigrated(t)
	m := conn.(store.Migrator)
	ctx := context.Background()

	st, err := m.MigrationStatus(ctx)
	require.NoError(t, err)
	require.Len(t, st, 3)
	for _, s := range st {
		assert.True(t, s.Applied, s.Source)
	}

	require.NoError(t, m.MigrateDown(ctx))
	st, err = m.MigrationStatus(ctx)
	require.NoError(t, err)
	assert.False(t, st[2].Applied)

	n, err := m.MigrateUp(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, n)
}

func TestRegisterAndConfirmRoundTrip(t *testing.T) {
	conn := openMigrated(t)
	ctx := context.Background()
	id := uuid.New()
	now := time.Now().UTC().Truncate(time.Second)

	err := conn.WithTx(ctx, func(tx repository.Tx) error {
		if err := tx.Subscribers().Insert(ctx, repository.Subscriber{
			ID: id, Email: "a@x.com", Name: "le guin", SubscribedAt: now,
			Status: repository.StatusPendingConfirmation,
		}); err != nil {
			return err
		}
		return tx.Subscribers().InsertToken(ctx, id, "tokenA")
	})
	require.NoError(t, err)

	got, err := conn.Subscribers().SubscriberIDByToken(ctx, "tokenA")
	require.NoError(t, err)
	assert.Equal(t, id, got)

	_, err = conn.Subscribers().SubscriberIDByToken(ctx, "tokena")
	assert.ErrorIs(t, err, repository.ErrNotFound, "tokens are case-sensitive")

	require.NoError(t, conn.Subscribers().Confirm(ctx, id))
	require.NoError(t, conn.Subscribers().Confirm(ctx, id))

	s, err := conn.Subscribers().Get(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, repository.StatusConfirmed, s.Status)
	assert.True(t, now.Equal(s.SubscribedAt))

	list, err := conn.Subscribers().ListConfirmed(ctx)
	require.NoError(t, err)
	assert.Equal(t, []repository.ConfirmedSubscriber{{ID: id, Email: "a@x.com"}}, list)

	lister, ok := conn.Subscribers().(repository.TokenLister)
	require.True(t, ok)
	toks, err := lister.TokensFor(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, []string{"tokenA"}, toks)
}

func TestDuplicateTokenRollsBackSubscriber(t *testing.T) {
	conn := openMigrated(t)
	ctx := context.Background()

	first := uuid.New()
	require.NoError(t, conn.WithTx(ctx, func(tx repository.Tx) error {
		if err := tx.Subscribers().Insert(ctx, repository.Subscriber{ID: first, Email: "a@x.com", Name: "a", SubscribedAt: time.Now(), Status: repository.StatusPendingConfirmation}); err != nil {
			return err
		}
		return tx.Subscribers().InsertToken(ctx, first, "same")
	}))

	second := uuid.New()
	err := conn.WithTx(ctx, func(tx repository.Tx) error {
		if err := tx.Subscribers().Insert(ctx, repository.Subscriber{ID: second, Email: "b@x.com", Name: "b", SubscribedAt: time.Now(), Status: repository.StatusPendingConfirmation}); err != nil {
			return err
		}
		return tx.Subscribers().InsertToken(ctx, second, "same")
	})
	require.Error(t, err)
	assert.True(t, repository.IsConflict(err))

	_, err = conn.Subscribers().Get(ctx, second)
	assert.ErrorIs(t, err, repository.ErrNotFound)
}

func TestSameEmailTwiceIsAllowed(t *testing.T) {
	conn := openMigrated(t)
	ctx := context.Background()
	for i := 0; i < 2; i++ {
		require.NoError(t, conn.Subscribers().Insert(ctx, repository.Subscriber{
			ID: uuid.New(), Email: "a@x.com", Name: "a", SubscribedAt: time.Now(),
			Status: repository.StatusPendingConfirmation,
		}))
	}
}

func TestCredentialUniqueness(t *testing.T) {
	conn := openMigrated(t)
	ctx := context.Background()
	c := repository.Credential{UserID: uuid.New(), Username: "admin", PasswordHash: "h"}
	require.NoError(t, conn.Credentials().Create(ctx, c))

	c.UserID = uuid.New()
	assert.True(t, repository.IsConflict(conn.Credentials().Create(ctx, c)))

	got, err := conn.Credentials().GetByUsername(ctx, "admin")
	require.NoError(t, err)
	assert.Equal(t, "h", got.PasswordHash)
}
