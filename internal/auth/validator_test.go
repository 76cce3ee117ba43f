package auth

import (
	"context"
	"errors"
	"slices"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/dropDatabas3/hellolist/internal/apperr"
	"github.com/dropDatabas3/hellolist/internal/domain/repository"
	"github.com/dropDatabas3/hellolist/internal/security/password"
	"github.com/dropDatabas3/hellolist/internal/store/adapters/memory"
	"github.com/dropDatabas3/hellolist/internal/workerpool"
)

func seedOperator(t *testing.T, conn *memory.Conn, username, hash string) uuid.UUID {
	t.Helper()
	id := uuid.New()
	require.NoError(t, conn.Credentials().Create(context.Background(), repository.Credential{
		UserID: id, Username: username, PasswordHash: hash,
	}))
	return id
}

func mustHash(t *testing.T, plain string) string {
	t.Helper()
	h, err := password.Hash(password.Default, plain)
	require.NoError(t, err)
	return h
}

func TestValidate_OK(t *testing.T) {
	conn := memory.New()
	id := seedOperator(t, conn, "admin", mustHash(t, "correct horse"))

	got, err := NewValidator(conn.Credentials(), workerpool.New(1)).
		Validate(context.Background(), Credentials{Username: "admin", Password: "correct horse"})
	require.NoError(t, err)
	assert.Equal(t, id, got)
}

func TestValidate_WrongPasswordAndUnknownUserLookAlike(t *testing.T) {
	conn := memory.New()
	seedOperator(t, conn, "admin", mustHash(t, "correct horse"))
	v := NewValidator(conn.Credentials(), workerpool.New(1))
	ctx := context.Background()

	_, errWrong := v.Validate(ctx, Credentials{Username: "admin", Password: "nope"})
	_, errUnknown := v.Validate(ctx, Credentials{Username: "ghost", Password: "nope"})

	require.Error(t, errWrong)
	require.Error(t, errUnknown)
	assert.Equal(t, apperr.Auth, apperr.KindOf(errWrong))
	assert.Equal(t, apperr.Auth, apperr.KindOf(errUnknown))
	assert.ErrorIs(t, errWrong, ErrInvalidCredentials)
	assert.ErrorIs(t, errUnknown, ErrInvalidCredentials)
	assert.Equal(t, errWrong.Error(), errUnknown.Error())
}

func TestValidate_UnknownUserWithDummyPasswordStillFails(t *testing.T) {
	// DummyHash must never authenticate, whatever its preimage is.
	v := NewValidator(memory.New().Credentials(), workerpool.New(1))
	for _, p := range []string{"", "password", "everythinghastostartsomewhere"} {
		_, err := v.Validate(context.Background(), Credentials{Username: "ghost", Password: p})
		assert.True(t, apperr.Is(err, apperr.Auth))
	}
}

func TestValidate_LegacyBcrypt(t *testing.T) {
	conn := memory.New()
	h, err := bcrypt.GenerateFromPassword([]byte("old-school"), bcrypt.MinCost)
	require.NoError(t, err)
	id := seedOperator(t, conn, "legacy", string(h))

	got, err := NewValidator(conn.Credentials(), nil).
		Validate(context.Background(), Credentials{Username: "legacy", Password: "old-school"})
	require.NoError(t, err)
	assert.Equal(t, id, got)
}

func TestValidate_MalformedStoredHashIsStorageError(t *testing.T) {
	conn := memory.New()
	seedOperator(t, conn, "broken", "not-a-hash")

	_, err := NewValidator(conn.Credentials(), nil).
		Validate(context.Background(), Credentials{Username: "broken", Password: "x"})
	require.Error(t, err)
	assert.True(t, apperr.Is(err, apperr.Storage))
	assert.ErrorIs(t, err, password.ErrMalformedHash)
}

type failingCreds struct{ repository.CredentialRepository }

func (failingCreds) GetByUsername(context.Context, string) (*repository.Credential, error) {
	return nil, errors.New("pool closed")
}

func TestValidate_StoreFailure(t *testing.T) {
	_, err := NewValidator(failingCreds{}, nil).
		Validate(context.Background(), Credentials{Username: "admin", Password: "x"})
	require.Error(t, err)
	assert.True(t, apperr.Is(err, apperr.Storage))
}

func median(ds []time.Duration) time.Duration {
	s := slices.Clone(ds)
	slices.Sort(s)
	return s[len(s)/2]
}

func TestValidate_TimingDoesNotRevealUsername(t *testing.T) {
	if testing.Short() {
		t.Skip("timing test")
	}
	conn := memory.New()
	seedOperator(t, conn, "admin", mustHash(t, "correct horse"))
	v := NewValidator(conn.Credentials(), workerpool.New(1))
	ctx := context.Background()

	const runs = 11
	var known, unknown []time.Duration
	for i := 0; i < runs; i++ {
		start := time.Now()
		_, _ = v.Validate(ctx, Credentials{Username: "admin", Password: "wrong"})
		known = append(known, time.Since(start))

		start = time.Now()
		_, _ = v.Validate(ctx, Credentials{Username: "nobody", Password: "wrong"})
		unknown = append(unknown, time.Since(start))
	}

	ratio := float64(median(known)) / float64(median(unknown))
	assert.GreaterOrEqual(t, ratio, 0.5, "known=%v unknown=%v", median(known), median(unknown))
	assert.LessOrEqual(t, ratio, 2.0, "known=%v unknown=%v", median(known), median(unknown))
}
