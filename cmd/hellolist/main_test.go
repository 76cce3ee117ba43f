package main

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dropDatabas3/hellolist/internal/security/password"
	"github.com/dropDatabas3/hellolist/internal/store"
)

func run(t *testing.T, stdin string, args ...string) (string, error) {
	t.Helper()
	var out, errOut bytes.Buffer
	root := newRootCmd(strings.NewReader(stdin), &out, &errOut)
	root.SetArgs(append([]string{"--env-file", ""}, args...))
	err := root.ExecuteContext(context.Background())
	return out.String(), err
}

func sqliteFlags(t *testing.T) []string {
	t.Helper()
	return []string{"--storage-driver", "sqlite", "--dsn", filepath.Join(t.TempDir(), "hellolist.db")}
}

func TestHashPrintsVerifiablePHC(t *testing.T) {
	out, err := run(t, "correct horse\n", "hash", "--password-stdin")
	require.NoError(t, err)

	phc := strings.TrimSpace(out)
	assert.True(t, strings.HasPrefix(phc, "$argon2id$v=19$m=15000,t=2,p=1$"), phc)
	ok, err := password.Verify("correct horse", phc)
	require.NoError(t, err)
	assert.True(t, ok)
}

func TestHashRejectsEmptyStdin(t *testing.T) {
	_, err := run(t, "", "hash", "--password-stdin")
	assert.Error(t, err)
}

func TestMigrateAndOperatorAdd(t *testing.T) {
	db := sqliteFlags(t)

	out, err := run(t, "", append(db, "migrate", "up")...)
	require.NoError(t, err)
	assert.Contains(t, out, "applied 3 migration(s)")

	out, err = run(t, "", append(db, "migrate", "status")...)
	require.NoError(t, err)
	assert.Equal(t, 3, strings.Count(out, "applied"), out)

	out, err = run(t, "s3cret-passphrase\n", append(db, "operator", "add", "--username", "editor", "--password-stdin")...)
	require.NoError(t, err)
	assert.Contains(t, out, "operator editor created")

	_, err = run(t, "another-long-pass\n", append(db, "operator", "add", "--username", "editor", "--password-stdin")...)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "ya existe")

	// La credencial guardada verifica contra la password original.
	conn, err := store.Open(context.Background(), store.AdapterConfig{Name: "sqlite", DSN: db[3]})
	require.NoError(t, err)
	defer conn.Close()
	cred, err := conn.Credentials().GetByUsername(context.Background(), "editor")
	require.NoError(t, err)
	ok, err := password.Verify("s3cret-passphrase", cred.PasswordHash)
	require.NoError(t, err)
	assert.True(t, ok)
}

func TestMigrateDown(t *testing.T) {
	db := sqliteFlags(t)
	_, err := run(t, "", append(db, "migrate", "up")...)
	require.NoError(t, err)

	out, err := run(t, "", append(db, "migrate", "down")...)
	require.NoError(t, err)
	assert.Contains(t, out, "rolled back")

	out, err = run(t, "", append(db, "migrate", "status")...)
	require.NoError(t, err)
	assert.Contains(t, out, "pending")
}

func TestOperatorAddRequiresUsername(t *testing.T) {
	_, err := run(t, "s3cret-passphrase\n", append(sqliteFlags(t), "operator", "add", "--password-stdin")...)
	assert.Error(t, err)
}

func TestOperatorAddEnforcesPolicy(t *testing.T) {
	db := sqliteFlags(t)
	_, err := run(t, "", append(db, "migrate", "up")...)
	require.NoError(t, err)

	_, err = run(t, "short\n", append(db, "operator", "add", "--username", "editor", "--password-stdin")...)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "too_short")
}

func TestPublishSendsBasicAuthAndJSON(t *testing.T) {
	var got publishPayload
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		user, pass, ok := r.BasicAuth()
		assert.True(t, ok)
		assert.Equal(t, "editor", user)
		assert.Equal(t, "s3cret-passphrase", pass)
		assert.Equal(t, "/newsletters", r.URL.Path)
		assert.Equal(t, "application/json", r.Header.Get("Content-Type"))
		assert.NoError(t, json.NewDecoder(r.Body).Decode(&got))
		w.WriteHeader(http.StatusOK)
	}))
	defer srv.Close()

	out, err := run(t, "s3cret-passphrase\n", "publish", "--url", srv.URL, "--username", "editor", "--password-stdin",
		"--title", "Issue #1", "--html", "<p>hi</p>", "--text", "hi")
	require.NoError(t, err)
	assert.Contains(t, out, "published")
	assert.Equal(t, "Issue #1", got.Title)
	assert.Equal(t, "<p>hi</p>", got.Content.HTML)
	assert.Equal(t, "hi", got.Content.Text)
}

func TestPublishReportsServerError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("WWW-Authenticate", `Basic realm="publish"`)
		http.Error(w, `{"code":"UNAUTHORIZED"}`, http.StatusUnauthorized)
	}))
	defer srv.Close()

	_, err := run(t, "bad\n", "publish", "--url", srv.URL, "--username", "editor", "--password-stdin",
		"--title", "t", "--html", "h", "--text", "x")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "status=401")
}
