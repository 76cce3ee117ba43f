package auth

import (
	"encoding/base64"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func basic(s string) string { return "Basic " + base64.StdEncoding.EncodeToString([]byte(s)) }

func TestParseBasicAuth(t *testing.T) {
	cases := []struct {
		name   string
		header string
		want   Credentials
		err    error
	}{
		{"ok", basic("admin:s3cret"), Credentials{Username: "admin", Password: "s3cret"}, nil},
		{"colon in password", basic("admin:a:b:c"), Credentials{Username: "admin", Password: "a:b:c"}, nil},
		{"empty password", basic("admin:"), Credentials{Username: "admin"}, nil},
		{"missing", "", Credentials{}, ErrMissingHeader},
		{"bearer", "Bearer abc", Credentials{}, ErrNotBasic},
		{"lowercase scheme", "basic " + base64.StdEncoding.EncodeToString([]byte("a:b")), Credentials{}, ErrNotBasic},
		{"bad base64", "Basic !!!", Credentials{}, ErrBadEncoding},
		{"not utf8", "Basic " + base64.StdEncoding.EncodeToString([]byte{0xff, 0xfe, ':', 'x'}), Credentials{}, ErrNotUTF8},
		{"no colon", basic("admin"), Credentials{}, ErrMissingPassword},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got, err := ParseBasicAuth(tc.header)
			if tc.err != nil {
				require.ErrorIs(t, err, tc.err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tc.want, got)
		})
	}
}

func TestCredentials_StringHidesPassword(t *testing.T) {
	s := Credentials{Username: "admin", Password: "hunter2"}.String()
	assert.NotContains(t, s, "hunter2")
	assert.Contains(t, s, "admin")
}
