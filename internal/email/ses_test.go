package email

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSESSender_Send(t *testing.T) {
	var body map[string]any
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/v2/email/outbound-emails", r.URL.Path)
		assert.Contains(t, r.Header.Get("Authorization"), "AKIATEST")
		raw, _ := io.ReadAll(r.Body)
		assert.NoError(t, json.Unmarshal(raw, &body))
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"MessageId":"msg-1"}`))
	}))
	defer srv.Close()

	s, err := NewSESSender(context.Background(), "news@example.com", "News", SESConfig{
		Region:    "eu-west-1",
		AccessKey: "AKIATEST",
		SecretKey: "secret",
		Endpoint:  srv.URL,
	})
	require.NoError(t, err)

	require.NoError(t, s.Send(context.Background(), "a@example.com", "Hi", "<b>hi</b>", "hi"))

	assert.Equal(t, "News <news@example.com>", body["FromEmailAddress"])
	dest := body["Destination"].(map[string]any)
	assert.Equal(t, []any{"a@example.com"}, dest["ToAddresses"])
}

func TestSESSender_ErrorResponse(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Header().Set("X-Amzn-ErrorType", "MessageRejected")
		w.WriteHeader(http.StatusBadRequest)
		_, _ = w.Write([]byte(`{"message":"Email address is not verified."}`))
	}))
	defer srv.Close()

	s, err := NewSESSender(context.Background(), "news@example.com", "", SESConfig{
		Region:    "eu-west-1",
		AccessKey: "AKIATEST",
		SecretKey: "secret",
		Endpoint:  srv.URL,
	})
	require.NoError(t, err)

	err = s.Send(context.Background(), "a@example.com", "Hi", "", "hi")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "ses send")
}
