package email

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"
)

// APISender posts one JSON message per recipient to an HTTP email API
// (`POST {base_url}/api/send`, bearer token auth).
type APISender struct {
	baseURL string
	token   string
	from    addressInfo
	client  *http.Client
}

type addressInfo struct {
	Email string `json:"email"`
	Name  string `json:"name"`
}

type sendRequest struct {
	From     addressInfo   `json:"from"`
	To       []addressInfo `json:"to"`
	Subject  string        `json:"subject"`
	Text     string        `json:"text"`
	HTML     string        `json:"html"`
	Category string        `json:"category"`
}

// StatusError is a non-2xx response from the API.
type StatusError struct {
	StatusCode int
	Body       string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("email api: status %d: %s", e.StatusCode, e.Body)
}

func NewAPISender(fromEmail, fromName string, cfg APIConfig) (*APISender, error) {
	if cfg.BaseURL == "" {
		return nil, fmt.Errorf("email api: base_url is required")
	}
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	return &APISender{
		baseURL: strings.TrimRight(cfg.BaseURL, "/"),
		token:   cfg.AuthorizationToken,
		from:    addressInfo{Email: fromEmail, Name: fromName},
		client:  &http.Client{Timeout: timeout},
	}, nil
}

func (s *APISender) Send(ctx context.Context, to, subject, htmlBody, textBody string) error {
	payload, err := json.Marshal(sendRequest{
		From:    s.from,
		To:      []addressInfo{{Email: to}},
		Subject: subject,
		Text:    textBody,
		HTML:    htmlBody,
	})
	if err != nil {
		return fmt.Errorf("email api: encode: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, s.baseURL+"/api/send", bytes.NewReader(payload))
	if err != nil {
		return fmt.Errorf("email api: build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+s.token)

	resp, err := s.client.Do(req)
	if err != nil {
		return fmt.Errorf("email api: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		b, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return &StatusError{StatusCode: resp.StatusCode, Body: strings.TrimSpace(string(b))}
	}
	_, _ = io.Copy(io.Discard, resp.Body)
	return nil
}
