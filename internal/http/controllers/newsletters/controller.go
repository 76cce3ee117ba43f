// Package newsletters contiene el controller de publicación.
package newsletters

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/dropDatabas3/hellolist/internal/apperr"
	"github.com/dropDatabas3/hellolist/internal/auth"
	httperrors "github.com/dropDatabas3/hellolist/internal/http/errors"
	"github.com/dropDatabas3/hellolist/internal/newsletter"
	"github.com/dropDatabas3/hellolist/internal/observability/logger"
)

// Challenge es el valor de WWW-Authenticate en cada 401.
const Challenge = `Basic realm="publish"`

const maxBodyBytes = 1 << 20

type Publisher interface {
	Publish(ctx context.Context, creds auth.Credentials, issue newsletter.Issue) (newsletter.Report, error)
}

// publishRequest usa punteros para distinguir campos ausentes de vacíos.
type publishRequest struct {
	Title   *string `json:"title"`
	Content *struct {
		HTML *string `json:"html"`
		Text *string `json:"text"`
	} `json:"content"`
}

func (p publishRequest) issue() (newsletter.Issue, bool) {
	if p.Title == nil || p.Content == nil || p.Content.HTML == nil || p.Content.Text == nil {
		return newsletter.Issue{}, false
	}
	return newsletter.Issue{Title: *p.Title, HTML: *p.Content.HTML, Text: *p.Content.Text}, true
}

type Controller struct {
	publisher Publisher
}

func NewController(p Publisher) *Controller {
	return &Controller{publisher: p}
}

func (c *Controller) Register(r chi.Router) {
	r.Post("/newsletters", c.Publish)
}

// Publish maneja POST /newsletters con HTTP Basic.
func (c *Controller) Publish(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	log := logger.From(ctx).With(logger.Layer("controller"), logger.Op("NewslettersController.Publish"))

	creds, err := auth.ParseBasicAuth(r.Header.Get("Authorization"))
	if err != nil {
		log.Debug("rejected authorization header", logger.Err(err))
		unauthorized(w, r, err)
		return
	}

	ct := strings.ToLower(r.Header.Get("Content-Type"))
	if !strings.Contains(ct, "application/json") {
		httperrors.WriteError(w, r, httperrors.ErrInvalidJSON.WithMessage("Content-Type must be application/json."))
		return
	}
	var body publishRequest
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	if err := dec.Decode(&body); err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			httperrors.WriteError(w, r, httperrors.ErrBodyTooLarge)
			return
		}
		httperrors.WriteError(w, r, httperrors.ErrInvalidJSON.WithCause(err))
		return
	}
	issue, ok := body.issue()
	if !ok {
		httperrors.WriteError(w, r, httperrors.ErrMissingFields.WithMessage("title, content.html and content.text are required."))
		return
	}

	if _, err := c.publisher.Publish(ctx, creds, issue); err != nil {
		if apperr.Is(err, apperr.Auth) {
			unauthorized(w, r, err)
			return
		}
		httperrors.WriteError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusOK)
}

func unauthorized(w http.ResponseWriter, r *http.Request, err error) {
	w.Header().Set("WWW-Authenticate", Challenge)
	httperrors.WriteError(w, r, httperrors.ErrUnauthorized.WithCause(err))
}
