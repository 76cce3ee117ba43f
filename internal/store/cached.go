package store

import (
	"context"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/singleflight"

	"github.com/dropDatabas3/hellolist/internal/cache"
	"github.com/dropDatabas3/hellolist/internal/domain/repository"
	"github.com/dropDatabas3/hellolist/internal/observability/logger"
	tokens "github.com/dropDatabas3/hellolist/internal/security/token"
)

// CachedSubscribers resolves token → subscriber id through a cache. Tokens
// are immutable and never deleted, so a hit never goes stale. Misses are not
// cached: a token may be committed a moment after a failed lookup.
type CachedSubscribers struct {
	repository.SubscriberRepository

	cache cache.Client
	ttl   time.Duration
	sf    singleflight.Group
}

// NewCachedSubscribers envuelve inner. Errores del cache degradan a la DB.
func NewCachedSubscribers(inner repository.SubscriberRepository, c cache.Client, ttl time.Duration) *CachedSubscribers {
	return &CachedSubscribers{SubscriberRepository: inner, cache: c, ttl: ttl}
}

func tokenKey(token string) string {
	return "subtok:" + tokens.SHA256Base64URL(token)
}

func (r *CachedSubscribers) SubscriberIDByToken(ctx context.Context, token string) (uuid.UUID, error) {
	key := tokenKey(token)
	log := logger.From(ctx).With(logger.Layer("store"), logger.Component("cached_subscribers"))

	if v, err := r.cache.Get(ctx, key); err == nil {
		if id, perr := uuid.Parse(v); perr == nil {
			return id, nil
		}
		log.Warn("dropping unparseable cache entry")
		_ = r.cache.Delete(ctx, key)
	} else if !cache.IsNotFound(err) {
		log.Warn("token cache get failed, falling back to db", logger.Err(err))
	}

	// Concurrent misses for the same token share one query. The shared query
	// ignores the leader's cancellation; each caller only waits on its own ctx.
	ch := r.sf.DoChan(key, func() (any, error) {
		return r.SubscriberRepository.SubscriberIDByToken(context.WithoutCancel(ctx), token)
	})
	var res singleflight.Result
	select {
	case res = <-ch:
	case <-ctx.Done():
		return uuid.Nil, ctx.Err()
	}
	if res.Err != nil {
		return uuid.Nil, res.Err
	}
	id := res.Val.(uuid.UUID)

	if err := r.cache.Set(ctx, key, id.String(), r.ttl); err != nil {
		log.Warn("token cache set failed", logger.Err(err))
	}
	return id, nil
}
