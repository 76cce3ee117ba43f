package memory

import (
	"context"
	"sort"

	"github.com/google/uuid"

	"github.com/dropDatabas3/hellolist/internal/domain/repository"
)

type subscriberRepo struct {
	locker rwLocker
	st     func() *state
}

func (r *subscriberRepo) Insert(ctx context.Context, s repository.Subscriber) error {
	r.locker.Lock()
	defer r.locker.Unlock()
	st := r.st()
	if _, ok := st.subs[s.ID]; ok {
		return repository.ErrConflict
	}
	st.subs[s.ID] = s
	st.order = append(st.order, s.ID)
	return nil
}

func (r *subscriberRepo) InsertToken(ctx context.Context, subscriberID uuid.UUID, token string) error {
	r.locker.Lock()
	defer r.locker.Unlock()
	st := r.st()
	if _, ok := st.subs[subscriberID]; !ok {
		return repository.ErrNotFound
	}
	if _, ok := st.tokens[token]; ok {
		return repository.ErrConflict
	}
	st.tokens[token] = subscriberID
	return nil
}

func (r *subscriberRepo) SubscriberIDByToken(ctx context.Context, token string) (uuid.UUID, error) {
	r.locker.RLock()
	defer r.locker.RUnlock()
	id, ok := r.st().tokens[token]
	if !ok {
		return uuid.Nil, repository.ErrNotFound
	}
	return id, nil
}

func (r *subscriberRepo) Confirm(ctx context.Context, id uuid.UUID) error {
	r.locker.Lock()
	defer r.locker.Unlock()
	st := r.st()
	s, ok := st.subs[id]
	if !ok {
		return repository.ErrNotFound
	}
	s.Status = repository.StatusConfirmed
	st.subs[id] = s
	return nil
}

func (r *subscriberRepo) ListConfirmed(ctx context.Context) ([]repository.ConfirmedSubscriber, error) {
	r.locker.RLock()
	defer r.locker.RUnlock()
	st := r.st()
	var out []repository.ConfirmedSubscriber
	for _, id := range st.order {
		if s := st.subs[id]; s.Status == repository.StatusConfirmed {
			out = append(out, repository.ConfirmedSubscriber{ID: s.ID, Email: s.Email})
		}
	}
	return out, nil
}

func (r *subscriberRepo) Get(ctx context.Context, id uuid.UUID) (*repository.Subscriber, error) {
	r.locker.RLock()
	defer r.locker.RUnlock()
	s, ok := r.st().subs[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	return &s, nil
}

func (r *subscriberRepo) TokensFor(ctx context.Context, subscriberID uuid.UUID) ([]string, error) {
	r.locker.RLock()
	defer r.locker.RUnlock()
	var out []string
	for tok, id := range r.st().tokens {
		if id == subscriberID {
			out = append(out, tok)
		}
	}
	sort.Strings(out)
	return out, nil
}

type credentialRepo struct{ c *Conn }

func (r *credentialRepo) GetByUsername(ctx context.Context, username string) (*repository.Credential, error) {
	r.c.mu.RLock()
	defer r.c.mu.RUnlock()
	cred, ok := r.c.st.users[username]
	if !ok {
		return nil, repository.ErrNotFound
	}
	return &cred, nil
}

func (r *credentialRepo) Create(ctx context.Context, cred repository.Credential) error {
	r.c.mu.Lock()
	defer r.c.mu.Unlock()
	if _, ok := r.c.st.users[cred.Username]; ok {
		return repository.ErrConflict
	}
	r.c.st.users[cred.Username] = cred
	return nil
}
