package session

import (
	"context"
	"errors"
	"maps"
	"time"

	"github.com/dmitrymomot/authflow/pkg/cache"
)

// Store persists sessions by token.
type Store interface {
	// Get returns ErrNotFound for unknown tokens and ErrExpired for stale ones.
	Get(ctx context.Context, token string) (*Session, error)

	// Save writes the session under its current token.
	Save(ctx context.Context, s *Session) error

	// Delete removes the session stored under token. Unknown tokens are not an error.
	Delete(ctx context.Context, token string) error
}

// Record is the stored form of a Session.
type Record struct {
	CreatedAt time.Time      `json:"created_at"`
	ExpiresAt time.Time      `json:"expires_at"`
	Values    map[string]any `json:"values,omitempty"`
	ID        string         `json:"id"`
	IP        string         `json:"ip,omitempty"`
	UserAgent string         `json:"user_agent,omitempty"`
}

// CacheStore keeps sessions in a cache.Cache, using the remaining lifetime
// of each session as the entry TTL.
type CacheStore struct {
	cache  cache.Cache[Record]
	prefix string
	now    func() time.Time
}

// NewCacheStore creates a Store on top of c. Keys are "session:{token}".
func NewCacheStore(c cache.Cache[Record]) *CacheStore {
	return &CacheStore{cache: c, prefix: "session:", now: time.Now}
}

func (s *CacheStore) Get(ctx context.Context, token string) (*Session, error) {
	if token == "" {
		return nil, ErrNotFound
	}

	rec, err := s.cache.Get(ctx, s.prefix+token)
	if errors.Is(err, cache.ErrNotFound) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}

	sess := &Session{
		ID:        rec.ID,
		Token:     token,
		Values:    maps.Clone(rec.Values),
		CreatedAt: rec.CreatedAt,
		ExpiresAt: rec.ExpiresAt,
		IP:        rec.IP,
		UserAgent: rec.UserAgent,
	}
	if sess.Values == nil {
		sess.Values = make(map[string]any)
	}
	if sess.IsExpired(s.now()) {
		_ = s.cache.Delete(ctx, s.prefix+token)
		return nil, ErrExpired
	}
	return sess, nil
}

func (s *CacheStore) Save(ctx context.Context, sess *Session) error {
	ttl := -time.Second
	if !sess.ExpiresAt.IsZero() {
		ttl = sess.ExpiresAt.Sub(s.now())
		if ttl <= 0 {
			return ErrExpired
		}
	}

	rec := Record{
		ID:        sess.ID,
		Values:    maps.Clone(sess.Values),
		CreatedAt: sess.CreatedAt,
		ExpiresAt: sess.ExpiresAt,
		IP:        sess.IP,
		UserAgent: sess.UserAgent,
	}
	return s.cache.Set(ctx, s.prefix+sess.Token, rec, ttl)
}

func (s *CacheStore) Delete(ctx context.Context, token string) error {
	if token == "" {
		return nil
	}
	return s.cache.Delete(ctx, s.prefix+token)
}

var _ Store = (*CacheStore)(nil)
