package session

import (
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"time"
)

// Well-known value keys.
const (
	KeyUserID   = "user_id"
	KeyUsername = "username"
	KeyEmail    = "email"
)

// Session is server-side state addressed by an opaque cookie token.
type Session struct {
	CreatedAt time.Time
	ExpiresAt time.Time

	Values    map[string]any
	ID        string // stable across token rotation
	Token     string // cookie value
	IP        string
	UserAgent string

	dirty bool
	isNew bool
}

// New creates a session that is both new and dirty.
func New(id, token string, expiresAt time.Time) *Session {
	return &Session{
		ID:        id,
		Token:     token,
		Values:    make(map[string]any),
		CreatedAt: time.Now(),
		ExpiresAt: expiresAt,
		isNew:     true,
		dirty:     true,
	}
}

// SetValue stores a value and marks the session dirty.
func (s *Session) SetValue(key string, val any) {
	if s.Values == nil {
		s.Values = make(map[string]any)
	}
	s.Values[key] = val
	s.dirty = true
}

func (s *Session) GetValue(key string) (any, bool) {
	if s == nil || s.Values == nil {
		return nil, false
	}
	val, ok := s.Values[key]
	return val, ok
}

// DeleteValue removes a value, marking the session dirty only if it existed.
func (s *Session) DeleteValue(key string) {
	if _, ok := s.GetValue(key); ok {
		delete(s.Values, key)
		s.dirty = true
	}
}

// Clear drops every value.
func (s *Session) Clear() {
	if len(s.Values) > 0 {
		s.Values = make(map[string]any)
		s.dirty = true
	}
}

// UserID returns the authenticated user id, or 0 for an anonymous session.
func (s *Session) UserID() int64 {
	id, err := Int64(s, KeyUserID)
	if err != nil {
		return 0
	}
	return id
}

// IsAuthenticated reports whether a user id is stored.
func (s *Session) IsAuthenticated() bool {
	return s.UserID() > 0
}

func (s *Session) IsDirty() bool { return s.dirty }
func (s *Session) MarkDirty()    { s.dirty = true }
func (s *Session) ClearDirty()   { s.dirty = false }
func (s *Session) IsNew() bool   { return s.isNew }
func (s *Session) ClearNew()     { s.isNew = false }

// IsExpired reports whether the session is past its expiry at now.
func (s *Session) IsExpired(now time.Time) bool {
	return !s.ExpiresAt.IsZero() && now.After(s.ExpiresAt)
}

// Value returns the value under key asserted to T.
func Value[T any](s *Session, key string) (T, error) {
	var zero T
	val, ok := s.GetValue(key)
	if !ok {
		return zero, ErrNotFound
	}
	typed, ok := val.(T)
	if !ok {
		return zero, fmt.Errorf("%w: %s is %T", ErrTypeMismatch, key, val)
	}
	return typed, nil
}

// ValueOr returns the value under key or def when it is absent or not a T.
func ValueOr[T any](s *Session, key string, def T) T {
	val, err := Value[T](s, key)
	if err != nil {
		return def
	}
	return val
}

// Int64 reads an integer value. Values that went through a JSON store come
// back as float64 or json.Number, so both are accepted when integral.
func Int64(s *Session, key string) (int64, error) {
	val, ok := s.GetValue(key)
	if !ok {
		return 0, ErrNotFound
	}

	switch v := val.(type) {
	case int64:
		return v, nil
	case int:
		return int64(v), nil
	case int32:
		return int64(v), nil
	case float64:
		if v != math.Trunc(v) || v > math.MaxInt64 || v < math.MinInt64 {
			return 0, fmt.Errorf("%w: %s is not an integer", ErrTypeMismatch, key)
		}
		return int64(v), nil
	case json.Number:
		n, err := v.Int64()
		if err != nil {
			return 0, errors.Join(ErrTypeMismatch, err)
		}
		return n, nil
	default:
		return 0, fmt.Errorf("%w: %s is %T", ErrTypeMismatch, key, val)
	}
}
