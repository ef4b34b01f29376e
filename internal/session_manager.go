package internal

import (
	"context"
	"crypto/rand"
	"encoding/base64"
	"errors"
	"fmt"
	"net"
	"net/http"
	"time"

	"github.com/google/uuid"

	"github.com/dmitrymomot/authflow/pkg/session"
)

const (
	defaultSessionCookieName = "__sid"
	defaultSessionMaxAge     = 86400 * 30
)

// SessionManager ties a session.Store to the session cookie.
type SessionManager struct {
	store      session.Store
	cookieName string
	domain     string
	path       string
	maxAge     int
	sameSite   http.SameSite
	secure     bool
	now        func() time.Time
}

type SessionOption func(*SessionManager)

func NewSessionManager(store session.Store, opts ...SessionOption) *SessionManager {
	sm := &SessionManager{
		store:      store,
		cookieName: defaultSessionCookieName,
		maxAge:     defaultSessionMaxAge,
		path:       "/",
		sameSite:   http.SameSiteLaxMode,
		now:        time.Now,
	}
	for _, opt := range opts {
		opt(sm)
	}
	return sm
}

func WithSessionCookieName(name string) SessionOption {
	return func(sm *SessionManager) {
		if name != "" {
			sm.cookieName = name
		}
	}
}

// WithSessionMaxAge sets the session lifetime in seconds.
func WithSessionMaxAge(seconds int) SessionOption {
	return func(sm *SessionManager) {
		if seconds > 0 {
			sm.maxAge = seconds
		}
	}
}

func WithSessionDomain(domain string) SessionOption {
	return func(sm *SessionManager) { sm.domain = domain }
}

func WithSessionSecure(secure bool) SessionOption {
	return func(sm *SessionManager) { sm.secure = secure }
}

func WithSessionSameSite(sameSite http.SameSite) SessionOption {
	return func(sm *SessionManager) { sm.sameSite = sameSite }
}

// Load returns the session referenced by the request cookie.
// A missing cookie, an unknown token and an expired session all yield nil, nil.
// Any other store error is returned.
func (sm *SessionManager) Load(ctx context.Context, r *http.Request) (*session.Session, error) {
	c, err := r.Cookie(sm.cookieName)
	if err != nil || c.Value == "" {
		return nil, nil
	}

	sess, err := sm.store.Get(ctx, c.Value)
	switch {
	case errors.Is(err, session.ErrNotFound), errors.Is(err, session.ErrExpired):
		return nil, nil
	case err != nil:
		return nil, fmt.Errorf("load session: %w", err)
	}
	return sess, nil
}

// New creates an unsaved session for the request. It is persisted by Save.
func (sm *SessionManager) New(r *http.Request) (*session.Session, error) {
	token, err := generateToken()
	if err != nil {
		return nil, err
	}
	sess := session.New(uuid.NewString(), token, sm.now().Add(time.Duration(sm.maxAge)*time.Second))
	sess.IP = remoteIP(r)
	sess.UserAgent = r.UserAgent()
	return sess, nil
}

func (sm *SessionManager) Save(ctx context.Context, sess *session.Session) error {
	if err := sm.store.Save(ctx, sess); err != nil {
		return fmt.Errorf("save session: %w", err)
	}
	sess.ClearDirty()
	sess.ClearNew()
	return nil
}

// Rotate issues a new token and drops the stored entry under the old one.
// The session is saved under the new token by the next Save.
func (sm *SessionManager) Rotate(ctx context.Context, sess *session.Session) error {
	token, err := generateToken()
	if err != nil {
		return err
	}
	if err := sm.store.Delete(ctx, sess.Token); err != nil {
		return fmt.Errorf("rotate session: %w", err)
	}
	sess.Token = token
	sess.MarkDirty()
	return nil
}

func (sm *SessionManager) Destroy(ctx context.Context, sess *session.Session) error {
	if err := sm.store.Delete(ctx, sess.Token); err != nil {
		return fmt.Errorf("destroy session: %w", err)
	}
	return nil
}

// SetCookie writes the session cookie.
func (sm *SessionManager) SetCookie(w http.ResponseWriter, sess *session.Session) {
	http.SetCookie(w, sm.cookie(sess.Token, sm.maxAge))
}

// ClearCookie expires the session cookie.
func (sm *SessionManager) ClearCookie(w http.ResponseWriter) {
	http.SetCookie(w, sm.cookie("", -1))
}

func (sm *SessionManager) cookie(value string, maxAge int) *http.Cookie {
	return &http.Cookie{
		Name:     sm.cookieName,
		Value:    value,
		Path:     sm.path,
		Domain:   sm.domain,
		MaxAge:   maxAge,
		Secure:   sm.secure,
		HttpOnly: true,
		SameSite: sm.sameSite,
	}
}

func generateToken() (string, error) {
	b := make([]byte, 32)
	if _, err := rand.Read(b); err != nil {
		return "", fmt.Errorf("generate session token: %w", err)
	}
	return base64.RawURLEncoding.EncodeToString(b), nil
}

func remoteIP(r *http.Request) string {
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}
