package handlers_test

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/dmitrymomot/authflow"
	"github.com/dmitrymomot/authflow/app/handlers"
	"github.com/dmitrymomot/authflow/app/repository"
	"github.com/dmitrymomot/authflow/middlewares"
	"github.com/dmitrymomot/authflow/pkg/cache"
	"github.com/dmitrymomot/authflow/pkg/job"
	"github.com/dmitrymomot/authflow/pkg/password"
	"github.com/dmitrymomot/authflow/pkg/session"
)

var hasher = password.NewHasher(bcrypt.MinCost)

// memUsers is an in-memory user store.
type memUsers struct {
	users   map[string]repository.User
	err     error
	lookups atomic.Int32
	mu      sync.Mutex
	nextID  int64
}

func newMemUsers() *memUsers {
	return &memUsers{users: make(map[string]repository.User)}
}

func (s *memUsers) add(t *testing.T, username, email, plain string) repository.User {
	t.Helper()
	hash, err := hasher.Hash(plain)
	require.NoError(t, err)
	u, err := s.Create(context.Background(), repository.NewUser{Username: username, Email: email, PasswordHash: hash})
	require.NoError(t, err)
	return u
}

func (s *memUsers) Create(_ context.Context, nu repository.NewUser) (repository.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.err != nil {
		return repository.User{}, s.err
	}
	for _, u := range s.users {
		if u.Username == nu.Username {
			return repository.User{}, repository.ErrUsernameTaken
		}
		if u.Email == nu.Email {
			return repository.User{}, repository.ErrEmailTaken
		}
	}
	s.nextID++
	u := repository.User{
		ID:           s.nextID,
		Username:     nu.Username,
		Email:        nu.Email,
		PasswordHash: nu.PasswordHash,
		CreatedAt:    time.Now(),
	}
	s.users[u.Username] = u
	return u, nil
}

func (s *memUsers) FindByUsername(_ context.Context, username string) (repository.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.err != nil {
		return repository.User{}, s.err
	}
	u, ok := s.users[username]
	if !ok {
		return repository.User{}, repository.ErrNotFound
	}
	return u, nil
}

func (s *memUsers) FindIdentity(_ context.Context, id int64) (*authflow.Identity, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, u := range s.users {
		if u.ID == id {
			return u.Identity(), nil
		}
	}
	return nil, nil
}

func (s *memUsers) UsernameExists(_ context.Context, username string) (bool, error) {
	s.lookups.Add(1)
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.err != nil {
		return false, s.err
	}
	_, ok := s.users[username]
	return ok, nil
}

func (s *memUsers) EmailExists(_ context.Context, email string) (bool, error) {
	s.lookups.Add(1)
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.err != nil {
		return false, s.err
	}
	for _, u := range s.users {
		if u.Email == email {
			return true, nil
		}
	}
	return false, nil
}

type enqueued struct {
	payload any
	name    string
}

// jobRecorder is a job.Enqueuer that records inserts.
type jobRecorder struct {
	err  error
	jobs []enqueued
	mu   sync.Mutex
}

func (j *jobRecorder) Enqueue(_ context.Context, name string, payload any, _ ...job.EnqueueOption) error {
	j.mu.Lock()
	defer j.mu.Unlock()
	if j.err != nil {
		return j.err
	}
	j.jobs = append(j.jobs, enqueued{name: name, payload: payload})
	return nil
}

func newApp(t *testing.T, users *memUsers, jobs *jobRecorder, opts ...handlers.ChecksOption) *authflow.App {
	t.Helper()
	store := cache.NewMemory[session.Record]()
	t.Cleanup(func() { _ = store.Close() })

	return authflow.New(
		authflow.WithSession(session.NewCacheStore(store)),
		authflow.WithMiddleware(
			middlewares.Auth(users),
			middlewares.RedirectIfAuthenticated(""),
		),
		authflow.WithHandlers(
			handlers.NewAuth(users, hasher, jobs),
			handlers.NewChecks(users, opts...),
			handlers.NewPages(),
		),
	)
}

func serve(t *testing.T, h http.Handler, req *http.Request) *httptest.ResponseRecorder {
	t.Helper()
	w := httptest.NewRecorder()
	h.ServeHTTP(w, req)
	return w
}

func htmxForm(target string, values url.Values) *http.Request {
	req := httptest.NewRequest(http.MethodPost, target, strings.NewReader(values.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	req.Header.Set("HX-Request", "true")
	return req
}

func get(target string, cookies ...*http.Cookie) *http.Request {
	req := httptest.NewRequest(http.MethodGet, target, nil)
	for _, c := range cookies {
		req.AddCookie(c)
	}
	return req
}

func cookieNamed(w *httptest.ResponseRecorder, name string) *http.Cookie {
	for _, c := range w.Result().Cookies() {
		if c.Name == name {
			return c
		}
	}
	return nil
}

// signIn posts valid credentials and returns the session cookie.
func signIn(t *testing.T, app http.Handler, username, plain string) *http.Cookie {
	t.Helper()
	w := serve(t, app, htmxForm("/login", url.Values{"username": {username}, "password": {plain}}))
	require.Equal(t, "/home", w.Header().Get("HX-Location"))
	sid := cookieNamed(w, "__sid")
	require.NotNil(t, sid)
	return sid
}

var errStore = errors.New("store unavailable")
