package middlewares_test

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strconv"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrymomot/authflow/internal"
	"github.com/dmitrymomot/authflow/middlewares"
	"github.com/dmitrymomot/authflow/pkg/cache"
	"github.com/dmitrymomot/authflow/pkg/session"
)

type fakeUsers struct {
	users map[int64]*internal.Identity
	err   error
	calls atomic.Int32
}

func (f *fakeUsers) FindIdentity(_ context.Context, id int64) (*internal.Identity, error) {
	f.calls.Add(1)
	if f.err != nil {
		return nil, f.err
	}
	return f.users[id], nil
}

type authApp struct {
	*internal.App
	users       *fakeUsers
	loginCalled atomic.Int32
}

func newAuthApp(t *testing.T) *authApp {
	t.Helper()

	c := cache.NewMemory[session.Record]()
	t.Cleanup(func() { _ = c.Close() })

	a := &authApp{users: &fakeUsers{users: map[int64]*internal.Identity{
		1: {ID: 1, Username: "johndoe", Email: "john@example.com"},
	}}}
	a.App = internal.New(
		internal.WithSession(session.NewCacheStore(c)),
		internal.WithMiddleware(
			middlewares.Auth(a.users),
			middlewares.RedirectIfAuthenticated(""),
		),
		internal.WithHandlers(routes(func(r internal.Router) {
			r.POST("/signin", func(c internal.Context) error {
				id, _ := strconv.ParseInt(c.Query("id"), 10, 64)
				return c.AuthenticateSession(id)
			})
			r.POST("/remember", func(c internal.Context) error {
				return c.SetSessionValue("theme", "dark")
			})
			r.GET("/login", func(c internal.Context) error {
				a.loginCalled.Add(1)
				return c.String(http.StatusOK, "login form")
			})
			r.GET("/register", func(c internal.Context) error {
				return c.String(http.StatusOK, "register form")
			})
			r.GET("/home", func(c internal.Context) error {
				first, second := c.Identity(), c.Identity()
				if first != second {
					return errors.New("identity re-resolved")
				}
				return c.String(http.StatusOK, "Hello, "+first.Username+"!")
			}, middlewares.RequireAuth(""))
		})),
	)
	return a
}

// session returns a session cookie created by POST path.
func (a *authApp) session(t *testing.T, path string) *http.Cookie {
	t.Helper()
	w := serve(t, a, httptest.NewRequest(http.MethodPost, path, nil))
	for _, c := range w.Result().Cookies() {
		if c.Name == "__sid" {
			return c
		}
	}
	t.Fatalf("no session cookie from %s", path)
	return nil
}

func withSession(req *http.Request, c *http.Cookie) *http.Request {
	req.AddCookie(&http.Cookie{Name: c.Name, Value: c.Value})
	return req
}

func TestAuth(t *testing.T) {
	t.Parallel()

	t.Run("anonymous request skips the store", func(t *testing.T) {
		t.Parallel()
		a := newAuthApp(t)

		w := serve(t, a, get("/login"))
		assert.Equal(t, http.StatusOK, w.Code)
		assert.Equal(t, "login form", w.Body.String())
		assert.Equal(t, int32(1), a.loginCalled.Load())
		assert.Zero(t, a.users.calls.Load())
	})

	t.Run("session without user id skips the store", func(t *testing.T) {
		t.Parallel()
		a := newAuthApp(t)
		cookie := a.session(t, "/remember")

		w := serve(t, a, withSession(get("/login"), cookie))
		assert.Equal(t, "login form", w.Body.String())
		assert.Zero(t, a.users.calls.Load())
	})

	t.Run("identity is looked up once", func(t *testing.T) {
		t.Parallel()
		a := newAuthApp(t)
		cookie := a.session(t, "/signin?id=1")
		a.users.calls.Store(0)

		w := serve(t, a, withSession(get("/home"), cookie))
		assert.Equal(t, http.StatusOK, w.Code)
		assert.Equal(t, "Hello, johndoe!", w.Body.String())
		assert.Equal(t, int32(1), a.users.calls.Load())
	})

	t.Run("unknown user is anonymous", func(t *testing.T) {
		t.Parallel()
		a := newAuthApp(t)
		cookie := a.session(t, "/signin?id=99")

		w := serve(t, a, withSession(get("/login"), cookie))
		assert.Equal(t, "login form", w.Body.String())
	})

	t.Run("store failure aborts", func(t *testing.T) {
		t.Parallel()
		a := newAuthApp(t)
		cookie := a.session(t, "/signin?id=1")
		a.users.err = errors.New("connection refused")

		w := serve(t, a, withSession(get("/login"), cookie))
		assert.Equal(t, http.StatusInternalServerError, w.Code)
		assert.Empty(t, w.Body.String())
		assert.Zero(t, a.loginCalled.Load())
	})
}

func TestRedirectIfAuthenticated(t *testing.T) {
	t.Parallel()

	t.Run("signed in user is sent home", func(t *testing.T) {
		t.Parallel()
		a := newAuthApp(t)
		cookie := a.session(t, "/signin?id=1")

		for _, path := range []string{"/login", "/register"} {
			w := serve(t, a, withSession(get(path), cookie))
			assert.Equal(t, http.StatusFound, w.Code, path)
			assert.Equal(t, "/home", w.Header().Get("Location"), path)
		}
		assert.Zero(t, a.loginCalled.Load())
	})

	t.Run("htmx gets HX-Redirect", func(t *testing.T) {
		t.Parallel()
		a := newAuthApp(t)
		cookie := a.session(t, "/signin?id=1")

		w := serve(t, a, withSession(htmxGet("/login"), cookie))
		assert.Equal(t, http.StatusOK, w.Code)
		assert.Equal(t, "/home", w.Header().Get("HX-Redirect"))
		assert.Zero(t, a.loginCalled.Load())
	})

	t.Run("anonymous user reaches the form", func(t *testing.T) {
		t.Parallel()
		a := newAuthApp(t)

		req := get("/login?next=%2Fhome")
		w := serve(t, a, req)
		assert.Equal(t, http.StatusOK, w.Code)
		assert.Equal(t, "login form", w.Body.String())
		assert.Equal(t, int32(1), a.loginCalled.Load())
		assert.Equal(t, "/login", req.URL.Path)
		assert.Equal(t, "next=%2Fhome", req.URL.RawQuery)
		assert.Zero(t, a.users.calls.Load())
	})

	t.Run("other paths pass through", func(t *testing.T) {
		t.Parallel()
		a := newAuthApp(t)
		cookie := a.session(t, "/signin?id=1")

		w := serve(t, a, withSession(get("/home"), cookie))
		assert.Equal(t, http.StatusOK, w.Code)
	})

	t.Run("custom landing and paths", func(t *testing.T) {
		t.Parallel()
		var called bool
		app := internal.New(
			internal.WithMiddleware(
				func(next internal.HandlerFunc) internal.HandlerFunc {
					return func(c internal.Context) error {
						_, err := internal.ResolveIdentity(c, func(context.Context) (*internal.Identity, error) {
							return &internal.Identity{ID: 1}, nil
						})
						if err != nil {
							return err
						}
						return next(c)
					}
				},
				middlewares.RedirectIfAuthenticated("/dashboard", "/welcome"),
			),
			internal.WithHandlers(routes(func(r internal.Router) {
				r.GET("/welcome", func(c internal.Context) error {
					called = true
					return nil
				})
				r.GET("/login", func(c internal.Context) error {
					return c.String(http.StatusOK, "login")
				})
			})),
		)

		w := serve(t, app, get("/welcome"))
		assert.Equal(t, "/dashboard", w.Header().Get("Location"))
		assert.False(t, called)

		w = serve(t, app, get("/login"))
		assert.Equal(t, "login", w.Body.String())
	})
}

func TestRequireAuth(t *testing.T) {
	t.Parallel()

	a := newAuthApp(t)

	w := serve(t, a, get("/home"))
	assert.Equal(t, http.StatusFound, w.Code)
	assert.Equal(t, "/login", w.Header().Get("Location"))

	w = serve(t, a, htmxGet("/home"))
	assert.Equal(t, "/login", w.Header().Get("HX-Redirect"))
}

func TestUserIDExtractor(t *testing.T) {
	t.Parallel()

	extract := middlewares.UserIDExtractor()
	_, ok := extract(context.Background())
	require.False(t, ok)

	app := internal.New(internal.WithHandlers(routes(func(r internal.Router) {
		r.GET("/", func(c internal.Context) error {
			if _, err := internal.ResolveIdentity(c, func(context.Context) (*internal.Identity, error) {
				return &internal.Identity{ID: 42}, nil
			}); err != nil {
				return err
			}
			attr, ok := extract(c)
			if !ok {
				return errors.New("no user id")
			}
			return c.String(http.StatusOK, attr.String())
		})
	})))

	w := serve(t, app, get("/"))
	assert.Equal(t, "user_id=42", w.Body.String())
}
