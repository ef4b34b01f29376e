package app_test

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrymomot/authflow"
	"github.com/dmitrymomot/authflow/app"
	"github.com/dmitrymomot/authflow/app/repository"
	"github.com/dmitrymomot/authflow/pkg/cache"
	"github.com/dmitrymomot/authflow/pkg/health"
	"github.com/dmitrymomot/authflow/pkg/job"
	"github.com/dmitrymomot/authflow/pkg/logger"
	"github.com/dmitrymomot/authflow/pkg/password"
	"github.com/dmitrymomot/authflow/pkg/session"
)

type noUsers struct{}

func (noUsers) Create(context.Context, repository.NewUser) (repository.User, error) {
	return repository.User{}, errors.New("read only")
}

func (noUsers) FindByUsername(context.Context, string) (repository.User, error) {
	return repository.User{}, repository.ErrNotFound
}

func (noUsers) UsernameExists(context.Context, string) (bool, error) { return false, nil }
func (noUsers) EmailExists(context.Context, string) (bool, error)    { return false, nil }

func (noUsers) FindIdentity(context.Context, int64) (*authflow.Identity, error) { return nil, nil }

type noJobs struct{}

func (noJobs) Enqueue(context.Context, string, any, ...job.EnqueueOption) error { return nil }

func newServer(t *testing.T, readiness health.Checks) http.Handler {
	t.Helper()
	store := cache.NewMemory[session.Record]()
	t.Cleanup(func() { _ = store.Close() })

	return app.NewServer(app.Deps{
		Config: app.Config{
			RequestTimeout: time.Second,
			SessionCookie:  "__sid",
			SessionTTL:     time.Hour,
			CheckCacheTTL:  time.Second,
		},
		Logger:    logger.NewNope(),
		Users:     noUsers{},
		Hasher:    password.NewHasher(4),
		Jobs:      noJobs{},
		Sessions:  session.NewCacheStore(store),
		Readiness: readiness,
	})
}

func do(t *testing.T, h http.Handler, method, target string) *httptest.ResponseRecorder {
	t.Helper()
	w := httptest.NewRecorder()
	h.ServeHTTP(w, httptest.NewRequest(method, target, nil))
	return w
}

func TestServer(t *testing.T) {
	t.Parallel()

	t.Run("pages", func(t *testing.T) {
		t.Parallel()
		srv := newServer(t, nil)

		w := do(t, srv, http.MethodGet, "/register")
		assert.Equal(t, http.StatusOK, w.Code)
		assert.NotEmpty(t, w.Header().Get("X-Request-ID"))

		w = do(t, srv, http.MethodGet, "/")
		assert.Equal(t, http.StatusFound, w.Code)
		assert.Equal(t, "/login", w.Header().Get("Location"))
	})

	t.Run("static files", func(t *testing.T) {
		t.Parallel()
		w := do(t, newServer(t, nil), http.MethodGet, "/public/css/app.css")
		assert.Equal(t, http.StatusOK, w.Code)
		assert.Contains(t, w.Header().Get("Content-Type"), "text/css")
	})

	t.Run("health", func(t *testing.T) {
		t.Parallel()
		srv := newServer(t, health.Checks{
			"postgres": func(context.Context) error { return nil },
			"redis":    func(context.Context) error { return errors.New("down") },
		})

		assert.Equal(t, http.StatusOK, do(t, srv, http.MethodGet, "/health/live").Code)
		assert.Equal(t, http.StatusServiceUnavailable, do(t, srv, http.MethodGet, "/health/ready").Code)
	})

	t.Run("unknown route", func(t *testing.T) {
		t.Parallel()
		w := do(t, newServer(t, nil), http.MethodGet, "/nope")
		require.Equal(t, http.StatusNotFound, w.Code)
	})
}
