package htmx_test

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/dmitrymomot/authflow/pkg/htmx"
)

func newRequest(isHTMX bool) *http.Request {
	r := httptest.NewRequest(http.MethodPost, "/login", nil)
	if isHTMX {
		r.Header.Set(htmx.HeaderHXRequest, "true")
	}
	return r
}

func TestIsHTMX(t *testing.T) {
	t.Parallel()

	assert.True(t, htmx.IsHTMX(newRequest(true)))
	assert.False(t, htmx.IsHTMX(newRequest(false)))

	r := newRequest(false)
	r.Header.Set(htmx.HeaderHXRequest, "false")
	assert.False(t, htmx.IsHTMX(r))
}

func TestRedirect(t *testing.T) {
	t.Parallel()

	t.Run("htmx", func(t *testing.T) {
		t.Parallel()
		rec := httptest.NewRecorder()
		htmx.Redirect(rec, newRequest(true), "/home")
		assert.Equal(t, http.StatusOK, rec.Code)
		assert.Equal(t, "/home", rec.Header().Get(htmx.HeaderHXRedirect))
		assert.Empty(t, rec.Header().Get("Location"))
	})

	t.Run("plain", func(t *testing.T) {
		t.Parallel()
		rec := httptest.NewRecorder()
		htmx.RedirectWithStatus(rec, newRequest(false), "/home", http.StatusSeeOther)
		assert.Equal(t, http.StatusSeeOther, rec.Code)
		assert.Equal(t, "/home", rec.Header().Get("Location"))
		assert.Empty(t, rec.Header().Get(htmx.HeaderHXRedirect))
	})
}

func TestLocation(t *testing.T) {
	t.Parallel()

	t.Run("htmx", func(t *testing.T) {
		t.Parallel()
		rec := httptest.NewRecorder()
		htmx.Location(rec, newRequest(true), "/login")
		assert.Equal(t, http.StatusOK, rec.Code)
		assert.Equal(t, "/login", rec.Header().Get(htmx.HeaderHXLocation))
	})

	t.Run("plain", func(t *testing.T) {
		t.Parallel()
		rec := httptest.NewRecorder()
		htmx.Location(rec, newRequest(false), "/login")
		assert.Equal(t, http.StatusFound, rec.Code)
		assert.Equal(t, "/login", rec.Header().Get("Location"))
	})
}

func TestConfigApplyHeaders(t *testing.T) {
	t.Parallel()

	rec := httptest.NewRecorder()
	htmx.NewConfig(
		htmx.WithReswap(htmx.SwapNone),
		htmx.WithRetarget("#form"),
		htmx.WithTrigger("saved", "refresh"),
		htmx.WithPushURL("false"),
	).ApplyHeaders(rec)

	assert.Equal(t, "none", rec.Header().Get(htmx.HeaderHXReswap))
	assert.Equal(t, "#form", rec.Header().Get(htmx.HeaderHXRetarget))
	assert.Equal(t, "saved, refresh", rec.Header().Get(htmx.HeaderHXTrigger))
	assert.Equal(t, "false", rec.Header().Get(htmx.HeaderHXPushURL))

	var nilCfg *htmx.Config
	nilCfg.ApplyHeaders(httptest.NewRecorder())
}

func TestReswap(t *testing.T) {
	t.Parallel()

	rec := httptest.NewRecorder()
	htmx.Reswap(rec, htmx.SwapNone)
	assert.Equal(t, "none", rec.Header().Get(htmx.HeaderHXReswap))
}
