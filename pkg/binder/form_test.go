package binder_test

import (
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrymomot/authflow/pkg/binder"
)

type signup struct {
	Username string   `form:"username"`
	Email    *string  `form:"email"`
	Age      int      `form:"age"`
	Remember bool     `form:"remember"`
	Tags     []string `form:"tags"`
	Ignored  string
}

func formRequest(body string) *http.Request {
	req := httptest.NewRequest(http.MethodPost, "/register", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	return req
}

func TestForm(t *testing.T) {
	t.Parallel()

	t.Run("decodes supported types", func(t *testing.T) {
		t.Parallel()
		body := url.Values{
			"username": {"johndoe"},
			"email":    {"john@example.com"},
			"age":      {"42"},
			"remember": {"on"},
			"tags":     {"a", "", "b"},
			"Ignored":  {"x"},
		}.Encode()

		var dst signup
		require.NoError(t, binder.Form(formRequest(body), &dst))
		assert.Equal(t, "johndoe", dst.Username)
		require.NotNil(t, dst.Email)
		assert.Equal(t, "john@example.com", *dst.Email)
		assert.Equal(t, 42, dst.Age)
		assert.True(t, dst.Remember)
		assert.Equal(t, []string{"a", "b"}, dst.Tags)
		assert.Empty(t, dst.Ignored)
	})

	t.Run("empty values are missing", func(t *testing.T) {
		t.Parallel()
		var dst signup
		require.NoError(t, binder.Form(formRequest("username=&email=+++&age="), &dst))
		assert.Empty(t, dst.Username)
		assert.Nil(t, dst.Email)
		assert.Zero(t, dst.Age)
	})

	t.Run("invalid value leaves target untouched", func(t *testing.T) {
		t.Parallel()
		dst := signup{Username: "before"}
		err := binder.Form(formRequest("username=after&age=abc"), &dst)
		require.ErrorIs(t, err, binder.ErrInvalidValue)
		assert.Equal(t, "before", dst.Username)
	})

	t.Run("rejects repeated scalar", func(t *testing.T) {
		t.Parallel()
		var dst signup
		err := binder.Form(formRequest("username=a&username=b"), &dst)
		require.ErrorIs(t, err, binder.ErrInvalidValue)
	})

	t.Run("rejects non form content type", func(t *testing.T) {
		t.Parallel()
		req := httptest.NewRequest(http.MethodPost, "/register", strings.NewReader(`{"username":"x"}`))
		req.Header.Set("Content-Type", "application/json")
		var dst signup
		require.ErrorIs(t, binder.Form(req, &dst), binder.ErrUnsupportedMediaType)
	})

	t.Run("rejects missing content type", func(t *testing.T) {
		t.Parallel()
		req := httptest.NewRequest(http.MethodPost, "/register", strings.NewReader("username=x"))
		var dst signup
		require.ErrorIs(t, binder.Form(req, &dst), binder.ErrUnsupportedMediaType)
	})

	t.Run("rejects malformed encoding", func(t *testing.T) {
		t.Parallel()
		var dst signup
		require.ErrorIs(t, binder.Form(formRequest("username=%zz"), &dst), binder.ErrMalformedBody)
	})

	t.Run("rejects invalid target", func(t *testing.T) {
		t.Parallel()
		var dst signup
		require.ErrorIs(t, binder.Form(formRequest("username=x"), dst), binder.ErrInvalidTarget)
	})
}
