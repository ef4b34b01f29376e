package middlewares_test

import (
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrymomot/authflow/internal"
	"github.com/dmitrymomot/authflow/middlewares"
)

func panicApp(got *error, value any, opts ...middlewares.RecoverOption) *internal.App {
	return internal.New(
		internal.WithErrorHandler(captureErrors(got)),
		internal.WithHandlers(routes(func(r internal.Router) {
			r.GET("/", func(c internal.Context) error {
				panic(value)
			}, middlewares.Recover(opts...))
			r.GET("/ok", func(c internal.Context) error {
				return c.String(http.StatusOK, "fine")
			}, middlewares.Recover(opts...))
		})),
	)
}

func TestRecover(t *testing.T) {
	t.Parallel()

	t.Run("panic becomes an empty 500", func(t *testing.T) {
		t.Parallel()
		var got error
		app := panicApp(&got, "test panic")

		w := serve(t, app, get("/"))
		assert.Equal(t, http.StatusInternalServerError, w.Code)
		assert.Empty(t, w.Body.String())

		var serverErr *internal.ServerError
		require.ErrorAs(t, got, &serverErr)
		pe, ok := middlewares.AsPanicError(got)
		require.True(t, ok)
		assert.Equal(t, "test panic", pe.Value)
		assert.NotEmpty(t, pe.Stack)
	})

	t.Run("htmx keeps the 500", func(t *testing.T) {
		t.Parallel()
		var got error
		w := serve(t, panicApp(&got, "boom"), htmxGet("/"))
		assert.Equal(t, http.StatusInternalServerError, w.Code)
	})

	t.Run("stack can be disabled", func(t *testing.T) {
		t.Parallel()
		var got error
		serve(t, panicApp(&got, "boom", middlewares.WithRecoverDisablePrintStack()), get("/"))

		pe, ok := middlewares.AsPanicError(got)
		require.True(t, ok)
		assert.Nil(t, pe.Stack)
	})

	t.Run("stack size is bounded", func(t *testing.T) {
		t.Parallel()
		var got error
		serve(t, panicApp(&got, "boom", middlewares.WithRecoverStackSize(64)), get("/"))

		pe, ok := middlewares.AsPanicError(got)
		require.True(t, ok)
		assert.LessOrEqual(t, len(pe.Stack), 64)
	})

	t.Run("passes through without panic", func(t *testing.T) {
		t.Parallel()
		var got error
		w := serve(t, panicApp(&got, nil), get("/ok"))
		assert.Equal(t, "fine", w.Body.String())
		assert.NoError(t, got)
	})

	t.Run("abort handler is re-panicked", func(t *testing.T) {
		t.Parallel()
		var got error
		app := panicApp(&got, http.ErrAbortHandler)
		assert.PanicsWithValue(t, http.ErrAbortHandler, func() {
			serve(t, app, get("/"))
		})
	})
}
