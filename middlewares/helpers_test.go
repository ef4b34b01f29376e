package middlewares_test

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/dmitrymomot/authflow/internal"
)

type routes func(r internal.Router)

func (f routes) Routes(r internal.Router) { f(r) }

func serve(t *testing.T, h http.Handler, req *http.Request) *httptest.ResponseRecorder {
	t.Helper()
	w := httptest.NewRecorder()
	h.ServeHTTP(w, req)
	return w
}

func get(path string) *http.Request {
	return httptest.NewRequest(http.MethodGet, path, nil)
}

func htmxGet(path string) *http.Request {
	req := get(path)
	req.Header.Set("HX-Request", "true")
	return req
}

// captureErrors returns an error handler that records the error and then
// delegates to the default one.
func captureErrors(dst *error) internal.ErrorHandler {
	return func(c internal.Context, err error) error {
		*dst = err
		return internal.DefaultErrorHandler(c, err)
	}
}
