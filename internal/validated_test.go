package internal_test

import (
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/dmitrymomot/authflow/internal"
	"github.com/dmitrymomot/authflow/pkg/validator"
)

type subscribeForm struct {
	Email string `form:"email" sanitize:"trim,lower"`
	Name  string `form:"name" sanitize:"strip_html,trim"`
}

func (f *subscribeForm) Validate() error {
	return validator.Apply(
		validator.Required("email", f.Email),
		validator.Email("email", f.Email),
	)
}

func (f *subscribeForm) Render(bag *validator.ErrorBag) internal.Component {
	return text("email=" + f.Email + ";error=" + bag.First("email"))
}

func subscribeApp() *internal.App {
	return internal.New(internal.WithHandlers(routes(func(r internal.Router) {
		r.POST("/subscribe", func(c internal.Context) error {
			form, err := internal.ValidatedForm[subscribeForm](c)
			if err != nil {
				return err
			}
			if form.Email == "taken@example.com" {
				bag := validator.NewErrorBag()
				bag.Add("email", "Email is already in use.")
				return internal.Invalid(c, form, bag)
			}
			return c.String(http.StatusOK, form.Name+" <"+form.Email+">")
		})
	})))
}

func TestValidatedForm(t *testing.T) {
	t.Parallel()

	app := subscribeApp()

	t.Run("valid form is sanitized", func(t *testing.T) {
		t.Parallel()
		req := formRequest("/subscribe", url.Values{
			"email": {"  Ann@Example.COM "},
			"name":  {" <b>Ann</b> "},
		})
		w := serve(t, app, req)
		assert.Equal(t, http.StatusOK, w.Code)
		assert.Equal(t, "Ann <ann@example.com>", w.Body.String())
	})

	t.Run("invalid form renders fragment", func(t *testing.T) {
		t.Parallel()
		w := serve(t, app, asHTMX(formRequest("/subscribe", url.Values{"email": {"not-an-email"}})))
		assert.Equal(t, http.StatusOK, w.Code)
		assert.Equal(t, "email=not-an-email;error="+validator.MsgEmail, w.Body.String())
	})

	t.Run("missing field renders required message", func(t *testing.T) {
		t.Parallel()
		w := serve(t, app, formRequest("/subscribe", url.Values{}))
		assert.Contains(t, w.Body.String(), validator.MsgRequired)
	})

	t.Run("post validation failure uses the same path", func(t *testing.T) {
		t.Parallel()
		w := serve(t, app, formRequest("/subscribe", url.Values{"email": {"taken@example.com"}}))
		assert.Equal(t, http.StatusOK, w.Code)
		assert.Equal(t, "email=taken@example.com;error=Email is already in use.", w.Body.String())
	})

	t.Run("malformed body is an empty 200", func(t *testing.T) {
		t.Parallel()
		req := httptest.NewRequest(http.MethodPost, "/subscribe", strings.NewReader("email=%zz"))
		req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
		w := serve(t, app, asHTMX(req))
		assert.Equal(t, http.StatusOK, w.Code)
		assert.Empty(t, w.Body.String())
		assert.Equal(t, "none", w.Header().Get("HX-Reswap"))
	})

	t.Run("json body is a decode error", func(t *testing.T) {
		t.Parallel()
		req := httptest.NewRequest(http.MethodPost, "/subscribe", strings.NewReader(`{"email":"a@b.c"}`))
		req.Header.Set("Content-Type", "application/json")
		w := serve(t, app, req)
		assert.Equal(t, http.StatusOK, w.Code)
		assert.Empty(t, w.Body.String())
	})
}
