package internal

import (
	"context"
	"io"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/dmitrymomot/authflow/pkg/cookie"
	"github.com/dmitrymomot/authflow/pkg/htmx"
	"github.com/dmitrymomot/authflow/pkg/session"
)

// Component is anything that renders HTML. templ.Component satisfies it.
type Component interface {
	Render(ctx context.Context, w io.Writer) error
}

// Context is the per-request handle passed to handlers and middleware.
// It implements context.Context with the request's context.
type Context interface {
	context.Context

	Request() *http.Request
	Response() http.ResponseWriter
	ResponseWriter() *ResponseWriter

	// Context returns the request's context.
	Context() context.Context

	// SetContext replaces the request's context, e.g. to add a deadline.
	SetContext(ctx context.Context)

	// Param returns a URL path parameter.
	Param(name string) string
	Query(name string) string
	Form(name string) string
	Header(name string) string
	SetHeader(name, value string)
	IsHTMX() bool

	String(code int, s string) error
	NoContent(code int) error

	// Redirect does a full-page redirect; htmx requests get HX-Redirect.
	Redirect(code int, url string) error

	// Location navigates to path; htmx requests get HX-Location.
	Location(path string) error

	// Render writes component with code and applies htmx options for htmx requests.
	Render(code int, component Component, opts ...htmx.RenderOption) error

	// RenderPartial renders partial for htmx requests and fullPage otherwise.
	RenderPartial(code int, fullPage, partial Component, opts ...htmx.RenderOption) error

	// Error builds an HTTPError to return from the handler.
	Error(code int, message string) *HTTPError

	// HandleError runs the app's error handler now instead of leaving err to
	// the outermost stage. Middleware that needs the final status of a failed
	// request calls it and returns nil.
	HandleError(err error)

	Written() bool

	Logger() *slog.Logger
	LogDebug(msg string, attrs ...any)
	LogInfo(msg string, attrs ...any)
	LogWarn(msg string, attrs ...any)
	LogError(msg string, attrs ...any)

	// Set stores a value in the request context.
	Set(key, value any)
	Get(key any) any

	Cookie(name string) (string, error)
	SetCookie(name, value string, maxAge int)
	DeleteCookie(name string)
	CookieSigned(name string) (string, error)
	SetCookieSigned(name, value string, maxAge int) error

	// Flash reads and deletes a one-shot cookie. Returns cookie.ErrNotFound if unset.
	Flash(key string, dest any) error
	SetFlash(key string, value any) error

	// Session loads the request's session once. It returns nil, nil when the
	// visitor has none and session.ErrNotConfigured without a session manager.
	Session() (*session.Session, error)

	// AuthenticateSession stores userID in the session, rotating the token of
	// an existing session or creating a new one.
	AuthenticateSession(userID int64) error

	SessionValue(key string) (any, error)

	// SetSessionValue stores a value, creating the session if needed.
	SetSessionValue(key string, val any) error

	// DestroySession deletes the session and expires its cookie.
	DestroySession() error

	// Identity returns the user resolved by the Auth middleware, or nil.
	Identity() *Identity
	IsAuthenticated() bool
}

// requestState is shared by every Context created for one request.
type requestState struct {
	session  *session.Session
	identity *identityCell
	// err is returned by an inner stage and not yet handled.
	err            error
	sessionLoaded  bool
	hookRegistered bool
}

// takeError returns the pending error and clears it.
func (st *requestState) takeError() error {
	err := st.err
	st.err = nil
	return err
}

// stateOf returns the request state of c, installing one if c was not built
// by the App.
func stateOf(c Context) *requestState {
	if st, ok := c.Value(stateKey{}).(*requestState); ok {
		return st
	}
	st := &requestState{}
	c.Set(stateKey{}, st)
	return st
}

type stateKey struct{}

type requestContext struct {
	request  *http.Request
	response *ResponseWriter
	logger   *slog.Logger
	cookies  *cookie.Manager
	sessions *SessionManager
	state    *requestState
	app      *App
	// root is set on the outermost stage of the request, the one that
	// handles errors.
	root bool
}

// newContext reuses the response writer and request state installed by an
// outer stage of the same request.
func newContext(w http.ResponseWriter, r *http.Request, app *App) *requestContext {
	rw, ok := w.(*ResponseWriter)
	if !ok {
		rw = NewResponseWriter(w, htmx.IsHTMX(r))
	}

	st, nested := r.Context().Value(stateKey{}).(*requestState)
	if !nested {
		st = &requestState{}
		r = r.WithContext(context.WithValue(r.Context(), stateKey{}, st))
	}

	return &requestContext{
		request:  r,
		response: rw,
		logger:   app.logger,
		cookies:  app.cookies,
		sessions: app.sessions,
		state:    st,
		app:      app,
		root:     !nested,
	}
}

func (c *requestContext) Request() *http.Request          { return c.request }
func (c *requestContext) Response() http.ResponseWriter   { return c.response }
func (c *requestContext) ResponseWriter() *ResponseWriter { return c.response }
func (c *requestContext) Context() context.Context        { return c.request.Context() }
func (c *requestContext) Deadline() (time.Time, bool)     { return c.request.Context().Deadline() }
func (c *requestContext) Done() <-chan struct{}           { return c.request.Context().Done() }
func (c *requestContext) Err() error                      { return c.request.Context().Err() }
func (c *requestContext) Value(key any) any               { return c.request.Context().Value(key) }
func (c *requestContext) SetContext(ctx context.Context)  { c.request = c.request.WithContext(ctx) }
func (c *requestContext) Param(name string) string        { return chi.URLParam(c.request, name) }
func (c *requestContext) Query(name string) string        { return c.request.URL.Query().Get(name) }
func (c *requestContext) Form(name string) string         { return c.request.FormValue(name) }
func (c *requestContext) Header(name string) string       { return c.request.Header.Get(name) }
func (c *requestContext) SetHeader(name, value string)    { c.response.Header().Set(name, value) }
func (c *requestContext) IsHTMX() bool                    { return htmx.IsHTMX(c.request) }
func (c *requestContext) Written() bool                   { return c.response.Written() }
func (c *requestContext) Logger() *slog.Logger            { return c.logger }

func (c *requestContext) Error(code int, msg string) *HTTPError {
	return NewHTTPError(code, msg)
}

func (c *requestContext) HandleError(err error) {
	if err != nil {
		c.app.handleError(c, err)
	}
}

func (c *requestContext) String(code int, s string) error {
	c.response.Header().Set("Content-Type", "text/plain; charset=utf-8")
	c.response.WriteHeader(code)
	_, err := io.WriteString(c.response, s)
	return err
}

func (c *requestContext) NoContent(code int) error {
	c.response.WriteHeader(code)
	return nil
}

func (c *requestContext) Redirect(code int, url string) error {
	htmx.RedirectWithStatus(c.response, c.request, url, code)
	return nil
}

func (c *requestContext) Location(path string) error {
	htmx.Location(c.response, c.request, path)
	return nil
}

func (c *requestContext) Render(code int, component Component, opts ...htmx.RenderOption) error {
	c.response.Header().Set("Content-Type", "text/html; charset=utf-8")

	var cfg *htmx.Config
	if len(opts) > 0 && c.IsHTMX() {
		cfg = htmx.NewConfig(opts...)
		cfg.ApplyHeaders(c.response)
	}

	c.response.WriteHeader(code)
	if err := component.Render(c.Context(), c.response); err != nil {
		return err
	}

	if cfg != nil {
		for _, oob := range cfg.OOBComponents {
			if err := oob.Render(c.Context(), c.response); err != nil {
				return err
			}
		}
	}
	return nil
}

func (c *requestContext) RenderPartial(code int, fullPage, partial Component, opts ...htmx.RenderOption) error {
	if c.IsHTMX() {
		return c.Render(code, partial, opts...)
	}
	return c.Render(code, fullPage)
}

func (c *requestContext) LogDebug(msg string, attrs ...any) {
	c.logger.DebugContext(c.Context(), msg, attrs...)
}

func (c *requestContext) LogInfo(msg string, attrs ...any) {
	c.logger.InfoContext(c.Context(), msg, attrs...)
}

func (c *requestContext) LogWarn(msg string, attrs ...any) {
	c.logger.WarnContext(c.Context(), msg, attrs...)
}

func (c *requestContext) LogError(msg string, attrs ...any) {
	c.logger.ErrorContext(c.Context(), msg, attrs...)
}

func (c *requestContext) Set(key, value any) {
	c.SetContext(context.WithValue(c.request.Context(), key, value))
}

func (c *requestContext) Get(key any) any {
	return c.request.Context().Value(key)
}

func (c *requestContext) Cookie(name string) (string, error) {
	return c.cookies.Get(c.request, name)
}

func (c *requestContext) SetCookie(name, value string, maxAge int) {
	c.cookies.Set(c.response, name, value, maxAge)
}

func (c *requestContext) DeleteCookie(name string) {
	c.cookies.Delete(c.response, name)
}

func (c *requestContext) CookieSigned(name string) (string, error) {
	return c.cookies.GetSigned(c.request, name)
}

func (c *requestContext) SetCookieSigned(name, value string, maxAge int) error {
	return c.cookies.SetSigned(c.response, name, value, maxAge)
}

func (c *requestContext) Flash(key string, dest any) error {
	return c.cookies.Flash(c.response, c.request, key, dest)
}

func (c *requestContext) SetFlash(key string, value any) error {
	return c.cookies.SetFlash(c.response, key, value)
}

func (c *requestContext) Session() (*session.Session, error) {
	if c.sessions == nil {
		return nil, session.ErrNotConfigured
	}
	c.registerSessionHook()

	if c.state.sessionLoaded {
		return c.state.session, nil
	}
	sess, err := c.sessions.Load(c, c.request)
	if err != nil {
		return nil, err
	}
	c.state.session = sess
	c.state.sessionLoaded = true
	return sess, nil
}

// sessionForWrite returns the current session, creating one if the visitor has none.
func (c *requestContext) sessionForWrite() (*session.Session, bool, error) {
	sess, err := c.Session()
	if err != nil {
		return nil, false, err
	}
	if sess != nil {
		return sess, false, nil
	}
	sess, err = c.sessions.New(c.request)
	if err != nil {
		return nil, false, err
	}
	c.state.session = sess
	return sess, true, nil
}

func (c *requestContext) AuthenticateSession(userID int64) error {
	sess, created, err := c.sessionForWrite()
	if err != nil {
		return err
	}
	if !created {
		if err := c.sessions.Rotate(c, sess); err != nil {
			return err
		}
	}
	sess.SetValue(session.KeyUserID, userID)
	return nil
}

func (c *requestContext) SessionValue(key string) (any, error) {
	sess, err := c.Session()
	if err != nil {
		return nil, err
	}
	val, ok := sess.GetValue(key)
	if !ok {
		return nil, session.ErrNotFound
	}
	return val, nil
}

func (c *requestContext) SetSessionValue(key string, val any) error {
	sess, _, err := c.sessionForWrite()
	if err != nil {
		return err
	}
	sess.SetValue(key, val)
	return nil
}

func (c *requestContext) DestroySession() error {
	sess, err := c.Session()
	if err != nil {
		return err
	}
	c.state.session = nil
	c.sessions.ClearCookie(c.response)
	if sess == nil {
		return nil
	}
	return c.sessions.Destroy(c, sess)
}

// registerSessionHook saves a dirty session and sets its cookie right before
// the response header goes out.
func (c *requestContext) registerSessionHook() {
	if c.state.hookRegistered {
		return
	}
	c.state.hookRegistered = true
	c.response.OnBeforeWrite(func() {
		sess := c.state.session
		if sess == nil || !sess.IsDirty() {
			return
		}
		if err := c.sessions.Save(c, sess); err != nil {
			c.LogError("failed to save session", slog.Any("error", err))
			return
		}
		c.sessions.SetCookie(c.response, sess)
	})
}

func (c *requestContext) Identity() *Identity {
	return IdentityFromContext(c.request.Context())
}

func (c *requestContext) IsAuthenticated() bool {
	return c.Identity() != nil
}

// ContextValue returns the request context value under key as T.
func ContextValue[T any](c Context, key any) T {
	v, _ := c.Get(key).(T)
	return v
}
