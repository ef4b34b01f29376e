package authflow

import (
	"context"
	"io/fs"
	"log/slog"
	"time"

	"github.com/dmitrymomot/authflow/internal"
	"github.com/dmitrymomot/authflow/pkg/cookie"
	"github.com/dmitrymomot/authflow/pkg/health"
	"github.com/dmitrymomot/authflow/pkg/job"
	"github.com/dmitrymomot/authflow/pkg/session"
	"github.com/dmitrymomot/authflow/pkg/validator"
)

// Type aliases - public API
type (
	// App wires routes, middleware and the error handler.
	App = internal.App

	// Router is the interface handlers use to declare routes.
	Router = internal.Router

	// Context provides request/response access and helper methods.
	Context = internal.Context

	// Handler declares routes on a router.
	Handler = internal.Handler

	// HandlerFunc is the signature for route handlers.
	HandlerFunc = internal.HandlerFunc

	// Middleware wraps a HandlerFunc to add cross-cutting concerns.
	Middleware = internal.Middleware

	// ErrorHandler turns handler errors into responses.
	ErrorHandler = internal.ErrorHandler

	// Option configures the application.
	Option = internal.Option

	// RunOption configures the server runtime.
	RunOption = internal.RunOption

	// HealthOption configures health check endpoints.
	HealthOption = internal.HealthOption

	// SessionOption configures the session cookie.
	SessionOption = internal.SessionOption

	// Component is anything that renders HTML, such as a templ component.
	Component = internal.Component

	// Validatable is a form request that validates and renders itself.
	Validatable = internal.Validatable

	// Identity is the authenticated user of a request.
	Identity = internal.Identity

	// ErrorBag holds field-keyed validation messages.
	ErrorBag = validator.ErrorBag

	// Error taxonomy.
	DecodeError     = internal.DecodeError
	ValidationError = internal.ValidationError
	ServerError     = internal.ServerError
	HTTPError       = internal.HTTPError

	// Extractor reads a value from the first source that has it.
	Extractor       = internal.Extractor
	ExtractorSource = internal.ExtractorSource

	// ResponseWriter wraps http.ResponseWriter with hooks and htmx status handling.
	ResponseWriter = internal.ResponseWriter

	Session      = session.Session
	SessionStore = session.Store
)

// New creates an application. The App is immutable after creation.
//
//	app := authflow.New(
//	    authflow.WithSession(store),
//	    authflow.WithMiddleware(middlewares.Auth(users)),
//	    authflow.WithHandlers(handlers.NewAuth(users, hasher, jobs)),
//	)
//
//	err := app.Run(":8080", authflow.Logger(log))
func New(opts ...Option) *App {
	return internal.New(opts...)
}

// ValidatedForm decodes, sanitizes and validates the urlencoded body into T.
// On failure it returns a *DecodeError or a *ValidationError carrying T's own
// rendering of the errors; return it from the handler as is.
//
//	req, err := authflow.ValidatedForm[requests.Register](c)
//	if err != nil {
//	    return err
//	}
func ValidatedForm[T any, PT interface {
	*T
	Validatable
}](c Context) (*T, error) {
	return internal.ValidatedForm[T, PT](c)
}

// Invalid renders v with bag as a *ValidationError, for failures found after
// validation such as a taken email.
func Invalid(c Context, v Validatable, bag *ErrorBag) error {
	return internal.Invalid(c, v, bag)
}

// NewErrorBag creates an empty ErrorBag.
func NewErrorBag() *ErrorBag {
	return validator.NewErrorBag()
}

// ResolveIdentity resolves the request identity with load once per request.
func ResolveIdentity(c Context, load func(ctx context.Context) (*Identity, error)) (*Identity, error) {
	return internal.ResolveIdentity(c, load)
}

// NewServerError wraps an infrastructure failure. msg is logged, never sent.
func NewServerError(msg string, err error) *ServerError {
	return internal.NewServerError(msg, err)
}

// NewHTTPError creates an error with a fixed status code and an empty body.
func NewHTTPError(code int, message string) *HTTPError {
	return internal.NewHTTPError(code, message)
}

// DefaultErrorHandler maps the error taxonomy to responses.
func DefaultErrorHandler(c Context, err error) error {
	return internal.DefaultErrorHandler(c, err)
}

// App options

// WithMiddleware adds global middleware. The first one runs first.
func WithMiddleware(mw ...Middleware) Option {
	return internal.WithMiddleware(mw...)
}

// WithHandlers registers handlers that declare routes.
func WithHandlers(h ...Handler) Option {
	return internal.WithHandlers(h...)
}

// WithStaticFiles serves subDir of fsys under prefix without directory listings.
//
//	//go:embed static
//	var assets embed.FS
//
//	authflow.WithStaticFiles("/public/", assets, "static")
func WithStaticFiles(prefix string, fsys fs.FS, subDir string) Option {
	return internal.WithStaticFiles(prefix, fsys, subDir)
}

func WithErrorHandler(h ErrorHandler) Option {
	return internal.WithErrorHandler(h)
}

func WithNotFoundHandler(h HandlerFunc) Option {
	return internal.WithNotFoundHandler(h)
}

func WithMethodNotAllowedHandler(h HandlerFunc) Option {
	return internal.WithMethodNotAllowedHandler(h)
}

// WithLogger sets the application logger. Build it with logger.New to get
// request_id and user_id on every record.
func WithLogger(l *slog.Logger) Option {
	return internal.WithLogger(l)
}

// WithCookies sets the cookie manager used for flash messages.
func WithCookies(cfg cookie.Config) Option {
	return internal.WithCookies(cookie.New(cfg))
}

// WithSession enables server-side sessions.
func WithSession(store SessionStore, opts ...SessionOption) Option {
	return internal.WithSession(store, opts...)
}

// WithJobs starts m with the server and stops it on shutdown.
func WithJobs(m *job.Manager) Option {
	return internal.WithJobs(m)
}

// WithHealthChecks mounts liveness and readiness endpoints.
//
//	authflow.WithHealthChecks(
//	    authflow.WithReadinessCheck("postgres", db.Healthcheck(pool)),
//	    authflow.WithReadinessCheck("redis", redis.Healthcheck(client)),
//	)
func WithHealthChecks(opts ...HealthOption) Option {
	return internal.WithHealthChecks(opts...)
}

func WithReadinessCheck(name string, fn health.CheckFunc) HealthOption {
	return internal.WithReadinessCheck(name, fn)
}

func WithLivenessPath(path string) HealthOption {
	return internal.WithLivenessPath(path)
}

func WithReadinessPath(path string) HealthOption {
	return internal.WithReadinessPath(path)
}

// Session options

func WithSessionCookieName(name string) SessionOption {
	return internal.WithSessionCookieName(name)
}

// WithSessionMaxAge sets the session lifetime in seconds.
func WithSessionMaxAge(seconds int) SessionOption {
	return internal.WithSessionMaxAge(seconds)
}

func WithSessionDomain(domain string) SessionOption {
	return internal.WithSessionDomain(domain)
}

func WithSessionSecure(secure bool) SessionOption {
	return internal.WithSessionSecure(secure)
}

// Run options

// Address sets the listen address.
func Address(addr string) RunOption {
	return internal.Address(addr)
}

// Logger sets the logger for server lifecycle messages.
func Logger(l *slog.Logger) RunOption {
	return internal.Logger(l)
}

func ShutdownTimeout(d time.Duration) RunOption {
	return internal.ShutdownTimeout(d)
}

// StartupHook runs before the server accepts connections.
func StartupHook(fn func(context.Context) error) RunOption {
	return internal.StartupHook(fn)
}

// ShutdownHook runs after the server stopped, in registration order.
func ShutdownHook(fn func(context.Context) error) RunOption {
	return internal.ShutdownHook(fn)
}

// WithContext sets the parent context of the server.
func WithContext(ctx context.Context) RunOption {
	return internal.WithContext(ctx)
}
