package internal

import (
	"net/http"

	"github.com/go-chi/chi/v5"
)

// Router is what handlers declare their routes on.
type Router interface {
	GET(path string, h HandlerFunc, mw ...Middleware)
	POST(path string, h HandlerFunc, mw ...Middleware)
	PUT(path string, h HandlerFunc, mw ...Middleware)
	DELETE(path string, h HandlerFunc, mw ...Middleware)

	// Group creates an inline group sharing middleware added with Use.
	Group(fn func(r Router))

	// Route creates a group under a path prefix.
	Route(pattern string, fn func(r Router))

	Use(mw ...Middleware)

	// Mount attaches a plain http.Handler.
	Mount(pattern string, h http.Handler)
}

type routerAdapter struct {
	router chi.Router
	app    *App
}

func (r *routerAdapter) GET(path string, h HandlerFunc, mw ...Middleware) {
	r.router.Get(path, r.app.wrapHandler(Chain(h, mw...)))
}

func (r *routerAdapter) POST(path string, h HandlerFunc, mw ...Middleware) {
	r.router.Post(path, r.app.wrapHandler(Chain(h, mw...)))
}

func (r *routerAdapter) PUT(path string, h HandlerFunc, mw ...Middleware) {
	r.router.Put(path, r.app.wrapHandler(Chain(h, mw...)))
}

func (r *routerAdapter) DELETE(path string, h HandlerFunc, mw ...Middleware) {
	r.router.Delete(path, r.app.wrapHandler(Chain(h, mw...)))
}

func (r *routerAdapter) Group(fn func(Router)) {
	r.router.Group(func(cr chi.Router) {
		fn(&routerAdapter{router: cr, app: r.app})
	})
}

func (r *routerAdapter) Route(pattern string, fn func(Router)) {
	r.router.Route(pattern, func(cr chi.Router) {
		fn(&routerAdapter{router: cr, app: r.app})
	})
}

func (r *routerAdapter) Use(mw ...Middleware) {
	for _, m := range mw {
		r.router.Use(r.app.adaptMiddleware(m))
	}
}

func (r *routerAdapter) Mount(pattern string, h http.Handler) {
	r.router.Mount(pattern, h)
}

// adaptMiddleware turns a Middleware into chi middleware. The Context built
// here hands its (possibly updated) request to the next stage, and next
// returns the error left by the inner stages. Only the outermost stage
// handles errors, so every middleware sees what happened inside it.
func (a *App) adaptMiddleware(mw Middleware) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			c := newContext(w, r, a)
			h := mw(func(inner Context) error {
				next.ServeHTTP(inner.Response(), inner.Request())
				return c.state.takeError()
			})
			a.finish(c, h(c))
		})
	}
}

// wrapHandler adapts h to net/http. A handler that returns without writing
// gets an empty 200 so that pending hooks such as the session save still run.
func (a *App) wrapHandler(h HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		c := newContext(w, r, a)
		if err := h(c); err != nil {
			a.finish(c, err)
			return
		}
		if !c.Written() {
			c.response.WriteHeader(http.StatusOK)
		}
	}
}

// finish handles err on the outermost stage and passes it up otherwise.
func (a *App) finish(c *requestContext, err error) {
	if err == nil {
		return
	}
	if !c.root {
		c.state.err = err
		return
	}
	a.handleError(c, err)
}

func (a *App) handleError(c Context, err error) {
	if c.Written() {
		c.LogError("error after response was written", "error", err)
		return
	}
	if herr := a.errorHandler(c, err); herr != nil {
		c.LogError("error handler failed", "error", herr, "cause", err)
	}
}
