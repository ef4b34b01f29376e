// Package authflow is a server-rendered authentication flow for htmx
// front ends: registration, login and live duplicate checks.
//
// The package exposes the request pipeline the flow is built on:
//
//   - [ValidatedForm] decodes a form into a [Validatable] request and returns
//     either the value or an error carrying the form re-rendered with inline
//     errors.
//   - [DefaultErrorHandler] maps the error taxonomy to responses: a
//     [ValidationError] is sent as a 200 fragment, a [DecodeError] as an empty
//     200 that leaves the page untouched, and everything else as an empty 500.
//   - The Auth middleware in package middlewares resolves the [Identity] from
//     the session once per request; handlers read it with Context.Identity.
//
// # Quick Start
//
//	app := authflow.New(
//	    authflow.WithSession(session.NewCacheStore(cache.NewRedis[session.Record](client))),
//	    authflow.WithMiddleware(
//	        middlewares.Recover(),
//	        middlewares.RequestID(),
//	        middlewares.Auth(users),
//	        middlewares.RedirectIfAuthenticated("/home"),
//	    ),
//	    authflow.WithHandlers(handlers.NewAuth(users, hasher, jobs)),
//	)
//
//	if err := app.Run(":8080"); err != nil {
//	    log.Fatal(err)
//	}
//
// # Requests
//
// A request type decodes with `form` tags, cleans input with `sanitize` tags,
// and implements Validate and Render:
//
//	type Login struct {
//	    Username string `form:"username" sanitize:"trim"`
//	    Password string `form:"password"`
//	}
//
//	func (r *Login) Validate() error {
//	    return validator.Apply(
//	        validator.Required("username", r.Username),
//	        validator.Required("password", r.Password),
//	    )
//	}
//
//	func (r *Login) Render(bag *validator.ErrorBag) authflow.Component {
//	    return views.LoginForm(r.Username, bag)
//	}
package authflow
