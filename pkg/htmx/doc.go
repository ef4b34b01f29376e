// Package htmx speaks the htmx response-header protocol.
//
// Navigation helpers degrade to plain HTTP redirects when the request did
// not come from htmx, so handlers can call them unconditionally:
//
//	htmx.Location(w, r, "/login")   // HX-Location for htmx, 302 otherwise
//	htmx.Redirect(w, r, "/home")    // HX-Redirect for htmx, 302 otherwise
//
// Render options set swap-control headers on fragment responses:
//
//	cfg := htmx.NewConfig(htmx.WithReswap(htmx.SwapNone))
//	cfg.ApplyHeaders(w)
package htmx
