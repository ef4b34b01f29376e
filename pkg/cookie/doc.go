// Package cookie reads and writes HTTP cookies with shared attributes,
// optional HMAC signatures and one-shot flash values.
//
//	m := cookie.New(cookie.Config{Secret: os.Getenv("COOKIE_SECRET"), Secure: true})
//	_ = m.SetFlash(w, "successfully_registered", true)
//	...
//	var registered bool
//	if err := m.Flash(w, r, "successfully_registered", &registered); err == nil && registered {
//		// show banner
//	}
//
// Flash values are signed when a secret is configured and stored as plain
// JSON otherwise. They are removed on first read.
package cookie
