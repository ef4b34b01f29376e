package cookie

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/base64"
	"encoding/json"
	"errors"
	"net/http"
	"strings"
)

var (
	ErrNotFound  = errors.New("cookie: not found")
	ErrNoSecret  = errors.New("cookie: secret required")
	ErrBadSig    = errors.New("cookie: invalid signature")
	ErrBadFormat = errors.New("cookie: malformed value")
)

const (
	flashPrefix  = "flash_"
	minSecretLen = 32
)

// Config holds the attributes applied to every cookie.
type Config struct {
	Secret   string `env:"COOKIE_SECRET"`
	Domain   string `env:"COOKIE_DOMAIN"`
	Path     string `env:"COOKIE_PATH" envDefault:"/"`
	Secure   bool   `env:"COOKIE_SECURE" envDefault:"false"`
	SameSite http.SameSite
}

// Manager handles cookie operations.
type Manager struct {
	secret   []byte // nil disables signing
	domain   string
	path     string
	secure   bool
	sameSite http.SameSite
}

// New creates a Manager. Secrets shorter than 32 bytes are ignored.
func New(cfg Config) *Manager {
	m := &Manager{
		domain:   cfg.Domain,
		path:     cfg.Path,
		secure:   cfg.Secure,
		sameSite: cfg.SameSite,
	}
	if len(cfg.Secret) >= minSecretLen {
		m.secret = []byte(cfg.Secret)
	}
	if m.path == "" {
		m.path = "/"
	}
	if m.sameSite == 0 {
		m.sameSite = http.SameSiteLaxMode
	}
	return m
}

// Get returns a plain cookie value.
func (m *Manager) Get(r *http.Request, name string) (string, error) {
	c, err := r.Cookie(name)
	if errors.Is(err, http.ErrNoCookie) {
		return "", ErrNotFound
	}
	if err != nil {
		return "", err
	}
	return c.Value, nil
}

// Set sets an HttpOnly cookie. maxAge 0 makes it a browser-session cookie.
func (m *Manager) Set(w http.ResponseWriter, name, value string, maxAge int) {
	http.SetCookie(w, m.cookie(name, value, maxAge))
}

// Delete expires a cookie.
func (m *Manager) Delete(w http.ResponseWriter, name string) {
	http.SetCookie(w, m.cookie(name, "", -1))
}

// GetSigned returns the value of a cookie written by SetSigned.
func (m *Manager) GetSigned(r *http.Request, name string) (string, error) {
	if m.secret == nil {
		return "", ErrNoSecret
	}
	raw, err := m.Get(r, name)
	if err != nil {
		return "", err
	}

	// base64(value).base64(hmac)
	encValue, encSig, ok := strings.Cut(raw, ".")
	if !ok {
		return "", ErrBadSig
	}
	value, err := base64.RawURLEncoding.DecodeString(encValue)
	if err != nil {
		return "", ErrBadSig
	}
	sig, err := base64.RawURLEncoding.DecodeString(encSig)
	if err != nil {
		return "", ErrBadSig
	}
	if !hmac.Equal(sig, m.sign(value)) {
		return "", ErrBadSig
	}
	return string(value), nil
}

// SetSigned sets a cookie whose value is tamper-evident.
func (m *Manager) SetSigned(w http.ResponseWriter, name, value string, maxAge int) error {
	if m.secret == nil {
		return ErrNoSecret
	}
	encoded := base64.RawURLEncoding.EncodeToString([]byte(value)) +
		"." + base64.RawURLEncoding.EncodeToString(m.sign([]byte(value)))
	m.Set(w, name, encoded, maxAge)
	return nil
}

// SetFlash stores value for the next request.
func (m *Manager) SetFlash(w http.ResponseWriter, key string, value any) error {
	data, err := json.Marshal(value)
	if err != nil {
		return err
	}
	if m.secret != nil {
		return m.SetSigned(w, flashPrefix+key, string(data), 0)
	}
	m.Set(w, flashPrefix+key, base64.RawURLEncoding.EncodeToString(data), 0)
	return nil
}

// Flash decodes a flash value into dest and deletes the cookie.
// Returns ErrNotFound when no flash is set under key.
func (m *Manager) Flash(w http.ResponseWriter, r *http.Request, key string, dest any) error {
	name := flashPrefix + key

	var raw string
	if m.secret != nil {
		v, err := m.GetSigned(r, name)
		if err != nil {
			return err
		}
		raw = v
	} else {
		v, err := m.Get(r, name)
		if err != nil {
			return err
		}
		data, err := base64.RawURLEncoding.DecodeString(v)
		if err != nil {
			m.Delete(w, name)
			return ErrBadFormat
		}
		raw = string(data)
	}

	m.Delete(w, name)
	if err := json.Unmarshal([]byte(raw), dest); err != nil {
		return errors.Join(ErrBadFormat, err)
	}
	return nil
}

func (m *Manager) sign(value []byte) []byte {
	mac := hmac.New(sha256.New, m.secret)
	mac.Write(value)
	return mac.Sum(nil)
}

func (m *Manager) cookie(name, value string, maxAge int) *http.Cookie {
	return &http.Cookie{
		Name:     name,
		Value:    value,
		Path:     m.path,
		Domain:   m.domain,
		MaxAge:   maxAge,
		Secure:   m.secure,
		HttpOnly: true,
		SameSite: m.sameSite,
	}
}
