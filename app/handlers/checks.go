package handlers

import (
	"context"
	"net/http"
	"strings"
	"time"

	"github.com/dmitrymomot/authflow"
	"github.com/dmitrymomot/authflow/app/requests"
	"github.com/dmitrymomot/authflow/app/views"
	"github.com/dmitrymomot/authflow/pkg/cache"
)

// Live check messages.
const (
	MsgUsernameExists = "Already exists."
	MsgEmailExists    = "Email already exists."
)

// Lookup answers the live availability checks.
type Lookup interface {
	UsernameExists(ctx context.Context, username string) (bool, error)
	EmailExists(ctx context.Context, email string) (bool, error)
}

// ChecksOption configures Checks.
type ChecksOption func(*Checks)

// WithLookupCache caches lookup results in c for ttl. Concurrent lookups of
// the same value share one query.
func WithLookupCache(c cache.Cache[bool], ttl time.Duration) ChecksOption {
	return func(h *Checks) {
		if c != nil {
			h.loader = cache.NewLoader(c, ttl)
		}
	}
}

// Checks serves the per-field checks posted while the register form is typed in.
type Checks struct {
	users  Lookup
	loader *cache.Loader[bool]
}

func NewChecks(users Lookup, opts ...ChecksOption) *Checks {
	h := &Checks{users: users}
	for _, opt := range opts {
		opt(h)
	}
	return h
}

func (h *Checks) Routes(r authflow.Router) {
	r.POST(views.CheckUsernamePath, h.checkUsername)
	r.POST(views.CheckEmailPath, h.checkEmail)
}

func (h *Checks) checkUsername(c authflow.Context) error {
	req, err := authflow.ValidatedForm[requests.CheckUsername](c)
	if err != nil {
		return err
	}

	taken, err := h.exists(c, "username:"+req.Username, func(ctx context.Context) (bool, error) {
		return h.users.UsernameExists(ctx, req.Username)
	})
	if err != nil {
		return authflow.NewServerError("check username", err)
	}
	if taken {
		return invalid(c, req, "username", MsgUsernameExists)
	}
	return c.Render(http.StatusOK, req.Render(nil))
}

func (h *Checks) checkEmail(c authflow.Context) error {
	req, err := authflow.ValidatedForm[requests.CheckEmail](c)
	if err != nil {
		return err
	}

	email := strings.ToLower(req.Email)
	taken, err := h.exists(c, "email:"+email, func(ctx context.Context) (bool, error) {
		return h.users.EmailExists(ctx, email)
	})
	if err != nil {
		return authflow.NewServerError("check email", err)
	}
	if taken {
		return invalid(c, req, "email", MsgEmailExists)
	}
	return c.Render(http.StatusOK, req.Render(nil))
}

func (h *Checks) exists(ctx context.Context, key string, fn func(context.Context) (bool, error)) (bool, error) {
	if h.loader == nil {
		return fn(ctx)
	}
	return h.loader.Load(ctx, key, fn)
}
