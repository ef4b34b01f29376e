// Package handlers declares the routes of the auth flow.
package handlers

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"strings"

	"github.com/dmitrymomot/authflow"
	"github.com/dmitrymomot/authflow/app/repository"
	"github.com/dmitrymomot/authflow/app/requests"
	"github.com/dmitrymomot/authflow/app/tasks"
	"github.com/dmitrymomot/authflow/app/views"
	"github.com/dmitrymomot/authflow/middlewares"
	"github.com/dmitrymomot/authflow/pkg/cookie"
	"github.com/dmitrymomot/authflow/pkg/job"
	"github.com/dmitrymomot/authflow/pkg/password"
	"github.com/dmitrymomot/authflow/pkg/session"
)

// FlashRegistered is set after a successful registration and shown once on
// the sign in page.
const FlashRegistered = "successfully_registered"

// Messages rendered into the forms.
const (
	MsgUsernameTaken      = "Username already exists."
	MsgEmailTaken         = "Email already exists."
	MsgPasswordTooLong    = "Password is too long."
	MsgInvalidCredentials = "Invalid username or password"
)

// Users is the user store used by Auth.
type Users interface {
	Create(ctx context.Context, u repository.NewUser) (repository.User, error)
	FindByUsername(ctx context.Context, username string) (repository.User, error)
}

// Hasher is satisfied by *password.Hasher.
type Hasher interface {
	Hash(plain string) (string, error)
	Verify(hash, plain string) error
}

// Auth serves registration, sign in and sign out.
type Auth struct {
	users  Users
	hasher Hasher
	jobs   job.Enqueuer
}

func NewAuth(users Users, hasher Hasher, jobs job.Enqueuer) *Auth {
	return &Auth{users: users, hasher: hasher, jobs: jobs}
}

func (h *Auth) Routes(r authflow.Router) {
	r.GET(views.RegisterPath, h.registerPage)
	r.POST(views.RegisterPath, h.register)
	r.GET(views.LoginPath, h.loginPage)
	r.POST(views.LoginPath, h.login)
	r.POST(views.LogoutPath, h.logout, middlewares.RequireAuth(views.LoginPath))
}

func (h *Auth) registerPage(c authflow.Context) error {
	return c.Render(http.StatusOK, views.RegisterPage())
}

func (h *Auth) register(c authflow.Context) error {
	req, err := authflow.ValidatedForm[requests.Register](c)
	if err != nil {
		return err
	}

	hash, err := h.hasher.Hash(req.Password)
	if errors.Is(err, password.ErrTooLong) {
		return invalid(c, req, "password", MsgPasswordTooLong)
	}
	if err != nil {
		return authflow.NewServerError("hash password", err)
	}

	user, err := h.users.Create(c, repository.NewUser{
		Username:     req.Username,
		Email:        strings.ToLower(req.Email),
		PasswordHash: hash,
	})
	switch {
	case errors.Is(err, repository.ErrEmailTaken):
		return invalid(c, req, "email", MsgEmailTaken)
	case errors.Is(err, repository.ErrUsernameTaken):
		return invalid(c, req, "username", MsgUsernameTaken)
	case err != nil:
		return authflow.NewServerError("create user", err)
	}

	if err := c.SetFlash(FlashRegistered, true); err != nil {
		c.LogWarn("failed to set registration flash", slog.Any("error", err))
	}

	payload := tasks.WelcomePayload{UserID: user.ID, Username: user.Username, Email: user.Email}
	if err := h.jobs.Enqueue(c, tasks.SendWelcomeEmailName, payload); err != nil {
		c.LogError("failed to enqueue welcome email", slog.Int64("user_id", user.ID), slog.Any("error", err))
	}

	c.LogInfo("user registered", slog.Int64("user_id", user.ID))
	return c.Location(views.LoginPath)
}

func (h *Auth) loginPage(c authflow.Context) error {
	var registered bool
	if err := c.Flash(FlashRegistered, &registered); err != nil && !errors.Is(err, cookie.ErrNotFound) {
		c.LogWarn("unreadable registration flash", slog.Any("error", err))
	}
	return c.Render(http.StatusOK, views.LoginPage(registered))
}

func (h *Auth) login(c authflow.Context) error {
	req, err := authflow.ValidatedForm[requests.Login](c)
	if err != nil {
		return err
	}

	user, err := h.users.FindByUsername(c, req.Username)
	if errors.Is(err, repository.ErrNotFound) {
		return invalid(c, req, views.KeyInvalidCredentials, MsgInvalidCredentials)
	}
	if err != nil {
		return authflow.NewServerError("find user", err)
	}

	if err := h.hasher.Verify(user.PasswordHash, req.Password); err != nil {
		if errors.Is(err, password.ErrMismatch) {
			return invalid(c, req, views.KeyInvalidCredentials, MsgInvalidCredentials)
		}
		return authflow.NewServerError("verify password", err)
	}

	if err := c.AuthenticateSession(user.ID); err != nil {
		return authflow.NewServerError("authenticate session", err)
	}
	if err := c.SetSessionValue(session.KeyUsername, user.Username); err != nil {
		return authflow.NewServerError("store session", err)
	}
	if err := c.SetSessionValue(session.KeyEmail, user.Email); err != nil {
		return authflow.NewServerError("store session", err)
	}

	c.LogInfo("user signed in", slog.Int64("user_id", user.ID))
	return c.Location(middlewares.DefaultLandingPath)
}

func (h *Auth) logout(c authflow.Context) error {
	if err := c.DestroySession(); err != nil {
		return authflow.NewServerError("destroy session", err)
	}
	return c.Redirect(http.StatusFound, views.LoginPath)
}

// invalid re-renders v with a single field error.
func invalid(c authflow.Context, v authflow.Validatable, field, msg string) error {
	bag := authflow.NewErrorBag()
	bag.Add(field, msg)
	return authflow.Invalid(c, v, bag)
}
