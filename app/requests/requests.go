// Package requests defines the form requests of the auth flow. Each request
// validates itself and renders itself back with inline errors.
package requests

import (
	"github.com/dmitrymomot/authflow"
	"github.com/dmitrymomot/authflow/app/views"
	"github.com/dmitrymomot/authflow/pkg/validator"
)

// Username length bounds.
const (
	UsernameMinLen = 5
	UsernameMaxLen = 12
)

type Register struct {
	Username             string `form:"username" sanitize:"trim"`
	Email                string `form:"email" sanitize:"trim"`
	Password             string `form:"password"`
	PasswordConfirmation string `form:"password_confirmation"`
}

func (r *Register) Validate() error {
	return validator.Apply(
		validator.Required("username", r.Username),
		validator.LengthBetween("username", r.Username, UsernameMinLen, UsernameMaxLen),
		validator.Required("email", r.Email),
		validator.Email("email", r.Email),
		validator.Required("password", r.Password),
		validator.Required("password_confirmation", r.PasswordConfirmation),
		validator.Matches("password_confirmation", r.PasswordConfirmation, "password", r.Password),
	)
}

func (r *Register) Render(bag *authflow.ErrorBag) authflow.Component {
	return views.RegisterForm{Username: r.Username, Email: r.Email, Errors: bag}.Component()
}

type Login struct {
	Username string `form:"username" sanitize:"trim"`
	Password string `form:"password"`
}

func (r *Login) Validate() error {
	return validator.Apply(
		validator.Required("username", r.Username),
		validator.Required("password", r.Password),
	)
}

func (r *Login) Render(bag *authflow.ErrorBag) authflow.Component {
	return views.LoginForm{Username: r.Username, Errors: bag}.Component()
}

// CheckUsername is the live check posted by the username control.
type CheckUsername struct {
	Username string `form:"username" sanitize:"trim"`
}

func (r *CheckUsername) Validate() error {
	return validator.Apply(
		validator.Required("username", r.Username),
		validator.LengthBetween("username", r.Username, UsernameMinLen, UsernameMaxLen),
	)
}

func (r *CheckUsername) Render(bag *authflow.ErrorBag) authflow.Component {
	return views.UsernameControl(r.Username, bag.Get("username")).Component()
}

// CheckEmail is the live check posted by the email control.
type CheckEmail struct {
	Email string `form:"email" sanitize:"trim"`
}

func (r *CheckEmail) Validate() error {
	return validator.Apply(
		validator.Required("email", r.Email),
		validator.Email("email", r.Email),
	)
}

func (r *CheckEmail) Render(bag *authflow.ErrorBag) authflow.Component {
	return views.EmailControl(r.Email, bag.Get("email")).Component()
}
