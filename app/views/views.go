// Package views renders the pages and htmx fragments of the auth flow.
//
// Markup lives in the .templ files; the _templ.go files next to them are
// generated. Components are deterministic: the same input always renders the
// same bytes, so a re-rendered form can be compared with the original.
package views

//go:generate go tool templ generate

import (
	"github.com/a-h/templ"

	"github.com/dmitrymomot/authflow/pkg/validator"
)

// Routes referenced by the forms.
const (
	RegisterPath      = "/register"
	LoginPath         = "/login"
	LogoutPath        = "/logout"
	CheckUsernamePath = "/check-username"
	CheckEmailPath    = "/check-email"
)

// KeyInvalidCredentials is the bag key of a failed sign in.
const KeyInvalidCredentials = "invalid_credentials"

// Input types.
const (
	TypeText     = "text"
	TypeEmail    = "email"
	TypePassword = "password"
)

// Input is a labelled form control. When CheckURL is set the control posts
// itself there while typing and is replaced with the response.
type Input struct {
	Label    string
	Name     string
	Type     string
	Value    string
	CheckURL string
	Errors   []string
}

// ControlID is the element id that wraps the input, its label and errors.
func ControlID(field string) string {
	return "control_" + field
}

// Component renders the control.
func (in Input) Component() templ.Component {
	return control(in)
}

func (in Input) inputType() string {
	if in.Type == "" {
		return TypeText
	}
	return in.Type
}

// UsernameControl is the username input, live checked while typing.
func UsernameControl(value string, errs []string) Input {
	return Input{Label: "Username", Name: "username", Value: value, CheckURL: CheckUsernamePath, Errors: errs}
}

// EmailControl is the email input, live checked while typing.
func EmailControl(value string, errs []string) Input {
	return Input{Label: "Email", Name: "email", Type: TypeEmail, Value: value, CheckURL: CheckEmailPath, Errors: errs}
}

func plainControl(label, name, typ, value string, errs []string) Input {
	return Input{Label: label, Name: name, Type: typ, Value: value, Errors: errs}
}

// RegisterForm holds the values echoed back into the register form.
// Passwords are never echoed.
type RegisterForm struct {
	Errors   *validator.ErrorBag
	Username string
	Email    string
}

func (f RegisterForm) Component() templ.Component {
	return registerForm(f)
}

// LoginForm holds the values echoed back into the login form.
type LoginForm struct {
	Errors   *validator.ErrorBag
	Username string
}

func (f LoginForm) Component() templ.Component {
	return loginForm(f)
}
