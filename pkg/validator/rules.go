package validator

import (
	"fmt"
	"strings"
	"unicode/utf8"

	playground "github.com/go-playground/validator/v10"
)

// Default messages.
const (
	MsgRequired = "This field is required."
	MsgEmail    = "Invalid email."
)

// formats checks string formats such as email addresses.
var formats = playground.New()

// Required fails when the value is empty or whitespace only.
func Required(field, value string) Rule {
	return Rule{
		Check: strings.TrimSpace(value) != "",
		Error: ValidationError{Field: field, Message: MsgRequired},
	}
}

// LengthBetween fails when the rune length of value is outside [minLen, maxLen].
// An empty value passes.
func LengthBetween(field, value string, minLen, maxLen int) Rule {
	n := utf8.RuneCountInString(value)
	return Rule{
		Check: value == "" || (n >= minLen && n <= maxLen),
		Error: ValidationError{
			Field:   field,
			Message: fmt.Sprintf("The length must be in range %d-%d.", minLen, maxLen),
		},
	}
}

// MinLength fails when the rune length of value is below minLen.
// An empty value passes.
func MinLength(field, value string, minLen int) Rule {
	return Rule{
		Check: value == "" || utf8.RuneCountInString(value) >= minLen,
		Error: ValidationError{
			Field:   field,
			Message: fmt.Sprintf("Must be at least %d characters long.", minLen),
		},
	}
}

// MaxLength fails when the rune length of value exceeds maxLen.
// An empty value passes.
func MaxLength(field, value string, maxLen int) Rule {
	return Rule{
		Check: value == "" || utf8.RuneCountInString(value) <= maxLen,
		Error: ValidationError{
			Field:   field,
			Message: fmt.Sprintf("Must not exceed %d characters.", maxLen),
		},
	}
}

// Email fails when value is not a valid email address.
// An empty value passes.
func Email(field, value string) Rule {
	return Rule{
		Check: value == "" || IsEmail(value),
		Error: ValidationError{Field: field, Message: MsgEmail},
	}
}

// Matches fails when value differs from the value of the other field.
// An empty value passes.
func Matches(field, value, otherField, otherValue string) Rule {
	return Rule{
		Check: value == "" || value == otherValue,
		Error: ValidationError{
			Field:   field,
			Message: fmt.Sprintf("Does not match with %s field.", otherField),
		},
	}
}

// IsEmail reports whether s is a valid email address.
func IsEmail(s string) bool {
	return formats.Var(s, "required,email") == nil
}
