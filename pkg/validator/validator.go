package validator

import "errors"

// ValidationError is a single rule violation.
type ValidationError struct {
	Field   string
	Message string
}

// Rule is a validation check paired with the error it reports.
type Rule struct {
	Error ValidationError
	Check bool
}

// WithMessage returns a copy of the rule reporting msg instead of the default message.
func (r Rule) WithMessage(msg string) Rule {
	r.Error.Message = msg
	return r
}

// Apply evaluates every rule and returns an *ErrorBag holding the messages of
// the failing ones, or nil if all rules pass.
// No rule short-circuits the others.
func Apply(rules ...Rule) error {
	var bag *ErrorBag
	for _, r := range rules {
		if r.Check {
			continue
		}
		if bag == nil {
			bag = NewErrorBag()
		}
		bag.Add(r.Error.Field, r.Error.Message)
	}
	if bag == nil {
		return nil
	}
	return bag
}

// IsValidationError reports whether err carries an ErrorBag.
func IsValidationError(err error) bool {
	_, ok := AsErrorBag(err)
	return ok
}

// AsErrorBag extracts the ErrorBag from err.
func AsErrorBag(err error) (*ErrorBag, bool) {
	var bag *ErrorBag
	if errors.As(err, &bag) && bag != nil {
		return bag, true
	}
	return nil, false
}
