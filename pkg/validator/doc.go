// Package validator provides rule-based validation that collects every
// violation into an ordered ErrorBag.
//
// Rules are plain values built from the field name, the submitted value and
// the rule parameters. Apply evaluates all of them and groups the messages of
// the failing ones by field:
//
//	err := validator.Apply(
//	    validator.Required("username", req.Username),
//	    validator.LengthBetween("username", req.Username, 5, 12),
//	    validator.Required("email", req.Email),
//	    validator.Email("email", req.Email),
//	)
//	if bag, ok := validator.AsErrorBag(err); ok {
//	    // bag.Fields() lists fields in the order they first failed,
//	    // bag.Get(field) lists messages in rule declaration order.
//	}
//
// Every rule except Required treats an empty value as missing and passes, so
// an empty field reports only the "required" message.
package validator
