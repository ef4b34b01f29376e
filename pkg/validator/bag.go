package validator

import (
	"iter"
	"slices"
	"strings"
)

// ErrorBag maps field names to the messages of the rules they violated.
// Fields keep the order in which they were first added; messages keep the
// order in which they were added for that field.
//
// The zero value is an empty bag ready to use.
type ErrorBag struct {
	messages map[string][]string
	fields   []string
}

// NewErrorBag creates an empty bag.
func NewErrorBag() *ErrorBag {
	return &ErrorBag{}
}

// Add appends a message to the given field.
func (b *ErrorBag) Add(field, message string) {
	if b.messages == nil {
		b.messages = make(map[string][]string)
	}
	if _, ok := b.messages[field]; !ok {
		b.fields = append(b.fields, field)
	}
	b.messages[field] = append(b.messages[field], message)
}

// Get returns the messages recorded for a field.
// Returns nil if the field has no errors.
func (b *ErrorBag) Get(field string) []string {
	if b == nil {
		return nil
	}
	return slices.Clone(b.messages[field])
}

// First returns the first message recorded for a field, or an empty string.
func (b *ErrorBag) First(field string) string {
	if b == nil {
		return ""
	}
	if msgs := b.messages[field]; len(msgs) > 0 {
		return msgs[0]
	}
	return ""
}

// Has reports whether the field has at least one message.
func (b *ErrorBag) Has(field string) bool {
	if b == nil {
		return false
	}
	_, ok := b.messages[field]
	return ok
}

// Fields returns the erroneous field names in first-added order.
func (b *ErrorBag) Fields() []string {
	if b == nil {
		return nil
	}
	return slices.Clone(b.fields)
}

// All iterates fields and their messages in first-added order.
func (b *ErrorBag) All() iter.Seq2[string, []string] {
	return func(yield func(string, []string) bool) {
		if b == nil {
			return
		}
		for _, f := range b.fields {
			if !yield(f, slices.Clone(b.messages[f])) {
				return
			}
		}
	}
}

// Len returns the number of fields with errors.
func (b *ErrorBag) Len() int {
	if b == nil {
		return 0
	}
	return len(b.fields)
}

// IsEmpty reports whether the bag holds no errors.
func (b *ErrorBag) IsEmpty() bool {
	return b.Len() == 0
}

// Error implements the error interface.
// Format: "field: msg1, msg2; field2: msg".
func (b *ErrorBag) Error() string {
	if b.IsEmpty() {
		return ErrValidationFailed.Error()
	}
	parts := make([]string, 0, len(b.fields))
	for _, f := range b.fields {
		parts = append(parts, f+": "+strings.Join(b.messages[f], ", "))
	}
	return strings.Join(parts, "; ")
}

// Is makes errors.Is(bag, ErrValidationFailed) succeed.
func (b *ErrorBag) Is(target error) bool {
	return target == ErrValidationFailed
}
