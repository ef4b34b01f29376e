package sanitizer

import (
	"fmt"
	"reflect"
	"strings"
	"unicode"
)

// TagName is the struct tag read by SanitizeStruct.
const TagName = "sanitize"

// Supported operations, applied in tag order.
const (
	OpTrim      = "trim"
	OpLower     = "lower"
	OpUpper     = "upper"
	OpStripHTML = "strip_html"
	OpCollapse  = "collapse"
)

var ops = map[string]func(string) string{
	OpTrim:      strings.TrimSpace,
	OpLower:     strings.ToLower,
	OpUpper:     strings.ToUpper,
	OpStripHTML: StripHTML,
	OpCollapse:  CollapseSpaces,
}

// SanitizeStruct rewrites string fields of the struct pointed to by v
// according to their `sanitize` tags.
//
//	type SignUp struct {
//	    Email string `sanitize:"trim,lower"`
//	    Name  string `sanitize:"strip_html,collapse,trim"`
//	}
//
// Fields of type *string are rewritten when non-nil. Unknown operations are
// an error so that typos do not silently disable sanitation.
func SanitizeStruct(v any) error {
	rv := reflect.ValueOf(v)
	if rv.Kind() != reflect.Pointer || rv.IsNil() {
		return ErrNotStructPointer
	}
	rv = rv.Elem()
	if rv.Kind() != reflect.Struct {
		return ErrNotStructPointer
	}

	rt := rv.Type()
	for i := range rt.NumField() {
		field := rt.Field(i)
		tag := field.Tag.Get(TagName)
		if tag == "" || tag == "-" || !field.IsExported() {
			continue
		}

		fv := rv.Field(i)
		switch {
		case fv.Kind() == reflect.String:
			out, err := apply(tag, fv.String())
			if err != nil {
				return fmt.Errorf("%w: field %s", err, field.Name)
			}
			fv.SetString(out)
		case fv.Kind() == reflect.Pointer && fv.Type().Elem().Kind() == reflect.String:
			if fv.IsNil() {
				continue
			}
			out, err := apply(tag, fv.Elem().String())
			if err != nil {
				return fmt.Errorf("%w: field %s", err, field.Name)
			}
			fv.Elem().SetString(out)
		}
	}
	return nil
}

func apply(tag, s string) (string, error) {
	for op := range strings.SplitSeq(tag, ",") {
		fn, ok := ops[strings.TrimSpace(op)]
		if !ok {
			return "", fmt.Errorf("%w %q", ErrUnknownOperation, op)
		}
		s = fn(s)
	}
	return s, nil
}

// CollapseSpaces replaces every run of whitespace with a single space.
func CollapseSpaces(s string) string {
	var b strings.Builder
	b.Grow(len(s))
	space := false
	for _, r := range s {
		if unicode.IsSpace(r) {
			if !space {
				b.WriteByte(' ')
			}
			space = true
			continue
		}
		space = false
		b.WriteRune(r)
	}
	return b.String()
}
