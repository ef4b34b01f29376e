package binder

import (
	"errors"
	"fmt"
	"mime"
	"net/http"
	"net/url"
	"reflect"
	"strconv"
	"strings"
)

// TagName is the struct tag naming the form key of a field.
const TagName = "form"

const maxMemory = 1 << 20

// Form decodes a form-encoded request body into the struct pointed to by v.
//
// Absent keys and values that are empty after trimming are treated as
// missing: string fields stay empty, pointer fields stay nil and slices keep
// only the non-empty values. The target is replaced as a whole only after
// every field decoded, so a failed decode never leaves it half filled.
//
// Supported field types: string, bool, int, int64, float64, pointers to
// those, and []string.
func Form(r *http.Request, v any) error {
	if err := parseForm(r); err != nil {
		return err
	}
	return decode(r.PostForm, v)
}

// Values decodes already parsed url.Values into v using the same rules as Form.
func Values(values url.Values, v any) error {
	return decode(values, v)
}

func parseForm(r *http.Request) error {
	ct := r.Header.Get("Content-Type")
	mediaType, _, err := mime.ParseMediaType(ct)
	if err != nil {
		return errors.Join(ErrUnsupportedMediaType, err)
	}

	switch mediaType {
	case "application/x-www-form-urlencoded":
		if err := r.ParseForm(); err != nil {
			return errors.Join(ErrMalformedBody, err)
		}
	case "multipart/form-data":
		if err := r.ParseMultipartForm(maxMemory); err != nil {
			return errors.Join(ErrMalformedBody, err)
		}
	default:
		return fmt.Errorf("%w: %s", ErrUnsupportedMediaType, mediaType)
	}
	return nil
}

func decode(values url.Values, v any) error {
	rv := reflect.ValueOf(v)
	if rv.Kind() != reflect.Pointer || rv.IsNil() || rv.Elem().Kind() != reflect.Struct {
		return ErrInvalidTarget
	}

	target := rv.Elem()
	out := reflect.New(target.Type()).Elem()
	rt := target.Type()

	for i := range rt.NumField() {
		field := rt.Field(i)
		name := field.Tag.Get(TagName)
		if name == "" || name == "-" || !field.IsExported() {
			continue
		}

		raw := present(values[name])
		if len(raw) == 0 {
			continue
		}
		if err := setField(out.Field(i), raw); err != nil {
			return fmt.Errorf("%w: %s: %v", ErrInvalidValue, name, err)
		}
	}

	target.Set(out)
	return nil
}

// present drops values that are empty after trimming.
func present(values []string) []string {
	var out []string
	for _, v := range values {
		if strings.TrimSpace(v) != "" {
			out = append(out, v)
		}
	}
	return out
}

func setField(fv reflect.Value, raw []string) error {
	if fv.Kind() == reflect.Slice {
		if fv.Type().Elem().Kind() != reflect.String {
			return fmt.Errorf("unsupported slice type %s", fv.Type())
		}
		fv.Set(reflect.ValueOf(raw).Convert(fv.Type()))
		return nil
	}

	if len(raw) > 1 {
		return fmt.Errorf("expected a single value, got %d", len(raw))
	}

	if fv.Kind() == reflect.Pointer {
		ptr := reflect.New(fv.Type().Elem())
		if err := setScalar(ptr.Elem(), raw[0]); err != nil {
			return err
		}
		fv.Set(ptr)
		return nil
	}
	return setScalar(fv, raw[0])
}

func setScalar(fv reflect.Value, s string) error {
	switch fv.Kind() {
	case reflect.String:
		fv.SetString(s)
	case reflect.Bool:
		b, err := parseBool(s)
		if err != nil {
			return err
		}
		fv.SetBool(b)
	case reflect.Int, reflect.Int64:
		n, err := strconv.ParseInt(strings.TrimSpace(s), 10, 64)
		if err != nil {
			return err
		}
		fv.SetInt(n)
	case reflect.Float64:
		f, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
		if err != nil {
			return err
		}
		fv.SetFloat(f)
	default:
		return fmt.Errorf("unsupported field type %s", fv.Type())
	}
	return nil
}

// parseBool accepts checkbox values in addition to strconv.ParseBool forms.
func parseBool(s string) (bool, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "on", "yes":
		return true, nil
	case "off", "no":
		return false, nil
	}
	return strconv.ParseBool(strings.TrimSpace(s))
}
