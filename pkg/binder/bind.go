package binder

import (
	"encoding"
	"fmt"
	"reflect"
	"strconv"
	"strings"
)

var textUnmarshalerType = reflect.TypeOf((*encoding.TextUnmarshaler)(nil)).Elem()

// apply walks the exported fields of the struct v points to and fills each
// one from lookup, addressed by its tag name. Fields the lookup has no
// values for keep whatever value they already hold, which is what lets
// several binders share one request struct. Failures wrap bindErr so the
// caller's error chain identifies the source.
func apply(v any, tag string, lookup func(name string) []string, bindErr error) error {
	rv := reflect.ValueOf(v)
	if rv.Kind() != reflect.Pointer || rv.IsNil() {
		return fmt.Errorf("%w: target must be a non-nil pointer", bindErr)
	}
	rv = rv.Elem()
	if rv.Kind() != reflect.Struct {
		return fmt.Errorf("%w: target must be a pointer to struct", bindErr)
	}

	rt := rv.Type()
	for i := 0; i < rt.NumField(); i++ {
		field := rv.Field(i)
		if !field.CanSet() {
			continue
		}

		name, ok := paramName(rt.Field(i), tag)
		if !ok {
			continue
		}

		values := lookup(name)
		if len(values) == 0 {
			continue
		}

		if err := setValue(field, rt.Field(i).Type, values); err != nil {
			return fmt.Errorf("%w: field %s: %v", bindErr, rt.Field(i).Name, err)
		}
	}

	return nil
}

// paramName resolves the lookup key for a field: the tag value up to the
// first comma, the lowercased field name when untagged, and ok=false for
// fields tagged "-".
func paramName(f reflect.StructField, tag string) (name string, ok bool) {
	raw, _, _ := strings.Cut(f.Tag.Get(tag), ",")
	switch raw {
	case "-":
		return "", false
	case "":
		return strings.ToLower(f.Name), true
	default:
		return raw, true
	}
}

func setValue(field reflect.Value, t reflect.Type, values []string) error {
	if t.Kind() == reflect.Pointer {
		if field.IsNil() {
			field.Set(reflect.New(t.Elem()))
		}
		return setValue(field.Elem(), t.Elem(), values)
	}

	// uuid.UUID, time.Time, and friends parse themselves.
	if field.CanAddr() && reflect.PointerTo(t).Implements(textUnmarshalerType) {
		u := field.Addr().Interface().(encoding.TextUnmarshaler)
		if err := u.UnmarshalText([]byte(values[0])); err != nil {
			return fmt.Errorf("invalid value %q for %s", values[0], t.String())
		}
		return nil
	}

	if t.Kind() == reflect.Slice {
		return setSlice(field, t, values)
	}

	value := values[0]
	switch t.Kind() {
	case reflect.String:
		field.SetString(value)

	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		n, err := strconv.ParseInt(value, 10, t.Bits())
		if err != nil {
			return fmt.Errorf("invalid int value %q", value)
		}
		field.SetInt(n)

	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		n, err := strconv.ParseUint(value, 10, t.Bits())
		if err != nil {
			return fmt.Errorf("invalid uint value %q", value)
		}
		field.SetUint(n)

	case reflect.Float32, reflect.Float64:
		n, err := strconv.ParseFloat(value, t.Bits())
		if err != nil {
			return fmt.Errorf("invalid float value %q", value)
		}
		field.SetFloat(n)

	case reflect.Bool:
		b, err := parseBool(value)
		if err != nil {
			return err
		}
		field.SetBool(b)

	default:
		return fmt.Errorf("unsupported type %s", t.Kind())
	}

	return nil
}

// setSlice fills a slice field from repeated parameters, splitting each
// value on commas so ?region=north&region=south,east yields three entries.
func setSlice(field reflect.Value, t reflect.Type, values []string) error {
	var flat []string
	for _, v := range values {
		for _, part := range strings.Split(v, ",") {
			flat = append(flat, strings.TrimSpace(part))
		}
	}

	out := reflect.MakeSlice(t, len(flat), len(flat))
	for i, v := range flat {
		if err := setValue(out.Index(i), t.Elem(), []string{v}); err != nil {
			return err
		}
	}
	field.Set(out)
	return nil
}

// parseBool accepts the strconv forms plus the checkbox vocabulary that
// HTML forms and hand-typed query strings produce.
func parseBool(s string) (bool, error) {
	if b, err := strconv.ParseBool(s); err == nil {
		return b, nil
	}
	switch strings.ToLower(s) {
	case "on", "yes":
		return true, nil
	case "off", "no", "":
		return false, nil
	}
	return false, fmt.Errorf("invalid bool value %q", s)
}
