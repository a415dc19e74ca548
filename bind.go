package unfmt

import (
	"encoding"
	"fmt"
	"reflect"
	"strconv"
	"strings"

	"github.com/google/uuid"
)

// MatchInto matches input and binds the output into the fields of dest,
// which must be a non-nil pointer to a struct.
//
//   - Named output binds by name: a struct field with an `unfmt:"name"`
//     tag wins, otherwise the first exported field whose name matches
//     case-insensitively. A matched name with no corresponding struct
//     field is an error.
//   - Positional output binds by index to the exported fields in
//     declaration order. A bare single value binds to the first exported
//     field.
//
// Carrier values produced by attribute-path fields cannot be bound and
// fail with ErrBindUnsupported.
func (p *Pattern) MatchInto(input string, dest any) error {
	rv := reflect.ValueOf(dest)
	if dest == nil || rv.Kind() != reflect.Ptr || rv.IsNil() || rv.Elem().Kind() != reflect.Struct {
		return fmt.Errorf("%w: dest must be a non-nil pointer to a struct, got %T", ErrBindUnsupported, dest)
	}

	out, err := p.Match(input)
	if err != nil {
		return err
	}

	elem := rv.Elem()
	if p.kind == kindMapping {
		return bindNamed(elem, out.(*Map))
	}

	values, ok := out.([]any)
	if !ok {
		values = []any{out}
	}
	return bindPositional(elem, values)
}

func bindNamed(elem reflect.Value, m *Map) error {
	for _, key := range m.Keys() {
		field, ok := fieldForName(elem, key)
		if !ok {
			return fmt.Errorf("%w: no struct field for matched name %q", ErrBindUnsupported, key)
		}
		v, _ := m.Get(key)
		if err := bindValue(field, v); err != nil {
			return fmt.Errorf("field %q: %w", key, err)
		}
	}
	return nil
}

func bindPositional(elem reflect.Value, values []any) error {
	fields := settableFields(elem)
	if len(values) > len(fields) {
		return fmt.Errorf("%w: %d values but only %d bindable struct fields",
			ErrBindUnsupported, len(values), len(fields))
	}
	for i, v := range values {
		if err := bindValue(fields[i], v); err != nil {
			return fmt.Errorf("field %d: %w", i, err)
		}
	}
	return nil
}

// fieldForName resolves a matched name to a settable struct field: the
// bind tag first, the field name (case-insensitive) second.
func fieldForName(elem reflect.Value, name string) (reflect.Value, bool) {
	t := elem.Type()
	for i := 0; i < t.NumField(); i++ {
		if tag, ok := t.Field(i).Tag.Lookup(BindTagKey); ok && tag == name {
			if f := elem.Field(i); f.CanSet() {
				return f, true
			}
		}
	}
	for i := 0; i < t.NumField(); i++ {
		if strings.EqualFold(t.Field(i).Name, name) {
			if f := elem.Field(i); f.CanSet() {
				return f, true
			}
		}
	}
	return reflect.Value{}, false
}

func settableFields(elem reflect.Value) []reflect.Value {
	var out []reflect.Value
	for i := 0; i < elem.NumField(); i++ {
		if f := elem.Field(i); f.CanSet() {
			out = append(out, f)
		}
	}
	return out
}

var _uuidType = reflect.TypeOf(uuid.UUID{})

// bindValue sets one struct field from one converted match value.
//
// Currently supports:
//   - string to string, and any value to string via its default format
//   - int64 to int/uint kinds (with overflow checking)
//   - float64 to float kinds, int64 to float kinds
//   - string to bool, numeric kinds and uuid.UUID
//   - TextUnmarshaler support for custom types (covers time.Time)
//   - interface{} fields accept any value
func bindValue(field reflect.Value, v any) error {
	switch v.(type) {
	case *Map, *Record, []any:
		return fmt.Errorf("%w: nested carrier values cannot be bound", ErrBindUnsupported)
	}

	if s, ok := v.(string); ok {
		if field.Type() == _uuidType {
			id, err := uuid.Parse(s)
			if err != nil {
				return fmt.Errorf("error converting value to uuid: %w", err)
			}
			field.Set(reflect.ValueOf(id))
			return nil
		}
		if field.Kind() != reflect.String && field.CanAddr() {
			if unmarshaler, ok := field.Addr().Interface().(encoding.TextUnmarshaler); ok {
				return unmarshaler.UnmarshalText([]byte(s))
			}
		}
	}

	switch field.Kind() {
	case reflect.String:
		return bindStringValue(field, v)
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return bindIntValue(field, v)
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64, reflect.Uintptr:
		return bindUintValue(field, v)
	case reflect.Float32, reflect.Float64:
		return bindFloatValue(field, v)
	case reflect.Bool:
		return bindBoolValue(field, v)
	case reflect.Interface:
		field.Set(reflect.ValueOf(v))
		return nil
	default:
		return fmt.Errorf("%w: unsupported field type %s", ErrBindUnsupported, field.Type())
	}
}

func bindStringValue(field reflect.Value, v any) error {
	if s, ok := v.(string); ok {
		field.SetString(s)
		return nil
	}
	field.SetString(fmt.Sprint(v))
	return nil
}

// bindIntValue sets integer field values with overflow checking.
func bindIntValue(field reflect.Value, v any) error {
	var n int64
	switch t := v.(type) {
	case int64:
		n = t
	case string:
		parsed, err := strconv.ParseInt(t, 10, 64)
		if err != nil {
			return fmt.Errorf("error converting value to int: %w", err)
		}
		n = parsed
	default:
		return fmt.Errorf("%w: cannot bind %T to %s", ErrBindUnsupported, v, field.Type())
	}

	if field.OverflowInt(n) {
		return fmt.Errorf("value %d overflows %s", n, field.Type())
	}
	field.SetInt(n)
	return nil
}

// bindUintValue sets unsigned integer field values with overflow and sign
// checking.
func bindUintValue(field reflect.Value, v any) error {
	var n int64
	switch t := v.(type) {
	case int64:
		n = t
	case string:
		parsed, err := strconv.ParseInt(t, 10, 64)
		if err != nil {
			return fmt.Errorf("error converting value to uint: %w", err)
		}
		n = parsed
	default:
		return fmt.Errorf("%w: cannot bind %T to %s", ErrBindUnsupported, v, field.Type())
	}

	if n < 0 {
		return fmt.Errorf("negative value %d for unsigned %s", n, field.Type())
	}
	u := uint64(n)
	if field.OverflowUint(u) {
		return fmt.Errorf("value %d overflows %s", u, field.Type())
	}
	field.SetUint(u)
	return nil
}

func bindFloatValue(field reflect.Value, v any) error {
	var f float64
	switch t := v.(type) {
	case float64:
		f = t
	case int64:
		f = float64(t)
	case string:
		parsed, err := strconv.ParseFloat(t, 64)
		if err != nil {
			return fmt.Errorf("error converting value to float: %w", err)
		}
		f = parsed
	default:
		return fmt.Errorf("%w: cannot bind %T to %s", ErrBindUnsupported, v, field.Type())
	}

	if field.OverflowFloat(f) {
		return fmt.Errorf("value %g overflows %s", f, field.Type())
	}
	field.SetFloat(f)
	return nil
}

func bindBoolValue(field reflect.Value, v any) error {
	s, ok := v.(string)
	if !ok {
		return fmt.Errorf("%w: cannot bind %T to bool", ErrBindUnsupported, v)
	}
	b, err := strconv.ParseBool(s)
	if err != nil {
		return fmt.Errorf("error converting value to bool: %w", err)
	}
	field.SetBool(b)
	return nil
}
