package unfmt

import (
	"errors"
	"fmt"
)

// Base error types. Every error returned by this package matches exactly
// one of these with errors.Is, so callers can branch on the class of
// failure without depending on message text.
var (
	ErrMalformedPattern = errors.New("malformed format string")
	ErrUnsupportedSpec  = errors.New("unsupported format spec")
	ErrNoMatch          = errors.New("input does not match pattern")
	ErrConversion       = errors.New("captured text could not be converted")

	ErrConverterAlreadyRegistered = errors.New("a converter for this type character is already registered")
	ErrConverterNotFound          = errors.New("no converter registered for this type character")
	ErrBindUnsupported            = errors.New("match output cannot be bound to this destination")
)

// MalformedPatternError reports a format string that cannot be compiled:
// unbalanced braces, invalid field-name grammar, conflicting destinations,
// or non-contiguous positional indices. It is only returned at compile
// time, never from Match.
type MalformedPatternError struct {
	Format string // the offending format string
	Pos    int    // byte offset of the problem, -1 if it has no single position
	Reason string
}

func (e *MalformedPatternError) Error() string {
	if e.Pos >= 0 {
		return fmt.Sprintf("malformed format string %q at offset %d: %s", e.Format, e.Pos, e.Reason)
	}
	return fmt.Sprintf("malformed format string %q: %s", e.Format, e.Reason)
}

func (e *MalformedPatternError) Unwrap() error {
	return ErrMalformedPattern
}

func malformedf(format string, pos int, reasonFmt string, args ...any) error {
	return &MalformedPatternError{
		Format: format,
		Pos:    pos,
		Reason: fmt.Sprintf(reasonFmt, args...),
	}
}

// UnsupportedSpecError reports a format spec that is valid PEP 3101 but
// outside the subset this package implements (fill/align characters), or an
// unknown type character. It is only returned at compile time.
type UnsupportedSpecError struct {
	Spec   string // the format spec portion of the field, after the ':'
	Reason string
}

func (e *UnsupportedSpecError) Error() string {
	return fmt.Sprintf("unsupported format spec %q: %s", e.Spec, e.Reason)
}

func (e *UnsupportedSpecError) Unwrap() error {
	return ErrUnsupportedSpec
}

func unsupportedf(spec string, reasonFmt string, args ...any) error {
	return &UnsupportedSpecError{
		Spec:   spec,
		Reason: fmt.Sprintf(reasonFmt, args...),
	}
}

// NoMatchError reports an input string that does not conform to the
// compiled pattern. It carries both the input and the original format
// string for diagnostics.
type NoMatchError struct {
	Format string
	Input  string
}

func (e *NoMatchError) Error() string {
	return fmt.Sprintf("could not parse %q with %q", e.Input, e.Format)
}

func (e *NoMatchError) Unwrap() error {
	return ErrNoMatch
}

// ConversionError reports captured text that the field's converter
// rejected. The built-in fragments only capture text their converters
// accept, so in practice this surfaces with custom converters.
type ConversionError struct {
	Field string // destination description, e.g. "0" or "temp"
	Text  string // the captured text
	Err   error  // the underlying cause, usually from strconv
}

func (e *ConversionError) Error() string {
	return fmt.Sprintf("cannot convert %q for field %s: %v", e.Text, e.Field, e.Err)
}

func (e *ConversionError) Unwrap() error {
	return ErrConversion
}
