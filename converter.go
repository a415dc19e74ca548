package unfmt

import (
	"fmt"
	"strconv"
	"strings"
)

// ConvertFunc turns the text captured for a field into its typed value.
// The built-in converters return string, int64 or float64.
type ConvertFunc func(text string) (any, error)

// Converter pairs the regex fragment that matches a format type with the
// conversion applied to the captured text.
//
// Fragment is the bare expression for the digits/body only: sign and
// alternate-form prefixes are layered on top by the registry when a field
// spec asks for them. Fragments should prefer non-greedy constructs; the
// final pattern is anchored at both ends and greedy fragments invite
// needless backtracking.
type Converter struct {
	Fragment string
	Convert  ConvertFunc
}

// ConverterRegistry maps a format type character to its Converter.
//
// A registry is mutable only through Register and only until patterns are
// compiled from it; compiled patterns capture converters by value, so
// registering more types later never changes existing patterns. The
// package-level default registry is built once and never mutated.
type ConverterRegistry struct {
	m             map[byte]Converter
	allowOverride bool
}

type ConverterRegistryOpts struct {
	// ExcludeDefaults leaves the built-in type characters out, so even
	// 'd' or 's' resolve only if explicitly registered.
	ExcludeDefaults bool
	// AllowOverride permits Register to replace an existing converter
	// instead of failing with ErrConverterAlreadyRegistered.
	AllowOverride bool
}

func NewConverterRegistry(opts ConverterRegistryOpts) *ConverterRegistry {
	reg := &ConverterRegistry{
		m:             make(map[byte]Converter),
		allowOverride: opts.AllowOverride,
	}
	if !opts.ExcludeDefaults {
		for c, conv := range builtinConverters() {
			reg.m[c] = conv
		}
	}
	return reg
}

// Register adds a converter for a type character. Registering a character
// that already resolves fails with ErrConverterAlreadyRegistered unless the
// registry was built with AllowOverride.
func (r *ConverterRegistry) Register(typeChar byte, conv Converter) error {
	if _, exists := r.m[typeChar]; exists && !r.allowOverride {
		return fmt.Errorf("%w: %q", ErrConverterAlreadyRegistered, string(typeChar))
	}
	if conv.Convert == nil {
		return fmt.Errorf("converter for %q has no Convert function", string(typeChar))
	}
	r.m[typeChar] = conv
	return nil
}

// lookup resolves a type character, treating 0 as the default type.
func (r *ConverterRegistry) lookup(typeChar byte) (Converter, error) {
	if typeChar == 0 {
		typeChar = DefaultTypeChar
	}
	conv, ok := r.m[typeChar]
	if !ok {
		return Converter{}, fmt.Errorf("%w: %q", ErrConverterNotFound, string(typeChar))
	}
	return conv, nil
}

// converterFor resolves a field's format spec into the final regex
// fragment and conversion: the base converter parameterized with the
// spec's sign and alternate-form flags.
func (r *ConverterRegistry) converterFor(spec formatSpec) (string, ConvertFunc, error) {
	conv, err := r.lookup(spec.typeChar)
	if err != nil {
		return "", nil, unsupportedf(spec.raw, "%v", err)
	}

	frag := conv.Fragment
	fn := conv.Convert

	if spec.alt {
		if !isAltFormType(spec.typeChar) {
			return "", nil, unsupportedf(spec.raw, "alternate form '#' is not allowed for type %q", string(spec.typeChar))
		}
		// "#" puts the base prefix in front of the digit run: 0b, 0o, 0x
		// or 0X. The converter must drop it again before strconv sees the
		// digits, keeping any sign in front.
		prefix := "0" + string(spec.typeChar)
		frag = prefix + frag
		fn = stripPrefixConvert(prefix, fn)
	}

	switch spec.sign {
	case 0, SignMinus:
		frag = "[-]?" + frag
	case SignPlus:
		frag = "[-+]" + frag
	case SignSpace:
		frag = "[- ]" + frag
	default:
		return "", nil, unsupportedf(spec.raw, "%q is not a valid sign", string(spec.sign))
	}

	return frag, fn, nil
}

func isAltFormType(typeChar byte) bool {
	switch typeChar {
	case 'b', 'o', 'x', 'X':
		return true
	}
	return false
}

// builtinConverters returns a fresh copy of the default type table.
//
// The fragments deliberately mirror what the matching formatter emits:
// lowercase hex for 'x', uppercase for 'X', a mandatory digit run around an
// optional decimal point for floats. They stay permissive about magnitude
// because width never constrains the match.
func builtinConverters() map[byte]Converter {
	const (
		floatFrag    = `[0-9]+\.?[0-9]+`
		floatExpFrag = floatFrag + `(?:[eE][-+]?[0-9]+)?`
	)

	return map[byte]Converter{
		's': {Fragment: `.*?`, Convert: convertString},
		'd': {Fragment: `[0-9]+?`, Convert: intConverter(10)},
		'b': {Fragment: `[0-1]+?`, Convert: intConverter(2)},
		'o': {Fragment: `[0-7]+?`, Convert: intConverter(8)},
		'x': {Fragment: `[0-9a-f]+?`, Convert: intConverter(16)},
		'X': {Fragment: `[0-9A-F]+?`, Convert: intConverter(16)},
		'e': {Fragment: floatFrag + `(?:e[-+]?[0-9]+)?`, Convert: convertFloat},
		'E': {Fragment: floatFrag + `(?:E[-+]?[0-9]+)?`, Convert: convertFloat},
		'f': {Fragment: floatFrag, Convert: convertFloat},
		'F': {Fragment: floatFrag, Convert: convertFloat},
		'g': {Fragment: floatExpFrag, Convert: convertFloat},
		'G': {Fragment: floatExpFrag, Convert: convertFloat},
		'%': {Fragment: floatFrag + `%`, Convert: convertPercent},
	}
}

func convertString(text string) (any, error) {
	return text, nil
}

// intConverter builds the integer conversion for a base. The space sign
// flag can put a leading blank in the captured text, which strconv does
// not tolerate, so captured text is trimmed first.
func intConverter(base int) ConvertFunc {
	return func(text string) (any, error) {
		n, err := strconv.ParseInt(strings.TrimSpace(text), base, 64)
		if err != nil {
			return nil, err
		}
		return n, nil
	}
}

func convertFloat(text string) (any, error) {
	f, err := strconv.ParseFloat(strings.TrimSpace(text), 64)
	if err != nil {
		return nil, err
	}
	return f, nil
}

// convertPercent parses "12.5%" as 0.125.
func convertPercent(text string) (any, error) {
	text = strings.TrimSuffix(strings.TrimSpace(text), "%")
	f, err := strconv.ParseFloat(text, 64)
	if err != nil {
		return nil, err
	}
	return f / 100, nil
}

// stripPrefixConvert removes an alternate-form base prefix ("0x", "0o",
// ...) sitting between the optional sign and the digits, then defers to the
// base conversion.
func stripPrefixConvert(prefix string, fn ConvertFunc) ConvertFunc {
	return func(text string) (any, error) {
		text = strings.TrimSpace(text)
		sign := ""
		if len(text) > 0 && (text[0] == '-' || text[0] == '+') {
			sign, text = text[:1], text[1:]
		}
		text = strings.TrimPrefix(text, prefix)
		return fn(sign + text)
	}
}

// The default registry used by Compile when CompileOpts names none. Built
// once at package init; never mutated afterwards.
var _defaultConverters *ConverterRegistry

func init() {
	_defaultConverters = NewConverterRegistry(ConverterRegistryOpts{})
}

// DefaultConverters returns a fresh copy of the built-in registry. The
// copy may be extended with Register and passed through CompileOpts; the
// registry Compile uses by default is never handed out and never mutated.
func DefaultConverters() *ConverterRegistry {
	return NewConverterRegistry(ConverterRegistryOpts{})
}
