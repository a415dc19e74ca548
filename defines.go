package unfmt

// constants for the format-string mini language
const (
	FieldOpenBrace   = byte('{')
	FieldCloseBrace  = byte('}')
	AccessorDot      = byte('.')
	AccessorOpenKey  = byte('[')
	AccessorCloseKey = byte(']')
	FormatSpecDelim  = byte(':')

	// The field name that matches but is dropped from the output.
	IgnoreFieldName = "_"
)

// constants for format-spec flags
const (
	SignPlus      = byte('+')
	SignMinus     = byte('-')
	SignSpace     = byte(' ')
	AlternateFlag = byte('#')

	// DefaultTypeChar is used when a field has no format spec or the
	// format spec has no trailing type character.
	DefaultTypeChar = byte('s')
)

// alignChars are the PEP 3101 align characters. Fill/align is recognized
// so it can be rejected with a clear error instead of a garbled regex.
const alignChars = "<>=^"

// capture-group names inside the compiled regex are the field ordinal
// prefixed with this string, which keeps them valid Go regexp group
// identifiers and collision free across repeated destinations.
const captureGroupPrefix = "f"

// Struct tag key used by Pattern.MatchInto to bind named fields.
const BindTagKey = "unfmt"
