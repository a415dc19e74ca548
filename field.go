package unfmt

import "strconv"

// This file contains the field-spec compiler. It decodes the raw text of
// one replacement field into a structured fieldSpec. The grammar is the
// PEP 3101 replacement field, restricted to the subset this package
// matches against:
//
// field:
//     <field_name> [':' <format_spec>]
// field_name:
//     [<name_or_index>] [<accessor>]^*
// name_or_index:
//     <identifier> | <integer> | '_' | <empty>
// accessor:
//     '.' <identifier> | '[' <key> ']'
// format_spec:
//     [sign] ['#'] ['0'] [width] [','] ['.' precision] [type]
// sign:
//     '+' | '-' | ' '
// type:
//     'b' | 'd' | 'e' | 'E' | 'f' | 'F' | 'g' | 'G' | 'o' | 's' | 'x' | 'X' | '%'
//
// fill/align ([[fill]align] before sign) is recognized and rejected.
// width, '0', ',' and precision are consumed but do not affect matching.

// destKind says where a field's converted value is routed in the final
// result.
type destKind int

const (
	destAuto     destKind = iota // unnamed field, numbered by occurrence
	destExplicit                 // numbered field, {3:d}
	destNamed                    // named field, {temp:f}
	destIgnore                   // the underscore field, {_:s}
)

// accessorKind distinguishes attribute access ('.name') from item access
// ('[key]'). Item keys that are pure digits double as list indices.
type accessorKind int

const (
	accessItem accessorKind = iota
	accessAttr
)

type accessor struct {
	kind    accessorKind
	key     string
	index   int  // parsed key when isIndex
	isIndex bool // key is pure digits
}

// formatSpec holds the decoded flags of the format-spec portion.
type formatSpec struct {
	raw      string
	typeChar byte // 0 when absent; treated as DefaultTypeChar
	sign     byte // 0 when absent
	alt      bool // '#'
}

// fieldSpec is the decoded descriptor of one replacement field.
type fieldSpec struct {
	kind destKind

	// n is the positional slot for destAuto/destExplicit fields. destAuto
	// fields get theirs assigned by the pattern compiler, which numbers
	// them by occurrence among auto fields.
	n int

	name string // named destination, or "" for positional/ignore
	path []accessor
	spec formatSpec
}

// baseKey is the key of the field's top level slot in the result template:
// the decimal index for positional fields, the name for named fields.
func (f *fieldSpec) baseKey() string {
	if f.kind == destNamed {
		return f.name
	}
	return strconv.Itoa(f.n)
}

// fullPath is baseKey followed by the accessor chain; this is the complete
// route from the result root to the field's leaf.
func (f *fieldSpec) fullPath() []accessor {
	base := accessor{kind: accessItem, key: f.baseKey()}
	if f.kind != destNamed {
		base.index = f.n
		base.isIndex = true
	}
	return append([]accessor{base}, f.path...)
}

// compileField decodes the raw text between one pair of braces. The format
// string and field offset are carried for error reporting only.
func compileField(format string, pos int, raw string) (fieldSpec, error) {
	name, spec := splitFieldText(raw)

	fs, err := parseFieldName(format, pos, name)
	if err != nil {
		return fieldSpec{}, err
	}

	fs.spec, err = parseFormatSpec(spec)
	if err != nil {
		return fieldSpec{}, err
	}
	return fs, nil
}

// splitFieldText splits raw field text at the first ':' outside of a
// bracketed key. The second return is the format spec, "" when absent.
func splitFieldText(raw string) (name string, spec string) {
	depth := 0
	for i := 0; i < len(raw); i++ {
		switch raw[i] {
		case AccessorOpenKey:
			depth++
		case AccessorCloseKey:
			if depth > 0 {
				depth--
			}
		case FormatSpecDelim:
			if depth == 0 {
				return raw[:i], raw[i+1:]
			}
		}
	}
	return raw, ""
}

// parseFieldName decodes the destination and accessor chain of a field
// name. The leading part (up to the first '.' or '[') selects the
// destination; everything after it is the attribute path.
func parseFieldName(format string, pos int, name string) (fieldSpec, error) {
	// The bare underscore matches but routes nowhere.
	if name == IgnoreFieldName {
		return fieldSpec{kind: destIgnore}, nil
	}

	i := 0
	for i < len(name) && name[i] != AccessorDot && name[i] != AccessorOpenKey {
		i++
	}
	base, rest := name[:i], name[i:]

	fs := fieldSpec{}
	switch {
	case base == "":
		fs.kind = destAuto
	case isDigits(base):
		fs.kind = destExplicit
		n, err := strconv.Atoi(base)
		if err != nil {
			return fieldSpec{}, malformedf(format, pos, "field index %q out of range", base)
		}
		fs.n = n
	default:
		fs.kind = destNamed
		fs.name = base
	}

	path, err := parseAccessors(format, pos, name, rest)
	if err != nil {
		return fieldSpec{}, err
	}
	fs.path = path
	return fs, nil
}

// parseAccessors decodes the '.attr' / '[key]' chain following the field's
// base name.
func parseAccessors(format string, pos int, name string, rest string) ([]accessor, error) {
	var path []accessor

	i := 0
	for i < len(rest) {
		switch rest[i] {
		case AccessorDot:
			j := i + 1
			for j < len(rest) && rest[j] != AccessorDot && rest[j] != AccessorOpenKey {
				j++
			}
			attr := rest[i+1 : j]
			if attr == "" {
				return nil, malformedf(format, pos, "empty attribute name in field %q", name)
			}
			path = append(path, accessor{kind: accessAttr, key: attr})
			i = j

		case AccessorOpenKey:
			j := i + 1
			for j < len(rest) && rest[j] != AccessorCloseKey {
				j++
			}
			if j == len(rest) {
				return nil, malformedf(format, pos, "missing ']' in field %q", name)
			}
			key := rest[i+1 : j]
			if key == "" {
				return nil, malformedf(format, pos, "empty key in field %q", name)
			}
			acc := accessor{kind: accessItem, key: key}
			if isDigits(key) {
				if n, err := strconv.Atoi(key); err == nil {
					acc.index = n
					acc.isIndex = true
				}
			}
			path = append(path, acc)
			i = j + 1

		default:
			return nil, malformedf(format, pos, "unexpected %q in field %q", string(rest[i]), name)
		}
	}
	return path, nil
}

// parseFormatSpec scans the format-spec mini language by hand, the same
// left-to-right single pass used for field names. Width, '0', ',' and
// precision are consumed so that common format strings round-trip, but
// they never constrain the match.
func parseFormatSpec(spec string) (formatSpec, error) {
	fs := formatSpec{raw: spec}
	if spec == "" {
		return fs, nil
	}

	// [[fill]align] is PEP 3101 but unimplemented here. Reject it up front:
	// an align char in position 0, or any fill char followed by an align
	// char in position 1.
	if len(spec) >= 2 && isAlignChar(spec[1]) {
		return fs, unsupportedf(spec, "fill/align %q is not supported", spec[:2])
	}
	if isAlignChar(spec[0]) {
		return fs, unsupportedf(spec, "align %q is not supported", string(spec[0]))
	}

	i := 0
	if c := spec[i]; c == SignPlus || c == SignMinus || c == SignSpace {
		fs.sign = c
		i++
	}
	if i < len(spec) && spec[i] == AlternateFlag {
		fs.alt = true
		i++
	}
	if i < len(spec) && spec[i] == '0' { // zero padding
		i++
	}
	for i < len(spec) && isDigit(spec[i]) { // width
		i++
	}
	if i < len(spec) && spec[i] == ',' { // thousands separator
		i++
	}
	if i < len(spec) && spec[i] == '.' { // precision
		i++
		start := i
		for i < len(spec) && isDigit(spec[i]) {
			i++
		}
		if i == start {
			return fs, unsupportedf(spec, "precision '.' must be followed by digits")
		}
	}

	switch rest := spec[i:]; len(rest) {
	case 0:
		// no type char; the default applies
	case 1:
		fs.typeChar = rest[0]
	default:
		return fs, unsupportedf(spec, "trailing %q is not a valid type character", rest)
	}
	return fs, nil
}

func isDigit(c byte) bool {
	return c >= '0' && c <= '9'
}

func isDigits(s string) bool {
	if s == "" {
		return false
	}
	for i := 0; i < len(s); i++ {
		if !isDigit(s[i]) {
			return false
		}
	}
	return true
}

func isAlignChar(c byte) bool {
	for i := 0; i < len(alignChars); i++ {
		if alignChars[i] == c {
			return true
		}
	}
	return false
}
