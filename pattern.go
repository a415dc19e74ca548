package unfmt

import (
	"fmt"
	"regexp"
	"strings"
	"sync"
)

// resultKind is the shape of a pattern's match output, fixed at compile
// time from the set of destinations, so matching never decides types at
// run time.
type resultKind int

const (
	kindBare     resultKind = iota // single positional destination: the value itself
	kindSequence                   // positional destinations: []any by index
	kindMapping                    // named (or mixed, or no) destinations: *Map
)

// compiledField is one capturing field of a compiled pattern: its capture
// group, its parameterized converter, and the route from the result root
// to its leaf.
type compiledField struct {
	group    string
	groupIdx int
	dest     string // destination description for errors: "0", "temp", "0.name"
	pos      int    // byte offset of the field in the format string
	convert  ConvertFunc
	path     []accessor
}

// Pattern is a compiled format string. It owns the assembled regular
// expression, the capturing fields in declaration order, and the result
// template the fields route into. A Pattern is immutable after
// construction and safe for concurrent use by multiple goroutines.
type Pattern struct {
	format   string
	re       *regexp.Regexp
	fields   []compiledField
	kind     resultKind
	template any // *Map or []any with nil leaves, cloned per match
}

// CompileOpts adjusts compilation. The zero value compiles with the
// default converter registry and no regex flags.
type CompileOpts struct {
	// Registry resolves type characters; nil selects the built-in table.
	Registry *ConverterRegistry

	// Regex flags applied to the whole pattern. Multiline makes the
	// anchors match at line boundaries, so a pattern can pick one line
	// out of a block of text.
	IgnoreCase bool
	Multiline  bool
	DotAll     bool
}

// Compile builds a Pattern from a format string using the default
// converter registry. It fails with MalformedPatternError or
// UnsupportedSpecError; a Pattern that compiles never fails at match time
// except with NoMatchError or ConversionError.
func Compile(format string) (*Pattern, error) {
	return CompileWithOpts(format, CompileOpts{})
}

// MustCompile is Compile but panics on error, for patterns built from
// constants at program start.
func MustCompile(format string) *Pattern {
	p, err := Compile(format)
	if err != nil {
		panic(fmt.Sprintf("unfmt: MustCompile(%q): %v", format, err))
	}
	return p
}

// CompileWithOpts builds a Pattern with explicit options.
func CompileWithOpts(format string, opts CompileOpts) (*Pattern, error) {
	registry := opts.Registry
	if registry == nil {
		registry = _defaultConverters
	}

	segments, err := scanFormat(format)
	if err != nil {
		return nil, err
	}

	var (
		expr      strings.Builder
		fields    []compiledField
		autoIndex int
		anyNamed  bool
	)

	expr.WriteString(flagPrefix(opts))
	expr.WriteByte('^')

	for _, seg := range segments {
		if !seg.isField {
			expr.WriteString(regexp.QuoteMeta(seg.literal))
			continue
		}

		fs, err := compileField(format, seg.pos, seg.field)
		if err != nil {
			return nil, err
		}

		frag, convert, err := registry.converterFor(fs.spec)
		if err != nil {
			return nil, err
		}

		// Ignored fields still constrain the match but capture nothing.
		if fs.kind == destIgnore {
			expr.WriteString("(?:")
			expr.WriteString(frag)
			expr.WriteByte(')')
			continue
		}

		if fs.kind == destAuto {
			fs.n = autoIndex
			autoIndex++
		}
		if fs.kind == destNamed {
			anyNamed = true
		}

		group := fmt.Sprintf("%s%d", captureGroupPrefix, len(fields))
		expr.WriteString("(?P<")
		expr.WriteString(group)
		expr.WriteByte('>')
		expr.WriteString(frag)
		expr.WriteByte(')')

		fields = append(fields, compiledField{
			group:   group,
			dest:    fieldDest(fs),
			pos:     seg.pos,
			convert: convert,
			path:    fs.fullPath(),
		})
	}

	expr.WriteByte('$')

	template, kind, err := buildTemplate(format, fields, anyNamed)
	if err != nil {
		return nil, err
	}

	re, err := regexp.Compile(expr.String())
	if err != nil {
		// Built-in fragments and escaped literals always assemble into
		// a valid expression; a custom converter fragment may not.
		return nil, malformedf(format, -1, "assembled regex rejected: %v", err)
	}

	for i := range fields {
		fields[i].groupIdx = re.SubexpIndex(fields[i].group)
	}

	return &Pattern{
		format:   format,
		re:       re,
		fields:   fields,
		kind:     kind,
		template: template,
	}, nil
}

// buildTemplate assembles the result template from the capturing fields
// and pins down the result kind. Positional-only patterns must have
// contiguous indices from 0; with named fields in play the indices become
// mapping keys and contiguity stops mattering.
func buildTemplate(format string, fields []compiledField, anyNamed bool) (any, resultKind, error) {
	root := NewMap()
	for _, f := range fields {
		if err := appendTemplatePath(format, f.pos, root, f.path); err != nil {
			return nil, 0, err
		}
	}

	template := finishTemplate(root)

	switch t := template.(type) {
	case []any:
		if len(t) == 1 {
			return t, kindBare, nil
		}
		return t, kindSequence, nil
	case *Map:
		if !anyNamed && len(fields) > 0 {
			return nil, 0, malformedf(format, -1,
				"positional field indices must be contiguous from 0")
		}
		return t, kindMapping, nil
	}
	return nil, 0, malformedf(format, -1, "internal: unexpected template shape")
}

// Format returns the original format string the pattern was compiled from.
func (p *Pattern) Format() string {
	return p.format
}

// Regex exposes the assembled regular expression, mainly for diagnostics.
func (p *Pattern) Regex() string {
	return p.re.String()
}

// NumFields returns the number of capturing (non-ignored) fields.
func (p *Pattern) NumFields() int {
	return len(p.fields)
}

func flagPrefix(opts CompileOpts) string {
	var flags []byte
	if opts.IgnoreCase {
		flags = append(flags, 'i')
	}
	if opts.Multiline {
		flags = append(flags, 'm')
	}
	if opts.DotAll {
		flags = append(flags, 's')
	}
	if len(flags) == 0 {
		return ""
	}
	return "(?" + string(flags) + ")"
}

func fieldDest(fs fieldSpec) string {
	dest := fs.baseKey()
	for _, acc := range fs.path {
		if acc.kind == accessAttr {
			dest += "." + acc.key
		} else {
			dest += "[" + acc.key + "]"
		}
	}
	return dest
}

// _patternCache backs the package-level Parse shorthand so that repeated
// parses with the same format string reuse one compiled Pattern. Patterns
// are immutable, making the cache safe under concurrent Parse calls.
var _patternCache sync.Map // format string -> *Pattern

// Parse compiles format (through the pattern cache) and matches input in
// one call: Parse(fmt, in) behaves like Compile(fmt) followed by
// Match(in).
func Parse(format string, input string) (any, error) {
	p, err := cachedCompile(format)
	if err != nil {
		return nil, err
	}
	return p.Match(input)
}

func cachedCompile(format string) (*Pattern, error) {
	if v, ok := _patternCache.Load(format); ok {
		return v.(*Pattern), nil
	}
	p, err := Compile(format)
	if err != nil {
		return nil, err
	}
	actual, _ := _patternCache.LoadOrStore(format, p)
	return actual.(*Pattern), nil
}

// PurgePatternCache drops all cached patterns. Compiled Pattern values
// already held by callers are unaffected.
func PurgePatternCache() {
	_patternCache.Range(func(key, _ any) bool {
		_patternCache.Delete(key)
		return true
	})
}
