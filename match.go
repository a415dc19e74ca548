package unfmt

// Match runs the pattern against input. The whole input must conform: the
// compiled regex is anchored at both ends. On success the return shape is
// fixed by the pattern:
//
//   - a bare value when the pattern has exactly one positional field,
//   - []any ordered by index when all fields are positional,
//   - *Map when any field is named (and for field-less patterns, where the
//     Map is empty).
//
// Attribute-path fields place Record and Map carriers inside those shapes.
//
// Match fails with NoMatchError when the input does not conform and with
// ConversionError when captured text cannot be converted; compile-time
// errors never surface here.
func (p *Pattern) Match(input string) (any, error) {
	m := p.re.FindStringSubmatch(input)
	if m == nil {
		return nil, &NoMatchError{Format: p.format, Input: input}
	}

	root := cloneValue(p.template)
	for i := range p.fields {
		f := &p.fields[i]
		text := m[f.groupIdx]

		v, err := f.convert(text)
		if err != nil {
			return nil, &ConversionError{Field: f.dest, Text: text, Err: err}
		}
		setAtPath(root, f.path, v)
	}

	switch p.kind {
	case kindBare:
		return root.([]any)[0], nil
	case kindSequence:
		return root.([]any), nil
	default:
		return root.(*Map), nil
	}
}
