package unfmt

import "strings"

// A segment is one span of a tokenized format string: either literal text
// to be matched verbatim, or the raw text of one replacement field
// (everything between an unescaped '{' and its matching '}').
type segment struct {
	literal string
	field   string
	isField bool
	pos     int // byte offset of the segment start in the format string
}

// scanFormat splits a format string into literal and raw-field segments.
//
// Doubled braces decode to literal braces: "{{" -> "{" and "}}" -> "}".
// Inside a field, '[' ... ']' spans are tracked so that a '}' appearing in
// a bracketed key cannot terminate the field early. Field text is returned
// uninterpreted; decoding it is the field compiler's job.
func scanFormat(format string) ([]segment, error) {
	var (
		segments []segment
		lit      strings.Builder
		litStart int
	)

	flushLiteral := func() {
		if lit.Len() == 0 {
			return
		}
		segments = append(segments, segment{literal: lit.String(), pos: litStart})
		lit.Reset()
	}

	i := 0
	for i < len(format) {
		c := format[i]

		switch c {
		case FieldOpenBrace:
			// Escaped open brace.
			if i+1 < len(format) && format[i+1] == FieldOpenBrace {
				if lit.Len() == 0 {
					litStart = i
				}
				lit.WriteByte(FieldOpenBrace)
				i += 2
				continue
			}

			end, err := findFieldEnd(format, i)
			if err != nil {
				return nil, err
			}

			flushLiteral()
			segments = append(segments, segment{
				field:   format[i+1 : end],
				isField: true,
				pos:     i,
			})
			litStart = end + 1
			i = end + 1

		case FieldCloseBrace:
			// A close brace outside a field is only valid when doubled.
			if i+1 < len(format) && format[i+1] == FieldCloseBrace {
				if lit.Len() == 0 {
					litStart = i
				}
				lit.WriteByte(FieldCloseBrace)
				i += 2
				continue
			}
			return nil, malformedf(format, i, "single '}' encountered outside of a field")

		default:
			if lit.Len() == 0 {
				litStart = i
			}
			lit.WriteByte(c)
			i++
		}
	}

	flushLiteral()
	return segments, nil
}

// findFieldEnd returns the offset of the '}' closing the field opened at
// open. Bracketed keys are skipped so "{0[a}b]:d}" closes at the final
// brace.
func findFieldEnd(format string, open int) (int, error) {
	depth := 0
	for j := open + 1; j < len(format); j++ {
		switch format[j] {
		case AccessorOpenKey:
			depth++
		case AccessorCloseKey:
			if depth > 0 {
				depth--
			}
		case FieldCloseBrace:
			if depth == 0 {
				return j, nil
			}
		case FieldOpenBrace:
			if depth == 0 {
				return 0, malformedf(format, j, "'{' inside a field; nested fields are not supported")
			}
		}
	}
	return 0, malformedf(format, open, "unterminated field; expected matching '}'")
}
