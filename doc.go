// Package unfmt matches strings against PEP 3101 style format strings and
// extracts typed values from them. It can be thought of as the inverse of
// fmt-style formatting: instead of writing a regular expression by hand,
// you describe the expected text with the familiar replacement-field
// syntax and unfmt compiles it into an anchored regular expression with
// one named capture group per field.
//
// A format string such as
//
//	"The {1:s} is {0:d}"
//
// compiles into a Pattern. Matching the pattern against an input line
// converts each captured group with the converter for its format type
// (integer, float, string, hex, ...) and routes the converted value to its
// destination:
//
//   - Numbered fields ({0:d}) and unnumbered fields ({:d}) assemble into an
//     ordered sequence. A pattern with a single positional field returns the
//     bare value.
//   - Named fields ({temp:f}) assemble into an insertion-ordered Map.
//   - The underscore field ({_:s}) participates in the match but is dropped
//     from the output.
//   - Attribute and item paths ({0.name:s}, {0[key]:d}) build nested Record
//     and Map carriers under the field's base destination.
//
// Patterns are compiled once and are immutable afterwards, so a single
// Pattern may be shared by any number of goroutines matching different
// inputs concurrently.
//
// To use the package, you may use the exported functions:
//   - Compile() / MustCompile(): build a reusable Pattern
//   - CompileWithOpts(): build a Pattern with regex flags or a custom
//     converter registry
//   - Parse(): compile-and-match shorthand backed by a pattern cache
//
// Matched output can also be consumed in two higher level ways:
//   - Pattern.MatchResult() wraps the output in a Result that can be
//     queried with gjson paths, which is convenient for nested carriers.
//   - Pattern.MatchInto() binds named or positional output directly into
//     the fields of a caller supplied struct.
//
// Custom format types can be added by building a ConverterRegistry,
// registering a Converter for a new type character, and passing the
// registry through CompileOpts. The default registry is never mutated.
//
// Supported format specs are a documented subset of the replacement-field
// mini-language: sign, the '#' alternate form for b/o/x/X, and the type
// character affect matching; width, ',', '0' and precision are accepted but
// do not constrain the match; fill and align characters are rejected with
// an UnsupportedSpecError.
package unfmt
