package unfmt

import (
	"encoding/json"
	"sync"

	"github.com/tidwall/gjson"
)

// Result wraps one match output and lets callers navigate nested carriers
// with gjson paths instead of type-switching on Map, Record and []any by
// hand. The JSON form is produced at most once per Result, on first use.
type Result struct {
	value any

	once sync.Once
	json string
	err  error
}

// MatchResult is Match with the output wrapped in a Result.
func (p *Pattern) MatchResult(input string) (*Result, error) {
	v, err := p.Match(input)
	if err != nil {
		return nil, err
	}
	return &Result{value: v}, nil
}

// Value returns the raw match output, as returned by Match.
func (r *Result) Value() any {
	return r.value
}

// JSON returns the match output serialized as JSON. Map and Record
// serialize with their keys in declaration order.
func (r *Result) JSON() (string, error) {
	r.once.Do(func() {
		b, err := json.Marshal(r.value)
		if err != nil {
			r.err = err
			return
		}
		r.json = string(b)
	})
	return r.json, r.err
}

// Get queries the match output with a gjson path, e.g. "host" for a named
// field, "0.name" for an attribute under positional destination 0, or
// "user.roles.1" into nested carriers. A failed serialization or a path
// that resolves nothing both yield a non-existent gjson.Result.
func (r *Result) Get(path string) gjson.Result {
	s, err := r.JSON()
	if err != nil {
		return gjson.Result{}
	}
	return gjson.Get(s, path)
}
