// Package validation checks handler parameters against pipe-separated rule
// strings.
//
//	v := validation.Make(map[string]string{"a": a, "b": b}, validation.Rules{
//	    "a": "required|integer",
//	    "b": "required|integer",
//	})
//	if v.Fails() {
//	    mvchttp.NewResponse(w).ValidationError(v.Errors())
//	}
//
// Fields are checked in sorted order and each field stops at its first
// failing rule.
//
// # Available Rules
//
//   - required: present and non-blank
//   - numeric: parseable as float64
//   - integer: parseable as int
//   - min:n and max:n: bounds on the UTF-8 character count
//   - sometimes: skip the remaining rules when the field is empty
//
// Unknown rule names pass.
//
// The error bag serialises as
//
//	{"errors": {"a": ["The a must be an integer."]}}
package validation
