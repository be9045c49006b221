package http

import (
	"net/http"
	"net/url"
)

// Request wraps *http.Request with the accessors the dispatcher needs.
type Request struct {
	raw *http.Request
}

// NewRequest wraps a standard *http.Request.
func NewRequest(r *http.Request) *Request {
	return &Request{raw: r}
}

// ── Input helpers ────────────────────────────────────────────────────────────

// Params parses the query string and form body and returns the merged
// multi-valued map. A malformed body leaves only what parsed.
func (req *Request) Params() url.Values {
	_ = req.raw.ParseForm()
	if req.raw.Form == nil {
		return url.Values{}
	}
	return req.raw.Form
}

// Method returns the HTTP method.
func (req *Request) Method() string { return req.raw.Method }

// Path returns the URL path as sent, without decoding.
func (req *Request) Path() string { return req.raw.URL.EscapedPath() }
