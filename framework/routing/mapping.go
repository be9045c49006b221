package routing

import (
	"fmt"
	"net/http"
	"strings"
)

// ── Parameter specs ───────────────────────────────────────────────────────────

// ParamKind says how the dispatcher fills one handler parameter.
type ParamKind int

const (
	// ParamText is a textual parameter without a binding marker; it is
	// bound to nil.
	ParamText ParamKind = iota
	ParamRequest
	ParamResponse
	ParamNamed
)

// ParamSpec describes one positional handler parameter.
type ParamSpec struct {
	Kind ParamKind
	// Name is the request parameter read by a ParamNamed spec.
	Name string
}

// Request binds the *http.Request.
func Request() ParamSpec { return ParamSpec{Kind: ParamRequest} }

// Response binds the http.ResponseWriter.
func Response() ParamSpec { return ParamSpec{Kind: ParamResponse} }

// Named binds the request parameter name as a string. A blank name binds nil.
func Named(name string) ParamSpec { return ParamSpec{Kind: ParamNamed, Name: name} }

// Text declares a string parameter with no binding marker.
func Text() ParamSpec { return ParamSpec{Kind: ParamText} }

func (p ParamSpec) String() string {
	switch p.Kind {
	case ParamRequest:
		return "request"
	case ParamResponse:
		return "response"
	case ParamNamed:
		return p.Name + " string"
	default:
		return "string"
	}
}

// ── Mapping ───────────────────────────────────────────────────────────────────

// Invoker is the compiled body of a handler method. It receives the bound
// arguments in declaration order; a non-nil result is rendered by the
// dispatcher when the handler wrote nothing itself.
type Invoker func(args Args) (any, error)

// Mapping is one routed method of a controller.
//
//	routing.Mapping{
//	    Method: "Query",
//	    Path:   "/query",
//	    Params: []routing.ParamSpec{routing.Request(), routing.Response(), routing.Named("name")},
//	    Invoke: func(args routing.Args) (any, error) { ... },
//	}
type Mapping struct {
	// Method is the handler's identifier, used in logs and route listings.
	Method string
	// Path is the route suffix appended to the controller's base route.
	Path   string
	Params []ParamSpec
	Invoke Invoker
}

// Signature renders "Query(request, response, name string)".
func (m Mapping) Signature() string {
	parts := make([]string, len(m.Params))
	for i, p := range m.Params {
		parts[i] = p.String()
	}
	return m.Method + "(" + strings.Join(parts, ", ") + ")"
}

// Controller is implemented by controller components to expose their routed
// methods.
type Controller interface {
	Mappings() []Mapping
}

// ── Args ──────────────────────────────────────────────────────────────────────

// Args are the positional arguments bound for one invocation. The accessors
// fail on an index out of range or a value of the wrong type, which the
// dispatcher reports as an invocation error.
type Args []any

// Request returns argument i as the request handle.
func (a Args) Request(i int) (*http.Request, error) {
	v, err := a.at(i)
	if err != nil {
		return nil, err
	}
	r, ok := v.(*http.Request)
	if !ok {
		return nil, mismatch(i, "request", v)
	}
	return r, nil
}

// Response returns argument i as the response handle.
func (a Args) Response(i int) (http.ResponseWriter, error) {
	v, err := a.at(i)
	if err != nil {
		return nil, err
	}
	w, ok := v.(http.ResponseWriter)
	if !ok {
		return nil, mismatch(i, "response", v)
	}
	return w, nil
}

// String returns argument i as text. An unbound argument yields "".
func (a Args) String(i int) (string, error) {
	v, err := a.at(i)
	if err != nil {
		return "", err
	}
	switch s := v.(type) {
	case nil:
		return "", nil
	case string:
		return s, nil
	default:
		return "", mismatch(i, "string", v)
	}
}

func (a Args) at(i int) (any, error) {
	if i < 0 || i >= len(a) {
		return nil, fmt.Errorf("argument %d out of range (%d bound)", i, len(a))
	}
	return a[i], nil
}

func mismatch(i int, want string, got any) error {
	return fmt.Errorf("argument type mismatch: argument %d is %T, want %s", i, got, want)
}
