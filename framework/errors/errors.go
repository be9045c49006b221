package errors

import (
	"errors"
	"fmt"
	"strings"
)

// ── Error codes ───────────────────────────────────────────────────────────────

const (
	CodeDiscovery            = "DISCOVERY_ERROR"
	CodeInstantiation        = "INSTANTIATION_ERROR"
	CodeDuplicateBinding     = "DUPLICATE_BINDING"
	CodeUnresolvedDependency = "UNRESOLVED_DEPENDENCY"
	CodeInjection            = "INJECTION_ERROR"
	CodeDuplicateRoute       = "DUPLICATE_ROUTE"
	CodeRouteNotFound        = "ROUTE_NOT_FOUND"
	CodeInvocation           = "INVOCATION_ERROR"
	CodeConfig               = "CONFIG_ERROR"
	CodeContainerFrozen      = "CONTAINER_FROZEN"
)

// ── Error ─────────────────────────────────────────────────────────────────────

// Error is the structured error returned by every bootstrap phase and by the
// dispatcher. Two errors match under errors.Is when their codes are equal, so
// the sentinels below can be used as targets:
//
//	if errors.Is(err, mvcerrors.ErrRouteNotFound) { ... }
type Error struct {
	Code    string
	Message string
	Cause   error
	Context map[string]any
}

func (e *Error) Error() string {
	var b strings.Builder
	b.WriteString(e.Message)
	if e.Cause != nil {
		b.WriteString(": ")
		b.WriteString(e.Cause.Error())
	}
	return b.String()
}

func (e *Error) Unwrap() error { return e.Cause }

// Is matches by code.
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	if !ok {
		return false
	}
	return e.Code != "" && e.Code == t.Code
}

// With attaches a context value and returns e for chaining.
func (e *Error) With(key string, value any) *Error {
	if e.Context == nil {
		e.Context = make(map[string]any)
	}
	e.Context[key] = value
	return e
}

// Fatal reports whether the error aborts startup. Per-request conditions
// (route not found, invocation failures) and warnings are not fatal.
func (e *Error) Fatal() bool {
	switch e.Code {
	case CodeRouteNotFound, CodeInvocation, CodeUnresolvedDependency:
		return false
	}
	return true
}

// ── Sentinels (match by code) ─────────────────────────────────────────────────

var (
	ErrDiscovery            = &Error{Code: CodeDiscovery}
	ErrInstantiation        = &Error{Code: CodeInstantiation}
	ErrDuplicateBinding     = &Error{Code: CodeDuplicateBinding}
	ErrUnresolvedDependency = &Error{Code: CodeUnresolvedDependency}
	ErrInjection            = &Error{Code: CodeInjection}
	ErrDuplicateRoute       = &Error{Code: CodeDuplicateRoute}
	ErrRouteNotFound        = &Error{Code: CodeRouteNotFound}
	ErrInvocation           = &Error{Code: CodeInvocation}
	ErrConfig               = &Error{Code: CodeConfig}
	ErrContainerFrozen      = &Error{Code: CodeContainerFrozen}
)

// ── Constructors ──────────────────────────────────────────────────────────────

// Discovery reports a scan root or component identifier that cannot be resolved.
func Discovery(target string, cause error) *Error {
	return (&Error{
		Code:    CodeDiscovery,
		Message: fmt.Sprintf("cannot resolve %q", target),
		Cause:   cause,
	}).With("target", target)
}

// Instantiation reports a component whose constructor is missing, failed or panicked.
func Instantiation(component string, cause error) *Error {
	return (&Error{
		Code:    CodeInstantiation,
		Message: fmt.Sprintf("cannot instantiate %s", component),
		Cause:   cause,
	}).With("component", component)
}

// DuplicateBinding reports a bean or contract name that is already bound.
func DuplicateBinding(name, existing string) *Error {
	return (&Error{
		Code:    CodeDuplicateBinding,
		Message: fmt.Sprintf("%s is already bound to bean %q", name, existing),
	}).With("name", name).With("existing", existing)
}

// UnresolvedDependency reports an injection point whose target is not in the container.
func UnresolvedDependency(bean, field, target string) *Error {
	return (&Error{
		Code:    CodeUnresolvedDependency,
		Message: fmt.Sprintf("%s.%s: no bean named %q", bean, field, target),
	}).With("bean", bean).With("field", field).With("target", target)
}

// Injection reports a setter that rejected the resolved value.
func Injection(bean, field string, cause error) *Error {
	return (&Error{
		Code:    CodeInjection,
		Message: fmt.Sprintf("cannot inject %s.%s", bean, field),
		Cause:   cause,
	}).With("bean", bean).With("field", field)
}

// DuplicateRoute reports two handlers mapped to the same normalized path.
func DuplicateRoute(path, previous, next string) *Error {
	return (&Error{
		Code:    CodeDuplicateRoute,
		Message: fmt.Sprintf("route %s mapped by both %s and %s", path, previous, next),
	}).With("path", path)
}

// RouteNotFound reports a normalized path with no handler.
func RouteNotFound(path string) *Error {
	return (&Error{
		Code:    CodeRouteNotFound,
		Message: fmt.Sprintf("no handler for %s", path),
	}).With("path", path)
}

// Invocation reports a handler that failed or could not be called.
func Invocation(handler string, cause error) *Error {
	return (&Error{
		Code:    CodeInvocation,
		Message: fmt.Sprintf("invoke %s", handler),
		Cause:   cause,
	}).With("handler", handler)
}

// Config reports a missing or invalid configuration value.
func Config(key string, cause error) *Error {
	return (&Error{
		Code:    CodeConfig,
		Message: fmt.Sprintf("invalid configuration %s", key),
		Cause:   cause,
	}).With("key", key)
}

// ContainerFrozen reports a write attempted after the container was frozen.
func ContainerFrozen(name string) *Error {
	return (&Error{
		Code:    CodeContainerFrozen,
		Message: fmt.Sprintf("container is frozen, cannot bind %q", name),
	}).With("name", name)
}

// ── stdlib re-exports ─────────────────────────────────────────────────────────

func Is(err, target error) bool { return errors.Is(err, target) }

func As(err error, target any) bool { return errors.As(err, target) }

func New(text string) error { return errors.New(text) }

// Code returns the code of the first *Error in err's chain, or "".
func Code(err error) string {
	var e *Error
	if errors.As(err, &e) {
		return e.Code
	}
	return ""
}

// IsFatal reports whether err should abort startup. Errors outside this
// taxonomy are treated as fatal.
func IsFatal(err error) bool {
	if err == nil {
		return false
	}
	var e *Error
	if errors.As(err, &e) {
		return e.Fatal()
	}
	return true
}
