package component

import (
	"fmt"
	"strings"
)

// InjectionPoint is one injectable field of a component: the analogue of a
// field carrying an inject marker. Set assigns the resolved bean regardless of
// the field's visibility.
type InjectionPoint struct {
	Field string
	// Name is the explicit target bean name; blank means Contract.
	Name string
	// Contract is the fully-qualified name of the field's declared type.
	Contract string
	Set      func(v any) error
}

// Target returns the bean name the point resolves against.
func (p InjectionPoint) Target() string {
	if name := strings.TrimSpace(p.Name); name != "" {
		return name
	}
	return p.Contract
}

// Injectable is implemented by components that declare injection points.
// Points are processed in the order returned.
type Injectable interface {
	InjectionPoints() []InjectionPoint
}

// Inject declares an injection point for the field dst of type T. The
// contract is T's fully-qualified name; an optional explicit name overrides it.
//
//	func (a *DemoAction) InjectionPoints() []component.InjectionPoint {
//	    return []component.InjectionPoint{
//	        component.Inject("demoService", &a.demoService),
//	        component.Inject("log", &a.log, "logger"),
//	    }
//	}
func Inject[T any](field string, dst *T, name ...string) InjectionPoint {
	p := InjectionPoint{
		Field:    field,
		Contract: NameOf[T](),
		Set: func(v any) error {
			typed, ok := v.(T)
			if !ok {
				return fmt.Errorf("%T is not assignable to %s", v, NameOf[T]())
			}
			*dst = typed
			return nil
		},
	}
	if len(name) > 0 {
		p.Name = name[0]
	}
	return p
}
