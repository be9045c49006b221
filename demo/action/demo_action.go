// Package action holds the HTTP controllers of the demo application.
package action

import (
	"fmt"
	"io"
	"net/http"
	"strconv"

	"go.uber.org/zap"

	"github.com/km-arc/go-mvc/demo/service"
	"github.com/km-arc/go-mvc/framework/component"
	mvchttp "github.com/km-arc/go-mvc/framework/http"
	"github.com/km-arc/go-mvc/framework/http/validation"
	"github.com/km-arc/go-mvc/framework/routing"
)

func init() {
	component.Register(component.Descriptor{
		Name:  component.NameOf[DemoAction](),
		Kind:  component.KindController,
		Route: "/demo",
		New:   func() (any, error) { return &DemoAction{}, nil },
	})
}

// DemoAction serves /demo/query, /demo/add and /demo/remove.
type DemoAction struct {
	demoService service.DemoService
	log         *zap.Logger
}

func (a *DemoAction) InjectionPoints() []component.InjectionPoint {
	return []component.InjectionPoint{
		component.Inject("demoService", &a.demoService),
		component.Inject("log", &a.log, "logger"),
	}
}

func (a *DemoAction) Mappings() []routing.Mapping {
	return []routing.Mapping{
		{
			Method: "Query",
			Path:   "/query",
			Params: []routing.ParamSpec{routing.Request(), routing.Response(), routing.Named("name")},
			Invoke: func(args routing.Args) (any, error) {
				w, err := args.Response(1)
				if err != nil {
					return nil, err
				}
				name, err := args.String(2)
				if err != nil {
					return nil, err
				}
				return nil, a.Query(w, name)
			},
		},
		{
			Method: "Add",
			Path:   "/add",
			Params: []routing.ParamSpec{routing.Request(), routing.Response(), routing.Named("a"), routing.Named("b")},
			Invoke: func(args routing.Args) (any, error) {
				w, err := args.Response(1)
				if err != nil {
					return nil, err
				}
				x, err := args.String(2)
				if err != nil {
					return nil, err
				}
				y, err := args.String(3)
				if err != nil {
					return nil, err
				}
				return nil, a.Add(w, x, y)
			},
		},
		{
			Method: "Remove",
			Path:   "/remove",
			Params: []routing.ParamSpec{routing.Named("id")},
			Invoke: func(args routing.Args) (any, error) {
				id, err := args.String(0)
				if err != nil {
					return nil, err
				}
				return a.Remove(id), nil
			},
		},
	}
}

// Query writes the service greeting for name. Names outside 2..64
// characters answer 422; an absent name is allowed.
func (a *DemoAction) Query(w http.ResponseWriter, name string) error {
	if !valid(w, map[string]string{"name": name}, validation.Rules{"name": "sometimes|min:2|max:64"}) {
		return nil
	}
	_, err := io.WriteString(w, a.service().Get(name))
	return err
}

// Add writes "a+b=sum". Non-integer operands answer 422.
func (a *DemoAction) Add(w http.ResponseWriter, x, y string) error {
	if !valid(w, map[string]string{"a": x, "b": y}, validation.Rules{
		"a": "required|integer",
		"b": "required|integer",
	}) {
		return nil
	}
	i, _ := strconv.Atoi(x)
	j, _ := strconv.Atoi(y)
	_, err := fmt.Fprintf(w, "%d+%d=%d", i, j, i+j)
	return err
}

// Remove echoes the id it was asked to remove.
func (a *DemoAction) Remove(id string) string {
	a.logger().Info("remove", zap.String("id", id))
	return id
}

func (a *DemoAction) service() service.DemoService {
	if a.demoService == nil {
		panic("demoService not injected")
	}
	return a.demoService
}

func (a *DemoAction) logger() *zap.Logger {
	if a.log == nil {
		return zap.NewNop()
	}
	return a.log
}

// valid answers 422 with the error bag when data fails rules.
func valid(w http.ResponseWriter, data map[string]string, rules validation.Rules) bool {
	v := validation.Make(data, rules)
	if v.Fails() {
		mvchttp.NewResponse(w).ValidationError(v.Errors())
		return false
	}
	return true
}
