// Package dispatch routes HTTP requests to controller handlers through the
// route table: it normalizes the request path, binds handler parameters
// positionally and invokes the handler on its owning bean.
package dispatch

import (
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/go-chi/chi/v5/middleware"
	"go.uber.org/zap"

	"github.com/km-arc/go-mvc/framework/container"
	mvcerrors "github.com/km-arc/go-mvc/framework/errors"
	mvchttp "github.com/km-arc/go-mvc/framework/http"
	"github.com/km-arc/go-mvc/framework/metrics"
	"github.com/km-arc/go-mvc/framework/naming"
	"github.com/km-arc/go-mvc/framework/routing"
)

// Dispatcher is an http.Handler over a built container and route table.
// Both are read-only once serving starts, so one Dispatcher serves any
// number of concurrent requests.
type Dispatcher struct {
	container   *container.Container
	table       *routing.Table
	contextPath string
	rendering   Rendering
	log         *zap.Logger
	metrics     *metrics.Metrics
}

// Option configures a Dispatcher.
type Option func(*Dispatcher)

// WithContextPath sets the prefix removed from request paths before lookup.
func WithContextPath(p string) Option {
	return func(d *Dispatcher) { d.contextPath = strings.TrimRight(strings.TrimSpace(p), "/") }
}

// WithRendering sets the multi-value parameter rendering.
func WithRendering(r Rendering) Option {
	return func(d *Dispatcher) { d.rendering = r }
}

// WithLogger sets the logger.
func WithLogger(l *zap.Logger) Option {
	return func(d *Dispatcher) { d.log = l }
}

// WithMetrics records dispatch outcomes on m.
func WithMetrics(m *metrics.Metrics) Option {
	return func(d *Dispatcher) { d.metrics = m }
}

// New creates a Dispatcher.
func New(c *container.Container, t *routing.Table, opts ...Option) *Dispatcher {
	d := &Dispatcher{
		container: c,
		table:     t,
		rendering: Legacy,
		log:       zap.NewNop(),
	}
	for _, o := range opts {
		o(d)
	}
	return d
}

// Resolve maps a raw request path to its route table key: the context path
// is removed as a leading segment, then '/' runs are collapsed. It reports
// false for paths outside the context path.
func (d *Dispatcher) Resolve(rawPath string) (string, bool) {
	if d.contextPath != "" {
		rest, ok := strings.CutPrefix(rawPath, d.contextPath)
		if !ok || (rest != "" && rest[0] != '/') {
			return rawPath, false
		}
		rawPath = rest
	}
	if rawPath == "" {
		return "/", true
	}
	return naming.NormalizePath(rawPath), true
}

// Dispatch handles one request. params are the merged query and body
// parameters. It returns a ROUTE_NOT_FOUND error when no handler matches and
// an INVOCATION_ERROR when binding or the handler fails; writing an error
// response is left to the caller.
func (d *Dispatcher) Dispatch(w http.ResponseWriter, r *http.Request, rawPath string, params url.Values) error {
	return d.dispatch(middleware.NewWrapResponseWriter(w, r.ProtoMajor), r, rawPath, params)
}

// ServeHTTP parses the request parameters, dispatches, and answers a JSON 404
// for unmapped paths or a JSON 500 for failed handlers that wrote nothing.
// A string result is written as text/plain, any other non-nil result as
// {"data": result}.
func (d *Dispatcher) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	req := mvchttp.NewRequest(r)
	ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)

	err := d.dispatch(ww, r, req.Path(), req.Params())

	outcome := metrics.OutcomeOK
	switch {
	case err == nil:
	case errors.Is(err, mvcerrors.ErrRouteNotFound):
		outcome = metrics.OutcomeNotFound
		d.log.Warn("route not found",
			zap.String("request_id", middleware.GetReqID(r.Context())),
			zap.String("method", req.Method()),
			zap.String("path", req.Path()),
			zap.Error(err),
		)
		if ww.Status() == 0 {
			mvchttp.NewResponse(ww).NotFound()
		}
	default:
		outcome = metrics.OutcomeError
		d.log.Error("dispatch failed",
			zap.String("request_id", middleware.GetReqID(r.Context())),
			zap.String("method", req.Method()),
			zap.String("path", req.Path()),
			zap.Error(err),
		)
		if ww.Status() == 0 {
			mvchttp.NewResponse(ww).ServerError()
		}
	}
	d.metrics.ObserveDispatch(outcome, time.Since(start))
}

func (d *Dispatcher) dispatch(w middleware.WrapResponseWriter, r *http.Request, rawPath string, params url.Values) error {
	path, ok := d.Resolve(rawPath)
	if !ok {
		return mvcerrors.RouteNotFound(rawPath).With("context_path", d.contextPath)
	}
	entry, ok := d.table.Lookup(path)
	if !ok {
		return mvcerrors.RouteNotFound(path)
	}
	if !d.container.Bound(entry.Bean) {
		return mvcerrors.Invocation(entry.Handler(), fmt.Errorf("owner bean %q is not in the container", entry.Bean))
	}

	args := d.bind(entry.Mapping.Params, w, r, params)
	result, err := invoke(entry.Mapping, args)
	if err != nil {
		return mvcerrors.Invocation(entry.Handler(), err).With("path", path)
	}

	if result != nil && w.Status() == 0 {
		res := mvchttp.NewResponse(w)
		if s, ok := result.(string); ok {
			res.Text(http.StatusOK, s)
		} else {
			res.Success(result)
		}
	}
	return nil
}

// bind builds the positional arguments for specs.
func (d *Dispatcher) bind(specs []routing.ParamSpec, w http.ResponseWriter, r *http.Request, params url.Values) routing.Args {
	args := make(routing.Args, len(specs))
	for i, p := range specs {
		switch p.Kind {
		case routing.ParamRequest:
			args[i] = r
		case routing.ParamResponse:
			args[i] = w
		case routing.ParamNamed:
			name := strings.TrimSpace(p.Name)
			if name == "" {
				continue
			}
			values, present := params[name]
			if !present {
				args[i] = ""
				continue
			}
			args[i] = d.rendering.Render(values)
		}
	}
	return args
}

func invoke(m routing.Mapping, args routing.Args) (result any, err error) {
	if m.Invoke == nil {
		return nil, errors.New("mapping has no invoker")
	}
	defer func() {
		if rec := recover(); rec != nil {
			err = fmt.Errorf("handler panicked: %v", rec)
		}
	}()
	return m.Invoke(args)
}
