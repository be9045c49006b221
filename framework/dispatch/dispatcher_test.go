package dispatch_test

import (
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"

	"github.com/km-arc/go-mvc/framework/component"
	"github.com/km-arc/go-mvc/framework/container"
	"github.com/km-arc/go-mvc/framework/dispatch"
	mvcerrors "github.com/km-arc/go-mvc/framework/errors"
	"github.com/km-arc/go-mvc/framework/metrics"
	"github.com/km-arc/go-mvc/framework/routing"
)

// ── fixtures ──────────────────────────────────────────────────────────────────

type calcAction struct{}

func (calcAction) Mappings() []routing.Mapping {
	return []routing.Mapping{
		{
			Method: "Add",
			Path:   "/add",
			Params: []routing.ParamSpec{routing.Request(), routing.Response(), routing.Named("a"), routing.Named("b")},
			Invoke: func(args routing.Args) (any, error) {
				w, err := args.Response(1)
				if err != nil {
					return nil, err
				}
				a, _ := args.String(2)
				b, _ := args.String(3)
				_, err = io.WriteString(w, a+"|"+b)
				return nil, err
			},
		},
		{
			Method: "Echo",
			Path:   "/echo",
			Params: []routing.ParamSpec{routing.Named("v")},
			Invoke: func(args routing.Args) (any, error) { return args.String(0) },
		},
		{
			Method: "Info",
			Path:   "/info",
			Params: []routing.ParamSpec{routing.Text(), routing.Named(" ")},
			Invoke: func(args routing.Args) (any, error) {
				return map[string]bool{"first": args[0] == nil, "second": args[1] == nil}, nil
			},
		},
		{
			Method: "Boom",
			Path:   "/boom",
			Invoke: func(routing.Args) (any, error) { panic("kaboom") },
		},
		{
			Method: "Partial",
			Path:   "/partial",
			Params: []routing.ParamSpec{routing.Response()},
			Invoke: func(args routing.Args) (any, error) {
				w, _ := args.Response(0)
				_, _ = io.WriteString(w, "partial")
				return nil, errors.New("late failure")
			},
		},
		{
			Method: "Bad",
			Path:   "/bad",
			Params: []routing.ParamSpec{routing.Named("x")},
			Invoke: func(args routing.Args) (any, error) {
				_, err := args.Request(0)
				return nil, err
			},
		},
	}
}

func setup(t *testing.T, opts ...dispatch.Option) (*dispatch.Dispatcher, *observer.ObservedLogs) {
	t.Helper()
	cat := component.NewCatalog()
	cat.Register(component.Descriptor{
		Name:  "example.com/app/web.CalcAction",
		Kind:  component.KindController,
		Route: "calc",
		New:   func() (any, error) { return calcAction{}, nil },
	})
	c := container.New()
	require.NoError(t, c.Build(cat, cat.Names()))
	table, err := routing.BuildTable(c, nil, false)
	require.NoError(t, err)
	c.Freeze()

	core, logs := observer.New(zapcore.WarnLevel)
	opts = append([]dispatch.Option{dispatch.WithLogger(zap.New(core))}, opts...)
	return dispatch.New(c, table, opts...), logs
}

func serve(d http.Handler, method, target string) *httptest.ResponseRecorder {
	rec := httptest.NewRecorder()
	d.ServeHTTP(rec, httptest.NewRequest(method, target, nil))
	return rec
}

// ── tests ─────────────────────────────────────────────────────────────────────

func TestDispatch_BindsNamedParams(t *testing.T) {
	d, _ := setup(t)

	for _, method := range []string{http.MethodGet, http.MethodPost} {
		rec := serve(d, method, "/calc/add?a=2&b=3")
		assert.Equal(t, http.StatusOK, rec.Code, method)
		assert.Equal(t, "2|3", rec.Body.String(), method)
	}
}

func TestDispatch_FormBody(t *testing.T) {
	d, _ := setup(t)
	req := httptest.NewRequest(http.MethodPost, "/calc/add?b=9", strings.NewReader("a=4"))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	rec := httptest.NewRecorder()
	d.ServeHTTP(rec, req)

	assert.Equal(t, "4|9", rec.Body.String())
}

func TestDispatch_AbsentParamIsEmpty(t *testing.T) {
	d, _ := setup(t)
	assert.Equal(t, "|3", serve(d, http.MethodGet, "/calc/add?b=3").Body.String())
}

func TestDispatch_Rendering(t *testing.T) {
	tests := []struct {
		name  string
		mode  dispatch.Rendering
		query string
		want  string
	}{
		{"legacy single", dispatch.Legacy, "v=x", "x"},
		{"legacy multi", dispatch.Legacy, "v=x&v=y", "x,,y"},
		{"legacy inner space", dispatch.Legacy, "v=a+b", "a,b"},
		{"legacy brackets stripped", dispatch.Legacy, "v=%5Bz%5D", "z"},
		{"joined multi", dispatch.Joined, "v=x&v=y", "x,y"},
		{"joined keeps spaces", dispatch.Joined, "v=a+b", "a b"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			d, _ := setup(t, dispatch.WithRendering(tt.mode))
			rec := serve(d, http.MethodGet, "/calc/echo?"+tt.query)
			assert.Equal(t, tt.want, rec.Body.String())
			assert.True(t, strings.HasPrefix(rec.Header().Get("Content-Type"), "text/plain"))
		})
	}
}

func TestDispatch_UnmarkedParamsBindNil(t *testing.T) {
	d, _ := setup(t)
	rec := serve(d, http.MethodGet, "/calc/info?x=1")
	assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))
	assert.JSONEq(t, `{"data":{"first":true,"second":true}}`, rec.Body.String())
}

func TestDispatch_NormalizesPath(t *testing.T) {
	d, _ := setup(t)
	assert.Equal(t, "2|3", serve(d, http.MethodGet, "//calc///add?a=2&b=3").Body.String())
}

func TestDispatch_ContextPath(t *testing.T) {
	d, _ := setup(t, dispatch.WithContextPath("/app/"))

	tests := []struct {
		raw  string
		want string
		ok   bool
	}{
		{"/app//calc/add", "/calc/add", true},
		{"/app/calc/add", "/calc/add", true},
		{"/app", "/", true},
		{"/app/", "/", true},
		{"/calc/add", "/calc/add", false},
		{"/application/calc/add", "/application/calc/add", false},
		{"/x/app/calc/add", "/x/app/calc/add", false},
	}
	for _, tt := range tests {
		got, ok := d.Resolve(tt.raw)
		assert.Equal(t, tt.ok, ok, tt.raw)
		assert.Equal(t, tt.want, got, tt.raw)
	}

	assert.Equal(t, "2|3", serve(d, http.MethodGet, "/app/calc/add?a=2&b=3").Body.String())
	assert.Equal(t, http.StatusNotFound, serve(d, http.MethodGet, "/calc/add?a=2&b=3").Code)
	assert.Equal(t, http.StatusNotFound, serve(d, http.MethodGet, "/application/calc/add").Code)
	assert.Equal(t, http.StatusNotFound, serve(d, http.MethodGet, "/appcalc/add").Code)

	err := d.Dispatch(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/", nil), "/calc/add", nil)
	assert.ErrorIs(t, err, mvcerrors.ErrRouteNotFound)
}

func TestDispatch_NotFound(t *testing.T) {
	d, logs := setup(t)

	rec := serve(d, http.MethodGet, "/calc/missing")
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.JSONEq(t, `{"message":"Not found."}`, rec.Body.String())
	require.Equal(t, 1, logs.FilterMessage("route not found").Len())
	fields := logs.FilterMessage("route not found").All()[0].ContextMap()
	assert.Equal(t, http.MethodGet, fields["method"])
	assert.Equal(t, "/calc/missing", fields["path"])

	err := d.Dispatch(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/", nil), "/nope", nil)
	assert.ErrorIs(t, err, mvcerrors.ErrRouteNotFound)
	assert.False(t, mvcerrors.IsFatal(err))
}

func TestDispatch_PanicBecomesInvocationError(t *testing.T) {
	d, logs := setup(t)

	rec := serve(d, http.MethodGet, "/calc/boom")
	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	require.Equal(t, 1, logs.FilterMessage("dispatch failed").Len())

	err := d.Dispatch(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/", nil), "/calc/boom", nil)
	assert.ErrorIs(t, err, mvcerrors.ErrInvocation)
	assert.ErrorContains(t, err, "kaboom")
}

func TestDispatch_ErrorAfterWriteKeepsResponse(t *testing.T) {
	d, logs := setup(t)

	rec := serve(d, http.MethodGet, "/calc/partial")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "partial", rec.Body.String())
	assert.Equal(t, 1, logs.FilterMessage("dispatch failed").Len())
}

func TestDispatch_ArgumentMismatch(t *testing.T) {
	d, _ := setup(t)
	err := d.Dispatch(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/", nil), "/calc/bad", url.Values{"x": {"1"}})
	assert.ErrorIs(t, err, mvcerrors.ErrInvocation)
	assert.ErrorContains(t, err, "type mismatch")
}

func TestDispatch_MissingOwnerBean(t *testing.T) {
	cat := component.NewCatalog()
	cat.Register(component.Descriptor{
		Name: "example.com/app/web.CalcAction",
		Kind: component.KindController,
		New:  func() (any, error) { return calcAction{}, nil },
	})
	c := container.New()
	require.NoError(t, c.Build(cat, cat.Names()))
	table, err := routing.BuildTable(c, nil, false)
	require.NoError(t, err)

	orphan := dispatch.New(container.New(), table)
	err = orphan.Dispatch(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/", nil), "/echo", nil)
	assert.ErrorIs(t, err, mvcerrors.ErrInvocation)
}

func TestDispatch_Metrics(t *testing.T) {
	m := metrics.New(false)
	d, _ := setup(t, dispatch.WithMetrics(m))

	serve(d, http.MethodGet, "/calc/echo?v=1")
	serve(d, http.MethodGet, "/calc/nowhere")
	serve(d, http.MethodGet, "/calc/boom")

	rec := httptest.NewRecorder()
	m.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	body := rec.Body.String()
	assert.Contains(t, body, `mvc_dispatch_total{outcome="ok"} 1`)
	assert.Contains(t, body, `mvc_dispatch_total{outcome="not_found"} 1`)
	assert.Contains(t, body, `mvc_dispatch_total{outcome="error"} 1`)
}

func TestDispatch_Concurrent(t *testing.T) {
	d, _ := setup(t)

	var wg sync.WaitGroup
	for i := range 64 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			rec := serve(d, http.MethodGet, fmt.Sprintf("/calc/add?a=%d&b=%d", i, i+1))
			assert.Equal(t, fmt.Sprintf("%d|%d", i, i+1), rec.Body.String())
		}()
	}
	wg.Wait()
}

func TestParseRendering(t *testing.T) {
	r, err := dispatch.ParseRendering("")
	require.NoError(t, err)
	assert.Equal(t, dispatch.Legacy, r)

	r, err = dispatch.ParseRendering(" Joined ")
	require.NoError(t, err)
	assert.Equal(t, dispatch.Joined, r)

	_, err = dispatch.ParseRendering("csv")
	assert.Error(t, err)
}
