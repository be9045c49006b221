package action_test

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	_ "github.com/km-arc/go-mvc/demo/action"
	_ "github.com/km-arc/go-mvc/demo/service/impl"
	"github.com/km-arc/go-mvc/framework/app"
	"github.com/km-arc/go-mvc/framework/config"
	"github.com/km-arc/go-mvc/framework/routing"
)

func demoApp(t *testing.T) http.Handler {
	t.Helper()
	a := app.New(&config.Config{
		App: config.AppConfig{Name: "demo", Env: "testing", Port: "0"},
		MVC: config.MVCConfig{
			ScanPackage:    "github.com/km-arc/go-mvc/demo",
			Strict:         true,
			ParamRendering: "legacy",
		},
	})
	require.NoError(t, a.Build())
	assert.Equal(t, []routing.RouteInfo{
		{Path: "/demo/add", Bean: "demoAction", Signature: "Add(request, response, a string, b string)"},
		{Path: "/demo/query", Bean: "demoAction", Signature: "Query(request, response, name string)"},
		{Path: "/demo/remove", Bean: "demoAction", Signature: "Remove(response, id string)"},
	}, a.Routes())
	return a.Handler()
}

func TestDemoAction(t *testing.T) {
	h := demoApp(t)

	tests := []struct {
		name   string
		method string
		target string
		status int
		body   string
	}{
		{"query", http.MethodGet, "/demo/query?name=bob", http.StatusOK, "my name is \tbob"},
		{"query post", http.MethodPost, "/demo/query?name=ann", http.StatusOK, "my name is \tann"},
		{"query absent", http.MethodGet, "/demo/query", http.StatusOK, "my name is \t"},
		{"add", http.MethodGet, "/demo/add?a=2&b=3", http.StatusOK, "2+3=5"},
		{"add negative", http.MethodGet, "/demo//add?a=-2&b=3", http.StatusOK, "-2+3=1"},
		{"remove", http.MethodGet, "/demo/remove?id=7", http.StatusOK, "7"},
		{"remove absent", http.MethodGet, "/demo/remove", http.StatusOK, ""},
		{"head", http.MethodHead, "/demo/remove?id=7", http.StatusOK, "7"},
		{"unmapped", http.MethodGet, "/demo/list", http.StatusNotFound, `{"message":"Not found."}` + "\n"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := httptest.NewRecorder()
			h.ServeHTTP(rec, httptest.NewRequest(tt.method, tt.target, nil))
			assert.Equal(t, tt.status, rec.Code)
			assert.Equal(t, tt.body, rec.Body.String())
		})
	}
}

func TestDemoAction_AddRejectsNonIntegers(t *testing.T) {
	h := demoApp(t)

	for _, target := range []string{"/demo/add?a=x&b=3", "/demo/add?b=3", "/demo/add?a=1&a=2&b=3"} {
		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, target, nil))
		assert.Equal(t, http.StatusUnprocessableEntity, rec.Code, target)
		assert.Contains(t, rec.Body.String(), `"a":["The a`, target)
	}
}

func TestDemoAction_RejectsInvalidInput(t *testing.T) {
	h := demoApp(t)

	tests := []struct {
		target string
		field  string
	}{
		{"/demo/query?name=b", "name"},
		{"/demo/query?name=" + strings.Repeat("x", 65), "name"},
		{"/demo/remove?id=abc", "id"},
		{"/demo/remove?id=" + strings.Repeat("9", 21), "id"},
	}
	for _, tt := range tests {
		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, tt.target, nil))
		assert.Equal(t, http.StatusUnprocessableEntity, rec.Code, tt.target)
		assert.Contains(t, rec.Body.String(), `"`+tt.field+`":["The `+tt.field, tt.target)
	}
}
