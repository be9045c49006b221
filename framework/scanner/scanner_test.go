package scanner_test

import (
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/km-arc/go-mvc/framework/component"
	mvcerrors "github.com/km-arc/go-mvc/framework/errors"
	"github.com/km-arc/go-mvc/framework/scanner"
)

func newFn() (any, error) { return struct{}{}, nil }

func catalog() *component.Catalog {
	c := component.NewCatalog()
	c.Register(component.Descriptor{Name: "example.com/app/web.Home", New: newFn})
	c.Register(component.Descriptor{Name: "example.com/app/web/admin.Users", New: newFn})
	c.Register(component.Descriptor{Name: "example.com/app/service.Mailer", New: newFn})
	c.Register(component.Descriptor{Name: "example.com/app/web.Template"}) // not loadable
	c.Register(component.Descriptor{Name: "example.com/app/webhooks.Hook", New: newFn})
	return c
}

func TestScan_RecursesIntoSubPackages(t *testing.T) {
	ids, err := scanner.Scan(catalog(), "example.com/app/web")
	require.NoError(t, err)

	want := []string{"example.com/app/web.Home", "example.com/app/web/admin.Users"}
	if diff := cmp.Diff(want, ids); diff != "" {
		t.Errorf("Scan mismatch (-want +got):\n%s", diff)
	}
}

func TestScan_WholeTree(t *testing.T) {
	ids, err := scanner.Scan(catalog(), "example.com/app/")
	require.NoError(t, err)
	assert.Len(t, ids, 4)
	assert.NotContains(t, ids, "example.com/app/web.Template")
}

func TestScan_UnresolvableRoot(t *testing.T) {
	_, err := scanner.Scan(catalog(), "example.com/missing")
	require.Error(t, err)
	assert.ErrorIs(t, err, mvcerrors.ErrDiscovery)

	_, err = scanner.Scan(catalog(), "  ")
	assert.ErrorIs(t, err, mvcerrors.ErrDiscovery)
}

func TestScan_RootWithOnlyUnloadableUnits(t *testing.T) {
	c := component.NewCatalog()
	c.Register(component.Descriptor{Name: "example.com/docs.Readme"})

	ids, err := scanner.Scan(c, "example.com/docs")
	require.NoError(t, err)
	assert.Empty(t, ids)
}
