// Package scanner enumerates the components registered under a root package.
package scanner

import (
	"strings"

	"github.com/km-arc/go-mvc/framework/component"
	mvcerrors "github.com/km-arc/go-mvc/framework/errors"
)

// Scan returns the identifiers of every loadable component whose package is
// root or one of its sub-packages, in lexical order. Descriptors without a
// constructor are skipped. A blank root, or a root under which nothing at all
// is registered, is a DiscoveryError.
func Scan(catalog *component.Catalog, root string) ([]string, error) {
	root = strings.Trim(strings.TrimSpace(root), "/")
	if root == "" {
		return nil, mvcerrors.Discovery(root, mvcerrors.New("empty scan package"))
	}

	var (
		ids      []string
		resolved bool
	)
	for _, name := range catalog.Names() {
		d, _ := catalog.Lookup(name)
		if !underRoot(d.Package(), root) {
			continue
		}
		resolved = true
		if d.New == nil {
			continue
		}
		ids = append(ids, name)
	}

	if !resolved {
		return nil, mvcerrors.Discovery(root, mvcerrors.New("no package registered under scan root"))
	}
	return ids, nil
}

func underRoot(pkg, root string) bool {
	return pkg == root || strings.HasPrefix(pkg, root+"/")
}
