package routing

import (
	"sort"

	"go.uber.org/zap"

	"github.com/km-arc/go-mvc/framework/component"
	"github.com/km-arc/go-mvc/framework/container"
	mvcerrors "github.com/km-arc/go-mvc/framework/errors"
	"github.com/km-arc/go-mvc/framework/naming"
)

// Entry is the handler reference stored for one normalized path.
type Entry struct {
	Path string
	// Bean is the owning controller's bean name, derived from the declaring
	// type with the container's naming convention.
	Bean      string
	Component string
	Mapping   Mapping
}

// Handler renders "demoAction.Query".
func (e *Entry) Handler() string { return e.Bean + "." + e.Mapping.Method }

// RouteInfo is the outward view of one entry.
type RouteInfo struct {
	Path      string `yaml:"path" json:"path"`
	Bean      string `yaml:"bean" json:"bean"`
	Signature string `yaml:"signature" json:"signature"`
}

// Table maps normalized paths to handlers. It is built once and read-only
// afterwards.
type Table struct {
	entries map[string]*Entry
}

// BuildTable walks every controller bean of c and maps each of its methods
// under "/" + base + "/" + suffix with slash runs collapsed. A path mapped
// twice keeps the later handler and logs a warning; in strict mode it fails
// with DUPLICATE_ROUTE.
func BuildTable(c *container.Container, log *zap.Logger, strict bool) (*Table, error) {
	if log == nil {
		log = zap.NewNop()
	}
	t := &Table{entries: make(map[string]*Entry)}

	for _, b := range c.Beans() {
		if b.Descriptor.Kind != component.KindController {
			continue
		}
		ctrl, ok := b.Instance.(Controller)
		if !ok {
			log.Warn("controller exposes no mappings", zap.String("bean", b.Name))
			continue
		}
		owner := naming.BeanName(b.Descriptor.SimpleName())

		for _, m := range ctrl.Mappings() {
			e := &Entry{
				Path:      naming.JoinRoute(b.Descriptor.Route, m.Path),
				Bean:      owner,
				Component: b.Descriptor.Name,
				Mapping:   m,
			}
			if prev, dup := t.entries[e.Path]; dup {
				if strict {
					return nil, mvcerrors.DuplicateRoute(e.Path, prev.Handler(), e.Handler())
				}
				log.Warn("route overwritten",
					zap.String("path", e.Path),
					zap.String("previous", prev.Handler()),
					zap.String("handler", e.Handler()),
				)
			}
			t.entries[e.Path] = e
			log.Info("Mapped", zap.String("path", e.Path), zap.String("handler", e.Bean+"."+m.Signature()))
		}
	}
	return t, nil
}

// Lookup returns the entry for an already-normalized path.
func (t *Table) Lookup(path string) (*Entry, bool) {
	e, ok := t.entries[path]
	return e, ok
}

// Len returns the number of mapped paths.
func (t *Table) Len() int { return len(t.entries) }

// Entries lists (path, bean, signature) sorted by path.
func (t *Table) Entries() []RouteInfo {
	out := make([]RouteInfo, 0, len(t.entries))
	for _, e := range t.entries {
		out = append(out, RouteInfo{Path: e.Path, Bean: e.Bean, Signature: e.Mapping.Signature()})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Path < out[j].Path })
	return out
}
