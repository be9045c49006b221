package component

import (
	"fmt"
	"reflect"
	"sort"
	"sync"

	"github.com/km-arc/go-mvc/framework/naming"
)

// ── Markers ───────────────────────────────────────────────────────────────────

// Kind is the managed-component marker carried by a Descriptor.
type Kind int

const (
	KindNone Kind = iota
	KindController
	KindService
)

func (k Kind) String() string {
	switch k {
	case KindController:
		return "controller"
	case KindService:
		return "service"
	default:
		return "none"
	}
}

// Constructor is the no-argument constructor of a component.
type Constructor func() (any, error)

// Descriptor is the static metadata of one discoverable component.
//
//	component.Register(component.Descriptor{
//	    Name:  component.NameOf[DemoAction](),
//	    Kind:  component.KindController,
//	    Route: "/demo",
//	    New:   func() (any, error) { return &DemoAction{}, nil },
//	})
type Descriptor struct {
	// Name is the fully-qualified identifier: "<import path>.<TypeName>".
	Name string
	Kind Kind
	// Route is the base route of a controller.
	Route string
	// BeanName is the explicit name of a service; blank means the default
	// naming convention.
	BeanName string
	// Contracts are the fully-qualified names of the interfaces a service
	// implements; the instance is also bound under each of them.
	Contracts []string
	// New constructs the component. Descriptors without a constructor are
	// not loadable and are ignored by the scanner.
	New Constructor
}

// SimpleName returns the type name without its package.
func (d Descriptor) SimpleName() string { return naming.SimpleName(d.Name) }

// Package returns the import path of the declaring package.
func (d Descriptor) Package() string { return naming.PackageOf(d.Name) }

// ── Catalog ───────────────────────────────────────────────────────────────────

// Catalog is the manifest of every component linked into the binary.
// Component packages add themselves from init(), the same way database/sql
// drivers register, and the scanner reads it back by package.
type Catalog struct {
	mu          sync.RWMutex
	descriptors map[string]Descriptor
}

// NewCatalog creates an empty catalog.
func NewCatalog() *Catalog {
	return &Catalog{descriptors: make(map[string]Descriptor)}
}

// Register adds a descriptor. Registering the same name twice is a
// programming error and panics.
func (c *Catalog) Register(d Descriptor) {
	if d.Name == "" {
		panic("component: descriptor without a name")
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	if _, exists := c.descriptors[d.Name]; exists {
		panic(fmt.Sprintf("component: %s already registered", d.Name))
	}
	c.descriptors[d.Name] = d
}

// Lookup returns the descriptor registered under name.
func (c *Catalog) Lookup(name string) (Descriptor, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	d, ok := c.descriptors[name]
	return d, ok
}

// Names returns every registered identifier in lexical order.
func (c *Catalog) Names() []string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	out := make([]string, 0, len(c.descriptors))
	for name := range c.descriptors {
		out = append(out, name)
	}
	sort.Strings(out)
	return out
}

// Len returns the number of registered descriptors.
func (c *Catalog) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.descriptors)
}

var defaultCatalog = NewCatalog()

// Default returns the process-wide catalog filled by init-time registrations.
func Default() *Catalog { return defaultCatalog }

// Register adds d to the default catalog.
func Register(d Descriptor) { defaultCatalog.Register(d) }

// ── Type names ────────────────────────────────────────────────────────────────

// NameOf returns the fully-qualified name of T, dereferencing pointers. It is
// used both for component identifiers and for contract names.
//
//	component.NameOf[service.DemoService]() // "github.com/km-arc/go-mvc/demo/service.DemoService"
func NameOf[T any]() string {
	t := reflect.TypeFor[T]()
	for t.Kind() == reflect.Pointer {
		t = t.Elem()
	}
	return t.PkgPath() + "." + t.Name()
}
