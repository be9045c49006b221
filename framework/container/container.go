package container

import (
	"fmt"
	"sort"
	"sync"

	"go.uber.org/zap"

	"github.com/km-arc/go-mvc/framework/component"
	mvcerrors "github.com/km-arc/go-mvc/framework/errors"
)

// ── Bean ──────────────────────────────────────────────────────────────────────

// Bean is one named instance held by the container.
type Bean struct {
	Name       string
	Descriptor component.Descriptor
	Instance   any
}

// ── Container ─────────────────────────────────────────────────────────────────

// Container is the IoC registry: bean name → instance, plus contract name →
// bean name. It is filled during bootstrap (Instance, Build, Inject), then
// frozen; after Freeze every write fails with CONTAINER_FROZEN and the
// container is safe for concurrent reads.
type Container struct {
	mu sync.RWMutex

	// bean name → bean
	beans map[string]*Bean

	// bean names in insertion order
	order []string

	// contract → bean name
	contracts map[string]string

	// injection points left unset by the last Inject pass
	unresolved []*mvcerrors.Error

	frozen bool
	log    *zap.Logger
}

// Option configures a Container.
type Option func(*Container)

// WithLogger sets the logger used for bootstrap diagnostics.
func WithLogger(l *zap.Logger) Option {
	return func(c *Container) { c.log = l }
}

// New creates an empty container.
func New(opts ...Option) *Container {
	c := &Container{
		beans:     make(map[string]*Bean),
		contracts: make(map[string]string),
		log:       zap.NewNop(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// ── Registration ──────────────────────────────────────────────────────────────

// Instance registers a pre-built value under name. Framework providers use it
// for "config", "logger" and "metrics".
//
//	c.Instance("config", cfg)
func (c *Container) Instance(name string, instance any) error {
	return c.add(&Bean{Name: name, Instance: instance})
}

// Bind binds contract to an existing bean. A contract may be claimed once
// and never shadows a bean name.
func (c *Container) Bind(contract, beanName string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.frozen {
		return mvcerrors.ContainerFrozen(contract)
	}
	if _, ok := c.beans[beanName]; !ok {
		return fmt.Errorf("container: bind %s: no bean named %q", contract, beanName)
	}
	if existing, ok := c.contracts[contract]; ok {
		return mvcerrors.DuplicateBinding(contract, existing)
	}
	if _, ok := c.beans[contract]; ok {
		return mvcerrors.DuplicateBinding(contract, contract)
	}
	c.contracts[contract] = beanName
	return nil
}

func (c *Container) add(b *Bean) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.frozen {
		return mvcerrors.ContainerFrozen(b.Name)
	}
	if existing, ok := c.beans[b.Name]; ok {
		return mvcerrors.DuplicateBinding(b.Name, existing.Name)
	}
	if owner, ok := c.contracts[b.Name]; ok {
		return mvcerrors.DuplicateBinding(b.Name, owner)
	}
	c.beans[b.Name] = b
	c.order = append(c.order, b.Name)
	return nil
}

// Freeze ends the bootstrap phase.
func (c *Container) Freeze() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.frozen = true
}

// Frozen returns true once Freeze has been called.
func (c *Container) Frozen() bool {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.frozen
}

// ── Resolution ────────────────────────────────────────────────────────────────

// Make resolves a bean name or a contract name to its instance.
func (c *Container) Make(name string) (any, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	if b := c.lookup(name); b != nil {
		return b.Instance, true
	}
	return nil, false
}

// Bean returns the bean registered under a bean or contract name.
func (c *Container) Bean(name string) (*Bean, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	b := c.lookup(name)
	return b, b != nil
}

func (c *Container) lookup(name string) *Bean {
	if b, ok := c.beans[name]; ok {
		return b
	}
	if bean, ok := c.contracts[name]; ok {
		return c.beans[bean]
	}
	return nil
}

// Bound returns true if name is a bean or contract name.
func (c *Container) Bound(name string) bool {
	_, ok := c.Make(name)
	return ok
}

// Beans returns every bean in insertion order.
func (c *Container) Beans() []*Bean {
	c.mu.RLock()
	defer c.mu.RUnlock()
	out := make([]*Bean, 0, len(c.order))
	for _, name := range c.order {
		out = append(out, c.beans[name])
	}
	return out
}

// Names returns bean names in insertion order.
func (c *Container) Names() []string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return append([]string(nil), c.order...)
}

// Contracts returns the sorted contract names bound so far.
func (c *Container) Contracts() []string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	out := make([]string, 0, len(c.contracts))
	for k := range c.contracts {
		out = append(out, k)
	}
	sort.Strings(out)
	return out
}

// Unresolved returns the injection points the last Inject pass skipped.
func (c *Container) Unresolved() []*mvcerrors.Error {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return append([]*mvcerrors.Error(nil), c.unresolved...)
}

// ── Generics helper ───────────────────────────────────────────────────────────

// Resolve calls Make and type-asserts the result.
//
//	log, err := container.Resolve[*zap.Logger](c, "logger")
func Resolve[T any](c *Container, name string) (T, error) {
	var zero T
	instance, ok := c.Make(name)
	if !ok {
		return zero, mvcerrors.UnresolvedDependency("container", "Resolve", name)
	}
	typed, ok := instance.(T)
	if !ok {
		return zero, fmt.Errorf("container: Resolve[%T]: [%s] resolved to %T", zero, name, instance)
	}
	return typed, nil
}

// MustResolve is like Resolve but panics on failure. Use it only where the
// binding is guaranteed by a framework provider.
func MustResolve[T any](c *Container, name string) T {
	typed, err := Resolve[T](c, name)
	if err != nil {
		panic(err)
	}
	return typed
}
