package container

import (
	"fmt"
	"strings"

	"go.uber.org/zap"

	"github.com/km-arc/go-mvc/framework/component"
	mvcerrors "github.com/km-arc/go-mvc/framework/errors"
	"github.com/km-arc/go-mvc/framework/naming"
)

// Build instantiates every managed component among ids and stores it under
// its bean name. Unmanaged components are skipped. The first failure aborts
// the pass.
//
// Controllers are named after their simple type name with the first letter
// lowercased; services use their explicit BeanName when non-blank and are
// also bound under every contract they declare.
func (c *Container) Build(catalog *component.Catalog, ids []string) error {
	for _, id := range ids {
		d, ok := catalog.Lookup(id)
		if !ok {
			return mvcerrors.Discovery(id, mvcerrors.New("component not in catalog"))
		}
		if d.Kind == component.KindNone {
			continue
		}

		name := BeanNameOf(d)
		instance, err := construct(d)
		if err != nil {
			return err
		}
		if err := c.add(&Bean{Name: name, Descriptor: d, Instance: instance}); err != nil {
			return err
		}
		c.log.Debug("instantiated component",
			zap.String("bean", name),
			zap.String("component", d.Name),
			zap.Stringer("kind", d.Kind),
		)

		if d.Kind != component.KindService {
			continue
		}
		for _, contract := range d.Contracts {
			if err := c.Bind(contract, name); err != nil {
				return err
			}
			c.log.Debug("bound contract", zap.String("contract", contract), zap.String("bean", name))
		}
	}
	return nil
}

// BeanNameOf applies the naming convention to a descriptor.
func BeanNameOf(d component.Descriptor) string {
	if d.Kind == component.KindService {
		if explicit := strings.TrimSpace(d.BeanName); explicit != "" {
			return explicit
		}
	}
	return naming.BeanName(d.SimpleName())
}

func construct(d component.Descriptor) (instance any, err error) {
	if d.New == nil {
		return nil, mvcerrors.Instantiation(d.Name, mvcerrors.New("no constructor"))
	}
	defer func() {
		if r := recover(); r != nil {
			instance = nil
			err = mvcerrors.Instantiation(d.Name, fmt.Errorf("constructor panicked: %v", r))
		}
	}()
	instance, err = d.New()
	if err != nil {
		return nil, mvcerrors.Instantiation(d.Name, err)
	}
	if instance == nil {
		return nil, mvcerrors.Instantiation(d.Name, mvcerrors.New("constructor returned nil"))
	}
	return instance, nil
}
