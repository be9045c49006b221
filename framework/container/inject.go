package container

import (
	"go.uber.org/zap"

	"github.com/km-arc/go-mvc/framework/component"
	mvcerrors "github.com/km-arc/go-mvc/framework/errors"
)

// Inject resolves the injection points of every bean. A point whose target
// is not bound is logged as a warning and left unset; with strict set it
// aborts the pass instead. A setter rejecting the resolved value always
// aborts. Running Inject twice yields the same assignments.
func (c *Container) Inject(strict bool) error {
	var unresolved []*mvcerrors.Error

	for _, b := range c.Beans() {
		injectable, ok := b.Instance.(component.Injectable)
		if !ok {
			continue
		}
		for _, p := range injectable.InjectionPoints() {
			target := p.Target()
			instance, ok := c.Make(target)
			if !ok {
				warn := mvcerrors.UnresolvedDependency(b.Name, p.Field, target)
				if strict {
					return warn
				}
				c.log.Warn("unresolved dependency",
					zap.String("bean", b.Name),
					zap.String("field", p.Field),
					zap.String("target", target),
				)
				unresolved = append(unresolved, warn)
				continue
			}
			if p.Set == nil {
				return mvcerrors.Injection(b.Name, p.Field, mvcerrors.New("no setter"))
			}
			if err := p.Set(instance); err != nil {
				return mvcerrors.Injection(b.Name, p.Field, err)
			}
			c.log.Debug("injected",
				zap.String("bean", b.Name),
				zap.String("field", p.Field),
				zap.String("target", target),
			)
		}
	}

	c.mu.Lock()
	c.unresolved = unresolved
	c.mu.Unlock()
	return nil
}
