// Package impl holds the demo service implementations.
package impl

import (
	"sync/atomic"

	"github.com/km-arc/go-mvc/demo/service"
	"github.com/km-arc/go-mvc/framework/component"
)

func init() {
	component.Register(component.Descriptor{
		Name:      component.NameOf[DemoServiceImpl](),
		Kind:      component.KindService,
		Contracts: []string{component.NameOf[service.DemoService]()},
		New:       func() (any, error) { return &DemoServiceImpl{}, nil },
	})
}

// DemoServiceImpl is the default DemoService.
type DemoServiceImpl struct {
	calls atomic.Int64
}

var _ service.DemoService = (*DemoServiceImpl)(nil)

func (s *DemoServiceImpl) Get(name string) string {
	s.calls.Add(1)
	return "my name is \t" + name
}

// Calls returns how many times Get ran.
func (s *DemoServiceImpl) Calls() int64 { return s.calls.Load() }
