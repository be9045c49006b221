// Package container provides the IoC container of the framework and the
// service-provider hooks used to seed it with framework beans.
//
// # Lifecycle
//
//  1. Create: c := container.New(container.WithLogger(log))
//  2. Providers: registry.Register(&providers.ConfigServiceProvider{...})
//  3. Instantiate: c.Build(catalog, ids) (managed components only)
//  4. Inject: c.Inject(strict) resolves InjectionPoints by name
//  5. Boot providers, then c.Freeze(); the container is read-only from here on
//
// # Naming
//
// Controllers are stored under their simple type name with the first letter
// lowercased ("DemoAction" → "demoAction"). Services use their explicit bean
// name when set, the same convention otherwise, and are additionally bound
// under each declared contract:
//
//	component.Register(component.Descriptor{
//	    Name:      component.NameOf[DemoServiceImpl](),
//	    Kind:      component.KindService,
//	    Contracts: []string{component.NameOf[service.DemoService]()},
//	    New:       func() (any, error) { return &DemoServiceImpl{}, nil },
//	})
//
// A contract may be claimed by one service only; a second claim fails the
// build with DUPLICATE_BINDING.
//
// # Resolving
//
//	raw, ok := c.Make("demoAction")
//	svc, err := container.Resolve[service.DemoService](c, component.NameOf[service.DemoService]())
package container
